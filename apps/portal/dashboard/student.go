package dashboard

import (
	"context"

	"github.com/trezcool/edutrack/apps/portal/render"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/portal"
	apisvc "github.com/trezcool/edutrack/services/api"
)

type StudentAPI interface {
	StudentAssignments(ctx context.Context) ([]classroom.StudentAssignment, error)
	MySubmissions(ctx context.Context) ([]classroom.StudentSubmission, error)
	Profile(ctx context.Context) (classroom.Profile, error)
	Submit(ctx context.Context, sf apisvc.SubmissionForm) (classroom.Submission, error)
	Logout(ctx context.Context) error
	FileURL(filePath string) string
}

// Student is the student dashboard.
type Student struct {
	*controller
	api StudentAPI

	// guarded by controller.mutex
	assignments []classroom.StudentAssignment
	targetID    int
}

func NewStudent(api StudentAPI, deps Deps) *Student {
	return &Student{
		controller: newController(portal.StudentLayout, deps, api.Logout),
		api:        api,
	}
}

// Start gates the page and loads every section. It fails when the guard redirected away.
func (s *Student) Start(ctx context.Context) error {
	if err := s.enter(); err != nil {
		return err
	}
	s.loadAll(ctx)
	return nil
}

func (s *Student) loadAll(ctx context.Context) {
	s.load(ctx, s.loadAssignments, s.loadSubmissions, s.loadProfile)
}

func (s *Student) loadAssignments(ctx context.Context) {
	asgs, err := s.api.StudentAssignments(ctx)
	if err != nil {
		s.loadFailed("assignments", "Failed to load assignments", err)
		return
	}
	now := s.deps.Now()
	s.update(func() {
		s.assignments = asgs
		s.tally.Assignments = len(asgs)
		s.panels[portal.SectionAvailableAssignments] = render.AvailableAssignments(asgs, now, s.api.FileURL)
	})
}

func (s *Student) loadSubmissions(ctx context.Context) {
	subs, err := s.api.MySubmissions(ctx)
	if err != nil {
		s.loadFailed("submissions", "Failed to load submissions", err)
		return
	}
	s.update(func() {
		s.tally.Submissions = len(subs)
		s.panels[portal.SectionMySubmissions] = render.MySubmissions(subs, s.api.FileURL)
	})
}

func (s *Student) loadProfile(ctx context.Context) {
	prof, err := s.api.Profile(ctx)
	if err != nil {
		s.loadFailed("profile", "Failed to load profile", err)
		return
	}
	s.update(func() {
		s.tally.Totals = &portal.Totals{Total: prof.TotalAssignments, Completed: prof.CompletedAssignments}
		s.panels[portal.SectionStudentProfile] = render.Profile(prof)
	})
}

// Refresh reloads every section and stays on the current one.
func (s *Student) Refresh(ctx context.Context) {
	s.notify(portal.LevelInfo, "Refreshing data...")
	section := s.currentSection()
	s.loadAll(ctx)
	s.Navigate(section)
}

// OpenSubmission shows the submission form for the assignment.
// An empty title is looked up among the loaded assignments.
func (s *Student) OpenSubmission(id int, title string) {
	s.update(func() {
		if title == "" {
			for _, asg := range s.assignments {
				if asg.ID == id {
					title = asg.Title
					break
				}
			}
		}
		s.targetID = id
		s.panels[portal.SectionSubmissionForm] = render.SubmissionForm(title)
		s.state = s.layout.Navigate(s.state, portal.SectionSubmissionForm)
	})
}

// CancelSubmission resets the form and goes back to the assignments.
func (s *Student) CancelSubmission() {
	s.update(func() {
		s.targetID = 0
		s.state = s.layout.Navigate(s.state, portal.SectionAvailableAssignments)
	})
}

// TargetID is the assignment the submission form is open for, 0 if none.
func (s *Student) TargetID() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.targetID
}

// Submit sends the submission form. On success every section is reloaded.
func (s *Student) Submit(ctx context.Context, file *apisvc.File, notes string) bool {
	id := s.TargetID()
	if id == 0 {
		s.notify(portal.LevelError, "Please choose an assignment to submit")
		return false
	}

	if _, err := s.api.Submit(ctx, apisvc.SubmissionForm{AssignmentID: id, File: file, Notes: notes}); err != nil {
		s.mutationFailed("submission", "Failed to submit assignment", err)
		return false
	}

	s.notify(portal.LevelSuccess, "Assignment submitted successfully!")
	s.CancelSubmission()
	s.loadAll(ctx)
	return true
}
