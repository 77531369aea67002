package dashboard

import (
	"context"

	"github.com/trezcool/edutrack/apps/portal/render"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/portal"
	apisvc "github.com/trezcool/edutrack/services/api"
)

const msgDeleteConfirm = "Are you sure you want to delete this assignment? This action cannot be undone."

type TeacherAPI interface {
	TeacherAssignments(ctx context.Context) ([]classroom.TeacherAssignment, error)
	TeacherSubmissions(ctx context.Context) ([]classroom.TeacherSubmission, error)
	AssignmentSubmissions(ctx context.Context, id int) ([]classroom.TeacherSubmission, error)
	CreateAssignment(ctx context.Context, af apisvc.AssignmentForm) (classroom.Assignment, error)
	DeleteAssignment(ctx context.Context, id int) error
	Logout(ctx context.Context) error
	FileURL(filePath string) string
}

// Teacher is the teacher dashboard.
type Teacher struct {
	*controller
	api TeacherAPI

	// guarded by controller.mutex
	assignments []classroom.TeacherAssignment
}

func NewTeacher(api TeacherAPI, deps Deps) *Teacher {
	t := &Teacher{
		controller: newController(portal.TeacherLayout, deps, api.Logout),
		api:        api,
	}
	t.panels[portal.SectionCreateAssignment] = render.CreateAssignmentForm()
	return t
}

// Start gates the page and loads the assignments and submissions. It fails when the guard redirected away.
func (t *Teacher) Start(ctx context.Context) error {
	if err := t.enter(); err != nil {
		return err
	}
	t.loadAll(ctx)
	return nil
}

func (t *Teacher) loadAll(ctx context.Context) {
	t.load(ctx, t.loadAssignments, t.loadSubmissions)
}

func (t *Teacher) loadAssignments(ctx context.Context) {
	asgs, err := t.api.TeacherAssignments(ctx)
	if err != nil {
		t.loadFailed("assignments", "Failed to load assignments", err)
		return
	}
	t.update(func() {
		t.assignments = asgs
		t.tally.Assignments = len(asgs)
		t.panels[portal.SectionAssignmentsList] = render.TeacherAssignments(asgs, t.api.FileURL)
	})
}

func (t *Teacher) loadSubmissions(ctx context.Context) {
	subs, err := t.api.TeacherSubmissions(ctx)
	if err != nil {
		t.loadFailed("submissions", "Failed to load submissions", err)
		return
	}
	t.update(func() {
		t.tally.Submissions = len(subs)
		t.panels[portal.SectionSubmissionsList] = render.TeacherSubmissions(subs, t.api.FileURL)
	})
}

// Refresh reloads both lists and stays on the current section.
func (t *Teacher) Refresh(ctx context.Context) {
	t.notify(portal.LevelInfo, "Refreshing data...")
	section := t.currentSection()
	t.loadAll(ctx)
	t.Navigate(section)
}

// ViewSubmissions shows the submissions of one assignment.
func (t *Teacher) ViewSubmissions(ctx context.Context, id int) {
	t.update(func() {
		t.state = t.layout.Navigate(t.state, portal.SectionSubmissionsList)
		t.panels[portal.SectionSubmissionsList] = render.Loading(portal.SectionSubmissionsList, "Loading submissions...")
	})

	subs, err := t.api.AssignmentSubmissions(ctx, id)
	if err != nil {
		msg := "Failed to load assignment submissions"
		if apisvc.IsTransport(err) {
			msg = "Network error loading submissions"
		}
		t.update(func() {
			t.panels[portal.SectionSubmissionsList] = render.Failed(portal.SectionSubmissionsList, msg)
		})
		t.loadFailed("submissions", "Failed to load assignment submissions", err)
		return
	}
	t.update(func() {
		t.tally.Submissions = len(subs)
		t.panels[portal.SectionSubmissionsList] = render.FilteredSubmissions(subs, t.assignmentTitle(id, subs), t.api.FileURL)
	})
}

// assignmentTitle must be called with the lock held.
func (t *Teacher) assignmentTitle(id int, subs []classroom.TeacherSubmission) string {
	if len(subs) > 0 && subs[0].AssignmentTitle != "" {
		return subs[0].AssignmentTitle
	}
	for _, asg := range t.assignments {
		if asg.ID == id {
			return asg.Title
		}
	}
	return "Assignment"
}

// ShowAll goes back to the unfiltered submissions.
func (t *Teacher) ShowAll(ctx context.Context) {
	t.loadSubmissions(ctx)
	t.Navigate(portal.SectionSubmissionsList)
}

// CreateAssignment sends the create-assignment form.
func (t *Teacher) CreateAssignment(ctx context.Context, af apisvc.AssignmentForm) bool {
	if _, err := t.api.CreateAssignment(ctx, af); err != nil {
		t.mutationFailed("assignment creation", "Failed to create assignment", err)
		return false
	}

	t.notify(portal.LevelSuccess, "Assignment created successfully!")
	t.update(func() {
		t.panels[portal.SectionCreateAssignment] = render.CreateAssignmentForm()
	})
	t.load(ctx, t.loadAssignments)
	t.Navigate(portal.SectionCreateAssignment)
	return true
}

// DeleteAssignment deletes the assignment once the user confirms.
func (t *Teacher) DeleteAssignment(ctx context.Context, id int) bool {
	if !t.deps.Confirm.Confirm(msgDeleteConfirm) {
		return false
	}

	if err := t.api.DeleteAssignment(ctx, id); err != nil {
		if apisvc.IsTransport(err) {
			t.mutationFailed("delete assignment", "", err)
		} else {
			t.deps.Logger.Warn("delete assignment failed", err, t.Session().User)
			t.notify(portal.LevelError, "Failed to delete assignment")
		}
		return false
	}

	t.notify(portal.LevelSuccess, "Assignment deleted successfully!")
	t.loadAll(ctx)
	return true
}
