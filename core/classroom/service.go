package classroom

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutrack/core"
)

var (
	// errors
	ErrNotFound         = errors.New("Assignment not found")
	ErrNotOwned         = errors.New("Assignment not found or not owned by you")
	ErrAlreadySubmitted = errors.New("Assignment already submitted")
)

type (
	// ProfileRow is one assignment of a teacher with the student's completion.
	ProfileRow struct {
		TeacherName string
		Title       string
		Completed   bool
	}

	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		GetAssignment(ctx context.Context, id int) (Assignment, error)
		DeleteAssignment(ctx context.Context, id, teacherID int) (bool, error)
		QueryTeacherAssignments(ctx context.Context, teacherID int) ([]TeacherAssignment, error)
		QueryStudentAssignments(ctx context.Context, studentID int) ([]StudentAssignment, error)

		CreateSubmission(ctx context.Context, sub Submission) (Submission, error)
		QueryStudentSubmissions(ctx context.Context, studentID int) ([]StudentSubmission, error)
		QueryTeacherSubmissions(ctx context.Context, teacherID int) ([]TeacherSubmission, error)
		QueryAssignmentSubmissions(ctx context.Context, assignmentID int) ([]TeacherSubmission, error)

		CountAssignments(ctx context.Context) (int, error)
		CountStudentSubmissions(ctx context.Context, studentID int) (int, error)
		// QueryProfileRows returns rows ordered by teacher name then title.
		QueryProfileRows(ctx context.Context, studentID int) ([]ProfileRow, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) CreateAssignment(ctx context.Context, na NewAssignment) (Assignment, error) {
	if err := na.Validate(svc.validate); err != nil {
		return Assignment{}, err
	}
	return svc.repo.CreateAssignment(ctx, Assignment{
		Title:       na.Title,
		Description: na.Description,
		DueDate:     na.DueDate,
		TeacherID:   na.TeacherID,
		FilePath:    na.FilePath,
		CreatedAt:   NewTimestamp(time.Now()),
	})
}

// DeleteAssignment deletes the teacher's own assignment.
func (svc *Service) DeleteAssignment(ctx context.Context, id, teacherID int) error {
	deleted, err := svc.repo.DeleteAssignment(ctx, id, teacherID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotOwned
	}
	return nil
}

func (svc *Service) TeacherAssignments(ctx context.Context, teacherID int) ([]TeacherAssignment, error) {
	return svc.repo.QueryTeacherAssignments(ctx, teacherID)
}

func (svc *Service) StudentAssignments(ctx context.Context, studentID int) ([]StudentAssignment, error) {
	return svc.repo.QueryStudentAssignments(ctx, studentID)
}

// AssignmentSubmissions lists the submissions of one of the teacher's assignments.
func (svc *Service) AssignmentSubmissions(ctx context.Context, assignmentID, teacherID int) ([]TeacherSubmission, error) {
	asg, err := svc.repo.GetAssignment(ctx, assignmentID)
	if err != nil {
		if err == ErrNotFound {
			return nil, ErrNotOwned
		}
		return nil, err
	}
	if asg.TeacherID != teacherID {
		return nil, ErrNotOwned
	}
	return svc.repo.QueryAssignmentSubmissions(ctx, assignmentID)
}

// Submit records the student's submission. A student submits an assignment once.
func (svc *Service) Submit(ctx context.Context, ns NewSubmission) (Submission, error) {
	if err := ns.Validate(svc.validate); err != nil {
		return Submission{}, err
	}
	if _, err := svc.repo.GetAssignment(ctx, ns.AssignmentID); err != nil {
		return Submission{}, err
	}
	sub, err := svc.repo.CreateSubmission(ctx, Submission{
		AssignmentID: ns.AssignmentID,
		StudentID:    ns.StudentID,
		FilePath:     ns.FilePath,
		Notes:        ns.Notes,
		SubmittedAt:  NewTimestamp(time.Now()),
	})
	if err == ErrAlreadySubmitted {
		return Submission{}, core.NewValidationError(err, core.FieldError{Field: "assignment_id", Error: err.Error()})
	}
	return sub, err
}

func (svc *Service) StudentSubmissions(ctx context.Context, studentID int) ([]StudentSubmission, error) {
	return svc.repo.QueryStudentSubmissions(ctx, studentID)
}

func (svc *Service) TeacherSubmissions(ctx context.Context, teacherID int) ([]TeacherSubmission, error) {
	return svc.repo.QueryTeacherSubmissions(ctx, teacherID)
}

// Profile summarizes the student's progress, grouping assignments by teacher.
func (svc *Service) Profile(ctx context.Context, studentID int) (Profile, error) {
	total, err := svc.repo.CountAssignments(ctx)
	if err != nil {
		return Profile{}, err
	}
	completed, err := svc.repo.CountStudentSubmissions(ctx, studentID)
	if err != nil {
		return Profile{}, err
	}
	rows, err := svc.repo.QueryProfileRows(ctx, studentID)
	if err != nil {
		return Profile{}, err
	}

	prof := Profile{
		TotalAssignments:     total,
		CompletedAssignments: completed,
		PendingAssignments:   total - completed,
		TeachersAssignments:  make([]TeacherGroup, 0),
	}
	groups := make(map[string]int) // teacher name -> index
	for _, row := range rows {
		idx, ok := groups[row.TeacherName]
		if !ok {
			idx = len(prof.TeachersAssignments)
			groups[row.TeacherName] = idx
			prof.TeachersAssignments = append(prof.TeachersAssignments, TeacherGroup{TeacherName: row.TeacherName})
		}
		grp := &prof.TeachersAssignments[idx]
		grp.Assignments = append(grp.Assignments, ProfileItem{Title: row.Title, Completed: Flag(row.Completed)})
	}
	return prof, nil
}
