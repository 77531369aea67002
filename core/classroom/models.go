package classroom

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/edutrack/core"
)

type (
	Assignment struct {
		ID          int       `json:"id" validate:"required"`
		Title       string    `json:"title" validate:"required"`
		Description string    `json:"description"`
		DueDate     Timestamp `json:"due_date" validate:"required"`
		TeacherID   int       `json:"teacher_id"`
		FilePath    string    `json:"file_path,omitempty"`
		CreatedAt   Timestamp `json:"created_at"`
	}

	// StudentAssignment is an Assignment as listed to a student.
	StudentAssignment struct {
		Assignment
		TeacherName  string `json:"teacher_name"`
		HasSubmitted Flag   `json:"has_submitted"`
	}

	// TeacherAssignment is an Assignment as listed to its teacher.
	TeacherAssignment struct {
		Assignment
		SubmissionCount int    `json:"submission_count" validate:"gte=0"`
		Status          Status `json:"status,omitempty"`
	}

	Submission struct {
		ID           int       `json:"id" validate:"required"`
		AssignmentID int       `json:"assignment_id" validate:"required"`
		StudentID    int       `json:"student_id"`
		FilePath     string    `json:"file_path"`
		Notes        string    `json:"notes,omitempty"`
		SubmittedAt  Timestamp `json:"submitted_at" validate:"required"`
	}

	StudentSubmission struct {
		Submission
		AssignmentTitle   string    `json:"assignment_title"`
		AssignmentDueDate Timestamp `json:"assignment_due_date"`
		TeacherName       string    `json:"teacher_name"`
	}

	TeacherSubmission struct {
		Submission
		AssignmentTitle string `json:"assignment_title"`
		StudentName     string `json:"student_name"`
		StudentEmail    string `json:"student_email"`
	}

	// Profile is the student's progress summary.
	Profile struct {
		TotalAssignments     int            `json:"total_assignments" validate:"gte=0"`
		CompletedAssignments int            `json:"completed_assignments" validate:"gte=0,ltefield=TotalAssignments"`
		PendingAssignments   int            `json:"pending_assignments"`
		TeachersAssignments  []TeacherGroup `json:"teachers_assignments"`
	}

	TeacherGroup struct {
		TeacherName string        `json:"teacher_name"`
		Assignments []ProfileItem `json:"assignments"`
	}

	ProfileItem struct {
		Title     string `json:"title"`
		Completed Flag   `json:"completed"`
	}
)

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string    `json:"title" form:"title" validate:"required,notblank"`
	Description string    `json:"description" form:"description"`
	DueDate     Timestamp `json:"due_date" validate:"required"`
	TeacherID   int       `json:"-"`
	FilePath    string    `json:"-"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

// NewSubmission contains information needed to submit an Assignment.
type NewSubmission struct {
	AssignmentID int    `json:"assignment_id" validate:"required"`
	StudentID    int    `json:"-"`
	FilePath     string `json:"-" validate:"required"`
	Notes        string `json:"notes"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.Notes = core.CleanString(ns.Notes)
	return validate.Struct(ns)
}

// StudentStatus derives the display status of an assignment for a student:
// completed > overdue > pending.
func StudentStatus(asg StudentAssignment, now time.Time) Status {
	switch {
	case bool(asg.HasSubmitted):
		return StatusCompleted
	case asg.DueDate.Before(now):
		return StatusOverdue
	default:
		return StatusPending
	}
}

// TeacherStatus is the assignment's reported status, "active" when unset.
func TeacherStatus(asg TeacherAssignment) Status {
	if asg.Status == "" {
		return StatusActive
	}
	return asg.Status
}

// Validators for decoded API payloads.

func ValidateStudentAssignments(validate *validator.Validate, asgs []StudentAssignment) error {
	for i := range asgs {
		if err := validate.Struct(asgs[i]); err != nil {
			return err
		}
	}
	return nil
}

func ValidateTeacherAssignments(validate *validator.Validate, asgs []TeacherAssignment) error {
	for i := range asgs {
		if err := validate.Struct(asgs[i]); err != nil {
			return err
		}
	}
	return nil
}

func ValidateStudentSubmissions(validate *validator.Validate, subs []StudentSubmission) error {
	for i := range subs {
		if err := validate.Struct(subs[i]); err != nil {
			return err
		}
	}
	return nil
}

func ValidateTeacherSubmissions(validate *validator.Validate, subs []TeacherSubmission) error {
	for i := range subs {
		if err := validate.Struct(subs[i]); err != nil {
			return err
		}
	}
	return nil
}
