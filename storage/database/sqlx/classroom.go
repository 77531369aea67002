package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/edutrack/core/classroom"
)

type (
	assignmentRow struct {
		ID          int         `db:"id"`
		Title       string      `db:"title"`
		Description null.String `db:"description"`
		DueDate     time.Time   `db:"due_date"`
		TeacherID   int         `db:"teacher_id"`
		FilePath    null.String `db:"file_path"`
		CreatedAt   time.Time   `db:"created_at"`
	}

	submissionRow struct {
		ID           int         `db:"id"`
		AssignmentID int         `db:"assignment_id"`
		StudentID    int         `db:"student_id"`
		FilePath     string      `db:"file_path"`
		Notes        null.String `db:"notes"`
		SubmittedAt  time.Time   `db:"submitted_at"`
	}
)

func (row assignmentRow) assignment() classroom.Assignment {
	return classroom.Assignment{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description.String,
		DueDate:     classroom.NewTimestamp(row.DueDate),
		TeacherID:   row.TeacherID,
		FilePath:    row.FilePath.String,
		CreatedAt:   classroom.NewTimestamp(row.CreatedAt),
	}
}

func (row submissionRow) submission() classroom.Submission {
	return classroom.Submission{
		ID:           row.ID,
		AssignmentID: row.AssignmentID,
		StudentID:    row.StudentID,
		FilePath:     row.FilePath,
		Notes:        row.Notes.String,
		SubmittedAt:  classroom.NewTimestamp(row.SubmittedAt),
	}
}

func nullString(s string) null.String { return null.NewString(s, s != "") }

type classroomRepository struct {
	db *sqlx.DB
}

var _ classroom.Repository = (*classroomRepository)(nil) // interface compliance check

func NewClassroomRepository(db *sqlx.DB) classroom.Repository {
	return &classroomRepository{db: db}
}

func (repo *classroomRepository) CreateAssignment(ctx context.Context, asg classroom.Assignment) (classroom.Assignment, error) {
	if asg.CreatedAt.IsZero() {
		asg.CreatedAt = classroom.NewTimestamp(time.Now())
	}
	const q = `INSERT INTO assignments (title, description, due_date, teacher_id, file_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err := repo.db.GetContext(ctx, &asg.ID, q,
		asg.Title, nullString(asg.Description), asg.DueDate.Time, asg.TeacherID, nullString(asg.FilePath), asg.CreatedAt.Time)
	if err != nil {
		return classroom.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return asg, nil
}

func (repo *classroomRepository) GetAssignment(ctx context.Context, id int) (classroom.Assignment, error) {
	var row assignmentRow
	if err := repo.db.GetContext(ctx, &row, "SELECT * FROM assignments WHERE id = $1", id); err != nil {
		if err == sql.ErrNoRows {
			return classroom.Assignment{}, classroom.ErrNotFound
		}
		return classroom.Assignment{}, errors.Wrap(err, "selecting assignment")
	}
	return row.assignment(), nil
}

// DeleteAssignment deletes the assignment and, in cascade, its submissions.
func (repo *classroomRepository) DeleteAssignment(ctx context.Context, id, teacherID int) (bool, error) {
	res, err := repo.db.ExecContext(ctx, "DELETE FROM assignments WHERE id = $1 AND teacher_id = $2", id, teacherID)
	if err != nil {
		return false, errors.Wrap(err, "deleting assignment")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "deleting assignment")
	}
	return n > 0, nil
}

func (repo *classroomRepository) QueryTeacherAssignments(ctx context.Context, teacherID int) ([]classroom.TeacherAssignment, error) {
	var rows []struct {
		assignmentRow
		SubmissionCount int `db:"submission_count"`
	}
	const q = `SELECT a.*, COUNT(s.id) AS submission_count
		FROM assignments a LEFT JOIN submissions s ON s.assignment_id = a.id
		WHERE a.teacher_id = $1
		GROUP BY a.id
		ORDER BY a.created_at DESC, a.id DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, teacherID); err != nil {
		return nil, errors.Wrap(err, "selecting teacher assignments")
	}
	asgs := make([]classroom.TeacherAssignment, 0, len(rows))
	for _, row := range rows {
		asgs = append(asgs, classroom.TeacherAssignment{Assignment: row.assignment(), SubmissionCount: row.SubmissionCount})
	}
	return asgs, nil
}

func (repo *classroomRepository) QueryStudentAssignments(ctx context.Context, studentID int) ([]classroom.StudentAssignment, error) {
	var rows []struct {
		assignmentRow
		TeacherName  string `db:"teacher_name"`
		HasSubmitted bool   `db:"has_submitted"`
	}
	const q = `SELECT a.*, COALESCE(u.name, '') AS teacher_name,
			EXISTS (SELECT 1 FROM submissions s WHERE s.assignment_id = a.id AND s.student_id = $1) AS has_submitted
		FROM assignments a LEFT JOIN users u ON u.id = a.teacher_id
		ORDER BY a.due_date, a.id`
	if err := repo.db.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting student assignments")
	}
	asgs := make([]classroom.StudentAssignment, 0, len(rows))
	for _, row := range rows {
		asgs = append(asgs, classroom.StudentAssignment{
			Assignment:   row.assignment(),
			TeacherName:  row.TeacherName,
			HasSubmitted: classroom.Flag(row.HasSubmitted),
		})
	}
	return asgs, nil
}

func (repo *classroomRepository) CreateSubmission(ctx context.Context, sub classroom.Submission) (classroom.Submission, error) {
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = classroom.NewTimestamp(time.Now())
	}
	const q = `INSERT INTO submissions (assignment_id, student_id, file_path, notes, submitted_at)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := repo.db.GetContext(ctx, &sub.ID, q,
		sub.AssignmentID, sub.StudentID, sub.FilePath, nullString(sub.Notes), sub.SubmittedAt.Time)
	if err != nil {
		if isUniqueViolation(err) {
			return classroom.Submission{}, classroom.ErrAlreadySubmitted
		}
		return classroom.Submission{}, errors.Wrap(err, "inserting submission")
	}
	return sub, nil
}

func (repo *classroomRepository) QueryStudentSubmissions(ctx context.Context, studentID int) ([]classroom.StudentSubmission, error) {
	var rows []struct {
		submissionRow
		AssignmentTitle   string    `db:"assignment_title"`
		AssignmentDueDate time.Time `db:"assignment_due_date"`
		TeacherName       string    `db:"teacher_name"`
	}
	const q = `SELECT s.*, a.title AS assignment_title, a.due_date AS assignment_due_date,
			COALESCE(u.name, '') AS teacher_name
		FROM submissions s
		JOIN assignments a ON a.id = s.assignment_id
		LEFT JOIN users u ON u.id = a.teacher_id
		WHERE s.student_id = $1
		ORDER BY s.submitted_at DESC, s.id DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting student submissions")
	}
	subs := make([]classroom.StudentSubmission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, classroom.StudentSubmission{
			Submission:        row.submission(),
			AssignmentTitle:   row.AssignmentTitle,
			AssignmentDueDate: classroom.NewTimestamp(row.AssignmentDueDate),
			TeacherName:       row.TeacherName,
		})
	}
	return subs, nil
}

func (repo *classroomRepository) teacherSubmissions(ctx context.Context, where string, arg int) ([]classroom.TeacherSubmission, error) {
	var rows []struct {
		submissionRow
		AssignmentTitle string `db:"assignment_title"`
		StudentName     string `db:"student_name"`
		StudentEmail    string `db:"student_email"`
	}
	q := `SELECT s.*, a.title AS assignment_title,
			COALESCE(u.name, '') AS student_name, COALESCE(u.email, '') AS student_email
		FROM submissions s
		JOIN assignments a ON a.id = s.assignment_id
		LEFT JOIN users u ON u.id = s.student_id
		WHERE ` + where + `
		ORDER BY s.submitted_at DESC, s.id DESC`
	if err := repo.db.SelectContext(ctx, &rows, q, arg); err != nil {
		return nil, errors.Wrap(err, "selecting teacher submissions")
	}
	subs := make([]classroom.TeacherSubmission, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, classroom.TeacherSubmission{
			Submission:      row.submission(),
			AssignmentTitle: row.AssignmentTitle,
			StudentName:     row.StudentName,
			StudentEmail:    row.StudentEmail,
		})
	}
	return subs, nil
}

func (repo *classroomRepository) QueryTeacherSubmissions(ctx context.Context, teacherID int) ([]classroom.TeacherSubmission, error) {
	return repo.teacherSubmissions(ctx, "a.teacher_id = $1", teacherID)
}

func (repo *classroomRepository) QueryAssignmentSubmissions(ctx context.Context, assignmentID int) ([]classroom.TeacherSubmission, error) {
	return repo.teacherSubmissions(ctx, "s.assignment_id = $1", assignmentID)
}

func (repo *classroomRepository) CountAssignments(ctx context.Context) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM assignments"); err != nil {
		return 0, errors.Wrap(err, "counting assignments")
	}
	return count, nil
}

func (repo *classroomRepository) CountStudentSubmissions(ctx context.Context, studentID int) (int, error) {
	var count int
	if err := repo.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM submissions WHERE student_id = $1", studentID); err != nil {
		return 0, errors.Wrap(err, "counting submissions")
	}
	return count, nil
}

func (repo *classroomRepository) QueryProfileRows(ctx context.Context, studentID int) ([]classroom.ProfileRow, error) {
	var rows []struct {
		TeacherName string `db:"teacher_name"`
		Title       string `db:"title"`
		Completed   bool   `db:"completed"`
	}
	const q = `SELECT u.name AS teacher_name, a.title,
			EXISTS (SELECT 1 FROM submissions s WHERE s.assignment_id = a.id AND s.student_id = $1) AS completed
		FROM assignments a JOIN users u ON u.id = a.teacher_id AND u.role = 'teacher'
		ORDER BY u.name, a.title`
	if err := repo.db.SelectContext(ctx, &rows, q, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting profile")
	}
	res := make([]classroom.ProfileRow, 0, len(rows))
	for _, row := range rows {
		res = append(res, classroom.ProfileRow{TeacherName: row.TeacherName, Title: row.Title, Completed: row.Completed})
	}
	return res, nil
}
