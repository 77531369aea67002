package sqlxrepos_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/user"
	"github.com/trezcool/edutrack/storage/database"
	sqlxrepos "github.com/trezcool/edutrack/storage/database/sqlx"
)

// prepareDB connects to the database named by TEST_DATABASE_HOST and resets its schema.
func prepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	host := os.Getenv("TEST_DATABASE_HOST")
	if host == "" {
		t.Skip("TEST_DATABASE_HOST not set")
	}
	conf := core.NewTestConfig(t.TempDir())
	conf.Database = core.DatabaseConfig{
		Engine:     "postgres",
		Host:       host,
		Port:       5432,
		Name:       "edutrack_test",
		User:       "edutrack",
		Password:   "edutrack",
		AdminUser:  os.Getenv("TEST_DATABASE_ADMIN"),
		DisableTLS: true,
	}
	require.NoError(t, database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, database.Migrate(db.DB, "reset"))
	require.NoError(t, database.Migrate(db.DB, "up"))
	return db
}

func TestRepositories(t *testing.T) {
	db := prepareDB(t)
	ctx := context.Background()
	users := sqlxrepos.NewUserRepository(db)
	repo := sqlxrepos.NewClassroomRepository(db)

	teacher, err := users.CreateUser(ctx, user.User{Name: "Mrs Zulu", Email: "zulu@example.com", Role: user.RoleTeacher})
	require.NoError(t, err)
	student, err := users.CreateUser(ctx, user.User{Name: "Stu One", Email: "one@example.com", Role: user.RoleStudent})
	require.NoError(t, err)

	_, err = users.CreateUser(ctx, user.User{Name: "Dup", Email: "zulu@example.com", Role: user.RoleStudent})
	assert.Equal(t, user.ErrEmailExists, err)
	_, err = users.GetUserByID(ctx, 999)
	assert.Equal(t, user.ErrNotFound, err)

	updated, err := users.UpdateUser(ctx, user.User{ID: student.ID, Name: "Stu Uno"})
	require.NoError(t, err)
	assert.Equal(t, "Stu Uno", updated.Name)
	assert.Equal(t, user.RoleStudent, updated.Role, "unset fields are kept")

	teachers, err := users.QueryUsers(ctx, user.RoleTeacher)
	require.NoError(t, err)
	require.Len(t, teachers, 1)

	due := time.Now().Add(24 * time.Hour)
	asg, err := repo.CreateAssignment(ctx, classroom.Assignment{Title: "HW1", DueDate: classroom.NewTimestamp(due), TeacherID: teacher.ID})
	require.NoError(t, err)

	_, err = repo.CreateSubmission(ctx, classroom.Submission{AssignmentID: asg.ID, StudentID: student.ID, FilePath: "s.pdf"})
	require.NoError(t, err)
	_, err = repo.CreateSubmission(ctx, classroom.Submission{AssignmentID: asg.ID, StudentID: student.ID, FilePath: "s2.pdf"})
	assert.Equal(t, classroom.ErrAlreadySubmitted, err)

	tAsgs, err := repo.QueryTeacherAssignments(ctx, teacher.ID)
	require.NoError(t, err)
	require.Len(t, tAsgs, 1)
	assert.Equal(t, 1, tAsgs[0].SubmissionCount)

	sAsgs, err := repo.QueryStudentAssignments(ctx, student.ID)
	require.NoError(t, err)
	require.Len(t, sAsgs, 1)
	assert.True(t, bool(sAsgs[0].HasSubmitted))
	assert.Equal(t, "Mrs Zulu", sAsgs[0].TeacherName)

	subs, err := repo.QueryAssignmentSubmissions(ctx, asg.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "Stu Uno", subs[0].StudentName)

	rows, err := repo.QueryProfileRows(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, []classroom.ProfileRow{{TeacherName: "Mrs Zulu", Title: "HW1", Completed: true}}, rows)

	deleted, err := repo.DeleteAssignment(ctx, asg.ID, student.ID)
	require.NoError(t, err)
	assert.False(t, deleted, "not the owner")
	deleted, err = repo.DeleteAssignment(ctx, asg.ID, teacher.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	n, err := repo.CountStudentSubmissions(ctx, student.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "submissions are deleted in cascade")
}
