package testutil

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/edutrack/apps/api/echo"
	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/user"
	logsvc "github.com/trezcool/edutrack/services/logger"
	inmemdb "github.com/trezcool/edutrack/storage/database/inmem"
)

// NewValidator returns a validator with every custom validation registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	classroom.InitValidators(validate)
	return validate, translator
}

// Env is a fully wired in-memory API.
type Env struct {
	Conf         *core.Config
	DB           *inmemdb.DB
	UserRepo     user.Repository
	ClassroomSvc *classroom.Service
	UserSvc      *user.Service
	Validate     *validator.Validate
	Translator   ut.Translator
	Server       *echoapi.Server
}

func NewEnv(t *testing.T) *Env {
	t.Helper()
	validate, translator := NewValidator()
	db := inmemdb.Open()
	env := &Env{
		Conf:       core.NewTestConfig(t.TempDir()),
		DB:         db,
		UserRepo:   inmemdb.NewUserRepository(db),
		Validate:   validate,
		Translator: translator,
	}
	env.UserSvc = user.NewService(env.UserRepo, validate)
	env.ClassroomSvc = classroom.NewService(inmemdb.NewClassroomRepository(db), validate)
	env.Server = echoapi.NewServer(echoapi.ServerDeps{
		Conf:         env.Conf,
		Logger:       logsvc.NewDiscardLogger(),
		UserSvc:      env.UserSvc,
		ClassroomSvc: env.ClassroomSvc,
		Validate:     validate,
		Translator:   translator,
	})
	t.Cleanup(func() { _ = env.Server.Close() })
	return env
}

// NewAPIServer serves a fresh Env over HTTP. The server is closed with the test.
func NewAPIServer(t *testing.T) (*Env, *httptest.Server) {
	t.Helper()
	env := NewEnv(t)
	srv := httptest.NewServer(env.Server)
	t.Cleanup(srv.Close)
	env.Conf.Portal.APIBaseURL = srv.URL
	return env, srv
}

func CreateUser(t *testing.T, repo user.Repository, name, email, pwd string, role user.Role, createdAt ...time.Time) user.User {
	t.Helper()
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{Name: name, Email: email, Role: role, CreatedAt: tstamp}
	if pwd != "" {
		require.NoError(t, usr.SetPassword(pwd), "createUser()")
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	require.NoError(t, err, "createUser()")
	return usr
}

func (env *Env) CreateAssignment(t *testing.T, teacher user.User, title string, due time.Time, filePath ...string) classroom.Assignment {
	t.Helper()
	na := classroom.NewAssignment{
		Title:     title,
		DueDate:   classroom.NewTimestamp(due),
		TeacherID: teacher.ID,
	}
	if len(filePath) > 0 {
		na.FilePath = filePath[0]
	}
	asg, err := env.ClassroomSvc.CreateAssignment(context.Background(), na)
	require.NoError(t, err, "createAssignment()")
	return asg
}

func (env *Env) Submit(t *testing.T, student user.User, asg classroom.Assignment, notes string) classroom.Submission {
	t.Helper()
	sub, err := env.ClassroomSvc.Submit(context.Background(), classroom.NewSubmission{
		AssignmentID: asg.ID,
		StudentID:    student.ID,
		FilePath:     "submission_test.pdf",
		Notes:        notes,
	})
	require.NoError(t, err, "submit()")
	return sub
}

// Token signs a JWT for usr.
func (env *Env) Token(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, env.Conf), env.Conf)
	require.NoError(t, err, "getToken()")
	return token
}
