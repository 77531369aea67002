package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/user"
)

type (
	UserService interface {
		Signup(ctx context.Context, nu user.NewUser) (user.User, error)
		Authenticate(ctx context.Context, creds user.Credentials) (user.User, error)
		GetByID(ctx context.Context, id int) (user.User, error)
	}

	ClassroomService interface {
		CreateAssignment(ctx context.Context, na classroom.NewAssignment) (classroom.Assignment, error)
		DeleteAssignment(ctx context.Context, id, teacherID int) error
		TeacherAssignments(ctx context.Context, teacherID int) ([]classroom.TeacherAssignment, error)
		StudentAssignments(ctx context.Context, studentID int) ([]classroom.StudentAssignment, error)
		AssignmentSubmissions(ctx context.Context, assignmentID, teacherID int) ([]classroom.TeacherSubmission, error)
		Submit(ctx context.Context, ns classroom.NewSubmission) (classroom.Submission, error)
		StudentSubmissions(ctx context.Context, studentID int) ([]classroom.StudentSubmission, error)
		TeacherSubmissions(ctx context.Context, teacherID int) ([]classroom.TeacherSubmission, error)
		Profile(ctx context.Context, studentID int) (classroom.Profile, error)
	}

	ServerDeps struct {
		Conf         *core.Config
		Logger       core.Logger
		UserSvc      UserService
		ClassroomSvc ClassroomService
		Validate     *validator.Validate
		Translator   ut.Translator
	}

	Server struct {
		app      *echo.Echo
		conf     *core.Config
		logger   core.Logger
		errors   chan error
		shutdown chan os.Signal
	}
)

var _ http.Handler = (*Server)(nil)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		app:      echo.New(),
		conf:     deps.Conf,
		logger:   deps.Logger,
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)

	if err := os.MkdirAll(deps.Conf.Server.UploadDir, 0755); err != nil {
		deps.Logger.Error("creating upload dir: "+err.Error(), err)
	}

	s.app.HideBanner = true
	s.app.Debug = deps.Conf.Debug
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(deps.Logger, deps.Translator, s.signalShutdown)

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !deps.Conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(deps.Conf.Debug || deps.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: deps.Conf.Server.AllowOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s.app.GET("/", home)
	s.app.GET("/health", health)
	s.app.Static("/uploads", deps.Conf.Server.UploadDir)

	jwt := middleware.JWTWithConfig(newJWTConfig(deps.Conf))
	authed := []echo.MiddlewareFunc{jwt, userMiddleware(deps.UserSvc)}

	registerAuthAPI(s.app.Group("/auth"), authed, deps)
	registerClassroomAPI(s.app, authed, deps)

	return s
}

// Start blocks while serving; errors are reported on Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	signal.Stop(s.shutdown)
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to EduTrack API!")
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "healthy", "message": "EduTrack API is running"})
}
