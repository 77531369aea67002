package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/user"
)

var (
	errInvalidToken    = echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	errUserNotFound    = echo.NewHTTPError(http.StatusUnauthorized, "User not found")
	errTeacherRequired = echo.NewHTTPError(http.StatusForbidden, "Teacher access required")
	errStudentRequired = echo.NewHTTPError(http.StatusForbidden, "Student access required")

	errFileRequired = core.NewValidationError(
		errors.New("file: this field is required"),
		core.FieldError{Field: "file", Error: "this field is required"},
	)
	errInvalidAssignmentID = core.NewValidationError(
		errors.New("assignment_id: must be an integer"),
		core.FieldError{Field: "assignment_id", Error: "must be an integer"},
	)
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// httpError maps domain errors to HTTP errors.
func httpError(err error) error {
	switch cause := errors.Cause(err); cause {
	case user.ErrInvalidCredentials, user.ErrRoleMismatch:
		return echo.NewHTTPError(http.StatusUnauthorized, cause.Error())
	case classroom.ErrNotFound, classroom.ErrNotOwned:
		return echo.NewHTTPError(http.StatusNotFound, cause.Error())
	}
	return err
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(httpError(err)).(type) {
		case *echo.HTTPError:
			if origErr == middleware.ErrJWTMissing {
				code = http.StatusUnauthorized
				message = "Not authenticated"
				break
			}
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
			if code == http.StatusUnauthorized && origErr.Internal != nil {
				message = errInvalidToken.Message.(string) // bad or expired jwt
			}
		case validator.ValidationErrors:
			code = http.StatusBadRequest
			message = core.ValidationError{Fields: core.FieldErrors(origErr, translator)}.Error()
		case *core.ValidationError:
			code = http.StatusBadRequest
			message = origErr.Error()
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(http.StatusInternalServerError)

			var usr user.User
			if ctxUsr, ok := ctx.Get(contextUserKey).(user.User); ok {
				usr = ctxUsr
			}
			logger.Error(message, errors.Wrap(err, message), usr)

			if ctx.Echo().Debug {
				message = err.Error()
			}

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, ErrorResponse{Detail: message})
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
