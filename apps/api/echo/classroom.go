package echoapi

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/user"
)

type classroomApi struct {
	ServerDeps
	uploads uploadDir
}

func registerClassroomAPI(app *echo.Echo, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := classroomApi{ServerDeps: deps, uploads: uploadDir(deps.Conf.Server.UploadDir)}
	teacher := append(authed[:len(authed):len(authed)], roleMiddleware(user.RoleTeacher))
	student := append(authed[:len(authed):len(authed)], roleMiddleware(user.RoleStudent))

	ag := app.Group("/assignments")
	ag.GET("", api.queryAssignments, authed...)
	ag.POST("", api.createAssignment, teacher...)
	ag.GET("/teacher", api.queryTeacherAssignments, teacher...)
	ag.DELETE("/:id", api.deleteAssignment, teacher...)
	ag.GET("/:id/submissions", api.queryAssignmentSubmissions, teacher...)

	sg := app.Group("/submissions")
	sg.POST("", api.submit, student...)
	sg.GET("/my", api.queryMySubmissions, student...)
	sg.GET("/teacher", api.queryTeacherSubmissions, teacher...)
	sg.GET("/assignment/:id", api.queryAssignmentSubmissions, teacher...)

	app.GET("/students/profile", api.profile, student...)
}

func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, classroom.ErrNotFound.Error())
	}
	return id, nil
}

// formFile returns a nil header when the request carries no such file.
func formFile(ctx echo.Context, name string) (*multipart.FileHeader, error) {
	fh, err := ctx.FormFile(name)
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return nil, nil
	}
	return fh, err
}

// Handlers

// queryAssignments lists the assignments of the caller's portal.
func (api *classroomApi) queryAssignments(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if usr.IsTeacher() {
		return api.queryTeacherAssignments(ctx)
	}
	asgs, err := api.ClassroomSvc.StudentAssignments(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying student assignments")
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *classroomApi) queryTeacherAssignments(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	asgs, err := api.ClassroomSvc.TeacherAssignments(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying teacher assignments")
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *classroomApi) createAssignment(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}

	data := classroom.NewAssignment{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		TeacherID:   usr.ID,
	}
	if due := strings.TrimSpace(ctx.FormValue("due_date")); due != "" {
		if data.DueDate, err = classroom.ParseTimestamp(due); err != nil {
			return core.NewValidationError(
				errors.New("due_date: "+err.Error()),
				core.FieldError{Field: "due_date", Error: err.Error()},
			)
		}
	}
	if err = data.Validate(api.Validate); err != nil {
		return err
	}

	fh, err := formFile(ctx, "file")
	if err != nil {
		return errors.Wrap(err, "reading assignment file")
	}
	if fh != nil {
		if data.FilePath, err = api.uploads.save(fh, "assignment"); err != nil {
			return errors.Wrap(err, "saving assignment file")
		}
	}

	asg, err := api.ClassroomSvc.CreateAssignment(ctx.Request().Context(), data)
	if err != nil {
		api.uploads.remove(data.FilePath)
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *classroomApi) deleteAssignment(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.ClassroomSvc.DeleteAssignment(ctx.Request().Context(), id, usr.ID); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Assignment deleted successfully"})
}

func (api *classroomApi) queryAssignmentSubmissions(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	subs, err := api.ClassroomSvc.AssignmentSubmissions(ctx.Request().Context(), id, usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying assignment submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *classroomApi) submit(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	asgID, err := strconv.Atoi(strings.TrimSpace(ctx.FormValue("assignment_id")))
	if err != nil {
		return errInvalidAssignmentID
	}
	fh, err := formFile(ctx, "file")
	if err != nil {
		return errors.Wrap(err, "reading submission file")
	}
	if fh == nil {
		return errFileRequired
	}

	prefix := "submission_s" + strconv.Itoa(usr.ID) + "_a" + strconv.Itoa(asgID)
	filePath, err := api.uploads.save(fh, prefix)
	if err != nil {
		return errors.Wrap(err, "saving submission file")
	}
	sub, err := api.ClassroomSvc.Submit(ctx.Request().Context(), classroom.NewSubmission{
		AssignmentID: asgID,
		StudentID:    usr.ID,
		FilePath:     filePath,
		Notes:        ctx.FormValue("notes"),
	})
	if err != nil {
		api.uploads.remove(filePath)
		return errors.Wrap(err, "submitting assignment")
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *classroomApi) queryMySubmissions(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	subs, err := api.ClassroomSvc.StudentSubmissions(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying student submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *classroomApi) queryTeacherSubmissions(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	subs, err := api.ClassroomSvc.TeacherSubmissions(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "querying teacher submissions")
	}
	return ctx.JSON(http.StatusOK, subs)
}

func (api *classroomApi) profile(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	prof, err := api.ClassroomSvc.Profile(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "getting student profile")
	}
	return ctx.JSON(http.StatusOK, prof)
}
