package apisvc

import (
	"context"
	"net/http"

	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/user"
)

// Endpoints
const (
	EndpointLogin              = "/auth/login"
	EndpointSignup             = "/auth/signup"
	EndpointLogout             = "/auth/logout"
	EndpointAssignments        = "/assignments/"
	EndpointTeacherAssignments = "/assignments/teacher/"
	EndpointSubmissions        = "/submissions/"
	EndpointMySubmissions      = "/submissions/my/"
	EndpointTeacherSubmissions = "/submissions/teacher/"
	EndpointProfile            = "/students/profile/"
)

func AssignmentEndpoint(id int) string { return "/assignments/" + itoa(id) }

func AssignmentSubmissionsEndpoint(id int) string {
	return "/assignments/" + itoa(id) + "/submissions"
}

type (
	LoginResult struct {
		User      user.User `json:"user"`
		Token     string    `json:"token" validate:"required"`
		TokenType string    `json:"token_type"`
	}

	SignupResult struct {
		Message string `json:"message"`
		UserID  int    `json:"user_id"`
	}

	// AssignmentForm is the create-assignment form.
	AssignmentForm struct {
		Title       string
		Description string
		DueDate     string // as typed, e.g. 2025-03-14T09:30
		File        *File  // optional
	}

	// SubmissionForm is the submit-assignment form.
	SubmissionForm struct {
		AssignmentID int
		File         *File
		Notes        string // optional
	}
)

func (c *Client) Login(ctx context.Context, creds user.Credentials) (LoginResult, error) {
	var res LoginResult
	if err := c.postJSON(ctx, EndpointLogin, false, creds, &res); err != nil {
		return LoginResult{}, err
	}
	if err := c.check(EndpointLogin, c.validate.Struct(res)); err != nil {
		return LoginResult{}, err
	}
	return res, nil
}

func (c *Client) Signup(ctx context.Context, nu user.NewUser) (SignupResult, error) {
	var res SignupResult
	err := c.postJSON(ctx, EndpointSignup, false, nu, &res)
	return res, err
}

// Logout notifies the server; the response body is ignored.
func (c *Client) Logout(ctx context.Context) error {
	return c.postJSON(ctx, EndpointLogout, true, nil, nil)
}

func (c *Client) StudentAssignments(ctx context.Context) ([]classroom.StudentAssignment, error) {
	var asgs []classroom.StudentAssignment
	if err := c.get(ctx, EndpointAssignments, &asgs); err != nil {
		return nil, err
	}
	if err := c.check(EndpointAssignments, classroom.ValidateStudentAssignments(c.validate, asgs)); err != nil {
		return nil, err
	}
	return asgs, nil
}

func (c *Client) TeacherAssignments(ctx context.Context) ([]classroom.TeacherAssignment, error) {
	var asgs []classroom.TeacherAssignment
	if err := c.get(ctx, EndpointTeacherAssignments, &asgs); err != nil {
		return nil, err
	}
	if err := c.check(EndpointTeacherAssignments, classroom.ValidateTeacherAssignments(c.validate, asgs)); err != nil {
		return nil, err
	}
	return asgs, nil
}

func (c *Client) CreateAssignment(ctx context.Context, af AssignmentForm) (classroom.Assignment, error) {
	f := newForm()
	f.field("title", af.Title)
	f.field("description", af.Description)
	f.field("due_date", af.DueDate)
	f.file("file", af.File)

	var asg classroom.Assignment
	if err := c.postForm(ctx, EndpointAssignments, f, &asg); err != nil {
		return classroom.Assignment{}, err
	}
	if err := c.check(EndpointAssignments, c.validate.Struct(asg)); err != nil {
		return classroom.Assignment{}, err
	}
	return asg, nil
}

func (c *Client) DeleteAssignment(ctx context.Context, id int) error {
	return c.do(ctx, request{method: http.MethodDelete, endpoint: AssignmentEndpoint(id), auth: true}, nil)
}

func (c *Client) AssignmentSubmissions(ctx context.Context, id int) ([]classroom.TeacherSubmission, error) {
	endpoint := AssignmentSubmissionsEndpoint(id)
	var subs []classroom.TeacherSubmission
	if err := c.get(ctx, endpoint, &subs); err != nil {
		return nil, err
	}
	if err := c.check(endpoint, classroom.ValidateTeacherSubmissions(c.validate, subs)); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) MySubmissions(ctx context.Context) ([]classroom.StudentSubmission, error) {
	var subs []classroom.StudentSubmission
	if err := c.get(ctx, EndpointMySubmissions, &subs); err != nil {
		return nil, err
	}
	if err := c.check(EndpointMySubmissions, classroom.ValidateStudentSubmissions(c.validate, subs)); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) TeacherSubmissions(ctx context.Context) ([]classroom.TeacherSubmission, error) {
	var subs []classroom.TeacherSubmission
	if err := c.get(ctx, EndpointTeacherSubmissions, &subs); err != nil {
		return nil, err
	}
	if err := c.check(EndpointTeacherSubmissions, classroom.ValidateTeacherSubmissions(c.validate, subs)); err != nil {
		return nil, err
	}
	return subs, nil
}

func (c *Client) Submit(ctx context.Context, sf SubmissionForm) (classroom.Submission, error) {
	f := newForm()
	f.field("assignment_id", itoa(sf.AssignmentID))
	f.file("file", sf.File)
	if sf.Notes != "" {
		f.field("notes", sf.Notes)
	}

	var sub classroom.Submission
	if err := c.postForm(ctx, EndpointSubmissions, f, &sub); err != nil {
		return classroom.Submission{}, err
	}
	if err := c.check(EndpointSubmissions, c.validate.Struct(sub)); err != nil {
		return classroom.Submission{}, err
	}
	return sub, nil
}

func (c *Client) Profile(ctx context.Context) (classroom.Profile, error) {
	var prof classroom.Profile
	if err := c.get(ctx, EndpointProfile, &prof); err != nil {
		return classroom.Profile{}, err
	}
	if err := c.check(EndpointProfile, c.validate.Struct(prof)); err != nil {
		return classroom.Profile{}, err
	}
	return prof, nil
}
