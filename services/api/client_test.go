package apisvc

import (
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/user"
)

func newValidator() *validator.Validate {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	classroom.InitValidators(validate)
	return validate
}

func newTestClient(t *testing.T, handler http.HandlerFunc, policy Policy) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	tokens := TokenFunc(func() (string, error) { return "tok-123", nil })
	return NewClient(srv.URL+"/", tokens, policy, newValidator(), nil), srv
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestClient_StudentAssignments(t *testing.T) {
	var gotAuth, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, `[
			{"id": 42, "title": "HW1", "description": "d", "due_date": "2025-03-14T09:30:00", "teacher_id": 1,
			 "file_path": null, "created_at": "2025-03-01 08:00:00", "teacher_name": "Mr Smith", "has_submitted": 0}
		]`)
	}, Policy{})

	asgs, err := client.StudentAssignments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, EndpointAssignments, gotPath)
	require.Len(t, asgs, 1)
	assert.Equal(t, 42, asgs[0].ID)
	assert.Equal(t, "Mr Smith", asgs[0].TeacherName)
	assert.False(t, bool(asgs[0].HasSubmitted))
	assert.Empty(t, asgs[0].FilePath)
}

func TestClient_malformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"wrong shape", `{"id": 1}`},
		{"missing due date", `[{"id": 1, "title": "HW1"}]`},
		{"missing title", `[{"id": 1, "due_date": "2025-03-14T09:30"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			}, Policy{})
			_, err := client.StudentAssignments(context.Background())
			assert.True(t, IsMalformed(err), "got %v", err)
			assert.Equal(t, "fallback", DetailOr(err, "fallback"))
		})
	}
}

func TestClient_serverErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"detail", http.StatusBadRequest, `{"detail": "Assignment already submitted"}`, "Assignment already submitted"},
		{"structured detail", http.StatusUnprocessableEntity, `{"detail": [{"loc": ["body"]}]}`, "fallback"},
		{"no body", http.StatusInternalServerError, ``, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			}, Policy{})
			_, err := client.Submit(context.Background(), SubmissionForm{AssignmentID: 1, File: &File{Name: "a.txt", Body: strings.NewReader("x")}})
			require.Error(t, err)
			assert.Equal(t, tt.status, StatusOf(err))
			assert.Equal(t, tt.wantDetail, DetailOr(err, "fallback"))
			assert.False(t, IsTransport(err))
		})
	}
}

func TestClient_retries(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, `{"detail": "busy"}`)
			return
		}
		writeJSON(w, http.StatusOK, `[]`)
	}, Policy{Retries: 2, Backoff: time.Millisecond})

	subs, err := client.TeacherSubmissions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, subs)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))

	t.Run("mutations are sent once", func(t *testing.T) {
		atomic.StoreInt32(&calls, 0)
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeJSON(w, http.StatusServiceUnavailable, `{"detail": "busy"}`)
		}, Policy{Retries: 2, Backoff: time.Millisecond})

		err := client.DeleteAssignment(context.Background(), 7)
		assert.Equal(t, "busy", DetailOr(err, ""))
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})
}

func TestClient_timeout(t *testing.T) {
	release := make(chan struct{})
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, Policy{Timeout: 20 * time.Millisecond})
	defer close(release)

	_, err := client.Profile(context.Background())
	assert.True(t, IsTransport(err), "got %v", err)
	assert.Equal(t, "fallback", DetailOr(err, "fallback"))
}

func TestClient_CreateAssignment(t *testing.T) {
	var (
		gotTitle, gotDue, gotFile, gotContent string
	)
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		gotTitle = r.FormValue("title")
		gotDue = r.FormValue("due_date")
		if file, hdr, err := r.FormFile("file"); err == nil {
			gotFile = hdr.Filename
			data, _ := ioutil.ReadAll(file)
			gotContent = string(data)
		}
		writeJSON(w, http.StatusCreated, `{"id": 9, "title": "HW1", "description": "", "due_date": "2030-01-01T10:00:00Z", "teacher_id": 1, "created_at": "2025-01-01T10:00:00Z"}`)
	}, Policy{})

	asg, err := client.CreateAssignment(context.Background(), AssignmentForm{
		Title:   "HW1",
		DueDate: "2030-01-01T10:00",
		File:    &File{Name: "brief.pdf", Body: strings.NewReader("PDF")},
	})
	require.NoError(t, err)
	assert.Equal(t, 9, asg.ID)
	assert.Equal(t, "HW1", gotTitle)
	assert.Equal(t, "2030-01-01T10:00", gotDue)
	assert.Equal(t, "brief.pdf", gotFile)
	assert.Equal(t, "PDF", gotContent)
}

func TestClient_Login(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"token": "jwt", "token_type": "bearer",
			"user": {"id": 3, "name": "Stu", "email": "stu@example.com", "role": "student", "created_at": "2025-01-01T10:00:00Z"}}`)
	}, Policy{})

	res, err := client.Login(context.Background(), user.Credentials{Email: "stu@example.com", Password: "pwd", Role: user.RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, "jwt", res.Token)
	assert.Equal(t, user.RoleStudent, res.User.Role)

	t.Run("user without role", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"token": "jwt", "user": {"id": 3, "name": "Stu", "email": "stu@example.com"}}`)
		}, Policy{})
		_, err := client.Login(context.Background(), user.Credentials{})
		assert.True(t, IsMalformed(err))
	})
}

func TestClient_FileURL(t *testing.T) {
	client := NewClient("http://localhost:8000/", nil, Policy{}, nil, nil)
	assert.Equal(t, "http://localhost:8000/uploads/brief.pdf", client.FileURL("brief.pdf"))
	assert.Equal(t, "http://localhost:8000/uploads/my%20work.pdf", client.FileURL("my work.pdf"))
	assert.Empty(t, client.FileURL(""))
}

func TestClient_WithToken(t *testing.T) {
	var gotAuth string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, `{"message": "Logged out successfully"}`)
	}, Policy{})

	require.NoError(t, client.Logout(WithToken(context.Background(), "tok-old")))
	assert.Equal(t, "Bearer tok-old", gotAuth)

	require.NoError(t, client.Logout(context.Background()))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}
