package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/trezcool/edutrack/apps/portal/dashboard"
	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/portal"
	apisvc "github.com/trezcool/edutrack/services/api"
	logsvc "github.com/trezcool/edutrack/services/logger"
)

var (
	errNetwork = &apisvc.TransportError{Endpoint: "/x", Err: errors.New("connection refused")}
	errServer  = &apisvc.APIError{Status: 500, Detail: "boom"}
)

type navRecorder struct {
	mutex sync.Mutex
	pages []portal.Page
}

func (n *navRecorder) Redirect(page portal.Page) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.pages = append(n.pages, page)
}

func (n *navRecorder) Pages() []portal.Page {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	return append([]portal.Page(nil), n.pages...)
}

type confirmer struct {
	answer  bool
	prompts []string
}

func (c *confirmer) Confirm(prompt string) bool {
	c.prompts = append(c.prompts, prompt)
	return c.answer
}

type viewRecorder struct {
	views []dashboard.View
}

func (r *viewRecorder) Render(v dashboard.View) { r.views = append(r.views, v) }

func newDeps(t *testing.T, store portal.Store, nav *navRecorder, conf *confirmer) dashboard.Deps {
	t.Helper()
	pconf := core.NewTestConfig(t.TempDir()).Portal
	return dashboard.Deps{
		Conf:    pconf,
		Store:   store,
		Nav:     nav,
		Confirm: conf,
		Board:   portal.NewBoard(pconf.NotificationTTL),
		Logger:  logsvc.NewDiscardLogger(),
	}
}

func lastMessage(t *testing.T, board *portal.Board) string {
	t.Helper()
	n, ok := board.Last()
	if !ok {
		return ""
	}
	return n.Message
}

// calls counts requests per endpoint.
type calls struct {
	mutex sync.Mutex
	n     map[string]int
}

func (c *calls) add(name string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.n == nil {
		c.n = make(map[string]int)
	}
	c.n[name]++
}

func (c *calls) get(name string) int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.n[name]
}

type logoutFake struct {
	delay   time.Duration
	err     error
	logouts int32
}

func (l *logoutFake) Logout(ctx context.Context) error {
	atomic.AddInt32(&l.logouts, 1)
	if l.delay > 0 {
		select {
		case <-time.After(l.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return l.err
}

func fileURL(filePath string) string { return "http://api.test/uploads/" + filePath }

type studentFake struct {
	calls
	logoutFake

	mutex     sync.Mutex
	asgs      []classroom.StudentAssignment
	subs      []classroom.StudentSubmission
	prof      classroom.Profile
	asgsErr   error
	subsErr   error
	profErr   error
	submitErr error
	submitted []apisvc.SubmissionForm
}

func (f *studentFake) StudentAssignments(context.Context) ([]classroom.StudentAssignment, error) {
	f.add("assignments")
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.asgs, f.asgsErr
}

func (f *studentFake) MySubmissions(context.Context) ([]classroom.StudentSubmission, error) {
	f.add("submissions")
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.subs, f.subsErr
}

func (f *studentFake) Profile(context.Context) (classroom.Profile, error) {
	f.add("profile")
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.prof, f.profErr
}

func (f *studentFake) Submit(_ context.Context, sf apisvc.SubmissionForm) (classroom.Submission, error) {
	f.add("submit")
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.submitErr != nil {
		return classroom.Submission{}, f.submitErr
	}
	f.submitted = append(f.submitted, sf)
	return classroom.Submission{ID: len(f.submitted), AssignmentID: sf.AssignmentID}, nil
}

func (f *studentFake) FileURL(filePath string) string { return fileURL(filePath) }

type teacherFake struct {
	calls
	logoutFake

	mutex     sync.Mutex
	asgs      []classroom.TeacherAssignment
	subs      []classroom.TeacherSubmission
	filtered  map[int][]classroom.TeacherSubmission
	asgsErr   error
	subsErr   error
	viewErr   error
	createErr error
	deleteErr error
	created   []apisvc.AssignmentForm
	deleted   []int
}

func (f *teacherFake) TeacherAssignments(context.Context) ([]classroom.TeacherAssignment, error) {
	f.add("assignments")
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.asgs, f.asgsErr
}

func (f *teacherFake) TeacherSubmissions(context.Context) ([]classroom.TeacherSubmission, error) {
	f.add("submissions")
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.subs, f.subsErr
}

func (f *teacherFake) AssignmentSubmissions(_ context.Context, id int) ([]classroom.TeacherSubmission, error) {
	f.add("assignment submissions")
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.filtered[id], f.viewErr
}

func (f *teacherFake) CreateAssignment(_ context.Context, af apisvc.AssignmentForm) (classroom.Assignment, error) {
	f.add("create")
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.createErr != nil {
		return classroom.Assignment{}, f.createErr
	}
	f.created = append(f.created, af)
	return classroom.Assignment{ID: len(f.created), Title: af.Title}, nil
}

func (f *teacherFake) DeleteAssignment(_ context.Context, id int) error {
	f.add("delete")
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *teacherFake) FileURL(filePath string) string { return fileURL(filePath) }
