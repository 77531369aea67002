package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutrack/apps/portal/dashboard"
	"github.com/trezcool/edutrack/apps/portal/render"
	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/portal"
	"github.com/trezcool/edutrack/core/user"
)

func teacherView() dashboard.View {
	state := portal.TeacherLayout.Navigate(portal.ViewState{Width: 1280}, portal.SectionAssignmentsList)
	return dashboard.View{
		Role:     user.RoleTeacher,
		Greeting: "Welcome, Mrs Zulu",
		State:    state,
		Links:    portal.TeacherLayout.Links(state),
		Stats:    portal.TeacherStats(portal.Tally{Assignments: 1, Submissions: 2}),
		Panel: render.Panel{
			Section: portal.SectionAssignmentsList,
			Cards: []render.Card{{
				Title: "HW1",
				Badge: render.Badge{Status: classroom.StatusActive, Label: "Active"},
				Meta:  []string{"Due: Mar 14, 2025", "Submissions: 2"},
				Body:  "Chapter 3",
				Actions: []render.Action{
					{Kind: render.ActionViewSubmission, Label: "View Submissions (2)", Target: 7},
					{Kind: render.ActionDelete, Label: "Delete", Target: 7},
				},
				Links: []render.Link{{Label: "Download File", URL: "http://api.test/uploads/hw1.pdf"}},
			}},
		},
		Notifications: []portal.Notification{{Level: portal.LevelSuccess, Message: "Assignment created successfully!"}},
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, teacherView()))
	out := buf.String()

	for _, want := range []string{
		"==== Welcome, Mrs Zulu ====",
		"[*] My Assignments  > go assignments-list",
		"[ ] Create New Assignment  > go create-assignment",
		"| Assignments: 1 | Submissions: 2",
		"---- My Assignments ----",
		"* HW1 [Active]",
		"    Due: Mar 14, 2025",
		"    Chapter 3",
		"    Download File: http://api.test/uploads/hw1.pdf",
		"    > view 7  (View Submissions (2))",
		"    > delete 7  (Delete)",
		"(success) Assignment created successfully!",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWrite_panels(t *testing.T) {
	tests := []struct {
		name  string
		panel render.Panel
		want  []string
	}{
		{
			name:  "loading",
			panel: render.Loading(portal.SectionSubmissionsList, "Loading submissions..."),
			want:  []string{"... Loading submissions..."},
		},
		{
			name:  "placeholder",
			panel: render.Failed(portal.SectionSubmissionsList, "Failed to load submissions"),
			want:  []string{"Failed to load submissions\n"},
		},
		{
			name: "header",
			panel: render.Panel{
				Header: &render.Header{
					Title:  "Submissions for: HW1",
					Count:  "2 submissions",
					Action: &render.Action{Kind: render.ActionShowAll, Label: "Show All"},
				},
			},
			want: []string{"Submissions for: HW1 - 2 submissions  > all  (Show All)"},
		},
		{
			name: "form",
			panel: render.Panel{
				Facts:   []render.Fact{{Label: "Assignment", Value: "HW1"}},
				Fields:  []render.Field{{Label: "File", Required: true}, {Label: "Notes"}},
				Actions: []render.Action{{Kind: render.ActionNavigate, Label: "Cancel", Section: portal.SectionAvailableAssignments}},
			},
			want: []string{"Assignment: HW1\n", "  File *\n", "  Notes\n", "> go available-assignments  (Cancel)"},
		},
		{
			name: "tags",
			panel: render.Panel{Cards: []render.Card{{
				Title: "Mrs Zulu",
				Tags:  []render.Tag{{Label: "HW1", Completed: true}, {Label: "HW2"}},
			}}},
			want: []string{"[x] HW1", "[ ] HW2"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := teacherView()
			v.Panel = tt.panel
			var buf bytes.Buffer
			require.NoError(t, Write(&buf, v))
			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestWrite_narrowSidebar(t *testing.T) {
	v := teacherView()
	v.State.Width = 600
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, v))
	assert.NotContains(t, buf.String(), "> go assignments-list")

	v.State.SidebarOpen = true
	buf.Reset()
	require.NoError(t, Write(&buf, v))
	assert.Contains(t, buf.String(), "> go assignments-list")
}

func TestScreen(t *testing.T) {
	var buf bytes.Buffer
	scr := NewScreen(&buf)

	require.NoError(t, scr.Draw())
	assert.Empty(t, buf.String())

	scr.Render(teacherView())
	require.NoError(t, scr.Draw())
	assert.Contains(t, buf.String(), "Welcome, Mrs Zulu")
	assert.Equal(t, "Welcome, Mrs Zulu", scr.Last().Greeting)

	buf.Reset()
	require.NoError(t, scr.Draw())
	assert.Empty(t, buf.String(), "nothing new to draw")
}

func TestConsole(t *testing.T) {
	var out bytes.Buffer
	con := NewConsole(strings.NewReader("  view 7 \nY\nno\nyes\n"), &out)

	line, ok := con.ReadLine("> ")
	assert.True(t, ok)
	assert.Equal(t, "view 7", line)

	assert.True(t, con.Confirm("Delete?"))
	assert.False(t, con.Confirm("Delete?"))
	assert.True(t, con.Confirm("Delete?"))
	assert.False(t, con.Confirm("Delete?"), "EOF declines")

	_, ok = con.ReadLine("> ")
	assert.False(t, ok)
	assert.True(t, strings.HasPrefix(out.String(), "> Delete? [y/N] "))
}

func TestRedirects(t *testing.T) {
	var nav Redirects
	assert.False(t, nav.Away())

	nav.Redirect(portal.PageTeacher)
	nav.Redirect(portal.PageRoot)
	last, ok := nav.Last()
	assert.True(t, ok)
	assert.Equal(t, portal.PageRoot, last)
}

func TestCommand(t *testing.T) {
	assert.Equal(t, "open 42", Command(render.Action{Kind: render.ActionOpenSubmission, Target: 42}))
	assert.Equal(t, "all", Command(render.Action{Kind: render.ActionShowAll}))
	assert.Equal(t, "go my-submissions", Command(render.Action{Kind: render.ActionNavigate, Section: portal.SectionMySubmissions}))
}
