package render

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/portal"
)

func fileURL(filePath string) string { return "http://api.test/uploads/" + filePath }

func TestAvailableAssignments(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	asgs := []classroom.StudentAssignment{
		{
			Assignment:  classroom.Assignment{ID: 1, Title: "Late", DueDate: classroom.NewTimestamp(now.Add(-time.Hour))},
			TeacherName: "Mrs Zulu",
		},
		{
			Assignment:  classroom.Assignment{ID: 2, Title: "Open", Description: "Read ch. 2", DueDate: classroom.NewTimestamp(now.Add(time.Hour)), FilePath: "a.pdf"},
			TeacherName: "Mrs Zulu",
		},
		{
			Assignment:   classroom.Assignment{ID: 3, Title: "Done", DueDate: classroom.NewTimestamp(now.Add(-time.Hour))},
			TeacherName:  "Mr Alpha",
			HasSubmitted: true,
		},
	}

	panel := AvailableAssignments(asgs, now, fileURL)
	assert.Equal(t, portal.SectionAvailableAssignments, panel.Section)
	require.Len(t, panel.Cards, 3)

	late, open, done := panel.Cards[0], panel.Cards[1], panel.Cards[2]
	assert.Equal(t, Badge{Status: classroom.StatusOverdue, Label: "Overdue"}, late.Badge)
	assert.Equal(t, "OVERDUE!", late.Note)
	assert.True(t, late.Alert)
	require.Len(t, late.Actions, 1, "overdue work can still be submitted")
	assert.Equal(t, Action{Kind: ActionOpenSubmission, Label: "Submit Assignment", Target: 1}, late.Actions[0])

	assert.Equal(t, classroom.StatusPending, open.Badge.Status)
	assert.Equal(t, "Read ch. 2", open.Body)
	assert.Equal(t, "Teacher: Mrs Zulu", open.Meta[0])
	assert.Equal(t, []Link{{Label: "Download Assignment File", URL: "http://api.test/uploads/a.pdf"}}, open.Links)
	assert.Empty(t, open.Note)

	assert.Equal(t, classroom.StatusCompleted, done.Badge.Status)
	assert.Equal(t, "✓ Already Submitted", done.Note)
	assert.False(t, done.Alert)
	assert.Empty(t, done.Actions)
	assert.Empty(t, done.Links)

	empty := AvailableAssignments(nil, now, fileURL)
	assert.True(t, empty.Empty())
	assert.Equal(t, "No assignments available.", empty.Placeholder)
}

func TestAvailableAssignments_localDueDate(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("JST", 9*3600)
	t.Cleanup(func() { time.Local = prev })

	var asg classroom.StudentAssignment
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "title": "HW1", "due_date": "2025-03-14T09:30", "teacher_name": "T"}`), &asg))

	now := time.Date(2025, 3, 14, 9, 31, 0, 0, time.Local)
	card := AvailableAssignments([]classroom.StudentAssignment{asg}, now, fileURL).Cards[0]
	assert.Equal(t, []string{"Teacher: T", "Due: Mar 14, 2025 09:30"}, card.Meta)
	assert.Equal(t, classroom.StatusOverdue, card.Badge.Status)

	card = AvailableAssignments([]classroom.StudentAssignment{asg}, now.Add(-2*time.Minute), fileURL).Cards[0]
	assert.Equal(t, classroom.StatusPending, card.Badge.Status)
}

func TestMySubmissions(t *testing.T) {
	sub := classroom.StudentSubmission{
		Submission: classroom.Submission{
			ID:          1,
			FilePath:    "mine.pdf",
			Notes:       "late, sorry",
			SubmittedAt: classroom.NewTimestamp(time.Date(2025, 3, 14, 9, 0, 0, 0, time.Local)),
		},
		AssignmentTitle: "HW1",
		TeacherName:     "Mrs Zulu",
	}

	panel := MySubmissions([]classroom.StudentSubmission{sub}, fileURL)
	require.Len(t, panel.Cards, 1)
	card := panel.Cards[0]
	assert.Equal(t, "HW1", card.Title)
	assert.Equal(t, "Teacher: Mrs Zulu", card.Subtitle)
	assert.Equal(t, []string{"Submitted: Mar 14, 2025", "Due Date: -"}, card.Meta)
	assert.Equal(t, "Notes: late, sorry", card.Body)
	assert.Equal(t, "Submitted", card.Badge.Label)
	assert.Equal(t, "http://api.test/uploads/mine.pdf", card.Links[0].URL)

	assert.Equal(t, "No submissions yet.", MySubmissions(nil, fileURL).Placeholder)
}

func TestProfile(t *testing.T) {
	prof := classroom.Profile{
		TotalAssignments:     3,
		CompletedAssignments: 1,
		PendingAssignments:   2,
		TeachersAssignments: []classroom.TeacherGroup{
			{TeacherName: "Mrs Zulu", Assignments: []classroom.ProfileItem{{Title: "HW1", Completed: true}, {Title: "HW2"}}},
			{TeacherName: "Mr Alpha", Assignments: []classroom.ProfileItem{{Title: "Essay"}}},
		},
	}

	panel := Profile(prof)
	assert.Equal(t, []Fact{
		{Label: "Total Assignments", Value: "3"},
		{Label: "Completed", Value: "1"},
		{Label: "Pending", Value: "2"},
	}, panel.Facts)
	assert.Equal(t, "Work from Different Teachers:", panel.Header.Title)
	require.Len(t, panel.Cards, 2)
	assert.Equal(t, "👨‍🏫 Mrs Zulu", panel.Cards[0].Title)
	assert.Equal(t, []Tag{{Label: "HW1 ✓", Completed: true}, {Label: "HW2 ⏳"}}, panel.Cards[0].Tags)

	empty := Profile(classroom.Profile{})
	assert.Equal(t, "No assignments from any teachers yet.", empty.Placeholder)
	assert.Equal(t, "0", empty.Facts[0].Value)
}

func TestTeacherAssignments(t *testing.T) {
	asgs := []classroom.TeacherAssignment{
		{Assignment: classroom.Assignment{ID: 7, Title: "HW1", FilePath: "hw1.pdf"}, SubmissionCount: 1},
		{Assignment: classroom.Assignment{ID: 8, Title: "HW2"}, Status: classroom.StatusOverdue},
	}

	panel := TeacherAssignments(asgs, fileURL)
	require.Len(t, panel.Cards, 2)
	first := panel.Cards[0]
	assert.Equal(t, Badge{Status: classroom.StatusActive, Label: "Active"}, first.Badge)
	assert.Equal(t, []string{"Created: -", "Due: -", "Submissions: 1"}, first.Meta)
	assert.Equal(t, []Action{
		{Kind: ActionViewSubmission, Label: "View Submissions (1)", Target: 7},
		{Kind: ActionDelete, Label: "Delete", Target: 7},
	}, first.Actions)
	assert.Equal(t, "Download File", first.Links[0].Label)
	assert.Equal(t, "Overdue", panel.Cards[1].Badge.Label)
	assert.Empty(t, panel.Cards[1].Links)

	assert.Equal(t, "No assignments created yet.", TeacherAssignments(nil, fileURL).Placeholder)
}

func TestTeacherSubmissions(t *testing.T) {
	subs := []classroom.TeacherSubmission{
		{Submission: classroom.Submission{ID: 1, FilePath: "s1.pdf"}, AssignmentTitle: "HW1", StudentName: "Stu One", StudentEmail: "one@example.com"},
	}

	tests := []struct {
		name        string
		panel       Panel
		wantHeader  *Header
		placeholder string
		actions     []Action
	}{
		{
			name:  "all",
			panel: TeacherSubmissions(subs, fileURL),
			wantHeader: &Header{
				Title:  "All Submissions",
				Count:  "1 total submission",
				Action: &Action{Kind: ActionNavigate, Label: "Back to Assignments", Section: portal.SectionAssignmentsList},
			},
		},
		{
			name:        "all empty",
			panel:       TeacherSubmissions(nil, fileURL),
			placeholder: "No submissions yet.",
			actions:     []Action{{Kind: ActionNavigate, Label: "Go to Assignments", Section: portal.SectionAssignmentsList}},
		},
		{
			name:  "filtered",
			panel: FilteredSubmissions(append(subs, subs[0]), "HW1", fileURL),
			wantHeader: &Header{
				Title:  "Submissions for: HW1",
				Count:  "2 submissions",
				Action: &Action{Kind: ActionShowAll, Label: "Show All Submissions"},
			},
		},
		{
			name:        "filtered empty",
			panel:       FilteredSubmissions(nil, "HW1", fileURL),
			placeholder: "No submissions for this assignment yet.",
			actions:     []Action{{Kind: ActionShowAll, Label: "View All Submissions"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, portal.SectionSubmissionsList, tt.panel.Section)
			assert.Equal(t, tt.wantHeader, tt.panel.Header)
			assert.Equal(t, tt.placeholder, tt.panel.Placeholder)
			assert.Equal(t, tt.actions, tt.panel.Actions)
			if tt.wantHeader != nil {
				card := tt.panel.Cards[0]
				assert.Equal(t, "Student: Stu One", card.Subtitle)
				assert.Equal(t, "Student Email: one@example.com", card.Meta[1])
				assert.Equal(t, "Download Submission", card.Links[0].Label)
			}
		})
	}
}

func TestLoadingAndFailed(t *testing.T) {
	loading := Loading(portal.SectionSubmissionsList, "Loading submissions...")
	assert.True(t, loading.Loading)
	assert.True(t, loading.Empty())

	failed := Failed(portal.SectionSubmissionsList, "Failed to load assignment submissions")
	assert.False(t, failed.Loading)
	assert.Equal(t, "Failed to load assignment submissions", failed.Placeholder)
}
