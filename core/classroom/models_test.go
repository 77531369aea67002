package classroom

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setLocal pins time.Local for the test.
func setLocal(t *testing.T, loc *time.Location) {
	prev := time.Local
	time.Local = loc
	t.Cleanup(func() { time.Local = prev })
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	setLocal(t, time.FixedZone("CAT", 2*3600))
	want := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	local := time.Date(2025, 3, 14, 9, 30, 0, 0, time.Local)

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"rfc3339", `"2025-03-14T09:30:00Z"`, want},
		{"rfc3339 offset", `"2025-03-14T11:30:00+02:00"`, want},
		{"datetime-local", `"2025-03-14T09:30"`, local},
		{"naive seconds", `"2025-03-14T09:30:00"`, local},
		{"sql", `"2025-03-14 09:30:00"`, local},
		{"null", `null`, time.Time{}},
		{"empty", `""`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.input), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %v", ts.Time)
		})
	}

	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2025-03-14T09:30"`), &ts))
	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-14T07:30:00Z"`, string(data), "naive input is the local wall clock")

	assert.Error(t, json.Unmarshal([]byte(`"next tuesday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`42`), &ts))
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewTimestamp(time.Date(2025, 3, 14, 11, 30, 0, 0, time.FixedZone("CAT", 2*3600))))
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-14T09:30:00Z"`, string(data))

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestFlag_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input   string
		want    Flag
		wantErr bool
	}{
		{`true`, true, false},
		{`false`, false, false},
		{`1`, true, false},
		{`0`, false, false},
		{`null`, false, false},
		{`"yes"`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var f Flag
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestStudentStatus(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	past := NewTimestamp(now.Add(-time.Hour))
	future := NewTimestamp(now.Add(time.Hour))

	tests := []struct {
		name      string
		due       Timestamp
		submitted Flag
		want      Status
	}{
		{"past due not submitted", past, false, StatusOverdue},
		{"past due submitted", past, true, StatusCompleted},
		{"future submitted", future, true, StatusCompleted},
		{"future not submitted", future, false, StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asg := StudentAssignment{Assignment: Assignment{ID: 1, DueDate: tt.due}, HasSubmitted: tt.submitted}
			assert.Equal(t, tt.want, StudentStatus(asg, now))
		})
	}
}

func TestTeacherStatus(t *testing.T) {
	assert.Equal(t, StatusActive, TeacherStatus(TeacherAssignment{}))
	assert.Equal(t, Status("archived"), TeacherStatus(TeacherAssignment{Status: "archived"}))
	assert.Equal(t, "Active", StatusActive.Label())
	assert.Equal(t, "archived", Status("archived").Label())
}

func TestValidatePayloads(t *testing.T) {
	validate := validator.New()
	InitValidators(validate)

	var asgs []StudentAssignment
	require.NoError(t, json.Unmarshal([]byte(`[
		{"id": 42, "title": "HW1", "description": "", "due_date": "2025-03-14T09:30", "teacher_id": 1,
		 "created_at": "2025-03-01 08:00:00", "teacher_name": "Mr Smith", "has_submitted": 1}
	]`), &asgs))
	require.NoError(t, ValidateStudentAssignments(validate, asgs))
	assert.True(t, bool(asgs[0].HasSubmitted))

	var broken []StudentAssignment
	require.NoError(t, json.Unmarshal([]byte(`[{"id": 42, "title": "HW1"}]`), &broken))
	assert.Error(t, ValidateStudentAssignments(validate, broken), "missing due date")

	var subs []TeacherSubmission
	require.NoError(t, json.Unmarshal([]byte(`[{"id": 1, "assignment_id": 0, "submitted_at": "2025-03-14T09:30:00Z"}]`), &subs))
	assert.Error(t, ValidateTeacherSubmissions(validate, subs), "missing assignment id")

	prof := Profile{TotalAssignments: 1, CompletedAssignments: 2}
	assert.Error(t, validate.Struct(prof))
	prof.TotalAssignments = 3
	assert.NoError(t, validate.Struct(prof))
}
