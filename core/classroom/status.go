package classroom

// Status is a display-only classification of an assignment or submission.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusOverdue   Status = "overdue"
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSubmitted Status = "submitted"
)

var statusLabels = map[Status]string{
	StatusCompleted: "Completed",
	StatusOverdue:   "Overdue",
	StatusPending:   "Pending",
	StatusActive:    "Active",
	StatusSubmitted: "Submitted",
}

// Label is the human readable Status.
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	if s == "" {
		return ""
	}
	return string(s)
}
