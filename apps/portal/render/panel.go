package render

import (
	"strconv"

	"github.com/trezcool/edutrack/core/classroom"
	"github.com/trezcool/edutrack/core/portal"
)

const (
	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006 15:04"
)

// Action kinds
const (
	ActionOpenSubmission ActionKind = "open"   // student: go to the submission form
	ActionViewSubmission ActionKind = "view"   // teacher: submissions of one assignment
	ActionDelete         ActionKind = "delete" // teacher: delete the assignment
	ActionShowAll        ActionKind = "all"    // teacher: reload all submissions
	ActionNavigate       ActionKind = "go"
)

type (
	ActionKind string

	// Action is a button. Pressing it is the controller's business, never the panel's.
	Action struct {
		Kind    ActionKind
		Label   string
		Target  int
		Section portal.SectionID
	}

	Link struct {
		Label string
		URL   string
	}

	Badge struct {
		Status classroom.Status
		Label  string
	}

	Tag struct {
		Label     string
		Completed bool
	}

	Fact struct {
		Label string
		Value string
	}

	Field struct {
		Name     string
		Label    string
		Required bool
	}

	Card struct {
		Title    string
		Subtitle string
		Badge    Badge
		Meta     []string
		Body     string
		Note     string // e.g. "OVERDUE!"
		Alert    bool
		Tags     []Tag
		Actions  []Action
		Links    []Link
	}

	Header struct {
		Title  string
		Count  string
		Action *Action
	}

	// Panel is the displayed content of one section.
	Panel struct {
		Section     portal.SectionID
		Header      *Header
		Facts       []Fact
		Fields      []Field
		Cards       []Card
		Placeholder string
		Actions     []Action
		Loading     bool
	}

	// FileURL turns a stored file reference into its download link.
	FileURL func(filePath string) string
)

func (p Panel) Empty() bool { return len(p.Cards) == 0 }

func formatDate(ts classroom.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(dateLayout)
}

func formatDateTime(ts classroom.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(dateTimeLayout)
}

func itoa(i int) string { return strconv.Itoa(i) }

func plural(n int, word string) string {
	s := itoa(n) + " " + word
	if n != 1 {
		s += "s"
	}
	return s
}

func badge(status classroom.Status) Badge {
	return Badge{Status: status, Label: status.Label()}
}

// Loading is the transient panel shown while a section is being fetched.
func Loading(section portal.SectionID, msg string) Panel {
	return Panel{Section: section, Placeholder: msg, Loading: true}
}

// Failed replaces a loading panel whose fetch failed.
func Failed(section portal.SectionID, msg string) Panel {
	return Panel{Section: section, Placeholder: msg}
}
