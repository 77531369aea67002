package portal

import (
	"github.com/trezcool/edutrack/core/user"
)

const (
	// NarrowWidth is the widest viewport where the sidebar is an overlay.
	NarrowWidth = 768

	// UnknownSectionTitle is the page title after navigating to an unknown section.
	UnknownSectionTitle = "Section"
)

// Student sections
const (
	SectionAvailableAssignments SectionID = "available-assignments"
	SectionMySubmissions        SectionID = "my-submissions"
	SectionStudentProfile       SectionID = "student-profile"
	SectionSubmissionForm       SectionID = "submission-form"
)

// Teacher sections
const (
	SectionCreateAssignment SectionID = "create-assignment"
	SectionAssignmentsList  SectionID = "assignments-list"
	SectionSubmissionsList  SectionID = "submissions-list"
)

type (
	SectionID string

	Section struct {
		ID    SectionID
		Title string
		// Sidebar is false for sections reached only through an item action.
		Sidebar bool
	}

	StatsFunc func(Tally) Stats

	// Layout is a dashboard's configuration: its sections, where it starts and how its stats are derived.
	Layout struct {
		Role      user.Role
		Sections  []Section
		Default   SectionID
		Fallbacks map[SectionID]SectionID // section -> highlighted link
		Stats     StatsFunc
	}

	// ViewState is the client-only state of a dashboard page.
	ViewState struct {
		Visible     SectionID // "" when no section is visible
		ActiveLink  SectionID // "" when no link is active
		Title       string
		ScrollTop   int
		SidebarOpen bool
		Width       int
	}

	Link struct {
		Section Section
		Active  bool
	}
)

var (
	StudentLayout = Layout{
		Role: user.RoleStudent,
		Sections: []Section{
			{ID: SectionAvailableAssignments, Title: "Available Assignments", Sidebar: true},
			{ID: SectionMySubmissions, Title: "My Submissions", Sidebar: true},
			{ID: SectionStudentProfile, Title: "My Profile", Sidebar: true},
			{ID: SectionSubmissionForm, Title: "Submit Assignment"},
		},
		Default:   SectionAvailableAssignments,
		Fallbacks: map[SectionID]SectionID{SectionSubmissionForm: SectionAvailableAssignments},
		Stats:     StudentStats,
	}

	TeacherLayout = Layout{
		Role: user.RoleTeacher,
		Sections: []Section{
			{ID: SectionCreateAssignment, Title: "Create New Assignment", Sidebar: true},
			{ID: SectionAssignmentsList, Title: "My Assignments", Sidebar: true},
			{ID: SectionSubmissionsList, Title: "Student Submissions", Sidebar: true},
		},
		Default: SectionCreateAssignment,
		Stats:   TeacherStats,
	}
)

func (vs ViewState) Narrow() bool { return vs.Width <= NarrowWidth }

func (vs ViewState) IsVisible(id SectionID) bool { return id != "" && vs.Visible == id }

func (l Layout) Section(id SectionID) (Section, bool) {
	for _, sec := range l.Sections {
		if sec.ID == id {
			return sec, true
		}
	}
	return Section{}, false
}

// Initial is the view state on page entry.
func (l Layout) Initial(width int) ViewState {
	return l.Navigate(ViewState{Width: width}, l.Default)
}

// Navigate shows the section and hides every other one.
// An unknown id leaves nothing visible and only the fallback title.
func (l Layout) Navigate(vs ViewState, id SectionID) ViewState {
	sec, ok := l.Section(id)
	if ok {
		vs.Visible = sec.ID
		vs.Title = sec.Title
		vs.ScrollTop = 0
		vs.ActiveLink = l.activeLinkFor(sec)
	} else {
		vs.Visible = ""
		vs.Title = UnknownSectionTitle
		vs.ActiveLink = ""
	}
	if vs.Narrow() {
		vs.SidebarOpen = false
	}
	return vs
}

func (l Layout) activeLinkFor(sec Section) SectionID {
	if sec.Sidebar {
		return sec.ID
	}
	if fb, ok := l.Fallbacks[sec.ID]; ok {
		return fb
	}
	return ""
}

// Links are the sidebar entries with their highlighting.
func (l Layout) Links(vs ViewState) []Link {
	links := make([]Link, 0, len(l.Sections))
	for _, sec := range l.Sections {
		if sec.Sidebar {
			links = append(links, Link{Section: sec, Active: sec.ID == vs.ActiveLink})
		}
	}
	return links
}

func ToggleSidebar(vs ViewState) ViewState {
	vs.SidebarOpen = !vs.SidebarOpen
	return vs
}

// DismissSidebar closes the overlay on narrow viewports, as a click outside the sidebar does.
func DismissSidebar(vs ViewState) ViewState {
	if vs.Narrow() {
		vs.SidebarOpen = false
	}
	return vs
}

// Resize records the viewport width. The overlay is closed when the viewport grows wide.
func Resize(vs ViewState, width int) ViewState {
	vs.Width = width
	if !vs.Narrow() {
		vs.SidebarOpen = false
	}
	return vs
}
