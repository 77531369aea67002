package portal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func countActive(links []Link) int {
	var n int
	for _, l := range links {
		if l.Active {
			n++
		}
	}
	return n
}

func TestLayout_Initial(t *testing.T) {
	vs := StudentLayout.Initial(1280)
	assert.Equal(t, SectionAvailableAssignments, vs.Visible)
	assert.Equal(t, "Available Assignments", vs.Title)

	vs = TeacherLayout.Initial(1280)
	assert.Equal(t, SectionCreateAssignment, vs.Visible)
	assert.Equal(t, SectionCreateAssignment, vs.ActiveLink)
	assert.Equal(t, "Create New Assignment", vs.Title)
}

func TestLayout_Navigate(t *testing.T) {
	layouts := map[string]Layout{"student": StudentLayout, "teacher": TeacherLayout}

	for name, layout := range layouts {
		t.Run(name, func(t *testing.T) {
			for _, sec := range layout.Sections {
				start := layout.Initial(1280)
				start.ScrollTop = 300

				vs := layout.Navigate(start, sec.ID)
				assert.Equal(t, sec.ID, vs.Visible)
				assert.Equal(t, sec.Title, vs.Title)
				assert.Zero(t, vs.ScrollTop)
				assert.Equal(t, 1, countActive(layout.Links(vs)), sec.ID)

				var visible int
				for _, other := range layout.Sections {
					if vs.IsVisible(other.ID) {
						visible++
					}
				}
				assert.Equal(t, 1, visible)
			}
		})
	}

	t.Run("submission form highlights available assignments", func(t *testing.T) {
		vs := StudentLayout.Navigate(StudentLayout.Initial(1280), SectionSubmissionForm)
		assert.Equal(t, SectionSubmissionForm, vs.Visible)
		assert.Equal(t, SectionAvailableAssignments, vs.ActiveLink)
		for _, l := range StudentLayout.Links(vs) {
			assert.Equal(t, l.Section.ID == SectionAvailableAssignments, l.Active)
		}
	})

	t.Run("unknown section", func(t *testing.T) {
		for _, id := range []SectionID{"", "grades", SectionCreateAssignment} {
			start := StudentLayout.Initial(1280)
			start.ScrollTop = 120

			vs := StudentLayout.Navigate(start, id)
			assert.Equal(t, SectionID(""), vs.Visible)
			assert.Equal(t, UnknownSectionTitle, vs.Title)
			assert.Equal(t, 120, vs.ScrollTop)
			assert.Zero(t, countActive(StudentLayout.Links(vs)))
			for _, sec := range StudentLayout.Sections {
				assert.False(t, vs.IsVisible(sec.ID))
			}
		}
	})
}

func TestSidebar(t *testing.T) {
	vs := TeacherLayout.Initial(600)
	assert.True(t, vs.Narrow())

	vs = ToggleSidebar(vs)
	assert.True(t, vs.SidebarOpen)
	vs = TeacherLayout.Navigate(vs, SectionAssignmentsList)
	assert.False(t, vs.SidebarOpen, "navigation closes the overlay")

	vs = DismissSidebar(ToggleSidebar(vs))
	assert.False(t, vs.SidebarOpen)

	vs = ToggleSidebar(vs)
	vs = Resize(vs, 700)
	assert.True(t, vs.SidebarOpen, "still narrow")
	vs = Resize(vs, 1024)
	assert.False(t, vs.SidebarOpen)

	// wide viewports keep the sidebar as it was
	vs = ToggleSidebar(vs)
	vs = TeacherLayout.Navigate(vs, SectionSubmissionsList)
	assert.True(t, vs.SidebarOpen)
	vs = DismissSidebar(vs)
	assert.True(t, vs.SidebarOpen)
}
