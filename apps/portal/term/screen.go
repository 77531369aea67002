// Package term displays the portal dashboards on a terminal.
package term

import (
	"io"
	"strconv"
	"sync"
	"text/template"

	"github.com/trezcool/edutrack/apps/portal/dashboard"
	"github.com/trezcool/edutrack/apps/portal/render"
)

const viewTemplate = `{{define "card"}}* {{.Title}}{{with .Badge.Label}} [{{.}}]{{end}}{{if .Alert}} (!){{end}}
{{with .Subtitle}}    {{.}}
{{end}}{{range .Meta}}    {{.}}
{{end}}{{with .Body}}    {{.}}
{{end}}{{with .Note}}    {{.}}
{{end}}{{with .Tags}}    {{range .}}{{if .Completed}}[x]{{else}}[ ]{{end}} {{.Label}}  {{end}}
{{end}}{{range .Links}}    {{.Label}}: {{.URL}}
{{end}}{{range .Actions}}    > {{command .}}  ({{.Label}})
{{end}}{{end}}{{define "panel"}}{{with .Header}}{{.Title}}{{with .Count}} - {{.}}{{end}}{{with .Action}}  > {{command .}}  ({{.Label}}){{end}}
{{end}}{{range .Facts}}{{.Label}}: {{.Value}}
{{end}}{{range .Fields}}  {{.Label}}{{if .Required}} *{{end}}
{{end}}{{range .Cards}}{{template "card" .}}{{end}}{{with .Placeholder}}{{if $.Loading}}... {{end}}{{.}}
{{end}}{{range .Actions}}> {{command .}}  ({{.Label}})
{{end}}{{end}}{{define "view"}}==== {{.Greeting}} ====
{{if or .State.SidebarOpen (not .State.Narrow)}}{{range .Links}}{{if .Active}}[*]{{else}}[ ]{{end}} {{.Section.Title}}  > go {{.Section.ID}}
{{end}}{{end}}{{range .Stats}}| {{.}} {{end}}|
---- {{.State.Title}} ----
{{template "panel" .Panel}}{{range .Notifications}}({{.Level}}) {{.Message}}
{{end}}{{end}}`

var tmpl = template.Must(template.New("view").Funcs(template.FuncMap{"command": Command}).Parse(viewTemplate))

// Command is the console input that triggers the action.
func Command(a render.Action) string {
	switch a.Kind {
	case render.ActionNavigate:
		return "go " + string(a.Section)
	case render.ActionShowAll:
		return string(a.Kind)
	}
	if a.Target != 0 {
		return string(a.Kind) + " " + strconv.Itoa(a.Target)
	}
	return string(a.Kind)
}

// Screen is a dashboard.Target that keeps the last View until it is drawn.
// Controllers render on every loader; the console only draws between commands.
type Screen struct {
	mutex sync.Mutex
	out   io.Writer
	last  dashboard.View
	dirty bool
}

var _ dashboard.Target = (*Screen)(nil)

func NewScreen(out io.Writer) *Screen {
	return &Screen{out: out}
}

func (s *Screen) Render(v dashboard.View) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.last = v
	s.dirty = true
}

// Last returns the most recent View rendered.
func (s *Screen) Last() dashboard.View {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.last
}

// Draw writes the last View if it changed since the previous Draw.
func (s *Screen) Draw() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.dirty {
		return nil
	}
	s.dirty = false
	return Write(s.out, s.last)
}

// Write executes the view template.
func Write(w io.Writer, v dashboard.View) error {
	return tmpl.ExecuteTemplate(w, "view", v)
}
