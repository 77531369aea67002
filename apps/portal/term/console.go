package term

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/trezcool/edutrack/core/portal"
)

// Console reads commands and answers from one input.
type Console struct {
	mutex   sync.Mutex
	scanner *bufio.Scanner
	out     io.Writer
}

var _ portal.Confirmer = (*Console)(nil)

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{scanner: bufio.NewScanner(in), out: out}
}

// ReadLine prompts and reads one trimmed line. ok is false once the input is exhausted.
func (c *Console) ReadLine(prompt string) (line string, ok bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if prompt != "" {
		_, _ = fmt.Fprint(c.out, prompt)
	}
	if !c.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(c.scanner.Text()), true
}

// Confirm accepts "y" or "yes" in any case. Anything else, including EOF, declines.
func (c *Console) Confirm(prompt string) bool {
	line, ok := c.ReadLine(prompt + " [y/N] ")
	if !ok {
		return false
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true
	}
	return false
}

// Redirects records the pages a controller navigated to.
type Redirects struct {
	mutex sync.Mutex
	pages []portal.Page
}

var _ portal.Navigator = (*Redirects)(nil)

func (r *Redirects) Redirect(page portal.Page) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.pages = append(r.pages, page)
}

// Last returns the latest redirect.
func (r *Redirects) Last() (portal.Page, bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if len(r.pages) == 0 {
		return "", false
	}
	return r.pages[len(r.pages)-1], true
}

// Away reports whether the page was left.
func (r *Redirects) Away() bool {
	_, ok := r.Last()
	return ok
}
