package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/edutrack/apps/portal/render"
	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/portal"
	"github.com/trezcool/edutrack/core/user"
	apisvc "github.com/trezcool/edutrack/services/api"
)

const (
	msgNetworkError  = "Network error. Please try again."
	msgLogoutConfirm = "Are you sure you want to logout?"

	defaultLogoutTimeout = 500 * time.Millisecond
)

type (
	// Target displays Views, e.g. a terminal. Render is called with the controller locked.
	Target interface {
		Render(v View)
	}

	// View is everything a dashboard shows at one point in time.
	View struct {
		Role          user.Role
		Greeting      string
		State         portal.ViewState
		Links         []portal.Link
		Stats         portal.Stats
		Panel         render.Panel // of the visible section
		Notifications []portal.Notification
	}

	Deps struct {
		Conf    core.PortalConfig
		Store   portal.Store
		Nav     portal.Navigator
		Confirm portal.Confirmer
		Board   *portal.Board
		Logger  core.Logger
		Target  Target           // optional
		Now     func() time.Time // optional
	}

	// loader fetches a collection and applies it to the controller.
	loader func(ctx context.Context)

	// controller is the page-state machinery shared by the role dashboards.
	controller struct {
		mutex   sync.Mutex
		layout  portal.Layout
		deps    Deps
		session portal.Session
		state   portal.ViewState
		panels  map[portal.SectionID]render.Panel
		tally   portal.Tally
		stats   portal.Stats
		logout  func(ctx context.Context) error
	}
)

func newController(layout portal.Layout, deps Deps, logout func(ctx context.Context) error) *controller {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Board == nil {
		deps.Board = portal.NewBoard(deps.Conf.NotificationTTL)
	}
	return &controller{
		layout: layout,
		deps:   deps,
		panels: make(map[portal.SectionID]render.Panel),
		stats:  layout.Stats(portal.Tally{}),
		logout: logout,
	}
}

// enter runs the Session Guard and sets the initial section.
func (c *controller) enter() error {
	sess, err := portal.Guard(c.deps.Store, c.layout.Role, c.deps.Nav)
	if err != nil {
		return err
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.session = sess
	c.state = c.layout.Initial(c.deps.Conf.ViewportWidth)
	c.renderLocked()
	return nil
}

// load runs the loaders concurrently and waits for all of them.
func (c *controller) load(ctx context.Context, loaders ...loader) {
	var wg sync.WaitGroup
	wg.Add(len(loaders))
	for _, ld := range loaders {
		go func(ld loader) {
			defer wg.Done()
			ld(ctx)
		}(ld)
	}
	wg.Wait()
}

// update applies fn under the lock, then re-derives the stats and renders.
func (c *controller) update(fn func()) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	fn()
	c.stats = c.layout.Stats(c.tally)
	c.renderLocked()
}

func (c *controller) renderLocked() {
	if c.deps.Target != nil {
		c.deps.Target.Render(c.viewLocked())
	}
}

func (c *controller) viewLocked() View {
	return View{
		Role:          c.layout.Role,
		Greeting:      "Welcome, " + c.session.User.Name,
		State:         c.state,
		Links:         c.layout.Links(c.state),
		Stats:         append(portal.Stats(nil), c.stats...),
		Panel:         c.panels[c.state.Visible],
		Notifications: c.deps.Board.Active(c.deps.Now()),
	}
}

func (c *controller) View() View {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.viewLocked()
}

// Panel returns the last content rendered into the section, visible or not.
func (c *controller) Panel(id portal.SectionID) render.Panel {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.panels[id]
}

func (c *controller) Stats() portal.Stats {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append(portal.Stats(nil), c.stats...)
}

func (c *controller) Session() portal.Session {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.session
}

func (c *controller) Navigate(id portal.SectionID) {
	c.update(func() { c.state = c.layout.Navigate(c.state, id) })
}

func (c *controller) ToggleSidebar() {
	c.update(func() { c.state = portal.ToggleSidebar(c.state) })
}

func (c *controller) DismissSidebar() {
	c.update(func() { c.state = portal.DismissSidebar(c.state) })
}

func (c *controller) Resize(width int) {
	c.update(func() { c.state = portal.Resize(c.state, width) })
}

// currentSection is the sidebar section to come back to after a refresh.
func (c *controller) currentSection() portal.SectionID {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	for _, link := range c.layout.Links(c.state) {
		if link.Active {
			return link.Section.ID
		}
	}
	return c.layout.Default
}

func (c *controller) notify(level portal.Level, msg string) {
	c.deps.Board.Notify(level, msg)
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.renderLocked()
}

// loadFailed reports a failed read. The section keeps its previous content.
func (c *controller) loadFailed(what, failMsg string, err error) {
	usr := c.Session().User
	switch {
	case apisvc.IsTransport(err):
		c.deps.Logger.Error("load "+what+" error", err, usr)
		c.notify(portal.LevelError, "Network error loading "+what)
		return
	case apisvc.IsMalformed(err):
		c.deps.Logger.Error("load "+what+" error", err, usr)
	default:
		c.deps.Logger.Warn("load "+what+" failed", err, usr)
	}
	c.notify(portal.LevelError, failMsg)
}

// mutationFailed reports a failed write with the server's message, or fallback.
func (c *controller) mutationFailed(what, fallback string, err error) {
	usr := c.Session().User
	if apisvc.IsTransport(err) {
		c.deps.Logger.Error(what+" error", err, usr)
		c.notify(portal.LevelError, msgNetworkError)
		return
	}
	c.deps.Logger.Warn(what+" failed", err, usr)
	c.notify(portal.LevelError, apisvc.DetailOr(err, fallback))
}

// Logout asks for confirmation, then ends the session. The server is told
// asynchronously; its acknowledgment is awaited at most Conf.LogoutTimeout
// and the redirect to the root page happens either way.
func (c *controller) Logout(ctx context.Context) bool {
	if !c.deps.Confirm.Confirm(msgLogoutConfirm) {
		return false
	}
	c.notify(portal.LevelInfo, "Logging out...")

	timeout := c.deps.Conf.LogoutTimeout
	if timeout <= 0 {
		timeout = defaultLogoutTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	sess := c.Session()
	ack := make(chan error, 1)
	if sess.Token == "" {
		ack <- nil // nothing to revoke
	} else {
		go func() { ack <- c.logout(apisvc.WithToken(ctx, sess.Token)) }()
	}

	if err := portal.ClearSession(c.deps.Store); err != nil {
		c.deps.Logger.Error("clearing session", err, sess.User)
	}
	select {
	case err := <-ack:
		if err != nil {
			c.deps.Logger.Info("Logout API call failed", err, sess.User)
		}
	case <-ctx.Done():
		c.deps.Logger.Info("Logout API call timed out", ctx.Err(), sess.User)
	}

	c.update(func() { c.session = portal.Session{} })
	c.deps.Nav.Redirect(portal.PageRoot)
	return true
}
