package dashboard

import (
	"context"

	"github.com/trezcool/edutrack/core/portal"
	"github.com/trezcool/edutrack/core/user"
	apisvc "github.com/trezcool/edutrack/services/api"
)

// Entry page forms
const (
	FormLogin  = "login"
	FormSignup = "signup"
)

type AuthAPI interface {
	Login(ctx context.Context, creds user.Credentials) (apisvc.LoginResult, error)
	Signup(ctx context.Context, nu user.NewUser) (apisvc.SignupResult, error)
}

// Auth is the entry page: login and signup.
type Auth struct {
	api  AuthAPI
	deps Deps
	form string
}

func NewAuth(api AuthAPI, deps Deps) *Auth {
	if deps.Board == nil {
		deps.Board = portal.NewBoard(deps.Conf.NotificationTTL)
	}
	return &Auth{api: api, deps: deps, form: FormLogin}
}

// Start redirects to the dashboard of an already stored session. It reports whether it did.
func (a *Auth) Start() bool {
	sess, err := portal.LoadSession(a.deps.Store)
	if err != nil {
		return false
	}
	a.deps.Nav.Redirect(portal.PageFor(sess.User.Role))
	return true
}

func (a *Auth) Form() string { return a.form }

func (a *Auth) ShowSignup() { a.form = FormSignup }
func (a *Auth) ShowLogin()  { a.form = FormLogin }

// Login stores the session and redirects to the user's dashboard.
func (a *Auth) Login(ctx context.Context, creds user.Credentials) bool {
	res, err := a.api.Login(ctx, creds)
	if err != nil {
		a.failed("login", "Login failed", err)
		return false
	}
	if err = portal.SaveSession(a.deps.Store, portal.Session{User: res.User, Token: res.Token}); err != nil {
		a.deps.Logger.Error("saving session", err, res.User)
		a.deps.Board.Notify(portal.LevelError, "Login failed")
		return false
	}
	a.deps.Nav.Redirect(portal.PageFor(res.User.Role))
	return true
}

// Signup creates the account and goes back to the login form.
func (a *Auth) Signup(ctx context.Context, nu user.NewUser) bool {
	if _, err := a.api.Signup(ctx, nu); err != nil {
		a.failed("signup", "Signup failed", err)
		return false
	}
	a.deps.Board.Notify(portal.LevelSuccess, "Account created successfully! Please login.")
	a.ShowLogin()
	return true
}

func (a *Auth) failed(what, fallback string, err error) {
	if apisvc.IsTransport(err) {
		a.deps.Logger.Error(what+" error", err)
		a.deps.Board.Notify(portal.LevelError, msgNetworkError)
		return
	}
	a.deps.Logger.Warn(what+" failed", err)
	a.deps.Board.Notify(portal.LevelError, apisvc.DetailOr(err, fallback))
}
