package main

import (
	"context"
	"errors"

	"github.com/trezcool/edutrack/apps/portal/dashboard"
	portalterm "github.com/trezcool/edutrack/apps/portal/term"
	"github.com/trezcool/edutrack/core/user"
)

var (
	errLoginFailed  = errors.New("login failed")
	errSignupFailed = errors.New("signup failed")
)

// login stores the session and opens the dashboard it redirected to.
func (cli *commandLine) login(ctx context.Context, creds user.Credentials) error {
	deps := cli.deps(&portalterm.Redirects{}, nil)
	auth := dashboard.NewAuth(cli.api, deps)

	ok := auth.Login(ctx, creds)
	cli.printNotifications(deps.Board)
	if !ok {
		return errLoginFailed
	}
	return cli.dashboard(ctx)
}

func (cli *commandLine) signup(ctx context.Context, nu user.NewUser) error {
	deps := cli.deps(&portalterm.Redirects{}, nil)
	auth := dashboard.NewAuth(cli.api, deps)

	ok := auth.Signup(ctx, nu)
	cli.printNotifications(deps.Board)
	if !ok {
		return errSignupFailed
	}
	return nil
}
