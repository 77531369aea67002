package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/edutrack/apps"
	"github.com/trezcool/edutrack/apps/portal/dashboard"
	portalterm "github.com/trezcool/edutrack/apps/portal/term"
	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/portal"
	"github.com/trezcool/edutrack/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp      = errors.New("help provided")
	errNoSession = errors.New("not logged in: run `portal login` first")
)

// API is every endpoint the portal pages call.
type API interface {
	dashboard.AuthAPI
	dashboard.StudentAPI
	dashboard.TeacherAPI
}

type commandLine struct {
	conf    core.PortalConfig
	api     API
	store   portal.Store
	logger  core.Logger
	console *portalterm.Console
	out     io.Writer
}

func newCommandLine(conf core.PortalConfig, api API, store portal.Store, logger core.Logger, in io.Reader, out io.Writer) *commandLine {
	return &commandLine{
		conf:    conf,
		api:     api,
		store:   store,
		logger:  logger,
		console: portalterm.NewConsole(in, out),
		out:     out,
	}
}

func (cli *commandLine) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cli.out, format, args...)
}

func (cli *commandLine) printUsage() {
	cli.printf("Usage:\n")
	cli.printf("  login -email EMAIL [-role teacher|student] - log in, then open the dashboard\n")
	cli.printf("  signup -name NAME -email EMAIL [-role teacher|student] - create an account\n")
	cli.printf("  dashboard - open the dashboard of the stored session\n")
	cli.printf("  logout - end the stored session\n")
}

func (cli *commandLine) readPassword(fs *flag.FlagSet) (string, error) {
	cli.printf("Enter password:")
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	cli.printf("\n")
	if err != nil {
		return "", err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return "", errHelp
	}
	return string(pwd), nil
}

// deps are the page dependencies shared by every command.
func (cli *commandLine) deps(nav portal.Navigator, target dashboard.Target) dashboard.Deps {
	return dashboard.Deps{
		Conf:    cli.conf,
		Store:   cli.store,
		Nav:     nav,
		Confirm: cli.console,
		Board:   portal.NewBoard(cli.conf.NotificationTTL),
		Logger:  cli.logger,
		Target:  target,
	}
}

// printNotifications prints what the entry page raised.
func (cli *commandLine) printNotifications(board *portal.Board) {
	for _, n := range board.History() {
		cli.printf("(%s) %s\n", n.Level, n.Message)
	}
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	loginCmd := flag.NewFlagSet("login", flag.ContinueOnError)
	loginCmd.SetOutput(cli.out)
	loginEmail := loginCmd.String("email", "", "Your email. The password will be prompted next.")
	loginRole := loginCmd.String("role", string(user.RoleStudent), "The portal to log into: teacher or student.")

	signupCmd := flag.NewFlagSet("signup", flag.ContinueOnError)
	signupCmd.SetOutput(cli.out)
	signupName := signupCmd.String("name", "", "Your full name.")
	signupEmail := signupCmd.String("email", "", "Your email. The password will be prompted next.")
	signupRole := signupCmd.String("role", string(user.RoleStudent), "teacher or student.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginEmail == "" {
			loginCmd.Usage()
			return errHelp
		}
		role, err := parseRole(*loginRole)
		if err != nil {
			return err
		}
		pwd, err := cli.readPassword(loginCmd)
		if err != nil {
			return err
		}
		return cli.login(ctx, user.Credentials{Email: *loginEmail, Password: pwd, Role: role})

	case "signup":
		if err := signupCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *signupName == "" || *signupEmail == "" {
			signupCmd.Usage()
			return errHelp
		}
		role, err := parseRole(*signupRole)
		if err != nil {
			return err
		}
		pwd, err := cli.readPassword(signupCmd)
		if err != nil {
			return err
		}
		return cli.signup(ctx, user.NewUser{Name: *signupName, Email: *signupEmail, Password: pwd, Role: role})

	case "dashboard":
		return cli.dashboard(ctx)

	case "logout":
		return cli.logout(ctx)

	default:
		cli.printUsage()
		return errHelp
	}
}

func parseRole(s string) (user.Role, error) {
	role := user.Role(s)
	if !role.Valid() {
		return "", apps.NewArgumentError(user.ErrInvalidRoleChoice.Error())
	}
	return role, nil
}
