package main

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/apps"
	"github.com/trezcool/edutrack/apps/portal/dashboard"
	portalterm "github.com/trezcool/edutrack/apps/portal/term"
	"github.com/trezcool/edutrack/core/portal"
	"github.com/trezcool/edutrack/core/user"
	apisvc "github.com/trezcool/edutrack/services/api"
)

// page is what the shell drives on either dashboard.
type page interface {
	Refresh(ctx context.Context)
	Navigate(id portal.SectionID)
	ToggleSidebar()
	Logout(ctx context.Context) bool
}

// shell is the interactive command loop of a dashboard.
type shell struct {
	cli     *commandLine
	screen  *portalterm.Screen
	nav     *portalterm.Redirects
	page    page
	student *dashboard.Student // nil on the teacher dashboard
	teacher *dashboard.Teacher // nil on the student dashboard
}

// openDashboard starts the dashboard of the stored session's role.
func (cli *commandLine) openDashboard(ctx context.Context) (*shell, error) {
	sess, err := portal.LoadSession(cli.store)
	if err != nil {
		return nil, errNoSession
	}

	sh := &shell{cli: cli, screen: portalterm.NewScreen(cli.out), nav: &portalterm.Redirects{}}
	deps := cli.deps(sh.nav, sh.screen)
	if sess.User.Role == user.RoleTeacher {
		sh.teacher = dashboard.NewTeacher(cli.api, deps)
		sh.page = sh.teacher
		err = sh.teacher.Start(ctx)
	} else {
		sh.student = dashboard.NewStudent(cli.api, deps)
		sh.page = sh.student
		err = sh.student.Start(ctx)
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

func (cli *commandLine) dashboard(ctx context.Context) error {
	sh, err := cli.openDashboard(ctx)
	if err != nil {
		return err
	}
	sh.loop(ctx)
	return nil
}

func (cli *commandLine) logout(ctx context.Context) error {
	sh, err := cli.openDashboard(ctx)
	if err != nil {
		return err
	}
	if sh.page.Logout(ctx) {
		cli.printf("Logged out.\n")
	}
	return nil
}

func (sh *shell) draw() {
	if err := sh.screen.Draw(); err != nil {
		sh.cli.logger.Error("drawing dashboard", err)
	}
}

// loop runs commands until quit, logout or the end of the input.
func (sh *shell) loop(ctx context.Context) {
	sh.draw()
	for {
		line, ok := sh.cli.console.ReadLine("> ")
		if !ok {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		done, err := sh.exec(ctx, fields[0], fields[1:])
		if err != nil {
			sh.cli.printf("%s\n", err)
		}
		if done {
			return
		}
		sh.draw()
	}
}

// exec runs one command. done reports whether the dashboard was left.
func (sh *shell) exec(ctx context.Context, cmd string, args []string) (done bool, err error) {
	switch cmd {
	case "help":
		sh.help()
		return false, nil
	case "quit", "exit":
		return true, nil
	case "logout":
		return sh.page.Logout(ctx), nil
	case "refresh":
		sh.page.Refresh(ctx)
		return false, nil
	case "sidebar":
		sh.page.ToggleSidebar()
		return false, nil
	case "go":
		if len(args) != 1 {
			return false, apps.NewArgumentError("usage: go SECTION")
		}
		sh.page.Navigate(portal.SectionID(args[0]))
		return false, nil
	}

	switch {
	case sh.student != nil:
		return false, sh.execStudent(ctx, cmd, args)
	case sh.teacher != nil:
		return false, sh.execTeacher(ctx, cmd, args)
	}
	return false, nil
}

func (sh *shell) execStudent(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "open":
		id, err := idArg(cmd, args)
		if err != nil {
			return err
		}
		sh.student.OpenSubmission(id, "")
	case "cancel":
		sh.student.CancelSubmission()
	case "submit":
		if len(args) == 0 {
			return apps.NewArgumentError("usage: submit FILE [NOTES...]")
		}
		file, closeFile, err := openUpload(args[0])
		if err != nil {
			return err
		}
		defer closeFile()
		sh.student.Submit(ctx, file, strings.Join(args[1:], " "))
	default:
		return sh.unknown(cmd)
	}
	return nil
}

func (sh *shell) execTeacher(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "create":
		return sh.create(ctx)
	case "view":
		id, err := idArg(cmd, args)
		if err != nil {
			return err
		}
		sh.teacher.ViewSubmissions(ctx, id)
	case "all":
		sh.teacher.ShowAll(ctx)
	case "delete":
		id, err := idArg(cmd, args)
		if err != nil {
			return err
		}
		sh.teacher.DeleteAssignment(ctx, id)
	default:
		return sh.unknown(cmd)
	}
	return nil
}

// create prompts for the create-assignment form fields.
func (sh *shell) create(ctx context.Context) error {
	sh.teacher.Navigate(portal.SectionCreateAssignment)

	var af apisvc.AssignmentForm
	var filePath string
	for _, fld := range []struct {
		prompt string
		value  *string
	}{
		{"Title: ", &af.Title},
		{"Description: ", &af.Description},
		{"Due date (YYYY-MM-DDTHH:MM): ", &af.DueDate},
		{"File (optional): ", &filePath},
	} {
		line, ok := sh.cli.console.ReadLine(fld.prompt)
		if !ok {
			return nil
		}
		*fld.value = line
	}

	if filePath != "" {
		file, closeFile, err := openUpload(filePath)
		if err != nil {
			return err
		}
		defer closeFile()
		af.File = file
	}
	sh.teacher.CreateAssignment(ctx, af)
	return nil
}

func (sh *shell) unknown(cmd string) error {
	sh.help()
	return apps.NewArgumentError("unknown command " + strconv.Quote(cmd))
}

func (sh *shell) help() {
	sh.cli.printf("Commands:\n")
	sh.cli.printf("  go SECTION | refresh | sidebar | logout | quit\n")
	if sh.student != nil {
		sh.cli.printf("  open ID | submit FILE [NOTES...] | cancel\n")
	}
	if sh.teacher != nil {
		sh.cli.printf("  create | view ID | all | delete ID\n")
	}
}

func idArg(cmd string, args []string) (int, error) {
	if len(args) != 1 {
		return 0, apps.NewArgumentError("usage: " + cmd + " ID")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return 0, apps.NewArgumentError("not an id: " + strconv.Quote(args[0]))
	}
	return id, nil
}

func openUpload(path string) (*apisvc.File, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening upload")
	}
	return &apisvc.File{Name: filepath.Base(path), Body: f}, func() { _ = f.Close() }, nil
}
