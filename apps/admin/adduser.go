package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core"
	"github.com/trezcool/edutrack/core/user"
)

// addUser creates a user.User, or resets the password of the one with that email.
func (cli *commandLine) addUser(name, email, pwd string, role user.Role) error {
	ctx := context.Background()
	usr, err := cli.usrSvc.Signup(ctx, user.NewUser{Name: name, Email: email, Password: pwd, Role: role})
	if err != nil {
		var vErr *core.ValidationError
		if errors.As(err, &vErr) && vErr.Err == user.ErrEmailExists {
			return cli.resetPassword(email, pwd)
		}
		return err
	}
	cli.printf("created %s %q (id %d)\n", usr.Role, usr.Email, usr.ID)
	return nil
}
