package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/user"
)

// userMiddleware loads the token's User into the context.
func userMiddleware(svc UserService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			id, err := claims.UserID()
			if err != nil {
				return errInvalidToken
			}
			usr, err := svc.GetByID(ctx.Request().Context(), id)
			if err != nil {
				if errors.Cause(err) == user.ErrNotFound {
					return errUserNotFound
				}
				return errors.Wrap(err, "finding user by ID")
			}
			ctx.Set(contextUserKey, usr)
			return next(ctx)
		}
	}
}

func roleMiddleware(role user.Role) echo.MiddlewareFunc {
	denied := errStudentRequired
	if role == user.RoleTeacher {
		denied = errTeacherRequired
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if usr.Role != role {
				return denied
			}
			return next(ctx)
		}
	}
}
