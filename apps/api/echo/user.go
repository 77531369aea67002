package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edutrack/core/user"
)

type (
	LoginResponse struct {
		User      user.User `json:"user"`
		Token     string    `json:"token"`
		TokenType string    `json:"token_type"`
	}

	SignupResponse struct {
		Message string `json:"message"`
		UserID  int    `json:"user_id"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)

type authApi struct {
	ServerDeps
}

func registerAuthAPI(g *echo.Group, authed []echo.MiddlewareFunc, deps ServerDeps) {
	api := authApi{deps}

	// un-authed endpoints
	g.POST("/signup", api.signup)
	g.POST("/login", api.login)

	// authed endpoints
	g.GET("/me", api.me, authed...)
	g.POST("/logout", api.logout, authed...)
}

// Handlers

func (api *authApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}
	usr, err := api.UserSvc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing user up")
	}
	return ctx.JSON(http.StatusOK, SignupResponse{Message: "User created successfully", UserID: usr.ID})
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	usr, err := api.UserSvc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(GetUserClaims(usr, api.Conf), api.Conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{User: usr, Token: token, TokenType: "bearer"})
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

// logout only acknowledges; tokens expire on their own.
func (api *authApi) logout(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}
