package echoportal

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brainbuddy/portal/core/backend"
)

func registrationOf(f RegisterForm) backend.Registration {
	return backend.Registration{
		FullName: f.FullName,
		Email:    f.Email,
		Username: f.Username,
		Password: f.Password,
	}
}

type loginData struct {
	Form LoginForm
}

func (p *portal) loginPage(ctx echo.Context) error {
	page := p.newPage(ctx, "Sign in", "")
	page.Data = &loginData{Form: LoginForm{Next: ctx.QueryParam("next")}}
	return p.render(ctx, "login", page)
}

func (p *portal) login(ctx echo.Context) error {
	var form LoginForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to LoginForm")
	}

	page := p.newPage(ctx, "Sign in", "")
	page.Data = &loginData{Form: form}

	if err := form.Validate(p.validate); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "login", page)
	}

	tok, err := p.client.ObtainToken(ctx.Request().Context(), form.Username, form.Password)
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "login", page)
	}

	setAuthCookie(ctx, tok.AccessToken)
	return ctx.Redirect(http.StatusFound, safeNext(form.Next))
}

type registerData struct {
	Form RegisterForm
}

func (p *portal) registerPage(ctx echo.Context) error {
	page := p.newPage(ctx, "Create account", "")
	page.Data = &registerData{}
	return p.render(ctx, "register", page)
}

func (p *portal) register(ctx echo.Context) error {
	var form RegisterForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to RegisterForm")
	}

	page := p.newPage(ctx, "Create account", "")
	page.Data = &registerData{Form: form}

	if err := form.Validate(p.validate); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "register", page)
	}

	reqCtx := ctx.Request().Context()
	if err := p.client.Register(reqCtx, registrationOf(form)); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "register", page)
	}

	// auto-login after a successful registration
	tok, err := p.client.ObtainToken(reqCtx, form.Username, form.Password)
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "register", page)
	}

	setAuthCookie(ctx, tok.AccessToken)
	return ctx.Redirect(http.StatusFound, "/dashboard")
}

func (p *portal) logout(ctx echo.Context) error {
	clearAuthCookie(ctx)
	if sid := sessionID(ctx); sid != "" {
		p.sessions.Delete(sid)
	}
	return ctx.Redirect(http.StatusFound, "/login")
}
