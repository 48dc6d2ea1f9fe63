package echoportal

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brainbuddy/portal/core/profile"
)

type dashboardData struct {
	Link  profile.LinkResult
	Email string
}

func (p *portal) dashboard(ctx echo.Context) error {
	store := newCookieStore(ctx)
	link := p.resolver(ctx).Resolve(ctx.Request().Context(), authToken(ctx), false)
	email, _ := store.Get(profile.KeyEmail)

	page := p.newPage(ctx, "Dashboard", "dashboard")
	page.Data = &dashboardData{Link: link, Email: email}
	return p.render(ctx, "dashboard", page)
}

type profileLinkData struct {
	Form     LinkForm
	Link     profile.LinkResult
	ClassMin int
	ClassMax int
	Linked   bool
}

func (p *portal) profileLinkPage(ctx echo.Context) error {
	store := newCookieStore(ctx)
	link := p.resolver(ctx).Resolve(ctx.Request().Context(), authToken(ctx), false)

	form := LinkForm{ClassStd: link.ClassStd}
	if email, ok := store.Get(profile.KeyEmail); ok {
		form.Email = email
	}

	page := p.newPage(ctx, "Link student profile", "profile-link")
	page.Data = &profileLinkData{
		Form:     form,
		Link:     link,
		ClassMin: p.conf.Class.Min,
		ClassMax: p.conf.Class.Max,
	}
	return p.render(ctx, "profile_link", page)
}

func (p *portal) profileLink(ctx echo.Context) error {
	var form LinkForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to LinkForm")
	}

	page := p.newPage(ctx, "Link student profile", "profile-link")
	data := &profileLinkData{
		Form:     form,
		ClassMin: p.conf.Class.Min,
		ClassMax: p.conf.Class.Max,
	}
	page.Data = data

	if err := form.Validate(p.validate, p.conf); err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "profile_link", page)
	}

	store := newCookieStore(ctx)
	_, err := p.client.LinkStudent(ctx.Request().Context(), authToken(ctx), form.Email, form.ClassStd)
	if err != nil {
		page.Error = p.errorText(ctx, err)
		return p.render(ctx, "profile_link", page)
	}

	// write-through so pages see the link without re-probing
	store.Set(profile.KeyClassStd, strconv.Itoa(form.ClassStd))
	store.Set(profile.KeyEmail, form.Email)

	data.Linked = true
	data.Link = profile.LinkResult{ClassStd: form.ClassStd, Source: "/api/auth/students/link"}
	return p.render(ctx, "profile_link", page)
}

func (p *portal) statusJSON(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, p.checker.Report())
}

// toggleSidebar flips the persisted collapse flag and bounces back.
func (p *portal) toggleSidebar(ctx echo.Context) error {
	store := newCookieStore(ctx)
	if v, _ := store.Get(profile.KeySidebar); v == "1" {
		store.Set(profile.KeySidebar, "0")
	} else {
		store.Set(profile.KeySidebar, "1")
	}
	back := ctx.Request().Referer()
	if back == "" {
		back = "/dashboard"
	}
	return ctx.Redirect(http.StatusFound, back)
}
