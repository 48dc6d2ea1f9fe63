package echoportal

import (
	"net/http"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/brainbuddy/portal/core"
	"github.com/brainbuddy/portal/core/backend"
	"github.com/brainbuddy/portal/core/health"
	"github.com/brainbuddy/portal/core/profile"
	"github.com/brainbuddy/portal/core/session"
)

// portal carries the page controllers' shared dependencies.
type portal struct {
	conf       *core.Config
	logger     core.Logger
	client     *backend.Client
	sessions   *session.Manager
	checker    *health.Checker
	validate   *validator.Validate
	translator ut.Translator
}

// pageData is what every template receives: the common chrome fields plus a
// page-specific Data payload.
type pageData struct {
	AppName          string
	Title            string
	Active           string // sidebar highlight
	Authed           bool
	Identity         core.Identity
	Health           health.Report
	SidebarCollapsed bool
	Error            string
	Data             interface{}
}

func (p *portal) newPage(ctx echo.Context, title, active string) *pageData {
	collapsed, _ := newCookieStore(ctx).Get(profile.KeySidebar)
	return &pageData{
		AppName:          p.conf.AppName,
		Title:            title,
		Active:           active,
		Authed:           authToken(ctx) != "",
		Identity:         identity(ctx),
		Health:           p.checker.Report(),
		SidebarCollapsed: collapsed == "1",
	}
}

func (p *portal) render(ctx echo.Context, name string, data *pageData) error {
	return ctx.Render(http.StatusOK, name, data)
}

// resolver builds a per-request class-link resolver over the visitor's
// cookie-backed cache.
func (p *portal) resolver(ctx echo.Context) *profile.Resolver {
	return profile.NewResolver(p.client, newCookieStore(ctx), p.conf)
}

// errorText turns any controller error into the inline message a page shows.
// Validation errors list their fields; API errors surface the API's own
// message; anything else is logged and generalized.
func (p *portal) errorText(ctx echo.Context, err error) string {
	switch origErr := pkgerrors.Cause(err).(type) {
	case validator.ValidationErrors:
		lines := make([]string, 0, len(origErr))
		for _, vErr := range origErr {
			lines = append(lines, vErr.Field()+": "+vErr.Translate(p.translator))
		}
		return strings.Join(lines, "\n")
	case *core.ValidationError:
		if len(origErr.Fields) > 0 {
			lines := make([]string, 0, len(origErr.Fields))
			for _, fErr := range origErr.Fields {
				lines = append(lines, fErr.Field+": "+fErr.Error)
			}
			return strings.Join(lines, "\n")
		}
		return origErr.Error()
	case *backend.APIError:
		return origErr.Message
	default:
		p.logger.Error(err.Error(), pkgerrors.WithStack(err), identity(ctx))
		return "Something went wrong. Please try again."
	}
}

// safeNext keeps post-login redirects on-site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/dashboard"
	}
	return next
}
