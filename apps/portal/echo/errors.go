package echoportal

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/brainbuddy/portal/core"
	"github.com/brainbuddy/portal/core/backend"
)

type errorData struct {
	Code    int
	Message string
}

// newPortalHTTPErrorHandler returns a custom echo.HTTPErrorHandler that renders
// errors as pages rather than JSON.
// signalShutdown is called in order to gracefully shutdown the Server whenever
// a core.shutdown error is caught.
func newPortalHTTPErrorHandler(p *portal, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message string

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			lines := make([]string, 0, len(origErr))
			for _, vErr := range origErr {
				lines = append(lines, vErr.Field()+": "+vErr.Translate(p.translator))
			}
			code = http.StatusBadRequest
			message = strings.Join(lines, "\n")
		case *core.ValidationError:
			if len(origErr.Fields) > 0 {
				lines := make([]string, 0, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					lines = append(lines, fErr.Field+": "+fErr.Error)
				}
				message = strings.Join(lines, "\n")
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *backend.APIError:
			code = http.StatusBadGateway
			message = origErr.Message
		default: // any other error is a server error
			code = http.StatusInternalServerError
			message = http.StatusText(code)
			p.logger.Error(message, errors.Wrap(err, message), identity(ctx))

			// shutting down...
			if core.IsShutdown(err) {
				signalShutdown()
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead {
			if err := ctx.NoContent(code); err != nil {
				ctx.Echo().Logger.Error(err)
			}
			return
		}

		page := p.newPage(ctx, http.StatusText(code), "")
		page.Data = &errorData{Code: code, Message: message}
		if rErr := ctx.Render(code, "error", page); rErr != nil {
			ctx.Echo().Logger.Error(rErr)
			_ = ctx.String(code, message)
		}
	}
}
