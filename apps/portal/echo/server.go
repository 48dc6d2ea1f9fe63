package echoportal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/brainbuddy/portal/core"
	"github.com/brainbuddy/portal/core/backend"
	"github.com/brainbuddy/portal/core/health"
	"github.com/brainbuddy/portal/core/session"
)

type (
	ServerDeps struct {
		Conf           *core.Config
		Logger         core.Logger
		Client         *backend.Client
		Sessions       *session.Manager
		Checker        *health.Checker
		Validate       *validator.Validate
		Translator     ut.Translator
		DisableReqLogs bool
	}

	Server interface {
		http.Handler
		Start()
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
		Shutdown(context.Context) error
		Close() error
	}

	server struct {
		deps     ServerDeps
		app      *echo.Echo
		errs     chan error
		shutdown chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(deps ServerDeps) Server {
	s := &server{
		deps:     deps,
		app:      echo.New(),
		errs:     make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.deps.Conf

	p := &portal{
		conf:       conf,
		logger:     s.deps.Logger,
		client:     s.deps.Client,
		sessions:   s.deps.Sessions,
		checker:    s.deps.Checker,
		validate:   s.deps.Validate,
		translator: s.deps.Translator,
	}

	s.app.Renderer = newRenderer()
	s.app.Debug = conf.Debug

	// the gate must run before routing so unrouted paths redirect too
	s.app.Pre(middleware.RemoveTrailingSlash(), authGate())

	if !s.deps.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newPortalHTTPErrorHandler(p, s.signalShutdown)
	s.app.Use(p.withSession)

	// auth
	s.app.GET("/login", p.loginPage)
	s.app.POST("/login", p.login)
	s.app.GET("/register", p.registerPage)
	s.app.POST("/register", p.register)
	s.app.GET("/logout", p.logout)

	// pages
	s.app.GET("/dashboard", p.dashboard)
	s.app.GET("/profile-link", p.profileLinkPage)
	s.app.POST("/profile-link", p.profileLink)
	s.app.GET("/status.json", p.statusJSON)
	s.app.POST("/sidebar/toggle", p.toggleSidebar)

	// learning tools
	s.app.GET("/doubt", p.doubtPage)
	s.app.POST("/doubt", p.doubt)
	s.app.GET("/essay-grader", p.essayPage)
	s.app.POST("/essay-grader", p.essay)
	s.app.GET("/study-plan", p.studyPlanPage)
	s.app.POST("/study-plan", p.studyPlan)
	s.app.GET("/summarizer", p.summarizerPage)
	s.app.POST("/summarizer", p.summarize)

	// chat features
	s.app.GET("/tutor", p.tutorPage)
	s.app.POST("/tutor/ask", p.tutorAsk)
	s.app.POST("/tutor/reset", p.tutorReset)
	s.app.GET("/educhat", p.eduPage)
	s.app.POST("/educhat/ask", p.eduAsk)
	s.app.POST("/educhat/reset", p.eduReset)
	s.app.GET("/youtube", p.youtubePage)
	s.app.POST("/youtube/load", p.youtubeLoad)
	s.app.POST("/youtube/ask", p.youtubeAsk)
	s.app.POST("/youtube/reset", p.youtubeReset)
}

func (s *server) Start() {
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Addr); err != nil && err != http.ErrServerClosed {
		s.errs <- err
	}
}

func (s *server) Errors() <-chan error { return s.errs }

func (s *server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}
