package echoapi

import (
	"context"
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"golang.org/x/time/rate"

	"github.com/trezcool/classflow/core"
	"github.com/trezcool/classflow/core/attendance"
	"github.com/trezcool/classflow/core/category"
	"github.com/trezcool/classflow/core/event"
	"github.com/trezcool/classflow/core/timetable"
	"github.com/trezcool/classflow/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf           *core.Config
		Logger         core.Logger
		Validate       *validator.Validate
		Translator     ut.Translator
		SignalShutdown func()

		UserSvc       user.Service
		CategorySvc   category.Service
		EventSvc      event.Service
		TimetableSvc  timetable.Service
		AttendanceSvc attendance.Service
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	initAuth(opts.Conf)
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(middleware.Secure())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.opts.SignalShutdown)
	s.app.Debug = conf.Debug

	api := s.app.Group("/api")
	api.GET("/health", health)

	jwt := middleware.JWTWithConfig(appJWTConfig)
	throttle := middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(20)))

	registerAuthAPI(api, jwt, throttle, s.opts.UserSvc, s.opts.Conf, s.opts.Validate)
	registerCategoryAPI(api, jwt, s.opts.CategorySvc, s.opts.Validate)
	registerEventAPI(api, jwt, s.opts.EventSvc, s.opts.Validate)
	registerTimetableAPI(api, jwt, s.opts.TimetableSvc, s.opts.Validate)
	registerAttendanceAPI(api, jwt, s.opts.AttendanceSvc, s.opts.Validate)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"success": true, "message": "ClassFlow API is running"})
}
