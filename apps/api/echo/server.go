package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/amanihq/amani/core"
	"github.com/amanihq/amani/core/audit"
	"github.com/amanihq/amani/core/class"
	"github.com/amanihq/amani/core/client"
	"github.com/amanihq/amani/core/facilitator"
	"github.com/amanihq/amani/core/payment"
	"github.com/amanihq/amani/core/staff"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger   core.Logger
		EmailSvc core.EmailService

		StaffSvc       *staff.Service
		ClientSvc      *client.Service
		PaymentSvc     *payment.Service
		ClassSvc       *class.Service
		FacilitatorSvc *facilitator.Service
		AuditSvc       *audit.Service
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
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerStaffAPI(v1, jwt, s.opts.StaffSvc)
	registerClientAPI(v1, jwt, s.opts.ClientSvc, s.opts.PaymentSvc, s.opts.AuditSvc)
	registerPaymentAPI(v1, jwt, s.opts.PaymentSvc)
	registerClassAPI(v1, jwt, s.opts.ClassSvc)
	registerFacilitatorAPI(v1, jwt, s.opts.FacilitatorSvc)
	registerAuditAPI(v1, jwt, s.opts.AuditSvc)
	registerWebhookAPI(v1, s.opts.ClientSvc, s.opts.EmailSvc, s.opts.Logger)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

// signalShutdown triggers a graceful stop when an unrecoverable error is caught.
func (s *server) signalShutdown() {
	go func() { _ = s.Stop(context.Background()) }()
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the Amani API!")
}
