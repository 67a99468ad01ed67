package echoapi

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

	"github.com/campushq/campus/core"
	"github.com/campushq/campus/core/admission"
	"github.com/campushq/campus/core/catalog"
	"github.com/campushq/campus/core/document"
	"github.com/campushq/campus/core/faculty"
	"github.com/campushq/campus/core/notification"
	"github.com/campushq/campus/core/payment"
	"github.com/campushq/campus/core/result"
	"github.com/campushq/campus/core/student"
	filesvc "github.com/campushq/campus/services/filestore"
)

type (
	ServerDeps struct {
		Conf   *core.Config
		Logger core.Logger

		StudentSvc      *student.Service
		FacultySvc      *faculty.Service
		ResultSvc       *result.Service
		NotificationSvc *notification.Service
		AdmissionSvc    *admission.Service
		CatalogSvc      *catalog.Service
		DocumentSvc     *document.Service
		PaymentSvc      *payment.Service
		FileStore       *filesvc.LocalStore

		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		jwt      middleware.JWTConfig
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		jwt:      newAppJWTConfig(deps.Conf),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)
	s.app.Static("/uploads", conf.Uploads.Dir)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(s.jwt)

	registerStudentAPI(v1, jwt, s.deps.StudentSvc, s.deps.Validate)
	registerFacultyAPI(v1, jwt, s.deps.FacultySvc, s.deps.Validate)
	registerResultAPI(v1, jwt, s.deps.ResultSvc, s.deps.Validate)
	registerNotificationAPI(v1, jwt, s.deps.NotificationSvc, s.deps.Validate)
	registerAdmissionAPI(v1, jwt, s.deps.AdmissionSvc, s.deps.Validate)
	registerCatalogAPI(v1, jwt, s.deps.CatalogSvc, s.deps.Validate)
	registerDocumentAPI(v1, jwt, s.deps.DocumentSvc, s.deps.FileStore, s.deps.Validate)
	registerPaymentAPI(v1, jwt, s.deps.PaymentSvc)
}

func (s *Server) Start() {
	s.errors <- s.app.Start(s.deps.Conf.Server.Address())
}

func (s *Server) Errors() <-chan error { return s.errors }

func (s *Server) ShutdownSignal() <-chan os.Signal { return s.shutdown }

func (s *Server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Campus API!")
}
