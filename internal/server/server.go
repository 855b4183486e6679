// Package server wires the configuration, data layer, event bus, storage and
// HTTP API into a runnable application.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/config"
	"github.com/ncobase/jobboard/ecode"
	"github.com/ncobase/jobboard/internal/data"
	"github.com/ncobase/jobboard/internal/event"
	"github.com/ncobase/jobboard/internal/handler"
	"github.com/ncobase/jobboard/internal/middleware"
	"github.com/ncobase/jobboard/internal/service"
	"github.com/ncobase/jobboard/logging/logger"
	"github.com/ncobase/jobboard/messaging/email"
	"github.com/ncobase/jobboard/net/cookie"
	"github.com/ncobase/jobboard/net/resp"
	"github.com/ncobase/jobboard/oss"
	"github.com/ncobase/jobboard/security/jwt"
	"github.com/ncobase/jobboard/version"
	"github.com/sony/gobreaker"
)

// Server is the assembled application.
type Server struct {
	config  *config.Config
	logger  *logger.Logger
	data    *data.Data
	bus     *event.Bus
	storage oss.Interface
	tokens  *jwt.TokenManager
	svc     *service.Service
	engine  *gin.Engine
	sentry  *logger.SentryHook
}

// New builds the server from cfg. The event bus is not started until Run.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	s := &Server{config: cfg, logger: log}

	hook, err := logger.NewSentry(cfg.Observes.Sentry, cfg.AppName, version.Version, cfg.Environment)
	if err != nil {
		log.Warn(ctx, "failed to initialize sentry", "error", err)
	} else if hook != nil {
		log.AddHook(hook)
		s.sentry = hook
	}

	if s.data, err = data.New(ctx, cfg.Data, log); err != nil {
		return nil, fmt.Errorf("failed to initialize data layer: %w", err)
	}

	if s.storage, err = s.newStorage(ctx); err != nil {
		_ = s.data.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	s.bus = event.NewBus(event.Options{
		BufferSize:     cfg.Notification.BufferSize,
		Workers:        cfg.Notification.Workers,
		HandlerTimeout: cfg.Notification.HandlerTimeout,
	}, log, s.data.Events)

	s.tokens = jwt.NewTokenManager(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Expire)
	s.svc = service.New(service.Deps{
		Data:     s.data,
		Bus:      s.bus,
		Storage:  s.storage,
		Tokens:   s.tokens,
		Mailer:   s.newMailer(ctx),
		Upload:   cfg.Upload,
		CacheTTL: cfg.Data.Redis.TTL,
		Logger:   log,
	})
	s.engine = s.setupRouter()
	return s, nil
}

func (s *Server) newStorage(ctx context.Context) (oss.Interface, error) {
	c := s.config.Storage
	oc := &oss.Config{
		Provider:  c.Provider,
		Path:      c.Path,
		ID:        c.ID,
		Secret:    c.Secret,
		Region:    c.Region,
		Bucket:    c.Bucket,
		Endpoint:  c.Endpoint,
		PublicURL: c.PublicURL,
	}
	backend, err := oss.NewStorage(ctx, oc)
	if err != nil {
		return nil, err
	}
	// defaults filled in by validation
	c.Path, c.PublicURL = oc.Path, oc.PublicURL

	return oss.WithBreaker(backend, oss.BreakerConfig{
		Name:             "storage." + c.Provider,
		MaxRequests:      c.Breaker.MaxRequests,
		Interval:         c.Breaker.Interval,
		Timeout:          c.Breaker.Timeout,
		FailureThreshold: c.Breaker.FailureThreshold,
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn(context.Background(), "storage breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}), nil
}

// newMailer returns the email sender used to mirror notifications, nil when
// mirroring is off or the provider is misconfigured.
func (s *Server) newMailer(ctx context.Context) email.Sender {
	c := s.config.Email
	if c == nil || !c.Mirror || c.Provider == "" {
		return nil
	}
	sender, err := email.NewSender(&email.Config{
		Provider: c.Provider,
		SMTP:     &email.SMTPConfig{Host: c.SMTP.Host, Port: c.SMTP.Port, Username: c.SMTP.Username, Password: c.SMTP.Password, From: c.SMTP.From},
		SendGrid: &email.SendGridConfig{Key: c.SendGrid.Key, From: c.SendGrid.From},
		Mailgun:  &email.MailgunConfig{Key: c.Mailgun.Key, Domain: c.Mailgun.Domain, From: c.Mailgun.From},
	})
	if err != nil {
		s.logger.Warn(ctx, "email mirror disabled", "provider", c.Provider, "error", err)
		return nil
	}
	s.logger.Info(ctx, "email mirror enabled", "provider", c.Provider)
	return sender
}

func (s *Server) setupRouter() *gin.Engine {
	switch s.config.Server.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(s.config.Server.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Trace(), middleware.Logger(s.logger), middleware.Recovery(s.logger))
	r.NoRoute(func(c *gin.Context) {
		resp.Fail(c.Writer, resp.NotFound("route not found"))
	})

	r.GET("/health", s.health)
	if pub := s.config.Storage.PublicURL; s.config.Storage.Provider != "s3" && strings.HasPrefix(pub, "/") {
		r.Static(pub, s.config.Storage.Path)
	}

	auth := middleware.NewAuth(s.tokens, s.config.Auth.Cookie.Name, s.logger)
	h := handler.New(s.svc, handler.Options{
		Cookie: cookie.Options{
			Name:   s.config.Auth.Cookie.Name,
			Domain: s.config.Auth.Cookie.Domain,
			Secure: s.config.Auth.Cookie.Secure,
			MaxAge: s.tokens.Expire(),
		},
		MaxUpload: s.config.Upload.MaxSize,
	}, s.logger)
	h.RegisterRoutes(r.Group("/api/v1"), auth.Required())
	return r
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := s.data.Ping(ctx); err != nil {
		s.logger.Error(ctx, "health check failed", "error", err)
		resp.Fail(c.Writer, &resp.Exception{
			Status:  http.StatusServiceUnavailable,
			Code:    ecode.ServiceUnavailable,
			Message: "database unavailable",
		})
		return
	}
	resp.Success(c.Writer, gin.H{
		"status":  "healthy",
		"version": version.Version,
		"bus":     s.bus.Stats(),
	})
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Service returns the business services.
func (s *Server) Service() *service.Service {
	return s.svc
}

// Run starts the event bus and serves HTTP until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.bus.Start()

	c := s.config.Server
	srv := &http.Server{
		Addr:         net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Handler:      s.engine,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting server", "addr", srv.Addr, "version", version.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.ShutdownTimeout)
	defer cancel()
	s.logger.Info(shutdownCtx, "shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error(shutdownCtx, "server forced to shutdown", "error", err)
	}
	return errors.Join(serveErr, s.Close(shutdownCtx))
}

// Close drains the event bus and releases the data connections.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	if err := s.bus.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.data.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close data layer: %w", err))
	}
	if s.sentry != nil {
		s.sentry.Flush(2 * time.Second)
	}
	return errors.Join(errs...)
}
