package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/xy-planning-network/checkpoint/config"
	"github.com/xy-planning-network/checkpoint/http/check"
	"github.com/xy-planning-network/checkpoint/http/check/apikey"
	"github.com/xy-planning-network/checkpoint/http/check/googlecheck"
	"github.com/xy-planning-network/checkpoint/http/check/jwtcheck"
	"github.com/xy-planning-network/checkpoint/http/check/sessioncheck"
	"github.com/xy-planning-network/checkpoint/http/endpoint"
	"github.com/xy-planning-network/checkpoint/http/middleware"
	"github.com/xy-planning-network/checkpoint/http/req"
	"github.com/xy-planning-network/checkpoint/http/resp"
	"github.com/xy-planning-network/checkpoint/http/router"
	"github.com/xy-planning-network/checkpoint/http/session"
	"github.com/xy-planning-network/checkpoint/logger"
	"github.com/xy-planning-network/checkpoint/metrics"
)

const (
	WorkingMsg     = "Server working!"
	InitializedMsg = "Server has been Initialized"
	ClosedMsg      = "Server has been closed"
	InitErrMsg     = "An error has ocurred in the initialization function"
	ListenErrMsg   = "An error has occurred starting the server"
	CloseErrMsg    = "An error has ocurred in the closing function"
)

// A Service manages and exposes all components of a checkpoint service to one another.
type Service struct {
	*router.Router

	adminChecks []check.Check
	cfg         config.Config
	credentials apikey.Store
	d           *endpoint.Dispatcher
	google      googlecheck.UserFetcher
	l           logger.Logger
	metrics     *metrics.Recorder
	origins     *middleware.Origins
	parser      *req.Parser
	registry    *check.Registry
	rp          *resp.Responder
	sessions    session.SessionStorer
	h           http.Handler

	mu   sync.Mutex
	srv  *http.Server
	ln   net.Listener
	done chan struct{}
}

// New constructs a *Service from cfg and the provided options.
func New(cfg config.Config, opts ...ServiceOpt) (*Service, error) {
	if err := cfg.Valid(); err != nil {
		return nil, err
	}

	s := &Service{cfg: cfg}
	for _, opt := range opts {
		opt(s)
	}

	if s.l == nil {
		s.l = logger.New(
			logger.WithEnv(cfg.Env.String()),
			logger.WithLevel(cfg.Level()),
			logger.WithSentryDSN(cfg.SentryDSN),
		)
	}

	if s.origins == nil {
		s.origins = middleware.NewOrigins(cfg.AllowedOrigins...)
	}

	if s.google == nil {
		s.google = googlecheck.NewFetcher()
	}

	s.metrics = metrics.NewRecorder()
	s.parser = req.NewParser()
	s.rp = resp.NewResponder(resp.WithLogger(s.l))
	s.d = endpoint.NewDispatcher(
		endpoint.WithResponder(s.rp),
		endpoint.WithObserver(s.metrics),
		endpoint.WithCheckObserver(s.metrics),
	)

	if err := s.registerChecks(); err != nil {
		return nil, err
	}

	s.Router = router.New(cfg.Env, s.d, middleware.LogRequest(s.l))
	s.Router.OnEveryRequest(s.middlewares()...)

	admin, err := s.originsEndpoints()
	if err != nil {
		return nil, err
	}

	if err := s.HandleEndpoints(append([]endpoint.Endpoint{
		endpoint.Get("/", http.HandlerFunc(s.working)),
		endpoint.Get("/metrics", s.metrics.Handler()),
	}, admin...)); err != nil {
		return nil, err
	}

	s.h = middleware.CORS(s.origins)(s.Router)

	return s, nil
}

// newServer constructs the *http.Server for one run of the Service.
// A shut down *http.Server cannot serve again.
func (s *Service) newServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.h,
		IdleTimeout:  s.cfg.Server.IdleTimeout,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}
}

// registerChecks adds the check variants the service's collaborators make available.
func (s *Service) registerChecks() error {
	if s.registry == nil {
		s.registry = check.NewRegistry()
	}

	variants := map[string]check.Factory{
		jwtcheck.Variant:    jwtcheck.New,
		googlecheck.Variant: googlecheck.Factory(s.google),
	}

	if s.credentials != nil {
		variants[apikey.Variant] = apikey.Factory(s.credentials)
	}

	if s.sessions != nil {
		variants[sessioncheck.Variant] = sessioncheck.Factory(s.sessions)
	}

	for variant, f := range variants {
		if err := s.registry.Register(variant, f); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) middlewares() []middleware.Adapter {
	mws := []middleware.Adapter{middleware.InjectClientIP()}
	if s.cfg.RateLimit.Enabled {
		mws = append(mws, middleware.RateLimit(middleware.NewVisitorsWithLimit(s.cfg.RateLimit.RPS, s.cfg.RateLimit.Burst)))
	}

	return append(mws,
		middleware.RequestID(),
		middleware.LogRequest(s.l),
		middleware.InjectSession(s.sessions),
	)
}

func (s *Service) working(w http.ResponseWriter, r *http.Request) {
	s.rp.Text(w, r, resp.Data(WorkingMsg))
}

func (s *Service) Dispatcher() *endpoint.Dispatcher { return s.d }
func (s *Service) Logger() logger.Logger            { return s.l }
func (s *Service) Metrics() *metrics.Recorder       { return s.metrics }
func (s *Service) Origins() *middleware.Origins     { return s.origins }
func (s *Service) Registry() *check.Registry        { return s.registry }
func (s *Service) Responder() *resp.Responder       { return s.rp }

// Handler is the http.Handler the Service serves requests with.
func (s *Service) Handler() http.Handler { return s.h }

// Addr is the address the Service listens on once running.
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return s.ln.Addr().String()
	}

	return s.cfg.Addr()
}

// Run calls init, then begins serving requests in the background.
// init may be nil.
func (s *Service) Run(init func() error) resp.StatusBody {
	if init != nil {
		if err := init(); err != nil {
			s.l.Error(InitErrMsg, &logger.LogContext{Error: err})
			return resp.StatusBody{Status: resp.StatusError, Message: InitErrMsg, Error: err.Error()}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ln != nil {
		return resp.StatusBody{Status: resp.StatusOk, Message: InitializedMsg}
	}

	srv := s.newServer()
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		s.l.Error(ListenErrMsg, &logger.LogContext{Error: err})
		return resp.StatusBody{Status: resp.StatusError, Message: ListenErrMsg, Error: err.Error()}
	}

	s.srv = srv
	s.ln = ln
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)

		s.l.Info(fmt.Sprintf("running web server at %s", ln.Addr()), nil)
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			s.l.Error(fmt.Sprintf("could not serve: %s", err), &logger.LogContext{Error: err})
		}
	}(s.done)

	return resp.StatusBody{Status: resp.StatusOk, Message: InitializedMsg}
}

// Close stops serving requests, then calls fn.
// fn may be nil.
func (s *Service) Close(fn func() error) resp.StatusBody {
	if err := s.Shutdown(); err != nil {
		return resp.StatusBody{Status: resp.StatusError, Message: CloseErrMsg, Error: err.Error()}
	}

	if fn != nil {
		if err := fn(); err != nil {
			s.l.Error(CloseErrMsg, &logger.LogContext{Error: err})
			return resp.StatusBody{Status: resp.StatusError, Message: CloseErrMsg, Error: err.Error()}
		}
	}

	return resp.StatusBody{Status: resp.StatusOk, Message: ClosedMsg}
}

// Guide runs the Service until ctx ends or one of these signals arrives:
//
// - os.Interrupt
// - syscall.SIGHUP
// - syscall.SIGINT
// - syscall.SIGQUIT
// - syscall.SIGTERM
func (s *Service) Guide(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)
	defer stop()

	if res := s.Run(nil); res.Status != resp.StatusOk {
		return fmt.Errorf("%s: %s", res.Message, res.Error)
	}

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		s.l.Info("received shutdown signal", nil)
	case <-done:
	}

	return s.Shutdown()
}

// Shutdown shutdowns the web server.
func (s *Service) Shutdown() error {
	s.mu.Lock()
	srv, ln, done := s.srv, s.ln, s.done
	s.srv, s.ln = nil, nil
	s.mu.Unlock()

	if ln == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.l.Info("shutting down web server", nil)
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not shutdown: %w", err)
	}

	<-done
	s.l.Info("web server shutdown successfully", nil)
	return nil
}
