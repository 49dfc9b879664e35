package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"landmarkbot/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/sirupsen/logrus"
)

// EventParser validates and decodes a webhook delivery.
type EventParser interface {
	ParseRequest(r *http.Request) (events []types.Event, skipped int, err error)
}

// EventHandler handles one decoded event.
type EventHandler interface {
	Handle(ctx context.Context, event types.Event) error
}

type Service struct {
	logger  *logrus.Logger
	config  *types.Config
	parser  EventParser
	handler EventHandler

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	parser EventParser,
	handler EventHandler,
) *Service {
	mux := flow.New()

	s := &Service{
		logger:  logger,
		config:  config,
		parser:  parser,
		handler: handler,
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)
	r.Use(s.RecoverMiddleware)

	r.HandleFunc("/", s.handleWebhook, http.MethodPost)
	r.HandleFunc("/callback", s.handleWebhook, http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
