package server

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"

	"landmarkbot/internal/line"

	"github.com/sirupsen/logrus"
)

const maxWebhookBodyBytes = 1 << 20

// handleWebhook validates the delivery and runs every event to completion
// before acknowledging. Handler failures are logged by the handler and never
// change the acknowledgement.
func (s *Service) handleWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		s.logger.WithError(err).Warn("failed to read webhook body")
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	s.logger.WithField("body", string(body)).Debug("webhook request body")
	r.Body = io.NopCloser(bytes.NewReader(body))

	events, skipped, err := s.parser.ParseRequest(r)
	if err != nil {
		if errors.Is(err, line.ErrInvalidSignature) {
			s.logger.Warn("rejected webhook with invalid signature")
		} else {
			s.logger.WithError(err).Warn("failed to parse webhook body")
		}
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if skipped > 0 {
		s.logger.WithField("skipped", skipped).Debug("skipped unsupported webhook events")
	}

	// Events finish even if the platform hangs up early.
	ctx := context.WithoutCancel(r.Context())
	for _, event := range events {
		if err := s.handler.Handle(ctx, event); err != nil {
			s.logger.WithFields(logrus.Fields{
				"event":   event.Kind(),
				"user_id": event.Source().UserID,
			}).Debug("event handler returned error")
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}
