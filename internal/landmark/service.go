// Package landmark accumulates landmark fields sent by chat users into a
// per-user draft and promotes complete drafts to permanent records.
package landmark

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"landmarkbot/internal/utils"
	"landmarkbot/pkg/types"

	"github.com/sirupsen/logrus"
)

const (
	showCommand = "show"

	followMessage   = "This BOT can store multiple landmark data that has location, image, comment and review. Send any of them."
	completeMessage = "added landmark. You can register another landmark or view all data by sending 'show'"
	emptyMessage    = "no landmarks registered yet."
	apologyMessage  = "sorry, something went wrong. please try again."
	promptAltText   = "Which field to store this text? Send comment or review."

	// Buttons template text is limited to 160 characters.
	promptFormat     = "Which field to store '%s'?"
	promptQuoteLimit = 160 - len(promptFormat) + 2
)

// Store is the key-value record store holding drafts and permanent records.
type Store interface {
	UpdateFields(ctx context.Context, key string, set map[string]string, del []string) error
	Fields(ctx context.Context, key string) (map[string]string, error)
	Keys(ctx context.Context, prefix string) ([]string, error)
	Rename(ctx context.Context, from, to string) error
}

// MediaRelay uploads a photo and returns a stable URL for it.
type MediaRelay interface {
	Upload(ctx context.Context, body io.Reader, contentType string) (string, error)
}

// Gateway is the messaging platform.
type Gateway interface {
	Reply(ctx context.Context, replyToken string, replies ...types.Reply) error
	Content(ctx context.Context, messageID string) (io.ReadCloser, string, error)
}

type Service struct {
	logger  *logrus.Logger
	store   Store
	relay   MediaRelay
	gateway Gateway
	locks   *userLocks
	newKey  func() string
}

func New(logger *logrus.Logger, store Store, relay MediaRelay, gateway Gateway) *Service {
	return &Service{
		logger:  logger,
		store:   store,
		relay:   relay,
		gateway: gateway,
		locks:   newUserLocks(),
		newKey: func() string {
			return utils.PrefixedNanoID(types.RecordKeyPrefix)
		},
	}
}

// Handle dispatches one inbound event. A failing handler is logged and the
// user gets an apology on the event's reply token; the error is returned too.
func (s *Service) Handle(ctx context.Context, event types.Event) error {
	src := event.Source()

	var err error
	switch e := event.(type) {
	case types.FollowEvent:
		err = s.HandleFollow(ctx, e.EventSource)
	case types.LocationEvent:
		err = s.HandleLocation(ctx, e.EventSource, e.Latitude, e.Longitude)
	case types.ImageEvent:
		err = s.HandleImage(ctx, e.EventSource, e.MessageID)
	case types.TextEvent:
		err = s.HandleText(ctx, e.EventSource, e.Text)
	default:
		s.logger.WithField("event", event.Kind()).Warn("ignoring unsupported event")
		return nil
	}

	if err == nil {
		return nil
	}

	entry := s.logger.WithError(err).WithFields(logrus.Fields{
		"user_id": src.UserID,
		"event":   event.Kind(),
	})
	entry.Error("failed to handle event")

	if replyErr := s.gateway.Reply(ctx, src.ReplyToken, types.TextReply{Text: apologyMessage}); replyErr != nil {
		entry.WithField("reply_error", replyErr.Error()).Warn("failed to send apology")
	}

	return err
}

func (s *Service) HandleFollow(ctx context.Context, src types.EventSource) error {
	return s.gateway.Reply(ctx, src.ReplyToken, types.TextReply{Text: followMessage})
}

// HandleLocation writes both coordinates in one store call, then reports
// completion.
func (s *Service) HandleLocation(ctx context.Context, src types.EventSource, lat, lon float64) error {
	defer s.locks.Lock(src.UserID)()

	update := &types.Draft{Lat: &lat, Lon: &lon}
	if err := s.store.UpdateFields(ctx, src.UserID, update.Fields(), nil); err != nil {
		return fmt.Errorf("save location: %w", err)
	}

	return s.checkCompletion(ctx, src)
}

// HandleImage relays the photo behind messageID and records its URL. Nothing
// is written when the download or upload fails.
func (s *Service) HandleImage(ctx context.Context, src types.EventSource, messageID string) error {
	defer s.locks.Lock(src.UserID)()

	body, contentType, err := s.gateway.Content(ctx, messageID)
	if err != nil {
		return fmt.Errorf("download image: %w", err)
	}
	defer body.Close()

	url, err := s.relay.Upload(ctx, body, contentType)
	if err != nil {
		return fmt.Errorf("upload image: %w", err)
	}

	update := &types.Draft{URL: &url}
	if err := s.store.UpdateFields(ctx, src.UserID, update.Fields(), nil); err != nil {
		return fmt.Errorf("save image url: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": src.UserID,
		"url":     url,
	}).Debug("image uploaded")

	return s.checkCompletion(ctx, src)
}

// HandleText lists records for "show", classifies staged text for "comment"
// and "review", and otherwise stages text and asks which field it belongs to.
//
// "comment" or "review" with nothing staged is staged itself, like any other
// text.
func (s *Service) HandleText(ctx context.Context, src types.EventSource, text string) error {
	if text == showCommand {
		return s.show(ctx, src)
	}

	defer s.locks.Lock(src.UserID)()

	if types.IsTextField(text) {
		draft, err := s.loadDraft(ctx, src.UserID)
		if err != nil {
			return err
		}

		if draft.HasPendingText() {
			update := new(types.Draft)
			if text == types.FieldComment {
				update.Comment = draft.PendingText
			} else {
				update.Review = draft.PendingText
			}

			err := s.store.UpdateFields(ctx, src.UserID, update.Fields(), []string{types.FieldPendingText})
			if err != nil {
				return fmt.Errorf("save %s: %w", text, err)
			}

			return s.checkCompletion(ctx, src)
		}
	}

	update := &types.Draft{PendingText: &text}
	if err := s.store.UpdateFields(ctx, src.UserID, update.Fields(), nil); err != nil {
		return fmt.Errorf("stage text: %w", err)
	}

	return s.gateway.Reply(ctx, src.ReplyToken, types.ChoiceReply{
		AltText: promptAltText,
		Text:    fmt.Sprintf(promptFormat, utils.TruncateRunes(text, promptQuoteLimit)),
		Choices: []string{types.FieldComment, types.FieldReview},
	})
}

// CheckCompletion promotes the user's draft when every required field is
// present and otherwise replies with what is still missing.
func (s *Service) CheckCompletion(ctx context.Context, src types.EventSource) error {
	defer s.locks.Lock(src.UserID)()
	return s.checkCompletion(ctx, src)
}

// checkCompletion expects the user's lock to be held.
func (s *Service) checkCompletion(ctx context.Context, src types.EventSource) error {
	draft, err := s.loadDraft(ctx, src.UserID)
	if err != nil {
		return err
	}

	if missing := draft.Missing(); len(missing) > 0 {
		return s.gateway.Reply(ctx, src.ReplyToken, types.TextReply{
			Text: "saved. required: " + strings.Join(missing, ", "),
		})
	}

	key, err := s.promote(ctx, src.UserID)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id":    src.UserID,
		"record_key": key,
	}).Info("landmark registered")

	return s.gateway.Reply(ctx, src.ReplyToken, types.TextReply{Text: completeMessage})
}

// promote sets owner and moves the draft to a fresh record key. owner is
// removed again when the move fails.
func (s *Service) promote(ctx context.Context, userID string) (string, error) {
	err := s.store.UpdateFields(ctx, userID, map[string]string{types.FieldOwner: userID}, nil)
	if err != nil {
		return "", fmt.Errorf("set owner: %w", err)
	}

	key := s.newKey()
	if err := s.store.Rename(ctx, userID, key); err != nil {
		if clearErr := s.store.UpdateFields(ctx, userID, nil, []string{types.FieldOwner}); clearErr != nil {
			s.logger.WithError(clearErr).WithField("user_id", userID).Warn("failed to clear owner of unpromoted draft")
		}
		return "", fmt.Errorf("promote draft: %w", err)
	}

	return key, nil
}

func (s *Service) show(ctx context.Context, src types.EventSource) error {
	records, err := s.Records(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return s.gateway.Reply(ctx, src.ReplyToken, types.TextReply{Text: emptyMessage})
	}

	lines := make([]string, 0, len(records))
	for _, record := range records {
		line, err := json.Marshal(record.Fields)
		if err != nil {
			return fmt.Errorf("encode record %s: %w", record.Key, err)
		}
		lines = append(lines, string(line))
	}

	return s.gateway.Reply(ctx, src.ReplyToken, types.TextReply{Text: strings.Join(lines, "\n")})
}

// Records returns every permanent record ordered by key.
func (s *Service) Records(ctx context.Context) ([]types.Record, error) {
	keys, err := s.store.Keys(ctx, types.RecordKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	records := make([]types.Record, 0, len(keys))
	for _, key := range keys {
		fields, err := s.store.Fields(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("read record %s: %w", key, err)
		}
		records = append(records, types.Record{Key: key, Fields: fields})
	}

	return records, nil
}

// Draft returns userID's current draft.
func (s *Service) Draft(ctx context.Context, userID string) (*types.Draft, error) {
	return s.loadDraft(ctx, userID)
}

func (s *Service) loadDraft(ctx context.Context, userID string) (*types.Draft, error) {
	fields, err := s.store.Fields(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load draft: %w", err)
	}

	draft, err := types.DraftFromFields(fields)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", userID).Warn("ignoring unreadable draft field")
	}

	return draft, nil
}
