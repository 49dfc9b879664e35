package line

import (
	"net/http"

	"landmarkbot/pkg/types"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// ErrInvalidSignature is returned by ParseRequest when the X-Line-Signature
// header is missing or does not match the body.
var ErrInvalidSignature = webhook.ErrInvalidSignature

// ParseRequest validates the request signature and converts the delivered
// events. Events the bot does not handle are dropped; skipped reports how many.
func (c *Client) ParseRequest(r *http.Request) (events []types.Event, skipped int, err error) {
	cb, err := webhook.ParseRequest(c.channelSecret, r)
	if err != nil {
		return nil, 0, err
	}

	events = make([]types.Event, 0, len(cb.Events))
	for _, raw := range cb.Events {
		event, ok := convertEvent(raw)
		if !ok {
			skipped++
			continue
		}
		events = append(events, event)
	}

	return events, skipped, nil
}

func convertEvent(raw webhook.EventInterface) (types.Event, bool) {
	switch e := raw.(type) {
	case webhook.FollowEvent:
		src, ok := eventSource(e.Source, e.ReplyToken)
		if !ok {
			return nil, false
		}
		return types.FollowEvent{EventSource: src}, true

	case webhook.MessageEvent:
		src, ok := eventSource(e.Source, e.ReplyToken)
		if !ok {
			return nil, false
		}

		switch m := e.Message.(type) {
		case webhook.TextMessageContent:
			return types.TextEvent{EventSource: src, Text: m.Text}, true
		case webhook.LocationMessageContent:
			return types.LocationEvent{EventSource: src, Latitude: m.Latitude, Longitude: m.Longitude}, true
		case webhook.ImageMessageContent:
			return types.ImageEvent{EventSource: src, MessageID: m.Id}, true
		}
	}

	return nil, false
}

func eventSource(source webhook.SourceInterface, replyToken string) (types.EventSource, bool) {
	var userID string
	switch s := source.(type) {
	case webhook.UserSource:
		userID = s.UserId
	case webhook.GroupSource:
		userID = s.UserId
	case webhook.RoomSource:
		userID = s.UserId
	}

	if userID == "" || replyToken == "" {
		return types.EventSource{}, false
	}

	return types.EventSource{UserID: userID, ReplyToken: replyToken}, true
}
