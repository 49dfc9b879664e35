// Package line adapts the LINE Messaging API to the bot's event and reply types.
package line

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"landmarkbot/pkg/types"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

type replyAPI interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

type contentAPI interface {
	GetMessageContent(messageID string) (*http.Response, error)
}

type Client struct {
	channelSecret string
	api           replyAPI
	blob          contentAPI
}

func NewClient(channelSecret, channelAccessToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelAccessToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging api client: %w", err)
	}

	blob, err := messaging_api.NewMessagingApiBlobAPI(channelAccessToken)
	if err != nil {
		return nil, fmt.Errorf("create messaging blob client: %w", err)
	}

	return &Client{
		channelSecret: channelSecret,
		api:           api,
		blob:          blob,
	}, nil
}

// Reply sends replies on replyToken. A reply token can be used once, so all
// messages for an event go in one call. The SDK client takes no per-call
// context, so ctx is not propagated.
func (c *Client) Reply(ctx context.Context, replyToken string, replies ...types.Reply) error {
	messages := make([]messaging_api.MessageInterface, 0, len(replies))
	for _, reply := range replies {
		msg, err := toMessage(reply)
		if err != nil {
			return err
		}
		messages = append(messages, msg)
	}

	_, err := c.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   messages,
	})
	if err != nil {
		return fmt.Errorf("failed to send reply: %w", err)
	}

	return nil
}

// Content downloads the binary content of a message, such as an image.
// The caller closes the returned body.
func (c *Client) Content(ctx context.Context, messageID string) (io.ReadCloser, string, error) {
	resp, err := c.blob.GetMessageContent(messageID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get message content %s: %w", messageID, err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		resp.Body.Close()
		return nil, "", fmt.Errorf("get message content %s failed with status %d: %s", messageID, resp.StatusCode, string(body))
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

func toMessage(reply types.Reply) (messaging_api.MessageInterface, error) {
	switch r := reply.(type) {
	case types.TextReply:
		return messaging_api.TextMessage{Text: r.Text}, nil
	case types.ChoiceReply:
		actions := make([]messaging_api.ActionInterface, 0, len(r.Choices))
		for _, choice := range r.Choices {
			actions = append(actions, &messaging_api.MessageAction{Label: choice, Text: choice})
		}
		return &messaging_api.TemplateMessage{
			AltText: r.AltText,
			Template: &messaging_api.ButtonsTemplate{
				Text:    r.Text,
				Actions: actions,
			},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported reply type %T", reply)
	}
}
