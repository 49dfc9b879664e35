package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftFromFields(t *testing.T) {
	d, err := DraftFromFields(map[string]string{
		"lat":          "35.6586",
		"lon":          "-139.7454",
		"url":          "https://example.com/a.jpg",
		"comment":      "nice",
		"pending_text": "hmm",
		"owner":        "ignored",
	})
	require.NoError(t, err)

	require.NotNil(t, d.Lat)
	require.NotNil(t, d.Lon)
	assert.Equal(t, 35.6586, *d.Lat)
	assert.Equal(t, -139.7454, *d.Lon)
	assert.Equal(t, "https://example.com/a.jpg", *d.URL)
	assert.Equal(t, "nice", *d.Comment)
	assert.Nil(t, d.Review)
	assert.True(t, d.HasPendingText())
	assert.Equal(t, []string{"review"}, d.Missing())
}

func TestDraftFromFields_BadCoordinate(t *testing.T) {
	d, err := DraftFromFields(map[string]string{"lat": "abc", "lon": "2"})
	assert.Error(t, err)

	assert.Nil(t, d.Lat)
	require.NotNil(t, d.Lon)
	assert.Equal(t, []string{"lat", "url", "comment", "review"}, d.Missing())
}

func TestDraft_FieldsRoundTrip(t *testing.T) {
	fields := map[string]string{"lat": "1.25", "lon": "2", "review": "", "pending_text": "x"}

	d, err := DraftFromFields(fields)
	require.NoError(t, err)

	assert.Equal(t, fields, d.Fields())
}

func TestDraft_EmptyValuesArePresent(t *testing.T) {
	d, err := DraftFromFields(map[string]string{"comment": "", "pending_text": ""})
	require.NoError(t, err)

	assert.NotContains(t, d.Missing(), "comment")
	assert.False(t, d.HasPendingText())
}

func TestMissing_AllInOrder(t *testing.T) {
	assert.Equal(t, RequiredFields, new(Draft).Missing())
}

func TestFormatCoordinate(t *testing.T) {
	assert.Equal(t, "3", FormatCoordinate(3.0))
	assert.Equal(t, "35.6586", FormatCoordinate(35.6586))
	assert.Equal(t, "-0.5", FormatCoordinate(-0.5))
}

func TestIsTextField(t *testing.T) {
	assert.True(t, IsTextField("comment"))
	assert.True(t, IsTextField("review"))
	assert.False(t, IsTextField("show"))
	assert.False(t, IsTextField("Comment"))
}

func TestEventKinds(t *testing.T) {
	src := EventSource{UserID: "U1", ReplyToken: "rt"}
	events := []Event{FollowEvent{src}, LocationEvent{EventSource: src}, ImageEvent{EventSource: src}, TextEvent{EventSource: src}}

	kinds := make([]string, 0, len(events))
	for _, e := range events {
		assert.Equal(t, src, e.Source())
		kinds = append(kinds, e.Kind())
	}
	assert.Equal(t, []string{"follow", "location", "image", "text"}, kinds)
}
