package landmark

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"landmarkbot/pkg/types"
)

// memStore mimics redis hashes: a key disappears with its last field.
type memStore struct {
	mu   sync.Mutex
	data map[string]map[string]string

	failUpdate error
	failRename error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]map[string]string)}
}

func (m *memStore) UpdateFields(ctx context.Context, key string, set map[string]string, del []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failUpdate != nil {
		return m.failUpdate
	}

	fields, ok := m.data[key]
	if !ok {
		fields = make(map[string]string)
	}
	for k, v := range set {
		fields[k] = v
	}
	for _, k := range del {
		delete(fields, k)
	}

	if len(fields) == 0 {
		delete(m.data, key)
	} else {
		m.data[key] = fields
	}
	return nil
}

func (m *memStore) Fields(ctx context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]string, len(m.data[key]))
	for k, v := range m.data[key] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	keys := make([]string, 0)
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *memStore) Rename(ctx context.Context, from, to string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failRename != nil {
		return m.failRename
	}

	fields, ok := m.data[from]
	if !ok {
		return types.ErrRecordNotFound
	}
	if _, exists := m.data[to]; exists {
		return types.ErrKeyExists
	}

	m.data[to] = fields
	delete(m.data, from)
	return nil
}

func (m *memStore) set(key string, fields map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fields
}

func (m *memStore) get(key string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key]
}

func (m *memStore) records() map[string]map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]map[string]string)
	for k, v := range m.data {
		if strings.HasPrefix(k, types.RecordKeyPrefix) {
			out[k] = v
		}
	}
	return out
}

// fakeGateway records replies and rejects a reply token used twice.
type fakeGateway struct {
	mu      sync.Mutex
	replies map[string][]types.Reply

	content     string
	contentType string
	contentErr  error
	replyErr    error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{replies: make(map[string][]types.Reply), content: "jpeg-bytes", contentType: "image/jpeg"}
}

func (g *fakeGateway) Reply(ctx context.Context, replyToken string, replies ...types.Reply) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.replyErr != nil {
		return g.replyErr
	}
	if _, used := g.replies[replyToken]; used {
		return fmt.Errorf("reply token %s already used", replyToken)
	}
	g.replies[replyToken] = replies
	return nil
}

func (g *fakeGateway) Content(ctx context.Context, messageID string) (io.ReadCloser, string, error) {
	if g.contentErr != nil {
		return nil, "", g.contentErr
	}
	return io.NopCloser(strings.NewReader(g.content)), g.contentType, nil
}

func (g *fakeGateway) reply(token string) []types.Reply {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.replies[token]
}

func (g *fakeGateway) text(token string) string {
	replies := g.reply(token)
	if len(replies) != 1 {
		return ""
	}
	if r, ok := replies[0].(types.TextReply); ok {
		return r.Text
	}
	return ""
}

type fakeRelay struct {
	url string
	err error

	gotBody        string
	gotContentType string
}

func (r *fakeRelay) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	data, _ := io.ReadAll(body)
	r.gotBody = string(data)
	r.gotContentType = contentType
	if r.err != nil {
		return "", r.err
	}
	return r.url, nil
}
