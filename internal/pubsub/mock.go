package pubsub

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"
)

// MockClient is an in-memory Client for tests. Streams are buffered
// channels, keys and sets are plain maps. It ignores TTLs.
type MockClient struct {
	mu      sync.Mutex
	streams map[string]chan StreamMessage
	kv      map[string][]byte
	sets    map[string]map[string]struct{}
	acked   []string
	nextID  int
}

// NewMockClient creates an empty mock.
func NewMockClient() *MockClient {
	return &MockClient{
		streams: make(map[string]chan StreamMessage),
		kv:      make(map[string][]byte),
		sets:    make(map[string]map[string]struct{}),
	}
}

func (m *MockClient) stream(name string) chan StreamMessage {
	if ch, ok := m.streams[name]; ok {
		return ch
	}
	ch := make(chan StreamMessage, 100)
	m.streams[name] = ch
	return ch
}

func (m *MockClient) PublishToStream(_ context.Context, stream string, key string, value interface{}) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.stream(stream) <- StreamMessage{
		ID:     strconv.Itoa(m.nextID),
		Stream: stream,
		Values: map[string]interface{}{key: string(jsonData)},
	}
	return nil
}

func (m *MockClient) ConsumeFromStream(_ context.Context, stream, _, _ string) (<-chan StreamMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stream(stream), nil
}

func (m *MockClient) AcknowledgeMessage(_ context.Context, _, _, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.acked = append(m.acked, id)
	return nil
}

// Acked returns the IDs acknowledged so far.
func (m *MockClient) Acked() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.acked...)
}

func (m *MockClient) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = jsonData
	return nil
}

func (m *MockClient) GetJSON(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	data, ok := m.kv[key]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(data, dest)
}

func (m *MockClient) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	return nil
}

func (m *MockClient) SetAdd(_ context.Context, key string, members ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	for _, member := range members {
		set[member] = struct{}{}
	}
	return nil
}

func (m *MockClient) SetMembers(_ context.Context, key string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	return members, nil
}

func (m *MockClient) Ping(_ context.Context) error { return nil }

func (m *MockClient) Close() error { return nil }
