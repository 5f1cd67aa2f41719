package ws

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// mockConn implements the Conn interface for testing
type mockConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool
}

func (m *mockConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosedConnection
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockConn) ReadMessage() (messageType int, p []byte, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, nil, ErrClosedConnection
	}
	return 1, []byte(`{"type":"noop"}`), nil
}

func (m *mockConn) SetReadLimit(limit int64) {}

func (m *mockConn) SetReadDeadline(t time.Time) error { return nil }

func (m *mockConn) SetWriteDeadline(t time.Time) error { return nil }

func (m *mockConn) SetPongHandler(h func(string) error) {}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) getMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([][]byte, len(m.messages))
	copy(result, m.messages)
	return result
}

// ErrClosedConnection is returned when attempting to use a closed connection
var ErrClosedConnection = &mockError{"connection closed"}

type mockError struct {
	message string
}

func (e *mockError) Error() string {
	return e.message
}

// mockStore records persistence calls so tests can assert on them
type mockStore struct {
	mu        sync.Mutex
	created   []createdRecord
	deletes   []deleteCall
	deleted   bool
	createErr error
	deleteErr error
}

type createdRecord struct {
	roomID  uint
	userID  uint
	payload string
}

type deleteCall struct {
	roomID  uint
	shapeID string
}

func (s *mockStore) CreateRecord(ctx context.Context, roomID, userID uint, payload string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return "", s.createErr
	}
	s.created = append(s.created, createdRecord{roomID: roomID, userID: userID, payload: payload})
	return fmt.Sprintf("record-%d", len(s.created)), nil
}

func (s *mockStore) FindAndDeleteByContentMatch(ctx context.Context, roomID uint, shapeID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	s.deletes = append(s.deletes, deleteCall{roomID: roomID, shapeID: shapeID})
	return s.deleted, nil
}

func (s *mockStore) createdRecords() []createdRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]createdRecord, len(s.created))
	copy(result, s.created)
	return result
}

func (s *mockStore) deleteCalls() []deleteCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]deleteCall, len(s.deletes))
	copy(result, s.deletes)
	return result
}

// mockSink records published batch frames
type mockSink struct {
	mu        sync.Mutex
	published []publishedBatch
}

type publishedBatch struct {
	roomID uint
	frame  []byte
}

func (s *mockSink) PublishBatch(ctx context.Context, roomID uint, frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = append(s.published, publishedBatch{roomID: roomID, frame: frame})
	return nil
}

func (s *mockSink) publishedBatches() []publishedBatch {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]publishedBatch, len(s.published))
	copy(result, s.published)
	return result
}

// Helper functions for tests

// createTestHub builds a hub whose timer effectively never fires, tests
// drive flushes explicitly or through the batch size threshold.
func createTestHub(store Store, sink EventSink, maxBatchSize int) *Hub {
	return NewHub(store, sink, time.Hour, maxBatchSize)
}

func createTestClient(hub *Hub, userID uint) *Client {
	return NewClient(hub, &mockConn{messages: make([][]byte, 0)}, userID)
}

// recvFrame pops one queued frame from the client without blocking
func recvFrame(c *Client) ([]byte, bool) {
	select {
	case data := <-c.send:
		return data, true
	default:
		return nil, false
	}
}
