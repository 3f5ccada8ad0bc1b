package testutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"sds/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockCache implements the byte-cache interface over a plain map.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockBlobStore is an in-memory content-addressed blob store that counts
// writes, so tests can assert no extra blob is written on a cache hit.
type MockBlobStore struct {
	mu    sync.Mutex
	Blobs map[string][]byte
	Puts  int
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{Blobs: make(map[string][]byte)}
}

func (m *MockBlobStore) Put(data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Puts++
	sum := sha256.Sum256(data)
	uri := hex.EncodeToString(sum[:])
	m.Blobs[uri] = append([]byte(nil), data...)
	return uri, nil
}

func (m *MockBlobStore) Get(uri string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.Blobs[uri]
	if !ok {
		return nil, fmt.Errorf("blob %s not found", uri)
	}
	return data, nil
}

func (m *MockBlobStore) Delete(uri string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Blobs[uri]; !ok {
		return fmt.Errorf("blob %s not found", uri)
	}
	delete(m.Blobs, uri)
	return nil
}

// MockObserver implements services.MetricsObserverInterface.
type MockObserver struct {
	mu        sync.Mutex
	Uploads   map[string]int
	Pipelines int
}

func NewMockObserver() *MockObserver {
	return &MockObserver{Uploads: make(map[string]int)}
}

func (m *MockObserver) IncUploadsTotal(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Uploads[outcome]++
}

func (m *MockObserver) ObservePipelineDuration(_ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pipelines++
}
