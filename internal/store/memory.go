// Package store — in-memory KV implementation.
// Used when Redis is not configured (local dev, tests). Supports
// file-based snapshot persistence so cached payloads survive restarts.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

// MemoryKV implements KV with an in-memory map and optional JSON
// snapshot persistence.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte

	// Persistence
	snapshotPath string        // empty = no persistence
	saveMu       sync.Mutex    // guards file writes
	saveCh       chan struct{} // debounce channel
	doneCh       chan struct{} // signals the background saver to stop
}

// NewMemoryKV creates a new in-memory store.
// If AGW_DATA_DIR is set, data is persisted to a JSON file in that
// directory. Otherwise defaults to ~/.agrimitra/gateway-kv.json.
func NewMemoryKV() *MemoryKV {
	m := &MemoryKV{
		data:   make(map[string][]byte),
		saveCh: make(chan struct{}, 1),
		doneCh: make(chan struct{}),
	}

	dataDir := os.Getenv("AGW_DATA_DIR")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			dataDir = filepath.Join(home, ".agrimitra")
		}
	}
	if dataDir != "" {
		m.snapshotPath = filepath.Join(dataDir, "gateway-kv.json")
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			log.Warn().Err(err).Str("dir", dataDir).Msg("Cannot create data dir, persistence disabled")
			m.snapshotPath = ""
		}
	}

	m.loadSnapshot()
	go m.saveLoop()

	return m
}

// Get returns the value for key, or ok=false when absent.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers cannot mutate the stored slice.
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Set stores value under key, overwriting any prior entry.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	m.mu.Unlock()

	m.requestSave()
	return nil
}

// Remove deletes key. Removing a missing key is a no-op.
func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()

	m.requestSave()
	return nil
}

// Close stops the background saver and flushes a final snapshot.
func (m *MemoryKV) Close() error {
	close(m.doneCh)
	m.saveSnapshot()
	return nil
}

// ── Snapshot persistence ─────────────────────────────────────

func (m *MemoryKV) requestSave() {
	if m.snapshotPath == "" {
		return
	}
	select {
	case m.saveCh <- struct{}{}:
	default: // a save is already pending
	}
}

func (m *MemoryKV) saveLoop() {
	for {
		select {
		case <-m.saveCh:
			m.saveSnapshot()
		case <-m.doneCh:
			return
		}
	}
}

func (m *MemoryKV) saveSnapshot() {
	if m.snapshotPath == "" {
		return
	}
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.mu.RLock()
	snap := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		snap[k] = v
	}
	m.mu.RUnlock()

	raw, err := json.Marshal(snap)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal KV snapshot")
		return
	}

	tmp := m.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		log.Warn().Err(err).Str("path", tmp).Msg("Failed to write KV snapshot")
		return
	}
	if err := os.Rename(tmp, m.snapshotPath); err != nil {
		log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Failed to replace KV snapshot")
	}
}

func (m *MemoryKV) loadSnapshot() {
	if m.snapshotPath == "" {
		return
	}
	raw, err := os.ReadFile(m.snapshotPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Failed to read KV snapshot")
		}
		return
	}
	var snap map[string][]byte
	if err := json.Unmarshal(raw, &snap); err != nil {
		log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Corrupt KV snapshot, starting empty")
		return
	}
	m.mu.Lock()
	m.data = snap
	m.mu.Unlock()
}
