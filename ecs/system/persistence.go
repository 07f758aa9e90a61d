package system

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/milk9111/cliffhanger/ecs"
	"github.com/quasilyte/gdata"
	"go.uber.org/zap"
)

const progressKey = "progress"

// Record is one save file: a flat JSON object.
type Record map[string]any

// Int reads an integer. JSON numbers decode as float64; anything else reads
// as zero.
func (r Record) Int(key string) int {
	n, _ := r.IntOK(key)
	return n
}

// IntOK is Int that also reports whether key holds a whole number.
func (r Record) IntOK(key string) (int, bool) {
	switch v := r[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}

func (r Record) Bool(key string) bool {
	v, ok := r[key].(bool)
	return ok && v
}

func (r Record) Has(key string) bool {
	_, ok := r[key]
	return ok
}

func (r Record) SetInt(key string, v int) {
	r[key] = v
}

func (r Record) SetBool(key string, v bool) {
	r[key] = v
}

// Persistable is anything that writes to and restores from a Record.
type Persistable interface {
	SaveProgress(w *ecs.World, rec Record)
	LoadProgress(w *ecs.World, rec Record)
}

// SaveStore moves raw records to and from storage. Load returns a nil
// record when nothing is stored.
type SaveStore interface {
	Load() (Record, error)
	Save(Record) error
	Reset() error
}

// GDataStore keeps the record under one gdata item.
type GDataStore struct {
	m *gdata.Manager
}

func NewGDataStore(appName string) (*GDataStore, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("save: open %s: %w", appName, err)
	}
	return &GDataStore{m: m}, nil
}

func (s *GDataStore) Load() (Record, error) {
	data, err := s.m.LoadItem(progressKey)
	if err != nil {
		return nil, fmt.Errorf("save: load: %w", err)
	}
	return decodeRecord(data)
}

func (s *GDataStore) Save(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("save: encode: %w", err)
	}
	if err := s.m.SaveItem(progressKey, data); err != nil {
		return fmt.Errorf("save: write: %w", err)
	}
	return nil
}

func (s *GDataStore) Reset() error {
	if err := s.m.DeleteItem(progressKey); err != nil {
		return fmt.Errorf("save: reset: %w", err)
	}
	return nil
}

func decodeRecord(data []byte) (Record, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("save: decode: %w", err)
	}
	return rec, nil
}

// MemoryStore holds the encoded record in memory. It backs tests and runs
// without a save directory.
type MemoryStore struct {
	Data []byte
}

func (s *MemoryStore) Load() (Record, error) {
	return decodeRecord(s.Data)
}

func (s *MemoryStore) Save(rec Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("save: encode: %w", err)
	}
	s.Data = data
	return nil
}

func (s *MemoryStore) Reset() error {
	s.Data = nil
	return nil
}

// Coordinator collects progress from registered systems into one record.
type Coordinator struct {
	store   SaveStore
	entries []Persistable
	logger  *zap.Logger
}

func NewCoordinator(store SaveStore, logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = &MemoryStore{}
	}
	return &Coordinator{store: store, logger: logger}
}

func (c *Coordinator) Register(p ...Persistable) {
	c.entries = append(c.entries, p...)
}

func (c *Coordinator) Save(w *ecs.World) {
	rec := make(Record)
	for _, p := range c.entries {
		p.SaveProgress(w, rec)
	}
	if err := c.store.Save(rec); err != nil {
		c.logger.Warn("save failed", zap.Error(err))
		return
	}
	c.logger.Info("progress saved", zap.Int("keys", len(rec)))
}

// Load restores every registrant and reports whether a save existed.
// Missing or unreadable data loads as a fresh save.
func (c *Coordinator) Load(w *ecs.World) bool {
	rec, err := c.store.Load()
	if err != nil {
		c.logger.Warn("save unreadable, starting fresh", zap.Error(err))
		rec = nil
	}
	found := rec != nil
	if !found {
		rec = make(Record)
	}
	for _, p := range c.entries {
		p.LoadProgress(w, rec)
	}
	return found
}

func (c *Coordinator) Reset() {
	if err := c.store.Reset(); err != nil {
		c.logger.Warn("save reset failed", zap.Error(err))
	}
}
