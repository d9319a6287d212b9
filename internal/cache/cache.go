// Package cache persists the last detected active spec as a single
// best-effort JSON record.
package cache

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"

	"github.com/alanmeadows/spwguard/internal/store"
)

// Sources recorded alongside a cached spec name.
const (
	SourceCommand = "command"
	SourceDiff    = "diff"
	SourceMtime   = "mtime"
)

// Meta describes how a cached spec name was obtained.
type Meta struct {
	Source string
	Sticky bool
}

// Record is the decoded cache file.
type Record struct {
	Spec   string    `json:"spec"`
	Source string    `json:"source,omitempty"`
	Sticky bool      `json:"sticky"`
	Time   time.Time `json:"-"`
}

// Store reads and writes the cache record at Path. Now defaults to time.Now.
type Store struct {
	Path string
	Now  func() time.Time
}

// New returns a Store for path using the wall clock.
func New(path string) *Store {
	return &Store{Path: path}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ReadRecord returns the record on disk, ignoring expiry. ok is false when
// the file is missing, not JSON, or lacks spec or ts.
func (s *Store) ReadRecord() (Record, bool) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return Record{}, false
	}
	if !gjson.ValidBytes(data) {
		slog.Debug("cache record is not valid JSON", "path", s.Path)
		return Record{}, false
	}
	res := gjson.ParseBytes(data)
	spec := res.Get("spec")
	ts := res.Get("ts")
	if spec.Type != gjson.String || spec.Str == "" || ts.Type != gjson.Number {
		return Record{}, false
	}
	return Record{
		Spec:   spec.Str,
		Source: res.Get("source").String(),
		Sticky: res.Get("sticky").Bool(),
		Time:   time.UnixMilli(ts.Int()),
	}, true
}

// Fresh returns the record on disk if it has not expired. A sticky record,
// or ignoreTTL, disables expiry.
func (s *Store) Fresh(ttlSeconds int, ignoreTTL bool) (Record, bool) {
	rec, ok := s.ReadRecord()
	if !ok {
		return Record{}, false
	}
	if rec.Sticky || ignoreTTL {
		return rec, true
	}
	if s.now().Sub(rec.Time) > time.Duration(ttlSeconds)*time.Second {
		return Record{}, false
	}
	return rec, true
}

// Read returns the cached spec name, or "" when there is none or it has
// expired.
func (s *Store) Read(ttlSeconds int, ignoreTTL bool) string {
	rec, _ := s.Fresh(ttlSeconds, ignoreTTL)
	return rec.Spec
}

// Write replaces the cache record. It reports false on any failure.
func (s *Store) Write(spec string, meta Meta) bool {
	if err := s.write(spec, meta); err != nil {
		slog.Debug("cache write failed", "path", s.Path, "error", err)
		return false
	}
	return true
}

func (s *Store) write(spec string, meta Meta) error {
	doc := "{}"
	var err error
	for _, kv := range []struct {
		key string
		val any
	}{
		{"ts", s.now().UnixMilli()},
		{"spec", spec},
		{"source", meta.Source},
		{"sticky", meta.Sticky},
	} {
		if doc, err = sjson.Set(doc, kv.key, kv.val); err != nil {
			return fmt.Errorf("encoding cache field %s: %w", kv.key, err)
		}
	}
	return store.WriteFile(s.Path, pretty.Pretty([]byte(doc)))
}

// Clear removes the cache record. A missing file is not an error.
func (s *Store) Clear() {
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		slog.Debug("cache clear failed", "path", s.Path, "error", err)
	}
}
