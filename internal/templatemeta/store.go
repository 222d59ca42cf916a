// Package templatemeta keeps usage analytics and classification for templates
// in a layer separate from the template content records, so both can evolve
// independently and be merged by the caller.
package templatemeta

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/jornabot/jornasa-go/internal/localstore"
)

const metaKey = "jornasa:templates:meta"

// Meta carries the annotation layer for one template.
type Meta struct {
	Tags       []string `json:"tags"`
	Categoria  string   `json:"categoria"`
	Favorito   bool     `json:"favorito"`
	UsageCount int      `json:"usageCount"`
	LastUsedAt *string  `json:"lastUsedAt"`
}

// Patch holds partial updates for Upsert. Nil fields are left unchanged.
type Patch struct {
	Tags      *[]string
	Categoria *string
	Favorito  *bool
}

func defaults() Meta {
	return Meta{Tags: []string{}}
}

// Store persists the full template-id → Meta mapping as one JSON blob. Every
// call reserializes the whole set, which is fine at single-journalist scale.
type Store struct {
	kv  localstore.KV
	log zerolog.Logger
	now func() time.Time
}

// Option configures a Store during New.
type Option func(*Store)

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func New(kv localstore.KV, opts ...Option) *Store {
	s := &Store{
		kv:  kv,
		log: zerolog.Nop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the stored meta merged over defaults. An empty template id
// returns defaults without touching storage.
func (s *Store) Get(templateID string) Meta {
	if templateID == "" {
		return defaults()
	}
	all := s.loadAll()
	if m, ok := all[templateID]; ok {
		return normalize(m)
	}
	return defaults()
}

// Upsert merges patch over the existing-or-default meta and persists it.
func (s *Store) Upsert(templateID string, patch Patch) Meta {
	if templateID == "" {
		return defaults()
	}
	all := s.loadAll()
	m := defaults()
	if existing, ok := all[templateID]; ok {
		m = normalize(existing)
	}
	if patch.Tags != nil {
		m.Tags = append([]string{}, (*patch.Tags)...)
	}
	if patch.Categoria != nil {
		m.Categoria = *patch.Categoria
	}
	if patch.Favorito != nil {
		m.Favorito = *patch.Favorito
	}
	all[templateID] = m
	s.saveAll(all)
	return m
}

// RecordUsage increments usageCount and stamps lastUsedAt within a single
// read-modify-write. Other fields are preserved.
func (s *Store) RecordUsage(templateID string) Meta {
	if templateID == "" {
		return defaults()
	}
	all := s.loadAll()
	m := defaults()
	if existing, ok := all[templateID]; ok {
		m = normalize(existing)
	}
	m.UsageCount++
	at := s.now().UTC().Format(time.RFC3339Nano)
	m.LastUsedAt = &at
	all[templateID] = m
	s.saveAll(all)
	return m
}

// Remove deletes the entry entirely. Unknown ids are a no-op.
func (s *Store) Remove(templateID string) {
	if templateID == "" {
		return
	}
	all := s.loadAll()
	if _, ok := all[templateID]; !ok {
		return
	}
	delete(all, templateID)
	s.saveAll(all)
}

func normalize(m Meta) Meta {
	if m.Tags == nil {
		m.Tags = []string{}
	}
	return m
}

func (s *Store) loadAll() map[string]Meta {
	raw, ok, err := s.kv.Get(metaKey)
	if err != nil || !ok {
		return map[string]Meta{}
	}
	var all map[string]Meta
	if err := json.Unmarshal(raw, &all); err != nil {
		return map[string]Meta{}
	}
	return all
}

func (s *Store) saveAll(all map[string]Meta) {
	raw, err := json.Marshal(all)
	if err == nil {
		err = s.kv.Set(metaKey, raw)
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("template meta write failed; persistence degraded")
	}
}
