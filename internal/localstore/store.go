// Package localstore implements the offline backend: durable CRUD over
// JSON-encoded entity lists, partitioned by (entity type, user, optional
// parent). Reads fail open to an empty list and write failures never fail the
// operation; durability is best-effort by design.
package localstore

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jornabot/jornasa-go/internal/model"
)

const keyPrefix = "jornasa:local"

// Store is the partitioned record store.
type Store struct {
	kv       KV
	log      zerolog.Logger
	now      func() time.Time
	degraded func(error)
}

// Option configures a Store during New.
type Option func(*Store)

// WithLogger sets the logger used for degraded-write warnings.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithDegradedHook installs a callback invoked whenever a write to the
// underlying medium fails. The operation itself still reports success; the
// hook lets callers warn users that persistence is degraded.
func WithDegradedHook(fn func(error)) Option {
	return func(s *Store) { s.degraded = fn }
}

// New builds a Store over the given KV medium.
func New(kv KV, opts ...Option) *Store {
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

// partitionKey builds jornasa:local:{type}:{user}[:{parent}].
func partitionKey(entityType, userID, parentID string) string {
	parts := []string{keyPrefix, entityType, model.UserKey(userID)}
	if parentID != "" {
		parts = append(parts, parentID)
	}
	return strings.Join(parts, ":")
}

// List returns the partition's records, most recent first. A missing
// partition, an unreadable medium or a corrupt value all yield an empty list.
func (s *Store) List(entityType, userID, parentID string) []model.Record {
	return s.readList(partitionKey(entityType, userID, parentID))
}

// Create assigns an id and timestamps, prepends the record to the partition
// and persists it. The returned record is complete even when the write to the
// medium fails.
func (s *Store) Create(entityType, userID string, payload model.Record, parentID string) model.Record {
	now := s.timestamp()
	record := model.Record{
		"id":         uuid.NewString(),
		"created_at": now,
		"updated_at": now,
	}
	record.Merge(payload)
	// payload must not override the assigned identity or timestamps
	record["id"] = record.ID()
	record["created_at"] = now
	record["updated_at"] = now

	key := partitionKey(entityType, userID, parentID)
	list := append([]model.Record{record}, s.readList(key)...)
	s.writeList(key, list)
	return record
}

// Update merges payload over the record with the given id and restamps
// updated_at. It returns nil when no record matches; the partition is left
// untouched in that case.
func (s *Store) Update(entityType, userID, id string, payload model.Record, parentID string) model.Record {
	key := partitionKey(entityType, userID, parentID)
	list := s.readList(key)

	var updated model.Record
	for i, item := range list {
		if item.ID() != id {
			continue
		}
		merged := item.Clone()
		merged.Merge(payload)
		merged["id"] = id
		merged["updated_at"] = s.timestamp()
		list[i] = merged
		updated = merged
		break
	}
	if updated == nil {
		return nil
	}
	s.writeList(key, list)
	return updated
}

// Remove filters the id out of the partition. Removing an absent id is a
// no-op.
func (s *Store) Remove(entityType, userID, id, parentID string) {
	key := partitionKey(entityType, userID, parentID)
	list := s.readList(key)
	kept := list[:0]
	for _, item := range list {
		if item.ID() != id {
			kept = append(kept, item)
		}
	}
	s.writeList(key, kept)
}

// Clear empties the partition outright. Used to wipe a conversation's
// messages when the owning conversation is deleted.
func (s *Store) Clear(entityType, userID, parentID string) {
	s.writeList(partitionKey(entityType, userID, parentID), []model.Record{})
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *Store) readList(key string) []model.Record {
	raw, ok, err := s.kv.Get(key)
	if err != nil || !ok {
		return []model.Record{}
	}
	var list []model.Record
	if err := json.Unmarshal(raw, &list); err != nil {
		return []model.Record{}
	}
	return list
}

func (s *Store) writeList(key string, list []model.Record) {
	raw, err := json.Marshal(list)
	if err == nil {
		err = s.kv.Set(key, raw)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("partition", key).Msg("local store write failed; persistence degraded")
		if s.degraded != nil {
			s.degraded(err)
		}
	}
}
