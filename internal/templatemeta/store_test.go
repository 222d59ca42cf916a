package templatemeta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornabot/jornasa-go/internal/localstore"
)

func newTestStore() *Store {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return New(localstore.NewMemoryKV(), WithClock(func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}))
}

func TestGet_DefaultsForUnknownTemplate(t *testing.T) {
	s := newTestStore()

	meta := s.Get("t1")
	assert.Equal(t, []string{}, meta.Tags)
	assert.Equal(t, "", meta.Categoria)
	assert.False(t, meta.Favorito)
	assert.Equal(t, 0, meta.UsageCount)
	assert.Nil(t, meta.LastUsedAt)
}

func TestGet_EmptyIDDoesNotTouchStorage(t *testing.T) {
	kv := localstore.NewMemoryKV()
	s := New(kv)

	meta := s.Get("")
	assert.Equal(t, 0, meta.UsageCount)

	_, ok, err := kv.Get("jornasa:templates:meta")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpsert_MergesPatchOverDefaults(t *testing.T) {
	s := newTestStore()

	fav := true
	cat := "Reportagem"
	meta := s.Upsert("t1", Patch{Favorito: &fav, Categoria: &cat})
	assert.True(t, meta.Favorito)
	assert.Equal(t, "Reportagem", meta.Categoria)
	assert.Equal(t, []string{}, meta.Tags)

	tags := []string{"política", "eleições"}
	meta = s.Upsert("t1", Patch{Tags: &tags})
	assert.Equal(t, tags, meta.Tags)
	// earlier fields preserved
	assert.True(t, meta.Favorito)
	assert.Equal(t, "Reportagem", meta.Categoria)
}

func TestRecordUsage_IncrementsAndStamps(t *testing.T) {
	s := newTestStore()

	var last Meta
	for i := 0; i < 3; i++ {
		last = s.RecordUsage("t1")
	}
	assert.Equal(t, 3, last.UsageCount)
	require.NotNil(t, last.LastUsedAt)

	stored := s.Get("t1")
	assert.Equal(t, 3, stored.UsageCount)
	assert.Equal(t, *last.LastUsedAt, *stored.LastUsedAt)
}

func TestRecordUsage_PreservesClassification(t *testing.T) {
	s := newTestStore()
	fav := true
	s.Upsert("t1", Patch{Favorito: &fav})

	meta := s.RecordUsage("t1")
	assert.True(t, meta.Favorito)
	assert.Equal(t, 1, meta.UsageCount)
}

func TestRemove_UnknownIDIsNoOp(t *testing.T) {
	s := newTestStore()
	assert.NotPanics(t, func() { s.Remove("nunca-visto") })

	s.RecordUsage("t1")
	s.Remove("t1")
	assert.Equal(t, 0, s.Get("t1").UsageCount)
}

func TestStore_IsIndependentOfTemplateContent(t *testing.T) {
	// the same KV medium can hold both the entity partitions and the meta
	// blob without either clobbering the other
	kv := localstore.NewMemoryKV()
	records := localstore.New(kv)
	metas := New(kv)

	rec := records.Create("templates", "u1", map[string]any{"nome": "Matéria Padrão"}, "")
	metas.RecordUsage(rec["id"].(string))

	assert.Len(t, records.List("templates", "u1", ""), 1)
	assert.Equal(t, 1, metas.Get(rec["id"].(string)).UsageCount)
}
