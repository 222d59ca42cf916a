package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornabot/jornasa-go/internal/localstore"
	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/worker"
	"github.com/jornabot/jornasa-go/internal/worker/workertest"
)

func TestParseBackend(t *testing.T) {
	for _, name := range []string{"local", "worker"} {
		b, err := ParseBackend(name)
		require.NoError(t, err)
		assert.Equal(t, Backend(name), b)
	}
	_, err := ParseBackend("remoto")
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestPautas_LocalBackendCRUD(t *testing.T) {
	ctx := context.Background()
	store := localstore.New(localstore.NewMemoryKV())
	svc := NewPautas(BackendLocal, store, nil)

	created, err := svc.Create(ctx, "u1", model.Record{"titulo": "Eleições 2024", "status": "pendente", "deadline": "2025-01-10"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Eleições 2024", list[0].String("titulo"))

	updated, err := svc.Update(ctx, "u1", created.ID(), model.Record{"status": "concluido"})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "concluido", updated.String("status"))

	list, _ = svc.List(ctx, "u1")
	assert.Equal(t, "concluido", list[0].String("status"))
	assert.Greater(t, list[0].String("updated_at"), list[0].String("created_at"))

	require.NoError(t, svc.Delete(ctx, "u1", created.ID()))
	list, _ = svc.List(ctx, "u1")
	assert.Empty(t, list)
}

func TestPautas_LocalUpdateMissingIsNilNoError(t *testing.T) {
	svc := NewPautas(BackendLocal, localstore.New(localstore.NewMemoryKV()), nil)

	rec, err := svc.Update(context.Background(), "u1", "fantasma", model.Record{"status": "concluido"})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestPautas_WorkerBackendCRUD(t *testing.T) {
	ctx := context.Background()
	ws := workertest.New()
	defer ws.Close()

	svc := NewPautas(BackendWorker, nil, worker.New(ws.URL()))

	created, err := svc.Create(ctx, "u1", model.Record{"titulo": "Matéria política", "status": "pendente"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID())

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	updated, err := svc.Update(ctx, "u1", created.ID(), model.Record{"status": "em-andamento"})
	require.NoError(t, err)
	assert.Equal(t, "em-andamento", updated.String("status"))

	require.NoError(t, svc.Delete(ctx, "u1", created.ID()))
	list, _ = svc.List(ctx, "u1")
	assert.Empty(t, list)
}

func TestPautas_WorkerUpdateMissingSurfaces404(t *testing.T) {
	ws := workertest.New()
	defer ws.Close()

	svc := NewPautas(BackendWorker, nil, worker.New(ws.URL()))
	_, err := svc.Update(context.Background(), "u1", "fantasma", model.Record{"status": "concluido"})

	var apiErr *worker.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "not found")
}

func TestWorkerBackend_RequiresToken(t *testing.T) {
	ws := workertest.New()
	defer ws.Close()
	ws.RequireToken = "segredo"

	denied := NewFontes(BackendWorker, nil, worker.New(ws.URL()))
	_, err := denied.List(context.Background(), "u1")
	var apiErr *worker.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)

	allowed := NewFontes(BackendWorker, nil, worker.New(ws.URL(), worker.WithToken("segredo")))
	list, err := allowed.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestFontes_LocalKeepsOficialFlag(t *testing.T) {
	svc := NewFontes(BackendLocal, localstore.New(localstore.NewMemoryKV()), nil)

	created, err := svc.Create(context.Background(), "u1", model.Record{"nome": "Dr. João Silva", "oficial": true})
	require.NoError(t, err)
	assert.True(t, created.Bool("oficial"))

	list, _ := svc.List(context.Background(), "u1")
	require.Len(t, list, 1)
	assert.True(t, list[0].Bool("oficial"))
}

func TestServices_UseIndependentBackends(t *testing.T) {
	// pautas on the worker, templates local: one family's backend choice
	// must not leak into another's
	ctx := context.Background()
	ws := workertest.New()
	defer ws.Close()
	store := localstore.New(localstore.NewMemoryKV())

	pautas := NewPautas(BackendWorker, store, worker.New(ws.URL()))
	templates := NewTemplates(BackendLocal, store, worker.New(ws.URL()))

	_, err := pautas.Create(ctx, "u1", model.Record{"titulo": "remota"})
	require.NoError(t, err)
	_, err = templates.Create(ctx, "u1", model.Record{"nome": "Matéria Padrão", "conteudo": "TÍTULO:"})
	require.NoError(t, err)

	assert.Empty(t, store.List(model.TypePautas, "u1", ""))
	assert.Len(t, store.List(model.TypeTemplates, "u1", ""), 1)
}
