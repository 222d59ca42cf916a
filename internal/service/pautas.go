package service

import (
	"github.com/jornabot/jornasa-go/internal/localstore"
	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/worker"
)

// Pautas manages story assignments.
type Pautas struct {
	collection
}

func NewPautas(backend Backend, local *localstore.Store, api *worker.Client) *Pautas {
	return &Pautas{collection{
		backend:    backend,
		local:      local,
		api:        api,
		entityType: model.TypePautas,
		basePath:   "/pautas",
	}}
}
