package service

import (
	"github.com/jornabot/jornasa-go/internal/localstore"
	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/worker"
)

// Fontes manages the contact/source directory.
type Fontes struct {
	collection
}

func NewFontes(backend Backend, local *localstore.Store, api *worker.Client) *Fontes {
	return &Fontes{collection{
		backend:    backend,
		local:      local,
		api:        api,
		entityType: model.TypeFontes,
		basePath:   "/fontes",
	}}
}
