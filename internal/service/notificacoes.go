package service

import (
	"github.com/jornabot/jornasa-go/internal/localstore"
	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/worker"
)

// Notificacoes manages in-app notifications.
type Notificacoes struct {
	collection
}

func NewNotificacoes(backend Backend, local *localstore.Store, api *worker.Client) *Notificacoes {
	return &Notificacoes{collection{
		backend:    backend,
		local:      local,
		api:        api,
		entityType: model.TypeNotificacoes,
		basePath:   "/notificacoes",
	}}
}
