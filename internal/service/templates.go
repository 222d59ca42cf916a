package service

import (
	"github.com/jornabot/jornasa-go/internal/localstore"
	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/worker"
)

// Templates manages document templates. Usage metadata lives in the separate
// templatemeta store and is merged into template records by the caller, not
// here.
type Templates struct {
	collection
}

func NewTemplates(backend Backend, local *localstore.Store, api *worker.Client) *Templates {
	return &Templates{collection{
		backend:    backend,
		local:      local,
		api:        api,
		entityType: model.TypeTemplates,
		basePath:   "/templates",
	}}
}
