// Package service exposes one façade per entity family with a uniform CRUD
// signature, routing each call to either the local store or the worker API
// according to an explicit per-family backend choice. Services hold no state
// and apply no validation; they are pure routers.
package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/jornabot/jornasa-go/internal/localstore"
	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/worker"
)

// Backend selects which side answers a service's calls.
type Backend string

const (
	BackendLocal  Backend = "local"
	BackendWorker Backend = "worker"
)

// ParseBackend validates a backend name from configuration.
func ParseBackend(s string) (Backend, error) {
	switch Backend(s) {
	case BackendLocal, BackendWorker:
		return Backend(s), nil
	}
	return "", fmt.Errorf("%w: unsupported backend %q", model.ErrValidation, s)
}

// collection implements the shared routing for the flat entity families. The
// entity type name (local partition) and REST path are hard-wired per family.
type collection struct {
	backend    Backend
	local      *localstore.Store
	api        *worker.Client
	entityType string
	basePath   string
}

func (c collection) List(ctx context.Context, userID string) ([]model.Record, error) {
	if c.backend == BackendLocal {
		return c.local.List(c.entityType, userID, ""), nil
	}
	var out []model.Record
	if err := c.api.RequestJSON(ctx, http.MethodGet, c.basePath, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Record{}
	}
	return out, nil
}

func (c collection) Create(ctx context.Context, userID string, payload model.Record) (model.Record, error) {
	if c.backend == BackendLocal {
		return c.local.Create(c.entityType, userID, payload, ""), nil
	}
	var out model.Record
	if err := c.api.RequestJSON(ctx, http.MethodPost, c.basePath, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update returns a nil record without error when the id does not exist on
// the local backend; the worker backend surfaces its own 404 instead.
func (c collection) Update(ctx context.Context, userID, id string, payload model.Record) (model.Record, error) {
	if c.backend == BackendLocal {
		return c.local.Update(c.entityType, userID, id, payload, ""), nil
	}
	var out model.Record
	if err := c.api.RequestJSON(ctx, http.MethodPut, c.basePath+"/"+url.PathEscape(id), payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c collection) Delete(ctx context.Context, userID, id string) error {
	if c.backend == BackendLocal {
		c.local.Remove(c.entityType, userID, id, "")
		return nil
	}
	return c.api.RequestJSON(ctx, http.MethodDelete, c.basePath+"/"+url.PathEscape(id), nil, nil)
}
