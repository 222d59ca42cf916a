// Package workertest provides an in-memory fake of the worker REST API for
// tests. It honors the same contract the real worker exposes: JSON bodies,
// bearer auth, 204 on deletes and {error} payloads on failures.
package workertest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jornabot/jornasa-go/internal/model"
)

// Server is the fake worker. Zero value is not usable; call New.
type Server struct {
	mu sync.Mutex

	// records per collection name ("pautas", "fontes", ...)
	collections map[string][]model.Record
	// messages per conversation id
	messages map[string][]model.Record

	// Reply returned by POST /mensagem. Empty means respond without a
	// "resposta" field, which exercises the caller's fallback path.
	Reply string
	// RequireToken rejects unauthenticated requests with 401 when set.
	RequireToken string
	// AskCalls counts POST /mensagem hits.
	AskCalls int

	httpServer *httptest.Server
}

// New starts the fake worker on a random local port.
func New() *Server {
	s := &Server{
		collections: make(map[string][]model.Record),
		messages:    make(map[string][]model.Record),
		Reply:       "resposta de teste",
	}

	r := mux.NewRouter()
	r.Use(s.authMiddleware)
	for _, name := range []string{"pautas", "fontes", "templates", "notificacoes"} {
		name := name
		r.HandleFunc("/"+name, s.handleList(name)).Methods(http.MethodGet)
		r.HandleFunc("/"+name, s.handleCreate(name)).Methods(http.MethodPost)
		r.HandleFunc("/"+name+"/{id}", s.handleUpdate(name)).Methods(http.MethodPut)
		r.HandleFunc("/"+name+"/{id}", s.handleDelete(name)).Methods(http.MethodDelete)
	}
	r.HandleFunc("/chat/conversas", s.handleList("conversas")).Methods(http.MethodGet)
	r.HandleFunc("/chat/conversas", s.handleCreate("conversas")).Methods(http.MethodPost)
	r.HandleFunc("/chat/conversas/{id}", s.handleDeleteConversa).Methods(http.MethodDelete)
	r.HandleFunc("/chat/mensagens", s.handleMensagens).Methods(http.MethodGet, http.MethodPost)
	r.HandleFunc("/mensagem", s.handleAsk).Methods(http.MethodPost)

	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the fake worker's base URL.
func (s *Server) URL() string { return s.httpServer.URL }

// Close shuts the fake down.
func (s *Server) Close() { s.httpServer.Close() }

// Seed inserts a record into a collection and returns it with identity fields
// assigned.
func (s *Server) Seed(collection string, payload model.Record) model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := s.newRecord(payload)
	s.collections[collection] = append([]model.Record{rec}, s.collections[collection]...)
	return rec
}

// Messages returns the stored messages for a conversation.
func (s *Server) Messages(conversaID string) []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Record{}, s.messages[conversaID]...)
}

func (s *Server) newRecord(payload model.Record) model.Record {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	rec := model.Record{"id": uuid.NewString(), "created_at": now, "updated_at": now}
	rec.Merge(payload)
	rec["id"] = rec.ID()
	rec["created_at"] = now
	rec["updated_at"] = now
	return rec
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.RequireToken != "" {
			if r.Header.Get("Authorization") != "Bearer "+s.RequireToken {
				writeError(w, http.StatusUnauthorized, "missing or invalid token")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		list := append([]model.Record{}, s.collections[collection]...)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, list)
	}
}

func (s *Server) handleCreate(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload model.Record
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		s.mu.Lock()
		rec := s.newRecord(payload)
		s.collections[collection] = append([]model.Record{rec}, s.collections[collection]...)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, rec)
	}
}

func (s *Server) handleUpdate(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		var payload model.Record
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, rec := range s.collections[collection] {
			if rec.ID() != id {
				continue
			}
			merged := rec.Clone()
			merged.Merge(payload)
			merged["id"] = id
			merged["updated_at"] = time.Now().UTC().Format(time.RFC3339Nano)
			s.collections[collection][i] = merged
			writeJSON(w, http.StatusOK, merged)
			return
		}
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleDelete(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := mux.Vars(r)["id"]
		s.mu.Lock()
		kept := s.collections[collection][:0]
		for _, rec := range s.collections[collection] {
			if rec.ID() != id {
				kept = append(kept, rec)
			}
		}
		s.collections[collection] = kept
		s.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleDeleteConversa also drops the conversation's messages, matching the
// real worker's server-side cascade.
func (s *Server) handleDeleteConversa(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	kept := s.collections["conversas"][:0]
	for _, rec := range s.collections["conversas"] {
		if rec.ID() != id {
			kept = append(kept, rec)
		}
	}
	s.collections["conversas"] = kept
	delete(s.messages, id)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMensagens(w http.ResponseWriter, r *http.Request) {
	conversaID := r.URL.Query().Get("conversa_id")
	if conversaID == "" {
		writeError(w, http.StatusBadRequest, "conversa_id required")
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.mu.Lock()
		list := append([]model.Record{}, s.messages[conversaID]...)
		s.mu.Unlock()
		writeJSON(w, http.StatusOK, list)
	case http.MethodPost:
		var payload model.Record
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		s.mu.Lock()
		rec := s.newRecord(payload)
		rec["conversa_id"] = conversaID
		s.messages[conversaID] = append(s.messages[conversaID], rec)
		s.mu.Unlock()
		writeJSON(w, http.StatusCreated, rec)
	}
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Mensagem  string `json:"mensagem"`
		BuscarWeb bool   `json:"buscar_web"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(payload.Mensagem) == "" {
		writeError(w, http.StatusBadRequest, "mensagem required")
		return
	}
	s.mu.Lock()
	s.AskCalls++
	reply := s.Reply
	s.mu.Unlock()
	if reply == "" {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resposta": reply})
}

func writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]any{"error": message, "code": statusCode})
}
