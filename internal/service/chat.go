package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/jornabot/jornasa-go/internal/localstore"
	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/worker"
)

// FallbackReply is shown when the AI backend answers without a usable
// resposta field.
const FallbackReply = "Desculpe, não consegui gerar uma resposta agora. Tente novamente em instantes."

// Chat manages conversations and their nested messages, plus the call to the
// AI backend. Conversation/message storage follows the configured backend;
// the AI backend itself is always remote.
type Chat struct {
	backend Backend
	local   *localstore.Store
	api     *worker.Client
}

func NewChat(backend Backend, local *localstore.Store, api *worker.Client) *Chat {
	return &Chat{backend: backend, local: local, api: api}
}

func (s *Chat) Conversations(ctx context.Context, userID string) ([]model.Record, error) {
	if s.backend == BackendLocal {
		return s.local.List(model.TypeConversations, userID, ""), nil
	}
	var out []model.Record
	if err := s.api.RequestJSON(ctx, http.MethodGet, "/chat/conversas", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Record{}
	}
	return out, nil
}

func (s *Chat) CreateConversation(ctx context.Context, userID, title, preview string) (model.Record, error) {
	payload := model.Record{"title": title, "preview": preview}
	if s.backend == BackendLocal {
		return s.local.Create(model.TypeConversations, userID, payload, ""), nil
	}
	var out model.Record
	if err := s.api.RequestJSON(ctx, http.MethodPost, "/chat/conversas", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateConversation refreshes a conversation's title/preview summary. The
// worker keeps summaries server-side, so only the local backend writes here.
func (s *Chat) UpdateConversation(ctx context.Context, userID, conversaID string, payload model.Record) (model.Record, error) {
	if s.backend == BackendLocal {
		return s.local.Update(model.TypeConversations, userID, conversaID, payload, ""), nil
	}
	return nil, nil
}

// DeleteConversation removes a conversation. On the local backend the
// conversation's messages partition is cleared as well; the worker cascades
// server-side.
func (s *Chat) DeleteConversation(ctx context.Context, userID, conversaID string) error {
	if s.backend == BackendLocal {
		s.local.Remove(model.TypeConversations, userID, conversaID, "")
		s.local.Clear(model.TypeMessages, userID, conversaID)
		return nil
	}
	return s.api.RequestJSON(ctx, http.MethodDelete, "/chat/conversas/"+url.PathEscape(conversaID), nil, nil)
}

func (s *Chat) Messages(ctx context.Context, userID, conversaID string) ([]model.Record, error) {
	if s.backend == BackendLocal {
		return s.local.List(model.TypeMessages, userID, conversaID), nil
	}
	var out []model.Record
	path := "/chat/mensagens?conversa_id=" + url.QueryEscape(conversaID)
	if err := s.api.RequestJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []model.Record{}
	}
	return out, nil
}

func (s *Chat) AppendMessage(ctx context.Context, userID, conversaID string, payload model.Record) (model.Record, error) {
	if s.backend == BackendLocal {
		return s.local.Create(model.TypeMessages, userID, payload, conversaID), nil
	}
	var out model.Record
	path := "/chat/mensagens?conversa_id=" + url.QueryEscape(conversaID)
	if err := s.api.RequestJSON(ctx, http.MethodPost, path, payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ask sends the user's prompt to the AI backend and returns the reply text.
// A response without a resposta field degrades to FallbackReply rather than
// failing the send cycle.
func (s *Chat) Ask(ctx context.Context, mensagem string, buscarWeb bool) (string, error) {
	payload := map[string]any{"mensagem": mensagem, "buscar_web": buscarWeb}
	var out struct {
		Resposta string `json:"resposta"`
	}
	if err := s.api.RequestJSON(ctx, http.MethodPost, "/mensagem", payload, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.Resposta) == "" {
		return FallbackReply, nil
	}
	return out.Resposta, nil
}
