// Package chat drives the conversation send cycle: one visible pending
// placeholder per conversation, cancellation of superseded in-flight calls,
// a bounded reply cache consulted before the network, and persistence of both
// sides of the exchange through the chat sync service.
package chat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/service"
)

// ApologyReply replaces the pending placeholder when a send fails.
const ApologyReply = "Desculpe, algo deu errado ao falar com o assistente. Tente novamente."

// contextWindow is how many trailing messages feed the cache key.
const contextWindow = 6

const maxPreviewLen = 80

// Session holds the visible message list for one conversation view and runs
// the send state machine over it. All methods are safe for concurrent use;
// sends for the same session are serialized by the supersede protocol, not by
// blocking.
type Session struct {
	mu    sync.Mutex
	chats *service.Chat

	userID         string
	conversationID string
	messages       []model.Record
	pendingID      string
	cancel         context.CancelFunc

	cache *ReplyCache
	log   zerolog.Logger
}

// SessionOption configures a Session during NewSession.
type SessionOption func(*Session)

func WithCache(cache *ReplyCache) SessionOption {
	return func(s *Session) { s.cache = cache }
}

func WithSessionLogger(log zerolog.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

func NewSession(chats *service.Chat, userID string, opts ...SessionOption) *Session {
	s := &Session{
		chats:  chats,
		userID: userID,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cache == nil {
		s.cache = NewReplyCache(defaultCacheSize)
	}
	return s
}

// ConversationID returns the active conversation id, or "" before the first
// send.
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// Messages returns a copy of the visible message list, oldest first.
func (s *Session) Messages() []model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Record, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

// Load switches the session to an existing conversation and pulls its
// persisted messages, ordered by creation time.
func (s *Session) Load(ctx context.Context, conversaID string) error {
	msgs, err := s.chats.Messages(ctx, s.userID, conversaID)
	if err != nil {
		return err
	}
	sortByCreatedAt(msgs)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.conversationID = conversaID
	s.messages = msgs
	s.pendingID = ""
	return nil
}

// Reset clears the session back to a fresh conversation view.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.conversationID = ""
	s.messages = nil
	s.pendingID = ""
}

// Send runs one send cycle: persist the user message, consult the reply
// cache, otherwise call the AI backend, and resolve the pending placeholder
// in place. It returns the resolved bot message. A send superseded by a newer
// one returns (nil, nil). Failures replace the placeholder with ApologyReply
// and surface the error to the caller.
func (s *Session) Send(ctx context.Context, input string, buscarWeb bool) (model.Record, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, fmt.Errorf("%w: empty message", model.ErrValidation)
	}

	s.mu.Lock()
	if s.conversationID == "" {
		conv, err := s.chats.CreateConversation(ctx, s.userID, summarize(text), text)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.conversationID = conv.ID()
	}
	convID := s.conversationID

	// supersede any in-flight send before installing the new cycle
	if s.cancel != nil {
		s.cancel()
	}
	sendCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.dropPendingLocked()
	key := CacheKey(s.recentContextLocked(), text)

	now := time.Now().UTC().Format(time.RFC3339Nano)
	userMsg := model.Record{"id": uuid.NewString(), "role": model.RoleUser, "content": text, "is_html": false, "created_at": now}
	pending := model.Record{"id": uuid.NewString(), "role": model.RoleBot, "content": "", "is_html": false, "pending": true, "created_at": now}
	s.messages = append(s.messages, userMsg, pending)
	pendingID := pending.ID()
	s.pendingID = pendingID

	// the user message is persisted before the network call begins, so it
	// survives cancellation; a persist failure does not block the send
	if _, err := s.chats.AppendMessage(ctx, s.userID, convID, model.Record{"role": model.RoleUser, "content": text, "is_html": false}); err != nil {
		s.log.Warn().Err(err).Str("conversa_id", convID).Msg("user message not persisted")
	}

	if reply, ok := s.cache.Get(key); ok {
		msg := s.resolveLocked(pendingID, reply)
		s.cancel = nil
		s.mu.Unlock()
		cancel()
		s.persistReply(ctx, convID, reply)
		return msg, nil
	}
	s.mu.Unlock()

	reply, err := s.chats.Ask(sendCtx, text, buscarWeb)

	s.mu.Lock()
	if err != nil {
		if sendCtx.Err() != nil && s.pendingID != pendingID {
			// superseded by a newer send; the placeholder is already gone
			s.mu.Unlock()
			return nil, nil
		}
		msg := s.failLocked(pendingID)
		s.mu.Unlock()
		return msg, err
	}

	formatted := formatReply(reply)
	s.cache.Add(key, formatted)
	msg := s.resolveLocked(pendingID, formatted)
	if msg == nil {
		// reply landed after a newer send took over; drop it silently
		s.mu.Unlock()
		return nil, nil
	}
	// our cycle is still current, so s.cancel is ours to release
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.mu.Unlock()

	s.persistReply(ctx, convID, formatted)
	return msg, nil
}

// persistReply stores the bot message and refreshes the conversation
// preview. Both are best-effort.
func (s *Session) persistReply(ctx context.Context, convID, reply string) {
	if _, err := s.chats.AppendMessage(ctx, s.userID, convID, model.Record{"role": model.RoleBot, "content": reply, "is_html": false}); err != nil {
		s.log.Warn().Err(err).Str("conversa_id", convID).Msg("bot message not persisted")
	}
	if _, err := s.chats.UpdateConversation(ctx, s.userID, convID, model.Record{"preview": summarize(reply)}); err != nil {
		s.log.Warn().Err(err).Str("conversa_id", convID).Msg("conversation summary not updated")
	}
}

// dropPendingLocked filters the current pending placeholder out of the
// visible list.
func (s *Session) dropPendingLocked() {
	if s.pendingID == "" {
		return
	}
	kept := s.messages[:0]
	for _, m := range s.messages {
		if m.ID() != s.pendingID {
			kept = append(kept, m)
		}
	}
	s.messages = kept
	s.pendingID = ""
}

// resolveLocked replaces the placeholder's content in place, keeping its id.
func (s *Session) resolveLocked(pendingID, content string) model.Record {
	for _, m := range s.messages {
		if m.ID() == pendingID {
			m["content"] = content
			m["pending"] = false
			if s.pendingID == pendingID {
				s.pendingID = ""
			}
			return m
		}
	}
	return nil
}

func (s *Session) failLocked(pendingID string) model.Record {
	return s.resolveLocked(pendingID, ApologyReply)
}

// recentContextLocked returns the trailing window of message contents used
// for the cache key.
func (s *Session) recentContextLocked() []string {
	start := 0
	if len(s.messages) > contextWindow {
		start = len(s.messages) - contextWindow
	}
	var out []string
	for _, m := range s.messages[start:] {
		out = append(out, m.String("role")+": "+m.String("content"))
	}
	return out
}

func formatReply(reply string) string {
	out := strings.TrimSpace(reply)
	if out == "" {
		return service.FallbackReply
	}
	return out
}

// summarize truncates text to a short single-line title/preview.
func summarize(text string) string {
	line := strings.Join(strings.Fields(text), " ")
	if len(line) <= maxPreviewLen {
		return line
	}
	cut := line[:maxPreviewLen]
	if i := strings.LastIndex(cut, " "); i > maxPreviewLen/2 {
		cut = cut[:i]
	}
	return cut + "…"
}

func sortByCreatedAt(msgs []model.Record) {
	sort.SliceStable(msgs, func(i, j int) bool {
		ti, erri := time.Parse(time.RFC3339Nano, msgs[i].String("created_at"))
		tj, errj := time.Parse(time.RFC3339Nano, msgs[j].String("created_at"))
		if erri != nil || errj != nil {
			return false
		}
		return ti.Before(tj)
	})
}
