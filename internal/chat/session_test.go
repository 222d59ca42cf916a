package chat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jornabot/jornasa-go/internal/localstore"
	"github.com/jornabot/jornasa-go/internal/model"
	"github.com/jornabot/jornasa-go/internal/service"
	"github.com/jornabot/jornasa-go/internal/worker"
	"github.com/jornabot/jornasa-go/internal/worker/workertest"
)

func newLocalSession(t *testing.T, ws *workertest.Server) *Session {
	t.Helper()
	store := localstore.New(localstore.NewMemoryKV())
	chats := service.NewChat(service.BackendLocal, store, worker.New(ws.URL()))
	return NewSession(chats, "u1")
}

func TestSession_SendRejectsEmptyInput(t *testing.T) {
	ws := workertest.New()
	defer ws.Close()
	s := newLocalSession(t, ws)

	_, err := s.Send(context.Background(), "   \n ", false)
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Empty(t, s.Messages())
	assert.Zero(t, ws.AskCalls)
}

func TestSession_SendResolvesPlaceholderAndPersists(t *testing.T) {
	ws := workertest.New()
	defer ws.Close()
	ws.Reply = "A capital é Brasília."
	s := newLocalSession(t, ws)

	msg, err := s.Send(context.Background(), "qual a capital do Brasil?", false)
	require.NoError(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, "A capital é Brasília.", msg.String("content"))
	assert.False(t, msg.Bool("pending"))

	visible := s.Messages()
	require.Len(t, visible, 2)
	assert.Equal(t, model.RoleUser, visible[0].String("role"))
	assert.Equal(t, model.RoleBot, visible[1].String("role"))

	// both sides of the exchange reached storage
	persisted, err := s.chats.Messages(context.Background(), "u1", s.ConversationID())
	require.NoError(t, err)
	require.Len(t, persisted, 2)

	convs, err := s.chats.Conversations(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "qual a capital do Brasil?", convs[0].String("title"))
	assert.Equal(t, "A capital é Brasília.", convs[0].String("preview"))
}

func TestSession_SendFirstSendCreatesConversationOnce(t *testing.T) {
	ws := workertest.New()
	defer ws.Close()
	s := newLocalSession(t, ws)

	_, err := s.Send(context.Background(), "primeira", false)
	require.NoError(t, err)
	first := s.ConversationID()
	require.NotEmpty(t, first)

	_, err = s.Send(context.Background(), "segunda", false)
	require.NoError(t, err)
	assert.Equal(t, first, s.ConversationID())

	convs, _ := s.chats.Conversations(context.Background(), "u1")
	assert.Len(t, convs, 1)
}

func TestSession_RepeatedQuestionAnsweredFromCache(t *testing.T) {
	ws := workertest.New()
	defer ws.Close()
	ws.Reply = "Resposta memorizada."
	s := newLocalSession(t, ws)

	first, err := s.Send(context.Background(), "Como checar uma fonte?", false)
	require.NoError(t, err)
	require.Equal(t, 1, ws.AskCalls)

	// a fresh conversation with the same opening question must not hit the
	// network again; case and spacing differences fold into the same key
	s.Reset()
	second, err := s.Send(context.Background(), "  como  CHECAR uma fonte? ", false)
	require.NoError(t, err)
	require.NotNil(t, second)

	assert.Equal(t, 1, ws.AskCalls)
	assert.Equal(t, first.String("content"), second.String("content"))
	assert.False(t, second.Bool("pending"))
}

func TestSession_SendFailureShowsApologyAndSurfacesError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": "backend indisponível"})
	}))
	defer srv.Close()

	store := localstore.New(localstore.NewMemoryKV())
	chats := service.NewChat(service.BackendLocal, store, worker.New(srv.URL))
	s := NewSession(chats, "u1")

	msg, err := s.Send(context.Background(), "pergunta", false)
	require.Error(t, err)
	require.NotNil(t, msg)
	assert.Equal(t, ApologyReply, msg.String("content"))
	assert.False(t, msg.Bool("pending"))

	// the user message was persisted before the failed call
	persisted, perr := chats.Messages(context.Background(), "u1", s.ConversationID())
	require.NoError(t, perr)
	require.Len(t, persisted, 1)
	assert.Equal(t, model.RoleUser, persisted[0].String("role"))
}

func TestSession_NewerSendSupersedesInFlightOne(t *testing.T) {
	var (
		mu      sync.Mutex
		calls   int
		entered = make(chan struct{})
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()
		if n == 1 {
			close(entered)
			// drain the body so the server can observe the client disconnect
			_, _ = io.Copy(io.Discard, r.Body)
			// hold the first call until the client abandons it
			<-r.Context().Done()
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"resposta": "resposta da segunda"})
	}))
	defer srv.Close()

	store := localstore.New(localstore.NewMemoryKV())
	chats := service.NewChat(service.BackendLocal, store, worker.New(srv.URL))
	s := NewSession(chats, "u1")

	type result struct {
		msg model.Record
		err error
	}
	firstDone := make(chan result, 1)
	go func() {
		msg, err := s.Send(context.Background(), "primeira pergunta", false)
		firstDone <- result{msg, err}
	}()

	select {
	case <-entered:
	case <-time.After(5 * time.Second):
		t.Fatal("first send never reached the backend")
	}

	second, err := s.Send(context.Background(), "segunda pergunta", false)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "resposta da segunda", second.String("content"))

	select {
	case res := <-firstDone:
		// a superseded send finishes silently
		assert.Nil(t, res.msg)
		assert.NoError(t, res.err)
	case <-time.After(5 * time.Second):
		t.Fatal("superseded send never returned")
	}

	// exactly one placeholder cycle remains visible: user1, user2, bot2
	visible := s.Messages()
	require.Len(t, visible, 3)
	assert.Equal(t, "primeira pergunta", visible[0].String("content"))
	assert.Equal(t, "segunda pergunta", visible[1].String("content"))
	assert.Equal(t, "resposta da segunda", visible[2].String("content"))
	for _, m := range visible {
		assert.False(t, m.Bool("pending"), "no pending placeholder may survive")
	}

	// both user messages were persisted, including the superseded one
	persisted, perr := chats.Messages(context.Background(), "u1", s.ConversationID())
	require.NoError(t, perr)
	var users int
	for _, m := range persisted {
		if m.String("role") == model.RoleUser {
			users++
		}
	}
	assert.Equal(t, 2, users)
}

func TestSession_LoadOrdersMessagesByCreation(t *testing.T) {
	ws := workertest.New()
	defer ws.Close()
	store := localstore.New(localstore.NewMemoryKV())
	chats := service.NewChat(service.BackendLocal, store, worker.New(ws.URL()))

	conv, err := chats.CreateConversation(context.Background(), "u1", "antiga", "")
	require.NoError(t, err)
	for _, content := range []string{"um", "dois", "três"} {
		_, err := chats.AppendMessage(context.Background(), "u1", conv.ID(), model.Record{"role": model.RoleUser, "content": content})
		require.NoError(t, err)
		time.Sleep(2 * time.Millisecond)
	}

	s := NewSession(chats, "u1")
	require.NoError(t, s.Load(context.Background(), conv.ID()))
	assert.Equal(t, conv.ID(), s.ConversationID())

	visible := s.Messages()
	require.Len(t, visible, 3)
	assert.Equal(t, "um", visible[0].String("content"))
	assert.Equal(t, "dois", visible[1].String("content"))
	assert.Equal(t, "três", visible[2].String("content"))
}

func TestSession_ResetClearsView(t *testing.T) {
	ws := workertest.New()
	defer ws.Close()
	s := newLocalSession(t, ws)

	_, err := s.Send(context.Background(), "algo", false)
	require.NoError(t, err)
	require.NotEmpty(t, s.ConversationID())

	s.Reset()
	assert.Empty(t, s.ConversationID())
	assert.Empty(t, s.Messages())
}
