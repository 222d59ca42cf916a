package model

// Entity type names as used by the local store partitions and the worker API.
const (
	TypePautas        = "pautas"
	TypeFontes        = "fontes"
	TypeTemplates     = "templates"
	TypeNotificacoes  = "notificacoes"
	TypeConversations = "chat_conversas"
	TypeMessages      = "chat_mensagens"
)

// Pauta status values.
const (
	StatusPendente    = "pendente"
	StatusEmAndamento = "em-andamento"
	StatusConcluido   = "concluido"
)

// Chat message roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// LocalUser is the single-tenant fallback partition key used when no
// authenticated user id is available. It is not a security boundary.
const LocalUser = "local-user"

// Record is a generic entity record: a JSON object with an id, timestamps and
// entity-specific fields. Both backends produce and accept this shape.
type Record map[string]any

// ID returns the record's id, or "" when unset.
func (r Record) ID() string { return r.String("id") }

// String returns the value under key as a string, or "" when absent or of
// another type.
func (r Record) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Bool returns the value under key as a bool, false when absent.
func (r Record) Bool(key string) bool {
	v, _ := r[key].(bool)
	return v
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge copies every field of patch over the record, in place.
func (r Record) Merge(patch Record) {
	for k, v := range patch {
		r[k] = v
	}
}

// UserKey maps an empty user id to the LocalUser sentinel.
func UserKey(userID string) string {
	if userID == "" {
		return LocalUser
	}
	return userID
}

// ValidStatus reports whether s is one of the known pauta statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPendente, StatusEmAndamento, StatusConcluido:
		return true
	}
	return false
}
