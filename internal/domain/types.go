package domain

import "time"

type SessionID string

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the roles the chat endpoint accepts.
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleUser, RoleAssistant:
		return true
	}
	return false
}

type ReplyType string

const (
	ReplyTypeText          ReplyType = "text"
	ReplyTypeSearchResults ReplyType = "search_results"
)

// DefaultSessionTTL is how long a transcript survives without being saved again.
const DefaultSessionTTL = 24 * time.Hour
