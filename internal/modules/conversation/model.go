// README: Conversation turns persisted per user for the freeform assistant.
package conversation

import (
	"errors"
	"time"
)

var ErrUnavailable = errors.New("conversation store unavailable")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one stored message. Turns are append-only.
type Turn struct {
	Message   string
	Role      Role
	CreatedAt time.Time
}
