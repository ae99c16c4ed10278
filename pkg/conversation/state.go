package conversation

import (
	"errors"
	"fmt"

	"github.com/minhyannv/mcp-client-go/pkg/toolhost"
)

// Role is the speaker of a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one entry of the conversation. Exactly one of Text and
// ToolResult is meaningful; a turn with a nil ToolResult is a text turn,
// and an empty Text is allowed.
type Turn struct {
	Role       Role
	Text       string
	ToolResult *toolhost.Result
}

// IsToolResult reports whether the turn carries a tool result.
func (t Turn) IsToolResult() bool {
	return t.ToolResult != nil
}

// UserText builds a user text turn.
func UserText(text string) Turn {
	return Turn{Role: RoleUser, Text: text}
}

// AssistantText builds an assistant text turn.
func AssistantText(text string) Turn {
	return Turn{Role: RoleAssistant, Text: text}
}

// ToolResult builds the user turn that carries a tool result back to the model.
func ToolResult(res *toolhost.Result) Turn {
	return Turn{Role: RoleUser, ToolResult: res}
}

// State is the ordered, append-only history of one session.
type State struct {
	turns []Turn
}

// New starts a conversation whose first turn is the directive, spoken by
// the assistant.
func New(directive string) *State {
	return &State{turns: []Turn{AssistantText(directive)}}
}

// Append adds a turn at the end of the history.
func (s *State) Append(turn Turn) error {
	switch turn.Role {
	case RoleUser:
	case RoleAssistant:
		if turn.ToolResult != nil {
			return errors.New("tool result turns must have the user role")
		}
	default:
		return fmt.Errorf("invalid role %q", turn.Role)
	}
	if turn.ToolResult != nil && turn.Text != "" {
		return errors.New("turn has both text and a tool result")
	}
	s.turns = append(s.turns, turn)
	return nil
}

// Snapshot returns a copy of the history that later appends do not affect.
func (s *State) Snapshot() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of turns.
func (s *State) Len() int {
	return len(s.turns)
}
