package domain

import (
	"encoding/json"
	"fmt"
)

// Turn is one role-tagged message of a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func SystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}

// Transcript is the ordered list of turns of one session.
type Transcript []Turn

// Clone returns a copy that can be appended to without touching t.
func (t Transcript) Clone() Transcript {
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// Product is a line item of a past order.
type Product struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Color string  `json:"color"`
}

func (p Product) String() string {
	return fmt.Sprintf("Name: %s, Price: %v, Color: %s", p.Name, p.Price, p.Color)
}

// SearchResult is an item returned by the product search API. Its shape is
// owned by that API and passed through untouched.
type SearchResult = json.RawMessage

// TalkReply is the outcome of one chat turn.
type TalkReply struct {
	Type    ReplyType
	Text    string
	Results []SearchResult
}
