package conversation

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/PabloGalante/stylist-agent/internal/domain"
)

// turnState is where a single chat turn currently is.
//
//	Loaded -> AwaitingModel -> TerminalSearch
//	                        -> Continue
type turnState int

const (
	stateLoaded turnState = iota
	stateAwaitingModel
	stateTerminalSearch
	stateContinue
)

func (s turnState) String() string {
	switch s {
	case stateLoaded:
		return "loaded"
	case stateAwaitingModel:
		return "awaiting_model"
	case stateTerminalSearch:
		return "terminal_search"
	case stateContinue:
		return "continue"
	default:
		return fmt.Sprintf("turnState(%d)", int(s))
	}
}

// chatTurn carries one invocation of Talk through its states. Only the
// Continue state produces a transcript to persist.
type chatTurn struct {
	state      turnState
	transcript domain.Transcript
	transient  int
	reply      string
	query      string
}

func newChatTurn(stored domain.Transcript) *chatTurn {
	return &chatTurn{state: stateLoaded, transcript: stored.Clone()}
}

// appendCallerTurns adds the turns sent by the client, in order.
func (t *chatTurn) appendCallerTurns(turns []domain.Turn) error {
	t.mustBe(stateLoaded)
	for i, turn := range turns {
		if !turn.Role.Valid() {
			return errors.Wrapf(domain.ErrInvalidInput, "turn %d: unknown role %q", i, turn.Role)
		}
		t.transcript = append(t.transcript, turn)
	}
	return nil
}

// prepareModelCall appends the transient instructions and returns a copy of
// the turns to send to the model.
func (t *chatTurn) prepareModelCall() domain.Transcript {
	t.mustBe(stateLoaded)
	for _, p := range searchStringPrompts {
		t.transcript = append(t.transcript, domain.SystemTurn(p))
	}
	t.transient = len(searchStringPrompts)
	t.state = stateAwaitingModel
	return t.transcript.Clone()
}

// receiveReply branches on whether the model produced a search string.
func (t *chatTurn) receiveReply(reply string) {
	t.mustBe(stateAwaitingModel)
	t.reply = reply
	if query, ok := ExtractSearchString(reply); ok {
		t.query = query
		t.state = stateTerminalSearch
		return
	}

	t.transcript = t.transcript[:len(t.transcript)-t.transient]
	t.transient = 0
	t.transcript = append(t.transcript, domain.SystemTurn(reply))
	t.state = stateContinue
}

// persistable returns the transcript to save, or false when this turn must
// not write anything.
func (t *chatTurn) persistable() (domain.Transcript, bool) {
	if t.state != stateContinue {
		return nil, false
	}
	return t.transcript, true
}

func (t *chatTurn) mustBe(s turnState) {
	if t.state != s {
		panic(fmt.Sprintf("chat turn in state %s, want %s", t.state, s))
	}
}
