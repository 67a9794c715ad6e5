// internal/validation/validation.go
//
// Live word validation.
// States:
//   empty        nothing on the board; score 0, no feedback
//   gap          non-contiguous tiles; score 0, error, no lookup issued
//   pending      contiguous word awaiting the dictionary
//   valid        dictionary confirmed; score from the board
//   invalid      dictionary rejected; score 0
//   inconclusive lookup failed or timed out; score 0, board stays editable
//
// Evaluate is the synchronous step run on every board change. Check runs
// the lookup. Apply reconciles a finished lookup with the board as it is
// now and refuses results for a word that is no longer on the board.

package validation

import (
	"context"
	"fmt"
	"time"

	"github.com/robalobadob/scrabble/apps/go-server/internal/game"
	"github.com/robalobadob/scrabble/apps/go-server/internal/words"
)

// State is the outcome of validating the board.
type State string

const (
	StateEmpty        State = "empty"
	StateGap          State = "gap"
	StatePending      State = "pending"
	StateValid        State = "valid"
	StateInvalid      State = "invalid"
	StateInconclusive State = "inconclusive"
)

// Category tells the presentation layer how to style a message.
type Category string

const (
	Neutral Category = "neutral"
	Error   Category = "error"
	Success Category = "success"
	Warning Category = "warning"
)

// Feedback is the message shown for the current board.
type Feedback struct {
	Category Category `json:"category"`
	Message  string   `json:"message"`
}

// GapMessage is shown when the placed tiles are not contiguous.
const GapMessage = "Incomplete word: tiles must be placed consecutively."

func validFeedback(w string) Feedback {
	return Feedback{Success, fmt.Sprintf("%q is valid!", w)}
}

func invalidFeedback(w string) Feedback {
	return Feedback{Error, fmt.Sprintf("%q is not valid.", w)}
}

func inconclusiveFeedback(w string) Feedback {
	return Feedback{Warning, fmt.Sprintf("Could not verify %q, try again.", w)}
}

// Outcome is what the board currently shows.
type Outcome struct {
	State     State
	Word      string
	Score     int
	Breakdown game.Breakdown
	Feedback  Feedback
}

// Verdict is the result of one dictionary check, tagged with the word
// it queried.
type Verdict struct {
	Word  string
	State State // valid, invalid or inconclusive
	Err   error
}

const (
	DefaultTimeout    = 3 * time.Second
	DefaultMaxResults = 1
)

// Validator runs the lookup side of validation.
type Validator struct {
	lookup     words.Lookup
	timeout    time.Duration
	maxResults int
}

// Option configures a Validator.
type Option func(*Validator)

// WithTimeout bounds each lookup; non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// WithMaxResults caps how many candidates are requested.
func WithMaxResults(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.maxResults = n
		}
	}
}

// New returns a Validator over lookup with the default timeout and
// result cap, adjusted by opts.
func New(lookup words.Lookup, opts ...Option) *Validator {
	v := &Validator{lookup: lookup, timeout: DefaultTimeout, maxResults: DefaultMaxResults}
	for _, o := range opts {
		o(v)
	}
	return v
}

// Evaluate derives the synchronous outcome of a board. The returned
// extraction carries the word to check when the state is pending.
func (v *Validator) Evaluate(b *game.Board) (Outcome, game.Extraction) {
	ex := game.ExtractWord(b)
	switch ex.Kind {
	case game.Gap:
		return Outcome{
			State:     StateGap,
			Breakdown: game.Breakdown{WordFactor: 1},
			Feedback:  Feedback{Error, GapMessage},
		}, ex
	case game.Word:
		return Outcome{
			State:     StatePending,
			Word:      ex.Word,
			Breakdown: game.Breakdown{WordFactor: 1},
			Feedback:  Feedback{Neutral, ""},
		}, ex
	}
	return Outcome{
		State:     StateEmpty,
		Breakdown: game.Breakdown{WordFactor: 1},
		Feedback:  Feedback{Neutral, ""},
	}, ex
}

// Check looks word up as an exact spelling. The word is valid when the
// top candidate spells it, ignoring case. Lookup errors and timeouts are
// inconclusive.
func (v *Validator) Check(ctx context.Context, word string) Verdict {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	cands, err := v.lookup.Lookup(ctx, word, v.maxResults)
	if err != nil {
		return Verdict{Word: word, State: StateInconclusive, Err: err}
	}
	if words.Matches(cands, word) {
		return Verdict{Word: word, State: StateValid}
	}
	return Verdict{Word: word, State: StateInvalid}
}

// Apply turns a verdict into an outcome against the current board.
// ok is false when the board no longer spells the verdict's word; the
// verdict is stale and must be dropped.
func Apply(b *game.Board, vd Verdict) (Outcome, bool) {
	ex := game.ExtractWord(b)
	if ex.Kind != game.Word || ex.Word != vd.Word {
		return Outcome{}, false
	}
	out := Outcome{State: vd.State, Word: vd.Word, Breakdown: game.Breakdown{WordFactor: 1}}
	switch vd.State {
	case StateValid:
		out.Breakdown = game.ScoreBreakdown(b)
		out.Score = out.Breakdown.Total
		out.Feedback = validFeedback(vd.Word)
	case StateInvalid:
		out.Feedback = invalidFeedback(vd.Word)
	default:
		out.State = StateInconclusive
		out.Feedback = inconclusiveFeedback(vd.Word)
	}
	return out, true
}
