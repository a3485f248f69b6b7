// Package policy supplies each combatant's next move.
//
// Policy is a closed tagged variant rather than an open interface: a policy
// is either backed by external input, by a seeded random draw, or by a fixed
// script. Every variant always yields a valid action.Choice.
package policy

import (
	"context"
	"math/rand"

	"github.com/louisbranch/skirmish/internal/services/duel/domain/action"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/combatant"
)

// Kind tags the policy variant.
type Kind int

const (
	KindUnspecified Kind = iota
	KindExternal
	KindRandomAI
	KindScripted
)

func (k Kind) String() string {
	switch k {
	case KindExternal:
		return "external"
	case KindRandomAI:
		return "random_ai"
	case KindScripted:
		return "scripted"
	default:
		return "unspecified"
	}
}

// View is what a policy sees when choosing.
type View struct {
	Round    int
	Self     combatant.Snapshot
	Opponent combatant.Snapshot
}

// InputFunc obtains a raw choice from a human or UI collaborator. It may
// block until input arrives.
type InputFunc func(ctx context.Context, view View) (string, error)

// AIChoices is the random AI's action space. Surrender is excluded.
var AIChoices = []action.Choice{action.Attack, action.Defend, action.SpecialAbility, action.Heal}

// Policy chooses moves for one combatant. Scripted and random policies keep
// state, so a Policy must not be shared between combatants.
type Policy struct {
	kind Kind

	input InputFunc
	rng   *rand.Rand

	script   []action.Choice
	next     int
	fallback action.Choice
}

// NewExternal returns a policy that asks input for each move. Errors and
// unparsable input resolve to Attack.
func NewExternal(input InputFunc) *Policy {
	return &Policy{kind: KindExternal, input: input}
}

// NewRandomAI returns a policy drawing uniformly from AIChoices using rng.
func NewRandomAI(rng *rand.Rand) *Policy {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Policy{kind: KindRandomAI, rng: rng}
}

// NewScripted returns a policy that plays choices in order and then Attack.
// Invalid entries in choices are played as Attack.
func NewScripted(choices ...action.Choice) *Policy {
	return &Policy{
		kind:     KindScripted,
		script:   append([]action.Choice(nil), choices...),
		fallback: action.Attack,
	}
}

// Kind returns the variant tag.
func (p *Policy) Kind() Kind {
	if p == nil {
		return KindUnspecified
	}
	return p.kind
}

// Remaining reports how many scripted moves are left. It is zero for other
// variants.
func (p *Policy) Remaining() int {
	if p == nil || p.kind != KindScripted {
		return 0
	}
	return len(p.script) - p.next
}

// Choose returns the next move. A nil or unspecified policy attacks.
func (p *Policy) Choose(ctx context.Context, view View) action.Choice {
	if p == nil {
		return action.Attack
	}
	switch p.kind {
	case KindExternal:
		return p.chooseExternal(ctx, view)
	case KindRandomAI:
		return AIChoices[p.rng.Intn(len(AIChoices))]
	case KindScripted:
		return p.chooseScripted()
	default:
		return action.Attack
	}
}

func (p *Policy) chooseExternal(ctx context.Context, view View) action.Choice {
	if p.input == nil {
		return action.Attack
	}
	raw, err := p.input(ctx, view)
	if err != nil {
		return action.Attack
	}
	return action.ParseOrAttack(raw)
}

func (p *Policy) chooseScripted() action.Choice {
	if p.next >= len(p.script) {
		return p.fallback
	}
	c := p.script[p.next]
	p.next++
	if !c.Valid() {
		return action.Attack
	}
	return c
}
