// Package engine drives a duel through alternating turns until one side wins.
//
// Each turn asks the acting side's policy for a choice, resolves it into a
// TurnEffect, applies the effect to the combatants and checks for a terminal
// outcome. Status events are emitted after every mutation. A Match is
// strictly sequential and not safe for concurrent use.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/looplab/fsm"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/skirmish/internal/platform/id"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/action"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/combatant"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/event"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/policy"
)

const instrumentationName = "github.com/louisbranch/skirmish/internal/services/duel/engine"

var (
	// ErrMatchOver is returned when a turn is requested after a terminal state.
	ErrMatchOver = errors.New("match is over")
	// ErrMissingCombatant indicates a side without a combatant.
	ErrMissingCombatant = errors.New("both combatants are required")
	// ErrSameCombatant indicates both sides share one combatant.
	ErrSameCombatant = errors.New("combatants must be distinct")
	// ErrCombatantDefeated indicates a side was already defeated at setup.
	ErrCombatantDefeated = errors.New("combatants must start alive")
	// ErrMissingPolicy indicates a side without a policy.
	ErrMissingPolicy = errors.New("both policies are required")
	// ErrSharedPolicy indicates both sides share one stateful policy.
	ErrSharedPolicy = errors.New("policies must not be shared between sides")
	// ErrInvalidDefendMode indicates an unknown defend mode.
	ErrInvalidDefendMode = errors.New("invalid defend mode")
)

// Side identifies a participant.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

func (s Side) String() string {
	if s == SideEnemy {
		return "enemy"
	}
	return "player"
}

func (s Side) other() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

// Config assembles a match.
type Config struct {
	// ID identifies the match in events and spans. Generated when empty.
	ID           string
	Player       *combatant.Combatant
	Enemy        *combatant.Combatant
	PlayerPolicy *policy.Policy
	EnemyPolicy  *policy.Policy
	// Sink receives status events. Events are dropped when nil.
	Sink       event.Sink
	DefendMode DefendMode
	// Tracer overrides the global tracer.
	Tracer trace.Tracer
}

// TurnReport summarizes one resolved turn.
type TurnReport struct {
	Round    int
	Side     Side
	Actor    string
	Defender string
	Effect   action.TurnEffect
	// Damage is set when the effect dealt damage; Heal when it healed.
	Damage *combatant.DamageApplication
	Heal   *combatant.HealApplication
	State  State
}

// Outcome is the terminal result of a match.
type Outcome struct {
	Winner     string
	Loser      string
	WinnerSide Side
	Reason     event.EndReason
	Rounds     int
}

// Match is a single duel.
type Match struct {
	id         string
	sides      [2]*combatant.Combatant
	policies   [2]*policy.Policy
	sink       event.Sink
	defendMode DefendMode
	tracer     trace.Tracer
	machine    *fsm.FSM

	round int
	// guard holds a lingering Defend boost per side in DefendUntilNextTurn.
	guard   [2]int
	outcome *Outcome
}

// NewMatch validates cfg and returns a match awaiting the player's action.
func NewMatch(cfg Config) (*Match, error) {
	if cfg.Player == nil || cfg.Enemy == nil {
		return nil, ErrMissingCombatant
	}
	if cfg.Player == cfg.Enemy {
		return nil, ErrSameCombatant
	}
	if !cfg.Player.IsAlive() || !cfg.Enemy.IsAlive() {
		return nil, ErrCombatantDefeated
	}
	if cfg.PlayerPolicy == nil || cfg.EnemyPolicy == nil {
		return nil, ErrMissingPolicy
	}
	if cfg.PlayerPolicy == cfg.EnemyPolicy {
		return nil, ErrSharedPolicy
	}
	if cfg.DefendMode != DefendMomentary && cfg.DefendMode != DefendUntilNextTurn {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDefendMode, int(cfg.DefendMode))
	}

	matchID := cfg.ID
	if matchID == "" {
		generated, err := id.NewID()
		if err != nil {
			return nil, fmt.Errorf("match id: %w", err)
		}
		matchID = generated
	}
	sink := cfg.Sink
	if sink == nil {
		sink = event.Discard
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}

	return &Match{
		id:         matchID,
		sides:      [2]*combatant.Combatant{cfg.Player, cfg.Enemy},
		policies:   [2]*policy.Policy{cfg.PlayerPolicy, cfg.EnemyPolicy},
		sink:       sink,
		defendMode: cfg.DefendMode,
		tracer:     tracer,
		machine:    newMachine(),
	}, nil
}

// ID returns the match identifier.
func (m *Match) ID() string { return m.id }

// State returns the current loop state.
func (m *Match) State() State { return State(m.machine.Current()) }

// CurrentRound returns the number of the current, or last, round. Zero before the
// first turn.
func (m *Match) CurrentRound() int { return m.round }

// Player returns the player combatant.
func (m *Match) Player() *combatant.Combatant { return m.sides[SidePlayer] }

// Enemy returns the enemy combatant.
func (m *Match) Enemy() *combatant.Combatant { return m.sides[SideEnemy] }

// Done reports whether the match reached a terminal state.
func (m *Match) Done() bool { return m.outcome != nil }

// Outcome returns the result once the match is over.
func (m *Match) Outcome() (Outcome, bool) {
	if m.outcome == nil {
		return Outcome{}, false
	}
	return *m.outcome, true
}

// Run plays rounds until the match ends. It returns ctx.Err() if the caller
// cancels between turns.
func (m *Match) Run(ctx context.Context) (Outcome, error) {
	ctx, span := m.tracer.Start(ctx, "duel.match", trace.WithAttributes(
		attribute.String("duel.match_id", m.id),
		attribute.String("duel.player", m.Player().Name()),
		attribute.String("duel.enemy", m.Enemy().Name()),
		attribute.String("duel.defend_mode", m.defendMode.String()),
	))
	defer span.End()

	for !m.Done() {
		if _, err := m.PlayRound(ctx); err != nil {
			span.RecordError(err)
			return Outcome{}, err
		}
	}
	out := *m.outcome
	span.SetAttributes(
		attribute.String("duel.winner", out.Winner),
		attribute.String("duel.reason", string(out.Reason)),
		attribute.Int("duel.rounds", out.Rounds),
	)
	return out, nil
}

// PlayRound plays turns until the round completes: the player's turn, then
// the enemy's unless the player's turn ended the match. Called mid-round, it
// finishes the current round.
func (m *Match) PlayRound(ctx context.Context) ([]TurnReport, error) {
	if m.Done() {
		return nil, ErrMatchOver
	}
	var reports []TurnReport
	for {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		report, err := m.Turn(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
		if report.State != StateAwaitingEnemyAction {
			return reports, nil
		}
	}
}

// Turn plays exactly one participant's turn.
func (m *Match) Turn(ctx context.Context) (TurnReport, error) {
	side, ok := m.awaitingSide()
	if !ok {
		return TurnReport{}, ErrMatchOver
	}
	if side == SidePlayer {
		m.round++
		m.emit(event.Event{
			Kind:   event.KindRoundStarted,
			Round:  m.round,
			Player: status(m.Player()),
			Enemy:  status(m.Enemy()),
		})
	}
	actor, defender := m.sides[side], m.sides[side.other()]

	ctx, span := m.tracer.Start(ctx, "duel.turn", trace.WithAttributes(
		attribute.String("duel.match_id", m.id),
		attribute.Int("duel.round", m.round),
		attribute.String("duel.side", side.String()),
		attribute.String("duel.actor", actor.Name()),
	))
	defer span.End()

	m.restoreGuard(side)
	m.emit(event.Event{
		Kind:      event.KindTurnStarted,
		Round:     m.round,
		Combatant: actor.Name(),
		Target:    defender.Name(),
	})

	choice := m.policies[side].Choose(ctx, policy.View{
		Round:    m.round,
		Self:     actor.Snapshot(),
		Opponent: defender.Snapshot(),
	})
	if !choice.Valid() {
		choice = action.Attack
	}
	if err := m.fire(ctx, transitionChoose); err != nil {
		return TurnReport{}, err
	}

	report := m.apply(side, action.Resolve(actor.Snapshot(), choice))
	if err := m.fire(ctx, transitionApply); err != nil {
		return TurnReport{}, err
	}
	if err := m.check(ctx, side, report.Effect); err != nil {
		return TurnReport{}, err
	}
	report.State = m.State()

	span.SetAttributes(
		attribute.String("duel.action", report.Effect.Choice.String()),
		attribute.Int("duel.actor.health", actor.Health()),
		attribute.Int("duel.defender.health", defender.Health()),
		attribute.String("duel.state", string(report.State)),
	)
	if report.Damage != nil {
		span.SetAttributes(attribute.Int("duel.damage", report.Damage.Actual))
	}
	return report, nil
}

func (m *Match) awaitingSide() (Side, bool) {
	switch m.State() {
	case StateAwaitingPlayerAction:
		return SidePlayer, true
	case StateAwaitingEnemyAction:
		return SideEnemy, true
	default:
		return SidePlayer, false
	}
}

// apply mutates at most one combatant. A momentary Defend boost is applied
// and reverted here, so it nets to no change.
func (m *Match) apply(side Side, effect action.TurnEffect) TurnReport {
	actor, defender := m.sides[side], m.sides[side.other()]
	report := TurnReport{
		Round:    m.round,
		Side:     side,
		Actor:    actor.Name(),
		Defender: defender.Name(),
		Effect:   effect,
	}

	switch {
	case effect.Surrendered:
		actor.Surrender()
		m.emit(event.Event{
			Kind:      event.KindSurrendered,
			Round:     m.round,
			Combatant: actor.Name(),
			Target:    defender.Name(),
			Health:    actor.Health(),
		})
	case effect.DefenseDeltaSelf != 0:
		boosted := actor.AdjustDefense(effect.DefenseDeltaSelf)
		m.emit(event.Event{
			Kind:      event.KindDefenseBoosted,
			Round:     m.round,
			Combatant: actor.Name(),
			Amount:    effect.DefenseDeltaSelf,
			Defense:   boosted,
			Transient: m.defendMode == DefendMomentary,
		})
		if m.defendMode == DefendMomentary {
			actor.AdjustDefense(-effect.DefenseDeltaSelf)
		} else {
			m.guard[side] += effect.DefenseDeltaSelf
		}
	case effect.HealToSelf > 0:
		app := actor.Heal(effect.HealToSelf)
		report.Heal = &app
		m.emit(event.Event{
			Kind:      event.KindHealed,
			Round:     m.round,
			Combatant: actor.Name(),
			Amount:    app.Amount,
			Actual:    app.Restored,
			Health:    app.HealthAfter,
			MaxHealth: actor.MaxHealth(),
		})
	default:
		app := defender.TakeDamage(effect.DamageToDefender)
		report.Damage = &app
		m.emit(event.Event{
			Kind:      event.KindDamageApplied,
			Round:     m.round,
			Combatant: defender.Name(),
			Target:    actor.Name(),
			Action:    effect.Choice.String(),
			Amount:    app.Raw,
			Actual:    app.Actual,
			Health:    app.HealthAfter,
			MaxHealth: defender.MaxHealth(),
			Defense:   app.Defense,
		})
	}
	return report
}

func (m *Match) check(ctx context.Context, side Side, effect action.TurnEffect) error {
	actor, defender := m.sides[side], m.sides[side.other()]
	winner := side
	reason := event.EndReasonDefeat
	switch {
	case !defender.IsAlive():
	case !actor.IsAlive():
		winner = side.other()
		if effect.Surrendered {
			reason = event.EndReasonSurrender
		}
	default:
		return m.fire(ctx, transitionPass)
	}

	transition := transitionPlayerWins
	if winner == SideEnemy {
		transition = transitionEnemyWins
	}
	if err := m.fire(ctx, transition); err != nil {
		return err
	}
	m.outcome = &Outcome{
		Winner:     m.sides[winner].Name(),
		Loser:      m.sides[winner.other()].Name(),
		WinnerSide: winner,
		Reason:     reason,
		Rounds:     m.round,
	}
	m.emit(event.Event{
		Kind:   event.KindMatchEnded,
		Round:  m.round,
		Winner: m.outcome.Winner,
		Loser:  m.outcome.Loser,
		Reason: reason,
	})
	return nil
}

// restoreGuard drops a lingering Defend boost when its owner acts again.
func (m *Match) restoreGuard(side Side) {
	delta := m.guard[side]
	if delta == 0 {
		return
	}
	m.guard[side] = 0
	c := m.sides[side]
	restored := c.AdjustDefense(-delta)
	m.emit(event.Event{
		Kind:      event.KindDefenseRestored,
		Round:     m.round,
		Combatant: c.Name(),
		Amount:    delta,
		Defense:   restored,
	})
}

func (m *Match) fire(ctx context.Context, transition string) error {
	if err := m.machine.Event(ctx, transition); err != nil {
		return fmt.Errorf("transition %s from %s: %w", transition, m.machine.Current(), err)
	}
	return nil
}

func (m *Match) emit(evt event.Event) {
	evt.MatchID = m.id
	m.sink.Emit(evt)
}

func status(c *combatant.Combatant) event.Status {
	return event.Status{
		Name:      c.Name(),
		Archetype: c.Archetype().String(),
		Health:    c.Health(),
		MaxHealth: c.MaxHealth(),
		Defense:   c.Defense(),
	}
}
