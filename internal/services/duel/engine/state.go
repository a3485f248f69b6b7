package engine

import (
	"context"

	"github.com/looplab/fsm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// State is a battle loop state.
type State string

const (
	StateAwaitingPlayerAction  State = "awaiting_player_action"
	StateResolvingPlayerAction State = "resolving_player_action"
	StateCheckPostPlayerWin    State = "check_post_player_win"
	StateAwaitingEnemyAction   State = "awaiting_enemy_action"
	StateResolvingEnemyAction  State = "resolving_enemy_action"
	StateCheckPostEnemyWin     State = "check_post_enemy_win"
	StatePlayerVictory         State = "player_victory"
	StateEnemyVictory          State = "enemy_victory"
)

// Terminal reports whether s ends the match.
func (s State) Terminal() bool {
	return s == StatePlayerVictory || s == StateEnemyVictory
}

const (
	transitionChoose     = "choose"
	transitionApply      = "apply"
	transitionPass       = "pass"
	transitionPlayerWins = "player_wins"
	transitionEnemyWins  = "enemy_wins"
)

func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(StateAwaitingPlayerAction),
		fsm.Events{
			{Name: transitionChoose, Src: []string{string(StateAwaitingPlayerAction)}, Dst: string(StateResolvingPlayerAction)},
			{Name: transitionChoose, Src: []string{string(StateAwaitingEnemyAction)}, Dst: string(StateResolvingEnemyAction)},
			{Name: transitionApply, Src: []string{string(StateResolvingPlayerAction)}, Dst: string(StateCheckPostPlayerWin)},
			{Name: transitionApply, Src: []string{string(StateResolvingEnemyAction)}, Dst: string(StateCheckPostEnemyWin)},
			{Name: transitionPass, Src: []string{string(StateCheckPostPlayerWin)}, Dst: string(StateAwaitingEnemyAction)},
			{Name: transitionPass, Src: []string{string(StateCheckPostEnemyWin)}, Dst: string(StateAwaitingPlayerAction)},
			{Name: transitionPlayerWins, Src: []string{string(StateCheckPostPlayerWin), string(StateCheckPostEnemyWin)}, Dst: string(StatePlayerVictory)},
			{Name: transitionEnemyWins, Src: []string{string(StateCheckPostPlayerWin), string(StateCheckPostEnemyWin)}, Dst: string(StateEnemyVictory)},
		},
		fsm.Callbacks{
			"enter_state": func(ctx context.Context, e *fsm.Event) {
				trace.SpanFromContext(ctx).AddEvent("duel.state", trace.WithAttributes(
					attribute.String("duel.state.from", e.Src),
					attribute.String("duel.state.to", e.Dst),
				))
			},
		},
	)
}
