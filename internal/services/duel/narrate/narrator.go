// Package narrate renders duel events as localized, player-facing text.
package narrate

import (
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/skirmish/internal/services/duel/domain/action"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/combatant"
	"github.com/louisbranch/skirmish/internal/services/duel/domain/event"
)

// Option configures a Narrator.
type Option func(*Narrator)

// WithPace pauses before each enemy turn, and half as long after a guard is
// raised.
func WithPace(pace time.Duration) Option {
	return func(n *Narrator) { n.pace = pace }
}

// WithSleep replaces time.Sleep for pacing.
func WithSleep(sleep func(time.Duration)) Option {
	return func(n *Narrator) { n.sleep = sleep }
}

// Narrator is an event.Sink that writes one line per status event.
type Narrator struct {
	out     io.Writer
	printer *message.Printer
	pace    time.Duration
	sleep   func(time.Duration)

	player     string
	enemy      string
	archetypes map[string]string
	err        error
}

// New returns a narrator writing to out in the given locale.
func New(out io.Writer, tag language.Tag, opts ...Option) *Narrator {
	if out == nil {
		out = io.Discard
	}
	n := &Narrator{
		out:        out,
		printer:    message.NewPrinter(tag),
		sleep:      time.Sleep,
		archetypes: map[string]string{},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Err returns the first write error, if any.
func (n *Narrator) Err() error { return n.err }

// Emit implements event.Sink.
func (n *Narrator) Emit(evt event.Event) {
	switch evt.Kind {
	case event.KindRoundStarted:
		n.player, n.enemy = evt.Player.Name, evt.Enemy.Name
		n.archetypes[evt.Player.Name] = archetypeKey(evt.Player.Archetype)
		n.archetypes[evt.Enemy.Name] = archetypeKey(evt.Enemy.Archetype)
		if evt.Round == 1 {
			n.line("duel.battle.start")
		}
		n.blank()
		n.line("duel.status.header")
		n.status(evt.Player)
		n.status(evt.Enemy)
		n.line("duel.status.footer")
	case event.KindTurnStarted:
		if evt.Combatant == n.enemy && n.enemy != "" {
			n.blank()
			n.line("duel.turn.enemy")
			n.pause(n.pace)
		}
	case event.KindDamageApplied:
		move := "attack"
		if evt.Action == action.SpecialAbility.String() {
			move = "special"
		}
		n.line("duel.move."+n.archetype(evt.Target)+"."+move, evt.Target)
		n.line("duel.damage", evt.Combatant, evt.Actual, evt.Health, evt.MaxHealth)
	case event.KindHealed:
		n.line("duel.heal", evt.Combatant, evt.Amount, evt.Health, evt.MaxHealth)
	case event.KindDefenseBoosted:
		n.line("duel.guard.raise", evt.Combatant, evt.Amount)
		n.pause(n.pace / 2)
	case event.KindDefenseRestored:
		n.line("duel.guard.lower", evt.Combatant, evt.Defense)
	case event.KindSurrendered:
		n.blank()
		n.line("duel.surrender", evt.Combatant)
	case event.KindMatchEnded:
		n.blank()
		n.line("duel.battle.end")
		n.blank()
		if evt.Winner == n.player {
			n.line("duel.victory", evt.Winner)
		} else {
			n.line("duel.defeat", evt.Winner)
		}
	}
}

// Menu writes the action menu for the given combatant and the input prompt.
func (n *Narrator) Menu(self combatant.Snapshot) {
	key := archetypeKey(self.Archetype.String())
	special := n.printer.Sprintf("duel.special." + key)
	n.blank()
	n.line("duel.menu.attack")
	n.line("duel.menu.defend")
	n.line("duel.menu.special", special)
	n.line("duel.menu.heal")
	n.line("duel.menu.quit")
	n.write(n.printer.Sprintf("duel.menu.prompt"))
}

// ClassMenu writes the class selection menu and its input prompt.
func (n *Narrator) ClassMenu() {
	n.line("duel.class.title")
	n.blank()
	n.line("duel.class.header")
	n.line("duel.class.warrior")
	n.line("duel.class.mage")
	n.line("duel.class.rogue")
	n.blank()
	n.write(n.printer.Sprintf("duel.class.prompt"))
}

// ClassFallback reports an unreadable class choice.
func (n *Narrator) ClassFallback() {
	n.line("duel.class.fallback")
}

// Continue writes the between-rounds prompt.
func (n *Narrator) Continue() {
	n.blank()
	n.line("duel.continue")
}

func (n *Narrator) status(s event.Status) {
	class := n.printer.Sprintf("duel.archetype." + archetypeKey(s.Archetype))
	n.line("duel.status.line", s.Name, class, s.Health, s.MaxHealth)
}

func (n *Narrator) archetype(name string) string {
	if key, ok := n.archetypes[name]; ok {
		return key
	}
	return "enemy"
}

func (n *Narrator) line(key string, args ...any) {
	n.write(n.printer.Sprintf(key, args...) + "\n")
}

func (n *Narrator) blank() { n.write("\n") }

func (n *Narrator) write(s string) {
	if n.err != nil {
		return
	}
	_, n.err = io.WriteString(n.out, s)
}

func (n *Narrator) pause(d time.Duration) {
	if d > 0 && n.sleep != nil {
		n.sleep(d)
	}
}

// archetypeKey maps an archetype display name to its message key segment.
func archetypeKey(name string) string {
	arch, err := combatant.ParseArchetype(name)
	if err != nil {
		return "enemy"
	}
	return strings.ToLower(arch.String())
}
