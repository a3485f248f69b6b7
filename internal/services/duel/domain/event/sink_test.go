package event

import (
	"reflect"
	"testing"
)

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	if _, ok := rec.Last(); ok {
		t.Fatal("expected empty recorder")
	}

	rec.Emit(Event{Kind: KindTurnStarted, Combatant: "Hero"})
	rec.Emit(Event{Kind: KindDamageApplied, Combatant: "Dark Knight", Actual: 14})
	rec.Emit(Event{Kind: KindTurnStarted, Combatant: "Dark Knight"})

	want := []Kind{KindTurnStarted, KindDamageApplied, KindTurnStarted}
	if got := rec.Kinds(); !reflect.DeepEqual(got, want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	if got := rec.Filter(KindTurnStarted); len(got) != 2 {
		t.Fatalf("turn events = %d, want 2", len(got))
	}
	last, ok := rec.Last()
	if !ok || last.Combatant != "Dark Knight" {
		t.Fatalf("last = %+v, want Dark Knight turn", last)
	}

	events := rec.Events()
	events[0].Combatant = "mutated"
	if rec.Events()[0].Combatant != "Hero" {
		t.Fatal("Events must return a copy")
	}

	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Fatal("expected reset to clear events")
	}
}

func TestFanoutPreservesOrderAndSkipsNil(t *testing.T) {
	var order []string
	first := SinkFunc(func(evt Event) { order = append(order, "first:"+string(evt.Kind)) })
	second := SinkFunc(func(evt Event) { order = append(order, "second:"+string(evt.Kind)) })

	Fanout{first, nil, second}.Emit(Event{Kind: KindHealed})

	want := []string{"first:combatant.healed", "second:combatant.healed"}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestDiscard(t *testing.T) {
	Discard.Emit(Event{Kind: KindMatchEnded})
}
