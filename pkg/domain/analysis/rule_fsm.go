package analysis

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// Rule accumulation states. These must stay untyped string constants for
// statekit.StateID compatibility.
const (
	RuleStateIdle = "idle"
	RuleStateOpen = "open"
	RuleStateDone = "done"
)

const (
	ruleEventReason     = "reason"
	ruleEventSuggestion = "suggestion"
	ruleEventDelta      = "delta"
	ruleEventEnd        = "end"
)

type ruleContext struct{}

// ruleAccumulator collects rules in order of appearance. Suggestion and delta
// lines only land on an open rule; a new reason or the end of input flushes it.
type ruleAccumulator struct {
	interpreter *statekit.Interpreter[ruleContext]
	current     RuleResult
	rules       []RuleResult
}

func newRuleAccumulator() (*ruleAccumulator, error) {
	builder := statekit.NewMachine[ruleContext]("rule-accumulator").
		WithInitial(statekit.StateID(RuleStateIdle)).
		WithContext(ruleContext{})

	builder.State(RuleStateIdle).
		On(ruleEventReason).Target(RuleStateOpen).
		On(ruleEventEnd).Target(RuleStateDone).
		Done()

	builder.State(RuleStateOpen).
		On(ruleEventReason).Target(RuleStateOpen).
		On(ruleEventSuggestion).Target(RuleStateOpen).
		On(ruleEventDelta).Target(RuleStateOpen).
		On(ruleEventEnd).Target(RuleStateDone).
		Done()

	builder.State(RuleStateDone).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build rule state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &ruleAccumulator{
		interpreter: interpreter,
		rules:       []RuleResult{},
	}, nil
}

func (a *ruleAccumulator) State() string {
	return string(a.interpreter.State().Value)
}

func (a *ruleAccumulator) send(event string) {
	a.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
}

func (a *ruleAccumulator) flush() {
	if a.State() != RuleStateOpen {
		return
	}
	a.rules = append(a.rules, a.current)
	a.current = RuleResult{}
}

func (a *ruleAccumulator) Reason(text string) {
	a.flush()
	a.send(ruleEventReason)
	a.current = RuleResult{Reason: text}
}

func (a *ruleAccumulator) Suggestion(text string) {
	a.send(ruleEventSuggestion)
	if a.State() == RuleStateOpen {
		a.current.Suggestion = text
	}
}

func (a *ruleAccumulator) Delta(points int) {
	a.send(ruleEventDelta)
	if a.State() == RuleStateOpen {
		a.current.Score = &points
	}
}

// Finish flushes any open rule and returns the accumulated list.
func (a *ruleAccumulator) Finish() []RuleResult {
	a.flush()
	a.send(ruleEventEnd)
	return a.rules
}
