package planner

import "business_planner/pkg/core/projection"

// Topic names what an event changed. Every mutating Planner operation
// publishes exactly one Event.
type Topic string

const (
	TopicSheet       Topic = "sheet"
	TopicCommercial  Topic = "commercial"
	TopicPeople      Topic = "people"
	TopicMarketing   Topic = "marketing"
	TopicStrategic   Topic = "strategic"
	TopicScenario    Topic = "scenario"
	TopicAssumptions Topic = "assumptions"
	TopicGoals       Topic = "goals"
	TopicNarrative   Topic = "narrative"
	TopicPlan        Topic = "plan"
	TopicState       Topic = "state"
)

// Topics lists every topic.
var Topics = []Topic{
	TopicSheet, TopicCommercial, TopicPeople, TopicMarketing, TopicStrategic,
	TopicScenario, TopicAssumptions, TopicGoals, TopicNarrative, TopicPlan, TopicState,
}

// Event describes one mutation.
type Event struct {
	Topic Topic `json:"topic"`
	// Scenario is set for TopicScenario events.
	Scenario projection.ScenarioName `json:"scenario,omitempty"`
	// Persist is false for events that change nothing stored, such as
	// rebuilding the financial plan.
	Persist bool `json:"persist"`
}

// Listener receives events after the mutation has been applied.
type Listener func(Event)

func (p *Planner) publish(ev Event) {
	p.listenersMu.RLock()
	fns := append([]Listener(nil), p.listeners[ev.Topic]...)
	fns = append(fns, p.wildcard...)
	p.listenersMu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Subscribe registers fn for one topic.
func (p *Planner) Subscribe(topic Topic, fn Listener) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.listeners[topic] = append(p.listeners[topic], fn)
}

// SubscribeAll registers fn for every topic.
func (p *Planner) SubscribeAll(fn Listener) {
	p.listenersMu.Lock()
	defer p.listenersMu.Unlock()
	p.wildcard = append(p.wildcard, fn)
}
