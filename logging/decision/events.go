// Package decision publishes structured events for the agent decision core:
// lifecycle, state transitions and configuration faults.
package decision

import (
	"context"

	"arenamind/server/logging"
)

const (
	// EventAgentAttached is emitted when an entity gains an agent mind.
	EventAgentAttached logging.EventType = "decision.agent_attached"
	// EventAgentDetached is emitted when an agent is torn down.
	EventAgentDetached logging.EventType = "decision.agent_detached"
	// EventStateTransition is emitted whenever an agent's HFSM cursor moves
	// to a new leaf state.
	EventStateTransition logging.EventType = "decision.state_transition"
)

// StateTransitionPayload captures a cursor move between leaf states.
type StateTransitionPayload struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Bubbled  bool   `json:"bubbled"`
	Decision string `json:"decision,omitempty"`
}

// StateTransition publishes a debug event for an HFSM leaf change.
func StateTransition(ctx context.Context, pub logging.Publisher, tick uint64, agentID string, payload StateTransitionPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventStateTransition,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryDecision,
		Payload:  payload,
	})
}

// AgentAttachedPayload records the archetype bound to a new agent.
type AgentAttachedPayload struct {
	Archetype string `json:"archetype"`
	State     string `json:"state"`
}

// AgentAttached publishes an info event for agent activation.
func AgentAttached(ctx context.Context, pub logging.Publisher, tick uint64, agentID string, payload AgentAttachedPayload) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAgentAttached,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDecision,
		Payload:  payload,
	})
}

// AgentDetached publishes an info event for agent teardown.
func AgentDetached(ctx context.Context, pub logging.Publisher, tick uint64, agentID string) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventAgentDetached,
		Tick:     tick,
		Actor:    logging.EntityRef{ID: agentID, Kind: logging.EntityKindAgent},
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDecision,
	})
}
