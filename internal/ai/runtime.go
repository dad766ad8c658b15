package ai

import (
	"context"

	"arenamind/server/logging"
	logdecision "arenamind/server/logging/decision"

	"arenamind/server/internal/world"
)

// tickEnv bundles the per-tick read surface handed to sensors, decisions and
// behaviors. The RNG is a single deterministic stream drawn in agent
// iteration order; nothing in here may be stashed beyond the tick.
type tickEnv struct {
	world     world.Query
	paths     PathProvider
	rng       *world.Stream
	publisher logging.Publisher
	tick      uint64
	now       float64
	dt        float64
}

// stepHFSM advances the agent's cursor by one tick: bubble a finished leaf
// up first, then evaluate transitions (leaf's own, then each ancestor's,
// first match wins), otherwise run the current leaf's update.
//
// A leaf that both finished and has a satisfied transition yields to the
// bubble: control returns to the parent and the parent's transitions decide,
// so a sub-behavior never overrides its composite's routing.
func (a *Agent) stepHFSM(env *tickEnv) {
	if a == nil || a.archetype == nil || a.cursor.leaf == noNode {
		return
	}
	arch := a.archetype

	if a.cursor.finished {
		from := a.StateName()
		a.exitLeaf(env)
		resumed := arch.nodes[a.cursor.leaf].parent
		if resumed == noNode {
			resumed = arch.root
		}
		a.cursor.finished = false
		if target, name, ok := a.matchTransition(env, resumed); ok {
			a.enterVia(env, target, from, name, true)
			return
		}
		// No ancestor wanted control; restart the resumed composite's
		// default branch. Bounded by tree depth.
		a.enterVia(env, resumed, from, "", true)
		return
	}

	if target, name, ok := a.matchTransition(env, a.cursor.leaf); ok {
		from := a.StateName()
		a.exitLeaf(env)
		a.enterVia(env, target, from, name, false)
		return
	}

	a.cursor.elapsed += env.dt
	a.updateBehavior(env, arch.nodes[a.cursor.leaf].behavior, arch.nodes[a.cursor.leaf].behaviorParam)
}

// matchTransition scans transitions from node up through its ancestors in
// declaration order. Later transitions are not evaluated once one matches,
// which keeps RNG-drawing decisions deterministic.
func (a *Agent) matchTransition(env *tickEnv, from nodeIndex) (nodeIndex, string, bool) {
	arch := a.archetype
	for node := from; node != noNode; node = arch.nodes[node].parent {
		for i := range arch.nodes[node].transitions {
			tr := &arch.nodes[node].transitions[i]
			if a.evaluateDecision(env, tr) {
				return tr.target, decisionName(tr.decision), true
			}
		}
	}
	return noNode, "", false
}

// enterVia descends from target through default children to a leaf, resets
// the cursor and invokes the leaf's enter behavior.
func (a *Agent) enterVia(env *tickEnv, target nodeIndex, from, decision string, bubbled bool) {
	arch := a.archetype
	node := target
	for !arch.nodes[node].isLeaf() {
		node = arch.nodes[node].defaultChild
	}
	a.cursor.leaf = node
	a.cursor.elapsed = 0
	a.cursor.finished = false
	a.enterBehavior(env, arch.nodes[node].behavior, arch.nodes[node].behaviorParam)

	to := arch.nodes[node].name
	if to != from {
		logdecision.StateTransition(context.Background(), env.publisher, env.tick, string(a.id), logdecision.StateTransitionPayload{
			From:     from,
			To:       to,
			Bubbled:  bubbled,
			Decision: decision,
		})
	}
}

func (a *Agent) exitLeaf(env *tickEnv) {
	node := &a.archetype.nodes[a.cursor.leaf]
	a.exitBehavior(env, node.behavior, node.behaviorParam)
}

// activate places a fresh cursor on the root's default leaf and runs its
// enter behavior. Called once when the agent attaches.
func (a *Agent) activate(env *tickEnv) {
	arch := a.archetype
	node := arch.root
	for !arch.nodes[node].isLeaf() {
		node = arch.nodes[node].defaultChild
	}
	a.cursor = cursor{leaf: node}
	a.enterBehavior(env, arch.nodes[node].behavior, arch.nodes[node].behaviorParam)
}
