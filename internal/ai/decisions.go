package ai

const (
	decisionTargetVisible decisionID = iota
	decisionTargetLost
	decisionNoTargets
	decisionHealthBelow
	decisionHealthAbove
	decisionTimerElapsed
	decisionCollectibleAvailable
	decisionThreatAbove
	decisionTacticIs
	decisionRandomChance
)

type healthDecisionParams struct {
	Ratio float64
}

type timerDecisionParams struct {
	Seconds float64
}

type threatDecisionParams struct {
	Level float64
}

type tacticDecisionParams struct {
	Option float64
}

type randomDecisionParams struct {
	Probability float64
}

func decisionName(id decisionID) string {
	switch id {
	case decisionTargetVisible:
		return "target-visible"
	case decisionTargetLost:
		return "target-lost"
	case decisionNoTargets:
		return "no-targets"
	case decisionHealthBelow:
		return "health-below"
	case decisionHealthAbove:
		return "health-above"
	case decisionTimerElapsed:
		return "timer-elapsed"
	case decisionCollectibleAvailable:
		return "collectible-available"
	case decisionThreatAbove:
		return "threat-above"
	case decisionTacticIs:
		return "tactic-is"
	case decisionRandomChance:
		return "random-chance"
	default:
		return ""
	}
}

func parseDecisionID(name string) (decisionID, bool) {
	switch name {
	case "target-visible":
		return decisionTargetVisible, true
	case "target-lost":
		return decisionTargetLost, true
	case "no-targets":
		return decisionNoTargets, true
	case "health-below":
		return decisionHealthBelow, true
	case "health-above":
		return decisionHealthAbove, true
	case "timer-elapsed":
		return decisionTimerElapsed, true
	case "collectible-available":
		return decisionCollectibleAvailable, true
	case "threat-above":
		return decisionThreatAbove, true
	case "tactic-is":
		return decisionTacticIs, true
	case "random-chance":
		return decisionRandomChance, true
	default:
		return 0, false
	}
}

// evaluateDecision runs one transition predicate. Predicates only read the
// blackboard, memory and world; the sole side effect anywhere in here is the
// ordered draw from the deterministic RNG stream.
func (a *Agent) evaluateDecision(env *tickEnv, tr *hfsmTransition) bool {
	arch := a.archetype
	refs := arch.refs
	switch tr.decision {
	case decisionTargetVisible:
		return a.targetAvailable(env)
	case decisionTargetLost:
		return !a.targetAvailable(env)
	case decisionNoTargets:
		return !a.blackboard.Has(refs.target)
	case decisionHealthBelow:
		params := arch.healthDecisionParams[tr.paramIndex]
		ratio, _ := a.blackboard.GetOr(refs.healthRatio, Number(1)).AsNumber()
		return ratio <= params.Ratio
	case decisionHealthAbove:
		params := arch.healthDecisionParams[tr.paramIndex]
		ratio, _ := a.blackboard.GetOr(refs.healthRatio, Number(1)).AsNumber()
		return ratio > params.Ratio
	case decisionTimerElapsed:
		params := arch.timerDecisionParams[tr.paramIndex]
		return a.cursor.elapsed >= params.Seconds
	case decisionCollectibleAvailable:
		id, err := a.blackboard.EntityRef(refs.collectible)
		if err != nil {
			return false
		}
		return env.world.Exists(id)
	case decisionThreatAbove:
		params := arch.threatDecisionParams[tr.paramIndex]
		level, _ := a.blackboard.GetOr(refs.threatLevel, Number(0)).AsNumber()
		return level > params.Level
	case decisionTacticIs:
		params := arch.tacticDecisionParams[tr.paramIndex]
		tactic, _ := a.blackboard.GetOr(refs.tactic, Number(tacticHold)).AsNumber()
		return tactic == params.Option
	case decisionRandomChance:
		params := arch.randomDecisionParams[tr.paramIndex]
		return env.rng.Next() < params.Probability
	default:
		return false
	}
}

// targetAvailable reports whether the blackboard names a target that the
// sensors still consider visible and that still exists in the world. A stale
// handle counts as absence, never as a fault.
func (a *Agent) targetAvailable(env *tickEnv) bool {
	refs := a.archetype.refs
	visible, _ := a.blackboard.GetOr(refs.targetVisible, Bool(false)).AsBool()
	if !visible {
		return false
	}
	id, err := a.blackboard.EntityRef(refs.target)
	if err != nil {
		return false
	}
	return env.world.Exists(id)
}
