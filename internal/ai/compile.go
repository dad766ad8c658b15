package ai

import (
	"fmt"
	"sort"
)

// archetypeConfig is the authoring shape of one archetype. Configs are JSON
// documents validated against the embedded schema before compilation.
type archetypeConfig struct {
	Name       string            `json:"name" jsonschema:"minLength=1,description=Unique archetype identifier"`
	Steering   steeringAuthoring `json:"steering"`
	Blackboard map[string]any    `json:"blackboard,omitempty" jsonschema:"description=Initial blackboard values keyed by name"`
	Sensors    []sensorAuthoring `json:"sensors"`
	States     []stateAuthoring  `json:"states"`
}

type steeringAuthoring struct {
	TurnRate  float64 `json:"turnRate" jsonschema:"minimum=0,description=Maximum direction change in full turns per second"`
	Engage    float64 `json:"engage" jsonschema:"minimum=0,description=Pursuit closes until within this range"`
	Disengage float64 `json:"disengage" jsonschema:"minimum=0,description=Pursuit backs off inside this range"`
}

type sensorAuthoring struct {
	Sense  string         `json:"sense" jsonschema:"enum=target,enum=health,enum=collectible,enum=threat,enum=tactic"`
	Rate   float64        `json:"rate" jsonschema:"exclusiveMinimum=0,description=Seconds between firings"`
	Params map[string]any `json:"params,omitempty"`
}

type stateAuthoring struct {
	ID          string                `json:"id" jsonschema:"minLength=1"`
	Parent      string                `json:"parent,omitempty"`
	Default     string                `json:"default,omitempty" jsonschema:"description=Child entered when this composite gains control"`
	Behavior    string                `json:"behavior,omitempty"`
	Params      map[string]any        `json:"params,omitempty"`
	Transitions []transitionAuthoring `json:"transitions,omitempty"`
}

type transitionAuthoring struct {
	When   string         `json:"when" jsonschema:"minLength=1"`
	Params map[string]any `json:"params,omitempty"`
	To     string         `json:"to" jsonschema:"minLength=1"`
}

type initialValue struct {
	key   Key
	value Value
}

// compileArchetype lowers one authoring config into the flat runtime arena.
// All name resolution happens here; the runtime only ever sees indices.
func compileArchetype(cfg *archetypeConfig) (*Archetype, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("archetype name must not be empty")
	}
	arch := &Archetype{
		name: cfg.Name,
		keys: newKeyTable(),
		root: noNode,
		steering: steeringConfig{
			turnRate:  cfg.Steering.TurnRate,
			engage:    cfg.Steering.Engage,
			disengage: cfg.Steering.Disengage,
		},
	}

	if err := compileBlackboard(arch, cfg); err != nil {
		return nil, fmt.Errorf("archetype %q: %w", cfg.Name, err)
	}
	if err := compileSensors(arch, cfg); err != nil {
		return nil, fmt.Errorf("archetype %q: %w", cfg.Name, err)
	}
	if err := compileStates(arch, cfg); err != nil {
		return nil, fmt.Errorf("archetype %q: %w", cfg.Name, err)
	}
	arch.refs = resolveKeyRefs(arch.keys)
	return arch, nil
}

// compileBlackboard registers declared keys and captures initial values.
// Names are sorted first so key indices beyond the canonical block do not
// depend on map iteration order.
func compileBlackboard(arch *Archetype, cfg *archetypeConfig) error {
	names := make([]string, 0, len(cfg.Blackboard))
	for name := range cfg.Blackboard {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		value, err := valueFromAuthoring(cfg.Blackboard[name])
		if err != nil {
			return fmt.Errorf("blackboard key %q: %w", name, err)
		}
		arch.initial = append(arch.initial, initialValue{key: arch.keys.add(name), value: value})
	}
	return nil
}

func compileSensors(arch *Archetype, cfg *archetypeConfig) error {
	for i, sensor := range cfg.Sensors {
		id, ok := parseSensorID(sensor.Sense)
		if !ok {
			return fmt.Errorf("sensor %d: unknown sense %q", i, sensor.Sense)
		}
		if sensor.Rate <= 0 {
			return fmt.Errorf("sensor %q: rate must be positive, got %v", sensor.Sense, sensor.Rate)
		}
		var paramIndex uint16
		switch id {
		case sensorTarget:
			paramIndex = uint16(len(arch.targetSensorParams))
			arch.targetSensorParams = append(arch.targetSensorParams, targetSensorParams{
				Range:      paramNumber(sensor.Params, "range", 0),
				FOVDegrees: paramNumber(sensor.Params, "fov-degrees", 0),
				RequireLOS: paramBool(sensor.Params, "require-los", false),
			})
		case sensorHealth:
			paramIndex = uint16(len(arch.healthSensorParams))
			arch.healthSensorParams = append(arch.healthSensorParams, healthSensorParams{
				LowRatio: paramNumber(sensor.Params, "low-ratio", 0.3),
			})
		case sensorCollectible:
			paramIndex = uint16(len(arch.collectibleSensorParams))
			arch.collectibleSensorParams = append(arch.collectibleSensorParams, collectibleSensorParams{
				Range: paramNumber(sensor.Params, "range", 0),
			})
		case sensorThreat:
			paramIndex = uint16(len(arch.threatSensorParams))
			arch.threatSensorParams = append(arch.threatSensorParams, threatSensorParams{
				Range:    paramNumber(sensor.Params, "range", 0),
				Duration: paramNumber(sensor.Params, "duration", 1),
				Weight:   paramNumber(sensor.Params, "weight", 1),
			})
		case sensorTactic:
			paramIndex = uint16(len(arch.tacticSensorParams))
			arch.tacticSensorParams = append(arch.tacticSensorParams, tacticSensorParams{
				Aggression: paramNumber(sensor.Params, "aggression", 1),
				Caution:    paramNumber(sensor.Params, "caution", 1),
				Greed:      paramNumber(sensor.Params, "greed", 1),
			})
		}
		arch.sensors = append(arch.sensors, compiledSensor{id: id, rate: sensor.Rate, paramIndex: paramIndex})
	}
	return nil
}

func compileStates(arch *Archetype, cfg *archetypeConfig) error {
	if len(cfg.States) == 0 {
		return fmt.Errorf("at least one state is required")
	}
	if len(cfg.States) > 32767 {
		return fmt.Errorf("too many states: %d", len(cfg.States))
	}

	indexByID := make(map[string]nodeIndex, len(cfg.States))
	for i, state := range cfg.States {
		if state.ID == "" {
			return fmt.Errorf("state %d: id must not be empty", i)
		}
		if _, dup := indexByID[state.ID]; dup {
			return fmt.Errorf("duplicate state id %q", state.ID)
		}
		indexByID[state.ID] = nodeIndex(i)
	}

	// Parent links for every state are resolved before anything else, so a
	// bad parent name surfaces as its own error rather than as a knock-on
	// default-child failure elsewhere in the tree.
	arch.nodes = make([]hfsmNode, len(cfg.States))
	for i, state := range cfg.States {
		node := &arch.nodes[i]
		node.name = state.ID
		node.parent = noNode
		node.defaultChild = noNode

		if state.Parent != "" {
			parent, ok := indexByID[state.Parent]
			if !ok {
				return fmt.Errorf("state %q: unknown parent %q", state.ID, state.Parent)
			}
			if parent == nodeIndex(i) {
				return fmt.Errorf("state %q: cannot be its own parent", state.ID)
			}
			node.parent = parent
		} else {
			if arch.root != noNode {
				return fmt.Errorf("states %q and %q both lack a parent; exactly one root is allowed",
					arch.nodes[arch.root].name, state.ID)
			}
			arch.root = nodeIndex(i)
		}
	}
	if arch.root == noNode {
		return fmt.Errorf("no root state: every state names a parent")
	}

	for i, state := range cfg.States {
		node := &arch.nodes[i]

		if state.Default != "" {
			child, ok := indexByID[state.Default]
			if !ok {
				return fmt.Errorf("state %q: unknown default child %q", state.ID, state.Default)
			}
			if cfg.States[child].Parent != state.ID {
				return fmt.Errorf("state %q: default %q is not one of its children", state.ID, state.Default)
			}
			node.defaultChild = child
		}

		switch {
		case state.Default == "" && state.Behavior == "":
			return fmt.Errorf("state %q: a leaf must name a behavior", state.ID)
		case state.Default != "" && state.Behavior != "":
			return fmt.Errorf("state %q: a composite cannot carry a behavior", state.ID)
		}

		if state.Behavior != "" {
			behavior, ok := parseBehaviorID(state.Behavior)
			if !ok {
				return fmt.Errorf("state %q: unknown behavior %q", state.ID, state.Behavior)
			}
			node.behavior = behavior
			paramIndex, err := compileBehaviorParams(arch, behavior, state.Params)
			if err != nil {
				return fmt.Errorf("state %q: %w", state.ID, err)
			}
			node.behaviorParam = paramIndex
			if behavior == behaviorPatrol {
				arch.usesPath = true
			}
		}

		for j, transition := range state.Transitions {
			decision, ok := parseDecisionID(transition.When)
			if !ok {
				return fmt.Errorf("state %q transition %d: unknown decision %q", state.ID, j, transition.When)
			}
			target, ok := indexByID[transition.To]
			if !ok {
				return fmt.Errorf("state %q transition %d: unknown target %q", state.ID, j, transition.To)
			}
			paramIndex, err := compileDecisionParams(arch, decision, transition.Params)
			if err != nil {
				return fmt.Errorf("state %q transition %d: %w", state.ID, j, err)
			}
			node.transitions = append(node.transitions, hfsmTransition{
				decision:   decision,
				paramIndex: paramIndex,
				target:     target,
			})
		}
	}

	// Every composite must bottom out in a leaf within the tree height,
	// otherwise entry would loop.
	for i := range arch.nodes {
		node := nodeIndex(i)
		for hops := 0; !arch.nodes[node].isLeaf(); hops++ {
			if hops > len(arch.nodes) {
				return fmt.Errorf("default chain from %q never reaches a leaf", arch.nodes[i].name)
			}
			node = arch.nodes[node].defaultChild
		}
	}
	// Parent chains must be acyclic for the same reason.
	for i := range arch.nodes {
		node := nodeIndex(i)
		for hops := 0; node != noNode; hops++ {
			if hops > len(arch.nodes) {
				return fmt.Errorf("parent chain from %q forms a cycle", arch.nodes[i].name)
			}
			node = arch.nodes[node].parent
		}
	}
	return nil
}

func compileBehaviorParams(arch *Archetype, id behaviorID, params map[string]any) (uint16, error) {
	switch id {
	case behaviorWait:
		seconds := paramNumber(params, "seconds", 0)
		if seconds <= 0 {
			return 0, fmt.Errorf("behavior %q: seconds must be positive", behaviorName(id))
		}
		arch.waitParams = append(arch.waitParams, waitParams{Seconds: seconds})
		return uint16(len(arch.waitParams) - 1), nil
	case behaviorWander:
		radius := paramNumber(params, "radius", 0)
		if radius <= 0 {
			return 0, fmt.Errorf("behavior %q: radius must be positive", behaviorName(id))
		}
		arch.wanderParams = append(arch.wanderParams, wanderParams{
			Radius:       radius,
			MinRadius:    paramNumber(params, "min-radius", 0),
			ArriveRadius: paramNumber(params, "arrive-radius", 0),
		})
		return uint16(len(arch.wanderParams) - 1), nil
	case behaviorEngage:
		arch.engageParams = append(arch.engageParams, engageParams{
			FireRange: paramNumber(params, "fire-range", 0),
		})
		return uint16(len(arch.engageParams) - 1), nil
	case behaviorStrafe:
		seconds := paramNumber(params, "seconds", 0)
		if seconds <= 0 {
			return 0, fmt.Errorf("behavior %q: seconds must be positive", behaviorName(id))
		}
		arch.strafeParams = append(arch.strafeParams, strafeParams{Seconds: seconds})
		return uint16(len(arch.strafeParams) - 1), nil
	case behaviorFlee:
		safe := paramNumber(params, "safe-range", 0)
		if safe <= 0 {
			return 0, fmt.Errorf("behavior %q: safe-range must be positive", behaviorName(id))
		}
		arch.fleeParams = append(arch.fleeParams, fleeParams{SafeRange: safe})
		return uint16(len(arch.fleeParams) - 1), nil
	case behaviorCollect:
		arch.collectParams = append(arch.collectParams, collectParams{
			ArriveRadius: paramNumber(params, "arrive-radius", 0),
		})
		return uint16(len(arch.collectParams) - 1), nil
	default:
		return 0, nil
	}
}

func compileDecisionParams(arch *Archetype, id decisionID, params map[string]any) (uint16, error) {
	switch id {
	case decisionHealthBelow, decisionHealthAbove:
		ratio := paramNumber(params, "ratio", 0)
		if ratio < 0 || ratio > 1 {
			return 0, fmt.Errorf("decision %q: ratio must be within [0, 1]", decisionName(id))
		}
		arch.healthDecisionParams = append(arch.healthDecisionParams, healthDecisionParams{Ratio: ratio})
		return uint16(len(arch.healthDecisionParams) - 1), nil
	case decisionTimerElapsed:
		seconds := paramNumber(params, "seconds", 0)
		if seconds <= 0 {
			return 0, fmt.Errorf("decision %q: seconds must be positive", decisionName(id))
		}
		arch.timerDecisionParams = append(arch.timerDecisionParams, timerDecisionParams{Seconds: seconds})
		return uint16(len(arch.timerDecisionParams) - 1), nil
	case decisionThreatAbove:
		arch.threatDecisionParams = append(arch.threatDecisionParams, threatDecisionParams{
			Level: paramNumber(params, "level", 0),
		})
		return uint16(len(arch.threatDecisionParams) - 1), nil
	case decisionTacticIs:
		option, ok := parseTacticOption(paramString(params, "option", ""))
		if !ok {
			return 0, fmt.Errorf("decision %q: option must be one of hold, engage, flee, collect", decisionName(id))
		}
		arch.tacticDecisionParams = append(arch.tacticDecisionParams, tacticDecisionParams{Option: option})
		return uint16(len(arch.tacticDecisionParams) - 1), nil
	case decisionRandomChance:
		p := paramNumber(params, "probability", -1)
		if p < 0 || p > 1 {
			return 0, fmt.Errorf("decision %q: probability must be within [0, 1]", decisionName(id))
		}
		arch.randomDecisionParams = append(arch.randomDecisionParams, randomDecisionParams{Probability: p})
		return uint16(len(arch.randomDecisionParams) - 1), nil
	default:
		return 0, nil
	}
}

func paramNumber(params map[string]any, key string, fallback float64) float64 {
	if raw, ok := params[key]; ok {
		if num, ok := raw.(float64); ok {
			return num
		}
	}
	return fallback
}

func paramString(params map[string]any, key string, fallback string) string {
	if raw, ok := params[key]; ok {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return fallback
}

func paramBool(params map[string]any, key string, fallback bool) bool {
	if raw, ok := params[key]; ok {
		if b, ok := raw.(bool); ok {
			return b
		}
	}
	return fallback
}
