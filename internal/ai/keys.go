package ai

// Key indexes a blackboard slot. Keys are resolved from authoring names once
// at archetype compile time; runtime lookups never touch strings.
type Key uint16

// Canonical key names written by the built-in sensors and read by the
// built-in behaviors and decisions. Archetype configs may declare additional
// keys of their own.
const (
	KeyNameTarget        = "target"
	KeyNameTargetVisible = "target-visible"
	KeyNameTargetRange   = "target-range"
	KeyNameHealthRatio   = "health-ratio"
	KeyNameHealthLow     = "health-low"
	KeyNameCollectible   = "collectible"
	KeyNameThreatLevel   = "threat-level"
	KeyNameTactic        = "tactic"
)

var canonicalKeyNames = []string{
	KeyNameTarget,
	KeyNameTargetVisible,
	KeyNameTargetRange,
	KeyNameHealthRatio,
	KeyNameHealthLow,
	KeyNameCollectible,
	KeyNameThreatLevel,
	KeyNameTactic,
}

// KeyTable maps key names to dense indices for one archetype. The canonical
// keys occupy the same indices in every table.
type KeyTable struct {
	names []string
	index map[string]Key
}

func newKeyTable() *KeyTable {
	t := &KeyTable{index: make(map[string]Key, len(canonicalKeyNames))}
	for _, name := range canonicalKeyNames {
		t.add(name)
	}
	return t
}

// add registers a name, returning the existing key when already present.
func (t *KeyTable) add(name string) Key {
	if key, ok := t.index[name]; ok {
		return key
	}
	key := Key(len(t.names))
	t.names = append(t.names, name)
	t.index[name] = key
	return key
}

// Lookup resolves a key name.
func (t *KeyTable) Lookup(name string) (Key, bool) {
	if t == nil {
		return 0, false
	}
	key, ok := t.index[name]
	return key, ok
}

// Name returns the authoring name for a key, or "" for an unknown index.
func (t *KeyTable) Name(key Key) string {
	if t == nil || int(key) >= len(t.names) {
		return ""
	}
	return t.names[key]
}

// Len returns the number of registered keys.
func (t *KeyTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// keyRefs caches the canonical keys an archetype's built-ins touch, resolved
// once at compile time.
type keyRefs struct {
	target        Key
	targetVisible Key
	targetRange   Key
	healthRatio   Key
	healthLow     Key
	collectible   Key
	threatLevel   Key
	tactic        Key
}

func resolveKeyRefs(t *KeyTable) keyRefs {
	lookup := func(name string) Key {
		key, _ := t.Lookup(name)
		return key
	}
	return keyRefs{
		target:        lookup(KeyNameTarget),
		targetVisible: lookup(KeyNameTargetVisible),
		targetRange:   lookup(KeyNameTargetRange),
		healthRatio:   lookup(KeyNameHealthRatio),
		healthLow:     lookup(KeyNameHealthLow),
		collectible:   lookup(KeyNameCollectible),
		threatLevel:   lookup(KeyNameThreatLevel),
		tactic:        lookup(KeyNameTactic),
	}
}
