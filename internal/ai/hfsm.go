package ai

// nodeIndex addresses a node in an archetype's immutable HFSM arena.
type nodeIndex int16

// noNode marks an absent parent or default child.
const noNode nodeIndex = -1

type behaviorID uint8

type decisionID uint8

// hfsmNode is one state in the compiled tree. Composite nodes carry a
// default child and exist to group shared transitions; only leaves carry a
// behavior.
type hfsmNode struct {
	name          string
	parent        nodeIndex
	defaultChild  nodeIndex
	behavior      behaviorID
	behaviorParam uint16
	transitions   []hfsmTransition
}

func (n *hfsmNode) isLeaf() bool {
	return n.defaultChild == noNode
}

// hfsmTransition is a directed edge guarded by a decision predicate.
// Transitions are evaluated in declaration order; the first match wins.
type hfsmTransition struct {
	decision   decisionID
	paramIndex uint16
	target     nodeIndex
}

// cursor is the per-agent HFSM runtime state: which leaf is active, how long
// it has been active, and whether it asked to hand control back up.
type cursor struct {
	leaf     nodeIndex
	elapsed  float64
	finished bool
}
