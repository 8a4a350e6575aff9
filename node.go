package engine

import "github.com/google/uuid"

// NodeId uniquely identifies a Node for the lifetime of the process. Two
// nodes never share an id, even across different tracks or graphs.
type NodeId uuid.UUID

// NewNodeId mints a fresh, process-unique node id.
func NewNodeId() NodeId { return NodeId(uuid.New()) }

func (id NodeId) String() string { return uuid.UUID(id).String() }

// Port names one input or output of a Node and the Value tag it carries.
type Port struct {
	Name string
	Tag  ValueTag
}

// Node is the polymorphic unit of the per-track processing graph. Every
// concrete node type (EmptyNode, BufferInputNode, BufferOutputNode,
// AudioShaderNode, NoteInputNode) implements this interface.
type Node interface {
	ID() NodeId
	TypeName() string
	IsInput() bool
	IsOutput() bool

	// InputPorts and OutputPorts are the node's ordered, declared ports.
	InputPorts() []Port
	OutputPorts() []Port

	// SetInput assigns a constant value to an input port, used when no
	// connector feeds that port.
	SetInput(key string, v Value)

	// Evaluate computes this node's outputs for one graph tick, given every
	// resolved input value (connector-fed or set via SetInput).
	Evaluate(inputs map[string]Value) map[string]Value

	// Clone returns an independent copy of this node, including any
	// internal DSP state (e.g. a compiled shader's delay lines). Used by
	// Graph.Clone so a cloned Mixer never shares node state with the
	// actor's master copy.
	Clone() Node
}

// baseNode holds the bookkeeping common to every concrete node type: its id
// and the constant values assigned via SetInput.
type baseNode struct {
	id     NodeId
	consts map[string]Value
}

func newBaseNode() baseNode {
	return baseNode{id: NewNodeId(), consts: make(map[string]Value)}
}

func (n *baseNode) ID() NodeId { return n.id }

func (n *baseNode) SetInput(key string, v Value) {
	if n.consts == nil {
		n.consts = make(map[string]Value)
	}
	n.consts[key] = v
}

func (n *baseNode) constOrDefault(key string, tag ValueTag) Value {
	if v, ok := n.consts[key]; ok {
		return v
	}
	return DefaultForTag(tag)
}

func (n *baseNode) cloneConsts() map[string]Value {
	cp := make(map[string]Value, len(n.consts))
	for k, v := range n.consts {
		cp[k] = v
	}
	return cp
}

// resolveInputs resolves every declared input port of a node: a connector-fed
// value wins if present in resolved, otherwise the node's constant (or the
// tag's default if never set).
func resolveInputs(n Node, resolved map[string]Value) map[string]Value {
	out := make(map[string]Value, len(n.InputPorts()))
	for _, p := range n.InputPorts() {
		if v, ok := resolved[p.Name]; ok {
			out[p.Name] = v
		} else if bn, ok := n.(interface {
			constOrDefault(string, ValueTag) Value
		}); ok {
			out[p.Name] = bn.constOrDefault(p.Name, p.Tag)
		} else {
			out[p.Name] = DefaultForTag(p.Tag)
		}
	}
	return out
}

// normalizeOutputs fills in any output port missing from a node's Evaluate
// result with the tag's default, per spec: "missing ports are treated as the
// tag's default."
func normalizeOutputs(n Node, outputs map[string]Value) map[string]Value {
	out := make(map[string]Value, len(n.OutputPorts()))
	for _, p := range n.OutputPorts() {
		if v, ok := outputs[p.Name]; ok && v.Tag() == p.Tag {
			out[p.Name] = v
		} else {
			out[p.Name] = DefaultForTag(p.Tag)
		}
	}
	return out
}
