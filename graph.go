package engine

import "fmt"

// Connector wires one node's output port to another node's input port. Port
// tags must match (spec.md §3); at most one connector may terminate at a
// given (To, ToPort).
type Connector struct {
	From     NodeId
	FromPort string
	To       NodeId
	ToPort   string
}

// Graph is a per-track directed acyclic graph of Nodes with exactly one
// designated input node and one designated output node, both created at
// construction and never removable.
type Graph struct {
	nodes      map[NodeId]Node
	order      []NodeId // insertion order, for stable snapshot iteration
	connectors []Connector

	inputNode  NodeId
	outputNode NodeId
}

// NewGraph creates a graph whose fixed input and output nodes are the ones
// given. When defaultFromPort is non-empty they are connected by a default
// input.defaultFromPort -> output.defaultToPort connector (NewBufferTrack
// passes audio -> audio). An empty defaultFromPort creates no connector;
// NewNoteTrack does this, since its "notes" input and "audio" output tags
// differ, and leaves the wiring to the caller (see track.go).
func NewGraph(input, output Node, defaultFromPort, defaultToPort string) *Graph {
	g := &Graph{
		nodes:      make(map[NodeId]Node),
		inputNode:  input.ID(),
		outputNode: output.ID(),
	}
	g.addNodeLocked(input)
	g.addNodeLocked(output)
	if defaultFromPort != "" {
		g.connectors = append(g.connectors, Connector{
			From: input.ID(), FromPort: defaultFromPort,
			To: output.ID(), ToPort: defaultToPort,
		})
	}
	return g
}

func (g *Graph) addNodeLocked(n Node) {
	g.nodes[n.ID()] = n
	g.order = append(g.order, n.ID())
}

// InputNode returns the graph's fixed input node id.
func (g *Graph) InputNode() NodeId { return g.inputNode }

// OutputNode returns the graph's fixed output node id.
func (g *Graph) OutputNode() NodeId { return g.outputNode }

// AddNode inserts a new node into the graph, recording its insertion order
// for stable snapshot iteration.
func (g *Graph) AddNode(n Node) {
	g.addNodeLocked(n)
}

// Node looks up a node by id.
func (g *Graph) Node(id NodeId) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	out := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		if n, ok := g.nodes[id]; ok {
			out = append(out, n)
		}
	}
	return out
}

// Connectors returns all connectors in the graph.
func (g *Graph) Connectors() []Connector {
	return append([]Connector(nil), g.connectors...)
}

// RemoveNode deletes a node and every connector touching it. The input and
// output nodes can never be removed.
func (g *Graph) RemoveNode(id NodeId) error {
	if id == g.inputNode || id == g.outputNode {
		return fmt.Errorf("%w: %s", ErrNodeNotRemovable, id)
	}
	if _, ok := g.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	delete(g.nodes, id)
	for i, oid := range g.order {
		if oid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	kept := g.connectors[:0]
	for _, c := range g.connectors {
		if c.From != id && c.To != id {
			kept = append(kept, c)
		}
	}
	g.connectors = kept
	return nil
}

func (g *Graph) findPort(id NodeId, name string, wantInput bool) (Port, error) {
	n, ok := g.nodes[id]
	if !ok {
		return Port{}, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	ports := n.OutputPorts()
	if wantInput {
		ports = n.InputPorts()
	}
	for _, p := range ports {
		if p.Name == name {
			return p, nil
		}
	}
	return Port{}, fmt.Errorf("%w: %s.%s", ErrPortNotFound, id, name)
}

// Connect wires from.FromPort to to.ToPort. It rejects a connection whose
// port tags mismatch, or that would introduce a cycle. At most one
// connector may terminate at a given (to, toPort); a new connection to an
// already-fed input port replaces the old one.
func (g *Graph) Connect(from NodeId, fromPort string, to NodeId, toPort string) error {
	fp, err := g.findPort(from, fromPort, false)
	if err != nil {
		return err
	}
	tp, err := g.findPort(to, toPort, true)
	if err != nil {
		return err
	}
	if fp.Tag != tp.Tag {
		return fmt.Errorf("%w: %s(%s) -> %s(%s)", ErrPortTagMismatch, fromPort, fp.Tag, toPort, tp.Tag)
	}
	if g.reachable(to, from) {
		return fmt.Errorf("%w: %s -> %s", ErrWouldCycle, from, to)
	}

	kept := g.connectors[:0]
	for _, c := range g.connectors {
		if !(c.To == to && c.ToPort == toPort) {
			kept = append(kept, c)
		}
	}
	g.connectors = append(kept, Connector{From: from, FromPort: fromPort, To: to, ToPort: toPort})
	return nil
}

// Disconnect removes a connector matching the given tuple exactly. Removing
// a connector that does not exist is a no-op.
func (g *Graph) Disconnect(from NodeId, fromPort string, to NodeId, toPort string) {
	kept := g.connectors[:0]
	for _, c := range g.connectors {
		if c.From == from && c.FromPort == fromPort && c.To == to && c.ToPort == toPort {
			continue
		}
		kept = append(kept, c)
	}
	g.connectors = kept
}

// reachable reports whether to-node is reachable from from-node by following
// existing connectors forward (from -> to edges). Used before adding a new
// from->to connector: if to can already reach from, adding from->to would
// close a cycle.
func (g *Graph) reachable(from, to NodeId) bool {
	if from == to {
		return true
	}
	visited := map[NodeId]bool{from: true}
	stack := []NodeId{from}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range g.connectors {
			if c.From != cur {
				continue
			}
			if c.To == to {
				return true
			}
			if !visited[c.To] {
				visited[c.To] = true
				stack = append(stack, c.To)
			}
		}
	}
	return false
}

// Validate checks every connector's port tags still match and that the
// output node is reachable only through tag-consistent wiring. It does not
// re-check acyclicity (Connect already guarantees the graph stays acyclic),
// matching spec.md §4.4's prepare() contract.
func (g *Graph) Validate() error {
	for _, c := range g.connectors {
		fp, err := g.findPort(c.From, c.FromPort, false)
		if err != nil {
			continue // dangling connector: tolerated per spec.md §4.1, defaults at eval time
		}
		tp, err := g.findPort(c.To, c.ToPort, true)
		if err != nil {
			continue
		}
		if fp.Tag != tp.Tag {
			return fmt.Errorf("%w: %s.%s -> %s.%s", ErrPortTagMismatch, c.From, c.FromPort, c.To, c.ToPort)
		}
	}
	return nil
}

// topoOrder returns the ids of every node reachable from the output node by
// walking connectors backwards (to -> from), ordered so that every node
// appears after all nodes it depends on.
func (g *Graph) topoOrder() []NodeId {
	incoming := make(map[NodeId][]NodeId) // node -> nodes that feed it
	for _, c := range g.connectors {
		incoming[c.To] = append(incoming[c.To], c.From)
	}

	var reachable []NodeId
	seen := map[NodeId]bool{}
	var collect func(id NodeId)
	collect = func(id NodeId) {
		if seen[id] {
			return
		}
		seen[id] = true
		if _, ok := g.nodes[id]; !ok {
			return // dangling connector target
		}
		for _, from := range incoming[id] {
			collect(from)
		}
		reachable = append(reachable, id)
	}
	collect(g.outputNode)
	return reachable
}

// Evaluate runs one tick of the graph: every node reachable from the output
// node is evaluated in dependency order, and the resulting per-node,
// per-port Value map is returned (spec.md §4.1).
func (g *Graph) Evaluate() map[NodeId]map[string]Value {
	results := make(map[NodeId]map[string]Value)

	incomingByPort := make(map[NodeId]map[string]Connector)
	for _, c := range g.connectors {
		if incomingByPort[c.To] == nil {
			incomingByPort[c.To] = make(map[string]Connector)
		}
		incomingByPort[c.To][c.ToPort] = c
	}

	for _, id := range g.topoOrder() {
		n := g.nodes[id]
		resolved := make(map[string]Value, len(n.InputPorts()))
		for _, p := range n.InputPorts() {
			conn, ok := incomingByPort[id][p.Name]
			if !ok {
				continue
			}
			srcOut, ok := results[conn.From]
			if !ok {
				continue
			}
			v, ok := srcOut[conn.FromPort]
			if !ok {
				continue
			}
			if v.Tag() != p.Tag {
				continue // tag mismatch at eval time: leave unresolved -> default
			}
			resolved[p.Name] = v
		}

		inputs := resolveInputs(n, resolved)
		outputs := normalizeOutputs(n, n.Evaluate(inputs))
		results[id] = outputs
	}

	return results
}

// setShaderBeats propagates the current tick's beat position to every
// AudioShaderNode in the graph, so its Evaluate can expose wall-clock-
// independent, tempo-relative time (spec.md §4.1's AudioShader note).
// Called by Track.Render before Graph.Evaluate.
func (g *Graph) setShaderBeats(b Beats) {
	for _, n := range g.nodes {
		if shader, ok := n.(*AudioShaderNode); ok {
			shader.SetBeat(b)
		}
	}
}

// Clone returns a deep, independent copy of the graph: every node is cloned
// via Node.Clone (which handles node-specific state explicitly, including
// any ShaderEvaluator implementation that holds unexported internal DSP
// state), and connectors are copied by value. Mixer.Clone calls this
// explicitly rather than leaning on huandu/go-clone's reflection for graphs,
// since a generic deep-clone has no way to reconstruct an interface value
// like ShaderEvaluator; see mixer.go and DESIGN.md.
func (g *Graph) Clone() *Graph {
	cp := &Graph{
		nodes:      make(map[NodeId]Node, len(g.nodes)),
		order:      append([]NodeId(nil), g.order...),
		connectors: append([]Connector(nil), g.connectors...),
		inputNode:  g.inputNode,
		outputNode: g.outputNode,
	}
	for id, n := range g.nodes {
		cp.nodes[id] = n.Clone()
	}
	return cp
}
