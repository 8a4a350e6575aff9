package engine

// NodePosition is a node's UI layout coordinate, tracked by the actor (not
// the Mixer/Graph) per spec.md §3.
type NodePosition struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MixerState is the immutable, serializable projection of a Mixer and its
// actor-owned side tables, built by deep-copying only the fields spec.md
// §4.7 names. Readers never share memory with live mixer state.
type MixerState struct {
	Tracks         []TrackState          `json:"tracks"`
	BPM            float32               `json:"bpm"`
	SamplesPerBeat float32               `json:"samples_per_beat"`
	Duration       Beats                 `json:"duration"`
	NodePositions  []TrackNodePositions  `json:"node_positions"`
}

// TrackNodePositions pairs a track id with its node layout table, mirroring
// spec.md §4.7's `node_positions: [(track_id, [(node_id, (x, y))])]` shape.
type TrackNodePositions struct {
	TrackID   TrackId              `json:"track_id"`
	Positions []NodeIdPositionPair `json:"positions"`
}

type NodeIdPositionPair struct {
	NodeID   string       `json:"node_id"`
	Position NodePosition `json:"position"`
}

// TrackState projects one Track.
type TrackState struct {
	ID       TrackId       `json:"id"`
	Name     string        `json:"name"`
	Channels int           `json:"channels"`
	Type     string        `json:"track_type"`
	Color    string        `json:"color"`
	Regions  []RegionState `json:"regions"`
	Graph    GraphState    `json:"graph"`
}

// RegionState projects one Region; Data discriminates BufferRegion from
// NoteRegion per spec.md §4.7's `BufferRegion | NoteRegion([NoteState])`.
type RegionState struct {
	ID        RegionId    `json:"id"`
	Name      string      `json:"name"`
	StartTime Beats       `json:"start_time"`
	Duration  Beats       `json:"duration"`
	Data      RegionData  `json:"data"`
}

type RegionData struct {
	Kind  string      `json:"kind"` // "buffer" | "note"
	Notes []NoteState `json:"notes,omitempty"`
}

type NoteState struct {
	ID        NoteId `json:"id"`
	Pitch     uint8  `json:"pitch"`
	Velocity  uint8  `json:"velocity"`
	StartTime Beats  `json:"start_time"`
	Duration  Beats  `json:"duration"`
}

// GraphState projects one Track's Graph.
type GraphState struct {
	Nodes       []NodeState      `json:"nodes"`
	Connections []ConnectorState `json:"connections"`
	InputNode   string           `json:"input_node"`
	OutputNode  string           `json:"output_node"`
}

type ConnectorState struct {
	From     string `json:"from"`
	FromPort string `json:"from_port"`
	To       string `json:"to"`
	ToPort   string `json:"to_port"`
}

type PortState struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// NodeState projects one Node. Data discriminates by concrete node kind per
// spec.md §4.7's `NodeData = EmptyNode | AudioShaderNode{shader_code} |
// NoteInputNode | Invalid`.
type NodeState struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	Inputs   []PortState   `json:"inputs"`
	Outputs  []PortState   `json:"outputs"`
	IsInput  bool          `json:"is_input"`
	IsOutput bool          `json:"is_output"`
	Position *NodePosition `json:"position,omitempty"`
	Data     NodeData      `json:"data"`
}

type NodeData struct {
	Kind       string `json:"kind"` // "Empty" | "AudioShader" | "NoteInput" | "Invalid"
	ShaderCode string `json:"shader_code,omitempty"`
}

// BuildMixerState projects m and the actor-owned node-position/track-color
// side tables into an immutable MixerState value, per spec.md §4.7 and §9
// ("construct by deep-copying only those fields ... avoid exposing graph
// internals whose identity would be sensitive to the mutation schedule").
func BuildMixerState(m *Mixer, nodePositions map[TrackId]map[NodeId]NodePosition, trackColors map[TrackId]string) MixerState {
	state := MixerState{
		BPM:            m.Tempo,
		SamplesPerBeat: m.SamplesPerBeat(),
		Duration:       m.Duration(),
	}

	for _, t := range m.Tracks() {
		positions := nodePositions[t.ID()]
		state.Tracks = append(state.Tracks, buildTrackState(t, trackColors[t.ID()], positions))

		var pairs []NodeIdPositionPair
		for _, n := range t.Graph().Nodes() {
			if p, ok := positions[n.ID()]; ok {
				pairs = append(pairs, NodeIdPositionPair{NodeID: n.ID().String(), Position: p})
			}
		}
		state.NodePositions = append(state.NodePositions, TrackNodePositions{TrackID: t.ID(), Positions: pairs})
	}

	return state
}

func buildTrackState(t Track, color string, positions map[NodeId]NodePosition) TrackState {
	ts := TrackState{
		ID:       t.ID(),
		Name:     t.Name(),
		Channels: t.Channels(),
		Type:     t.Type().String(),
		Color:    color,
		Graph:    buildGraphState(t.Graph(), positions),
	}
	for _, r := range t.Regions() {
		ts.Regions = append(ts.Regions, buildRegionState(r))
	}
	return ts
}

func buildRegionState(r Region) RegionState {
	rs := RegionState{
		ID:        r.ID(),
		Name:      r.Name(),
		StartTime: r.StartTime(),
		Duration:  r.Duration(),
	}
	switch reg := r.(type) {
	case *NoteRegion:
		rs.Data = RegionData{Kind: "note"}
		for _, n := range reg.Notes() {
			rs.Data.Notes = append(rs.Data.Notes, NoteState{
				ID: n.ID, Pitch: n.Pitch, Velocity: n.Velocity,
				StartTime: n.StartBeat, Duration: n.Duration,
			})
		}
	default:
		rs.Data = RegionData{Kind: "buffer"}
	}
	return rs
}

func buildGraphState(g *Graph, positions map[NodeId]NodePosition) GraphState {
	gs := GraphState{
		InputNode:  g.InputNode().String(),
		OutputNode: g.OutputNode().String(),
	}
	for _, n := range g.Nodes() {
		gs.Nodes = append(gs.Nodes, buildNodeState(n, positions))
	}
	for _, c := range g.Connectors() {
		gs.Connections = append(gs.Connections, ConnectorState{
			From: c.From.String(), FromPort: c.FromPort,
			To: c.To.String(), ToPort: c.ToPort,
		})
	}
	return gs
}

func buildNodeState(n Node, positions map[NodeId]NodePosition) NodeState {
	ns := NodeState{
		ID:       n.ID().String(),
		Name:     n.TypeName(),
		Type:     n.TypeName(),
		IsInput:  n.IsInput(),
		IsOutput: n.IsOutput(),
	}
	for _, p := range n.InputPorts() {
		ns.Inputs = append(ns.Inputs, PortState{Name: p.Name, Tag: p.Tag.String()})
	}
	for _, p := range n.OutputPorts() {
		ns.Outputs = append(ns.Outputs, PortState{Name: p.Name, Tag: p.Tag.String()})
	}
	if pos, ok := positions[n.ID()]; ok {
		posCopy := pos
		ns.Position = &posCopy
	}

	switch node := n.(type) {
	case *EmptyNode:
		ns.Data = NodeData{Kind: "Empty"}
	case *AudioShaderNode:
		ns.Data = NodeData{Kind: "AudioShader", ShaderCode: node.Source()}
	case *NoteInputNode:
		ns.Data = NodeData{Kind: "NoteInput"}
	default:
		ns.Data = NodeData{Kind: "Invalid"}
	}
	return ns
}
