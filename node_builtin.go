package engine

const (
	portAudio = "audio"
	portNotes = "notes"
)

// EmptyNode does nothing: no declared ports, evaluates to an empty map. It
// exists so a track graph can have placeholder nodes wired in by a user
// before they pick a real node type.
type EmptyNode struct {
	baseNode
}

func NewEmptyNode() *EmptyNode {
	return &EmptyNode{baseNode: newBaseNode()}
}

func (n *EmptyNode) TypeName() string            { return "EmptyNode" }
func (n *EmptyNode) IsInput() bool                { return false }
func (n *EmptyNode) IsOutput() bool               { return false }
func (n *EmptyNode) InputPorts() []Port           { return nil }
func (n *EmptyNode) OutputPorts() []Port          { return nil }
func (n *EmptyNode) Evaluate(map[string]Value) map[string]Value {
	return nil
}
func (n *EmptyNode) Clone() Node {
	return &EmptyNode{baseNode: baseNode{id: n.id, consts: n.cloneConsts()}}
}

// BufferInputNode is the fixed input node of a BufferTrack's graph. The
// track injects the tick's summed region sample into its "audio" output
// before the graph is evaluated; BufferInputNode.Evaluate simply echoes
// whatever was injected via SetInput.
type BufferInputNode struct {
	baseNode
}

func NewBufferInputNode() *BufferInputNode {
	return &BufferInputNode{baseNode: newBaseNode()}
}

func (n *BufferInputNode) TypeName() string   { return "BufferInputNode" }
func (n *BufferInputNode) IsInput() bool      { return true }
func (n *BufferInputNode) IsOutput() bool     { return false }
func (n *BufferInputNode) InputPorts() []Port { return nil }
func (n *BufferInputNode) OutputPorts() []Port {
	return []Port{{Name: portAudio, Tag: TagFloat}}
}
func (n *BufferInputNode) Evaluate(map[string]Value) map[string]Value {
	return map[string]Value{portAudio: n.constOrDefault(portAudio, TagFloat)}
}
func (n *BufferInputNode) Clone() Node {
	return &BufferInputNode{baseNode: baseNode{id: n.id, consts: n.cloneConsts()}}
}

// BufferOutputNode is the fixed output node of a BufferTrack's graph. Its
// single "audio" input, once resolved by the graph, is the track's rendered
// sample for the tick.
type BufferOutputNode struct {
	baseNode
}

func NewBufferOutputNode() *BufferOutputNode {
	return &BufferOutputNode{baseNode: newBaseNode()}
}

func (n *BufferOutputNode) TypeName() string { return "BufferOutputNode" }
func (n *BufferOutputNode) IsInput() bool    { return false }
func (n *BufferOutputNode) IsOutput() bool   { return true }
func (n *BufferOutputNode) InputPorts() []Port {
	return []Port{{Name: portAudio, Tag: TagFloat}}
}

// OutputPorts declares the same "audio" port as an output so a Track's
// Render can read the node's resolved input back out of Graph.Evaluate's
// per-node results map (Evaluate only records outputs, never raw resolved
// inputs); Evaluate below simply echoes what it was fed.
func (n *BufferOutputNode) OutputPorts() []Port {
	return []Port{{Name: portAudio, Tag: TagFloat}}
}
func (n *BufferOutputNode) Evaluate(inputs map[string]Value) map[string]Value {
	return map[string]Value{portAudio: inputs[portAudio]}
}
func (n *BufferOutputNode) Clone() Node {
	return &BufferOutputNode{baseNode: baseNode{id: n.id, consts: n.cloneConsts()}}
}

// NoteInputNode is the fixed input node of a NoteTrack's graph. The track
// injects the tick's triggered notes into its "notes" output.
type NoteInputNode struct {
	baseNode
}

func NewNoteInputNode() *NoteInputNode {
	return &NoteInputNode{baseNode: newBaseNode()}
}

func (n *NoteInputNode) TypeName() string   { return "NoteInputNode" }
func (n *NoteInputNode) IsInput() bool      { return true }
func (n *NoteInputNode) IsOutput() bool     { return false }
func (n *NoteInputNode) InputPorts() []Port { return nil }
func (n *NoteInputNode) OutputPorts() []Port {
	return []Port{{Name: portNotes, Tag: TagNoteListRef}}
}
func (n *NoteInputNode) Evaluate(map[string]Value) map[string]Value {
	return map[string]Value{portNotes: n.constOrDefault(portNotes, TagNoteListRef)}
}
func (n *NoteInputNode) Clone() Node {
	return &NoteInputNode{baseNode: baseNode{id: n.id, consts: n.cloneConsts()}}
}

// AudioShaderNode holds user-supplied DSP: a shader source string compiled
// (by the out-of-scope external compiler, or a builtin registry — see
// shader.go) into a ShaderEvaluator. Its "audio" input is fed through the
// evaluator alongside the current beat; the result is its "audio" output.
type AudioShaderNode struct {
	baseNode

	source    string
	evaluator ShaderEvaluator
	beat      Beats
}

func NewAudioShaderNode() *AudioShaderNode {
	return &AudioShaderNode{baseNode: newBaseNode()}
}

func (n *AudioShaderNode) TypeName() string { return "AudioShaderNode" }
func (n *AudioShaderNode) IsInput() bool    { return false }
func (n *AudioShaderNode) IsOutput() bool   { return false }
func (n *AudioShaderNode) InputPorts() []Port {
	return []Port{{Name: portAudio, Tag: TagFloat}}
}
func (n *AudioShaderNode) OutputPorts() []Port {
	return []Port{{Name: portAudio, Tag: TagFloat}}
}

// SetBeat records the mixer's current beat so Evaluate can expose
// wall-clock-independent time to the compiled evaluator.
func (n *AudioShaderNode) SetBeat(b Beats) { n.beat = b }

// Source returns the last shader source this node was successfully or
// unsuccessfully asked to compile.
func (n *AudioShaderNode) Source() string { return n.source }

// SetShader compiles src with compile and, on success, installs the result
// as this node's evaluator. It returns the compiler's diagnostics; an empty
// slice means success. On failure the node's existing evaluator (if any) is
// left in place, matching spec.md §7's "command becomes a no-op" rule.
func (n *AudioShaderNode) SetShader(src string, compile ShaderCompiler) []string {
	n.source = src
	evaluator, errs := compile(src)
	if len(errs) > 0 {
		return errs
	}
	n.evaluator = evaluator
	return nil
}

func (n *AudioShaderNode) Evaluate(inputs map[string]Value) map[string]Value {
	in := inputs[portAudio]
	f, _ := in.Float()
	if n.evaluator == nil {
		return map[string]Value{portAudio: FloatValue(f)}
	}
	return map[string]Value{portAudio: n.evaluator.Evaluate(FloatValue(f), n.beat)}
}

func (n *AudioShaderNode) Clone() Node {
	cp := &AudioShaderNode{
		baseNode: baseNode{id: n.id, consts: n.cloneConsts()},
		source:   n.source,
		beat:     n.beat,
	}
	if n.evaluator != nil {
		cp.evaluator = n.evaluator.Clone()
	}
	return cp
}
