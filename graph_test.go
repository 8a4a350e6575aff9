package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func newBufferGraph() *Graph {
	return NewGraph(NewBufferInputNode(), NewBufferOutputNode(), portAudio, portAudio)
}

func TestNewGraphHasDefaultConnector(t *testing.T) {
	g := newBufferGraph()
	assert.Len(t, g.Connectors(), 1)
	c := g.Connectors()[0]
	assert.Equal(t, g.InputNode(), c.From)
	assert.Equal(t, g.OutputNode(), c.To)
}

func TestGraphEvaluatePassesInputToOutput(t *testing.T) {
	g := newBufferGraph()
	in, _ := g.Node(g.InputNode())
	in.(*BufferInputNode).SetInput(portAudio, FloatValue(0.4))

	results := g.Evaluate()
	out, ok := results[g.OutputNode()][portAudio].Float()
	assert.True(t, ok)
	assert.Equal(t, float32(0.4), out)
}

func TestGraphRemoveNodeRejectsFixedNodes(t *testing.T) {
	g := newBufferGraph()
	err := g.RemoveNode(g.InputNode())
	assert.ErrorIs(t, err, ErrNodeNotRemovable)
	err = g.RemoveNode(g.OutputNode())
	assert.ErrorIs(t, err, ErrNodeNotRemovable)
}

func TestGraphRemoveNodeUnknownID(t *testing.T) {
	g := newBufferGraph()
	err := g.RemoveNode(NewNodeId())
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestGraphRemoveNodeDropsConnectors(t *testing.T) {
	g := newBufferGraph()
	shader := NewAudioShaderNode()
	g.AddNode(shader)
	assert.NoError(t, g.Connect(g.InputNode(), portAudio, shader.ID(), portAudio))

	assert.NoError(t, g.RemoveNode(shader.ID()))
	for _, c := range g.Connectors() {
		assert.NotEqual(t, shader.ID(), c.From)
		assert.NotEqual(t, shader.ID(), c.To)
	}
}

func TestGraphConnectRejectsTagMismatch(t *testing.T) {
	g := newBufferGraph()
	noteIn := NewNoteInputNode()
	g.AddNode(noteIn)
	err := g.Connect(noteIn.ID(), portNotes, g.OutputNode(), portAudio)
	assert.ErrorIs(t, err, ErrPortTagMismatch)
}

func TestGraphConnectRejectsUnknownPort(t *testing.T) {
	g := newBufferGraph()
	err := g.Connect(g.InputNode(), "nope", g.OutputNode(), portAudio)
	assert.ErrorIs(t, err, ErrPortNotFound)
}

func TestGraphConnectRejectsCycle(t *testing.T) {
	g := newBufferGraph()
	shaderA := NewAudioShaderNode()
	shaderB := NewAudioShaderNode()
	g.AddNode(shaderA)
	g.AddNode(shaderB)

	assert.NoError(t, g.Connect(shaderA.ID(), portAudio, shaderB.ID(), portAudio))

	err := g.Connect(shaderB.ID(), portAudio, shaderA.ID(), portAudio)
	assert.ErrorIs(t, err, ErrWouldCycle)
}

func TestGraphConnectReplacesExistingConnectorToSameInput(t *testing.T) {
	g := newBufferGraph()
	shaderA := NewAudioShaderNode()
	shaderB := NewAudioShaderNode()
	g.AddNode(shaderA)
	g.AddNode(shaderB)

	assert.NoError(t, g.Connect(shaderA.ID(), portAudio, g.OutputNode(), portAudio))
	assert.NoError(t, g.Connect(shaderB.ID(), portAudio, g.OutputNode(), portAudio))

	var feedingOutput int
	for _, c := range g.Connectors() {
		if c.To == g.OutputNode() && c.ToPort == portAudio {
			feedingOutput++
			assert.Equal(t, shaderB.ID(), c.From)
		}
	}
	assert.Equal(t, 1, feedingOutput)
}

func TestGraphDisconnectIsNoopWhenMissing(t *testing.T) {
	g := newBufferGraph()
	g.Disconnect(NewNodeId(), "x", NewNodeId(), "y")
	assert.Len(t, g.Connectors(), 1)
}

func TestGraphValidateCatchesStaleTagMismatch(t *testing.T) {
	g := newBufferGraph()
	assert.NoError(t, g.Validate())

	// Connect refuses mismatched tags, so plant a stale connector directly.
	noteIn := NewNoteInputNode()
	g.AddNode(noteIn)
	g.connectors = append(g.connectors, Connector{From: noteIn.ID(), FromPort: portNotes, To: g.OutputNode(), ToPort: portAudio})
	assert.ErrorIs(t, g.Validate(), ErrPortTagMismatch)
}

func TestGraphCloneIsIndependent(t *testing.T) {
	g := newBufferGraph()
	shader := NewAudioShaderNode()
	shader.SetShader("gain:2", BuiltinShaderCompiler)
	g.AddNode(shader)
	assert.NoError(t, g.Connect(shader.ID(), portAudio, g.OutputNode(), portAudio))

	cp := g.Clone()
	assert.NoError(t, cp.RemoveNode(shader.ID()))

	_, stillThere := g.Node(shader.ID())
	assert.True(t, stillThere, "removing a node from the clone must not affect the original")
}

func TestGraphReachableSelf(t *testing.T) {
	g := newBufferGraph()
	assert.True(t, g.reachable(g.InputNode(), g.InputNode()))
}
