package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyNodeHasNoPorts(t *testing.T) {
	n := NewEmptyNode()
	assert.Empty(t, n.InputPorts())
	assert.Empty(t, n.OutputPorts())
	assert.Nil(t, n.Evaluate(nil))
}

func TestBufferInputNodeEchoesConst(t *testing.T) {
	n := NewBufferInputNode()
	n.SetInput(portAudio, FloatValue(0.75))
	out := n.Evaluate(nil)
	v, ok := out[portAudio].Float()
	assert.True(t, ok)
	assert.Equal(t, float32(0.75), v)
}

func TestBufferInputNodeDefaultsToZero(t *testing.T) {
	n := NewBufferInputNode()
	out := n.Evaluate(nil)
	v, _ := out[portAudio].Float()
	assert.Zero(t, v)
}

func TestNoteInputNodeEchoesConst(t *testing.T) {
	n := NewNoteInputNode()
	notes := []Note{{Pitch: 60}}
	n.SetInput(portNotes, NoteListValue(notes))
	out := n.Evaluate(nil)
	got, ok := out[portNotes].Notes()
	assert.True(t, ok)
	assert.Equal(t, notes, got)
}

func TestAudioShaderNodePassthroughWithoutShader(t *testing.T) {
	n := NewAudioShaderNode()
	out := n.Evaluate(map[string]Value{portAudio: FloatValue(0.5)})
	v, _ := out[portAudio].Float()
	assert.Equal(t, float32(0.5), v)
}

func TestAudioShaderNodeAppliesCompiledGain(t *testing.T) {
	n := NewAudioShaderNode()
	errs := n.SetShader("gain:2.0", BuiltinShaderCompiler)
	assert.Empty(t, errs)

	out := n.Evaluate(map[string]Value{portAudio: FloatValue(0.5)})
	v, _ := out[portAudio].Float()
	assert.Equal(t, float32(1.0), v)
}

func TestAudioShaderNodeFailedCompileLeavesPriorEvaluator(t *testing.T) {
	n := NewAudioShaderNode()
	assert.Empty(t, n.SetShader("gain:3.0", BuiltinShaderCompiler))

	errs := n.SetShader("gain:not-a-number", BuiltinShaderCompiler)
	assert.NotEmpty(t, errs)

	out := n.Evaluate(map[string]Value{portAudio: FloatValue(1)})
	v, _ := out[portAudio].Float()
	assert.Equal(t, float32(3.0), v, "a rejected shader must not replace the working evaluator")
}

func TestAudioShaderNodeCloneCopiesEvaluatorIndependently(t *testing.T) {
	n := NewAudioShaderNode()
	n.SetShader("reverb:0.5:1", BuiltinShaderCompiler)
	n.SetBeat(3)

	cp := n.Clone().(*AudioShaderNode)
	assert.Equal(t, n.Source(), cp.Source())
	assert.Equal(t, n.beat, cp.beat)

	// Feeding the clone must not perturb the original's delay line state.
	assert.NotSame(t, n.evaluator.(*reverbEvaluator).reverb, cp.evaluator.(*reverbEvaluator).reverb)
	cp.Evaluate(map[string]Value{portAudio: FloatValue(1)})
	n.Evaluate(map[string]Value{portAudio: FloatValue(0)})
}

func TestNormalizeOutputsFillsMissingPortsWithDefault(t *testing.T) {
	n := NewBufferOutputNode()
	out := normalizeOutputs(n, map[string]Value{})
	v, ok := out[portAudio].Float()
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestResolveInputsPrefersConnectorOverConst(t *testing.T) {
	n := NewAudioShaderNode()
	n.SetInput(portAudio, FloatValue(9))
	resolved := map[string]Value{portAudio: FloatValue(1)}
	in := resolveInputs(n, resolved)
	v, _ := in[portAudio].Float()
	assert.Equal(t, float32(1), v)
}
