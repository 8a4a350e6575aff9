package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuiltinShaderCompilerPassthrough(t *testing.T) {
	for _, src := range []string{"", "passthrough"} {
		ev, errs := BuiltinShaderCompiler(src)
		assert.Empty(t, errs)
		out := ev.Evaluate(FloatValue(0.3), 0)
		v, _ := out.Float()
		assert.Equal(t, float32(0.3), v)
	}
}

func TestBuiltinShaderCompilerGain(t *testing.T) {
	ev, errs := BuiltinShaderCompiler("gain:1.5")
	assert.Empty(t, errs)
	out := ev.Evaluate(FloatValue(2), 0)
	v, _ := out.Float()
	assert.Equal(t, float32(3), v)
}

func TestBuiltinShaderCompilerGainRejectsBadFactor(t *testing.T) {
	_, errs := BuiltinShaderCompiler("gain:nope")
	assert.NotEmpty(t, errs)
}

func TestBuiltinShaderCompilerReverb(t *testing.T) {
	ev, errs := BuiltinShaderCompiler("reverb:0.5:10")
	assert.Empty(t, errs)
	// Just exercise the evaluator end-to-end; exact DSP behavior is covered
	// by internal/dsp's own tests.
	out := ev.Evaluate(FloatValue(1), 0)
	_, ok := out.Float()
	assert.True(t, ok)
}

func TestBuiltinShaderCompilerUnknownName(t *testing.T) {
	_, errs := BuiltinShaderCompiler("wobble")
	assert.NotEmpty(t, errs)
}

func TestGainEvaluatorCloneIsIndependentValue(t *testing.T) {
	ev, _ := BuiltinShaderCompiler("gain:2")
	cp := ev.Clone()
	out := cp.Evaluate(FloatValue(1), 0)
	v, _ := out.Float()
	assert.Equal(t, float32(2), v)
}
