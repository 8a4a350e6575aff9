package engine

import (
	"fmt"
	"strings"

	"github.com/knodiq/engine/internal/dsp"
)

// ShaderEvaluator is the compiled form of an AudioShaderNode's source. The
// real compiler (source text -> evaluator) is an external collaborator per
// spec.md §1 ("treated as a function compile(source) -> (evaluator,
// [error])"); BuiltinShaderCompiler below is a small stand-in registry so
// AudioShaderNode is exercisable without it.
type ShaderEvaluator interface {
	// Evaluate computes one output sample from one input sample and the
	// mixer's current beat, which lets an evaluator implement
	// wall-clock-independent, tempo-relative effects (e.g. a beat-synced
	// tremolo) without reading a real clock.
	Evaluate(in Value, beat Beats) Value

	// Clone returns an independent copy, including any internal DSP state,
	// for use when the owning Graph is cloned.
	Clone() ShaderEvaluator
}

// ShaderCompiler compiles shader source into an evaluator. An empty error
// slice indicates success.
type ShaderCompiler func(source string) (ShaderEvaluator, []string)

// BuiltinShaderCompiler resolves a tiny fixed set of names to hand-written
// evaluators: "passthrough", "gain:<factor>", and "reverb:<decay>:<delayMs>".
// It exists purely so this module can be exercised end-to-end without the
// out-of-scope real shader compiler; production wiring should pass its own
// ShaderCompiler into SetShader.
func BuiltinShaderCompiler(source string) (ShaderEvaluator, []string) {
	name, args, _ := strings.Cut(strings.TrimSpace(source), ":")
	switch name {
	case "", "passthrough":
		return passthroughEvaluator{}, nil
	case "gain":
		var factor float32
		if _, err := fmt.Sscanf(args, "%f", &factor); err != nil {
			return nil, []string{fmt.Sprintf("gain: invalid factor %q", args)}
		}
		return gainEvaluator{factor: factor}, nil
	case "reverb":
		var decay float32
		var delayMs int
		if _, err := fmt.Sscanf(args, "%f:%d", &decay, &delayMs); err != nil {
			return nil, []string{fmt.Sprintf("reverb: invalid args %q", args)}
		}
		return &reverbEvaluator{reverb: dsp.NewCombReverb(decay, delayMs, 48000)}, nil
	default:
		return nil, []string{fmt.Sprintf("unknown shader %q", name)}
	}
}

type passthroughEvaluator struct{}

func (passthroughEvaluator) Evaluate(in Value, _ Beats) Value { return in }
func (passthroughEvaluator) Clone() ShaderEvaluator           { return passthroughEvaluator{} }

type gainEvaluator struct{ factor float32 }

func (g gainEvaluator) Evaluate(in Value, _ Beats) Value {
	f, _ := in.Float()
	return FloatValue(f * g.factor)
}
func (g gainEvaluator) Clone() ShaderEvaluator { return g }

// reverbEvaluator wraps internal/dsp.CombReverb, the adapted form of the
// teacher's comb-filter reverb, as a builtin AudioShaderNode evaluator.
type reverbEvaluator struct {
	reverb *dsp.CombReverb
}

func (r *reverbEvaluator) Evaluate(in Value, _ Beats) Value {
	f, _ := in.Float()
	return FloatValue(r.reverb.Process(f))
}

func (r *reverbEvaluator) Clone() ShaderEvaluator {
	return &reverbEvaluator{reverb: r.reverb.Clone()}
}
