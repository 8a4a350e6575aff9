package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMixerStateProjectsTracksAndTempo(t *testing.T) {
	m := NewMixer()
	tr := NewBufferTrack(m.NextTrackID(), "drums", 2)
	assert.NoError(t, tr.AddRegion(NewBufferRegion(tr.ReserveRegionID(), "clip", 0, 4)))
	m.AddTrack(tr)

	state := BuildMixerState(m, nil, map[TrackId]string{tr.ID(): "#ff0000"})

	assert.Equal(t, m.Tempo, state.BPM)
	assert.Equal(t, m.SamplesPerBeat(), state.SamplesPerBeat)
	assert.Len(t, state.Tracks, 1)
	assert.Equal(t, "drums", state.Tracks[0].Name)
	assert.Equal(t, "#ff0000", state.Tracks[0].Color)
	assert.Equal(t, "BufferTrack", state.Tracks[0].Type)
	assert.Len(t, state.Tracks[0].Regions, 1)
	assert.Equal(t, "buffer", state.Tracks[0].Regions[0].Data.Kind)
}

func TestBuildMixerStateProjectsNoteRegionNotes(t *testing.T) {
	m := NewMixer()
	tr := NewNoteTrack(m.NextTrackID(), "lead", 1)
	r := NewNoteRegion(tr.ReserveRegionID(), "melody", 0, 4)
	r.AddNote(60, 100, 0, 1)
	assert.NoError(t, tr.AddRegion(r))
	m.AddTrack(tr)

	state := BuildMixerState(m, nil, nil)
	region := state.Tracks[0].Regions[0]
	assert.Equal(t, "note", region.Data.Kind)
	assert.Len(t, region.Data.Notes, 1)
	assert.Equal(t, uint8(60), region.Data.Notes[0].Pitch)
}

func TestBuildMixerStateIncludesNodePositions(t *testing.T) {
	m := NewMixer()
	tr := NewBufferTrack(m.NextTrackID(), "drums", 2)
	m.AddTrack(tr)

	inputID := tr.Graph().InputNode()
	positions := map[TrackId]map[NodeId]NodePosition{
		tr.ID(): {inputID: {X: 10, Y: 20}},
	}

	state := BuildMixerState(m, positions, nil)
	assert.Len(t, state.NodePositions, 1)
	assert.Equal(t, tr.ID(), state.NodePositions[0].TrackID)
	assert.Len(t, state.NodePositions[0].Positions, 1)
	assert.Equal(t, inputID.String(), state.NodePositions[0].Positions[0].NodeID)
	assert.Equal(t, NodePosition{X: 10, Y: 20}, state.NodePositions[0].Positions[0].Position)
}

func TestBuildMixerStateProjectsGraphShape(t *testing.T) {
	m := NewMixer()
	tr := NewBufferTrack(m.NextTrackID(), "drums", 2)
	m.AddTrack(tr)

	state := BuildMixerState(m, nil, nil)
	gs := state.Tracks[0].Graph
	assert.Equal(t, tr.Graph().InputNode().String(), gs.InputNode)
	assert.Equal(t, tr.Graph().OutputNode().String(), gs.OutputNode)
	assert.Len(t, gs.Nodes, 2)
	assert.Len(t, gs.Connections, 1)
}

func TestBuildMixerStateClassifiesAudioShaderNodeData(t *testing.T) {
	m := NewMixer()
	tr := NewBufferTrack(m.NextTrackID(), "drums", 2)
	shader := NewAudioShaderNode()
	shader.SetShader("gain:2", BuiltinShaderCompiler)
	tr.Graph().AddNode(shader)
	m.AddTrack(tr)

	state := BuildMixerState(m, nil, nil)
	var found bool
	for _, n := range state.Tracks[0].Graph.Nodes {
		if n.ID == shader.ID().String() {
			found = true
			assert.Equal(t, "AudioShader", n.Data.Kind)
			assert.Equal(t, "gain:2", n.Data.ShaderCode)
		}
	}
	assert.True(t, found)
}
