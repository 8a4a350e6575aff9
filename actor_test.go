package engine

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func parseNodeID(t *testing.T, s string) NodeId {
	t.Helper()
	id, err := uuid.Parse(s)
	assert.NoError(t, err)
	return NodeId(id)
}

func newRunningActor(t *testing.T) (*MixerActor, context.CancelFunc) {
	t.Helper()
	actor := NewMixerActor(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go actor.Run(ctx)
	return actor, cancel
}

func awaitSnapshot(t *testing.T, actor *MixerActor) MixerState {
	t.Helper()
	select {
	case s := <-actor.Snapshots():
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a snapshot")
		return MixerState{}
	}
}

func TestActorAddTrackEmitsSnapshotAndSetsNeedsMix(t *testing.T) {
	actor, cancel := newRunningActor(t)
	defer cancel()

	actor.Submit(AddTrack(TrackSpec{Name: "drums", Channels: 2}))
	state := awaitSnapshot(t, actor)
	assert.Len(t, state.Tracks, 1)
	assert.Equal(t, "drums", state.Tracks[0].Name)

	reply := actor.Submit(DoesNeedMixCmd{})
	assert.Equal(t, NeedsMixReply{Needed: true}, reply)
}

func TestActorSetTrackColorOnUnknownTrackIsNoop(t *testing.T) {
	actor, cancel := newRunningActor(t)
	defer cancel()

	actor.Submit(SetTrackColor(TrackId(999), "#fff"))
	awaitSnapshot(t, actor)
	assert.Empty(t, actor.TrackColorsSnapshot())
}

func TestActorSetTrackColorAppliesOnKnownTrack(t *testing.T) {
	actor, cancel := newRunningActor(t)
	defer cancel()

	actor.Submit(AddTrack(TrackSpec{Name: "a", Channels: 1}))
	state := awaitSnapshot(t, actor)
	trackID := state.Tracks[0].ID

	// SetTrackColor shares AddTrack's throttle window; wait it out so the
	// color change is emitted rather than suppressed.
	time.Sleep(actorSnapshotThrottle)
	actor.Submit(SetTrackColor(trackID, "#111"))
	colored := awaitSnapshot(t, actor)
	assert.Equal(t, "#111", colored.Tracks[0].Color)
}

func TestActorGetOutputNodeRepliesWithNodeID(t *testing.T) {
	actor, cancel := newRunningActor(t)
	defer cancel()

	actor.Submit(AddTrack(TrackSpec{Name: "bus", Channels: 2}))
	state := awaitSnapshot(t, actor)
	assert.Len(t, state.Tracks, 1)
	trackID := state.Tracks[0].ID

	reply := actor.Submit(GetOutputNode(trackID))
	nodeReply, ok := reply.(NodeIDReply)
	assert.True(t, ok)
	assert.NotEqual(t, NodeId{}, nodeReply.ID)
}

func TestActorSetAudioShaderRepliesWithErrorsOnBadSource(t *testing.T) {
	actor, cancel := newRunningActor(t)
	defer cancel()

	actor.Submit(AddTrack(TrackSpec{Name: "bus", Channels: 1}))
	state := awaitSnapshot(t, actor)
	trackID := state.Tracks[0].ID

	addReply := actor.Submit(AddNode(trackID, NodeKindAudioShader, NodePosition{}))
	_ = addReply // AddNode has no reply; discover the node via the next snapshot instead
	withNode := awaitSnapshot(t, actor)

	var shaderNodeID string
	for _, n := range withNode.Tracks[0].Graph.Nodes {
		if n.Type == "AudioShaderNode" {
			shaderNodeID = n.ID
		}
	}
	assert.NotEmpty(t, shaderNodeID)

	reply := actor.Submit(SetAudioShader(trackID, parseNodeID(t, shaderNodeID), "nonsense(("))
	errReply, ok := reply.(ShaderErrorsReply)
	assert.True(t, ok)
	assert.NotEmpty(t, errReply.Errors)
}

func TestActorNodePositionsSnapshotIsIndependent(t *testing.T) {
	actor, cancel := newRunningActor(t)
	defer cancel()

	actor.Submit(AddTrack(TrackSpec{Name: "bus", Channels: 2}))
	state := awaitSnapshot(t, actor)
	trackID := state.Tracks[0].ID

	pos := NodePosition{X: 3, Y: 4}
	actor.Submit(AddNode(trackID, NodeKindEmpty, pos))
	awaitSnapshot(t, actor)

	snap1 := actor.NodePositionsSnapshot()
	for track := range snap1 {
		for node := range snap1[track] {
			snap1[track][node] = NodePosition{X: -1, Y: -1}
		}
	}
	snap2 := actor.NodePositionsSnapshot()
	for _, positions := range snap2[trackID] {
		assert.NotEqual(t, NodePosition{X: -1, Y: -1}, positions)
	}
}

func TestActorShutdownStopsInFlightWorker(t *testing.T) {
	actor := NewMixerActor(nil, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	go actor.Run(ctx)

	actor.Submit(AddTrack(TrackSpec{Name: "bus", Channels: 1}))
	awaitSnapshot(t, actor)

	block := make(chan struct{})
	actor.Submit(PlayAudio(0, func(Sample, Beats) bool {
		<-block
		return true
	}))

	cancel()
	close(block)
	time.Sleep(50 * time.Millisecond) // Run's shutdown path must not panic or hang
}
