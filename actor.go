package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	clone "github.com/huandu/go-clone/generic"
)

// actorSnapshotThrottle is the ≥100ms gate spec.md §4.5 requires for the
// AddTrack/RemoveTrack/SetTrackColor cluster.
const actorSnapshotThrottle = 100 * time.Millisecond

// actorPollInterval bounds how long the actor's command-channel recv blocks,
// so it can reap a finished mix worker even with no commands arriving
// (spec.md §5).
const actorPollInterval = 10 * time.Millisecond

type actorRequest struct {
	cmd   Command
	reply chan Reply
}

// MixerActor is the single execution context that owns the authoritative
// Mixer plus the actor-owned node_positions/track_colors side tables, and
// serializes every mutation through its inbox channel (spec.md §4.5, §5).
type MixerActor struct {
	mixer *Mixer

	nodePositions map[TrackId]map[NodeId]NodePosition
	trackColors   map[TrackId]string
	needsMix      bool

	decoder Decoder
	worker  *mixWorker

	inbox     chan actorRequest
	snapshots chan MixerState

	lastThrottledSnapshot time.Time

	logger  *slog.Logger
	metrics *ActorMetrics
}

// NewMixerActor creates an actor over a fresh, default-configured Mixer
// (spec.md §6 defaults). decoder resolves AddRegion's SourcePath; a nil
// decoder leaves every buffer region silent. A nil logger falls back to
// slog.Default(); a nil metrics disables instrumentation (every method on
// *ActorMetrics tolerates a nil receiver).
func NewMixerActor(decoder Decoder, logger *slog.Logger, metrics *ActorMetrics) *MixerActor {
	if logger == nil {
		logger = slog.Default()
	}
	return &MixerActor{
		mixer:         NewMixer(),
		nodePositions: make(map[TrackId]map[NodeId]NodePosition),
		trackColors:   make(map[TrackId]string),
		decoder:       decoder,
		inbox:         make(chan actorRequest, 256),
		snapshots:     make(chan MixerState, 1),
		logger:        logger,
		metrics:       metrics,
	}
}

// NodePositionsSnapshot returns a deep copy of the actor's node-position
// side table. Unlike Mixer/Track/Graph/Node (whose Clone methods are
// hand-written because they may hold interface-valued DSP state, see
// graph.go), node_positions is a flat map[TrackId]map[NodeId]NodePosition
// with no interfaces in it anywhere, so huandu/go-clone's reflection-based
// clone.Clone is a safe and exact fit — and considerably less code than a
// hand-rolled nested-map copy.
func (a *MixerActor) NodePositionsSnapshot() map[TrackId]map[NodeId]NodePosition {
	return clone.Clone(a.nodePositions)
}

// TrackColorsSnapshot returns a deep copy of the actor's track-color side
// table, via the same huandu/go-clone path as NodePositionsSnapshot.
func (a *MixerActor) TrackColorsSnapshot() map[TrackId]string {
	return clone.Clone(a.trackColors)
}

// Snapshots returns the channel the actor publishes MixerState projections
// on. Only the latest snapshot is retained if a reader falls behind
// (spec.md §9: "state is projected, not diffed", so a dropped intermediate
// snapshot loses no information a subsequent one won't carry).
func (a *MixerActor) Snapshots() <-chan MixerState {
	return a.snapshots
}

// repliesFor reports whether cmd declares a direct reply in spec.md §4.5's
// command table (as opposed to "snapshot" or no result at all).
func repliesFor(cmd Command) bool {
	switch cmd.(type) {
	case GetInputNodeCmd, GetOutputNodeCmd, DoesNeedMixCmd, SetAudioShaderCmd:
		return true
	default:
		return false
	}
}

// Submit enqueues cmd and, for commands that declare a reply, blocks until
// the actor produces one. The reply channel is buffered so the actor's send
// never blocks even if Submit's caller has already moved on (spec.md §5:
// "Reply channels are sized so no write can block a producer").
func (a *MixerActor) Submit(cmd Command) Reply {
	req := actorRequest{cmd: cmd}
	if repliesFor(cmd) {
		req.reply = make(chan Reply, 1)
	}
	a.inbox <- req
	if req.reply == nil {
		return nil
	}
	return <-req.reply
}

// Run drains the inbox until ctx is cancelled or the inbox is closed,
// reaping finished mix workers on a short poll interval in between
// (spec.md §5: "mixer actor thread ... blocks on the command channel with a
// short (≤10ms) timeout so it can reap finished mix workers").
func (a *MixerActor) Run(ctx context.Context) {
	ticker := time.NewTicker(actorPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.shutdown()
			return
		case req, ok := <-a.inbox:
			if !ok {
				a.logger.Error("inbox closed, shutting down")
				a.shutdown()
				return
			}
			a.metrics.setQueueDepth(len(a.inbox))
			a.handle(req)
		case <-ticker.C:
			a.reapWorker()
		}
	}
}

// shutdown implements spec.md §7's "channel disconnected" taxonomy entry:
// stop any in-flight mix worker and return without panicking.
func (a *MixerActor) shutdown() {
	if a.worker != nil {
		a.worker.requestStop()
		a.worker.join()
		a.worker = nil
	}
}

func (a *MixerActor) handle(req actorRequest) {
	cmd := req.cmd
	a.metrics.observeCommand(cmd.commandKind())

	var reply Reply
	switch c := cmd.(type) {
	case AddTrackCmd:
		a.handleAddTrack(c)
	case RemoveTrackCmd:
		a.handleRemoveTrack(c)
	case SetTrackColorCmd:
		a.handleSetTrackColor(c)
	case AddRegionCmd:
		a.handleAddRegion(c)
	case RemoveRegionCmd:
		a.handleRemoveRegion(c)
	case ApplyRegionOpCmd:
		a.handleApplyRegionOp(c)
	case ConnectGraphCmd:
		a.handleConnectGraph(c)
	case DisconnectGraphCmd:
		a.handleDisconnectGraph(c)
	case AddNodeCmd:
		a.handleAddNode(c)
	case RemoveNodeCmd:
		a.handleRemoveNode(c)
	case MoveNodeCmd:
		a.handleMoveNode(c)
	case SetInputPropertiesCmd:
		a.handleSetInputProperties(c)
	case SetAudioShaderCmd:
		reply = a.handleSetAudioShader(c)
	case GetInputNodeCmd:
		reply = a.handleGetInputNode(c)
	case GetOutputNodeCmd:
		reply = a.handleGetOutputNode(c)
	case DoesNeedMixCmd:
		reply = NeedsMixReply{Needed: a.needsMix}
	case MixCmd:
		a.handleMix(c)
	case StopMixingCmd:
		a.handleStopMixing()
	default:
		a.logger.Error("unknown command", "kind", cmd.commandKind())
	}

	if req.reply != nil {
		req.reply <- reply
	}
}

func (a *MixerActor) handleAddTrack(c AddTrackCmd) {
	id := a.mixer.NextTrackID()
	channels := c.Data.Channels
	if channels <= 0 {
		channels = 2
	}
	var t Track
	switch c.Data.Type {
	case TrackNote:
		t = NewNoteTrack(id, c.Data.Name, channels)
	default:
		t = NewBufferTrack(id, c.Data.Name, channels)
	}
	a.mixer.AddTrack(t)
	a.setNeedsMix(true)
	a.emitSnapshot(highFrequency(c))
}

func (a *MixerActor) handleRemoveTrack(c RemoveTrackCmd) {
	_, existed := a.mixer.Track(c.Track)
	a.mixer.RemoveTrack(c.Track)
	delete(a.nodePositions, c.Track)
	delete(a.trackColors, c.Track)
	if existed {
		a.setNeedsMix(true)
	}
	a.emitSnapshot(highFrequency(c))
}

func (a *MixerActor) handleSetTrackColor(c SetTrackColorCmd) {
	if _, ok := a.mixer.Track(c.Track); !ok {
		a.logger.Warn("SetTrackColor: unknown track", "track", c.Track)
		a.emitSnapshot(highFrequency(c))
		return
	}
	a.trackColors[c.Track] = c.Color
	a.emitSnapshot(highFrequency(c))
}

func (a *MixerActor) handleAddRegion(c AddRegionCmd) {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("AddRegion: unknown track", "track", c.Track, "error", ErrTrackNotFound)
		a.emitSnapshot(false)
		return
	}

	id := t.ReserveRegionID()
	var region Region
	switch t.Type() {
	case TrackNote:
		region = NewNoteRegion(id, c.Data.Name, c.Data.StartTime, c.Data.Duration)
	default:
		br := NewBufferRegion(id, c.Data.Name, c.Data.StartTime, c.Data.Duration)
		if c.Data.SourcePath != "" && a.decoder != nil {
			buf, err := a.decoder.Decode(c.Data.SourcePath, int(c.Track))
			if err != nil {
				// spec.md §7 taxonomy 4: decode failure leaves the region's
				// audio source unset (silence), logged, not surfaced as an error.
				a.logger.Warn("AddRegion: decode failed, region left silent", "path", c.Data.SourcePath, "error", err)
			} else {
				br.SetAudioSource(buf, SamplesPerBeat(a.mixer.Tempo, buf.SampleRate))
			}
		}
		region = br
	}

	if err := t.AddRegion(region); err != nil {
		a.logger.Warn("AddRegion: rejected", "track", c.Track, "error", err)
	} else {
		a.setNeedsMix(true)
	}
	a.emitSnapshot(false)
}

func (a *MixerActor) handleRemoveRegion(c RemoveRegionCmd) {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("RemoveRegion: unknown track", "track", c.Track)
		a.emitSnapshot(false)
		return
	}
	_, existed := t.Region(c.Region)
	t.RemoveRegion(c.Region)
	if existed {
		a.setNeedsMix(true)
	}
	a.emitSnapshot(false)
}

func (a *MixerActor) handleApplyRegionOp(c ApplyRegionOpCmd) {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("ApplyRegionOp: unknown track", "track", c.Track)
		a.emitSnapshot(false)
		return
	}
	region, ok := t.Region(c.Region)
	if !ok {
		a.logger.Warn("ApplyRegionOp: unknown region", "track", c.Track, "region", c.Region, "error", ErrRegionNotFound)
		a.emitSnapshot(false)
		return
	}

	if err := applyRegionOp(region, c.Op); err != nil {
		a.logger.Warn("ApplyRegionOp: rejected", "track", c.Track, "region", c.Region, "error", err)
	} else {
		a.setNeedsMix(true)
	}
	a.emitSnapshot(false)
}

// applyRegionOp dispatches a single RegionOp against region under the
// per-track lock the actor already holds by virtue of being single-
// threaded (spec.md §4.2).
func applyRegionOp(region Region, op RegionOp) error {
	switch op.Kind {
	case OpSetStartTime:
		region.SetStartTime(op.Beats)
	case OpSetDuration:
		region.SetDuration(op.Beats)
	case OpSetName:
		region.SetName(op.Name)
	case OpScale:
		region.Scale(op.Factor)
	case OpAddNote, OpRemoveNote, OpModifyNote:
		nr, ok := region.(*NoteRegion)
		if !ok {
			return fmt.Errorf("%w: note op on non-note region", ErrWrongRegionType)
		}
		switch op.Kind {
		case OpAddNote:
			nr.AddNote(op.Pitch, op.Velocity, op.StartBeat, op.NoteDuration)
		case OpRemoveNote:
			nr.RemoveNote(op.NoteID)
		case OpModifyNote:
			nr.ModifyNote(op.NoteID, op.Pitch, op.Velocity, op.StartBeat, op.NoteDuration)
		}
	default:
		return fmt.Errorf("unknown region op kind %d", op.Kind)
	}
	return nil
}

func (a *MixerActor) handleConnectGraph(c ConnectGraphCmd) {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("ConnectGraph: unknown track", "track", c.Track)
		a.emitSnapshot(false)
		return
	}
	if err := t.Graph().Connect(c.From, c.FromPort, c.To, c.ToPort); err != nil {
		a.logger.Warn("ConnectGraph: rejected", "track", c.Track, "error", err)
	} else {
		a.setNeedsMix(true)
	}
	a.emitSnapshot(false)
}

func (a *MixerActor) handleDisconnectGraph(c DisconnectGraphCmd) {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("DisconnectGraph: unknown track", "track", c.Track)
		a.emitSnapshot(false)
		return
	}
	before := len(t.Graph().Connectors())
	t.Graph().Disconnect(c.From, c.FromPort, c.To, c.ToPort)
	if len(t.Graph().Connectors()) < before {
		a.setNeedsMix(true)
	}
	a.emitSnapshot(false)
}

func (a *MixerActor) handleAddNode(c AddNodeCmd) {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("AddNode: unknown track", "track", c.Track)
		a.emitSnapshot(false)
		return
	}
	node := newNodeFromKind(c.Kind)
	t.Graph().AddNode(node)
	if a.nodePositions[c.Track] == nil {
		a.nodePositions[c.Track] = make(map[NodeId]NodePosition)
	}
	a.nodePositions[c.Track][node.ID()] = c.Position
	a.setNeedsMix(true)
	a.emitSnapshot(false)
}

func (a *MixerActor) handleRemoveNode(c RemoveNodeCmd) {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("RemoveNode: unknown track", "track", c.Track)
		a.emitSnapshot(false)
		return
	}
	if err := t.Graph().RemoveNode(c.Node); err != nil {
		a.logger.Warn("RemoveNode: rejected", "track", c.Track, "node", c.Node, "error", err)
		a.emitSnapshot(false)
		return
	}
	delete(a.nodePositions[c.Track], c.Node)
	a.setNeedsMix(true)
	a.emitSnapshot(false)
}

func (a *MixerActor) handleMoveNode(c MoveNodeCmd) {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("MoveNode: unknown track", "track", c.Track)
		a.emitSnapshot(false)
		return
	}
	if _, ok := t.Graph().Node(c.Node); !ok {
		a.logger.Warn("MoveNode: unknown node", "track", c.Track, "node", c.Node)
		a.emitSnapshot(false)
		return
	}
	if a.nodePositions[c.Track] == nil {
		a.nodePositions[c.Track] = make(map[NodeId]NodePosition)
	}
	a.nodePositions[c.Track][c.Node] = c.Position
	a.emitSnapshot(false)
}

func (a *MixerActor) handleSetInputProperties(c SetInputPropertiesCmd) {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("SetInputProperties: unknown track", "track", c.Track)
		a.emitSnapshot(false)
		return
	}
	node, ok := t.Graph().Node(c.Node)
	if !ok {
		a.logger.Warn("SetInputProperties: unknown node", "track", c.Track, "node", c.Node)
		a.emitSnapshot(false)
		return
	}
	node.SetInput(c.Key, c.Value)
	a.setNeedsMix(true)
	a.emitSnapshot(false)
}

func (a *MixerActor) handleSetAudioShader(c SetAudioShaderCmd) Reply {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		a.logger.Warn("SetAudioShader: unknown track", "track", c.Track)
		a.emitSnapshot(false)
		return ShaderErrorsReply{Errors: []string{ErrTrackNotFound.Error()}}
	}
	node, ok := t.Graph().Node(c.Node)
	if !ok {
		a.logger.Warn("SetAudioShader: unknown node", "track", c.Track, "node", c.Node)
		a.emitSnapshot(false)
		return ShaderErrorsReply{Errors: []string{ErrNodeNotFound.Error()}}
	}
	shader, ok := node.(*AudioShaderNode)
	if !ok {
		a.logger.Warn("SetAudioShader: not a shader node", "track", c.Track, "node", c.Node)
		a.emitSnapshot(false)
		return ShaderErrorsReply{Errors: []string{ErrNotShaderNode.Error()}}
	}

	errs := shader.SetShader(c.Source, BuiltinShaderCompiler)
	if len(errs) == 0 {
		a.setNeedsMix(true)
	} else {
		a.logger.Warn("SetAudioShader: compile failed", "track", c.Track, "node", c.Node, "errors", errs)
	}
	a.emitSnapshot(false)
	return ShaderErrorsReply{Errors: errs}
}

func (a *MixerActor) handleGetInputNode(c GetInputNodeCmd) Reply {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		return NodeIDReply{}
	}
	return NodeIDReply{ID: t.Graph().InputNode()}
}

func (a *MixerActor) handleGetOutputNode(c GetOutputNodeCmd) Reply {
	t, ok := a.mixer.Track(c.Track)
	if !ok {
		return NodeIDReply{}
	}
	return NodeIDReply{ID: t.Graph().OutputNode()}
}

func (a *MixerActor) handleMix(c MixCmd) {
	if err := a.mixer.Prepare(); err != nil {
		// spec.md §7 taxonomy 3: command is a no-op, worker does not start.
		a.logger.Warn("Mix: prepare failed, not mixing", "error", err)
		return
	}

	if a.worker != nil {
		a.worker.requestStop()
		a.worker.join()
		a.metrics.observeMixPreempted()
		a.worker = nil
	}

	a.worker = startMixWorker(a.mixer, c.At, c.Callback)
	a.metrics.observeMixStarted()
}

func (a *MixerActor) handleStopMixing() {
	if a.worker != nil {
		a.worker.requestStop()
	}
}

// reapWorker reclaims a finished mix worker's resources and, per spec.md
// §4.5, clears needs_mix only if the pass ran to natural completion (the
// stop flag was never set) rather than being cancelled or pre-empted.
func (a *MixerActor) reapWorker() {
	if a.worker == nil || !a.worker.finished() {
		return
	}
	if !a.worker.stop.Stopped() {
		a.setNeedsMix(false)
	}
	a.worker = nil
}

func (a *MixerActor) setNeedsMix(needed bool) {
	a.needsMix = needed
	a.metrics.setNeedsMix(needed)
}

// emitSnapshot projects and publishes the current state. highFreq commands
// are throttled to at most once per actorSnapshotThrottle; everything else
// emits unconditionally (spec.md §4.5).
func (a *MixerActor) emitSnapshot(highFreq bool) {
	if highFreq {
		now := time.Now()
		if now.Sub(a.lastThrottledSnapshot) < actorSnapshotThrottle {
			return
		}
		a.lastThrottledSnapshot = now
	}

	state := BuildMixerState(a.mixer, a.nodePositions, a.trackColors)
	a.metrics.observeSnapshot(highFreq)

	select {
	case a.snapshots <- state:
	default:
		select {
		case <-a.snapshots:
		default:
		}
		select {
		case a.snapshots <- state:
		default:
		}
	}
}
