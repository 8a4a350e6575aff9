package engine

// TrackSpec describes a track to be created by AddTrackCmd.
type TrackSpec struct {
	Name     string
	Channels int
	Type     TrackType
}

// RegionSpec describes a region to be created by AddRegionCmd. The region's
// concrete type (BufferRegion vs NoteRegion) is determined by the target
// track's type, not by RegionSpec itself. For a Buffer region, SourcePath
// names a file for the actor to hand to a Decoder (spec.md §4.5: "buffer:
// empty then async-bind source"); a NoteRegion ignores SourcePath and
// starts with no notes.
type RegionSpec struct {
	Name       string
	StartTime  Beats
	Duration   Beats
	SourcePath string
}

// NodeKind enumerates the node types creatable via AddNodeCmd. BufferInput,
// BufferOutput are fixed nodes created alongside a track's graph and are
// never separately addable.
type NodeKind int

const (
	NodeKindEmpty NodeKind = iota
	NodeKindAudioShader
	NodeKindNoteInput
)

func newNodeFromKind(kind NodeKind) Node {
	switch kind {
	case NodeKindAudioShader:
		return NewAudioShaderNode()
	case NodeKindNoteInput:
		return NewNoteInputNode()
	default:
		return NewEmptyNode()
	}
}

// RegionOp is a tagged sum over the operations ApplyRegionOpCmd can carry,
// mirroring original_source's RegionOperation enum (spec.md §4.2).
type RegionOp struct {
	Kind RegionOpKind

	// SetStartTime, SetDuration
	Beats Beats
	// SetName
	Name string
	// Scale
	Factor float64
	// AddNote, ModifyNote
	Pitch, Velocity uint8
	StartBeat       Beats
	NoteDuration    Beats
	// RemoveNote, ModifyNote
	NoteID NoteId
}

type RegionOpKind int

const (
	OpSetStartTime RegionOpKind = iota
	OpSetDuration
	OpSetName
	OpScale
	OpAddNote
	OpRemoveNote
	OpModifyNote
)

// Command is the sealed set of mutations and queries the mixer actor
// accepts, one struct per row of spec.md §4.5's command table. Every
// concrete type implements commandKind for logging/metrics labeling.
type Command interface {
	commandKind() string
}

type AddTrackCmd struct{ Data TrackSpec }
type RemoveTrackCmd struct{ Track TrackId }
type SetTrackColorCmd struct {
	Track TrackId
	Color string
}
type AddRegionCmd struct {
	Track TrackId
	Data  RegionSpec
}
type RemoveRegionCmd struct {
	Track  TrackId
	Region RegionId
}
type ApplyRegionOpCmd struct {
	Track  TrackId
	Region RegionId
	Op     RegionOp
}
type ConnectGraphCmd struct {
	Track                     TrackId
	From                      NodeId
	FromPort                  string
	To                        NodeId
	ToPort                    string
}
type DisconnectGraphCmd struct {
	Track                     TrackId
	From                      NodeId
	FromPort                  string
	To                        NodeId
	ToPort                    string
}
type AddNodeCmd struct {
	Track    TrackId
	Kind     NodeKind
	Position NodePosition
}
type RemoveNodeCmd struct {
	Track TrackId
	Node  NodeId
}
type MoveNodeCmd struct {
	Track    TrackId
	Node     NodeId
	Position NodePosition
}
type SetInputPropertiesCmd struct {
	Track TrackId
	Node  NodeId
	Key   string
	Value Value
}
type SetAudioShaderCmd struct {
	Track  TrackId
	Node   NodeId
	Source string
}
type GetInputNodeCmd struct{ Track TrackId }
type GetOutputNodeCmd struct{ Track TrackId }
type DoesNeedMixCmd struct{}
type MixCmd struct {
	At       Beats
	Callback MixCallback
}
type StopMixingCmd struct{}

func (AddTrackCmd) commandKind() string           { return "AddTrack" }
func (RemoveTrackCmd) commandKind() string        { return "RemoveTrack" }
func (SetTrackColorCmd) commandKind() string      { return "SetTrackColor" }
func (AddRegionCmd) commandKind() string          { return "AddRegion" }
func (RemoveRegionCmd) commandKind() string       { return "RemoveRegion" }
func (ApplyRegionOpCmd) commandKind() string      { return "ApplyRegionOp" }
func (ConnectGraphCmd) commandKind() string       { return "ConnectGraph" }
func (DisconnectGraphCmd) commandKind() string    { return "DisconnectGraph" }
func (AddNodeCmd) commandKind() string            { return "AddNode" }
func (RemoveNodeCmd) commandKind() string         { return "RemoveNode" }
func (MoveNodeCmd) commandKind() string           { return "MoveNode" }
func (SetInputPropertiesCmd) commandKind() string { return "SetInputProperties" }
func (SetAudioShaderCmd) commandKind() string     { return "SetAudioShader" }
func (GetInputNodeCmd) commandKind() string       { return "GetInputNode" }
func (GetOutputNodeCmd) commandKind() string      { return "GetOutputNode" }
func (DoesNeedMixCmd) commandKind() string        { return "DoesNeedMix" }
func (MixCmd) commandKind() string                { return "Mix" }
func (StopMixingCmd) commandKind() string         { return "StopMixing" }

// highFrequency reports whether cmd belongs to spec.md §4.5's throttled
// snapshot-emission cluster (AddTrack/RemoveTrack/SetTrackColor).
func highFrequency(cmd Command) bool {
	switch cmd.(type) {
	case AddTrackCmd, RemoveTrackCmd, SetTrackColorCmd:
		return true
	default:
		return false
	}
}

// Reply is the sealed set of direct command replies (spec.md §4.5's
// "Result" column entries other than "snapshot").
type Reply interface {
	isReply()
}

type NodeIDReply struct{ ID NodeId }
type NeedsMixReply struct{ Needed bool }
type ShaderErrorsReply struct{ Errors []string }

func (NodeIDReply) isReply()        {}
func (NeedsMixReply) isReply()      {}
func (ShaderErrorsReply) isReply()  {}
