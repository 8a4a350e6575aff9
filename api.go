package engine

// This file is the external command API surface: one thin constructor per
// spec.md §6 contractual name, each producing the Command a MixerActor.Submit
// call expects. Grounded on original_source/src-tauri/src/api/{mixing,graph,
// region}/*.rs's #[tauri::command] functions, stripped of the Tauri
// transport layer (spec.md §1 excludes "command transport" from scope).

func PlayAudio(at Beats, cb MixCallback) Command { return MixCmd{At: at, Callback: cb} }
func PauseAudio() Command                        { return StopMixingCmd{} }

func AddTrack(data TrackSpec) Command            { return AddTrackCmd{Data: data} }
func RemoveTrack(id TrackId) Command             { return RemoveTrackCmd{Track: id} }
func SetTrackColor(id TrackId, color string) Command {
	return SetTrackColorCmd{Track: id, Color: color}
}

func AddRegion(data RegionSpec, trackID TrackId) Command {
	return AddRegionCmd{Track: trackID, Data: data}
}
func RemoveRegion(trackID TrackId, regionID RegionId) Command {
	return RemoveRegionCmd{Track: trackID, Region: regionID}
}
func MoveRegion(trackID TrackId, regionID RegionId, newBeats Beats) Command {
	return ApplyRegionOpCmd{Track: trackID, Region: regionID, Op: RegionOp{Kind: OpSetStartTime, Beats: newBeats}}
}
func SetDuration(trackID TrackId, regionID RegionId, d Beats) Command {
	return ApplyRegionOpCmd{Track: trackID, Region: regionID, Op: RegionOp{Kind: OpSetDuration, Beats: d}}
}
func SetRegionName(trackID TrackId, regionID RegionId, name string) Command {
	return ApplyRegionOpCmd{Track: trackID, Region: regionID, Op: RegionOp{Kind: OpSetName, Name: name}}
}
func ScaleRegion(trackID TrackId, regionID RegionId, factor float64) Command {
	return ApplyRegionOpCmd{Track: trackID, Region: regionID, Op: RegionOp{Kind: OpScale, Factor: factor}}
}
func AddNoteToRegion(trackID TrackId, regionID RegionId, pitch, velocity uint8, startBeat, duration Beats) Command {
	return ApplyRegionOpCmd{Track: trackID, Region: regionID, Op: RegionOp{
		Kind: OpAddNote, Pitch: pitch, Velocity: velocity, StartBeat: startBeat, NoteDuration: duration,
	}}
}
func RemoveNoteFromRegion(trackID TrackId, regionID RegionId, noteID NoteId) Command {
	return ApplyRegionOpCmd{Track: trackID, Region: regionID, Op: RegionOp{Kind: OpRemoveNote, NoteID: noteID}}
}
func ModifyNoteInRegion(trackID TrackId, regionID RegionId, noteID NoteId, pitch, velocity uint8, startBeat, duration Beats) Command {
	return ApplyRegionOpCmd{Track: trackID, Region: regionID, Op: RegionOp{
		Kind: OpModifyNote, NoteID: noteID, Pitch: pitch, Velocity: velocity, StartBeat: startBeat, NoteDuration: duration,
	}}
}

func ConnectGraph(trackID TrackId, from NodeId, fromPort string, to NodeId, toPort string) Command {
	return ConnectGraphCmd{Track: trackID, From: from, FromPort: fromPort, To: to, ToPort: toPort}
}
func DisconnectGraph(trackID TrackId, from NodeId, fromPort string, to NodeId, toPort string) Command {
	return DisconnectGraphCmd{Track: trackID, From: from, FromPort: fromPort, To: to, ToPort: toPort}
}
func AddNode(trackID TrackId, nodeType NodeKind, pos NodePosition) Command {
	return AddNodeCmd{Track: trackID, Kind: nodeType, Position: pos}
}
func RemoveNode(trackID TrackId, nodeID NodeId) Command {
	return RemoveNodeCmd{Track: trackID, Node: nodeID}
}
func MoveNode(trackID TrackId, nodeID NodeId, pos NodePosition) Command {
	return MoveNodeCmd{Track: trackID, Node: nodeID, Position: pos}
}
func SetInputProperties(trackID TrackId, nodeID NodeId, key string, value Value) Command {
	return SetInputPropertiesCmd{Track: trackID, Node: nodeID, Key: key, Value: value}
}
func GetInputNodes(trackID TrackId) Command { return GetInputNodeCmd{Track: trackID} }
func GetOutputNode(trackID TrackId) Command { return GetOutputNodeCmd{Track: trackID} }
func SetAudioShader(trackID TrackId, nodeID NodeId, src string) Command {
	return SetAudioShaderCmd{Track: trackID, Node: nodeID, Source: src}
}
