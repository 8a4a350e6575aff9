// daw-dump builds a small demo project through the mixer actor's command
// API and prints its MixerState JSON snapshot to stdout, the engine
// equivalent of the teacher's moddump (which dumped a parsed MOD/S3M song
// instead of a constructed mixer project).
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	engine "github.com/knodiq/engine"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("daw-dump: ")

	actor := engine.NewMixerActor(nil, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go actor.Run(ctx)

	actor.Submit(engine.AddTrack(engine.TrackSpec{Name: "Drums", Channels: 2, Type: engine.TrackBuffer}))
	reply := actor.Submit(engine.GetOutputNode(0))
	outNode, ok := reply.(engine.NodeIDReply)
	if !ok {
		log.Fatal("GetOutputNode returned an unexpected reply type")
	}

	shaderPos := engine.NodePosition{X: 120, Y: 40}
	actor.Submit(engine.AddNode(0, engine.NodeKindAudioShader, shaderPos))

	actor.Submit(engine.AddRegion(engine.RegionSpec{
		Name:      "Intro",
		StartTime: 0,
		Duration:  4,
	}, 0))

	actor.Submit(engine.AddTrack(engine.TrackSpec{Name: "Lead", Channels: 1, Type: engine.TrackNote}))
	actor.Submit(engine.AddNoteToRegion(1, mustAddNoteRegion(actor), 60, 100, 0, 1))

	_ = outNode // demo only: GetOutputNode reply is fetched to mirror a real client's discovery flow

	state := <-actor.Snapshots()

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(state); err != nil {
		log.Fatal(err)
	}
}

// mustAddNoteRegion adds an empty note region to track 1 and returns its id,
// so the demo has somewhere to attach a note.
func mustAddNoteRegion(actor *engine.MixerActor) engine.RegionId {
	actor.Submit(engine.AddRegion(engine.RegionSpec{Name: "Melody", StartTime: 0, Duration: 4}, 1))
	state := <-actor.Snapshots()
	for _, t := range state.Tracks {
		if t.ID != 1 {
			continue
		}
		for _, r := range t.Regions {
			return r.ID
		}
	}
	return 0
}
