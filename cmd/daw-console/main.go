// daw-console is a terminal transport for the engine: it wires a
// MixerActor's command API to a PortAudio output stream and a keyboard
// listener, the engine equivalent of the teacher's modplay (which did the
// same for a parsed MOD song instead of a constructed mixer project).
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
	"github.com/fatih/color"
	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	engine "github.com/knodiq/engine"
)

const (
	escape     = "\x1b["
	hideCursor = escape + "?25l"
	showCursor = escape + "?25h"

	outputChannels = 2
	sinkCapacity   = 4096
)

var (
	white  = color.New(color.FgWhite).SprintfFunc()
	cyan   = color.New(color.FgCyan).SprintfFunc()
	green  = color.New(color.FgGreen).SprintfFunc()
	yellow = color.New(color.FgYellow).SprintfFunc()
)

// console couples a MixerActor to a PortAudio output stream, draining a
// ChannelSink the mix worker's callback writes into.
type console struct {
	actor *engine.MixerActor
	sink  *engine.ChannelSink
	track engine.TrackId

	wavPath   string
	startBeat float64

	stream *portaudio.Stream

	ctx      context.Context
	cancelFn context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once

	playing bool
}

func newConsole(wavPath string, startBeat float64) *console {
	ctx, cancel := context.WithCancel(context.Background())
	return &console{
		actor:     engine.NewMixerActor(engine.WAVDecoder{}, nil, nil),
		sink:      engine.NewChannelSink(sinkCapacity),
		wavPath:   wavPath,
		startBeat: startBeat,
		ctx:       ctx,
		cancelFn:  cancel,
	}
}

// buildDemoProject creates a single buffer track with one 64-beat region at
// beat 0. If a WAV path was given on the command line, the decoded file is
// bound to that region; the region's length does not follow the file's.
func (c *console) buildDemoProject() {
	c.actor.Submit(engine.AddTrack(engine.TrackSpec{Name: "Deck", Channels: outputChannels, Type: engine.TrackBuffer}))
	c.track = 0

	c.actor.Submit(engine.AddRegion(engine.RegionSpec{
		Name:       "Source",
		StartTime:  0,
		Duration:   64,
		SourcePath: c.wavPath,
	}, c.track))
}

func (c *console) Run() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, outputChannels, float64(48000), portaudio.FramesPerBufferUnspecified, c.streamCallback)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	c.stream = stream
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}

	go c.actor.Run(c.ctx)

	c.setupSignalHandler()
	c.setupKeyboard()

	fmt.Print(hideCursor)
	fmt.Println(green("daw-console") + " — space: play/pause, q/esc: quit")

loop:
	for {
		select {
		case <-c.ctx.Done():
			break loop
		case state := <-c.actor.Snapshots():
			c.render(state)
		}
	}

	c.wg.Wait()
	fmt.Print(showCursor)
	return nil
}

// streamCallback is PortAudio's pull callback: it drains decoded samples
// from the sink, or falls back to silence once the sink has nothing queued
// (e.g. playback is paused), matching the teacher's pattern of always
// feeding the device a full buffer even while stopped.
func (c *console) streamCallback(out []float32) {
	for i := range out {
		select {
		case s, ok := <-c.sink.Samples():
			if !ok {
				out[i] = 0
				continue
			}
			out[i] = s
		default:
			out[i] = 0
		}
	}
}

func (c *console) setupSignalHandler() {
	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, syscall.SIGINT)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		select {
		case <-sigch:
			c.Stop()
		case <-c.ctx.Done():
		}
	}()
}

func (c *console) setupKeyboard() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		keyboard.Listen(func(key keys.Key) (stop bool, err error) {
			switch key.Code {
			case keys.CtrlC, keys.Escape:
				c.Stop()
				return true, nil
			case keys.Space:
				c.togglePlay()
			case keys.RuneKey:
				if len(key.Runes) > 0 && key.Runes[0] == 'q' {
					c.Stop()
					return true, nil
				}
			}
			return false, nil
		})
	}()
}

func (c *console) togglePlay() {
	if c.playing {
		c.actor.Submit(engine.PauseAudio())
		c.playing = false
		return
	}
	c.actor.Submit(engine.PlayAudio(engine.Beats(c.startBeat), c.mixCallback))
	c.playing = true
}

// mixCallback is handed to the mix worker; it forwards every rendered
// sample into the sink, returning false (stop the pass) only once the sink
// itself has been closed.
func (c *console) mixCallback(sample engine.Sample, _ engine.Beats) bool {
	return c.sink.Send(sample)
}

func (c *console) render(state engine.MixerState) {
	fmt.Printf("%s %s  %s %.2f  %s %d\n",
		cyan("bpm"), white("%.1f", state.BPM),
		yellow("duration"), float64(state.Duration),
		cyan("tracks"), len(state.Tracks))
}

func (c *console) Stop() {
	c.stopOnce.Do(func() {
		c.actor.Submit(engine.PauseAudio())
		c.sink.Close()
		c.cancelFn()
		if c.stream != nil {
			c.stream.Stop()
			c.stream.Close()
		}
		portaudio.Terminate()
	})
}

// setupFlags binds rootCmd's flags through viper, the same
// flag-then-BindPFlags shape tphakala-birdnet-go's cmd/root.go uses so every flag
// also picks up a DAW_CONSOLE_-prefixed environment variable override.
func setupFlags(rootCmd *cobra.Command) error {
	rootCmd.Flags().String("wav", "", "WAV file to load into the demo buffer track")
	rootCmd.Flags().Float64("start", 0, "starting beat position")
	return viper.BindPFlags(rootCmd.Flags())
}

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "daw-console",
		Short: "Terminal transport for the mixer engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newConsole(viper.GetString("wav"), viper.GetFloat64("start"))
			c.buildDemoProject()
			return c.Run()
		},
	}
	if err := setupFlags(rootCmd); err != nil {
		log.Fatalf("daw-console: error setting up flags: %v", err)
	}
	return rootCmd
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("daw-console: ")

	viper.SetEnvPrefix("daw_console")
	viper.AutomaticEnv()

	if err := rootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
