package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tracklet/tracklet"
	"github.com/tracklet/tracklet/engine"
	"github.com/tracklet/tracklet/engine/gomidi"
	"github.com/tracklet/tracklet/oto"
	"github.com/tracklet/tracklet/version"
)

func main() {
	presetPath := flag.String("preset", "", "Preset file to load. Without one, a built-in demo pattern is played.")
	midiPrefix := flag.String("midi", "", "Open the first MIDI input whose name starts with this prefix.")
	listMIDI := flag.Bool("list-midi", false, "List MIDI input devices and exit.")
	sampleRate := flag.Int("rate", 48000, "Sample rate in Hz.")
	play := flag.Bool("play", false, "Start playback immediately.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}

	preset := demoPreset()
	if *presetPath != "" {
		f, err := os.Open(*presetPath)
		if err != nil {
			log.Fatalf("open preset: %v", err)
		}
		p, err := engine.ReadPreset(f)
		f.Close()
		if err != nil {
			log.Fatalf("read preset: %v", err)
		}
		preset = *p
	}

	broker := engine.NewBroker()
	eng := engine.NewEngine(broker, *sampleRate, &preset)
	control := engine.NewControl(broker, eng)

	midiContext := gomidi.NewContext(broker, control)
	defer midiContext.Close()
	if *listMIDI {
		for d := range midiContext.Inputs {
			fmt.Println(d.String())
		}
		return
	}
	if *midiPrefix != "" {
		if err := midiContext.OpenByPrefix(*midiPrefix); err != nil {
			log.Printf("MIDI: %v", err)
		}
	}

	go engine.RunMeter(broker, engine.NewVolumeAnalyzer(*sampleRate))
	defer func() {
		broker.CloseMeter <- struct{}{}
		engine.TimeoutReceive(broker.FinishedMeter, 3*time.Second)
	}()

	audioContext, err := oto.NewContext(*sampleRate)
	if err != nil {
		log.Fatalf("audio: %v", err)
	}
	defer audioContext.Close()
	sink, err := audioContext.Play(eng)
	if err != nil {
		log.Fatalf("audio: %v", err)
	}
	defer sink.Close()

	if *play {
		if err := control.PlayPattern(); err != nil {
			log.Printf("play: %v", err)
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	for {
		select {
		case <-sig:
			return
		case msg := <-broker.ToControl:
			if alert, ok := msg.Data.(engine.Alert); ok {
				log.Printf("%s: %s", alert.Name, alert.Message)
			}
		}
	}
}

// demoPreset is a basic house pattern on the first three tracks, so
// running the player without arguments makes sound.
func demoPreset() tracklet.Preset {
	preset := tracklet.DefaultPreset()
	var pattern tracklet.Pattern
	for step := 0; step < tracklet.StepsPerPattern; step++ {
		if step%4 == 0 {
			pattern.Set(0, step, tracklet.Step{Note: 36, Velocity: 127}) // kick
		}
		if step%8 == 4 {
			pattern.Set(1, step, tracklet.Step{Note: 38, Velocity: 100}) // snare
		}
		if step%2 == 1 {
			pattern.Set(2, step, tracklet.Step{Note: 70, Velocity: 60}) // hat
		}
	}
	preset.Patterns[0] = pattern
	preset.DelayLevel = 0.15
	preset.ReverbLevel = 0.1
	return preset
}
