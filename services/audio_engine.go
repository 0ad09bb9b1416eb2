package services

import (
	"bytes"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	toneSampleRate = 44100
	toneChannels   = 1
	toneBitDepth   = 2 // bytes per sample
)

// otoEngine synthesizes sine-wave PCM and plays it through the host audio
// device. Opening the device can fail on headless units, which is why engine
// creation stays behind AudioFeedback's lazy Unlock.
type otoEngine struct {
	ctx *oto.Context
}

func NewOtoEngine() (ToneEngine, error) {
	ctx, ready, err := oto.NewContext(toneSampleRate, toneChannels, toneBitDepth)
	if err != nil {
		return nil, err
	}
	<-ready
	return &otoEngine{ctx: ctx}, nil
}

func (e *otoEngine) Play(tones []Tone) {
	pcm := synthesize(tones)
	player := e.ctx.NewPlayer(bytes.NewReader(pcm))
	player.Play()
	for player.IsPlaying() {
		time.Sleep(10 * time.Millisecond)
	}
	_ = player.Close()
}

// synthesize renders the tone sequence as 16-bit little-endian mono PCM with
// a short linear fade on both ends of each note to avoid clicks.
func synthesize(tones []Tone) []byte {
	var out []byte
	for _, tone := range tones {
		samples := int(float64(toneSampleRate) * tone.Duration.Seconds())
		fade := toneSampleRate / 200 // 5 ms
		if fade > samples/2 {
			fade = samples / 2
		}
		for i := 0; i < samples; i++ {
			v := math.Sin(2 * math.Pi * tone.FreqHz * float64(i) / toneSampleRate)
			gain := 0.4
			if i < fade {
				gain *= float64(i) / float64(fade)
			} else if samples-i < fade {
				gain *= float64(samples-i) / float64(fade)
			}
			sample := int16(v * gain * math.MaxInt16)
			out = append(out, byte(sample), byte(sample>>8))
		}
	}
	return out
}
