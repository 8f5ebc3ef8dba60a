// Package audio plays sound effects through the default output device.
package audio

import (
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"

	"github.com/go-theft-auto/uikit"
	"github.com/go-theft-auto/uikit/resource"
)

// DefaultSampleRate is the output rate used when none is given.
const DefaultSampleRate = 44100

// Sounds resolves decoded sounds by ID.
type Sounds interface {
	Sound(id uikit.SoundID) (*resource.Sound, bool)
}

// Player mixes sound effects into a stereo output stream.
type Player struct {
	sounds Sounds
	mixer  *mixer
	stream *portaudio.Stream
}

var _ uikit.SoundPlayer = (*Player)(nil)

// NewPlayer initializes PortAudio and starts a stereo stream on the default
// output device.
func NewPlayer(sounds Sounds, sampleRate int) (*Player, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	p := &Player{sounds: sounds, mixer: newMixer(sampleRate)}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), 0, p.callback)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}
	p.stream = stream
	slog.Info("audio started", "rate", sampleRate)
	return p, nil
}

func (p *Player) callback(out []float32) {
	p.mixer.mix(out)
}

// PlaySound starts playing id. Unknown IDs are logged and ignored.
func (p *Player) PlaySound(id uikit.SoundID) {
	s, ok := p.sounds.Sound(id)
	if !ok {
		slog.Debug("sound not loaded", "id", id)
		return
	}
	p.mixer.play(s)
}

// SetVolume sets the master volume, 0-100.
func (p *Player) SetVolume(percent int) {
	p.mixer.setVolume(percent)
}

// Close stops the stream and releases PortAudio.
func (p *Player) Close() error {
	if p.stream == nil {
		return nil
	}
	if err := p.stream.Close(); err != nil {
		portaudio.Terminate()
		return fmt.Errorf("failed to close audio stream: %w", err)
	}
	p.stream = nil
	return portaudio.Terminate()
}
