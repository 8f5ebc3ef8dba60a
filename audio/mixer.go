package audio

import (
	"sync"

	"github.com/go-theft-auto/uikit/resource"
)

// maxVoices bounds how many sounds play at once; the oldest voice is
// dropped when a new one starts past the limit.
const maxVoices = 16

type voice struct {
	sound *resource.Sound
	pos   float64 // Position in source frames
	step  float64 // Source frames per output frame
}

// mixer sums playing voices into interleaved stereo output.
// play and setVolume may be called from any goroutine; mix runs on the
// audio callback.
type mixer struct {
	rate int

	mu     sync.Mutex
	voices []voice
	volume float32
}

func newMixer(rate int) *mixer {
	return &mixer{rate: rate, volume: 1}
}

func (m *mixer) play(s *resource.Sound) {
	if s == nil || s.Frames() == 0 || s.SampleRate <= 0 {
		return
	}
	v := voice{sound: s, step: float64(s.SampleRate) / float64(m.rate)}
	m.mu.Lock()
	if len(m.voices) >= maxVoices {
		m.voices = m.voices[1:]
	}
	m.voices = append(m.voices, v)
	m.mu.Unlock()
}

// setVolume sets the master volume from a 0-100 percentage.
func (m *mixer) setVolume(percent int) {
	m.mu.Lock()
	m.volume = float32(min(max(percent, 0), 100)) / 100
	m.mu.Unlock()
}

func (m *mixer) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.voices)
}

// mix fills out with len(out)/2 stereo frames. Mono sources play on both
// channels; sources with more than two channels use the first two.
func (m *mixer) mix(out []float32) {
	clear(out)
	m.mu.Lock()
	defer m.mu.Unlock()

	frames := len(out) / 2
	live := m.voices[:0]
	for _, v := range m.voices {
		s := v.sound
		n := s.Frames()
		for i := range frames {
			f := int(v.pos)
			if f >= n {
				break
			}
			l := s.Samples[f*s.Channels]
			r := l
			if s.Channels > 1 {
				r = s.Samples[f*s.Channels+1]
			}
			out[2*i] += l
			out[2*i+1] += r
			v.pos += v.step
		}
		if int(v.pos) < n {
			live = append(live, v)
		}
	}
	clear(m.voices[len(live):])
	m.voices = live

	for i, x := range out {
		out[i] = min(max(x*m.volume, -1), 1)
	}
}
