package resource

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mjibson/go-dsp/wav"
)

// Sound is a decoded sound effect.
type Sound struct {
	Samples    []float32 // Interleaved, normalized to [-1, 1]
	Channels   int
	SampleRate int
}

// Frames returns the number of sample frames (one sample per channel).
func (s *Sound) Frames() int {
	if s.Channels <= 0 {
		return 0
	}
	return len(s.Samples) / s.Channels
}

// Duration returns the playing time.
func (s *Sound) Duration() time.Duration {
	if s.SampleRate <= 0 {
		return 0
	}
	return time.Duration(s.Frames()) * time.Second / time.Duration(s.SampleRate)
}

// decodeSound decodes a PCM or IEEE float WAV stream.
func decodeSound(r io.Reader) (*Sound, error) {
	w, err := wav.New(r)
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if w.NumChannels == 0 || w.SampleRate == 0 {
		return nil, fmt.Errorf("decode wav: invalid header (%d channels, %d Hz)", w.NumChannels, w.SampleRate)
	}
	samples, err := readSamples(w, w.Samples)
	if err != nil {
		return nil, fmt.Errorf("decode wav samples: %w", err)
	}
	// w.Samples rounds the data chunk down to whole 8-sample blocks, so the
	// rest is read one sample at a time until the chunk ends.
	for {
		tail, err := readSamples(w, 1)
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode wav samples: %w", err)
		}
		samples = append(samples, tail...)
	}
	channels := int(w.NumChannels)
	samples = samples[:len(samples)-len(samples)%channels]
	return &Sound{
		Samples:    samples,
		Channels:   channels,
		SampleRate: int(w.SampleRate),
	}, nil
}

// readSamples reads n samples and normalizes them to [-1, 1].
func readSamples(w *wav.Wav, n int) ([]float32, error) {
	if n <= 0 {
		return nil, nil
	}
	data, err := w.ReadSamples(n)
	if err != nil {
		return nil, err
	}
	switch d := data.(type) {
	case []uint8:
		out := make([]float32, len(d))
		for i, v := range d {
			out[i] = (float32(v) - 128) / 128
		}
		return out, nil
	case []int16:
		out := make([]float32, len(d))
		for i, v := range d {
			out[i] = float32(v) / 32768
		}
		return out, nil
	case []float32:
		return d, nil
	}
	return nil, fmt.Errorf("unsupported sample type %T", data)
}
