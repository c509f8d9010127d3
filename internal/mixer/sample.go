package mixer

import (
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// UnsupportedFormatError reports an audio file whose encoding could not be
// decoded into the mixer's sample format.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported audio format in %s: %s", e.Path, e.Reason)
}

// Voice is a reference into the sample cache plus per-mix parameters; it is
// created per mix event and carries no mutable state of its own.
type Voice struct {
	samples []float32
}

// Len returns the voice length in samples.
func (v *Voice) Len() int { return len(v.samples) }

// Duration returns the voice length in seconds at the given sample rate.
func (v *Voice) Duration(rate int) float64 {
	return float64(len(v.samples)) / float64(rate)
}

// Trim returns a voice holding at most duration seconds of this voice.
func (v *Voice) Trim(rate int, duration float64) *Voice {
	n := int(float64(rate) * duration)
	if n >= len(v.samples) {
		return v
	}
	if n < 0 {
		n = 0
	}
	return &Voice{samples: v.samples[:n]}
}

// VoiceFromSamples wraps a float64 tone (e.g. a synthesized wavetable note)
// as a mixable voice.
func VoiceFromSamples(samples []float64) *Voice {
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s)
	}
	return &Voice{samples: out}
}

// Mixer caches decoded samples by path for the lifetime of a render.
type Mixer struct {
	rate  int
	cache map[string]*Voice
}

func New(rate int) *Mixer {
	return &Mixer{rate: rate, cache: make(map[string]*Voice)}
}

// LoadSample decodes a WAV file into a mono float32 voice. Results are cached
// by path; the same path is never decoded twice within a render.
func (m *Mixer) LoadSample(path string) (*Voice, error) {
	if v, ok := m.cache[path]; ok {
		return v, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, &UnsupportedFormatError{Path: path, Reason: "not a valid WAV file"}
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, &UnsupportedFormatError{Path: path, Reason: err.Error()}
	}

	bits := buf.SourceBitDepth
	var scale, center float32
	switch bits {
	case 8:
		// 8-bit WAV is unsigned.
		scale = 1 << 7
		center = 128
	case 16:
		scale = 1 << 15
	case 24:
		scale = 1 << 23
	case 32:
		scale = 1 << 31
	default:
		return nil, &UnsupportedFormatError{Path: path, Reason: fmt.Sprintf("unsupported bit depth %d", bits)}
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, &UnsupportedFormatError{Path: path, Reason: "no channels"}
	}
	frames := len(buf.Data) / channels
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += (float32(buf.Data[i*channels+c]) - center) / scale
		}
		s := sum / float32(channels)
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		samples[i] = s
	}

	v := &Voice{samples: samples}
	m.cache[path] = v
	return v, nil
}
