// Package wavetable generates fixed-length periodic waveform tables and the
// note-name/frequency mapping used by the audio mixer.
package wavetable

import (
	"fmt"
	"math"
)

const twoPi = math.Pi * 2

// Waveform selects the shape produced by Generate.
type Waveform int

const (
	Sine Waveform = iota
	Sawtooth
	Square
	Triangle
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Sawtooth:
		return "sawtooth"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	default:
		return fmt.Sprintf("waveform(%d)", int(w))
	}
}

// ParseWaveform maps a waveform name to its Waveform value.
func ParseWaveform(name string) (Waveform, error) {
	switch name {
	case "sine":
		return Sine, nil
	case "sawtooth", "saw":
		return Sawtooth, nil
	case "square":
		return Square, nil
	case "triangle", "tri":
		return Triangle, nil
	}
	return 0, fmt.Errorf("unknown waveform %q", name)
}

// Generate returns n samples spanning exactly one period of the waveform,
// with peak amplitude 1.0.
func Generate(kind Waveform, n int) []float64 {
	table := make([]float64, n)
	for i := range table {
		table[i] = at(kind, twoPi*float64(i)/float64(n))
	}
	return table
}

func at(kind Waveform, x float64) float64 {
	switch kind {
	case Sawtooth:
		return math.Mod((x+math.Pi)/math.Pi, 2) - 1
	case Square:
		s := math.Sin(x)
		if s > 0 {
			return 1
		}
		if s < 0 {
			return -1
		}
		return 0
	case Triangle:
		return 2 / math.Pi * math.Asin(math.Sin(x))
	default:
		return math.Sin(x)
	}
}

// Sample reads a table at a fractional index with linear interpolation.
// The index wraps, so reading past the last entry blends back into the first.
func Sample(table []float64, idx float64) float64 {
	n := len(table)
	if n == 0 {
		return 0
	}
	floor := math.Floor(idx)
	frac := idx - floor
	i0 := int(floor) % n
	if i0 < 0 {
		i0 += n
	}
	i1 := (i0 + 1) % n
	return table[i0]*(1-frac) + table[i1]*frac
}

// tableSize is the resolution used for tone synthesis in BuildSamples.
const tableSize = 2048

// BuildSamples synthesizes one tone per note name into dst, each duration
// seconds long at sampleRate. Existing entries are overwritten.
func BuildSamples(dst map[string][]float64, kind Waveform, sampleRate int, duration float64, notes []string) error {
	table := Generate(kind, tableSize)
	for _, name := range notes {
		freq, err := NoteFrequency(name)
		if err != nil {
			return err
		}
		n := int(float64(sampleRate) * duration)
		tone := make([]float64, n)
		step := freq * tableSize / float64(sampleRate)
		phase := 0.0
		for i := range tone {
			tone[i] = Sample(table, phase)
			phase += step
			if phase >= tableSize {
				phase -= tableSize
			}
		}
		dst[name] = tone
	}
	return nil
}

// FadeInOut applies a linear ramp of fade samples at both ends in place.
// A fade longer than half the buffer is clamped to half the buffer length.
func FadeInOut(samples []float32, fade int) {
	if fade > len(samples)/2 {
		fade = len(samples) / 2
	}
	if fade <= 0 {
		return
	}
	for i := 0; i < fade; i++ {
		g := float32(i) / float32(fade)
		samples[i] *= g
		samples[len(samples)-1-i] *= g
	}
}
