// Package mixer owns the render's audio accumulator: additive voice mixing at
// arbitrary sample offsets, beat-quantized placement, and a finite reverb.
package mixer

import (
	"math"
	"sync"

	"github.com/inkwell-anim/inkwell/internal/wavetable"
)

// Buffer is an append-only sample accumulator scoped to one render. Voices
// are mixed additively into it; it grows as needed and never shrinks.
//
// Mixing and live playback may run on different goroutines: the game loop
// mixes while an audio device thread reads. An internal lock serializes
// sample access; playback readers use CopyAt rather than holding the slice.
type Buffer struct {
	mu    sync.Mutex
	data  []float32
	rate  int
	tempo float64
	fps   int
	frame int
}

// leadOutSeconds pads the initial allocation past the render length so late
// hits and reverb tails land without reallocation.
const leadOutSeconds = 3

// NewBuffer creates a buffer for a render of lengthSeconds at the given
// sample rate, tempo (BPM) and video frame rate.
func NewBuffer(rate int, tempo float64, fps int, lengthSeconds float64) *Buffer {
	n := int(float64(rate) * (lengthSeconds + leadOutSeconds))
	if n < 0 {
		n = 0
	}
	return &Buffer{
		data:  make([]float32, n),
		rate:  rate,
		tempo: tempo,
		fps:   fps,
	}
}

// Data returns the accumulated samples. The slice is owned by the buffer and
// is not safe against concurrent mixing; concurrent readers use CopyAt.
func (b *Buffer) Data() []float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.data
}

// Len returns the current sample count.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// CopyAt copies samples starting at pos into dst and reports how many were
// copied. It is safe to call while other goroutines mix.
func (b *Buffer) CopyAt(dst []float32, pos int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if pos < 0 || pos >= len(b.data) {
		return 0
	}
	return copy(dst, b.data[pos:])
}

func (b *Buffer) Rate() int      { return b.rate }
func (b *Buffer) Tempo() float64 { return b.tempo }

// SetFrame records the current video frame so MixAtFrame can place voices at
// the frame clock's wall-clock position. Audio timing otherwise derives from
// tempo alone; the two clocks share only the render's origin.
func (b *Buffer) SetFrame(frame int) {
	b.mu.Lock()
	b.frame = frame
	b.mu.Unlock()
}

// Frame returns the frame most recently recorded with SetFrame.
func (b *Buffer) Frame() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame
}

// grow extends the buffer with zero-filled samples so index n-1 is valid.
// Callers hold b.mu.
func (b *Buffer) grow(n int) {
	if n <= len(b.data) {
		return
	}
	b.data = append(b.data, make([]float32, n-len(b.data))...)
}

// Mix adds voice.samples[i] * gain into data[offset+i] for all i, growing the
// buffer and zero-filling any gap. Mixing is therefore commutative and
// associative regardless of offset ordering.
func (b *Buffer) Mix(v *Voice, offset int, gain float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mix(v, offset, gain)
}

// mix is Mix without the lock. Callers hold b.mu.
func (b *Buffer) mix(v *Voice, offset int, gain float64) {
	if v == nil || offset < 0 {
		return
	}
	b.grow(offset + len(v.samples))
	g := float32(gain)
	for i, s := range v.samples {
		b.data[offset+i] += s * g
	}
}

// MixAt places a voice at a wall-clock time in seconds.
func (b *Buffer) MixAt(v *Voice, seconds float64, gain float64) {
	b.Mix(v, int(seconds*float64(b.rate)), gain)
}

// MixAtFrame places a voice at the current video frame's time.
func (b *Buffer) MixAtFrame(v *Voice, gain float64) {
	if b.fps <= 0 {
		return
	}
	b.MixAt(v, float64(b.Frame())/float64(b.fps), gain)
}

// OnSixteenths places a voice on every sixteenth-note tick whose pattern
// entry is true, cycling the pattern across the buffer's current length.
// One tick is 60/bpm/4 seconds; timing derives from bpm alone.
func (b *Buffer) OnSixteenths(v *Voice, bpm float64, pattern []bool, gain float64) {
	if bpm <= 0 || len(pattern) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	tick := 60 / bpm / 4 * float64(b.rate)
	end := len(b.data)
	for k := 0; ; k++ {
		offset := int(float64(k) * tick)
		if offset >= end {
			return
		}
		if pattern[k%len(pattern)] {
			b.mix(v, offset, gain)
		}
	}
}

// Reverb adds repeats delayed, decayed copies of the current buffer contents
// back onto the buffer. The source is snapshotted first, so this is a finite
// feedforward sum, not a feedback loop: output is bounded and deterministic.
func (b *Buffer) Reverb(delaySeconds, decay float64, repeats int) {
	delay := int(delaySeconds * float64(b.rate))
	if delay <= 0 || repeats <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	src := make([]float32, len(b.data))
	copy(src, b.data)
	b.grow(len(src) + delay*repeats)
	for r := 1; r <= repeats; r++ {
		g := float32(math.Pow(decay, float64(r)))
		off := delay * r
		for i, s := range src {
			b.data[off+i] += s * g
		}
	}
}

// Finalize peak-normalizes the buffer to unit amplitude and applies a short
// fade at both ends to avoid clicks. Called once when the render closes.
func (b *Buffer) Finalize() {
	b.mu.Lock()
	defer b.mu.Unlock()
	var peak float32
	for _, s := range b.data {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak > 0 {
		for i := range b.data {
			b.data[i] /= peak
		}
	}
	wavetable.FadeInOut(b.data, fadeSamples)
}

const fadeSamples = 2000
