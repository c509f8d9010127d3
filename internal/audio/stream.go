// Package audio plays the mixer's sample buffer live through the system
// audio device. It is used by the interactive contexts; file output goes
// through the encoder proxy instead.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

// SampleSource produces interleaved stereo float32 samples.
type SampleSource interface {
	Process(dst []float32)
}

// FinishingSource is a SampleSource that can signal when playback has ended.
// When Finished returns true, the stream returns io.EOF on the next Read.
type FinishingSource interface {
	SampleSource
	Finished() bool
}

type StreamReader struct {
	mu     sync.Mutex
	source SampleSource
	buf    []float32
}

func NewStreamReader(source SampleSource) *StreamReader {
	return &StreamReader{source: source}
}

func (r *StreamReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / 8
	if frames == 0 {
		return 0, nil
	}
	need := frames * 2
	if cap(r.buf) < need {
		r.buf = make([]float32, need)
	}
	r.buf = r.buf[:need]
	r.source.Process(r.buf)
	for i := 0; i < need; i++ {
		u := math.Float32bits(r.buf[i])
		binary.LittleEndian.PutUint32(p[i*4:], u)
	}
	n := frames * 8
	if fs, ok := r.source.(FinishingSource); ok && fs.Finished() {
		return n, io.EOF
	}
	return n, nil
}

func (r *StreamReader) Close() error { return nil }

// SampleBuffer is a mono sample accumulator that other goroutines may still
// be mixing into. CopyAt must snapshot under the buffer's own lock; the
// source never holds the underlying slice.
type SampleBuffer interface {
	CopyAt(dst []float32, pos int) int
	Len() int
}

// BufferSource plays a sample buffer from a moving playhead, duplicating
// each mono sample into both stereo channels. The buffer may keep growing
// behind the playhead; reads past the end produce silence until more
// samples land.
type BufferSource struct {
	mu      sync.Mutex
	buf     SampleBuffer
	scratch []float32
	pos     int
	done    bool
}

// NewBufferSource wraps a sample buffer. The buffer is read on the audio
// thread each time the device needs data, so CopyAt must be cheap.
func NewBufferSource(buf SampleBuffer) *BufferSource {
	return &BufferSource{buf: buf}
}

func (s *BufferSource) Process(dst []float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	frames := len(dst) / 2
	if cap(s.scratch) < frames {
		s.scratch = make([]float32, frames)
	}
	mono := s.scratch[:frames]
	n := s.buf.CopyAt(mono, s.pos)
	s.pos += n
	for i := 0; i < frames; i++ {
		var v float32
		if i < n {
			v = mono[i]
		}
		dst[2*i] = v
		dst[2*i+1] = v
	}
}

// Position returns the playhead in samples.
func (s *BufferSource) Position() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos
}

// Finish marks the source done; playback ends once the device drains.
func (s *BufferSource) Finish() {
	s.mu.Lock()
	s.done = true
	s.mu.Unlock()
}

func (s *BufferSource) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done && s.pos >= s.buf.Len()
}

type Player struct {
	player *ebitaudio.Player
	reader io.ReadCloser
}

var (
	audioContextOnce sync.Once
	audioContext     *ebitaudio.Context
	audioSampleRate  int
)

func sharedAudioContext(sampleRate int) (*ebitaudio.Context, error) {
	audioContextOnce.Do(func() {
		audioSampleRate = sampleRate
		audioContext = ebitaudio.NewContext(sampleRate)
	})
	if audioSampleRate != sampleRate {
		return nil, fmt.Errorf("audio context already initialized at %d Hz (requested %d Hz)", audioSampleRate, sampleRate)
	}
	return audioContext, nil
}

func NewPlayer(sampleRate int, source SampleSource) (*Player, error) {
	ctx, err := sharedAudioContext(sampleRate)
	if err != nil {
		return nil, err
	}
	reader := NewStreamReader(source)
	pl, err := ctx.NewPlayerF32(reader)
	if err != nil {
		return nil, err
	}
	return &Player{
		player: pl,
		reader: reader,
	}, nil
}

func (p *Player) Play()  { p.player.Play() }
func (p *Player) Pause() { p.player.Pause() }
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Position returns the current output position of the audio device.
func (p *Player) Position() time.Duration {
	return p.player.Position()
}

func (p *Player) Stop() error {
	p.player.Pause()
	p.player.Close()
	return p.reader.Close()
}
