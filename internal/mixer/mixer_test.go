package mixer

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func voiceOf(samples ...float32) *Voice {
	return &Voice{samples: samples}
}

func TestMixIsCommutative(t *testing.T) {
	a := voiceOf(0.1, 0.2, 0.3)
	b := voiceOf(0.5, -0.5)

	first := NewBuffer(44100, 120, 60, 0)
	first.Mix(a, 3, 0.8)
	first.Mix(b, 0, 1.0)

	second := NewBuffer(44100, 120, 60, 0)
	second.Mix(b, 0, 1.0)
	second.Mix(a, 3, 0.8)

	if len(first.Data()) != len(second.Data()) {
		t.Fatalf("length mismatch: %d vs %d", len(first.Data()), len(second.Data()))
	}
	for i := range first.Data() {
		if first.Data()[i] != second.Data()[i] {
			t.Fatalf("sample %d differs: %g vs %g", i, first.Data()[i], second.Data()[i])
		}
	}
}

func TestMixGrowsWithZeroFill(t *testing.T) {
	// Bare construction: NewBuffer pre-allocates the lead-out, which would
	// mask growth.
	b := &Buffer{rate: 44100, tempo: 120, fps: 60}
	b.Mix(voiceOf(1, 1), 10, 0.5)
	if b.Len() != 12 {
		t.Fatalf("expected length 12, got %d", b.Len())
	}
	for i := 0; i < 10; i++ {
		if b.Data()[i] != 0 {
			t.Fatalf("gap sample %d = %g, want 0", i, b.Data()[i])
		}
	}
	if b.Data()[10] != 0.5 || b.Data()[11] != 0.5 {
		t.Fatalf("mixed samples = %v", b.Data()[10:])
	}
}

func TestMixNeverShrinks(t *testing.T) {
	b := &Buffer{rate: 44100, tempo: 120, fps: 60}
	b.Mix(voiceOf(1, 1, 1, 1), 0, 1)
	b.Mix(voiceOf(1), 0, 1)
	if b.Len() != 4 {
		t.Fatalf("expected length 4, got %d", b.Len())
	}
}

func TestCopyAtBoundsAndContent(t *testing.T) {
	b := &Buffer{data: []float32{1, 2, 3}, rate: 100}
	dst := make([]float32, 2)
	if n := b.CopyAt(dst, 1); n != 2 || dst[0] != 2 || dst[1] != 3 {
		t.Fatalf("CopyAt(1) = %d, %v", n, dst)
	}
	if n := b.CopyAt(dst, 3); n != 0 {
		t.Errorf("CopyAt past the end = %d, want 0", n)
	}
	if n := b.CopyAt(dst, -1); n != 0 {
		t.Errorf("CopyAt(-1) = %d, want 0", n)
	}
}

func TestOnSixteenthsPlacement(t *testing.T) {
	const rate = 1000
	b := &Buffer{data: make([]float32, rate), rate: rate, tempo: 60, fps: 60}
	// At 60 BPM a sixteenth is 0.25s = 250 samples. Pattern places hits on
	// ticks 0 and 2 of every four.
	b.OnSixteenths(voiceOf(1), 60, []bool{true, false, true, false}, 1)
	want := map[int]float32{0: 1, 500: 1}
	for i, s := range b.Data() {
		if s != want[i] {
			t.Fatalf("sample %d = %g, want %g", i, s, want[i])
		}
	}
}

func TestOnSixteenthsTimingFromBPMOnly(t *testing.T) {
	const rate = 8000
	b := &Buffer{data: make([]float32, rate), rate: rate, tempo: 120, fps: 30}
	b.OnSixteenths(voiceOf(1), 120, []bool{false, true}, 1)
	// Tick = 60/120/4 = 0.125s; the first hit lands on tick 1.
	hit := rate / 8
	if b.Data()[hit] != 1 {
		t.Fatalf("expected hit at sample %d", hit)
	}
	if b.Data()[0] != 0 {
		t.Fatal("unexpected hit at origin")
	}
}

func TestReverbIsFiniteAndDeterministic(t *testing.T) {
	const rate = 100
	mk := func() *Buffer {
		b := &Buffer{data: make([]float32, 10), rate: rate}
		b.data[0] = 1
		return b
	}
	a := mk()
	a.Reverb(0.1, 0.5, 3) // delay 10 samples, 3 echoes

	if got := a.Data()[10]; got != 0.5 {
		t.Errorf("first echo = %g, want 0.5", got)
	}
	if got := a.Data()[20]; got != 0.25 {
		t.Errorf("second echo = %g, want 0.25", got)
	}
	if got := a.Data()[30]; got != 0.125 {
		t.Errorf("third echo = %g, want 0.125", got)
	}
	if a.Len() != 40 {
		t.Errorf("expected tail growth to 40 samples, got %d", a.Len())
	}

	c := mk()
	c.Reverb(0.1, 0.5, 3)
	for i := range a.Data() {
		if a.Data()[i] != c.Data()[i] {
			t.Fatalf("reverb not deterministic at sample %d", i)
		}
	}
}

func TestReverbDoesNotFeedBack(t *testing.T) {
	b := &Buffer{data: make([]float32, 5), rate: 100}
	b.data[0] = 1
	b.Reverb(0.01, 0.9, 2) // delay 1 sample
	// A feedback loop would compound sample 2 beyond decay^2.
	if got, want := b.Data()[2], float32(0.81); float32(math.Abs(float64(got-want))) > 1e-6 {
		t.Errorf("sample 2 = %g, want %g", got, want)
	}
}

func TestFinalizeNormalizes(t *testing.T) {
	b := NewBuffer(44100, 120, 60, 1)
	b.Mix(voiceOf(0.5), 22050, 1)
	b.Finalize()
	var peak float32
	for _, s := range b.Data() {
		if s > peak {
			peak = s
		}
	}
	if math.Abs(float64(peak)-1) > 1e-6 {
		t.Errorf("peak after normalize = %g, want 1", peak)
	}
	if b.Data()[0] != 0 {
		t.Errorf("expected fade-in at first sample, got %g", b.Data()[0])
	}
}

func writeTestWAV(t *testing.T, path string, channels int, samples []int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	enc := wav.NewEncoder(f, 44100, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: 44100},
		Data:           samples,
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSampleDecodesAndCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hit.wav")
	writeTestWAV(t, path, 1, []int{16384, -16384, 0})

	m := New(44100)
	v, err := m.LoadSample(path)
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != 3 {
		t.Fatalf("expected 3 samples, got %d", v.Len())
	}
	if math.Abs(float64(v.samples[0])-0.5) > 0.001 {
		t.Errorf("sample 0 = %g, want ~0.5", v.samples[0])
	}

	again, err := m.LoadSample(path)
	if err != nil {
		t.Fatal(err)
	}
	if again != v {
		t.Error("expected cached voice on second load")
	}
}

func TestLoadSampleMixesStereoToMono(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stereo.wav")
	writeTestWAV(t, path, 2, []int{16384, 0, 0, 16384})

	v, err := New(44100).LoadSample(path)
	if err != nil {
		t.Fatal(err)
	}
	if v.Len() != 2 {
		t.Fatalf("expected 2 frames, got %d", v.Len())
	}
	for i := 0; i < 2; i++ {
		if math.Abs(float64(v.samples[i])-0.25) > 0.001 {
			t.Errorf("frame %d = %g, want ~0.25", i, v.samples[i])
		}
	}
}

func TestLoadSampleRejectsGarbage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.bin")
	if err := os.WriteFile(path, []byte("this is not a wav file at all"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(44100).LoadSample(path)
	var unsupported *UnsupportedFormatError
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected UnsupportedFormatError, got %v", err)
	}
}

func TestVoiceTrim(t *testing.T) {
	v := voiceOf(1, 2, 3, 4)
	trimmed := v.Trim(4, 0.5) // 2 samples at 4 Hz
	if trimmed.Len() != 2 {
		t.Fatalf("expected 2 samples, got %d", trimmed.Len())
	}
	if whole := v.Trim(4, 10); whole != v {
		t.Error("expected identity when duration covers the voice")
	}
}
