package inkwell

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/gogpu/gg"

	"github.com/inkwell-anim/inkwell/internal/encoder"
	"github.com/inkwell-anim/inkwell/internal/mixer"
)

// sinkAnimation builds an animation whose encoder pipes raw frames into a
// plain file instead of ffmpeg, so tests can inspect exactly what was
// captured.
func sinkAnimation(t *testing.T, opts ...Option) (*Animation, string) {
	t.Helper()
	cfg, err := buildConfig(opts)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.mp4")
	a := &Animation{
		dc:  gg.NewContext(cfg.width, cfg.height),
		cfg: cfg,
	}
	a.proxy = encoder.New(encoder.Config{
		Path:   path,
		Width:  cfg.width,
		Height: cfg.height,
		FPS:    cfg.fps,
		Command: func(part int, path string) *exec.Cmd {
			return exec.Command("sh", "-c", "cat > '"+path+"'")
		},
	})
	if cfg.audio {
		a.buffer = mixer.NewBuffer(cfg.sampleRate, cfg.tempo, cfg.fps, cfg.length)
		a.samples = mixer.New(cfg.sampleRate)
	}
	return a, path
}

func TestFramesYieldsMonotonicIndices(t *testing.T) {
	a, _ := sinkAnimation(t, WithFPS(10), WithSize(2, 2), WithAudio(false))

	var got []int
	for frame := range a.Frames(0.5) {
		got = append(got, frame)
	}
	if err := a.Err(); err != nil {
		t.Fatalf("frames: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("0.5s at 10 fps should yield 5 frames, got %d", len(got))
	}
	for i, f := range got {
		if f != i {
			t.Errorf("yield %d = frame %d, want %d", i, f, i)
		}
	}

	// A second loop continues the same clock where the first left off.
	for frame := range a.Frames(0.2) {
		got = append(got, frame)
	}
	if want := []int{0, 1, 2, 3, 4, 5, 6}; len(got) != len(want) {
		t.Fatalf("after second loop got %d frames, want %d", len(got), len(want))
	}
	if got[len(got)-1] != 6 {
		t.Errorf("last yielded frame = %d, want 6", got[len(got)-1])
	}
	if a.Frame() != 7 {
		t.Errorf("Frame() after loops = %d, want 7", a.Frame())
	}
	if a.Time() != 0.7 {
		t.Errorf("Time() = %v, want 0.7", a.Time())
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestFramesForwardsEveryCapture(t *testing.T) {
	const w, h = 2, 2
	a, path := sinkAnimation(t, WithFPS(10), WithSize(w, h), WithAudio(false))

	n := 0
	for range a.Frames(0.3) {
		n++
	}
	if err := a.Err(); err != nil {
		t.Fatalf("frames: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if want := n * w * h * 4; len(data) != want {
		t.Fatalf("output = %d bytes, want %d (%d frames of %d bytes)", len(data), want, n, w*h*4)
	}
}

func TestWaitHoldsPreviousFrame(t *testing.T) {
	const w, h = 4, 4
	a, path := sinkAnimation(t, WithFPS(10), WithSize(w, h), WithAudio(false))

	for range a.Frames(0.1) {
		dc := a.Context()
		dc.SetColor(Red.Color())
		dc.DrawCircle(2, 2, 1.5)
		dc.Fill()
	}
	if err := a.Err(); err != nil {
		t.Fatalf("frames: %v", err)
	}
	if err := a.Wait(0.3); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if a.Frame() != 4 {
		t.Fatalf("frame after wait = %d, want 4", a.Frame())
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	frameSize := w * h * 4
	if len(data) != 4*frameSize {
		t.Fatalf("output = %d bytes, want %d", len(data), 4*frameSize)
	}
	first := data[:frameSize]
	for i := 1; i < 4; i++ {
		held := data[i*frameSize : (i+1)*frameSize]
		for j := range held {
			if held[j] != first[j] {
				t.Fatalf("held frame %d differs from drawn frame at byte %d", i, j)
			}
		}
	}
}

func TestFramesStopAfterClose(t *testing.T) {
	a, _ := sinkAnimation(t, WithFPS(10), WithSize(2, 2), WithAudio(false))
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for range a.Frames(1) {
		t.Fatal("closed animation should yield no frames")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}
}

func TestFramesSurfacesEncoderError(t *testing.T) {
	a, _ := sinkAnimation(t, WithFPS(10), WithSize(2, 2), WithAudio(false))
	a.proxy = encoder.New(encoder.Config{
		Path:   filepath.Join(t.TempDir(), "out.mp4"),
		Width:  2,
		Height: 2,
		FPS:    10,
		Command: func(part int, path string) *exec.Cmd {
			return exec.Command("sh", "-c", "exit 3")
		},
	})

	n := 0
	for range a.Frames(100) {
		n++
	}
	if err := a.Err(); err == nil {
		t.Fatal("expected an error after the encoder child died")
	} else {
		var perr *EncoderProcessError
		if !errors.As(err, &perr) {
			t.Fatalf("error = %v, want an encoder process error", err)
		}
	}
	if n >= 1000 {
		t.Fatalf("loop should have aborted early, ran %d frames", n)
	}
}

func TestRenderElementsDropsFinished(t *testing.T) {
	a, _ := sinkAnimation(t, WithFPS(10), WithSize(2, 2), WithAudio(false))
	defer a.Close()

	short, long := 0, 0
	err := a.RenderElements(0.5,
		func(frame int) bool {
			short++
			return short < 2 // finished after two frames
		},
		func(frame int) bool {
			long++
			return true
		},
	)
	if err != nil {
		t.Fatalf("render elements: %v", err)
	}
	if short != 2 {
		t.Errorf("finished element ran %d times, want 2", short)
	}
	if long != 5 {
		t.Errorf("persistent element ran %d times, want 5", long)
	}
}

func TestOneFramePaintsBackgroundOnce(t *testing.T) {
	img := &Image{
		dc:  gg.NewContext(2, 2),
		cfg: config{fps: 60, width: 2, height: 2, background: Red},
	}
	n := 0
	for range img.OneFrame() {
		n++
	}
	if n != 1 {
		t.Fatalf("OneFrame yielded %d times, want 1", n)
	}
	if err := img.Err(); err != nil {
		t.Fatalf("one frame: %v", err)
	}
}

func TestRenderImageWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")
	err := RenderImage(path, func(img *Image) error {
		for range img.OneFrame() {
			dc := img.Context()
			dc.SetColor(Blue.Color())
			dc.DrawCircle(32, 32, 16)
			dc.Fill()
		}
		return img.Err()
	}, WithSize(64, 64))
	if err != nil {
		t.Fatalf("render image: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output image missing: %v", err)
	}
}

func TestRenderImageSkipsWriteOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "still.png")
	wantErr := errors.New("draw failed")
	err := RenderImage(path, func(img *Image) error {
		return wantErr
	}, WithSize(8, 8))
	if !errors.Is(err, wantErr) {
		t.Fatalf("error = %v, want %v", err, wantErr)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("failed render should not write an image, stat err = %v", err)
	}
}

// countingAccelerator declines every operation so rendering stays on the
// CPU path, and only counts Flush calls.
type countingAccelerator struct {
	flushes int
}

func (c *countingAccelerator) Name() string                        { return "counting" }
func (c *countingAccelerator) Init() error                         { return nil }
func (c *countingAccelerator) Close()                              {}
func (c *countingAccelerator) CanAccelerate(gg.AcceleratedOp) bool { return false }
func (c *countingAccelerator) FillPath(gg.GPURenderTarget, *gg.Path, *gg.Paint) error {
	return gg.ErrFallbackToCPU
}
func (c *countingAccelerator) StrokePath(gg.GPURenderTarget, *gg.Path, *gg.Paint) error {
	return gg.ErrFallbackToCPU
}
func (c *countingAccelerator) FillShape(gg.GPURenderTarget, gg.DetectedShape, *gg.Paint) error {
	return gg.ErrFallbackToCPU
}
func (c *countingAccelerator) StrokeShape(gg.GPURenderTarget, gg.DetectedShape, *gg.Paint) error {
	return gg.ErrFallbackToCPU
}
func (c *countingAccelerator) Flush(gg.GPURenderTarget) error {
	c.flushes++
	return nil
}

func TestCaptureFlushesPendingGPUWork(t *testing.T) {
	acc := &countingAccelerator{}
	if err := gg.RegisterAccelerator(acc); err != nil {
		t.Fatalf("register accelerator: %v", err)
	}

	a, _ := sinkAnimation(t, WithFPS(10), WithSize(2, 2), WithAudio(false))
	defer a.Close()

	before := acc.flushes
	pix, err := a.snapshot()
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(pix) != 2*2*4 {
		t.Fatalf("snapshot = %d bytes, want %d", len(pix), 2*2*4)
	}
	if acc.flushes <= before {
		t.Fatal("snapshot must flush pending GPU work before reading pixels")
	}
}

func TestBuildConfigRejectsBadValues(t *testing.T) {
	if _, err := buildConfig([]Option{WithFPS(0)}); err == nil {
		t.Error("zero fps should be rejected")
	}
	if _, err := buildConfig([]Option{WithSize(0, 100)}); err == nil {
		t.Error("zero width should be rejected")
	}
	if _, err := buildConfig([]Option{WithSize(100, -1)}); err == nil {
		t.Error("negative height should be rejected")
	}
}
