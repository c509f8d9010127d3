package inkwell

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	intaudio "github.com/inkwell-anim/inkwell/internal/audio"
	"github.com/inkwell-anim/inkwell/internal/encoder"
	"github.com/inkwell-anim/inkwell/internal/mixer"
)

// EventKind classifies input events polled from the window.
type EventKind int

const (
	KeyPressed EventKind = iota
	MousePressed
	MouseMoved
)

// Event is one input event. Key is set for KeyPressed; X and Y carry the
// cursor position for mouse events.
type Event struct {
	Kind EventKind
	Key  ebiten.Key
	X, Y int
}

// Interactive is a windowed render. The per-frame draw callback runs against
// the same surface contract as Animation; input events are polled into a
// queue drained with Events.
type Interactive struct {
	dc      *gg.Context
	cfg     config
	frame   int
	events  []Event
	lastX   int
	lastY   int
	proxy   *encoder.Proxy
	buffer  *mixer.Buffer
	samples *mixer.Mixer
	source  *intaudio.BufferSource
	player  *intaudio.Player
	stop    bool
	err     error
}

// Context returns the drawing surface.
func (it *Interactive) Context() *gg.Context { return it.dc }

// Frame returns the current frame index.
func (it *Interactive) Frame() int { return it.frame }

// Time returns the session's wall-clock time: frame / fps.
func (it *Interactive) Time() float64 { return FrameTime(it.frame, it.cfg.fps) }

// Events returns the input events queued since the last call and clears the
// queue.
func (it *Interactive) Events() []Event {
	evts := it.events
	it.events = nil
	return evts
}

// Stop ends the session after the current frame.
func (it *Interactive) Stop() { it.stop = true }

// Audio returns the live audio buffer, or nil when audio is disabled.
func (it *Interactive) Audio() *AudioBuffer { return it.buffer }

// LoadSample decodes a WAV file into a voice, cached by path.
func (it *Interactive) LoadSample(path string) (*Voice, error) {
	if it.samples == nil {
		return nil, &UnsupportedAudioFormatError{Path: path, Reason: "audio is disabled for this session"}
	}
	return it.samples.LoadSample(path)
}

// Play mixes a voice at the live playhead so it is heard immediately.
func (it *Interactive) Play(v *Voice, gain float64) {
	if it.buffer == nil || it.source == nil {
		return
	}
	it.buffer.Mix(v, it.source.Position(), gain)
}

type interactiveGame struct {
	it   *Interactive
	draw func(*Interactive) error
}

func (g *interactiveGame) Update() error {
	it := g.it
	if it.stop {
		return ebiten.Termination
	}
	it.pollEvents()

	if it.dc == nil {
		it.err = &SurfaceError{Op: "paint"}
		return it.err
	}
	it.dc.Push()
	it.dc.ClearWithColor(it.cfg.background)
	err := g.draw(it)
	it.dc.Pop()
	if err != nil {
		it.err = err
		return err
	}

	_ = it.dc.FlushGPU() // flush pending GPU shapes before reading pixels
	if it.proxy != nil {
		img, ok := it.dc.Image().(*image.RGBA)
		if !ok {
			it.err = &SurfaceError{Op: "capture"}
			return it.err
		}
		if err := it.proxy.WriteFrame(img.Pix); err != nil {
			it.err = err
			return err
		}
	}
	it.frame++
	if it.buffer != nil {
		it.buffer.SetFrame(it.frame)
	}
	return nil
}

func (g *interactiveGame) Draw(screen *ebiten.Image) {
	if g.it.dc == nil {
		return
	}
	if img, ok := g.it.dc.Image().(*image.RGBA); ok {
		screen.WritePixels(img.Pix)
	}
	if g.it.cfg.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("frame %d  t=%.2fs  tps=%.1f",
			g.it.frame, g.it.Time(), ebiten.ActualTPS()))
	}
}

func (g *interactiveGame) Layout(int, int) (int, int) {
	return g.it.cfg.width, g.it.cfg.height
}

func (it *Interactive) pollEvents() {
	for _, k := range inpututil.AppendJustPressedKeys(nil) {
		it.events = append(it.events, Event{Kind: KeyPressed, Key: k})
	}
	x, y := ebiten.CursorPosition()
	if x != it.lastX || y != it.lastY {
		it.lastX, it.lastY = x, y
		it.events = append(it.events, Event{Kind: MouseMoved, X: x, Y: y})
	}
	for _, b := range []ebiten.MouseButton{ebiten.MouseButtonLeft, ebiten.MouseButtonRight} {
		if inpututil.IsMouseButtonJustPressed(b) {
			it.events = append(it.events, Event{Kind: MousePressed, X: x, Y: y})
		}
	}
}

// RunInteractive opens a window and calls draw once per frame until the
// window closes, draw fails, or Stop is called. With WithRecording the
// session's frames (and audio) are also encoded to a video file, flushed on
// every exit path.
func RunInteractive(draw func(*Interactive) error, opts ...Option) error {
	cfg, err := buildConfig(opts)
	if err != nil {
		return err
	}
	it := &Interactive{
		dc:  gg.NewContext(cfg.width, cfg.height),
		cfg: cfg,
	}
	if cfg.audio {
		it.buffer = mixer.NewBuffer(cfg.sampleRate, cfg.tempo, cfg.fps, cfg.length)
		it.samples = mixer.New(cfg.sampleRate)
		it.source = intaudio.NewBufferSource(it.buffer)
		player, err := intaudio.NewPlayer(cfg.sampleRate, it.source)
		if err != nil {
			return err
		}
		it.player = player
		it.player.Play()
	}
	if cfg.record != "" {
		it.proxy = encoder.New(encoder.Config{
			Path:         cfg.record,
			Width:        cfg.width,
			Height:       cfg.height,
			FPS:          cfg.fps,
			SampleRate:   sampleRateIf(cfg.audio, cfg.sampleRate),
			AudioPath:    cfg.audioPath,
			PartFrames:   cfg.partFrames,
			PartBytes:    cfg.partBytes,
			PartDuration: cfg.partDuration,
			FFmpegPath:   cfg.ffmpegPath,
		})
	}

	ebiten.SetWindowSize(cfg.width, cfg.height)
	if cfg.title != "" {
		ebiten.SetWindowTitle(cfg.title)
	}
	ebiten.SetTPS(cfg.fps)

	runErr := ebiten.RunGame(&interactiveGame{it: it, draw: draw})
	if errors.Is(runErr, ebiten.Termination) {
		runErr = nil
	}
	return errors.Join(runErr, it.finalize())
}

func (it *Interactive) finalize() error {
	var errs []error
	if it.player != nil {
		it.source.Finish()
		if err := it.player.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if it.proxy != nil {
		if it.buffer != nil {
			it.buffer.Finalize()
			if err := it.proxy.WriteAudio(it.buffer.Data()); err != nil {
				errs = append(errs, err)
			}
		}
		if err := it.proxy.Close(); err != nil {
			errs = append(errs, err)
		} else if err := it.proxy.Finalize(); err != nil {
			errs = append(errs, err)
		}
	}
	if it.dc != nil {
		it.dc.Close()
		it.dc = nil
	}
	return errors.Join(errs...)
}

func sampleRateIf(enabled bool, rate int) int {
	if enabled {
		return rate
	}
	return 0
}
