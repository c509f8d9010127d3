package inkwell

import (
	"errors"
	"fmt"
	"time"

	"github.com/gogpu/gg"

	"github.com/inkwell-anim/inkwell/internal/encoder"
	"github.com/inkwell-anim/inkwell/internal/logging"
	"github.com/inkwell-anim/inkwell/internal/mixer"
)

type Option func(*config)

type config struct {
	fps          int
	width        int
	height       int
	length       float64 // seconds; 0 means open-ended
	tempo        float64
	sampleRate   int
	background   Color
	debug        bool
	audio        bool
	partFrames   int
	partBytes    int64
	partDuration time.Duration
	ffmpegPath   string
	audioPath    string
	title        string
	record       string
}

func defaultConfig() config {
	return config{
		fps:        60,
		width:      640,
		height:     480,
		length:     60,
		tempo:      120,
		sampleRate: 44100,
		background: gg.Black,
		audio:      true,
	}
}

// WithFPS sets the frame rate. Must be positive.
func WithFPS(fps int) Option { return func(c *config) { c.fps = fps } }

// WithSize sets the surface dimensions in pixels.
func WithSize(width, height int) Option {
	return func(c *config) { c.width, c.height = width, height }
}

// WithLength sets the render length in seconds. It sizes the audio buffer;
// the frame loop itself runs for whatever durations the caller requests.
func WithLength(seconds float64) Option { return func(c *config) { c.length = seconds } }

// WithTempo sets the musical tempo in BPM used by beat-quantized mixing.
func WithTempo(bpm float64) Option { return func(c *config) { c.tempo = bpm } }

// WithSampleRate sets the audio sample rate in Hz.
func WithSampleRate(rate int) Option { return func(c *config) { c.sampleRate = rate } }

// WithBackground sets the color painted before each frame.
func WithBackground(col Color) Option { return func(c *config) { c.background = col } }

// WithDebug enables the on-screen debug overlay in interactive contexts.
func WithDebug(enabled bool) Option { return func(c *config) { c.debug = enabled } }

// WithAudio enables or disables the audio track. Enabled by default.
func WithAudio(enabled bool) Option { return func(c *config) { c.audio = enabled } }

// WithPartFrames caps each encoder part at n frames. When no part threshold
// is configured, parts split at one minute of 60 fps video.
func WithPartFrames(n int) Option { return func(c *config) { c.partFrames = n } }

// WithPartBytes caps each encoder part at n raw input bytes.
func WithPartBytes(n int64) Option { return func(c *config) { c.partBytes = n } }

// WithPartDuration caps each encoder part at d of video time.
func WithPartDuration(d time.Duration) Option { return func(c *config) { c.partDuration = d } }

// WithFFmpegPath overrides the encoder binary. Defaults to "ffmpeg" on PATH.
func WithFFmpegPath(path string) Option { return func(c *config) { c.ffmpegPath = path } }

// WithAudioFile overrides the audio track's sidecar WAV path.
func WithAudioFile(path string) Option { return func(c *config) { c.audioPath = path } }

// WithTitle sets the interactive window title.
func WithTitle(title string) Option { return func(c *config) { c.title = title } }

// WithRecording makes an interactive session also encode its frames to the
// given video path.
func WithRecording(path string) Option { return func(c *config) { c.record = path } }

func buildConfig(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.fps <= 0 {
		return cfg, fmt.Errorf("fps must be positive, got %d", cfg.fps)
	}
	if cfg.width <= 0 || cfg.height <= 0 {
		return cfg, fmt.Errorf("size must be positive, got %dx%d", cfg.width, cfg.height)
	}
	return cfg, nil
}

// NewAnimation creates a video render writing to path. Call Close to flush
// and finalize all parts on every exit path; RenderVideo does this for you.
func NewAnimation(path string, opts ...Option) (*Animation, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	a := &Animation{
		dc:  gg.NewContext(cfg.width, cfg.height),
		cfg: cfg,
	}
	proxyCfg := encoder.Config{
		Path:         path,
		Width:        cfg.width,
		Height:       cfg.height,
		FPS:          cfg.fps,
		PartFrames:   cfg.partFrames,
		PartBytes:    cfg.partBytes,
		PartDuration: cfg.partDuration,
		FFmpegPath:   cfg.ffmpegPath,
		AudioPath:    cfg.audioPath,
	}
	if cfg.audio {
		proxyCfg.SampleRate = cfg.sampleRate
		a.buffer = mixer.NewBuffer(cfg.sampleRate, cfg.tempo, cfg.fps, cfg.length)
		a.samples = mixer.New(cfg.sampleRate)
	}
	a.proxy = encoder.New(proxyCfg)
	logging.Logger().Info("animation started",
		"path", path, "fps", cfg.fps, "size", fmt.Sprintf("%dx%d", cfg.width, cfg.height))
	return a, nil
}

// Close flushes and closes all encoder parts, finalizes the audio track and
// releases the surface. It is idempotent; the first call wins.
func (a *Animation) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	if a.buffer != nil && a.proxy != nil {
		a.buffer.Finalize()
		if err := a.proxy.WriteAudio(a.buffer.Data()); err != nil {
			errs = append(errs, err)
		}
	}
	if a.proxy != nil {
		if err := a.proxy.Close(); err != nil {
			errs = append(errs, err)
		} else if err := a.proxy.Finalize(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.dc != nil {
		if err := a.dc.Close(); err != nil {
			errs = append(errs, err)
		}
		a.dc = nil
	}
	return errors.Join(errs...)
}

// RenderVideo runs fn against a new animation and closes it on all exit
// paths. The first error wins, whether from fn, the frame loop, or
// finalization.
func RenderVideo(path string, fn func(*Animation) error, opts ...Option) error {
	a, err := NewAnimation(path, opts...)
	if err != nil {
		return err
	}
	if err := fn(a); err != nil {
		a.Close()
		return err
	}
	if err := a.Err(); err != nil {
		a.Close()
		return err
	}
	return a.Close()
}

// NewImage creates a still-image render. Close writes the PNG.
func NewImage(path string, opts ...Option) (*Image, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Image{
		dc:   gg.NewContext(cfg.width, cfg.height),
		path: path,
		cfg:  cfg,
	}, nil
}

// Close serializes the surface to the image path and releases it.
// Idempotent: only the first call writes.
func (img *Image) Close() error {
	if img.closed {
		return nil
	}
	img.closed = true
	if img.dc == nil {
		return &SurfaceError{Op: "save"}
	}
	err := img.dc.SavePNG(img.path)
	img.dc.Close()
	img.dc = nil
	return err
}

// RenderImage runs fn against a new still image and writes it on success.
func RenderImage(path string, fn func(*Image) error, opts ...Option) error {
	img, err := NewImage(path, opts...)
	if err != nil {
		return err
	}
	if err := fn(img); err != nil {
		img.closed = true // do not write a partial image
		if img.dc != nil {
			img.dc.Close()
			img.dc = nil
		}
		return err
	}
	if err := img.Err(); err != nil {
		return err
	}
	return img.Close()
}
