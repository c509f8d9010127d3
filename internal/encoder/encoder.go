// Package encoder owns the child video-encoding process. It feeds raw frames
// into ffmpeg over a pipe, rolls the output over into numbered parts when a
// configured threshold is exceeded, and combines parts (and the audio track)
// when the render finalizes. The frame/sample clock seen by callers is
// unbroken across rollovers; part boundaries are an implementation artifact.
package encoder

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkwell-anim/inkwell/internal/logging"
)

// defaultPartFrames caps a part at one minute of 60 fps video, matching the
// historical split point for very long renders.
const defaultPartFrames = 60 * 60

// ProcessError reports a child encoder process that exited abnormally. Parts
// closed before the failure remain intact and valid.
type ProcessError struct {
	Part int
	Err  error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("encoder process for part %d failed: %v", e.Part, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// ErrClosed is returned when writing to a proxy that has been closed.
var ErrClosed = errors.New("encoder proxy is closed")

// Config describes one render's encoder output.
type Config struct {
	Path   string // final output path
	Width  int
	Height int
	FPS    int

	// SampleRate enables the audio track when positive; AudioPath defaults
	// to the output base name with a .wav extension.
	SampleRate int
	AudioPath  string

	// Part thresholds. A rollover triggers when any configured threshold is
	// exceeded; frames are checked first, then bytes, then duration. When
	// none is set, PartFrames defaults to one minute of 60 fps video.
	PartFrames   int
	PartBytes    int64
	PartDuration time.Duration

	FFmpegPath string // defaults to "ffmpeg" on PATH

	// Command overrides the encoder invocation for a part. Used by tests to
	// substitute a pipe sink for ffmpeg.
	Command func(part int, path string) *exec.Cmd
}

// Proxy manages the sequence of encoder sessions for one render.
type Proxy struct {
	cfg  Config
	base string
	ext  string

	session   *session
	partIndex int
	parts     []string

	totalFrames  int
	audio        []float32
	audioSamples int
	closed       bool
}

// New creates a proxy. No process is spawned until the first frame is
// written.
func New(cfg Config) *Proxy {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.PartFrames == 0 && cfg.PartBytes == 0 && cfg.PartDuration == 0 {
		cfg.PartFrames = defaultPartFrames
	}
	ext := filepath.Ext(cfg.Path)
	base := strings.TrimSuffix(cfg.Path, ext)
	if cfg.SampleRate > 0 && cfg.AudioPath == "" {
		cfg.AudioPath = base + ".wav"
	}
	return &Proxy{cfg: cfg, base: base, ext: ext}
}

// Parts returns the output paths of all sessions created so far, in order.
func (p *Proxy) Parts() []string { return p.parts }

// FrameCount returns the total number of frames written across all parts.
func (p *Proxy) FrameCount() int { return p.totalFrames }

// WriteFrame feeds one raw frame to the open session, rolling over to a new
// part first if the session has exceeded a threshold. The write blocks when
// the child's input pipe is full; that is the only buffering in the proxy.
func (p *Proxy) WriteFrame(data []byte) error {
	if p.closed {
		return ErrClosed
	}
	if p.session != nil && p.exceeded() {
		if err := p.rollover(); err != nil {
			return err
		}
	}
	if p.session == nil {
		if err := p.start(); err != nil {
			return err
		}
	}
	if err := p.session.write(data); err != nil {
		return err
	}
	p.totalFrames++
	return nil
}

// WriteAudio appends samples to the render's audio track. Audio is a single
// unbroken stream muxed at finalize rather than split across parts; part
// thresholds apply to video frames only.
func (p *Proxy) WriteAudio(samples []float32) error {
	if p.closed {
		return ErrClosed
	}
	p.audio = append(p.audio, samples...)
	p.audioSamples += len(samples)
	return nil
}

func (p *Proxy) exceeded() bool {
	s := p.session
	if p.cfg.PartFrames > 0 && s.frames >= p.cfg.PartFrames {
		return true
	}
	if p.cfg.PartBytes > 0 && s.bytes >= p.cfg.PartBytes {
		return true
	}
	if p.cfg.PartDuration > 0 && p.cfg.FPS > 0 {
		elapsed := time.Duration(s.frames) * time.Second / time.Duration(p.cfg.FPS)
		if elapsed >= p.cfg.PartDuration {
			return true
		}
	}
	return false
}

func (p *Proxy) start() error {
	path := fmt.Sprintf("%s.%04d%s", p.base, p.partIndex, p.ext)
	s, err := spawn(p.command(p.partIndex, path), p.partIndex, path)
	if err != nil {
		return err
	}
	p.parts = append(p.parts, path)
	p.partIndex++
	p.session = s
	return nil
}

// rollover finalizes the current session and opens the next part. Frames
// written afterwards continue the same external clock without gap or
// duplication.
func (p *Proxy) rollover() error {
	logging.Logger().Info("rolling over encoder part",
		"part", p.session.part, "frames", p.session.frames, "bytes", p.session.bytes)
	if err := p.session.close(); err != nil {
		p.session = nil
		return err
	}
	p.session = nil
	return p.start()
}

func (p *Proxy) command(part int, path string) *exec.Cmd {
	if p.cfg.Command != nil {
		return p.cfg.Command(part, path)
	}
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-vcodec", "rawvideo",
		"-s", fmt.Sprintf("%dx%d", p.cfg.Width, p.cfg.Height),
		"-pix_fmt", "rgba",
		"-r", fmt.Sprintf("%d", p.cfg.FPS),
		"-i", "-",
		"-threads", "0",
		"-preset", "fast",
		"-an",
		"-vcodec", "libx264",
		"-crf", "17",
		"-pix_fmt", "yuv420p",
		"-f", "mp4",
		path,
	}
	return exec.Command(p.cfg.FFmpegPath, args...)
}

// Close finalizes the open session, if any. Closing an already-closed proxy
// is a no-op, not an error.
func (p *Proxy) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if p.session == nil {
		return nil
	}
	err := p.session.close()
	p.session = nil
	return err
}

// Finalize combines the written parts into the configured output path and,
// when an audio track was written, muxes it in. Call after Close.
func (p *Proxy) Finalize() error {
	if len(p.parts) == 0 {
		return nil
	}
	videoPath := p.cfg.Path
	hasAudio := p.audioSamples > 0 && p.cfg.SampleRate > 0
	if hasAudio {
		videoPath = p.base + ".video" + p.ext
	}
	if err := p.combineParts(videoPath); err != nil {
		return err
	}
	if !hasAudio {
		return nil
	}
	if err := writeWAV(p.cfg.AudioPath, p.audio, p.cfg.SampleRate); err != nil {
		return err
	}
	return p.mux(videoPath, p.cfg.AudioPath, p.cfg.Path)
}

// combineParts renames a lone part to the output path, or stream-copies the
// numbered parts into it in order when the render split.
func (p *Proxy) combineParts(out string) error {
	if len(p.parts) == 1 {
		return os.Rename(p.parts[0], out)
	}
	list := p.base + ".parts.txt"
	var b strings.Builder
	for _, part := range p.parts {
		fmt.Fprintf(&b, "file '%s'\n", part)
	}
	if err := os.WriteFile(list, []byte(b.String()), 0o644); err != nil {
		return err
	}
	defer os.Remove(list)
	cmd := exec.Command(p.cfg.FFmpegPath, "-y", "-f", "concat", "-safe", "0", "-i", list, "-c", "copy", out)
	if outBytes, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("combining %d parts: %w: %s", len(p.parts), err, tail(outBytes))
	}
	logging.Logger().Info("combined encoder parts", "parts", len(p.parts), "output", out)
	return nil
}

func (p *Proxy) mux(video, audio, out string) error {
	cmd := exec.Command(p.cfg.FFmpegPath,
		"-y", "-i", video, "-i", audio,
		"-c:v", "copy", "-c:a", "aac", "-shortest", out)
	if outBytes, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("muxing audio: %w: %s", err, tail(outBytes))
	}
	logging.Logger().Info("muxed audio track", "video", video, "audio", audio, "output", out)
	return nil
}

func tail(b []byte) string {
	const max = 512
	if len(b) > max {
		b = b[len(b)-max:]
	}
	return strings.TrimSpace(string(b))
}
