// Package inkwell is a 2D animation and rendering toolkit. A frame loop
// drives a drawing surface frame by frame, pipes raw pixel buffers into an
// external video encoder (splitting very long outputs into parts without
// breaking the frame clock), and mixes sample-accurate audio alongside.
// Output is a still image, an interactive window, or an encoded video file.
package inkwell

import (
	"image"

	"github.com/gogpu/gg"

	"github.com/inkwell-anim/inkwell/internal/encoder"
	"github.com/inkwell-anim/inkwell/internal/mixer"
)

// Animation is a video (and optionally audio) render in progress. The
// drawing surface is shared with caller drawing code between frames; the
// frame clock, encoder and audio buffer are owned here.
type Animation struct {
	dc      *gg.Context
	proxy   *encoder.Proxy
	buffer  *mixer.Buffer
	samples *mixer.Mixer
	cfg     config
	frame   int
	err     error
	closed  bool
}

// Context returns the drawing surface for caller-supplied drawing logic.
func (a *Animation) Context() *gg.Context { return a.dc }

// Size returns the surface dimensions in pixels.
func (a *Animation) Size() (int, int) { return a.cfg.width, a.cfg.height }

// FPS returns the frame rate.
func (a *Animation) FPS() int { return a.cfg.fps }

// Frame returns the current frame index, monotonic over the render's life.
func (a *Animation) Frame() int { return a.frame }

// Time returns the current wall-clock time of the render: frame / fps.
func (a *Animation) Time() float64 { return FrameTime(a.frame, a.cfg.fps) }

// Err returns the first error that aborted the frame sequence, if any.
// Check it after a Frames loop ends.
func (a *Animation) Err() error { return a.err }

// capture snapshots the surface, hands the snapshot to the encoder, and
// advances the clock. The snapshot is an independent copy; the surface may
// be drawn on again immediately.
func (a *Animation) capture() error {
	pix, err := a.snapshot()
	if err != nil {
		return err
	}
	if a.proxy != nil {
		if err := a.proxy.WriteFrame(pix); err != nil {
			return err
		}
	}
	a.frame++
	if a.buffer != nil {
		a.buffer.SetFrame(a.frame)
	}
	return nil
}

func (a *Animation) snapshot() ([]byte, error) {
	if a.dc == nil {
		return nil, &SurfaceError{Op: "capture"}
	}
	_ = a.dc.FlushGPU() // flush pending GPU shapes before reading pixels
	img, ok := a.dc.Image().(*image.RGBA)
	if !ok {
		return nil, &SurfaceError{Op: "capture"}
	}
	return img.Pix, nil
}

// Image is a still-image render. Drawing happens inside a OneFrame loop;
// Close serializes the surface to a PNG at the configured path.
type Image struct {
	dc     *gg.Context
	path   string
	cfg    config
	err    error
	closed bool
}

// Context returns the drawing surface.
func (img *Image) Context() *gg.Context { return img.dc }

// Size returns the surface dimensions in pixels.
func (img *Image) Size() (int, int) { return img.cfg.width, img.cfg.height }

// Err returns the first error recorded by the frame loop, if any.
func (img *Image) Err() error { return img.err }
