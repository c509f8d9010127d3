package inkwell

import (
	"iter"
)

// Frames yields one frame index per iteration for seconds of video. Each
// step paints the background, hands control to the loop body for drawing,
// then captures the surface and forwards it to the encoder. The yielded
// index is the render-global frame number.
//
// The sequence aborts early if the surface becomes invalid or the encoder
// fails; check Err after the loop.
//
//	for frame := range anim.Frames(2.0) {
//		dc := anim.Context()
//		dc.SetColor(inkwell.Red.Color())
//		dc.DrawCircle(100, 100, 50)
//		dc.Fill()
//	}
//	if err := anim.Err(); err != nil { ... }
func (a *Animation) Frames(seconds float64) iter.Seq[int] {
	return func(yield func(int) bool) {
		total := int(seconds * float64(a.cfg.fps))
		for i := 0; i < total; i++ {
			if a.err != nil || a.closed {
				return
			}
			if a.dc == nil {
				a.err = &SurfaceError{Op: "paint"}
				return
			}
			a.dc.Push()
			a.dc.ClearWithColor(a.cfg.background)
			if !yield(a.frame) {
				a.dc.Pop()
				return
			}
			a.dc.Pop()
			if err := a.capture(); err != nil {
				a.err = err
				return
			}
		}
	}
}

// AllFrames yields frames until the configured length is reached, or forever
// when no length was set (terminate by breaking out of the loop).
func (a *Animation) AllFrames() iter.Seq[int] {
	return func(yield func(int) bool) {
		for {
			if a.err != nil || a.closed {
				return
			}
			if a.cfg.length > 0 && a.Time() >= a.cfg.length {
				return
			}
			if a.dc == nil {
				a.err = &SurfaceError{Op: "paint"}
				return
			}
			a.dc.Push()
			a.dc.ClearWithColor(a.cfg.background)
			if !yield(a.frame) {
				a.dc.Pop()
				return
			}
			a.dc.Pop()
			if err := a.capture(); err != nil {
				a.err = err
				return
			}
		}
	}
}

// Wait holds the last rendered frame on screen for the given duration: the
// current surface contents are re-sent for every frame of the interval
// without invoking any drawing logic. The held frames are pixel-identical
// to the frame that preceded the wait.
func (a *Animation) Wait(seconds float64) error {
	n := int(seconds * float64(a.cfg.fps))
	if n <= 0 {
		return nil
	}
	pix, err := a.snapshot()
	if err != nil {
		a.err = err
		return err
	}
	for i := 0; i < n; i++ {
		if a.proxy != nil {
			if err := a.proxy.WriteFrame(pix); err != nil {
				a.err = err
				return err
			}
		}
		a.frame++
	}
	if a.buffer != nil {
		a.buffer.SetFrame(a.frame)
	}
	return nil
}

// OneFrame performs exactly one paint–draw–capture cycle for a still image.
// It never touches a video encoder.
func (img *Image) OneFrame() iter.Seq[int] {
	return func(yield func(int) bool) {
		if img.err != nil || img.closed {
			return
		}
		if img.dc == nil {
			img.err = &SurfaceError{Op: "paint"}
			return
		}
		img.dc.Push()
		img.dc.ClearWithColor(img.cfg.background)
		yield(0)
		img.dc.Pop()
	}
}

// Element draws one frame's worth of an animated item. It reports false when
// the element has finished and should be dropped from the render.
type Element func(frame int) bool

// RenderElements advances every element once per frame for the given
// duration, dropping elements as they finish. It returns the driver error,
// if any.
func (a *Animation) RenderElements(seconds float64, elements ...Element) error {
	active := make([]Element, len(elements))
	copy(active, elements)
	for frame := range a.Frames(seconds) {
		for i, el := range active {
			if el == nil {
				continue
			}
			if !el(frame) {
				active[i] = nil
			}
		}
	}
	return a.Err()
}

// RenderElementsOnce advances every element exactly once against a still
// image.
func (img *Image) RenderElements(elements ...Element) error {
	for frame := range img.OneFrame() {
		for _, el := range elements {
			if el != nil {
				el(frame)
			}
		}
	}
	return img.Err()
}
