// Command sinewave renders a short demo video: a dot riding a sine wave,
// with a matching tone on the audio track.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"github.com/inkwell-anim/inkwell"
)

func main() {
	var (
		out     = flag.String("out", "sinewave.mp4", "output video path")
		seconds = flag.Float64("seconds", 4, "video length")
		fps     = flag.Int("fps", 60, "frame rate")
		width   = flag.Int("width", 640, "video width")
		height  = flag.Int("height", 360, "video height")
		rate    = flag.Int("sample-rate", 44100, "audio sample rate")
	)
	flag.Parse()

	err := inkwell.RenderVideo(*out, func(a *inkwell.Animation) error {
		tone, err := inkwell.Tone(inkwell.Sine, "A4", *rate, *seconds)
		if err != nil {
			return err
		}
		a.MixAtFrame(tone, 0.4)

		w, h := float64(*width), float64(*height)
		for range a.Frames(*seconds) {
			dc := a.Context()
			t := a.Time()

			dc.SetColor(inkwell.Gray30.Color())
			dc.SetLineWidth(2)
			dc.DrawLine(0, h/2, w, h/2)
			dc.Stroke()

			dc.SetColor(inkwell.Cyan.Color())
			for x := 0.0; x < w; x += 4 {
				y := h/2 + h/4*math.Sin(2*math.Pi*(x/w+t))
				dc.DrawCircle(x, y, 1.5)
				dc.Fill()
			}

			px := math.Mod(t/(*seconds), 1) * w
			py := h/2 + h/4*math.Sin(2*math.Pi*(px/w+t))
			dc.SetColor(inkwell.Red.Color())
			dc.DrawCircle(px, py, 8)
			dc.Fill()
		}
		return a.Err()
	},
		inkwell.WithFPS(*fps),
		inkwell.WithSize(*width, *height),
		inkwell.WithLength(*seconds),
		inkwell.WithSampleRate(*rate),
		inkwell.WithBackground(inkwell.Gray10),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", *out)
}
