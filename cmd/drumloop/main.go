// Command drumloop renders a beat-quantized pattern of synthesized drum
// voices alongside a pulsing visual, then runs the mix through the reverb.
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
		out     = flag.String("out", "drumloop.mp4", "output video path")
		seconds = flag.Float64("seconds", 8, "video length")
		bpm     = flag.Float64("bpm", 120, "tempo")
		rate    = flag.Int("sample-rate", 44100, "audio sample rate")
	)
	flag.Parse()

	err := inkwell.RenderVideo(*out, func(a *inkwell.Animation) error {
		kick, err := inkwell.Tone(inkwell.Sine, "C2", *rate, 0.12)
		if err != nil {
			return err
		}
		snare, err := inkwell.Tone(inkwell.Square, "E3", *rate, 0.08)
		if err != nil {
			return err
		}
		hat, err := inkwell.Tone(inkwell.Triangle, "A6", *rate, 0.03)
		if err != nil {
			return err
		}

		a.OnSixteenths(kick, []bool{true, false, false, false}, 0.9)
		a.OnSixteenths(snare, []bool{false, false, false, false, true, false, false, false}, 0.6)
		a.OnSixteenths(hat, []bool{true, true}, 0.25)
		a.Reverb(0.08, 0.4, 3)

		w, h := a.Size()
		cx, cy := float64(w)/2, float64(h)/2
		beat := 60 / *bpm
		for range a.Frames(*seconds) {
			dc := a.Context()
			phase := math.Mod(a.Time(), beat) / beat
			r := 40 + 60*(1-phase)

			dc.SetColor(inkwell.Purple.Color())
			dc.DrawCircle(cx, cy, r)
			dc.Fill()
			dc.SetColor(inkwell.White.Color())
			dc.SetLineWidth(3)
			dc.DrawCircle(cx, cy, r)
			dc.Stroke()
		}
		return a.Err()
	},
		inkwell.WithLength(*seconds),
		inkwell.WithTempo(*bpm),
		inkwell.WithSampleRate(*rate),
		inkwell.WithBackground(inkwell.Black),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", *out)
}
