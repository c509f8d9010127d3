// Command sketchpad opens an interactive window. Mouse movement draws a
// trail, clicks strike a tone at the click height, Escape quits. With -record
// the session is also encoded to a video file.
package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/inkwell-anim/inkwell"
)

func main() {
	var (
		record = flag.String("record", "", "also encode the session to this video path")
		rate   = flag.Int("sample-rate", 44100, "audio sample rate")
	)
	flag.Parse()

	opts := []inkwell.Option{
		inkwell.WithSize(800, 600),
		inkwell.WithTitle("sketchpad"),
		inkwell.WithBackground(inkwell.Gray10),
		inkwell.WithSampleRate(*rate),
		inkwell.WithDebug(true),
	}
	if *record != "" {
		opts = append(opts, inkwell.WithRecording(*record))
	}

	var trail []struct{ x, y float64 }
	notes := []string{"C4", "E4", "G4", "C5"}

	err := inkwell.RunInteractive(func(it *inkwell.Interactive) error {
		for _, ev := range it.Events() {
			switch ev.Kind {
			case inkwell.KeyPressed:
				switch ev.Key {
				case ebiten.KeyEscape:
					it.Stop()
				case ebiten.KeyC:
					trail = nil
				}
			case inkwell.MouseMoved:
				trail = append(trail, struct{ x, y float64 }{float64(ev.X), float64(ev.Y)})
				if len(trail) > 400 {
					trail = trail[len(trail)-400:]
				}
			case inkwell.MousePressed:
				idx := ev.Y * len(notes) / 600
				if idx < 0 {
					idx = 0
				}
				if idx >= len(notes) {
					idx = len(notes) - 1
				}
				v, err := inkwell.Tone(inkwell.Sine, notes[idx], *rate, 0.3)
				if err != nil {
					return err
				}
				it.Play(v, 0.5)
			}
		}

		dc := it.Context()
		for i, p := range trail {
			c := inkwell.Gray30.Lerp(inkwell.Cyan, float64(i)/float64(len(trail)))
			dc.SetColor(c.Color())
			dc.DrawCircle(p.x, p.y, 4)
			dc.Fill()
		}
		return nil
	}, opts...)
	if err != nil {
		log.Fatal(err)
	}
}
