// Command still renders a single PNG: concentric rings with tangent lines,
// exercising the geometry helpers.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/gogpu/gg"

	"github.com/inkwell-anim/inkwell"
)

func main() {
	var (
		out    = flag.String("out", "still.png", "output image path")
		width  = flag.Int("width", 640, "image width")
		height = flag.Int("height", 640, "image height")
	)
	flag.Parse()

	err := inkwell.RenderImage(*out, func(img *inkwell.Image) error {
		w, h := img.Size()
		center := gg.Pt(float64(w)/2, float64(h)/2)
		for range img.OneFrame() {
			dc := img.Context()

			for i, r := range inkwell.LinearInterpolate(40, float64(w)/2-20, 6) {
				shade := inkwell.Gray30.Lerp(inkwell.Cyan, float64(i)/5)
				dc.SetColor(shade.Color())
				dc.SetLineWidth(3)
				dc.DrawCircle(center.X, center.Y, r)
				dc.Stroke()
			}

			eye := gg.Pt(40, 40)
			if t1, t2, ok := inkwell.TangentPoints(eye, center, 120); ok {
				dc.SetColor(inkwell.Orange.Color())
				dc.SetLineWidth(2)
				dc.DrawLine(eye.X, eye.Y, t1.X, t1.Y)
				dc.Stroke()
				dc.DrawLine(eye.X, eye.Y, t2.X, t2.Y)
				dc.Stroke()
				dc.SetColor(inkwell.Red.Color())
				dc.DrawCircle(eye.X, eye.Y, 5)
				dc.Fill()
			}
		}
		return img.Err()
	},
		inkwell.WithSize(*width, *height),
		inkwell.WithBackground(inkwell.Gray10),
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", *out)
}
