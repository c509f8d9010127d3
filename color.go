package inkwell

import "github.com/gogpu/gg"

// Color is an RGBA color with components in [0, 1].
type Color = gg.RGBA

var (
	Black   = gg.Black
	White   = gg.White
	Red     = gg.Red
	Green   = gg.Green
	Blue    = gg.Blue
	Yellow  = gg.Yellow
	Cyan    = gg.Cyan
	Magenta = gg.Magenta

	Purple = gg.RGB(0.5, 0, 0.5)
	Orange = gg.RGB(1, 0.5, 0)
	Brown  = gg.RGB(0.6, 0.3, 0.1)

	Gray   = gg.RGB(0.5, 0.5, 0.5)
	Gray10 = gg.RGB(0.1, 0.1, 0.1)
	Gray20 = gg.RGB(0.2, 0.2, 0.2)
	Gray30 = gg.RGB(0.3, 0.3, 0.3)
	Gray40 = gg.RGB(0.4, 0.4, 0.4)
	Gray50 = gg.RGB(0.5, 0.5, 0.5)
	Gray60 = gg.RGB(0.6, 0.6, 0.6)
	Gray70 = gg.RGB(0.7, 0.7, 0.7)
	Gray80 = gg.RGB(0.8, 0.8, 0.8)
	Gray90 = gg.RGB(0.9, 0.9, 0.9)
)

// RGB255 converts 0-255 component values to a Color.
func RGB255(r, g, b int) Color {
	return gg.RGB(float64(r)/255, float64(g)/255, float64(b)/255)
}
