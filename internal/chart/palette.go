package chart

import (
	"fmt"
	"math"
	"strconv"
)

// Palette is handed out first, in order.
var Palette = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF",
	"#FF9F40", "#8AC249", "#EA5F89", "#00D1B2", "#958AF7",
}

const goldenAngle = 137.5

// hueCycle is the number of golden-angle steps before hues repeat:
// 144 * 137.5 = 55 * 360.
const hueCycle = 144

// cycleLightness varies lightness between hue cycles.
var cycleLightness = []int{60, 45, 70}

// Colors returns n colours: the palette first, then hues spaced by the
// golden angle so that any number of categories stays distinguishable.
func Colors(n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n && i < len(Palette); i++ {
		out = append(out, Palette[i])
	}
	for i := 0; len(out) < n; i++ {
		out = append(out, Hue(i))
	}
	return out
}

// Hue returns the i-th generated overflow colour as a CSS hsl() value. The
// first cycle lands on multiples of 2.5 degrees; later cycles shift by a
// distinct fraction of that step and change lightness, so no value repeats.
func Hue(i int) string {
	cycle := i / hueCycle
	h := math.Mod(float64(i)*goldenAngle, 360) + 2.5*radicalInverse(cycle)
	l := cycleLightness[cycle%len(cycleLightness)]
	return fmt.Sprintf("hsl(%s, 70%%, %d%%)", strconv.FormatFloat(h, 'f', -1, 64), l)
}

// radicalInverse mirrors the binary digits of n behind the point, giving a
// distinct value in [0, 1) for every n: 0, 0.5, 0.25, 0.75, ...
func radicalInverse(n int) float64 {
	v, f := 0.0, 0.5
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			v += f
		}
		f /= 2
	}
	return v
}
