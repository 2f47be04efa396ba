package draw

import (
	"strconv"
	"strings"
)

// Color is an entry of the terminal palette. ColorNone marks an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorGray
	ColorDim
	ColorCyan
	ColorBlue
	ColorYellow
	ColorOrange
	ColorRed
	ColorBrown
	ColorMagenta

	colorCount
)

// ColorReset restores the terminal's default attributes.
const ColorReset = "\033[0m"

var palette = [colorCount]struct {
	code    string
	r, g, b int
}{
	ColorNone:    {"\033[39m", 0, 0, 0},
	ColorWhite:   {"\033[97m", 255, 255, 255},
	ColorGray:    {"\033[37m", 170, 170, 170},
	ColorDim:     {"\033[90m", 90, 90, 90},
	ColorCyan:    {"\033[96m", 0, 255, 255},
	ColorBlue:    {"\033[94m", 0, 153, 255},
	ColorYellow:  {"\033[93m", 255, 255, 0},
	ColorOrange:  {"\033[38;5;214m", 255, 170, 0},
	ColorRed:     {"\033[91m", 255, 0, 0},
	ColorBrown:   {"\033[38;5;130m", 175, 95, 0},
	ColorMagenta: {"\033[95m", 255, 0, 255},
}

// Code returns the ANSI foreground sequence of c.
func (c Color) Code() string {
	if c >= colorCount {
		return palette[ColorWhite].code
	}
	return palette[c].code
}

// HexColor maps a "#rrggbb" string to the closest palette color.
// Malformed input maps to white.
func HexColor(hex string) Color {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return ColorWhite
	}
	r, g, b := int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)

	best, bestDist := ColorWhite, -1
	for c := ColorWhite; c < colorCount; c++ {
		p := palette[c]
		dr, dg, db := r-p.r, g-p.g, b-p.b
		if d := dr*dr + dg*dg + db*db; bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// Brightness picks a shade of white for a brightness in [0, 1].
func Brightness(v float64) Color {
	switch {
	case v >= 0.75:
		return ColorWhite
	case v >= 0.5:
		return ColorGray
	default:
		return ColorDim
	}
}
