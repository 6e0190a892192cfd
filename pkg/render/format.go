package render

import (
	"math"
	"strconv"
	"strings"
)

const (
	fontCharWidth = 0.55 // average glyph width as a fraction of font size
	ellipsis      = "..."
)

// FormatValue rounds v to an integer and groups thousands with spaces:
// 1234567.8 becomes "1 234 568".
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if s == "0" {
		neg = false
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatPercent renders a share (0.25) as a one-decimal percentage ("25.0").
func FormatPercent(share float64) string {
	if math.IsNaN(share) || math.IsInf(share, 0) {
		share = 0
	}
	return strconv.FormatFloat(share*100, 'f', 1, 64)
}

// PercentLine renders the share text under a box: the share of the total,
// followed by the share of the parent for nodes deeper than the first level.
func PercentLine(ofTotal, ofParent float64, depth int) string {
	if depth <= 1 {
		return FormatPercent(ofTotal) + " %"
	}
	return FormatPercent(ofTotal) + " | " + FormatPercent(ofParent) + " %"
}

// Bar classes.
const (
	BarWhite     = "white"
	BarHalfGreen = "halfGreen"
	BarFullGreen = "fullGreen"
	BarHalfRed   = "halfRed"
	BarFullRed   = "fullRed"
)

// Bar describes a share bar: its CSS class, the fraction of the box width it
// fills and whether it grows right to left (negative shares).
type Bar struct {
	Class   string
	Ratio   float64
	Flipped bool
}

// ShareBar classifies a share. Shares above 1 saturate green, shares between
// -1 and 0 draw flipped in red, shares below -1 saturate red. Undefined
// shares draw an empty white bar.
func ShareBar(share float64) Bar {
	switch {
	case math.IsNaN(share):
		return Bar{Class: BarWhite}
	case share > 1:
		return Bar{Class: BarFullGreen, Ratio: 1}
	case share >= 0:
		return Bar{Class: BarHalfGreen, Ratio: share}
	case share >= -1:
		return Bar{Class: BarHalfRed, Ratio: -share, Flipped: true}
	default:
		return Bar{Class: BarFullRed, Ratio: 1, Flipped: true}
	}
}

// Truncate shortens s to n-2 runes followed by "..." when it has more than
// n runes.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n < 3 || len(r) <= n {
		return s
	}
	return string(r[:n-2]) + ellipsis
}

// TextWidth estimates the rendered width of s at the given font size.
func TextWidth(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * fontCharWidth
}

// FitLabel trims s until its estimated width fits into width, appending
// "..." when anything was cut.
func FitLabel(s string, width, fontSize float64) string {
	if TextWidth(s, fontSize) <= width {
		return s
	}
	r := []rune(s)
	for n := len(r) - 1; n > 0; n-- {
		candidate := string(r[:n]) + ellipsis
		if TextWidth(candidate, fontSize) <= width {
			return candidate
		}
	}
	return ellipsis
}
