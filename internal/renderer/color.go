package renderer

import "fmt"

// sgrFg returns the SGR parameter sequence for setting a foreground color.
// Accepts "#rrggbb" truecolor or a handful of basic color names used by the
// teacher's palette; empty input clears to default.
func sgrFg(color string) string {
	return sgrColor(color, 38, 30)
}

func sgrBg(color string) string {
	return sgrColor(color, 48, 40)
}

func sgrColor(color string, trueBase, basicBase int) string {
	if color == "" {
		return ""
	}
	if len(color) == 7 && color[0] == '#' {
		r := hexByte(color[1], color[2])
		g := hexByte(color[3], color[4])
		b := hexByte(color[5], color[6])
		return fmt.Sprintf("%d;2;%d;%d;%d", trueBase, r, g, b)
	}
	if idx, ok := basicColorIndex(color); ok {
		return fmt.Sprintf("%d", basicBase+idx)
	}
	return ""
}

func basicColorIndex(name string) (int, bool) {
	names := []string{"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white"}
	for i, n := range names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func hexByte(hi, lo byte) int {
	return hexNibble(hi)<<4 | hexNibble(lo)
}

func hexNibble(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}
