package display

import "fmt"

type ansiColor int

var Color = struct {
	Red, Green, Yellow, Blue, Magenta, Cyan ansiColor
}{
	Red:     31,
	Green:   32,
	Yellow:  33,
	Blue:    34,
	Magenta: 35,
	Cyan:    36,
}

// Colorize wraps s in the escape sequences for c.
func Colorize(c ansiColor, s string) string {
	return fmt.Sprintf("\x1b[%dm%s\x1b[0m", c, s)
}
