package output

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ColorMode is the value of the --color flag.
type ColorMode string

// Supported color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a --color value. Empty means auto.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	default:
		return "", NewUserError(fmt.Sprintf("invalid --color %q: want auto, always or never", s))
	}
}

// Enabled reports whether styles apply to a writer whose terminal state is
// tty.
func (m ColorMode) Enabled(tty bool) bool {
	switch m {
	case ColorNever:
		return false
	case ColorAlways:
		return true
	default:
		return tty
	}
}

// IsTTY reports whether writer is a character device such as a terminal.
func IsTTY(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	stat, err := file.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}
