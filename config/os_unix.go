//go:build !windows

package config

import (
	"os"
	"strings"

	"golang.org/x/term"

	"stylo/misc"
)

// OutputFileName derives page file name from its title by dropping
// characters not allowed in file names.
func OutputFileName(title, ext string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if strings.ContainsRune(string(os.PathSeparator)+string(os.PathListSeparator), sym) {
			return -1
		}
		return sym
	}, strings.TrimSpace(title)), ".")
	if len(out) == 0 {
		out = misc.GetAppName()
	}
	return out + ext
}

// EnableColorOutput checks if colorized output is possible.
func EnableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
