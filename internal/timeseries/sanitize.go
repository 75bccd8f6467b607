package timeseries

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// pathUnsafe are the characters replaced when a product name becomes a
// file name. Covers POSIX separators plus the Windows-reserved set.
const pathUnsafe = `/\:*?"<>|`

// SanitizeProductKey turns a product name into a safe file name. Names
// are NFC-normalized first so that two Unicode spellings of the same
// product map to the same file.
func SanitizeProductKey(name string) string {
	name = norm.NFC.String(name)

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(pathUnsafe, r) {
			b.WriteByte('_')
			continue
		}
		b.WriteRune(r)
	}

	out := b.String()
	// A leading dot would hide the file; not acceptable for data the
	// frontend lists by globbing.
	if strings.HasPrefix(out, ".") {
		out = "_" + out[1:]
	}
	return out
}
