package source

import (
	"bytes"
	"path/filepath"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// decodeBOM strips a UTF-8 BOM and transcodes UTF-16 input announced by a BOM into UTF-8.
// Content without a BOM passes through untouched.
func decodeBOM(content []byte) ([]byte, bool, error) {
	if !hasBOM(content) {
		return content, false, nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(transform.Nop), content)
	if err != nil {
		return nil, true, err
	}
	return out, true, nil
}

func hasBOM(content []byte) bool {
	return bytes.HasPrefix(content, bomUTF8) ||
		bytes.HasPrefix(content, bomUTF16BE) ||
		bytes.HasPrefix(content, bomUTF16LE)
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	if p == "" {
		return p
	}
	return filepath.ToSlash(filepath.Clean(p))
}
