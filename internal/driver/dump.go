package driver

import (
	"fmt"
	"io"
	"strings"
)

var abstractBanner = strings.Repeat("=", 20) + " ABSTRACT " + strings.Repeat("=", 20)

// writeDump appends the original and abstracted text of one unit.
func writeDump(w io.Writer, name string, src []byte, text string) error {
	_, err := fmt.Fprintf(w, "---- %s ----\n%s\n%s\n%s\n\n", name, src, abstractBanner, text)
	return err
}
