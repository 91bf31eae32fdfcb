package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirm writes question to w and reads one answer from in. Only y or yes
// confirms; anything else, including end of input, declines.
func confirm(in *bufio.Scanner, w io.Writer, question string) bool {
	_, _ = fmt.Fprintf(w, "%s [y/N]: ", question)
	if !in.Scan() {
		_, _ = fmt.Fprintln(w)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(in.Text())) {
	case "y", "yes":
		return true
	}
	return false
}
