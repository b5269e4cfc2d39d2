package cli

import (
	"fmt"
	"io"

	"github.com/NikitaCOEUR/bft/internal/quoting"
)

// Quote prints each word quoted for reuse as a single bash word.
func Quote(words []string, w io.Writer) error {
	out := writer(w)
	for _, word := range words {
		if _, err := fmt.Fprintln(out, quoting.Quote(word)); err != nil {
			return err
		}
	}
	return nil
}

// Unquote prints each word with its bash quoting removed.
func Unquote(words []string, w io.Writer) error {
	out := writer(w)
	for _, word := range words {
		if _, err := fmt.Fprintln(out, quoting.Unquote(word)); err != nil {
			return err
		}
	}
	return nil
}
