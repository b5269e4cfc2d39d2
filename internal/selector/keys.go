package selector

import (
	"bufio"
	"unicode"
)

type keyKind int

const (
	keyNone keyKind = iota
	keyUp
	keyDown
	keyEnter
	keyCancel
	keyBackspace
	keyRune
)

type key struct {
	kind keyKind
	r    rune
}

// readKey decodes one key press from a raw-mode terminal.
func readKey(r *bufio.Reader) (key, error) {
	c, _, err := r.ReadRune()
	if err != nil {
		return key{}, err
	}

	switch c {
	case '\r', '\n':
		return key{kind: keyEnter}, nil
	case 0x03, 0x07: // Ctrl-C, Ctrl-G
		return key{kind: keyCancel}, nil
	case 0x0e, '\t': // Ctrl-N
		return key{kind: keyDown}, nil
	case 0x10: // Ctrl-P
		return key{kind: keyUp}, nil
	case 0x7f, 0x08:
		return key{kind: keyBackspace}, nil
	case 0x1b:
		return readEscape(r)
	}

	if unicode.IsPrint(c) {
		return key{kind: keyRune, r: c}, nil
	}
	return key{kind: keyNone}, nil
}

// readEscape handles a lone Esc and the CSI / SS3 arrow sequences.
func readEscape(r *bufio.Reader) (key, error) {
	if r.Buffered() == 0 {
		return key{kind: keyCancel}, nil
	}
	next, err := r.ReadByte()
	if err != nil {
		return key{kind: keyCancel}, nil
	}
	if next != '[' && next != 'O' {
		return key{kind: keyNone}, nil
	}

	// Skip parameters such as "1;5" up to the final byte.
	for {
		b, err := r.ReadByte()
		if err != nil {
			return key{kind: keyNone}, nil
		}
		if b >= 0x40 && b <= 0x7e {
			switch b {
			case 'A':
				return key{kind: keyUp}, nil
			case 'B':
				return key{kind: keyDown}, nil
			}
			return key{kind: keyNone}, nil
		}
	}
}
