package parser

import (
	"strconv"
	"strings"
)

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOctal(r rune) bool {
	return r >= '0' && r <= '7'
}

// ansiEscapeEnd returns the end offset of the $'...' escape starting at src[i].
func ansiEscapeEnd(src []rune, i int) int {
	if i+1 >= len(src) {
		return i + 1
	}
	digits := func(from, limit int, ok func(rune) bool) int {
		j := from
		for j < len(src) && j-from < limit && ok(src[j]) {
			j++
		}
		return j
	}
	switch c := src[i+1]; {
	case c == 'x':
		return digits(i+2, 2, isHex)
	case c == 'u':
		return digits(i+2, 4, isHex)
	case c == 'U':
		return digits(i+2, 8, isHex)
	case isOctal(c):
		return digits(i+1, 3, isOctal)
	case c == 'c' && i+2 < len(src):
		return i + 3
	default:
		return i + 2
	}
}

// decodeANSIEscape writes the decoded form of one backslash sequence.
func decodeANSIEscape(val *strings.Builder, seq []rune) {
	if len(seq) < 2 {
		val.WriteRune('\\')
		return
	}
	switch c := seq[1]; c {
	case 'a':
		val.WriteByte('\a')
	case 'b':
		val.WriteByte('\b')
	case 'e', 'E':
		val.WriteByte(0x1b)
	case 'f':
		val.WriteByte('\f')
	case 'n':
		val.WriteByte('\n')
	case 'r':
		val.WriteByte('\r')
	case 't':
		val.WriteByte('\t')
	case 'v':
		val.WriteByte('\v')
	case '\\', '\'', '"', '?':
		val.WriteRune(c)
	case 'x':
		if len(seq) == 2 {
			val.WriteString(`\x`)
			return
		}
		n, _ := strconv.ParseUint(string(seq[2:]), 16, 8)
		val.WriteByte(byte(n))
	case 'u', 'U':
		if len(seq) == 2 {
			val.WriteRune('\\')
			val.WriteRune(c)
			return
		}
		n, _ := strconv.ParseUint(string(seq[2:]), 16, 32)
		val.WriteRune(rune(n))
	case 'c':
		if len(seq) < 3 {
			val.WriteString(`\c`)
			return
		}
		val.WriteByte(byte(seq[2]) & 0x1f)
	default:
		if isOctal(c) {
			n, _ := strconv.ParseUint(string(seq[1:]), 8, 16)
			val.WriteByte(byte(n))
			return
		}
		val.WriteRune('\\')
		val.WriteRune(c)
	}
}
