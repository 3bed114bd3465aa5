package models

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Repr quotes p for traces, escaping anything outside printable ASCII.
// Output longer than strsize is cut and marked with "...".
func Repr(p []byte, strsize int) string {
	var b strings.Builder
	cut := false
	for _, c := range p {
		var piece string
		if c >= 0x20 && c <= 0x7e && c != '"' && c != '\\' {
			piece = string(rune(c))
		} else {
			piece = fmt.Sprintf("\\x%02x", c)
		}
		if strsize > 0 && b.Len()+len(piece) > strsize-3 {
			cut = true
			break
		}
		b.WriteString(piece)
	}
	if cut {
		return "\"" + b.String() + "\"..."
	}
	return "\"" + b.String() + "\""
}

const dumpLine = 16

// HexDump formats guest memory as lines of two 64-bit words and an ASCII column.
func HexDump(base uint64, mem []byte) []string {
	var out []string
	for off := 0; off < len(mem); off += dumpLine {
		line := mem[off:]
		if len(line) > dumpLine {
			line = line[:dumpLine]
		}
		words := hex.EncodeToString(line)
		if len(words) > 16 {
			words = words[:16] + " " + words[16:]
		}
		ascii := make([]byte, len(line))
		for i, c := range line {
			if c >= 0x20 && c <= 0x7e {
				ascii[i] = c
			} else {
				ascii[i] = '.'
			}
		}
		out = append(out, fmt.Sprintf("%#016x: %-33s [%s]", base+uint64(off), words, ascii))
	}
	return out
}
