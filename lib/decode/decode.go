package decode

import "unicode/utf8"

// Unit is one decoded character. Bad marks bytes that do not form a character:
// an invalid byte, a sequence cut off by the end of input, or a dangling shift
// sequence.
type Unit struct {
	R    rune
	Size int
	Bad  bool
}

// the portable character set that is the same byte in every supported locale
const basicSet = "\t\v\f !\"#%&'()*+,-./0123456789:;<=>?" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_" +
	"abcdefghijklmnopqrstuvwxyz{|}~"

var basic [256]bool

func init() {
	for i := 0; i < len(basicSet); i++ {
		basic[basicSet[i]] = true
	}
}

// DecodeBlock decodes as much of p as it can, handing every unit to emit, and
// returns the number of trailing bytes left undecoded. Those belong to a
// character that continues in the next block; when eof is set there is no next
// block and they are emitted as a single bad unit instead. The count never
// exceeds cs.Max().
func DecodeBlock(cs Charset, p []byte, eof bool, st *State, emit func(Unit)) int {
	fast := cs.Basic()
	for len(p) > 0 {
		if fast && basic[p[0]] {
			emit(Unit{R: rune(p[0]), Size: 1})
			p = p[1:]
			continue
		}

		r, size, status := cs.Decode(p, st)
		if size <= 0 && status != Incomplete {
			size = 1
		}
		switch status {
		case OK:
			emit(Unit{R: r, Size: size})
		case Invalid:
			emit(Unit{R: utf8.RuneError, Size: size, Bad: true})
		case Shift:
			// replaying a shift sequence is harmless, and keeps it with its character
			if !eof && len(p) <= cs.Max() {
				return len(p)
			}
			emit(Unit{Size: size, Bad: true})
		case Incomplete:
			switch {
			case eof:
				size = len(p)
			case len(p) > cs.Max():
				// more than one character's worth and still nothing
				size = 1
			default:
				return len(p)
			}
			emit(Unit{R: utf8.RuneError, Size: size, Bad: true})
		}
		p = p[size:]
	}
	return 0
}
