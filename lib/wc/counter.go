package wc

import (
	"bytes"
	"os"
	"unicode"

	"golang.org/x/text/width"

	"gitlab.com/yarbelk/slimwc/lib/decode"
)

// Kind is one of the counts wc prints. The values are in output order.
type Kind int

const (
	Lines Kind = iota
	Words
	Chars
	Bytes
	MaxLineLength
)

// order counts are always printed in, whatever order the flags came in
var order = []Kind{Lines, Words, Chars, Bytes, MaxLineLength}

func (k Kind) String() string {
	switch k {
	case Lines:
		return LineFlag
	case Words:
		return WordFlag
	case Chars:
		return CharFlag
	case Bytes:
		return ByteFlag
	case MaxLineLength:
		return LongFlag
	default:
		return "unknown"
	}
}

// Counter accumulates one count over a stream of decoded characters.
type Counter interface {
	Reset()
	Consume(u decode.Unit)
	Count() int64
}

// rawCounter is a Counter that can also count straight from undecoded bytes
type rawCounter interface {
	Counter
	ConsumeRaw(p []byte)
}

// Set is the active counters for one stream, in output order.
type Set []Counter

// NewSet builds fresh counters for kinds. Every stream gets its own Set; a Set
// is never shared between goroutines.
func NewSet(kinds []Kind, cs decode.Charset) Set {
	set := make(Set, 0, len(kinds))
	for _, k := range kinds {
		switch k {
		case Lines:
			set = append(set, &lineCounter{})
		case Words:
			set = append(set, &wordCounter{})
		case Chars:
			set = append(set, &charCounter{singleByte: cs.SingleByte()})
		case Bytes:
			set = append(set, &byteCounter{})
		case MaxLineLength:
			set = append(set, &longestCounter{})
		}
	}
	return set
}

// Reset zeroes every counter in the set
func (s Set) Reset() {
	for _, c := range s {
		c.Reset()
	}
}

// Consume hands u to every counter in the set
func (s Set) Consume(u decode.Unit) {
	for _, c := range s {
		c.Consume(u)
	}
}

// Counts returns the count vector
func (s Set) Counts() []int64 {
	counts := make([]int64, len(s))
	for i, c := range s {
		counts[i] = c.Count()
	}
	return counts
}

type byteCounter struct{ n int64 }

func (c *byteCounter) Reset()                { c.n = 0 }
func (c *byteCounter) Count() int64          { return c.n }
func (c *byteCounter) Consume(u decode.Unit) { c.n += int64(u.Size) }
func (c *byteCounter) ConsumeRaw(p []byte)   { c.n += int64(len(p)) }

// Stat takes the count from the size of a regular file. Files that report no
// size (most of /proc) have to be read.
func (c *byteCounter) Stat(fi os.FileInfo) bool {
	if fi == nil || !fi.Mode().IsRegular() || fi.Size() <= 0 {
		return false
	}
	c.n = fi.Size()
	return true
}

type charCounter struct {
	n          int64
	singleByte bool
}

func (c *charCounter) Reset()       { c.n = 0 }
func (c *charCounter) Count() int64 { return c.n }

func (c *charCounter) Consume(u decode.Unit) {
	if c.singleByte {
		c.n += int64(u.Size)
		return
	}
	if !u.Bad {
		c.n++
	}
}

var newline = []byte{'\n'}

type lineCounter struct{ n int64 }

func (c *lineCounter) Reset()              { c.n = 0 }
func (c *lineCounter) Count() int64        { return c.n }
func (c *lineCounter) ConsumeRaw(p []byte) { c.n += int64(bytes.Count(p, newline)) }

func (c *lineCounter) Consume(u decode.Unit) {
	if !u.Bad && u.R == '\n' {
		c.n++
	}
}

// wordCounter counts runs of printable characters between white space.
// Characters that are neither (controls, format characters) do not break a word.
type wordCounter struct {
	n      int64
	inWord bool
}

func (c *wordCounter) Reset()       { c.n, c.inWord = 0, false }
func (c *wordCounter) Count() int64 { return c.n }

func (c *wordCounter) Consume(u decode.Unit) {
	if u.Bad {
		return
	}
	switch {
	case unicode.IsSpace(u.R):
		c.inWord = false
	case !c.inWord && unicode.IsGraphic(u.R):
		c.inWord = true
		c.n++
	}
}

// longestCounter tracks the widest line as it would show on a terminal
type longestCounter struct {
	n, current int64
}

func (c *longestCounter) Reset()       { c.n, c.current = 0, 0 }
func (c *longestCounter) Count() int64 { return c.n }

func (c *longestCounter) Consume(u decode.Unit) {
	if u.Bad {
		return
	}
	switch u.R {
	case '\n', '\r', '\f':
		c.current = 0
		return
	case '\t':
		// round up to 8 ( set LSBs to 111, then add one)
		c.current = (c.current | 7) + 1
	default:
		if unicode.IsGraphic(u.R) {
			c.current += runeSize(u.R)
		}
	}
	if c.current > c.n {
		c.n = c.current
	}
}

// runeSize is the number of terminal columns a printable r takes up
func runeSize(r rune) int64 {
	if unicode.In(r, unicode.Mn, unicode.Me) {
		return 0
	}
	switch width.LookupRune(r).Kind() {
	case width.EastAsianFullwidth, width.EastAsianWide:
		return 2
	default:
		return 1
	}
}
