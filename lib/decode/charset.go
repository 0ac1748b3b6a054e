// Package decode turns raw byte blocks into characters for the counting tools.
//
// A Charset knows how to decode one character from the front of a buffer.
// DecodeBlock walks a whole block with it, and reports how many trailing bytes
// belong to a character that continues in the next block.
package decode

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// Status of a single decode step
type Status int

const (
	// OK means a character was decoded
	OK Status = iota
	// Invalid means the leading bytes can not start a character
	Invalid
	// Incomplete means more bytes are needed to finish the character
	Incomplete
	// Shift means bytes were consumed to change the shift state, with no character
	Shift
)

// transformMax is the widest sequence a transformer charset is given room for:
// an ISO-2022 escape plus a double byte character, or a GB18030 four byte one.
const transformMax = 8

// Charset decodes one character at a time.
type Charset interface {
	// Name of the charset, as the locale or the caller spelled it
	Name() string
	// Max returns the maximum number of bytes a character may need
	Max() int
	// SingleByte is true when every character is exactly one byte
	SingleByte() bool
	// Basic is true when a byte of the portable basic set always stands for itself
	// at a character boundary, so it can be decoded without the charset.
	Basic() bool
	// NewState returns the initial shift state for a new stream
	NewState() *State
	// Decode decodes the character at the front of p.
	Decode(p []byte, st *State) (r rune, size int, status Status)
}

// State is the shift state of a stream. Stateless charsets leave it empty.
type State struct {
	t transform.Transformer
}

// Reset puts the state back to the initial shift state.
func (s *State) Reset() {
	if s != nil && s.t != nil {
		s.t.Reset()
	}
}

var (
	// UTF8 is the native UTF-8 charset
	UTF8 Charset = utf8Charset{}
	// ASCII is the charset of the C and POSIX locales
	ASCII Charset = asciiCharset{}
)

type utf8Charset struct{}

func (utf8Charset) Name() string { return "UTF-8" }
func (utf8Charset) Max() int { return utf8.UTFMax }
func (utf8Charset) SingleByte() bool { return false }
func (utf8Charset) Basic() bool { return true }
func (utf8Charset) NewState() *State { return &State{} }

func (utf8Charset) Decode(p []byte, _ *State) (rune, int, Status) {
	if !utf8.FullRune(p) {
		return 0, 0, Incomplete
	}
	r, n := utf8.DecodeRune(p)
	if r == utf8.RuneError && n == 1 {
		return r, 1, Invalid
	}
	return r, n, OK
}

type asciiCharset struct{}

func (asciiCharset) Name() string { return "ANSI_X3.4-1968" }
func (asciiCharset) Max() int { return 1 }
func (asciiCharset) SingleByte() bool { return true }
func (asciiCharset) Basic() bool { return true }
func (asciiCharset) NewState() *State { return &State{} }

func (asciiCharset) Decode(p []byte, _ *State) (rune, int, Status) {
	if p[0] >= utf8.RuneSelf {
		return utf8.RuneError, 1, Invalid
	}
	return rune(p[0]), 1, OK
}

// charmapCharset covers the single byte tables (ISO-8859-*, KOI8-*, Windows-125x...)
type charmapCharset struct {
	name  string
	cm    *charmap.Charmap
	basic bool
}

func (c charmapCharset) Name() string { return c.name }
func (charmapCharset) Max() int { return 1 }
func (charmapCharset) SingleByte() bool { return true }
func (c charmapCharset) Basic() bool { return c.basic }
func (charmapCharset) NewState() *State { return &State{} }

func (c charmapCharset) Decode(p []byte, _ *State) (rune, int, Status) {
	r := c.cm.DecodeByte(p[0])
	if r == utf8.RuneError {
		return r, 1, Invalid
	}
	return r, 1, OK
}

// transformCharset drives an x/text decoder one character at a time. The
// decoder itself carries the shift state, so it lives in State.
type transformCharset struct {
	name  string
	enc   encoding.Encoding
	basic bool
}

func (c transformCharset) Name() string { return c.name }
func (transformCharset) Max() int { return transformMax }
func (transformCharset) SingleByte() bool { return false }
func (c transformCharset) Basic() bool { return c.basic }
func (c transformCharset) NewState() *State { return &State{t: c.enc.NewDecoder()} }

// Decode grows the input one byte at a time until the decoder produces output,
// so exactly one character is consumed.
func (c transformCharset) Decode(p []byte, st *State) (rune, int, Status) {
	if st == nil || st.t == nil {
		st = c.NewState()
	}
	var dst [16]byte
	off := 0
	for k := 1; k <= len(p); k++ {
		start := off
		nDst, nSrc, err := st.t.Transform(dst[:], p[off:k], false)
		off += nSrc
		if nDst > 0 {
			r, _ := utf8.DecodeRune(dst[:nDst])
			if r == utf8.RuneError {
				// the decoder swallows a whole malformed pair; only its first
				// byte is bad, the next one may start a character
				return r, start + 1, Invalid
			}
			return r, off, OK
		}
		if err != nil && err != transform.ErrShortSrc {
			if off == 0 {
				off = 1
			}
			return utf8.RuneError, off, Invalid
		}
	}
	if off == len(p) {
		return 0, off, Shift
	}
	return 0, 0, Incomplete
}

// statefulCharsets can not take the basic fast path even though their initial
// state is ASCII.
var statefulCharsets = map[string]bool{
	"ISO-2022-JP": true,
	"HZ-GB-2312":  true,
}

// Lookup finds a charset by name. IANA names and aliases are tried first, then
// the WHATWG labels, which cover most of the spellings locales use.
func Lookup(name string) (Charset, error) {
	switch normalize(name) {
	case "utf8":
		return UTF8, nil
	case "ascii", "usascii", "ansix3.41968", "646", "iso646us":
		return ASCII, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		if enc, err = htmlindex.Get(name); err != nil {
			return nil, errors.Wrapf(err, "unknown charset %q", name)
		}
	}
	if enc == nil {
		return nil, errors.Errorf("unsupported charset %q", name)
	}

	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}
	if canonical == "UTF-8" {
		return UTF8, nil
	}
	if cm, ok := enc.(*charmap.Charmap); ok {
		return charmapCharset{name: canonical, cm: cm, basic: keepsBasic(enc)}, nil
	}
	return transformCharset{
		name:  canonical,
		enc:   enc,
		basic: !statefulCharsets[canonical] && keepsBasic(enc),
	}, nil
}

// keepsBasic checks that the basic set decodes to itself byte for byte.
func keepsBasic(enc encoding.Encoding) bool {
	out, err := enc.NewDecoder().Bytes([]byte(basicSet))
	return err == nil && bytes.Equal(out, []byte(basicSet))
}

func normalize(name string) string {
	return strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(name))
}
