package wc

import (
	"io"
	"os"

	log "github.com/go-pkgz/lgr"
	"github.com/pkg/errors"

	"gitlab.com/yarbelk/slimwc/lib/decode"
)

// BlockSize is how much is read from an input at a time
const BlockSize = 128 * 1024

// BlockFunc handles one block and returns how many trailing bytes it could not
// use yet. Those are handed back at the front of the next block. With eof set
// nothing follows, and the function must use everything.
type BlockFunc func(p []byte, eof bool) int

// ProcessStream reads r in blocks of blockSize and passes them to fn, carrying
// up to carry unused bytes over from one block to the next.
func ProcessStream(r io.Reader, blockSize, carry int, fn BlockFunc) error {
	if blockSize <= 0 {
		blockSize = BlockSize
	}
	buf := make([]byte, blockSize+carry)
	remaining := 0
	for {
		n, err := io.ReadFull(r, buf[remaining:remaining+blockSize])
		eof := false
		switch err {
		case nil:
		case io.EOF, io.ErrUnexpectedEOF:
			eof = true
		default:
			return errors.WithStack(err)
		}

		available := remaining + n
		if available == 0 {
			return nil
		}
		remaining = fn(buf[:available], eof)
		if eof {
			return nil
		}
		if remaining < 0 || remaining > carry || remaining > available {
			return errors.Errorf("block left %d bytes undecoded, at most %d can be carried", remaining, carry)
		}
		copy(buf, buf[available-remaining:available])
	}
}

// Source is one input stream. Info is only set for named files.
type Source struct {
	Name string
	R    io.Reader
	Info os.FileInfo
}

// Count resets set and runs it over src.
//
// The byte count comes from stat when it can. If only bytes and lines are
// left to count the stream is scanned without decoding; otherwise a single
// decoding pass feeds every counter, lines included.
func Count(src Source, set Set, cs decode.Charset, blockSize int) error {
	set.Reset()

	pass := make(Set, 0, len(set))
	raw := true
	for _, c := range set {
		if bc, ok := c.(*byteCounter); ok && bc.Stat(src.Info) {
			log.Printf("[DEBUG] %s: %d bytes from stat", src.Name, bc.n)
			continue
		}
		if !scansRaw(c, cs) {
			raw = false
		}
		pass = append(pass, c)
	}

	switch {
	case len(pass) == 0:
		return nil
	case raw:
		log.Printf("[DEBUG] %s: scanning without decoding", src.Name)
		return ProcessStream(src.R, blockSize, 0, func(p []byte, _ bool) int {
			for _, c := range pass {
				c.(rawCounter).ConsumeRaw(p)
			}
			return 0
		})
	}

	st := cs.NewState()
	return ProcessStream(src.R, blockSize, cs.Max(), func(p []byte, eof bool) int {
		return decode.DecodeBlock(cs, p, eof, st, pass.Consume)
	})
}

// scansRaw reports whether c can count from undecoded bytes. Bytes always can;
// a newline byte is only a newline character when the charset is ASCII based.
func scansRaw(c Counter, cs decode.Charset) bool {
	switch c.(type) {
	case *byteCounter:
		return true
	case rawCounter:
		return cs.Basic()
	default:
		return false
	}
}
