package decode_test

import (
	"unicode/utf8"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"gitlab.com/yarbelk/slimwc/lib/decode"
)

// stream decodes input split into two blocks at cut, carrying the undecoded
// tail of the first block over the way the stream processor does
func stream(cs decode.Charset, input []byte, cut int) []decode.Unit {
	var units []decode.Unit
	emit := func(u decode.Unit) { units = append(units, u) }
	st := cs.NewState()

	left := decode.DecodeBlock(cs, input[:cut], false, st, emit)
	rest := append([]byte{}, input[cut-left:]...)
	Expect(decode.DecodeBlock(cs, rest, true, st, emit)).To(Equal(0))
	return units
}

var _ = Describe("DecodeBlock", func() {
	var (
		units []decode.Unit
		emit  func(decode.Unit)
	)

	BeforeEach(func() {
		units = nil
		emit = func(u decode.Unit) { units = append(units, u) }
	})

	Context("UTF-8", func() {
		cs := decode.UTF8

		It("decodes basic characters a byte at a time", func() {
			Expect(decode.DecodeBlock(cs, []byte("a b"), true, cs.NewState(), emit)).To(Equal(0))
			Expect(units).To(Equal([]decode.Unit{{R: 'a', Size: 1}, {R: ' ', Size: 1}, {R: 'b', Size: 1}}))
		})

		It("decodes multi-byte characters", func() {
			decode.DecodeBlock(cs, []byte("é€"), true, cs.NewState(), emit)
			Expect(units).To(Equal([]decode.Unit{{R: 'é', Size: 2}, {R: '€', Size: 3}}))
		})

		It("decodes NUL as a character", func() {
			decode.DecodeBlock(cs, []byte{0}, true, cs.NewState(), emit)
			Expect(units).To(Equal([]decode.Unit{{R: 0, Size: 1}}))
		})

		It("resynchronises on the byte after an invalid one", func() {
			decode.DecodeBlock(cs, []byte("\xffa"), true, cs.NewState(), emit)
			Expect(units).To(Equal([]decode.Unit{{R: utf8.RuneError, Size: 1, Bad: true}, {R: 'a', Size: 1}}))
		})

		It("keeps an incomplete tail for the next block", func() {
			Expect(decode.DecodeBlock(cs, []byte("a\xe2\x82"), false, cs.NewState(), emit)).To(Equal(2))
			Expect(units).To(Equal([]decode.Unit{{R: 'a', Size: 1}}))
		})

		It("turns an incomplete tail at end of input into one bad unit", func() {
			Expect(decode.DecodeBlock(cs, []byte("a\xe2\x82"), true, cs.NewState(), emit)).To(Equal(0))
			Expect(units).To(Equal([]decode.Unit{{R: 'a', Size: 1}, {R: utf8.RuneError, Size: 2, Bad: true}}))
		})

		It("decodes the same characters wherever the block ends", func() {
			input := []byte("h€llo wörld 日本")
			decode.DecodeBlock(cs, input, true, cs.NewState(), emit)
			for cut := 1; cut < len(input); cut++ {
				Expect(stream(cs, input, cut)).To(Equal(units), "cut at %d", cut)
			}
		})
	})

	Context("C locale", func() {
		cs := decode.ASCII

		It("marks bytes above 0x7f bad, one at a time", func() {
			decode.DecodeBlock(cs, []byte("é"), true, cs.NewState(), emit)
			Expect(units).To(HaveLen(2))
			Expect(units[0].Bad).To(BeTrue())
			Expect(units[1].Bad).To(BeTrue())
		})
	})

	Context("GBK", func() {
		It("marks only the lead byte of an unmapped pair bad", func() {
			cs, err := decode.Lookup("GBK")
			Expect(err).NotTo(HaveOccurred())
			decode.DecodeBlock(cs, []byte("\xa1Abc"), true, cs.NewState(), emit)
			Expect(units).To(Equal([]decode.Unit{
				{R: utf8.RuneError, Size: 1, Bad: true},
				{R: 'A', Size: 1}, {R: 'b', Size: 1}, {R: 'c', Size: 1},
			}))
		})
	})

	Context("ISO-2022-JP", func() {
		var cs decode.Charset
		// ESC $ B switches to JIS X 0208, ESC ( B back to ASCII
		input := []byte("\x1b$B\x24\x22\x1b(Ba")

		BeforeEach(func() {
			var err error
			cs, err = decode.Lookup("ISO-2022-JP")
			Expect(err).NotTo(HaveOccurred())
		})

		It("folds escape sequences into the character that follows", func() {
			decode.DecodeBlock(cs, input, true, cs.NewState(), emit)
			Expect(units).To(Equal([]decode.Unit{{R: 'あ', Size: 5}, {R: 'a', Size: 4}}))
		})

		It("keeps the shift state across a block boundary", func() {
			for cut := 1; cut < len(input); cut++ {
				Expect(stream(cs, input, cut)).To(Equal([]decode.Unit{{R: 'あ', Size: 5}, {R: 'a', Size: 4}}), "cut at %d", cut)
			}
		})

		It("reports a trailing shift back to ASCII as a bad unit", func() {
			decode.DecodeBlock(cs, input[:8], true, cs.NewState(), emit)
			Expect(units).To(Equal([]decode.Unit{{R: 'あ', Size: 5}, {Size: 3, Bad: true}}))
		})
	})
})
