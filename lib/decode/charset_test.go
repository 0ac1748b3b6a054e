package decode

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeset(t *testing.T) {
	var tests = []struct {
		given, expected string
	}{
		{"en_US.UTF-8", "UTF-8"},
		{"de_DE.ISO-8859-1@euro", "ISO-8859-1"},
		{"ja_JP.eucJP", "eucJP"},
		{"C", ""},
		{"en_US", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, codeset(tt.given), tt.given)
	}
}

func TestFromLocale(t *testing.T) {
	var tests = []struct {
		name     string
		env      map[string]string
		expected string
	}{
		{"nothing set", map[string]string{}, "ANSI_X3.4-1968"},
		{"LANG", map[string]string{"LANG": "en_US.UTF-8"}, "UTF-8"},
		{"LC_ALL wins", map[string]string{"LC_ALL": "C", "LC_CTYPE": "en_US.UTF-8", "LANG": "en_US.UTF-8"}, "ANSI_X3.4-1968"},
		{"LC_CTYPE over LANG", map[string]string{"LC_CTYPE": "C.UTF-8", "LANG": "POSIX"}, "UTF-8"},
		{"no codeset", map[string]string{"LANG": "en_US"}, "UTF-8"},
		{"latin1", map[string]string{"LANG": "de_DE.ISO-8859-1"}, "ISO-8859-1"},
		{"unknown codeset", map[string]string{"LANG": "xx_XX.NO-SUCH-CHARSET"}, "ANSI_X3.4-1968"},
		{"UTF-16 is not ASCII compatible", map[string]string{"LANG": "en_US.UTF-16LE"}, "ANSI_X3.4-1968"},
		{"stateful charset is kept", map[string]string{"LANG": "ja_JP.ISO-2022-JP"}, "ISO-2022-JP"},
		{"multi-byte charset", map[string]string{"LC_CTYPE": "zh_CN.GBK"}, "GBK"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cs := FromLocale(func(key string) string { return tt.env[key] })
			assert.Equal(t, tt.expected, cs.Name())
		})
	}
}

func TestLookup(t *testing.T) {
	var tests = []struct {
		name       string
		singleByte bool
		basic      bool
		max        int
	}{
		{"utf8", false, true, 4},
		{"US-ASCII", true, true, 1},
		{"ISO-8859-1", true, true, 1},
		{"windows-1251", true, true, 1},
		{"Shift_JIS", false, true, transformMax},
		{"ISO-2022-JP", false, false, transformMax},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			cs, err := Lookup(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.singleByte, cs.SingleByte(), "single byte")
			assert.Equal(t, tt.basic, cs.Basic(), "basic")
			assert.Equal(t, tt.max, cs.Max(), "max")
		})
	}

	_, err := Lookup("no-such-charset")
	assert.Error(t, err)
}

func TestCharmapDecode(t *testing.T) {
	cs, err := Lookup("ISO-8859-1")
	require.NoError(t, err)

	r, size, status := cs.Decode([]byte{0xe9}, cs.NewState())
	assert.Equal(t, 'é', r)
	assert.Equal(t, 1, size)
	assert.Equal(t, OK, status)
}

func TestInvalidPairDecode(t *testing.T) {
	cs, err := Lookup("EUC-KR")
	require.NoError(t, err)

	r, size, status := cs.Decode([]byte("\xfeA"), cs.NewState())
	assert.Equal(t, utf8.RuneError, r)
	assert.Equal(t, 1, size)
	assert.Equal(t, Invalid, status)
}

func TestShiftJISDecode(t *testing.T) {
	cs, err := Lookup("Shift_JIS")
	require.NoError(t, err)
	st := cs.NewState()

	// あ is 0x82 0xa0
	_, _, status := cs.Decode([]byte{0x82}, st)
	assert.Equal(t, Incomplete, status)

	r, size, status := cs.Decode([]byte{0x82, 0xa0}, st)
	assert.Equal(t, 'あ', r)
	assert.Equal(t, 2, size)
	assert.Equal(t, OK, status)
}

func TestStateReset(t *testing.T) {
	cs, err := Lookup("ISO-2022-JP")
	require.NoError(t, err)
	st := cs.NewState()

	_, _, status := cs.Decode([]byte("\x1b$B"), st)
	require.Equal(t, Shift, status)
	r, _, _ := cs.Decode([]byte("\x24\x22"), st)
	assert.Equal(t, 'あ', r)

	st.Reset()
	r, _, _ = cs.Decode([]byte("\x24\x22"), st)
	assert.Equal(t, '$', r, "back to ASCII after reset")

	var nilState *State
	nilState.Reset()
}
