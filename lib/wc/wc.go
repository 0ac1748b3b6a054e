package wc

import (
	"fmt"
	"strings"

	"gitlab.com/yarbelk/slimwc/lib/decode"
)

const (
	LineFlag       = "lines"
	ByteFlag       = "bytes"
	WordFlag       = "words"
	CharFlag       = "chars"
	LongFlag       = "max-line-length"
	Files0FromFlag = "files0-from"
)

// Options for one wc invocation
type Options struct {
	Bytes, Characters, Newlines, Words, Longest bool

	Help, Version, Debug bool

	// Files0From names a file holding NUL separated file names, "-" for stdin
	Files0From string
	// Jobs caps how many files are counted at once; 0 means one per CPU
	Jobs int
	// Charset overrides the one picked from the locale
	Charset decode.Charset

	Files []string
}

// GetBool reports whether the count for flag is printed. With no count
// selected, lines, words and bytes are.
func (wo Options) GetBool(flag string) bool {
	none := !(wo.Bytes || wo.Characters || wo.Newlines || wo.Words || wo.Longest)
	switch flag {
	case ByteFlag:
		return none || wo.Bytes
	case CharFlag:
		return wo.Characters
	case WordFlag:
		return none || wo.Words
	case LineFlag:
		return none || wo.Newlines
	case LongFlag:
		return wo.Longest
	default:
		return false
	}
}

// Kinds lists the selected counts in output order
func (wo Options) Kinds() []Kind {
	kinds := make([]Kind, 0, len(order))
	for _, k := range order {
		if wo.GetBool(k.String()) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Results are the counts for one input, in Kinds order
type Results struct {
	Counts []int64

	Filename string
}

// ResultsSet is everything printed for one invocation.
type ResultsSet struct {
	// Named is set when file names were given; rows are then labelled
	Named bool

	Results []Results
}

// Total sums every column of rs into a row labelled "total"
func (rs ResultsSet) Total(columns int) Results {
	total := Results{Counts: make([]int64, columns), Filename: "total"}
	for _, r := range rs.Results {
		for i := 0; i < columns && i < len(r.Counts); i++ {
			total.Counts[i] += r.Counts[i]
		}
	}
	return total
}

func approxLog10(u int64) int {
	i := 1
	for u /= 10; u != 0; u /= 10 {
		i++
	}
	return i
}

// maxDigits is the width of the widest number in the set
func (rs ResultsSet) maxDigits() (max int) {
	for _, r := range rs.Results {
		for _, n := range r.Counts {
			if d := approxLog10(n); d > max {
				max = d
			}
		}
	}
	return
}

// String lays the set out as a table: every number right aligned one column
// wider than the widest number, then the file name after a space. A lone
// count on a lone row is printed bare.
func (rs ResultsSet) String() string {
	if len(rs.Results) == 0 {
		return ""
	}
	if len(rs.Results) == 1 && len(rs.Results[0].Counts) == 1 {
		return fmt.Sprintf("%d\n", rs.Results[0].Counts[0])
	}

	builder := strings.Builder{}
	fmtstring := fmt.Sprintf("%%%dd", rs.maxDigits()+1)
	for _, results := range rs.Results {
		for _, n := range results.Counts {
			builder.WriteString(fmt.Sprintf(fmtstring, n))
		}
		if rs.Named {
			builder.WriteRune(' ')
			builder.WriteString(results.Filename)
		}
		builder.WriteRune('\n')
	}
	return builder.String()
}
