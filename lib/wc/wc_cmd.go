package wc

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/syncs"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"gitlab.com/yarbelk/slimwc/lib"
	"gitlab.com/yarbelk/slimwc/lib/decode"
)

// Revision is printed by --version
var Revision = "local"

func init() {
	lib.RegisterFunction("wc", "print newline, word, and byte counts for each file")
}

// Stdio is what an invocation reads from and writes to
type Stdio struct {
	In       io.Reader
	Out, Err io.Writer
}

// Std is the process' own stdin, stdout and stderr
func Std() Stdio {
	return Stdio{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run parses args, counts and prints. It returns the exit status, so it can
// back both the stand alone binary and the multi-call one.
func Run(args []string, stdio Stdio) int {
	options := Options{}
	wcFS := BindFlagSet(&options)
	wcFS.SetOutput(stdio.Err)
	if err := wcFS.Parse(args); err != nil {
		fmt.Fprintf(stdio.Err, "wc: %v\n", err)
		wcFS.Usage()
		return 1
	}
	setupLog(options.Debug, stdio.Err)

	switch {
	case options.Help:
		wcFS.SetOutput(stdio.Out)
		wcFS.Usage()
		return 0
	case options.Version:
		fmt.Fprintf(stdio.Out, "wc (slimwc) %s\n", Revision)
		return 0
	}

	options.Files = wcFS.Args()
	if err := Main(options, stdio); err != nil {
		var merr *multierror.Error
		if !errors.As(err, &merr) {
			fmt.Fprintf(stdio.Err, "wc: %v\n", err)
			return 1
		}
		for _, e := range merr.Errors {
			fmt.Fprintf(stdio.Err, "wc: %v\n", e)
		}
		return 1
	}
	return 0
}

// Main counts every input in options and prints the table to stdio.Out.
//
// Files are counted by a pool of workers, each with its own counters; rows
// are kept in input order. An input that can't be read gets no row and its
// error is returned in a multierror once the table is printed. Only a bad
// --files0-from list stops the run before anything is counted.
func Main(options Options, stdio Stdio) error {
	cs := options.Charset
	if cs == nil {
		cs = decode.FromLocale(os.Getenv)
	}
	kinds := options.Kinds()

	files, err := options.fileList(stdio.In)
	if err != nil {
		return err
	}
	named := len(files) > 0 || options.Files0From != ""
	if !named {
		files = []string{"-"}
	}

	workers := options.Jobs
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}
	for _, fn := range files {
		// stdin can only be read once, and in order
		if fn == "-" {
			workers = 1
			break
		}
	}
	log.Printf("[DEBUG] charset %s, counting %v in %d files with %d workers", cs.Name(), kinds, len(files), workers)

	rows := make([]Results, len(files))
	errs := make([]error, len(files))
	swg := syncs.NewSizedGroup(workers)
	for i, filename := range files {
		i, filename := i, filename
		swg.Go(func(context.Context) {
			if filename == "-" && options.Files0From == "-" {
				errs[i] = errors.New("when reading file names from standard input, no file name of '-' allowed")
				return
			}
			rows[i], errs[i] = countFile(filename, kinds, cs, stdio.In)
		})
	}
	swg.Wait()

	resultsSet := ResultsSet{Named: named}
	var merr *multierror.Error
	for i := range files {
		if errs[i] != nil {
			merr = multierror.Append(merr, errs[i])
			continue
		}
		if !named {
			rows[i].Filename = ""
		}
		resultsSet.Results = append(resultsSet.Results, rows[i])
	}
	if len(files) > 1 {
		resultsSet.Results = append(resultsSet.Results, resultsSet.Total(len(kinds)))
	}

	if _, err := fmt.Fprint(stdio.Out, resultsSet); err != nil {
		merr = multierror.Append(merr, errors.Wrap(err, "write results"))
	}
	return merr.ErrorOrNil()
}

// countFile counts one input with a Set of its own
func countFile(filename string, kinds []Kind, cs decode.Charset, stdin io.Reader) (Results, error) {
	if filename == "" {
		return Results{}, errors.New("invalid zero-length file name")
	}
	in, info, err := lib.OpenInput(filename, stdin)
	if err != nil {
		return Results{}, err
	}
	defer in.Close()

	set := NewSet(kinds, cs)
	if err := Count(Source{Name: filename, R: in, Info: info}, set, cs, BlockSize); err != nil {
		return Results{}, err
	}
	return Results{Counts: set.Counts(), Filename: filename}, nil
}

// fileList is the file operands, or the names read from --files0-from
func (wo Options) fileList(stdin io.Reader) ([]string, error) {
	if wo.Files0From == "" {
		return wo.Files, nil
	}
	if len(wo.Files) > 0 {
		return nil, errors.Errorf("extra operand %q: file operands cannot be combined with --%s", wo.Files[0], Files0FromFlag)
	}

	r := stdin
	if wo.Files0From != "-" {
		f, err := os.Open(wo.Files0From)
		if err != nil {
			return nil, errors.Wrapf(err, "cannot read file names from %s", wo.Files0From)
		}
		defer f.Close()
		r = f
	}
	files, err := ReadFiles0From(r)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read file names from %s", wo.Files0From)
	}
	return files, nil
}

// ReadFiles0From reads NUL terminated file names. The last name may go
// without its NUL.
func ReadFiles0From(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(scanNul)
	var files []string
	for scanner.Scan() {
		files = append(files, scanner.Text())
	}
	return files, errors.WithStack(scanner.Err())
}

func scanNul(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func BindFlagSet(wo *Options) *pflag.FlagSet {
	var wcFS *pflag.FlagSet = pflag.NewFlagSet("wc", pflag.ContinueOnError)
	wcFS.BoolVarP(&wo.Newlines, LineFlag, "l", false, "print the newline counts")
	wcFS.BoolVarP(&wo.Bytes, ByteFlag, "c", false, "print the byte counts")
	wcFS.BoolVarP(&wo.Words, WordFlag, "w", false, "print the word counts")
	wcFS.BoolVarP(&wo.Characters, CharFlag, "m", false, "print the character counts")
	wcFS.BoolVarP(&wo.Longest, LongFlag, "L", false, "print the maximum display width")
	wcFS.StringVar(&wo.Files0From, Files0FromFlag, "", "read input from the files specified by\nNUL-terminated names in file F;\nIf F is - then read names from standard input")
	wcFS.BoolVar(&wo.Help, "help", false, "display this help and exit")
	wcFS.BoolVar(&wo.Version, "version", false, "output version information and exit")
	wcFS.BoolVar(&wo.Debug, "debug", false, "log debug information to standard error")
	wcFS.IntVar(&wo.Jobs, "jobs", 0, "files counted at once, 0 for one per CPU")
	_ = wcFS.MarkHidden("debug")
	_ = wcFS.MarkHidden("jobs")
	setUsage(wcFS)
	return wcFS
}

func setUsage(wcFS *pflag.FlagSet) {
	wcFS.Usage = func() {

		fmt.Fprint(wcFS.Output(), `Usage: wc [OPTION]... [FILE]...
  or:  wc [OPTION]... --files0-from=F
Print newline, word, and byte counts for each FILE, and a total line if
more than one FILE is specified.  A word is a non-zero-length sequence of
printable characters delimited by white space.

With no FILE, or when FILE is -, read standard input.

The options below may be used to select which counts are printed, always in
the following order: newline, word, character, byte, maximum line length.
`)
		wcFS.PrintDefaults()
	}
}

func setupLog(dbg bool, w io.Writer) {
	if dbg {
		log.Setup(log.Debug, log.CallerFile, log.Msec, log.LevelBraces, log.Out(w), log.Err(w))
		return
	}
	log.Setup(log.Msec, log.LevelBraces, log.Out(w), log.Err(w))
}
