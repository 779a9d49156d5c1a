package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/tinyrange/gr/internal/calltrace"
)

func openTrace(filename string, progress bool) (*calltrace.Reader, io.Closer, error) {
	if !progress {
		return calltrace.NewReaderFromFile(filename)
	}

	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace: %w", err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("stat trace: %w", err)
	}

	bar := progressbar.DefaultBytes(fi.Size(), "index "+filename)
	defer bar.Close()

	r, err := calltrace.NewReader(f, io.TeeReader(f, bar))
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return r, f, nil
}

func run() error {
	list := flag.Bool("list", false, "list every op in the trace with its call count")
	timeRange := flag.Bool("range", false, "print the earliest and latest timestamps")
	errorsOnly := flag.Bool("errors", false, "only show driver errors")
	op := flag.String("op", "", "regex to filter ops")
	match := flag.String("match", "", "regex to filter call arguments or error text")
	limit := flag.Int("limit", 100, "limit the number of entries (0 for unlimited)")
	tail := flag.Bool("tail", false, "show last N entries instead of first N")
	wide := flag.Bool("wide", false, "do not truncate entries to the terminal width")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `grtrace - inspect GL call traces

USAGE:
  grtrace [flags] <filename>

A trace is written by a context opened with traceFile set. Every native
call is one record, and every error flag a call raised is a second record
of kind "error" with the same op.

FLAGS:
  -list          List every op in the trace with its call count
  -range         Show earliest/latest timestamps and total duration
  -errors        Only show error records
  -op REGEX      Only show records whose op matches regex (e.g. '^glUniform')
  -match REGEX   Only show records whose arguments or error text match regex
  -limit N       Max entries to return (default: 100). Errors if exceeded; use -tail or 0 for unlimited
  -tail          Show last N entries instead of first N (combine with -limit)
  -wide          Do not truncate long entries on a terminal

OUTPUT FORMAT:
  Each entry is printed as: TIMESTAMP #SEQ OP(ARGS)
  Error entries are printed as: TIMESTAMP #SEQ OP: GL_ERROR...

EXAMPLES:
  grtrace gl.trace                       Show entries (errors if >100)
  grtrace -errors -limit 0 gl.trace      Show every driver error
  grtrace -tail gl.trace                 Show last 100 calls
  grtrace -list gl.trace                 Count calls per op
  grtrace -op '^glUniform' gl.trace      Uniform uploads only
  grtrace -op glBindBuffer -match '0x8892' gl.trace
                                         Array buffer binds
`)
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	interactive := term.IsTerminal(int(os.Stdout.Fd()))
	reader, closer, err := openTrace(filename, interactive)
	if err != nil {
		return fmt.Errorf("failed to open trace: %w", err)
	}
	defer closer.Close()

	if *list {
		ops := reader.Ops()
		names := make([]string, 0, len(ops))
		for name := range ops {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if ops[names[i]] != ops[names[j]] {
				return ops[names[i]] > ops[names[j]]
			}
			return names[i] < names[j]
		})
		for _, name := range names {
			fmt.Printf("%8d  %s\n", ops[name], name)
		}
		return nil
	}

	if *timeRange {
		earliest, latest := reader.TimeRange()
		fmt.Printf("earliest: %s\nlatest:   %s\nduration: %s\nrecords:  %d\n",
			earliest, latest, latest.Sub(earliest), reader.Len())
		return nil
	}

	var opRe, matchRe *regexp.Regexp
	if *op != "" {
		opRe, err = regexp.Compile(*op)
		if err != nil {
			return fmt.Errorf("invalid op regex: %w", err)
		}
	}
	if *match != "" {
		matchRe, err = regexp.Compile(*match)
		if err != nil {
			return fmt.Errorf("invalid match regex: %w", err)
		}
	}

	opts := calltrace.SearchOptions{
		Match: func(rec calltrace.Record) bool {
			if opRe != nil && !opRe.MatchString(rec.Op) {
				return false
			}
			if matchRe != nil && !matchRe.MatchString(rec.Detail) {
				return false
			}
			return true
		},
	}
	if *errorsOnly {
		opts.Kind = calltrace.KindError
	}

	if *limit > 0 {
		n, err := reader.Count(opts)
		if err != nil {
			return fmt.Errorf("failed to read trace: %w", err)
		}
		if n > *limit {
			switch {
			case *tail:
				opts.LimitEnd = *limit
			case *limit == 100:
				return fmt.Errorf("too many entries: %d (limit is %d). Use -tail for last %d, or explicitly set a limit using -limit", n, *limit, *limit)
			default:
				opts.LimitStart = *limit
			}
		}
	}

	width := 0
	if interactive && !*wide {
		if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			width = w
		}
	}

	errStyle := ansi.Style{}.Bold().ForegroundColor(ansi.Red)

	return reader.Search(opts, func(rec calltrace.Record) error {
		line := rec.Time.Format(time.RFC3339Nano) + " " + rec.String()
		if width > 0 && ansi.StringWidth(line) > width {
			line = ansi.Truncate(line, width, "…")
		}
		if interactive && rec.Kind == calltrace.KindError {
			line = errStyle.Styled(line)
		}
		fmt.Println(line)
		return nil
	})
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "grtrace: %v\n", err)
		os.Exit(1)
	}
}
