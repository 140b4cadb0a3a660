// meos-fmt reads a file of MEOS text values, one per line in the form
// `<type>: <value>`, parses each one and reprints it in canonical form.
// Lines whose value fails to parse are reported and counted.
//
// Example:
//
//	meos-fmt -maxdd=6 values.txt
//	meos-fmt -stats values.txt.gz
//
// Input files ending in .gz are decompressed on the fly.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
	"github.com/meos-project/meos/box"
	"github.com/meos-project/meos/mtype"
	"github.com/meos-project/meos/set"
	"github.com/meos-project/meos/span"
	"github.com/meos-project/meos/spanset"
	"github.com/meos-project/meos/temporal"
)

var (
	maxddFlag = flag.Int("maxdd", 15, "Maximum number of decimal digits for floats.")
	statsFlag = flag.Bool("stats", false, "Emit a TSV of per-type counts instead of the reformatted values.")
)

var errReporter = errors.Once{}

// reformat parses one value of the named type and returns its canonical
// text form.
func reformat(typeName, text string, maxdd int) (string, error) {
	typ := mtype.FromName(strings.ToLower(strings.TrimSpace(typeName)))
	switch {
	case typ == mtype.TBox:
		b, err := box.TBoxIn(text)
		if err != nil {
			return "", err
		}
		return b.Out(maxdd), nil
	case typ == mtype.STBox:
		b, err := box.STBoxIn(text)
		if err != nil {
			return "", err
		}
		return b.Out(maxdd), nil
	case mtype.SetOf(typ):
		s, err := set.In(text, typ)
		if err != nil {
			return "", err
		}
		return s.Out(maxdd)
	case mtype.SpanOf(typ):
		sp, err := span.In(text, typ)
		if err != nil {
			return "", err
		}
		return sp.Out(maxdd), nil
	case mtype.SpanSetOf(typ):
		ss, err := spanset.In(text, typ)
		if err != nil {
			return "", err
		}
		return ss.Out(maxdd)
	case mtype.TemporalOf(typ):
		t, err := temporal.Parse(text, typ)
		if err != nil {
			return "", err
		}
		return t.Out(maxdd)
	}
	return "", fmt.Errorf("unknown type name %q", typeName)
}

func open(path string) (io.ReadCloser, error) {
	ctx := vcontext.Background()
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	r := in.Reader(ctx)
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(r)
		if err != nil {
			in.Close(ctx) // nolint: errcheck
			return nil, err
		}
		return readCloser{gz, func() error { return in.Close(ctx) }}, nil
	}
	return readCloser{r, func() error { return in.Close(ctx) }}, nil
}

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

func run(path string, out *bufio.Writer) error {
	in, err := open(path)
	if err != nil {
		return err
	}
	defer in.Close() // nolint: errcheck

	counts := map[string]int{}
	nBad := 0
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		colon := strings.IndexByte(line, ':')
		if colon < 0 {
			log.Error.Printf("%s:%d: missing `type:` prefix", path, lineno)
			nBad++
			continue
		}
		typeName, text := line[:colon], line[colon+1:]
		formatted, err := reformat(typeName, text, *maxddFlag)
		if err != nil {
			log.Error.Printf("%s:%d: %v", path, lineno, err)
			nBad++
			continue
		}
		counts[strings.ToLower(strings.TrimSpace(typeName))]++
		if !*statsFlag {
			fmt.Fprintf(out, "%s: %s\n", strings.ToLower(strings.TrimSpace(typeName)), formatted)
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	if *statsFlag {
		w := tsv.NewWriter(out)
		w.WriteString("type\tcount")
		if err := w.EndLine(); err != nil {
			return err
		}
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			w.WriteString(name)
			w.WriteUint32(uint32(counts[name]))
			if err := w.EndLine(); err != nil {
				return err
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
	if nBad > 0 {
		return fmt.Errorf("%s: %d malformed values", path, nBad)
	}
	return nil
}

func main() {
	log.SetFlags(log.Ldate | log.Ltime)
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: meos-fmt [flags] file...")
		flag.PrintDefaults()
		os.Exit(2)
	}
	out := bufio.NewWriter(os.Stdout)
	for _, path := range flag.Args() {
		errReporter.Set(run(path, out))
	}
	if err := out.Flush(); err != nil {
		errReporter.Set(err)
	}
	if err := errReporter.Err(); err != nil {
		log.Fatal(err)
	}
}
