// Command framectl decodes WAMP frames, one JSON array per line, and reports
// their type, canonical encoding and, optionally, a role verdict.
//
//	framectl -f capture.jsonl.gz --role caller --direction receive
//	echo '[48,1,{},"com.app.add",[1,2]]' | framectl --json
package main

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"

	"wampcore/pkg/capture"
	"wampcore/pkg/common/compress"
	"wampcore/pkg/common/database"
	"wampcore/pkg/common/logger"
	"wampcore/pkg/conformance"
	"wampcore/pkg/inspect"
	"wampcore/pkg/wamp"
)

type options struct {
	file      string
	role      string
	direction string
	strict    bool
	asJSON    bool
	db        string
	verbose   bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := pflag.NewFlagSet("framectl", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.file, "file", "f", "", "read frames from file (plain, gzip or zstd); stdin when empty")
	fs.StringVarP(&o.role, "role", "r", "", "check every frame against this role")
	fs.StringVarP(&o.direction, "direction", "d", "receive", "direction for --role: send or receive")
	fs.BoolVar(&o.strict, "strict", false, "validate URIs with the strict grammar")
	fs.BoolVar(&o.asJSON, "json", false, "print one JSON object per frame")
	fs.StringVar(&o.db, "db", "", "also record frames into this sqlite database")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "debug logging on stderr")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.direction != "send" && o.direction != "receive" {
		return nil, fmt.Errorf("--direction must be send or receive, got %q", o.direction)
	}
	return o, nil
}

// line is the report for one frame.
type line struct {
	inspect.FrameResult
	Line      int    `json:"line"`
	Role      string `json:"role,omitempty"`
	Permitted *bool  `json:"permitted,omitempty"`
	Violation string `json:"violation,omitempty"`
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	if err := logger.Init(&logger.Config{Level: level, Format: "console", Output: "stderr"}); err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	log := logger.WithComponent("framectl")

	var checker *conformance.Checker
	if o.role != "" {
		if checker, err = conformance.Parse([]string{o.role}); err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
	}

	data, err := readInput(o.file, stdin)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var recs []*capture.FrameRecord
	failed := 0
	out := bufio.NewWriter(stdout)
	defer out.Flush()
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 8<<20)
	n := 0
	for sc.Scan() {
		n++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		rec, msg := capture.Analyze(raw, capture.SourceCLI)
		l := line{FrameResult: inspect.FrameResult{
			Tag: rec.Tag, Type: rec.TypeName, Known: rec.Known, Canonical: rec.Canonical,
			Error: rec.ErrorText, ErrorKind: rec.ErrorKind,
		}, Line: n}
		if msg != nil {
			l.URIIssues = inspect.CheckURIs(msg, o.strict)
			if checker != nil {
				send := o.direction == "send"
				verr := checker.CheckReceive(msg)
				if send {
					verr = checker.CheckSend(msg)
				}
				rec.SetVerdict(o.role, send, verr == nil)
				l.Role, l.Permitted = o.role, rec.Permitted
				if verr != nil {
					l.Violation = verr.Error()
				}
			}
		}
		if rec.Failed() || (l.Permitted != nil && !*l.Permitted) {
			failed++
		}
		recs = append(recs, rec)
		if err := printLine(out, l, o.asJSON); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	log.Debug().Int("frames", len(recs)).Int("failed", failed).Msg("input processed")

	if o.db != "" {
		if err := record(o.db, recs); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return compress.Decode(data)
}

func printLine(w io.Writer, l line, asJSON bool) error {
	if asJSON {
		b, err := json.Marshal(l)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err
	}
	if l.Error != "" {
		_, err := fmt.Fprintf(w, "%d\tERROR\t%s\t%s\n", l.Line, l.ErrorKind, l.Error)
		return err
	}
	name := wamp.MessageType(l.Tag).String()
	verdict := ""
	if l.Permitted != nil {
		verdict = "\tok"
		if !*l.Permitted {
			verdict = "\t" + l.Violation
		}
	}
	if _, err := fmt.Fprintf(w, "%d\t%s\t%s%s\n", l.Line, name, l.Canonical, verdict); err != nil {
		return err
	}
	for _, is := range l.URIIssues {
		if _, err := fmt.Fprintf(w, "%d\tURI\t%s: %s\n", l.Line, is.Field, is.Error); err != nil {
			return err
		}
	}
	return nil
}

func record(path string, recs []*capture.FrameRecord) error {
	db, err := database.Open(path)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	store, err := capture.Open(db)
	if err != nil {
		return err
	}
	return store.RecordAll(context.Background(), recs)
}
