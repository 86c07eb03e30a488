package capture

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"wampcore/pkg/common/compress"
	"wampcore/pkg/common/file"
	"wampcore/pkg/common/fs"
)

// ErrUnsupported is returned by Import for content that is neither
// JSON-lines nor a compressed JSON-lines archive.
var ErrUnsupported = errors.New("capture: unsupported archive content")

// maxLine bounds a single frame inside an archive.
const maxLine = 8 << 20

// Archive exports the store into objects of a FileSystem and imports them
// back.
type Archive struct {
	store *Store
	fsys  *fs.FileSystem
}

// NewArchive binds a store to an object filesystem.
func NewArchive(store *Store, fsys *fs.FileSystem) *Archive {
	return &Archive{store: store, fsys: fsys}
}

// Export writes every recorded frame, one raw JSON frame per line, into a
// new object and returns its name and the number of frames written.
func (a *Archive) Export(ctx context.Context) (string, int, error) {
	recs, err := a.store.All(ctx)
	if err != nil {
		return "", 0, err
	}
	var buf bytes.Buffer
	for _, r := range recs {
		buf.WriteString(r.Raw)
		buf.WriteByte('\n')
	}
	ext := a.fsys.GetCompressor().Type().Extension()
	name := fmt.Sprintf("capture-%s.jsonl%s", time.Now().UTC().Format("20060102T150405.000000000"), ext)
	if err := a.fsys.WriteObject(name, buf.Bytes()); err != nil {
		return "", 0, fmt.Errorf("capture: export: %w", err)
	}
	a.store.log.Info().Str("archive", name).Int("frames", len(recs)).Msg("capture exported")
	return name, len(recs), nil
}

// Open returns the stored (still compressed) bytes of an archive.
func (a *Archive) Open(name string) ([]byte, error) {
	return a.fsys.ReadObjectRaw(name)
}

// List returns the archive names.
func (a *Archive) List() ([]string, error) {
	return a.fsys.ListObjects()
}

// ImportResult summarizes an Import.
type ImportResult struct {
	Kind     file.Kind `json:"kind"`
	Lines    int       `json:"lines"`
	Recorded int       `json:"recorded"`
	Failed   int       `json:"failed"`
}

// Import records every non-blank line of data. Gzip and zstd content is
// detected and decompressed first. Lines that do not decode are recorded
// with their error and counted as failed.
func (a *Archive) Import(ctx context.Context, data []byte) (ImportResult, error) {
	res := ImportResult{Kind: file.Sniff(data)}
	switch res.Kind {
	case file.KindGzip, file.KindZstd:
		plain, err := compress.Decode(data)
		if err != nil {
			return res, fmt.Errorf("capture: import: %w", err)
		}
		data = plain
	case file.KindJSON, file.KindJSONLines:
	default:
		return res, ErrUnsupported
	}

	var recs []*FrameRecord
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		res.Lines++
		rec, _ := Analyze(line, SourceImport)
		if rec.Failed() {
			res.Failed++
		}
		recs = append(recs, rec)
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("capture: import: %w", err)
	}
	if err := a.store.RecordAll(ctx, recs); err != nil {
		return res, err
	}
	res.Recorded = len(recs)
	return res, nil
}
