// Package capture keeps inspected WAMP frames in sqlite and moves them in and
// out of compressed JSON-lines archives.
package capture

import (
	"bytes"
	"time"

	"github.com/goccy/go-json"
	"gorm.io/gorm"

	"wampcore/pkg/common/file"
	"wampcore/pkg/wamp"
)

// Source names where a recorded frame came from.
const (
	SourceAPI    = "api"
	SourceBatch  = "batch"
	SourceImport = "import"
	SourceCLI    = "cli"
)

// FrameRecord is one inspected frame.
type FrameRecord struct {
	ID  uint   `gorm:"primaryKey" json:"id"`
	Tag uint64 `gorm:"-" json:"tag"`
	// StoredTag is Tag as persisted. sqlite integers are signed, so tags
	// above math.MaxInt64 keep their bit pattern and read back negative.
	StoredTag int64  `gorm:"column:tag;index" json:"-"`
	TypeName  string `gorm:"index" json:"type"`
	Known     bool   `json:"known"`
	Raw       string `json:"raw"`
	Canonical string `json:"canonical,omitempty"`
	Digest    string `gorm:"index;size:64" json:"digest"`
	ErrorText string `json:"error,omitempty"`
	ErrorKind string `gorm:"index" json:"error_kind,omitempty"`
	Role      string `json:"role,omitempty"`
	Direction string `json:"direction,omitempty"`
	// Permitted is nil when no role check was made.
	Permitted *bool     `json:"permitted,omitempty"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeSave copies Tag into its column.
func (r *FrameRecord) BeforeSave(*gorm.DB) error {
	r.StoredTag = storedTag(r.Tag)
	return nil
}

// AfterFind restores Tag from its column.
func (r *FrameRecord) AfterFind(*gorm.DB) error {
	r.Tag = uint64(r.StoredTag)
	return nil
}

func storedTag(tag uint64) int64 { return int64(tag) }

// Failed reports whether the frame did not decode.
func (r *FrameRecord) Failed() bool { return r.ErrorText != "" }

// Analyze decodes raw and describes the outcome as an unsaved record. The
// message is nil when decoding failed.
func Analyze(raw []byte, source string) (*FrameRecord, wamp.Message) {
	rec := &FrameRecord{Source: source, Raw: compact(raw)}
	rec.Digest = file.Digest([]byte(rec.Raw))

	msg, err := wamp.Unmarshal(raw)
	if err != nil {
		rec.ErrorText = err.Error()
		rec.ErrorKind = wamp.KindOf(err)
		// keep whatever tag is readable so failures still group by type
		if frame, perr := wamp.ParseFrame(raw); perr == nil && len(frame) > 0 {
			if tag, ok := wamp.AsID(frame[0]); ok {
				rec.Tag = tag
				rec.TypeName = wamp.NameOf(wamp.MessageType(tag))
				rec.Known = wamp.MessageType(tag).Known()
			}
		}
		return rec, nil
	}

	t := msg.Type()
	rec.Tag = uint64(t)
	rec.TypeName = wamp.NameOf(t)
	rec.Known = t.Known()
	if canon, err := wamp.Marshal(msg); err == nil {
		rec.Canonical = string(canon)
	}
	return rec, msg
}

// SetVerdict stores the result of a role check on the record.
func (r *FrameRecord) SetVerdict(role string, send, permitted bool) {
	r.Role = role
	r.Direction = "receive"
	if send {
		r.Direction = "send"
	}
	r.Permitted = &permitted
}

func compact(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
