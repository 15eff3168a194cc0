package formatter

import (
	"bytes"
	"strconv"
	"strings"
	"sync"

	"github.com/voltlog/voltlog/core"
)

// Default template and timestamp layout, applied when the corresponding
// constructor argument is empty.
const (
	DefaultTemplate   = "{asctime} - {levelname} - {message}"
	DefaultTimeLayout = "2006-01-02 15:04:05"
)

type segKind uint8

const (
	litSeg segKind = iota
	asctimeSeg
	levelSeg
	messageSeg
	nameSeg
	threadSeg
	processSeg
	fieldSeg
)

type segment struct {
	kind segKind
	lit  string // literal text (litSeg) or field key (fieldSeg)
	// width follows printf alignment: positive pads left (right-aligns),
	// negative pads right, zero disables padding.
	width int
}

// CompiledFormatter renders records through a template compiled at
// construction time. It is immutable after construction and safe for
// concurrent use.
type CompiledFormatter struct {
	segs       []segment
	timeLayout string
}

// NewCompiledFormatter parses template once into segments. timeLayout is
// the Go layout used for the asctime directive and may carry sub-second
// precision (e.g. "2006-01-02 15:04:05.000000"). Empty arguments fall
// back to DefaultTemplate and DefaultTimeLayout.
func NewCompiledFormatter(template, timeLayout string) *CompiledFormatter {
	if template == "" {
		template = DefaultTemplate
	}
	if timeLayout == "" {
		timeLayout = DefaultTimeLayout
	}
	return &CompiledFormatter{
		segs:       compile(template),
		timeLayout: timeLayout,
	}
}

// compile splits the template into literal runs and field directives.
// Malformed directives (unclosed brace, empty name) become literal text
// so that compilation can never fail.
func compile(template string) []segment {
	var segs []segment
	var lit strings.Builder

	flushLit := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{kind: litSeg, lit: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); {
		c := template[i]
		switch {
		case c == '{' && i+1 < len(template) && template[i+1] == '{':
			lit.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(template) && template[i+1] == '}':
			lit.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				lit.WriteByte('{')
				i++
				continue
			}
			body := template[i+1 : i+end]
			seg, ok := parseDirective(body)
			if !ok {
				lit.WriteString(template[i : i+end+1])
				i += end + 1
				continue
			}
			flushLit()
			segs = append(segs, seg)
			i += end + 1
		default:
			lit.WriteByte(c)
			i++
		}
	}
	flushLit()
	return segs
}

// parseDirective interprets the text between braces as name[:width].
func parseDirective(body string) (segment, bool) {
	name := body
	width := 0
	if idx := strings.IndexByte(body, ':'); idx >= 0 {
		name = body[:idx]
		w, err := strconv.Atoi(body[idx+1:])
		if err != nil {
			return segment{}, false
		}
		width = w
	}
	if name == "" {
		return segment{}, false
	}

	seg := segment{width: width}
	switch name {
	case "asctime":
		seg.kind = asctimeSeg
	case "levelname":
		seg.kind = levelSeg
	case "message":
		seg.kind = messageSeg
	case "name":
		seg.kind = nameSeg
	case "thread_id":
		seg.kind = threadSeg
	case "process_id":
		seg.kind = processSeg
	default:
		seg.kind = fieldSeg
		seg.lit = name
	}
	return seg, true
}

// scratchPool holds buffers for rendering padded directives, which need
// the value's length before the padding side is known.
var scratchPool = sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(64)
		return b
	},
}

// AppendRecord renders the record into buf. It never fails: unknown
// field directives resolve to the empty string.
func (f *CompiledFormatter) AppendRecord(buf *bytes.Buffer, rec *core.Record) {
	for _, seg := range f.segs {
		if seg.kind == litSeg {
			buf.WriteString(seg.lit)
			continue
		}
		if seg.width == 0 {
			f.appendValue(buf, seg, rec)
			continue
		}

		scratch := scratchPool.Get().(*bytes.Buffer)
		scratch.Reset()
		f.appendValue(scratch, seg, rec)

		pad := seg.width
		if pad < 0 {
			pad = -pad
		}
		pad -= scratch.Len()
		if seg.width > 0 {
			writeSpaces(buf, pad)
			buf.Write(scratch.Bytes())
		} else {
			buf.Write(scratch.Bytes())
			writeSpaces(buf, pad)
		}
		scratchPool.Put(scratch)
	}
}

// Render returns the record rendered as a string. Convenience wrapper
// around AppendRecord for callers outside the batch path.
func (f *CompiledFormatter) Render(rec *core.Record) string {
	var buf bytes.Buffer
	buf.Grow(128)
	f.AppendRecord(&buf, rec)
	return buf.String()
}

func (f *CompiledFormatter) appendValue(buf *bytes.Buffer, seg segment, rec *core.Record) {
	switch seg.kind {
	case asctimeSeg:
		buf.Write(rec.Time.AppendFormat(buf.AvailableBuffer(), f.timeLayout))
	case levelSeg:
		buf.WriteString(rec.Level.String())
	case messageSeg:
		buf.WriteString(rec.Message)
	case nameSeg:
		buf.WriteString(rec.Name)
	case threadSeg:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), rec.ThreadID, 10))
	case processSeg:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(rec.ProcessID), 10))
	case fieldSeg:
		if fld, ok := rec.Lookup(seg.lit); ok {
			fld.AppendValue(buf)
		}
	}
}

const spaces = "                                "

func writeSpaces(buf *bytes.Buffer, n int) {
	for n > 0 {
		chunk := n
		if chunk > len(spaces) {
			chunk = len(spaces)
		}
		buf.WriteString(spaces[:chunk])
		n -= chunk
	}
}
