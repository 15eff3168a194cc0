// Package formatter renders log records to text through precompiled
// templates.
//
// A template is parsed exactly once, at construction, into an ordered
// sequence of segments: literal runs and field directives of the form
// {name} or {name:width}. Rendering walks the segments and extracts the
// referenced values; no template parsing happens at render time. This is
// the dominant CPU cost of the pipeline, so AppendRecord writes directly
// into the caller's buffer and relies on Go's Append-style functions
// (time.AppendFormat, strconv.AppendInt) to stay allocation-lean.
//
// Built-in directive names are asctime, levelname, message, name,
// thread_id, and process_id. Any other name is looked up in the record's
// merged fields; an absent key renders as the empty string, never an
// error. Width follows printf alignment: {msg:20} pads on the left
// (right-aligns), {msg:-20} pads on the right.
package formatter
