package core

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// FieldType represents the type of a field value
type FieldType uint8

const (
	StringType FieldType = iota
	IntType
	Int64Type
	Float64Type
	BoolType
	TimeType
	DurationType
	ErrorType
	AnyType
)

// Field represents a key-value pair attached to a log record
type Field struct {
	Key     string
	Type    FieldType
	Int64   int64
	Float64 float64
	Str     string
	Any     interface{}
}

// String creates a string field
func String(key, val string) Field {
	return Field{Key: key, Type: StringType, Str: val}
}

// Int creates an int field
func Int(key string, val int) Field {
	return Field{Key: key, Type: IntType, Int64: int64(val)}
}

// Int64Field creates an int64 field
func Int64Field(key string, val int64) Field {
	return Field{Key: key, Type: Int64Type, Int64: val}
}

// Float64Field creates a float64 field
func Float64Field(key string, val float64) Field {
	return Field{Key: key, Type: Float64Type, Float64: val}
}

// Bool creates a bool field
func Bool(key string, val bool) Field {
	v := int64(0)
	if val {
		v = 1
	}
	return Field{Key: key, Type: BoolType, Int64: v}
}

// Time creates a time field
func Time(key string, val time.Time) Field {
	return Field{Key: key, Type: TimeType, Int64: val.UnixNano()}
}

// Duration creates a duration field
func Duration(key string, val time.Duration) Field {
	return Field{Key: key, Type: DurationType, Int64: int64(val)}
}

// Err creates an error field under the key "error"
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Type: ErrorType, Str: ""}
	}
	return Field{Key: "error", Type: ErrorType, Str: err.Error()}
}

// Any creates a field with an arbitrary value
func Any(key string, val interface{}) Field {
	return Field{Key: key, Type: AnyType, Any: val}
}

// AppendValue writes the field's value into buf without building an
// intermediate string for the numeric types.
func (f Field) AppendValue(buf *bytes.Buffer) {
	switch f.Type {
	case StringType, ErrorType:
		buf.WriteString(f.Str)
	case IntType, Int64Type:
		buf.Write(strconv.AppendInt(buf.AvailableBuffer(), f.Int64, 10))
	case Float64Type:
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), f.Float64, 'f', -1, 64))
	case BoolType:
		buf.Write(strconv.AppendBool(buf.AvailableBuffer(), f.Int64 == 1))
	case TimeType:
		buf.Write(time.Unix(0, f.Int64).AppendFormat(buf.AvailableBuffer(), time.RFC3339))
	case DurationType:
		buf.WriteString(time.Duration(f.Int64).String())
	case AnyType:
		fmt.Fprintf(buf, "%v", f.Any)
	}
}

// StringValue returns the string representation of the field's value.
// Export surface for external formatters; the render hot path uses
// AppendValue instead.
func (f Field) StringValue() string {
	var buf bytes.Buffer
	f.AppendValue(&buf)
	return buf.String()
}
