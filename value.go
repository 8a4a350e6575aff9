package engine

import "fmt"

// ValueTag identifies which alternative of the Value sum type is populated.
// The set of tags is fixed: every node input/output port declares exactly
// one of these.
type ValueTag int

const (
	TagEmpty ValueTag = iota
	TagFloat
	TagInt
	TagBool
	TagString
	TagBufferRef
	TagNoteListRef
)

func (t ValueTag) String() string {
	switch t {
	case TagFloat:
		return "float"
	case TagInt:
		return "int"
	case TagBool:
		return "bool"
	case TagString:
		return "string"
	case TagBufferRef:
		return "buffer-ref"
	case TagNoteListRef:
		return "note-list-ref"
	default:
		return "empty"
	}
}

// Value is a tagged union over a node port's possible contents. Only the
// field matching Tag is meaningful; Go's zero value for every other field is
// ignored.
type Value struct {
	tag   ValueTag
	f     float32
	i     int64
	b     bool
	s     string
	buf   *AudioBuffer
	notes []Note
}

// EmptyValue is the default value for TagEmpty and the fallback used when a
// required input/output is unresolved.
func EmptyValue() Value { return Value{tag: TagEmpty} }

func FloatValue(f float32) Value  { return Value{tag: TagFloat, f: f} }
func IntValue(i int64) Value      { return Value{tag: TagInt, i: i} }
func BoolValue(b bool) Value      { return Value{tag: TagBool, b: b} }
func StringValue(s string) Value  { return Value{tag: TagString, s: s} }
func BufferRefValue(b *AudioBuffer) Value {
	return Value{tag: TagBufferRef, buf: b}
}
func NoteListValue(notes []Note) Value {
	return Value{tag: TagNoteListRef, notes: notes}
}

// Tag reports which alternative is populated.
func (v Value) Tag() ValueTag { return v.tag }

// Float returns the float payload and whether v is tagged TagFloat.
func (v Value) Float() (float32, bool) { return v.f, v.tag == TagFloat }

// Int returns the int payload and whether v is tagged TagInt.
func (v Value) Int() (int64, bool) { return v.i, v.tag == TagInt }

// Bool returns the bool payload and whether v is tagged TagBool.
func (v Value) Bool() (bool, bool) { return v.b, v.tag == TagBool }

// String returns the string payload and whether v is tagged TagString.
func (v Value) String() (string, bool) { return v.s, v.tag == TagString }

// Buffer returns the buffer-ref payload and whether v is tagged TagBufferRef.
func (v Value) Buffer() (*AudioBuffer, bool) { return v.buf, v.tag == TagBufferRef }

// Notes returns the note-list payload and whether v is tagged TagNoteListRef.
func (v Value) Notes() ([]Note, bool) { return v.notes, v.tag == TagNoteListRef }

// GoString renders a debug representation, used by %#v and test failure
// output.
func (v Value) GoString() string {
	switch v.tag {
	case TagFloat:
		return fmt.Sprintf("Value(float=%v)", v.f)
	case TagInt:
		return fmt.Sprintf("Value(int=%v)", v.i)
	case TagBool:
		return fmt.Sprintf("Value(bool=%v)", v.b)
	case TagString:
		return fmt.Sprintf("Value(string=%q)", v.s)
	case TagBufferRef:
		return fmt.Sprintf("Value(buffer=%p)", v.buf)
	case TagNoteListRef:
		return fmt.Sprintf("Value(notes=%d)", len(v.notes))
	default:
		return "Value(empty)"
	}
}

// DefaultForTag returns the zero Value for a given tag. Used when a port was
// never assigned (missing connector, never set_input'd, or a node's
// evaluate result omitted a declared output).
func DefaultForTag(tag ValueTag) Value {
	switch tag {
	case TagFloat:
		return FloatValue(0)
	case TagInt:
		return IntValue(0)
	case TagBool:
		return BoolValue(false)
	case TagString:
		return StringValue("")
	case TagBufferRef:
		return BufferRefValue(nil)
	case TagNoteListRef:
		return NoteListValue(nil)
	default:
		return EmptyValue()
	}
}
