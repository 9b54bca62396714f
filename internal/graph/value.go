package graph

import (
	"fmt"
	"strings"
)

// TypeTag is the declared value type of a port or property.
type TypeTag int

const (
	TypeAny TypeTag = iota
	TypeNumber
	TypeBool
	TypeString
	TypeColor

	// TypeUnknown marks a tag that could not be resolved when a document was
	// loaded. It is never produced by the editor itself.
	TypeUnknown
)

var typeNames = map[TypeTag]string{
	TypeAny:     "any",
	TypeNumber:  "number",
	TypeBool:    "bool",
	TypeString:  "string",
	TypeColor:   "color",
	TypeUnknown: "unknown",
}

// typeAliases maps every accepted spelling to its tag. The System.* and
// Windows.UI.* names are what older project files stored.
var typeAliases = map[string]TypeTag{
	"any":              TypeAny,
	"object":           TypeAny,
	"system.object":    TypeAny,
	"number":           TypeNumber,
	"double":           TypeNumber,
	"float":            TypeNumber,
	"int":              TypeNumber,
	"system.double":    TypeNumber,
	"system.single":    TypeNumber,
	"system.int32":     TypeNumber,
	"bool":             TypeBool,
	"boolean":          TypeBool,
	"system.boolean":   TypeBool,
	"string":           TypeString,
	"system.string":    TypeString,
	"color":            TypeColor,
	"windows.ui.color": TypeColor,
}

func (t TypeTag) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("TypeTag(%d)", int(t))
}

// ParseTypeTag resolves a persisted tag. Assembly-qualified names are
// accepted; anything after the first comma is ignored.
func ParseTypeTag(s string) (TypeTag, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if i := strings.IndexByte(key, ','); i >= 0 {
		key = strings.TrimSpace(key[:i])
	}
	if t, ok := typeAliases[key]; ok {
		return t, nil
	}
	return TypeUnknown, fmt.Errorf("%w: %q", ErrUnknownTypeTag, s)
}

// Color is an RGBA color with channels in [0,1].
type Color struct {
	R, G, B, A float64
}

// Value is a tagged union over the closed TypeTag domain. The zero Value is
// an opaque nil.
type Value struct {
	tag    TypeTag
	num    float64
	b      bool
	s      string
	color  Color
	opaque any
}

func Number(v float64) Value   { return Value{tag: TypeNumber, num: v} }
func Bool(v bool) Value        { return Value{tag: TypeBool, b: v} }
func String(v string) Value    { return Value{tag: TypeString, s: v} }
func ColorValue(c Color) Value { return Value{tag: TypeColor, color: c} }
func Opaque(v any) Value       { return Value{tag: TypeAny, opaque: v} }

// Unknown wraps raw persisted data whose tag could not be resolved so it can
// be carried through and written back unchanged.
func Unknown(raw any) Value { return Value{tag: TypeUnknown, opaque: raw} }

// Zero returns the default value for t.
func Zero(t TypeTag) Value {
	switch t {
	case TypeNumber:
		return Number(0)
	case TypeBool:
		return Bool(false)
	case TypeString:
		return String("")
	case TypeColor:
		return ColorValue(Color{A: 1})
	case TypeUnknown:
		return Unknown(nil)
	default:
		return Opaque(nil)
	}
}

func (v Value) Tag() TypeTag { return v.tag }

func (v Value) AsNumber() (float64, bool) { return v.num, v.tag == TypeNumber }
func (v Value) AsBool() (bool, bool)      { return v.b, v.tag == TypeBool }
func (v Value) AsString() (string, bool)  { return v.s, v.tag == TypeString }
func (v Value) AsColor() (Color, bool)    { return v.color, v.tag == TypeColor }

// Interface returns the payload as a plain Go value.
func (v Value) Interface() any {
	switch v.tag {
	case TypeNumber:
		return v.num
	case TypeBool:
		return v.b
	case TypeString:
		return v.s
	case TypeColor:
		return v.color
	default:
		return v.opaque
	}
}

// Format renders the value for display in the editor.
func (v Value) Format() string {
	switch v.tag {
	case TypeNumber:
		return fmt.Sprintf("%g", v.num)
	case TypeBool:
		return fmt.Sprintf("%t", v.b)
	case TypeString:
		return v.s
	case TypeColor:
		return fmt.Sprintf("rgba(%.2f, %.2f, %.2f, %.2f)", v.color.R, v.color.G, v.color.B, v.color.A)
	case TypeUnknown:
		return "?"
	default:
		if v.opaque == nil {
			return "-"
		}
		return fmt.Sprint(v.opaque)
	}
}
