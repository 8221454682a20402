package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindVec2
	KindVec3
	KindColor
	KindTimestamp
)

var kindNames = [...]string{
	KindInvalid:   "invalid",
	KindInt:       "int",
	KindFloat:     "float",
	KindBool:      "bool",
	KindString:    "string",
	KindVec2:      "vec2",
	KindVec3:      "vec3",
	KindColor:     "color",
	KindTimestamp: "timestamp",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Kinds lists every valid variant in declaration order.
func Kinds() []Kind {
	return []Kind{KindInt, KindFloat, KindBool, KindString, KindVec2, KindVec3, KindColor, KindTimestamp}
}

// ParseKind resolves a kind from its String form (case-insensitive).
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return KindInvalid, fmt.Errorf("unknown value kind %q", s)
}

// Vec2 is a two-component float vector.
type Vec2 struct{ X, Y float32 }

// Vec3 is a three-component float vector.
type Vec3 struct{ X, Y, Z float32 }

// Color is a linear RGBA color with components in [0,1].
type Color struct{ R, G, B, A float32 }

// White is the default Color.
var White = Color{R: 1, G: 1, B: 1, A: 1}

// Ticks counts 100ns intervals since 0001-01-01T00:00:00 UTC.
type Ticks int64

const (
	ticksPerSecond = 10_000_000
	unixEpochTicks = 621_355_968_000_000_000
)

// TicksOf converts t to Ticks.
func TicksOf(t time.Time) Ticks {
	return Ticks(t.Unix()*ticksPerSecond + int64(t.Nanosecond())/100 + unixEpochTicks)
}

// Time converts ticks to a UTC time.
func (t Ticks) Time() time.Time {
	d := int64(t) - unixEpochTicks
	sec, rem := d/ticksPerSecond, d%ticksPerSecond
	if rem < 0 {
		rem += ticksPerSecond
		sec--
	}
	return time.Unix(sec, rem*100).UTC()
}

// Value is a closed tagged union over the types the store can persist.
// The zero Value has KindInvalid and is never written to disk.
type Value struct {
	kind Kind
	n    int64 // KindInt, KindTimestamp
	f    [4]float32
	b    bool
	s    string
}

func IntValue(v int32) Value       { return Value{kind: KindInt, n: int64(v)} }
func FloatValue(v float32) Value   { return Value{kind: KindFloat, f: [4]float32{v}} }
func BoolValue(v bool) Value       { return Value{kind: KindBool, b: v} }
func StringValue(v string) Value   { return Value{kind: KindString, s: v} }
func Vec2Value(v Vec2) Value       { return Value{kind: KindVec2, f: [4]float32{v.X, v.Y}} }
func Vec3Value(v Vec3) Value       { return Value{kind: KindVec3, f: [4]float32{v.X, v.Y, v.Z}} }
func ColorValue(v Color) Value     { return Value{kind: KindColor, f: [4]float32{v.R, v.G, v.B, v.A}} }
func TimestampValue(v Ticks) Value { return Value{kind: KindTimestamp, n: int64(v)} }

// TimeValue is shorthand for TimestampValue(TicksOf(t)).
func TimeValue(t time.Time) Value { return TimestampValue(TicksOf(t)) }

// Default returns the type default for k: 0, 0.0, false, "", the zero
// vector, opaque white, or now.
func Default(k Kind, now time.Time) Value {
	switch k {
	case KindInt:
		return IntValue(0)
	case KindFloat:
		return FloatValue(0)
	case KindBool:
		return BoolValue(false)
	case KindString:
		return StringValue("")
	case KindVec2:
		return Vec2Value(Vec2{})
	case KindVec3:
		return Vec3Value(Vec3{})
	case KindColor:
		return ColorValue(White)
	case KindTimestamp:
		return TimeValue(now)
	default:
		return Value{}
	}
}

func (v Value) Kind() Kind    { return v.kind }
func (v Value) IsValid() bool { return v.kind != KindInvalid }

func (v Value) Int() (int32, bool)     { return int32(v.n), v.kind == KindInt }
func (v Value) Float() (float32, bool) { return v.f[0], v.kind == KindFloat }
func (v Value) Bool() (bool, bool)     { return v.b, v.kind == KindBool }
func (v Value) Str() (string, bool)    { return v.s, v.kind == KindString }
func (v Value) Vec2() (Vec2, bool)     { return Vec2{v.f[0], v.f[1]}, v.kind == KindVec2 }
func (v Value) Vec3() (Vec3, bool)     { return Vec3{v.f[0], v.f[1], v.f[2]}, v.kind == KindVec3 }
func (v Value) Color() (Color, bool) {
	return Color{v.f[0], v.f[1], v.f[2], v.f[3]}, v.kind == KindColor
}
func (v Value) Timestamp() (Ticks, bool) { return Ticks(v.n), v.kind == KindTimestamp }

// Equal reports whether v and o hold the same variant with bit-identical
// payloads. Floats compare by bit pattern, so NaN equals an identical NaN.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt, KindTimestamp:
		return v.n == o.n
	case KindBool:
		return v.b == o.b
	case KindString:
		return v.s == o.s
	case KindFloat, KindVec2, KindVec3, KindColor:
		for i := range v.f {
			if math.Float32bits(v.f[i]) != math.Float32bits(o.f[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// String renders v for humans (logs, the inspector CLI).
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.n, 10)
	case KindFloat:
		return formatFloat(v.f[0])
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindString:
		return v.s
	case KindVec2:
		return fmt.Sprintf("(%s, %s)", formatFloat(v.f[0]), formatFloat(v.f[1]))
	case KindVec3:
		return fmt.Sprintf("(%s, %s, %s)", formatFloat(v.f[0]), formatFloat(v.f[1]), formatFloat(v.f[2]))
	case KindColor:
		return fmt.Sprintf("RGBA(%s, %s, %s, %s)",
			formatFloat(v.f[0]), formatFloat(v.f[1]), formatFloat(v.f[2]), formatFloat(v.f[3]))
	case KindTimestamp:
		return Ticks(v.n).Time().Format(time.RFC3339Nano)
	default:
		return "<invalid>"
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}
