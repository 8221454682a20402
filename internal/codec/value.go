package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kairosolo/kprefs/internal/domain"
)

// Type tags written next to each value. They match the names used by the
// files this format originated from and must not change.
const (
	TagInt       = "Int32"
	TagFloat     = "Single"
	TagBool      = "Boolean"
	TagString    = "String"
	TagVec2      = "SerializableVector2"
	TagVec3      = "SerializableVector3"
	TagColor     = "SerializableColor"
	TagTimestamp = "SerializableDateTime"
)

// ErrUnknownTag marks an entry whose type tag is not recognised. Such entries
// are kept as strings holding the raw text.
var ErrUnknownTag = errors.New("unknown type tag")

// EntryError reports a single entry that could not be decoded as written.
type EntryError struct {
	Key string
	Tag string
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %q (%s): %v", e.Key, e.Tag, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// component is a float inside a nested value. Non-finite components are
// written as the bare tokens NaN, Infinity and -Infinity, which plain JSON
// cannot carry.
type component float32

func (c *component) UnmarshalJSON(b []byte) error {
	text := string(b)
	if text == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(text); err == nil {
		text = unq
	}
	f, err := parseComponent(text)
	if err != nil {
		return err
	}
	*c = component(f)
	return nil
}

type vec2Doc struct {
	X component `json:"x"`
	Y component `json:"y"`
}

type vec3Doc struct {
	X component `json:"x"`
	Y component `json:"y"`
	Z component `json:"z"`
}

type colorDoc struct {
	R component `json:"r"`
	G component `json:"g"`
	B component `json:"b"`
	A component `json:"a"`
}

var bareToken = regexp.MustCompile(`([:,\[]\s*)(-?Infinity|NaN)`)

type ticksDoc struct {
	Ticks int64 `json:"ticks"`
}

// TagOf returns the on-disk tag for k.
func TagOf(k domain.Kind) (string, error) {
	switch k {
	case domain.KindInt:
		return TagInt, nil
	case domain.KindFloat:
		return TagFloat, nil
	case domain.KindBool:
		return TagBool, nil
	case domain.KindString:
		return TagString, nil
	case domain.KindVec2:
		return TagVec2, nil
	case domain.KindVec3:
		return TagVec3, nil
	case domain.KindColor:
		return TagColor, nil
	case domain.KindTimestamp:
		return TagTimestamp, nil
	default:
		return "", fmt.Errorf("no tag for kind %s", k)
	}
}

// KindOf returns the kind for an on-disk tag, or KindInvalid.
func KindOf(tag string) domain.Kind {
	switch tag {
	case TagInt:
		return domain.KindInt
	case TagFloat:
		return domain.KindFloat
	case TagBool:
		return domain.KindBool
	case TagString:
		return domain.KindString
	case TagVec2:
		return domain.KindVec2
	case TagVec3:
		return domain.KindVec3
	case TagColor:
		return domain.KindColor
	case TagTimestamp:
		return domain.KindTimestamp
	default:
		return domain.KindInvalid
	}
}

// EncodeValue renders v as (tag, text).
func EncodeValue(v domain.Value) (tag, text string, err error) {
	tag, err = TagOf(v.Kind())
	if err != nil {
		return "", "", err
	}

	switch v.Kind() {
	case domain.KindInt:
		n, _ := v.Int()
		return tag, strconv.FormatInt(int64(n), 10), nil
	case domain.KindFloat:
		f, _ := v.Float()
		return tag, strconv.FormatFloat(float64(f), 'g', -1, 32), nil
	case domain.KindBool:
		if b, _ := v.Bool(); b {
			return tag, "True", nil
		}
		return tag, "False", nil
	case domain.KindString:
		s, _ := v.Str()
		return tag, s, nil
	case domain.KindVec2:
		p, _ := v.Vec2()
		return tag, formatComponents([]string{"x", "y"}, p.X, p.Y), nil
	case domain.KindVec3:
		p, _ := v.Vec3()
		return tag, formatComponents([]string{"x", "y", "z"}, p.X, p.Y, p.Z), nil
	case domain.KindColor:
		c, _ := v.Color()
		return tag, formatComponents([]string{"r", "g", "b", "a"}, c.R, c.G, c.B, c.A), nil
	default: // KindTimestamp
		t, _ := v.Timestamp()
		return marshalNested(tag, ticksDoc{Ticks: int64(t)})
	}
}

func marshalNested(tag string, doc any) (string, string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", "", err
	}
	return tag, string(b), nil
}

// formatComponents writes {"x":1,"y":2} with fields in the given order.
func formatComponents(names []string, vals ...float32) string {
	var b strings.Builder
	b.WriteByte('{')
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(name))
		b.WriteByte(':')
		b.WriteString(formatComponent(vals[i]))
	}
	b.WriteByte('}')
	return b.String()
}

func formatComponent(f float32) string {
	switch {
	case math.IsNaN(float64(f)):
		return "NaN"
	case math.IsInf(float64(f), 1):
		return "Infinity"
	case math.IsInf(float64(f), -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func parseComponent(text string) (float32, error) {
	switch text {
	case "NaN":
		return float32(math.NaN()), nil
	case "Infinity":
		return float32(math.Inf(1)), nil
	case "-Infinity":
		return float32(math.Inf(-1)), nil
	}
	f, err := strconv.ParseFloat(text, 32)
	if err != nil {
		return 0, err
	}
	return float32(f), nil
}

// unmarshalComponents decodes a nested value, quoting bare non-finite
// tokens first so encoding/json accepts them.
func unmarshalComponents(text string, doc any) error {
	return json.Unmarshal([]byte(bareToken.ReplaceAllString(text, `${1}"${2}"`)), doc)
}

// DecodeValue parses text written under tag. On failure it still returns a
// usable value (the kind's default, or a string for unknown tags) together
// with the error.
func DecodeValue(tag, text string, now time.Time) (domain.Value, error) {
	kind := KindOf(tag)

	switch kind {
	case domain.KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return domain.Default(kind, now), err
		}
		return domain.IntValue(int32(n)), nil

	case domain.KindFloat:
		f, err := parseFloat32(text)
		if err != nil {
			return domain.Default(kind, now), err
		}
		return domain.FloatValue(f), nil

	case domain.KindBool:
		switch strings.ToLower(strings.TrimSpace(text)) {
		case "true":
			return domain.BoolValue(true), nil
		case "false":
			return domain.BoolValue(false), nil
		}
		return domain.Default(kind, now), fmt.Errorf("invalid boolean %q", text)

	case domain.KindString:
		return domain.StringValue(text), nil

	case domain.KindVec2:
		var d vec2Doc
		if err := unmarshalComponents(text, &d); err != nil {
			return domain.Default(kind, now), err
		}
		return domain.Vec2Value(domain.Vec2{X: float32(d.X), Y: float32(d.Y)}), nil

	case domain.KindVec3:
		var d vec3Doc
		if err := unmarshalComponents(text, &d); err != nil {
			return domain.Default(kind, now), err
		}
		return domain.Vec3Value(domain.Vec3{X: float32(d.X), Y: float32(d.Y), Z: float32(d.Z)}), nil

	case domain.KindColor:
		var d colorDoc
		if err := unmarshalComponents(text, &d); err != nil {
			return domain.Default(kind, now), err
		}
		return domain.ColorValue(domain.Color{R: float32(d.R), G: float32(d.G), B: float32(d.B), A: float32(d.A)}), nil

	case domain.KindTimestamp:
		var d ticksDoc
		if err := json.Unmarshal([]byte(text), &d); err != nil {
			return domain.Default(kind, now), err
		}
		return domain.TimestampValue(domain.Ticks(d.Ticks)), nil

	default:
		return domain.StringValue(text), ErrUnknownTag
	}
}

// parseFloat32 accepts invariant text and, for files written under a
// comma-decimal locale, a single comma in place of the point.
func parseFloat32(text string) (float32, error) {
	text = strings.TrimSpace(text)
	f, err := strconv.ParseFloat(text, 32)
	if err == nil {
		return float32(f), nil
	}
	if strings.Count(text, ",") == 1 && !strings.Contains(text, ".") {
		if g, err2 := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 32); err2 == nil {
			return float32(g), nil
		}
	}
	return 0, err
}
