package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kairosolo/kprefs/internal/domain"
)

// parseValue builds a value of the named kind from command-line text.
// Vectors and colors are comma separated; timestamps are RFC 3339 or "now".
func parseValue(kind, text string, now time.Time) (domain.Value, error) {
	k, err := domain.ParseKind(kind)
	if err != nil {
		return domain.Value{}, fmt.Errorf("%w (want one of %s)", err, kindList())
	}

	switch k {
	case domain.KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(text), 10, 32)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.IntValue(int32(n)), nil
	case domain.KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.FloatValue(float32(f)), nil
	case domain.KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return domain.Value{}, err
		}
		return domain.BoolValue(b), nil
	case domain.KindString:
		return domain.StringValue(text), nil
	case domain.KindVec2:
		f, err := floats(text, 2)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.Vec2Value(domain.Vec2{X: f[0], Y: f[1]}), nil
	case domain.KindVec3:
		f, err := floats(text, 3)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.Vec3Value(domain.Vec3{X: f[0], Y: f[1], Z: f[2]}), nil
	case domain.KindColor:
		f, err := floats(text, 4)
		if err != nil {
			return domain.Value{}, err
		}
		return domain.ColorValue(domain.Color{R: f[0], G: f[1], B: f[2], A: f[3]}), nil
	default: // KindTimestamp
		if strings.EqualFold(strings.TrimSpace(text), "now") {
			return domain.TimeValue(now), nil
		}
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(text))
		if err != nil {
			return domain.Value{}, err
		}
		return domain.TimeValue(t), nil
	}
}

func floats(text string, n int) ([]float32, error) {
	parts := strings.Split(text, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated numbers, got %q", n, text)
	}
	out := make([]float32, n)
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(f)
	}
	return out, nil
}

func kindList() string {
	ks := domain.Kinds()
	names := make([]string, len(ks))
	for i, k := range ks {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
