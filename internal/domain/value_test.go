package domain_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairosolo/kprefs/internal/domain"
)

func TestTicks_RoundTrip(t *testing.T) {
	at := time.Date(2024, 2, 29, 23, 59, 59, 123456700, time.UTC)
	got := domain.TicksOf(at).Time()
	assert.True(t, at.Equal(got), "got %v want %v", got, at)
}

func TestTicks_Epochs(t *testing.T) {
	assert.Equal(t, domain.Ticks(0), domain.TicksOf(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.Ticks(621355968000000000), domain.TicksOf(time.Unix(0, 0)))
}

func TestDefault(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	c, ok := domain.Default(domain.KindColor, now).Color()
	require.True(t, ok)
	assert.Equal(t, domain.White, c)

	ts, ok := domain.Default(domain.KindTimestamp, now).Timestamp()
	require.True(t, ok)
	assert.True(t, ts.Time().Equal(now))

	s, ok := domain.Default(domain.KindString, now).Str()
	require.True(t, ok)
	assert.Empty(t, s)

	assert.False(t, domain.Default(domain.KindInvalid, now).IsValid())
}

func TestValue_AccessorsRejectOtherKinds(t *testing.T) {
	v := domain.IntValue(3)
	_, ok := v.Float()
	assert.False(t, ok)
	_, ok = v.Str()
	assert.False(t, ok)
	n, ok := v.Int()
	assert.True(t, ok)
	assert.Equal(t, int32(3), n)
}

func TestValue_Equal(t *testing.T) {
	nan := float32(math.NaN())
	assert.True(t, domain.FloatValue(nan).Equal(domain.FloatValue(nan)))
	assert.False(t, domain.IntValue(1).Equal(domain.FloatValue(1)))
	assert.False(t, domain.Vec2Value(domain.Vec2{X: 1}).Equal(domain.Vec3Value(domain.Vec3{X: 1})))
	assert.True(t, domain.StringValue("a").Equal(domain.StringValue("a")))
}

func TestParseKind(t *testing.T) {
	for _, k := range domain.Kinds() {
		got, err := domain.ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := domain.ParseKind("quaternion")
	assert.Error(t, err)
}

func TestRecord_CloneIsIndependent(t *testing.T) {
	r := domain.Record{"a": domain.IntValue(1)}
	c := r.Clone()
	c["b"] = domain.IntValue(2)
	assert.Len(t, r, 1)
	assert.True(t, r.Equal(domain.Record{"a": domain.IntValue(1)}))
	assert.False(t, r.Equal(c))
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}
