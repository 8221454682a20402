package codec_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairosolo/kprefs/internal/codec"
	"github.com/kairosolo/kprefs/internal/domain"
)

func TestRegistry_EncodeDecode(t *testing.T) {
	c := newCodec()
	reg := domain.NewRegistry(fixedNow)
	reg.Profiles = append(reg.Profiles, domain.ProfileInfo{
		Name:       "Alice",
		Created:    fixedNow.Add(time.Hour),
		LastAccess: fixedNow.Add(2 * time.Hour),
		Metadata:   domain.Record{"avatar": domain.StringValue("cat.png"), "slot": domain.IntValue(2)},
	})
	reg.Active = "Alice"

	data, err := c.EncodeRegistry(reg)
	require.NoError(t, err)

	got, warnings, err := c.DecodeRegistry(data)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	if diff := cmp.Diff(reg, got); diff != "" {
		t.Fatalf("registry mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRegistry_MinimalDocument(t *testing.T) {
	got, warnings, err := codec.UnmarshalRegistry(
		[]byte(`{"activeProfile":"Bob","profiles":[{"name":"Default"},{"name":"Bob"}]}`), fixedNow)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, "Bob", got.Active)
	assert.Equal(t, []string{"Default", "Bob"}, got.Names())
	assert.NotNil(t, got.Profiles[1].Metadata)
}

func TestUnmarshalRegistry_Garbage(t *testing.T) {
	_, _, err := codec.UnmarshalRegistry([]byte("]]"), fixedNow)
	assert.ErrorIs(t, err, domain.ErrParse)
}
