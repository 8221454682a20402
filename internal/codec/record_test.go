package codec_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairosolo/kprefs/internal/codec"
	"github.com/kairosolo/kprefs/internal/crypto"
	"github.com/kairosolo/kprefs/internal/domain"
)

func sampleRecord() domain.Record {
	return domain.Record{
		"Level":     domain.IntValue(5),
		"Volume":    domain.FloatValue(0.75),
		"Muted":     domain.BoolValue(false),
		"Name":      domain.StringValue("Kai"),
		"Spawn":     domain.Vec2Value(domain.Vec2{X: 3, Y: 4}),
		"Camera":    domain.Vec3Value(domain.Vec3{X: 0, Y: 10, Z: -5}),
		"Tint":      domain.ColorValue(domain.Color{R: 1, G: 0.5, B: 0, A: 1}),
		"LastLogin": domain.TimeValue(fixedNow),
	}
}

func newCodec() *codec.Codec {
	return codec.New(crypto.DefaultKey(), func() time.Time { return fixedNow })
}

func TestCodec_EncodeDecode(t *testing.T) {
	c := newCodec()
	rec := sampleRecord()

	data, err := c.Encode(rec)
	require.NoError(t, err)

	got, warnings, err := c.Decode(data)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	if diff := cmp.Diff(rec, got); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_DecodeEmptyInput(t *testing.T) {
	got, warnings, err := newCodec().Decode(nil)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Empty(t, got)
}

func TestCodec_DecodePropagatesCryptoErrors(t *testing.T) {
	_, _, err := newCodec().Decode(make([]byte, 10))
	assert.ErrorIs(t, err, crypto.ErrMalformed)
}

func TestCodec_DecodeGarbageAfterDecrypt(t *testing.T) {
	c := newCodec()
	sealed, err := c.Seal([]byte("not a document"))
	require.NoError(t, err)

	_, _, err = c.Decode(sealed)
	assert.ErrorIs(t, err, domain.ErrParse)
}

func TestUnmarshalRecord_OneCorruptEntry(t *testing.T) {
	doc := `{"keys":["a","b","c","d"],` +
		`"values":["1","oops","{\"x\":1,\"y\":2}","hi"],` +
		`"types":["Int32","Int32","SerializableVector2","String"]}`

	rec, warnings, err := codec.UnmarshalRecord([]byte(doc), fixedNow)
	require.NoError(t, err)
	require.Len(t, rec, 4)
	require.Len(t, warnings, 1)

	var ee *codec.EntryError
	require.True(t, errors.As(warnings[0], &ee))
	assert.Equal(t, "b", ee.Key)

	want := domain.Record{
		"a": domain.IntValue(1),
		"b": domain.IntValue(0),
		"c": domain.Vec2Value(domain.Vec2{X: 1, Y: 2}),
		"d": domain.StringValue("hi"),
	}
	if diff := cmp.Diff(want, rec); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRecord_LengthMismatch(t *testing.T) {
	doc := `{"keys":["a","b"],"values":["1"],"types":["Int32","Int32"]}`

	rec, warnings, err := codec.UnmarshalRecord([]byte(doc), fixedNow)
	require.NoError(t, err)
	assert.Len(t, rec, 1)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], domain.ErrParse)
}

func TestUnmarshalRecord_InvalidDocument(t *testing.T) {
	for _, in := range []string{"", "{", "[1,2]", "\xff\xfe"} {
		_, _, err := codec.UnmarshalRecord([]byte(in), fixedNow)
		assert.ErrorIs(t, err, domain.ErrParse, "input %q", in)
	}
}

func TestMarshalRecord_EmptyUsesArrays(t *testing.T) {
	b, err := codec.MarshalRecord(domain.Record{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"keys":[],"values":[],"types":[]}`, string(b))
}
