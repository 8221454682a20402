package codec_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kairosolo/kprefs/internal/codec"
	"github.com/kairosolo/kprefs/internal/domain"
)

func TestFormatFor(t *testing.T) {
	assert.Equal(t, codec.FormatYAML, codec.FormatFor("backup.YAML"))
	assert.Equal(t, codec.FormatYAML, codec.FormatFor("dir/backup.yml"))
	assert.Equal(t, codec.FormatJSON, codec.FormatFor("backup.json"))
	assert.Equal(t, codec.FormatJSON, codec.FormatFor("backup"))
}

func TestExportImport(t *testing.T) {
	for _, f := range []codec.Format{codec.FormatJSON, codec.FormatYAML} {
		rec := sampleRecord()

		data, err := codec.Export(rec, f)
		require.NoError(t, err)

		got, warnings, err := codec.Import(data, f, fixedNow)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		if diff := cmp.Diff(rec, got); diff != "" {
			t.Fatalf("format %d mismatch (-want +got):\n%s", f, diff)
		}
	}
}

func TestExport_JSONIsReadable(t *testing.T) {
	data, err := codec.Export(domain.Record{"Score": domain.IntValue(7)}, codec.FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"keys\": [\n    \"Score\"\n  ],\n  \"values\": [\n    \"7\"\n  ],\n  \"types\": [\n    \"Int32\"\n  ]\n}", string(data))
}

func TestImport_Malformed(t *testing.T) {
	_, _, err := codec.Import([]byte("{not json"), codec.FormatJSON, fixedNow)
	assert.ErrorIs(t, err, domain.ErrParse)

	_, _, err = codec.Import([]byte("keys: [a\n"), codec.FormatYAML, fixedNow)
	assert.ErrorIs(t, err, domain.ErrParse)
}
