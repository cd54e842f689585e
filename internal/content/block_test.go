package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	blocks := []Block{
		{
			ID:   "b1",
			Type: "heading",
			Props: map[string]interface{}{
				"level": float64(2),
			},
			Content: []Inline{{Type: "text", Text: "Hello"}},
		},
		{
			ID:      "b2",
			Type:    "paragraph",
			Content: []Inline{{Type: "text", Text: "world", Styles: map[string]interface{}{"bold": true}}},
			Children: []Block{
				{ID: "b3", Type: "paragraph", Content: []Inline{{Text: "nested"}}},
			},
		},
	}

	raw, err := Encode(blocks)
	require.NoError(t, err)

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, blocks, decoded)
}

func TestDecodeMalformed(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"id":"b1"}`, // object, not an array
		`[{"id":`,
	}
	for _, raw := range cases {
		_, err := Decode(raw)
		assert.ErrorIs(t, err, ErrMalformed, "input %q", raw)
	}
}

func TestExtractText(t *testing.T) {
	raw, err := Encode([]Block{
		{Type: "paragraph", Content: []Inline{{Text: "first"}, {Text: "second"}}},
		{Type: "paragraph"}, // no inline content
		{Type: "paragraph", Content: []Inline{{Text: "third"}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "first second third", ExtractText(raw, PreviewMaxChars))
}

func TestExtractTextTruncates(t *testing.T) {
	long := strings.Repeat("a", 300)
	raw, err := Encode([]Block{
		{Type: "paragraph", Content: []Inline{{Text: long}}},
	})
	require.NoError(t, err)

	got := ExtractText(raw, PreviewMaxChars)
	require.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, got, PreviewMaxChars+3)
}

func TestExtractTextTruncatesMultibyteByRunes(t *testing.T) {
	// 300 Korean syllables, 3 bytes each: the budget must count characters,
	// not bytes, and the cut must never land mid-rune.
	long := strings.Repeat("한", 300)
	raw, err := Encode([]Block{
		{Type: "paragraph", Content: []Inline{{Text: long}}},
	})
	require.NoError(t, err)

	got := ExtractText(raw, PreviewMaxChars)
	require.True(t, utf8.ValidString(got))
	require.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, PreviewMaxChars+3, utf8.RuneCountInString(got))
	assert.Equal(t, strings.Repeat("한", PreviewMaxChars), strings.TrimSuffix(got, "..."))
}

func TestExtractTextMalformedDegradesToEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractText("{broken", PreviewMaxChars))
	assert.Equal(t, "", ExtractText(`"a plain string"`, PreviewMaxChars))
}
