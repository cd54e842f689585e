// Package content handles the serialized rich-text documents stored in the
// topic table. A document is an ordered sequence of blocks; each block may
// carry inline nodes holding the actual text. The service never interprets
// block types, it only round-trips them and extracts plain text for previews.
package content

import (
	"encoding/json"
	"errors"
	"strings"
)

// PreviewMaxChars is the character budget for feed card previews.
const PreviewMaxChars = 200

// ErrMalformed is returned when a stored content string is not a valid
// serialized block sequence.
var ErrMalformed = errors.New("content is not a valid block document")

// Inline is one nested node inside a block. Only Text matters to this service;
// everything else is carried through untouched.
type Inline struct {
	Type   string                 `json:"type,omitempty"`
	Text   string                 `json:"text,omitempty"`
	Styles map[string]interface{} `json:"styles,omitempty"`
}

// Block is one unit of a rich-text document.
type Block struct {
	ID       string                 `json:"id,omitempty"`
	Type     string                 `json:"type,omitempty"`
	Props    map[string]interface{} `json:"props,omitempty"`
	Content  []Inline               `json:"content,omitempty"`
	Children []Block                `json:"children,omitempty"`
}

// Encode serializes a block sequence to its stored string form.
func Encode(blocks []Block) (string, error) {
	data, err := json.Marshal(blocks)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a stored content string back into blocks. The stored value must
// be a JSON array of blocks; anything else is ErrMalformed.
func Decode(raw string) ([]Block, error) {
	var blocks []Block
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		return nil, ErrMalformed
	}
	return blocks, nil
}

// ExtractText builds a plain-text preview by concatenating inline text in
// document order, cut at maxChars characters with an ellipsis marker. The
// budget counts runes, not bytes, so multibyte text is never torn mid-rune.
// Malformed content degrades to an empty preview; feed rendering must never
// fail on bad rows.
func ExtractText(raw string, maxChars int) string {
	blocks, err := Decode(raw)
	if err != nil {
		return ""
	}
	runes := make([]rune, 0, maxChars)
	for _, block := range blocks {
		for _, child := range block.Content {
			if child.Text == "" {
				continue
			}
			runes = append(runes, []rune(child.Text)...)
			runes = append(runes, ' ')
			if len(runes) >= maxChars {
				return string(runes[:maxChars]) + "..."
			}
		}
	}
	return strings.TrimSpace(string(runes))
}
