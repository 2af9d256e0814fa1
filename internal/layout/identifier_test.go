package layout

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMintWith(t *testing.T) {
	assert.Equal(t, "my-widget#test-uuid", MintWith("my-widget", "test-uuid"))
}

func TestMintGeneratesUniqueIDs(t *testing.T) {
	a := Mint("my-widget")
	b := Mint("my-widget")
	assert.True(t, strings.HasPrefix(a, "my-widget#"))
	assert.True(t, strings.HasPrefix(b, "my-widget#"))
	assert.NotEqual(t, a, b)

	_, uid := Parse(a)
	assert.Len(t, uid, 36)
}

func TestParse(t *testing.T) {
	tests := []struct {
		id       string
		wantType string
		wantID   string
	}{
		{"my-widget#test-uuid", "my-widget", "test-uuid"},
		{"no-separator", "no-separator", ""},
		{"", "", ""},
		{"#only-id", "", "only-id"},
		{"a#b#c", "a", "b#c"},
		{"trailing#", "trailing", ""},
	}
	for _, tt := range tests {
		gotType, gotID := Parse(tt.id)
		assert.Equal(t, tt.wantType, gotType, "Parse(%q) type", tt.id)
		assert.Equal(t, tt.wantID, gotID, "Parse(%q) id", tt.id)
	}
}

func TestParseInvertsMint(t *testing.T) {
	types := []string{"a", "widget-b", "cost_explorer", "x y"}
	ids := []string{"", "1", "550e8400-e29b-41d4-a716-446655440000", "has#hash"}
	for _, typ := range types {
		for _, id := range ids {
			gotType, gotID := Parse(MintWith(typ, id))
			assert.Equal(t, typ, gotType)
			assert.Equal(t, id, gotID)
		}
	}
}
