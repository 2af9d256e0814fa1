package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateGeometry(t *testing.T) {
	tests := []struct {
		name string
		item Item
		ok   bool
	}{
		{"in range", Item{ID: "a#1", X: 1, Y: 10, W: 2, H: 3}, true},
		{"zero size", Item{ID: "a#1"}, true},
		{"at limit", Item{ID: "a#1", Y: MaxExtent - 4, H: 4}, true},
		{"negative x", Item{ID: "a#1", X: -1, W: 1, H: 1}, false},
		{"negative h", Item{ID: "a#1", W: 1, H: -2}, false},
		{"huge y", Item{ID: "a#1", Y: 1 << 62, W: 1, H: 1}, false},
		{"bottom past limit", Item{ID: "a#1", Y: MaxExtent - 1, W: 1, H: 2}, false},
		{"huge maxH", Item{ID: "a#1", W: 1, H: 1, MaxH: MaxExtent + 1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.ValidateGeometry()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidGeometry)
		})
	}
}

func TestTemplateValidate(t *testing.T) {
	tpl := NewTemplate()
	tpl[LG] = []Item{{ID: "a#1", W: 1, H: 1}}
	require.NoError(t, tpl.Validate())

	tpl[SM] = []Item{{ID: "b#2", Y: 5e8, W: 1, H: 1}}
	err := tpl.Validate()
	require.ErrorIs(t, err, ErrInvalidGeometry)
	assert.Contains(t, err.Error(), "sm")
	assert.Contains(t, err.Error(), `"b#2"`)
}
