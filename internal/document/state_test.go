package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateStatus(t *testing.T) {
	tests := []struct {
		state    State
		expected Status
	}{
		{State{}, UntitledClean},
		{State{Changed: true}, UntitledDirty},
		{State{Filename: "doc.rst"}, NamedClean},
		{State{Filename: "doc.rst", Changed: true}, NamedDirty},
	}

	for _, tt := range tests {
		t.Run(tt.expected.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.Status())
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Untitled-Clean", UntitledClean.String())
	assert.Equal(t, "Named-Dirty", NamedDirty.String())
	assert.Equal(t, "Unknown", Status(42).String())
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected string
	}{
		{"untitled clean", State{}, "Untitled - rstedit"},
		{"untitled dirty", State{Changed: true}, "*Untitled - rstedit"},
		{"named clean", State{Filename: "/home/u/docs/doc.rst"}, "doc.rst - rstedit"},
		{"named dirty", State{Filename: "/home/u/docs/doc.rst", Changed: true}, "*doc.rst - rstedit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Title(tt.state, "rstedit"))
		})
	}
}
