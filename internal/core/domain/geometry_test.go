package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundingBox_Dimensions(t *testing.T) {
	b := BoundingBox{X0: 10, Y0: 20, X1: 110, Y1: 50}

	assert.Equal(t, 100.0, b.Width())
	assert.Equal(t, 30.0, b.Height())
}

func TestBoundingBox_Valid(t *testing.T) {
	tests := []struct {
		name     string
		box      BoundingBox
		expected bool
	}{
		{"regular box", BoundingBox{X0: 0, Y0: 0, X1: 10, Y1: 10}, true},
		{"zero height", BoundingBox{X0: 0, Y0: 5, X1: 10, Y1: 5}, true},
		{"inverted y", BoundingBox{X0: 0, Y0: 10, X1: 10, Y1: 5}, false},
		{"inverted x", BoundingBox{X0: 10, Y0: 0, X1: 5, Y1: 10}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.box.Valid())
		})
	}
}
