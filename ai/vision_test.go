package ai

import (
	"image"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"mismatched length", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestIsZeroVector(t *testing.T) {
	require.True(t, IsZeroVector(nil))
	require.True(t, IsZeroVector([]float32{0, 0, 0}))
	require.False(t, IsZeroVector([]float32{0, 0.001, 0}))
}

func TestEncodeImageDataURI(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	uri, err := EncodeImageDataURI(img)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	require.Greater(t, len(uri), len("data:image/jpeg;base64,"))
}
