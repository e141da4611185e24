package imageservice_test

import (
	"testing"

	"github.com/Antonov75/gallery_service/internal/gallery/services/imageservice"
	"github.com/stretchr/testify/require"
)

func TestURLTransformer(t *testing.T) {
	tr := imageservice.NewURLTransformer("")
	original := "https://res.example.com/demo/image/upload/v1/pics/cat.jpg"

	tests := []struct {
		name     string
		req      imageservice.TransformRequest
		expected string
	}{
		{
			name:     "resize",
			req:      imageservice.TransformRequest{Width: 200, Height: 100}, //nolint:exhaustruct
			expected: "https://res.example.com/demo/image/upload/w_200,h_100/v1/pics/cat.jpg",
		},
		{
			name:     "full chain",
			req:      imageservice.TransformRequest{Width: 200, Height: 100, Crop: "fill", Effect: "sepia"},
			expected: "https://res.example.com/demo/image/upload/w_200,h_100,c_fill,e_sepia/v1/pics/cat.jpg",
		},
		{
			name:     "effect only",
			req:      imageservice.TransformRequest{Effect: "grayscale"}, //nolint:exhaustruct
			expected: "https://res.example.com/demo/image/upload/e_grayscale/v1/pics/cat.jpg",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tr.Transform(original, tc.req)
			require.NoError(t, err)
			require.Equal(t, tc.expected, got)
		})
	}
}

func TestURLTransformerEmptyRequest(t *testing.T) {
	tr := imageservice.NewURLTransformer("")

	_, err := tr.Transform("https://res.example.com/demo/image/upload/v1/cat.jpg",
		imageservice.TransformRequest{}) //nolint:exhaustruct
	require.ErrorIs(t, err, imageservice.ErrEmptyTransform)
}

func TestURLTransformerNoUploadSegment(t *testing.T) {
	tr := imageservice.NewURLTransformer("")

	_, err := tr.Transform("https://example.com/static/cat.jpg",
		imageservice.TransformRequest{Width: 10}) //nolint:exhaustruct
	require.ErrorIs(t, err, imageservice.ErrUntransformable)
}

func TestURLTransformerCustomMarker(t *testing.T) {
	tr := imageservice.NewURLTransformer("/media/")

	got, err := tr.Transform("https://cdn.example.com/media/cat.jpg",
		imageservice.TransformRequest{Width: 50}) //nolint:exhaustruct
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/media/w_50/cat.jpg", got)
}
