package resources

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetIcon(t *testing.T) {
	data, err := GetIcon()
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 22, img.Bounds().Dx())
}
