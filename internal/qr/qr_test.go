package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePNG(t *testing.T) {
	png, err := EncodePNG("https://example.com/attend/some-token", 256)

	require.NoError(t, err)
	require.True(t, len(png) > 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestEncodePNG_DefaultsSize(t *testing.T) {
	png, err := EncodePNG("https://example.com/attend/some-token", 0)

	require.NoError(t, err)
	assert.NotEmpty(t, png)
}

func TestEncodePNG_EmptyURL(t *testing.T) {
	_, err := EncodePNG("", 256)

	assert.Error(t, err)
}
