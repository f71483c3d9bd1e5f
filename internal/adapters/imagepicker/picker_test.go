package imagepicker

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A minimal PNG signature is enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestFilePicker_Pick(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	img := filepath.Join(dir, "park.png")
	require.NoError(t, os.WriteFile(img, pngHeader, 0o600))
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o600))

	t.Run("empty path cancels", func(t *testing.T) {
		_, ok, err := NewFilePicker("  ").Pick(ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("image file", func(t *testing.T) {
		picked, ok, err := NewFilePicker(img).Pick(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "file://"+filepath.ToSlash(img), picked.URI)
	})

	t.Run("not an image", func(t *testing.T) {
		_, ok, err := NewFilePicker(txt).Pick(ctx)
		require.Error(t, err)
		assert.False(t, ok)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := NewFilePicker(filepath.Join(dir, "gone.jpg")).Pick(ctx)
		require.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, _, err := NewFilePicker(dir).Pick(ctx)
		require.Error(t, err)
	})
}
