package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalImageStorage(dir)

	key := "products/3/main.png"
	require.NoError(t, s.Save(key, []byte("png-bytes")))

	data, err := os.ReadFile(filepath.Join(dir, "products", "3", "main.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	require.NoError(t, s.Delete(key))
	_, err = os.Stat(filepath.Join(dir, "products", "3", "main.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestDeleteMissingKeyIsNoop(t *testing.T) {
	s := NewLocalImageStorage(t.TempDir())
	assert.NoError(t, s.Delete("products/9/main.png"))
}

func TestRejectsPathEscape(t *testing.T) {
	s := NewLocalImageStorage(t.TempDir())

	assert.Error(t, s.Save("../outside.png", []byte("x")))
	assert.Error(t, s.Save("/etc/passwd", []byte("x")))
	assert.Error(t, s.Delete("../../outside.png"))
}
