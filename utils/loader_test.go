package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anchors.json")
	require.NoError(t, os.WriteFile(path, []byte(`[10, 20, 30.5, 40]`), 0o644))

	var values []float32
	require.NoError(t, LoadJSON(path, &values))
	assert.Equal(t, []float32{10, 20, 30.5, 40}, values)
}

func TestLoadJSON_MissingFile(t *testing.T) {
	var values []float32
	err := LoadJSON(filepath.Join(t.TempDir(), "absent.json"), &values)
	assert.Error(t, err)
}

func TestLoadJSON_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`[10, 20,`), 0o644))

	var values []float32
	err := LoadJSON(path, &values)
	assert.Error(t, err)
}

func TestLoadJSON_RemotePath(t *testing.T) {
	var values []float32
	err := LoadJSON("s3://bucket/anchors.json", &values)
	assert.Error(t, err)
}
