package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songbook.yaml")
	err := os.WriteFile(path, []byte(`source: book.tex
language: it
tocTitle: Indice
transpose: 2
serve:
  addr: ":9000"
s3:
  bucket: songs
  region: eu-west-1
`), 0o666)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, "book.tex", cfg.Source)
	assert.Equal(t, "it", cfg.Language)
	assert.Equal(t, "Indice", cfg.TocTitle)
	assert.Equal(t, 2, cfg.Transpose)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
	assert.Equal(t, "songs", cfg.S3.Bucket)
	// untouched fields keep their defaults
	assert.Equal(t, Default().Output, cfg.Output)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "songbook.yaml")
	if err := os.WriteFile(path, []byte("language: [unterminated"), 0o666); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	assert.Error(t, err)
}
