package publish

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadRequiresBucket(t *testing.T) {
	_, err := Upload(t.TempDir(), "", "eu-west-1", "")
	assert.Error(t, err)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/html; charset=utf-8", contentType("out/index.html"))
	assert.Equal(t, "audio/midi", contentType("out/001.mid"))
	assert.Equal(t, "application/octet-stream", contentType("out/readme.txt"))
}
