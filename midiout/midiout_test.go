package midiout

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/DPDmancul/latex-songs-to-html/book"
	"github.com/DPDmancul/latex-songs-to-html/song"
)

func parseSong(t *testing.T, src string, index int) *song.Song {
	t.Helper()
	s, err := song.Parse(strings.NewReader(src), index)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func noteOnKeys(t *testing.T, path string) []uint8 {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	data, err := smf.ReadFrom(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Tracks) != 1 {
		t.Fatalf("expected a single track, got %d", len(data.Tracks))
	}
	var keys []uint8
	for _, ev := range data.Tracks[0] {
		var ch, key, vel uint8
		if ev.Message.GetNoteStart(&ch, &key, &vel) {
			keys = append(keys, key)
		}
	}
	return keys
}

func TestWriteSongRoundTrip(t *testing.T) {
	s := parseSong(t, `\beginsong{Uno}
\beginverse
\[C]la \[G]la \[Am]la
\endverse
\endsong`, 1)
	path := filepath.Join(t.TempDir(), "001.mid")

	err := WriteSong(s, path)
	assert.NoError(t, err)
	// Do, Sol, La over middle C
	assert.Equal(t, []uint8{60, 67, 69}, noteOnKeys(t, path))
}

func TestWriteSongWithoutChordsFails(t *testing.T) {
	s := parseSong(t, `\beginsong{Due}
\beginverse
solo parole
\endverse
\endsong`, 2)
	err := WriteSong(s, filepath.Join(t.TempDir(), "002.mid"))
	assert.Error(t, err)
}

func TestWriteBookSkipsChordlessSongs(t *testing.T) {
	withChords := parseSong(t, `\beginsong{Uno}
\beginverse
\[D]la
\endverse
\endsong`, 1)
	chordless := parseSong(t, `\beginsong{Due}
\beginverse
la la
\endverse
\endsong`, 2)
	sections := []book.Section{{Title: "Libro", Songs: []*song.Song{withChords, chordless}}}
	dir := t.TempDir()

	count, err := WriteBook(sections, dir)
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, []uint8{62}, noteOnKeys(t, filepath.Join(dir, "001.mid")))
	_, err = os.Stat(filepath.Join(dir, "002.mid"))
	assert.True(t, os.IsNotExist(err))
}
