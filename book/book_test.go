package book

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeBook(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o666); err != nil {
			t.Fatal(err)
		}
	}
	return filepath.Join(dir, "book.tex")
}

const songOne = `\beginsong{Uno}[by={A}]
\beginverse
\[C]la
\endverse
\endsong`

const songTwo = `\beginsong{Due}
\beginverse
lo
\endverse
\endsong`

func TestLoadSectionsAndNumbering(t *testing.T) {
	path := writeBook(t, map[string]string{
		"book.tex": `\section{Canzoniere}
\begin{songs}
\input{one}
\songsection{Seconda}
\input{two.tex}
\end{songs}
\input{ignored}`,
		"one.tex": songOne,
		"two.tex": songTwo,
	})
	sections, err := Load(path)
	assert.NoError(t, err)
	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(sections))
	}
	assert.Equal(t, "Canzoniere", sections[0].Title)
	assert.Equal(t, "Seconda", sections[1].Title)
	if len(sections[0].Songs) != 1 || len(sections[1].Songs) != 1 {
		t.Fatalf("unexpected song distribution: %+v", sections)
	}
	assert.Equal(t, "Uno", sections[0].Songs[0].Name)
	assert.Equal(t, 1, sections[0].Songs[0].Number)
	assert.Equal(t, "Due", sections[1].Songs[0].Name)
	assert.Equal(t, 2, sections[1].Songs[0].Number)
}

func TestLoadSkipsBrokenSong(t *testing.T) {
	path := writeBook(t, map[string]string{
		"book.tex": `\section{S}
\begin{songs}
\input{bad}
\input{two}
\end{songs}`,
		"bad.tex": `\beginsong{Rotta}
\beginverse
\[#]x
\endverse
\endsong`,
		"two.tex": songTwo,
	})
	sections, err := Load(path)
	assert.NoError(t, err)
	if len(sections) != 1 || len(sections[0].Songs) != 1 {
		t.Fatalf("expected the broken song to be skipped: %+v", sections)
	}
	// numbering still accounts for the skipped song
	assert.Equal(t, 2, sections[0].Songs[0].Number)
}

func TestLoadWithoutLeadingSection(t *testing.T) {
	path := writeBook(t, map[string]string{
		"book.tex": `\begin{songs}
\input{two}
\end{songs}`,
		"two.tex": songTwo,
	})
	sections, err := Load(path)
	assert.NoError(t, err)
	if len(sections) != 1 {
		t.Fatalf("expected a synthetic section, got %d", len(sections))
	}
	assert.Empty(t, sections[0].Title)
	assert.Len(t, sections[0].Songs, 1)
}

func TestLoadMissingSongFile(t *testing.T) {
	path := writeBook(t, map[string]string{
		"book.tex": `\section{S}
\begin{songs}
\input{ghost}
\end{songs}`,
	})
	sections, err := Load(path)
	assert.NoError(t, err)
	assert.Empty(t, sections[0].Songs)
}
