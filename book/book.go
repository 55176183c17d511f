// Package book walks a songbook main file: it collects section titles and
// follows the \input references inside the songs environment, parsing each
// referenced song file.
package book

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/DPDmancul/latex-songs-to-html/song"
)

// Section is one titled group of songs. The first section's title doubles as
// the book title.
type Section struct {
	Title string
	Songs []*song.Song
}

var (
	commentRe    = regexp.MustCompile(`%.*$`)
	sectionRe    = regexp.MustCompile(`\\(?:songsection\*?|.?section\*?)\{([^}]+)\}`)
	songsBeginRe = regexp.MustCompile(`^\\begin\{songs\}`)
	songsEndRe   = regexp.MustCompile(`^\\end\{songs\}`)
	inputRe      = regexp.MustCompile(`\\input\{([^}]+)\}`)
)

// Load reads the book main file and parses every song it references. Songs
// are numbered in reference order; a song that fails to parse is reported and
// skipped, it does not abort the book.
func Load(path string) ([]Section, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dir := filepath.Dir(path)
	var sections []Section
	intoSongs := false
	index := 0

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		text := commentRe.ReplaceAllString(sc.Text(), "")
		if m := sectionRe.FindStringSubmatch(text); m != nil {
			sections = append(sections, Section{Title: m[1]})
			continue
		}
		if !intoSongs {
			intoSongs = songsBeginRe.MatchString(text)
			continue
		}
		if songsEndRe.MatchString(text) {
			break
		}
		m := inputRe.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		name := m[1]
		if !strings.HasSuffix(name, ".tex") {
			name += ".tex"
		}
		index++
		s, err := readSong(filepath.Join(dir, name), index)
		if err != nil {
			fmt.Printf("In song %s: %v\n", name, err)
			continue
		}
		if len(sections) == 0 {
			sections = append(sections, Section{})
		}
		last := &sections[len(sections)-1]
		last.Songs = append(last.Songs, s)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return sections, nil
}

func readSong(path string, index int) (*song.Song, error) {
	fmt.Printf("Reading song %s\n", path)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return song.Parse(f, index)
}
