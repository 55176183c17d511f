package chord

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteAddWrapsModulo12(t *testing.T) {
	assert := assert.New(t)
	for n := 0; n < 12; n++ {
		assert.Equal(Note(n), Note(n).Add(12))
		assert.Equal(Note(n), Note(n).Add(-12))
	}
	assert.Equal(Note(0), Note(11).Add(1))
	assert.Equal(Note(11), Note(0).Add(-1))
}

func TestParseRendersItalianNames(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"C", "Do"},
		{"A", "La"},
		{"B", "Si"},
		{"H", "Si"},
		{"C#", "Do♯"},
		{"C♯", "Do♯"},
		{"B&", "Si♭"},
		{"C&-7", "Si-7"},
		{"A#", "Si♭"},
		{"D-7", "Re-7"},
		{"Fsus4", "Fasus4"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := Parse(tt.in, 0)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, c.String())
		})
	}
}

func TestParseAccidentalWithoutNoteFails(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("#", 0)
	assert.Error(err)
	var ice *InvalidChordError
	assert.ErrorAs(err, &ice)

	// a literal run is not a note either
	_, err = Parse("-#", 0)
	assert.Error(err)
}

func TestParseEscapedAccidental(t *testing.T) {
	c, err := Parse(`C\#`, 0)
	assert.NoError(t, err)
	assert.Equal(t, "Do♯", c.String())
}

func TestLetterInsideWordStaysLiteral(t *testing.T) {
	// "l" starts a literal run ending in a letter, so the following "A"
	// must not be read as a note.
	c, err := Parse("lA", 0)
	assert.NoError(t, err)
	assert.Equal(t, "lA", c.String())
}

func TestTransposeIsCumulative(t *testing.T) {
	assert := assert.New(t)
	for a := 0; a < 12; a++ {
		for b := 0; b < 12; b++ {
			c1, err := Parse("C-7", 0)
			assert.NoError(err)
			c1.Transpose(a)
			c1.Transpose(b)

			c2, err := Parse("C-7", 0)
			assert.NoError(err)
			c2.Transpose((a + b) % 12)

			assert.Equal(c2.String(), c1.String(), fmt.Sprintf("a=%d b=%d", a, b))
		}
	}
}

func TestTransposeZeroIsIdentity(t *testing.T) {
	c, err := Parse("E&", 3)
	assert.NoError(t, err)
	before := c.String()
	c.Transpose(0)
	assert.Equal(t, before, c.String())
}

func TestTransposedIgnoresCurrentOffset(t *testing.T) {
	assert := assert.New(t)
	c, err := Parse("C", 5)
	assert.NoError(err)
	assert.Equal("Fa", c.String())
	// relative to the parsed pitch, not the current offset
	assert.Equal("Re", c.Transposed(2))
	assert.Equal("Do", c.Transposed(0))
}

func TestCachedStringMatchesUntransposedRendering(t *testing.T) {
	assert := assert.New(t)
	for _, in := range []string{"C", "C#", "B&", "E&-7", "H", "A#4"} {
		c, err := Parse(in, 0)
		assert.NoError(err)
		assert.Equal(c.Transposed(0), c.String())
	}
}

func TestAppendKeepsLiteralThroughTranspose(t *testing.T) {
	assert := assert.New(t)
	c, err := Parse("C", 0)
	assert.NoError(err)
	c.Append("-7")
	assert.Equal("Do-7", c.String())
	c.Transpose(2)
	assert.Equal("Re-7", c.String())
}

func TestLiteralNeverTransposes(t *testing.T) {
	c := Literal("Do-7")
	c.Transpose(5)
	assert.Equal(t, "Do-7", c.String())
}

func TestRoot(t *testing.T) {
	assert := assert.New(t)

	c, err := Parse("C-7", 0)
	assert.NoError(err)
	root, ok := c.Root()
	assert.True(ok)
	assert.Equal(Note(0), root)

	c.Transpose(2)
	root, _ = c.Root()
	assert.Equal(Note(2), root)

	_, ok = Literal("x").Root()
	assert.False(ok)
}
