package input

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_DirectReader_ReadLine_sequence(t *testing.T) {
	r := NewDirectReader(strings.NewReader("first\nsecond\nthird\n"))

	line, err := r.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "first", line)

	line, err = r.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "second", line)

	line, err = r.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "third", line)

	_, err = r.ReadLine()
	assert.ErrorIs(t, err, io.EOF)
}

func Test_DirectReader_ReadLine_skipsBlankLinesByDefault(t *testing.T) {
	r := NewDirectReader(strings.NewReader("\n\nfoo\n"))

	line, err := r.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "foo", line)
}

func Test_DirectReader_ReadLine_allowsBlankWhenSet(t *testing.T) {
	r := NewDirectReader(strings.NewReader("\nfoo\n"))
	r.AllowBlank(true)

	line, err := r.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "", line)
}

func Test_DirectReader_ReadLine_trimsWhitespace(t *testing.T) {
	r := NewDirectReader(strings.NewReader("  padded line  \n"))

	line, err := r.ReadLine()
	assert.NoError(t, err)
	assert.Equal(t, "padded line", line)
}

func Test_DirectReader_Close_isNoOp(t *testing.T) {
	r := NewDirectReader(strings.NewReader(""))
	assert.NoError(t, r.Close())
}

func Test_DirectReader_implementsReader(t *testing.T) {
	var _ Reader = (*DirectReader)(nil)
	var _ Reader = (*InteractiveReader)(nil)
}
