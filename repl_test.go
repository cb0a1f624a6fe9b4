package floyd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Engine_RunUntilQuit_parsesEachLine(t *testing.T) {
	g, err := Compile(`Start = "a" "b"`, "g")
	assert.NoError(t, err)

	in := strings.NewReader("ab\n")
	var out bytes.Buffer

	eng, err := New(in, &out, g, "", false)
	assert.NoError(t, err)

	assert.NoError(t, eng.RunUntilQuit(nil))
	assert.Contains(t, out.String(), "starting rule: Start")
	assert.Contains(t, out.String(), "b")
	assert.Contains(t, out.String(), "goodbye")
}

func Test_Engine_RunUntilQuit_stopsAtQuitCommand(t *testing.T) {
	g, err := Compile(`Start = "a"`, "g")
	assert.NoError(t, err)

	// The quit line aborts the loop before the trailing "a" line is ever
	// read, so the only output is the intro banner and the goodbye line.
	in := strings.NewReader(":quit\na\n")
	var out bytes.Buffer

	eng, err := New(in, &out, g, "", false)
	assert.NoError(t, err)

	assert.NoError(t, eng.RunUntilQuit(nil))
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Equal(t, "goodbye", lines[len(lines)-1])
	assert.Equal(t, 6, len(lines))
}

func Test_Engine_RunUntilQuit_printsErrorForFailedParse(t *testing.T) {
	g, err := Compile(`Start = "a"`, "g")
	assert.NoError(t, err)

	in := strings.NewReader("z\n")
	var out bytes.Buffer

	eng, err := New(in, &out, g, "", false)
	assert.NoError(t, err)

	assert.NoError(t, eng.RunUntilQuit(nil))
	assert.Contains(t, out.String(), "error:")
}

func Test_Engine_RunUntilQuit_runsInitialLinesBeforeReadingInput(t *testing.T) {
	g, err := Compile(`Start = "a"`, "g")
	assert.NoError(t, err)

	in := strings.NewReader("")
	var out bytes.Buffer

	eng, err := New(in, &out, g, "", false)
	assert.NoError(t, err)

	assert.NoError(t, eng.RunUntilQuit([]string{"a"}))
	assert.Contains(t, out.String(), "a")
}

func Test_Engine_RunUntilQuit_honorsStartOverride(t *testing.T) {
	g, err := Compile("Start = Second\nSecond = \"z\"", "g")
	assert.NoError(t, err)

	in := strings.NewReader("")
	var out bytes.Buffer

	eng, err := New(in, &out, g, "Second", false)
	assert.NoError(t, err)

	assert.NoError(t, eng.RunUntilQuit(nil))
	assert.Contains(t, out.String(), "starting rule: Second")
}

func Test_Engine_Close_succeedsWhenNotRunning(t *testing.T) {
	g, err := Compile(`Start = "a"`, "g")
	assert.NoError(t, err)

	in := strings.NewReader("")
	var out bytes.Buffer

	eng, err := New(in, &out, g, "", false)
	assert.NoError(t, err)
	assert.NoError(t, eng.Close())
}
