package repl

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/pstuifzand/go-jsonhelper/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLines struct {
	lines   []string
	prompts []string
}

func (f *fakeLines) Readline() (string, error) {
	if len(f.lines) == 0 {
		return "", io.EOF
	}
	line := f.lines[0]
	f.lines = f.lines[1:]
	return line, nil
}

func (f *fakeLines) SetPrompt(prompt string) {
	f.prompts = append(f.prompts, prompt)
}

func newExecutor(lines LineReader) (*Executor, *core.Core, *bytes.Buffer) {
	c := core.New()
	var out bytes.Buffer
	return NewExecutor(c, NewFormatter(&out, false), lines), c, &out
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"swap", Command{Verb: "swap"}},
		{"  Apply   Prettify ", Command{Verb: "apply", Object: "prettify", Args: []string{}}},
		{
			`set input {"a": 1}`,
			Command{Verb: "set", Object: "input", Args: []string{"{a:", "1}"}, Rest: `{"a": 1}`},
		},
		{
			`transform minify "[ 1, 2 ]"`,
			Command{Verb: "transform", Object: "minify", Args: []string{"[ 1, 2 ]"}, Rest: `"[ 1, 2 ]"`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			cmd, err := ParseCommand(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *cmd)
		})
	}

	_, err := ParseCommand("   ")
	assert.Error(t, err)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a b  c", []string{"a", "b", "c"}},
		{`a "b c" d`, []string{"a", "b c", "d"}},
		{`'it''s'`, []string{"its"}},
		{`a\ b`, []string{"a b"}},
		{"a\tb", []string{"a", "b"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitArgs(tt.input), tt.input)
	}
}

func TestSkipFields(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, skipFields(`set input {"a": 1}`, 2))
	assert.Equal(t, "", skipFields("set input", 2))
	assert.Equal(t, "x  y", skipFields("  a\tb   x  y", 2))
}

func TestSuggest(t *testing.T) {
	ops := []string{"Prettify", "Minify", "JS-Encode", "JS-Decode", "Base64-Encode"}

	assert.Equal(t, "Prettify", Suggest("prettfy", ops))
	assert.Equal(t, "Minify", Suggest("minfy", ops))
	assert.Equal(t, "Minify", Suggest("minifi", ops))
	assert.Equal(t, "", Suggest("xyzzy-quux", ops))
	assert.Equal(t, "", Suggest("", ops))
}

func TestExecuteApplyAndShow(t *testing.T) {
	e, c, out := newExecutor(nil)

	require.NoError(t, e.ExecuteLine(`set input {"b": [1, 2], "a": null}`))
	assert.Equal(t, `{"b": [1, 2], "a": null}`, c.GetInputText())

	out.Reset()
	require.NoError(t, e.ExecuteLine("apply minify"))
	assert.Contains(t, out.String(), `{"b":[1,2],"a":null}`)
	assert.Contains(t, out.String(), "Output (20 bytes)")

	// Bare operation names apply too
	require.NoError(t, e.ExecuteLine("Base64-Encode"))
	assert.Equal(t, "eyJiIjpbMSwyXSwiYSI6bnVsbH0=", c.GetOutputText())

	out.Reset()
	require.NoError(t, e.ExecuteLine("show labels"))
	assert.Contains(t, out.String(), "without Base64 encoding")
}

func TestExecuteSwap(t *testing.T) {
	e, c, _ := newExecutor(nil)
	c.SetInputText("[1]")
	require.NoError(t, e.ExecuteLine("prettify"))
	require.NoError(t, e.ExecuteLine("swap"))
	assert.Equal(t, "[\n  1\n]", c.GetInputText())
	assert.Equal(t, "[1]", c.GetOutputText())
}

func TestExecuteTransform(t *testing.T) {
	e, c, out := newExecutor(nil)

	require.NoError(t, e.ExecuteLine(`transform js-encode {"a":"b"}`))
	assert.Contains(t, out.String(), `{\"a\":\"b\"}`)
	assert.Empty(t, c.GetOutputText())

	out.Reset()
	require.NoError(t, e.ExecuteLine("transform minify"))
	assert.Contains(t, out.String(), "usage: transform")
}

func TestExecuteErrors(t *testing.T) {
	e, _, out := newExecutor(nil)

	require.NoError(t, e.ExecuteLine("set input {oops"))
	require.NoError(t, e.ExecuteLine("prettify"))
	assert.Contains(t, out.String(), "✗ Error: invalid JSON")

	out.Reset()
	require.NoError(t, e.ExecuteLine("apply prettfy"))
	assert.Contains(t, out.String(), "Unknown operation: prettfy")
	assert.Contains(t, out.String(), "Did you mean 'Prettify'?")

	out.Reset()
	require.NoError(t, e.ExecuteLine("minfy"))
	assert.Contains(t, out.String(), "Unknown command: minfy")
	assert.Contains(t, out.String(), "Did you mean 'Minify'?")

	out.Reset()
	require.NoError(t, e.ExecuteLine("copy"))
	assert.Contains(t, out.String(), core.ErrNoClipboard.Error())
}

func TestExecuteMultilineInput(t *testing.T) {
	lines := &fakeLines{lines: []string{"{", `  "a": 1`, "}", "", "ignored"}}
	e, c, _ := newExecutor(lines)

	require.NoError(t, e.ExecuteLine("set input"))
	assert.Equal(t, "{\n  \"a\": 1\n}", c.GetInputText())
	assert.Equal(t, []string{"", Prompt}, lines.prompts)
}

func TestExecuteListOperations(t *testing.T) {
	e, _, out := newExecutor(nil)
	require.NoError(t, e.ExecuteLine("list operations"))
	assert.Contains(t, out.String(), "OPERATION")
	assert.Contains(t, out.String(), "Gzip-Decompress")
}

func TestExecuteQuit(t *testing.T) {
	e, _, _ := newExecutor(nil)
	assert.ErrorIs(t, e.ExecuteLine("quit"), errExit)
	assert.ErrorIs(t, e.ExecuteLine("EXIT"), errExit)
}

func TestSessionLoop(t *testing.T) {
	c := core.New()
	s := NewSession(c, "test", false)
	var out bytes.Buffer
	lines := &fakeLines{lines: []string{"set input [ true ]", "minify", "quit", "swap"}}

	require.NoError(t, s.loop(lines, &out))
	assert.Equal(t, "[true]", c.GetOutputText())
	assert.Equal(t, []string{"swap"}, lines.lines, "lines after quit are not read")
	assert.Contains(t, out.String(), "Goodbye!")
}

func TestSessionHistoryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history")
	s := NewSession(core.New(), "test", false)

	cfg, err := s.readlineConfig()
	require.NoError(t, err)
	assert.Empty(t, cfg.HistoryFile)

	s.SetHistoryFile(path)
	cfg, err = s.readlineConfig()
	require.NoError(t, err)
	assert.Equal(t, path, cfg.HistoryFile)
	assert.DirExists(t, filepath.Dir(path))
}
