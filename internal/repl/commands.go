package repl

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pstuifzand/go-jsonhelper/internal/core"
	"github.com/pstuifzand/go-jsonhelper/transform"
)

// errExit ends the session loop
var errExit = errors.New("exit")

// Command represents a parsed command
type Command struct {
	Verb   string
	Object string
	Args   []string
	// Rest is the raw text after the verb and object, quotes and
	// whitespace preserved, for commands that take JSON.
	Rest string
}

// ParseCommand splits a line into a Command
func ParseCommand(input string) (*Command, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty command")
	}

	parts := splitArgs(input)
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty command")
	}

	cmd := &Command{
		Verb: strings.ToLower(parts[0]),
	}

	if len(parts) > 1 {
		cmd.Object = strings.ToLower(parts[1])
		cmd.Args = parts[2:]
		cmd.Rest = skipFields(input, 2)
	}

	return cmd, nil
}

// splitArgs splits on spaces, honoring single and double quotes and
// backslash escapes
func splitArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoteChar := rune(0)
	escaped := false

	for _, ch := range input {
		if escaped {
			current.WriteRune(ch)
			escaped = false
			continue
		}

		if ch == '\\' {
			escaped = true
			continue
		}

		if (ch == '"' || ch == '\'') && !inQuotes {
			inQuotes = true
			quoteChar = ch
			continue
		}

		if ch == quoteChar && inQuotes {
			inQuotes = false
			quoteChar = 0
			continue
		}

		if (ch == ' ' || ch == '\t') && !inQuotes {
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
			continue
		}

		current.WriteRune(ch)
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}

// skipFields drops the first n whitespace-separated words of s
func skipFields(s string, n int) string {
	s = strings.TrimLeft(s, " \t")
	for i := 0; i < n; i++ {
		end := strings.IndexAny(s, " \t")
		if end < 0 {
			return ""
		}
		s = strings.TrimLeft(s[end:], " \t")
	}
	return s
}

// Suggest returns the operation name closest to name, or "" when nothing
// is close.
func Suggest(name string, operations []string) string {
	if name == "" {
		return ""
	}

	ranks := fuzzy.RankFindFold(name, operations)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDistance := "", 4
	for _, op := range operations {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(op))
		if d < bestDistance {
			best, bestDistance = op, d
		}
	}
	return best
}

// LineReader reads continuation lines for multiline input
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Executor runs parsed commands against a session
type Executor struct {
	commands  core.Commands
	formatter *Formatter
	lines     LineReader
	prompt    string
}

// NewExecutor creates an Executor. lines may be nil when multiline input
// is not available.
func NewExecutor(commands core.Commands, formatter *Formatter, lines LineReader) *Executor {
	return &Executor{
		commands:  commands,
		formatter: formatter,
		lines:     lines,
		prompt:    Prompt,
	}
}

// ExecuteLine parses and runs one line. It returns errExit for quit.
func (e *Executor) ExecuteLine(line string) error {
	cmd, err := ParseCommand(line)
	if err != nil {
		return err
	}
	return e.Execute(cmd)
}

// Execute runs a parsed command
func (e *Executor) Execute(cmd *Command) error {
	switch cmd.Verb {
	case "set":
		return e.handleSet(cmd)
	case "apply":
		return e.handleApply(cmd.Object)
	case "swap":
		e.commands.Swap()
		e.formatter.PrintSuccess("Swapped input and output")
		return nil
	case "show", "get":
		return e.handleShow(cmd)
	case "list":
		return e.handleList(cmd)
	case "transform":
		return e.handleTransform(cmd)
	case "paste":
		return e.handlePaste()
	case "copy":
		return e.handleCopy()

	case "help":
		showHelp(e.formatter.out, cmd.Object)
		return nil
	case "quit", "exit":
		return errExit
	case "clear":
		fmt.Fprint(e.formatter.out, "\033[2J\033[H")
		return nil
	}

	// A bare operation name applies it
	if _, ok := transform.Lookup(cmd.Verb); ok {
		return e.handleApply(cmd.Verb)
	}

	e.formatter.PrintError(fmt.Sprintf("Unknown command: %s", cmd.Verb))
	if s := Suggest(cmd.Verb, e.commands.ListOperations()); s != "" {
		e.formatter.PrintInfo(fmt.Sprintf("Did you mean '%s'?", s))
	} else {
		e.formatter.PrintInfo("Type 'help' for available commands")
	}
	return nil
}

func (e *Executor) handleSet(cmd *Command) error {
	if cmd.Object != "input" {
		e.formatter.PrintError("set requires 'input' argument")
		return nil
	}

	text := cmd.Rest
	if text == "" {
		if e.lines == nil {
			e.formatter.PrintError("set input requires text")
			return nil
		}
		text = e.readMultiline()
	}

	e.commands.SetInputText(text)
	e.formatter.PrintSuccess("Input text set")
	return nil
}

// readMultiline reads lines until a blank line or EOF
func (e *Executor) readMultiline() string {
	e.formatter.PrintInfo("Enter text (end with blank line):")

	var lines []string
	e.lines.SetPrompt("")
	defer e.lines.SetPrompt(e.prompt)
	for {
		line, err := e.lines.Readline()
		if err != nil {
			break
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (e *Executor) handleApply(operation string) error {
	if operation == "" {
		e.formatter.PrintError("apply requires an operation")
		return nil
	}
	if _, ok := transform.Lookup(operation); !ok {
		e.unknownOperation(operation)
		return nil
	}

	output, err := e.commands.Apply(operation)
	if err != nil {
		e.formatter.PrintError(err.Error())
		return nil
	}
	e.formatter.PrintText(output)
	e.formatter.PrintInfo(e.commands.Labels().Output)
	return nil
}

func (e *Executor) handleTransform(cmd *Command) error {
	if cmd.Object == "" || cmd.Rest == "" {
		e.formatter.PrintError("usage: transform <operation> <text>")
		return nil
	}
	if _, ok := transform.Lookup(cmd.Object); !ok {
		e.unknownOperation(cmd.Object)
		return nil
	}

	output, err := e.commands.Transform(cmd.Object, cmd.Rest)
	if err != nil {
		e.formatter.PrintError(err.Error())
		return nil
	}
	e.formatter.PrintText(output)
	return nil
}

func (e *Executor) handleShow(cmd *Command) error {
	switch cmd.Object {
	case "input":
		e.formatter.PrintText(e.commands.GetInputText())
	case "output":
		e.formatter.PrintText(e.commands.GetOutputText())
	case "labels":
		e.formatter.PrintJSON(e.commands.Labels())
	default:
		e.formatter.PrintError(fmt.Sprintf("%s requires one of: input, output, labels", cmd.Verb))
	}
	return nil
}

func (e *Executor) handleList(cmd *Command) error {
	if cmd.Object != "operations" && cmd.Object != "ops" {
		e.formatter.PrintError("list requires 'operations' argument")
		return nil
	}

	var rows [][]string
	for _, name := range e.commands.ListOperations() {
		description := ""
		if op, ok := transform.Lookup(name); ok {
			description = op.Description
		}
		rows = append(rows, []string{name, description})
	}
	e.formatter.PrintTable([]string{"OPERATION", "DESCRIPTION"}, rows)
	return nil
}

func (e *Executor) handlePaste() error {
	if err := e.commands.PasteInput(); err != nil {
		e.formatter.PrintError(err.Error())
		return nil
	}
	e.formatter.PrintSuccess(e.commands.Labels().Input)
	return nil
}

func (e *Executor) handleCopy() error {
	if err := e.commands.CopyOutput(); err != nil {
		e.formatter.PrintError(err.Error())
		return nil
	}
	e.formatter.PrintSuccess("Output copied to clipboard")
	return nil
}

func (e *Executor) unknownOperation(name string) {
	e.formatter.PrintError(fmt.Sprintf("Unknown operation: %s", name))
	if s := Suggest(name, e.commands.ListOperations()); s != "" {
		e.formatter.PrintInfo(fmt.Sprintf("Did you mean '%s'?", s))
	}
}

// ============================================================================
// Help
// ============================================================================

func showHelp(w io.Writer, command string) {
	if command == "" {
		fmt.Fprint(w, mainHelp)
		return
	}
	if help, ok := commandHelp[command]; ok {
		fmt.Fprintln(w, help)
		return
	}
	fmt.Fprintf(w, "No help available for '%s'\n", command)
	fmt.Fprintln(w, "Type 'help' for a list of all commands")
}

const mainHelp = `
jsonhelper REPL - Available Commands
====================================

BUFFERS:
  set input <text>            Set input text
  set input                   Enter multiline input mode
  show input|output|labels    Print a buffer or the byte-count labels
  swap                        Exchange input and output
  paste                       Load the clipboard into the input
  copy                        Copy the output to the clipboard

OPERATIONS:
  apply <operation>           Run an operation on the input
  <operation>                 Same as apply
  transform <operation> <text>
                              Run an operation on text, buffers untouched
  list operations             List all operations

UTILITIES:
  help [command]              Show this help or help for specific command
  clear                       Clear the screen
  quit, exit                  Exit the REPL

EXAMPLES:
  > set input {"b":[1,2],"a":null}
  > prettify
  > swap
  > apply base64-encode
  > transform minify [ 1, 2, 3 ]

Type 'help' followed by a command name for detailed help.
`

var commandHelp = map[string]string{
	"set": `
set input <text>
  Sets the input text. Everything after 'input' is taken verbatim.

  Examples:
    set input {"a": 1}
    set input
      (then enter multiline text, end with a blank line)
`,
	"apply": `
apply <operation>
  Runs an operation on the input buffer and stores the result in the
  output buffer. An empty input is first loaded from the clipboard.
  Operation names are case-insensitive.

  Example:
    apply gzip-compress
`,
	"transform": `
transform <operation> <text>
  Runs an operation on the given text and prints the result without
  changing the buffers.

  Example:
    transform js-encode {"a":"b"}
`,
	"show": `
show input      Print the input buffer
show output     Print the output buffer
show labels     Print the byte-count labels
`,
	"swap": `
swap
  Exchanges the input and output buffers.
`,
}
