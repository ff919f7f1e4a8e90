package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pstuifzand/go-jsonhelper/internal/core"
)

// Prompt is shown before each command
const Prompt = "jsonhelper> "

// Session manages the REPL interactive session
type Session struct {
	commands    core.Commands
	formatter   *Formatter
	target      string
	historyFile string
}

// NewSession creates a session over commands. target names what the REPL
// is connected to and is shown in the banner.
func NewSession(commands core.Commands, target string, useColor bool) *Session {
	return &Session{
		commands:  commands,
		formatter: NewFormatter(readline.Stdout, useColor),
		target:    target,
	}
}

// SetHistoryFile makes Run load and append history at path. The parent
// directory is created when missing.
func (s *Session) SetHistoryFile(path string) {
	s.historyFile = path
}

// readlineConfig builds the readline settings for Run.
func (s *Session) readlineConfig() (*readline.Config, error) {
	if s.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(s.historyFile), 0o700); err != nil {
			return nil, fmt.Errorf("create history directory: %w", err)
		}
	}
	return &readline.Config{
		Prompt:            Prompt,
		AutoComplete:      s.completer(),
		HistoryFile:       s.historyFile,
		HistorySearchFold: true,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
	}, nil
}

// completer offers command words and operation names
func (s *Session) completer() *readline.PrefixCompleter {
	ops := func(string) []string {
		names := s.commands.ListOperations()
		lower := make([]string, len(names))
		for i, n := range names {
			lower[i] = strings.ToLower(n)
		}
		return lower
	}

	return readline.NewPrefixCompleter(
		readline.PcItem("set", readline.PcItem("input")),
		readline.PcItem("apply", readline.PcItemDynamic(ops)),
		readline.PcItem("transform", readline.PcItemDynamic(ops)),
		readline.PcItem("show",
			readline.PcItem("input"),
			readline.PcItem("output"),
			readline.PcItem("labels"),
		),
		readline.PcItem("list", readline.PcItem("operations")),
		readline.PcItem("swap"),
		readline.PcItem("paste"),
		readline.PcItem("copy"),
		readline.PcItem("help"),
		readline.PcItem("clear"),
		readline.PcItem("quit"),
	)
}

// Run starts the interactive REPL loop
func (s *Session) Run() error {
	cfg, err := s.readlineConfig()
	if err != nil {
		return err
	}
	rl, err := readline.NewEx(cfg)
	if err != nil {
		return err
	}
	defer rl.Close()

	s.formatter.PrintHeading("jsonhelper REPL")
	s.formatter.PrintInfo(fmt.Sprintf("Connected to %s", s.target))
	s.formatter.PrintInfo("Type 'help' for available commands")

	return s.loop(rl, rl.Stdout())
}

// loop reads and executes lines until quit or EOF
func (s *Session) loop(lines LineReader, out io.Writer) error {
	s.formatter.out = out
	executor := NewExecutor(s.commands, s.formatter, lines)

	for {
		line, err := lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := executor.ExecuteLine(line); err != nil {
			if errors.Is(err, errExit) {
				break
			}
			s.formatter.PrintError(err.Error())
		}
	}

	s.formatter.PrintInfo("Goodbye!")
	return nil
}
