// Package process spawns shell commands, streams their merged output
// into a bounded retention buffer, and classifies success by exit code.
package process

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// shellPrelude makes a failure anywhere in a piped command fail the
// whole command, not just the last stage.
const shellPrelude = "set -o pipefail"

// scriptName is the file written into the script directory when a
// command is too long to pass as an argument safely.
const scriptName = "run_command.sh"

// scriptWrapWidth bounds script line length; continuation lines dodge
// OS argv and tooling limits on very long generated commands.
const scriptWrapWidth = 250

// maxLineBytes caps how much of a single output line is retained.
// Anything past it is read and discarded, never buffered.
const maxLineBytes = 1024 * 1024

// CommandError reports a subprocess that exited non-zero. It carries
// the original command string and the retained tail of its merged
// output, oldest line first.
type CommandError struct {
	Command  string
	ExitCode int
	Lines    []string
	Err      error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "process: command failed (exit %d): %s", e.ExitCode, e.Command)
	for _, line := range e.Lines {
		b.WriteString("\n  ")
		b.WriteString(line)
	}
	return b.String()
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes shell commands with a logger threaded in at
// construction, so per-run log context never touches global state.
type Runner struct {
	log    zerolog.Logger
	retain int
}

// NewRunner returns a Runner logging through logger and retaining
// DefaultLogLines trailing output lines for diagnostics.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{log: logger, retain: DefaultLogLines}
}

// Run executes command via `bash -c` with pipefail enabled, blocking
// until the process exits and its output is fully drained. Output lines
// are logged at info level as they arrive. A non-zero exit returns a
// *CommandError embedding the retained output tail.
func (r *Runner) Run(ctx context.Context, command string) error {
	return r.run(ctx, command, "")
}

// RunScript behaves like Run but writes command to a word-wrapped
// script file inside scriptDir and executes `bash <script>` instead of
// passing the command as an argument. An empty scriptDir falls back to
// Run.
func (r *Runner) RunScript(ctx context.Context, command, scriptDir string) error {
	return r.run(ctx, command, scriptDir)
}

func (r *Runner) run(ctx context.Context, command, scriptDir string) error {
	cmd, err := r.buildCmd(ctx, command, scriptDir)
	if err != nil {
		return err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("process: pipe output: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("process: start %q: %w", command, err)
	}

	buf := NewLogBuffer(r.retain)
	drained := make(chan error, 1)
	go func() {
		reader := bufio.NewReaderSize(stdout, 64*1024)
		var readErr error
		for {
			line, err := readLine(reader)
			if err != nil {
				if line != "" {
					r.log.Info().Msg(line)
					buf.Push(line)
				}
				if !errors.Is(err, io.EOF) {
					readErr = err
					// The child must never block on a full pipe:
					// consume whatever is left before reporting.
					io.Copy(io.Discard, stdout)
				}
				break
			}
			r.log.Info().Msg(line)
			buf.Push(line)
		}
		drained <- readErr
	}()

	// Drain to end-of-stream before Wait so no trailing output is
	// lost when classifying the result.
	readErr := <-drained
	waitErr := cmd.Wait()

	if waitErr != nil {
		cmdErr := &CommandError{
			Command:  command,
			ExitCode: exitCode(waitErr),
			Lines:    buf.Lines(),
			Err:      waitErr,
		}
		r.log.Error().Int("exit_code", cmdErr.ExitCode).Msg(cmdErr.Error())
		return cmdErr
	}
	if readErr != nil {
		return fmt.Errorf("process: read output of %q: %w", command, readErr)
	}
	return nil
}

// readLine returns the next line, truncated to maxLineBytes. The
// remainder of an oversized line is still consumed from the stream, so
// one huge line can neither stall the drain nor grow memory without
// bound.
func readLine(r *bufio.Reader) (string, error) {
	var b strings.Builder
	for {
		chunk, isPrefix, err := r.ReadLine()
		if len(chunk) > 0 && b.Len() < maxLineBytes {
			if room := maxLineBytes - b.Len(); len(chunk) > room {
				chunk = chunk[:room]
			}
			b.Write(chunk)
		}
		if err != nil {
			return b.String(), err
		}
		if !isPrefix {
			return b.String(), nil
		}
	}
}

func (r *Runner) buildCmd(ctx context.Context, command, scriptDir string) (*exec.Cmd, error) {
	if scriptDir == "" {
		return exec.CommandContext(ctx, "bash", "-c", shellPrelude+"; "+command), nil
	}
	script := filepath.Join(scriptDir, scriptName)
	if err := writeScript(script, command); err != nil {
		return nil, fmt.Errorf("process: write script %s: %w", script, err)
	}
	return exec.CommandContext(ctx, "bash", script), nil
}

// writeScript writes command to path with continuation-wrapped lines so
// arbitrarily long generated commands stay executable.
func writeScript(path, command string) error {
	var b strings.Builder
	b.WriteString(shellPrelude)
	b.WriteString("\n")
	lines := wrapWords(command, scriptWrapWidth)
	for i, line := range lines {
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString(" \\")
		}
		b.WriteString("\n")
	}
	return os.WriteFile(path, []byte(b.String()), 0o755)
}

// wrapWords splits text at unquoted word boundaries into chunks of at
// most width characters. Quoted regions are never split, since a
// backslash-newline inside quotes would become literal; a single word
// or quoted argument longer than width stays intact. Runs of unquoted
// whitespace collapse to single spaces.
func wrapWords(text string, width int) []string {
	words := splitShellWords(text)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}

// splitShellWords splits text on unquoted whitespace, keeping single-
// and double-quoted spans (with their spaces) inside one word.
func splitShellWords(text string) []string {
	var words []string
	var b strings.Builder
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case quote != 0:
			b.WriteByte(c)
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
			b.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\n':
			if b.Len() > 0 {
				words = append(words, b.String())
				b.Reset()
			}
		default:
			b.WriteByte(c)
		}
	}
	if b.Len() > 0 {
		words = append(words, b.String())
	}
	return words
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return 127
	}
	return 1
}
