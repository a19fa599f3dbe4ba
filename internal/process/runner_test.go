package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/chapmanb/bcbio.run/internal/testutil/testlog"
)

func testRunner() *Runner {
	return NewRunner(zerolog.Nop())
}

func TestRunSuccess(t *testing.T) {
	testlog.Start(t)
	if err := testRunner().Run(context.Background(), "true"); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestRunFailureReturnsCommandError(t *testing.T) {
	err := testRunner().Run(context.Background(), "echo first; echo second; exit 3")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Fatalf("unexpected exit code: %d", cmdErr.ExitCode)
	}
	if len(cmdErr.Lines) != 2 || cmdErr.Lines[0] != "first" || cmdErr.Lines[1] != "second" {
		t.Fatalf("unexpected retained lines: %v", cmdErr.Lines)
	}
	if !strings.Contains(cmdErr.Error(), "exit 3") {
		t.Fatalf("command text missing from error: %v", cmdErr)
	}
}

func TestRunMergesStderrInOrder(t *testing.T) {
	err := testRunner().Run(context.Background(), "echo out1; echo err1 1>&2; echo out2; exit 1")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	want := []string{"out1", "err1", "out2"}
	if len(cmdErr.Lines) != len(want) {
		t.Fatalf("unexpected lines: %v", cmdErr.Lines)
	}
	for i, line := range want {
		if cmdErr.Lines[i] != line {
			t.Fatalf("line %d: got %q, want %q", i, cmdErr.Lines[i], line)
		}
	}
}

func TestRunPipefailDetectsMidPipeFailure(t *testing.T) {
	// The last stage succeeds; only pipefail surfaces the failure.
	err := testRunner().Run(context.Background(), "false | cat")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
}

func TestRunRetainsOnlyMostRecentLines(t *testing.T) {
	cmd := fmt.Sprintf("for i in $(seq 1 %d); do echo line-$i; done; exit 1", DefaultLogLines+50)
	err := testRunner().Run(context.Background(), cmd)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if len(cmdErr.Lines) != DefaultLogLines {
		t.Fatalf("unexpected retained count: %d", len(cmdErr.Lines))
	}
	if cmdErr.Lines[0] != "line-51" {
		t.Fatalf("unexpected oldest retained line: %q", cmdErr.Lines[0])
	}
	if cmdErr.Lines[len(cmdErr.Lines)-1] != fmt.Sprintf("line-%d", DefaultLogLines+50) {
		t.Fatalf("unexpected newest retained line: %q", cmdErr.Lines[len(cmdErr.Lines)-1])
	}
}

func TestRunScriptWritesAndExecutesScript(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	err := testRunner().RunScript(context.Background(), "echo scripted > "+out, dir)
	if err != nil {
		t.Fatalf("run script: %v", err)
	}

	got, err := os.ReadFile(out)
	if err != nil || strings.TrimSpace(string(got)) != "scripted" {
		t.Fatalf("unexpected output: %q err=%v", got, err)
	}
	script, err := os.ReadFile(filepath.Join(dir, scriptName))
	if err != nil {
		t.Fatalf("script not written: %v", err)
	}
	if !strings.HasPrefix(string(script), shellPrelude) {
		t.Fatalf("script missing pipefail prelude: %q", script)
	}
}

func TestRunScriptWrapsLongCommands(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	var parts []string
	for i := 0; i < 200; i++ {
		parts = append(parts, fmt.Sprintf("arg%03d", i))
	}
	cmd := "echo " + strings.Join(parts, " ") + " > " + out

	if err := testRunner().RunScript(context.Background(), cmd, dir); err != nil {
		t.Fatalf("run script: %v", err)
	}

	script, err := os.ReadFile(filepath.Join(dir, scriptName))
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	lines := strings.Split(string(script), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected wrapped script, got %d lines", len(lines))
	}
	for _, line := range lines {
		if len(line) > scriptWrapWidth+2 {
			t.Fatalf("script line too long (%d): %q", len(line), line)
		}
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(got), "arg000") || !strings.Contains(string(got), "arg199") {
		t.Fatalf("wrapped command lost arguments: %q", got)
	}
}

func TestRunDrainsOverlongOutputLines(t *testing.T) {
	// A single line past the retention cap must not stall the drain:
	// the child keeps writing and a stuck reader would block it on a
	// full pipe forever.
	cmd := fmt.Sprintf("head -c %d /dev/zero | tr '\\0' 'a'; echo; echo trailer; exit 1", 2*maxLineBytes)
	err := testRunner().Run(context.Background(), cmd)
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if len(cmdErr.Lines) != 2 {
		t.Fatalf("unexpected retained lines: %d", len(cmdErr.Lines))
	}
	if len(cmdErr.Lines[0]) != maxLineBytes {
		t.Fatalf("oversized line not truncated to cap: %d bytes", len(cmdErr.Lines[0]))
	}
	if cmdErr.Lines[1] != "trailer" {
		t.Fatalf("output after oversized line lost: %q", cmdErr.Lines[1])
	}
}

func TestRunSucceedsAfterOverlongOutputLine(t *testing.T) {
	cmd := fmt.Sprintf("head -c %d /dev/zero | tr '\\0' 'a'; echo", 2*maxLineBytes)
	if err := testRunner().Run(context.Background(), cmd); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestRunScriptKeepsQuotedArgumentsIntact(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")

	// Pad the command so the quoted argument sits past a wrap point.
	pad := strings.Repeat("true && ", 40)
	cmd := pad + "echo 'spaced  out  argument' > " + out

	if err := testRunner().RunScript(context.Background(), cmd, dir); err != nil {
		t.Fatalf("run script: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if strings.TrimRight(string(got), "\n") != "spaced  out  argument" {
		t.Fatalf("quoted argument corrupted by wrapping: %q", got)
	}
}

func TestWrapWordsNeverSplitsQuotedRegions(t *testing.T) {
	text := "cmd 'a quoted span with spaces' \"another  one\" tail"
	lines := wrapWords(text, 10)
	joined := strings.Join(lines, " ")
	if !strings.Contains(joined, "'a quoted span with spaces'") {
		t.Fatalf("single-quoted span split: %v", lines)
	}
	if !strings.Contains(joined, "\"another  one\"") {
		t.Fatalf("double-quoted span split: %v", lines)
	}
}

func TestWrapWordsBoundaries(t *testing.T) {
	lines := wrapWords("one two three four", 9)
	want := []string{"one two", "three", "four"}
	if len(lines) != len(want) {
		t.Fatalf("unexpected lines: %v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
	if got := wrapWords("", 10); len(got) != 1 || got[0] != "" {
		t.Fatalf("unexpected empty wrap: %v", got)
	}
}

func TestRunMissingShellCommand(t *testing.T) {
	err := testRunner().Run(context.Background(), "definitely-not-a-real-command-xyz")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *CommandError, got %v", err)
	}
	if cmdErr.ExitCode != 127 {
		t.Fatalf("unexpected exit code: %d", cmdErr.ExitCode)
	}
}
