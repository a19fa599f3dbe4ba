// Package run ties idempotency checks, transactional staging, and
// process execution into a single entry point for pipeline steps that
// shell out to external tools.
package run

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/chapmanb/bcbio.run/internal/idempotent"
	"github.com/chapmanb/bcbio.run/internal/process"
	"github.com/chapmanb/bcbio.run/internal/transaction"
)

// Runner executes external commands idempotently and transactionally.
type Runner struct {
	log zerolog.Logger
}

// NewRunner returns a Runner logging through logger.
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{log: logger}
}

// Commandf builds a shell command line from explicit arguments. Callers
// pass exactly the values the command needs instead of interpolating
// from ambient scope, so the resulting string is auditable at the call
// site.
func Commandf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

// RunCommand executes cmdline to produce output. When output already
// exists and is non-empty the command is skipped entirely. Otherwise
// the command runs against a staged copy of output inside a private
// transaction directory: every textual occurrence of output in cmdline
// is rewritten to the staged path, so a command writing to the nominal
// output name transparently writes into staging. On success the staged
// file is promoted to output by atomic rename; on failure output is
// left exactly as it was. The returned path is always the final,
// non-staged output path.
func (r *Runner) RunCommand(ctx context.Context, output, cmdline string) (string, error) {
	return r.RunCommandWithExts(ctx, output, cmdline, nil)
}

// RunCommandWithExts is RunCommand with side-extension files (index
// sidecars like ".tbi") promoted alongside the primary output when the
// command produced them.
func (r *Runner) RunCommandWithExts(ctx context.Context, output, cmdline string, sideExts []string) (string, error) {
	if !idempotent.NeedsRun(output) {
		r.log.Info().Str("output", output).Msg("output up to date, skipping command")
		return output, nil
	}

	log := r.log.With().Str("tx", shortID()).Str("output", output).Logger()
	proc := process.NewRunner(log)

	err := transaction.WithFile(output, sideExts, func(staged string) error {
		local := strings.ReplaceAll(cmdline, output, staged)
		log.Info().Str("command", local).Msg("running command")
		return proc.RunScript(ctx, local, filepath.Dir(staged))
	})
	if err != nil {
		return "", err
	}
	return output, nil
}

// shortID tags one transaction's log lines. Uniqueness of the staging
// directory itself comes from the filesystem, not from this id.
func shortID() string {
	return uuid.NewString()[:8]
}
