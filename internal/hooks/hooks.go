// SPDX-License-Identifier: MPL-2.0

// Package hooks runs user-configured shell snippets around packaging.
// Hooks execute in an embedded POSIX shell interpreter, so they behave
// identically on every platform without requiring /bin/sh.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Environment variable names exposed to hook scripts.
const (
	EnvAddon  = "BLENDPACK_ADDON"
	EnvSlug   = "BLENDPACK_SLUG"
	EnvOutput = "BLENDPACK_OUTPUT"
)

// Env describes the add-on being packaged, exposed to hook scripts as
// BLENDPACK_* environment variables.
type Env struct {
	// AddonPath is the add-on source directory.
	AddonPath string
	// Slug is the canonical add-on folder name.
	Slug string
	// OutputPath is the archive path. Empty for pre-package hooks when
	// the final path is not yet known.
	OutputPath string
}

// Runner executes hook scripts.
type Runner struct {
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a Runner that writes hook output to the given streams.
// Nil streams default to the process's stdout and stderr.
func NewRunner(stdout, stderr io.Writer) *Runner {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return &Runner{stdout: stdout, stderr: stderr}
}

// Validate parses script and reports any syntax error without running it.
func Validate(script string) error {
	_, err := syntax.NewParser().Parse(strings.NewReader(script), "hook")
	if err != nil {
		return fmt.Errorf("hook syntax error: %w", err)
	}
	return nil
}

// Run executes the named hook script with the add-on environment. The
// script runs with the add-on directory as its working directory. A
// non-zero exit status is returned as an error naming the hook.
func (r *Runner) Run(ctx context.Context, name, script string, env Env) error {
	if strings.TrimSpace(script) == "" {
		return nil
	}

	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(script), name)
	if err != nil {
		return fmt.Errorf("failed to parse %s hook: %w", name, err)
	}

	// Inherit the process environment, then layer the add-on variables
	hookEnv := append(os.Environ(),
		EnvAddon+"="+env.AddonPath,
		EnvSlug+"="+env.Slug,
		EnvOutput+"="+env.OutputPath,
	)

	runner, err := interp.New(
		interp.Dir(env.AddonPath),
		interp.Env(expand.ListEnviron(hookEnv...)),
		interp.StdIO(nil, r.stdout, r.stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create hook interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return fmt.Errorf("%s hook exited with status %d", name, int(exitStatus))
		}
		return fmt.Errorf("%s hook failed: %w", name, err)
	}

	return nil
}
