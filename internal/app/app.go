package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/vidfriends/client/internal/config"
	"github.com/vidfriends/client/internal/logging"
	"github.com/vidfriends/client/internal/session"
)

// ErrUsage marks a malformed command line.
var ErrUsage = errors.New("usage")

// Run executes one vidtube command.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: expected a command (%s)", ErrUsage, strings.Join(commandNames(), ", "))
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)
	slog.SetDefault(logger)
	ctx = logging.WithLogger(ctx, logger)

	store, cleanup, err := openTokenStore(ctx, cfg.Tokens)
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}
	defer cleanup()

	deps, err := buildDependencies(cfg, store, os.Stdout, os.Stderr)
	if err != nil {
		return err
	}
	return execute(ctx, deps, args)
}

// execute dispatches args[0] against deps.
func execute(ctx context.Context, deps *dependencies, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: expected a command", ErrUsage)
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, args[0])
	}

	ctx, span := logging.StartSpan(ctx, "command "+args[0])
	var err error
	defer func() { span.End(err) }()

	if cmd.restore {
		if err = deps.session.Init(ctx); err != nil {
			return err
		}
		if cmd.auth && !deps.session.Authenticated() {
			err = session.ErrNotAuthenticated
			return fmt.Errorf("%s: %w (run vidtube login)", args[0], err)
		}
	}

	err = cmd.run(ctx, deps, args[1:])
	return err
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
