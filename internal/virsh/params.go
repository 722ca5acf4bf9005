package virsh

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jbweber/virshkit/internal/executor"
)

// Params is the configuration a catalog function runs with. Façades build
// it from their properties and session on every call.
type Params struct {
	executor.Options

	// ScreenshotErrors counts failed screenshots; only the first is logged.
	// Nil logs every failure.
	ScreenshotErrors *int
}

func (p Params) run(ctx context.Context, command string) (*executor.Result, error) {
	return executor.Execute(ctx, command, p.Options)
}

// strict returns a copy of p that never ignores errors.
func (p Params) strict() Params {
	p.IgnoreErrors = false
	return p
}

func isCommandError(err error) bool {
	var cmdErr *executor.CommandError
	return errors.As(err, &cmdErr)
}

// outcome turns the error of a boolean operation into its result. A command
// failure is logged and reported as false; anything else is returned.
func outcome(err error, format string, args ...any) (bool, error) {
	if err == nil {
		return true, nil
	}
	if isCommandError(err) {
		logrus.Errorf(format+":\n%v", append(args, err)...)
		return false, nil
	}
	return false, err
}

// join builds a sub-command from words, skipping empty ones.
func join(words ...string) string {
	parts := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			parts = append(parts, w)
		}
	}
	return strings.Join(parts, " ")
}
