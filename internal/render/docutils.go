package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/sony/gobreaker"
)

var (
	// ErrClosed is returned by Publish after Close
	ErrClosed = errors.New("publisher is closed")

	// ErrUnavailable is returned while repeated launch failures keep the
	// front end switched off
	ErrUnavailable = errors.New("renderer unavailable")
)

// DocutilsPublisher renders reStructuredText by running a docutils front end
// such as rst2html. Source is piped to the child's stdin and the HTML is read
// from its stdout. Whatever the child writes to stderr is captured and kept
// away from the user.
type DocutilsPublisher struct {
	config  *Config
	breaker *gobreaker.CircuitBreaker
	closed  bool
}

// NewDocutilsPublisher creates a publisher for the configured front end
func NewDocutilsPublisher(config *Config) *DocutilsPublisher {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Command == "" {
		config.Command = DefaultConfig().Command
	}

	failures := config.BreakerFailures
	if failures == 0 {
		failures = 1
	}

	p := &DocutilsPublisher{config: config}
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    config.Command,
		Timeout: config.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Markup errors are the renderer working as intended
		IsSuccessful: func(err error) bool {
			var fatal *FatalError
			return err == nil || errors.As(err, &fatal)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Renderer circuit breaker changed state", "command", name, "from", from.String(), "to", to.String())
		},
	})
	return p
}

// Publish renders source through the docutils front end
func (p *DocutilsPublisher) Publish(source string) (string, error) {
	if p.closed {
		return "", ErrClosed
	}

	out, err := p.breaker.Execute(func() (interface{}, error) {
		return p.run(source)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: %s (%v); check that docutils is installed", ErrUnavailable, p.config.Command, err)
		}
		return "", err
	}
	return out.(string), nil
}

// run executes the front end once
func (p *DocutilsPublisher) run(source string) (string, error) {
	ctx := context.Background()
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, p.config.Command, p.Args()...)
	cmd.Stdin = strings.NewReader(source)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	diagnostics := strings.TrimSpace(stderr.String())
	if diagnostics != "" {
		slog.Debug("Renderer diagnostics", "command", p.config.Command, "diagnostics", diagnostics)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && ctx.Err() == nil {
			if diagnostics == "" {
				diagnostics = fmt.Sprintf("%s exited with status %d", p.config.Command, exitErr.ExitCode())
			}
			return "", &FatalError{Message: diagnostics}
		}
		return "", fmt.Errorf("%s failed: %w", p.config.Command, err)
	}

	return stdout.String(), nil
}

// Args returns the command line passed to the front end
func (p *DocutilsPublisher) Args() []string {
	args := make([]string, 0, len(p.config.Args)+4)
	args = append(args, p.config.Args...)
	if p.config.HaltLevel != "" {
		args = append(args, "--halt="+p.config.HaltLevel)
	}
	if p.config.ReportLevel != "" {
		args = append(args, "--report="+p.config.ReportLevel)
	}
	return append(args, "--input-encoding=utf-8", "--output-encoding=utf-8")
}

// BreakerState reports whether launches are currently allowed
func (p *DocutilsPublisher) BreakerState() gobreaker.State {
	return p.breaker.State()
}

// Name returns the publisher name
func (p *DocutilsPublisher) Name() string {
	return "docutils (" + p.config.Command + ")"
}

// Close marks the publisher closed. There is no long-lived child process.
func (p *DocutilsPublisher) Close() error {
	p.closed = true
	return nil
}

// IsAvailable checks that the front end can be found in PATH
func (p *DocutilsPublisher) IsAvailable() error {
	if _, err := exec.LookPath(p.config.Command); err != nil {
		return fmt.Errorf("%s is not installed or not in PATH: %w", p.config.Command, err)
	}
	return nil
}
