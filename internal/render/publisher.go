package render

import (
	"fmt"
	"time"
)

// Publisher converts markup source into rendered output
type Publisher interface {
	// Publish renders source. Markup problems severe enough to abort the
	// render are reported as *FatalError.
	Publish(source string) (string, error)

	// Name returns the publisher name
	Name() string

	// Close releases anything the publisher holds on to
	Close() error
}

// FatalError is a diagnostic that stopped the render
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string {
	return e.Message
}

// Engine names accepted by NewPublisher
const (
	EngineDocutils = "docutils"
	EngineMarkdown = "markdown"
	EngineSource   = "source"
)

// Config holds configuration for publishers
type Config struct {
	Engine string // "docutils", "markdown" or "source"

	// docutils settings
	Command     string   // Front end executable, e.g. "rst2html"
	Args        []string // Extra arguments placed before the generated ones
	HaltLevel   string   // Abort on system messages at or above this level
	ReportLevel string   // Report system messages at or above this level
	Timeout     time.Duration

	// Circuit breaker around process launches
	BreakerFailures uint32        // Consecutive launch failures before opening
	BreakerCooldown time.Duration // Time the breaker stays open
}

// DefaultConfig returns the default publisher configuration
func DefaultConfig() *Config {
	return &Config{
		Engine:          EngineDocutils,
		Command:         "rst2html",
		HaltLevel:       "severe",
		ReportLevel:     "error",
		Timeout:         10 * time.Second,
		BreakerFailures: 3,
		BreakerCooldown: 30 * time.Second,
	}
}

// NewPublisher creates the publisher selected by config.Engine
func NewPublisher(config *Config) (Publisher, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Engine {
	case EngineDocutils, "":
		return NewDocutilsPublisher(config), nil
	case EngineMarkdown:
		return NewMarkdownPublisher(), nil
	case EngineSource:
		return NewSourcePublisher(), nil
	default:
		return nil, fmt.Errorf("unknown render engine: %s", config.Engine)
	}
}

// Engines lists the engine names NewPublisher understands
func Engines() []string {
	return []string{EngineDocutils, EngineMarkdown, EngineSource}
}
