package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/muhammadolammi/skillbridge/internal/metrics"
	"github.com/rs/zerolog"
)

// Failure records why one backend did not produce text.
type Failure struct {
	Backend string `json:"backend"`
	Message string `json:"message"`
	// Configuration is true when the backend was skipped for missing settings.
	Configuration bool `json:"configuration"`
}

type Result struct {
	Text     string    `json:"text"`
	Backend  string    `json:"backend"`
	Failures []Failure `json:"failures,omitempty"`
}

// ExhaustedError is returned when every backend failed.
type ExhaustedError struct {
	Failures []Failure
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Backend + ": " + f.Message
	}
	return "could not generate: all backends failed (" + strings.Join(parts, "; ") + ")"
}

type Chain struct {
	backends []Backend
	log      zerolog.Logger
}

func NewChain(log zerolog.Logger, backends ...Backend) *Chain {
	return &Chain{backends: backends, log: log.With().Str("component", "llm").Logger()}
}

// Backends returns the backend names in the order they are tried.
func (c *Chain) Backends() []string {
	names := make([]string, len(c.backends))
	for i, b := range c.backends {
		names[i] = b.Name()
	}
	return names
}

// Generate tries each backend once, in order, and returns the first non-empty
// answer with code fences removed. A cancelled ctx stops the chain.
func (c *Chain) Generate(ctx context.Context, system, user string) (Result, error) {
	var failures []Failure
	for _, b := range c.backends {
		if err := ctx.Err(); err != nil {
			return Result{Failures: failures}, err
		}

		started := time.Now()
		text, err := b.Generate(ctx, system, user)
		if err == nil {
			text = CleanText(text)
			if text == "" {
				err = &ServiceError{Backend: b.Name(), Err: errors.New("empty response")}
			}
		}
		if err == nil {
			metrics.ObserveGeneration(b.Name(), metrics.OutcomeOK, started)
			c.log.Info().Str("backend", b.Name()).Dur("took", time.Since(started)).Msg("plan generated")
			return Result{Text: text, Backend: b.Name(), Failures: failures}, nil
		}

		var cfgErr *ConfigurationError
		isCfg := errors.As(err, &cfgErr)
		failures = append(failures, Failure{Backend: b.Name(), Message: err.Error(), Configuration: isCfg})
		if isCfg {
			metrics.ObserveGeneration(b.Name(), "unconfigured", started)
			c.log.Debug().Str("backend", b.Name()).Err(err).Msg("backend skipped")
			continue
		}
		metrics.ObserveGeneration(b.Name(), metrics.OutcomeError, started)
		c.log.Warn().Str("backend", b.Name()).Err(err).Msg("backend failed, trying next")
	}
	return Result{Failures: failures}, &ExhaustedError{Failures: failures}
}

// CleanText strips a leading ```lang fence and a trailing ``` fence.
func CleanText(input string) string {
	clean := strings.TrimSpace(input)
	if strings.HasPrefix(clean, "```") {
		clean = strings.TrimPrefix(clean, "```")
		// drop the language tag on the fence line, if any
		if nl := strings.IndexByte(clean, '\n'); nl >= 0 && !strings.ContainsAny(clean[:nl], " \t") {
			clean = clean[nl+1:]
		}
		clean = strings.TrimSuffix(strings.TrimSpace(clean), "```")
	}
	return strings.TrimSpace(clean)
}

// Describe renders failures one per line for operators.
func Describe(failures []Failure) string {
	var b strings.Builder
	for _, f := range failures {
		fmt.Fprintf(&b, "- %s: %s\n", f.Backend, f.Message)
	}
	return b.String()
}
