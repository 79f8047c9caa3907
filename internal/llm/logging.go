package llm

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type loggingProvider struct {
	Provider
	log *zap.Logger
}

// WithLogging wraps p so every request is logged with latency and outcome.
func WithLogging(p Provider, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &loggingProvider{Provider: p, log: log}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.Provider.Generate(ctx, req)

	fields := []zap.Field{
		zap.String("model", l.ModelID()),
		zap.Duration("latency", time.Since(start)),
	}
	if req.Schema != nil {
		fields = append(fields, zap.String("schema", req.Schema.Name))
	}
	if err != nil {
		l.log.Warn("llm request failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	l.log.Debug("llm request",
		append(fields, zap.Int("input_tokens", resp.InputTokens), zap.Int("output_tokens", resp.OutputTokens))...)
	return resp, nil
}
