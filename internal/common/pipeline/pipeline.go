// Package pipeline composes completion, extraction, repair and normalization into one
// call per study feature.
package pipeline

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"studyai-workers/internal/common/completion"
	"studyai-workers/internal/common/config"
	apperrors "studyai-workers/internal/common/errors"
	"studyai-workers/internal/common/logger"
	"studyai-workers/internal/common/metrics"
	"studyai-workers/internal/common/observability"
	"studyai-workers/internal/common/structured"
	"studyai-workers/internal/common/validation"
	"studyai-workers/internal/models"
)

// Pipeline holds only immutable collaborators; calls may run concurrently.
type Pipeline struct {
	completer completion.Completer
	repairer  *structured.Repairer
	features  map[string]config.FeatureConfig
	obs       *observability.Observability
	logger    logger.Logger
}

type Option func(*Pipeline)

func WithObservability(o *observability.Observability) Option {
	return func(p *Pipeline) { p.obs = o }
}

func New(c completion.Completer, r *structured.Repairer, features map[string]config.FeatureConfig, log logger.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		completer: c,
		repairer:  r,
		features:  features,
		obs:       observability.NewNoop(),
		logger:    log.With(map[string]interface{}{"component": "pipeline"}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// call is one prompt for one feature.
type call struct {
	feature string
	kind    models.ResultKind
	prompt  string
	system  string
}

// run drives one call through its states: primary completion, extraction, an optional
// repair pass, then normalization. Completion errors are returned as they are; a second
// extraction failure is a PARSE_ERROR. At most two completion requests are made.
func run[T any](ctx context.Context, p *Pipeline, c call, normalize func(map[string]interface{}) (T, error)) (result T, err error) {
	start := time.Now()
	completions := 0

	ctx, span := p.obs.StartSpan(ctx, "pipeline."+c.feature, attribute.String("feature", c.feature))
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = strings.ToLower(string(apperrors.CodeOf(err)))
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.SetAttributes(attribute.Int("completions", completions))
		span.End()
		p.obs.RecordCall(ctx, c.feature, outcome, time.Since(start), completions)
	}()

	fc := p.features[c.feature]
	log := p.logger.With(map[string]interface{}{"feature": c.feature, "model": fc.Model})

	completions++
	raw, err := p.completer.Complete(ctx, completion.Request{
		Prompt:       c.prompt,
		SystemPrompt: c.system,
		ModelID:      fc.Model,
		MaxTokens:    fc.MaxTokens,
		Temperature:  fc.Temperature,
		WebSearch:    fc.WebSearch,
	})
	if err != nil {
		return result, err
	}

	obj, ok := p.extract(log, raw)
	if !ok {
		completions++
		if obj, err = p.repair(ctx, log, c, raw); err != nil {
			return result, err
		}
	}

	result, err = normalize(obj)
	if err != nil {
		log.Warn("normalization failed", map[string]interface{}{"error": err})
		return result, err
	}
	return result, nil
}

func (p *Pipeline) extract(log logger.Logger, raw string) (map[string]interface{}, bool) {
	ex, ok := structured.ExtractAt("primary", raw)
	if !ok {
		return nil, false
	}
	log.Debug("extracted primary response", map[string]interface{}{"strategy": ex.Strategy})
	return ex.Object, true
}

func (p *Pipeline) repair(ctx context.Context, log logger.Logger, c call, raw string) (map[string]interface{}, error) {
	schema, err := validation.SchemaFor(c.kind)
	if err != nil {
		return nil, err
	}

	log.Info("primary response not parsable, repairing", map[string]interface{}{
		"chars":       len(raw),
		"repairModel": p.repairer.Model(),
	})

	obj, ok, err := p.repairer.Repair(ctx, raw, schema)
	switch {
	case err != nil:
		metrics.RepairOutcomes.WithLabelValues(c.feature, "error").Inc()
		return nil, err
	case !ok:
		metrics.RepairOutcomes.WithLabelValues(c.feature, "failed").Inc()
		return nil, apperrors.NewParseError(c.feature)
	}
	metrics.RepairOutcomes.WithLabelValues(c.feature, "recovered").Inc()
	return obj, nil
}
