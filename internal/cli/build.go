package cli

import (
	"context"
	"fmt"
	"log/slog"

	"scribe/config"
	"scribe/internal/adapter/analyzer"
	"scribe/internal/adapter/audio"
	"scribe/internal/adapter/cache"
	"scribe/internal/adapter/chunker"
	"scribe/internal/adapter/diarize"
	"scribe/internal/adapter/llm"
	"scribe/internal/adapter/prompt"
	"scribe/internal/adapter/remote"
	"scribe/internal/adapter/store"
	"scribe/internal/port"
	"scribe/internal/retry"
	"scribe/internal/usecase"
)

func retryPolicy(cfg *config.Config) retry.Policy {
	return retry.Policy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		Multiplier:      cfg.Retry.Multiplier,
		MaxInterval:     cfg.Retry.MaxInterval,
		Logger:          slog.Default(),
	}
}

func budget(cfg *config.Config) usecase.Budget {
	return usecase.Budget{
		ContextLimit:          cfg.Model.ContextLimit,
		ReservedSummaryBudget: cfg.Model.ReservedSummaryBudget,
	}
}

// pipeline holds everything a command may need. Fields that a command does
// not use stay nil.
type pipeline struct {
	counter     port.TokenCounter
	client      *llm.Client
	engine      *usecase.SummaryEngine
	planner     *usecase.MergePlanner
	transcriber *usecase.TranscribeUseCase
	cache       port.SummaryCache
}

func (p *pipeline) Close() {
	if p.cache != nil {
		p.cache.Close()
	}
}

// buildChunkers is the model-free part of the pipeline.
func buildChunkers(cfg *config.Config) (port.TokenCounter, *chunker.TextChunker, *chunker.TableChunker, error) {
	counter, err := analyzer.NewCounter(cfg.Model.Encoding)
	if err != nil {
		return nil, nil, nil, err
	}
	text, err := chunker.NewTextChunker(counter)
	if err != nil {
		return nil, nil, nil, err
	}
	return counter, text, chunker.NewTableChunker(), nil
}

func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline, error) {
	counter, text, table, err := buildChunkers(cfg)
	if err != nil {
		return nil, err
	}

	backend, err := llm.NewBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}
	policy := retryPolicy(cfg)
	client := llm.NewClient(backend.LLM, prompt.NewStore(cfg.Pipeline.PromptsDir), policy, cfg.Model.ReservedSummaryBudget).
		WithTimeout(cfg.Model.Timeout)

	p := &pipeline{
		counter: counter,
		client:  client,
		engine:  usecase.NewSummaryEngine(client, counter, text, table, budget(cfg)),
		planner: usecase.NewMergePlanner(client, counter, budget(cfg)),
	}

	if backend.Transcriber != nil {
		p.transcriber = buildTranscriber(cfg, llm.NewRetryingTranscriber(backend.Transcriber, policy).WithTimeout(cfg.Model.Timeout))
	}

	sc, err := openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sc != nil {
		p.cache = sc
		p.engine.WithCache(sc)
	}
	return p, nil
}

func buildTranscriber(cfg *config.Config, tr port.Transcriber) *usecase.TranscribeUseCase {
	a := cfg.Audio
	return usecase.NewTranscribeUseCase(
		audio.NewConverter(a.FFmpegPath),
		diarize.NewSingle(a.Speaker),
		tr,
		audio.NewSegmenter(a.MaxSegmentBytes, a.MinSilenceDurationMs, a.SilenceThresholdDB),
		audio.Milliseconds(a.MinTurnMs),
		cfg.Pipeline.SegmentConcurrency,
	)
}

// openCache returns nil when caching is off.
func openCache(ctx context.Context, cfg *config.Config) (port.SummaryCache, error) {
	switch cfg.Cache.Backend {
	case "", "none":
		return nil, nil
	case "memory":
		return cache.NewSummaryCache(cfg.Cache.Capacity, cfg.Cache.TTL), nil
	case "bolt":
		path := cfg.CacheDBPath(GetRootDir())
		if err := config.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		st, err := store.Open(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open summary cache: %w", err)
		}
		return st, nil
	case "redis":
		rc, err := remote.NewRedisCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Cache.Backend)
	}
}
