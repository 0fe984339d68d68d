package core

import (
	"context"
	"fmt"
	"io"

	"github.com/agenthands/biokag/internal/config"
	"github.com/agenthands/biokag/internal/core/answer"
	"github.com/agenthands/biokag/internal/core/persist"
	"github.com/agenthands/biokag/internal/core/schema"
	"github.com/agenthands/biokag/internal/driver"
	"github.com/agenthands/biokag/internal/llm"
	"github.com/agenthands/biokag/internal/logger"
)

// OptionsFromConfig builds everything a KAG needs from configuration. The
// graph database is optional: when it cannot be reached export is disabled.
// The returned cleanup closes any connection that was opened.
func OptionsFromConfig(ctx context.Context, cfg *config.Config) (Options, func(), error) {
	opts := Options{
		Strict:   cfg.Schema.Strict,
		MaxDepth: cfg.Query.MaxDepth,
		Location: cfg.Storage.Path,
	}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if cfg.Schema.Path != "" {
		s, err := schema.Load(cfg.Schema.Path)
		if err != nil {
			return opts, cleanup, err
		}
		opts.Schema = s
	} else {
		opts.Schema = schema.Default()
	}

	backend, err := BackendFromConfig(ctx, cfg.Storage)
	if err != nil {
		return opts, cleanup, err
	}
	opts.Backend = backend

	synth, err := SynthesizerFromConfig(ctx, cfg)
	if err != nil {
		return opts, cleanup, err
	}
	opts.Synthesizer = synth
	if c := synthesizerCloser(synth); c != nil {
		closers = append(closers, c)
	}

	if cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password)
		if err != nil {
			logger.Warn("graph database unavailable, export disabled", "error", err)
		} else {
			opts.Driver = d
			closers = append(closers, func() {
				if err := d.Close(context.Background()); err != nil {
					logger.Warn("failed to close graph database driver", "error", err)
				}
			})
		}
	}
	return opts, cleanup, nil
}

func BackendFromConfig(ctx context.Context, sc config.StorageConfig) (persist.Backend, error) {
	switch sc.Backend {
	case config.StorageS3:
		client, err := persist.NewS3Client(ctx, persist.S3Options{
			Bucket:    sc.Bucket,
			Prefix:    sc.Prefix,
			Region:    sc.Region,
			Endpoint:  sc.Endpoint,
			AccessKey: sc.AccessKey,
			SecretKey: sc.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return persist.NewS3Backend(client, sc.Bucket, sc.Prefix), nil
	case config.StorageFile, "":
		return persist.NewFileBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}
}

func SynthesizerFromConfig(ctx context.Context, cfg *config.Config) (answer.Synthesizer, error) {
	switch cfg.Query.Synthesizer {
	case config.SynthesizerLLM:
		client, err := llm.NewClient(ctx, cfg.LLM)
		if err != nil {
			return nil, fmt.Errorf("failed to create llm client: %w", err)
		}
		return answer.NewLLMSynthesizer(client, cfg.Query.Prompt), nil
	case config.SynthesizerStub, "":
		return answer.StubSynthesizer{}, nil
	default:
		return nil, fmt.Errorf("unknown synthesizer %q", cfg.Query.Synthesizer)
	}
}

// synthesizerCloser returns a func releasing the synthesizer's LLM client, or
// nil when the client holds nothing to release.
func synthesizerCloser(s answer.Synthesizer) func() {
	ls, ok := s.(*answer.LLMSynthesizer)
	if !ok {
		return nil
	}
	c, ok := ls.Client.(io.Closer)
	if !ok {
		return nil
	}
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close llm client", "error", err)
		}
	}
}
