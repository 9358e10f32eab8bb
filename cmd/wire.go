package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/recruiter-assistant/internal/ai"
	"github.com/spigell/recruiter-assistant/internal/ai/gemini"
	"github.com/spigell/recruiter-assistant/internal/ai/openai"
	"github.com/spigell/recruiter-assistant/internal/assistant"
	"github.com/spigell/recruiter-assistant/internal/candidate"
	"github.com/spigell/recruiter-assistant/internal/secrets"
	"github.com/spigell/recruiter-assistant/internal/store/postgres"
	"github.com/spigell/recruiter-assistant/internal/store/rest"
)

// errMisconfigured marks errors caused by missing or invalid settings, as
// opposed to unreachable dependencies.
var errMisconfigured = errors.New("configuration error")

type store interface {
	candidate.Repository
	assistant.Sink
	Ping(ctx context.Context) error
}

type dependencies struct {
	assistant *assistant.Service
	store     store
	closers   []func() error
}

// Close drains background writes and releases connections.
func (d *dependencies) Close() {
	if d == nil {
		return
	}
	if d.assistant != nil {
		d.assistant.Wait()
	}
	for _, closeFn := range d.closers {
		_ = closeFn()
	}
}

func misconfigured(err error) error {
	return fmt.Errorf("%w: %w", errMisconfigured, err)
}

func wire(ctx context.Context, config *Config, logger *zap.Logger) (*dependencies, error) {
	if config == nil {
		return nil, misconfigured(errors.New("config is required"))
	}

	candidateID := strings.TrimSpace(config.CandidateID)
	if candidateID != "" {
		if _, err := uuid.Parse(candidateID); err != nil {
			return nil, misconfigured(fmt.Errorf("candidate id %q: %w", candidateID, err))
		}
	}

	// Resolve the model first so a missing key is reported without touching
	// the database.
	model, err := newModel(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}

	deps := &dependencies{}
	st, err := newStore(ctx, config.Store, logger, deps)
	if err != nil {
		return nil, err
	}
	deps.store = st

	loader := candidate.NewLoader(st, logger)
	deps.assistant = assistant.New(loader, model, st, candidateID, logger.Named("assistant"))

	return deps, nil
}

func newModel(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Model, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	switch provider {
	case "", gemini.Provider:
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			Value: gc.APIKey,
			File:  gc.APIKeyFile,
			Env:   "GEMINI_API_KEY",
		})
		if err != nil {
			return nil, misconfigured(err)
		}
		return gemini.NewGenerator(ctx, apiKey, gc.Model, cfg.MaxLogLength, logger)

	case openai.Provider:
		oc := cfg.OpenAI
		if oc == nil {
			oc = &OpenAIConfig{}
		}
		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openai api key",
			Value: oc.APIKey,
			File:  oc.APIKeyFile,
			Env:   "OPENAI_API_KEY",
		})
		if err != nil {
			return nil, misconfigured(err)
		}
		return openai.New(apiKey, oc.BaseURL, oc.Model, cfg.MaxLogLength, logger)

	default:
		return nil, misconfigured(fmt.Errorf("unsupported ai provider: %s", cfg.Provider))
	}
}

func newStore(ctx context.Context, cfg *StoreConfig, logger *zap.Logger, deps *dependencies) (store, error) {
	if cfg == nil {
		cfg = &StoreConfig{}
	}

	switch strings.TrimSpace(strings.ToLower(cfg.Driver)) {
	case "", "rest":
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, misconfigured(errors.New("database url is not configured (set SUPABASE_URL)"))
		}
		key, err := secrets.Load(secrets.Source{
			Name:  "database service key",
			Value: cfg.ServiceKey,
			File:  cfg.ServiceKeyFile,
			Env:   "SUPABASE_SERVICE_ROLE_KEY",
		})
		if err != nil {
			return nil, misconfigured(err)
		}
		client, err := rest.New(cfg.URL, key, logger)
		if err != nil {
			return nil, misconfigured(err)
		}
		return client, nil

	case "postgres":
		if strings.TrimSpace(cfg.DSN) == "" {
			return nil, misconfigured(errors.New("database dsn is not configured (set DATABASE_URL)"))
		}
		db, err := postgres.Open(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		deps.closers = append(deps.closers, db.Close)
		return db, nil

	default:
		return nil, misconfigured(fmt.Errorf("unsupported store driver: %s", cfg.Driver))
	}
}
