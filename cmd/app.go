package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/dang-matcher/internal/ai"
	"github.com/spigell/dang-matcher/internal/ai/gemini"
	"github.com/spigell/dang-matcher/internal/catalog"
	"github.com/spigell/dang-matcher/internal/logger"
	"github.com/spigell/dang-matcher/internal/matching"
	"github.com/spigell/dang-matcher/internal/secrets"
	"github.com/spigell/dang-matcher/internal/wizard"
)

// application holds everything a command needs once config is read.
type application struct {
	config   *Config
	logger   *zap.Logger
	catalog  *catalog.Catalog
	engine   *matching.Engine
	analyzer ai.Analyzer
}

func (a *application) deps() wizard.Deps {
	return wizard.Deps{
		Catalog:  a.catalog,
		Engine:   a.engine,
		Analyzer: a.analyzer,
		Logger:   a.logger,
	}
}

// newApplication builds the logger, reads the config and loads the catalog.
// A broken AI setup only disables photo analysis.
func newApplication(ctx context.Context, withAI bool) *application {
	logger, err := logger.New(logger.Options{
		App:   app,
		JSON:  viper.GetBool("json"),
		Debug: viper.GetBool("debug"),
		File:  viper.GetString("log-file"),
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the dang-matcher", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	a := &application{
		config:  config,
		logger:  logger,
		catalog: catalog.Load(logger, catalogPaths(config.Catalog)...),
		engine:  matching.NewEngine(config.Matching),
	}

	if !withAI {
		return a
	}

	analyzer, err := newAnalyzer(ctx, config.AI, logger)
	switch {
	case err != nil:
		logger.Warn("photo analysis is disabled", zap.Error(err))
	case analyzer == nil:
		logger.Info("photo analysis is disabled", zap.String("reason", "ai.enabled is false"))
	default:
		a.analyzer = analyzer
	}

	return a
}

// catalogPaths puts the configured path in front of the built-in fallbacks.
func catalogPaths(cfg *CatalogConfig) []string {
	paths := make([]string, 0, len(catalog.DefaultPaths)+1)
	if cfg != nil && strings.TrimSpace(cfg.Path) != "" {
		paths = append(paths, strings.TrimSpace(cfg.Path))
	}

	for _, p := range catalog.DefaultPaths {
		if len(paths) > 0 && paths[0] == p {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// newAnalyzer returns nil without error when AI is switched off.
func newAnalyzer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Analyzer, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, nil
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	if cfg.Gemini == nil {
		return nil, errors.New("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.Gemini.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, GEMINI_API_KEY_FILE or GEMINI_API_KEY)", err)
	}

	aiLogger := logger.WithAI(log, "gemini", cfg.Gemini.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		aiLogger.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries)))
	if err != nil {
		return nil, fmt.Errorf("building gemini client: %w", err)
	}

	return gemini.NewAnalyzer(generator, cfg.Gemini.MaxLogLength, aiLogger), nil
}

// analysisContext bounds a single photo analysis by ai.timeout.
func (a *application) analysisContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config.AI == nil || a.config.AI.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.AI.Timeout)
}

func (a *application) maxPhotoBytes() int64 {
	if a.config.Photo == nil {
		return 0
	}
	return a.config.Photo.MaxBytes
}
