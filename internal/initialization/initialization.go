package initialization

import (
	"context"
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"

	"mincc/internal/ai"
	"mincc/internal/ai/tools"
	"mincc/internal/cli"
	"mincc/internal/config"
	"mincc/internal/logger"
)

// App holds everything a session needs.
type App struct {
	Config     *config.Config
	Agent      *ai.Agent
	Transcript *logger.TranscriptLogger
	Banner     cli.BannerInfo
}

func Initialize(ctx context.Context) (*App, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	firstRun := config.IsFirstRun()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.DataDir); err != nil {
		return nil, err
	}
	logger.SetDebug(cfg.Debug)

	if firstRun {
		logger.Infof("First run detected. Writing default configuration to %s", config.GetConfigPath())
		// Environment overrides are per run and stay out of the file.
		if err := config.SaveConfig(config.DefaultConfig(), config.GetConfigPath()); err != nil {
			logger.Warnf("Error saving default configuration: %v", err)
		}
	}

	client, err := ai.NewClient(cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	tokenLimit, contextLength := resolveTokenLimit(ctx, cfg)
	strategy := ai.ParseStrategy(cfg.Compaction)

	compaction := ai.NewCompactionService(tokenLimit, strategy,
		ai.WithKeepCount(cfg.KeepCount),
		ai.WithPreserveCount(cfg.PreserveCount),
	)

	registry := tools.DefaultRegistry(tools.Options{
		BashTimeout: time.Duration(cfg.BashTimeout) * time.Second,
		SafeMode:    cfg.SafeMode,
	})

	agentCfg := ai.DefaultConfig()
	agentCfg.Model = cfg.Model
	agentCfg.APITimeout = time.Duration(cfg.APITimeout) * time.Second
	agentCfg.MaxIterations = cfg.MaxIterations

	agent := ai.NewAgent(client, agentCfg, registry, compaction)
	logger.AgentDebugf("[%s] session started with model %s, %s compaction at %d tokens",
		agent.SessionID(), cfg.Model, strategy, tokenLimit)

	return &App{
		Config:     cfg,
		Agent:      agent,
		Transcript: logger.NewTranscriptLogger(cfg.LogDir, agent.SessionID()),
		Banner: cli.BannerInfo{
			Model:         cfg.Model,
			ContextLength: contextLength,
			Strategy:      string(strategy),
			TokenLimit:    tokenLimit,
		},
	}, nil
}

// resolveTokenLimit prefers a configured limit and otherwise derives one
// from the model's context window.
func resolveTokenLimit(ctx context.Context, cfg *config.Config) (limit, contextLength int) {
	if cfg.TokenLimit > 0 {
		return cfg.TokenLimit, 0
	}
	return ai.ResolveTokenLimit(ctx, cfg.BaseURL, cfg.APIKey, cfg.Model)
}
