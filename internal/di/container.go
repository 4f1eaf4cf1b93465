package di

import (
	"os"

	"github.com/fatih/color"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-scam-check/internal/adapters/cache"
	"github.com/mikey/llm-scam-check/internal/adapters/cli"
	"github.com/mikey/llm-scam-check/internal/adapters/console"
	"github.com/mikey/llm-scam-check/internal/adapters/webhook"
	"github.com/mikey/llm-scam-check/internal/config"
	"github.com/mikey/llm-scam-check/internal/core"
	"github.com/mikey/llm-scam-check/internal/factory"
	"github.com/mikey/llm-scam-check/internal/logging"
	"github.com/mikey/llm-scam-check/internal/storage"
	"github.com/mikey/llm-scam-check/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register anonymizer and text processor; the scrub stage can be turned
	// off in config, the /anonymize endpoint always redacts
	if err := container.Provide(utils.NewAnonymizer); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger, anonymizer *utils.Anonymizer) *utils.TextProcessor {
		if !cfg.GetBool("anonymize.enabled") {
			return utils.NewTextProcessor(logger, nil)
		}
		return utils.NewTextProcessor(logger, anonymizer)
	}); err != nil {
		return nil, err
	}

	// Register LLM client
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return nil, err
	}

	// Register core services
	if err := container.Provide(core.NewAssessmentService); err != nil {
		return nil, err
	}
	if err := container.Provide(core.NewFollowUpService); err != nil {
		return nil, err
	}

	// Register pre-screen gate; both values are nil when disabled
	if err := container.Provide(func(cfg *config.Config, llm core.LLMClient, logger *zap.Logger) (*core.PrescreenService, *cache.MemoryCache, error) {
		if !cfg.GetBool("prescreen.enabled") {
			return nil, nil, nil
		}
		ttl, err := cfg.GetDuration("prescreen.cache_ttl")
		if err != nil {
			return nil, nil, err
		}
		cleanupFreq, err := cfg.GetDuration("prescreen.cache_cleanup_frequency")
		if err != nil {
			return nil, nil, err
		}
		memCache := cache.NewMemoryCache(logger, cleanupFreq)
		return core.NewPrescreenService(llm, memCache, ttl, logger), memCache, nil
	}); err != nil {
		return nil, err
	}

	// Register persistence
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.AssessmentStore {
		return storage.NewFileStore(cfg.GetString("persistence.directory"), logger)
	}); err != nil {
		return nil, err
	}

	// Register presenter; color.Output degrades to plain text off-terminal
	if err := container.Provide(func() *console.Presenter {
		return console.NewPresenter(color.Output)
	}); err != nil {
		return nil, err
	}

	// Register email intake server
	if err := container.Provide(func(
		cfg *config.Config,
		service *core.AssessmentService,
		prescreen *core.PrescreenService,
		presenter *console.Presenter,
		store core.AssessmentStore,
		textProcessor *utils.TextProcessor,
		anonymizer *utils.Anonymizer,
		logger *zap.Logger,
	) *webhook.Server {
		return webhook.NewServer(
			service,
			prescreen,
			presenter,
			store,
			textProcessor,
			anonymizer,
			maxInputSize(cfg),
			logger,
			cfg.GetString("server.listen_address"),
		)
	}); err != nil {
		return nil, err
	}

	// Register interactive loop
	if err := container.Provide(func(
		cfg *config.Config,
		service *core.AssessmentService,
		followUp *core.FollowUpService,
		presenter *console.Presenter,
		store core.AssessmentStore,
		textProcessor *utils.TextProcessor,
		logger *zap.Logger,
	) *cli.Loop {
		return cli.NewLoop(
			service,
			followUp,
			presenter,
			store,
			textProcessor,
			logger,
			os.Stdin,
			color.Output,
			cli.Options{
				BatchInputFile:  cfg.GetString("batch.input_file"),
				BatchOutputName: cfg.GetString("batch.output_name"),
				MaxInputSize:    maxInputSize(cfg),
			},
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// maxInputSize reads the input cap of whichever provider is selected.
func maxInputSize(cfg *config.Config) int {
	switch cfg.GetLLM().Provider {
	case "gemini":
		return cfg.GetGemini().MaxInputSize
	case "bedrock":
		return cfg.GetBedrock().MaxInputSize
	default:
		return cfg.GetOpenAI().MaxInputSize
	}
}
