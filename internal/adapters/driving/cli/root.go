// Package cli implements the tellscan command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/felt-labs/tellscan-cli/internal/adapters/driven/config/file"
	embeddingollama "github.com/felt-labs/tellscan-cli/internal/adapters/driven/embedding/ollama"
	embeddingopenai "github.com/felt-labs/tellscan-cli/internal/adapters/driven/embedding/openai"
	llmopenai "github.com/felt-labs/tellscan-cli/internal/adapters/driven/llm/openai"
	"github.com/felt-labs/tellscan-cli/internal/adapters/driven/storage/memory"
	"github.com/felt-labs/tellscan-cli/internal/adapters/driven/storage/sqlite"
	"github.com/felt-labs/tellscan-cli/internal/core/domain"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driven"
	"github.com/felt-labs/tellscan-cli/internal/core/ports/driving"
	"github.com/felt-labs/tellscan-cli/internal/core/services"
	"github.com/felt-labs/tellscan-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
	flagCatalogue string
	flagStore     string
)

// Services used by the commands. Wired lazily by initServices; tests may
// inject their own implementations before executing a command.
var (
	profileService driving.ProfileService
	indexService   driving.IndexService
	vectorStore    driven.VectorStore
)

var rootCmd = &cobra.Command{
	Use:   "tellscan",
	Short: "Behavioral profiling for recorded poker games",
	Long: `tellscan builds a semantic index over recorded poker games and
profiles participants against a catalogue of behavioral archetypes.

Game records are per-game JSON documents containing actions, chat messages
and a hand summary. Index them with 'tellscan index', then query with
'analyze', 'classify' and 'stats'.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.tellscan)")
	rootCmd.PersistentFlags().StringVar(&flagCatalogue, "catalogue", "", "trait/archetype catalogue HCL file (default built-in)")
	rootCmd.PersistentFlags().StringVar(&flagStore, "store", "", "index backend: sqlite or memory (default sqlite)")
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if vectorStore != nil {
		if closeErr := vectorStore.Close(); closeErr != nil {
			logger.Warn("closing index: %v", closeErr)
		}
	}
	if err != nil {
		os.Exit(1)
	}
}

// initServices wires the service graph from configuration. Idempotent: a
// second call (or a test that pre-set the services) is a no-op.
func initServices() error {
	if profileService != nil && indexService != nil {
		return nil
	}

	cfg, err := configfile.NewConfigStore(flagConfigDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cataloguePath := flagCatalogue
	if cataloguePath == "" {
		cataloguePath = cfg.GetString("catalogue_path")
	}
	catalogue, err := configfile.LoadCatalogue(cataloguePath)
	if err != nil {
		return err
	}
	if err := catalogue.Validate(); err != nil {
		return err
	}

	store, err := buildStore(cfg)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	vectorStore = store

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}

	llm := buildLLM(cfg)
	if llm == nil {
		logger.Info("no completion provider configured; analyze will omit the narrative")
	}

	prompts, err := configfile.NewPromptStore(cfg.GetString("prompt_dir"))
	if err != nil {
		return fmt.Errorf("loading prompts: %w", err)
	}

	aggregator := services.NewAggregator(embedder, cfg.GetInt("max_chunk_tokens"))
	retriever := services.NewRetriever(store, embedder, catalogue, cfg.GetInt("evidence_k"))
	stats := services.NewStatsService(store)
	classifier := services.NewClassifier(store, aggregator, catalogue)

	profileService = services.NewProfileService(retriever, stats, classifier, llm, prompts, catalogue)
	indexService = services.NewIndexer(store, embedder)
	return nil
}

// buildStore selects the index backend. The memory backend only lives for
// one invocation; it is mainly useful for trying out a record set without
// touching the persisted index.
func buildStore(cfg *configfile.ConfigStore) (driven.VectorStore, error) {
	backend := flagStore
	if backend == "" {
		backend = cfg.GetString("store")
	}

	switch backend {
	case "", "sqlite":
		store, err := sqlite.NewStore(cfg.GetString("data_dir"))
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		return memory.NewVectorStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", backend)
}

// buildEmbedder selects the embedding provider from config. The OpenAI key
// may come from the environment or the config file.
func buildEmbedder(cfg *configfile.ConfigStore) (driven.EmbeddingService, error) {
	provider := cfg.GetString("embedding_provider")
	if provider == "" {
		provider = "openai"
	}

	switch provider {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			apiKey = cfg.GetString("openai_api_key")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("%w: set OPENAI_API_KEY or openai_api_key in %s",
				domain.ErrEmbeddingUnavailable, cfg.Path())
		}
		return embeddingopenai.NewEmbeddingService(embeddingopenai.Config{
			APIKey: apiKey,
			Model:  cfg.GetString("embedding_model"),
		})
	case "ollama":
		return embeddingollama.NewEmbeddingService(embeddingollama.Config{
			BaseURL: cfg.GetString("ollama_url"),
			Model:   cfg.GetString("embedding_model"),
		}), nil
	}
	return nil, fmt.Errorf("unknown embedding provider %q", provider)
}

// buildLLM returns the completion provider, or nil when no key is configured.
func buildLLM(cfg *configfile.ConfigStore) driven.LLMService {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = cfg.GetString("openai_api_key")
	}
	if apiKey == "" {
		return nil
	}

	llm, err := llmopenai.NewLLMService(llmopenai.Config{
		APIKey: apiKey,
		Model:  cfg.GetString("llm_model"),
	})
	if err != nil {
		logger.Warn("completion provider unavailable: %v", err)
		return nil
	}
	return llm
}
