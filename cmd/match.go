package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-matcher/internal/ai"
	"github.com/spigell/resume-matcher/internal/ai/gemini"
	"github.com/spigell/resume-matcher/internal/cache"
	"github.com/spigell/resume-matcher/internal/logger"
	"github.com/spigell/resume-matcher/internal/matching"
	"github.com/spigell/resume-matcher/internal/secrets"
	"github.com/spigell/resume-matcher/internal/textract"
)

const (
	PromptSummary      = "Show summary"
	PromptSkills       = "Show skills"
	PromptExperiences  = "Show experiences"
	PromptResultToFile = "Dump result to file"
	PromptExit         = "Exit"

	outputText = "text"
	outputJSON = "json"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptSummary, PromptSkills, PromptExperiences, PromptResultToFile, PromptExit},
}

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a resume against a job posting",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("resume", "r", "", "resume file (.pdf, .docx, .doc or plain text)")
	matchCmd.Flags().StringP("job", "b", "", "job posting file (.pdf, .docx, .doc or plain text)")
	matchCmd.Flags().StringP("output", "o", outputText, "output format: text or json")
	matchCmd.Flags().BoolP("interactive", "i", false, "choose further actions after the result is printed")

	matchCmd.MarkFlagRequired("resume")
	matchCmd.MarkFlagRequired("job")
}

// match is the main command for the cli.
func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	output := strings.ToLower(strings.TrimSpace(cmd.Flag("output").Value.String()))
	if output != outputText && output != outputJSON {
		logger.Fatal("unsupported output format", zap.String("output", output))
	}

	logger.Debug("starting the resume-matcher", zap.String("version", version))

	resumeText, err := readInput(cmd.Flag("resume").Value.String())
	if err != nil {
		logger.Fatal("reading the resume", zap.Error(err))
	}

	jobText, err := readInput(cmd.Flag("job").Value.String())
	if err != nil {
		logger.Fatal("reading the job posting", zap.Error(err))
	}

	engine, cleanup, err := newEngine(ctx, config, logger)
	if err != nil {
		logger.Fatal("preparing the matcher", zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY, GEMINI_API_KEY_FILE or ai.gemini.api-key-file"),
		)
	}
	defer cleanup()

	result := engine.ComputeMatch(ctx, jobText, resumeText)

	if err := render(os.Stdout, result, output); err != nil {
		logger.Fatal("rendering the result", zap.Error(err))
	}

	if cmd.Flag("interactive").Value.String() != "true" {
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, logger, result); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, logger *zap.Logger, result *matching.MatchResult) error {
	switch action {
	case PromptSummary:
		return renderText(os.Stdout, result)
	case PromptSkills:
		return renderSkills(os.Stdout, result)
	case PromptExperiences:
		return renderExperiences(os.Stdout, result)
	case PromptResultToFile:
		filename, err := result.DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump result to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptExit:
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// readInput extracts the text of an uploaded file. A file without any text is
// rejected before the matcher runs.
func readInput(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errors.New("file path is required")
	}

	text, err := textract.FromFile(path)
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("no text could be extracted from %q", path)
	}

	return text, nil
}

func newEngine(ctx context.Context, config *Config, logger *zap.Logger) (*matching.Engine, func(), error) {
	cleanup := func() {}

	if config == nil || config.AI == nil || config.AI.Gemini == nil {
		return nil, cleanup, errors.New("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != gemini.Provider {
		return nil, cleanup, fmt.Errorf("unsupported ai provider: %s", config.AI.Provider)
	}

	cfg := config.AI.Gemini

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		File:  cfg.APIKeyFile,
		Env:   "GEMINI_API_KEY",
		Value: cfg.APIKey,
	})
	if err != nil {
		return nil, cleanup, err
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:         apiKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		MaxRetries:     cfg.MaxRetries,
	}, logger)
	if err != nil {
		return nil, cleanup, err
	}

	extractor := gemini.NewExtractor(generator, logger, cfg.MaxLogLength)
	comparator := gemini.NewComparator(generator.WithModel(cfg.ComparisonModel), logger, cfg.MaxLogLength)

	geminiEmbedder := gemini.NewEmbedder(generator)
	var embedder ai.Embedder = geminiEmbedder

	store, closeStore, err := newStore(ctx, config.Cache)
	if err != nil {
		logger.Warn("embedding cache is disabled", zap.Error(err))
	}
	if store != nil {
		embedder = cache.NewEmbedder(embedder, store, geminiEmbedder.Model(), logger)
		cleanup = closeStore
	}

	return matching.NewEngine(extractor, comparator, embedder, logger), cleanup, nil
}

func newStore(ctx context.Context, config *CacheConfig) (cache.Store, func(), error) {
	noop := func() {}
	if config == nil {
		return nil, noop, nil
	}

	switch strings.TrimSpace(strings.ToLower(config.Backend)) {
	case "", "none":
		return nil, noop, nil
	case "memory":
		return cache.NewMemory(), noop, nil
	case "redis":
		client, err := cache.NewRedisClient(ctx, config.Redis)
		if err != nil {
			return nil, noop, err
		}
		return cache.NewRedis(client, config.TTL), func() { _ = client.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unsupported cache backend: %s", config.Backend)
	}
}

func render(w io.Writer, result *matching.MatchResult, output string) error {
	if output == outputJSON {
		pretty, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(pretty))
		return err
	}
	return renderText(w, result)
}
