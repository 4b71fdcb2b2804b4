// Command generate produces one article and prints it as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/DenisKhanov/CandleArticles/internal/app/logcfg"
	"github.com/DenisKhanov/CandleArticles/internal/app/server"
	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
	"github.com/DenisKhanov/CandleArticles/internal/articles/config"
	"github.com/DenisKhanov/CandleArticles/internal/articles/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	topic        string
	candleType   string
	language     string
	customPrompt string
	template     string
	save         bool
}

// runFunc generates an article for opts and writes the result to out.
type runFunc func(ctx context.Context, opts options, out io.Writer) error

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(run).ExecuteContext(ctx); err != nil {
		appErr := apperrors.AsAppError(err)
		fmt.Fprintf(os.Stderr, "generate: %s\n", appErr.Error())
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the generate command on top of runner.
func newRootCmd(runner runFunc) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one candle article",
		Long: `generate runs the article pipeline once and prints the article as JSON.

Example usage:
  generate --topic "Свеча для медитации" --candle calm
  generate --prompt "Напиши статью о свечах из соевого воска" --lang en
  generate --template gift-guide --topic "Новый год" --save`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runner(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.topic, "topic", "", "article topic")
	cmd.Flags().StringVar(&opts.candleType, "candle", "", "candle type: calm, support, memory, gratitude, focus")
	cmd.Flags().StringVar(&opts.language, "lang", "ru", "article language: ru or en")
	cmd.Flags().StringVar(&opts.customPrompt, "prompt", "", "custom prompt sent to the model as is")
	cmd.Flags().StringVar(&opts.template, "template", "", "named prompt template from PROMPT_TEMPLATES_PATH")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save the article to the database")
	cmd.MarkFlagsMutuallyExclusive("prompt", "template")
	return cmd
}

type output struct {
	models.GeneratedArticle
	ID string `json:"id,omitempty"`
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	if err := logcfg.ConfigureLogger(cfg.LogLevel, cfg.LogFileName, os.Stderr); err != nil {
		return err
	}

	sp := server.NewServiceProvider(cfg)
	defer sp.Close()

	customPrompt := opts.customPrompt
	if opts.template != "" {
		source, err := sp.Templates(ctx)
		if err != nil {
			return err
		}
		if source == nil {
			return apperrors.Validation("PROMPT_TEMPLATES_PATH is not set")
		}
		if customPrompt, err = source.Resolve(opts.template, opts.topic); err != nil {
			return err
		}
	}

	req, err := models.NewGenerationRequest(opts.topic, opts.candleType, opts.language, customPrompt)
	if err != nil {
		return err
	}
	generator, err := sp.Generator(ctx)
	if err != nil {
		return err
	}
	article, err := generator.Generate(ctx, req)
	if err != nil {
		return err
	}

	result := output{GeneratedArticle: article}
	if opts.save {
		store, err := sp.ArticleStore(ctx)
		if err != nil {
			return err
		}
		if store == nil {
			return apperrors.New(apperrors.KindConfiguration, "DATABASE_DSN is not set")
		}
		saved, err := store.Save(ctx, article)
		if err != nil {
			return apperrors.Wrap(err, apperrors.KindStorage, "failed to save article")
		}
		result.Slug = saved.Slug
		result.ID = saved.ID.String()
		logrus.WithField("id", result.ID).Info("Article saved")
	}

	return writeJSON(out, result)
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
