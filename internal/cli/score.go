package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fadilmartias/resume-matcher/internal/config"
	"github.com/fadilmartias/resume-matcher/internal/logger"
	"github.com/fadilmartias/resume-matcher/internal/service"
	"github.com/fadilmartias/resume-matcher/internal/usecase"
	"github.com/fadilmartias/resume-matcher/internal/util"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const statusSkipped = "skipped"

type ScoreConfig struct {
	JD                string        `mapstructure:"jd"`
	Strategy          string        `mapstructure:"strategy"`
	Skills            bool          `mapstructure:"skills"`
	OCR               bool          `mapstructure:"ocr"`
	Timeout           time.Duration `mapstructure:"timeout"`
	GeminiAPIKey      string        `mapstructure:"gemini-api-key"`
	EmbeddingModel    string        `mapstructure:"embedding-model"`
	HuggingFaceAPIKey string        `mapstructure:"hf-api-key"`
	HuggingFaceURL    string        `mapstructure:"hf-url"`
	Debug             bool          `mapstructure:"debug"`
	JSON              bool          `mapstructure:"json"`
}

type scoreRow struct {
	Filename        string
	MatchPercentage float64
	Status          string
	Skills          string
}

// Flags and the environment variables the web service reads for the same setting.
var scoreEnv = map[string]string{
	"strategy":        "SCORING_STRATEGY",
	"skills":          "SKILL_TAGGING_ENABLED",
	"ocr":             "PDF_OCR_ENABLED",
	"timeout":         "SCORING_TIMEOUT",
	"gemini-api-key":  "GEMINI_API_KEY",
	"embedding-model": "GEMINI_EMBEDDING_MODEL",
	"hf-api-key":      "HUGGINGFACE_API_KEY",
	"hf-url":          "HUGGINGFACE_API_URL",
}

func newScoreCommand(v *viper.Viper, newScorer ScorerFactory) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score --jd <file> <resume>...",
		Short: "Score resumes against a job description and print them best match first",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := decodeScoreConfig(v)
			if err != nil {
				return err
			}
			return runScore(cmd.Context(), cmd.OutOrStdout(), cfg, args, newScorer)
		},
	}

	cmd.Flags().String("jd", "", "job description file (txt, pdf or docx)")
	cmd.Flags().StringP("strategy", "s", "remote", "scoring strategy: embedding or remote")
	cmd.Flags().Bool("skills", true, "tag skills found in each resume")
	cmd.Flags().Bool("ocr", false, "OCR scanned PDFs with tesseract")
	cmd.Flags().Duration("timeout", 60*time.Second, "timeout for each scoring call")
	cmd.Flags().String("gemini-api-key", "", "API key for the embedding strategy")
	cmd.Flags().String("embedding-model", "gemini-embedding-001", "embedding model name")
	cmd.Flags().String("hf-api-key", "", "API key for the remote strategy")
	cmd.Flags().String("hf-url", config.DefaultHuggingFaceURL, "remote inference endpoint")
	cmd.MarkFlagRequired("jd")

	v.BindPFlags(cmd.Flags())
	for key, env := range scoreEnv {
		v.BindEnv(key, env)
	}
	return cmd
}

func decodeScoreConfig(v *viper.Viper) (*ScoreConfig, error) {
	var cfg ScoreConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("decoding flags: %w", err)
	}
	cfg.Strategy = strings.ToLower(strings.TrimSpace(cfg.Strategy))
	return &cfg, nil
}

func runScore(ctx context.Context, out io.Writer, cfg *ScoreConfig, resumes []string, newScorer ScorerFactory) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logger.NewStderr(cfg.JSON, cfg.Debug)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync()

	scorer, _, err := newScorer(ctx, service.ScorerOptions{
		Strategy:          cfg.Strategy,
		Timeout:           cfg.Timeout,
		GeminiAPIKey:      cfg.GeminiAPIKey,
		EmbeddingModel:    cfg.EmbeddingModel,
		HuggingFaceAPIKey: cfg.HuggingFaceAPIKey,
		HuggingFaceURL:    cfg.HuggingFaceURL,
	}, log)
	if err != nil {
		return err
	}

	extractor := util.NewTextExtractor(cfg.OCR, log)
	jobText, err := extractor.Extract(cfg.JD)
	if err != nil {
		return fmt.Errorf("reading job description %s: %w", cfg.JD, err)
	}

	var tagger *service.SkillTagger
	if cfg.Skills {
		tagger = service.NewSkillTagger()
	}
	evaluator := usecase.NewEvaluator(extractor, scorer, tagger, log)
	target := evaluator.PrepareTarget(ctx, jobText, nil)

	rows := make([]scoreRow, 0, len(resumes))
	for _, path := range resumes {
		row := scoreRow{Filename: filepath.Base(path), Skills: "-"}

		evaluation, err := evaluator.Evaluate(ctx, path, target)
		if err != nil {
			log.Warn("skipping resume", zap.String("path", path), zap.Error(err))
			row.Status = statusSkipped
			rows = append(rows, row)
			continue
		}

		row.MatchPercentage = evaluation.MatchPercentage
		row.Status = evaluation.ScoreStatus
		if cfg.Skills {
			row.Skills = evaluation.Skills
		}
		rows = append(rows, row)
	}

	sortRows(rows)
	if err := writeTable(out, rows); err != nil {
		return err
	}

	if allSkipped(rows) {
		return errors.New("no resume could be read")
	}
	return nil
}

// sortRows orders by match percentage, skipped documents last.
func sortRows(rows []scoreRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		si, sj := rows[i].Status == statusSkipped, rows[j].Status == statusSkipped
		if si != sj {
			return sj
		}
		return rows[i].MatchPercentage > rows[j].MatchPercentage
	})
}

func writeTable(out io.Writer, rows []scoreRow) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tMATCH %\tSTATUS\tSKILLS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\n", r.Filename, r.MatchPercentage, r.Status, r.Skills)
	}
	return w.Flush()
}

func allSkipped(rows []scoreRow) bool {
	for _, r := range rows {
		if r.Status != statusSkipped {
			return false
		}
	}
	return true
}
