package cli

import (
	"context"
	"io"
	"strings"

	"github.com/fadilmartias/resume-matcher/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const app = "matchctl"

// ScorerFactory builds the scorer used by the score command.
type ScorerFactory func(ctx context.Context, opts service.ScorerOptions, logger *zap.Logger) (service.Scorer, service.TextEmbedder, error)

// NewRootCommand assembles matchctl. A nil factory selects service.NewScorer.
func NewRootCommand(out io.Writer, newScorer ScorerFactory) *cobra.Command {
	if newScorer == nil {
		newScorer = service.NewScorer
	}

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:           app,
		Short:         "matchctl scores resumes against a job description without the web service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	v.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	v.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	v.BindEnv("debug", "LOG_DEBUG")
	v.BindEnv("json", "LOG_JSON")

	rootCmd.AddCommand(newScoreCommand(v, newScorer))
	rootCmd.AddCommand(newVersionCommand())
	return rootCmd
}

// Execute runs matchctl against os.Args.
func Execute(out io.Writer) error {
	return NewRootCommand(out, nil).Execute()
}
