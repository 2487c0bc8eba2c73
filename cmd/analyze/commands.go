package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"habit-persona/internal/config"
	"habit-persona/internal/db"
	"habit-persona/internal/personality"
	"habit-persona/internal/repository"
	"habit-persona/internal/service"
)

var (
	asOfFlag   string
	saveFlag   bool
	detailFlag bool
)

var rootCmd = &cobra.Command{
	Use:           "analyze",
	Short:         "Operator tool for the habit personality engine",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var eligibilityCmd = &cobra.Command{
	Use:   "eligibility <user-id>",
	Short: "Check whether a user has enough habit data for analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runEligibility,
}

var runCmd = &cobra.Command{
	Use:   "run <user-id>",
	Short: "Run the personality analysis for a user and print the result",
	Long:  `Runs the full pipeline against the database. The profile is only persisted with --save.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalysis,
}

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Print a development access token for a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runToken,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprint(cmd.OutOrStdout(), db.Schema())
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&asOfFlag, "as-of", "", "analysis date YYYY-MM-DD (default: today UTC)")
	runCmd.Flags().BoolVar(&saveFlag, "save", false, "persist the generated profile")
	runCmd.Flags().BoolVar(&detailFlag, "details", false, "include intermediate stats in the output")

	rootCmd.AddCommand(eligibilityCmd, runCmd, tokenCmd, schemaCmd)
}

func parseAsOf(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: %w", raw, err)
	}
	return t, nil
}

func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// buildService arma el servicio contra la base; sin Redis usa lock local y sin cache.
func buildService(ctx context.Context, cfg *config.Config, sink repository.ProfileRepository) (*service.AnalysisService, func(), error) {
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db pool: %w", err)
	}
	if err := db.Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("db ping: %w", err)
	}
	if sink == nil {
		sink = repository.NewPgProfileRepository(pool)
	}

	logger := zap.NewExample()
	opts := personality.DefaultOptions()
	opts.WindowDays = cfg.AnalysisWindowDays

	svc := service.NewAnalysisService(
		logger,
		personality.NewEngine(opts),
		repository.NewPgHabitRepository(pool),
		repository.NewPgLogRepository(pool),
		repository.NewPgCategoryRepository(pool),
		sink,
		nil, nil, nil, nil,
	)
	return svc, pool.Close, nil
}

func runEligibility(cmd *cobra.Command, args []string) error {
	asOf, err := parseAsOf(asOfFlag, time.Now())
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	svc, closeFn, err := buildService(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer closeFn()

	eligibility, err := svc.CheckEligibility(ctx, args[0], asOf)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), eligibility)
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	asOf, err := parseAsOf(asOfFlag, time.Now())
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	var sink repository.ProfileRepository
	if !saveFlag {
		sink = dryRunSink{}
	}
	ctx := cmd.Context()
	svc, closeFn, err := buildService(ctx, cfg, sink)
	if err != nil {
		return err
	}
	defer closeFn()

	result, err := svc.RunAnalysis(ctx, args[0], asOf)
	if err != nil {
		return err
	}
	if !detailFlag {
		result.Details = nil
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	jwtSvc := service.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute)
	token, err := jwtSvc.GenerateAccessToken(args[0], time.Now().UTC())
	if err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
