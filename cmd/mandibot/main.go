package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mandibot/internal/chat"
	"mandibot/internal/classify"
	"mandibot/internal/config"
	"mandibot/internal/logging"
	"mandibot/internal/scraper"
	"mandibot/internal/store"
	"mandibot/internal/vocab"
)

var version = "0.3.0"

var (
	// Global flags
	verbose    bool
	configPath string
	workspace  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "mandibot",
	Short: "mandibot - conversational mandi price assistant for Uttar Pradesh",
	Long: `mandibot answers crop price questions for Uttar Pradesh mandis.

It fills in the commodity, city, and date through conversation, scrapes the
Agmarknet portal with a headless browser, and replies with one aggregated
price per market.

Run without arguments to start the interactive chat.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

// pricesCmd answers a single fully specified query without the dialogue.
var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "One-shot price lookup",
	Long: `Looks up prices without the conversational flow. All three parameters
are required; the date accepts the same forms the chat does (today,
tomorrow, 25/08/2025, 2025-08-25).

Example:
  mandibot prices --commodity wheat --area agra --date today`,
	RunE: runPrices,
}

// historyCmd lists recently completed queries.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently answered price queries",
	RunE:  runHistory,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("mandibot %s\n", version)
	},
}

var (
	flagCommodity string
	flagArea      string
	flagDate      string
	flagLimit     int
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: <workspace>/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Data directory (default: ~/.mandibot)")

	pricesCmd.Flags().StringVar(&flagCommodity, "commodity", "", "Commodity name (required)")
	pricesCmd.Flags().StringVar(&flagArea, "area", "", "UP city (required)")
	pricesCmd.Flags().StringVar(&flagDate, "date", "today", "Price date")
	_ = pricesCmd.MarkFlagRequired("commodity")
	_ = pricesCmd.MarkFlagRequired("area")

	historyCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of queries to show")

	rootCmd.AddCommand(pricesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles everything a command needs after bootstrap.
type app struct {
	cfg     *config.Config
	vocab   *vocab.Vocabulary
	service *chat.Service
	db      *store.Store
	cancel  context.CancelFunc
}

// bootstrap loads config and wires the pipeline.
func bootstrap(ctx context.Context) (*app, error) {
	path := configPath
	if path == "" {
		base := workspace
		if base == "" {
			base = config.DefaultConfig().Workspace
		}
		path = filepath.Join(base, "config.yaml")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if workspace != "" {
		cfg.Workspace = workspace
	}

	if err := logging.Initialize(cfg.Workspace, logging.Options{
		DebugMode: cfg.Logging.Debug || verbose,
		Level:     cfg.Logging.Level,
	}); err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	v := vocab.New(cfg.Vocab.CommodityFile, cfg.Vocab.DistrictFile)
	logging.Boot("vocabulary ready: %s", v.Describe())
	watchCtx, cancel := context.WithCancel(ctx)
	if cfg.Vocab.Watch {
		go func() {
			if err := v.Watch(watchCtx); err != nil {
				logging.VocabWarn("vocabulary watcher stopped: %v", err)
			}
		}()
	}

	db, err := store.New(cfg.Workspace)
	if err != nil {
		cancel()
		return nil, err
	}

	var classifier classify.Classifier = classify.KeywordClassifier{}
	if cfg.Classifier.Enabled {
		classifier = classify.NewHTTPClassifier(cfg.Classifier.BaseURL, cfg.ClassifierTimeout(), classify.KeywordClassifier{})
	}

	service := chat.New(chat.Options{
		Vocabulary: v,
		Prices:     scraper.New(cfg.Scraper),
		Classifier: classifier,
		Threshold:  cfg.Classifier.Threshold,
		Store:      db,
	})

	logger.Info("mandibot ready",
		zap.String("workspace", cfg.Workspace),
		zap.Bool("classifier", cfg.Classifier.Enabled),
		zap.Bool("headless", cfg.Scraper.Headless))

	return &app{cfg: cfg, vocab: v, service: service, db: db, cancel: cancel}, nil
}

func (a *app) close() {
	a.cancel()
	if err := a.db.Close(); err != nil {
		logger.Warn("closing store", zap.Error(err))
	}
}

func runPrices(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	query := fmt.Sprintf("price of %s in %s on %s", flagCommodity, flagArea, flagDate)
	id := chat.NewConversationID()
	reply, err := a.service.HandleMessage(ctx, id, query)
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.db.RecentQueries(ctx, flagLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No queries recorded yet.")
		return nil
	}
	for _, r := range records {
		fmt.Printf("%s  %-10s %-12s %s  %s (%d rows)\n",
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			r.Commodity, r.Area, r.Date, r.Source, r.RowCount)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
