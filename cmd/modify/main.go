package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yyvop9/modify-final-project/ai"
	"github.com/yyvop9/modify-final-project/internal/metrics"
	"github.com/yyvop9/modify-final-project/internal/profile"
	"github.com/yyvop9/modify-final-project/internal/version"
	"github.com/yyvop9/modify-final-project/rag"
	"github.com/yyvop9/modify-final-project/retrieval"
	"github.com/yyvop9/modify-final-project/server"
	"github.com/yyvop9/modify-final-project/server/service/search"
	"github.com/yyvop9/modify-final-project/store"
	"github.com/yyvop9/modify-final-project/store/db"
	"github.com/yyvop9/modify-final-project/store/kv"
)

const (
	greetingBanner = `MODIFY retrieval service`
)

var rootCmd = &cobra.Command{
	Use:   "modify",
	Short: "A visual and textual shopping search service",
	RunE: func(_ *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Driver:  viper.GetString("driver"),
			DSN:     viper.GetString("dsn"),
			Version: version.GetCurrentVersion(viper.GetString("mode")),
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			return fmt.Errorf("invalid profile: %w", err)
		}

		return run(ctx, instanceProfile)
	},
}

func run(ctx context.Context, instanceProfile *profile.Profile) error {
	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("create db driver: %w", err)
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	defer storeInstance.Close()

	if err := storeInstance.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	kvStore, err := kv.NewStore(kv.Config{
		Addr:     instanceProfile.RedisAddr,
		Password: instanceProfile.RedisPassword,
		DB:       instanceProfile.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("create kv store: %w", err)
	}
	defer kvStore.Close()

	engine := ai.NewEngine(ai.NewConfigFromProfile(instanceProfile))
	if err := engine.Initialize(); err != nil {
		return fmt.Errorf("initialize ai engine: %w", err)
	}

	lexicon, err := rag.LoadLexicon(instanceProfile.KnownNamesPath, instanceProfile.CommonNounsPath)
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}

	m := metrics.New()
	router := rag.NewRouter(
		rag.NewNameEntityGate(lexicon),
		instanceProfile.IsExternalSearchEnabled(),
		m,
	)
	pipeline := rag.NewPipeline(
		rag.NewQuotaGuard(kvStore, int64(instanceProfile.SearchDailyQuota), m),
		rag.NewSearchClient(instanceProfile.SearchAPIKey, instanceProfile.SearchEngineID, lexicon),
		rag.NewImageFetcher(instanceProfile.FetchConcurrency, instanceProfile.MinImageSide),
		rag.NewImageScorer(engine.Vision(), lexicon, rag.ScoreParams{
			Floor:         instanceProfile.ScoreFloor,
			PortraitBonus: instanceProfile.PortraitBonus,
			Offset:        instanceProfile.ScoreOffset,
			Scale:         instanceProfile.ScoreScale,
		}),
		lexicon,
		engine,
		m,
	)
	planner := retrieval.NewPlanner(storeInstance, retrieval.NewResultCache(kvStore, m), m)
	searchService := search.NewService(router, pipeline, planner, engine.Vision())

	srv, err := server.NewServer(instanceProfile, storeInstance, searchService, m)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	printGreetings(instanceProfile)
	return srv.Start(ctx)
}

func printGreetings(p *profile.Profile) {
	fmt.Println(greetingBanner, version.String())
	slog.Info("service profile",
		"version", p.Version,
		"mode", p.Mode,
		"addr", p.Addr,
		"port", p.Port,
		"driver", p.Driver,
		"external_search", p.IsExternalSearchEnabled(),
	)
}

func init() {
	// A local .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().String("mode", "demo", `mode of the server, can be "demo", "dev" or "prod"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("driver", "postgres", "database driver")
	rootCmd.PersistentFlags().String("dsn", "", "database connection string")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
	viper.SetEnvPrefix("modify")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		os.Exit(1)
	}
}
