package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zaqqye/portfolio_backend/internal/config"
	"github.com/zaqqye/portfolio_backend/internal/database"
	ghsync "github.com/zaqqye/portfolio_backend/internal/integrations/github"
	"github.com/zaqqye/portfolio_backend/internal/logging"
	"github.com/zaqqye/portfolio_backend/internal/models"
	"github.com/zaqqye/portfolio_backend/internal/utils"
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Portfolio backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create schemas and tables, then seed singleton rows",
	RunE:  runMigrate,
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password <password>",
	Short: "Print a bcrypt hash suitable for the config table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hashed, err := utils.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hashed)
		return nil
	},
}

var readmePush bool

var readmeCmd = &cobra.Command{
	Use:   "readme",
	Short: "Render the GitHub README from the database",
	RunE:  runReadme,
}

func init() {
	readmeCmd.Flags().BoolVar(&readmePush, "push", false, "Commit the README to the configured repository")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(hashPasswordCmd)
	rootCmd.AddCommand(readmeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads .env (non-fatal if missing), config and the logger.
func bootstrap() (*config.Config, *zap.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func openDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := database.Pool(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.SeedConfig(db, cfg, log); err != nil {
		return nil, fmt.Errorf("config seed failed: %w", err)
	}
	if err := database.SeedSingletons(db); err != nil {
		return nil, fmt.Errorf("singleton seed failed: %w", err)
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := migrate(cfg); err != nil {
		return err
	}
	if _, err := openDB(cfg, log); err != nil {
		return err
	}
	log.Info("migration complete")
	return nil
}

func migrate(cfg *config.Config) error {
	db, err := database.Pool(cfg)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}
	return nil
}

func runReadme(cmd *cobra.Command, _ []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	data, err := ghsync.LoadReadmeData(ctx, db, cfg.SiteURL)
	if err != nil {
		return err
	}
	md := ghsync.RenderReadme(data)
	if !readmePush {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	pub, err := ghsync.NewPublisher(cfg.GitHubToken, cfg.GitHubBaseURL)
	if err != nil {
		return err
	}
	var sc models.SiteConfig
	if err := db.WithContext(ctx).First(&sc, models.SingletonID).Error; err != nil {
		return err
	}
	res, err := pub.Push(ctx, ghsync.Target{
		Owner:  sc.GitHubOwner,
		Repo:   sc.GitHubRepo,
		Branch: sc.GitHubBranch,
		Path:   sc.ReadmePath,
	}, md)
	if err != nil {
		return err
	}
	log.Info("readme pushed", zap.Bool("changed", res.Changed), zap.String("commit", res.CommitSHA))
	return nil
}
