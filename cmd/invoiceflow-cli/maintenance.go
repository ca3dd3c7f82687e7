package main

import (
	"fmt"
	"time"

	bleveRepositories "invoiceflow-backend/bleve/repositories"
	bleveServices "invoiceflow-backend/bleve/services"
	"invoiceflow-backend/config"
	document_repositories "invoiceflow-backend/documents/repositories"
	"invoiceflow-backend/internal/bootstrap"
	"invoiceflow-backend/seeds"
	"invoiceflow-backend/token"
	users_repositories "invoiceflow-backend/users/repositories"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	tokenEmail string
	tokenTTL   time.Duration
)

// loadApp reads the environment, starts the file logger and opens the database.
func loadApp() (*config.AppConfig, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	config.InitLogger(cfg.LogDir, cfg.LogLevel)
	return cfg, config.ConfigureDatabase(cfg), nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo users, rate cards and invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := loadApp()
		if err != nil {
			return err
		}
		if err := seeds.SeedAll(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database seeded")
		return nil
	},
}

var issueTokenCmd = &cobra.Command{
	Use:   "issue-token",
	Short: "Issue an access token for an existing user",
	Long:  `Print a PASETO access token for the user with --email, for API clients and scripts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenEmail == "" {
			return fmt.Errorf("--email is required")
		}
		cfg, db, err := loadApp()
		if err != nil {
			return err
		}

		user, err := users_repositories.NewUserRepository(db).GetUserByEmail(cmd.Context(), tokenEmail)
		if err != nil {
			return fmt.Errorf("failed to load user %s: %w", tokenEmail, err)
		}

		maker, err := token.NewPasetoMaker(cfg.TokenSymmetricKey)
		if err != nil {
			return err
		}
		accessToken, payload, err := maker.CreateToken(user.ID, user.Email, string(user.Role), tokenTTL)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), accessToken)
		fmt.Fprintf(cmd.ErrOrStderr(), "role=%s expires=%s\n", user.Role, payload.ExpiredAt.Format(time.RFC3339))
		return nil
	},
}

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Rebuild the document search index",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := loadApp()
		if err != nil {
			return err
		}

		indexer := bleveServices.NewIndexingService(config.Logger, cfg.BleveIndexPath)
		defer indexer.Close()
		_, bleveRepo := bleveRepositories.NewBleveRepository(indexer)

		bootstrap.IndexBleveData(cmd.Context(), document_repositories.NewDocumentRepository(db), bleveRepo)
		fmt.Fprintln(cmd.OutOrStdout(), "Document index rebuilt")
		return nil
	},
}

func init() {
	issueTokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email of the user to issue the token for")
	issueTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
