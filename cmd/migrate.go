package cmd

import (
	"log"

	"multiblog/config"
	"multiblog/repositories"
	"multiblog/services"

	"github.com/spf13/cobra"
)

var seedTags string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		db, err := config.InitDB(cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		names, err := services.ParseTagNames(seedTags)
		if err != nil {
			return err
		}
		tagService := services.NewTagService(repositories.NewTagRepository(db))
		for _, name := range names {
			if _, err := tagService.ResolveOrCreate(cmd.Context(), name); err != nil {
				return err
			}
		}

		log.Printf("Migration complete, %d seed tags present", len(names))
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&seedTags, "seed-tags", "media", "Comma-separated tags to create if missing")
	rootCmd.AddCommand(migrateCmd)
}
