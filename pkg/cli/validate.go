package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/aegis/pkg/cli/config"
	"github.com/secmon-lab/aegis/pkg/repository/firestore"
	"github.com/secmon-lab/aegis/pkg/usecase"
	"github.com/secmon-lab/aegis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdValidate() *cli.Command {
	var appCfg config.AppConfig
	var firestoreProjectID string
	var firestoreDatabaseID string

	var flags []cli.Flag
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:        "firestore-project-id",
		Usage:       "Firestore Project ID (if specified, DB consistency check is performed)",
		Sources:     cli.EnvVars("AEGIS_FIRESTORE_PROJECT_ID"),
		Destination: &firestoreProjectID,
	})
	flags = append(flags, &cli.StringFlag{
		Name:        "firestore-database-id",
		Usage:       "Firestore Database ID",
		Sources:     cli.EnvVars("AEGIS_FIRESTORE_DATABASE_ID"),
		Destination: &firestoreDatabaseID,
	})

	return &cli.Command{
		Name:    "validate",
		Aliases: []string{"v"},
		Usage:   "Validate the configuration file and optionally check DB consistency",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.Default()

			// Step 1: Load and validate the configuration file
			file, registry, catalog, err := appCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "configuration validation failed")
			}

			logger.Info("Configuration validation passed",
				"organization_count", len(file.Organizations),
				"framework_count", len(file.Frameworks),
				"control_count", len(file.Controls),
			)
			for _, org := range registry.List() {
				logger.Info("Organization validated",
					"id", org.ID,
					"name", org.Name,
					"control_count", len(catalog.Controls(org.Frameworks...)),
					"slack_channel", org.SlackChannel,
				)
			}

			// Step 2: If Firestore project ID is specified, run DB consistency check
			if firestoreProjectID == "" {
				logger.Info("No Firestore project ID specified, skipping DB consistency check")
				return nil
			}

			repo, err := firestore.New(ctx, firestoreProjectID, firestoreDatabaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize Firestore repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logger.Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, registry, catalog)
			result, err := uc.ValidateDB(ctx)
			if err != nil {
				return goerr.Wrap(err, "DB consistency check failed")
			}

			if result.HasIssues() {
				for _, issue := range result.Issues {
					logger.Warn("DB consistency issue found",
						"organization_id", issue.OrganizationID,
						"kind", issue.Kind,
						"record_id", issue.RecordID,
						"control_id", issue.ControlID,
						"message", issue.Message,
					)
				}

				return fmt.Errorf("DB consistency check found %d issue(s)", len(result.Issues))
			}

			logger.Info("DB consistency check passed")
			return nil
		},
	}
}
