package main

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/mauv0809/league-inbox/internal/database"
	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/mauv0809/league-inbox/internal/ledger"
	"github.com/mauv0809/league-inbox/internal/mailbox"
	"github.com/mauv0809/league-inbox/internal/metrics"
	"github.com/mauv0809/league-inbox/internal/processor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var (
	mboxPath      string
	dbPath        string
	migrationsDir string
	subjectFilter string
	showOutcomes  bool
)

func init() {
	replayCmd.Flags().StringVar(&mboxPath, "mbox", "", "Path of the mbox export to replay")
	replayCmd.Flags().StringVar(&dbPath, "db", "league.db", "Path of the local league database")
	replayCmd.Flags().StringVar(&migrationsDir, "migrations", "./migrations", "Directory holding the schema migrations")
	replayCmd.Flags().StringVar(&subjectFilter, "subject", "Admin: A league match was played", "Only replay messages whose subject contains this text")
	replayCmd.Flags().BoolVar(&showOutcomes, "outcomes", false, "Print the stored outcome of every attempted message after the replay")
	replayCmd.MarkFlagRequired("mbox")
	rootCmd.AddCommand(replayCmd)
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Run the ingestion pipeline locally over an mbox file",
	Long: `Replays every matching message of an mbox export through the same pipeline
the server uses. Messages already attempted are skipped, so a replay can be
repeated safely.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		db, teardown, err := database.InitDB(dbPath, "", "", migrationsDir)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer teardown()

		source := mailbox.NewMboxSource(mboxPath)
		defer source.Close()

		attempts := ledger.NewSQL(db)
		proc := processor.New(
			source,
			league.New(db),
			attempts,
			metrics.New(db),
			nil,
			nil,
			metrics.NewService(prometheus.NewRegistry()),
			processor.Config{
				SubjectFilter: subjectFilter,
				PollInterval:  time.Second,
				RunBudget:     time.Second,
				DryRun:        dryRun,
			},
		)

		summary, err := proc.Poll(ctx, dryRun)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		if !showOutcomes {
			return nil
		}
		outcomes, err := attempts.Outcomes(ctx)
		if err != nil {
			return fmt.Errorf("failed to read outcomes: %w", err)
		}
		ids := slices.Sorted(maps.Keys(outcomes))
		for _, id := range ids {
			fmt.Printf("%s\t%s\n", id, outcomes[id])
		}
		return nil
	},
}
