package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mauv0809/league-inbox/internal/database"
	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/mauv0809/league-inbox/internal/seed"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dbName        string
	migrationsDir string
	file          string
	fakePlayers   int
	fakeLeagues   int
	fakeSeed      uint64
	printOnly     bool
)

var rootCmd = &cobra.Command{
	Use:   "seeder",
	Short: "Loads players, match types and fixtures into the league database",
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := definition()
		if err != nil {
			return err
		}
		if printOnly {
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(def)
		}

		// Remote credentials are optional; without them the local file is seeded.
		primaryURL := os.Getenv("TURSO_PRIMARY_URL")
		authToken := os.Getenv("TURSO_AUTH_TOKEN")
		db, teardown, err := database.InitDB(dbName, primaryURL, authToken, migrationsDir)
		if err != nil {
			return err
		}
		defer teardown()

		report, err := seed.Apply(context.Background(), league.New(db), def)
		if err != nil {
			return err
		}
		log.Info("Seeding complete", "players_added", report.PlayersAdded,
			"match_types_added", report.MatchTypesAdded, "fixtures_created", report.FixturesCreated)
		return nil
	},
}

func definition() (seed.Definition, error) {
	if file == "" {
		log.Info("Generating fake league", "players", fakePlayers, "match_types", fakeLeagues, "seed", fakeSeed)
		return seed.Fake(fakeSeed, fakePlayers, fakeLeagues), nil
	}
	f, err := os.Open(file)
	if err != nil {
		return seed.Definition{}, err
	}
	defer f.Close()
	return seed.Load(f)
}

func init() {
	rootCmd.Flags().StringVar(&dbName, "db", "league.db", "Local database file")
	rootCmd.Flags().StringVar(&migrationsDir, "migrations", "migrations", "Directory holding the goose migrations")
	rootCmd.Flags().StringVarP(&file, "file", "f", "", "YAML league definition; a fake league is generated when empty")
	rootCmd.Flags().IntVar(&fakePlayers, "players", 6, "Number of fake players")
	rootCmd.Flags().IntVar(&fakeLeagues, "match-types", 2, "Number of fake match types")
	rootCmd.Flags().Uint64Var(&fakeSeed, "seed", 1, "Random seed for the fake league")
	rootCmd.Flags().BoolVar(&printOnly, "print", false, "Print the definition as YAML instead of writing it")
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}
	if err := rootCmd.Execute(); err != nil {
		log.Fatal("Seeding failed", "error", err)
	}
}
