package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-inbox/internal/league"
	"gopkg.in/yaml.v3"
)

// Load decodes a YAML league definition and checks it for obvious mistakes.
func Load(r io.Reader) (Definition, error) {
	var def Definition
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("failed to decode league definition: %w", err)
	}
	return def, def.Validate()
}

// Validate reports duplicate or missing nicknames and identifiers.
func (d Definition) Validate() error {
	nicknames := make(map[string]bool, len(d.Players))
	for _, p := range d.Players {
		if p.Nickname == "" || p.Name == "" {
			return fmt.Errorf("player %q needs both a name and a nickname", p.Name+p.Nickname)
		}
		if nicknames[p.Nickname] {
			return fmt.Errorf("duplicate nickname %q", p.Nickname)
		}
		nicknames[p.Nickname] = true
	}
	identifiers := make(map[string]bool, len(d.MatchTypes))
	for _, mt := range d.MatchTypes {
		if mt.Identifier == "" {
			return fmt.Errorf("match type %q has no identifier", mt.Title)
		}
		if identifiers[mt.Identifier] {
			return fmt.Errorf("duplicate match type identifier %q", mt.Identifier)
		}
		identifiers[mt.Identifier] = true
	}
	return nil
}

// Apply registers the players and match types of def that are not in the
// store yet and generates the round robin of every match type. Running it
// twice creates nothing new.
func Apply(ctx context.Context, store league.LeagueStore, def Definition) (Report, error) {
	var report Report

	ids := make(map[string]int64, len(def.Players))
	for _, p := range def.Players {
		existing, err := store.PlayerByNickname(ctx, p.Nickname)
		switch {
		case err == nil:
			ids[p.Nickname] = existing.ID
			continue
		case !errors.Is(err, league.ErrPlayerNotFound):
			return report, err
		}
		id, err := store.AddPlayer(ctx, p.Name, p.Nickname, p.Email)
		if err != nil {
			return report, err
		}
		ids[p.Nickname] = id
		report.PlayersAdded++
	}

	for _, mt := range def.MatchTypes {
		matchType, err := store.MatchTypeByIdentifier(ctx, mt.Identifier)
		if errors.Is(err, league.ErrMatchTypeNotFound) {
			active := mt.Active == nil || *mt.Active
			matchType.ID, err = store.AddMatchType(ctx, mt.Title, mt.Identifier, active)
			if err == nil {
				report.MatchTypesAdded++
			}
		}
		if err != nil {
			return report, err
		}

		if len(mt.Players) < 2 {
			log.Warn("Match type has fewer than two players, no fixtures generated", "identifier", mt.Identifier)
			continue
		}
		playerIDs := make([]int64, 0, len(mt.Players))
		for _, nick := range mt.Players {
			id, ok := ids[nick]
			if !ok {
				p, err := store.PlayerByNickname(ctx, nick)
				if err != nil {
					return report, fmt.Errorf("match type %s: %w", mt.Identifier, err)
				}
				id = p.ID
			}
			playerIDs = append(playerIDs, id)
		}
		created, err := store.GenerateFixtures(ctx, matchType.ID, playerIDs)
		if err != nil {
			return report, fmt.Errorf("match type %s: %w", mt.Identifier, err)
		}
		report.FixturesCreated += created
		log.Info("Generated fixtures", "identifier", mt.Identifier, "players", len(playerIDs), "created", created)
	}
	return report, nil
}

// Fake builds a random but reproducible league for local testing.
func Fake(seed uint64, players, matchTypes int) Definition {
	faker := gofakeit.New(seed)

	var def Definition
	used := make(map[string]bool)
	for i := 0; i < players; i++ {
		first := faker.FirstName()
		nick := first
		for n := 2; used[nick]; n++ {
			nick = first + strconv.Itoa(n)
		}
		used[nick] = true
		def.Players = append(def.Players, PlayerDef{
			Name:     first + " " + faker.LastName(),
			Nickname: nick,
			Email:    faker.Email(),
		})
	}

	for i := 0; i < matchTypes; i++ {
		mt := MatchTypeDef{
			Title:      fmt.Sprintf("Series %d League %c", faker.Number(1, 9), 'A'+rune(i%26)),
			Identifier: fmt.Sprintf("league%d", i+1),
		}
		for _, p := range def.Players {
			if players <= 4 || faker.Bool() {
				mt.Players = append(mt.Players, p.Nickname)
			}
		}
		def.MatchTypes = append(def.MatchTypes, mt)
	}
	return def
}
