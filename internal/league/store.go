package league

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a new LeagueStore backed by db.
func New(db *sql.DB) LeagueStore {
	return &store{
		db:  db,
		now: time.Now,
	}
}

// MatchTypeByIdentifier resolves a sub-addressing token to its match type.
func (s *store) MatchTypeByIdentifier(ctx context.Context, identifier string) (MatchType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mt MatchType
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, identifier, active FROM match_types WHERE identifier = ?", identifier,
	).Scan(&mt.ID, &mt.Title, &mt.Identifier, &mt.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchType{}, fmt.Errorf("identifier %q: %w", identifier, ErrMatchTypeNotFound)
	}
	if err != nil {
		return MatchType{}, fmt.Errorf("failed to look up match type %q: %w", identifier, err)
	}
	return mt, nil
}

// MatchTypeByID loads a match type by its primary key.
func (s *store) MatchTypeByID(ctx context.Context, id int64) (MatchType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mt MatchType
	err := s.db.QueryRowContext(ctx,
		"SELECT id, title, identifier, active FROM match_types WHERE id = ?", id,
	).Scan(&mt.ID, &mt.Title, &mt.Identifier, &mt.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchType{}, fmt.Errorf("id %d: %w", id, ErrMatchTypeNotFound)
	}
	if err != nil {
		return MatchType{}, fmt.Errorf("failed to look up match type %d: %w", id, err)
	}
	return mt, nil
}

// PlayerByNickname resolves a notification nickname to a player.
func (s *store) PlayerByNickname(ctx context.Context, nickname string) (Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Player
	var email sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, nickname, email FROM players WHERE nickname = ?", nickname,
	).Scan(&p.ID, &p.Name, &p.Nickname, &email)
	if errors.Is(err, sql.ErrNoRows) {
		return Player{}, fmt.Errorf("nickname %q: %w", nickname, ErrPlayerNotFound)
	}
	if err != nil {
		return Player{}, fmt.Errorf("failed to look up player %q: %w", nickname, err)
	}
	p.Email = email.String
	return p, nil
}

// FindFixture returns the fixture for the pair under matchTypeID, whichever way
// round the pair was stored. Incomplete fixtures sort first; if several rows
// still qualify the lowest id wins.
func (s *store) FindFixture(ctx context.Context, matchTypeID, player1ID, player2ID int64) (Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, match_type_id, player1_id, player2_id, completed
		FROM fixtures
		WHERE match_type_id = ?
		  AND ((player1_id = ? AND player2_id = ?) OR (player1_id = ? AND player2_id = ?))
		ORDER BY completed ASC, id ASC
	`, matchTypeID, player1ID, player2ID, player2ID, player1ID)
	if err != nil {
		return Fixture{}, fmt.Errorf("failed to query fixtures: %w", err)
	}
	defer rows.Close()

	var fixtures []Fixture
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return Fixture{}, fmt.Errorf("failed to scan fixture: %w", err)
		}
		fixtures = append(fixtures, f)
	}
	if err := rows.Err(); err != nil {
		return Fixture{}, fmt.Errorf("failed to read fixtures: %w", err)
	}

	if len(fixtures) == 0 {
		return Fixture{}, fmt.Errorf("match type %d, players %d/%d: %w", matchTypeID, player1ID, player2ID, ErrFixtureNotFound)
	}
	if len(fixtures) > 1 {
		log.Warn("Multiple fixtures match player pair, using the first", "matchTypeID", matchTypeID, "player1ID", player1ID, "player2ID", player2ID, "count", len(fixtures), "fixtureID", fixtures[0].ID)
	}
	return fixtures[0], nil
}

// RecordResult inserts result for fixture and marks the fixture completed in a
// single transaction. The completed flag is flipped with a conditional update
// that must affect exactly one row, and match_results is unique per fixture,
// so two concurrent recorders cannot both succeed.
func (s *store) RecordResult(ctx context.Context, fixture Fixture, result Result) (Result, error) {
	if fixture.Completed {
		return Result{}, fmt.Errorf("fixture %d: %w", fixture.ID, ErrFixtureAlreadyCompleted)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: begin transaction: %w", ErrWriteFailed, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE fixtures SET completed = 1 WHERE id = ? AND completed = 0", fixture.ID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: mark fixture %d completed: %w", ErrWriteFailed, fixture.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Result{}, fmt.Errorf("%w: rows affected for fixture %d: %w", ErrWriteFailed, fixture.ID, err)
	}
	if affected != 1 {
		var completed bool
		err := tx.QueryRowContext(ctx, "SELECT completed FROM fixtures WHERE id = ?", fixture.ID).Scan(&completed)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return Result{}, fmt.Errorf("fixture %d: %w", fixture.ID, ErrFixtureNotFound)
		case err != nil:
			return Result{}, fmt.Errorf("%w: re-read fixture %d: %w", ErrWriteFailed, fixture.ID, err)
		case completed:
			return Result{}, fmt.Errorf("fixture %d: %w", fixture.ID, ErrFixtureAlreadyCompleted)
		default:
			return Result{}, fmt.Errorf("%w: fixture %d: %d rows updated", ErrWriteFailed, fixture.ID, affected)
		}
	}

	result.FixtureID = fixture.ID
	result.MatchTypeID = fixture.MatchTypeID
	result.RecordedAt = s.now().UTC()

	var messageID sql.NullString
	if result.MessageID != "" {
		messageID = sql.NullString{String: result.MessageID, Valid: true}
	}

	res, err = tx.ExecContext(ctx, `
		INSERT INTO match_results (fixture_id, match_type_id, player1_id, player2_id,
			player1_points, player2_points, player1_pr, player2_pr, player1_luck, player2_luck,
			game_length, recorded_at, message_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, result.FixtureID, result.MatchTypeID, result.Player1ID, result.Player2ID,
		result.Player1Points, result.Player2Points, result.Player1PR, result.Player2PR,
		result.Player1Luck, result.Player2Luck, result.GameLength, result.RecordedAt.Unix(), messageID)
	if err != nil {
		return Result{}, fmt.Errorf("%w: insert result for fixture %d: %w", ErrWriteFailed, fixture.ID, err)
	}
	if result.ID, err = res.LastInsertId(); err != nil {
		return Result{}, fmt.Errorf("%w: result id for fixture %d: %w", ErrWriteFailed, fixture.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("%w: commit fixture %d: %w", ErrWriteFailed, fixture.ID, err)
	}
	log.Debug("Recorded result", "fixtureID", fixture.ID, "resultID", result.ID)
	return result, nil
}

const resultColumns = `id, fixture_id, match_type_id, player1_id, player2_id,
	player1_points, player2_points, player1_pr, player2_pr, player1_luck, player2_luck,
	game_length, recorded_at, message_id`

// ResultsForFixture returns every result row recorded against fixtureID.
func (s *store) ResultsForFixture(ctx context.Context, fixtureID int64) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+resultColumns+" FROM match_results WHERE fixture_id = ? ORDER BY id", fixtureID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// ListResults returns the results of a match type in the order they were recorded.
func (s *store) ListResults(ctx context.Context, matchTypeID int64) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+resultColumns+" FROM match_results WHERE match_type_id = ? ORDER BY recorded_at, id", matchTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanResults(rows)
}

// RemainingFixtures lists the fixtures of a match type still waiting for a result.
func (s *store) RemainingFixtures(ctx context.Context, matchTypeID int64) ([]Fixture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, match_type_id, player1_id, player2_id, completed
		FROM fixtures WHERE match_type_id = ? AND completed = 0 ORDER BY id
	`, matchTypeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fixtures []Fixture
	for rows.Next() {
		f, err := scanFixture(rows)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}

// Standings builds the league table of a match type from its recorded results.
// Players are ranked by wins, then points difference, then nickname.
func (s *store) Standings(ctx context.Context, matchTypeID int64) ([]Standing, error) {
	results, err := s.ListResults(ctx, matchTypeID)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type acc struct {
		Standing
		prSum, luckSum float64
	}
	table := make(map[int64]*acc)
	entry := func(id int64) *acc {
		if a, ok := table[id]; ok {
			return a
		}
		a := &acc{Standing: Standing{PlayerID: id}}
		table[id] = a
		return a
	}
	add := func(a *acc, pointsFor, pointsAgainst int, pr, luck float64) {
		a.Played++
		a.PointsFor += pointsFor
		a.PointsAgainst += pointsAgainst
		a.prSum += pr
		a.luckSum += luck
		if pointsFor > pointsAgainst {
			a.Won++
		} else if pointsFor < pointsAgainst {
			a.Lost++
		}
	}
	for _, r := range results {
		add(entry(r.Player1ID), r.Player1Points, r.Player2Points, r.Player1PR, r.Player1Luck)
		add(entry(r.Player2ID), r.Player2Points, r.Player1Points, r.Player2PR, r.Player2Luck)
	}

	standings := make([]Standing, 0, len(table))
	for id, a := range table {
		if err := s.db.QueryRowContext(ctx, "SELECT nickname FROM players WHERE id = ?", id).Scan(&a.Nickname); err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to look up player %d: %w", id, err)
		}
		a.AveragePR = a.prSum / float64(a.Played)
		a.AverageLuck = a.luckSum / float64(a.Played)
		standings = append(standings, a.Standing)
	}
	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Won != b.Won {
			return a.Won > b.Won
		}
		if da, db := a.PointsFor-a.PointsAgainst, b.PointsFor-b.PointsAgainst; da != db {
			return da > db
		}
		return a.Nickname < b.Nickname
	})
	return standings, nil
}

// AddPlayer registers a player. email may be empty.
func (s *store) AddPlayer(ctx context.Context, name, nickname, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var mail sql.NullString
	if email != "" {
		mail = sql.NullString{String: email, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, "INSERT INTO players (name, nickname, email) VALUES (?, ?, ?)", name, nickname, mail)
	if err != nil {
		return 0, fmt.Errorf("failed to add player %q: %w", nickname, err)
	}
	return res.LastInsertId()
}

// AddMatchType registers a match type under its sub-addressing identifier.
func (s *store) AddMatchType(ctx context.Context, title, identifier string, active bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "INSERT INTO match_types (title, identifier, active) VALUES (?, ?, ?)", title, identifier, active)
	if err != nil {
		return 0, fmt.Errorf("failed to add match type %q: %w", identifier, err)
	}
	return res.LastInsertId()
}

// GenerateFixtures schedules every unique pairing of playerIDs under
// matchTypeID. Pairs that already have a fixture, in either order, are left
// alone. It returns the number of fixtures created.
func (s *store) GenerateFixtures(ctx context.Context, matchTypeID int64, playerIDs []int64) (int, error) {
	if len(playerIDs) < 2 {
		return 0, fmt.Errorf("at least two players are needed to generate fixtures, got %d", len(playerIDs))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	created := 0
	for i := 0; i < len(playerIDs); i++ {
		for j := i + 1; j < len(playerIDs); j++ {
			p1, p2 := playerIDs[i], playerIDs[j]
			if p1 == p2 {
				continue
			}
			var existing int
			err := tx.QueryRowContext(ctx, `
				SELECT COUNT(*) FROM fixtures
				WHERE match_type_id = ?
				  AND ((player1_id = ? AND player2_id = ?) OR (player1_id = ? AND player2_id = ?))
			`, matchTypeID, p1, p2, p2, p1).Scan(&existing)
			if err != nil {
				return 0, fmt.Errorf("failed to check fixture %d/%d: %w", p1, p2, err)
			}
			if existing > 0 {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO fixtures (match_type_id, player1_id, player2_id) VALUES (?, ?, ?)",
				matchTypeID, p1, p2); err != nil {
				return 0, fmt.Errorf("failed to insert fixture %d/%d: %w", p1, p2, err)
			}
			created++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Info("Generated fixtures", "matchTypeID", matchTypeID, "players", len(playerIDs), "created", created)
	return created, nil
}

// scanFixture is a helper function to scan a single fixture row.
func scanFixture(scanner interface{ Scan(...any) error }) (Fixture, error) {
	var f Fixture
	err := scanner.Scan(&f.ID, &f.MatchTypeID, &f.Player1ID, &f.Player2ID, &f.Completed)
	return f, err
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		var recordedAt int64
		var messageID sql.NullString
		err := rows.Scan(&r.ID, &r.FixtureID, &r.MatchTypeID, &r.Player1ID, &r.Player2ID,
			&r.Player1Points, &r.Player2Points, &r.Player1PR, &r.Player2PR, &r.Player1Luck, &r.Player2Luck,
			&r.GameLength, &recordedAt, &messageID)
		if err != nil {
			return nil, err
		}
		r.RecordedAt = time.Unix(recordedAt, 0).UTC()
		r.MessageID = messageID.String
		results = append(results, r)
	}
	return results, rows.Err()
}
