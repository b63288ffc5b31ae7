package league

import (
	"database/sql"
	"sync"
	"time"
)

// store handles all database operations for the league.
type store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// Player is a registered league member, addressed in notifications by nickname.
type Player struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Email    string `json:"email,omitempty"`
}

// MatchType is a competition category. Notifications address it through the
// sub-addressing token stored in Identifier.
type MatchType struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Identifier string `json:"identifier"`
	Active     bool   `json:"active"`
}

// Fixture is a scheduled pairing of two players under a match type.
type Fixture struct {
	ID          int64 `json:"id"`
	MatchTypeID int64 `json:"match_type_id"`
	Player1ID   int64 `json:"player1_id"`
	Player2ID   int64 `json:"player2_id"`
	Completed   bool  `json:"completed"`
}

// Result is one recorded match. Player order follows the notification, which
// may differ from the order stored on the fixture.
type Result struct {
	ID            int64     `json:"id"`
	FixtureID     int64     `json:"fixture_id"`
	MatchTypeID   int64     `json:"match_type_id"`
	Player1ID     int64     `json:"player1_id"`
	Player2ID     int64     `json:"player2_id"`
	Player1Points int       `json:"player1_points"`
	Player2Points int       `json:"player2_points"`
	Player1PR     float64   `json:"player1_pr"`
	Player2PR     float64   `json:"player2_pr"`
	Player1Luck   float64   `json:"player1_luck"`
	Player2Luck   float64   `json:"player2_luck"`
	GameLength    int       `json:"game_length"`
	RecordedAt    time.Time `json:"recorded_at"`
	MessageID     string    `json:"message_id,omitempty"`
}

// Standing is one row of a match type's league table.
type Standing struct {
	PlayerID      int64   `json:"player_id"`
	Nickname      string  `json:"nickname"`
	Played        int     `json:"played"`
	Won           int     `json:"won"`
	Lost          int     `json:"lost"`
	PointsFor     int     `json:"points_for"`
	PointsAgainst int     `json:"points_against"`
	AveragePR     float64 `json:"average_pr"`
	AverageLuck   float64 `json:"average_luck"`
}
