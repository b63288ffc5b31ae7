package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventResultRecorded EventType = "result-recorded"
)

// ResultRecordedEvent is published after a match result has been stored.
type ResultRecordedEvent struct {
	ResultID        int64   `msgpack:"result_id"`
	FixtureID       int64   `msgpack:"fixture_id"`
	MatchType       string  `msgpack:"match_type"`
	Player1         string  `msgpack:"player1"`
	Player2         string  `msgpack:"player2"`
	Player1Points   int     `msgpack:"player1_points"`
	Player2Points   int     `msgpack:"player2_points"`
	Player1PR       float64 `msgpack:"player1_pr"`
	Player2PR       float64 `msgpack:"player2_pr"`
	Player1Luck     float64 `msgpack:"player1_luck"`
	Player2Luck     float64 `msgpack:"player2_luck"`
	GameLength      int     `msgpack:"game_length"`
	MessageID       string  `msgpack:"message_id"`
	RecordedAtEpoch int64   `msgpack:"recorded_at"`
}
