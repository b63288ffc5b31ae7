package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/league-inbox/internal/league"
	"github.com/mauv0809/league-inbox/internal/metrics"
	"github.com/mauv0809/league-inbox/internal/notifier"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendResultNotification(ctx context.Context, n notifier.ResultNotification, dryRun bool) error {
	msg := s.formatResultNotification(n)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

func (s *Notifier) SendStandings(ctx context.Context, matchType league.MatchType, standings []league.Standing, dryRun bool) error {
	msg := s.formatStandings(matchType, standings)
	_, _, err := s.sendMessage(ctx, msg, dryRun)
	return err
}

// formatResultNotification creates the Slack message for a recorded result using Block Kit.
func (s *Notifier) formatResultNotification(n notifier.ResultNotification) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🎲 Match played! 🎲", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	r := n.Result
	winner, loser := n.Player1.Nickname, n.Player2.Nickname
	winPts, losePts := r.Player1Points, r.Player2Points
	if r.Player2Points > r.Player1Points {
		winner, loser = loser, winner
		winPts, losePts = losePts, winPts
	}
	summary := fmt.Sprintf("%s beat %s %d-%d", winner, loser, winPts, losePts)
	if r.Player1Points == r.Player2Points {
		summary = fmt.Sprintf("%s and %s drew %d-%d", n.Player1.Nickname, n.Player2.Nickname, winPts, losePts)
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", summary, true, false), nil, nil))

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject("mrkdwn", playerLine(n.Player1.Nickname, r.Player1Points, r.Player1PR, r.Player1Luck), false, false),
		slack.NewTextBlockObject("mrkdwn", playerLine(n.Player2.Nickname, r.Player2Points, r.Player2PR, r.Player2Luck), false, false),
	}
	blocks = append(blocks, slack.NewSectionBlock(nil, fields, nil))

	contextText := fmt.Sprintf("%s | %d point match", n.MatchType.Title, r.GameLength)
	blocks = append(blocks, slack.NewContextBlock("", slack.NewTextBlockObject("plain_text", contextText, false, false)))

	return slack.NewBlockMessage(blocks...)
}

func playerLine(nickname string, points int, pr, luck float64) string {
	return fmt.Sprintf("*%s*\nPoints: %d\nPR: %s\nLuck: %s",
		nickname, points,
		strconv.FormatFloat(pr, 'f', -1, 64),
		strconv.FormatFloat(luck, 'f', -1, 64),
	)
}

// formatStandings creates a Slack message displaying a match type's league table.
func (s *Notifier) formatStandings(matchType league.MatchType, standings []league.Standing) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s 🏆", matchType.Title), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(standings) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No results recorded yet. Go play some matches!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, st := range standings {
		rank := i + 1
		var medal string
		switch rank {
		case 1:
			medal = "🥇"
		case 2:
			medal = "🥈"
		case 3:
			medal = "🥉"
		}

		text := fmt.Sprintf("%d. %s %s\n> Won %d of %d | Points %d-%d | Avg PR: %.2f | Avg Luck: %.2f",
			rank,
			medal,
			st.Nickname,
			st.Won,
			st.Played,
			st.PointsFor,
			st.PointsAgainst,
			st.AveragePR,
			st.AverageLuck,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", text, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}
