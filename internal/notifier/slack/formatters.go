package slack

import (
	"fmt"
	"time"

	"github.com/birdiebook/birdiebook/internal/notifier"
	"github.com/birdiebook/birdiebook/internal/tournament"
	"github.com/slack-go/slack"
)

// formatResultNotification creates the Slack message for a scored round using Block Kit.
func (s *Notifier) formatResultNotification(result *notifier.RoundResult) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "⛳ Round finished! ⛳", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	loc, err := time.LoadLocation("Europe/Copenhagen")
	var dateStr string
	if err == nil {
		dateStr = time.Unix(result.RoundDate, 0).In(loc).Format("Monday 02 Jan")
	} else {
		dateStr = time.Unix(result.RoundDate, 0).Format("Monday 02 Jan")
	}
	detailsText := fmt.Sprintf("%s, %s", result.CourseName, dateStr)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, false, false), nil, nil))

	var scoreFields []*slack.TextBlockObject
	for _, p := range result.Players {
		scoreText := fmt.Sprintf("%s (hcp %d)\nGross %d | Net %d | %d pts",
			p.Name, p.CourseHandicap, p.GrossStrokes, p.NetStrokes, p.StablefordNet)
		scoreFields = append(scoreFields, slack.NewTextBlockObject("plain_text", scoreText, true, false))
	}
	if len(scoreFields) > 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "Scores:", true, false), scoreFields, nil))
	} else {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No scores reported.", true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates a Slack message to display a tournament's standings.
func (s *Notifier) formatLeaderboard(tournamentName string, results []tournament.Result) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("🏆 %s 🏆", tournamentName), true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(results) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No results yet. Go play some golf!", true, false), nil, nil))
		return slack.NewBlockMessage(blocks...)
	}

	for i, result := range results {
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

		playerText := fmt.Sprintf("%d. %s %s\n> Rounds: %d | Stableford: %d pts | Gross: %d | Net: %d",
			rank,
			medal,
			result.PlayerName,
			result.PlayedRounds,
			result.StablefordNet,
			result.GrossStrokes,
			result.NetStrokes,
		)
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", playerText, true, false), nil, nil))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatTournamentNotFound creates a Slack message for when a tournament lookup fails.
func (s *Notifier) formatTournamentNotFound(query string) slack.Message {
	text := fmt.Sprintf("Sorry, I couldn't find a tournament matching *%s*. Try a different name.", query)
	return slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
}
