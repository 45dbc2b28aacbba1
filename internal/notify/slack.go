package notify

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"

	"github.com/opsdesk/opsdesk/internal/database"
)

// SlackNotifier posts duplicate-pipeline summaries to an ops channel.
// Settings are re-read on every post so token/channel changes apply without
// a restart.
type SlackNotifier struct{}

// NewSlackNotifier creates a new Slack notifier
func NewSlackNotifier() *SlackNotifier {
	return &SlackNotifier{}
}

// NotifyScanSummary posts the outcome of a detection pass. A disabled or
// unconfigured integration is a no-op, never an error.
func (n *SlackNotifier) NotifyScanSummary(contactsScanned, reportsUpserted int, pendingReports int64) {
	settings, err := database.GetSlackSettings()
	if err != nil || !settings.IsActive() {
		return
	}

	text := fmt.Sprintf("Duplicate scan finished: %d contacts scanned, %d clusters recorded, %d reports pending review.",
		contactsScanned, reportsUpserted, pendingReports)

	client := slack.New(settings.BotToken)
	if _, _, err := client.PostMessage(settings.Channel, slack.MsgOptionText(text, false)); err != nil {
		log.Printf("SlackNotifier: failed to post scan summary: %v", err)
	}
}
