package notifier

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"

	"github.com/stagefind/stagefind/internal/report"
)

// TwitterNotifier posts stale-company alerts to Twitter
type TwitterNotifier struct {
	client *twitter.Client
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)
	client := twitter.NewClient(httpClient)

	return &TwitterNotifier{client: client}, nil
}

// Notify posts one alert per stale company
func (n *TwitterNotifier) Notify(companies []report.CompanyReport) error {
	for i, c := range companies {
		msg := formatAlert(c)

		_, _, err := n.client.Statuses.Update(msg, nil)
		if err != nil {
			return fmt.Errorf("failed to post alert for company %s: %w", c.Company.ID, err)
		}

		// Rate limiting: wait between posts
		if i < len(companies)-1 {
			time.Sleep(2 * time.Second)
		}
	}

	return nil
}

// formatAlert formats one stale company as an alert message
func formatAlert(c report.CompanyReport) string {
	msg := "⚠️ Stale season data\n\n"
	msg += fmt.Sprintf("🎭 %s\n", c.Company.Name)

	if c.Staleness.Severity != "" {
		msg += fmt.Sprintf("Severity: %s\n", c.Staleness.Severity)
	}
	if len(c.Staleness.Reasons) > 0 {
		codes := make([]string, len(c.Staleness.Reasons))
		for i, r := range c.Staleness.Reasons {
			codes[i] = string(r)
		}
		msg += fmt.Sprintf("Reasons: %s\n", strings.Join(codes, ", "))
	}
	if c.Company.URL != "" {
		msg += fmt.Sprintf("\n🔗 %s", c.Company.URL)
	}

	// Twitter limit is 280 characters
	if len(msg) > 280 {
		msg = msg[:277] + "..."
	}

	return msg
}
