package notifier

import (
	"fmt"

	"github.com/stagefind/stagefind/internal/report"
)

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the alerts that would be posted
func (n *DryRunNotifier) Notify(companies []report.CompanyReport) error {
	for i, c := range companies {
		msg := formatAlert(c)
		fmt.Printf("--- Alert %d/%d ---\n", i+1, len(companies))
		fmt.Println(msg)
		fmt.Printf("\n(Length: %d characters)\n\n", len(msg))
	}
	return nil
}
