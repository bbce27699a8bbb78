package service

import (
	"fmt"
	"strings"

	"cryptodigest/internal/domain"
)

const summarySystemPrompt = "You are a helpful assistant that summarizes information concisely."

// BuildDigestPrompt renders recent prices and headlines into the completion
// prompt for the digest summary.
func BuildDigestPrompt(prices []domain.PriceRecord, news []domain.NewsRecord) string {
	var b strings.Builder
	b.WriteString("Summarize the following cryptocurrency market update in a short, readable briefing.\n\n")

	b.WriteString("Latest prices:\n")
	if len(prices) == 0 {
		b.WriteString("(no price data available)\n")
	}
	for _, p := range prices {
		fmt.Fprintf(&b, "- %s: %.2f %s (as of %s)\n",
			p.Symbol, p.Price, p.Currency, p.CapturedAt.Format("2006-01-02 15:04 MST"))
	}

	b.WriteString("\nRecent headlines:\n")
	if len(news) == 0 {
		b.WriteString("(no recent headlines)\n")
	}
	for _, n := range news {
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", n.Keyword, n.Headline, n.Source)
	}

	return b.String()
}
