package events

import (
	"fmt"
	"time"
)

const promptTemplate = `Research the major market-moving events scheduled between %s and %s.

Use your web search and research tools to find real, scheduled events from authoritative sources (central bank calendars, economic data release schedules, exchange holiday calendars, earnings calendars, major news outlets). Do not invent or guess events.

Cover these seven categories:
- Economic (data releases such as CPI, PMI, jobs reports)
- Fed (central bank meetings, speeches, rate decisions)
- Crypto (protocol upgrades, ETF decisions, regulatory actions)
- Retail/Geopolitical (consumer-facing events with geopolitical angles)
- Holiday (market holidays and shortened sessions)
- Geopolitical (elections, summits, conflicts, sanctions)
- Corporate (earnings, product launches, shareholder meetings)

Return 10-15 events as a JSON array and nothing else. Each element must be an object with exactly these fields:
- "date": human-readable date or range within the week, e.g. "%s"
- "event": short event title
- "type": one of Economic, Fed, Crypto, Retail/Geopolitical, Holiday, Geopolitical, Corporate
- "description": what the event is and its expected market impact
- "significance": one of High, Medium, Low
- "marketSentiment": one of Bullish, Bearish, Neutral, Mixed`

// BuildPrompt returns the research prompt for the week starting at
// weekStart. Pure function: same week in, same prompt out.
func BuildPrompt(weekStart time.Time) string {
	weekEnd := weekStart.AddDate(0, 0, 6)
	return fmt.Sprintf(promptTemplate,
		formatLongDate(weekStart),
		formatLongDate(weekEnd),
		formatLongDate(weekStart),
	)
}
