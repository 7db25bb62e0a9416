package sendgrid

// DefaultStatsDays is the window GetStats covers when callers have no
// preference.
const DefaultStatsDays = 30

// DailyStats is one day of global account statistics.
type DailyStats struct {
	Date  string       `json:"date"`
	Stats []StatsEntry `json:"stats"`
}

// StatsEntry groups the metrics of a day.
type StatsEntry struct {
	Metrics Metrics `json:"metrics"`
}

// Metrics are the email activity counters SendGrid reports.
type Metrics struct {
	Blocks           int `json:"blocks"`
	BounceDrops      int `json:"bounce_drops"`
	Bounces          int `json:"bounces"`
	Clicks           int `json:"clicks"`
	Deferred         int `json:"deferred"`
	Delivered        int `json:"delivered"`
	InvalidEmails    int `json:"invalid_emails"`
	Opens            int `json:"opens"`
	Processed        int `json:"processed"`
	Requests         int `json:"requests"`
	SpamReportDrops  int `json:"spam_report_drops"`
	SpamReports      int `json:"spam_reports"`
	UniqueClicks     int `json:"unique_clicks"`
	UniqueOpens      int `json:"unique_opens"`
	UnsubscribeDrops int `json:"unsubscribe_drops"`
	Unsubscribes     int `json:"unsubscribes"`
}

// Totals sums the metrics of every day.
func Totals(days []DailyStats) Metrics {
	var t Metrics
	for _, d := range days {
		for _, s := range d.Stats {
			m := s.Metrics
			t.Blocks += m.Blocks
			t.BounceDrops += m.BounceDrops
			t.Bounces += m.Bounces
			t.Clicks += m.Clicks
			t.Deferred += m.Deferred
			t.Delivered += m.Delivered
			t.InvalidEmails += m.InvalidEmails
			t.Opens += m.Opens
			t.Processed += m.Processed
			t.Requests += m.Requests
			t.SpamReportDrops += m.SpamReportDrops
			t.SpamReports += m.SpamReports
			t.UniqueClicks += m.UniqueClicks
			t.UniqueOpens += m.UniqueOpens
			t.UnsubscribeDrops += m.UnsubscribeDrops
			t.Unsubscribes += m.Unsubscribes
		}
	}
	return t
}
