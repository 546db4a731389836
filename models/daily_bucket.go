package models

// DailyBucket is a derived per-day aggregate. It is computed per query
// over a fixed rolling window and never persisted.
type DailyBucket struct {
	Date        string `json:"date"` // UTC day, "2006-01-02"
	Views       int    `json:"views"`
	Likes       int    `json:"likes"`
	Connections int    `json:"connections"`
}

// Dashboard is the analytics payload for one creator's videos.
//
// TotalViews/TotalLikes are all-time sums over the full raw collections,
// while the buckets are window-limited. The mismatch is intentional.
type Dashboard struct {
	WindowDays            int           `json:"windowDays"`
	Buckets               []DailyBucket `json:"buckets"`
	CumulativeConnections []int         `json:"cumulativeConnections"`
	TotalViews            int           `json:"totalViews"`
	TotalLikes            int           `json:"totalLikes"`
	TotalConnections      int           `json:"totalConnections"`
	AvgViewsPerDay        int           `json:"avgViewsPerDay"`
	EngagementRate        float64       `json:"engagementRate"`
	ConnectionRate        float64       `json:"connectionRate"`
}
