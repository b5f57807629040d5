package domain

// Response status values. No-data conditions surface as StatusError or
// StatusProcessing in the envelope; they are retriable states, not Go
// errors.
const (
	StatusSuccess    = "success"
	StatusError      = "error"
	StatusProcessing = "processing"
)

// Trend labels shared by the history detector and the forecast
// projector.
const (
	TrendRising     = "rising"
	TrendFalling    = "falling"
	TrendStable     = "stable"
	TrendPersistent = "persistent"
)

// Keyword is a ranked term. Weight is a relative importance score, not
// a probability; only ordering and relative magnitude carry meaning.
type Keyword struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

// CategoryShare is one slice of the category distribution. Percentages
// across a distribution sum to 100.
type CategoryShare struct {
	Category   string  `json:"category"`
	Percentage float64 `json:"percentage"`
}

// ClusterMember is one platform's contribution to a topic cluster.
type ClusterMember struct {
	Platform   string  `json:"platform"`
	Title      string  `json:"title"`
	URL        string  `json:"url,omitempty"`
	Score      float64 `json:"score"`
	Similarity float64 `json:"similarity,omitempty"`
}

// TopicCluster groups same-topic items recognized across at least two
// platforms. Heat is the sum of member scores.
type TopicCluster struct {
	Title         string          `json:"title"`
	PlatformCount int             `json:"platforms_count"`
	Platforms     []string        `json:"platforms"`
	Heat          float64         `json:"heat"`
	Members       []ClusterMember `json:"related_items"`
}

// WordGroup is a set of co-occurring keywords with their shared
// co-occurrence count.
type WordGroup struct {
	Words        []string `json:"words"`
	CoOccurrence int      `json:"co_occurrence"`
}

// Appearance records where and how a topic showed up on one date.
type Appearance struct {
	Date     string  `json:"date"`
	Platform string  `json:"platform"`
	Rank     int     `json:"rank"`
	Score    float64 `json:"score"`
}

// RisingTopic is a topic whose rank or score improved between its first
// and last appearance inside the window. RankChange is positive when
// the topic moved toward rank 1.
type RisingTopic struct {
	Title       string     `json:"title"`
	Trend       string     `json:"trend"`
	RankChange  int        `json:"rank_change"`
	ScoreChange float64    `json:"score_change"`
	DaysTracked int        `json:"days_tracked"`
	First       Appearance `json:"first_appearance"`
	Last        Appearance `json:"last_appearance"`
}

// PersistentTopic is a topic present on at least half of the tracked
// days.
type PersistentTopic struct {
	Title          string   `json:"title"`
	Trend          string   `json:"trend"`
	Appearances    int      `json:"appearances"`
	AppearanceRate float64  `json:"appearance_rate"`
	Platforms      []string `json:"platforms"`
	PlatformCount  int      `json:"platform_count"`
	LastSeen       string   `json:"last_seen"`
}

// PlatformGrowth compares a platform's item count between the first and
// last day of the window.
type PlatformGrowth struct {
	Platform   string  `json:"platform"`
	FirstCount int     `json:"first_count"`
	LastCount  int     `json:"last_count"`
	GrowthRate float64 `json:"growth_rate"`
	Trend      string  `json:"trend"`
}

// CategoryPoint is one point of a category share series.
type CategoryPoint struct {
	Date       string  `json:"date"`
	Percentage float64 `json:"percentage"`
}

// CategoryTrend tracks one category's share of matched titles across
// the window, with a short extrapolated outlook.
type CategoryTrend struct {
	Category          string          `json:"category"`
	CurrentPercentage float64         `json:"current_percentage"`
	Trend             string          `json:"trend"`
	History           []CategoryPoint `json:"history"`
	Prediction        []CategoryPoint `json:"prediction"`
	Confidence        int             `json:"confidence"`
}

// KeywordTrend tracks day-over-day frequency movement for one keyword.
type KeywordTrend struct {
	Keyword    string  `json:"keyword"`
	GrowthRate float64 `json:"growth_rate"`
	FirstCount int     `json:"first_count"`
	LastCount  int     `json:"last_count"`
}

// HeatPoint is one point of a topic heat series.
type HeatPoint struct {
	Date string  `json:"date"`
	Heat float64 `json:"heat"`
}

// Forecast is a short-horizon heat projection for one topic. The
// forward numbers are a trend-extrapolation heuristic, not a trained
// model; Probability is bounded to [0, 95].
type Forecast struct {
	Topic           string      `json:"topic"`
	Category        string      `json:"category"`
	Keywords        []string    `json:"keywords"`
	CurrentHeat     float64     `json:"current_heat"`
	History         []HeatPoint `json:"history"`
	Forecast        []HeatPoint `json:"forecast"`
	TrendType       string      `json:"trend_type"`
	Probability     int         `json:"probability"`
	ProbabilityText string      `json:"probability_text"`
	Confidence      string      `json:"confidence"`
	Platforms       []string    `json:"platforms"`
	OutPlatforms    []string    `json:"out_platforms"`
}

// PlatformStats summarizes the shape of one platform's daily list.
type PlatformStats struct {
	TotalItems     int     `json:"total_items"`
	AvgTitleLength float64 `json:"avg_title_length"`
	HasDescription int     `json:"has_description"`
	HasURL         int     `json:"has_url"`
}

// PlatformRanking places one platform on the daily heat leaderboard.
type PlatformRanking struct {
	Platform string  `json:"platform"`
	Heat     float64 `json:"heat"`
	Trend    float64 `json:"trend"`
	Rank     int     `json:"rank"`
}

// TimeOfDayShare is the percentage of item updates falling into one of
// the four day periods (morning, afternoon, evening, night).
type TimeOfDayShare struct {
	Label      string  `json:"label"`
	Percentage float64 `json:"percentage"`
}

// SentimentShare is the positive/neutral/negative split for one scope.
// The split is a placeholder heuristic, kept deterministic through the
// engine's seeded generator.
type SentimentShare struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}
