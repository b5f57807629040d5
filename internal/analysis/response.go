package analysis

import "github.com/hotboard-io/hotboard/internal/core/domain"

// Envelope is the common header of every analysis response. Status is
// one of domain.StatusSuccess, StatusError or StatusProcessing; Message
// carries the human-readable reason for non-success states.
type Envelope struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	Date         string `json:"date"`
	AnalysisType string `json:"analysis_type,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
}

// MainThemesResult is the main theme analysis response.
type MainThemesResult struct {
	Envelope

	HotKeywords        []domain.Keyword       `json:"hot_keywords,omitempty"`
	TopicDistribution  []domain.CategoryShare `json:"topic_distribution,omitempty"`
	RelatedTopicGroups []domain.WordGroup     `json:"related_topic_groups,omitempty"`
}

// UpdateFrequency is the update time-of-day distribution, per platform
// and averaged over all platforms.
type UpdateFrequency struct {
	ByPlatform map[string]map[string]domain.TimeOfDayShare `json:"by_platform"`
	Overall    map[string]domain.TimeOfDayShare            `json:"overall"`
}

// PlatformComparisonResult is the platform comparison response.
type PlatformComparisonResult struct {
	Envelope

	PlatformStats    map[string]domain.PlatformStats `json:"platform_stats,omitempty"`
	PlatformRankings []domain.PlatformRanking        `json:"platform_rankings,omitempty"`
	UpdateFrequency  UpdateFrequency                 `json:"platform_update_frequency,omitzero"`
}

// CrossPlatformResult is the cross-platform cluster response.
type CrossPlatformResult struct {
	Envelope

	CommonTopics []domain.TopicCluster `json:"common_topics,omitempty"`
}

// SentimentAnalysis is the sentiment split, per platform and overall.
type SentimentAnalysis struct {
	Overall    domain.SentimentShare            `json:"overall"`
	ByPlatform map[string]domain.SentimentShare `json:"by_platform"`
}

// AdvancedResult is the advanced analysis response.
type AdvancedResult struct {
	Envelope

	KeywordClouds  map[string][]domain.Keyword `json:"keyword_clouds,omitempty"`
	Sentiment      SentimentAnalysis           `json:"sentiment_analysis,omitzero"`
	TrendEvolution []domain.Forecast           `json:"trend_evolution,omitempty"`
}

// KeywordCloudResult is the standalone keyword cloud response.
type KeywordCloudResult struct {
	Envelope

	KeywordClouds map[string][]domain.Keyword `json:"keyword_clouds,omitempty"`
}

// KeywordHeat is one row of the heat distribution matrix: a keyword's
// weight on each platform, aligned with HeatDistribution.Platforms.
type KeywordHeat struct {
	Keyword string    `json:"keyword"`
	Values  []float64 `json:"values"`
}

// HeatDistribution is the topic heat distribution matrix.
type HeatDistribution struct {
	Keywords  []string      `json:"keywords"`
	Platforms []string      `json:"platforms"`
	Data      []KeywordHeat `json:"data"`
}

// VisualizationResult is the data visualization response.
type VisualizationResult struct {
	Envelope

	TopicHeatDistribution HeatDistribution `json:"topic_heat_distribution,omitzero"`
	Platforms             []string         `json:"platforms,omitempty"`
}

// TrendForecastResult is the heat projection response.
type TrendForecastResult struct {
	Envelope

	TimeRange string            `json:"time_range,omitempty"`
	Forecasts []domain.Forecast `json:"forecasts,omitempty"`
}

// PlatformTrendReport splits platform growth into emerging and
// declining sides.
type PlatformTrendReport struct {
	Emerging  []domain.PlatformGrowth `json:"emerging"`
	Declining []domain.PlatformGrowth `json:"declining"`
}

// KeywordPredictionReport splits keyword movement into emerging and
// fading sides.
type KeywordPredictionReport struct {
	Emerging []domain.KeywordTrend `json:"emerging"`
	Fading   []domain.KeywordTrend `json:"fading"`
}

// PredictionResult is the multi-day trend prediction response.
type PredictionResult struct {
	Envelope

	RisingTopics       []domain.RisingTopic     `json:"rising_topics,omitempty"`
	PersistentTopics   []domain.PersistentTopic `json:"persistent_topics,omitempty"`
	PlatformTrends     PlatformTrendReport      `json:"platform_trends,omitzero"`
	KeywordPredictions KeywordPredictionReport  `json:"keyword_predictions,omitzero"`
	CategoryTrends     []domain.CategoryTrend   `json:"category_trends,omitempty"`
	PredictionWindow   string                   `json:"prediction_window,omitempty"`
}
