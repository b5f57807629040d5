// Package server exposes the analysis engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/hotboard-io/hotboard/internal/analysis"
	"github.com/hotboard-io/hotboard/internal/core/domain"
	"github.com/hotboard-io/hotboard/internal/observability"
)

const shutdownTimeout = 10 * time.Second

// newsArchive reads archived daily items. Optional; nil disables the
// daily-news endpoint.
type newsArchive interface {
	ListByDate(ctx context.Context, platform, date string) ([]domain.Item, error)
}

// Server is the public HTTP API.
type Server struct {
	engine  *analysis.Engine
	archive newsArchive
	port    int
	logger  *zerolog.Logger
}

// New builds a Server around the engine.
func New(engine *analysis.Engine, archive newsArchive, port int, logger *zerolog.Logger) *Server {
	return &Server{
		engine:  engine,
		archive: archive,
		port:    port,
		logger:  logger,
	}
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(s.requestMetrics)

	api := e.Group("/api/v1")
	api.GET("/analysis/trend", s.handleTrend)
	api.GET("/analysis/platform-comparison", s.handlePlatformComparison)
	api.GET("/analysis/cross-platform", s.handleCrossPlatform)
	api.GET("/analysis/advanced", s.handleAdvanced)
	api.GET("/analysis/keyword-cloud", s.handleKeywordCloud)
	api.GET("/analysis/data-visualization", s.handleVisualization)
	api.GET("/analysis/trend-forecast", s.handleTrendForecast)
	api.GET("/analysis/prediction", s.handlePrediction)
	api.GET("/daily-news", s.handleDailyNews)

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)

		defer cancel()

		_ = e.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Int("port", s.port).Msg("API server starting")

	if err := e.Start(fmt.Sprintf(":%d", s.port)); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}

	return nil
}

func (s *Server) requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		started := time.Now()

		err := next(c)

		observability.APIRequestDuration.WithLabelValues(
			c.Path(),
			strconv.Itoa(c.Response().Status),
		).Observe(time.Since(started).Seconds())

		return err
	}
}

// date resolves the date query parameter, defaulting to the current day
// in the operational timezone.
func (s *Server) date(c echo.Context) string {
	if date := c.QueryParam("date"); date != "" {
		return date
	}

	return s.engine.Today()
}

func refreshParam(c echo.Context) bool {
	refresh, _ := strconv.ParseBool(c.QueryParam("refresh"))

	return refresh
}

func (s *Server) handleTrend(c echo.Context) error {
	result, err := s.engine.MainThemes(c.Request().Context(), s.date(c), refreshParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handlePlatformComparison(c echo.Context) error {
	result, err := s.engine.PlatformComparison(c.Request().Context(), s.date(c), refreshParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleCrossPlatform(c echo.Context) error {
	result, err := s.engine.CrossPlatform(c.Request().Context(), s.date(c), refreshParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleAdvanced(c echo.Context) error {
	result, err := s.engine.Advanced(c.Request().Context(), s.date(c), refreshParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleKeywordCloud(c echo.Context) error {
	keywordCount, _ := strconv.Atoi(c.QueryParam("keyword_count"))

	result, err := s.engine.KeywordCloud(
		c.Request().Context(),
		s.date(c),
		c.QueryParam("category"),
		keywordCount,
		refreshParam(c),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleVisualization(c echo.Context) error {
	var platforms []string

	for _, p := range strings.Split(c.QueryParam("platforms"), ",") {
		if p = strings.TrimSpace(p); p != "" {
			platforms = append(platforms, p)
		}
	}

	result, err := s.engine.Visualization(c.Request().Context(), s.date(c), platforms, refreshParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleTrendForecast(c echo.Context) error {
	result, err := s.engine.TrendForecast(
		c.Request().Context(),
		s.date(c),
		c.QueryParam("time_range"),
		refreshParam(c),
	)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) handlePrediction(c echo.Context) error {
	result, err := s.engine.Prediction(c.Request().Context(), s.date(c), refreshParam(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

type dailyNewsResponse struct {
	Status   string        `json:"status"`
	Date     string        `json:"date"`
	Platform string        `json:"platform"`
	Items    []domain.Item `json:"items"`
}

func (s *Server) handleDailyNews(c echo.Context) error {
	if s.archive == nil {
		return echo.NewHTTPError(http.StatusNotImplemented, "archive not configured")
	}

	platform := c.QueryParam("platform")
	if platform == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "platform query parameter required")
	}

	date := s.date(c)

	items, err := s.archive.ListByDate(c.Request().Context(), platform, date)
	if err != nil {
		s.logger.Error().Err(err).Str("platform", platform).Str("date", date).Msg("archive read failed")

		return echo.NewHTTPError(http.StatusInternalServerError, "archive read failed")
	}

	return c.JSON(http.StatusOK, dailyNewsResponse{
		Status:   domain.StatusSuccess,
		Date:     date,
		Platform: platform,
		Items:    items,
	})
}
