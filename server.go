package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seo-optimizer/metacheck/analyzer"
	"github.com/seo-optimizer/metacheck/logging"
	"github.com/seo-optimizer/metacheck/middleware"
	"github.com/seo-optimizer/metacheck/preview"
	"github.com/seo-optimizer/metacheck/stats"
)

const (
	msgInvalidURL      = "Invalid URL provided"
	msgUnableToAnalyze = "Unable to analyze the page"
)

// server holds the dependencies of the HTTP handlers.
type server struct {
	analyzer    *analyzer.Analyzer
	statistics  *logging.Statistics
	monthly     *stats.Storage
	rateLimiter *middleware.RateLimiter
	devMode     bool
}

type analyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

type analyzeResponse struct {
	ID     string             `json:"id"`
	URL    string             `json:"url"`
	Tags   analyzer.TagRecord `json:"tags"`
	Report analyzer.Report    `json:"report"`
	View   preview.View       `json:"view"`
}

type monthlyEntry struct {
	Month        string             `json:"month"`
	Stats        stats.MonthlyStats `json:"stats"`
	AverageScore float64            `json:"averageScore"`
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(preview.Template())

	r.Use(middleware.ErrorHandler())
	r.Use(middleware.AccessLog())
	r.Use(middleware.CORS())
	r.Use(s.rateLimiter.RateLimit())
	r.Use(middleware.Stats(s.statistics))

	r.GET("/report", s.report)

	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
		api.POST("/analyze", s.analyze)
		api.GET("/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.statistics.Snapshot(s.devMode))
		})
		api.GET("/statistics/monthly", s.monthlyStatistics)
	}

	return r
}

// run executes one analysis and maps failures to an HTTP status and message.
func (s *server) run(c *gin.Context, rawURL string) (*analyzer.Analysis, int, string) {
	c.Set(middleware.AnalyzedURLKey, rawURL)

	analysis, err := s.analyzer.Analyze(c.Request.Context(), rawURL)
	switch {
	case err == nil:
		return analysis, http.StatusOK, ""
	case errors.Is(err, analyzer.ErrInvalidURL):
		return nil, http.StatusBadRequest, msgInvalidURL
	default:
		return nil, http.StatusBadGateway, msgUnableToAnalyze
	}
}

func (s *server) analyze(c *gin.Context) {
	var request analyzeRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgInvalidURL})
		return
	}

	analysis, status, msg := s.run(c, request.URL)
	if analysis == nil {
		c.JSON(status, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusOK, analyzeResponse{
		ID:     analysis.ID,
		URL:    analysis.URL,
		Tags:   analysis.Tags,
		Report: analysis.Report,
		View:   preview.Render(analysis.Report, analysis.Tags, analysis.URL),
	})
}

func (s *server) report(c *gin.Context) {
	analysis, status, msg := s.run(c, c.Query("url"))
	if analysis == nil {
		c.String(status, msg)
		return
	}

	view := preview.Render(analysis.Report, analysis.Tags, analysis.URL)
	c.HTML(http.StatusOK, preview.TemplateName, view)
}

func (s *server) monthlyStatistics(c *gin.Context) {
	months := s.monthly.GetAllMonths()
	out := make([]monthlyEntry, 0, len(months))
	for _, month := range months {
		m, ok := s.monthly.GetMonthlyStats(month)
		if !ok {
			continue
		}
		out = append(out, monthlyEntry{Month: month, Stats: m, AverageScore: m.AverageScore()})
	}
	c.JSON(http.StatusOK, out)
}
