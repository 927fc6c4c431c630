package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seo-optimizer/metacheck/logging"
)

// AnalyzedURLKey is the context key under which handlers store the page URL
// they analyzed, so it can be tracked after the request completes.
const AnalyzedURLKey = "analyzedURL"

// saveEvery is how many analysis requests pass between statistics saves.
const saveEvery = 100

// Stats tracks visitors and analysis requests.
func Stats(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		stats.TrackVisitor(c.ClientIP())

		c.Next()

		pageURL, ok := c.Get(AnalyzedURLKey)
		if !ok {
			return
		}
		loadTime := float64(time.Since(start).Milliseconds())
		stats.TrackAnalysis(pageURL.(string), loadTime, c.Writer.Status() >= 400)

		if stats.TotalRequests()%saveEvery == 0 {
			go func() {
				if err := stats.Save(); err != nil {
					slog.Error("failed to save statistics", "error", err)
				}
			}()
		}
	}
}
