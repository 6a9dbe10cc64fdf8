package transport

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go-ecoscan/internal/config"
	apperrors "go-ecoscan/internal/errors"
	"go-ecoscan/internal/logger"
	"go-ecoscan/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AnalysisRequest struct {
	Image string `json:"image" binding:"required"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewHandler(analysis service.AnalysisService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		corsMiddleware(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	// Configure routes
	r.GET("/health", healthCheck)
	r.GET("/latest", latestComparison(analysis))
	r.POST("/analyze", analyzeProduct(analysis, cfg))

	return r
}

// corsMiddleware allows browser clients from any origin, matching the headers
// the web client sends on preflight.
func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"authorization", "x-client-info", "apikey", "content-type"},
		MaxAge:          12 * time.Hour,
	})
}

func analyzeProduct(analysis service.AnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing product analysis request")

		var req AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "No image data provided", err)
			return
		}

		response, err := analysis.AnalyzeProduct(ctx, req.Image)
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				err = apperrors.NewTimeoutError("analysis timed out", err)
			}

			logger.WithError(err).WithFields(logrus.Fields{
				"ip": c.ClientIP(),
			}).Error("Product analysis failed")

			respondError(c, apperrors.GetStatusCode(err), err.Error(), err)
			return
		}

		duration := time.Since(startTime)
		logger.WithFields(logrus.Fields{
			"processing_time_ms":  duration.Milliseconds(),
			"total_ingredients":   response.TotalIngredients,
			"matched_ingredients": response.MatchedIngredients,
		}).Info("Product analysis completed successfully")

		c.JSON(http.StatusOK, response)
	}
}

// latestComparison serves the most recent comparison result so page reloads
// do not trigger a fresh provider round trip.
func latestComparison(analysis service.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, ok := analysis.LatestComparison()
		if !ok {
			respondError(c, http.StatusNotFound, "no analysis has completed yet",
				apperrors.NewNotFoundError("no cached comparison", nil))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error: message,
	})
}
