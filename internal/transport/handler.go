package transport

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	apperrors "performative-scorer/internal/errors"
	"performative-scorer/internal/logger"
	"performative-scorer/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// HandlerConfig carries the transport-level tunables.
type HandlerConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

func NewHandler(svc service.AnalysisService, cfg HandlerConfig) http.Handler {
	r := gin.Default()

	r.Use(requestSizeLimiter(cfg.MaxRequestBodySize))

	r.GET("/health", healthCheck(svc))
	r.POST("/analyze", analyzeImage(svc, cfg.RequestTimeout))

	return r
}

// analyzeImage accepts a multipart upload under the "image" field and
// returns the score result directly as the response body.
func analyzeImage(svc service.AnalysisService, timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing analysis request")

		fileHeader, err := c.FormFile("image")
		if err != nil {
			respondError(c, http.StatusBadRequest, "No image provided", err)
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondError(c, http.StatusBadRequest, "No image provided", err)
			return
		}
		defer file.Close()

		imageData, err := io.ReadAll(file)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Failed to read image", err)
			return
		}
		if len(imageData) == 0 {
			respondError(c, http.StatusBadRequest, "Empty image file", nil)
			return
		}

		result, err := svc.Analyze(ctx, imageData)
		if err != nil {
			code := apperrors.GetStatusCode(err)
			if errors.Is(err, context.DeadlineExceeded) {
				code = http.StatusGatewayTimeout
			}
			message := "Analysis failed"
			if appErr, ok := err.(*apperrors.AppError); ok && appErr.StatusCode < http.StatusInternalServerError {
				message = appErr.Message
			}
			respondError(c, code, message, err)
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func healthCheck(svc service.AnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Health(c.Request.Context()))
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// respondError logs the failure with its cause and returns a stable
// client-facing message. Server-side detail never leaks into 5xx
// bodies.
func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}
