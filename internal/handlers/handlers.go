// Package handlers wires the verification operations to HTTP. Every
// expected failure maps to a deterministic status plus its stable machine
// code; nothing internal leaks into responses.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/idverify/internal/auth"
	"github.com/example/idverify/internal/metrics"
	"github.com/example/idverify/internal/usecase"
)

// MaxUploadSize caps every uploaded file.
const MaxUploadSize = 10 << 20

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"application/pdf": true,
}

// RegisterRoutes wires the HTTP handlers to the Gin router.
func RegisterRoutes(router *gin.Engine, uc *usecase.VerificationUseCase, authMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/documents", func(c *gin.Context) {
		start := time.Now()

		documentType := c.PostForm("documentType")
		if documentType == "" || len(documentType) > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "documentType is required"})
			return
		}

		front, ok := readUpload(c, "documentFront")
		if !ok {
			return
		}
		back, ok := readUpload(c, "documentBack")
		if !ok {
			return
		}

		result, err := uc.Enroll(c.Request.Context(), documentType, front, back)
		metrics.Enrollments.WithLabelValues(outcomeLabel(err)).Inc()
		metrics.PipelineDuration.WithLabelValues("enroll").Observe(time.Since(start).Seconds())
		if err != nil {
			respondFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"userId":        result.UserID,
			"name":          result.Name,
			"date_of_birth": formatDate(result.DateOfBirth),
			"verified":      result.Verified,
		})
	})

	router.POST("/token", func(c *gin.Context) {
		start := time.Now()

		userID, err := strconv.ParseUint(c.PostForm("userId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
			return
		}

		selfie, ok := readUpload(c, "selfie")
		if !ok {
			return
		}

		token, err := uc.IssueCredential(c.Request.Context(), uint(userID), selfie)
		metrics.CredentialIssuances.WithLabelValues(outcomeLabel(err)).Inc()
		metrics.PipelineDuration.WithLabelValues("issue_credential").Observe(time.Since(start).Seconds())
		if err != nil {
			respondFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"access_token": token})
	})

	router.GET("/verify-user", authMiddleware, func(c *gin.Context) {
		ctx := c.Request.Context()
		userID, okID := auth.GetUserID(ctx)
		token, okToken := auth.GetToken(ctx)
		if !okID || !okToken {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		details, err := uc.ValidateCredential(ctx, userID, token)
		metrics.CredentialValidations.WithLabelValues(outcomeLabel(err)).Inc()
		if err != nil {
			respondFailure(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"userId":          details.UserID,
			"name":            details.Name,
			"date_of_birth":   formatDate(details.DateOfBirth),
			"verified":        details.Verified,
			"images_count":    details.ImageCount,
			"documents_count": details.DocumentCount,
		})
	})

	router.GET("/stats", func(c *gin.Context) {
		summary, err := uc.GetStatsSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate stats"})
			return
		}
		c.JSON(http.StatusOK, summary)
	})
}

// readUpload pulls one multipart file, enforcing the size cap and allowed
// content types by magic bytes rather than the client-declared type. It
// writes the error response itself when the upload is rejected.
func readUpload(c *gin.Context, field string) (usecase.Upload, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": field + " file is required"})
		return usecase.Upload{}, false
	}
	if file.Size > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return usecase.Upload{}, false
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to open " + field})
		return usecase.Upload{}, false
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read " + field})
		return usecase.Upload{}, false
	}
	if int64(len(data)) > MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return usecase.Upload{}, false
	}

	if !allowedUploadTypes[mimetype.Detect(data).String()] {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported file type"})
		return usecase.Upload{}, false
	}

	return usecase.Upload{Data: data, Filename: file.Filename}, true
}

// respondFailure maps an expected failure to its transport response. The
// authentication-adjacent codes share a single 401 so responses do not
// reveal whether a user exists or has registered images.
func respondFailure(c *gin.Context, err error) {
	var failure *usecase.Failure
	if !errors.As(err, &failure) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "an unexpected error occurred"})
		return
	}

	status := http.StatusInternalServerError
	message := failure.Message
	switch failure {
	case usecase.ErrUserNotFound, usecase.ErrNoRegisteredImage, usecase.ErrFaceMismatch:
		status = http.StatusUnauthorized
		message = "authentication failed"
	case usecase.ErrProfileNotFound, usecase.ErrInvalidToken, usecase.ErrTokenExpired:
		status = http.StatusUnauthorized
	case usecase.ErrInvalidImage, usecase.ErrImageLoad, usecase.ErrNoFaceDetected:
		status = http.StatusUnprocessableEntity
	case usecase.ErrOCREngine, usecase.ErrFaceEngine:
		status = http.StatusBadGateway
	case usecase.ErrFaceDetectionTimeout:
		status = http.StatusGatewayTimeout
	}

	c.JSON(status, gin.H{"error": message, "code": failure.Code})
}

// outcomeLabel is the metric label for a pipeline result: "ok" on success,
// the stable code for expected failures, and "internal_error" for anything
// unclassified so infrastructure failures never count as successes.
func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	if code := usecase.FailureCode(err); code != "" {
		return code
	}
	return "internal_error"
}

func formatDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format("2006-01-02")
}
