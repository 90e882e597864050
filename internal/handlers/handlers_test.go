package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/example/idverify/internal/auth"
	"github.com/example/idverify/internal/usecase"
)

const testJWTSecret = "test-secret"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.MaxMultipartMemory = MaxUploadSize

	uc := &usecase.VerificationUseCase{}
	RegisterRoutes(router, uc, auth.JWTMiddleware(testJWTSecret, ""))
	return router
}

func TestEnrollRejectsLargeUpload(t *testing.T) {
	router := newTestRouter()

	body, contentType := buildMultipartBody(t,
		map[string]string{"documentType": "passport"},
		"documentFront", "image/png", bytes.Repeat([]byte("a"), MaxUploadSize+1))

	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected status %d, got %d", http.StatusRequestEntityTooLarge, resp.Code)
	}
}

func TestEnrollRejectsUnsupportedContentType(t *testing.T) {
	router := newTestRouter()

	// Sniffed from magic bytes, not the declared Content-Type.
	body, contentType := buildMultipartBody(t,
		map[string]string{"documentType": "passport"},
		"documentFront", "image/png", []byte("plain text pretending to be a scan"))

	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status %d, got %d", http.StatusUnsupportedMediaType, resp.Code)
	}
}

func TestEnrollRequiresDocumentType(t *testing.T) {
	router := newTestRouter()

	body, contentType := buildMultipartBody(t, nil,
		"documentFront", "image/png", []byte("irrelevant"))

	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", contentType)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.Code)
	}
}

func TestIssueTokenRequiresUserID(t *testing.T) {
	router := newTestRouter()

	body, contentType := buildMultipartBody(t, nil,
		"selfie", "image/png", []byte("irrelevant"))

	req := httptest.NewRequest(http.MethodPost, "/token", body)
	req.Header.Set("Content-Type", contentType)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.Code)
	}
}

func TestIssueTokenRejectsUnsupportedSelfie(t *testing.T) {
	router := newTestRouter()

	body, contentType := buildMultipartBody(t,
		map[string]string{"userId": "1"},
		"selfie", "image/jpeg", []byte("not actually a jpeg"))

	req := httptest.NewRequest(http.MethodPost, "/token", body)
	req.Header.Set("Content-Type", contentType)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected status %d, got %d", http.StatusUnsupportedMediaType, resp.Code)
	}
}

func TestVerifyUserRequiresBearerToken(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/verify-user", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, resp.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.Code)
	}
}

func TestRespondFailureMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"user not found", usecase.ErrUserNotFound, http.StatusUnauthorized, "USER_NOT_FOUND", "authentication failed"},
		{"no registered image", usecase.ErrNoRegisteredImage, http.StatusUnauthorized, "NO_REGISTERED_IMAGE", "authentication failed"},
		{"face mismatch", usecase.ErrFaceMismatch, http.StatusUnauthorized, "FACE_MISMATCH", "authentication failed"},
		{"invalid token", usecase.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN", ""},
		{"token expired", usecase.ErrTokenExpired, http.StatusUnauthorized, "TOKEN_EXPIRED", ""},
		{"profile not found", usecase.ErrProfileNotFound, http.StatusUnauthorized, "PROFILE_NOT_FOUND", ""},
		{"invalid image", usecase.ErrInvalidImage, http.StatusUnprocessableEntity, "INVALID_IMAGE", ""},
		{"image load", usecase.ErrImageLoad, http.StatusUnprocessableEntity, "IMAGE_LOAD_ERROR", ""},
		{"no face detected", usecase.ErrNoFaceDetected, http.StatusUnprocessableEntity, "NO_FACE_DETECTED", ""},
		{"ocr engine", usecase.ErrOCREngine, http.StatusBadGateway, "OCR_ENGINE_ERROR", ""},
		{"face engine", usecase.ErrFaceEngine, http.StatusBadGateway, "FACE_ENGINE_ERROR", ""},
		{"face timeout", usecase.ErrFaceDetectionTimeout, http.StatusGatewayTimeout, "FACE_DETECTION_TIMEOUT", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(resp)

			respondFailure(c, tc.err)

			if resp.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, resp.Code)
			}

			var payload struct {
				Error string `json:"error"`
				Code  string `json:"code"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if payload.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, payload.Code)
			}
			if tc.message != "" && payload.Error != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, payload.Error)
			}
		})
	}
}

func TestOutcomeLabel(t *testing.T) {
	if got := outcomeLabel(nil); got != "ok" {
		t.Fatalf("expected ok, got %q", got)
	}
	if got := outcomeLabel(usecase.ErrFaceMismatch); got != "FACE_MISMATCH" {
		t.Fatalf("expected FACE_MISMATCH, got %q", got)
	}
	if got := outcomeLabel(errors.New("disk full")); got != "internal_error" {
		t.Fatalf("expected internal_error, got %q", got)
	}
}

func buildMultipartBody(t *testing.T, fields map[string]string, fileField, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			t.Fatalf("failed to write field %s: %v", name, err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="upload"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("failed to write payload: %v", err)
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	return body, writer.FormDataContentType()
}
