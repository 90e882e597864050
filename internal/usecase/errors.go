package usecase

import (
	"errors"

	"github.com/example/idverify/internal/facematch"
	"github.com/example/idverify/internal/imaging"
	"github.com/example/idverify/internal/ocr"
)

// Failure is an expected, user-visible outcome: a stable machine code plus
// a human message. Internal detail (paths, stack state, driver errors)
// never rides along.
type Failure struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (f *Failure) Error() string {
	return f.Message
}

// Every expected failure of the verification pipeline, per code.
var (
	ErrInvalidImage         = &Failure{Code: "INVALID_IMAGE", Message: "image could not be decoded"}
	ErrOCREngine            = &Failure{Code: "OCR_ENGINE_ERROR", Message: "text extraction failed"}
	ErrImageLoad            = &Failure{Code: "IMAGE_LOAD_ERROR", Message: "stored image could not be loaded"}
	ErrNoFaceDetected       = &Failure{Code: "NO_FACE_DETECTED", Message: "no face found in image"}
	ErrFaceDetectionTimeout = &Failure{Code: "FACE_DETECTION_TIMEOUT", Message: "face detection timed out"}
	ErrFaceEngine           = &Failure{Code: "FACE_ENGINE_ERROR", Message: "face verification failed"}
	ErrFaceMismatch         = &Failure{Code: "FACE_MISMATCH", Message: "face does not match registered document"}
	ErrNoRegisteredImage    = &Failure{Code: "NO_REGISTERED_IMAGE", Message: "no registered image for user"}
	ErrUserNotFound         = &Failure{Code: "USER_NOT_FOUND", Message: "user not found"}
	ErrProfileNotFound      = &Failure{Code: "PROFILE_NOT_FOUND", Message: "profile not found"}
	ErrInvalidToken         = &Failure{Code: "INVALID_TOKEN", Message: "credential token is not valid"}
	ErrTokenExpired         = &Failure{Code: "TOKEN_EXPIRED", Message: "credential token has expired"}
)

// FailureCode extracts the machine code from an error, or empty when the
// error is not an expected failure.
func FailureCode(err error) string {
	var failure *Failure
	if errors.As(err, &failure) {
		return failure.Code
	}
	return ""
}

// classifyExtraction maps extraction-layer errors onto the taxonomy.
func classifyExtraction(err error) error {
	switch {
	case errors.Is(err, imaging.ErrInvalidImage):
		return ErrInvalidImage
	case errors.Is(err, ocr.ErrEngine):
		return ErrOCREngine
	default:
		return err
	}
}

// classifyMatch maps a failed MatchResult onto the taxonomy.
func classifyMatch(result facematch.MatchResult) error {
	switch result.Code {
	case facematch.CodeNoFaceDetected:
		return ErrNoFaceDetected
	case facematch.CodeFaceDetectionTimeout:
		return ErrFaceDetectionTimeout
	case facematch.CodeImageLoadError:
		return ErrImageLoad
	default:
		return ErrFaceEngine
	}
}
