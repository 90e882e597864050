// Package usecase implements the verification pipeline: enrollment from
// document scans, credential issuance gated on a face match, and credential
// validation.
package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/idverify/internal/facematch"
	"github.com/example/idverify/internal/logging"
	"github.com/example/idverify/internal/ocr"
	"github.com/example/idverify/internal/repository"
	"github.com/example/idverify/internal/storage"
)

// RecordStore defines the persistence operations needed by the use case.
type RecordStore interface {
	CreateEnrollment(ctx context.Context, user *repository.User, profile *repository.Profile, images []repository.Image, documents []repository.Document) error
	GetUser(ctx context.Context, userID uint) (*repository.User, error)
	GetProfileByUser(ctx context.Context, userID uint) (*repository.Profile, error)
	UpdateProfileCredential(ctx context.Context, userID uint, token string, expiry time.Time) error
	ListImagesForUser(ctx context.Context, userID uint) ([]repository.Image, error)
	CountRecordsForUser(ctx context.Context, userID uint) (images int64, documents int64, err error)
	AggregateVerificationStats(ctx context.Context, now time.Time) (*repository.VerificationStats, error)
}

// IdentityExtractor is the document-to-fields pipeline boundary.
type IdentityExtractor interface {
	ExtractIdentity(ctx context.Context, data []byte) (ocr.ExtractedIdentity, error)
}

// FaceComparer is the biometric comparison boundary.
type FaceComparer interface {
	CompareImages(ctx context.Context, a, b []byte) facematch.MatchResult
}

// Upload is one file received from the request layer.
type Upload struct {
	Data     []byte
	Filename string
}

// EnrollmentResult reports what enrollment derived from the document.
type EnrollmentResult struct {
	UserID      uint
	Name        string
	DateOfBirth *time.Time
	Verified    bool
}

// UserDetails is what a validated credential is allowed to see. Storage
// references stay internal; only counts go out.
type UserDetails struct {
	UserID        uint
	Name          string
	DateOfBirth   *time.Time
	Verified      bool
	ImageCount    int64
	DocumentCount int64
}

// Config carries the operational tunables for the use case.
type Config struct {
	JWTSecret   []byte
	JWTAudience string
	TokenTTL    time.Duration
	OCRTimeout  time.Duration
	FaceTimeout time.Duration
}

// VerificationUseCase owns the user verification lifecycle, from enrollment
// through credential issuance, expiry and re-issuance.
type VerificationUseCase struct {
	store     RecordStore
	blobs     storage.BlobStore
	extractor IdentityExtractor
	matcher   FaceComparer
	cache     Cache
	logger    *zap.Logger
	cfg       Config

	now            func() time.Time
	retryAttempts  int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewVerificationUseCase constructs a use case instance.
func NewVerificationUseCase(store RecordStore, blobs storage.BlobStore, extractor IdentityExtractor, matcher FaceComparer, cache Cache, cfg Config, logger *zap.Logger) *VerificationUseCase {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.OCRTimeout <= 0 {
		cfg.OCRTimeout = 30 * time.Second
	}
	if cfg.FaceTimeout <= 0 {
		cfg.FaceTimeout = 30 * time.Second
	}
	return &VerificationUseCase{
		store:          store,
		blobs:          blobs,
		extractor:      extractor,
		matcher:        matcher,
		cache:          cache,
		logger:         logger.Named("verification_usecase"),
		cfg:            cfg,
		now:            time.Now,
		retryAttempts:  3,
		initialBackoff: 50 * time.Millisecond,
		maxBackoff:     time.Second,
	}
}

// Enroll stores both document files, extracts identity fields from the
// front, and creates the user, profile, image and document records in one
// transaction. A document set without a single image-typed file still
// enrolls; credential issuance for that user later fails with
// NO_REGISTERED_IMAGE.
func (uc *VerificationUseCase) Enroll(ctx context.Context, documentType string, front, back Upload) (*EnrollmentResult, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.enroll", requestID)

	var (
		frontRef, backRef string
		identity          ocr.ExtractedIdentity
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ref, err := uc.blobs.Save(gctx, front.Data, front.Filename)
		if err != nil {
			return logging.NewOperationError("usecase.save_front", requestID, err)
		}
		frontRef = ref
		return nil
	})
	g.Go(func() error {
		ref, err := uc.blobs.Save(gctx, back.Data, back.Filename)
		if err != nil {
			return logging.NewOperationError("usecase.save_back", requestID, err)
		}
		backRef = ref
		return nil
	})
	g.Go(func() error {
		ocrCtx, cancel := context.WithTimeout(gctx, uc.cfg.OCRTimeout)
		defer cancel()
		extracted, err := uc.extractor.ExtractIdentity(ocrCtx, front.Data)
		if err != nil {
			return classifyExtraction(err)
		}
		identity = extracted
		return nil
	})
	if err := g.Wait(); err != nil {
		opLogger.Error("enrollment preparation failed", zap.Error(err))
		return nil, err
	}

	now := uc.now().UTC()
	user := &repository.User{
		Name:        identity.Name,
		DateOfBirth: identity.DateOfBirth,
		CreatedAt:   now,
	}
	profile := &repository.Profile{Verification: identity.Verified()}

	var images []repository.Image
	if isImageUpload(front.Data) {
		images = append(images, repository.Image{URL: frontRef, UploadDate: now})
	}
	if isImageUpload(back.Data) {
		images = append(images, repository.Image{URL: backRef, UploadDate: now})
	}

	documents := []repository.Document{
		{
			URL:           frontRef,
			Name:          uuid.NewString(),
			Type:          documentType,
			ExtractedText: identity.RawText,
			UploadDate:    now,
		},
		{
			URL:        backRef,
			Name:       uuid.NewString(),
			Type:       documentType,
			UploadDate: now,
		},
	}

	if err := uc.store.CreateEnrollment(ctx, user, profile, images, documents); err != nil {
		wrapped := logging.NewOperationError("usecase.create_enrollment", requestID, err)
		opLogger.Error("failed to persist enrollment", zap.Error(wrapped))
		return nil, wrapped
	}

	opLogger.Info("user enrolled",
		zap.Uint("user_id", user.ID),
		zap.Bool("verified", profile.Verification),
		zap.Int("image_records", len(images)))

	return &EnrollmentResult{
		UserID:      user.ID,
		Name:        user.Name,
		DateOfBirth: user.DateOfBirth,
		Verified:    profile.Verification,
	}, nil
}

// IssueCredential compares the selfie against the user's first registered
// document image and, on a match, mints a fresh credential and stores token
// and expiry atomically. Issuing overwrites any previous credential.
func (uc *VerificationUseCase) IssueCredential(ctx context.Context, userID uint, selfie Upload) (string, error) {
	requestID := uuid.NewString()
	opLogger := logging.WithOperation(uc.logger, "usecase.issue_credential", requestID)

	if _, err := uc.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", logging.NewOperationError("usecase.get_user", requestID, err)
	}

	images, err := uc.store.ListImagesForUser(ctx, userID)
	if err != nil {
		return "", logging.NewOperationError("usecase.list_images", requestID, err)
	}
	if len(images) == 0 {
		return "", ErrNoRegisteredImage
	}

	registered, err := uc.blobs.Resolve(ctx, images[0].URL)
	if err != nil {
		opLogger.Error("registered image unreadable", zap.Error(err), zap.Uint("user_id", userID))
		return "", ErrImageLoad
	}

	matchCtx, cancel := context.WithTimeout(ctx, uc.cfg.FaceTimeout)
	defer cancel()
	result := uc.matcher.CompareImages(matchCtx, registered, selfie.Data)
	if result.Code != "" {
		opLogger.Warn("face comparison failed",
			zap.String("code", result.Code),
			zap.Uint("user_id", userID))
		return "", classifyMatch(result)
	}
	if !result.IsMatch {
		opLogger.Warn("face mismatch",
			zap.Float64p("distance", result.Distance),
			zap.Uint("user_id", userID))
		return "", ErrFaceMismatch
	}

	token, expiry, err := uc.mintToken(userID)
	if err != nil {
		return "", logging.NewOperationError("usecase.mint_token", requestID, err)
	}

	if err := uc.store.UpdateProfileCredential(ctx, userID, token, expiry); err != nil {
		wrapped := logging.NewOperationError("usecase.update_credential", requestID, err)
		opLogger.Error("failed to persist credential", zap.Error(wrapped))
		return "", wrapped
	}

	opLogger.Info("credential issued", zap.Uint("user_id", userID), zap.Time("expiry", expiry))
	return token, nil
}

// ValidateCredential checks a presented token against the stored credential
// and, while it is live, returns the user's verification details. The
// Profile row is the only source for the token comparison: a cached copy
// could outlive a re-issuance and keep accepting the rotated-out token, so
// only the write-once identity details are ever served from the cache.
func (uc *VerificationUseCase) ValidateCredential(ctx context.Context, userID uint, presented string) (*UserDetails, error) {
	requestID := uuid.NewString()

	profile, err := uc.store.GetProfileByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, logging.NewOperationError("usecase.get_profile", requestID, err)
	}

	if profile.Token == nil || *profile.Token == "" || *profile.Token != presented {
		return nil, ErrInvalidToken
	}
	if profile.TokenExpiry == nil || !uc.now().UTC().Before(*profile.TokenExpiry) {
		return nil, ErrTokenExpired
	}

	details, err := uc.loadUserDetails(ctx, requestID, userID)
	if err != nil {
		return nil, err
	}
	details.Verified = profile.Verification
	return details, nil
}

// cachedDetails is the redis payload for a user's identity details. All of
// these fields are written once at enrollment and never change, so a stale
// entry cannot exist.
type cachedDetails struct {
	Name          string     `json:"name"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	ImageCount    int64      `json:"image_count"`
	DocumentCount int64      `json:"document_count"`
}

// loadUserDetails reads the identity details from the cache, falling back to
// the record store and repopulating the cache on the way out.
func (uc *VerificationUseCase) loadUserDetails(ctx context.Context, requestID string, userID uint) (*UserDetails, error) {
	opLogger := logging.WithOperation(uc.logger, "usecase.load_user_details", requestID)
	key := detailsKey(userID)

	if cached, err := uc.withRedisGet(ctx, requestID, "cache.get.user_details", key); err == nil {
		var payload cachedDetails
		if err := json.Unmarshal([]byte(cached), &payload); err != nil {
			opLogger.Warn("failed to decode cached details", zap.Error(err))
		} else if payload.Name != "" {
			return &UserDetails{
				UserID:        userID,
				Name:          payload.Name,
				DateOfBirth:   payload.DateOfBirth,
				ImageCount:    payload.ImageCount,
				DocumentCount: payload.DocumentCount,
			}, nil
		}
	} else if !isCacheMiss(err) {
		opLogger.Warn("failed to read cache", zap.Error(err))
	}

	user, err := uc.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, logging.NewOperationError("usecase.get_user", requestID, err)
	}

	imageCount, documentCount, countErr := uc.store.CountRecordsForUser(ctx, userID)
	if countErr != nil {
		opLogger.Warn("failed to count user records", zap.Error(countErr))
	}

	details := &UserDetails{
		UserID:        user.ID,
		Name:          user.Name,
		DateOfBirth:   user.DateOfBirth,
		ImageCount:    imageCount,
		DocumentCount: documentCount,
	}

	if countErr == nil {
		serialized, err := json.Marshal(cachedDetails{
			Name:          details.Name,
			DateOfBirth:   details.DateOfBirth,
			ImageCount:    details.ImageCount,
			DocumentCount: details.DocumentCount,
		})
		if err == nil {
			if err := uc.withRedisRetry(ctx, requestID, "cache.set.user_details", func() error {
				return uc.cache.Set(ctx, key, string(serialized), uc.cfg.TokenTTL)
			}); err != nil {
				opLogger.Warn("failed to cache user details", zap.Error(err))
			}
		}
	}

	return details, nil
}

func detailsKey(userID uint) string {
	return fmt.Sprintf("user_details:%d", userID)
}

func isImageUpload(data []byte) bool {
	return strings.HasPrefix(mimetype.Detect(data).String(), "image/")
}
