// Package repository is the gorm-backed record store for enrollment and
// credential state.
package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/example/idverify/internal/logging"
)

// ErrNotFound reports a missing record, independent of the driver.
var ErrNotFound = errors.New("record not found")

// Repository provides persistence for users, profiles, images and
// documents. Multi-record writes are transactional; reads of hot paths go
// through a transient-error retry.
type Repository struct {
	db             *gorm.DB
	logger         *zap.Logger
	retryAttempts  int
	initialBackoff time.Duration
	maxBackoff     time.Duration
}

// NewRepository creates a repository with the default retry policy.
func NewRepository(db *gorm.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:             db,
		logger:         logger.Named("repository"),
		retryAttempts:  3,
		initialBackoff: 50 * time.Millisecond,
		maxBackoff:     time.Second,
	}
}

// AutoMigrate ensures the schema is available.
func (r *Repository) AutoMigrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&User{}, &Profile{}, &Image{}, &Document{})
}

// CreateEnrollment persists a new user with its profile, images and
// documents in one transaction. Foreign keys are filled in once the user
// row has an id; any failure rolls the whole insert back, so partial
// enrollment state is never visible.
func (r *Repository) CreateEnrollment(ctx context.Context, user *User, profile *Profile, images []Image, documents []Document) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		for i := range images {
			images[i].UserID = user.ID
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}

		for i := range documents {
			documents[i].UserID = user.ID
			if err := tx.Create(&documents[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetUser loads a user by id.
func (r *Repository) GetUser(ctx context.Context, userID uint) (*User, error) {
	var user User
	err := r.executeWithRetry(ctx, "repository.get_user", func() error {
		return r.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	})
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

// GetProfileByUser loads the profile for a user.
func (r *Repository) GetProfileByUser(ctx context.Context, userID uint) (*Profile, error) {
	var profile Profile
	err := r.executeWithRetry(ctx, "repository.get_profile", func() error {
		return r.db.WithContext(ctx).First(&profile, "user_id = ?", userID).Error
	})
	if err != nil {
		return nil, translateNotFound(err)
	}
	return &profile, nil
}

// UpdateProfileCredential stores a freshly issued credential. The profile is
// created lazily if enrollment somehow did not leave one behind. Token and
// expiry travel in a single UPDATE inside one transaction, so two
// concurrent issuances can interleave only whole credentials, never a token
// from one with the expiry of the other.
func (r *Repository) UpdateProfileCredential(ctx context.Context, userID uint, token string, expiry time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile Profile
		err := tx.First(&profile, "user_id = ?", userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = Profile{UserID: userID}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		return tx.Model(&Profile{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"token":        token,
				"token_expiry": expiry,
			}).Error
	})
}

// ListImagesForUser returns the user's registered images in upload order.
// The first entry is the one credential issuance compares against.
func (r *Repository) ListImagesForUser(ctx context.Context, userID uint) ([]Image, error) {
	var images []Image
	err := r.executeWithRetry(ctx, "repository.list_images", func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("image_id asc").
			Find(&images).Error
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

// CountRecordsForUser reports how many images and documents a user owns.
func (r *Repository) CountRecordsForUser(ctx context.Context, userID uint) (images int64, documents int64, err error) {
	if err = r.db.WithContext(ctx).Model(&Image{}).Where("user_id = ?", userID).Count(&images).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.WithContext(ctx).Model(&Document{}).Where("user_id = ?", userID).Count(&documents).Error; err != nil {
		return 0, 0, err
	}
	return images, documents, nil
}

// AggregateVerificationStats summarizes enrollment and credential state.
func (r *Repository) AggregateVerificationStats(ctx context.Context, now time.Time) (*VerificationStats, error) {
	var stats VerificationStats
	db := r.db.WithContext(ctx)
	if err := db.Model(&User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Profile{}).Where("verification = ?", true).Count(&stats.VerifiedProfiles).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&Profile{}).
		Where("token IS NOT NULL AND token_expiry > ?", now).
		Count(&stats.ActiveCredentials).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (r *Repository) executeWithRetry(ctx context.Context, operation string, fn func() error) error {
	backoff := r.initialBackoff
	opLogger := logging.WithOperation(r.logger, operation, "")
	var err error
	for attempt := 0; attempt < r.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return logging.NewOperationError(operation, "", ctx.Err())
			case <-time.After(backoff):
			}
			if next := backoff * 2; next <= r.maxBackoff {
				backoff = next
			}
		}

		err = fn()
		if err == nil {
			if attempt > 0 {
				opLogger.Info("database operation succeeded after retry", zap.Int("attempt", attempt+1))
			}
			return nil
		}
		if !isTransientError(err) || attempt == r.retryAttempts-1 {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				opLogger.Error("database operation failed", zap.Error(err), zap.Int("attempt", attempt+1))
			}
			return err
		}
		opLogger.Warn("transient database error", zap.Error(err), zap.Int("attempt", attempt+1))
	}
	return err
}

func isTransientError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var timeout interface{ Timeout() bool }
	if errors.As(err, &timeout) && timeout.Timeout() {
		return true
	}
	var temporary interface{ Temporary() bool }
	if errors.As(err, &temporary) && temporary.Temporary() {
		return true
	}
	return false
}
