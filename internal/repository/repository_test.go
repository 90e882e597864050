package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestRepository(t *testing.T) (*Repository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := NewRepository(db, zap.NewNop())
	repo.initialBackoff = time.Millisecond
	repo.maxBackoff = 2 * time.Millisecond
	require.NoError(t, repo.AutoMigrate(context.Background()))
	return repo, db
}

func sampleEnrollment(name string) (*User, *Profile, []Image, []Document) {
	now := time.Now().UTC().Truncate(time.Second)
	user := &User{Name: name, CreatedAt: now}
	profile := &Profile{Verification: true}
	images := []Image{
		{URL: "2026/02/01/front.png", UploadDate: now},
		{URL: "2026/02/01/back.png", UploadDate: now},
	}
	documents := []Document{
		{URL: "2026/02/01/front.png", Name: name + "-front", Type: "passport", ExtractedText: name, UploadDate: now},
		{URL: "2026/02/01/back.png", Name: name + "-back", Type: "passport", UploadDate: now},
	}
	return user, profile, images, documents
}

func TestCreateEnrollmentPersistsAllRecords(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	user, profile, images, documents := sampleEnrollment("Jane Doe")
	require.NoError(t, repo.CreateEnrollment(ctx, user, profile, images, documents))
	require.NotZero(t, user.ID)

	loaded, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", loaded.Name)

	loadedProfile, err := repo.GetProfileByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, loadedProfile.Verification)
	assert.Nil(t, loadedProfile.Token)

	imageCount, documentCount, err := repo.CountRecordsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), imageCount)
	assert.Equal(t, int64(2), documentCount)
}

func TestCreateEnrollmentRollsBackOnDuplicateDocumentName(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	user, profile, images, documents := sampleEnrollment("Jane Doe")
	require.NoError(t, repo.CreateEnrollment(ctx, user, profile, images, documents))

	// Same document names collide on the unique index; the duplicate
	// enrollment must leave no rows behind.
	dupUser, dupProfile, dupImages, dupDocuments := sampleEnrollment("Jane Doe")
	err := repo.CreateEnrollment(ctx, dupUser, dupProfile, dupImages, dupDocuments)
	require.Error(t, err)

	var userCount, imageCount int64
	require.NoError(t, db.Model(&User{}).Count(&userCount).Error)
	require.NoError(t, db.Model(&Image{}).Count(&imageCount).Error)
	assert.Equal(t, int64(1), userCount)
	assert.Equal(t, int64(2), imageCount)
}

func TestGetUserNotFound(t *testing.T) {
	repo, _ := newTestRepository(t)

	_, err := repo.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetProfileByUser(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfileCredentialSetsBothFields(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	user, profile, images, documents := sampleEnrollment("Jane Doe")
	require.NoError(t, repo.CreateEnrollment(ctx, user, profile, images, documents))

	expiry := time.Now().UTC().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, repo.UpdateProfileCredential(ctx, user.ID, "token-one", expiry))

	loaded, err := repo.GetProfileByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Token)
	require.NotNil(t, loaded.TokenExpiry)
	assert.Equal(t, "token-one", *loaded.Token)
	assert.WithinDuration(t, expiry, *loaded.TokenExpiry, time.Second)

	// Re-issuing replaces the whole credential.
	laterExpiry := expiry.Add(time.Hour)
	require.NoError(t, repo.UpdateProfileCredential(ctx, user.ID, "token-two", laterExpiry))

	loaded, err = repo.GetProfileByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "token-two", *loaded.Token)
	assert.WithinDuration(t, laterExpiry, *loaded.TokenExpiry, time.Second)
}

func TestUpdateProfileCredentialCreatesMissingProfile(t *testing.T) {
	repo, db := newTestRepository(t)
	ctx := context.Background()

	user := &User{Name: "Jane Doe", CreatedAt: time.Now().UTC()}
	require.NoError(t, db.Create(user).Error)

	expiry := time.Now().UTC().Add(time.Hour)
	require.NoError(t, repo.UpdateProfileCredential(ctx, user.ID, "token-one", expiry))

	loaded, err := repo.GetProfileByUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Token)
	assert.Equal(t, "token-one", *loaded.Token)
}

func TestListImagesForUserKeepsUploadOrder(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	user, profile, images, documents := sampleEnrollment("Jane Doe")
	require.NoError(t, repo.CreateEnrollment(ctx, user, profile, images, documents))

	listed, err := repo.ListImagesForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, "2026/02/01/front.png", listed[0].URL)
	assert.Equal(t, "2026/02/01/back.png", listed[1].URL)

	empty, err := repo.ListImagesForUser(ctx, user.ID+1)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestAggregateVerificationStats(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	now := time.Now().UTC()

	verified, verifiedProfile, images, documents := sampleEnrollment("Jane Doe")
	require.NoError(t, repo.CreateEnrollment(ctx, verified, verifiedProfile, images, documents))
	require.NoError(t, repo.UpdateProfileCredential(ctx, verified.ID, "live-token", now.Add(time.Hour)))

	expired, expiredProfile, _, _ := sampleEnrollment("John Roe")
	expiredProfile.Verification = false
	require.NoError(t, repo.CreateEnrollment(ctx, expired, expiredProfile, nil, nil))
	require.NoError(t, repo.UpdateProfileCredential(ctx, expired.ID, "stale-token", now.Add(-time.Hour)))

	stats, err := repo.AggregateVerificationStats(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalUsers)
	assert.Equal(t, int64(1), stats.VerifiedProfiles)
	assert.Equal(t, int64(1), stats.ActiveCredentials)
}

type transientTestError struct{}

func (transientTestError) Error() string   { return "transient" }
func (transientTestError) Timeout() bool   { return true }
func (transientTestError) Temporary() bool { return true }

func TestExecuteWithRetryRetriesTransientErrors(t *testing.T) {
	repo := &Repository{
		logger:         zap.NewNop(),
		retryAttempts:  3,
		initialBackoff: time.Millisecond,
		maxBackoff:     2 * time.Millisecond,
	}

	attempts := 0
	err := repo.executeWithRetry(context.Background(), "test.operation", func() error {
		attempts++
		if attempts < 2 {
			return transientTestError{}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestExecuteWithRetryFailsFastOnPermanentErrors(t *testing.T) {
	repo := &Repository{
		logger:         zap.NewNop(),
		retryAttempts:  3,
		initialBackoff: time.Millisecond,
		maxBackoff:     2 * time.Millisecond,
	}

	permanent := errors.New("constraint violated")
	attempts := 0
	err := repo.executeWithRetry(context.Background(), "test.operation", func() error {
		attempts++
		return permanent
	})

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, attempts)
}
