package usecase

import "context"

// StatsSummary represents aggregated verification insights.
type StatsSummary struct {
	TotalUsers        int64   `json:"total_users"`
	VerifiedProfiles  int64   `json:"verified_profiles"`
	ActiveCredentials int64   `json:"active_credentials"`
	VerifiedRate      float64 `json:"verified_rate"`
}

// GetStatsSummary aggregates verification state from persisted records.
func (uc *VerificationUseCase) GetStatsSummary(ctx context.Context) (*StatsSummary, error) {
	stats, err := uc.store.AggregateVerificationStats(ctx, uc.now().UTC())
	if err != nil {
		return nil, err
	}

	summary := &StatsSummary{
		TotalUsers:        stats.TotalUsers,
		VerifiedProfiles:  stats.VerifiedProfiles,
		ActiveCredentials: stats.ActiveCredentials,
	}
	if stats.TotalUsers > 0 {
		summary.VerifiedRate = float64(stats.VerifiedProfiles) / float64(stats.TotalUsers)
	}
	return summary, nil
}
