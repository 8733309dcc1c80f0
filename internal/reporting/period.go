package reporting

import "github.com/boddenberg/smb-dashboard-bfa/internal/domain"

// FilterPeriod returns the trailing buckets covered by period, in source
// order. The result is a fresh slice; buckets is never modified. Unknown
// periods behave like domain.DefaultPeriod.
func FilterPeriod(buckets []domain.MonthlyBucket, period domain.Period) []domain.MonthlyBucket {
	n := domain.ParsePeriod(string(period)).Buckets()
	if n > len(buckets) {
		n = len(buckets)
	}
	out := make([]domain.MonthlyBucket, n)
	copy(out, buckets[len(buckets)-n:])
	return out
}
