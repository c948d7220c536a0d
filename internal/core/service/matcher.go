package service

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

// DefaultMatchThreshold is the maximum euclidean distance at which two
// descriptors are considered the same person.
const DefaultMatchThreshold = 0.5

// LinearMatcher scans every descriptor of every candidate and keeps the
// global minimum distance. A linear scan is deliberate: at hundreds to low
// thousands of identities the O(n·d) cost is negligible next to storage
// latency. Swap in HNSWMatcher behind the same port when that stops holding.
type LinearMatcher struct {
	threshold float64
	log       zerolog.Logger
}

func NewLinearMatcher(threshold float64, log zerolog.Logger) *LinearMatcher {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &LinearMatcher{threshold: threshold, log: log}
}

// FindBestMatch returns the closest candidate within the threshold, or nil.
// Ties keep the first minimal distance encountered; callers must not rely on
// deterministic tie-breaking across re-orderings of the candidate set.
// A stored descriptor whose length differs from the incoming one is skipped
// and logged — one malformed row must not abort the whole scan.
func (m *LinearMatcher) FindBestMatch(incoming domain.Descriptor, candidates []domain.Identity) *domain.MatchResult {
	best := -1
	minDistance := math.Inf(1)

	for i := range candidates {
		for j, d := range candidates[i].Descriptors {
			if len(d) != len(incoming) {
				m.log.Warn().
					Str("employee_code", candidates[i].EmployeeCode).
					Int("descriptor_index", j).
					Int("stored_len", len(d)).
					Int("incoming_len", len(incoming)).
					Msg("descriptor dimension mismatch, skipping")
				continue
			}
			if dist := euclideanDistance(incoming, d); dist < minDistance {
				minDistance = dist
				best = i
			}
		}
	}

	if best < 0 || minDistance > m.threshold {
		return nil
	}

	return &domain.MatchResult{
		Identity: candidates[best],
		Distance: roundDistance(minDistance),
	}
}

func euclideanDistance(a, b domain.Descriptor) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return math.Sqrt(sum)
}

// roundDistance trims the reported distance to 4 decimal places. The
// threshold comparison always uses the raw value.
func roundDistance(d float64) float64 {
	return math.Round(d*10000) / 10000
}

var _ ports.Matcher = (*LinearMatcher)(nil)
