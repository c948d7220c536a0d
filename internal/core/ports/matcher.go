package ports

import (
	"github.com/facetrack/attendance-system/internal/core/domain"
)

// Matcher identifies the closest known identity to an incoming descriptor.
// Implementations are pure given their inputs: same descriptor, same
// candidate snapshot, same answer (up to tie-break ordering). A nil result
// means no candidate fell within the acceptance threshold.
//
// The candidate slice is a fresh read-only snapshot per call; implementations
// must not retain or mutate it.
type Matcher interface {
	FindBestMatch(incoming domain.Descriptor, candidates []domain.Identity) *domain.MatchResult
}
