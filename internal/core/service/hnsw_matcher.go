package service

import (
	"sync"
	"time"

	"github.com/coder/hnsw"
	"github.com/rs/zerolog"

	"github.com/facetrack/attendance-system/internal/core/domain"
	"github.com/facetrack/attendance-system/internal/core/ports"
)

const hnswMaxNeighbors = 16

// rescoreK is how many approximate neighbors are pulled from the graph
// before exact re-scoring picks the winner.
const rescoreK = 4

// HNSWMatcher is the indexed alternative to LinearMatcher for large identity
// sets. It keeps a graph built from the last candidate snapshot and rebuilds
// only when the snapshot fingerprint changes, so steady-state marks pay
// O(log n) instead of a full scan.
//
// HNSW search is approximate; the final accept/reject decision always uses
// the exact euclidean distance recomputed over the shortlisted neighbors.
type HNSWMatcher struct {
	threshold float64
	log       zerolog.Logger

	mu          sync.Mutex
	graph       *hnsw.Graph[int]
	dim         int
	nodeToIdent []int // graph node key → candidate index
	fingerprint snapshotFingerprint
}

type snapshotFingerprint struct {
	identities  int
	descriptors int
	latest      time.Time
}

func NewHNSWMatcher(threshold float64, log zerolog.Logger) *HNSWMatcher {
	if threshold <= 0 {
		threshold = DefaultMatchThreshold
	}
	return &HNSWMatcher{threshold: threshold, log: log}
}

// FindBestMatch returns the closest candidate within the threshold, or nil.
func (m *HNSWMatcher) FindBestMatch(incoming domain.Descriptor, candidates []domain.Identity) *domain.MatchResult {
	if len(incoming) == 0 || len(candidates) == 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fp := fingerprintOf(candidates)
	if m.graph == nil || fp != m.fingerprint {
		m.rebuild(candidates)
		m.fingerprint = fp
	}
	if m.graph == nil {
		return nil
	}

	if len(incoming) != m.dim {
		m.log.Warn().Int("incoming_len", len(incoming)).Int("index_dim", m.dim).
			Msg("descriptor dimension mismatch, cannot search index")
		return nil
	}

	query := toFloat32(incoming)
	neighbors := m.graph.Search(query, rescoreK)

	best := -1
	minDistance := m.threshold + 1
	for _, n := range neighbors {
		idx := m.nodeToIdent[n.Key]
		for _, d := range candidates[idx].Descriptors {
			if len(d) != len(incoming) {
				continue
			}
			if dist := euclideanDistance(incoming, d); dist < minDistance {
				minDistance = dist
				best = idx
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

// rebuild replaces the cached graph from the candidate snapshot. The index
// dimension follows the first descriptor seen; rows with another length are
// skipped, matching the linear matcher's policy.
func (m *HNSWMatcher) rebuild(candidates []domain.Identity) {
	g := hnsw.NewGraph[int]()
	g.M = hnswMaxNeighbors
	g.Ml = 1.0 / float64(hnswMaxNeighbors)
	g.Distance = hnsw.EuclideanDistance

	m.dim = 0
	m.nodeToIdent = m.nodeToIdent[:0]

	key := 0
	for i := range candidates {
		for j, d := range candidates[i].Descriptors {
			if len(d) == 0 {
				continue
			}
			if m.dim == 0 {
				m.dim = len(d)
			}
			if len(d) != m.dim {
				m.log.Warn().Str("employee_code", candidates[i].EmployeeCode).
					Int("descriptor_index", j).Msg("descriptor dimension mismatch, not indexed")
				continue
			}
			g.Add(hnsw.MakeNode(key, toFloat32(d)))
			m.nodeToIdent = append(m.nodeToIdent, i)
			key++
		}
	}

	if key == 0 {
		m.graph = nil
		return
	}
	m.graph = g
	m.log.Debug().Int("nodes", key).Int("identities", len(candidates)).Msg("matcher index rebuilt")
}

func fingerprintOf(candidates []domain.Identity) snapshotFingerprint {
	fp := snapshotFingerprint{identities: len(candidates)}
	for i := range candidates {
		fp.descriptors += len(candidates[i].Descriptors)
		if candidates[i].UpdatedAt.After(fp.latest) {
			fp.latest = candidates[i].UpdatedAt
		}
	}
	return fp
}

func toFloat32(d domain.Descriptor) []float32 {
	out := make([]float32, len(d))
	for i, v := range d {
		out[i] = float32(v)
	}
	return out
}

var _ ports.Matcher = (*HNSWMatcher)(nil)
