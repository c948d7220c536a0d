package service

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/facetrack/attendance-system/internal/core/domain"
)

func ident(code string, descriptors ...domain.Descriptor) domain.Identity {
	return domain.Identity{
		ID:           "id-" + code,
		DisplayName:  code,
		EmployeeCode: code,
		Descriptors:  descriptors,
		Active:       true,
	}
}

func TestLinearMatcherFindsClosest(t *testing.T) {
	m := NewLinearMatcher(0.5, zerolog.Nop())
	candidates := []domain.Identity{
		ident("EMP-001", domain.Descriptor{0.9, 0.9}),
		ident("EMP-002", domain.Descriptor{0.1, 0.1}),
		ident("EMP-003", domain.Descriptor{0.5, 0.5}),
	}

	got := m.FindBestMatch(domain.Descriptor{0.12, 0.1}, candidates)
	if got == nil {
		t.Fatal("expected a match, got nil")
	}
	if got.Identity.EmployeeCode != "EMP-002" {
		t.Errorf("matched %s, want EMP-002", got.Identity.EmployeeCode)
	}
}

func TestLinearMatcherThresholdBoundary(t *testing.T) {
	m := NewLinearMatcher(0.5, zerolog.Nop())

	// Exactly at the threshold is a match.
	at := m.FindBestMatch(domain.Descriptor{0}, []domain.Identity{
		ident("EMP-001", domain.Descriptor{0.5}),
	})
	if at == nil {
		t.Fatal("distance equal to the threshold must match")
	}
	if at.Distance != 0.5 {
		t.Errorf("distance = %v, want 0.5", at.Distance)
	}

	// Just above the threshold is rejected, even though the value would
	// round down to 0.5000 for reporting.
	above := m.FindBestMatch(domain.Descriptor{0}, []domain.Identity{
		ident("EMP-001", domain.Descriptor{0.50004}),
	})
	if above != nil {
		t.Errorf("distance above the threshold matched: %+v", above)
	}
}

func TestLinearMatcherSkipsMismatchedDimensions(t *testing.T) {
	m := NewLinearMatcher(0.5, zerolog.Nop())
	candidates := []domain.Identity{
		ident("EMP-001", domain.Descriptor{0.1, 0.1, 0.1}), // wrong dimension
		ident("EMP-002", domain.Descriptor{0.2, 0.2}),
	}

	got := m.FindBestMatch(domain.Descriptor{0.2, 0.2}, candidates)
	if got == nil {
		t.Fatal("expected the well-formed candidate to match")
	}
	if got.Identity.EmployeeCode != "EMP-002" {
		t.Errorf("matched %s, want EMP-002", got.Identity.EmployeeCode)
	}

	// All candidates malformed: no match, no panic.
	none := m.FindBestMatch(domain.Descriptor{0.2, 0.2}, []domain.Identity{
		ident("EMP-001", domain.Descriptor{0.1, 0.1, 0.1}),
	})
	if none != nil {
		t.Errorf("expected nil when every stored descriptor is malformed, got %+v", none)
	}
}

func TestLinearMatcherEmptyCandidates(t *testing.T) {
	m := NewLinearMatcher(0.5, zerolog.Nop())
	if got := m.FindBestMatch(domain.Descriptor{0.1}, nil); got != nil {
		t.Errorf("expected nil for empty candidate set, got %+v", got)
	}
}

func TestLinearMatcherTieKeepsFirst(t *testing.T) {
	m := NewLinearMatcher(0.5, zerolog.Nop())
	candidates := []domain.Identity{
		ident("EMP-001", domain.Descriptor{0.3}),
		ident("EMP-002", domain.Descriptor{0.3}),
	}

	got := m.FindBestMatch(domain.Descriptor{0.3}, candidates)
	if got == nil {
		t.Fatal("expected a match")
	}
	if got.Identity.EmployeeCode != "EMP-001" {
		t.Errorf("tie resolved to %s, want the first candidate EMP-001", got.Identity.EmployeeCode)
	}
}

func TestLinearMatcherRoundsReportedDistance(t *testing.T) {
	m := NewLinearMatcher(0.5, zerolog.Nop())
	got := m.FindBestMatch(domain.Descriptor{0}, []domain.Identity{
		ident("EMP-001", domain.Descriptor{0.12345}),
	})
	if got == nil {
		t.Fatal("expected a match")
	}
	if got.Distance != 0.1235 {
		t.Errorf("distance = %v, want 0.1235", got.Distance)
	}
}

func TestLinearMatcherDeterministic(t *testing.T) {
	m := NewLinearMatcher(0.5, zerolog.Nop())
	candidates := []domain.Identity{
		ident("EMP-001", domain.Descriptor{0.11, 0.22}, domain.Descriptor{0.15, 0.25}),
		ident("EMP-002", domain.Descriptor{0.4, 0.1}),
	}
	incoming := domain.Descriptor{0.14, 0.23}

	first := m.FindBestMatch(incoming, candidates)
	if first == nil {
		t.Fatal("expected a match")
	}
	for i := 0; i < 10; i++ {
		again := m.FindBestMatch(incoming, candidates)
		if again == nil || again.Identity.EmployeeCode != first.Identity.EmployeeCode || again.Distance != first.Distance {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func TestHNSWMatcherAgreesWithLinear(t *testing.T) {
	const dim = 16
	rng := rand.New(rand.NewSource(42))

	randomDescriptor := func() domain.Descriptor {
		d := make(domain.Descriptor, dim)
		for i := range d {
			d[i] = rng.Float64()
		}
		return d
	}

	candidates := make([]domain.Identity, 0, 20)
	for i := 0; i < 20; i++ {
		id := ident(fmt.Sprintf("EMP-%03d", i), randomDescriptor(), randomDescriptor())
		id.UpdatedAt = time.Now()
		candidates = append(candidates, id)
	}

	linear := NewLinearMatcher(0.5, zerolog.Nop())
	indexed := NewHNSWMatcher(0.5, zerolog.Nop())

	// Query with slight perturbations of known descriptors so matches exist.
	for i := 0; i < 20; i++ {
		base := candidates[i].Descriptors[0]
		query := make(domain.Descriptor, dim)
		for j := range query {
			query[j] = base[j] + 0.001
		}

		want := linear.FindBestMatch(query, candidates)
		got := indexed.FindBestMatch(query, candidates)

		if want == nil {
			if got != nil {
				t.Fatalf("query %d: linear found nothing, index found %s", i, got.Identity.EmployeeCode)
			}
			continue
		}
		if got == nil {
			t.Fatalf("query %d: linear matched %s, index found nothing", i, want.Identity.EmployeeCode)
		}
		if got.Identity.EmployeeCode != want.Identity.EmployeeCode || got.Distance != want.Distance {
			t.Errorf("query %d: index matched %s (%v), linear matched %s (%v)",
				i, got.Identity.EmployeeCode, got.Distance, want.Identity.EmployeeCode, want.Distance)
		}
	}
}

func TestHNSWMatcherRejectsMismatchedQuery(t *testing.T) {
	m := NewHNSWMatcher(0.5, zerolog.Nop())
	candidates := []domain.Identity{
		ident("EMP-001", domain.Descriptor{0.1, 0.2, 0.3}),
	}
	if got := m.FindBestMatch(domain.Descriptor{0.1, 0.2}, candidates); got != nil {
		t.Errorf("expected nil for mismatched query dimension, got %+v", got)
	}
}
