package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	memclock "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/clock"
	memprofilerepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/profilerepo"
	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/authgw"
)

// fakeVerifier maps tokens onto identities.
type fakeVerifier struct {
	mu         sync.Mutex
	identities map[string]authgw.Identity
	calls      int
}

func (v *fakeVerifier) Verify(ctx context.Context, token string) (authgw.Identity, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls++
	ident, ok := v.identities[token]
	if !ok {
		return authgw.Identity{}, authgw.ErrUnauthenticated
	}
	return ident, nil
}

func newTestService(idents map[string]authgw.Identity) (*Service, *memprofilerepo.Repo) {
	repo := memprofilerepo.NewRepo()
	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	svc := NewService(&fakeVerifier{identities: idents}, repo, clk)
	return svc, repo
}

func TestResolve_InvalidSession(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(nil)

	for _, token := range []string{"", "   ", "bogus"} {
		_, err := svc.Resolve(context.Background(), token)
		ae := (*apperr.Error)(nil)
		if !errors.As(err, &ae) || ae.Status != 401 {
			t.Errorf("token=%q: err=%v, want 401", token, err)
		}
	}
}

func TestResolve_BootstrapsDefaultProfile(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(map[string]authgw.Identity{
		"tok-1": {ID: "id-1", Email: "alice@example.com"},
	})

	p, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if p.ID != domain.ProfileID("id-1") || p.Email != "alice@example.com" {
		t.Fatalf("profile=%+v", p)
	}
	if p.DisplayName != "alice" {
		t.Fatalf("displayName=%q, want email local-part", p.DisplayName)
	}
	if p.Role != domain.RoleMember {
		t.Fatalf("role=%q, want member", p.Role)
	}
	if p.DietaryNote != nil {
		t.Fatalf("dietaryNote=%v, want nil", *p.DietaryNote)
	}
}

func TestResolve_UsesPendingRegistrationValues(t *testing.T) {
	t.Parallel()

	name := "  Alice   Smith "
	note := "no peanuts"
	svc, _ := newTestService(map[string]authgw.Identity{
		"tok-1": {ID: "id-1", Email: "alice@example.com", PendingDisplayName: &name, PendingDietaryNote: &note},
	})

	p, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if p.DisplayName != "Alice Smith" {
		t.Fatalf("displayName=%q", p.DisplayName)
	}
	if p.DietaryNote == nil || *p.DietaryNote != "no peanuts" {
		t.Fatalf("dietaryNote=%v", p.DietaryNote)
	}
}

func TestResolve_FallbackDisplayName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(map[string]authgw.Identity{
		"tok-1": {ID: "id-1", Email: ""},
	})

	p, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if p.DisplayName != "Snack Lover" {
		t.Fatalf("displayName=%q", p.DisplayName)
	}
}

func TestResolve_SecondCallReturnsSameProfile(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(map[string]authgw.Identity{
		"tok-1": {ID: "id-1", Email: "alice@example.com"},
	})

	first, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}

	// Mutate the stored name; a second resolve must return the stored row, not
	// re-synthesize defaults.
	stored, _ := repo.GetByID(context.Background(), first.ID)
	stored.DisplayName = "Alice Prime"
	stored.UpdatedAt = stored.UpdatedAt.Add(time.Minute)
	if err := repo.Update(context.Background(), stored); err != nil {
		t.Fatalf("Update err=%v", err)
	}

	second, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}
	if second.DisplayName != "Alice Prime" {
		t.Fatalf("displayName=%q, want stored row", second.DisplayName)
	}
}

func TestResolve_ConcurrentFirstSignIns_OneRow(t *testing.T) {
	t.Parallel()

	svc, repo := newTestService(map[string]authgw.Identity{
		"tok-1": {ID: "id-1", Email: "alice@example.com"},
	})

	const n = 16
	var wg sync.WaitGroup
	results := make([]domain.Profile, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Resolve(context.Background(), "tok-1")
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("goroutine %d: err=%v", i, errs[i])
		}
		if results[i].ID != domain.ProfileID("id-1") {
			t.Fatalf("goroutine %d: id=%q", i, results[i].ID)
		}
	}

	ps, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(ps) != 1 {
		t.Fatalf("profiles=%d, want exactly 1", len(ps))
	}
}

func TestUpdateMyProfile(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(map[string]authgw.Identity{
		"tok-1": {ID: "id-1", Email: "alice@example.com"},
	})
	p, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}

	updated, err := svc.UpdateMyProfile(context.Background(), p.ID, UpdateProfileInput{
		DisplayName: Some("  Alice   Smith "),
		DietaryNote: Some("vegetarian"),
	})
	if err != nil {
		t.Fatalf("UpdateMyProfile err=%v", err)
	}
	if updated.DisplayName != "Alice Smith" {
		t.Fatalf("displayName=%q", updated.DisplayName)
	}
	if updated.DietaryNote == nil || *updated.DietaryNote != "vegetarian" {
		t.Fatalf("dietaryNote=%v", updated.DietaryNote)
	}

	cleared, err := svc.UpdateMyProfile(context.Background(), p.ID, UpdateProfileInput{
		DietaryNote: Null[string](),
	})
	if err != nil {
		t.Fatalf("UpdateMyProfile err=%v", err)
	}
	if cleared.DietaryNote != nil {
		t.Fatalf("expected dietaryNote cleared")
	}
	if cleared.DisplayName != "Alice Smith" {
		t.Fatalf("displayName=%q, want untouched", cleared.DisplayName)
	}
}

func TestUpdateMyProfile_StripsMarkupKeepsPlainText(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(map[string]authgw.Identity{
		"tok-1": {ID: "id-1", Email: "alice@example.com"},
	})
	p, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}

	updated, err := svc.UpdateMyProfile(context.Background(), p.ID, UpdateProfileInput{
		DisplayName: Some("M&M's <b>Fan</b>"),
		DietaryNote: Some("salt & vinegar only"),
	})
	if err != nil {
		t.Fatalf("UpdateMyProfile err=%v", err)
	}
	if updated.DisplayName != "M&M's Fan" {
		t.Fatalf("displayName=%q, want markup removed and entities decoded", updated.DisplayName)
	}
	if updated.DietaryNote == nil || *updated.DietaryNote != "salt & vinegar only" {
		t.Fatalf("dietaryNote=%v, want %q", updated.DietaryNote, "salt & vinegar only")
	}
}

func TestUpdateMyProfile_RejectsEmptyName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(map[string]authgw.Identity{
		"tok-1": {ID: "id-1", Email: "alice@example.com"},
	})
	p, err := svc.Resolve(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Resolve err=%v", err)
	}

	for _, in := range []UpdateProfileInput{
		{DisplayName: Some("   ")},
		{DisplayName: Null[string]()},
	} {
		_, err := svc.UpdateMyProfile(context.Background(), p.ID, in)
		ae := (*apperr.Error)(nil)
		if !errors.As(err, &ae) || ae.Code != apperr.CodeValidation {
			t.Errorf("input=%+v: err=%v, want VALIDATION_ERROR", in, err)
		}
	}
}
