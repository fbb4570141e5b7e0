package snackrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	memclock "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/clock"
	memprofilerepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/profilerepo"
	memrequestrepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/snackrequestrepo"
	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	"github.com/sandys-snack-club/snack-club-api/internal/ports/out/profilerepo"
)

var (
	member = domain.Profile{ID: "member-1", Email: "alice@example.com", DisplayName: "Alice", Role: domain.RoleMember}
	other  = domain.Profile{ID: "member-2", Email: "bob@example.com", DisplayName: "Bob", Role: domain.RoleMember}
	admin  = domain.Profile{ID: "admin-1", Email: "sandy@example.com", DisplayName: "Sandy", Role: domain.RoleAdmin}
)

func newTestService(t *testing.T) (*Service, *memclock.ManualClock) {
	t.Helper()

	profiles := memprofilerepo.NewRepo()
	for _, p := range []domain.Profile{member, other, admin} {
		_, _, err := profiles.CreateOrGet(context.Background(), profilerepo.Profile{
			ID:          p.ID,
			Email:       p.Email,
			DisplayName: p.DisplayName,
			Role:        p.Role,
		})
		if err != nil {
			t.Fatalf("seed profile: %v", err)
		}
	}

	clk := memclock.NewManualClock(time.Unix(1000, 0).UTC())
	svc := NewService(memrequestrepo.NewRepo(), profiles, clk)

	var n int
	svc.SetNewRequestIDForTest(func() domain.RequestID {
		n++
		return domain.RequestID(fmt.Sprintf("req-%03d", n))
	})
	return svc, clk
}

func TestCreate_SetsPendingAndRequester(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), member, CreateInput{
		SnackName: "  Mochi ",
		Source:    "corner store",
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if created.Status != domain.RequestPending {
		t.Fatalf("status=%q, want pending", created.Status)
	}
	if created.SnackName != "Mochi" {
		t.Fatalf("snackName=%q", created.SnackName)
	}
	if created.Source == nil || *created.Source != "corner store" {
		t.Fatalf("source=%v", created.Source)
	}
	if created.Details != nil {
		t.Fatalf("details=%v, want nil for empty input", created.Details)
	}
	if created.Requester == nil || created.Requester.DisplayName != "Alice" {
		t.Fatalf("requester=%+v", created.Requester)
	}
}

func TestCreate_WhitespaceNameRejected(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), member, CreateInput{SnackName: "   "})
	ae := (*apperr.Error)(nil)
	if !errors.As(err, &ae) || ae.Code != apperr.CodeValidation {
		t.Fatalf("err=%v, want VALIDATION_ERROR", err)
	}
}

func TestCreate_TruncatesOversizedDetails(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), member, CreateInput{
		SnackName: "Chips",
		Details:   strings.Repeat("x", 600),
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if created.Details == nil || len(*created.Details) != domain.MaxTextFieldLength {
		t.Fatalf("details length=%d, want %d", len(*created.Details), domain.MaxTextFieldLength)
	}
}

func TestCreate_StripsMarkupKeepsPlainText(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	created, err := svc.Create(context.Background(), member, CreateInput{
		SnackName: "M&M's <script>alert(1)</script>",
		Details:   "salty & sweet",
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if created.SnackName != "M&M's" {
		t.Fatalf("snackName=%q, want markup removed and entities decoded", created.SnackName)
	}
	if created.Details == nil || *created.Details != "salty & sweet" {
		t.Fatalf("details=%v, want %q", created.Details, "salty & sweet")
	}
}

func TestList_MemberSeesOnlyOwnRegardlessOfFilter(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, member, CreateInput{SnackName: "Mochi"}); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if _, err := svc.Create(ctx, other, CreateInput{SnackName: "Chips"}); err != nil {
		t.Fatalf("Create err=%v", err)
	}

	for _, filter := range [][]string{nil, {"pending"}, {"pending", "accepted"}, {"bogus"}} {
		got, err := svc.List(ctx, member, filter)
		if err != nil {
			t.Fatalf("List err=%v", err)
		}
		for _, r := range got {
			if r.RequesterID != member.ID {
				t.Fatalf("filter=%v: leaked request %+v", filter, r.SnackRequest)
			}
		}
	}
}

func TestList_AdminFilterDropsUnknownValues(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, member, CreateInput{SnackName: "Mochi"}); err != nil {
		t.Fatalf("Create err=%v", err)
	}

	// "bogus" is dropped; "pending" still applies.
	got, err := svc.List(ctx, admin, []string{"bogus", "pending"})
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len=%d, want 1", len(got))
	}

	// A filter of only unknown values matches everything.
	got, err = svc.List(ctx, admin, []string{"bogus"})
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len=%d, want 1", len(got))
	}
}

func TestList_NewestFirst(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, member, CreateInput{SnackName: "First"}); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	clk.Advance(time.Minute)
	if _, err := svc.Create(ctx, member, CreateInput{SnackName: "Second"}); err != nil {
		t.Fatalf("Create err=%v", err)
	}

	got, err := svc.List(ctx, member, nil)
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 2 || got[0].SnackName != "Second" || got[1].SnackName != "First" {
		t.Fatalf("order wrong: %+v", got)
	}
}

func TestTransition_MemberDenied(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, member, CreateInput{SnackName: "Mochi"})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	_, err = svc.Transition(ctx, member, created.ID, "accepted")
	ae := (*apperr.Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 403 {
		t.Fatalf("err=%v, want 403", err)
	}
}

func TestTransition_UnknownStatusRejected(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, member, CreateInput{SnackName: "Mochi"})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	_, err = svc.Transition(ctx, admin, created.ID, "approved")
	ae := (*apperr.Error)(nil)
	if !errors.As(err, &ae) || ae.Code != apperr.CodeValidation {
		t.Fatalf("err=%v, want VALIDATION_ERROR", err)
	}
}

func TestTransition_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Transition(context.Background(), admin, "req-missing", "accepted")
	ae := (*apperr.Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 {
		t.Fatalf("err=%v, want 404", err)
	}
}

func TestTransition_InvalidFromCurrentState(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, member, CreateInput{SnackName: "Mochi"})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if _, err := svc.Transition(ctx, admin, created.ID, "fulfilled"); err != nil {
		t.Fatalf("Transition err=%v", err)
	}

	// fulfilled may only reopen to pending.
	_, err = svc.Transition(ctx, admin, created.ID, "accepted")
	ae := (*apperr.Error)(nil)
	if !errors.As(err, &ae) || ae.Code != apperr.CodeInvalidTransition {
		t.Fatalf("err=%v, want INVALID_TRANSITION", err)
	}
}

func TestTransition_RoundTripAdvancesUpdatedAt(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, member, CreateInput{SnackName: "Mochi"})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	clk.Advance(time.Minute)
	fulfilled, err := svc.Transition(ctx, admin, created.ID, "fulfilled")
	if err != nil {
		t.Fatalf("Transition err=%v", err)
	}
	clk.Advance(time.Minute)
	reopened, err := svc.Transition(ctx, admin, created.ID, "pending")
	if err != nil {
		t.Fatalf("Transition err=%v", err)
	}

	if reopened.Status != domain.RequestPending {
		t.Fatalf("status=%q, want pending", reopened.Status)
	}
	if !reopened.UpdatedAt.After(fulfilled.UpdatedAt) {
		t.Fatalf("updatedAt must advance: %v vs %v", fulfilled.UpdatedAt, reopened.UpdatedAt)
	}
	if !reopened.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("createdAt changed")
	}
}
