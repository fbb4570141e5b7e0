package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	memcatalogrepo "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/catalogrepo"
	memclock "github.com/sandys-snack-club/snack-club-api/internal/adapters/memory/clock"
	"github.com/sandys-snack-club/snack-club-api/internal/app/apperr"
	"github.com/sandys-snack-club/snack-club-api/internal/domain"
)

var (
	member = domain.Profile{ID: "member-1", Role: domain.RoleMember}
	admin  = domain.Profile{ID: "admin-1", Role: domain.RoleAdmin}
)

func newTestService() (*Service, *memclock.ManualClock) {
	clk := memclock.NewManualClock(time.Unix(1000, 0).UTC())
	svc := NewService(memcatalogrepo.NewRepo(), clk)
	var n int
	svc.SetNewSnackIDForTest(func() domain.SnackID {
		n++
		return domain.SnackID(fmt.Sprintf("snack-%03d", n))
	})
	return svc, clk
}

func TestAddSnack_AdminOnly(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	_, err := svc.AddSnack(context.Background(), member, AddSnackInput{Name: "Mochi"})
	ae := (*apperr.Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 403 {
		t.Fatalf("err=%v, want 403", err)
	}
}

func TestAddSnack_ValidatesName(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()

	_, err := svc.AddSnack(context.Background(), admin, AddSnackInput{Name: "  "})
	ae := (*apperr.Error)(nil)
	if !errors.As(err, &ae) || ae.Code != apperr.CodeValidation {
		t.Fatalf("err=%v, want VALIDATION_ERROR", err)
	}
}

func TestAddThenList_NewestFirst(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService()
	ctx := context.Background()

	if _, err := svc.AddSnack(ctx, admin, AddSnackInput{Name: "Mochi", Description: "chewy"}); err != nil {
		t.Fatalf("AddSnack err=%v", err)
	}
	clk.Advance(time.Minute)
	if _, err := svc.AddSnack(ctx, admin, AddSnackInput{Name: "Chips"}); err != nil {
		t.Fatalf("AddSnack err=%v", err)
	}

	items, err := svc.ListSnacks(ctx)
	if err != nil {
		t.Fatalf("ListSnacks err=%v", err)
	}
	if len(items) != 2 || items[0].Name != "Chips" || items[1].Name != "Mochi" {
		t.Fatalf("order wrong: %+v", items)
	}
	if items[1].Description == nil || *items[1].Description != "chewy" {
		t.Fatalf("description=%v", items[1].Description)
	}
	if items[0].Description != nil {
		t.Fatalf("description=%v, want nil for empty input", items[0].Description)
	}
}
