// Package contracttest defines repository behavior suites shared by the
// memory and postgres adapters, so both implementations stay interchangeable.
package contracttest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sandys-snack-club/snack-club-api/internal/domain"
	catalogrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/catalogrepo"
	profilerepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/profilerepo"
	snackrequestrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/snackrequestrepo"
	subscriptionrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/subscriptionrepo"
)

type CleanupFunc = func()

type ProfileRepoFactory func(t *testing.T) (profilerepoport.Repository, CleanupFunc)
type SubscriptionRepoFactory func(t *testing.T) (subscriptionrepoport.Repository, CleanupFunc)
type SnackRequestRepoFactory func(t *testing.T) (snackrequestrepoport.Repository, CleanupFunc)
type CatalogRepoFactory func(t *testing.T) (catalogrepoport.Repository, CleanupFunc)

func RunProfileRepo(t *testing.T, newRepo ProfileRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(100, 0).UTC()
	note := "no peanuts"
	alice := profilerepoport.Profile{
		ID:          domain.ProfileID("id-alice"),
		Email:       "alice@example.com",
		DisplayName: "Alice",
		DietaryNote: &note,
		Role:        domain.RoleMember,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Unknown id.
	if _, err := repo.GetByID(ctx, alice.ID); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("GetByID before create: err=%v, want ErrNotFound", err)
	}

	// First CreateOrGet inserts.
	stored, created, err := repo.CreateOrGet(ctx, alice)
	if err != nil {
		t.Fatalf("CreateOrGet: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true on first insert")
	}
	if stored.ID != alice.ID || stored.Email != alice.Email {
		t.Fatalf("stored=%+v", stored)
	}

	// Second CreateOrGet returns the existing row untouched.
	clone := alice
	clone.DisplayName = "Someone Else"
	stored, created, err = repo.CreateOrGet(ctx, clone)
	if err != nil {
		t.Fatalf("CreateOrGet second: %v", err)
	}
	if created {
		t.Fatalf("expected created=false on second insert")
	}
	if stored.DisplayName != "Alice" {
		t.Fatalf("displayName=%q, want original row", stored.DisplayName)
	}

	// Concurrent CreateOrGet for the same id converges on one row.
	bob := profilerepoport.Profile{
		ID:          domain.ProfileID("id-bob"),
		Email:       "bob@example.com",
		DisplayName: "Bob",
		Role:        domain.RoleMember,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = repo.CreateOrGet(ctx, bob)
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent CreateOrGet %d: %v", i, err)
		}
	}

	// Update changes name/note/updatedAt only.
	got, err := repo.GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.DisplayName = "Alice Smith"
	got.DietaryNote = nil
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Update(ctx, got); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, alice.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.DisplayName != "Alice Smith" || got.DietaryNote != nil {
		t.Fatalf("after update: %+v", got)
	}
	if got.Email != "alice@example.com" || got.Role != domain.RoleMember {
		t.Fatalf("update touched immutable fields: %+v", got)
	}

	// Update of a missing row fails.
	missing := alice
	missing.ID = domain.ProfileID("id-missing")
	if err := repo.Update(ctx, missing); !errors.Is(err, profilerepoport.ErrNotFound) {
		t.Fatalf("Update missing: err=%v, want ErrNotFound", err)
	}

	// List is ordered by display name.
	ps, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ps) != 2 {
		t.Fatalf("List len=%d, want 2", len(ps))
	}
	if ps[0].DisplayName != "Alice Smith" || ps[1].DisplayName != "Bob" {
		t.Fatalf("List order: %q, %q", ps[0].DisplayName, ps[1].DisplayName)
	}
}

func RunSubscriptionRepo(t *testing.T, newRepo SubscriptionRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	member := domain.ProfileID("id-alice")
	period := domain.PeriodKey("2025-01")

	if _, err := repo.Get(ctx, member, period); !errors.Is(err, subscriptionrepoport.ErrNotFound) {
		t.Fatalf("Get before upsert: err=%v, want ErrNotFound", err)
	}

	pausedAt := time.Unix(200, 0).UTC()
	note := "talked to Sandy"
	rec := domain.SubscriptionRecord{
		MemberID: member,
		Period:   period,
		Paid:     true,
		Paused:   true,
		PausedAt: &pausedAt,
		Note:     &note,
	}
	if err := repo.Upsert(ctx, rec); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := repo.Get(ctx, member, period)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Paid || !got.Paused || got.PausedAt == nil || !got.PausedAt.Equal(pausedAt) {
		t.Fatalf("got=%+v", got)
	}
	if got.Note == nil || *got.Note != note {
		t.Fatalf("note=%v", got.Note)
	}

	// Upsert replaces the whole record.
	canceledAt := time.Unix(300, 0).UTC()
	rec2 := domain.SubscriptionRecord{
		MemberID:   member,
		Period:     period,
		Paid:       true,
		Canceled:   true,
		CanceledAt: &canceledAt,
	}
	if err := repo.Upsert(ctx, rec2); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	got, err = repo.Get(ctx, member, period)
	if err != nil {
		t.Fatalf("Get after replace: %v", err)
	}
	if got.Paused || got.PausedAt != nil || got.Note != nil {
		t.Fatalf("replace left stale fields: %+v", got)
	}
	if !got.Canceled || got.CanceledAt == nil {
		t.Fatalf("got=%+v", got)
	}

	// Periods are independent.
	other := domain.SubscriptionRecord{MemberID: member, Period: domain.PeriodKey("2025-02"), Paid: false}
	if err := repo.Upsert(ctx, other); err != nil {
		t.Fatalf("Upsert other period: %v", err)
	}
	if err := repo.Upsert(ctx, domain.SubscriptionRecord{MemberID: domain.ProfileID("id-bob"), Period: period}); err != nil {
		t.Fatalf("Upsert other member: %v", err)
	}

	recs, err := repo.ListByPeriod(ctx, period)
	if err != nil {
		t.Fatalf("ListByPeriod: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("ListByPeriod len=%d, want 2", len(recs))
	}
	if recs[0].MemberID != domain.ProfileID("id-alice") || recs[1].MemberID != domain.ProfileID("id-bob") {
		t.Fatalf("ListByPeriod order: %+v", recs)
	}
}

func RunSnackRequestRepo(t *testing.T, newRepo SnackRequestRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	t0 := time.Unix(100, 0).UTC()
	details := "the spicy ones"
	first := domain.SnackRequest{
		ID:          domain.RequestID("req-1"),
		RequesterID: domain.ProfileID("id-alice"),
		SnackName:   "Chips",
		Details:     &details,
		Status:      domain.RequestPending,
		CreatedAt:   t0,
		UpdatedAt:   t0,
	}
	second := domain.SnackRequest{
		ID:          domain.RequestID("req-2"),
		RequesterID: domain.ProfileID("id-bob"),
		SnackName:   "Mochi",
		Status:      domain.RequestPending,
		CreatedAt:   t0.Add(time.Minute),
		UpdatedAt:   t0.Add(time.Minute),
	}
	for _, req := range []domain.SnackRequest{first, second} {
		if err := repo.Create(ctx, req); err != nil {
			t.Fatalf("Create %s: %v", req.ID, err)
		}
	}
	if err := repo.Create(ctx, first); !errors.Is(err, snackrequestrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create: err=%v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Details == nil || *got.Details != details {
		t.Fatalf("details=%v", got.Details)
	}

	// Newest first.
	all, err := repo.List(ctx, snackrequestrepoport.Filter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("List order: %+v", all)
	}

	// Requester filter.
	mine, err := repo.List(ctx, snackrequestrepoport.Filter{Requester: first.RequesterID})
	if err != nil {
		t.Fatalf("List by requester: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Fatalf("List by requester: %+v", mine)
	}

	// Status update.
	t1 := t0.Add(time.Hour)
	updated, err := repo.UpdateStatus(ctx, first.ID, domain.RequestAccepted, t1)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != domain.RequestAccepted || !updated.UpdatedAt.Equal(t1) {
		t.Fatalf("updated=%+v", updated)
	}
	if updated.RequesterID != first.RequesterID || !updated.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("UpdateStatus touched immutable fields: %+v", updated)
	}

	// Status filter.
	accepted, err := repo.List(ctx, snackrequestrepoport.Filter{Statuses: []domain.RequestStatus{domain.RequestAccepted}})
	if err != nil {
		t.Fatalf("List by status: %v", err)
	}
	if len(accepted) != 1 || accepted[0].ID != first.ID {
		t.Fatalf("List by status: %+v", accepted)
	}

	if _, err := repo.UpdateStatus(ctx, domain.RequestID("req-missing"), domain.RequestAccepted, t1); !errors.Is(err, snackrequestrepoport.ErrNotFound) {
		t.Fatalf("UpdateStatus missing: err=%v, want ErrNotFound", err)
	}
}

func RunCatalogRepo(t *testing.T, newRepo CatalogRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	t0 := time.Unix(100, 0).UTC()
	desc := "chewy"
	older := domain.CatalogItem{
		ID:          domain.SnackID("snack-1"),
		Name:        "Mochi",
		Description: &desc,
		CreatedAt:   t0,
	}
	newer := domain.CatalogItem{
		ID:        domain.SnackID("snack-2"),
		Name:      "Chips",
		CreatedAt: t0.Add(time.Minute),
	}
	for _, item := range []domain.CatalogItem{older, newer} {
		if err := repo.Create(ctx, item); err != nil {
			t.Fatalf("Create %s: %v", item.ID, err)
		}
	}
	if err := repo.Create(ctx, older); !errors.Is(err, catalogrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create: err=%v, want ErrAlreadyExists", err)
	}

	items, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].ID != newer.ID || items[1].ID != older.ID {
		t.Fatalf("List order: %+v", items)
	}
	if items[1].Description == nil || *items[1].Description != desc {
		t.Fatalf("description=%v", items[1].Description)
	}
}
