package catalogrepo

import (
	"testing"

	"github.com/sandys-snack-club/snack-club-api/internal/adapters/contracttest"
	"github.com/sandys-snack-club/snack-club-api/internal/adapters/postgres/testutil"
	catalogrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/catalogrepo"
)

func TestContract_PostgresCatalogRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunCatalogRepo(t, func(t *testing.T) (catalogrepoport.Repository, contracttest.CleanupFunc) {
		t.Helper()
		return NewRepo(pool), nil
	})
}
