package catalogrepo

import (
	"testing"

	"github.com/sandys-snack-club/snack-club-api/internal/adapters/contracttest"
	catalogrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/catalogrepo"
)

func TestRepository_Contract(t *testing.T) {
	t.Parallel()
	contracttest.RunCatalogRepo(t, func(t *testing.T) (catalogrepoport.Repository, contracttest.CleanupFunc) {
		return NewRepo(), nil
	})
}
