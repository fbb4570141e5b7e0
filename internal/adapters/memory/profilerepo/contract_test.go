package profilerepo

import (
	"testing"

	"github.com/sandys-snack-club/snack-club-api/internal/adapters/contracttest"
	profilerepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/profilerepo"
)

func TestRepository_Contract(t *testing.T) {
	t.Parallel()
	contracttest.RunProfileRepo(t, func(t *testing.T) (profilerepoport.Repository, contracttest.CleanupFunc) {
		return NewRepo(), nil
	})
}
