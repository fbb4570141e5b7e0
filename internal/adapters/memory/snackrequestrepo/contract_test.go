package snackrequestrepo

import (
	"testing"

	"github.com/sandys-snack-club/snack-club-api/internal/adapters/contracttest"
	snackrequestrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/snackrequestrepo"
)

func TestRepository_Contract(t *testing.T) {
	t.Parallel()
	contracttest.RunSnackRequestRepo(t, func(t *testing.T) (snackrequestrepoport.Repository, contracttest.CleanupFunc) {
		return NewRepo(), nil
	})
}
