package subscriptionrepo

import (
	"testing"

	"github.com/sandys-snack-club/snack-club-api/internal/adapters/contracttest"
	subscriptionrepoport "github.com/sandys-snack-club/snack-club-api/internal/ports/out/subscriptionrepo"
)

func TestRepository_Contract(t *testing.T) {
	t.Parallel()
	contracttest.RunSubscriptionRepo(t, func(t *testing.T) (subscriptionrepoport.Repository, contracttest.CleanupFunc) {
		return NewRepo(), nil
	})
}
