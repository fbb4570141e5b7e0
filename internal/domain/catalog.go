package domain

import "time"

// CatalogItem is an admin-authored snack in the shared catalog.
// PhotoRef is an opaque reference to an externally-hosted image; upload
// mechanics live outside this service.
type CatalogItem struct {
	ID          SnackID
	Name        string
	Description *string
	PhotoRef    *string
	CreatedAt   time.Time
}
