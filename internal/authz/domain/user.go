package domain

import "time"

// User is a read-model directory row for the platform identity service.
// Rows are upserted from verified session claims; this service never
// authenticates users or stores credentials.
type User struct {
	ID          string
	Email       string
	DisplayName string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
