package controller

import (
	"context"

	"github.com/akyairhashvil/taskspill/internal/models"
)

// Store loads and saves whole app state snapshots.
//
//go:generate mockgen -source=interfaces.go -destination=mock_interfaces_test.go -package=controller
type Store interface {
	// Load returns false when no snapshot has been saved yet.
	Load(ctx context.Context) (models.AppState, bool, error)
	Save(ctx context.Context, state models.AppState) error
}

// Notifier receives interval-complete alerts. Failures are logged and ignored.
type Notifier interface {
	Notify(title, body string) error
}
