package driver

import (
	"context"
	"errors"

	"github.com/piresc/unitransport/internal/pkg/models"
)

// Publisher session errors
var (
	ErrNotConfigured    = errors.New("route and direction must be selected before driving")
	ErrDrivingLocked    = errors.New("route and direction cannot change while driving")
	ErrAlreadyDriving   = errors.New("already driving")
	ErrInvalidRoute     = errors.New("route must be a positive number")
	ErrInvalidDirection = errors.New("direction must be town_to_uni or uni_to_town")
)

// DriverUC drives the publisher state machine
type DriverUC interface {
	Status(ctx context.Context) models.DriverStatus

	// Configuration, allowed only while not driving
	SetRoute(ctx context.Context, route int) error
	SetDirection(ctx context.Context, direction string) error

	// StartDriving begins periodic publishing from the live feed or the simulator
	StartDriving(ctx context.Context) error
	// StopDriving is idempotent
	StopDriving(ctx context.Context)
}
