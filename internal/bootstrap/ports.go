package bootstrap

import "context"

//go:generate mockgen -destination=mocks/mock_ports.go -package=mocks github.com/mesh-intelligence/pinhole/internal/bootstrap Alerter,StoreProbe

// StoreProbe reports whether the physical store exists. It is best effort:
// a false answer makes IsInitialized return false without further I/O.
type StoreProbe interface {
	StoreExists(ctx context.Context) bool
}

// Alerter notifies the user that the user settings phase failed.
type Alerter interface {
	Alert(ctx context.Context, title, message string) error
}
