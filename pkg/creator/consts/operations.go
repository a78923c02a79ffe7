// Package consts provides operation name constants for the hook system.
package consts

// Operation names for the hook system.
const (
	// Synchronization operations.
	SyncSpec     = "SyncSpec"
	PreviewSpec  = "PreviewSpec"
	ValidateSpec = "ValidateSpec"
)
