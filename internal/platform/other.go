//go:build !linux && !windows && !darwin

package platform

// New returns the no-op implementation on systems without native support.
func New() Features {
	return Nop{}
}
