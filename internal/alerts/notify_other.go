//go:build !darwin && !linux

package alerts

// NewPlatformNotifier returns a no-op notifier on platforms without a
// desktop notification mechanism.
func NewPlatformNotifier(bool) Notifier {
	return NopNotifier{}
}
