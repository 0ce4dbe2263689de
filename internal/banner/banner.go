// Package banner provides transient messages that close themselves after a
// fixed duration.
package banner

import (
	"sync"
	"time"
)

// DefaultDuration is used when Show is given a non-positive duration.
const DefaultDuration = 3 * time.Second

// Variant selects the tone of a banner.
type Variant int

const (
	// Info is a neutral status message.
	Info Variant = iota
	// Success confirms a completed action.
	Success
	// Warning flags data that needs attention.
	Warning
	// Error reports a failed operation.
	Error
)

// String returns the lower case name of the variant.
func (v Variant) String() string {
	switch v {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// Banner is a message whose onClose callback runs exactly once: when the
// duration elapses or when the user dismisses it, whichever comes first.
// Stop cancels the callback entirely.
type Banner struct {
	Message string
	Variant Variant

	mu      sync.Mutex
	timer   *time.Timer
	onClose func()
	done    bool
}

// Show starts the countdown for a new banner.
func Show(message string, variant Variant, d time.Duration, onClose func()) *Banner {
	if d <= 0 {
		d = DefaultDuration
	}
	b := &Banner{
		Message: message,
		Variant: variant,
		onClose: onClose,
	}
	b.mu.Lock()
	b.timer = time.AfterFunc(d, b.expire)
	b.mu.Unlock()
	return b
}

// Dismiss closes the banner now and runs onClose if it has not run yet.
func (b *Banner) Dismiss() bool {
	return b.resolve(true)
}

// Stop tears the banner down without running onClose. It reports whether a
// pending callback was cancelled.
func (b *Banner) Stop() bool {
	return b.resolve(false)
}

// Closed reports whether the banner expired, was dismissed or was stopped.
func (b *Banner) Closed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

func (b *Banner) expire() {
	b.resolve(true)
}

func (b *Banner) resolve(notify bool) bool {
	b.mu.Lock()
	if b.done {
		b.mu.Unlock()
		return false
	}
	b.done = true
	b.timer.Stop()
	onClose := b.onClose
	b.mu.Unlock()

	if notify && onClose != nil {
		onClose()
	}
	return true
}
