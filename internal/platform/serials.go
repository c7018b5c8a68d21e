package platform

import "github.com/1broseidon/scrollwm/internal/geometry"

// ResizeTracker issues resize serials for a collaborator that has no
// protocol-level acknowledgement and matches them against the sizes a
// surface later reports. The zero value is not usable; call NewResizeTracker.
type ResizeTracker struct {
	last    Serial
	pending map[SurfaceHandle][]resizeRequest
}

type resizeRequest struct {
	serial Serial
	size   geometry.Size
}

func NewResizeTracker() *ResizeTracker {
	return &ResizeTracker{pending: make(map[SurfaceHandle][]resizeRequest)}
}

// Issue records a resize request for h and returns its serial. Serials are
// shared by all surfaces and strictly increase.
func (t *ResizeTracker) Issue(h SurfaceHandle, size geometry.Size) Serial {
	t.last++
	t.pending[h] = append(t.pending[h], resizeRequest{serial: t.last, size: size})
	return t.last
}

// Acknowledge matches a reported size against the outstanding requests of
// h. The newest request with that size is acknowledged and it and every
// older request are dropped. It reports false when no request matches, for
// example when the client resized itself.
func (t *ResizeTracker) Acknowledge(h SurfaceHandle, size geometry.Size) (Serial, bool) {
	reqs := t.pending[h]
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].size != size {
			continue
		}
		serial := reqs[i].serial
		if rest := reqs[i+1:]; len(rest) > 0 {
			t.pending[h] = append(reqs[:0], rest...)
		} else {
			delete(t.pending, h)
		}
		return serial, true
	}
	return 0, false
}

// Forget drops every outstanding request of h.
func (t *ResizeTracker) Forget(h SurfaceHandle) {
	delete(t.pending, h)
}

// Outstanding returns the number of unacknowledged requests for h.
func (t *ResizeTracker) Outstanding(h SurfaceHandle) int {
	return len(t.pending[h])
}
