package services

import (
	"context"
	"log"
	"sync"
	"time"
)

// Viewport intersection defaults.
const (
	IntersectionThreshold = 0.75
	DwellDuration         = 3000 * time.Millisecond
)

// ViewRecorder is the slice of the engagement recorder the monitor needs.
type ViewRecorder interface {
	RecordView(ctx context.Context, videoID, viewerID string)
}

// MutePreferenceStore persists the session mute preference.
type MutePreferenceStore interface {
	GetMutePreference(ctx context.Context, userID string) (bool, error)
	SetMutePreference(ctx context.Context, userID string, muted bool) error
}

type elementState struct {
	videoID string
	playing bool
	timer   *time.Timer
}

// VisibilityMonitor tracks viewport intersection for one session's feed
// elements, driving play/pause and dwell-gated view recording.
//
// The recorded set is owned by the monitor instance, never shared as
// process-global state, so one session's views cannot leak into another.
type VisibilityMonitor struct {
	Threshold float64
	Dwell     time.Duration

	recorder ViewRecorder
	prefs    MutePreferenceStore
	viewerID string

	mu         sync.Mutex
	elements   map[string]*elementState
	recorded   map[string]bool
	muted      bool
	interacted bool
	closed     bool
}

// NewVisibilityMonitor builds a monitor for one viewer session. The
// durable mute preference is read once here; until the user interacts
// explicitly, playback stays muted regardless of it.
func NewVisibilityMonitor(ctx context.Context, recorder ViewRecorder, prefs MutePreferenceStore, viewerID string) *VisibilityMonitor {
	m := &VisibilityMonitor{
		Threshold: IntersectionThreshold,
		Dwell:     DwellDuration,
		recorder:  recorder,
		prefs:     prefs,
		viewerID:  viewerID,
		elements:  make(map[string]*elementState),
		recorded:  make(map[string]bool),
		muted:     true,
	}

	if prefs != nil {
		if muted, err := prefs.GetMutePreference(ctx, viewerID); err != nil {
			log.Printf("⚠️ Could not load mute preference for %s, defaulting to muted: %v", viewerID, err)
		} else {
			m.muted = muted
		}
	}
	return m
}

// Observe re-subscribes the monitor to the current feed elements after a
// feed mutation. State for removed elements is dropped and their pending
// dwell timers cancelled; the session recorded set survives so re-added
// elements cannot double-fire.
func (m *VisibilityMonitor) Observe(elements map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, state := range m.elements {
		if _, keep := elements[id]; !keep {
			if state.timer != nil {
				state.timer.Stop()
			}
			delete(m.elements, id)
		}
	}
	for id, videoID := range elements {
		if _, ok := m.elements[id]; !ok {
			m.elements[id] = &elementState{videoID: videoID}
		}
	}
}

// HandleIntersection processes one viewport intersection update for an
// observed element.
func (m *VisibilityMonitor) HandleIntersection(elementID string, ratio float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.elements[elementID]
	if !ok || m.closed {
		return
	}

	if ratio >= m.Threshold {
		state.playing = true
		if !m.recorded[state.videoID] && state.timer == nil {
			videoID := state.videoID
			state.timer = time.AfterFunc(m.Dwell, func() {
				m.dwellFired(elementID, videoID)
			})
		}
		return
	}

	// Left the threshold: pause, and a partial dwell never records a view.
	state.playing = false
	if state.timer != nil {
		state.timer.Stop()
		state.timer = nil
	}
}

// dwellFired records the view exactly once per (video, session).
func (m *VisibilityMonitor) dwellFired(elementID, videoID string) {
	m.mu.Lock()
	if state, ok := m.elements[elementID]; ok {
		state.timer = nil
	}
	if m.closed || m.recorded[videoID] {
		m.mu.Unlock()
		return
	}
	m.recorded[videoID] = true
	m.mu.Unlock()

	m.recorder.RecordView(context.Background(), videoID, m.viewerID)
}

// ToggleMute flips the mute state as an explicit user interaction and
// rewrites the durable preference.
func (m *VisibilityMonitor) ToggleMute(ctx context.Context) bool {
	m.mu.Lock()
	m.interacted = true
	m.muted = !m.muted
	muted := m.muted
	m.mu.Unlock()

	if m.prefs != nil {
		if err := m.prefs.SetMutePreference(ctx, m.viewerID, muted); err != nil {
			log.Printf("⚠️ Failed to persist mute preference for %s: %v", m.viewerID, err)
		}
	}
	return muted
}

// Muted reports the effective mute state: muted until the first explicit
// interaction of the session, thereafter the last explicit toggle.
func (m *VisibilityMonitor) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.interacted {
		return true
	}
	return m.muted
}

// Playing reports whether an element is currently past the threshold.
func (m *VisibilityMonitor) Playing(elementID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.elements[elementID]; ok {
		return state.playing
	}
	return false
}

// Close cancels all pending dwell timers. In-flight recordView calls are
// not awaited.
func (m *VisibilityMonitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for _, state := range m.elements {
		if state.timer != nil {
			state.timer.Stop()
			state.timer = nil
		}
	}
}
