package services

import (
	"context"
	"sync"
	"testing"
	"time"
)

type fakeRecorder struct {
	mu    sync.Mutex
	views map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{views: make(map[string]int)}
}

func (fr *fakeRecorder) RecordView(ctx context.Context, videoID, viewerID string) {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	fr.views[videoID]++
}

func (fr *fakeRecorder) count(videoID string) int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return fr.views[videoID]
}

func newTestMonitor(recorder *fakeRecorder) *VisibilityMonitor {
	m := NewVisibilityMonitor(context.Background(), recorder, nil, "viewer1")
	m.Dwell = 30 * time.Millisecond
	return m
}

func TestMonitor_DwellGateRecordsOnce(t *testing.T) {
	recorder := newFakeRecorder()
	m := newTestMonitor(recorder)
	defer m.Close()

	m.Observe(map[string]string{"el1": "vid1"})

	// Three threshold crossings in one session.
	for i := 0; i < 3; i++ {
		m.HandleIntersection("el1", 0.8)
		time.Sleep(60 * time.Millisecond)
		m.HandleIntersection("el1", 0.1)
	}

	if got := recorder.count("vid1"); got != 1 {
		t.Errorf("views recorded = %d, want exactly 1 for the session", got)
	}
}

func TestMonitor_PartialDwellNeverRecords(t *testing.T) {
	recorder := newFakeRecorder()
	m := newTestMonitor(recorder)
	defer m.Close()

	m.Observe(map[string]string{"el1": "vid1"})

	m.HandleIntersection("el1", 0.9)
	time.Sleep(10 * time.Millisecond) // leave before the dwell completes
	m.HandleIntersection("el1", 0.2)
	time.Sleep(60 * time.Millisecond)

	if got := recorder.count("vid1"); got != 0 {
		t.Errorf("views recorded = %d, want 0 after partial dwell", got)
	}
	if m.Playing("el1") {
		t.Error("element should be paused after leaving the threshold")
	}
}

func TestMonitor_BelowThresholdDoesNotPlay(t *testing.T) {
	recorder := newFakeRecorder()
	m := newTestMonitor(recorder)
	defer m.Close()

	m.Observe(map[string]string{"el1": "vid1"})
	m.HandleIntersection("el1", 0.74)

	if m.Playing("el1") {
		t.Error("ratio below 0.75 must not start playback")
	}
	time.Sleep(60 * time.Millisecond)
	if got := recorder.count("vid1"); got != 0 {
		t.Errorf("views recorded = %d, want 0 below threshold", got)
	}
}

func TestMonitor_ObserveDropsRemovedElements(t *testing.T) {
	recorder := newFakeRecorder()
	m := newTestMonitor(recorder)
	defer m.Close()

	m.Observe(map[string]string{"el1": "vid1", "el2": "vid2"})
	m.HandleIntersection("el1", 0.8)

	// Feed mutation removes el1 while its dwell timer is pending.
	m.Observe(map[string]string{"el2": "vid2"})
	time.Sleep(60 * time.Millisecond)

	if got := recorder.count("vid1"); got != 0 {
		t.Errorf("views recorded = %d, want 0 for a removed element", got)
	}
	if m.Playing("el1") {
		t.Error("removed element should report not playing")
	}
}

func TestMonitor_RecordedSetSurvivesResubscribe(t *testing.T) {
	recorder := newFakeRecorder()
	m := newTestMonitor(recorder)
	defer m.Close()

	m.Observe(map[string]string{"el1": "vid1"})
	m.HandleIntersection("el1", 0.8)
	time.Sleep(60 * time.Millisecond)

	// Element removed and re-added under a new element id.
	m.Observe(map[string]string{})
	m.Observe(map[string]string{"el9": "vid1"})
	m.HandleIntersection("el9", 0.8)
	time.Sleep(60 * time.Millisecond)

	if got := recorder.count("vid1"); got != 1 {
		t.Errorf("views recorded = %d, want 1 across re-subscription", got)
	}
}

func TestMonitor_MutePolicy(t *testing.T) {
	recorder := newFakeRecorder()
	m := newTestMonitor(recorder)
	defer m.Close()

	// Muted until the first explicit interaction of the session.
	if !m.Muted() {
		t.Error("monitor should start muted")
	}

	if muted := m.ToggleMute(context.Background()); muted {
		t.Error("first toggle should unmute")
	}
	if m.Muted() {
		t.Error("after an explicit toggle the last toggle wins")
	}

	m.ToggleMute(context.Background())
	if !m.Muted() {
		t.Error("second toggle should mute again")
	}
}

func TestMonitor_SessionsDoNotShareRecordedSets(t *testing.T) {
	recorder := newFakeRecorder()

	m1 := newTestMonitor(recorder)
	defer m1.Close()
	m2 := newTestMonitor(recorder)
	defer m2.Close()

	m1.Observe(map[string]string{"el1": "vid1"})
	m2.Observe(map[string]string{"el1": "vid1"})

	m1.HandleIntersection("el1", 0.8)
	time.Sleep(60 * time.Millisecond)
	m2.HandleIntersection("el1", 0.8)
	time.Sleep(60 * time.Millisecond)

	// Each monitor owns its recorded set; two sessions mean two views.
	if got := recorder.count("vid1"); got != 2 {
		t.Errorf("views recorded = %d, want 2 across distinct sessions", got)
	}
}
