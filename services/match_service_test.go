package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"reelmatch_server/models"
)

type fakeSubmitter struct {
	mu    sync.Mutex
	resp  *models.ConnectionResponse
	err   error
	calls int
}

func (fs *fakeSubmitter) Submit(ctx context.Context, fromUser, toUser string, fromProfile, toProfile map[string]string) (*models.ConnectionResponse, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.calls++
	if fs.err != nil {
		return nil, fs.err
	}
	return fs.resp, nil
}

func (fs *fakeSubmitter) callCount() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.calls
}

type fakeProfiles struct{}

func (fp *fakeProfiles) GetProfileSnapshot(ctx context.Context, userID string) (map[string]string, error) {
	return map[string]string{"userId": userID, "fullName": "Test User"}, nil
}

type fakeDecisionLog struct {
	mu        sync.Mutex
	decisions []models.Decision
}

func (fl *fakeDecisionLog) RecordDecision(ctx context.Context, decision models.Decision) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	fl.decisions = append(fl.decisions, decision)
}

func (fl *fakeDecisionLog) count() int {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	return len(fl.decisions)
}

func newTestMatchService(submitter *fakeSubmitter) (*MatchService, *fakeDecisionLog) {
	recorder := &fakeDecisionLog{}
	ms := NewMatchService(submitter, &fakeProfiles{}, recorder, NewGestureService())
	ms.FeedbackWindow = 100 * time.Millisecond
	ms.ErrorWindow = 150 * time.Millisecond
	ms.SetFeedSize(5)
	return ms, recorder
}

func decisionFor(direction string) *models.Decision {
	return &models.Decision{
		FromUser:  "alice",
		ToUser:    "bob",
		VideoID:   "vid1",
		Direction: direction,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func TestDispatch_AcceptedAdvancesFeed(t *testing.T) {
	submitter := &fakeSubmitter{resp: &models.ConnectionResponse{Status: models.ConnectionAccepted, Message: "It's a match!"}}
	ms, recorder := newTestMatchService(submitter)

	state, message, err := ms.Dispatch(context.Background(), "card1", decisionFor(models.DirectionConnect))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if state != models.CardAcceptedFeedback {
		t.Errorf("state = %s, want acceptedFeedback", state)
	}
	if message != "It's a match!" {
		t.Errorf("message = %q", message)
	}
	if ms.CardState("card1") != models.CardAcceptedFeedback {
		t.Errorf("card state during feedback window = %s", ms.CardState("card1"))
	}

	time.Sleep(300 * time.Millisecond)

	if ms.CardState("card1") != models.CardIdle {
		t.Errorf("card state after feedback window = %s, want idle", ms.CardState("card1"))
	}
	if ms.FeedIndex() != 1 {
		t.Errorf("feed index = %d, want 1 after advance", ms.FeedIndex())
	}
	if recorder.count() != 1 {
		t.Errorf("recorded decisions = %d, want 1", recorder.count())
	}
}

func TestDispatch_PendingFeedback(t *testing.T) {
	submitter := &fakeSubmitter{resp: &models.ConnectionResponse{Status: models.ConnectionPending}}
	ms, _ := newTestMatchService(submitter)

	state, _, err := ms.Dispatch(context.Background(), "card1", decisionFor(models.DirectionConnect))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if state != models.CardPendingFeedback {
		t.Errorf("state = %s, want pendingFeedback", state)
	}
}

func TestDispatch_PassSkipsNetwork(t *testing.T) {
	submitter := &fakeSubmitter{resp: &models.ConnectionResponse{Status: models.ConnectionAccepted}}
	ms, recorder := newTestMatchService(submitter)

	state, _, err := ms.Dispatch(context.Background(), "card1", decisionFor(models.DirectionPass))
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if state != models.CardPassFeedback {
		t.Errorf("state = %s, want passFeedback", state)
	}
	if submitter.callCount() != 0 {
		t.Errorf("connection service called %d times for a pass", submitter.callCount())
	}

	time.Sleep(300 * time.Millisecond)
	if ms.FeedIndex() != 1 {
		t.Errorf("feed index = %d, want 1 after pass feedback", ms.FeedIndex())
	}
	if recorder.count() != 0 {
		t.Errorf("pass decisions must stay local, recorded %d", recorder.count())
	}
}

func TestDispatch_ErrorDoesNotAdvance(t *testing.T) {
	submitter := &fakeSubmitter{err: &NetworkError{Op: "connection submit", Err: errors.New("boom")}}
	ms, _ := newTestMatchService(submitter)

	state, _, err := ms.Dispatch(context.Background(), "card1", decisionFor(models.DirectionConnect))
	if err == nil {
		t.Fatal("expected the failure to surface")
	}
	if state != models.CardErrorFeedback {
		t.Errorf("state = %s, want errorFeedback", state)
	}

	time.Sleep(300 * time.Millisecond)

	if ms.CardState("card1") != models.CardIdle {
		t.Errorf("card state after error window = %s, want idle", ms.CardState("card1"))
	}
	if ms.FeedIndex() != 0 {
		t.Errorf("feed index = %d, error feedback must not advance", ms.FeedIndex())
	}
	// No auto-retry: one submit per gesture.
	if submitter.callCount() != 1 {
		t.Errorf("submit called %d times, want 1", submitter.callCount())
	}
}

func TestDispatch_RejectsBusyCard(t *testing.T) {
	submitter := &fakeSubmitter{resp: &models.ConnectionResponse{Status: models.ConnectionAccepted}}
	ms, _ := newTestMatchService(submitter)

	if _, _, err := ms.Dispatch(context.Background(), "card1", decisionFor(models.DirectionPass)); err != nil {
		t.Fatalf("first dispatch failed: %v", err)
	}

	// The card is in its feedback window; a second dispatch must reject.
	_, _, err := ms.Dispatch(context.Background(), "card1", decisionFor(models.DirectionConnect))
	if !errors.Is(err, ErrCardBusy) {
		t.Errorf("err = %v, want ErrCardBusy", err)
	}
	if submitter.callCount() != 0 {
		t.Errorf("rejected dispatch must not reach the connection service")
	}
}

func TestDispatch_FeedIndexClampsAtLastItem(t *testing.T) {
	submitter := &fakeSubmitter{resp: &models.ConnectionResponse{Status: models.ConnectionAccepted}}
	ms, _ := newTestMatchService(submitter)
	ms.SetFeedSize(1)

	if _, _, err := ms.Dispatch(context.Background(), "card1", decisionFor(models.DirectionPass)); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	time.Sleep(300 * time.Millisecond)

	// Single-item feed: no wraparound, no advance past the end.
	if ms.FeedIndex() != 0 {
		t.Errorf("feed index = %d, want clamp at 0", ms.FeedIndex())
	}
}

func TestDispatch_ReleasesGestureAfterCycle(t *testing.T) {
	submitter := &fakeSubmitter{resp: &models.ConnectionResponse{Status: models.ConnectionAccepted}}
	gestures := NewGestureService()
	ms := NewMatchService(submitter, &fakeProfiles{}, &fakeDecisionLog{}, gestures)
	ms.FeedbackWindow = 100 * time.Millisecond
	ms.ErrorWindow = 150 * time.Millisecond
	ms.SetFeedSize(5)

	decision, err := gestures.Interpret("card1", "vid1", "alice", "bob", 150)
	if err != nil {
		t.Fatalf("gesture failed: %v", err)
	}
	if _, _, err := ms.Dispatch(context.Background(), "card1", decision); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	// Mid-cycle the card still rejects gestures.
	if _, err := gestures.Interpret("card1", "vid1", "alice", "bob", 150); !errors.Is(err, ErrGestureInFlight) {
		t.Errorf("mid-cycle gesture err = %v, want ErrGestureInFlight", err)
	}

	time.Sleep(300 * time.Millisecond)

	if _, err := gestures.Interpret("card1", "vid1", "alice", "bob", 150); err != nil {
		t.Errorf("gesture after cycle end rejected: %v", err)
	}
}
