package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"reelmatch_server/models"
)

// Feedback display windows. Error feedback lingers longer and does not
// advance the feed.
const (
	FeedbackWindow      = 800 * time.Millisecond
	ErrorFeedbackWindow = 1500 * time.Millisecond
)

// ErrCardBusy rejects a dispatch on a card that is not idle.
var ErrCardBusy = errors.New("card already has a dispatch in progress")

// ConnectionSubmitter is the external connection service contract.
type ConnectionSubmitter interface {
	Submit(ctx context.Context, fromUser, toUser string, fromProfile, toProfile map[string]string) (*models.ConnectionResponse, error)
}

// ProfileSnapshotter provides the acting user's role-specific snapshot
// for outbound connection requests.
type ProfileSnapshotter interface {
	GetProfileSnapshot(ctx context.Context, userID string) (map[string]string, error)
}

// DecisionRecorder persists dispatched decisions (best-effort telemetry).
type DecisionRecorder interface {
	RecordDecision(ctx context.Context, decision models.Decision)
}

// GestureReleaser clears a card's in-flight gesture at cycle end.
type GestureReleaser interface {
	Release(cardID string)
}

// MatchService sequences outbound connection requests from classified
// decisions. Per-card state machine:
//
//	Idle -> Dispatching -> {Accepted|Pending|Error}Feedback -> Idle(advance)
//
// pass short-circuits Idle -> PassFeedback -> Idle(advance) with no
// network call. Per-card locking is the only cross-operation mutual
// exclusion in the pipeline.
type MatchService struct {
	Connections ConnectionSubmitter
	Profiles    ProfileSnapshotter
	Recorder    DecisionRecorder
	Gestures    GestureReleaser

	FeedbackWindow time.Duration
	ErrorWindow    time.Duration

	mu        sync.Mutex
	cards     map[string]string
	feedIndex int
	feedSize  int
	events    chan models.CardEvent
}

func NewMatchService(connections ConnectionSubmitter, profiles ProfileSnapshotter, recorder DecisionRecorder, gestures GestureReleaser) *MatchService {
	return &MatchService{
		Connections:    connections,
		Profiles:       profiles,
		Recorder:       recorder,
		Gestures:       gestures,
		FeedbackWindow: FeedbackWindow,
		ErrorWindow:    ErrorFeedbackWindow,
		cards:          make(map[string]string),
		events:         make(chan models.CardEvent, 16),
	}
}

// Events exposes card state changes to the realtime layer.
func (ms *MatchService) Events() <-chan models.CardEvent {
	return ms.events
}

// SetFeedSize records the current feed length so advancing clamps at the
// last item. Also clamps the index if the feed shrank.
func (ms *MatchService) SetFeedSize(size int) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.feedSize = size
	if size > 0 && ms.feedIndex > size-1 {
		ms.feedIndex = size - 1
	}
}

// FeedIndex returns the current feed position.
func (ms *MatchService) FeedIndex() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.feedIndex
}

// CardState returns the dispatch state for a card.
func (ms *MatchService) CardState(cardID string) string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if state, ok := ms.cards[cardID]; ok {
		return state
	}
	return models.CardIdle
}

// Dispatch runs one decision through the card's state machine and returns
// the feedback state entered. Failures surface to the caller and are
// never auto-retried; the user must re-trigger the gesture.
func (ms *MatchService) Dispatch(ctx context.Context, cardID string, decision *models.Decision) (string, string, error) {
	if decision == nil {
		return "", "", &ValidationError{Field: "decision", Reason: "cannot be nil"}
	}

	ms.mu.Lock()
	if state, ok := ms.cards[cardID]; ok && state != models.CardIdle {
		ms.mu.Unlock()
		return "", "", ErrCardBusy
	}

	if decision.Direction == models.DirectionPass {
		// Pass never crosses the system boundary.
		ms.cards[cardID] = models.CardPassFeedback
		ms.mu.Unlock()
		ms.emit(cardID, models.CardPassFeedback, "")
		ms.scheduleClear(cardID, ms.FeedbackWindow, true)
		return models.CardPassFeedback, "", nil
	}

	ms.cards[cardID] = models.CardDispatching
	ms.mu.Unlock()
	ms.emit(cardID, models.CardDispatching, "")

	state, message, err := ms.submitConnect(ctx, decision)

	ms.mu.Lock()
	ms.cards[cardID] = state
	ms.mu.Unlock()
	ms.emit(cardID, state, message)

	if state == models.CardErrorFeedback {
		ms.scheduleClear(cardID, ms.ErrorWindow, false)
		return state, message, err
	}

	ms.Recorder.RecordDecision(ctx, *decision)
	ms.scheduleClear(cardID, ms.FeedbackWindow, true)
	return state, message, nil
}

func (ms *MatchService) submitConnect(ctx context.Context, decision *models.Decision) (string, string, error) {
	fromProfile, err := ms.Profiles.GetProfileSnapshot(ctx, decision.FromUser)
	if err != nil {
		log.Printf("❌ Failed to fetch profile snapshot for %s: %v", decision.FromUser, err)
		return models.CardErrorFeedback, "", err
	}

	toProfile, err := ms.Profiles.GetProfileSnapshot(ctx, decision.ToUser)
	if err != nil {
		log.Printf("❌ Failed to fetch profile snapshot for %s: %v", decision.ToUser, err)
		return models.CardErrorFeedback, "", err
	}

	resp, err := ms.Connections.Submit(ctx, decision.FromUser, decision.ToUser, fromProfile, toProfile)
	if err != nil {
		log.Printf("❌ Connection request %s -> %s failed: %v", decision.FromUser, decision.ToUser, err)
		return models.CardErrorFeedback, "", err
	}

	switch resp.Status {
	case models.ConnectionAccepted:
		return models.CardAcceptedFeedback, resp.Message, nil
	case models.ConnectionPending:
		return models.CardPendingFeedback, resp.Message, nil
	default:
		log.Printf("⚠️ Unexpected connection status '%s', treating as pending", resp.Status)
		return models.CardPendingFeedback, resp.Message, nil
	}
}

// scheduleClear ends the feedback window: the card returns to idle, the
// gesture lock releases, and unless the window followed an error the feed
// advances by one (clamped at the last item — no wraparound).
func (ms *MatchService) scheduleClear(cardID string, window time.Duration, advance bool) {
	time.AfterFunc(window, func() {
		ms.mu.Lock()
		ms.cards[cardID] = models.CardIdle
		if advance && ms.feedIndex < ms.feedSize-1 {
			ms.feedIndex++
		}
		index := ms.feedIndex
		ms.mu.Unlock()

		if ms.Gestures != nil {
			ms.Gestures.Release(cardID)
		}
		ms.emitWithIndex(cardID, models.CardIdle, "", index)
	})
}

func (ms *MatchService) emit(cardID, state, message string) {
	ms.emitWithIndex(cardID, state, message, ms.FeedIndex())
}

func (ms *MatchService) emitWithIndex(cardID, state, message string, index int) {
	event := models.CardEvent{CardID: cardID, State: state, Message: message, FeedIndex: index}
	select {
	case ms.events <- event:
	default:
		// Slow or absent subscriber must not stall dispatch.
	}
}
