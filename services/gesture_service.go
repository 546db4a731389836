package services

import (
	"errors"
	"sync"
	"time"

	"reelmatch_server/models"
)

// SwipeThreshold is the absolute horizontal drag distance a release must
// strictly exceed to classify as a decision.
const SwipeThreshold = 100.0

// ErrGestureInFlight rejects a gesture on a card whose previous decision
// is still awaiting dispatch. No queuing, no reordering.
var ErrGestureInFlight = errors.New("a decision for this card is already awaiting dispatch")

// GestureService classifies drag releases and explicit buttons into swipe
// decisions, holding at most one in-flight decision per card.
type GestureService struct {
	Threshold float64

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewGestureService() *GestureService {
	return &GestureService{
		Threshold: SwipeThreshold,
		inFlight:  make(map[string]bool),
	}
}

// Interpret classifies a drag release. A release within the threshold is
// a no-op (the card snaps back): nil decision, nil error. The comparison
// is strict — an offset of exactly the threshold does not classify.
func (gs *GestureService) Interpret(cardID, videoID, fromUser, toUser string, offset float64) (*models.Decision, error) {
	abs := offset
	if abs < 0 {
		abs = -abs
	}
	if abs <= gs.Threshold {
		return nil, nil
	}

	direction := models.DirectionPass
	if offset > 0 {
		direction = models.DirectionConnect
	}
	return gs.emit(cardID, videoID, fromUser, toUser, direction)
}

// InterpretButton emits the same decision shape for an explicit
// connect/pass button, bypassing the drag threshold.
func (gs *GestureService) InterpretButton(cardID, videoID, fromUser, toUser, direction string) (*models.Decision, error) {
	if direction != models.DirectionConnect && direction != models.DirectionPass {
		return nil, &ValidationError{Field: "direction", Reason: "must be connect or pass"}
	}
	return gs.emit(cardID, videoID, fromUser, toUser, direction)
}

// Release clears the in-flight mark for a card once its dispatch cycle
// completes. Called by the dispatcher.
func (gs *GestureService) Release(cardID string) {
	gs.mu.Lock()
	defer gs.mu.Unlock()
	delete(gs.inFlight, cardID)
}

func (gs *GestureService) emit(cardID, videoID, fromUser, toUser, direction string) (*models.Decision, error) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.inFlight[cardID] {
		return nil, ErrGestureInFlight
	}
	gs.inFlight[cardID] = true

	return &models.Decision{
		FromUser:  fromUser,
		ToUser:    toUser,
		VideoID:   videoID,
		Direction: direction,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}, nil
}
