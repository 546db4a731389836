package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"reelmatch_server/models"
	"reelmatch_server/services"
)

// SwipeController classifies gesture releases and runs them through the
// match dispatcher
type SwipeController struct {
	GestureService *services.GestureService
	MatchService   *services.MatchService
}

func NewSwipeController(gestureService *services.GestureService, matchService *services.MatchService) *SwipeController {
	return &SwipeController{GestureService: gestureService, MatchService: matchService}
}

// HandleSwipeRelease interprets a drag release offset and dispatches the
// resulting decision, if any.
func (sc *SwipeController) HandleSwipeRelease(w http.ResponseWriter, r *http.Request) {
	var request struct {
		CardID   string  `json:"cardId"`
		VideoID  string  `json:"videoId"`
		FromUser string  `json:"fromUser"`
		ToUser   string  `json:"toUser"`
		Offset   float64 `json:"offset"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	decision, err := sc.GestureService.Interpret(request.CardID, request.VideoID, request.FromUser, request.ToUser, request.Offset)
	if err != nil {
		sc.writeGestureError(w, err)
		return
	}
	if decision == nil {
		// Within threshold: the card snaps back, no decision emitted.
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"result": "snapback"})
		return
	}

	sc.dispatch(w, request.CardID, decision)
}

// HandleSwipeButton dispatches an explicit connect/pass button action
func (sc *SwipeController) HandleSwipeButton(w http.ResponseWriter, r *http.Request) {
	var request struct {
		CardID    string `json:"cardId"`
		VideoID   string `json:"videoId"`
		FromUser  string `json:"fromUser"`
		ToUser    string `json:"toUser"`
		Direction string `json:"direction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	decision, err := sc.GestureService.InterpretButton(request.CardID, request.VideoID, request.FromUser, request.ToUser, request.Direction)
	if err != nil {
		sc.writeGestureError(w, err)
		return
	}

	sc.dispatch(w, request.CardID, decision)
}

func (sc *SwipeController) dispatch(w http.ResponseWriter, cardID string, decision *models.Decision) {
	state, message, err := sc.MatchService.Dispatch(context.Background(), cardID, decision)
	if err != nil {
		if errors.Is(err, services.ErrCardBusy) {
			// The interpreter marked the card; undo so a later gesture is
			// not locked out by this rejected one.
			sc.GestureService.Release(cardID)
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		// Dispatch failures surface with the error feedback state; the
		// user must re-trigger, never auto-retry.
		log.Printf("❌ Dispatch for card %s failed: %v", cardID, err)
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{
			"result": state,
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"result":    state,
		"message":   message,
		"feedIndex": sc.MatchService.FeedIndex(),
	})
}

func (sc *SwipeController) writeGestureError(w http.ResponseWriter, err error) {
	if errors.Is(err, services.ErrGestureInFlight) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	var validation *services.ValidationError
	if errors.As(err, &validation) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Printf("❌ Gesture interpretation failed: %v", err)
	http.Error(w, "Failed to interpret gesture", http.StatusInternalServerError)
}
