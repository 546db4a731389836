package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"reelmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

// EngagementService persists raw view/like engagement records and keeps
// the denormalized counters on VideoAssets roughly in sync.
type EngagementService struct {
	Dynamo Store
}

// ToggleResult is the caller-visible outcome of a like toggle.
type ToggleResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// RecordView appends a ViewEvent and bumps the cached view counter.
// Telemetry-class write: every failure is logged and swallowed, never
// surfaced to the caller and never retried.
func (es *EngagementService) RecordView(ctx context.Context, videoID, viewerID string) {
	event := models.ViewEvent{
		ViewID:   uuid.NewString(),
		VideoID:  videoID,
		ViewerID: viewerID,
		ViewedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := es.Dynamo.PutItem(ctx, models.ViewEventsTable, event); err != nil {
		log.Printf("❌ Failed to record view for video %s: %v", videoID, err)
		return
	}

	// Best-effort counter bump; the raw events stay the source of truth.
	asset, err := es.getAsset(ctx, videoID)
	if err != nil {
		log.Printf("⚠️ View recorded but counter not bumped for video %s: %v", videoID, err)
		return
	}
	if err := es.setCounter(ctx, videoID, "views", asset.Views+1); err != nil {
		log.Printf("⚠️ Failed to bump view counter for video %s: %v", videoID, err)
	}
}

// ToggleLike flips the (videoId, viewerId) like record and rewrites the
// cached counter. Read-then-write, not a transaction: concurrent toggles
// from the same identity can transiently skew the cached counter
// (last-write-wins).
func (es *EngagementService) ToggleLike(ctx context.Context, videoID, viewerID string) (*ToggleResult, error) {
	asset, err := es.getAsset(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch video %s: %w", videoID, err)
	}

	liked, err := es.CheckLiked(ctx, videoID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check like state: %w", err)
	}

	key := likeKey(videoID, viewerID)
	if liked {
		if err := es.Dynamo.DeleteItem(ctx, models.LikeEventsTable, key); err != nil {
			return nil, fmt.Errorf("failed to remove like: %w", err)
		}
		newCount := asset.Likes - 1
		if err := es.setCounter(ctx, videoID, "likes", newCount); err != nil {
			log.Printf("⚠️ Like removed but counter not updated for video %s: %v", videoID, err)
		}
		return &ToggleResult{Liked: false, Likes: newCount}, nil
	}

	record := models.LikeEvent{
		VideoID:   videoID,
		ViewerID:  viewerID,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := es.Dynamo.PutItem(ctx, models.LikeEventsTable, record); err != nil {
		return nil, fmt.Errorf("failed to save like: %w", err)
	}
	newCount := asset.Likes + 1
	if err := es.setCounter(ctx, videoID, "likes", newCount); err != nil {
		log.Printf("⚠️ Like saved but counter not updated for video %s: %v", videoID, err)
	}
	return &ToggleResult{Liked: true, Likes: newCount}, nil
}

// CheckLiked reports whether a live like record exists for the pair.
// No side effects.
func (es *EngagementService) CheckLiked(ctx context.Context, videoID, viewerID string) (bool, error) {
	_, err := es.Dynamo.GetItem(ctx, models.LikeEventsTable, likeKey(videoID, viewerID))
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RecordDecision appends a dispatched connect decision for analytics.
// Telemetry-class like RecordView: log-only on failure.
func (es *EngagementService) RecordDecision(ctx context.Context, decision models.Decision) {
	if err := es.Dynamo.PutItem(ctx, models.MatchDecisionsTable, decision); err != nil {
		log.Printf("❌ Failed to record %s decision %s -> %s: %v",
			decision.Direction, decision.FromUser, decision.ToUser, err)
	}
}

func (es *EngagementService) getAsset(ctx context.Context, videoID string) (*models.VideoAsset, error) {
	item, err := es.Dynamo.GetItem(ctx, models.VideoAssetsTable, map[string]types.AttributeValue{
		"videoId": &types.AttributeValueMemberS{Value: videoID},
	})
	if err != nil {
		return nil, err
	}

	var asset models.VideoAsset
	if err := attributevalue.UnmarshalMap(item, &asset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video asset: %w", err)
	}
	return &asset, nil
}

func (es *EngagementService) setCounter(ctx context.Context, videoID, field string, value int) error {
	updateExpression := "SET #f = :val"
	_, err := es.Dynamo.UpdateItem(ctx, models.VideoAssetsTable, updateExpression,
		map[string]types.AttributeValue{
			"videoId": &types.AttributeValueMemberS{Value: videoID},
		},
		map[string]types.AttributeValue{
			":val": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", value)},
		},
		map[string]string{"#f": field},
	)
	return err
}

func likeKey(videoID, viewerID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"videoId":  &types.AttributeValueMemberS{Value: videoID},
		"viewerId": &types.AttributeValueMemberS{Value: viewerID},
	}
}
