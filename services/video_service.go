package services

import (
	"context"
	"fmt"
	"time"

	"reelmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
)

type VideoService struct {
	Dynamo Store
}

// CreateVideo registers a new asset with zeroed cached counters.
func (vs *VideoService) CreateVideo(ctx context.Context, ownerID, title, s3Key string) (*models.VideoAsset, error) {
	if ownerID == "" {
		return nil, &ValidationError{Field: "ownerId", Reason: "cannot be empty"}
	}

	asset := models.VideoAsset{
		VideoID:   uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		S3Key:     s3Key,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	if err := vs.Dynamo.PutItem(ctx, models.VideoAssetsTable, asset); err != nil {
		return nil, fmt.Errorf("failed to create video asset: %w", err)
	}
	return &asset, nil
}

// GetVideo retrieves a video asset by ID
func (vs *VideoService) GetVideo(ctx context.Context, videoID string) (*models.VideoAsset, error) {
	item, err := vs.Dynamo.GetItem(ctx, models.VideoAssetsTable, map[string]types.AttributeValue{
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

// GetFeed returns browseable assets for a viewer, excluding their own
// uploads.
func (vs *VideoService) GetFeed(ctx context.Context, viewerID string) ([]models.VideoAsset, error) {
	var assets []models.VideoAsset
	err := vs.Dynamo.ScanWithFilter(ctx, models.VideoAssetsTable, nil,
		map[string]string{"ownerId": viewerID}, &assets)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	return assets, nil
}
