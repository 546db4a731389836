package models

// VideoAsset defines the structure for uploaded short videos.
// The views/likes counters are denormalized caches for fast display;
// the raw event tables are the source of truth.
type VideoAsset struct {
	VideoID   string `dynamodbav:"videoId" json:"videoId"`
	OwnerID   string `dynamodbav:"ownerId" json:"ownerId"`
	Title     string `dynamodbav:"title,omitempty" json:"title,omitempty"`
	S3Key     string `dynamodbav:"s3Key,omitempty" json:"s3Key,omitempty"`
	Views     int    `dynamodbav:"views" json:"views"`
	Likes     int    `dynamodbav:"likes" json:"likes"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// VideoAssetsTable is the DynamoDB table name for video assets
const VideoAssetsTable = "VideoAssets"

// OwnerIDIndex is the GSI used to list a user's videos
const OwnerIDIndex = "ownerId-index"
