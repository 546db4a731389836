package models

// LikeEvent is keyed by (videoId, viewerId); at most one live record per
// pair. Created on like, deleted on unlike.
type LikeEvent struct {
	VideoID   string `dynamodbav:"videoId" json:"videoId"`   // ✅ Partition Key
	ViewerID  string `dynamodbav:"viewerId" json:"viewerId"` // ✅ Sort Key
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// LikeEventsTable is the DynamoDB table name for like records
const LikeEventsTable = "LikeEvents"
