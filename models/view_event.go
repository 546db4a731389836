package models

// ViewEvent is an append-only record of a completed dwell on a video.
// There is no uniqueness constraint; the same (video, viewer) pair may
// accumulate many views across sessions.
type ViewEvent struct {
	ViewID   string `dynamodbav:"viewId" json:"viewId"` // ✅ Partition Key
	VideoID  string `dynamodbav:"videoId" json:"videoId"`
	ViewerID string `dynamodbav:"viewerId" json:"viewerId"`
	ViewedAt string `dynamodbav:"viewedAt" json:"viewedAt"`
}

// ViewEventsTable is the DynamoDB table name for raw view events
const ViewEventsTable = "ViewEvents"

// VideoViewedAtIndex is the GSI used to fetch a video's views ordered by time
const VideoViewedAtIndex = "videoId-viewedAt-index"
