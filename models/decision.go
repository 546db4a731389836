package models

// Decision is a classified swipe (or button) outcome for one feed card.
// Only connect decisions cross the boundary to the connection service;
// pass stays local.
type Decision struct {
	FromUser  string `dynamodbav:"fromUser" json:"fromUser"`
	ToUser    string `dynamodbav:"toUser" json:"toUser"`
	VideoID   string `dynamodbav:"videoId" json:"videoId"`
	Direction string `dynamodbav:"direction" json:"direction"` // connect, pass
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// MatchDecisionsTable is the DynamoDB table name for dispatched connect decisions
const MatchDecisionsTable = "MatchDecisions"

// ConnectionResponse is the external connection service's reply shape.
type ConnectionResponse struct {
	Status  string `json:"status"` // accepted, pending
	Message string `json:"message,omitempty"`
}

// CardEvent notifies subscribers of a card's dispatch state change.
type CardEvent struct {
	CardID    string `json:"cardId"`
	State     string `json:"state"`
	Message   string `json:"message,omitempty"`
	FeedIndex int    `json:"feedIndex"`
}
