package models

// Swipe decision directions
const (
	DirectionConnect = "connect"
	DirectionPass    = "pass"
)

// Per-card dispatch states
const (
	CardIdle             = "idle"
	CardDispatching      = "dispatching"
	CardAcceptedFeedback = "acceptedFeedback"
	CardPendingFeedback  = "pendingFeedback"
	CardPassFeedback     = "passFeedback"
	CardErrorFeedback    = "errorFeedback"
)

// Connection service response statuses
const (
	ConnectionAccepted = "accepted"
	ConnectionPending  = "pending"
)

// Media delivery presets
const (
	PresetMobile    = "mobile"
	PresetDesktop   = "desktop"
	PresetHD        = "hd"
	PresetThumbnail = "thumbnail"
)
