package models

// UserProfile defines the structure for user profiles
type UserProfile struct {
	UserID   string `dynamodbav:"userId" json:"userId"`
	FullName string `dynamodbav:"fullName,omitempty" json:"fullName,omitempty"`
	Role     string `dynamodbav:"role,omitempty" json:"role,omitempty"`
	Bio      string `dynamodbav:"bio,omitempty" json:"bio,omitempty"`
	PhotoKey string `dynamodbav:"photoKey,omitempty" json:"photoKey,omitempty"`
	// Muted is the durable playback mute preference, rewritten on every
	// explicit toggle. Read once at session start.
	Muted bool `dynamodbav:"muted" json:"muted"`
}

// UserProfilesTable is the DynamoDB table name for user profiles
const UserProfilesTable = "UserProfiles"
