package services

import (
	"context"
	"fmt"
	"log"

	"reelmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type UserProfileService struct {
	Dynamo Store
}

// AddUserProfile adds a new user profile to DynamoDB
func (ups *UserProfileService) AddUserProfile(ctx context.Context, profile models.UserProfile) (*models.UserProfile, error) {
	if profile.UserID == "" {
		return nil, &ValidationError{Field: "userId", Reason: "cannot be empty"}
	}
	if err := ups.Dynamo.PutItem(ctx, models.UserProfilesTable, profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserProfile retrieves a user profile by ID
func (ups *UserProfileService) GetUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	item, err := ups.Dynamo.GetItem(ctx, models.UserProfilesTable, profileKey(userID))
	if err != nil {
		return nil, err
	}

	var profile models.UserProfile
	if err := attributevalue.UnmarshalMap(item, &profile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return &profile, nil
}

// UpdateUserProfile updates string attributes on an existing profile
func (ups *UserProfileService) UpdateUserProfile(ctx context.Context, userID string, updates map[string]string) (*models.UserProfile, error) {
	if len(updates) == 0 {
		return nil, &ValidationError{Field: "updates", Reason: "cannot be empty"}
	}

	updateExpression := "SET"
	expressionAttributeValues := make(map[string]types.AttributeValue)
	expressionAttributeNames := make(map[string]string)

	for k, v := range updates {
		placeholder := ":" + k
		attributeName := "#" + k
		updateExpression += " " + attributeName + " = " + placeholder + ","
		expressionAttributeValues[placeholder] = &types.AttributeValueMemberS{Value: v}
		expressionAttributeNames[attributeName] = k
	}
	updateExpression = updateExpression[:len(updateExpression)-1]

	updatedItem, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, updateExpression,
		profileKey(userID), expressionAttributeValues, expressionAttributeNames)
	if err != nil {
		return nil, err
	}

	var updatedProfile models.UserProfile
	if err := attributevalue.UnmarshalMap(updatedItem, &updatedProfile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal updated profile: %w", err)
	}
	return &updatedProfile, nil
}

// GetProfileSnapshot returns the role-specific subset of a profile sent
// along with outbound connection requests.
func (ups *UserProfileService) GetProfileSnapshot(ctx context.Context, userID string) (map[string]string, error) {
	profile, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile snapshot: %w", err)
	}

	snapshot := map[string]string{
		"userId":   profile.UserID,
		"fullName": profile.FullName,
		"role":     profile.Role,
	}
	switch profile.Role {
	case "creator":
		snapshot["bio"] = profile.Bio
	default:
		snapshot["photoKey"] = profile.PhotoKey
	}
	return snapshot, nil
}

// GetMutePreference reads the durable session mute preference.
func (ups *UserProfileService) GetMutePreference(ctx context.Context, userID string) (bool, error) {
	profile, err := ups.GetUserProfile(ctx, userID)
	if err != nil {
		return true, err
	}
	return profile.Muted, nil
}

// SetMutePreference rewrites the durable mute preference. Called on every
// explicit toggle.
func (ups *UserProfileService) SetMutePreference(ctx context.Context, userID string, muted bool) error {
	_, err := ups.Dynamo.UpdateItem(ctx, models.UserProfilesTable, "SET muted = :muted",
		profileKey(userID),
		map[string]types.AttributeValue{
			":muted": &types.AttributeValueMemberBOOL{Value: muted},
		}, nil)
	if err != nil {
		return fmt.Errorf("failed to persist mute preference: %w", err)
	}
	log.Printf("✅ Mute preference for %s set to %v", userID, muted)
	return nil
}

func profileKey(userID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"userId": &types.AttributeValueMemberS{Value: userID},
	}
}
