package services

import (
	"context"
	"fmt"
	"os"
	"time"

	"reelmatch_server/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// MediaService is the media delivery collaborator: deterministic playback
// URL assembly per preset plus presigned S3 upload URLs for ingest.
type MediaService struct {
	CDNBase string
	Bucket  string
	Client  *s3.Client
}

func NewMediaService(cfg aws.Config) *MediaService {
	cdnBase := os.Getenv("MEDIA_CDN_BASE")
	if cdnBase == "" {
		cdnBase = fmt.Sprintf("https://%s.s3.amazonaws.com", os.Getenv("S3_BUCKET_NAME"))
	}
	return &MediaService{
		CDNBase: cdnBase,
		Bucket:  os.Getenv("S3_BUCKET_NAME"),
		Client:  s3.NewFromConfig(cfg),
	}
}

// PlaybackURL builds the delivery URL for an asset and preset. Purely
// deterministic — no round trip to storage.
func (ms *MediaService) PlaybackURL(assetID, preset string) (string, error) {
	switch preset {
	case models.PresetMobile, models.PresetDesktop, models.PresetHD:
		return fmt.Sprintf("%s/videos/%s/%s.mp4", ms.CDNBase, assetID, preset), nil
	case models.PresetThumbnail:
		return fmt.Sprintf("%s/videos/%s/thumbnail.jpg", ms.CDNBase, assetID), nil
	default:
		return "", &ValidationError{Field: "preset", Reason: fmt.Sprintf("unknown preset '%s'", preset)}
	}
}

// PlaybackURLs returns the delivery URLs for every preset.
func (ms *MediaService) PlaybackURLs(assetID string) map[string]string {
	urls := make(map[string]string, 4)
	for _, preset := range []string{models.PresetMobile, models.PresetDesktop, models.PresetHD, models.PresetThumbnail} {
		url, _ := ms.PlaybackURL(assetID, preset)
		urls[preset] = url
	}
	return urls
}

// GenerateUploadURL generates a presigned URL for uploading a video file
func (ms *MediaService) GenerateUploadURL(ctx context.Context, fileName, fileType string) (string, string, error) {
	key := "videos/" + time.Now().Format("20060102150405") + "-" + fileName
	params := &s3.PutObjectInput{
		Bucket:      aws.String(ms.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(fileType),
	}
	presigner := s3.NewPresignClient(ms.Client)
	presignedURL, err := presigner.PresignPutObject(ctx, params, s3.WithPresignExpires(5*time.Minute))
	if err != nil {
		return "", "", fmt.Errorf("failed to presign upload: %w", err)
	}
	return presignedURL.URL, key, nil
}
