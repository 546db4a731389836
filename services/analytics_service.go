package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"time"

	"reelmatch_server/models"
	"reelmatch_server/utils"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DefaultWindowDays is the rolling-window size for dashboard buckets.
const DefaultWindowDays = 30

const dayFormat = "2006-01-02"

// AnalyticsService derives rolling daily buckets and scalar metrics from
// the raw event collections. Nothing here is persisted; every dashboard
// is computed per query.
type AnalyticsService struct {
	Dynamo Store
}

// BuildDashboard aggregates all raw events for the owner's videos into a
// windowed dashboard ending at now (UTC).
//
// A read failure never propagates: the dashboard degrades to zeroed
// metrics so an analytics outage cannot take the page down.
func (as *AnalyticsService) BuildDashboard(ctx context.Context, ownerID string, windowDays int) *models.Dashboard {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	videoIDs, err := as.listOwnerVideos(ctx, ownerID)
	if err != nil {
		log.Printf("❌ Dashboard degraded to zeroes for %s: %v", ownerID, err)
		return aggregateDashboard(time.Now().UTC(), windowDays, nil, nil, nil)
	}

	var views, likes, connections []time.Time
	for _, videoID := range videoIDs {
		v, err := as.fetchViewTimes(ctx, videoID)
		if err != nil {
			log.Printf("❌ Dashboard degraded to zeroes for %s: %v", ownerID, err)
			return aggregateDashboard(time.Now().UTC(), windowDays, nil, nil, nil)
		}
		views = append(views, v...)

		l, err := as.fetchLikeTimes(ctx, videoID)
		if err != nil {
			log.Printf("❌ Dashboard degraded to zeroes for %s: %v", ownerID, err)
			return aggregateDashboard(time.Now().UTC(), windowDays, nil, nil, nil)
		}
		likes = append(likes, l...)

		c, err := as.fetchConnectionTimes(ctx, videoID)
		if err != nil {
			log.Printf("❌ Dashboard degraded to zeroes for %s: %v", ownerID, err)
			return aggregateDashboard(time.Now().UTC(), windowDays, nil, nil, nil)
		}
		connections = append(connections, c...)
	}

	return aggregateDashboard(time.Now().UTC(), windowDays, views, likes, connections)
}

// aggregateDashboard is the pure bucketing core.
//
// Buckets cover [now-(N-1)d, now] keyed by UTC day string, zero-filled,
// oldest first; events outside the window are silently dropped. The
// scalar totals are all-time sums over the full collections — the
// window applies to buckets only.
func aggregateDashboard(now time.Time, windowDays int, views, likes, connections []time.Time) *models.Dashboard {
	now = now.UTC()
	windowStart := now.AddDate(0, 0, -(windowDays - 1))

	buckets := make([]models.DailyBucket, windowDays)
	index := make(map[string]int, windowDays)
	for i := 0; i < windowDays; i++ {
		day := windowStart.AddDate(0, 0, i).Format(dayFormat)
		buckets[i] = models.DailyBucket{Date: day}
		index[day] = i
	}

	windowedViews := 0
	for _, t := range views {
		if i, ok := index[t.UTC().Format(dayFormat)]; ok {
			buckets[i].Views++
			windowedViews++
		}
	}
	for _, t := range likes {
		if i, ok := index[t.UTC().Format(dayFormat)]; ok {
			buckets[i].Likes++
		}
	}
	for _, t := range connections {
		if i, ok := index[t.UTC().Format(dayFormat)]; ok {
			buckets[i].Connections++
		}
	}

	// Running sum across buckets; non-decreasing by construction.
	cumulative := make([]int, windowDays)
	running := 0
	for i := range buckets {
		running += buckets[i].Connections
		cumulative[i] = running
	}

	totalViews := len(views)
	totalLikes := len(likes)
	totalConnections := len(connections)

	dashboard := &models.Dashboard{
		WindowDays:            windowDays,
		Buckets:               buckets,
		CumulativeConnections: cumulative,
		TotalViews:            totalViews,
		TotalLikes:            totalLikes,
		TotalConnections:      totalConnections,
		AvgViewsPerDay:        windowedViews / windowDays,
	}

	// Division-by-zero guard: the literal value 0, never NaN.
	if totalViews > 0 {
		dashboard.EngagementRate = round1(float64(totalLikes+totalViews) / float64(totalViews) * 100)
		dashboard.ConnectionRate = round1(float64(totalConnections) / float64(totalViews) * 100)
	}

	return dashboard
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func (as *AnalyticsService) listOwnerVideos(ctx context.Context, ownerID string) ([]string, error) {
	items, err := as.Dynamo.QueryItemsWithIndex(ctx, models.VideoAssetsTable, models.OwnerIDIndex,
		"ownerId = :owner",
		map[string]types.AttributeValue{
			":owner": &types.AttributeValueMemberS{Value: ownerID},
		}, nil, 0)
	if err != nil {
		if !IsIndexRequired(err) {
			return nil, err
		}
		// Degraded fallback: unindexed scan filtered in process.
		log.Printf("⚠️ Falling back to scan for owner %s videos: %v", ownerID, err)
		var assets []models.VideoAsset
		if scanErr := as.Dynamo.ScanWithFilter(ctx, models.VideoAssetsTable, func(item map[string]types.AttributeValue) bool {
			return utils.ExtractString(item, "ownerId") == ownerID
		}, nil, &assets); scanErr != nil {
			return nil, scanErr
		}
		ids := make([]string, 0, len(assets))
		for _, a := range assets {
			ids = append(ids, a.VideoID)
		}
		return ids, nil
	}

	var assets []models.VideoAsset
	if err := attributevalue.UnmarshalListOfMaps(items, &assets); err != nil {
		return nil, fmt.Errorf("failed to unmarshal video assets: %w", err)
	}
	ids := make([]string, 0, len(assets))
	for _, a := range assets {
		ids = append(ids, a.VideoID)
	}
	return ids, nil
}

func (as *AnalyticsService) fetchViewTimes(ctx context.Context, videoID string) ([]time.Time, error) {
	items, err := as.Dynamo.QueryItemsWithIndex(ctx, models.ViewEventsTable, models.VideoViewedAtIndex,
		"videoId = :video",
		map[string]types.AttributeValue{
			":video": &types.AttributeValueMemberS{Value: videoID},
		}, nil, 0)
	if err != nil {
		if !IsIndexRequired(err) {
			return nil, err
		}
		// Degraded fallback: full scan of the view events, filtered here.
		log.Printf("⚠️ Falling back to scan for views of video %s: %v", videoID, err)
		var events []models.ViewEvent
		if scanErr := as.Dynamo.ScanWithFilter(ctx, models.ViewEventsTable, func(item map[string]types.AttributeValue) bool {
			return utils.ExtractString(item, "videoId") == videoID
		}, nil, &events); scanErr != nil {
			return nil, scanErr
		}
		return viewTimes(events), nil
	}

	var events []models.ViewEvent
	if err := attributevalue.UnmarshalListOfMaps(items, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal view events: %w", err)
	}
	return viewTimes(events), nil
}

func (as *AnalyticsService) fetchLikeTimes(ctx context.Context, videoID string) ([]time.Time, error) {
	items, err := as.Dynamo.QueryItems(ctx, models.LikeEventsTable,
		"videoId = :video",
		map[string]types.AttributeValue{
			":video": &types.AttributeValueMemberS{Value: videoID},
		}, nil, 0)
	if err != nil {
		return nil, err
	}

	var events []models.LikeEvent
	if err := attributevalue.UnmarshalListOfMaps(items, &events); err != nil {
		return nil, fmt.Errorf("failed to unmarshal like events: %w", err)
	}

	times := make([]time.Time, 0, len(events))
	for _, e := range events {
		if t, err := time.Parse(time.RFC3339, e.CreatedAt); err == nil {
			times = append(times, t)
		}
	}
	return times, nil
}

func (as *AnalyticsService) fetchConnectionTimes(ctx context.Context, videoID string) ([]time.Time, error) {
	items, err := as.Dynamo.QueryItems(ctx, models.MatchDecisionsTable,
		"videoId = :video",
		map[string]types.AttributeValue{
			":video": &types.AttributeValueMemberS{Value: videoID},
		}, nil, 0)
	if err != nil {
		return nil, err
	}

	var decisions []models.Decision
	if err := attributevalue.UnmarshalListOfMaps(items, &decisions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decisions: %w", err)
	}

	times := make([]time.Time, 0, len(decisions))
	for _, d := range decisions {
		if d.Direction != models.DirectionConnect {
			continue
		}
		if t, err := time.Parse(time.RFC3339, d.CreatedAt); err == nil {
			times = append(times, t)
		}
	}
	return times, nil
}

func viewTimes(events []models.ViewEvent) []time.Time {
	times := make([]time.Time, 0, len(events))
	for _, e := range events {
		if t, err := time.Parse(time.RFC3339, e.ViewedAt); err == nil {
			times = append(times, t)
		}
	}
	return times
}
