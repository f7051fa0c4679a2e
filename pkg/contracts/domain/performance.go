package domain

import (
	"time"
)

// Channel names the content-commerce channel a performance row describes.
type Channel string

const (
	ChannelAds   Channel = "ads"
	ChannelLive  Channel = "live"
	ChannelVideo Channel = "video"
)

// PerformanceRow is one normalized row of an ad-spend, live-stream or
// short-video performance export. Not every channel reports every field;
// absent columns stay at their zero value.
type PerformanceRow struct {
	Platform    Platform  `json:"platform"`
	Channel     Channel   `json:"channel"`
	Date        time.Time `json:"date"`
	Name        string    `json:"name"`
	Spend       float64   `json:"spend"`
	Impressions float64   `json:"impressions"`
	Clicks      float64   `json:"clicks"`
	CTR         float64   `json:"ctr"`
	Viewers     float64   `json:"viewers"`
	Duration    float64   `json:"duration_seconds"`
	Orders      float64   `json:"orders"`
	UnitsSold   float64   `json:"units_sold"`
	GMV         float64   `json:"gmv"`
	ROAS        float64   `json:"roas"`
}
