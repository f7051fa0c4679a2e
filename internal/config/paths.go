package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Source identifies one marketplace export folder.
type Source string

const (
	SourceShopeeOrders Source = "shopee_orders"
	SourceShopeeAds    Source = "shopee_ads"
	SourceShopeeLive   Source = "shopee_live"
	SourceShopeeVideo  Source = "shopee_video"
	SourceTikTokLive   Source = "tiktok_live"
	SourceTikTokVideo  Source = "tiktok_video"
)

// Sources lists every export folder in a fixed scan order.
func Sources() []Source {
	return []Source{
		SourceShopeeOrders,
		SourceShopeeAds,
		SourceShopeeLive,
		SourceShopeeVideo,
		SourceTikTokLive,
		SourceTikTokVideo,
	}
}

// folderNames maps a source to its conventional folder name. The exports
// arrive from operators on both Windows ("Shopee orders") and Linux
// ("Shopee_orders") machines, so both spellings are accepted.
var folderNames = map[Source]string{
	SourceShopeeOrders: "Shopee orders",
	SourceShopeeAds:    "Shopee Ad",
	SourceShopeeLive:   "Shopee Live",
	SourceShopeeVideo:  "Shopee Video",
	SourceTikTokLive:   "Tiktok Live",
	SourceTikTokVideo:  "Tiktok Video",
}

// SourceDir resolves the on-disk folder for a source under DataDir,
// preferring the underscore spelling when it exists.
func (c *Config) SourceDir(source Source) string {
	name, ok := folderNames[source]
	if !ok {
		return ""
	}
	underscored := filepath.Join(c.Paths.DataDir, strings.ReplaceAll(name, " ", "_"))
	if _, err := os.Stat(underscored); err == nil {
		return underscored
	}
	return filepath.Join(c.Paths.DataDir, name)
}

// SourceDirs returns every source's resolved folder in scan order.
func (c *Config) SourceDirs() map[Source]string {
	dirs := make(map[Source]string, len(folderNames))
	for _, source := range Sources() {
		dirs[source] = c.SourceDir(source)
	}
	return dirs
}
