// Package storage uploads landmark photos and returns their public URLs.
package storage

import (
	"fmt"
	"time"

	"landmarkbot/internal/utils"
)

// maxUploadBytes caps a single photo. LINE limits images well below this.
const maxUploadBytes = 20 << 20

// objectName builds a date-partitioned, collision-free name for an upload.
func objectName(now time.Time, contentType string) string {
	return fmt.Sprintf("landmarks/%04d/%02d/%s%s", now.Year(), now.Month(), utils.NanoID(), extensionFor(contentType))
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
