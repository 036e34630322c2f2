package images

import "time"

// HistoryLimit caps how many records /history returns.
const HistoryLimit = 10

// Record is one processed upload.
type Record struct {
	FileID          string
	ExtractedText   string
	TesseractConfig string
	UploadedAt      time.Time
}

// storedFormats are the key suffixes Upload can produce, most common first.
var storedFormats = []string{"png", "jpeg", "tiff", "bmp", "webp", "gif", ""}

// StorageKey is the object store key for an upload's source bytes.
func StorageKey(fileID, format string) string {
	if format == "" {
		format = "bin"
	}
	return fileID + "." + format
}

// ContentType is the MIME type stored alongside an upload.
func ContentType(format string) string {
	if format == "" {
		return "application/octet-stream"
	}
	return "image/" + format
}
