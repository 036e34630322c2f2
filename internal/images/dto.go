package images

import "time"

type uploadResponse struct {
	Text   string `json:"text"`
	FileID string `json:"file_id"`
}

type recordResponse struct {
	FileID          string    `json:"file_id"`
	ExtractedText   string    `json:"extracted_text"`
	TesseractConfig string    `json:"tesseract_config"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
}

type historyResponse struct {
	History []recordResponse `json:"history"`
}

func toRecordResponse(rec Record) recordResponse {
	return recordResponse{
		FileID:          rec.FileID,
		ExtractedText:   rec.ExtractedText,
		TesseractConfig: rec.TesseractConfig,
		UploadTimestamp: rec.UploadedAt,
	}
}

func toHistoryResponse(recs []Record) historyResponse {
	out := historyResponse{History: make([]recordResponse, 0, len(recs))}
	for _, rec := range recs {
		out.History = append(out.History, toRecordResponse(rec))
	}
	return out
}
