package queue

import (
	"encoding/json"
	"time"
)

// MessageVersion is bumped when Message fields change incompatibly.
const MessageVersion = 1

// Message announces a completed upload.
type Message struct {
	FileID          string `json:"file_id"`
	RequestID       string `json:"request_id,omitempty"`
	TesseractConfig string `json:"tesseract_config"`
	TextLength      int    `json:"text_length"`
	EnqueuedAt      string `json:"enqueued_at"`
	Version         int    `json:"version"`
}

// NewMessage stamps an upload event with the current time and version.
func NewMessage(fileID, requestID, tesseractConfig string, textLength int) Message {
	return Message{
		FileID:          fileID,
		RequestID:       requestID,
		TesseractConfig: tesseractConfig,
		TextLength:      textLength,
		EnqueuedAt:      time.Now().UTC().Format(time.RFC3339Nano),
		Version:         MessageVersion,
	}
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
