package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamHutConvert = "stream:hut:convert"
	StreamHutDone    = "stream:hut:done"
)

// HutConvertEvent - входящее задание на конвертацию записи источника
type HutConvertEvent struct {
	JobID         uuid.UUID       `json:"job_id"`
	Source        string          `json:"source"`
	IncludePhotos bool            `json:"include_photos,omitempty"`
	Record        json.RawMessage `json:"record"`
}

// Validate проверяет обязательные поля события
func (e *HutConvertEvent) Validate() error {
	if e.JobID == uuid.Nil {
		return &ValidationError{Field: "job_id", Tag: "required"}
	}
	if e.Source == "" {
		return &ValidationError{Field: "source", Tag: "required"}
	}
	if len(e.Record) == 0 || string(e.Record) == "null" {
		return &ValidationError{Field: "record", Tag: "required"}
	}
	return nil
}

// HutDoneEvent - результат конвертации
type HutDoneEvent struct {
	JobID    uuid.UUID `json:"job_id"`
	Source   string    `json:"source"`
	SourceID string    `json:"source_id,omitempty"`
	Hut      *Hut      `json:"hut,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
