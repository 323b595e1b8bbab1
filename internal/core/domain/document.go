package domain

import "time"

type DocumentStatus string

const (
	StatusUploaded   DocumentStatus = "uploaded"
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

// Chunk is one window of a document's full text. Chunks are created in a
// single batch when the document is processed and never mutated afterwards.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type Document struct {
	ID               string         `json:"id"`
	OriginalFilename string         `json:"original_filename"`
	StoredFilename   string         `json:"stored_filename"`
	MimeType         string         `json:"mime_type"`
	FullText         string         `json:"-"`
	Chunks           []Chunk        `json:"-"`
	Summary          string         `json:"summary,omitempty"`
	Status           DocumentStatus `json:"status"`
	Error            string         `json:"error,omitempty"`
	UploadedAt       time.Time      `json:"uploaded_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// Answer is the result of a retrieval-grounded question over one document.
type Answer struct {
	Text      string  `json:"answer"`
	SessionID string  `json:"session_id,omitempty"`
	Sources   []Chunk `json:"sources,omitempty"`
}

// Exchange is one question/answer turn kept in a chat session.
type Exchange struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
