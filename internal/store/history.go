package store

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// HistoryKey is the fixed key the quiz history list is stored under.
const HistoryKey = "gptQuizHistory"

// HistoryEntry records one completed quiz.
type HistoryEntry struct {
	ID             string    `json:"id,omitempty" yaml:"id,omitempty"`
	Topic          string    `json:"topic" yaml:"topic"`
	Difficulty     string    `json:"difficulty" yaml:"difficulty"`
	Model          string    `json:"model" yaml:"model"`
	Score          int       `json:"score" yaml:"score"`
	TotalQuestions int       `json:"totalQuestions" yaml:"totalQuestions"`
	FinishedAt     time.Time `json:"finishedAt" yaml:"finishedAt"`
}

// HistoryRepo persists the list of completed quizzes as a single JSON
// document. Entries are kept in insertion order.
type HistoryRepo struct {
	kv     *kvRepo
	logger *zap.Logger
}

// Load returns all history entries. A missing or unreadable document
// yields an empty list; only a failed database read is reported, as a
// *StorageError, and still comes with an empty list.
func (r *HistoryRepo) Load(ctx context.Context) ([]HistoryEntry, error) {
	raw, ok, err := r.kv.get(ctx, HistoryKey)
	if err != nil {
		return []HistoryEntry{}, &StorageError{Op: "read", Key: HistoryKey, Err: err}
	}
	if !ok || raw == "" {
		return []HistoryEntry{}, nil
	}

	var entries []HistoryEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		r.logger.Warn("discarding unreadable quiz history",
			zap.String("key", HistoryKey),
			zap.Error(err))
		return []HistoryEntry{}, nil
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

// Append adds entry to the end of the history.
func (r *HistoryRepo) Append(ctx context.Context, entry HistoryEntry) error {
	entries, err := r.Load(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	raw, err := json.Marshal(entries)
	if err != nil {
		return &StorageError{Op: "encode", Key: HistoryKey, Err: err}
	}
	if err := r.kv.set(ctx, HistoryKey, string(raw)); err != nil {
		return &StorageError{Op: "write", Key: HistoryKey, Err: err}
	}
	return nil
}

// Clear removes every history entry.
func (r *HistoryRepo) Clear(ctx context.Context) error {
	if err := r.kv.remove(ctx, HistoryKey); err != nil {
		return &StorageError{Op: "clear", Key: HistoryKey, Err: err}
	}
	return nil
}
