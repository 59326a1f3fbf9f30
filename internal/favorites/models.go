package favorites

import (
	"encoding/json"
	"errors"
	"time"
)

// DefaultKey is the kv key holding the favorites snapshot.
const DefaultKey = "@BeautyGallery_Favorites"

// Common errors.
var (
	ErrStoreClosed     = errors.New("favorites store is closed")
	ErrStorageRead     = errors.New("failed to read favorites from storage")
	ErrStorageWrite    = errors.New("failed to write favorites to storage")
	ErrCorruptSnapshot = errors.New("favorites snapshot is malformed")
)

// Record marks one image as a favorite.
type Record struct {
	URL     string    `json:"url"`
	ID      string    `json:"id"`
	AddedAt time.Time `json:"addedAt"`
}

// ChangeKind identifies what a mutation did.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeCleared
	ChangeLoaded
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeCleared:
		return "cleared"
	case ChangeLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after the in-memory state changed.
type Change struct {
	Kind ChangeKind
	URL  string
}

func encodeSnapshot(records []Record) (string, error) {
	if records == nil {
		records = []Record{}
	}
	b, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeSnapshot parses a stored snapshot, dropping entries without a URL
// and all but the first record per URL.
func decodeSnapshot(payload string) ([]Record, error) {
	var raw []Record
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(raw))
	records := make([]Record, 0, len(raw))
	for _, r := range raw {
		if r.URL == "" {
			continue
		}
		if _, dup := seen[r.URL]; dup {
			continue
		}
		seen[r.URL] = struct{}{}
		records = append(records, r)
	}
	return records, nil
}
