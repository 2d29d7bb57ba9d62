package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/peerpath/journey-backend-go/internal/models"
)

// JourneyRepository persists journey tracker state as a JSON payload
// keyed by session. One row per session, overwritten on every write.
type JourneyRepository struct {
	db *sql.DB
}

// NewJourneyRepository creates a new journey repository
func NewJourneyRepository(db *sql.DB) *JourneyRepository {
	return &JourneyRepository{db: db}
}

// Save overwrites the stored state for the given key.
func (r *JourneyRepository) Save(key string, state models.JourneyState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal journey state: %w", err)
	}

	query := `
		INSERT INTO journey_states (key, payload, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`
	if _, err := r.db.Exec(query, key, string(payload)); err != nil {
		return fmt.Errorf("failed to save journey state: %w", err)
	}
	return nil
}

// Load reads the stored state for the given key. A missing row or a
// payload that no longer parses both come back as nil state: corrupt
// saved state is treated as absence, not an error.
func (r *JourneyRepository) Load(key string) (*models.JourneyState, error) {
	var payload string
	err := r.db.QueryRow("SELECT payload FROM journey_states WHERE key = ?", key).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load journey state: %w", err)
	}

	var state models.JourneyState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, nil
	}
	return &state, nil
}

// Archive stores a finished journey in the archive table.
func (r *JourneyRepository) Archive(key string, state models.JourneyState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal journey state: %w", err)
	}

	query := `
		INSERT INTO journey_archive (key, payload, started_at, ended_at)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, key, string(payload), state.StartedAt, state.EndedAt); err != nil {
		return fmt.Errorf("failed to archive journey: %w", err)
	}
	return nil
}

// ArchivedJourney is one finished journey as stored in the archive.
type ArchivedJourney struct {
	ID        int64               `json:"id"`
	Key       string              `json:"-"`
	StartedAt string              `json:"startedAt,omitempty"`
	EndedAt   string              `json:"endedAt,omitempty"`
	State     models.JourneyState `json:"state"`
}

// ListArchived returns finished journeys for the key, newest first.
func (r *JourneyRepository) ListArchived(key string, limit int) ([]ArchivedJourney, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, key, payload, started_at, ended_at
		FROM journey_archive
		WHERE key = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, key, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived journeys: %w", err)
	}
	defer rows.Close()

	var out []ArchivedJourney
	for rows.Next() {
		var a ArchivedJourney
		var payload string
		if err := rows.Scan(&a.ID, &a.Key, &payload, &a.StartedAt, &a.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived journey: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &a.State); err != nil {
			// Skip rows that no longer parse
			continue
		}
		out = append(out, a)
	}

	return out, rows.Err()
}
