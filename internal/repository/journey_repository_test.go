package repository

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/peerpath/journey-backend-go/internal/database"
	"github.com/peerpath/journey-backend-go/internal/models"
)

func newTestRepo(t *testing.T) *JourneyRepository {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewJourneyRepository(db)
}

func sampleState() models.JourneyState {
	state := models.DefaultJourneyState()
	state.StartedAt = "2026-03-14T08:30:00Z"
	state.Waypoints[0].Target = &models.Target{
		Lat: 12.9, Lng: 77.5, RadiusMeters: 150, Address: "Majestic, Bengaluru",
	}
	state.Waypoints[0].OTP = "4711"
	return state
}

func TestSaveLoadRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	state := sampleState()

	if err := repo.Save("s1", state); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Load("s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil {
		t.Fatal("load returned nil for saved state")
	}
	if got.StartedAt != state.StartedAt {
		t.Errorf("StartedAt = %q, want %q", got.StartedAt, state.StartedAt)
	}
	if len(got.Waypoints) != len(state.Waypoints) {
		t.Fatalf("got %d waypoints, want %d", len(got.Waypoints), len(state.Waypoints))
	}
	if got.Waypoints[0].OTP != "4711" {
		t.Errorf("OTP = %q, want preserved", got.Waypoints[0].OTP)
	}
	if got.Waypoints[0].Target == nil || got.Waypoints[0].Target.Address != "Majestic, Bengaluru" {
		t.Errorf("target not round-tripped: %+v", got.Waypoints[0].Target)
	}
}

func TestSaveOverwrites(t *testing.T) {
	repo := newTestRepo(t)

	if err := repo.Save("s1", sampleState()); err != nil {
		t.Fatalf("first save: %v", err)
	}
	second := models.DefaultJourneyState()
	second.Completed = true
	if err := repo.Save("s1", second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := repo.Load("s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || !got.Completed || got.StartedAt != "" {
		t.Fatalf("second save did not overwrite: %+v", got)
	}
}

func TestLoadMissingKey(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Load("nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil for missing key", got)
	}
}

func TestLoadCorruptPayloadIsAbsence(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.db.Exec(
		"INSERT INTO journey_states (key, payload, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)",
		"s1", "{not json",
	)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := repo.Load("s1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("got %+v, want nil for corrupt payload", got)
	}
}

func TestArchiveAndList(t *testing.T) {
	repo := newTestRepo(t)

	first := sampleState()
	first.Completed = true
	first.EndedAt = "2026-03-14T10:00:00Z"
	second := sampleState()
	second.StartedAt = "2026-03-15T08:30:00Z"
	second.Completed = true
	second.EndedAt = "2026-03-15T10:00:00Z"

	if err := repo.Archive("s1", first); err != nil {
		t.Fatalf("archive first: %v", err)
	}
	if err := repo.Archive("s1", second); err != nil {
		t.Fatalf("archive second: %v", err)
	}
	if err := repo.Archive("other", sampleState()); err != nil {
		t.Fatalf("archive other: %v", err)
	}

	got, err := repo.ListArchived("s1", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d archived journeys, want 2", len(got))
	}
	// Newest first.
	if got[0].StartedAt != second.StartedAt || got[1].StartedAt != first.StartedAt {
		t.Errorf("order = [%q, %q], want newest first", got[0].StartedAt, got[1].StartedAt)
	}
	if got[0].EndedAt != "2026-03-15T10:00:00Z" {
		t.Errorf("EndedAt = %q", got[0].EndedAt)
	}
	if !got[0].State.Completed {
		t.Error("archived state lost completion flag")
	}

	limited, err := repo.ListArchived("s1", 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].StartedAt != second.StartedAt {
		t.Fatalf("limit not applied: %+v", limited)
	}
}

func TestListArchivedEmptyKey(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.ListArchived("nobody", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d entries, want none", len(got))
	}
}
