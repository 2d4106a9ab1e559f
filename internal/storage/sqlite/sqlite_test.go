package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"salesintel/internal/analyze"
	"salesintel/internal/classify"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "salesintel-test.db")
	db, err := InitDB(dbPath)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(db)
}

func sampleRecord(id, transcriptID string, date time.Time) *analyze.AnalysisRecord {
	return &analyze.AnalysisRecord{
		ID:              id,
		TranscriptID:    transcriptID,
		Title:           "Discovery call",
		Date:            date,
		DurationMinutes: 45,
		Participants:    []string{"rep@ourco.com", "jane@acme.com"},
		Prospect: analyze.ProspectProfile{
			Name: "Jane", Email: "jane@acme.com", Company: "acme.com", Website: "acme.com",
		},
		PainPoints: []analyze.PainPoint{
			{Category: "time_drain", Urgency: classify.UrgencyImmediate,
				Intensity: classify.IntensityHigh, Quote: "I spend hours on this every day",
				Context: "What slows you down?", TimestampMs: 61000},
		},
		LanguageAssets: []analyze.LanguageAsset{
			{Type: classify.AssetMetaphor, Phrase: "like herding cats", Context: "How is managing this?"},
		},
		DFY: analyze.DFYMention{
			Mentioned:      true,
			WhoInitiated:   classify.InitiatorProspect,
			TimestampMs:    120000,
			Reason:         "prospect raised the service themselves",
			Classification: classify.DFYJustified,
			Contexts:       []string{"[Jane]: do you offer a managed service?"},
		},
		Objections: []analyze.Objection{
			{Category: classify.ObjectionPrice, Quote: "that's out of my budget", Context: "pricing"},
		},
		PainLevel:    3,
		OverallScore: 40,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
}

func TestSaveAndGetRecordRoundTrip(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	rec := sampleRecord("rec-1", "tr-1", date)
	id, err := store.SaveRecord(rec)
	if err != nil {
		t.Fatalf("SaveRecord failed: %v", err)
	}
	if id != "rec-1" {
		t.Fatalf("expected returned id rec-1, got %s", id)
	}

	got, err := store.GetByID("rec-1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.TranscriptID != "tr-1" || got.Title != "Discovery call" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.Participants) != 2 || got.Participants[1] != "jane@acme.com" {
		t.Fatalf("participants lost: %+v", got.Participants)
	}
	if len(got.PainPoints) != 1 {
		t.Fatalf("expected 1 pain point, got %d", len(got.PainPoints))
	}
	pp := got.PainPoints[0]
	if pp.Category != "time_drain" || pp.Intensity != classify.IntensityHigh || pp.TimestampMs != 61000 {
		t.Fatalf("pain point mangled: %+v", pp)
	}
	if !got.DFY.Mentioned || got.DFY.Classification != classify.DFYJustified {
		t.Fatalf("dfy mention mangled: %+v", got.DFY)
	}
	if len(got.DFY.Contexts) != 1 {
		t.Fatalf("dfy contexts mangled: %+v", got.DFY.Contexts)
	}
	if len(got.Objections) != 1 || got.Objections[0].Category != classify.ObjectionPrice {
		t.Fatalf("objections mangled: %+v", got.Objections)
	}
	if len(got.LanguageAssets) != 1 {
		t.Fatalf("language assets mangled: %+v", got.LanguageAssets)
	}
}

func TestSaveRecordUpsertReplacesChildren(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)

	if _, err := store.SaveRecord(sampleRecord("rec-old", "tr-1", date)); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// Re-analysis produces a fresh record for the same transcript with
	// different children.
	fresh := sampleRecord("rec-new", "tr-1", date)
	fresh.PainPoints = append(fresh.PainPoints, analyze.PainPoint{
		Category: "lead_flow", Urgency: classify.UrgencyImmediate,
		Intensity: classify.IntensityMedium, Quote: "pipeline is dry lately",
	})
	if _, err := store.SaveRecord(fresh); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	if _, err := store.GetByID("rec-old"); err != sql.ErrNoRows {
		t.Fatalf("old record should be gone, got err=%v", err)
	}
	got, err := store.GetByTranscriptID("tr-1")
	if err != nil {
		t.Fatalf("GetByTranscriptID failed: %v", err)
	}
	if got.ID != "rec-new" {
		t.Fatalf("expected rec-new, got %s", got.ID)
	}
	if len(got.PainPoints) != 2 {
		t.Fatalf("expected exactly the fresh children, got %d pain points", len(got.PainPoints))
	}

	// No orphaned rows may survive the replace.
	var orphans int
	if err := storeDB(store).QueryRow(
		`SELECT COUNT(*) FROM pain_points WHERE record_id = 'rec-old'`).Scan(&orphans); err != nil {
		t.Fatalf("orphan query failed: %v", err)
	}
	if orphans != 0 {
		t.Fatalf("expected 0 orphaned pain points, got %d", orphans)
	}
}

func TestQueryFilters(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, tc := range []struct {
		id, trID string
		offset   time.Duration
	}{
		{"rec-1", "tr-1", 0},
		{"rec-2", "tr-2", 24 * time.Hour},
		{"rec-3", "tr-3", 48 * time.Hour},
	} {
		rec := sampleRecord(tc.id, tc.trID, base.Add(tc.offset))
		if i == 2 {
			rec.Participants = []string{"other@ourco.com", "bob@gmail.com"}
		}
		if _, err := store.SaveRecord(rec); err != nil {
			t.Fatalf("save %s failed: %v", tc.id, err)
		}
	}

	all, err := store.Query(Filters{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records, got %d", len(all))
	}
	if all[0].ID != "rec-3" {
		t.Fatalf("expected newest first, got %s", all[0].ID)
	}

	ranged, err := store.Query(Filters{
		StartDate: base.Add(12 * time.Hour),
		EndDate:   base.Add(36 * time.Hour),
	})
	if err != nil {
		t.Fatalf("ranged query failed: %v", err)
	}
	if len(ranged) != 1 || ranged[0].ID != "rec-2" {
		t.Fatalf("expected only rec-2 in range, got %+v", ranged)
	}

	byRep, err := store.Query(Filters{Rep: "rep@ourco.com"})
	if err != nil {
		t.Fatalf("rep query failed: %v", err)
	}
	if len(byRep) != 2 {
		t.Fatalf("expected 2 records for rep, got %d", len(byRep))
	}

	limited, err := store.Query(Filters{Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("limited query failed: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "rec-2" {
		t.Fatalf("expected rec-2 at offset 1, got %+v", limited)
	}
}

func TestDeleteInRange(t *testing.T) {
	store := newTestStore(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"rec-1", "rec-2", "rec-3"} {
		rec := sampleRecord(id, "tr-"+id, base.Add(time.Duration(i)*24*time.Hour))
		if _, err := store.SaveRecord(rec); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	count, err := store.DeleteInRange(base, base.Add(36*time.Hour))
	if err != nil {
		t.Fatalf("DeleteInRange failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 deleted, got %d", count)
	}

	remaining, err := store.Query(Filters{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != "rec-3" {
		t.Fatalf("expected only rec-3 to survive, got %+v", remaining)
	}

	var childRows int
	if err := storeDB(store).QueryRow(
		`SELECT (SELECT COUNT(*) FROM pain_points) + (SELECT COUNT(*) FROM dfy_mentions) +
		 (SELECT COUNT(*) FROM objections) + (SELECT COUNT(*) FROM language_assets)`).Scan(&childRows); err != nil {
		t.Fatalf("child count query failed: %v", err)
	}
	// Only rec-3's children remain: 1 pain point + 1 dfy + 1 objection + 1 asset.
	if childRows != 4 {
		t.Fatalf("expected 4 surviving child rows, got %d", childRows)
	}
}

func TestKnownTranscriptIDs(t *testing.T) {
	store := newTestStore(t)
	date := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	for _, id := range []string{"tr-a", "tr-b"} {
		if _, err := store.SaveRecord(sampleRecord("rec-"+id, id, date)); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	ids, err := store.KnownTranscriptIDs()
	if err != nil {
		t.Fatalf("KnownTranscriptIDs failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %v", ids)
	}
}

func storeDB(s *Store) *sql.DB {
	return s.db
}
