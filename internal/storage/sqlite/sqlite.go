// Package sqlite is the record store for analysis results. One
// analysis_records row per call plus child rows for pain points, language
// assets, DFY mentions and objections, all keyed by record id.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"salesintel/internal/analyze"
	"salesintel/internal/classify"
)

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS analysis_records (
		id               TEXT PRIMARY KEY,
		transcript_id    TEXT NOT NULL UNIQUE,
		title            TEXT NOT NULL,
		call_date        DATETIME NOT NULL,
		duration_minutes INTEGER DEFAULT 0,
		participants     TEXT DEFAULT '',
		prospect_name    TEXT DEFAULT '',
		prospect_email   TEXT DEFAULT '',
		prospect_company TEXT DEFAULT '',
		prospect_website TEXT DEFAULT '',
		pain_level       INTEGER DEFAULT 0,
		overall_score    INTEGER DEFAULT 0,
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_records_call_date ON analysis_records(call_date);
	CREATE INDEX IF NOT EXISTS idx_records_transcript ON analysis_records(transcript_id);

	CREATE TABLE IF NOT EXISTS pain_points (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id    TEXT NOT NULL,
		category     TEXT NOT NULL,
		urgency      TEXT NOT NULL,
		intensity    TEXT NOT NULL,
		quote        TEXT NOT NULL,
		context      TEXT DEFAULT '',
		timestamp_ms INTEGER DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_pain_points_record ON pain_points(record_id);

	CREATE TABLE IF NOT EXISTS language_assets (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id TEXT NOT NULL,
		type      TEXT NOT NULL,
		phrase    TEXT NOT NULL,
		context   TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_language_assets_record ON language_assets(record_id);

	CREATE TABLE IF NOT EXISTS dfy_mentions (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id      TEXT NOT NULL,
		mentioned      INTEGER NOT NULL DEFAULT 0,
		who_initiated  TEXT DEFAULT '',
		timestamp_ms   INTEGER DEFAULT 0,
		reason         TEXT DEFAULT '',
		classification TEXT DEFAULT '',
		contexts       TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_dfy_mentions_record ON dfy_mentions(record_id);

	CREATE TABLE IF NOT EXISTS objections (
		id        INTEGER PRIMARY KEY AUTOINCREMENT,
		record_id TEXT NOT NULL,
		category  TEXT NOT NULL,
		quote     TEXT NOT NULL,
		context   TEXT DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_objections_record ON objections(record_id);
	`
	if _, err = db.Exec(schema); err != nil {
		return nil, err
	}

	return db, nil
}

// Store wraps the database handle with record-level operations.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// contextsSeparator joins DFY context lines in one TEXT column.
const contextsSeparator = "\n"

// SaveRecord upserts one record: within a single transaction any previous
// record for the same transcript and all its child rows are deleted, then
// everything is inserted fresh. Partial replacement states are never
// visible to other readers.
func (s *Store) SaveRecord(rec *analyze.AnalysisRecord) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if err := deleteRecordTx(tx, rec.TranscriptID); err != nil {
		return "", fmt.Errorf("clearing previous record: %w", err)
	}

	_, err = tx.Exec(
		`INSERT INTO analysis_records (id, transcript_id, title, call_date, duration_minutes,
			participants, prospect_name, prospect_email, prospect_company, prospect_website,
			pain_level, overall_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.TranscriptID, rec.Title, rec.Date, rec.DurationMinutes,
		strings.Join(rec.Participants, ","), rec.Prospect.Name, rec.Prospect.Email,
		rec.Prospect.Company, rec.Prospect.Website,
		rec.PainLevel, rec.OverallScore, rec.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("inserting record: %w", err)
	}

	for _, pp := range rec.PainPoints {
		_, err = tx.Exec(
			`INSERT INTO pain_points (record_id, category, urgency, intensity, quote, context, timestamp_ms)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, pp.Category, string(pp.Urgency), string(pp.Intensity), pp.Quote, pp.Context, pp.TimestampMs,
		)
		if err != nil {
			return "", fmt.Errorf("inserting pain point: %w", err)
		}
	}

	for _, asset := range rec.LanguageAssets {
		_, err = tx.Exec(
			`INSERT INTO language_assets (record_id, type, phrase, context) VALUES (?, ?, ?, ?)`,
			rec.ID, string(asset.Type), asset.Phrase, asset.Context,
		)
		if err != nil {
			return "", fmt.Errorf("inserting language asset: %w", err)
		}
	}

	if rec.DFY.Mentioned {
		_, err = tx.Exec(
			`INSERT INTO dfy_mentions (record_id, mentioned, who_initiated, timestamp_ms, reason, classification, contexts)
			 VALUES (?, 1, ?, ?, ?, ?, ?)`,
			rec.ID, string(rec.DFY.WhoInitiated), rec.DFY.TimestampMs, rec.DFY.Reason,
			string(rec.DFY.Classification), strings.Join(rec.DFY.Contexts, contextsSeparator),
		)
		if err != nil {
			return "", fmt.Errorf("inserting dfy mention: %w", err)
		}
	}

	for _, obj := range rec.Objections {
		_, err = tx.Exec(
			`INSERT INTO objections (record_id, category, quote, context) VALUES (?, ?, ?, ?)`,
			rec.ID, string(obj.Category), obj.Quote, obj.Context,
		)
		if err != nil {
			return "", fmt.Errorf("inserting objection: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func deleteRecordTx(tx *sql.Tx, transcriptID string) error {
	rows, err := tx.Query(`SELECT id FROM analysis_records WHERE transcript_id = ?`, transcriptID)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if err := deleteChildrenTx(tx, id); err != nil {
			return err
		}
		if _, err := tx.Exec(`DELETE FROM analysis_records WHERE id = ?`, id); err != nil {
			return err
		}
	}
	return nil
}

func deleteChildrenTx(tx *sql.Tx, recordID string) error {
	for _, table := range []string{"pain_points", "language_assets", "dfy_mentions", "objections"} {
		if _, err := tx.Exec(`DELETE FROM `+table+` WHERE record_id = ?`, recordID); err != nil {
			return err
		}
	}
	return nil
}

// Filters narrow a Query. Zero values mean "no constraint".
type Filters struct {
	StartDate time.Time
	EndDate   time.Time
	Rep       string // matched against participants
	Limit     int
	Offset    int
}

// Query returns full records (children loaded) matching the filters,
// ordered by call date descending.
func (s *Store) Query(f Filters) ([]analyze.AnalysisRecord, error) {
	query := `SELECT id, transcript_id, title, call_date, duration_minutes, participants,
		prospect_name, prospect_email, prospect_company, prospect_website,
		pain_level, overall_score, created_at
		FROM analysis_records`
	var conds []string
	var args []any
	if !f.StartDate.IsZero() {
		conds = append(conds, "call_date >= ?")
		args = append(args, f.StartDate)
	}
	if !f.EndDate.IsZero() {
		conds = append(conds, "call_date < ?")
		args = append(args, f.EndDate)
	}
	if f.Rep != "" {
		conds = append(conds, "participants LIKE ?")
		args = append(args, "%"+f.Rep+"%")
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY call_date DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
		if f.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, f.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []analyze.AnalysisRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		if err := s.loadChildren(&records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// GetByID loads one record, children included. Returns sql.ErrNoRows when
// absent.
func (s *Store) GetByID(id string) (*analyze.AnalysisRecord, error) {
	return s.getOne(`WHERE id = ?`, id)
}

// GetByTranscriptID loads the record for one source transcript.
func (s *Store) GetByTranscriptID(transcriptID string) (*analyze.AnalysisRecord, error) {
	return s.getOne(`WHERE transcript_id = ?`, transcriptID)
}

func (s *Store) getOne(where string, arg any) (*analyze.AnalysisRecord, error) {
	row := s.db.QueryRow(`SELECT id, transcript_id, title, call_date, duration_minutes, participants,
		prospect_name, prospect_email, prospect_company, prospect_website,
		pain_level, overall_score, created_at
		FROM analysis_records `+where, arg)
	rec, err := scanRecord(row)
	if err != nil {
		return nil, err
	}
	if err := s.loadChildren(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteInRange removes all records with a call date in [start, end) along
// with every child row, in one transaction. Returns the record count.
func (s *Store) DeleteInRange(start, end time.Time) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	rows, err := tx.Query(`SELECT id FROM analysis_records WHERE call_date >= ? AND call_date < ?`, start, end)
	if err != nil {
		return 0, err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := deleteChildrenTx(tx, id); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(`DELETE FROM analysis_records WHERE id = ?`, id); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(ids), nil
}

// KnownTranscriptIDs lists every transcript already analyzed, used to skip
// refetching during scheduled runs.
func (s *Store) KnownTranscriptIDs() ([]string, error) {
	rows, err := s.db.Query(`SELECT transcript_id FROM analysis_records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (analyze.AnalysisRecord, error) {
	var rec analyze.AnalysisRecord
	var participants string
	err := row.Scan(&rec.ID, &rec.TranscriptID, &rec.Title, &rec.Date, &rec.DurationMinutes,
		&participants, &rec.Prospect.Name, &rec.Prospect.Email, &rec.Prospect.Company,
		&rec.Prospect.Website, &rec.PainLevel, &rec.OverallScore, &rec.CreatedAt)
	if err != nil {
		return rec, err
	}
	if participants != "" {
		rec.Participants = strings.Split(participants, ",")
	}
	return rec, nil
}

func (s *Store) loadChildren(rec *analyze.AnalysisRecord) error {
	rows, err := s.db.Query(
		`SELECT category, urgency, intensity, quote, context, timestamp_ms
		 FROM pain_points WHERE record_id = ? ORDER BY id`, rec.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var pp analyze.PainPoint
		var urgency, intensity string
		if err := rows.Scan(&pp.Category, &urgency, &intensity, &pp.Quote, &pp.Context, &pp.TimestampMs); err != nil {
			rows.Close()
			return err
		}
		pp.Urgency = classify.Urgency(urgency)
		pp.Intensity = classify.Intensity(intensity)
		rec.PainPoints = append(rec.PainPoints, pp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(
		`SELECT type, phrase, context FROM language_assets WHERE record_id = ? ORDER BY id`, rec.ID)
	if err != nil {
		return err
	}
	for rows.Next() {
		var asset analyze.LanguageAsset
		var assetType string
		if err := rows.Scan(&assetType, &asset.Phrase, &asset.Context); err != nil {
			rows.Close()
			return err
		}
		asset.Type = classify.AssetType(assetType)
		rec.LanguageAssets = append(rec.LanguageAssets, asset)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	var mentioned int
	var initiator, classification, contexts string
	err = s.db.QueryRow(
		`SELECT mentioned, who_initiated, timestamp_ms, reason, classification, contexts
		 FROM dfy_mentions WHERE record_id = ?`, rec.ID).
		Scan(&mentioned, &initiator, &rec.DFY.TimestampMs, &rec.DFY.Reason, &classification, &contexts)
	switch {
	case err == sql.ErrNoRows:
		// No mention row means the call had no DFY mention.
	case err != nil:
		return err
	default:
		rec.DFY.Mentioned = mentioned == 1
		rec.DFY.WhoInitiated = classify.Initiator(initiator)
		rec.DFY.Classification = classify.DFYClassification(classification)
		if contexts != "" {
			rec.DFY.Contexts = strings.Split(contexts, contextsSeparator)
		}
	}

	rows, err = s.db.Query(
		`SELECT category, quote, context FROM objections WHERE record_id = ? ORDER BY id`, rec.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var obj analyze.Objection
		var category string
		if err := rows.Scan(&category, &obj.Quote, &obj.Context); err != nil {
			return err
		}
		obj.Category = classify.ObjectionCategory(category)
		rec.Objections = append(rec.Objections, obj)
	}
	return rows.Err()
}
