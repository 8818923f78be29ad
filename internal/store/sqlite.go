// Package store loads studies and their criteria rows into SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/paulgmiller/trialetl/internal/iec"
	"github.com/paulgmiller/trialetl/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS studies (
			sd_sid TEXT PRIMARY KEY,
			display_title TEXT,
			scientific_title TEXT,
			acronym TEXT,
			brief_description TEXT,
			last_edited TEXT,
			date_assigned TEXT,
			age_range TEXT,
			gender TEXT,
			enrolment TEXT,
			iec_flag INTEGER,
			iec_words INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS study_identifiers (
			sd_sid TEXT,
			seq_num INTEGER,
			identifier_value TEXT,
			identifier_type_id INTEGER,
			identifier_source TEXT,
			PRIMARY KEY (sd_sid, seq_num)
		);`,
		`CREATE TABLE IF NOT EXISTS study_iec (
			sd_sid TEXT,
			seq_num INTEGER,
			ie_type_id INTEGER,
			tag_type TEXT,
			tag TEXT,
			indent_level INTEGER,
			indent_seq_num INTEGER,
			sequence_string TEXT,
			criterion TEXT,
			PRIMARY KEY (sd_sid, seq_num)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_iec_sequence ON study_iec(sd_sid, sequence_string);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveStudies replaces every given study and its child rows in one
// transaction.
func (s *SQLiteStore) SaveStudies(ctx context.Context, studies []model.Study) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := map[string]string{
		"study": `INSERT OR REPLACE INTO studies (sd_sid, display_title, scientific_title, acronym,
			brief_description, last_edited, date_assigned, age_range, gender, enrolment, iec_flag, iec_words)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"ident": `INSERT INTO study_identifiers (sd_sid, seq_num, identifier_value, identifier_type_id, identifier_source)
			VALUES (?, ?, ?, ?, ?)`,
		"iec": `INSERT INTO study_iec (sd_sid, seq_num, ie_type_id, tag_type, tag, indent_level,
			indent_seq_num, sequence_string, criterion)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	}
	prepared := make(map[string]*sql.Stmt, len(stmts))
	for name, q := range stmts {
		st, err := tx.PrepareContext(ctx, q)
		if err != nil {
			return fmt.Errorf("prepare %s: %w", name, err)
		}
		defer st.Close()
		prepared[name] = st
	}

	for _, st := range studies {
		for _, table := range []string{"study_identifiers", "study_iec"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE sd_sid = ?", st.SdSid); err != nil {
				return err
			}
		}
		if _, err := prepared["study"].ExecContext(ctx, st.SdSid, st.DisplayTitle, st.ScientificTitle,
			st.Acronym, st.BriefDescription, st.LastEdited, st.DateAssigned, st.AgeRange, st.Gender,
			st.Enrolment, st.IECFlag, st.IECWords); err != nil {
			return fmt.Errorf("insert study %s: %w", st.SdSid, err)
		}
		for i, id := range st.Identifiers {
			if _, err := prepared["ident"].ExecContext(ctx, st.SdSid, i+1, id.Value, id.TypeID, id.Source); err != nil {
				return fmt.Errorf("insert identifier %s/%d: %w", st.SdSid, i+1, err)
			}
		}
		for _, c := range st.Criteria {
			if _, err := prepared["iec"].ExecContext(ctx, st.SdSid, c.SeqNum, c.IeTypeID, c.TagType, c.Tag,
				c.IndentLevel, c.IndentSeqNum, c.SequenceString, c.Criterion); err != nil {
				return fmt.Errorf("insert criterion %s/%d: %w", st.SdSid, c.SeqNum, err)
			}
		}
	}

	return tx.Commit()
}

// LoadCriteria returns a study's criteria rows in seq_num order.
func (s *SQLiteStore) LoadCriteria(ctx context.Context, sdSid string) ([]iec.Criterion, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT sd_sid, seq_num, ie_type_id, tag_type, tag, indent_level,
		indent_seq_num, sequence_string, criterion FROM study_iec WHERE sd_sid = ? ORDER BY seq_num`, sdSid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []iec.Criterion
	for rows.Next() {
		var c iec.Criterion
		if err := rows.Scan(&c.SdSid, &c.SeqNum, &c.IeTypeID, &c.TagType, &c.Tag, &c.IndentLevel,
			&c.IndentSeqNum, &c.SequenceString, &c.Criterion); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// IECFlag returns the summed parse status stored for a study.
func (s *SQLiteStore) IECFlag(ctx context.Context, sdSid string) (int, error) {
	var flag int
	err := s.db.QueryRowContext(ctx, `SELECT iec_flag FROM studies WHERE sd_sid = ?`, sdSid).Scan(&flag)
	return flag, err
}

// Count returns the number of stored studies.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM studies`).Scan(&n)
	return n, err
}
