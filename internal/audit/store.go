package audit

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dbower44022/CRMExtender-sub003/pkg/types"
)

// CorpusPair is a raw message together with the cleaned content a prior
// pattern-table version produced for it
type CorpusPair struct {
	ID            int64
	Message       types.RawMessage
	StoredContent string
}

// Store provides methods for persisting the corpus and comparison runs
type Store struct {
	db     *DB
	logger *logrus.Logger
}

// NewStore creates a store instance
func NewStore(db *DB, logger *logrus.Logger) *Store {
	return &Store{
		db:     db,
		logger: logger,
	}
}

// AddMessage inserts a corpus pair and returns its ID
func (s *Store) AddMessage(pair *CorpusPair) (int64, error) {
	participantsJSON, err := json.Marshal(pair.Message.Participants)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal participants: %w", err)
	}

	query := `
		INSERT INTO corpus_messages (sender, subject, plain_text, markup_body, participants, stored_content)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := s.db.SQL().Exec(query,
		pair.Message.Sender,
		pair.Message.Subject,
		pair.Message.PlainText,
		pair.Message.MarkupBody,
		string(participantsJSON),
		pair.StoredContent,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert corpus message: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get corpus message ID: %w", err)
	}
	return id, nil
}

// ListMessages returns the full corpus
func (s *Store) ListMessages() ([]CorpusPair, error) {
	query := `
		SELECT id, sender, subject, plain_text, markup_body, participants, stored_content
		FROM corpus_messages
		ORDER BY id
	`
	rows, err := s.db.SQL().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query corpus: %w", err)
	}
	defer rows.Close()

	var pairs []CorpusPair
	for rows.Next() {
		var pair CorpusPair
		var participantsJSON string
		err := rows.Scan(
			&pair.ID,
			&pair.Message.Sender,
			&pair.Message.Subject,
			&pair.Message.PlainText,
			&pair.Message.MarkupBody,
			&participantsJSON,
			&pair.StoredContent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan corpus message: %w", err)
		}
		if participantsJSON != "" {
			if err := json.Unmarshal([]byte(participantsJSON), &pair.Message.Participants); err != nil {
				return nil, fmt.Errorf("failed to unmarshal participants: %w", err)
			}
		}
		pairs = append(pairs, pair)
	}

	return pairs, rows.Err()
}

// SaveReport persists a comparison run with its per-message results
func (s *Store) SaveReport(report *Report) error {
	tx, err := s.db.SQL().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.Exec(`
		INSERT INTO audit_runs (id, table_a, table_b, message_count, flipped_to_empty, mean_reduction_a, mean_reduction_b)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, report.RunID, report.TableA, report.TableB, len(report.Messages), report.FlippedToEmpty, report.MeanReductionA, report.MeanReductionB)
	if err != nil {
		return fmt.Errorf("failed to insert audit run: %w", err)
	}

	for _, m := range report.Messages {
		flipped := 0
		if m.FlippedToEmpty {
			flipped = 1
		}
		_, err = tx.Exec(`
			INSERT INTO audit_results (run_id, message_id, reduction_a, reduction_b, flipped_to_empty)
			VALUES (?, ?, ?, ?, ?)
		`, report.RunID, m.MessageID, m.ReductionA, m.ReductionB, flipped)
		if err != nil {
			return fmt.Errorf("failed to insert audit result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit audit run: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":   report.RunID,
		"messages": len(report.Messages),
		"flipped":  report.FlippedToEmpty,
	}).Info("Saved audit run")
	return nil
}
