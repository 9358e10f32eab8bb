package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spigell/recruiter-assistant/internal/ai"
)

func (s *Store) History(ctx context.Context, sessionID string) ([]ai.Turn, error) {
	return queryAll(ctx, s.db, "chat_history", queryHistory, sessionID, func(rows *sql.Rows) (ai.Turn, error) {
		var t ai.Turn
		var role string
		err := rows.Scan(&t.SessionID, &role, &t.Content, &t.CreatedAt)
		t.Role = ai.Role(role)
		return t, err
	})
}

func (s *Store) AppendTurn(ctx context.Context, turn ai.Turn) error {
	if _, err := s.db.ExecContext(ctx, insertTurn, turn.SessionID, string(turn.Role), turn.Content); err != nil {
		return fmt.Errorf("insert chat_history: %w", err)
	}
	return nil
}

func (s *Store) SaveAssessment(ctx context.Context, rec ai.AssessmentRecord) error {
	_, err := s.db.ExecContext(ctx, insertAssessment,
		rec.ProfileID, rec.AssessorEmail, rec.OverallFitScore, rec.Strengths, rec.Concerns, rec.Notes)
	if err != nil {
		return fmt.Errorf("insert fit_assessments: %w", err)
	}
	return nil
}
