package rest

import (
	"context"
	"net/url"

	"github.com/spigell/recruiter-assistant/internal/ai"
)

const (
	chatHistoryTable = "chat_history"
	assessmentTable  = "fit_assessments"
)

type chatRow struct {
	SessionID string  `json:"session_id"`
	Role      ai.Role `json:"role"`
	Content   string  `json:"content"`
}

// History returns the turns of a session in creation order.
func (c *Client) History(ctx context.Context, sessionID string) ([]ai.Turn, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("session_id", "eq."+sessionID)
	q.Set("order", "created_at.asc")

	var turns []ai.Turn
	if err := c.getRows(ctx, chatHistoryTable, q, &turns); err != nil {
		return nil, err
	}

	return turns, nil
}

// AppendTurn inserts a turn; created_at is assigned by the database.
func (c *Client) AppendTurn(ctx context.Context, turn ai.Turn) error {
	return c.insert(ctx, chatHistoryTable, chatRow{
		SessionID: turn.SessionID,
		Role:      turn.Role,
		Content:   turn.Content,
	})
}

func (c *Client) SaveAssessment(ctx context.Context, rec ai.AssessmentRecord) error {
	return c.insert(ctx, assessmentTable, rec)
}
