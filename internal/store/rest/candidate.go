package rest

import (
	"context"
	"net/url"

	"github.com/spigell/recruiter-assistant/internal/candidate"
)

const (
	profileTable     = "candidate_profile"
	experienceTable  = "experiences"
	skillTable       = "skills"
	gapTable         = "gaps_weaknesses"
	instructionTable = "ai_instructions"
)

var _ candidate.Repository = (*Client)(nil)

// Profile returns the profile with the given id, or the first profile when id
// is empty. Nil is returned when no row matches.
func (c *Client) Profile(ctx context.Context, candidateID string) (*candidate.Profile, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("limit", "1")
	if candidateID != "" {
		q.Set("id", "eq."+candidateID)
	}

	var profiles []candidate.Profile
	if err := c.getRows(ctx, profileTable, q, &profiles); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, nil
	}

	return &profiles[0], nil
}

func (c *Client) Experiences(ctx context.Context, candidateID string) ([]candidate.Experience, error) {
	var items []candidate.Experience
	err := c.getRows(ctx, experienceTable, byCandidate(candidateID, "display_order.asc"), &items)
	return items, err
}

func (c *Client) Skills(ctx context.Context, candidateID string) ([]candidate.Skill, error) {
	var items []candidate.Skill
	err := c.getRows(ctx, skillTable, byCandidate(candidateID, ""), &items)
	return items, err
}

func (c *Client) Gaps(ctx context.Context, candidateID string) ([]candidate.Gap, error) {
	var items []candidate.Gap
	err := c.getRows(ctx, gapTable, byCandidate(candidateID, ""), &items)
	return items, err
}

func (c *Client) Instructions(ctx context.Context, candidateID string) ([]candidate.Instruction, error) {
	var items []candidate.Instruction
	err := c.getRows(ctx, instructionTable, byCandidate(candidateID, "priority.desc"), &items)
	return items, err
}

func byCandidate(candidateID, order string) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("candidate_id", "eq."+candidateID)
	if order != "" {
		q.Set("order", order)
	}
	return q
}
