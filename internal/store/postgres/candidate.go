package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/spigell/recruiter-assistant/internal/candidate"
)

var _ candidate.Repository = (*Store)(nil)

func (s *Store) Profile(ctx context.Context, candidateID string) (*candidate.Profile, error) {
	var row *sql.Row
	if candidateID == "" {
		row = s.db.QueryRowContext(ctx, queryFirstProfile)
	} else {
		row = s.db.QueryRowContext(ctx, queryProfileByID, candidateID)
	}

	var p candidate.Profile
	err := row.Scan(&p.ID, &p.Name, &p.Email, &p.Title, &p.Headline, &p.Summary,
		&p.Location, &p.LinkedInURL, &p.GitHubURL, &p.AvailabilityStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query candidate_profile: %w", err)
	}

	return &p, nil
}

func (s *Store) Experiences(ctx context.Context, candidateID string) ([]candidate.Experience, error) {
	return queryAll(ctx, s.db, "experiences", queryExperiences, candidateID, func(rows *sql.Rows) (candidate.Experience, error) {
		e := candidate.Experience{CandidateID: candidateID}
		err := rows.Scan(&e.ID, &e.CompanyName, &e.Title, &e.Location, &e.StartedOn,
			&e.FinishedOn, &e.IsCurrent, &e.Description, &e.DisplayOrder,
			&e.WhyJoined, &e.WhyLeft, &e.ActualContributions, &e.ProudestAchievement,
			&e.ChallengesFaced, &e.LessonsLearned)
		return e, err
	})
}

func (s *Store) Skills(ctx context.Context, candidateID string) ([]candidate.Skill, error) {
	return queryAll(ctx, s.db, "skills", querySkills, candidateID, func(rows *sql.Rows) (candidate.Skill, error) {
		sk := candidate.Skill{CandidateID: candidateID}
		var category string
		err := rows.Scan(&sk.ID, &sk.Name, &category, &sk.Evidence, &sk.HonestNotes)
		sk.Category = candidate.SkillCategory(category)
		return sk, err
	})
}

func (s *Store) Gaps(ctx context.Context, candidateID string) ([]candidate.Gap, error) {
	return queryAll(ctx, s.db, "gaps_weaknesses", queryGaps, candidateID, func(rows *sql.Rows) (candidate.Gap, error) {
		g := candidate.Gap{CandidateID: candidateID}
		err := rows.Scan(&g.ID, &g.Type, &g.Description, &g.Rationale)
		return g, err
	})
}

func (s *Store) Instructions(ctx context.Context, candidateID string) ([]candidate.Instruction, error) {
	return queryAll(ctx, s.db, "ai_instructions", queryInstructions, candidateID, func(rows *sql.Rows) (candidate.Instruction, error) {
		in := candidate.Instruction{CandidateID: candidateID}
		err := rows.Scan(&in.ID, &in.Type, &in.Text, &in.Priority)
		return in, err
	})
}

func queryAll[T any](ctx context.Context, db *sql.DB, table, query string, arg any, scan func(*sql.Rows) (T, error)) ([]T, error) {
	rows, err := db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}

	return items, nil
}
