package candidate

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/recruiter-assistant/internal/logger"
)

// Repository reads candidate records from a backing store.
//
// Profile returns (nil, nil) when no matching row exists. An empty
// candidateID selects the first profile available.
type Repository interface {
	Profile(ctx context.Context, candidateID string) (*Profile, error)
	Experiences(ctx context.Context, candidateID string) ([]Experience, error)
	Skills(ctx context.Context, candidateID string) ([]Skill, error)
	Gaps(ctx context.Context, candidateID string) ([]Gap, error)
	Instructions(ctx context.Context, candidateID string) ([]Instruction, error)
}

// Loader assembles a Bundle for a candidate.
type Loader struct {
	repo   Repository
	logger *zap.Logger
}

func NewLoader(repo Repository, log *zap.Logger) *Loader {
	return &Loader{
		repo:   repo,
		logger: logger.WithFields(log, zap.String("component", "candidate-loader")),
	}
}

// Load fetches the profile first and then the four secondary collections
// concurrently. A profile failure aborts the load. A missing profile yields an
// empty bundle. Secondary failures are logged and leave the collection empty.
func (l *Loader) Load(ctx context.Context, candidateID string) (*Bundle, error) {
	profile, err := l.repo.Profile(ctx, candidateID)
	if err != nil {
		return nil, fmt.Errorf("load candidate profile: %w", err)
	}

	bundle := &Bundle{}
	if profile == nil {
		l.logger.Warn("candidate profile not found, directive will use placeholders",
			zap.String(logger.FieldCandidate, candidateID))
		return bundle, nil
	}
	bundle.Profile = profile
	id := profile.ID

	var g errgroup.Group
	g.Go(func() error {
		bundle.Experiences = collect(l.logger, "experiences", func() ([]Experience, error) {
			return l.repo.Experiences(ctx, id)
		})
		return nil
	})
	g.Go(func() error {
		bundle.Skills = collect(l.logger, "skills", func() ([]Skill, error) {
			return l.repo.Skills(ctx, id)
		})
		return nil
	})
	g.Go(func() error {
		bundle.Gaps = collect(l.logger, "gaps", func() ([]Gap, error) {
			return l.repo.Gaps(ctx, id)
		})
		return nil
	})
	g.Go(func() error {
		bundle.Instructions = collect(l.logger, "instructions", func() ([]Instruction, error) {
			return l.repo.Instructions(ctx, id)
		})
		return nil
	})
	g.Wait()

	sort.SliceStable(bundle.Experiences, func(i, j int) bool {
		return bundle.Experiences[i].DisplayOrder < bundle.Experiences[j].DisplayOrder
	})
	sort.SliceStable(bundle.Instructions, func(i, j int) bool {
		return bundle.Instructions[i].Priority > bundle.Instructions[j].Priority
	})

	l.logger.Debug("candidate context loaded",
		zap.String(logger.FieldCandidate, id),
		zap.Int("experiences", len(bundle.Experiences)),
		zap.Int("skills", len(bundle.Skills)),
		zap.Int("gaps", len(bundle.Gaps)),
		zap.Int("instructions", len(bundle.Instructions)),
	)

	return bundle, nil
}

func collect[T any](log *zap.Logger, name string, fetch func() ([]T, error)) []T {
	items, err := fetch()
	if err != nil {
		log.Warn("loading candidate collection failed, continuing without it",
			zap.String("collection", name), zap.Error(err))
		return nil
	}
	return items
}
