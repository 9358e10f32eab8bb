package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/recruiter-assistant/internal/ai"
	"github.com/spigell/recruiter-assistant/internal/candidate"
	"github.com/spigell/recruiter-assistant/internal/logger"
	"github.com/spigell/recruiter-assistant/internal/metrics"
	"github.com/spigell/recruiter-assistant/internal/prompt"
)

var (
	ErrMissingChatFields     = errors.New("message and session_id are required")
	ErrMissingJobDescription = errors.New("job description is required")
)

// Sink persists conversation turns and assessment records.
type Sink interface {
	History(ctx context.Context, sessionID string) ([]ai.Turn, error)
	AppendTurn(ctx context.Context, turn ai.Turn) error
	SaveAssessment(ctx context.Context, rec ai.AssessmentRecord) error
}

// Service runs the load, build, complete and persist pipeline for both
// operations. It keeps no request state between calls.
type Service struct {
	loader      *candidate.Loader
	model       ai.Model
	sink        Sink
	candidateID string
	logger      *zap.Logger

	pending sync.WaitGroup
}

func New(loader *candidate.Loader, model ai.Model, sink Sink, candidateID string, log *zap.Logger) *Service {
	return &Service{
		loader:      loader,
		model:       model,
		sink:        sink,
		candidateID: candidateID,
		logger:      logger.WithFields(log),
	}
}

// CheckChatInput reports ErrMissingChatFields when either value is blank.
func CheckChatInput(sessionID, message string) error {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(message) == "" {
		return ErrMissingChatFields
	}
	return nil
}

func CheckJobDescription(jobDescription string) error {
	if strings.TrimSpace(jobDescription) == "" {
		return ErrMissingJobDescription
	}
	return nil
}

// Chat answers a recruiter question grounded in the candidate records and the
// session's stored turns. Both turns are appended after a successful
// completion; write failures are logged and do not affect the reply.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (string, error) {
	if err := CheckChatInput(sessionID, message); err != nil {
		return "", err
	}

	log := s.logger.With(logger.RequestFields(string(prompt.ModeChat), sessionID, s.candidateID)...)

	bundle, err := s.loader.Load(ctx, s.candidateID)
	if err != nil {
		return "", fmt.Errorf("load candidate context: %w", err)
	}

	directive, err := prompt.Build(bundle, prompt.ModeChat)
	if err != nil {
		return "", err
	}

	history, err := s.sink.History(ctx, sessionID)
	if err != nil {
		log.Warn("reading chat history failed, continuing without it", zap.Error(err))
		history = nil
	}

	reply, err := s.complete(prompt.ModeChat, func() (string, error) {
		return s.model.Chat(ctx, directive, history, message)
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	s.appendTurn(ctx, log, ai.Turn{SessionID: sessionID, Role: ai.RoleUser, Content: message})
	s.appendTurn(ctx, log, ai.Turn{SessionID: sessionID, Role: ai.RoleAssistant, Content: reply})

	log.Info("chat answered", zap.Int("history_turns", len(history)))

	return reply, nil
}

// Assess produces a structured fit assessment for a job description. When a
// profile exists the record is written in the background.
func (s *Service) Assess(ctx context.Context, jobDescription string) (*ai.FitAssessment, error) {
	if err := CheckJobDescription(jobDescription); err != nil {
		return nil, err
	}

	log := s.logger.With(logger.RequestFields(string(prompt.ModeAssessment), "", s.candidateID)...)

	bundle, err := s.loader.Load(ctx, s.candidateID)
	if err != nil {
		return nil, fmt.Errorf("load candidate context: %w", err)
	}

	directive, err := prompt.Build(bundle, prompt.ModeAssessment)
	if err != nil {
		return nil, err
	}

	var assessment *ai.FitAssessment
	_, err = s.complete(prompt.ModeAssessment, func() (string, error) {
		result, callErr := s.model.Assess(ctx, directive, jobDescription)
		assessment = result
		return "", callErr
	})
	if err != nil {
		return nil, fmt.Errorf("fit assessment: %w", err)
	}

	log.Info("fit assessment produced", zap.String("verdict", string(assessment.Verdict)))

	if bundle.HasProfile() {
		s.saveAssessment(ctx, log, ai.NewAssessmentRecord(bundle.CandidateID(), assessment))
	} else {
		log.Info("no candidate profile, assessment not stored")
	}

	return assessment, nil
}

// Wait blocks until background writes have finished.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) complete(mode prompt.Mode, call func() (string, error)) (string, error) {
	start := time.Now()
	out, err := call()
	metrics.CompletionDuration.WithLabelValues(string(mode)).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.Completions.WithLabelValues(string(mode), outcome).Inc()

	return out, err
}

func (s *Service) appendTurn(ctx context.Context, log *zap.Logger, turn ai.Turn) {
	if err := s.sink.AppendTurn(ctx, turn); err != nil {
		metrics.PersistFailures.WithLabelValues("chat_turn").Inc()
		log.Error("storing chat turn failed", zap.String("role", string(turn.Role)), zap.Error(err))
	}
}

// saveAssessment writes the record without holding up the response. The write
// outlives the request context.
func (s *Service) saveAssessment(ctx context.Context, log *zap.Logger, rec ai.AssessmentRecord) {
	s.pending.Add(1)
	metrics.PendingWrites.Inc()

	go func() {
		defer s.pending.Done()
		defer metrics.PendingWrites.Dec()

		if err := s.sink.SaveAssessment(context.WithoutCancel(ctx), rec); err != nil {
			metrics.PersistFailures.WithLabelValues("assessment").Inc()
			log.Error("storing fit assessment failed", zap.Error(err))
			return
		}
		log.Debug("fit assessment stored", zap.Int("score", rec.OverallFitScore))
	}()
}
