package ai

import (
	"context"
	"strings"
	"time"
)

// Role identifies the author of a chat turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a chat session.
type Turn struct {
	SessionID string    `json:"session_id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Verdict is the categorical outcome of a fit assessment.
type Verdict string

const (
	VerdictStrongFit         Verdict = "strong_fit"
	VerdictWorthConversation Verdict = "worth_conversation"
	VerdictProbablyNot       Verdict = "probably_not"
)

// Score maps a verdict to the stored 1-5 fit score. Unknown verdicts score 3.
func (v Verdict) Score() int {
	switch v {
	case VerdictStrongFit:
		return 5
	case VerdictWorthConversation:
		return 3
	case VerdictProbablyNot:
		return 1
	default:
		return 3
	}
}

func (v Verdict) Valid() bool {
	switch v {
	case VerdictStrongFit, VerdictWorthConversation, VerdictProbablyNot:
		return true
	}
	return false
}

// FitAssessment is the structured answer returned for a job description.
type FitAssessment struct {
	Verdict        Verdict  `json:"verdict"`
	Headline       string   `json:"headline"`
	Opening        string   `json:"opening"`
	Gaps           []string `json:"gaps"`
	Transfers      []string `json:"transfers"`
	Recommendation string   `json:"recommendation"`
}

// Notes joins the prose fields into the free-text column of the stored record.
func (a *FitAssessment) Notes() string {
	return strings.Join([]string{a.Headline, a.Opening, a.Recommendation}, "\n\n")
}

// AssessorAI is recorded as the assessor of model-produced assessments.
const AssessorAI = "ai-system"

// AssessmentRecord is the persisted form of a FitAssessment.
type AssessmentRecord struct {
	ProfileID       string   `json:"profile_id"`
	AssessorEmail   string   `json:"assessor_email"`
	OverallFitScore int      `json:"overall_fit_score"`
	Strengths       []string `json:"strengths"`
	Concerns        []string `json:"concerns"`
	Notes           string   `json:"notes"`
}

func NewAssessmentRecord(profileID string, a *FitAssessment) AssessmentRecord {
	return AssessmentRecord{
		ProfileID:       profileID,
		AssessorEmail:   AssessorAI,
		OverallFitScore: a.Verdict.Score(),
		Strengths:       a.Transfers,
		Concerns:        a.Gaps,
		Notes:           a.Notes(),
	}
}

// AssessmentRequest is the user message sent alongside an assessment directive.
func AssessmentRequest(jobDescription string) string {
	return "Please analyze this job description:\n\n" + jobDescription
}

// Model is a completion backend able to hold a grounded conversation and to
// produce structured fit assessments.
type Model interface {
	Chat(ctx context.Context, directive string, history []Turn, message string) (string, error)
	Assess(ctx context.Context, directive, jobDescription string) (*FitAssessment, error)
}
