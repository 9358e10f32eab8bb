package rest

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/recruiter-assistant/internal/ai"
	"github.com/spigell/recruiter-assistant/internal/candidate"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   map[string]any
}

type fakeBackend struct {
	t        *testing.T
	mu       sync.Mutex
	requests []recordedRequest
	tables   map[string]string
	status   int
	gzip     bool
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "service-key", r.Header.Get("apikey"))
	assert.Equal(f.t, "Bearer service-key", r.Header.Get("Authorization"))

	rec := recordedRequest{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
	if r.Method == http.MethodPost {
		assert.Equal(f.t, "return=minimal", r.Header.Get("Prefer"))
		data, _ := io.ReadAll(r.Body)
		assert.NoError(f.t, json.Unmarshal(data, &rec.body))
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()

	if f.status != 0 {
		w.WriteHeader(f.status)
		return
	}

	if r.Method == http.MethodPost {
		w.WriteHeader(http.StatusCreated)
		return
	}

	payload, ok := f.tables[r.URL.Path]
	if !ok {
		payload = "[]"
	}

	w.Header().Set("Content-Type", "application/json")
	if f.gzip {
		w.Header().Set("Content-Encoding", "gzip")
		gz := gzip.NewWriter(w)
		_, _ = gz.Write([]byte(payload))
		_ = gz.Close()
		return
	}
	_, _ = w.Write([]byte(payload))
}

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	backend.t = t

	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/", "service-key", zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestNewValidatesConfiguration(t *testing.T) {
	_, err := New("", "key", nil)
	assert.Error(t, err)

	_, err = New("https://db.example.com", " ", nil)
	assert.Error(t, err)
}

func TestProfile(t *testing.T) {
	backend := &fakeBackend{tables: map[string]string{
		"/rest/v1/candidate_profile": `[{"id":"c1","name":"Alex","email":null,"linkedin_url":"https://linkedin.com/in/alex","created_at":"2024-01-01T00:00:00Z"}]`,
	}}
	c := newTestClient(t, backend)

	profile, err := c.Profile(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, profile)

	assert.Equal(t, "Alex", profile.Name)
	assert.Equal(t, "", profile.Email)
	assert.Equal(t, "https://linkedin.com/in/alex", profile.LinkedInURL)
	assert.Contains(t, backend.requests[0].query, "id=eq.c1")
	assert.Contains(t, backend.requests[0].query, "limit=1")
}

func TestProfileMissing(t *testing.T) {
	c := newTestClient(t, &fakeBackend{})

	profile, err := c.Profile(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfileBadStatus(t *testing.T) {
	c := newTestClient(t, &fakeBackend{status: http.StatusUnauthorized})

	_, err := c.Profile(context.Background(), "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad status")
}

func TestCollectionsDecodeAndOrderQuery(t *testing.T) {
	backend := &fakeBackend{
		gzip: true,
		tables: map[string]string{
			"/rest/v1/experiences":     `[{"title":"Engineer","company_name":"Acme","display_order":2,"is_current":true,"started_on":"2021-01-01","finished_on":null}]`,
			"/rest/v1/skills":          `[{"skill_name":"Go","category":"strong","evidence":"5 years"}]`,
			"/rest/v1/gaps_weaknesses": `[{"gap_type":"technical","description":"No AWS","why_its_a_gap":"GCP only"}]`,
			"/rest/v1/ai_instructions": `[{"instruction_type":"tone","instruction":"Be direct","priority":10}]`,
		},
	}
	c := newTestClient(t, backend)
	ctx := context.Background()

	experiences, err := c.Experiences(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, experiences, 1)
	assert.Equal(t, 2, experiences[0].DisplayOrder)
	assert.True(t, experiences[0].IsCurrent)
	assert.Equal(t, "", experiences[0].FinishedOn)

	skills, err := c.Skills(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, candidate.SkillStrong, skills[0].Category)

	gaps, err := c.Gaps(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "GCP only", gaps[0].Rationale)

	instructions, err := c.Instructions(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 10, instructions[0].Priority)

	assert.Contains(t, backend.requests[0].query, "order=display_order.asc")
	assert.Contains(t, backend.requests[0].query, "candidate_id=eq.c1")
	assert.Contains(t, backend.requests[3].query, "order=priority.desc")
}

func TestHistory(t *testing.T) {
	backend := &fakeBackend{tables: map[string]string{
		"/rest/v1/chat_history": `[
			{"session_id":"s1","role":"user","content":"Hi","created_at":"2024-05-01T10:00:00.123456+00:00"},
			{"session_id":"s1","role":"assistant","content":"Hello","created_at":"2024-05-01T10:00:01+00:00"}
		]`,
	}}
	c := newTestClient(t, backend)

	first, err := c.History(context.Background(), "s1")
	require.NoError(t, err)
	second, err := c.History(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	require.Len(t, first, 2)
	assert.Equal(t, ai.RoleAssistant, first[1].Role)
	assert.Equal(t, 2024, first[0].CreatedAt.Year())
	assert.True(t, first[0].CreatedAt.Before(first[1].CreatedAt))
	assert.Contains(t, backend.requests[0].query, "order=created_at.asc")
}

func TestHistoryToleratesTimestampsWithoutZone(t *testing.T) {
	backend := &fakeBackend{tables: map[string]string{
		"/rest/v1/chat_history": `[
			{"session_id":"s1","role":"user","content":"Hi","created_at":"2024-05-01T10:00:00.123456"},
			{"session_id":"s1","role":"assistant","content":"Hello","created_at":"not a time"}
		]`,
	}}
	c := newTestClient(t, backend)

	turns, err := c.History(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC), turns[0].CreatedAt)
	assert.True(t, turns[1].CreatedAt.IsZero())
	assert.Equal(t, "Hello", turns[1].Content)
}

func TestAppendTurnAndSaveAssessment(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestClient(t, backend)
	ctx := context.Background()

	require.NoError(t, c.AppendTurn(ctx, ai.Turn{SessionID: "s1", Role: ai.RoleUser, Content: "Hi", CreatedAt: time.Now()}))
	require.NoError(t, c.SaveAssessment(ctx, ai.AssessmentRecord{
		ProfileID:       "c1",
		AssessorEmail:   ai.AssessorAI,
		OverallFitScore: 5,
		Strengths:       []string{"Go"},
		Concerns:        []string{},
		Notes:           "n",
	}))

	require.Len(t, backend.requests, 2)

	turn := backend.requests[0]
	assert.Equal(t, "/rest/v1/chat_history", turn.path)
	assert.Equal(t, map[string]any{"session_id": "s1", "role": "user", "content": "Hi"}, turn.body)

	assessment := backend.requests[1]
	assert.Equal(t, "/rest/v1/fit_assessments", assessment.path)
	assert.Equal(t, "ai-system", assessment.body["assessor_email"])
	assert.EqualValues(t, 5, assessment.body["overall_fit_score"])
}

func TestInsertBadStatus(t *testing.T) {
	c := newTestClient(t, &fakeBackend{status: http.StatusConflict})

	err := c.AppendTurn(context.Background(), ai.Turn{SessionID: "s1", Role: ai.RoleUser, Content: "Hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat_history")
}
