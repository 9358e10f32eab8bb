package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/recruiter-assistant/internal/candidate"
)

func sampleBundle() *candidate.Bundle {
	return &candidate.Bundle{
		Profile: &candidate.Profile{
			ID:                 "p1",
			Name:               "Alex Doe",
			Title:              "Backend Engineer",
			Location:           "Berlin",
			AvailabilityStatus: "open",
		},
		Experiences: []candidate.Experience{
			{
				Title:       "Senior Engineer",
				CompanyName: "Acme",
				StartedOn:   "2021-03",
				IsCurrent:   true,
				Description: "Payments platform",
				WhyLeft:     "Still here",
			},
			{
				Title:       "Engineer",
				CompanyName: "Initech",
				StartedOn:   "2018-01",
				FinishedOn:  "2021-02",
			},
		},
		Skills: []candidate.Skill{
			{Name: "Go", Category: candidate.SkillStrong, Evidence: "5 years", HonestNotes: "daily driver"},
			{Name: "Terraform", Category: candidate.SkillModerate},
			{Name: "Kubernetes", Category: candidate.SkillGap, Evidence: "ignored", HonestNotes: "only tutorials"},
		},
		Gaps: []candidate.Gap{
			{Description: "No AWS production work", Rationale: "Only used GCP"},
		},
		Instructions: []candidate.Instruction{
			{Type: "tone", Text: "Be direct", Priority: 10},
		},
	}
}

func TestBuildChatDirective(t *testing.T) {
	directive, err := Build(sampleBundle(), ModeChat)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(directive,
		"You are a brutally honest AI assistant helping recruiters evaluate Alex Doe.\n\n**CRITICAL INSTRUCTION - BRUTAL HONESTY REQUIRED:**\n"))

	assert.Contains(t, directive, "**CANDIDATE PROFILE:**\nName: Alex Doe\nTitle: Backend Engineer\nHeadline: N/A\n")
	assert.Contains(t, directive, "Availability: open\n\n**WORK EXPERIENCE:**\n")
	assert.Contains(t, directive, "1. Senior Engineer at Acme\n   Location: N/A\n   Dates: 2021-03 - Present\n   Description: Payments platform\n   Why Left: Still here\n\n2. Engineer at Initech\n")
	assert.Contains(t, directive, "   Dates: 2018-01 - 2021-02\n   Description: N/A\n\n**SKILLS ASSESSMENT:**\n")
	assert.Contains(t, directive, "Strong Skills (well-established, proven):\n  - Go (Evidence: 5 years) | Note: daily driver\n\n")
	assert.Contains(t, directive, "Moderate Skills (some experience, not expert):\n  - Terraform\n\n")
	assert.Contains(t, directive, "Skill Gaps (limited or no experience):\n  - Kubernetes | Note: only tutorials\n\n**KNOWN GAPS & WEAKNESSES:**\n")
	assert.Contains(t, directive, "1. Gap\n   Description: No AWS production work\n   Why it's a gap: Only used GCP\n\n**ADDITIONAL INSTRUCTIONS:**\n- [tone] Be direct\n\n**RESPONSE GUIDELINES:**\n")
	assert.True(t, strings.HasSuffix(directive, "6. If asked about something not covered in the context, acknowledge the limitation\n"))

	assert.NotContains(t, directive, "VERDICT GUIDELINES")
	assert.NotContains(t, directive, "ignored")
}

func TestBuildAssessmentDirective(t *testing.T) {
	directive, err := Build(sampleBundle(), ModeAssessment)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(directive,
		"You are an expert technical recruiter conducting a brutally honest assessment of Alex Doe's fit for a job description.\n"))

	verdict := strings.Index(directive, "**VERDICT GUIDELINES:**")
	structure := strings.Index(directive, "**ASSESSMENT STRUCTURE:**")
	profile := strings.Index(directive, "**CANDIDATE PROFILE:**")
	require.NotEqual(t, -1, verdict)
	assert.Less(t, verdict, structure)
	assert.Less(t, structure, profile)

	assert.Contains(t, directive, "- recommendation: 3-4 sentences with final verdict\n\n**CANDIDATE PROFILE:**")
	assert.True(t, strings.HasSuffix(directive, "7. If critical requirements are missing, say so directly\n"))
	assert.NotContains(t, directive, "RESPONSE GUIDELINES")
}

func TestBuildWithoutProfileUsesPlaceholders(t *testing.T) {
	for _, mode := range []Mode{ModeChat, ModeAssessment} {
		directive, err := Build(&candidate.Bundle{}, mode)
		require.NoError(t, err)

		assert.Contains(t, directive, "a candidate")
		for _, label := range []string{"Name", "Title", "Headline", "Summary", "Location", "Email", "LinkedIn", "GitHub", "Availability"} {
			assert.Contains(t, directive, "\n"+label+": N/A\n", "mode %s label %s", mode, label)
		}

		for _, section := range []string{"WORK EXPERIENCE", "SKILLS ASSESSMENT", "KNOWN GAPS & WEAKNESSES", "ADDITIONAL INSTRUCTIONS"} {
			assert.NotContains(t, directive, section)
		}
	}
}

func TestBuildOmitsEmptySections(t *testing.T) {
	bundle := sampleBundle()
	bundle.Gaps = nil
	bundle.Skills = []candidate.Skill{{Name: "Go", Category: candidate.SkillStrong}}

	directive, err := Build(bundle, ModeChat)
	require.NoError(t, err)

	assert.NotContains(t, directive, "KNOWN GAPS & WEAKNESSES")
	assert.NotContains(t, directive, "Moderate Skills")
	assert.NotContains(t, directive, "Skill Gaps")
	assert.Contains(t, directive, "  - Go\n")
}

func TestBuildIsDeterministic(t *testing.T) {
	first, err := Build(sampleBundle(), ModeChat)
	require.NoError(t, err)
	second, err := Build(sampleBundle(), ModeChat)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBuildRejectsUnknownMode(t *testing.T) {
	_, err := Build(sampleBundle(), Mode("summary"))
	assert.Error(t, err)
}
