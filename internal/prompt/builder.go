package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/spigell/recruiter-assistant/internal/candidate"
)

// Mode selects which directive is rendered.
type Mode string

const (
	ModeChat       Mode = "chat"
	ModeAssessment Mode = "assessment"
)

const (
	placeholder      = "N/A"
	defaultName      = "a candidate"
	defaultGapType   = "Gap"
	currentRoleLabel = "Present"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var directives = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type view struct {
	Assessment    bool
	CandidateName string
	Profile       profileView
	Experiences   []experienceView
	HasSkills     bool
	Skills        skillsView
	Gaps          []gapView
	Instructions  []candidate.Instruction
}

type profileView struct {
	Name, Title, Headline, Summary, Location string
	Email, LinkedIn, GitHub, Availability    string
}

type experienceView struct {
	Number                       int
	Title, Company               string
	Location, Dates, Description string
	WhyJoined, WhyLeft           string
	Contributions, Proudest      string
	Challenges, Lessons          string
}

type skillLine struct {
	Name, Evidence, Notes string
}

type skillsView struct {
	Strong, Moderate, Gap []skillLine
}

type gapView struct {
	Number                       int
	Type, Description, Rationale string
}

// Build renders the directive for the bundle in the given mode. It is pure:
// the same bundle and mode always produce the same text.
func Build(bundle *candidate.Bundle, mode Mode) (string, error) {
	switch mode {
	case ModeChat, ModeAssessment:
	default:
		return "", fmt.Errorf("unknown prompt mode %q", mode)
	}
	if bundle == nil {
		bundle = &candidate.Bundle{}
	}

	var buf bytes.Buffer
	if err := directives.ExecuteTemplate(&buf, "directive", newView(bundle, mode)); err != nil {
		return "", fmt.Errorf("render %s directive: %w", mode, err)
	}

	return buf.String(), nil
}

func newView(b *candidate.Bundle, mode Mode) view {
	v := view{
		Assessment:    mode == ModeAssessment,
		CandidateName: defaultName,
		Profile:       newProfileView(b.Profile),
		HasSkills:     len(b.Skills) > 0,
		Instructions:  b.Instructions,
	}
	if b.Profile != nil && strings.TrimSpace(b.Profile.Name) != "" {
		v.CandidateName = b.Profile.Name
	}

	for i, exp := range b.Experiences {
		end := orPlaceholder(exp.FinishedOn)
		if exp.IsCurrent {
			end = currentRoleLabel
		}
		v.Experiences = append(v.Experiences, experienceView{
			Number:        i + 1,
			Title:         exp.Title,
			Company:       exp.CompanyName,
			Location:      orPlaceholder(exp.Location),
			Dates:         orPlaceholder(exp.StartedOn) + " - " + end,
			Description:   orPlaceholder(exp.Description),
			WhyJoined:     exp.WhyJoined,
			WhyLeft:       exp.WhyLeft,
			Contributions: exp.ActualContributions,
			Proudest:      exp.ProudestAchievement,
			Challenges:    exp.ChallengesFaced,
			Lessons:       exp.LessonsLearned,
		})
	}

	for _, s := range b.Skills {
		line := skillLine{Name: s.Name, Evidence: s.Evidence, Notes: s.HonestNotes}
		switch s.Category {
		case candidate.SkillStrong:
			v.Skills.Strong = append(v.Skills.Strong, line)
		case candidate.SkillModerate:
			v.Skills.Moderate = append(v.Skills.Moderate, line)
		case candidate.SkillGap:
			// evidence is not shown for gaps
			line.Evidence = ""
			v.Skills.Gap = append(v.Skills.Gap, line)
		}
	}

	for i, g := range b.Gaps {
		gapType := g.Type
		if strings.TrimSpace(gapType) == "" {
			gapType = defaultGapType
		}
		v.Gaps = append(v.Gaps, gapView{
			Number:      i + 1,
			Type:        gapType,
			Description: g.Description,
			Rationale:   g.Rationale,
		})
	}

	return v
}

func newProfileView(p *candidate.Profile) profileView {
	if p == nil {
		p = &candidate.Profile{}
	}
	return profileView{
		Name:         orPlaceholder(p.Name),
		Title:        orPlaceholder(p.Title),
		Headline:     orPlaceholder(p.Headline),
		Summary:      orPlaceholder(p.Summary),
		Location:     orPlaceholder(p.Location),
		Email:        orPlaceholder(p.Email),
		LinkedIn:     orPlaceholder(p.LinkedInURL),
		GitHub:       orPlaceholder(p.GitHubURL),
		Availability: orPlaceholder(p.AvailabilityStatus),
	}
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}
