package candidate

// SkillCategory buckets a skill by how well it is established.
type SkillCategory string

const (
	SkillStrong   SkillCategory = "strong"
	SkillModerate SkillCategory = "moderate"
	SkillGap      SkillCategory = "gap"
)

// Profile is the candidate's singleton identity record.
type Profile struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Title              string `json:"title"`
	Headline           string `json:"headline"`
	Summary            string `json:"summary"`
	Location           string `json:"location"`
	LinkedInURL        string `json:"linkedin_url"`
	GitHubURL          string `json:"github_url"`
	AvailabilityStatus string `json:"availability_status"`
}

// Experience is one role in the candidate's work history. The trailing
// fields are private context that only the model sees.
type Experience struct {
	ID           string `json:"id"`
	CandidateID  string `json:"candidate_id"`
	CompanyName  string `json:"company_name"`
	Title        string `json:"title"`
	Location     string `json:"location"`
	StartedOn    string `json:"started_on"`
	FinishedOn   string `json:"finished_on"`
	IsCurrent    bool   `json:"is_current"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order"`

	WhyJoined           string `json:"why_joined"`
	WhyLeft             string `json:"why_left"`
	ActualContributions string `json:"actual_contributions"`
	ProudestAchievement string `json:"proudest_achievement"`
	ChallengesFaced     string `json:"challenges_faced"`
	LessonsLearned      string `json:"lessons_learned"`
}

type Skill struct {
	ID          string        `json:"id"`
	CandidateID string        `json:"candidate_id"`
	Name        string        `json:"skill_name"`
	Category    SkillCategory `json:"category"`
	Evidence    string        `json:"evidence"`
	HonestNotes string        `json:"honest_notes"`
}

// Gap is a self-declared weakness.
type Gap struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidate_id"`
	Type        string `json:"gap_type"`
	Description string `json:"description"`
	Rationale   string `json:"why_its_a_gap"`
}

// Instruction is an operator-supplied directive addressed to the model.
type Instruction struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidate_id"`
	Type        string `json:"instruction_type"`
	Text        string `json:"instruction"`
	Priority    int    `json:"priority"`
}

// Bundle groups every record used to build a directive for one candidate.
// Profile is nil when no profile row exists.
type Bundle struct {
	Profile      *Profile
	Experiences  []Experience
	Skills       []Skill
	Gaps         []Gap
	Instructions []Instruction
}

func (b *Bundle) HasProfile() bool {
	return b != nil && b.Profile != nil
}

// CandidateID returns the profile identifier or an empty string.
func (b *Bundle) CandidateID() string {
	if !b.HasProfile() {
		return ""
	}
	return b.Profile.ID
}
