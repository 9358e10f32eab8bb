package postgres

const (
	profileColumns = `id::text, COALESCE(name, ''), COALESCE(email, ''), COALESCE(title, ''), COALESCE(headline, ''),
	COALESCE(summary, ''), COALESCE(location, ''), COALESCE(linkedin_url, ''), COALESCE(github_url, ''),
	COALESCE(availability_status, '')`

	queryProfileByID  = `SELECT ` + profileColumns + ` FROM candidate_profile WHERE id = $1 LIMIT 1`
	queryFirstProfile = `SELECT ` + profileColumns + ` FROM candidate_profile LIMIT 1`

	queryExperiences = `SELECT id::text, COALESCE(company_name, ''), COALESCE(title, ''), COALESCE(location, ''), started_on::text,
	COALESCE(finished_on::text, ''), COALESCE(is_current, false), COALESCE(description, ''),
	COALESCE(display_order, 0), COALESCE(why_joined, ''), COALESCE(why_left, ''),
	COALESCE(actual_contributions, ''), COALESCE(proudest_achievement, ''),
	COALESCE(challenges_faced, ''), COALESCE(lessons_learned, '')
	FROM experiences WHERE candidate_id = $1 ORDER BY display_order ASC`

	querySkills = `SELECT id::text, COALESCE(skill_name, ''), COALESCE(category, ''), COALESCE(evidence, ''), COALESCE(honest_notes, '')
	FROM skills WHERE candidate_id = $1`

	queryGaps = `SELECT id::text, COALESCE(gap_type, ''), COALESCE(description, ''), COALESCE(why_its_a_gap, '')
	FROM gaps_weaknesses WHERE candidate_id = $1`

	queryInstructions = `SELECT id::text, COALESCE(instruction_type, ''), COALESCE(instruction, ''), COALESCE(priority, 0)
	FROM ai_instructions WHERE candidate_id = $1 ORDER BY priority DESC`

	queryHistory = `SELECT session_id, role, content, created_at
	FROM chat_history WHERE session_id = $1 ORDER BY created_at ASC`

	insertTurn = `INSERT INTO chat_history (session_id, role, content) VALUES ($1, $2, $3)`

	insertAssessment = `INSERT INTO fit_assessments
	(profile_id, assessor_email, overall_fit_score, strengths, concerns, notes)
	VALUES ($1, $2, $3, $4, $5, $6)`
)
