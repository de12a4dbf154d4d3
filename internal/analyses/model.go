package analyses

import "time"

// Defaults for optional fields the judgment service left out.
const (
	NotFound  = "Not found."
	NoSummary = "No summary provided."
)

// Result is the structured judgment for one resume against one job description.
// MatchScore is passed through as reported, including values outside 0..100.
type Result struct {
	MatchScore          int      `json:"match_score"`
	Justification       string   `json:"justification"`
	ExtractedSkills     []string `json:"extracted_skills"`
	ExtractedExperience string   `json:"extracted_experience"`
	ExtractedEducation  string   `json:"extracted_education"`
	MissingKeywords     []string `json:"missing_keywords"`
}

// Record is a persisted Result plus the submission it was computed for.
// ID and AnalysisDate are assigned by the store.
type Record struct {
	ID             int64  `json:"id"`
	Filename       string `json:"filename"`
	JobDescription string `json:"job_description"`
	Result
	AnalysisDate time.Time `json:"analysis_date"`
}

// Submission is one uploaded resume plus the job description it is judged against.
type Submission struct {
	FileName       string
	MimeType       string
	Content        []byte
	JobDescription string
}
