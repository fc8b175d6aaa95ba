package domain

type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "Entry-level"
	LevelJunior    ExperienceLevel = "Junior"
	LevelMid       ExperienceLevel = "Mid-level"
	LevelSenior    ExperienceLevel = "Senior"
	LevelLead      ExperienceLevel = "Lead"
	LevelPrincipal ExperienceLevel = "Principal"
)

type JobType string

const (
	FullTime   JobType = "Full-time"
	PartTime   JobType = "Part-time"
	Contract   JobType = "Contract"
	Internship JobType = "Internship"
	Temporary  JobType = "Temporary"
)

// JobPosting is one normalized, scored listing. It is built once by the
// assembler and not mutated afterwards.
type JobPosting struct {
	ID              string          `json:"id"`
	Title           string          `json:"title"`
	Company         string          `json:"company"`
	Location        string          `json:"location"`
	Description     string          `json:"description"`
	Requirements    []string        `json:"requirements"`
	Technologies    []string        `json:"technologies"`
	SalaryRange     string          `json:"salary_range"` // "" when unknown
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	RemoteFriendly  bool            `json:"remote_friendly"`
	VisaSponsorship bool            `json:"visa_sponsorship"`
	PostedDate      string          `json:"posted_date"` // YYYY-MM-DD
	Source          string          `json:"source"`
	URL             string          `json:"url"`
	RelevanceScore  float64         `json:"relevance_score"`
	JobType         JobType         `json:"job_type,omitempty"`
	Benefits        []string        `json:"benefits,omitempty"`
}

// RawPosting is what a source collaborator hands to the assembler. Sources
// coerce their JSON/HTML into these plain fields; optional values are left
// empty rather than guessed.
type RawPosting struct {
	Source      string // display name, e.g. "LinkedIn"
	NativeID    string // site id when the source exposes one
	Title       string
	Company     string
	Location    string
	Description string
	URL         string
	Posted      string // free text: ISO date, "3 days ago", ...

	Salary   string   // preferred over extraction when set
	Tags     []string // become requirements when set
	Benefits []string // preferred over extraction when set
	Remote   bool     // source only lists remote jobs
	JobType  JobType  // preferred over detection when set
}
