package extract

import (
	"regexp"

	"easyapply-engine/internal/domain"
)

// techCatalog is matched in this order; the output keeps it.
var techCatalog = []string{
	"python", "javascript", "java", "react", "angular", "vue", "node.js", "nodejs",
	"django", "flask", "fastapi", "spring", "typescript", "php", "ruby", "rails",
	"go", "golang", "rust", "c++", "c#", ".net", "sql", "postgresql", "mysql",
	"mongodb", "redis", "docker", "kubernetes", "aws", "azure", "gcp", "terraform",
	"git", "linux", "html", "css", "sass", "webpack", "jenkins", "graphql",
	"elasticsearch", "kafka", "rabbitmq", "nginx", "apache", "pandas", "numpy",
	"tensorflow", "pytorch", "scikit-learn", "spark", "hadoop", "scala", "kotlin",
	"swift", "objective-c", "flutter", "xamarin", "unity", "unreal", "matlab",
	"r", "sas", "tableau", "power bi", "excel", "jira", "confluence", "slack",
}

const (
	maxTechnologies = 15
	maxBenefits     = 8
	MaxRequirements = 5
)

var salaryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\$[\d,]+\s*-\s*\$[\d,]+`),
	regexp.MustCompile(`(?i)\$[\d,]+k?\s*-\s*\$[\d,]+k?`),
	regexp.MustCompile(`(?i)[\d,]+\s*-\s*[\d,]+\s*(?:USD|EUR|GBP)`),
	regexp.MustCompile(`(?i)€[\d,]+\s*-\s*€[\d,]+`),
	regexp.MustCompile(`(?i)£[\d,]+\s*-\s*£[\d,]+`),
}

type benefitGroup struct {
	name     string
	keywords []string
}

var benefitGroups = []benefitGroup{
	{"health insurance", []string{"health insurance", "medical insurance", "healthcare", "medical coverage"}},
	{"dental insurance", []string{"dental insurance", "dental coverage", "dental plan"}},
	{"vision insurance", []string{"vision insurance", "vision coverage", "vision plan"}},
	{"401k", []string{"401k", "401(k)", "retirement plan", "pension"}},
	{"paid time off", []string{"pto", "paid time off", "vacation days", "holiday pay"}},
	{"remote work", []string{"remote work", "work from home", "wfh", "telecommute"}},
	{"flexible hours", []string{"flexible hours", "flex time", "flexible schedule"}},
	{"stock options", []string{"stock options", "equity", "espp", "rsu"}},
	{"bonus", []string{"bonus", "performance bonus", "annual bonus"}},
	{"parental leave", []string{"parental leave", "maternity leave", "paternity leave"}},
	{"professional development", []string{"professional development", "training budget", "conference budget"}},
	{"gym membership", []string{"gym membership", "fitness benefit", "wellness program"}},
}

type jobTypeRule struct {
	typ   domain.JobType
	terms []string
}

var jobTypeRules = []jobTypeRule{
	{domain.FullTime, []string{"full-time", "full time", "ft"}},
	{domain.PartTime, []string{"part-time", "part time", "pt"}},
	{domain.Contract, []string{"contract", "contractor", "freelance"}},
	{domain.Internship, []string{"internship", "intern"}},
	{domain.Temporary, []string{"temporary", "temp"}},
}

type levelRule struct {
	level domain.ExperienceLevel
	terms []string
}

// levelRules is the full-text cascade, most senior first. Entry is checked
// before Junior on purpose; reordering changes classifications.
var levelRules = []levelRule{
	{domain.LevelPrincipal, []string{
		"principal engineer", "principal software engineer", "principal architect", "principal consultant",
	}},
	{domain.LevelLead, []string{
		"lead engineer", "tech lead", "team lead", "lead developer", "development lead", "engineering lead",
	}},
	{domain.LevelSenior, []string{
		"senior", "sr.", "sr ", "staff engineer", "architect", "manager", "director", "expert", "head of",
		"7+ years", "8+ years", "9+ years", "10+ years", "10+ yrs", "7+ yrs",
		"seven years", "eight years", "ten years",
	}},
	{domain.LevelMid, []string{
		"mid-level", "mid level", "intermediate", "mid-senior",
		"3-5 years", "4-6 years", "5-7 years", "3+ years", "3+ yrs",
		"three years", "four years", "five years", "engineer ii", "developer ii",
	}},
	{domain.LevelEntry, []string{
		"entry-level", "entry level", "graduate", "new grad", "graduating", "intern", "internship",
		"trainee", "0-1 year", "0-2 years", "<1 year", "<2 years", "no experience required", "recent graduate",
	}},
	{domain.LevelJunior, []string{
		"junior", "jr.", "jr ", "associate software engineer", "associate developer",
		"1-3 years", "1-2 yrs", "2-3 years", "one year", "two years", "three years experience",
		"engineer i", "developer i",
	}},
}

// titleLevelRules is the fallback applied to the title alone, same order.
var titleLevelRules = []levelRule{
	{domain.LevelPrincipal, []string{"principal"}},
	{domain.LevelLead, []string{"lead"}},
	{domain.LevelSenior, []string{"senior", "sr "}},
	{domain.LevelMid, []string{"mid-level", "mid level"}},
	{domain.LevelEntry, []string{"entry", "intern", "graduate"}},
	{domain.LevelJunior, []string{"junior", "jr "}},
}

var remoteIndicators = []string{
	"remote", "work from home", "distributed", "anywhere", "telecommute",
	"wfh", "virtual", "home office", "remote-first",
}

var visaPositive = []string{
	"visa sponsorship", "h1b", "h-1b", "work permit", "immigration support",
	"international candidates", "work authorization", "sponsor visa",
	"visa assistance", "green card", "employment authorization",
}

var visaNegative = []string{
	"no visa sponsorship", "cannot sponsor", "unable to sponsor", "must be authorized",
	"must have work authorization", "citizen or permanent resident",
}
