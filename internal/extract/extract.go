package extract

import (
	"strings"

	"easyapply-engine/internal/domain"
)

// Technologies returns catalog entries found in text, title-cased, in
// catalog order, at most 15.
func Technologies(text string) []string {
	lower := strings.ToLower(text)
	out := make([]string, 0, maxTechnologies)
	seen := make(map[string]bool)
	for _, tech := range techCatalog {
		if len(out) == maxTechnologies {
			break
		}
		if !strings.Contains(lower, tech) {
			continue
		}
		name := titleCase(tech)
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// SalaryRange returns the first salary-looking range in text, or "".
func SalaryRange(text string) string {
	for _, re := range salaryPatterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

// Benefits lists the benefit categories mentioned in text, in fixed order.
func Benefits(text string) []string {
	lower := strings.ToLower(text)
	out := make([]string, 0, maxBenefits)
	for _, g := range benefitGroups {
		if len(out) == maxBenefits {
			break
		}
		if containsAny(lower, g.keywords) {
			out = append(out, g.name)
		}
	}
	return out
}

func JobType(text string) domain.JobType {
	lower := strings.ToLower(text)
	for _, r := range jobTypeRules {
		if containsAny(lower, r.terms) {
			return r.typ
		}
	}
	return domain.FullTime
}

// ExperienceLevel classifies seniority from the title and description.
// The full text is scanned first, then the title alone; Mid-level when
// neither gives a signal.
func ExperienceLevel(title, description string) domain.ExperienceLevel {
	text := strings.ToLower(title + " " + description)
	for _, r := range levelRules {
		if containsAny(text, r.terms) {
			return r.level
		}
	}
	lowerTitle := strings.ToLower(title)
	for _, r := range titleLevelRules {
		if containsAny(lowerTitle, r.terms) {
			return r.level
		}
	}
	return domain.LevelMid
}

func RemoteFriendly(location, description string) bool {
	return containsAny(strings.ToLower(location+" "+description), remoteIndicators)
}

// VisaSponsorship reports a sponsorship signal. Any negative phrase wins
// over positive ones.
func VisaSponsorship(description string) bool {
	lower := strings.ToLower(description)
	if containsAny(lower, visaNegative) {
		return false
	}
	return containsAny(lower, visaPositive)
}
