package domain

type Education struct {
	Institution string `yaml:"institution" json:"institution"`
	Degree      string `yaml:"degree" json:"degree"`
	Field       string `yaml:"field" json:"field"`
	Location    string `yaml:"location" json:"location"`
	Start       string `yaml:"start" json:"start"`
	End         string `yaml:"end" json:"end"`
}

type Experience struct {
	Company  string   `yaml:"company" json:"company"`
	Title    string   `yaml:"title" json:"title"`
	Location string   `yaml:"location" json:"location"`
	Start    string   `yaml:"start" json:"start"`
	End      string   `yaml:"end" json:"end"`
	Bullets  []string `yaml:"bullets" json:"bullets"`
}

type Project struct {
	Name         string   `yaml:"name" json:"name"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Description  string   `yaml:"description" json:"description"`
	URL          string   `yaml:"url" json:"url"`
}

type Skills struct {
	Languages  []string `yaml:"languages" json:"languages"`
	Frameworks []string `yaml:"frameworks" json:"frameworks"`
	Databases  []string `yaml:"databases" json:"databases"`
	Tools      []string `yaml:"tools" json:"tools"`
}

// UserProfile is the applicant data used to fill document templates.
type UserProfile struct {
	FullName       string       `yaml:"full_name" json:"full_name"`
	Email          string       `yaml:"email" json:"email"`
	Phone          string       `yaml:"phone" json:"phone"`
	Address        string       `yaml:"address" json:"address"`
	LinkedIn       string       `yaml:"linkedin" json:"linkedin"`
	GitHub         string       `yaml:"github" json:"github"`
	Summary        string       `yaml:"summary" json:"summary"`
	Education      []Education  `yaml:"education" json:"education"`
	Experience     []Experience `yaml:"experience" json:"experience"`
	Skills         Skills       `yaml:"skills" json:"skills"`
	Projects       []Project    `yaml:"projects" json:"projects"`
	Certifications []string     `yaml:"certifications" json:"certifications"`
}
