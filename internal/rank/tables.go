package rank

type conflictRule struct {
	term      string
	conflicts []string
}

// experienceConflicts: searching for the key term and finding any of the
// conflicts in the posting vetoes it.
var experienceConflicts = []conflictRule{
	{"junior", []string{"senior", "lead", "principal", "staff", "architect", "manager", "director", "head of"}},
	{"entry", []string{"senior", "lead", "principal", "staff", "architect", "manager", "director", "head of", "mid-level", "experienced"}},
	{"entry-level", []string{"senior", "lead", "principal", "staff", "architect", "manager", "director", "head of", "mid-level", "experienced"}},
	{"intern", []string{"senior", "lead", "principal", "staff", "architect", "manager", "director", "head of", "mid-level", "experienced"}},
	{"senior", []string{"junior", "entry", "entry-level", "intern", "trainee", "graduate"}},
	{"lead", []string{"junior", "entry", "entry-level", "intern", "trainee", "graduate"}},
	{"principal", []string{"junior", "entry", "entry-level", "intern", "trainee", "graduate", "mid-level"}},
}

var jobTypeConflicts = []conflictRule{
	{"full-time", []string{"part-time", "contract", "freelance", "temporary", "intern"}},
	{"part-time", []string{"full-time"}},
	{"contract", []string{"full-time", "permanent"}},
	{"freelance", []string{"full-time", "permanent"}},
	{"permanent", []string{"contract", "freelance", "temporary"}},
	{"remote", []string{"on-site only", "in-office only"}},
}

type synonymGroup struct {
	name     string
	synonyms []string
}

var techSynonyms = []synonymGroup{
	{"javascript", []string{"js", "javascript", "node", "nodejs", "ecmascript"}},
	{"python", []string{"python", "py", "django", "flask", "fastapi", "pandas", "numpy"}},
	{"react", []string{"react", "reactjs", "react.js", "redux"}},
	{"angular", []string{"angular", "angularjs", "angular.js"}},
	{"vue", []string{"vue", "vuejs", "vue.js", "nuxt"}},
	{"java", []string{"java", "spring", "springboot", "hibernate", "jvm"}},
	{"golang", []string{"go", "golang"}},
	{"csharp", []string{"c#", "csharp", ".net", "dotnet", "asp.net"}},
	{"php", []string{"php", "laravel", "symfony", "wordpress"}},
	{"ruby", []string{"ruby", "rails", "rubyonrails", "ror"}},
	{"swift", []string{"swift", "ios", "swiftui"}},
	{"kotlin", []string{"kotlin", "android"}},
	{"typescript", []string{"typescript", "ts"}},
	{"rust", []string{"rust", "rustlang"}},
	{"database", []string{"sql", "mysql", "postgresql", "mongodb", "redis", "elasticsearch"}},
	{"cloud", []string{"aws", "azure", "gcp", "cloud", "devops"}},
	{"container", []string{"docker", "kubernetes", "k8s", "containerization"}},
}
