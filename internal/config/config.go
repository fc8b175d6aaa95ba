package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// SourceConfig tunes one job board collaborator.
type SourceConfig struct {
	Enabled        bool    `yaml:"enabled" json:"enabled"`
	MaxJobs        int     `yaml:"max_jobs" json:"max_jobs"`
	MinRelevance   float64 `yaml:"min_relevance" json:"min_relevance"`
	TimeoutSeconds int     `yaml:"timeout_seconds" json:"timeout_seconds"`
}

type SavedSearch struct {
	Keywords   string `yaml:"keywords" json:"keywords"`
	Location   string `yaml:"location" json:"location"`
	MaxResults int    `yaml:"max_results" json:"max_results"`
}

type Config struct {
	App struct {
		Port      int    `yaml:"port" json:"port"`
		DataDir   string `yaml:"data_dir" json:"data_dir"`
		UserAgent string `yaml:"user_agent" json:"user_agent"`
	} `yaml:"app" json:"app"`

	Log struct {
		Level  string `yaml:"level" json:"level"`   // debug|info|warn|error
		Format string `yaml:"format" json:"format"` // json|console
	} `yaml:"log" json:"log"`

	Search struct {
		DefaultLocation string `yaml:"default_location" json:"default_location"`
		MaxResults      int    `yaml:"max_results" json:"max_results"`
		MinDelayMillis  int    `yaml:"min_delay_ms" json:"min_delay_ms"`
		MaxDelayMillis  int    `yaml:"max_delay_ms" json:"max_delay_ms"`
		Workers         int    `yaml:"workers" json:"workers"`
	} `yaml:"search" json:"search"`

	Sources struct {
		RemoteOK SourceConfig `yaml:"remoteok" json:"remoteok"`
		LinkedIn SourceConfig `yaml:"linkedin" json:"linkedin"`
		Indeed   SourceConfig `yaml:"indeed" json:"indeed"`
	} `yaml:"sources" json:"sources"`

	Email struct {
		Enabled          bool     `yaml:"enabled" json:"enabled"`
		IMAPHost         string   `yaml:"imap_host" json:"imap_host"`
		IMAPPort         int      `yaml:"imap_port" json:"imap_port"`
		Username         string   `yaml:"username" json:"username"`
		Mailbox          string   `yaml:"mailbox" json:"mailbox"`
		SearchSubjectAny []string `yaml:"search_subject_any" json:"search_subject_any"`
		MaxEmails        int      `yaml:"max_emails" json:"max_emails"`
		MaxJobs          int      `yaml:"max_jobs" json:"max_jobs"`
		MarkSeen         bool     `yaml:"mark_seen" json:"mark_seen"`

		// Only from the environment; the keychain is preferred.
		AppPassword string `yaml:"-" json:"-"`
	} `yaml:"email" json:"email"`

	Cache struct {
		Backend       string `yaml:"backend" json:"backend"` // memory|redis|none
		TTLSeconds    int    `yaml:"ttl_seconds" json:"ttl_seconds"`
		RedisAddr     string `yaml:"redis_addr" json:"redis_addr"`
		RedisPassword string `yaml:"-" json:"-"`
		RedisDB       int    `yaml:"redis_db" json:"redis_db"`
	} `yaml:"cache" json:"cache"`

	Polling struct {
		Enabled         bool          `yaml:"enabled" json:"enabled"`
		IntervalMinutes int           `yaml:"interval_minutes" json:"interval_minutes"`
		Searches        []SavedSearch `yaml:"searches" json:"searches"`
	} `yaml:"polling" json:"polling"`

	Documents struct {
		ProfilePath  string `yaml:"profile_path" json:"profile_path"`
		OutputDir    string `yaml:"output_dir" json:"output_dir"`
		TemplatesDir string `yaml:"templates_dir" json:"templates_dir"`
		PDFLatexPath string `yaml:"pdflatex_path" json:"pdflatex_path"`
	} `yaml:"documents" json:"documents"`

	Retention struct {
		MaxAgeDays int `yaml:"max_age_days" json:"max_age_days"`
	} `yaml:"retention" json:"retention"`
}

// Defaults is the configuration used for anything the file leaves unset.
func Defaults() Config {
	var c Config
	c.App.Port = 38471
	c.App.DataDir = "."
	c.App.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	c.Log.Level = "info"
	c.Log.Format = "json"
	c.Search.DefaultLocation = "United States"
	c.Search.MaxResults = 25
	c.Search.MinDelayMillis = 1000
	c.Search.MaxDelayMillis = 2500
	c.Search.Workers = 4
	c.Sources.RemoteOK = SourceConfig{Enabled: true, MaxJobs: 5, MinRelevance: 20, TimeoutSeconds: 15}
	c.Sources.LinkedIn = SourceConfig{Enabled: true, MaxJobs: 10, MinRelevance: 15, TimeoutSeconds: 15}
	c.Sources.Indeed = SourceConfig{Enabled: true, MaxJobs: 10, MinRelevance: 15, TimeoutSeconds: 15}
	c.Email.IMAPHost = "imap.gmail.com"
	c.Email.IMAPPort = 993
	c.Email.Mailbox = "INBOX"
	c.Email.SearchSubjectAny = []string{"job alert", "jobs for you"}
	c.Email.MaxEmails = 200
	c.Email.MaxJobs = 25
	c.Cache.Backend = "memory"
	c.Cache.TTLSeconds = 900
	c.Polling.IntervalMinutes = 60
	c.Documents.OutputDir = "documents"
	c.Documents.PDFLatexPath = "pdflatex"
	c.Retention.MaxAgeDays = 90
	return c
}

func Load(path string) (Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}
