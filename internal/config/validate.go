package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a trimmed copy of cfg and everything wrong
// with it. Errors block saving; warnings are informational.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.Email.SearchSubjectAny = trimList(out.Email.SearchSubjectAny)
	out.Log.Level = strings.ToLower(strings.TrimSpace(out.Log.Level))
	out.Log.Format = strings.ToLower(strings.TrimSpace(out.Log.Format))
	out.Cache.Backend = strings.ToLower(strings.TrimSpace(out.Cache.Backend))

	if out.App.Port <= 0 || out.App.Port > 65535 {
		res.addErr("app.port must be 1..65535")
	}

	switch out.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		res.addErr("log.level must be one of debug, info, warn, error")
	}
	if out.Log.Format != "json" && out.Log.Format != "console" {
		res.addErr("log.format must be json or console")
	}

	if out.Search.MaxResults < 1 || out.Search.MaxResults > 50 {
		res.addErr("search.max_results must be 1..50")
	}
	if out.Search.MinDelayMillis < 0 || out.Search.MaxDelayMillis < out.Search.MinDelayMillis {
		res.addErr("search delays must satisfy 0 <= min_delay_ms <= max_delay_ms")
	} else if out.Search.MaxDelayMillis == 0 {
		res.addWarn("search.max_delay_ms is 0; sources will be queried back to back.")
	}
	if out.Search.Workers <= 0 {
		res.addErr("search.workers must be > 0")
	}

	checkSource := func(name string, s SourceConfig) {
		if !s.Enabled {
			return
		}
		if s.MaxJobs <= 0 {
			res.addErr("sources.%s.max_jobs must be > 0", name)
		}
		if s.MinRelevance < 0 || s.MinRelevance > 100 {
			res.addErr("sources.%s.min_relevance must be 0..100", name)
		}
		if s.TimeoutSeconds <= 0 {
			res.addErr("sources.%s.timeout_seconds must be > 0", name)
		}
	}
	checkSource("remoteok", out.Sources.RemoteOK)
	checkSource("linkedin", out.Sources.LinkedIn)
	checkSource("indeed", out.Sources.Indeed)

	if !out.Sources.RemoteOK.Enabled && !out.Sources.LinkedIn.Enabled &&
		!out.Sources.Indeed.Enabled && !out.Email.Enabled {
		res.addErr("no sources enabled: enable remoteok, linkedin, indeed or email")
	}

	// password is not required here; it lives in the keychain
	if out.Email.Enabled {
		if strings.TrimSpace(out.Email.IMAPHost) == "" {
			res.addErr("email.imap_host is required when email.enabled=true")
		}
		if out.Email.IMAPPort == 0 {
			res.addErr("email.imap_port is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Username) == "" {
			res.addErr("email.username is required when email.enabled=true")
		}
		if strings.TrimSpace(out.Email.Mailbox) == "" {
			res.addErr("email.mailbox is required when email.enabled=true")
		}
		if len(out.Email.SearchSubjectAny) == 0 {
			res.addWarn("email.search_subject_any is empty; every unseen e-mail will be parsed.")
		}
	}

	switch out.Cache.Backend {
	case "memory", "none":
	case "redis":
		if strings.TrimSpace(out.Cache.RedisAddr) == "" {
			res.addErr("cache.redis_addr is required when cache.backend=redis")
		}
	default:
		res.addErr("cache.backend must be memory, redis or none")
	}
	if out.Cache.TTLSeconds < 0 {
		res.addErr("cache.ttl_seconds must be >= 0")
	}

	if out.Polling.Enabled {
		if out.Polling.IntervalMinutes <= 0 {
			res.addErr("polling.interval_minutes must be > 0")
		} else if out.Polling.IntervalMinutes < 15 {
			res.addWarn("polling.interval_minutes is very low (%d) and may get you blocked.", out.Polling.IntervalMinutes)
		}
		if len(out.Polling.Searches) == 0 {
			res.addWarn("polling is enabled but polling.searches is empty.")
		}
	}
	for i, s := range out.Polling.Searches {
		out.Polling.Searches[i].Keywords = strings.TrimSpace(s.Keywords)
		if out.Polling.Searches[i].Keywords == "" {
			res.addErr("polling.searches[%d].keywords is required", i)
		}
		if s.MaxResults < 0 || s.MaxResults > 50 {
			res.addErr("polling.searches[%d].max_results must be 0..50", i)
		}
	}

	if out.Retention.MaxAgeDays < 0 {
		res.addErr("retention.max_age_days must be >= 0")
	}

	return out, res
}
