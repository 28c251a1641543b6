package config

import (
	"fmt"
	"strings"
)

type Validation struct {
	Errors   []string
	Warnings []string
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate fills unset fields from the defaults and checks
// the rest. Warnings don't block startup.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation
	def := Default()

	if strings.TrimSpace(out.Lookup.BaseURL) == "" {
		out.Lookup.BaseURL = def.Lookup.BaseURL
	}
	if strings.TrimSpace(out.Lookup.UserAgent) == "" {
		out.Lookup.UserAgent = def.Lookup.UserAgent
	}
	if out.Lookup.TimeoutSeconds <= 0 {
		out.Lookup.TimeoutSeconds = def.Lookup.TimeoutSeconds
	}
	if out.Lookup.CacheTTLHours <= 0 {
		out.Lookup.CacheTTLHours = def.Lookup.CacheTTLHours
	}
	if out.Lookup.MaxResults <= 0 || out.Lookup.MaxResults > 50 {
		out.Lookup.MaxResults = def.Lookup.MaxResults
	}
	if out.Matching.PenaltyKM <= 0 {
		out.Matching.PenaltyKM = def.Matching.PenaltyKM
	}
	if out.Matching.RatingWeight <= 0 {
		out.Matching.RatingWeight = def.Matching.RatingWeight
	}
	if strings.TrimSpace(out.Outreach.Sender) == "" {
		out.Outreach.Sender = def.Outreach.Sender
	}

	if out.Lookup.SpacingMS <= 0 {
		out.Lookup.SpacingMS = def.Lookup.SpacingMS
	} else if out.Lookup.SpacingMS < 1000 {
		res.addWarn("lookup.spacing_ms=%d is below 1 req/sec; the provider may block you.", out.Lookup.SpacingMS)
	}

	if out.Outreach.SMTPHost != "" && out.Outreach.SMTPPort == 0 {
		res.addErr("outreach.smtp_port is required when smtp_host is set")
	}
	if out.Outreach.IMAPHost != "" && out.Outreach.IMAPPort == 0 {
		res.addErr("outreach.imap_port is required when imap_host is set")
	}

	return out, res
}
