package models

import (
	"fmt"
	"strings"
)

// EmailDomain selects which company email addresses a run keeps.
// The zero value NoDomain applies no restriction at all; All still restricts
// to the known company domains.
type EmailDomain string

const (
	NoDomain  EmailDomain = ""
	Tinder    EmailDomain = "tinder"
	Hinge     EmailDomain = "hinge"
	OKCupid   EmailDomain = "okcupid"
	Match     EmailDomain = "match"
	TheLeague EmailDomain = "theLeague"
	Eureka    EmailDomain = "eureka"
	Meetic    EmailDomain = "meetic"
	All       EmailDomain = "all"
)

// CompanyOther is the company of an email that matches no known domain.
const CompanyOther = "Other"

type domainInfo struct {
	host    string
	company string
}

// concreteDomains is ordered as the domains are presented to users.
var concreteDomains = []EmailDomain{Tinder, Hinge, OKCupid, Match, TheLeague, Eureka, Meetic}

var domainTable = map[EmailDomain]domainInfo{
	Tinder:    {host: "gotinder.com", company: "Tinder"},
	Hinge:     {host: "hinge.co", company: "Hinge"},
	OKCupid:   {host: "okcupid.com", company: "OKCupid"},
	Match:     {host: "match.com", company: "Match"},
	TheLeague: {host: "theleagueapp.co", company: "The League"},
	Eureka:    {host: "eure.jp", company: "Eureka"},
	Meetic:    {host: "meetic-corp.com", company: "Meetic"},
}

// ConcreteDomains returns every single-company domain, excluding All.
func ConcreteDomains() []EmailDomain {
	return append([]EmailDomain(nil), concreteDomains...)
}

// AllDomains returns the concrete domains followed by All.
func AllDomains() []EmailDomain {
	return append(ConcreteDomains(), All)
}

// ParseEmailDomain resolves a domain key ("theLeague"), case-insensitively,
// or a bare host ("gotinder.com"). An empty string yields NoDomain.
func ParseEmailDomain(s string) (EmailDomain, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return NoDomain, nil
	}
	for _, d := range AllDomains() {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	host := strings.TrimPrefix(strings.ToLower(s), "@")
	for _, d := range concreteDomains {
		if domainTable[d].host == host {
			return d, nil
		}
	}
	return NoDomain, fmt.Errorf("unknown email domain %q", s)
}

// ResolveDomainFilter turns a domain name and the legacy "Tinder only"
// switch into a filter. The switch wins when set.
func ResolveDomainFilter(name string, tinderOnly bool) (EmailDomain, error) {
	if tinderOnly {
		return Tinder, nil
	}
	return ParseEmailDomain(name)
}

// Host returns the mail host of a concrete domain, "all" for All and "" for NoDomain.
func (d EmailDomain) Host() string {
	if d == All {
		return "all"
	}
	return domainTable[d].host
}

// Company returns the company name of a concrete domain.
func (d EmailDomain) Company() string {
	return domainTable[d].company
}

// DisplayName is the label shown in domain pickers.
func (d EmailDomain) DisplayName() string {
	switch d {
	case NoDomain:
		return "No filter"
	case All:
		names := make([]string, 0, len(concreteDomains))
		for _, c := range concreteDomains {
			names = append(names, c.Company())
		}
		return "All (" + strings.Join(names, ", ") + ")"
	}
	info, ok := domainTable[d]
	if !ok {
		return string(d)
	}
	return fmt.Sprintf("%s (@%s)", info.company, info.host)
}

// AllowedSuffixes lists the "@host" suffixes accepted by the domain.
// All is the union of every concrete domain; NoDomain has none.
func (d EmailDomain) AllowedSuffixes() []string {
	if d == All {
		out := make([]string, 0, len(concreteDomains))
		for _, c := range concreteDomains {
			out = append(out, c.AllowedSuffixes()...)
		}
		return out
	}
	info, ok := domainTable[d]
	if !ok {
		return nil
	}
	return []string{"@" + info.host}
}

// Accepts reports whether the lowercased email ends with one of the allowed suffixes.
func (d EmailDomain) Accepts(email string) bool {
	lower := strings.ToLower(email)
	for _, suffix := range d.AllowedSuffixes() {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// CompanyForEmail maps an email to the company whose suffix is the longest
// match, or CompanyOther.
func CompanyForEmail(email string) string {
	lower := strings.ToLower(email)
	best, bestLen := CompanyOther, 0
	for _, d := range concreteDomains {
		suffix := "@" + domainTable[d].host
		if len(suffix) > bestLen && strings.HasSuffix(lower, suffix) {
			best, bestLen = domainTable[d].company, len(suffix)
		}
	}
	return best
}
