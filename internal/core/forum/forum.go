// Package forum contains the pure logic for tracked forums.
package forum

import (
	"net/url"
	"strings"
)

// LinkStatus is the outcome of probing a forum URL.
type LinkStatus string

const (
	LinkOK       LinkStatus = "ok"
	LinkNotFound LinkStatus = "not_found"
	LinkBlocked  LinkStatus = "blocked"
)

// ClassifyResponse maps an HTTP status code to a link status.
// A zero code means the request never completed.
func ClassifyResponse(code int) LinkStatus {
	switch {
	case code >= 200 && code < 400:
		return LinkOK
	case code == 404:
		return LinkNotFound
	}
	return LinkBlocked
}

// ValidateCreate returns field problems for a new forum, or nil.
func ValidateCreate(platform, name, rawURL, ruleProfile string) map[string]string {
	problems := map[string]string{}
	if strings.TrimSpace(platform) == "" {
		problems["platform"] = "platform is required"
	}
	if strings.TrimSpace(name) == "" {
		problems["name"] = "name is required"
	}
	if strings.TrimSpace(ruleProfile) == "" {
		problems["rule_profile"] = "rule_profile is required"
	}
	if problem := ValidateURL(rawURL); problem != "" {
		problems["url"] = problem
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}

// ValidateURL returns a problem description for an unusable forum URL.
func ValidateURL(rawURL string) string {
	if strings.TrimSpace(rawURL) == "" {
		return "url is required"
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "url must be an absolute http(s) URL"
	}
	return ""
}
