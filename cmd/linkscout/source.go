package main

import (
	"bufio"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/fwojciec/linkscout"
	"golang.org/x/net/publicsuffix"
)

// targets returns the domains to scan from the positional domain or the
// domain file. Exactly one of the two must be given.
func (c *ScanCmd) targets() ([]string, error) {
	switch {
	case c.Domain == "" && c.File == "":
		return nil, linkscout.Errorf(linkscout.EINVALID, "either a domain or --file is required")
	case c.Domain != "" && c.File != "":
		return nil, linkscout.Errorf(linkscout.EINVALID, "a domain and --file cannot be used together")
	case c.Domain != "":
		domain, err := NormalizeDomain(c.Domain)
		if err != nil {
			return nil, err
		}
		return []string{domain}, nil
	}

	f, err := os.Open(c.File)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, linkscout.Errorf(linkscout.EINVALID, "domain file %q not found", c.File)
		}
		return nil, err
	}
	defer f.Close()

	domains, err := ReadDomains(f)
	if err != nil {
		return nil, err
	}
	if len(domains) == 0 {
		return nil, linkscout.Errorf(linkscout.EINVALID, "domain file %q is empty or contains no valid domains", c.File)
	}
	return domains, nil
}

// ReadDomains reads one domain per line, skipping blank lines and lines
// starting with '#'. Duplicates are dropped, keeping the first occurrence.
// An invalid entry fails with its line number.
func ReadDomains(r io.Reader) ([]string, error) {
	var domains []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		domain, err := NormalizeDomain(text)
		if err != nil {
			return nil, linkscout.Errorf(linkscout.EINVALID, "line %d: %s", line, linkscout.ErrorMessage(err))
		}
		if seen[domain] {
			continue
		}
		seen[domain] = true
		domains = append(domains, domain)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return domains, nil
}

// NormalizeDomain reduces input such as "https://Example.com/path" to a
// lower-case host name and rejects values that are not registrable domains,
// including bare public suffixes like "com" or "co.uk".
func NormalizeDomain(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return "", linkscout.Errorf(linkscout.EINVALID, "invalid domain %q", raw)
		}
		s = u.Hostname()
	} else {
		if i := strings.IndexAny(s, "/?#"); i >= 0 {
			s = s[:i]
		}
		if i := strings.LastIndex(s, ":"); i >= 0 {
			s = s[:i]
		}
	}
	s = strings.TrimPrefix(s, "*.")
	s = strings.TrimSuffix(s, ".")

	if s == "" || strings.ContainsAny(s, " \t@") {
		return "", linkscout.Errorf(linkscout.EINVALID, "invalid domain %q", raw)
	}
	if _, err := publicsuffix.EffectiveTLDPlusOne(s); err != nil {
		return "", linkscout.Errorf(linkscout.EINVALID, "%q is not a registrable domain", raw)
	}
	return s, nil
}
