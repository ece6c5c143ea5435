package vault

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchKind distinguishes the three possible outcomes of a lookup,
// per design note §9 ("find distinguishing none/one/many should be a
// three-case sum, not an exception vs. value").
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchOne
	MatchMany
)

// MatchResult is the sum-typed result of matchAccounts: exactly one of
// Account (MatchOne) or Matches (MatchMany) is populated.
type MatchResult struct {
	Kind    MatchKind
	Account *Account
	Matches []*Account
}

// matchAccounts implements the shared matching rule behind Find and
// Search: an exact id match always short-circuits to a singleton;
// otherwise every case-insensitive substring match against name,
// fullname, username, and url is collected.
func matchAccounts(accounts []*Account, query string) MatchResult {
	for _, a := range accounts {
		if a.ID == query {
			return MatchResult{Kind: MatchOne, Account: a}
		}
	}

	needle := strings.ToLower(query)
	var matches []*Account
	for _, a := range accounts {
		if strings.Contains(strings.ToLower(a.Name), needle) ||
			strings.Contains(strings.ToLower(a.Fullname), needle) ||
			strings.Contains(strings.ToLower(a.Username), needle) ||
			strings.Contains(strings.ToLower(a.URL), needle) {
			matches = append(matches, a)
		}
	}

	switch len(matches) {
	case 0:
		return MatchResult{Kind: MatchNone}
	case 1:
		return MatchResult{Kind: MatchOne, Account: matches[0]}
	default:
		return MatchResult{Kind: MatchMany, Matches: matches}
	}
}

// Find returns exactly one account matching query: an exact id match,
// else a case-insensitive substring match against name, fullname,
// username, or url. It fails with *NotFoundError when zero or more
// than one account matches (spec §4.7, §8 property 7).
func (c *Client) Find(query string) (*Account, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := matchAccounts(c.accounts, query)
	switch result.Kind {
	case MatchOne:
		return result.Account, nil
	case MatchMany:
		return nil, &NotFoundError{Query: query, Matches: fullnames(result.Matches)}
	default:
		return nil, &NotFoundError{Query: query}
	}
}

// Search returns every account matching query by case-insensitive
// substring, optionally restricted to a group prefix. An exact id
// match short-circuits to a singleton result, per spec §4.7.
func (c *Client) Search(query string, group string) []*Account {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := matchAccounts(c.accounts, query)
	var matches []*Account
	switch result.Kind {
	case MatchOne:
		matches = []*Account{result.Account}
	case MatchMany:
		matches = result.Matches
	default:
		return nil
	}

	if group == "" {
		return matches
	}
	filtered := make([]*Account, 0, len(matches))
	for _, a := range matches {
		if strings.HasPrefix(strings.ToLower(a.Group), strings.ToLower(group)) {
			filtered = append(filtered, a)
		}
	}
	return filtered
}

// SearchRegex matches pattern case-insensitively against fields
// (defaulting to name, id, fullname per spec §4.7) across every
// account, returning every match.
func (c *Client) SearchRegex(pattern string, fields []string) ([]*Account, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPattern, err)
	}
	if len(fields) == 0 {
		fields = []string{"name", "id", "fullname"}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matches []*Account
	for _, a := range c.accounts {
		for _, field := range fields {
			if re.MatchString(accountFieldValue(a, field)) {
				matches = append(matches, a)
				break
			}
		}
	}
	return matches, nil
}

func accountFieldValue(a *Account, field string) string {
	switch field {
	case "name":
		return a.Name
	case "id":
		return a.ID
	case "fullname":
		return a.Fullname
	case "username":
		return a.Username
	case "url":
		return a.URL
	case "group":
		return a.Group
	case "notes":
		return a.Notes
	default:
		return ""
	}
}

func fullnames(accounts []*Account) []string {
	names := make([]string, len(accounts))
	for i, a := range accounts {
		names[i] = a.Fullname
	}
	return names
}
