// Package search ranks contacts against a free-text query. Archived
// contacts are never returned; an empty query yields the active list
// untouched.
package search

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"hisab/internal/models"
)

const (
	rankPrefix    = 0
	rankSubstring = 1
	rankFuzzy     = 2
)

type match struct {
	contact models.Contact
	rank    int
	index   int
}

// Contacts filters and ranks the active contacts: name/phone prefix
// matches first, then substring matches, then near-misses within a small
// edit distance of the name.
func Contacts(contacts []models.Contact, query string) []models.Contact {
	query = strings.ToLower(strings.TrimSpace(query))
	var matches []match
	for i, contact := range contacts {
		if contact.IsArchived {
			continue
		}
		if query == "" {
			matches = append(matches, match{contact: contact, rank: rankPrefix, index: i})
			continue
		}
		rank, ok := score(contact, query)
		if ok {
			matches = append(matches, match{contact: contact, rank: rank, index: i})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].index < matches[j].index
	})
	result := make([]models.Contact, 0, len(matches))
	for _, m := range matches {
		result = append(result, m.contact)
	}
	return result
}

func score(contact models.Contact, query string) (int, bool) {
	name := strings.ToLower(contact.Name)
	phone := contact.Phone
	switch {
	case strings.HasPrefix(name, query) || strings.HasPrefix(phone, query):
		return rankPrefix, true
	case strings.Contains(name, query) || strings.Contains(phone, query):
		return rankSubstring, true
	}
	if levenshtein.ComputeDistance(query, name) <= maxDistance(query) {
		return rankFuzzy, true
	}
	return 0, false
}

// maxDistance scales the tolerated edit distance with query length: at
// least one typo, up to half the query length, capped at three edits.
func maxDistance(query string) int {
	allowed := len(query) / 2
	if allowed < 1 {
		allowed = 1
	}
	if allowed > 3 {
		allowed = 3
	}
	return allowed
}
