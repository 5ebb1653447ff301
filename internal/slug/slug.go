// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings,
// plus the derivation rules used for categories and the numeric-suffix
// disambiguation applied when a slug is already taken.
package slug

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gosimple/unidecode"
)

// Separator joins slug parts and disambiguating suffixes.
const Separator = "-"

// MaxLength is the width of the slug columns.
const MaxLength = 255

// MaxBase is the longest base slug. The remaining room holds a "-N"
// suffix of up to seven digits, so Unique never exceeds MaxLength.
const MaxBase = MaxLength - 8

// Fallbacks used when a name has nothing that survives slugification,
// e.g. a title made only of emoji.
const (
	FallbackCategory = "category"
	FallbackArticle  = "article"
)

var (
	// nonAlphanumeric matches anything that isn't a letter, digit, space, or hyphen.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9\s-]`)
	// whitespace matches runs of any whitespace.
	whitespace = regexp.MustCompile(`\s+`)
	// multipleHyphens collapses consecutive hyphens into one.
	multipleHyphens = regexp.MustCompile(`-{2,}`)
)

// Generate creates a URL-friendly slug from the given string. Non-ASCII
// text is transliterated first, so "Новости" becomes "novosti".
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(unidecode.Unidecode(s)))
	result = nonAlphanumeric.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, Separator)
	result = multipleHyphens.ReplaceAllString(result, Separator)
	result = strings.Trim(result, Separator)
	return result
}

// Base returns the slug of s cut to MaxBase, or fallback when s has no
// letters or digits.
func Base(s, fallback string) string {
	result := Generate(s)
	if result == "" {
		result = fallback
	}
	return Truncate(result, MaxBase)
}

// Category derives the base slug of a category from its own name and the
// name of its supercategory. An empty parent yields the slug of the name
// alone: Category("Test", "TestCase") → "testcase-test". When the joined
// slug exceeds MaxBase the name keeps at least half of the room and the
// parent part is shortened first.
func Category(name, parent string) string {
	result := Base(name, FallbackCategory)
	if parent == "" {
		return result
	}
	p := Base(parent, FallbackCategory)
	room := MaxBase - len(Separator)
	result = Truncate(result, max(room-len(p), room/2))
	p = Truncate(p, room-len(result))
	return p + Separator + result
}

// Truncate shortens slug s to at most n bytes, cutting at the last
// separator that fits so no word is split. When that separator would
// drop more than half of the room, the slug is cut hard instead.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := s[:n]
	if s[n:n+1] != Separator {
		if i := strings.LastIndex(cut, Separator); i > n/2 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, Separator)
}

// Unique returns base if it is not in taken, otherwise base-N for the
// smallest N >= 2 that is free. The result depends only on its inputs.
func Unique(base string, taken []string) string {
	used := make(map[string]struct{}, len(taken))
	for _, t := range taken {
		used[t] = struct{}{}
	}
	if _, ok := used[base]; !ok {
		return base
	}
	for n := 2; ; n++ {
		candidate := base + Separator + strconv.Itoa(n)
		if _, ok := used[candidate]; !ok {
			return candidate
		}
	}
}

// HasBase reports whether s equals base or is base followed by a numeric
// disambiguation suffix ("news", "news-2", "news-17").
func HasBase(s, base string) bool {
	if s == base {
		return true
	}
	rest, ok := strings.CutPrefix(s, base+Separator)
	if !ok || rest == "" {
		return false
	}
	_, err := strconv.Atoi(rest)
	return err == nil && !strings.HasPrefix(rest, "+") && !strings.HasPrefix(rest, "-")
}
