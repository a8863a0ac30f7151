package teams

import (
	"strings"
)

// MatchMode controls how an Alias is compared against a display name.
type MatchMode string

const (
	MatchExact    MatchMode = "exact"
	MatchContains MatchMode = "contains"
)

// Alias maps a raw display-name variant to a canonical team key.
// Comparison is case-insensitive.
type Alias struct {
	Name  string    `mapstructure:"name"`
	Key   string    `mapstructure:"key"`
	Match MatchMode `mapstructure:"match"`
}

func (a Alias) matches(name string) bool {
	switch a.Match {
	case MatchContains:
		return strings.Contains(strings.ToLower(name), strings.ToLower(a.Name))
	default:
		return strings.EqualFold(name, a.Name)
	}
}

// DefaultAliases cover names whose spelling differs structurally between the
// odds feed, the prediction feed and the results feed. Order matters: the
// first matching entry wins.
var DefaultAliases = []Alias{
	{Name: "Central Florida", Key: "ucf", Match: MatchContains},
	{Name: "UCF", Key: "ucf", Match: MatchContains},
	{Name: "Texas-San Antonio", Key: "utsa", Match: MatchContains},
	{Name: "UTSA", Key: "utsa", Match: MatchContains},
	{Name: "Troy", Key: "troy", Match: MatchContains},
	{Name: "Connecticut", Key: "uconn", Match: MatchContains},
	{Name: "Kent", Key: "kent_st", Match: MatchExact},
	{Name: "Southern Miss", Key: "southern_mississippi", Match: MatchExact},
	{Name: "Mississippi", Key: "ole_miss", Match: MatchExact},
	{Name: "FAU", Key: "florida_atlantic", Match: MatchContains},
	{Name: "FIU", Key: "florida_international", Match: MatchContains},
	{Name: "Florida Intl", Key: "florida_international", Match: MatchContains},
	{Name: "Miami (OH)", Key: "miami_oh", Match: MatchContains},
	{Name: "Miami (Ohio)", Key: "miami_oh", Match: MatchContains},
	{Name: "Miami OH", Key: "miami_oh", Match: MatchExact},
	{Name: "Miami (FL)", Key: "miami", Match: MatchContains},
}

// twoWordMarkers are second tokens that mean the school name spans two words
// (Wake Forest, North Texas, Air Force, Florida Atlantic, Georgia Southern, ...).
var twoWordMarkers = map[string]bool{
	"dame":          true,
	"aandm":         true,
	"forest":        true,
	"texas":         true,
	"force":         true,
	"mexico":        true,
	"kentucky":      true,
	"virginia":      true,
	"michigan":      true,
	"illinois":      true,
	"tech":          true,
	"carolina":      true,
	"mississippi":   true,
	"monroe":        true,
	"miss":          true,
	"southern":      true,
	"atlantic":      true,
	"international": true,
}

// abbreviations expand shortened second tokens used by some prediction sources.
var abbreviations = map[string]string{
	"ill":  "illinois",
	"mich": "michigan",
	"va":   "virginia",
}

// Resolver derives team keys from display names. It is immutable after
// construction and safe for concurrent use.
type Resolver struct {
	aliases []Alias
}

// NewResolver builds a resolver whose alias table is overrides followed by
// DefaultAliases, so overrides take precedence.
func NewResolver(overrides ...Alias) *Resolver {
	aliases := make([]Alias, 0, len(overrides)+len(DefaultAliases))
	aliases = append(aliases, overrides...)
	aliases = append(aliases, DefaultAliases...)
	return &Resolver{aliases: aliases}
}

// Aliases returns a copy of the resolver's alias table in match order.
func (r *Resolver) Aliases() []Alias {
	out := make([]Alias, len(r.aliases))
	copy(out, r.aliases)
	return out
}

// Key returns the canonical key for a team display name.
// "Ohio State Buckeyes" → "ohio_st", "San Diego State Aztecs" → "san_diego_st",
// "Iowa Hawkeyes" → "iowa".
func (r *Resolver) Key(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, a := range r.aliases {
		if a.matches(trimmed) {
			return a.Key
		}
	}
	return fallbackKey(Normalize(trimmed))
}

// PairKey joins two team keys into a matchup key: "{home}_{away}".
func (r *Resolver) PairKey(home, away string) string {
	return r.Key(home) + "_" + r.Key(away)
}

// Normalize lowercases a name, strips periods and rewrites it into
// underscore-separated tokens: "Texas A&M" → "texas_aandm".
func Normalize(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, "state", "st")
	s = strings.ReplaceAll(s, "&", "and")
	return strings.Join(strings.Fields(s), "_")
}

func fallbackKey(normalized string) string {
	parts := strings.Split(normalized, "_")
	if len(parts) < 2 {
		return normalized
	}

	// "st" may follow a multi-word prefix: san_diego_st
	for i, p := range parts {
		if p == "st" {
			return strings.Join(parts[:i+1], "_")
		}
	}

	if full, ok := abbreviations[parts[1]]; ok {
		return parts[0] + "_" + full
	}
	if twoWordMarkers[parts[1]] {
		return parts[0] + "_" + parts[1]
	}
	return parts[0]
}
