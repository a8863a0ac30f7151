package teams

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadAliases reads alias overrides from a YAML, JSON or TOML file. The file
// holds a top-level "aliases" list:
//
//	aliases:
//	  - name: Miami (OH) RedHawks
//	    key: miami_oh
//	    match: exact
//
// Entries without a match mode default to exact.
func LoadAliases(path string) ([]Alias, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading alias file: %w", err)
	}

	var aliases []Alias
	if err := v.UnmarshalKey("aliases", &aliases); err != nil {
		return nil, fmt.Errorf("decoding aliases: %w", err)
	}

	for i, a := range aliases {
		if a.Name == "" || a.Key == "" {
			return nil, fmt.Errorf("alias %d: name and key are required", i)
		}
		switch a.Match {
		case "":
			aliases[i].Match = MatchExact
		case MatchExact, MatchContains:
		default:
			return nil, fmt.Errorf("alias %d (%s): unknown match mode %q", i, a.Name, a.Match)
		}
	}

	return aliases, nil
}

// LoadResolver builds a Resolver from an optional alias file. An empty path
// yields the default table.
func LoadResolver(path string) (*Resolver, error) {
	if path == "" {
		return NewResolver(), nil
	}
	aliases, err := LoadAliases(path)
	if err != nil {
		return nil, err
	}
	return NewResolver(aliases...), nil
}
