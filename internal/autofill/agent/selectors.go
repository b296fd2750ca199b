package agent

// FieldSelectors are the CSS selectors tried, in order, for one field kind.
type FieldSelectors struct {
	Username []string
	Password []string
}

// SelectorConfig resolves the selectors to use for a host: a site-specific
// override when configured, the shared heuristics otherwise.
type SelectorConfig struct {
	// Sites maps a host to its hand-tuned selectors.
	Sites map[string]FieldSelectors

	// Heuristics is the fixed fallback list used for unconfigured sites.
	Heuristics FieldSelectors
}

// ForHost returns the selector tiers for a host: site-specific selectors
// first when present, then the heuristics, then the loose catch-all
// patterns.
func (c SelectorConfig) ForHost(host string) FieldSelectors {
	merged := FieldSelectors{}
	if site, ok := c.Sites[host]; ok {
		merged.Username = append(merged.Username, site.Username...)
		merged.Password = append(merged.Password, site.Password...)
	}
	merged.Username = append(merged.Username, c.Heuristics.Username...)
	merged.Password = append(merged.Password, c.Heuristics.Password...)
	merged.Username = append(merged.Username, looseUsernameSelectors...)
	merged.Password = append(merged.Password, loosePasswordSelectors...)
	return merged
}

// DefaultSelectorConfig returns the fixed heuristic selector list used when
// a site has no hand-tuned selectors.
func DefaultSelectorConfig() SelectorConfig {
	return SelectorConfig{
		Heuristics: FieldSelectors{
			Username: []string{
				`input[autocomplete="username"]`,
				`input[type="email"]`,
				`input[name="username"]`,
				`input[name="email"]`,
				`input[name="login"]`,
				`input[id="username"]`,
				`input[id="email"]`,
			},
			Password: []string{
				`input[autocomplete="current-password"]`,
				`input[type="password"]`,
			},
		},
	}
}

// Loose last-resort patterns: the first visible input that plausibly takes
// an identifier or a password.
var (
	looseUsernameSelectors = []string{
		`input[name*="user"]`,
		`input[name*="mail"]`,
		`input[type="text"]`,
	}
	loosePasswordSelectors = []string{
		`input[name*="pass"]`,
	}
)
