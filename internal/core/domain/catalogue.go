package domain

import "fmt"

// TraitQuery is a canned natural-language probe used to retrieve evidence for
// one behavioral trait. The catalogue is fixed at configuration time, never
// derived from data.
type TraitQuery struct {
	Name        string
	Description string
}

// ArchetypeProfile is a canned description of one named behavioral style,
// used as a classification reference.
type ArchetypeProfile struct {
	Name        string
	Description string
}

// Catalogue holds the full trait and archetype configuration. Slices keep a
// fixed order so retrieval and ranking stay reproducible.
type Catalogue struct {
	Traits     []TraitQuery
	Archetypes []ArchetypeProfile
}

// DefaultCatalogue returns the built-in trait queries and archetype profiles.
func DefaultCatalogue() Catalogue {
	return Catalogue{
		Traits: []TraitQuery{
			{Name: "aggression", Description: "tendency to bet and raise rather than check and call, aggressive betting with large amounts"},
			{Name: "bluff_tendency", Description: "willingness to represent hands they don't have, bluffing behavior, betting with weak hands"},
			{Name: "risk_tolerance", Description: "comfort with variance and willingness to gamble, taking risks with marginal hands"},
			{Name: "adaptability", Description: "how quickly they adjust to opponents' strategies, changing play style based on opponents"},
			{Name: "tilt_prone", Description: "tendency to play emotionally after setbacks, emotional reactions in chat"},
			{Name: "patience", Description: "willingness to wait for premium hands, tight play, folding frequently"},
		},
		Archetypes: []ArchetypeProfile{
			{Name: "tight_aggressive", Description: "Plays few hands but bets aggressively with strong holdings. Rarely bluffs but when they do, it's credible. Waits for good spots and capitalizes on them."},
			{Name: "loose_passive", Description: "Plays many hands but rarely raises, preferring to call. Chases draws frequently and hopes to hit big hands. Avoids confrontation."},
			{Name: "maniac", Description: "Extremely aggressive player who raises frequently and bluffs often. Creates chaos at the table and puts opponents to difficult decisions."},
			{Name: "rock", Description: "Extremely tight player who only plays premium hands. Very conservative and risk-averse. Rarely bluffs and folds to aggression."},
			{Name: "tricky", Description: "Unpredictable player who mixes up their play. Uses creative lines and unorthodox strategies to confuse opponents."},
			{Name: "calling_station", Description: "Calls excessively and rarely folds once invested in a hand. Chases draws to the river regardless of odds."},
		},
	}
}

// Validate checks the catalogue is well formed: at least one trait and one
// archetype, no empty names or descriptions, no duplicate names. A failure
// here is a configuration error and should abort startup.
func (c Catalogue) Validate() error {
	if len(c.Traits) == 0 {
		return fmt.Errorf("%w: catalogue has no traits", ErrInvalidInput)
	}
	if len(c.Archetypes) == 0 {
		return fmt.Errorf("%w: catalogue has no archetypes", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(c.Traits))
	for _, t := range c.Traits {
		if t.Name == "" || t.Description == "" {
			return fmt.Errorf("%w: trait with empty name or description", ErrInvalidInput)
		}
		if seen[t.Name] {
			return fmt.Errorf("%w: duplicate trait %q", ErrInvalidInput, t.Name)
		}
		seen[t.Name] = true
	}
	seen = make(map[string]bool, len(c.Archetypes))
	for _, a := range c.Archetypes {
		if a.Name == "" || a.Description == "" {
			return fmt.Errorf("%w: archetype with empty name or description", ErrInvalidInput)
		}
		if seen[a.Name] {
			return fmt.Errorf("%w: duplicate archetype %q", ErrInvalidInput, a.Name)
		}
		seen[a.Name] = true
	}
	return nil
}
