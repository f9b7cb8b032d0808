package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue_IsValid(t *testing.T) {
	catalogue := DefaultCatalogue()

	require.NoError(t, catalogue.Validate())
	assert.Len(t, catalogue.Traits, 6)
	assert.Len(t, catalogue.Archetypes, 6)
}

func TestCatalogue_Validate(t *testing.T) {
	valid := Catalogue{
		Traits:     []TraitQuery{{Name: "aggression", Description: "betting and raising"}},
		Archetypes: []ArchetypeProfile{{Name: "rock", Description: "tight and conservative"}},
	}

	tests := []struct {
		name    string
		mutate  func(*Catalogue)
		wantErr bool
	}{
		{"valid", func(*Catalogue) {}, false},
		{"no traits", func(c *Catalogue) { c.Traits = nil }, true},
		{"no archetypes", func(c *Catalogue) { c.Archetypes = nil }, true},
		{"empty trait name", func(c *Catalogue) { c.Traits[0].Name = "" }, true},
		{"empty trait description", func(c *Catalogue) { c.Traits[0].Description = "" }, true},
		{"duplicate trait", func(c *Catalogue) {
			c.Traits = append(c.Traits, c.Traits[0])
		}, true},
		{"duplicate archetype", func(c *Catalogue) {
			c.Archetypes = append(c.Archetypes, c.Archetypes[0])
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalogue := Catalogue{
				Traits:     append([]TraitQuery(nil), valid.Traits...),
				Archetypes: append([]ArchetypeProfile(nil), valid.Archetypes...),
			}
			tt.mutate(&catalogue)

			err := catalogue.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
