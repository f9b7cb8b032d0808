package file

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/felt-labs/tellscan-cli/internal/core/domain"
)

// catalogueFile is the HCL schema for the trait/archetype catalogue:
//
//	trait "aggression" {
//	  description = "tendency to bet and raise rather than check and call"
//	}
//
//	archetype "rock" {
//	  description = "extremely tight player who only plays premium hands"
//	}
type catalogueFile struct {
	Traits     []traitBlock     `hcl:"trait,block"`
	Archetypes []archetypeBlock `hcl:"archetype,block"`
}

type traitBlock struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description"`
}

type archetypeBlock struct {
	Name        string `hcl:"name,label"`
	Description string `hcl:"description"`
}

// LoadCatalogue reads a trait/archetype catalogue from an HCL file.
// A missing file yields the built-in defaults. A malformed or invalid
// catalogue is a configuration error: fatal, never retried.
func LoadCatalogue(path string) (domain.Catalogue, error) {
	if path == "" {
		return domain.DefaultCatalogue(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return domain.DefaultCatalogue(), nil
	}

	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return domain.Catalogue{}, fmt.Errorf("parsing catalogue %s: %s", path, diags.Error())
	}

	var parsed catalogueFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return domain.Catalogue{}, fmt.Errorf("decoding catalogue %s: %s", path, diags.Error())
	}

	catalogue := domain.Catalogue{
		Traits:     make([]domain.TraitQuery, 0, len(parsed.Traits)),
		Archetypes: make([]domain.ArchetypeProfile, 0, len(parsed.Archetypes)),
	}
	for _, t := range parsed.Traits {
		catalogue.Traits = append(catalogue.Traits, domain.TraitQuery{Name: t.Name, Description: t.Description})
	}
	for _, a := range parsed.Archetypes {
		catalogue.Archetypes = append(catalogue.Archetypes, domain.ArchetypeProfile{Name: a.Name, Description: a.Description})
	}

	if err := catalogue.Validate(); err != nil {
		return domain.Catalogue{}, fmt.Errorf("catalogue %s: %w", path, err)
	}
	return catalogue, nil
}
