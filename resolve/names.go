package resolve

import (
	"fmt"
	"unicode"

	"github.com/demes-go/resolve/hdm"
	"github.com/demes-go/resolve/resolveerr"
)

// resolveDemeSkeleton implements stage R2: collects deme names in
// declaration order, enforces uniqueness and name syntax, and builds the
// name -> index map every later stage resolves ancestor/migration/pulse
// references through.
func resolveDemeSkeleton(g *hdm.Graph) (map[string]int, error) {
	index := make(map[string]int, len(g.Demes))
	for i, d := range g.Demes {
		if err := validateDemeName(d.Name); err != nil {
			return nil, resolveerr.Newf(resolveerr.NameError, err, "deme[%d]: invalid name %q", i, d.Name)
		}
		if _, exists := index[d.Name]; exists {
			return nil, resolveerr.Newf(resolveerr.NameError, nil, "duplicate deme name %q", d.Name)
		}
		index[d.Name] = i
	}
	return index, nil
}

// validateDemeName enforces: first character alphabetic or underscore,
// remaining characters alphanumeric or underscore.
func validateDemeName(name string) error {
	if name == "" {
		return fmt.Errorf("name must be non-empty")
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsLetter(r) && r != '_' {
				return fmt.Errorf("first character %q must be alphabetic or underscore", r)
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return fmt.Errorf("character %q must be alphanumeric or underscore", r)
		}
	}
	return nil
}
