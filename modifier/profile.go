package modifier

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/syssam/forge/graph"
)

// Profile reads attribute values per type from a YAML file and returns
// the modifiers setting them:
//
//	Unit:
//	  hp: 10
//	  rank: private
//	Hero:
//	  name: Conan
//
// Every attribute must exist on its type.
func Profile(path string) ([]graph.Modifier, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("forge: opening profile: %w", err)
	}
	defer f.Close()
	mods, err := LoadProfile(f)
	if err != nil {
		return nil, fmt.Errorf("forge: profile %s: %w", path, err)
	}
	return mods, nil
}

// LoadProfile is like Profile but reads the YAML document from r.
func LoadProfile(r io.Reader) ([]graph.Modifier, error) {
	var doc map[string]Attrs
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	mods := make([]graph.Modifier, 0, len(doc))
	for _, name := range slices.Sorted(maps.Keys(doc)) {
		mods = append(mods, InstancesOf(name).CarefullySets(doc[name]))
	}
	return mods, nil
}
