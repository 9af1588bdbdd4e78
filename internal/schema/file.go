package schema

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/ubuntu/decorate"
)

// tableFile is the TOML representation of a classification table override.
type tableFile struct {
	Numeric       []string `toml:"numeric"`
	Boolean       []string `toml:"boolean"`
	StringKeep    []string `toml:"string_keep"`
	ArrayOfString []string `toml:"array_of_string"`
	Structural    []string `toml:"structural"`
}

// Load reads a classification table from a TOML file, replacing the default sets.
// A field may appear in at most one class.
func Load(path string) (t Table, err error) {
	defer decorate.OnError(&err, "could not load classification table from %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return Table{}, err
	}

	var f tableFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return Table{}, fmt.Errorf("invalid TOML: %v", err)
	}

	return newTable(f.Numeric, f.Boolean, f.StringKeep, f.ArrayOfString, f.Structural)
}
