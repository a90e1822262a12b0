package checkpoint

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedEntry is one switch in the seed file:
//
//	switches:
//	  - name: kitchen
//	    ip_address: 192.168.1.10
//	  - name: garage
//	    ip_address: 192.168.1.11
//	    active: false
type SeedEntry struct {
	Name    string `yaml:"name"`
	Address string `yaml:"ip_address"`
	Active  *bool  `yaml:"active"`
}

type seedFile struct {
	Switches []SeedEntry `yaml:"switches"`
}

func (e SeedEntry) toCmd() CreateCheckpointCmd {
	active := true
	if e.Active != nil {
		active = *e.Active
	}
	return CreateCheckpointCmd{Name: e.Name, Address: e.Address, Active: active}
}

func LoadSeedFile(path string) ([]SeedEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(f.Switches))
	for i := range f.Switches {
		e := &f.Switches[i]
		e.Name = strings.TrimSpace(e.Name)
		e.Address = strings.TrimSpace(e.Address)
		if e.Name == "" || e.Address == "" {
			return nil, fmt.Errorf("seed entry %d: name and ip_address are required", i)
		}
		if _, dup := seen[e.Name]; dup {
			return nil, fmt.Errorf("seed entry %d: duplicate name %q", i, e.Name)
		}
		seen[e.Name] = struct{}{}
	}

	return f.Switches, nil
}
