// Package location manages warehouse zone configuration and the
// storage location options derived from it.
package location

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

const (
	maxRows    = 20
	maxColumns = 10
)

var (
	ErrDuplicateZone = errors.New("zone code already exists")
	ErrUnknownZone   = errors.New("unknown zone code")
)

// Zone is one warehouse zone: a lettered area divided into a grid of
// rows and columns.
type Zone struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Rows    int    `json:"rows"`
	Columns int    `json:"columns"`
}

// Validate checks the zone against the grid limits: a single uppercase
// letter code, 1-20 rows and 1-10 columns.
func (z Zone) Validate() error {
	if len(z.Code) != 1 || z.Code[0] < 'A' || z.Code[0] > 'Z' {
		return fmt.Errorf("zone code must be a single letter A-Z, got %q", z.Code)
	}
	if z.Name == "" {
		return fmt.Errorf("zone name is required")
	}
	if z.Rows < 1 || z.Rows > maxRows {
		return fmt.Errorf("rows must be between 1 and %d, got %d", maxRows, z.Rows)
	}
	if z.Columns < 1 || z.Columns > maxColumns {
		return fmt.Errorf("columns must be between 1 and %d, got %d", maxColumns, z.Columns)
	}
	return nil
}

// Options returns every storage location in the zone, row-major, as
// "{code}-{row}-{column}" with zero-padded two-digit coordinates.
func (z Zone) Options() []string {
	opts := make([]string, 0, z.Rows*z.Columns)
	for r := 1; r <= z.Rows; r++ {
		for c := 1; c <= z.Columns; c++ {
			opts = append(opts, fmt.Sprintf("%s-%02d-%02d", z.Code, r, c))
		}
	}
	return opts
}

// Config is the full zone layout, keyed by zone code.
type Config struct {
	Zones map[string]Zone `json:"zones"`
}

// NewConfig returns an empty layout.
func NewConfig() *Config {
	return &Config{Zones: make(map[string]Zone)}
}

// Add registers a new zone. Reusing an existing code is rejected so a
// zone cannot be silently resized from the add form.
func (c *Config) Add(z Zone) error {
	if err := z.Validate(); err != nil {
		return err
	}
	if _, ok := c.Zones[z.Code]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateZone, z.Code)
	}
	c.Zones[z.Code] = z
	return nil
}

// Remove deletes a zone by code.
func (c *Config) Remove(code string) error {
	if _, ok := c.Zones[code]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownZone, code)
	}
	delete(c.Zones, code)
	return nil
}

// List returns the zones ordered by code.
func (c *Config) List() []Zone {
	zones := make([]Zone, 0, len(c.Zones))
	for _, z := range c.Zones {
		zones = append(zones, z)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Code < zones[j].Code })
	return zones
}

// AllOptions returns every storage location across all zones, ordered
// by zone code then row then column. These populate the inbound form's
// location selector.
func (c *Config) AllOptions() []string {
	var opts []string
	for _, z := range c.List() {
		opts = append(opts, z.Options()...)
	}
	return opts
}

// Store persists the zone layout as a whole.
type Store interface {
	Load(ctx context.Context) (*Config, error)
	Save(ctx context.Context, cfg *Config) error
}
