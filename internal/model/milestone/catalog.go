package milestone

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/talx-hub/eisc-ledger/internal/model"
)

//go:embed milestones.toml
var defaultCatalog string

type Definition struct {
	Key     string `toml:"key"`
	Label   string `toml:"label"`
	Credits int64  `toml:"credits"`
}

type catalogFile struct {
	Milestones []Definition `toml:"milestone"`
}

// Catalog is the ordered set of milestone definitions an account can complete.
type Catalog struct {
	defs  []Definition
	index map[string]int
}

func DefaultCatalog() *Catalog {
	c, err := LoadCatalog(strings.NewReader(defaultCatalog))
	if err != nil {
		panic(fmt.Sprintf("embedded milestone catalog is invalid: %v", err))
	}
	return c
}

func LoadCatalogFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open milestone catalog %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	return LoadCatalog(f)
}

func LoadCatalog(r io.Reader) (*Catalog, error) {
	var file catalogFile
	if _, err := toml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode milestone catalog: %w", err)
	}
	if len(file.Milestones) == 0 {
		return nil, errors.New("milestone catalog is empty")
	}

	c := &Catalog{
		defs:  make([]Definition, 0, len(file.Milestones)),
		index: make(map[string]int, len(file.Milestones)),
	}
	for _, d := range file.Milestones {
		if d.Key == "" {
			return nil, errors.New("milestone key must be not empty")
		}
		if d.Credits <= 0 {
			return nil, fmt.Errorf("milestone %s: credits must be positive", d.Key)
		}
		if _, dup := c.index[d.Key]; dup {
			return nil, fmt.Errorf("milestone %s defined twice", d.Key)
		}
		c.index[d.Key] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

func (c *Catalog) Get(key string) (Definition, bool) {
	i, ok := c.index[key]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.defs))
	for i, d := range c.defs {
		keys[i] = d.Key
	}
	return keys
}

// Merge builds the milestone state of an account: every catalog entry, with the
// completion flags taken from stored. Stored keys unknown to the catalog are kept.
func (c *Catalog) Merge(stored []Milestone) map[string]Milestone {
	res := make(map[string]Milestone, len(c.defs))
	for _, d := range c.defs {
		res[d.Key] = Milestone{
			Key:     d.Key,
			Label:   d.Label,
			Credits: model.Credits(d.Credits),
		}
	}
	for _, s := range stored {
		m, ok := res[s.Key]
		if !ok {
			res[s.Key] = s
			continue
		}
		m.Completed = s.Completed
		m.CompletedAt = s.CompletedAt
		res[s.Key] = m
	}
	return res
}
