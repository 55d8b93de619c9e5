package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xavierca1/prospect-intake/internal/entity"
)

//go:embed services.yaml
var defaultServices []byte

type file struct {
	Services []entity.Service `yaml:"services"`
}

// Catalog is the immutable list of services offered on the questionnaire.
type Catalog struct {
	services []entity.Service
	byID     map[string]struct{}
}

// Default returns the catalog embedded in the binary.
func Default() *Catalog {
	c, err := Parse(defaultServices)
	if err != nil {
		panic(fmt.Sprintf("embedded service catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, falling back to the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read service catalog: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse service catalog: %w", err)
	}
	if len(f.Services) == 0 {
		return nil, errors.New("service catalog is empty")
	}

	c := &Catalog{byID: make(map[string]struct{}, len(f.Services))}
	for _, s := range f.Services {
		s.ID = strings.TrimSpace(s.ID)
		if s.ID == "" {
			return nil, errors.New("service catalog entry without id")
		}
		if _, dup := c.byID[s.ID]; dup {
			return nil, fmt.Errorf("duplicate service id %q", s.ID)
		}
		if s.Name == "" {
			s.Name = s.ID
		}
		c.byID[s.ID] = struct{}{}
		c.services = append(c.services, s)
	}
	return c, nil
}

// FromServices builds a catalog from an already decoded list, e.g. the response of
// GET /services on the client side.
func FromServices(services []entity.Service) *Catalog {
	c := &Catalog{byID: make(map[string]struct{}, len(services))}
	for _, s := range services {
		if _, dup := c.byID[s.ID]; dup {
			continue
		}
		c.byID[s.ID] = struct{}{}
		c.services = append(c.services, s)
	}
	return c
}

func (c *Catalog) Services() []entity.Service {
	out := make([]entity.Service, len(c.services))
	copy(out, c.services)
	return out
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}
