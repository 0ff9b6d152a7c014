// Package catalog serves the read-only list of documents links can be issued
// for, and the team members documents can be shared with.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"secure.links/internal/models"
)

//go:embed documents.yaml
var defaultDocuments []byte

var (
	ErrNotFound       = errors.New("document not found")
	ErrMemberNotFound = errors.New("team member not found")
)

type Catalog struct {
	docs []models.Document
	byID map[string]int

	members  []models.TeamMember
	memberID map[string]int
}

type file struct {
	Documents []models.Document   `yaml:"documents"`
	Members   []models.TeamMember `yaml:"members"`
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultDocuments)
}

// Load reads a catalog from path, or the bundled one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		docs: make([]models.Document, 0, len(f.Documents)),
		byID: make(map[string]int, len(f.Documents)),
	}
	for _, doc := range f.Documents {
		if doc.ID == "" || doc.Name == "" {
			return nil, fmt.Errorf("parsing catalog: document requires id and name")
		}
		if _, dup := c.byID[doc.ID]; dup {
			return nil, fmt.Errorf("parsing catalog: duplicate document id %q", doc.ID)
		}
		c.byID[doc.ID] = len(c.docs)
		c.docs = append(c.docs, doc)
	}

	c.members = make([]models.TeamMember, 0, len(f.Members))
	c.memberID = make(map[string]int, len(f.Members))
	for _, m := range f.Members {
		if m.ID == "" || m.Name == "" || m.Email == "" {
			return nil, fmt.Errorf("parsing catalog: member requires id, name and email")
		}
		if _, dup := c.memberID[m.ID]; dup {
			return nil, fmt.Errorf("parsing catalog: duplicate member id %q", m.ID)
		}
		c.memberID[m.ID] = len(c.members)
		c.members = append(c.members, m)
	}
	return c, nil
}

// List returns the documents in catalog order.
func (c *Catalog) List() []models.Document {
	out := make([]models.Document, len(c.docs))
	copy(out, c.docs)
	return out
}

func (c *Catalog) Get(id string) (models.Document, error) {
	i, ok := c.byID[id]
	if !ok {
		return models.Document{}, ErrNotFound
	}
	return c.docs[i], nil
}

func (c *Catalog) Members() []models.TeamMember {
	out := make([]models.TeamMember, len(c.members))
	copy(out, c.members)
	return out
}

func (c *Catalog) Member(id string) (models.TeamMember, error) {
	i, ok := c.memberID[id]
	if !ok {
		return models.TeamMember{}, ErrMemberNotFound
	}
	return c.members[i], nil
}
