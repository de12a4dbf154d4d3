// Package catalog holds the predefined job-description templates offered by the CLI.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed jobs.yaml
var defaultJobs []byte

// ErrUnknownRole is returned by Find when no template matches.
var ErrUnknownRole = errors.New("unknown role")

// Job is one template.
type Job struct {
	Category    string   `yaml:"category" json:"category"`
	Role        string   `yaml:"role" json:"role"`
	Description string   `yaml:"description" json:"description"`
	Skills      []string `yaml:"skills" json:"skills"`
}

// Catalog is an immutable list of templates.
type Catalog struct {
	jobs []Job
}

// Default returns the built-in catalogue.
func Default() (*Catalog, error) {
	return Parse(defaultJobs)
}

// Load reads a catalogue from a YAML file.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML list of jobs. Every entry needs a category and a role,
// and roles must be unique.
func Parse(data []byte) (*Catalog, error) {
	var jobs []Job
	if err := yaml.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[string]struct{}, len(jobs))
	for i, job := range jobs {
		if strings.TrimSpace(job.Category) == "" || strings.TrimSpace(job.Role) == "" {
			return nil, fmt.Errorf("parse catalog: entry %d needs category and role", i)
		}
		key := normalizeRole(job.Role)
		if _, dup := seen[key]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate role %q", job.Role)
		}
		seen[key] = struct{}{}
	}
	return &Catalog{jobs: jobs}, nil
}

// Jobs returns every template in file order.
func (c *Catalog) Jobs() []Job {
	return append([]Job(nil), c.jobs...)
}

// Categories returns the distinct categories, sorted.
func (c *Catalog) Categories() []string {
	set := map[string]struct{}{}
	for _, job := range c.jobs {
		set[job.Category] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for category := range set {
		out = append(out, category)
	}
	sort.Strings(out)
	return out
}

// RolesIn returns the roles of one category, sorted.
func (c *Catalog) RolesIn(category string) []string {
	var out []string
	for _, job := range c.jobs {
		if job.Category == category {
			out = append(out, job.Role)
		}
	}
	sort.Strings(out)
	return out
}

// Find looks up a role by name. Matching ignores case, and underscores count as spaces.
func (c *Catalog) Find(role string) (Job, error) {
	want := normalizeRole(role)
	for _, job := range c.jobs {
		if normalizeRole(job.Role) == want {
			return job, nil
		}
	}
	return Job{}, fmt.Errorf("%w: %q", ErrUnknownRole, role)
}

// Render formats the template as a job description.
func (j Job) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Role:** %s\n\n", j.Role)
	fmt.Fprintf(&b, "**Description:** %s\n\n", j.Description)
	b.WriteString("**Key Skills:**\n- ")
	b.WriteString(strings.Join(j.Skills, "\n- "))
	return b.String()
}

func normalizeRole(role string) string {
	role = strings.ReplaceAll(role, "_", " ")
	return strings.ToLower(strings.Join(strings.Fields(role), " "))
}
