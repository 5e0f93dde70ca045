// Package project provides JSON save/load of cutting projects: the problem
// instance, the solver parameters, and optionally the computed solution.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/dmarins/stripcut/internal/grasp"
	"github.com/dmarins/stripcut/internal/model"
)

// Project ties everything together for save/load.
type Project struct {
	Name     string          `json:"name"`
	Instance model.Instance  `json:"instance"`
	Params   grasp.Params    `json:"params"`
	Solution *model.Solution `json:"solution,omitempty"`
}

// New returns an empty project with default solver parameters.
func New() Project {
	return Project{
		Name:   "Untitled",
		Params: grasp.DefaultParams(),
	}
}

// Save writes the project to the specified JSON file. It creates parent
// directories if they do not exist.
func Save(path string, p Project) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads a project from the specified JSON file.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, err
	}
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return Project{}, err
	}
	return p, nil
}
