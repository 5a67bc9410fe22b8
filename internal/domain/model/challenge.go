package model

import (
	"encoding/json"
	"slices"

	"github.com/gosimple/slug"
)

type Challenge struct {
	ID               string          `json:"id" validate:"required"`
	Title            string          `json:"title" validate:"required"`
	Description      string          `json:"description"`
	Difficulty       int             `json:"difficulty" validate:"min=1,max=5"`
	Category         string          `json:"category"`
	Language         string          `json:"language"`
	XPReward         int             `json:"xpReward" validate:"min=0"`
	EstimatedTime    int             `json:"estimatedTime" validate:"min=0"`
	Objectives       []string        `json:"objectives,omitempty"`
	Hints            string          `json:"hints,omitempty"`
	StarterCode      string          `json:"starterCode,omitempty"`
	ExpectedSolution []string        `json:"expectedSolution"`
	ExpectedOutput   string          `json:"expectedOutput,omitempty"`
	Progress         *int            `json:"progress,omitempty" validate:"omitempty,min=0,max=100"`
	SimulationData   json.RawMessage `json:"simulationData,omitempty"`
}

// Slug is the URL-friendly form of the title.
func (c *Challenge) Slug() string {
	return slug.Make(c.Title)
}

func (c Challenge) Clone() Challenge {
	c.Objectives = slices.Clone(c.Objectives)
	c.ExpectedSolution = slices.Clone(c.ExpectedSolution)
	c.SimulationData = slices.Clone(c.SimulationData)
	if c.Progress != nil {
		p := *c.Progress
		c.Progress = &p
	}
	return c
}

// GradeResult is the outcome of one submission.
type GradeResult struct {
	Passed    bool   `json:"passed"`
	Output    string `json:"output"`
	Rewarded  bool   `json:"rewarded"`
	XPAwarded int    `json:"xpAwarded"`
	User      *User  `json:"user,omitempty"`
}
