// Package report persists the outcome of a run as YAML.
package report

import (
	"os"
	"time"

	"github.com/WIZARDISHUNGRY/uno-await/internal/card"
	"github.com/WIZARDISHUNGRY/uno-await/internal/sequence"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const Version = "1"

type Report struct {
	Version   string             `yaml:"version"`
	Generated time.Time          `yaml:"generated"`
	Dir       string             `yaml:"dir"`
	Verdict   string             `yaml:"verdict"`
	Cards     []card.Observation `yaml:"cards"`
	Skipped   []sequence.Skipped `yaml:"skipped,omitempty"`
	Reshoots  []string           `yaml:"reshoots,omitempty"`
	Failure   *sequence.Mismatch `yaml:"failure,omitempty"`
}

func FromResult(dir string, res *sequence.Result, now time.Time) *Report {
	return &Report{
		Version:   Version,
		Generated: now.UTC(),
		Dir:       dir,
		Verdict:   res.State,
		Cards:     res.Observations,
		Skipped:   res.Skipped,
		Reshoots:  res.Reshoots,
		Failure:   res.Failure,
	}
}

// Write writes a report to a YAML file
func Write(r *Report, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return errors.Wrap(err, "yaml.Marshal")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "os.WriteFile")
}

// Read reads a report from a YAML file
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "os.ReadFile")
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "yaml.Unmarshal")
	}
	return &r, nil
}
