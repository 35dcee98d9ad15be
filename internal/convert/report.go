// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/feedbook/pkg/types"
)

// Report is the YAML document written next to the book when a report path
// is configured. It records every item's outcome and reason so nothing is
// dropped without a recorded cause.
type Report struct {
	Generated time.Time          `yaml:"generated"`
	Output    string             `yaml:"output"`
	Built     int                `yaml:"built"`
	Skipped   int                `yaml:"skipped"`
	Items     []types.ItemStatus `yaml:"items"`
}

// WriteReport serializes the run outcome to reportPath.
func WriteReport(reportPath string, result BatchResult) error {
	report := Report{
		Generated: time.Now().UTC(),
		Output:    result.OutputPath,
		Built:     result.Built,
		Skipped:   result.Skipped,
		Items:     result.Statuses,
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(reportPath, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// ReadReport loads a previously written run report.
func ReadReport(reportPath string) (Report, error) {
	var report Report
	data, err := os.ReadFile(reportPath)
	if err != nil {
		return report, fmt.Errorf("read report: %w", err)
	}
	if err := yaml.Unmarshal(data, &report); err != nil {
		return report, fmt.Errorf("parse report: %w", err)
	}
	return report, nil
}
