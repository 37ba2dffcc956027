package cli

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/dealflow/internal/domain"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
	outputYAML  outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(s); f {
	case outputTable, outputJSON, outputYAML:
		return f, nil
	case "":
		return outputTable, nil
	}
	return "", fmt.Errorf("invalid --output %q: want table, json or yaml", s)
}

// render prints v in the selected format. table is only called for the
// table format.
func render(cmd *cobra.Command, app *App, v any, table func() string) error {
	out := cmd.OutOrStdout()
	switch app.output {
	case outputJSON:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(yamlValue(v)); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprint(out, table())
		return err
	}
}

// dealRecord is a deal as written to YAML. The decimal check size has no
// YAML form of its own, so it travels as a string.
type dealRecord struct {
	domain.Deal `yaml:",inline"`
	CheckSize   string `yaml:"check_size,omitempty"`
}

func newDealRecord(d domain.Deal) dealRecord {
	r := dealRecord{Deal: d}
	if d.CheckSize.Valid {
		r.CheckSize = d.CheckSize.Decimal.String()
	}
	return r
}

func yamlValue(v any) any {
	switch t := v.(type) {
	case domain.Deal:
		return newDealRecord(t)
	case *domain.Deal:
		if t == nil {
			return nil
		}
		return newDealRecord(*t)
	case []domain.Deal:
		out := make([]dealRecord, 0, len(t))
		for _, d := range t {
			out = append(out, newDealRecord(d))
		}
		return out
	}
	return v
}
