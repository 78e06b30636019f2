package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/bindgen/binding"
	"github.com/teranos/bindgen/logger"
	"github.com/teranos/bindgen/model"
)

var statusUnbound bool

// StatusCmd reports binding progress per class
var StatusCmd = &cobra.Command{
	Use:   "status [spec files...]",
	Short: "Show binding progress for a platform",
	Long: `Count function bindings per class for the target platform: functions that
still need an address, bound functions, inlined functions, and functions
missing on every platform. Per-class rows are shown with -vv; otherwise
only the totals are printed.

Examples:
  bindgen status bindings.yaml --platform android
  bindgen status -vv                # per-class counts
  bindgen status --unbound          # list functions still needing an address
  bindgen status --json`,
	RunE: runStatus,
}

func init() {
	StatusCmd.Flags().StringP("platform", "p", "", "Target platform: mac-arm, mac-intel, win, ios, android")
	StatusCmd.Flags().BoolVar(&statusUnbound, "unbound", false, "List functions that still need a binding")
}

// statusRow is the JSON shape of one summary
type statusRow struct {
	Class        string   `json:"class"`
	NeedsBinding int      `json:"needs_binding"`
	Binded       int      `json:"binded"`
	Inlined      int      `json:"inlined"`
	Missing      int      `json:"missing"`
	Total        int      `json:"total"`
	Unbound      []string `json:"unbound,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	specs, err := specPaths(args, cfg)
	if err != nil {
		return err
	}
	target, err := cfg.TargetPlatform()
	if err != nil {
		return err
	}
	root, err := model.LoadAll(specs)
	if err != nil {
		return err
	}

	rows := statusRows(binding.Summarize(root, target), statusUnbound)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal status to JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	pterm.DefaultSection.Printfln("Binding status for %s", target.DisplayName())
	if err := pterm.DefaultTable.WithHasHeader().WithData(statusTable(rows, logger.ShouldOutput(cfg.Log.Verbosity, logger.OutputBindings))).Render(); err != nil {
		return err
	}
	if statusUnbound {
		for _, row := range rows {
			for _, fn := range row.Unbound {
				pterm.Printfln("  %s", qualify(row.Class, fn))
			}
		}
	}
	return nil
}

// statusRows converts summaries, skipping classes without functions
func statusRows(summaries []binding.Summary, withUnbound bool) []statusRow {
	var rows []statusRow
	for _, s := range summaries {
		if s.Total() == 0 {
			continue
		}
		row := statusRow{
			Class:        s.Class,
			NeedsBinding: s.Counts[binding.NeedsBinding],
			Binded:       s.Counts[binding.Binded],
			Inlined:      s.Counts[binding.Inlined],
			Missing:      s.Counts[binding.Missing],
			Total:        s.Total(),
		}
		if withUnbound {
			row.Unbound = s.Unbound
		}
		rows = append(rows, row)
	}
	return rows
}

// statusTable renders a totals line, preceded by one line per class when
// perClass is set.
func statusTable(rows []statusRow, perClass bool) pterm.TableData {
	data := pterm.TableData{{"Class", "Needs binding", "Binded", "Inlined", "Missing", "Total"}}
	var total statusRow
	for _, row := range rows {
		if perClass {
			name := row.Class
			if name == "" {
				name = "(globals)"
			}
			data = append(data, []string{
				name,
				strconv.Itoa(row.NeedsBinding),
				strconv.Itoa(row.Binded),
				strconv.Itoa(row.Inlined),
				strconv.Itoa(row.Missing),
				strconv.Itoa(row.Total),
			})
		}
		total.NeedsBinding += row.NeedsBinding
		total.Binded += row.Binded
		total.Inlined += row.Inlined
		total.Missing += row.Missing
		total.Total += row.Total
	}
	data = append(data, []string{
		"total",
		strconv.Itoa(total.NeedsBinding),
		strconv.Itoa(total.Binded),
		strconv.Itoa(total.Inlined),
		strconv.Itoa(total.Missing),
		strconv.Itoa(total.Total),
	})
	return data
}

func qualify(class, fn string) string {
	if class == "" {
		return fn
	}
	return class + "::" + fn
}
