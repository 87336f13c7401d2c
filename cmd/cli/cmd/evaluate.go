// Package cmd - evaluate command
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rf-compliance/adapters/specfile"
	"rf-compliance/adapters/storage/sqlite"
	"rf-compliance/adapters/touchstone"
	"rf-compliance/core/compliance"
	"rf-compliance/core/criteria"
	"rf-compliance/core/measurement"
	"rf-compliance/core/report"
	"rf-compliance/core/stage"
	"rf-compliance/internal/config"
	"rf-compliance/internal/logging"
)

var (
	evalStage  string
	evalFormat string
	evalStore  bool
	evalDBPath string
)

// evaluateCmd represents the evaluate command
var evaluateCmd = &cobra.Command{
	Use:   "evaluate <touchstone-file> <definition-file>",
	Short: "Evaluate a measurement against a device's criteria",
	Long: `Load a Touchstone measurement and a device definition file, compute
the relevant metrics and report pass/fail per criterion.

Measurement metadata (serial number, path, temperature) is parsed from the
Touchstone filename when it follows the standard naming convention.

Examples:
  rf-compliance evaluate 20250930_S-Par-SIT_Run1_L109908_SN0001_PRI.s4p lna.rfspec.hcl
  rf-compliance evaluate --stage Test-Campaign --format json run1.s2p filter.rfspec.hcl
  rf-compliance evaluate --store run1.s4p lna.rfspec.hcl`,
	Args: cobra.ExactArgs(2),
	RunE: runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVarP(&evalStage, "stage", "s", "", "test stage (default from config)")
	evaluateCmd.Flags().StringVarP(&evalFormat, "format", "f", "", "output format (table, json)")
	evaluateCmd.Flags().BoolVar(&evalStore, "store", false, "persist results to the results database")
	evaluateCmd.Flags().StringVar(&evalDBPath, "db", "", "results database path (default from config)")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	touchstonePath, specPath := args[0], args[1]

	testStage := evalStage
	if testStage == "" {
		testStage = cfg.Evaluation.DefaultStage
	}
	if !stage.IsValid(testStage) {
		return fmt.Errorf("unknown test stage %q (see 'rf-compliance stages')", testStage)
	}

	format := evalFormat
	if format == "" {
		format = cfg.Output.DefaultFormat
	}

	spec, err := specfile.Load(specPath)
	if err != nil {
		return fmt.Errorf("failed to load definition file: %w", err)
	}

	network, err := touchstone.Load(touchstonePath)
	if err != nil {
		return fmt.Errorf("failed to load measurement: %w", err)
	}

	// Measurement identity comes from the filename when it follows the
	// naming convention; otherwise the run gets a fresh anonymous id.
	measurementID := uuid.New()
	if meta, err := measurement.ParseFilename(touchstonePath); err == nil {
		m := meta.ToMeasurement(testStage)
		m.DeviceID = spec.Device.ID
		m.EnsureID()
		measurementID = m.ID
		logging.Info("parsed measurement metadata")
		fmt.Printf("Measurement: %s  %s  %s/%s\n",
			meta.SerialNumber, meta.Date.Format("2006-01-02"), meta.PathType, meta.Temperature)
	}

	crits := filterCriteria(spec.Criteria, testStage)
	if len(crits) == 0 {
		fmt.Printf("No criteria defined for stage %s.\n", testStage)
		return nil
	}

	evaluator := compliance.NewEvaluator(logging.Logger)
	results := evaluator.Evaluate(measurementID, network, spec.Device.Ports, crits,
		spec.Device.OperationalFreqMinGHz, spec.Device.OperationalFreqMaxGHz)

	rep := report.Build(measurementID, results, crits)

	if evalStore {
		if err := storeResults(cmd.Context(), spec, crits, results); err != nil {
			return err
		}
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		printReport(rep, spec.Device.Name, testStage)
		return nil
	}
}

// filterCriteria keeps the criteria that apply to the selected stage.
func filterCriteria(crits []*criteria.Criterion, testStage string) []*criteria.Criterion {
	var kept []*criteria.Criterion
	for _, c := range crits {
		if c.TestStage == testStage {
			kept = append(kept, c)
		}
	}
	return kept
}

func storeResults(ctx context.Context, spec *specfile.Spec, crits []*criteria.Criterion, results []compliance.Result) error {
	if ctx == nil {
		ctx = context.Background()
	}
	dbPath := evalDBPath
	if dbPath == "" {
		dbPath = config.Get().Storage.DatabasePath
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	store, err := sqlite.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.SaveDevice(ctx, spec.Device); err != nil {
		return err
	}
	for _, c := range crits {
		if err := store.SaveCriterion(ctx, c); err != nil {
			return err
		}
	}
	if err := store.SaveResults(ctx, results); err != nil {
		return err
	}

	fmt.Printf("Stored %d results in %s\n", len(results), dbPath)
	return nil
}

func printReport(rep *report.Report, deviceName, testStage string) {
	fmt.Printf("Device: %s   Stage: %s\n", deviceName, stage.DisplayName(testStage))
	fmt.Printf("Measurement: %s\n\n", rep.MeasurementID)

	for _, cs := range rep.Criteria {
		status := "PASS"
		if !cs.Passed {
			status = "FAIL"
		}
		fmt.Printf("%s (%s) [%s]\n", cs.Name, cs.Family, status)
		for _, e := range cs.Entries {
			mark := "pass"
			if !e.Passed {
				mark = "FAIL"
			}
			value := e.MeasuredValue
			if value == "" {
				value = "-"
			}
			if e.Margin != "" {
				fmt.Printf("  %-6s %10s %-4s  margin %s %s\n", e.SParameter, value, mark, e.Margin, cs.Unit)
			} else {
				fmt.Printf("  %-6s %10s %-4s\n", e.SParameter, value, mark)
			}
		}
		fmt.Println()
	}

	overall := "PASS"
	if !rep.OverallPassed {
		overall = "FAIL"
	}
	fmt.Printf("Overall: %s (%d passed, %d failed of %d results)\n",
		overall, rep.PassedCount, rep.FailedCount, rep.TotalResults)
}
