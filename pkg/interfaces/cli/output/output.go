package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/vsinha/plafosus/pkg/application/dto"
	"github.com/vsinha/plafosus/pkg/domain/entities"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
	// Writer receives text and JSON output when no output directory is set
	Writer io.Writer
}

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv"}

// Generate creates output in the specified format
func Generate(results []*dto.PartCreationResult, config Config) error {
	if config.Writer == nil {
		config.Writer = os.Stdout
	}

	switch config.Format {
	case "text":
		return generateTextOutput(results, config)
	case "json":
		return generateJSONOutput(results, config)
	case "csv":
		return generateCSVOutput(results, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates the human-readable ranking report
func generateTextOutput(results []*dto.PartCreationResult, config Config) error {
	if config.OutputDir == "" {
		return writeText(config.Writer, results)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "plafosus_results.txt")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create text file: %w", err)
	}
	defer file.Close()

	if err := writeText(file, results); err != nil {
		return err
	}
	if config.Verbose {
		fmt.Fprintf(config.Writer, "💾 Results saved to: %s\n", filename)
	}
	return nil
}

func writeText(w io.Writer, results []*dto.PartCreationResult) error {
	fmt.Fprintf(w, "📊 Solution Search Results\n")
	fmt.Fprintf(w, "==========================\n\n")

	for _, result := range results {
		part := result.Part
		fmt.Fprintf(w, "Part %s (%s)\n", part.ID, part.Name)
		fmt.Fprintf(w, "Evaluation: %s (price %d, time %d, co2 %d)\n",
			part.EvaluationMethod, part.PriceImportance, part.TimeImportance, part.CO2Importance)
		if part.Geometry != nil {
			fmt.Fprintf(w, "Geometry: watertight %t, volume %.0f, bounding box %g x %g x %g\n",
				part.Geometry.IsValid, part.Geometry.Volume,
				part.Geometry.BoundingBoxX, part.Geometry.BoundingBoxY, part.Geometry.BoundingBoxZ)
		}

		if result.Search != nil {
			for _, d := range result.Search.Discarded {
				fmt.Fprintf(w, "⚠️  Possibility %d discarded: no resource can perform step %s (%s)\n",
					d.Number, d.StepID, d.ProcessStepID)
			}
		}

		if result.SearchErr != nil {
			fmt.Fprintf(w, "❌ Search failed: %v\n", result.SearchErr)
		}
		if result.Search == nil || result.Search.Space == nil {
			fmt.Fprintln(w)
			continue
		}

		stats := result.Search.Stats
		fmt.Fprintf(w, "Permutations: %d  Solutions: %d  Search Time: %v\n\n",
			stats.Permutations, stats.Solutions, stats.Duration)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Rank\tPossibility\tPrice\tTime\tCO2\tComparison\tResource Skills")
		fmt.Fprintln(tw, "----\t-----------\t-----\t----\t---\t----------\t---------------")
		for _, p := range result.Search.Space.RankedPermutations() {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
				formatRank(p.Rank),
				p.ManufacturingPossibility,
				formatFloat(p.Price),
				formatFloat(p.Time),
				formatFloat(p.CO2),
				formatComparison(p.ComparisonValue),
				strings.Join(resourceSkills(p), " → "))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("failed to write text output: %w", err)
		}
		fmt.Fprintln(w)
	}

	return nil
}

type partReport struct {
	PartID           entities.PartID          `json:"part_id"`
	Name             string                   `json:"name"`
	EvaluationMethod string                   `json:"evaluation_method"`
	Geometry         *entities.Geometry       `json:"geometry,omitempty"`
	SolutionSpaceID  entities.SolutionSpaceID `json:"solution_space_id,omitempty"`
	Ranked           bool                     `json:"ranked"`
	Error            string                   `json:"error,omitempty"`
	Stats            *statsReport             `json:"stats,omitempty"`
	Discarded        []discardedReport        `json:"discarded,omitempty"`
	Permutations     []*entities.Permutation  `json:"permutations,omitempty"`
}

type statsReport struct {
	PossibilitiesTotal     int     `json:"possibilities_total"`
	PossibilitiesDiscarded int     `json:"possibilities_discarded"`
	Permutations           int     `json:"permutations"`
	Solutions              int     `json:"solutions"`
	DurationSeconds        float64 `json:"duration_seconds"`
}

type discardedReport struct {
	Possibility    int                        `json:"possibility"`
	StepID         entities.PartProcessStepID `json:"step_id"`
	ProcessStepID  entities.ProcessStepID     `json:"process_step_id"`
	SequenceNumber int                        `json:"sequence_number"`
}

func buildReport(result *dto.PartCreationResult) partReport {
	report := partReport{
		PartID:           result.Part.ID,
		Name:             result.Part.Name,
		EvaluationMethod: result.Part.EvaluationMethod.String(),
		Geometry:         result.Part.Geometry,
	}
	if result.SearchErr != nil {
		report.Error = result.SearchErr.Error()
	}
	if result.Search == nil {
		return report
	}

	stats := result.Search.Stats
	report.Stats = &statsReport{
		PossibilitiesTotal:     stats.PossibilitiesTotal,
		PossibilitiesDiscarded: stats.PossibilitiesDiscarded,
		Permutations:           stats.Permutations,
		Solutions:              stats.Solutions,
		DurationSeconds:        stats.Duration.Seconds(),
	}
	for _, d := range result.Search.Discarded {
		report.Discarded = append(report.Discarded, discardedReport{
			Possibility:    d.Number,
			StepID:         d.StepID,
			ProcessStepID:  d.ProcessStepID,
			SequenceNumber: d.SequenceNumber,
		})
	}
	if space := result.Search.Space; space != nil {
		report.SolutionSpaceID = space.ID
		report.Ranked = space.Ranked
		report.Permutations = space.RankedPermutations()
	}
	return report
}

// generateJSONOutput creates JSON output
func generateJSONOutput(results []*dto.PartCreationResult, config Config) error {
	reports := make([]partReport, 0, len(results))
	for _, result := range results {
		reports = append(reports, buildReport(result))
	}

	jsonData, err := json.MarshalIndent(reports, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		_, err := fmt.Fprintln(config.Writer, string(jsonData))
		return err
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "plafosus_results.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Writer, "💾 JSON results saved to: %s\n", filename)
	}
	return nil
}

// generateCSVOutput writes one row per permutation and one row per solution
func generateCSVOutput(results []*dto.PartCreationResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	permutationsFile := filepath.Join(config.OutputDir, "permutations.csv")
	if err := writePermutationsCSV(results, permutationsFile); err != nil {
		return fmt.Errorf("failed to write permutations CSV: %w", err)
	}

	solutionsFile := filepath.Join(config.OutputDir, "solutions.csv")
	if err := writeSolutionsCSV(results, solutionsFile); err != nil {
		return fmt.Errorf("failed to write solutions CSV: %w", err)
	}

	if config.Verbose {
		fmt.Fprintf(config.Writer, "💾 CSV results saved to:\n")
		fmt.Fprintf(config.Writer, "  Permutations: %s\n", permutationsFile)
		fmt.Fprintf(config.Writer, "  Solutions: %s\n", solutionsFile)
	}
	return nil
}

func writePermutationsCSV(results []*dto.PartCreationResult, filename string) error {
	header := []string{"part_id", "solution_space_id", "permutation_id", "rank", "comparison_value",
		"manufacturing_possibility", "price", "time", "co2"}

	var records [][]string
	for _, p := range rankedPermutations(results) {
		comparison := ""
		if p.permutation.ComparisonValue != nil {
			comparison = formatFloat(*p.permutation.ComparisonValue)
		}
		records = append(records, []string{
			string(p.partID),
			string(p.permutation.SolutionSpaceID),
			string(p.permutation.ID),
			strconv.Itoa(p.permutation.Rank),
			comparison,
			strconv.Itoa(p.permutation.ManufacturingPossibility),
			formatFloat(p.permutation.Price),
			formatFloat(p.permutation.Time),
			formatFloat(p.permutation.CO2),
		})
	}
	return writeCSV(filename, header, records)
}

func writeSolutionsCSV(results []*dto.PartCreationResult, filename string) error {
	header := []string{"part_id", "permutation_id", "solution_id", "part_process_step_id",
		"resource_skill_id", "manufacturing_sequence_number", "quantity", "price", "time", "co2"}

	var records [][]string
	for _, p := range rankedPermutations(results) {
		for _, sol := range p.permutation.Solutions {
			records = append(records, []string{
				string(p.partID),
				string(p.permutation.ID),
				string(sol.ID),
				string(sol.PartProcessStepID),
				string(sol.ResourceSkillID),
				strconv.Itoa(sol.ManufacturingSequenceNumber),
				formatFloat(sol.Quantity),
				formatFloat(sol.Price),
				formatFloat(sol.Time),
				formatFloat(sol.CO2),
			})
		}
	}
	return writeCSV(filename, header, records)
}

func writeCSV(filename string, header []string, records [][]string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return err
	}
	if err := writer.WriteAll(records); err != nil {
		return err
	}
	return file.Close()
}

type partPermutation struct {
	partID      entities.PartID
	permutation *entities.Permutation
}

func rankedPermutations(results []*dto.PartCreationResult) []partPermutation {
	var all []partPermutation
	for _, result := range results {
		if result.Search == nil || result.Search.Space == nil {
			continue
		}
		for _, p := range result.Search.Space.RankedPermutations() {
			all = append(all, partPermutation{partID: result.Part.ID, permutation: p})
		}
	}
	return all
}

func resourceSkills(p *entities.Permutation) []string {
	ids := make([]string, len(p.Solutions))
	for i, sol := range p.Solutions {
		ids[i] = string(sol.ResourceSkillID)
	}
	return ids
}

func formatRank(rank int) string {
	if rank == 0 {
		return "-"
	}
	return strconv.Itoa(rank)
}

func formatComparison(value *float64) string {
	if value == nil {
		return "-"
	}
	return formatFloat(*value)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
