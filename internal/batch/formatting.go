package batch

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/MeKo-Tech/runlens/internal/extract"
)

// formatBatchResults formats the batch processing results in the specified format.
func formatBatchResults(results []FileResult, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(results)
	case "csv":
		return formatCSV(results)
	default: // text
		return formatText(results), nil
	}
}

type jsonFileEntry struct {
	File    string          `json:"file"`
	Result  *extract.Result `json:"result,omitempty"`
	Missing []string        `json:"missing,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// formatJSON formats results as JSON.
func formatJSON(results []FileResult) (string, error) {
	batchResult := struct {
		Files []jsonFileEntry `json:"files"`
	}{Files: make([]jsonFileEntry, len(results))}

	for i, fr := range results {
		entry := jsonFileEntry{File: fr.Path}
		if fr.Err != nil {
			entry.Error = fr.Err.Error()
		} else {
			entry.Result = fr.Result
			entry.Missing = fr.Result.MissingFields()
		}
		batchResult.Files[i] = entry
	}

	bts, err := json.MarshalIndent(batchResult, "", "  ")
	return string(bts), err
}

// formatCSV formats results as CSV.
func formatCSV(results []FileResult) (string, error) {
	var csvData [][]string
	csvData = append(csvData, []string{
		"file", "distance_km", "duration", "duration_sec", "pace", "avg_hr", "calories", "total_score", "error",
	})

	for _, fr := range results {
		row := make([]string, 9)
		row[0] = fr.Path
		if fr.Err != nil {
			row[8] = fr.Err.Error()
			csvData = append(csvData, row)
			continue
		}
		v := fr.Result.Values
		if v.Distance != nil {
			row[1] = strconv.FormatFloat(*v.Distance, 'f', 2, 64)
		}
		if v.Duration != nil {
			row[2] = v.Duration.Display
			row[3] = strconv.Itoa(v.Duration.Seconds)
		}
		if v.Pace != nil {
			row[4] = v.Pace.Display
		}
		if v.AvgHR != nil {
			row[5] = strconv.Itoa(*v.AvgHR)
		}
		if v.Calories != nil {
			row[6] = strconv.Itoa(*v.Calories)
		}
		row[7] = fmt.Sprintf("%.1f", fr.Result.TotalScore)
		csvData = append(csvData, row)
	}

	var output strings.Builder
	writer := csv.NewWriter(&output)
	for _, row := range csvData {
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	return output.String(), nil
}

// formatText formats results as plain text.
func formatText(results []FileResult) string {
	var output strings.Builder
	for i, fr := range results {
		if i > 0 {
			output.WriteString("\n")
		}
		output.WriteString(fmt.Sprintf("# %s\n", fr.Path))
		if fr.Err != nil {
			output.WriteString(fmt.Sprintf("error: %v\n", fr.Err))
			continue
		}
		v := fr.Result.Values
		if v.Distance != nil {
			output.WriteString(fmt.Sprintf("distance: %.2f km\n", *v.Distance))
		}
		if v.Duration != nil {
			output.WriteString(fmt.Sprintf("duration: %s\n", v.Duration.Display))
		}
		if v.Pace != nil {
			output.WriteString(fmt.Sprintf("pace: %s/km\n", v.Pace.Display))
		}
		if v.AvgHR != nil {
			output.WriteString(fmt.Sprintf("avg_hr: %d bpm\n", *v.AvgHR))
		}
		if v.Calories != nil {
			output.WriteString(fmt.Sprintf("calories: %d kcal\n", *v.Calories))
		}
		for _, warn := range fr.Result.MissingFields() {
			output.WriteString(fmt.Sprintf("warning: %s\n", warn))
		}
	}
	return output.String()
}
