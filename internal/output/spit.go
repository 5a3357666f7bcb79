// Copyright © 2025 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: MIT

package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/apex/log"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/lipgloss/v2/table"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/staranto/beltgo/internal/attrs"
	"github.com/staranto/beltgo/internal/config"
	"github.com/staranto/beltgo/internal/filters"
)

// DumpExamples renders a table of examples, name then description.
func DumpExamples(examples [][2]string, w io.Writer) {
	if len(examples) == 0 {
		return
	}
	var rows [][]string
	for _, ex := range examples {
		rows = append(rows, []string{ex[0], ex[1]})
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		Headers().
		Rows(rows...)

	fmt.Fprintln(w, t)
}

// SliceDiceSpit orchestrates filtering, transforming, sorting and rendering
// of a dataset according to command flags and attribute specifications. raw
// is a JSON array of records (a single object is treated as an array of one);
// parent, when set, is a gjson path selecting the array inside raw.
func SliceDiceSpit(raw []byte,
	al attrs.AttrList,
	cmd *cli.Command,
	parent string,
	w io.Writer) error {

	if w == nil {
		w = os.Stdout
	}

	// If raw, just dump it and go home.
	output := cmd.String("output")
	if output == "raw" {
		_, err := w.Write(raw)
		return err
	}

	fullDataset := gjson.ParseBytes(raw)
	if parent != "" {
		fullDataset = fullDataset.Get(parent)
	}
	if fullDataset.IsObject() {
		fullDataset = gjson.Parse("[" + fullDataset.Raw + "]")
	}
	if !fullDataset.IsArray() {
		return fmt.Errorf("expected a JSON array of records")
	}

	// Without explicit attrs every top-level key is shown, in the order keys
	// first appear in the records.
	if len(al.Included()) == 0 {
		al = append(attrs.FromKeys(recordKeys(fullDataset)), al...)
	}
	_ = al.SetGlobalTransformSpec()
	log.Debugf("attrs: %v", al.String())

	// Filter out the rows we don't want. Do it here so that the following
	// processes are slightly more efficient since they'll be working on a smaller
	// dataset.
	filteredDataset, err := filters.FilterDataset(fullDataset, al, cmd.String("filter"))
	if err != nil {
		return err
	}

	// Transform each value in each row.
	for _, row := range filteredDataset {
		for i := range al {
			attr := &al[i]
			if attr.TransformSpec != "" {
				row[attr.OutputKey] = attr.Transform(row[attr.OutputKey])
			}
		}
	}

	SortDataset(filteredDataset, cmd.String("sort"))

	switch output {
	case "json":
		jsonOutput, err := json.Marshal(filteredDataset)
		if err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonOutput))
		return err
	case "yaml":
		yamlOutput, err := yaml.Marshal(orderedRows(filteredDataset, al))
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(yamlOutput)
		return err
	default:
		TableWriter(filteredDataset, al, cmd, w)
	}
	return nil
}

// recordKeys returns the union of top-level keys across records in first-seen
// order.
func recordKeys(records gjson.Result) []string {
	seen := map[string]bool{}
	var keys []string
	for _, rec := range records.Array() {
		rec.ForEach(func(k, _ gjson.Result) bool {
			if !seen[k.String()] {
				seen[k.String()] = true
				keys = append(keys, k.String())
			}
			return true
		})
	}
	return keys
}

// orderedRows keeps the attr order in yaml output.
func orderedRows(rows []map[string]interface{}, al attrs.AttrList) []yaml.MapSlice {
	out := make([]yaml.MapSlice, 0, len(rows))
	for _, row := range rows {
		ms := yaml.MapSlice{}
		for _, attr := range al.Included() {
			ms = append(ms, yaml.MapItem{Key: attr.OutputKey, Value: row[attr.OutputKey]})
		}
		out = append(out, ms)
	}
	return out
}

// TableWriter renders the result set in a tabular form honoring color,
// titles and padding options.
func TableWriter(
	resultSet []map[string]interface{},
	al attrs.AttrList,
	cmd *cli.Command,
	w io.Writer) {

	if len(resultSet) == 0 {
		return
	}

	var (
		headerStyle  = lipgloss.NewStyle().Align(lipgloss.Left)
		cellStyle    = lipgloss.NewStyle().Padding(0, 0).Align(lipgloss.Left)
		evenRowStyle = cellStyle
		oddRowStyle  = cellStyle
	)

	if cmd.Bool("color") {
		headerColor, evenColor, oddColor := getColors("colors")

		headerStyle = headerStyle.Foreground(lipgloss.Color(headerColor))
		evenRowStyle = evenRowStyle.Foreground(lipgloss.Color(evenColor))
		oddRowStyle = oddRowStyle.Foreground(lipgloss.Color(oddColor))
	}

	pad, _ := config.GetInt("padding", 0)

	var rows [][]string
	for _, result := range resultSet {
		row := make([]string, 0, len(result))
		for _, attr := range al.Included() {
			row = append(row, InterfaceToString(result[attr.OutputKey], "-"))
		}
		rows = append(rows, row)
	}

	t := table.New().
		BorderBottom(false).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			var style lipgloss.Style
			switch {
			case row == table.HeaderRow:
				style = headerStyle
			case row%2 == 0:
				style = evenRowStyle
			default:
				style = oddRowStyle
			}

			if col > 0 {
				style = style.PaddingLeft(pad)
			}

			return style
		}).
		Headers().
		Rows(rows...)

	if cmd.Bool("titles") {
		var headers []string
		for _, attr := range al.Included() {
			headers = append(headers, attr.OutputKey)
		}

		// https://github.com/charmbracelet/lipgloss/issues/261
		t = t.Headers(headers...).BorderHeader(false)
	}
	fmt.Fprintln(w, t)
}

// getColors returns configured color values for table rendering.
func getColors(key string) (header string, even string, odd string) {
	header, _ = config.GetString(fmt.Sprintf("%s.title", key), "#f6be00")
	even, _ = config.GetString(fmt.Sprintf("%s.even", key), "#ffffff")
	odd, _ = config.GetString(fmt.Sprintf("%s.odd", key), "#00c8f0")
	return
}

// InterfaceToString converts supported primitive or composite values to a
// string. nil and "" render as the optional empty value.
func InterfaceToString(value interface{}, emptyValue ...string) string {
	if len(emptyValue) == 0 {
		emptyValue = []string{""}
	}

	switch value := value.(type) {
	case nil:
		return emptyValue[0]
	case string:
		if value == "" {
			return emptyValue[0]
		}
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		jsonBytes, err := json.Marshal(value)
		if err != nil {
			return fmt.Sprintf("%v", value)
		}
		return string(jsonBytes)
	}
}
