package datasource

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"

	"github.com/cah-jamey-weyenberg/great-expectations/engine/dataframe"
	"github.com/cah-jamey-weyenberg/great-expectations/engine/validator"
)

// Per-loader bindings. Loaders whose primary argument is always a path
// default to using it as the identifier; free-form content or query
// loaders default to not using it; the rest fall back to the
// whitespace heuristic.
var (
	csvBinding = binding{name: "read_csv", primaryArgName: "path_or_buffer"}

	tableBinding = binding{name: "read_table", primaryArgName: "path_or_buffer"}

	jsonBinding = binding{name: "read_json", primaryArgName: "path_or_content", defaultUseAsID: boolPtr(false)}

	yamlBinding = binding{name: "read_yaml", primaryArgName: "path_or_content"}

	fwfBinding = binding{name: "read_fwf", primaryArgName: "path_or_buffer"}

	htmlBinding = binding{name: "read_html", primaryArgName: "path_or_content"}

	clipboardBinding = binding{name: "read_clipboard", defaultUseAsID: boolPtr(false)}

	dataFrameBinding = binding{name: "from_dataframe", primaryArgName: "data"}
)

// ReadCSV loads comma-separated data from a path, URL, byte slice or
// reader. Kwargs: delimiter (string), header (bool, default true),
// comment (string).
func (d *ReaderDatasource) ReadCSV(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, csvBinding, d.loadCSV, primary, opts...)
}

// ReadTable loads tab-separated data. Same kwargs as ReadCSV with the
// delimiter defaulting to a tab.
func (d *ReaderDatasource) ReadTable(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, tableBinding, d.loadTSV, primary, opts...)
}

// ReadJSON loads an array of objects or a column-oriented object from
// a path, URL or literal JSON content.
func (d *ReaderDatasource) ReadJSON(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, jsonBinding, d.loadJSON, primary, opts...)
}

// ReadYAML loads a YAML sequence of mappings from a path, URL or
// literal content.
func (d *ReaderDatasource) ReadYAML(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, yamlBinding, d.loadYAML, primary, opts...)
}

// ReadFWF loads fixed-width fields. Kwargs: widths ([]int, required),
// header (bool, default true).
func (d *ReaderDatasource) ReadFWF(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, fwfBinding, d.loadFWF, primary, opts...)
}

// ReadHTML extracts the first <table> from a document.
func (d *ReaderDatasource) ReadHTML(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, htmlBinding, d.loadHTML, primary, opts...)
}

// ReadClipboard parses the system clipboard as delimited text. There
// is no primary argument; the timestamp alone identifies the load.
func (d *ReaderDatasource) ReadClipboard(ctx context.Context, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, clipboardBinding, d.loadClipboard, nil, opts...)
}

// FromDataFrame wraps an already-materialized DataFrame.
func (d *ReaderDatasource) FromDataFrame(ctx context.Context, primary any, opts ...LoadOption) (*validator.Validator, error) {
	return d.load(ctx, dataFrameBinding, d.loadDataFrame, primary, opts...)
}

func (d *ReaderDatasource) loadCSV(ctx context.Context, primary any, _ []any, kwargs map[string]any) (*dataframe.DataFrame, error) {
	data, err := d.readSource(ctx, primary)
	if err != nil {
		return nil, err
	}
	return parseDelimited(data, ',', kwargs)
}

func (d *ReaderDatasource) loadTSV(ctx context.Context, primary any, _ []any, kwargs map[string]any) (*dataframe.DataFrame, error) {
	data, err := d.readSource(ctx, primary)
	if err != nil {
		return nil, err
	}
	return parseDelimited(data, '\t', kwargs)
}

func parseDelimited(data []byte, defaultDelim rune, kwargs map[string]any) (*dataframe.DataFrame, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = defaultDelim
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if delim, ok := kwargs["delimiter"].(string); ok && delim != "" {
		reader.Comma = []rune(delim)[0]
	}
	if comment, ok := kwargs["comment"].(string); ok && comment != "" {
		reader.Comment = []rune(comment)[0]
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return dataframe.FromRows(nil, nil), nil
	}
	header := true
	if h, ok := kwargs["header"].(bool); ok {
		header = h
	}
	if header {
		return dataframe.FromRows(rows[0], rows[1:]), nil
	}
	cols := make([]string, len(rows[0]))
	for i := range cols {
		cols[i] = fmt.Sprintf("column_%d", i)
	}
	return dataframe.FromRows(cols, rows), nil
}

func (d *ReaderDatasource) loadJSON(ctx context.Context, primary any, _ []any, _ map[string]any) (*dataframe.DataFrame, error) {
	data, err := d.readSourceLenient(ctx, primary)
	if err != nil {
		return nil, err
	}
	doc := gjson.ParseBytes(data)
	switch {
	case doc.IsArray():
		var records []dataframe.Record
		var badElement error
		doc.ForEach(func(_, value gjson.Result) bool {
			obj, ok := value.Value().(map[string]any)
			if !ok {
				badElement = fmt.Errorf("JSON array elements must be objects, got %s", value.Type)
				return false
			}
			records = append(records, dataframe.Record(obj))
			return true
		})
		if badElement != nil {
			return nil, badElement
		}
		return dataframe.FromRecords(records), nil
	case doc.IsObject():
		// Column-oriented: {"col": [v1, v2], ...}
		var columns []string
		columnValues := map[string][]any{}
		var badColumn error
		rows := -1
		doc.ForEach(func(key, value gjson.Result) bool {
			values, ok := value.Value().([]any)
			if !ok {
				badColumn = fmt.Errorf("column %q must be an array", key.String())
				return false
			}
			if rows >= 0 && len(values) != rows {
				badColumn = fmt.Errorf("column %q has %d values, expected %d", key.String(), len(values), rows)
				return false
			}
			rows = len(values)
			columns = append(columns, key.String())
			columnValues[key.String()] = values
			return true
		})
		if badColumn != nil {
			return nil, badColumn
		}
		if rows < 0 {
			rows = 0
		}
		records := make([]dataframe.Record, rows)
		for i := range records {
			rec := make(dataframe.Record, len(columns))
			for _, col := range columns {
				rec[col] = columnValues[col][i]
			}
			records[i] = rec
		}
		return dataframe.New(columns, records), nil
	default:
		return nil, fmt.Errorf("JSON source must be an array of objects or an object of arrays")
	}
}

func (d *ReaderDatasource) loadYAML(ctx context.Context, primary any, _ []any, _ map[string]any) (*dataframe.DataFrame, error) {
	data, err := d.readSourceLenient(ctx, primary)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse YAML source: %w", err)
	}
	records := make([]dataframe.Record, len(rows))
	for i, row := range rows {
		records[i] = dataframe.Record(row)
	}
	return dataframe.FromRecords(records), nil
}

func (d *ReaderDatasource) loadFWF(ctx context.Context, primary any, _ []any, kwargs map[string]any) (*dataframe.DataFrame, error) {
	data, err := d.readSource(ctx, primary)
	if err != nil {
		return nil, err
	}
	widths, err := intSlice(kwargs["widths"])
	if err != nil || len(widths) == 0 {
		return nil, fmt.Errorf("read_fwf requires a widths kwarg ([]int)")
	}
	var rows [][]string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		row := make([]string, 0, len(widths))
		rest := line
		for _, w := range widths {
			if w > len(rest) {
				w = len(rest)
			}
			row = append(row, strings.TrimSpace(rest[:w]))
			rest = rest[w:]
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return dataframe.FromRows(nil, nil), nil
	}
	header := true
	if h, ok := kwargs["header"].(bool); ok {
		header = h
	}
	if header {
		return dataframe.FromRows(rows[0], rows[1:]), nil
	}
	cols := make([]string, len(widths))
	for i := range cols {
		cols[i] = fmt.Sprintf("column_%d", i)
	}
	return dataframe.FromRows(cols, rows), nil
}

func intSlice(v any) ([]int, error) {
	switch t := v.(type) {
	case []int:
		return t, nil
	case []any:
		out := make([]int, 0, len(t))
		for _, e := range t {
			switch n := e.(type) {
			case int:
				out = append(out, n)
			case float64:
				out = append(out, int(n))
			default:
				return nil, fmt.Errorf("not an int: %v", e)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("not an int slice: %T", v)
	}
}

func (d *ReaderDatasource) loadHTML(ctx context.Context, primary any, _ []any, _ map[string]any) (*dataframe.DataFrame, error) {
	data, err := d.readSourceLenient(ctx, primary)
	if err != nil {
		return nil, err
	}
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML source: %w", err)
	}
	table := findFirstElement(doc, "table")
	if table == nil {
		return nil, fmt.Errorf("no <table> found in HTML source")
	}
	var rows [][]string
	collectTableRows(table, &rows)
	if len(rows) == 0 {
		return dataframe.FromRows(nil, nil), nil
	}
	return dataframe.FromRows(rows[0], rows[1:]), nil
}

func findFirstElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirstElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func collectTableRows(n *html.Node, rows *[][]string) {
	if n.Type == html.ElementNode && n.Data == "tr" {
		var row []string
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
				row = append(row, strings.TrimSpace(nodeText(c)))
			}
		}
		if len(row) > 0 {
			*rows = append(*rows, row)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectTableRows(c, rows)
	}
}

func nodeText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(nodeText(c))
	}
	return sb.String()
}

func (d *ReaderDatasource) loadClipboard(_ context.Context, _ any, _ []any, kwargs map[string]any) (*dataframe.DataFrame, error) {
	content, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read clipboard: %w", err)
	}
	if _, ok := kwargs["delimiter"]; !ok && strings.Contains(content, "\t") {
		kwargs = cloneKwargs(kwargs)
		kwargs["delimiter"] = "\t"
	}
	return parseDelimited([]byte(content), ',', kwargs)
}

func cloneKwargs(kwargs map[string]any) map[string]any {
	out := make(map[string]any, len(kwargs))
	for k, v := range kwargs {
		out[k] = v
	}
	return out
}

func (d *ReaderDatasource) loadDataFrame(_ context.Context, primary any, _ []any, _ map[string]any) (*dataframe.DataFrame, error) {
	df, ok := primary.(*dataframe.DataFrame)
	if !ok {
		return nil, fmt.Errorf("from_dataframe requires a *dataframe.DataFrame, got %T", primary)
	}
	return df, nil
}
