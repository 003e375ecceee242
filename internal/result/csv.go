package result

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// csvHeader is the on-disk contract: one row per thread configuration, with
// the serial baseline repeated on every row so any single row plus the header
// reconstructs it.
var csvHeader = []string{
	"NGRID", "T1_wall_s", "T1_app_s", "hc1", "hp1",
	"threads", "Tp_wall_s", "Tp_app_s", "speedup", "efficiency",
	"maxrss_kb", "hc_med", "hp_med",
}

// WriteCSV persists rep to path, configs in ascending thread order.
func WriteCSV(path string, rep *ScalingReport) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	configs := make([]ConfigResult, len(rep.Configs))
	copy(configs, rep.Configs)
	sort.Slice(configs, func(i, j int) bool { return configs[i].Threads < configs[j].Threads })

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, c := range configs {
		row := []string{
			strconv.Itoa(rep.NGrid),
			formatCell(rep.T1WallS),
			formatCell(rep.T1AppS),
			formatCell(rep.HC1),
			formatCell(rep.HP1),
			strconv.Itoa(c.Threads),
			formatCell(c.WallS),
			formatCell(c.AppS),
			formatCell(c.Speedup),
			formatCell(c.Efficiency),
			formatCell(c.MaxRSSKB),
			formatCell(c.HC),
			formatCell(c.HP),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}

// LoadCSV reconstructs a ScalingReport from a previously written table. The
// baseline fields are taken from the first row. A table with no data rows is
// an error: there is nothing to analyze.
func LoadCSV(path string) (*ScalingReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("no rows in %s", path)
	}
	if len(records[0]) != len(csvHeader) {
		return nil, fmt.Errorf("%s: expected %d columns, got %d", path, len(csvHeader), len(records[0]))
	}

	first := records[1]
	ngrid, err := strconv.Atoi(first[0])
	if err != nil {
		return nil, fmt.Errorf("%s: bad NGRID %q: %w", path, first[0], err)
	}
	rep := &ScalingReport{
		NGrid:          ngrid,
		T1WallS:        parseCell(first[1]),
		T1AppS:         parseCell(first[2]),
		HC1:            parseCell(first[3]),
		HP1:            parseCell(first[4]),
		SerialFraction: Undefined(),
	}
	for _, row := range records[1:] {
		threads, err := strconv.Atoi(row[5])
		if err != nil {
			return nil, fmt.Errorf("%s: bad thread count %q: %w", path, row[5], err)
		}
		rep.Configs = append(rep.Configs, ConfigResult{
			Threads:    threads,
			WallS:      parseCell(row[6]),
			AppS:       parseCell(row[7]),
			Speedup:    parseCell(row[8]),
			Efficiency: parseCell(row[9]),
			MaxRSSKB:   parseCell(row[10]),
			HC:         parseCell(row[11]),
			HP:         parseCell(row[12]),
		})
	}
	return rep, nil
}

// formatCell renders a value round-trip exact; missing values become empty
// cells.
func formatCell(v float64) string {
	if !Defined(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseCell(s string) float64 {
	if s == "" {
		return Undefined()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Undefined()
	}
	return v
}
