package dataprocessing

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"taxicli/internal/cleaning"
	apperrors "taxicli/internal/errors"
	"taxicli/pkg/contracts/domain"
)

// numericColumns are the trip columns parsed as float64; every other
// column is kept as text.
var numericColumns = map[string]struct{}{
	domain.ColDurationMins:         {},
	domain.ColTripDistance:         {},
	domain.ColPassengerCount:       {},
	domain.ColPaymentType:          {},
	domain.ColRateCodeID:           {},
	domain.ColFareAmount:           {},
	domain.ColExtra:                {},
	domain.ColMTATax:               {},
	domain.ColTipAmount:            {},
	domain.ColImprovementSurcharge: {},
	domain.ColCongestionSurcharge:  {},
	domain.ColTollsAmount:          {},
	domain.ColAirportFee:           {},
	domain.ColCBDCongestionFee:     {},
}

// Parser reads monthly trip CSV files into cleaning tables
type Parser struct {
	logger         *slog.Logger
	maxConcurrency int
}

// NewParser creates a parser. maxConcurrency bounds how many files are
// parsed in parallel by ParseFiles.
func NewParser(logger *slog.Logger, maxConcurrency int) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Parser{logger: logger, maxConcurrency: maxConcurrency}
}

// ParseFile reads one trip CSV file into a table. The header row
// defines the column set; empty cells become missing values and
// numeric cells that fail to parse are treated as missing rather than
// aborting the whole file.
func (p *Parser) ParseFile(ctx context.Context, path string) (cleaning.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return cleaning.Table{}, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	table, err := p.parse(f)
	if err != nil {
		return cleaning.Table{}, apperrors.NewParsingError(fmt.Sprintf("failed to parse %s", path), err)
	}

	p.logger.InfoContext(ctx, "parsed trip file",
		slog.String("path", path),
		slog.Int("columns", len(table.Columns)),
		slog.Int("rows", table.Len()),
	)

	return table, nil
}

func (p *Parser) parse(r io.Reader) (cleaning.Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return cleaning.Table{}, fmt.Errorf("missing header row")
	}
	if err != nil {
		return cleaning.Table{}, fmt.Errorf("read header: %w", err)
	}
	// exported CSVs carry a UTF-8 BOM for Excel compatibility
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	table := cleaning.NewTable(header)
	badCells := 0

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cleaning.Table{}, fmt.Errorf("line %d: %w", line, err)
		}

		row := make(cleaning.Row, len(header))
		for i, col := range header {
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				row[col] = nil
				continue
			}
			if _, numeric := numericColumns[col]; numeric {
				v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", ""), 64)
				if err != nil {
					row[col] = nil
					badCells++
					continue
				}
				row[col] = v
			} else {
				row[col] = cell
			}
		}
		table.Rows = append(table.Rows, row)
	}

	if badCells > 0 {
		p.logger.Warn("unparsable numeric cells treated as missing", slog.Int("cells", badCells))
	}

	return table, nil
}

// ParseFiles parses several monthly files concurrently and
// concatenates them in the given file order. Every file must share the
// schema of the first one.
func (p *Parser) ParseFiles(ctx context.Context, paths []string) (cleaning.Table, error) {
	if len(paths) == 0 {
		return cleaning.Table{}, apperrors.NewEmptyInputError("trip file parsing")
	}

	tables := make([]cleaning.Table, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxConcurrency)

	for i, path := range paths {
		g.Go(func() error {
			t, err := p.ParseFile(gctx, path)
			if err != nil {
				return err
			}
			tables[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return cleaning.Table{}, err
	}

	out := cleaning.NewTable(tables[0].Columns)
	for i, t := range tables {
		if !equalColumns(t.Columns, out.Columns) {
			return cleaning.Table{}, apperrors.NewParsingError(
				fmt.Sprintf("schema of %s differs from %s", paths[i], paths[0]), nil)
		}
		out.Rows = append(out.Rows, t.Rows...)
	}

	p.logger.InfoContext(ctx, "parsed trip files",
		slog.Int("files", len(paths)),
		slog.Int("total_rows", out.Len()),
	)

	return out, nil
}

func equalColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
