// Package sheet reads vendor price/stock spreadsheets. Vendor files are not
// uniform: some start with a title row, some rename columns ("CODIGO PROPIO"
// vs "CODIGO_PROPIO"), some carry only prices and some only per-branch
// stock. The reader locates the real header row, normalizes column names and
// yields one Record per data row.
package sheet

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ErrMalformedSource reports a spreadsheet that cannot be reconciled at all:
// the join-key or description column is missing after header detection.
// It is raised before any row is processed.
var ErrMalformedSource = errors.New("malformed source spreadsheet")

// Branches is the fixed set of retail locations that may appear as stock
// columns, using the canonical (underscored) header spelling.
var Branches = []string{"BELGRANO", "CATAMARCA", "LA_BANDA", "SALTA", "SANTIAGO", "TUCUMAN", "VIRGEN"}

// Canonical column names.
const (
	ColCode         = "CODIGO_PROPIO"
	ColSupplierCode = "CODIGO_PROVEEDOR"
	ColDescription  = "DESCRIPCION"
	ColListPrice    = "PUBLICO"
	ColNetPrice     = "CONTADO"
	ColPrice        = "PRECIO"
	ColCategory     = "CATEGORIA"
	ColBrand        = "MARCA"
	ColSupplier     = "PROVEEDOR"
)

// columnAliases maps header spellings seen in the wild to canonical names.
var columnAliases = map[string]string{
	"CODIGO PROPIO":    ColCode,
	"CODIGO PROVEEDOR": ColSupplierCode,
	"LA BANDA":         "LA_BANDA",
}

// headerScanDepth bounds how many leading rows are inspected for the header.
const headerScanDepth = 10

// Record is one data row, parsed. Price fields are nil when the cell is
// absent or unparseable; BranchStock only carries positive quantities.
type Record struct {
	Row          int // 1-based spreadsheet row, for diagnostics
	Code         string
	SupplierCode string
	Description  string
	Category     string
	Brand        string
	Supplier     string
	ListPrice    *decimal.Decimal
	NetPrice     *decimal.Decimal
	BranchStock  map[string]int
}

// TotalStock sums the per-branch quantities.
func (r Record) TotalStock() int {
	total := 0
	for _, qty := range r.BranchStock {
		total += qty
	}
	return total
}

// Source is a fully-read spreadsheet. Records can be iterated any number of
// times; the file handle is closed before Open returns.
type Source struct {
	HeaderRow int
	Headers   []string
	HasPrices bool
	HasStock  bool

	priceColumn string
	colIndex    map[string]int
	dataRows    [][]string
	startRow    int
}

// Open reads the first sheet of the workbook at path. headerRow selects the
// header explicitly (0-based); pass a negative value to detect it by
// scanning for known marker columns. Returns ErrMalformedSource when the
// join-key or description column cannot be found.
func Open(path string, headerRow int) (*Source, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", sheetName, err)
	}
	return FromRows(rows, headerRow)
}

// FromRows builds a Source from already-extracted cell rows. Split out from
// Open so header detection and record parsing are testable without files.
func FromRows(rows [][]string, headerRow int) (*Source, error) {
	if headerRow < 0 {
		headerRow = DetectHeaderRow(rows)
	}
	if headerRow >= len(rows) {
		return nil, fmt.Errorf("%w: header row %d beyond sheet end (%d rows)", ErrMalformedSource, headerRow, len(rows))
	}

	headers := make([]string, len(rows[headerRow]))
	colIndex := make(map[string]int, len(headers))
	for i, cell := range rows[headerRow] {
		name := CanonicalColumn(cell)
		headers[i] = name
		if name != "" {
			if _, dup := colIndex[name]; !dup {
				colIndex[name] = i
			}
		}
	}

	var missing []string
	for _, required := range []string{ColCode, ColDescription} {
		if _, ok := colIndex[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required columns %v (found %v)", ErrMalformedSource, missing, headers)
	}

	s := &Source{
		HeaderRow: headerRow,
		Headers:   headers,
		colIndex:  colIndex,
		dataRows:  rows[headerRow+1:],
		startRow:  headerRow + 2, // 1-based row number of the first data row
	}

	if _, ok := colIndex[ColNetPrice]; ok {
		s.priceColumn = ColNetPrice
		s.HasPrices = true
	} else if _, ok := colIndex[ColPrice]; ok {
		s.priceColumn = ColPrice
		s.HasPrices = true
	}
	if _, ok := colIndex[ColListPrice]; ok {
		s.HasPrices = true
	}
	for _, branch := range Branches {
		if _, ok := colIndex[branch]; ok {
			s.HasStock = true
			break
		}
	}
	return s, nil
}

// DetectHeaderRow scans the first rows for one whose cells include a known
// marker column (join key or description). Defaults to row 0 when nothing
// matches, which is correct for files without a title row.
func DetectHeaderRow(rows [][]string) int {
	depth := headerScanDepth
	if depth > len(rows) {
		depth = len(rows)
	}
	for i := 0; i < depth; i++ {
		for _, cell := range rows[i] {
			name := CanonicalColumn(cell)
			if name == ColCode || name == ColDescription {
				return i
			}
		}
	}
	return 0
}

// CanonicalColumn uppercases, trims and de-aliases a header cell.
func CanonicalColumn(cell string) string {
	name := strings.ToUpper(strings.TrimSpace(cell))
	if alias, ok := columnAliases[name]; ok {
		return alias
	}
	return name
}

// Records parses every data row. Rows whose code cell is empty are skipped;
// unparseable numeric cells leave the corresponding field nil/absent rather
// than failing the row.
func (s *Source) Records() []Record {
	records := make([]Record, 0, len(s.dataRows))
	for i, row := range s.dataRows {
		rec := Record{
			Row:          s.startRow + i,
			Code:         s.cell(row, ColCode),
			SupplierCode: s.cell(row, ColSupplierCode),
			Description:  s.cell(row, ColDescription),
			Category:     s.cell(row, ColCategory),
			Brand:        s.cell(row, ColBrand),
			Supplier:     s.cell(row, ColSupplier),
			BranchStock:  map[string]int{},
		}
		if rec.Code == "" && rec.Description == "" {
			continue
		}

		rec.ListPrice = s.decimalCell(row, ColListPrice)
		if s.priceColumn != "" {
			rec.NetPrice = s.decimalCell(row, s.priceColumn)
		}

		for _, branch := range Branches {
			qty, ok := s.intCell(row, branch)
			if ok && qty > 0 {
				rec.BranchStock[strings.ToLower(branch)] = qty
			}
		}

		records = append(records, rec)
	}
	return records
}

func (s *Source) cell(row []string, col string) string {
	idx, ok := s.colIndex[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func (s *Source) decimalCell(row []string, col string) *decimal.Decimal {
	raw := s.cell(row, col)
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func (s *Source) intCell(row []string, col string) (int, bool) {
	raw := s.cell(row, col)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}
