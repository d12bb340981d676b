// Package catalogcsv lee archivos CSV de carga inicial: productos, bodegas y stock de apertura.
// Los archivos exportados desde hojas de cálculo locales suelen venir en ISO-8859-1.
package catalogcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventory-tracker/internal/application/dto"
)

var (
	productHeader   = []string{"sku", "name", "description", "reorder_point", "unit_cost"}
	warehouseHeader = []string{"name", "address"}
	stockHeader     = []string{"sku", "warehouse", "quantity"}
)

// OpeningStock cantidad inicial de un SKU en una bodega (por nombre).
type OpeningStock struct {
	SKU       string
	Warehouse string
	Quantity  int64
}

// Decode envuelve r para leer texto en UTF-8. Con latin1 decodifica ISO-8859-1.
func Decode(r io.Reader, latin1 bool) io.Reader {
	if latin1 {
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	return r
}

// LoadProducts lee sku,name,description,reorder_point,unit_cost.
func LoadProducts(r io.Reader) ([]dto.CreateProductRequest, error) {
	rows, err := readRows(r, productHeader)
	if err != nil {
		return nil, fmt.Errorf("productos: %w", err)
	}
	out := make([]dto.CreateProductRequest, 0, len(rows))
	for i, rec := range rows {
		line := i + 2
		rp, err := parseInt(rec[3])
		if err != nil {
			return nil, fmt.Errorf("productos fila %d: reorder_point: %w", line, err)
		}
		cost := decimal.Zero
		if s := strings.TrimSpace(rec[4]); s != "" {
			cost, err = decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
			if err != nil {
				return nil, fmt.Errorf("productos fila %d: unit_cost: %w", line, err)
			}
		}
		out = append(out, dto.CreateProductRequest{
			SKU:          strings.TrimSpace(rec[0]),
			Name:         strings.TrimSpace(rec[1]),
			Description:  strings.TrimSpace(rec[2]),
			ReorderPoint: rp,
			UnitCost:     cost,
		})
	}
	return out, nil
}

// LoadWarehouses lee name,address.
func LoadWarehouses(r io.Reader) ([]dto.CreateWarehouseRequest, error) {
	rows, err := readRows(r, warehouseHeader)
	if err != nil {
		return nil, fmt.Errorf("bodegas: %w", err)
	}
	out := make([]dto.CreateWarehouseRequest, 0, len(rows))
	for _, rec := range rows {
		out = append(out, dto.CreateWarehouseRequest{
			Name:    strings.TrimSpace(rec[0]),
			Address: strings.TrimSpace(rec[1]),
		})
	}
	return out, nil
}

// LoadOpeningStock lee sku,warehouse,quantity. La cantidad debe ser positiva.
func LoadOpeningStock(r io.Reader) ([]OpeningStock, error) {
	rows, err := readRows(r, stockHeader)
	if err != nil {
		return nil, fmt.Errorf("stock: %w", err)
	}
	out := make([]OpeningStock, 0, len(rows))
	for i, rec := range rows {
		qty, err := parseInt(rec[2])
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("stock fila %d: quantity debe ser un entero positivo", i+2)
		}
		out = append(out, OpeningStock{
			SKU:       strings.TrimSpace(rec[0]),
			Warehouse: strings.TrimSpace(rec[1]),
			Quantity:  qty,
		})
	}
	return out, nil
}

// readRows valida el encabezado (sin distinguir mayúsculas) y devuelve las filas de datos.
// Acepta ',' o ';' como separador según la primera línea.
func readRows(r io.Reader, header []string) ([][]string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(raw) {
		return nil, fmt.Errorf("el archivo no es UTF-8 válido (use -latin1)")
	}
	text := strings.TrimPrefix(string(raw), "\ufeff")

	reader := csv.NewReader(strings.NewReader(text))
	first, _, _ := strings.Cut(text, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		reader.Comma = ';'
	}
	reader.FieldsPerRecord = len(header)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("archivo vacío")
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(records[0][i]), col) {
			return nil, fmt.Errorf("encabezado inválido: se esperaba %v, llegó %v", header, records[0])
		}
	}
	return records[1:], nil
}

func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
