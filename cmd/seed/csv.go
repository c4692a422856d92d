package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/inventory-system/internal/application/dto"
	"github.com/jhoicas/inventory-system/internal/domain"
)

type itemRow struct {
	Line int
	Item dto.CreateItemRequest
}

type rowError struct {
	Line int
	Err  error
}

var requiredColumns = []string{"name", "category", "supplier"}

// parseItems lee el CSV completo. Las filas inválidas se devuelven aparte con su número
// de línea; solo un encabezado inválido o un error de lectura abortan.
func parseItems(r io.Reader, latin1 bool) ([]itemRow, []rowError, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: archivo vacío", domain.ErrInvalidInput)
		}
		return nil, nil, err
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, nil, fmt.Errorf("%w: falta la columna %q", domain.ErrInvalidInput, c)
		}
	}

	var rows []itemRow
	var rowErrs []rowError
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				rowErrs = append(rowErrs, rowError{Line: pe.Line, Err: err})
				continue
			}
			return nil, nil, err
		}
		line, _ := cr.FieldPos(0)
		item, err := toItem(cols, record)
		if err == nil {
			err = item.Validate()
		}
		if err != nil {
			rowErrs = append(rowErrs, rowError{Line: line, Err: err})
			continue
		}
		rows = append(rows, itemRow{Line: line, Item: item})
	}
	return rows, rowErrs, nil
}

func toItem(cols map[string]int, record []string) (dto.CreateItemRequest, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	number := func(name string) (int, error) {
		s := field(name)
		if s == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %s no es un entero: %q", domain.ErrInvalidInput, name, s)
		}
		return n, nil
	}

	qty, err := number("quantity")
	if err != nil {
		return dto.CreateItemRequest{}, err
	}
	minQty, err := number("min_quantity")
	if err != nil {
		return dto.CreateItemRequest{}, err
	}
	price := decimal.Zero
	if s := field("price"); s != "" {
		// Excel en español exporta "12,50"
		price, err = decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
		if err != nil {
			return dto.CreateItemRequest{}, fmt.Errorf("%w: price inválido: %q", domain.ErrInvalidInput, s)
		}
	}
	return dto.CreateItemRequest{
		Name:        field("name"),
		Category:    field("category"),
		Supplier:    field("supplier"),
		Quantity:    qty,
		MinQuantity: minQty,
		Price:       price,
		Description: field("description"),
		Image:       field("image"),
		Location:    field("location"),
	}, nil
}
