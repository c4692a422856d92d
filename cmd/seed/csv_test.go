package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/inventory-system/internal/domain"
)

func TestParseItems_FilasValidasEInvalidas(t *testing.T) {
	in := "Name,Category,Supplier,Quantity,Min_Quantity,Price,Location\n" +
		"Tornillo,Ferretería,ACME,10,3,\"2,50\",A1\n" +
		",Ferretería,ACME,1,1,1,\n" +
		"Clavo,Ferretería,ACME,diez,1,1,\n" +
		"Arandela,Ferretería,ACME,-1,1,1,\n" +
		"Tuerca,Ferretería,ACME,,,,\n"

	rows, rowErrs, err := parseItems(strings.NewReader(in), false)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Tornillo", rows[0].Item.Name)
	assert.Equal(t, "2.5", rows[0].Item.Price.String(), "coma decimal")
	assert.Equal(t, "A1", rows[0].Item.Location)
	assert.Equal(t, 0, rows[1].Item.Quantity, "columnas vacías valen cero")

	require.Len(t, rowErrs, 3)
	assert.Equal(t, []int{3, 4, 5}, []int{rowErrs[0].Line, rowErrs[1].Line, rowErrs[2].Line})
	for _, re := range rowErrs {
		assert.ErrorIs(t, re.Err, domain.ErrInvalidInput)
	}
}

func TestParseItems_Latin1(t *testing.T) {
	utf8 := "name,category,supplier\nCaño,Fontanería,Núñez\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	rows, _, err := parseItems(bytes.NewReader([]byte(encoded)), true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Caño", rows[0].Item.Name)
	assert.Equal(t, "Fontanería", rows[0].Item.Category)
	assert.Equal(t, "Núñez", rows[0].Item.Supplier)
}

func TestParseItems_EncabezadoInvalido(t *testing.T) {
	_, _, err := parseItems(strings.NewReader("name,category\nTornillo,Ferretería\n"), false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = parseItems(strings.NewReader(""), false)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseItems_BOMEnEncabezado(t *testing.T) {
	rows, _, err := parseItems(strings.NewReader("\ufeffname,category,supplier\nTornillo,Ferretería,ACME\n"), false)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
