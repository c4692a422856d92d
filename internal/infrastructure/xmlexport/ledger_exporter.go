// Package xmlexport serializa el ledger de movimientos a XML con etree.
package xmlexport

import (
	"bytes"
	"context"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/inventory-system/internal/application/analytics"
	"github.com/jhoicas/inventory-system/internal/domain/entity"
)

var _ analytics.LedgerXMLExporter = (*LedgerExporter)(nil)

// LedgerExporter genera:
//
//	<Ledger generatedAt="..." count="N">
//	  <Transaction id="..." type="add">
//	    <ItemID/> <ItemName/> <Quantity/> <PreviousQuantity/> <Date/> <User/> <Notes/>
//	  </Transaction>
//	</Ledger>
type LedgerExporter struct{}

// NewLedgerExporter construye el exportador.
func NewLedgerExporter() *LedgerExporter { return &LedgerExporter{} }

// ExportLedgerXML devuelve el documento indentado con declaración XML.
func (e *LedgerExporter) ExportLedgerXML(ctx context.Context, txs []entity.Transaction, generatedAt time.Time) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Ledger")
	root.CreateAttr("generatedAt", generatedAt.UTC().Format(time.RFC3339))
	root.CreateAttr("count", strconv.Itoa(len(txs)))

	for _, t := range txs {
		el := root.CreateElement("Transaction")
		el.CreateAttr("id", t.ID)
		el.CreateAttr("type", string(t.Type))
		el.CreateElement("ItemID").SetText(t.ItemID)
		el.CreateElement("ItemName").SetText(t.ItemName)
		el.CreateElement("Quantity").SetText(strconv.Itoa(t.Quantity))
		if t.PreviousQuantity != nil {
			el.CreateElement("PreviousQuantity").SetText(strconv.Itoa(*t.PreviousQuantity))
		}
		el.CreateElement("Date").SetText(t.Date.UTC().Format(time.RFC3339))
		el.CreateElement("User").SetText(t.User)
		if t.Notes != "" {
			el.CreateElement("Notes").SetText(t.Notes)
		}
	}

	doc.Indent(2)
	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
