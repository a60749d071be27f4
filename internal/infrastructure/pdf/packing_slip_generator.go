// Package pdf implementa la generación del remito de despacho de un pedido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + NIT  │  N° Pedido + Fecha + Estado       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DESTINATARIO: Nombre + NIT/CC + contacto                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | Lote | Vence | P.Unit | Subtotal  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / Envío / TOTAL              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id del pedido para escaneo en bodega     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	apporders "github.com/jhoicas/Pedidos-api/internal/application/orders"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPackingSlipGenerator implementa orders.PackingSlipGenerator usando Maroto v2.
type MarotoPackingSlipGenerator struct{}

// NewMarotoPackingSlipGenerator construye el generador.
func NewMarotoPackingSlipGenerator() *MarotoPackingSlipGenerator {
	return &MarotoPackingSlipGenerator{}
}

// GeneratePackingSlip genera el PDF del remito y devuelve sus bytes.
func (g *MarotoPackingSlipGenerator) GeneratePackingSlip(
	_ context.Context,
	order *entity.Order,
	company *entity.Company,
	customer *entity.Customer,
	lines []apporders.PackingSlipLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Remito de despacho", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(destinatarioRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order, lines))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(order)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa (izq) y pedido + fecha + estado (der).
func headerRow(order *entity.Order, company *entity.Company) core.Row {
	fecha := order.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.TaxID, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REMITO DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Pedido "+shortID(order.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha+"   Estado: "+order.Status, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// destinatarioRow: datos del cliente que recibe.
func destinatarioRow(customer *entity.Customer) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("DESTINATARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT/CC: %s   |   Email: %s   |   Tel: %s",
				nonEmpty(customer.TaxID, "—"),
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 4, align.Left),
		h("Lote", 2, align.Center),
		h("Vence", 2, align.Center),
		h("P.Unit.", 1, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

// tableDetailRows: una fila por línea; el vencimiento del lote va visible para
// que bodega tome las unidades correctas.
func tableDetailRows(lines []apporders.PackingSlipLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		vence := "—"
		if l.ExpiryDate != nil {
			vence = l.ExpiryDate.Format("02/01/2006")
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(4).Add(text.New(
				l.ProductName+" ("+l.SKU+")",
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.BatchCode,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				vence,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(1).Add(text.New(
				"$"+formatMoney(l.UnitPrice.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				"$"+formatMoney(l.Subtotal.StringFixed(0)),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha.
func totalsRow(order *entity.Order, lines []apporders.PackingSlipLine) core.Row {
	var subtotal decimal.Decimal
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal)
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(32).Add(
		col.New(3),
		col.New(3).Add(
			label("Subtotal:"),
			label("Descuento:"),
			label("Envío:"),
			grandLabel("TOTAL:"),
		),
		col.New(3).Add(
			value("$"+formatMoney(subtotal.StringFixed(0))),
			value(order.DiscountPct.StringFixed(0)+"%"),
			value("$"+formatMoney(order.ShippingFee.StringFixed(0))),
			grandValue("$"+formatMoney(order.Total.StringFixed(0))),
		),
		col.New(3),
	)
}

// footerRows: QR con el id del pedido para escaneo en bodega + nota.
func footerRows(order *entity.Order) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("CONTROL DE DESPACHO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(40).Add(
			col.New(4).Add(code.NewQr(order.ID, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Escanea el código QR para registrar\nel despacho de este pedido.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("Verifique lote y vencimiento de cada\nlínea antes de empacar.", props.Text{
					Style: fontstyle.Bold, Size: 9, Top: 20,
					Left: 3, Color: colorPrimary,
				}),
			),
		),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID devuelve el primer bloque de un UUID para encabezados legibles.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
