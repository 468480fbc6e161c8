// Package reports renders order receipts and the back-office order report as PDF.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/yeremiapane/bakery-app/models"
	"github.com/yeremiapane/bakery-app/utils"
)

func newDocument(orientation string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)
	// Core fonts are cp1252; translate so accents and the euro sign survive.
	return pdf, pdf.UnicodeTranslatorFromDescriptor("")
}

func output(pdf *fpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func eur(amount float64) string { return utils.FormatCurrencyEUR(amount) }

// Receipt renders the customer copy of one order.
func Receipt(order models.Order, site models.SiteConfig) ([]byte, error) {
	pdf, tr := newDocument("P")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(site.StoreName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, line := range []string{site.Address, site.Phone, site.Email} {
		if line != "" {
			pdf.CellFormat(0, 5, tr(line), "", 1, "C", false, 0, "")
		}
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, tr("Encomenda "+order.Reference()), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	info := [][2]string{
		{"Data", order.CreatedAt.Format("02/01/2006 15:04")},
		{"Cliente", order.CustomerName},
		{"Email", order.CustomerEmail},
		{"Entrega", deliveryLabel(order)},
		{"Pagamento", order.PaymentMethod},
		{"Estado", string(order.Status)},
	}
	if order.TaxID != "" {
		info = append(info, [2]string{"NIF", order.TaxID})
	}
	for _, row := range info {
		pdf.CellFormat(35, 6, tr(row[0]+":"), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, tr(row[1]), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 230, 220)
	pdf.CellFormat(95, 7, tr("Produto"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(20, 7, tr("Qtd"), "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, tr("Preço"), "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 7, tr("Total"), "1", 1, "R", true, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, item := range order.Items {
		pdf.CellFormat(95, 7, tr(itemLabel(item)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, tr(eur(item.UnitPrice)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, tr(eur(item.LineTotal())), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(2)

	totals := [][2]string{
		{"Subtotal", eur(order.Subtotal)},
		{"Entrega", eur(order.DeliveryFee)},
		{"Total", eur(order.Total)},
	}
	for i, row := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Helvetica", "B", 11)
		}
		pdf.CellFormat(145, 7, tr(row[0]), "", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, tr(row[1]), "", 1, "R", false, 0, "")
	}

	return output(pdf)
}

// OrdersReport renders the order book for the back-office, one row per order.
func OrdersReport(orders []models.Order, site models.SiteConfig, generatedAt time.Time) ([]byte, error) {
	pdf, tr := newDocument("L")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(site.StoreName+" - Encomendas"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr("Gerado em "+generatedAt.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []string{"Encomenda", "Criada", "Cliente", "Entrega", "Data", "Hora", "Pagamento", "Estado", "Total"}
	widths := []float64{48, 25, 45, 22, 22, 14, 35, 23, 25}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(240, 230, 220)
	for i, h := range headers {
		align := "L"
		if i == len(headers)-1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	totals := make([]float64, 0, len(orders))
	for _, o := range orders {
		row := []string{
			o.ID,
			o.CreatedAt.Format("02/01/06 15:04"),
			o.CustomerName,
			deliveryTypeLabel(o.DeliveryType),
			o.DeliveryDate,
			o.DeliveryTime,
			o.PaymentMethod,
			string(o.Status),
			eur(o.Total),
		}
		for i, cell := range row {
			align := "L"
			if i == len(row)-1 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
		totals = append(totals, o.Total)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%d encomendas, total %s", len(orders), eur(utils.SumMoney(totals...)))), "", 1, "R", false, 0, "")

	return output(pdf)
}

func itemLabel(item models.CartItem) string {
	label := item.Product.Name
	switch {
	case item.Selection.Dose == models.DoseHalf:
		label += " (meia dose)"
	case item.Selection.State == models.StateFrozen:
		label += " (congelado)"
	case len(item.Selection.Flavors) > 0:
		label += fmt.Sprintf(" (%d sabores)", len(item.Selection.Flavors))
	}
	return label
}

func deliveryTypeLabel(t models.DeliveryType) string {
	if t == models.DeliveryHome {
		return "Entrega"
	}
	return "Levantamento"
}

func deliveryLabel(o models.Order) string {
	label := fmt.Sprintf("%s %s %s", deliveryTypeLabel(o.DeliveryType), o.DeliveryDate, o.DeliveryTime)
	if o.DeliveryType == models.DeliveryHome && o.Address != "" {
		label += " - " + o.Address + " " + o.PostalCode
	}
	return label
}
