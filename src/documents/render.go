package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
	"time"

	"rently/src/models"
	"rently/src/types"
)

var invoiceTmpl = template.Must(template.New("invoice").Parse(`<!DOCTYPE html>
<html>
<head><title>Invoice {{.Number}}</title></head>
<body>
<h1>Invoice {{.Number}}</h1>
<p>Booking #{{.BookingID}} &middot; Status: {{.Status}} &middot; Due: {{.DueDate}}</p>
<table border="1" cellpadding="6">
<tr><th>Description</th><th>Qty</th><th>Unit</th><th>Total</th></tr>
{{range .Items}}<tr><td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{.UnitPrice}}</td><td>{{.Total}}</td></tr>
{{end}}<tr><td colspan="3"><strong>Amount due ({{.Currency}})</strong></td><td><strong>{{.Amount}}</strong></td></tr>
</table>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
</body>
</html>`))

var documentTmpl = template.Must(template.New("document").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}} {{.Number}}</title></head>
<body>
<h1>{{.Title}} {{.Number}}</h1>
<p>Booking #{{.BookingID}} &middot; Status: {{.Status}}{{if .ScheduledDate}} &middot; Scheduled: {{.ScheduledDate}}{{end}}</p>
<table border="1" cellpadding="6">
<tr><th>Product</th><th>Qty</th><th>Condition</th><th>Notes</th></tr>
{{range .Items}}<tr><td>{{.ProductID}}</td><td>{{.Quantity}}</td><td>{{.Condition}}</td><td>{{.Notes}}</td></tr>
{{end}}</table>
</body>
</html>`))

type invoiceView struct {
	Number    string
	BookingID uint
	Status    types.InvoiceStatus
	DueDate   string
	Currency  string
	Amount    string
	Notes     string
	Items     []invoiceItemView
}

type invoiceItemView struct {
	Description string
	Quantity    int64
	UnitPrice   string
	Total       string
}

// RenderInvoiceHTML renders the invoice for download or inline viewing. Line
// totals are re-derived from the stored items so the rendered amount always
// matches what was persisted.
func RenderInvoiceHTML(invoice *models.Invoice) (string, error) {
	var items []models.InvoiceItem
	if err := decodeItems(invoice.Items, &items); err != nil {
		return "", err
	}
	view := invoiceView{
		Number:    invoice.InvoiceNumber,
		BookingID: invoice.BookingID,
		Status:    invoice.Status,
		DueDate:   invoice.DueDate.Format("2006-01-02"),
		Currency:  strings.ToUpper(invoice.Currency),
		Amount:    formatCents(invoice.Amount),
		Notes:     invoice.Notes,
	}
	var sum int64
	for _, item := range items {
		sum += item.Total
		view.Items = append(view.Items, invoiceItemView{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   formatCents(item.UnitPrice),
			Total:       formatCents(item.Total),
		})
	}
	if sum != invoice.Amount {
		view.Amount = formatCents(sum)
	}
	var buf bytes.Buffer
	if err := invoiceTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type documentView struct {
	Title         string
	Number        string
	BookingID     uint
	Status        types.DocumentStatus
	ScheduledDate string
	Items         []models.DocumentItem
}

func RenderDocumentHTML(document *models.Document) (string, error) {
	var items []models.DocumentItem
	if err := decodeItems(document.Items, &items); err != nil {
		return "", err
	}
	title := "Pickup Sheet"
	if document.Type == types.DOCUMENT_RETURN {
		title = "Return Sheet"
	}
	view := documentView{
		Title:     title,
		Number:    document.DocumentNumber,
		BookingID: document.BookingID,
		Status:    document.Status,
		Items:     items,
	}
	if document.ScheduledDate != nil {
		view.ScheduledDate = document.ScheduledDate.Format(time.RFC1123)
	}
	var buf bytes.Buffer
	if err := documentTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func decodeItems(arr types.JSONBArray, out any) error {
	raw, err := json.Marshal(arr)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
