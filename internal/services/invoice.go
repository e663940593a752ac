package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/raadistore/storefront-platform/internal/errors"
	"github.com/raadistore/storefront-platform/internal/models"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type InvoiceService interface {
	RenderInvoice(ctx context.Context, claims *models.Claims, orderID uuid.UUID) ([]byte, error)
}

type invoiceService struct {
	orders    OrderService
	sanitizer *bluemonday.Policy
	tmpl      *template.Template
}

func NewInvoiceService(orders OrderService) InvoiceService {
	return &invoiceService{
		orders:    orders,
		sanitizer: bluemonday.StrictPolicy(),
		tmpl:      template.Must(template.New("invoice").Parse(invoiceTemplate)),
	}
}

// RenderInvoice lays out the finalized order snapshot as an HTML document.
// It is a pure read of stored order data; live catalog state never leaks in.
// Access is restricted to the owning user or an admin.
func (s *invoiceService) RenderInvoice(ctx context.Context, claims *models.Claims, orderID uuid.UUID) ([]byte, error) {

	order, err := s.orders.GetOrder(ctx, claims, orderID)
	if err != nil {
		return nil, err
	}

	data := invoiceData{
		Order:         order,
		CustomerName:  s.sanitizer.Sanitize(order.CustomerName),
		CustomerEmail: s.sanitizer.Sanitize(order.CustomerEmail),
		CustomerPhone: s.sanitizer.Sanitize(order.CustomerPhone),
		IssuedAt:      order.CreatedAt.Format("02 Jan 2006"),
	}

	if order.ShippingAddress != nil {
		data.Address = s.sanitizer.Sanitize(fmt.Sprintf("%s, %s, %s %s, %s",
			order.ShippingAddress.Street, order.ShippingAddress.City,
			order.ShippingAddress.State, order.ShippingAddress.PostalCode,
			order.ShippingAddress.Country))
	}

	var buf bytes.Buffer

	if err := s.tmpl.Execute(&buf, data); err != nil {
		return nil, errors.InternalError("Failed to render invoice").WithError(err)
	}

	return buf.Bytes(), nil
}

type invoiceData struct {
	Order         *models.Order
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string
	IssuedAt      string
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.Order.ID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; color: #222; }
table { border-collapse: collapse; width: 100%; margin-top: 1em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
.totals td { border: none; text-align: right; }
</style>
</head>
<body>
<h1>Invoice</h1>
<p>Order <strong>{{.Order.ID}}</strong> &middot; issued {{.IssuedAt}}</p>
<p>
{{.CustomerName}}<br>
{{.CustomerEmail}}<br>
{{.CustomerPhone}}<br>
{{.Address}}
</p>
<table>
<tr><th>Item</th><th>Quantity</th><th>Unit price</th><th>Amount</th></tr>
{{range .Order.Items}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .UnitPrice}}</td><td>{{printf "%.2f" .Amount}}</td></tr>
{{end}}
</table>
<table class="totals">
<tr><td>Subtotal</td><td>{{printf "%.2f" .Order.Subtotal}}</td></tr>
{{if .Order.Discount}}<tr><td>Discount{{if .Order.PromoCode}} ({{.Order.PromoCode}}){{end}}</td><td>-{{printf "%.2f" .Order.Discount}}</td></tr>{{end}}
<tr><td>Tax</td><td>{{printf "%.2f" .Order.Tax}}</td></tr>
<tr><td>Shipping</td><td>{{printf "%.2f" .Order.ShippingCharge}}</td></tr>
<tr><td><strong>Total</strong></td><td><strong>{{printf "%.2f" .Order.TotalAmount}}</strong></td></tr>
</table>
<p>Payment: {{.Order.PaymentMethod}} ({{.Order.PaymentStatus}})</p>
</body>
</html>`
