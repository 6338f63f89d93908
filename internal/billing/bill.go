// internal/billing/bill.go
package billing

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/POSTANYIDEAS/Ecommerce/internal/services"
)

// Filename returns the download name for an order's bill.
func Filename(order *services.OrderView) string {
	if order.BillNumber != "" {
		return fmt.Sprintf("Bill-%s.html", order.BillNumber)
	}
	return fmt.Sprintf("Bill-%s.html", order.ID)
}

// Render produces the printable HTML receipt for an order. Line totals and
// the grand total come straight from the stored snapshot amounts.
func Render(order *services.OrderView) ([]byte, error) {
	var buf bytes.Buffer
	if err := billTemplate.Execute(&buf, order); err != nil {
		return nil, fmt.Errorf("failed to render bill: %w", err)
	}
	return buf.Bytes(), nil
}

var billTemplate = template.Must(template.New("bill").Funcs(template.FuncMap{
	"lineTotal": func(item services.OrderItemView) string {
		return item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).StringFixed(2)
	},
	"unitPrice": func(item services.OrderItemView) string {
		return item.Price.StringFixed(2)
	},
	"itemName": func(item services.OrderItemView) string {
		if item.ProductName != "" {
			return item.ProductName
		}
		return "(product no longer available)"
	},
}).Parse(billHTML))

const billHTML = `<!DOCTYPE html>
<html>
<head>
  <title>Order Bill - {{.BillNumber}}</title>
  <style>
    body { font-family: Arial, sans-serif; margin: 20px; line-height: 1.6; }
    .header { text-align: center; border-bottom: 2px solid #333; padding-bottom: 20px; margin-bottom: 20px; }
    .details { margin: 20px 0; }
    .items { margin: 20px 0; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    th, td { border: 1px solid #ddd; padding: 12px; text-align: left; }
    th { background-color: #f2f2f2; font-weight: bold; }
    .total { font-weight: bold; font-size: 1.2em; margin-top: 20px; }
    .company-info { margin-bottom: 20px; }
    .footer { margin-top: 30px; text-align: center; font-size: 0.9em; color: #666; }
  </style>
</head>
<body>
  <div class="company-info">
    <h1>E-Shop</h1>
    <p>Your Trusted Online Store</p>
  </div>

  <div class="header">
    <h2>Order Bill</h2>
    <p><strong>Bill Number:</strong> {{if .BillNumber}}{{.BillNumber}}{{else}}N/A{{end}}</p>
    <p><strong>Order ID:</strong> #{{.ID}}</p>
    <p><strong>Date:</strong> {{.CreatedAt.Format "02 Jan 2006"}}</p>
  </div>

  <div class="details">
    <h3>Customer Details:</h3>
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    <p><strong>Phone:</strong> {{.Phone}}</p>
    <p><strong>Address:</strong> {{.Address}}, {{.City}}, {{.State}} - {{.Pincode}}</p>
  </div>

  <div class="items">
    <h3>Order Items:</h3>
    <table>
      <thead>
        <tr>
          <th>Item</th>
          <th>Quantity</th>
          <th>Unit Price</th>
          <th>Total</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>{{itemName .}}</td>
          <td>{{.Quantity}}</td>
          <td>&#8377;{{unitPrice .}}</td>
          <td>&#8377;{{lineTotal .}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>
  </div>

  <div class="total">
    <p><strong>Payment Method:</strong> {{.PaymentMethod}}</p>
    <p><strong>Payment Status:</strong> {{.PaymentStatus}}</p>
    <p><strong>Order Status:</strong> {{.Status}}</p>
    <hr>
    <p style="font-size: 1.3em;"><strong>Total Amount: &#8377;{{.TotalAmount.StringFixed 2}}</strong></p>
  </div>

  <div class="footer">
    <p>Thank you for shopping with E-Shop!</p>
    <p>For any queries, contact us at support@eshop.com</p>
  </div>
</body>
</html>
`
