package notify

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/markberon/sari-store-backend/pkg/enums"
	"github.com/markberon/sari-store-backend/pkg/format"
)

// OrderData carries everything the owner notification renders. Values are
// the frozen checkout copies, never live catalog reads.
type OrderData struct {
	OrderNumber     string
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerNotes   *string
	Items           []OrderLine
	Subtotal        decimal.Decimal
	DeliveryFee     decimal.Decimal
	Total           decimal.Decimal
	PaymentMethod   enums.PaymentMethod
	GCashReference  *string
	PlacedAt        time.Time
}

// OrderLine is one frozen item on the notification.
type OrderLine struct {
	Name     string
	Price    decimal.Decimal
	Quantity int
}

// Email is a rendered message ready for any channel.
type Email struct {
	To      string
	From    string
	Subject string
	Text    string
	HTML    string
}

var manila = mustLoadManila()

func mustLoadManila() *time.Location {
	loc, err := time.LoadLocation("Asia/Manila")
	if err != nil {
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// BuildOrderEmail renders the owner notification for a new order.
func BuildOrderEmail(storeName, ownerEmail, from string, data OrderData) Email {
	placed := data.PlacedAt
	if placed.IsZero() {
		placed = time.Now()
	}
	dateTime := placed.In(manila).Format("Monday, January 2, 2006 3:04 PM")

	subject := fmt.Sprintf("New Order #%s - %s", data.OrderNumber, format.Peso(data.Total))

	return Email{
		To:      ownerEmail,
		From:    fmt.Sprintf("%s <%s>", storeName, from),
		Subject: subject,
		Text:    buildTextBody(storeName, dateTime, data),
		HTML:    buildHTMLBody(storeName, dateTime, data),
	}
}

func buildTextBody(storeName, dateTime string, data OrderData) string {
	rule := strings.Repeat("=", 40)
	thin := strings.Repeat("-", 40)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\nNEW ORDER RECEIVED - %s\n%s\n\n", rule, storeName, rule)

	fmt.Fprintf(&b, "ORDER DETAILS\n%s\n", thin)
	fmt.Fprintf(&b, "Order Number: %s\n", data.OrderNumber)
	fmt.Fprintf(&b, "Date & Time: %s\n\n", dateTime)

	fmt.Fprintf(&b, "CUSTOMER INFORMATION\n%s\n", thin)
	fmt.Fprintf(&b, "Name: %s\n", data.CustomerName)
	fmt.Fprintf(&b, "Phone: %s\n", format.MobileForDisplay(data.CustomerPhone))
	fmt.Fprintf(&b, "Address: %s\n", data.CustomerAddress)
	if data.CustomerNotes != nil && *data.CustomerNotes != "" {
		fmt.Fprintf(&b, "Special Instructions: %s\n", *data.CustomerNotes)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "ORDER ITEMS\n%s\n", thin)
	for _, item := range data.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "- %s x%d = %s\n", item.Name, item.Quantity, format.Peso(lineTotal))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "PAYMENT SUMMARY\n%s\n", thin)
	fmt.Fprintf(&b, "Subtotal: %s\n", format.Peso(data.Subtotal))
	if data.DeliveryFee.IsZero() {
		b.WriteString("Delivery Fee: FREE\n")
	} else {
		fmt.Fprintf(&b, "Delivery Fee: %s\n", format.Peso(data.DeliveryFee))
	}
	fmt.Fprintf(&b, "TOTAL: %s\n\n", format.Peso(data.Total))

	fmt.Fprintf(&b, "Payment Method: %s\n", data.PaymentMethod.Label())
	if data.GCashReference != nil && *data.GCashReference != "" {
		fmt.Fprintf(&b, "GCash Reference: %s\n", *data.GCashReference)
	}

	fmt.Fprintf(&b, "\n%s\nPlease prepare this order for delivery.\n%s\n", rule, rule)
	return b.String()
}

func buildHTMLBody(storeName, dateTime string, data OrderData) string {
	var items strings.Builder
	for _, item := range data.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&items,
			`<tr><td style="padding:6px 0;">%s x%d</td><td style="padding:6px 0;text-align:right;">%s</td></tr>`,
			html.EscapeString(item.Name), item.Quantity, format.Peso(lineTotal))
	}

	deliveryFee := format.Peso(data.DeliveryFee)
	if data.DeliveryFee.IsZero() {
		deliveryFee = "FREE"
	}

	notes := ""
	if data.CustomerNotes != nil && *data.CustomerNotes != "" {
		notes = fmt.Sprintf(`<p style="margin:4px 0;"><strong>Notes:</strong> %s</p>`,
			html.EscapeString(*data.CustomerNotes))
	}

	reference := ""
	if data.GCashReference != nil && *data.GCashReference != "" {
		reference = fmt.Sprintf(`<p style="margin:4px 0;"><strong>GCash Reference:</strong> %s</p>`,
			html.EscapeString(*data.GCashReference))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>New Order - %[1]s</title></head>
<body style="margin:0;padding:0;font-family:Segoe UI,Tahoma,sans-serif;background-color:#f4f4f5;">
  <div style="max-width:600px;margin:20px auto;background:#ffffff;border-radius:16px;overflow:hidden;">
    <div style="background:linear-gradient(135deg,#22c55e 0%%,#16a34a 100%%);padding:30px 40px;text-align:center;">
      <h1 style="margin:0;color:#ffffff;font-size:28px;">New Order</h1>
      <p style="margin:10px 0 0 0;color:rgba(255,255,255,0.9);">%[2]s</p>
      <p style="margin:5px 0 0 0;color:rgba(255,255,255,0.7);font-size:14px;">%[3]s</p>
    </div>
    <div style="padding:20px 40px;">
      <p style="margin:4px 0;"><strong>Customer:</strong> %[4]s</p>
      <p style="margin:4px 0;"><strong>Phone:</strong> %[5]s</p>
      <p style="margin:4px 0;"><strong>Address:</strong> %[6]s</p>
      %[7]s
      <table style="width:100%%;border-collapse:collapse;margin:16px 0;">%[8]s</table>
      <p style="margin:4px 0;">Subtotal: %[9]s</p>
      <p style="margin:4px 0;">Delivery Fee: %[10]s</p>
      <p style="margin:8px 0;font-size:20px;"><strong>Total: %[11]s</strong></p>
      <p style="margin:4px 0;"><strong>Payment:</strong> %[12]s</p>
      %[13]s
    </div>
  </div>
</body>
</html>`,
		html.EscapeString(storeName),
		html.EscapeString(data.OrderNumber),
		dateTime,
		html.EscapeString(data.CustomerName),
		format.MobileForDisplay(data.CustomerPhone),
		html.EscapeString(data.CustomerAddress),
		notes,
		items.String(),
		format.Peso(data.Subtotal),
		deliveryFee,
		format.Peso(data.Total),
		data.PaymentMethod.Label(),
		reference,
	)
}
