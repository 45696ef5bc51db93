package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/zedlink-test/My-Shop/internal/domain"
)

// The shop operates on Algerian time.
var shopZone = time.FixedZone("CET", 60*60)

var markdownEscaper = strings.NewReplacer(
	"_", `\_`,
	"*", `\*`,
	"`", "\\`",
	"[", `\[`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatOrder renders the operator summary of an order in Telegram Markdown.
func FormatOrder(o *domain.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📦 *NEW ORDER #%s*\n", escape(shortID(o.ID)))
	b.WriteString("----------------------------\n")
	fmt.Fprintf(&b, "👤 *Customer*: %s\n", escape(o.Customer.FullName))
	fmt.Fprintf(&b, "📱 *Phone*: %s\n", escape(o.Customer.Phone))
	fmt.Fprintf(&b, "📍 *Address*: %s\n", escape(o.Customer.Address))
	fmt.Fprintf(&b, "🏙 *Location*: %s, %s\n", escape(o.Customer.Commune), escape(o.Customer.Wilaya))
	b.WriteString("\n🛒 *Items*:\n")

	for i, item := range o.Items {
		if i > 0 {
			b.WriteString("\n")
		}
		size := item.Size
		if size == "" {
			size = "Standard"
		}
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, escape(item.Name))
		fmt.Fprintf(&b, "   Quantity: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   Size: %s\n", escape(size))
		fmt.Fprintf(&b, "   Price: %s %s\n", item.FinalPrice.String(), domain.Currency)
	}

	fmt.Fprintf(&b, "\n🚚 *Delivery*: %s %s\n", o.DeliveryFee.String(), domain.Currency)
	fmt.Fprintf(&b, "💰 *TOTAL*: %s %s\n", o.Total.String(), domain.Currency)
	b.WriteString("----------------------------\n")
	fmt.Fprintf(&b, "📅 %s", o.CreatedAt.In(shopZone).Format("2006-01-02 15:04"))

	return b.String()
}
