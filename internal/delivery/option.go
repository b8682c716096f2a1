package delivery

import "fmt"

// Option is one way a store can get an order to the customer.
type Option struct {
	LeadTime    string `json:"prazo"`
	Price       string `json:"price"`
	Description string `json:"description"`
	ProductCode string `json:"codProdutoAgencia,omitempty"`
	Company     string `json:"company,omitempty"`
}

// FormatPrice renders an amount in reais, e.g. "R$ 27.00".
func FormatPrice(amount float64) string {
	return fmt.Sprintf("R$ %.2f", amount)
}

// FormatLeadTime renders business days: "1 dia útil", "N dias úteis".
func FormatLeadTime(days int) string {
	if days == 1 {
		return "1 dia útil"
	}
	return fmt.Sprintf("%d dias úteis", days)
}

// FormatDistance renders meters as kilometers with one decimal, e.g. "12.3 km".
func FormatDistance(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}
