package models

import "github.com/shopspring/decimal"

// OrderDraft is the lightweight value type used for pre-checkout previews and
// estimation. It is assembled from the session cart and never persisted;
// the Order entity is only created once checkout commits.
type OrderDraft struct {
	Customer    *User
	Lines       []DraftLine
	Sellers     []User
	TotalAmount decimal.Decimal
	TotalItems  int
}

type DraftLine struct {
	Product *Product
	Qty     int
}

// DominantCategory is the mode of the draft's product categories. Ties break
// deterministically to the category first encountered among those with the
// highest count, following line order.
func (d *OrderDraft) DominantCategory() string {
	counts := map[string]int{}
	var order []string
	for _, line := range d.Lines {
		cat := line.Product.Category
		if cat == "" {
			continue
		}
		if _, seen := counts[cat]; !seen {
			order = append(order, cat)
		}
		counts[cat]++
	}

	dominant := "unknown"
	best := 0
	for _, cat := range order {
		if counts[cat] > best {
			best = counts[cat]
			dominant = cat
		}
	}
	return dominant
}
