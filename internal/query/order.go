package query

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/mcoot/playerbase/internal/model"
)

// Order is the sort key of a player listing. Sorting is always ascending.
type Order string

const (
	OrderID         Order = "ID"
	OrderName       Order = "NAME"
	OrderExperience Order = "EXPERIENCE"
	OrderBirthday   Order = "BIRTHDAY"
	OrderLevel      Order = "LEVEL"
)

// ParseOrder converts a query parameter to an Order. Empty means OrderID.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.TrimSpace(s)); o {
	case "":
		return OrderID, nil
	case OrderID, OrderName, OrderExperience, OrderBirthday, OrderLevel:
		return o, nil
	default:
		return "", fmt.Errorf("%w: unknown order %q", model.ErrInvalidInput, s)
	}
}

// Compare orders two players by the sort key, breaking ties by id
func (o Order) Compare(a, b *model.Player) int {
	var c int
	switch o {
	case OrderName:
		c = strings.Compare(a.Name, b.Name)
	case OrderExperience:
		c = cmp.Compare(a.Experience, b.Experience)
	case OrderBirthday:
		c = a.Birthday.Compare(b.Birthday)
	case OrderLevel:
		c = cmp.Compare(a.Level, b.Level)
	}
	if c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
