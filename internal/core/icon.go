package core

import "encoding/json"

// Icon is the closed set of category icons. IconFallback stands in for any
// name outside the set; it renders like IconShoppingCart but stays
// distinguishable from a category that chose the cart on purpose.
type Icon int

const (
	IconFallback Icon = iota
	IconShoppingCart
	IconUtensils
	IconHome
	IconCar
	IconDollarSign
	IconFilm
	IconHeart
	IconZap
	IconPhone
	IconCoffee
	IconGift
)

var iconNames = [...]string{
	IconFallback:     "ShoppingCart",
	IconShoppingCart: "ShoppingCart",
	IconUtensils:     "Utensils",
	IconHome:         "Home",
	IconCar:          "Car",
	IconDollarSign:   "DollarSign",
	IconFilm:         "Film",
	IconHeart:        "Heart",
	IconZap:          "Zap",
	IconPhone:        "Phone",
	IconCoffee:       "Coffee",
	IconGift:         "Gift",
}

var iconLabels = [...]string{
	IconFallback:     "Shopping Cart",
	IconShoppingCart: "Shopping Cart",
	IconUtensils:     "Utensils",
	IconHome:         "Home",
	IconCar:          "Car",
	IconDollarSign:   "Dollar Sign",
	IconFilm:         "Film",
	IconHeart:        "Heart",
	IconZap:          "Utilities",
	IconPhone:        "Phone",
	IconCoffee:       "Coffee",
	IconGift:         "Gift",
}

// ParseIcon maps a stored icon name to its Icon, or IconFallback.
func ParseIcon(name string) Icon {
	for i := IconShoppingCart; i <= IconGift; i++ {
		if iconNames[i] == name {
			return i
		}
	}
	return IconFallback
}

// Icons lists the selectable icons in menu order.
func Icons() []Icon {
	out := make([]Icon, 0, len(iconNames)-1)
	for i := IconShoppingCart; i <= IconGift; i++ {
		out = append(out, i)
	}
	return out
}

// String returns the icon name used by the client's icon set.
func (i Icon) String() string {
	if i < 0 || int(i) >= len(iconNames) {
		return iconNames[IconFallback]
	}
	return iconNames[i]
}

// Label is the human readable menu label.
func (i Icon) Label() string {
	if i < 0 || int(i) >= len(iconLabels) {
		return iconLabels[IconFallback]
	}
	return iconLabels[i]
}

func (i Icon) IsFallback() bool {
	return i == IconFallback
}

func (i Icon) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string `json:"name"`
		Label    string `json:"label"`
		Fallback bool   `json:"fallback"`
	}{i.String(), i.Label(), i.IsFallback()})
}
