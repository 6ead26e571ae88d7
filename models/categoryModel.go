package models

type Category string

const (
	CategoryHotdog   Category = "hotdog"
	CategoryBurger   Category = "burger"
	CategorySandwich Category = "sandwich"
	CategorySides    Category = "sides"
	CategoryDrinks   Category = "drinks"
	CategoryCombo    Category = "combo"
)

// Categories lists every category in menu display order.
var Categories = []Category{
	CategoryHotdog,
	CategoryBurger,
	CategorySandwich,
	CategorySides,
	CategoryDrinks,
	CategoryCombo,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
