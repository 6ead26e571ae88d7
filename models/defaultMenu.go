package models

type defaultEntry struct {
	nameUz   string
	nameRu   string
	price    int64
	category Category
}

var defaultEntries = []defaultEntry{
	{"Hotdog 5 tasi 1 da", "Хотдог 5 штук за 1", 10000, CategoryHotdog},
	{"Hotdog 5 tasi 1 da (Big)", "Хотдог 5 штук за 1 (Большой)", 15000, CategoryHotdog},
	{"Gamburger 5 tasi 1 da", "Гамбургер 5 штук за 1", 12000, CategoryBurger},
	{"Chicken Burger 5 tasi 1 da", "Чикен Бургер 5 штук за 1", 13000, CategoryBurger},
	{"Gamburger", "Гамбургер", 8000, CategoryBurger},
	{"DablBurger", "ДаблБургер", 15000, CategoryBurger},
	{"Chizburger", "Чизбургер", 9000, CategoryBurger},
	{"DablChizburger", "ДаблЧизбургер", 17000, CategoryBurger},
	{"ChickenDog 5 tasi 1 da", "ЧикенДог 5 штук за 1", 11000, CategoryHotdog},
	{"Hot-Dog", "Хот-Дог", 7000, CategoryHotdog},
	{"Hot-Dog (big)", "Хот-Дог (большой)", 10000, CategoryHotdog},
	{"Kartoshka Fri", "Картошка Фри", 6000, CategorySides},
	{"Coca Cola 0.5", "Кока Кола 0.5", 4000, CategoryDrinks},
	{"ChickenBurger", "ЧикенБургер", 10000, CategoryBurger},
	{"IceCoffee", "АйсКофе", 8000, CategoryDrinks},
	{"Klab Sendwich", "Клаб Сэндвич", 14000, CategorySandwich},
	{"Klab Sendwich Fri bilan", "Клаб Сэндвич с Фри", 18000, CategoryCombo},
	{"Fri va Cola", "Фри и Кола", 10000, CategoryCombo},
	{"Naggets 4", "Наггетсы 4", 8000, CategorySides},
	{"Naggets 8", "Наггетсы 8", 14000, CategorySides},
	{"Strips", "Стрипсы", 12000, CategorySides},
	{"Moxito Classic", "Мохито Классик", 9000, CategoryDrinks},
	{"Combo 2", "Комбо 2", 20000, CategoryCombo},
	{"Chizburger set 4", "Чизбургер сет 4", 25000, CategoryCombo},
	{"Gigant Hot-Dog", "Гигант Хот-Дог", 12000, CategoryHotdog},
	{"Ice-Tea", "Айс-Ти", 5000, CategoryDrinks},
}

// DefaultMenu returns the house catalog with sequential ids starting at 1.
// It seeds fresh databases and backs the storefront when the API is unreachable.
func DefaultMenu() []FoodItem {
	items := make([]FoodItem, 0, len(defaultEntries))
	for i, e := range defaultEntries {
		items = append(items, FoodItem{
			ID:        uint(i + 1),
			NameUz:    e.nameUz,
			NameRu:    e.nameRu,
			Price:     Soum(e.price),
			Category:  e.category,
			Available: true,
		})
	}
	return items
}
