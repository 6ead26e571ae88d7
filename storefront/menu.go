package storefront

import (
	"context"
	"sync"

	"github.com/dendyfood/dendyfood-api/lang"
	"github.com/dendyfood/dendyfood-api/models"
)

// Menu is what the UI renders. Stale means the items did not come from a live
// catalog read: they are the last good listing, the API's own snapshot, or the
// built-in default catalog.
type Menu struct {
	Items []models.FoodItem
	Stale bool
}

// MenuService fetches the menu and falls back the same way for every caller.
type MenuService struct {
	client *Client

	mu   sync.Mutex
	last []models.FoodItem
}

func NewMenuService(client *Client) *MenuService {
	return &MenuService{client: client}
}

// Fetch always returns a menu. The error reports why it is stale.
func (m *MenuService) Fetch(ctx context.Context) (Menu, error) {
	result, err := m.client.FoodItems(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		if m.last != nil {
			return Menu{Items: cloneItems(m.last), Stale: true}, err
		}
		return Menu{Items: models.DefaultMenu(), Stale: true}, err
	}

	m.last = cloneItems(result.Items)
	return Menu{Items: result.Items, Stale: result.Cached}, nil
}

func cloneItems(items []models.FoodItem) []models.FoodItem {
	return append(make([]models.FoodItem, 0, len(items)), items...)
}

// Section is one category block of the menu page.
type Section struct {
	Category models.Category
	Title    string
	Items    []models.FoodItem
}

// Sections groups items by category in display order. Empty categories are
// left out and items with an unknown category are not shown.
func Sections(items []models.FoodItem, l lang.Lang) []Section {
	byCategory := make(map[models.Category][]models.FoodItem)
	for _, item := range items {
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	var sections []Section
	for _, category := range models.Categories {
		if len(byCategory[category]) == 0 {
			continue
		}
		sections = append(sections, Section{
			Category: category,
			Title:    lang.Category(l, string(category)),
			Items:    byCategory[category],
		})
	}
	return sections
}
