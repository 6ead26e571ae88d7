// Package cart holds the browsing session's in-memory shopping cart.
package cart

import "github.com/dendyfood/dendyfood-api/models"

// Line is one cart entry. Quantity is always at least 1.
type Line struct {
	FoodItem models.FoodItem
	Quantity int
}

// Cart keeps at most one line per food item id, in the order items were first added.
// The zero value is an empty cart ready to use.
type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

func (c *Cart) indexOf(itemID uint) int {
	for i := range c.lines {
		if c.lines[i].FoodItem.ID == itemID {
			return i
		}
	}
	return -1
}

// Add puts one more unit of item into the cart.
func (c *Cart) Add(item models.FoodItem) {
	if i := c.indexOf(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, Line{FoodItem: item, Quantity: 1})
}

// Remove takes one unit of the item out of the cart and drops the line at zero.
// Removing an item that is not in the cart does nothing.
func (c *Cart) Remove(itemID uint) {
	i := c.indexOf(itemID)
	if i < 0 {
		return
	}
	if c.lines[i].Quantity > 1 {
		c.lines[i].Quantity--
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

func (c *Cart) Total() models.Money {
	var total models.Money
	for _, line := range c.lines {
		total += line.FoodItem.Price.Times(line.Quantity)
	}
	return total
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Quantity of the item in the cart, 0 when absent.
func (c *Cart) Quantity(itemID uint) int {
	if i := c.indexOf(itemID); i >= 0 {
		return c.lines[i].Quantity
	}
	return 0
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, line := range c.lines {
		n += line.Quantity
	}
	return n
}

func (c *Cart) Len() int {
	return len(c.lines)
}

func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

func (c *Cart) Clear() {
	c.lines = nil
}
