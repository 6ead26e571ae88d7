package storefront

import (
	"context"
	"errors"

	"github.com/dendyfood/dendyfood-api/cart"
	"github.com/dendyfood/dendyfood-api/lang"
	"github.com/dendyfood/dendyfood-api/models"
	"github.com/google/uuid"
)

var ErrEmptyCart = errors.New("cart is empty")

// Storefront is one customer's browsing session. It is not safe for concurrent use.
type Storefront struct {
	client  *Client
	menu    *MenuService
	toaster Toaster
	lang    lang.Lang

	items         []models.FoodItem
	cart          cart.Cart
	paymentMethod models.PaymentMethod
	checkoutOpen  bool

	// pendingKey identifies the current cart contents as one order submission
	// until the cart changes or the order goes through.
	pendingKey string
}

func New(client *Client, menu *MenuService, toaster Toaster, l lang.Lang) *Storefront {
	return &Storefront{
		client:        client,
		menu:          menu,
		toaster:       orDiscard(toaster),
		lang:          l,
		paymentMethod: models.PaymentCash,
	}
}

func (s *Storefront) Lang() lang.Lang     { return s.lang }
func (s *Storefront) SetLang(l lang.Lang) { s.lang = l }

// LoadMenu fetches the menu, falling back to the last good or default catalog.
func (s *Storefront) LoadMenu(ctx context.Context) Menu {
	menu, _ := s.menu.Fetch(ctx)
	s.items = menu.Items
	return menu
}

// Refresh reloads the menu and confirms it to the user.
func (s *Storefront) Refresh(ctx context.Context) Menu {
	menu := s.LoadMenu(ctx)
	s.toaster.Toast(Notice{Title: lang.T(s.lang, "refreshed"), Description: lang.T(s.lang, "refreshed_desc")})
	return menu
}

func (s *Storefront) Items() []models.FoodItem {
	return cloneItems(s.items)
}

func (s *Storefront) Sections() []Section {
	return Sections(s.items, s.lang)
}

func (s *Storefront) AddToCart(item models.FoodItem) {
	s.cart.Add(item)
	s.pendingKey = ""
	s.toaster.Toast(Notice{
		Title:       lang.T(s.lang, "added"),
		Description: lang.Tf(s.lang, "added_to_cart", item.Name(string(s.lang))),
	})
}

func (s *Storefront) RemoveFromCart(itemID uint) {
	if s.cart.Quantity(itemID) == 0 {
		return
	}
	s.cart.Remove(itemID)
	s.pendingKey = ""
}

func (s *Storefront) CartLines() []cart.Line { return s.cart.Lines() }
func (s *Storefront) CartCount() int         { return s.cart.Count() }

func (s *Storefront) TotalPrice() models.Money {
	return s.cart.Total()
}

func (s *Storefront) PaymentMethod() models.PaymentMethod { return s.paymentMethod }

func (s *Storefront) SetPaymentMethod(m models.PaymentMethod) {
	if m.Valid() && m != s.paymentMethod {
		s.paymentMethod = m
		s.pendingKey = ""
	}
}

func (s *Storefront) OpenCheckout()      { s.checkoutOpen = true }
func (s *Storefront) CloseCheckout()     { s.checkoutOpen = false }
func (s *Storefront) CheckoutOpen() bool { return s.checkoutOpen }

func (s *Storefront) orderRequest() OrderRequest {
	lines := s.cart.Lines()
	req := OrderRequest{
		TotalPrice:    s.cart.Total(),
		PaymentMethod: s.paymentMethod,
		Items:         make([]OrderLine, 0, len(lines)),
	}
	for _, line := range lines {
		req.Items = append(req.Items, OrderLine{
			FoodItemID: line.FoodItem.ID,
			Quantity:   line.Quantity,
			Price:      line.FoodItem.Price,
		})
	}
	return req
}

func (s *Storefront) fail(err error) error {
	s.toaster.Toast(Notice{Title: lang.T(s.lang, "error"), Description: lang.T(s.lang, "order_failed"), Destructive: true})
	return err
}

// PlaceOrder submits the cart. An empty cart is rejected without a request.
// On failure the cart is left as it was and nothing is retried; submitting the
// same cart again reuses its idempotency key.
func (s *Storefront) PlaceOrder(ctx context.Context) (models.Order, error) {
	if s.cart.IsEmpty() {
		s.toaster.Toast(Notice{Title: lang.T(s.lang, "error"), Description: lang.T(s.lang, "cart_empty"), Destructive: true})
		return models.Order{}, ErrEmptyCart
	}

	if s.pendingKey == "" {
		s.pendingKey = uuid.NewString()
	}

	order, err := s.client.CreateOrder(ctx, s.orderRequest(), s.pendingKey)
	if err != nil {
		return models.Order{}, s.fail(err)
	}

	s.cart.Clear()
	s.pendingKey = ""
	s.checkoutOpen = false
	s.toaster.Toast(Notice{Title: lang.T(s.lang, "order_accepted"), Description: lang.T(s.lang, "order_accepted_desc")})
	return order, nil
}
