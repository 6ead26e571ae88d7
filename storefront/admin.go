package storefront

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dendyfood/dendyfood-api/lang"
	"github.com/dendyfood/dendyfood-api/models"
)

var (
	ErrMissingField     = errors.New("required field is empty")
	ErrNotAuthenticated = errors.New("admin session is not authenticated")
	ErrDeleteCancelled  = errors.New("delete cancelled")
)

// MissingFieldError names the empty form field. It matches ErrMissingField.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return ErrMissingField.Error() + ": " + e.Field
}

func (e *MissingFieldError) Is(target error) bool {
	return target == ErrMissingField
}

// ItemForm is the admin add/edit form. ID 0 means a new item.
type ItemForm struct {
	ID          uint
	NameUz      string
	NameRu      string
	Description string
	Price       string
	ImageURL    string
	Category    models.Category
	Available   bool
}

// FormFor fills the edit form from an existing item.
func FormFor(item models.FoodItem) ItemForm {
	form := ItemForm{
		ID:        item.ID,
		NameUz:    item.NameUz,
		NameRu:    item.NameRu,
		Price:     item.Price.String(),
		Category:  item.Category,
		Available: item.Available,
	}
	if item.Description != nil {
		form.Description = *item.Description
	}
	if item.ImageURL != nil {
		form.ImageURL = *item.ImageURL
	}
	return form
}

func (f ItemForm) validate() error {
	required := []struct {
		name, value string
	}{
		{"nameUz", f.NameUz},
		{"nameRu", f.NameRu},
		{"price", f.Price},
		{"category", string(f.Category)},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return &MissingFieldError{Field: field.name}
		}
	}
	if _, err := models.ParseMoney(strings.TrimSpace(f.Price)); err != nil {
		return err
	}
	return nil
}

// request builds the API payload. On edits blank optional fields are sent
// as "" so the server clears them; on create they are left out.
func (f ItemForm) request() FoodItemRequest {
	req := FoodItemRequest{
		NameUz:    strings.TrimSpace(f.NameUz),
		NameRu:    strings.TrimSpace(f.NameRu),
		Price:     strings.TrimSpace(f.Price),
		Category:  f.Category,
		Available: &f.Available,
	}
	if d := strings.TrimSpace(f.Description); d != "" || f.ID != 0 {
		req.Description = &d
	}
	if u := strings.TrimSpace(f.ImageURL); u != "" || f.ID != 0 {
		req.ImageURL = &u
	}
	return req
}

// Admin is the admin panel session. It is not safe for concurrent use.
type Admin struct {
	client  *Client
	menu    *MenuService
	toaster Toaster
	lang    lang.Lang
	now     func() time.Time

	token     string
	expiresAt time.Time
	items     []models.FoodItem
}

func NewAdmin(client *Client, menu *MenuService, toaster Toaster, l lang.Lang) *Admin {
	return &Admin{
		client:  client,
		menu:    menu,
		toaster: orDiscard(toaster),
		lang:    l,
		now:     time.Now,
	}
}

func (a *Admin) notify(titleKey, descKey string) {
	a.toaster.Toast(Notice{Title: lang.T(a.lang, titleKey), Description: lang.T(a.lang, descKey)})
}

func (a *Admin) fail(description string) {
	a.toaster.Toast(Notice{Title: lang.T(a.lang, "error"), Description: description, Destructive: true})
}

// Login authenticates against the API. On failure the session stays unauthenticated.
func (a *Admin) Login(ctx context.Context, username, password string) error {
	result, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.Logout()
		a.fail(lang.T(a.lang, "invalid_credentials"))
		return err
	}
	a.token = result.Token
	a.expiresAt = result.ExpiresAt
	a.notify("login_success", "login_success_desc")
	return nil
}

func (a *Admin) Authenticated() bool {
	return a.token != "" && a.now().Before(a.expiresAt)
}

func (a *Admin) Logout() {
	a.token = ""
	a.expiresAt = time.Time{}
}

// ExpiresAt is when the current session token stops being accepted.
func (a *Admin) ExpiresAt() time.Time { return a.expiresAt }

func (a *Admin) sessionToken() (string, error) {
	if !a.Authenticated() {
		a.Logout()
		return "", ErrNotAuthenticated
	}
	return a.token, nil
}

// apiFailed drops the session when the API no longer accepts the token.
func (a *Admin) apiFailed(err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		a.Logout()
	}
}

// Refresh reloads the item list through the shared MenuService.
func (a *Admin) Refresh(ctx context.Context) Menu {
	menu, err := a.menu.Fetch(ctx)
	if err != nil || menu.Stale {
		a.fail(lang.T(a.lang, "load_failed"))
	}
	a.items = menu.Items
	return menu
}

func (a *Admin) Items() []models.FoodItem {
	return cloneItems(a.items)
}

// Save creates the item when form.ID is 0 and updates it otherwise.
func (a *Admin) Save(ctx context.Context, form ItemForm) (models.FoodItem, error) {
	token, err := a.sessionToken()
	if err != nil {
		return models.FoodItem{}, err
	}
	if err := form.validate(); err != nil {
		var missing *MissingFieldError
		if errors.As(err, &missing) {
			a.fail(lang.Tf(a.lang, "missing_field", missing.Field))
		} else {
			a.fail(lang.T(a.lang, "operation_failed"))
		}
		return models.FoodItem{}, err
	}

	var item models.FoodItem
	if form.ID == 0 {
		item, err = a.client.CreateFoodItem(ctx, token, form.request())
	} else {
		item, err = a.client.UpdateFoodItem(ctx, token, form.ID, form.request())
	}
	if err != nil {
		a.apiFailed(err)
		a.fail(lang.T(a.lang, "operation_failed"))
		return models.FoodItem{}, err
	}

	if form.ID == 0 {
		a.notify("created", "created_desc")
	} else {
		a.notify("updated", "updated_desc")
	}
	a.Refresh(ctx)
	return item, nil
}

// Delete removes an item after confirm approves the localized question.
// A declined or missing confirmation sends nothing.
func (a *Admin) Delete(ctx context.Context, id uint, confirm func(question string) bool) error {
	token, err := a.sessionToken()
	if err != nil {
		return err
	}
	if confirm == nil || !confirm(lang.T(a.lang, "delete_confirm")) {
		return ErrDeleteCancelled
	}

	if err := a.client.DeleteFoodItem(ctx, token, id); err != nil {
		a.apiFailed(err)
		a.fail(lang.T(a.lang, "delete_failed"))
		return err
	}

	a.notify("deleted", "deleted_desc")
	a.Refresh(ctx)
	return nil
}

// UploadImage uploads an image and puts its URL into the form.
func (a *Admin) UploadImage(ctx context.Context, form *ItemForm, filename string, image io.Reader) error {
	token, err := a.sessionToken()
	if err != nil {
		return err
	}

	url, err := a.client.UploadImage(ctx, token, filename, image)
	if err != nil {
		a.apiFailed(err)
		a.fail(lang.T(a.lang, "image_upload_failed"))
		return err
	}

	form.ImageURL = url
	a.notify("image_uploaded", "image_uploaded_desc")
	return nil
}

// Orders lists submitted orders, newest first.
func (a *Admin) Orders(ctx context.Context) ([]models.Order, error) {
	token, err := a.sessionToken()
	if err != nil {
		return nil, err
	}
	orders, err := a.client.Orders(ctx, token)
	if err != nil {
		a.apiFailed(err)
		return nil, err
	}
	return orders, nil
}
