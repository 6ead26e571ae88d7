package storefront

// Notice is a transient message shown to the user.
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

// Toaster displays notices.
type Toaster interface {
	Toast(n Notice)
}

// ToasterFunc adapts a function to Toaster.
type ToasterFunc func(Notice)

func (f ToasterFunc) Toast(n Notice) { f(n) }

type discardToaster struct{}

func (discardToaster) Toast(Notice) {}

func orDiscard(t Toaster) Toaster {
	if t == nil {
		return discardToaster{}
	}
	return t
}
