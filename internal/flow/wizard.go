// Package flow implements the view flows of the storefront: the purchase
// wizard, the service detail/renewal flow, and the catalog list. Flows hold
// the per-view state and consume the backend adapter and host capabilities
// through interfaces only.
package flow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/amiranbari/telestore/internal/backend"
	"github.com/amiranbari/telestore/internal/errs"
	"github.com/amiranbari/telestore/internal/model"
	"github.com/amiranbari/telestore/internal/session"
)

// Step is a 1-indexed wizard state.
type Step int

const (
	StepSelectCategory Step = iota + 1
	StepSelectDuration
	StepSelectProduct
	StepConfirmPayment
)

// Title returns the progress label for a step.
func (s Step) Title() string {
	switch s {
	case StepSelectCategory:
		return "Category"
	case StepSelectDuration:
		return "Duration"
	case StepSelectProduct:
		return "Product"
	case StepConfirmPayment:
		return "Payment"
	}
	return fmt.Sprintf("Step %d", int(s))
}

// Wizard drives the linear category → duration → product → payment flow.
// Transitions are strictly one step at a time; going back clears the
// selection of the step that becomes active again.
type Wizard struct {
	api  backend.API
	host session.Host
	log  *zap.Logger

	step       Step
	categories []model.Category
	products   []model.Product
	category   *model.Category
	duration   *model.Duration
	product    *model.Product
	user       model.UserInfo
	purchasing bool
}

// NewWizard constructs a wizard positioned on the category step.
func NewWizard(api backend.API, host session.Host, log *zap.Logger) *Wizard {
	return &Wizard{api: api, host: host, log: log, step: StepSelectCategory}
}

// Start loads the category list and the wallet summary. A missing catalog is
// fatal for the flow and raises an alert; the wallet load is best-effort.
func (w *Wizard) Start(ctx context.Context) {
	w.categories = w.api.GetCategories(ctx)
	if len(w.categories) == 0 {
		w.host.Alert(msgCategoriesFailed)
	}
	w.user = w.api.GetUserInfo(ctx)
}

// Step returns the active state.
func (w *Wizard) Step() Step { return w.step }

// Categories returns the fetched category list.
func (w *Wizard) Categories() []model.Category { return w.categories }

// Products returns the filtered product list for the product step.
func (w *Wizard) Products() []model.Product { return w.products }

// Balance returns the wallet balance loaded at start.
func (w *Wizard) Balance() int64 { return w.user.WalletBalance }

// Purchasing reports whether a commit is in flight.
func (w *Wizard) Purchasing() bool { return w.purchasing }

// SelectCategory stores the chosen category and advances to the duration step.
func (w *Wizard) SelectCategory(id int64) error {
	if w.step != StepSelectCategory {
		return fmt.Errorf("wizard: not on category step")
	}
	for i := range w.categories {
		if w.categories[i].ID == id {
			w.category = &w.categories[i]
			w.host.Haptic(session.ImpactLight)
			w.step = StepSelectDuration
			return nil
		}
	}
	return fmt.Errorf("wizard: unknown category %d", id)
}

// SelectDuration stores the chosen plan length, fetches the catalog filtered
// to (category, days), and advances to the product step. The fetch completes
// before the step advances so the product list is ready to render.
func (w *Wizard) SelectDuration(ctx context.Context, days int) error {
	if w.step != StepSelectDuration {
		return fmt.Errorf("wizard: not on duration step")
	}
	var dur *model.Duration
	for i := range model.Durations {
		if model.Durations[i].Days == days {
			dur = &model.Durations[i]
			break
		}
	}
	if dur == nil {
		return fmt.Errorf("wizard: unknown duration %d days", days)
	}
	w.duration = dur
	w.host.Haptic(session.ImpactLight)

	all := w.api.GetProducts(ctx, w.category.ID)
	w.products = w.products[:0]
	for _, p := range all {
		if p.Days == days {
			w.products = append(w.products, p)
		}
	}
	w.step = StepSelectProduct
	return nil
}

// SelectProduct stores the chosen product and advances to the payment step.
func (w *Wizard) SelectProduct(id int64) error {
	if w.step != StepSelectProduct {
		return fmt.Errorf("wizard: not on product step")
	}
	for i := range w.products {
		if w.products[i].ID == id {
			w.product = &w.products[i]
			w.host.Haptic(session.ImpactLight)
			w.step = StepConfirmPayment
			return nil
		}
	}
	return fmt.Errorf("wizard: unknown product %d", id)
}

// Back steps one state backward and clears the selection of the step being
// re-entered. From the first step it reports an exit; pressing back again
// keeps reporting exit without side effects.
func (w *Wizard) Back() (exited bool) {
	w.host.Haptic(session.ImpactLight)
	switch w.step {
	case StepSelectDuration:
		w.category = nil
		w.step = StepSelectCategory
	case StepSelectProduct:
		w.duration = nil
		w.products = nil
		w.step = StepSelectDuration
	case StepConfirmPayment:
		w.product = nil
		w.step = StepSelectProduct
	default:
		return true
	}
	return false
}

// Summary is the confirmation-step recap.
type Summary struct {
	Category string
	Product  string
	Volume   int64
	Days     int
	Price    int64
}

// Summary returns the confirmation recap, or nil before the payment step.
func (w *Wizard) Summary() *Summary {
	if w.step != StepConfirmPayment || w.product == nil {
		return nil
	}
	return &Summary{
		Category: w.category.Name,
		Product:  w.product.Title,
		Volume:   w.product.Volume,
		Days:     w.product.Days,
		Price:    w.product.Price,
	}
}

// Purchase runs the commit action: affordability gate, explicit user
// confirmation, then the backend call. done is true only after a confirmed,
// successful purchase; in every other case the wizard stays on the payment
// step with its selections intact so the user may retry.
func (w *Wizard) Purchase(ctx context.Context) (done bool, err error) {
	if w.purchasing {
		return false, errs.ErrBusy
	}
	if w.step != StepConfirmPayment || w.product == nil {
		w.host.Alert(msgSelectProduct)
		return false, errs.ErrNoSelection
	}

	// Advisory check only; the backend re-validates the balance.
	if w.user.WalletBalance < w.product.Price {
		w.host.Alert(msgInsufficientFunds(w.user.WalletBalance))
		return false, errs.ErrInsufficientBalance
	}

	if !w.host.Confirm(msgConfirmPurchase(w.product.Title, w.product.Price)) {
		return false, nil
	}

	w.purchasing = true
	defer func() { w.purchasing = false }()

	w.host.Haptic(session.ImpactMedium)
	res, err := w.api.BuyService(ctx, w.product.ID, 1)
	if err != nil {
		w.log.Warn("purchase failed", zap.Int64("product_id", w.product.ID), zap.Error(err))
		w.host.Alert(msgPurchaseFailed)
		return false, nil
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = msgPurchaseFailed
		}
		w.host.Alert(msg)
		return false, nil
	}

	w.host.Haptic(session.ImpactSuccess)
	w.host.Alert(msgPurchaseDone)
	return true, nil
}
