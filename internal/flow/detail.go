package flow

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/amiranbari/telestore/internal/backend"
	"github.com/amiranbari/telestore/internal/errs"
	"github.com/amiranbari/telestore/internal/model"
	"github.com/amiranbari/telestore/internal/session"
)

// Detail shows one owned service and drives the condensed renewal flow: pick
// a product from the unfiltered catalog, then the same affordability →
// confirm → commit → refresh pattern as the wizard.
type Detail struct {
	api  backend.API
	host session.Host
	log  *zap.Logger

	username  string
	service   *model.Service
	user      model.UserInfo
	products  []model.Product
	product   *model.Product
	renewOpen bool
	renewing  bool
}

// NewDetail constructs the flow for one service username.
func NewDetail(api backend.API, host session.Host, log *zap.Logger, username string) *Detail {
	return &Detail{api: api, host: host, log: log, username: username}
}

// Load fetches the service detail and the wallet summary concurrently.
// A detail failure is fatal for the view: the user is notified and the
// caller must navigate back.
func (d *Detail) Load(ctx context.Context) error {
	var wg sync.WaitGroup
	var svc *model.Service
	var svcErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		svc, svcErr = d.api.GetServiceDetail(ctx, d.username)
	}()
	d.user = d.api.GetUserInfo(ctx)
	wg.Wait()

	if svcErr != nil {
		d.log.Warn("service detail load", zap.String("username", d.username), zap.Error(svcErr))
		d.host.Alert(msgDetailFailed)
		return svcErr
	}
	d.service = svc
	return nil
}

// Service returns the loaded subject, nil before a successful Load.
func (d *Detail) Service() *model.Service { return d.service }

// User returns the wallet summary loaded alongside the detail.
func (d *Detail) User() model.UserInfo { return d.user }

// Products returns the renewal catalog once the dialog is open.
func (d *Detail) Products() []model.Product { return d.products }

// RenewOpen reports whether the renewal dialog is open.
func (d *Detail) RenewOpen() bool { return d.renewOpen }

// Renewing reports whether a renewal commit is in flight.
func (d *Detail) Renewing() bool { return d.renewing }

// SubscriptionLink fetches the access URL. On success the link is handed to
// the caller for the clipboard and the user is notified.
func (d *Detail) SubscriptionLink(ctx context.Context) (string, error) {
	d.host.Haptic(session.ImpactMedium)
	res, err := d.api.GetSubscriptionLink(ctx, d.username)
	if err != nil {
		d.host.Alert(msgLinkFailed)
		return "", err
	}
	if !res.Success {
		d.host.Alert(msgLinkFailed)
		return "", fmt.Errorf("subscription link: backend refused")
	}
	d.host.Haptic(session.ImpactSuccess)
	d.host.Alert(msgLinkCopied)
	return res.Link, nil
}

// OpenRenew opens the renewal dialog and fetches the full, unfiltered
// catalog to choose from.
func (d *Detail) OpenRenew(ctx context.Context) {
	d.host.Haptic(session.ImpactMedium)
	d.renewOpen = true
	d.product = nil
	d.products = d.api.GetProducts(ctx, 0)
	if len(d.products) == 0 {
		d.host.Alert(msgProductsFailed)
	}
}

// CloseRenew dismisses the dialog; refused while a commit is in flight.
func (d *Detail) CloseRenew() {
	if d.renewing {
		return
	}
	d.renewOpen = false
	d.product = nil
}

// SelectProduct stores the renewal choice.
func (d *Detail) SelectProduct(id int64) error {
	if !d.renewOpen {
		return fmt.Errorf("renew: dialog not open")
	}
	for i := range d.products {
		if d.products[i].ID == id {
			d.product = &d.products[i]
			d.host.Haptic(session.ImpactLight)
			return nil
		}
	}
	return fmt.Errorf("renew: unknown product %d", id)
}

// ConfirmRenew commits the renewal with the same gating as the wizard's
// purchase. On success both the detail and the wallet summary are reloaded
// so the displayed usage and balance reflect the mutation.
func (d *Detail) ConfirmRenew(ctx context.Context) (done bool, err error) {
	if d.renewing {
		return false, errs.ErrBusy
	}
	if d.product == nil {
		d.host.Alert(msgSelectProduct)
		return false, errs.ErrNoSelection
	}

	if d.user.WalletBalance < d.product.Price {
		d.host.Alert(msgInsufficientFunds(d.user.WalletBalance))
		return false, errs.ErrInsufficientBalance
	}

	if !d.host.Confirm(msgConfirmRenew(d.product.Title, d.product.Price)) {
		return false, nil
	}

	d.renewing = true
	defer func() { d.renewing = false }()

	d.host.Haptic(session.ImpactMedium)
	res, err := d.api.RenewService(ctx, d.username, d.product.ID)
	if err != nil {
		d.log.Warn("renew failed", zap.String("username", d.username), zap.Error(err))
		d.host.Alert(msgRenewFailed)
		return false, nil
	}
	if !res.Success {
		msg := res.Message
		if msg == "" {
			msg = msgRenewFailed
		}
		d.host.Alert(msg)
		return false, nil
	}

	d.host.Haptic(session.ImpactSuccess)
	d.host.Alert(msgRenewDone)
	d.renewOpen = false
	d.product = nil
	d.refresh(ctx)
	return true, nil
}

// refresh reloads detail and wallet after a successful mutation. Best-effort:
// the renewal already happened, a failed reload only leaves stale numbers.
func (d *Detail) refresh(ctx context.Context) {
	if svc, err := d.api.GetServiceDetail(ctx, d.username); err == nil {
		d.service = svc
	} else {
		d.log.Warn("detail refresh", zap.String("username", d.username), zap.Error(err))
	}
	d.user = d.api.GetUserInfo(ctx)
}
