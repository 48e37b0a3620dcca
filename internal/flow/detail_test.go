package flow

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/amiranbari/telestore/internal/errs"
	"github.com/amiranbari/telestore/internal/model"
)

func detailFixture(answer bool) (*Detail, *fakeAPI, *fakeHost) {
	api := &fakeAPI{
		user:   model.UserInfo{WalletBalance: 20000},
		detail: &model.Service{ID: 9, Username: "svc-9", Name: "My VPN", Status: 1},
		products: []model.Product{
			{ID: 42, Title: "VPN 30d", Days: 30, Price: 10000},
			{ID: 43, Title: "VPN 90d", Days: 90, Price: 25000},
		},
		renewRes: model.PurchaseResult{Success: true},
		link:     model.SubscriptionLink{Success: true, Link: "https://example.com/sub/svc-9"},
	}
	host := &fakeHost{answer: answer}
	return NewDetail(api, host, zap.NewNop(), "svc-9"), api, host
}

func TestDetail_LoadFailureIsFatal(t *testing.T) {
	t.Parallel()
	d, api, host := detailFixture(true)
	api.detailErr = errors.New("boom")

	if err := d.Load(context.Background()); err == nil {
		t.Fatalf("want load error surfaced to the caller")
	}
	if d.Service() != nil {
		t.Fatalf("no subject after a failed load")
	}
	if len(host.alerts) != 1 || host.alerts[0] != msgDetailFailed {
		t.Fatalf("alerts=%v", host.alerts)
	}
}

func TestDetail_LoadJoinsDetailAndWallet(t *testing.T) {
	t.Parallel()
	d, _, _ := detailFixture(true)

	if err := d.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Service() == nil || d.Service().Username != "svc-9" {
		t.Fatalf("service=%+v", d.Service())
	}
	if d.User().WalletBalance != 20000 {
		t.Fatalf("user=%+v", d.User())
	}
}

func TestDetail_SubscriptionLink(t *testing.T) {
	t.Parallel()
	d, api, host := detailFixture(true)

	link, err := d.SubscriptionLink(context.Background())
	if err != nil || link != "https://example.com/sub/svc-9" {
		t.Fatalf("link=%q err=%v", link, err)
	}
	if host.alerts[len(host.alerts)-1] != msgLinkCopied {
		t.Fatalf("alerts=%v", host.alerts)
	}

	api.link = model.SubscriptionLink{Success: false}
	if _, err := d.SubscriptionLink(context.Background()); err == nil {
		t.Fatalf("refused link must be an error")
	}
	if host.alerts[len(host.alerts)-1] != msgLinkFailed {
		t.Fatalf("alerts=%v", host.alerts)
	}
}

func TestDetail_RenewRequiresSelection(t *testing.T) {
	t.Parallel()
	d, api, _ := detailFixture(true)
	ctx := context.Background()
	if err := d.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	d.OpenRenew(ctx)
	if !d.RenewOpen() || len(d.Products()) != 2 {
		t.Fatalf("open=%v products=%v", d.RenewOpen(), d.Products())
	}
	if api.productsInCat != 0 {
		t.Fatalf("renewal catalog must be unfiltered, got category=%d", api.productsInCat)
	}

	done, err := d.ConfirmRenew(ctx)
	if done || !errors.Is(err, errs.ErrNoSelection) {
		t.Fatalf("done=%v err=%v", done, err)
	}
	if api.renewCalls != 0 {
		t.Fatalf("no commit without a selection")
	}
}

func TestDetail_RenewHappyPathRefreshes(t *testing.T) {
	t.Parallel()
	d, api, host := detailFixture(true)
	ctx := context.Background()
	if err := d.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}

	d.OpenRenew(ctx)
	if err := d.SelectProduct(42); err != nil {
		t.Fatalf("SelectProduct: %v", err)
	}

	// The refresh after a successful commit must observe the new state.
	api.detail = &model.Service{ID: 9, Username: "svc-9", Name: "My VPN", Status: 1, ExpireTime: 99}
	api.user.WalletBalance = 10000

	done, err := d.ConfirmRenew(ctx)
	if !done || err != nil {
		t.Fatalf("done=%v err=%v", done, err)
	}
	if api.renewCalls != 1 || api.renewInUsername != "svc-9" || api.renewInProduct != 42 {
		t.Fatalf("renew args: calls=%d username=%q product=%d", api.renewCalls, api.renewInUsername, api.renewInProduct)
	}
	if d.RenewOpen() {
		t.Fatalf("dialog must close after a successful renewal")
	}
	if d.Service().ExpireTime != 99 || d.User().WalletBalance != 10000 {
		t.Fatalf("stale state after refresh: service=%+v user=%+v", d.Service(), d.User())
	}
	if host.alerts[len(host.alerts)-1] != msgRenewDone {
		t.Fatalf("alerts=%v", host.alerts)
	}
}

func TestDetail_RenewDeclinedAndRefused(t *testing.T) {
	t.Parallel()
	d, api, host := detailFixture(false)
	ctx := context.Background()
	if err := d.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	d.OpenRenew(ctx)
	if err := d.SelectProduct(42); err != nil {
		t.Fatalf("SelectProduct: %v", err)
	}

	done, err := d.ConfirmRenew(ctx)
	if done || err != nil || api.renewCalls != 0 {
		t.Fatalf("declined confirm must not commit: done=%v err=%v calls=%d", done, err, api.renewCalls)
	}

	host.answer = true
	api.renewRes = model.PurchaseResult{Success: false, Message: "plan mismatch"}
	done, err = d.ConfirmRenew(ctx)
	if done || err != nil {
		t.Fatalf("done=%v err=%v", done, err)
	}
	if host.alerts[len(host.alerts)-1] != "plan mismatch" {
		t.Fatalf("backend message must be surfaced verbatim: %v", host.alerts)
	}
	if !d.RenewOpen() || d.product == nil {
		t.Fatalf("dialog and selection must survive a failed commit")
	}
}

func TestDetail_CloseRenewRefusedWhileCommitting(t *testing.T) {
	t.Parallel()
	d, _, _ := detailFixture(true)
	ctx := context.Background()
	d.OpenRenew(ctx)

	d.renewing = true
	d.CloseRenew()
	if !d.RenewOpen() {
		t.Fatalf("dialog must stay open while a commit is in flight")
	}
	d.renewing = false
	d.CloseRenew()
	if d.RenewOpen() {
		t.Fatalf("dialog must close once idle")
	}
}
