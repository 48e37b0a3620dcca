package flow

import (
	"fmt"

	"github.com/amiranbari/telestore/internal/model"
)

// User-facing notices. Single display locale; all strings live here.
const (
	msgCategoriesFailed = "Could not load categories"
	msgProductsFailed   = "Could not load products"
	msgDetailFailed     = "Could not load service details"
	msgPurchaseDone     = "Purchase completed successfully!"
	msgPurchaseFailed   = "Could not complete the purchase"
	msgRenewDone        = "Service renewed successfully!"
	msgRenewFailed      = "Could not renew the service"
	msgLinkFailed       = "Could not fetch the subscription link"
	msgLinkCopied       = "Subscription link copied!"
	msgSelectProduct    = "Please select a product first"
)

func msgInsufficientFunds(balance int64) string {
	return fmt.Sprintf("Insufficient balance. Your balance: %s", model.FormatAmount(balance))
}

func msgConfirmPurchase(title string, price int64) string {
	return fmt.Sprintf("Buy %s for %s?", title, model.FormatAmount(price))
}

func msgConfirmRenew(title string, price int64) string {
	return fmt.Sprintf("Renew this service with %s for %s?", title, model.FormatAmount(price))
}
