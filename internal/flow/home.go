package flow

import (
	"context"
	"fmt"

	"github.com/amiranbari/telestore/internal/backend"
	"github.com/amiranbari/telestore/internal/model"
	"github.com/amiranbari/telestore/internal/session"
)

// QuickAction is a home-screen shortcut.
type QuickAction struct {
	Title string
	Path  string
}

// QuickActions enumerates the home-screen shortcuts.
var QuickActions = []QuickAction{
	{Title: "Buy a service", Path: "/buy"},
	{Title: "My services", Path: "/services"},
	{Title: "Account", Path: "/account"},
}

// Home is the dashboard view: greeting, wallet card, counters.
type Home struct {
	api      backend.API
	identity session.Identity
	user     model.UserInfo
}

// NewHome constructs the dashboard for the session identity.
func NewHome(api backend.API, identity session.Identity) *Home {
	return &Home{api: api, identity: identity}
}

// Load refreshes the wallet summary; zero-valued when unavailable.
func (h *Home) Load(ctx context.Context) {
	h.user = h.api.GetUserInfo(ctx)
}

// Greeting returns the personalized header line.
func (h *Home) Greeting() string {
	return fmt.Sprintf("Hello, %s", h.identity.DisplayName())
}

// User returns the loaded wallet summary.
func (h *Home) User() model.UserInfo { return h.user }

// Account is the profile view: identity, wallet, and extended counters.
type Account struct {
	api      backend.API
	identity session.Identity
	user     model.UserInfo
}

// NewAccount constructs the profile view for the session identity.
func NewAccount(api backend.API, identity session.Identity) *Account {
	return &Account{api: api, identity: identity}
}

// Load refreshes the account summary; zero-valued when unavailable.
func (a *Account) Load(ctx context.Context) {
	a.user = a.api.GetUserInfo(ctx)
}

// Identity returns the platform identity supplied by the host.
func (a *Account) Identity() session.Identity { return a.identity }

// User returns the loaded account summary.
func (a *Account) User() model.UserInfo { return a.user }
