// Package model defines domain entities shared by the backend adapter and view flows.
package model

import (
	"fmt"
	"time"
)

// UserInfo is the account summary returned by the backend. All amounts are in
// the smallest currency unit. Zero value means "unknown user / nothing loaded".
type UserInfo struct {
	UserID         int64 `json:"user_id,omitempty"`
	WalletBalance  int64 `json:"wallet_balance"`
	ActiveServices int   `json:"active_services"`
	TotalPurchases int   `json:"total_purchases"`
	InvoicesCount  int   `json:"invoices_count,omitempty"`
	ReferralsCount int   `json:"referrals_count,omitempty"`
	CreatedAt      int64 `json:"created_at,omitempty"` // epoch seconds
}

// MemberSince returns the account creation time, or a zero time when unknown.
func (u UserInfo) MemberSince() time.Time {
	if u.CreatedAt == 0 {
		return time.Time{}
	}
	return time.Unix(u.CreatedAt, 0)
}

// Category groups purchasable products.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Duration is a client-defined plan length used to filter the catalog.
// It is never fetched from the backend.
type Duration struct {
	Days  int
	Label string
}

// Durations is the fixed plan-length enumeration offered by the wizard.
var Durations = []Duration{
	{Days: 30, Label: "1 month"},
	{Days: 90, Label: "3 months"},
	{Days: 180, Label: "6 months"},
	{Days: 365, Label: "1 year"},
}

// Product is a purchasable plan.
type Product struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	CategoryID int64  `json:"category_id"`
	Days       int    `json:"days"`
	Volume     int64  `json:"volume"` // data quota, GB
	Price      int64  `json:"price"`  // smallest currency unit
}

// StatusDisabled is the backend status flag for a disabled service.
const StatusDisabled = 0

// Service is an owned/purchased service instance.
type Service struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name,omitempty"`
	UsedTraffic  int64  `json:"used_traffic"`  // bytes
	TotalTraffic int64  `json:"total_traffic"` // bytes
	ExpireTime   int64  `json:"expire_time"`   // epoch seconds
	Status       int    `json:"status"`
}

// DisplayName prefers the optional name over the username.
func (s Service) DisplayName() string {
	if s.Name != "" {
		return s.Name
	}
	return s.Username
}

// rawDaysLeft may be negative; Badge needs the sign to detect expiry.
// Floor division: an expiry less than a day in the past is already day -1.
func (s Service) rawDaysLeft(now time.Time) int {
	diff := s.ExpireTime - now.Unix()
	d := diff / 86400
	if diff%86400 < 0 {
		d--
	}
	return int(d)
}

// DaysLeft returns whole days until expiry, floored at zero.
func (s Service) DaysLeft(now time.Time) int {
	if d := s.rawDaysLeft(now); d > 0 {
		return d
	}
	return 0
}

// TrafficPercent returns used quota in percent, clamped to [0,100].
// Tolerates used > total (backend data anomaly) and total == 0.
func (s Service) TrafficPercent() float64 {
	if s.TotalTraffic <= 0 {
		return 0
	}
	p := float64(s.UsedTraffic) / float64(s.TotalTraffic) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// RemainingTraffic returns the unused quota in bytes, floored at zero.
func (s Service) RemainingTraffic() int64 {
	if r := s.TotalTraffic - s.UsedTraffic; r > 0 {
		return r
	}
	return 0
}

// Badge classifies a service for list/detail rendering.
type Badge int

const (
	BadgeActive Badge = iota
	BadgeExpiring
	BadgeLowTraffic
	BadgeExpired
)

// String returns the display label for a badge.
func (b Badge) String() string {
	switch b {
	case BadgeExpired:
		return "expired"
	case BadgeLowTraffic:
		return "low traffic"
	case BadgeExpiring:
		return "expiring"
	default:
		return "active"
	}
}

// Badge derives the status badge. Precedence: expired (disabled or past expiry)
// beats traffic exhaustion (>90%) beats expiring soon (<=3 days) beats active.
func (s Service) Badge(now time.Time) Badge {
	if s.Status == StatusDisabled || s.rawDaysLeft(now) < 0 {
		return BadgeExpired
	}
	if s.TrafficPercent() > 90 {
		return BadgeLowTraffic
	}
	if s.rawDaysLeft(now) <= 3 {
		return BadgeExpiring
	}
	return BadgeActive
}

// Warning identifies the banner shown for services close to a limit.
type Warning int

const (
	WarningNone Warning = iota
	WarningExpiring
	WarningLowTraffic
)

// Warning derives the list-view warning banner. Expiring soon takes priority
// over low remaining traffic.
func (s Service) Warning(now time.Time) Warning {
	if s.rawDaysLeft(now) <= 3 {
		return WarningExpiring
	}
	if s.TrafficPercent() > 90 {
		return WarningLowTraffic
	}
	return WarningNone
}

// StatusFilter selects which services the list view requests.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterActive  StatusFilter = "active"
	FilterExpired StatusFilter = "expired"
	FilterLow     StatusFilter = "low"
)

// PurchaseResult reports the outcome of a buy or renew operation.
type PurchaseResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// SubscriptionLink carries the externally consumable access URL for a service.
type SubscriptionLink struct {
	Success bool   `json:"success"`
	Link    string `json:"link,omitempty"`
}

// FormatBytes renders a byte count with binary units and two decimals,
// matching the backend panel's formatting.
func FormatBytes(b int64) string {
	switch {
	case b < 1024:
		return fmt.Sprintf("%d B", b)
	case b < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(b)/1024)
	case b < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB", float64(b)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB", float64(b)/(1024*1024*1024))
	}
}

// FormatAmount groups a currency amount with thousands separators.
func FormatAmount(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
