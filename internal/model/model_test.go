package model

import (
	"testing"
	"time"
)

var now = time.Unix(1_700_000_000, 0)

func expireIn(days int) int64 { return now.Unix() + int64(days)*86400 }

func TestService_TrafficPercent_Clamped(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		used int64
		tot  int64
		want float64
	}{
		{"zero total", 10, 0, 0},
		{"half", 50, 100, 50},
		{"exact", 100, 100, 100},
		{"over quota", 150, 100, 100},
		{"negative used", -5, 100, 0},
	}
	for _, c := range cases {
		s := Service{UsedTraffic: c.used, TotalTraffic: c.tot}
		if got := s.TrafficPercent(); got != c.want {
			t.Fatalf("%s: TrafficPercent=%v want %v", c.name, got, c.want)
		}
	}
}

func TestService_DaysLeft_FlooredAtZero(t *testing.T) {
	t.Parallel()

	s := Service{ExpireTime: expireIn(-10)}
	if got := s.DaysLeft(now); got != 0 {
		t.Fatalf("past expiry: DaysLeft=%d want 0", got)
	}
	s = Service{ExpireTime: expireIn(7)}
	if got := s.DaysLeft(now); got != 7 {
		t.Fatalf("DaysLeft=%d want 7", got)
	}
	s = Service{ExpireTime: expireIn(1) + 43200} // a day and a half out
	if got := s.DaysLeft(now); got != 1 {
		t.Fatalf("partial day must round down: DaysLeft=%d want 1", got)
	}
	s = Service{ExpireTime: now.Unix() - 3600} // expired an hour ago
	if got := s.DaysLeft(now); got != 0 {
		t.Fatalf("sub-day past expiry: DaysLeft=%d want 0", got)
	}
}

func TestService_Badge_Precedence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		s    Service
		want Badge
	}{
		{"disabled always expired", Service{Status: StatusDisabled, ExpireTime: expireIn(30), UsedTraffic: 0, TotalTraffic: 100}, BadgeExpired},
		{"past expiry", Service{Status: 1, ExpireTime: expireIn(-1)}, BadgeExpired},
		{"expired within the first day", Service{Status: 1, ExpireTime: now.Unix() - 3600}, BadgeExpired},
		{"expires later today", Service{Status: 1, ExpireTime: now.Unix() + 3600, UsedTraffic: 10, TotalTraffic: 100}, BadgeExpiring},
		{"exhausted beats expiring", Service{Status: 1, ExpireTime: expireIn(2), UsedTraffic: 95, TotalTraffic: 100}, BadgeLowTraffic},
		{"expiring soon", Service{Status: 1, ExpireTime: expireIn(2), UsedTraffic: 10, TotalTraffic: 100}, BadgeExpiring},
		{"active", Service{Status: 1, ExpireTime: expireIn(30), UsedTraffic: 10, TotalTraffic: 100}, BadgeActive},
	}
	for _, c := range cases {
		if got := c.s.Badge(now); got != c.want {
			t.Fatalf("%s: Badge=%v want %v", c.name, got, c.want)
		}
	}
}

func TestService_Badge_DisabledIgnoresOtherSignals(t *testing.T) {
	t.Parallel()

	// Status flag wins regardless of healthy traffic and far expiry.
	s := Service{Status: StatusDisabled, ExpireTime: expireIn(365), UsedTraffic: 1, TotalTraffic: 1000}
	if got := s.Badge(now); got != BadgeExpired {
		t.Fatalf("Badge=%v want expired", got)
	}
}

func TestService_Warning(t *testing.T) {
	t.Parallel()

	s := Service{ExpireTime: expireIn(2), UsedTraffic: 95, TotalTraffic: 100}
	if got := s.Warning(now); got != WarningExpiring {
		t.Fatalf("expiring beats low traffic: got %v", got)
	}
	s = Service{ExpireTime: expireIn(30), UsedTraffic: 95, TotalTraffic: 100}
	if got := s.Warning(now); got != WarningLowTraffic {
		t.Fatalf("want low traffic, got %v", got)
	}
	s = Service{ExpireTime: expireIn(30), UsedTraffic: 10, TotalTraffic: 100}
	if got := s.Warning(now); got != WarningNone {
		t.Fatalf("want none, got %v", got)
	}
}

func TestService_DisplayNameAndRemaining(t *testing.T) {
	t.Parallel()

	s := Service{Username: "u_123", Name: "Main"}
	if s.DisplayName() != "Main" {
		t.Fatalf("DisplayName=%q", s.DisplayName())
	}
	s.Name = ""
	if s.DisplayName() != "u_123" {
		t.Fatalf("DisplayName=%q", s.DisplayName())
	}

	s = Service{UsedTraffic: 120, TotalTraffic: 100}
	if s.RemainingTraffic() != 0 {
		t.Fatalf("RemainingTraffic=%d want 0", s.RemainingTraffic())
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, c := range cases {
		if got := FormatBytes(c.in); got != c.want {
			t.Fatalf("FormatBytes(%d)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{5000, "5,000"},
		{1234567, "1,234,567"},
		{-42000, "-42,000"},
	}
	for _, c := range cases {
		if got := FormatAmount(c.in); got != c.want {
			t.Fatalf("FormatAmount(%d)=%q want %q", c.in, got, c.want)
		}
	}
}

func TestDurations_Fixed(t *testing.T) {
	t.Parallel()

	want := []int{30, 90, 180, 365}
	if len(Durations) != len(want) {
		t.Fatalf("len(Durations)=%d want %d", len(Durations), len(want))
	}
	for i, d := range Durations {
		if d.Days != want[i] {
			t.Fatalf("Durations[%d].Days=%d want %d", i, d.Days, want[i])
		}
		if d.Label == "" {
			t.Fatalf("Durations[%d] missing label", i)
		}
	}
}
