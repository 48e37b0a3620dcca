// Package session provides the platform identity, the persisted access
// credential, and the host-integration capabilities consumed by view flows.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Identity is the platform user handed over by the host environment.
// A zero ID means the app is not running inside the host.
type Identity struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// Present reports whether a host identity was supplied.
func (i Identity) Present() bool { return i.ID != 0 }

// DisplayName returns the best human-readable name for greetings.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(i.FirstName + " " + i.LastName)
	if name != "" {
		return name
	}
	if i.Username != "" {
		return i.Username
	}
	return "user"
}

// ErrBadInitData indicates the init data signature or freshness check failed.
var ErrBadInitData = errors.New("invalid init data")

// ParseInitData validates a Telegram WebApp init payload and extracts the
// user identity. Validation follows the Bot API scheme: the data-check string
// is the sorted key=value pairs joined by newlines, signed with
// HMAC-SHA256(key=HMAC-SHA256("WebAppData", botToken)).
func ParseInitData(initData, botToken string, maxAge time.Duration) (Identity, error) {
	values, err := url.ParseQuery(initData)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrBadInitData, err)
	}

	gotHash := values.Get("hash")
	if gotHash == "" {
		return Identity{}, fmt.Errorf("%w: missing hash", ErrBadInitData)
	}
	values.Del("hash")

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		for _, v := range values[k] {
			pairs = append(pairs, k+"="+v)
		}
	}
	checkString := strings.Join(pairs, "\n")

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(checkString))
	want := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(want), []byte(gotHash)) {
		return Identity{}, fmt.Errorf("%w: signature mismatch", ErrBadInitData)
	}

	if maxAge > 0 {
		authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: bad auth_date", ErrBadInitData)
		}
		if time.Since(time.Unix(authDate, 0)) > maxAge {
			return Identity{}, fmt.Errorf("%w: auth date too old", ErrBadInitData)
		}
	}

	var id Identity
	if err := json.Unmarshal([]byte(values.Get("user")), &id); err != nil {
		return Identity{}, fmt.Errorf("%w: bad user payload", ErrBadInitData)
	}
	if id.ID == 0 {
		return Identity{}, fmt.Errorf("%w: missing user id", ErrBadInitData)
	}
	return id, nil
}

// Resolve determines the session identity once at startup: a validated init
// payload when the host supplied one, else the configured dev user, else
// absent. Backend calls must tolerate an absent identity.
func Resolve(initData, botToken string, devUserID int64, log *zap.Logger) Identity {
	if initData != "" && botToken != "" {
		id, err := ParseInitData(initData, botToken, 24*time.Hour)
		if err != nil {
			log.Warn("init data rejected", zap.Error(err))
			return Identity{}
		}
		return id
	}
	if devUserID != 0 {
		log.Info("using dev identity", zap.Int64("user_id", devUserID))
		return Identity{ID: devUserID, FirstName: "dev"}
	}
	return Identity{}
}
