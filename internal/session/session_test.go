package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const botToken = "12345:test-bot-token"

// signInitData builds a WebApp payload with a valid signature.
func signInitData(values url.Values) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+values.Get(k))
	}
	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(pairs, "\n")))
	values.Set("hash", hex.EncodeToString(mac.Sum(nil)))
	return values.Encode()
}

func freshInitData() url.Values {
	v := url.Values{}
	v.Set("user", `{"id":777,"first_name":"Ada","username":"ada"}`)
	v.Set("auth_date", fmt.Sprint(time.Now().Unix()))
	v.Set("query_id", "AAE")
	return v
}

func TestParseInitData_Valid(t *testing.T) {
	t.Parallel()

	id, err := ParseInitData(signInitData(freshInitData()), botToken, 24*time.Hour)
	require.NoError(t, err)
	require.Equal(t, int64(777), id.ID)
	require.Equal(t, "Ada", id.FirstName)
	require.True(t, id.Present())
}

func TestParseInitData_Tampered(t *testing.T) {
	t.Parallel()

	signed := signInitData(freshInitData())
	tampered := strings.Replace(signed, "777", "778", 1)
	_, err := ParseInitData(tampered, botToken, 24*time.Hour)
	require.ErrorIs(t, err, ErrBadInitData)
}

func TestParseInitData_WrongBotToken(t *testing.T) {
	t.Parallel()

	_, err := ParseInitData(signInitData(freshInitData()), "999:other", 24*time.Hour)
	require.ErrorIs(t, err, ErrBadInitData)
}

func TestParseInitData_StaleAuthDate(t *testing.T) {
	t.Parallel()

	v := freshInitData()
	v.Set("auth_date", fmt.Sprint(time.Now().Add(-48*time.Hour).Unix()))
	_, err := ParseInitData(signInitData(v), botToken, 24*time.Hour)
	require.ErrorIs(t, err, ErrBadInitData)
}

func TestResolve_DevFallbackAndAbsent(t *testing.T) {
	t.Parallel()
	log := zap.NewNop()

	id := Resolve("", "", 42, log)
	require.Equal(t, int64(42), id.ID)

	id = Resolve("", "", 0, log)
	require.False(t, id.Present())

	// Bad init data degrades to absent, never fails startup.
	id = Resolve("user=x&hash=ff", botToken, 0, log)
	require.False(t, id.Present())
}

func TestIdentity_DisplayName(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Ada Lovelace", Identity{FirstName: "Ada", LastName: "Lovelace"}.DisplayName())
	require.Equal(t, "ada", Identity{Username: "ada"}.DisplayName())
	require.Equal(t, "user", Identity{}.DisplayName())
}

func TestTokenStore_RoundTrip(t *testing.T) {
	t.Parallel()

	s := NewTokenStore(t.TempDir())
	require.NoError(t, s.Save("4c094485afb0540fccd7056dace5cbd7"))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "4c094485afb0540fccd7056dace5cbd7", got)

	require.NoError(t, s.Clear())
	_, err = s.Load()
	require.Error(t, err)

	// Clearing twice is fine.
	require.NoError(t, s.Clear())
}

func TestTokenStore_RejectsExpiredJWT(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{
		Subject:   "777",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	s := NewTokenStore(t.TempDir())
	require.NoError(t, s.Save(tok))
	_, err = s.Load()
	require.Error(t, err)
}

func TestTokenStore_KeepsLiveJWT(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{
		Subject:   "777",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	require.NoError(t, err)

	s := NewTokenStore(t.TempDir())
	require.NoError(t, s.Save(tok))
	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, tok, got)
}

func TestTerminalHost_Confirm(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	h := NewTerminalHost(strings.NewReader("y\nno\n\n"), &out)
	require.True(t, h.Confirm("buy?"))
	require.False(t, h.Confirm("buy?"))
	require.False(t, h.Confirm("buy?"))
	require.Contains(t, out.String(), "buy? [y/N]:")
}
