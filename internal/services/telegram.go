package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// TelegramIdentity is the verified user carried in Mini App initData.
type TelegramIdentity struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
}

type telegramUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// VerifyInitData checks the Mini App signature and freshness of initData and
// returns the signed-in user.
func VerifyInitData(initData, botToken string, maxAge time.Duration, now time.Time) (*TelegramIdentity, error) {
	if botToken == "" {
		return nil, ErrAuthNotConfigured
	}
	values, err := url.ParseQuery(initData)
	if err != nil {
		return nil, ErrInitDataInvalid
	}
	received := values.Get("hash")
	if received == "" {
		return nil, ErrInitDataInvalid
	}
	expected := initDataHash(values, botToken)
	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(received))) {
		return nil, ErrInitDataInvalid
	}

	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return nil, ErrInitDataInvalid
	}
	if maxAge > 0 && now.Sub(time.Unix(authDate, 0)) > maxAge {
		return nil, ErrInitDataExpired
	}

	id := &TelegramIdentity{
		ID:        values.Get("id"),
		Username:  values.Get("username"),
		FirstName: values.Get("first_name"),
		LastName:  values.Get("last_name"),
	}
	if raw := values.Get("user"); raw != "" {
		var u telegramUser
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return nil, ErrInitDataInvalid
		}
		id = &TelegramIdentity{
			ID:        strconv.FormatInt(u.ID, 10),
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}
	}
	if id.ID == "" || id.ID == "0" {
		return nil, ErrInitDataInvalid
	}
	return id, nil
}

// SignInitData returns values encoded as initData with a valid hash for
// botToken. Used by tests and local tooling.
func SignInitData(values url.Values, botToken string) string {
	signed := url.Values{}
	for k, v := range values {
		if k != "hash" {
			signed[k] = v
		}
	}
	signed.Set("hash", initDataHash(signed, botToken))
	return signed.Encode()
}

func initDataHash(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}
