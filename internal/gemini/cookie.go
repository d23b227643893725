package gemini

import (
	"errors"
	"fmt"
	"os"

	"github.com/zatxm/fhblade"
	"github.com/zatxm/gemini-web/internal/types"
	"github.com/zatxm/gemini-web/pkg/support"
)

const (
	CookiePSID   = "__Secure-1PSID"
	CookiePSIDTS = "__Secure-1PSIDTS"
)

// LoadCredentials reads a browser cookie export (a JSON array of
// {name, value} records) and returns the two session cookies.
func LoadCredentials(path string) (*types.Credentials, error) {
	if !support.IsFile(path) {
		return nil, newError(KindConfiguration, "load cookies", fmt.Errorf("cookie file not found at path: %s", path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newError(KindConfiguration, "load cookies", err)
	}
	var cookies []*types.Cookie
	if err := fhblade.Json.Unmarshal(data, &cookies); err != nil {
		return nil, newError(KindConfiguration, "load cookies", fmt.Errorf("invalid json format in the cookie file: %w", err))
	}
	creds := &types.Credentials{
		PSID:   findCookie(cookies, CookiePSID),
		PSIDTS: findCookie(cookies, CookiePSIDTS),
	}
	if creds.PSID == "" || creds.PSIDTS == "" {
		return nil, newError(KindConfiguration, "load cookies", errors.New("required cookies not found in the cookie file"))
	}
	return creds, nil
}

func findCookie(cookies []*types.Cookie, name string) string {
	for k := range cookies {
		if cookies[k] != nil && cookies[k].Name == name {
			return cookies[k].Value
		}
	}
	return ""
}

func cookieHeader(creds *types.Credentials) string {
	return CookiePSID + "=" + creds.PSID + "; " + CookiePSIDTS + "=" + creds.PSIDTS
}
