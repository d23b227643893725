package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	http "github.com/bogdanfinn/fhttp"
	"github.com/zatxm/fhblade/tools"
	"github.com/zatxm/gemini-web/internal/types"
	"go.uber.org/zap"
)

var (
	tokenRegexp      = regexp.MustCompile(`"SNlM0e":"(.*?)"`)
	errTokenNotFound = errors.New("SNlM0e value not found in response")
)

// ExtractToken returns the first SNlM0e literal embedded in an app page.
func ExtractToken(body []byte) (string, error) {
	m := tokenRegexp.FindSubmatch(body)
	if m == nil {
		return "", newError(KindParse, "extract token", errTokenNotFound)
	}
	return string(m[1]), nil
}

// RefreshToken scrapes a fresh session token and replaces the current one.
func (g *Client) RefreshToken(ctx context.Context) (*types.SessionToken, error) {
	if g.creds == nil {
		return nil, newError(KindConfiguration, "refresh token", errors.New("credentials not loaded"))
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.appUrl, nil)
	if err != nil {
		return nil, newError(KindConfiguration, "refresh token", err)
	}
	req.Header = g.headers()
	resp, err := g.tokenDoer.Do(req)
	if err != nil {
		g.log.Error("gemini web token req err",
			zap.Error(err),
			zap.String("url", g.appUrl))
		return nil, newError(KindNetwork, "refresh token", err)
	}
	defer resp.Body.Close()
	body, err := tools.ReadAll(resp.Body)
	if err != nil {
		g.log.Error("gemini web token read err", zap.Error(err))
		return nil, newError(KindNetwork, "refresh token", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.log.Error("gemini web token res status err", zap.Int("code", resp.StatusCode))
		return nil, newError(KindNetwork, "refresh token", fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}
	value, err := ExtractToken(body)
	if err != nil {
		g.log.Error("gemini web token not found",
			zap.Error(err),
			zap.String("title", pageTitle(body)))
		return nil, err
	}
	token := &types.SessionToken{Value: value, AcquiredAt: g.now()}
	g.mu.Lock()
	g.token = token
	g.mu.Unlock()
	return token, nil
}

// pageTitle helps tell a login page from a markup change in the logs.
func pageTitle(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
