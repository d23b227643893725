package gemini

import (
	"io"
	"strings"
	"testing"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatxm/fhblade"
	"github.com/zatxm/gemini-web/internal/types"
	"go.uber.org/zap"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type mockDoer struct {
	mock.Mock
}

func (m *mockDoer) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

func response(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// headers are set with lowercase keys, Header.Get would canonicalize them
func rawHeader(req *http.Request, key string) string {
	if v := req.Header[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// envelope wraps an inner payload the way StreamGenerate frames it.
func envelope(t *testing.T, inner string) string {
	t.Helper()
	quoted, err := fhblade.Json.MarshalToString(inner)
	require.NoError(t, err)
	return ")]}'\n\n1520\n[[\"wrb.fr\",null," + quoted + "]]\n57\n[[\"di\",97],[\"af.httprm\",96,\"-1\",8]]\n"
}

func appPage(token string) string {
	return `<!doctype html><html><head><title>Gemini</title></head><body><script>WIZ_global_data = {"FdrFJe":"-1","SNlM0e":"` + token + `","qwAQke":"BardChatUi"};</script></body></html>`
}

func testCredentials() *types.Credentials {
	return &types.Credentials{PSID: "psid-value", PSIDTS: "psidts-value"}
}

func newTestClient(t *testing.T, tokenDoer, chatDoer Doer, now *time.Time) *Client {
	t.Helper()
	g, err := New(Options{
		Credentials: testCredentials(),
		TokenDoer:   tokenDoer,
		ChatDoer:    chatDoer,
		Logger:      zap.NewNop(),
		Now:         func() time.Time { return *now },
	})
	require.NoError(t, err)
	return g
}
