package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExtractToken(t *testing.T) {
	token, err := ExtractToken([]byte(`xx "SNlM0e":"abc123" yy "SNlM0e":"second"`))
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractToken([]byte(`<html><title>Sign in</title></html>`))
	assert.True(t, IsParse(err))
}

func TestRefreshToken(t *testing.T) {
	now := testNow
	tokenDoer := &mockDoer{}
	tokenDoer.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodGet &&
			req.URL.String() == AppUrl &&
			rawHeader(req, "cookie") == "__Secure-1PSID=psid-value; __Secure-1PSIDTS=psidts-value" &&
			rawHeader(req, "x-same-domain") == "1"
	})).Return(response(http.StatusOK, appPage("tok-1")), nil).Once()

	g := newTestClient(t, tokenDoer, &mockDoer{}, &now)
	assert.Nil(t, g.Token())
	assert.Equal(t, time.Duration(0), g.TokenAge())

	require.NoError(t, g.Init(context.Background()))
	assert.Equal(t, "tok-1", g.Token().Value)
	assert.Equal(t, testNow, g.Token().AcquiredAt)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 5*time.Minute, g.TokenAge())
	tokenDoer.AssertExpectations(t)
}

func TestRefreshTokenErrors(t *testing.T) {
	cases := []struct {
		name  string
		res   *http.Response
		err   error
		check func(error) bool
	}{
		{"transport", nil, errors.New("dial tcp: i/o timeout"), IsNetwork},
		{"status", response(http.StatusForbidden, "forbidden"), nil, IsNetwork},
		{"login page", response(http.StatusOK, `<html><head><title>Sign in - Google Accounts</title></head></html>`), nil, IsParse},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			now := testNow
			tokenDoer := &mockDoer{}
			if c.res == nil {
				tokenDoer.On("Do", mock.Anything).Return(nil, c.err).Once()
			} else {
				tokenDoer.On("Do", mock.Anything).Return(c.res, nil).Once()
			}
			g := newTestClient(t, tokenDoer, &mockDoer{}, &now)

			token, err := g.RefreshToken(context.Background())
			assert.Nil(t, token)
			assert.True(t, c.check(err), "got %v", err)
			assert.Nil(t, g.Token())
		})
	}
}

func TestPageTitle(t *testing.T) {
	assert.Equal(t, "Sign in", pageTitle([]byte(`<html><head><title> Sign in </title></head></html>`)))
	assert.Equal(t, "", pageTitle([]byte(`no markup`)))
}
