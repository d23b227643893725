package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"
	"github.com/zatxm/fhblade"
	"github.com/zatxm/fhblade/tools"
	"github.com/zatxm/gemini-web/internal/client"
	"github.com/zatxm/gemini-web/internal/config"
	"github.com/zatxm/gemini-web/internal/types"
	"github.com/zatxm/gemini-web/internal/vars"
	"go.uber.org/zap"
)

const (
	Host        = "gemini.google.com"
	OriginUrl   = "https://gemini.google.com"
	RefererUrl  = "https://gemini.google.com/"
	AppUrl      = "https://gemini.google.com/app"
	GenerateUrl = "https://gemini.google.com/_/BardChatUi/data/assistant.lamda.BardFrontendService/StreamGenerate"
)

// Doer sends one request. tls-client's HttpClient satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ReplyStatus int

const (
	ReplyFailed ReplyStatus = iota
	ReplyContent
	ReplyEmpty
)

func (s ReplyStatus) String() string {
	switch s {
	case ReplyContent:
		return "content"
	case ReplyEmpty:
		return "empty"
	}
	return "failed"
}

// Reply is the outcome of one exchange. Conversation is the context to pass
// into the next Ask; on failure it is the context the call was made with.
type Reply struct {
	Status       ReplyStatus
	Content      string
	Images       []string
	Conversation types.Conversation
	Err          error
}

func (r *Reply) HasContent() bool {
	return r.Status == ReplyContent
}

type Options struct {
	Credentials *types.Credentials

	// 拉取token和对话使用的client,为空时按超时创建tls client
	TokenDoer    Doer
	ChatDoer     Doer
	Timeout      time.Duration
	TokenTimeout time.Duration

	// 大于0时对话前检查token是否过期
	TokenMaxAge time.Duration
	BuildLabel  string
	UserAgent   string
	ProxyUrl    string
	AppUrl      string
	GenerateUrl string
	Logger      *zap.Logger
	Now         func() time.Time
}

// Client talks to the Gemini web app with a browser session. It holds no
// conversation state and is safe for concurrent use.
type Client struct {
	creds       *types.Credentials
	tokenDoer   Doer
	chatDoer    Doer
	tokenMaxAge time.Duration
	buildLabel  string
	userAgent   string
	appUrl      string
	generateUrl string
	log         *zap.Logger
	now         func() time.Time

	mu    sync.RWMutex
	token *types.SessionToken
}

func New(opts Options) (*Client, error) {
	g := &Client{
		creds:       opts.Credentials,
		tokenDoer:   opts.TokenDoer,
		chatDoer:    opts.ChatDoer,
		tokenMaxAge: opts.TokenMaxAge,
		buildLabel:  opts.BuildLabel,
		userAgent:   opts.UserAgent,
		appUrl:      opts.AppUrl,
		generateUrl: opts.GenerateUrl,
		log:         opts.Logger,
		now:         opts.Now,
	}
	if g.buildLabel == "" {
		g.buildLabel = config.DefaultBuildLabel
	}
	if g.userAgent == "" {
		g.userAgent = vars.UserAgent
	}
	if g.appUrl == "" {
		g.appUrl = AppUrl
	}
	if g.generateUrl == "" {
		g.generateUrl = GenerateUrl
	}
	if g.log == nil {
		g.log = fhblade.Log
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.tokenDoer == nil {
		timeout := opts.TokenTimeout
		if timeout <= 0 {
			timeout = config.DefaultTokenTimeoutSecond * time.Second
		}
		c, err := client.New(timeout, opts.ProxyUrl)
		if err != nil {
			return nil, err
		}
		g.tokenDoer = c
	}
	if g.chatDoer == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeoutSeconds * time.Second
		}
		c, err := client.New(timeout, opts.ProxyUrl)
		if err != nil {
			return nil, err
		}
		g.chatDoer = c
	}
	return g, nil
}

// NewFromConfig loads the cookie file named in cfg and scrapes a token.
func NewFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	gw := cfg.GeminiWeb
	creds, err := LoadCredentials(gw.CookiePath)
	if err != nil {
		return nil, err
	}
	g, err := New(Options{
		Credentials:  creds,
		Timeout:      time.Duration(gw.Timeout) * time.Second,
		TokenTimeout: time.Duration(gw.TokenTimeout) * time.Second,
		TokenMaxAge:  time.Duration(gw.TokenMaxAge) * time.Second,
		BuildLabel:   gw.BuildLabel,
		UserAgent:    gw.UserAgent,
		ProxyUrl:     config.GeminiProxyUrl(),
	})
	if err != nil {
		return nil, newError(KindConfiguration, "new client", err)
	}
	if err := g.Init(ctx); err != nil {
		return nil, err
	}
	return g, nil
}

// Init scrapes the first session token.
func (g *Client) Init(ctx context.Context) error {
	_, err := g.RefreshToken(ctx)
	return err
}

// Token returns the current session token, nil before Init.
func (g *Client) Token() *types.SessionToken {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.token
}

// TokenAge is zero when no token has been acquired.
func (g *Client) TokenAge() time.Duration {
	return g.Token().Age(g.now())
}

func (g *Client) headers() http.Header {
	return http.Header{
		"content-type":  {vars.ContentType},
		"host":          {Host},
		"origin":        {OriginUrl},
		"referer":       {RefererUrl},
		"user-agent":    {g.userAgent},
		"x-same-domain": {"1"},
		"cookie":        {cookieHeader(g.creds)},
	}
}

// Ask sends prompt within conv and decodes the reply. sysPrompt is accepted
// for interface parity and not sent. Ask never returns a nil reply.
func (g *Client) Ask(ctx context.Context, conv types.Conversation, prompt, sysPrompt string) *Reply {
	trace := uuid.NewString()
	turn, err := g.ask(ctx, conv, prompt)
	if err != nil {
		g.log.Error("gemini web ask err",
			zap.Error(err),
			zap.String("trace", trace),
			zap.String("conversation", conv.ConversationId))
		return &Reply{Status: ReplyFailed, Images: []string{}, Conversation: conv, Err: err}
	}
	reply := &Reply{Status: ReplyEmpty, Images: turn.Images, Conversation: conv}
	if turn.HasConversation {
		reply.Conversation = turn.Conversation
	}
	if turn.HasContent() {
		reply.Status = ReplyContent
		reply.Content = turn.Content
	} else {
		g.log.Debug("gemini web ask empty reply", zap.String("trace", trace))
	}
	return reply
}

func (g *Client) ask(ctx context.Context, conv types.Conversation, prompt string) (*Turn, error) {
	if g.creds == nil || g.creds.PSID == "" || g.creds.PSIDTS == "" {
		return nil, newError(KindConfiguration, "ask", errors.New("credentials not loaded"))
	}
	token := g.Token()
	if token == nil || token.Value == "" {
		return nil, newError(KindConfiguration, "ask", errors.New("session token not acquired, call Init first"))
	}
	if g.tokenMaxAge > 0 && token.Age(g.now()) > g.tokenMaxAge {
		var err error
		if token, err = g.RefreshToken(ctx); err != nil {
			return nil, err
		}
	}

	form, err := buildForm(conv, prompt, token.Value)
	if err != nil {
		return nil, newError(KindParse, "ask", err)
	}
	goUrl := g.generateUrl + "?" + url.Values{
		"bl":     {g.buildLabel},
		"_reqid": {"0"},
		"rt":     {"c"},
	}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, goUrl, strings.NewReader(form))
	if err != nil {
		return nil, newError(KindConfiguration, "ask", err)
	}
	req.Header = g.headers()
	resp, err := g.chatDoer.Do(req)
	if err != nil {
		return nil, newError(KindNetwork, "ask", err)
	}
	defer resp.Body.Close()
	body, err := tools.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindNetwork, "ask", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(KindNetwork, "ask", fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}
	return DecodeEnvelope(body)
}

// buildForm encodes [[prompt], null, [cid, rid, rcid]] twice over, the way
// the web app sends it.
func buildForm(conv types.Conversation, prompt, token string) (string, error) {
	message := []interface{}{
		[]string{prompt},
		nil,
		[]string{conv.ConversationId, conv.ResponseId, conv.ChoiceId},
	}
	inner, err := fhblade.Json.MarshalToString(message)
	if err != nil {
		return "", err
	}
	outer, err := fhblade.Json.MarshalToString([]interface{}{nil, inner})
	if err != nil {
		return "", err
	}
	return url.Values{
		"f.req": {outer},
		"at":    {token},
	}.Encode(), nil
}
