package gemini

import (
	http "github.com/bogdanfinn/fhttp"
	"github.com/zatxm/fhblade"
	"github.com/zatxm/gemini-web/internal/types"
)

// DoAsk 单次对话,会话上下文由调用方回传
func DoAsk(g *Client) func(*fhblade.Context) error {
	return func(c *fhblade.Context) error {
		var p types.GeminiWebAskRequest
		if err := c.ShouldBindJSON(&p); err != nil {
			return c.JSONAndStatus(http.StatusBadRequest, types.NewParamsError())
		}
		var conv types.Conversation
		if p.Conversation != nil {
			conv = *p.Conversation
		}
		reply := g.Ask(c.Request().Req().Context(), conv, p.Prompt, p.SystemPrompt)
		return c.JSONAndStatus(http.StatusOK, ToAskResponse(reply))
	}
}

func DoTokenInfo(g *Client) func(*fhblade.Context) error {
	return func(c *fhblade.Context) error {
		return c.JSONAndStatus(http.StatusOK, tokenResponse(g))
	}
}

func DoTokenRefresh(g *Client) func(*fhblade.Context) error {
	return func(c *fhblade.Context) error {
		if _, err := g.RefreshToken(c.Request().Req().Context()); err != nil {
			return c.JSONAndStatus(http.StatusBadGateway, types.ErrorResponse{
				Error: &types.CError{
					Message: err.Error(),
					Type:    "invalid_request_error",
					Code:    "token_err",
				},
			})
		}
		return c.JSONAndStatus(http.StatusOK, tokenResponse(g))
	}
}

// ToAskResponse renders a reply for the wire, content stays null when the
// exchange produced none.
func ToAskResponse(reply *Reply) *types.GeminiWebAskResponse {
	conv := reply.Conversation
	res := &types.GeminiWebAskResponse{
		Status:       reply.Status.String(),
		Images:       reply.Images,
		Conversation: &conv,
	}
	if res.Images == nil {
		res.Images = []string{}
	}
	if reply.HasContent() {
		content := reply.Content
		res.Content = &content
	}
	if reply.Err != nil {
		res.Error = reply.Err.Error()
	}
	return res
}

func tokenResponse(g *Client) *types.GeminiWebTokenResponse {
	res := &types.GeminiWebTokenResponse{AgeSeconds: g.TokenAge().Seconds()}
	if t := g.Token(); t != nil {
		res.AcquiredAt = t.AcquiredAt.Unix()
	}
	return res
}
