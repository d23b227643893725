package types

import "time"

// Credentials 浏览器导出的两个会话cookie
type Credentials struct {
	PSID   string
	PSIDTS string
}

// Cookie 导出文件里的单条记录,其余字段忽略
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type SessionToken struct {
	Value      string
	AcquiredAt time.Time
}

// Age reports how long ago the token was scraped.
func (t *SessionToken) Age(now time.Time) time.Duration {
	if t == nil || t.AcquiredAt.IsZero() {
		return 0
	}
	return now.Sub(t.AcquiredAt)
}

// Conversation 多轮对话上下文,需原样回传
type Conversation struct {
	ConversationId string `json:"conversation_id"`
	ResponseId     string `json:"response_id"`
	ChoiceId       string `json:"choice_id"`
}

func (c Conversation) IsZero() bool {
	return c == Conversation{}
}

// http接口参数
type GeminiWebAskRequest struct {
	Prompt       string        `json:"prompt" binding:"required"`
	SystemPrompt string        `json:"system_prompt,omitempty"`
	Conversation *Conversation `json:"conversation,omitempty"`
}

type GeminiWebAskResponse struct {
	Status       string        `json:"status"`
	Content      *string       `json:"content"`
	Images       []string      `json:"images"`
	Conversation *Conversation `json:"conversation"`
	Error        string        `json:"error,omitempty"`
}

type GeminiWebTokenResponse struct {
	AcquiredAt int64   `json:"acquired_at"`
	AgeSeconds float64 `json:"age_seconds"`
}
