package gemini

import (
	"bytes"
	"fmt"

	"github.com/zatxm/fhblade"
	"github.com/zatxm/gemini-web/internal/types"
)

// 响应第4行是有效数据
const envelopeLine = 3

// 响应体里的固定下标,相对各自的父节点
var (
	pathPayload        = []int{2}
	pathFramePayload   = []int{0, 2}
	pathConversationId = []int{1, 0}
	pathResponseId     = []int{1, 1}
	pathCandidate      = []int{4, 0}
	pathChoiceId       = []int{0}
	pathContent        = []int{1, 0}
	pathImages         = []int{4}
	pathImageUrl       = []int{0, 0, 0}
)

// Turn is one decoded reply from the chat endpoint.
type Turn struct {
	// false when the payload carried no ids, the caller keeps its context
	HasConversation bool
	Conversation    types.Conversation
	Content         string
	Images          []string
}

func (t *Turn) HasContent() bool {
	return t.Content != ""
}

// DecodeEnvelope decodes the newline-delimited, doubly encoded body of a
// StreamGenerate response. A body whose payload is null decodes to an empty
// turn without ids.
func DecodeEnvelope(body []byte) (*Turn, error) {
	lines := bytes.Split(body, []byte{'\n'})
	if len(lines) <= envelopeLine {
		return nil, parseError(&PathError{
			Field:  "envelope",
			Path:   []int{envelopeLine},
			Reason: fmt.Sprintf("body has %d lines", len(lines)),
		})
	}
	line := bytes.TrimSpace(lines[envelopeLine])
	var frame []interface{}
	if err := fhblade.Json.Unmarshal(line, &frame); err != nil {
		return nil, parseError(&PathError{
			Field:  "envelope",
			Path:   []int{envelopeLine},
			Reason: "line is not a json array: " + err.Error(),
		})
	}

	path := pathPayload
	if len(frame) > 0 {
		if _, ok := frame[0].([]interface{}); ok {
			path = pathFramePayload
		}
	}
	raw, err := required("payload", frame, path)
	if err != nil {
		return nil, err
	}
	turn := &Turn{Images: []string{}}
	if raw == nil {
		return turn, nil
	}
	payload, ok := raw.(string)
	if !ok {
		return nil, parseError(&PathError{Field: "payload", Path: path, Reason: "not a string"})
	}
	if payload == "" {
		return turn, nil
	}

	var inner interface{}
	if err := fhblade.Json.Unmarshal([]byte(payload), &inner); err != nil {
		return nil, parseError(&PathError{Field: "payload", Path: path, Reason: "invalid json: " + err.Error()})
	}
	if _, ok := inner.([]interface{}); !ok {
		return nil, parseError(&PathError{Field: "payload", Reason: "not an array"})
	}

	conversationId, err := requiredString("conversation_id", inner, pathConversationId)
	if err != nil {
		return nil, err
	}
	responseId, err := requiredString("response_id", inner, pathResponseId)
	if err != nil {
		return nil, err
	}
	turn.HasConversation = true
	turn.Conversation.ConversationId = conversationId
	turn.Conversation.ResponseId = responseId

	candidate, ok := optional(inner, pathCandidate)
	if !ok {
		return turn, nil
	}
	if v, ok := optional(candidate, pathChoiceId); ok {
		turn.Conversation.ChoiceId, _ = v.(string)
	}
	if v, ok := optional(candidate, pathContent); ok {
		turn.Content, _ = v.(string)
	}
	if v, ok := optional(candidate, pathImages); ok {
		if images, ok := v.([]interface{}); ok {
			for k := range images {
				u, ok := optional(images[k], pathImageUrl)
				if !ok {
					continue
				}
				if s, ok := u.(string); ok && s != "" {
					turn.Images = append(turn.Images, s)
				}
			}
		}
	}
	return turn, nil
}

func parseError(err error) error {
	return newError(KindParse, "decode envelope", err)
}

// walk follows path through nested arrays. On failure it returns the depth
// that could not be resolved and why.
func walk(v interface{}, path []int) (interface{}, int, string) {
	for i, idx := range path {
		if v == nil {
			return nil, i, "missing"
		}
		arr, ok := v.([]interface{})
		if !ok {
			return nil, i, fmt.Sprintf("expected array, got %T", v)
		}
		if idx >= len(arr) {
			return nil, i, fmt.Sprintf("index out of range (len %d)", len(arr))
		}
		v = arr[idx]
	}
	return v, len(path), ""
}

func optional(v interface{}, path []int) (interface{}, bool) {
	r, _, reason := walk(v, path)
	if reason != "" || r == nil {
		return nil, false
	}
	return r, true
}

func required(field string, v interface{}, path []int) (interface{}, error) {
	r, depth, reason := walk(v, path)
	if reason != "" {
		return nil, parseError(&PathError{Field: field, Path: path[:depth+1], Reason: reason})
	}
	return r, nil
}

func requiredString(field string, v interface{}, path []int) (string, error) {
	r, err := required(field, v, path)
	if err != nil {
		return "", err
	}
	s, ok := r.(string)
	if !ok {
		return "", parseError(&PathError{Field: field, Path: path, Reason: fmt.Sprintf("expected string, got %T", r)})
	}
	return s, nil
}
