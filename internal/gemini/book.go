package gemini

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/zatxm/gemini-web/internal/types"
)

var (
	ErrConversationExists   = errors.New("conversation already exists")
	ErrConversationNotFound = errors.New("conversation does not exist")
)

// Asker is the exchange a Book drives, normally *Client.
type Asker interface {
	Ask(ctx context.Context, conv types.Conversation, prompt, sysPrompt string) *Reply
}

// Book keeps named conversations and which one is current.
type Book struct {
	asker Asker

	mu      sync.Mutex
	names   []string
	convs   map[string]types.Conversation
	current string
}

func NewBook(asker Asker) *Book {
	return &Book{
		asker: asker,
		convs: make(map[string]types.Conversation),
	}
}

// Create adds an empty conversation and makes it current. An empty name
// gets conversation_<n>.
func (b *Book) Create(name string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.create(name)
}

func (b *Book) create(name string) (string, error) {
	if name == "" {
		name = "conversation_" + strconv.Itoa(len(b.names)+1)
	}
	if _, ok := b.convs[name]; ok {
		return "", fmt.Errorf("%w: %s", ErrConversationExists, name)
	}
	b.convs[name] = types.Conversation{}
	b.names = append(b.names, name)
	b.current = name
	return name, nil
}

func (b *Book) Switch(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.convs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrConversationNotFound, name)
	}
	b.current = name
	return nil
}

// List returns names in creation order.
func (b *Book) List() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, len(b.names))
	copy(names, b.names)
	return names
}

func (b *Book) Delete(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.convs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrConversationNotFound, name)
	}
	delete(b.convs, name)
	for k := range b.names {
		if b.names[k] == name {
			b.names = append(b.names[:k], b.names[k+1:]...)
			break
		}
	}
	if b.current == name {
		b.current = ""
		if len(b.names) > 0 {
			b.current = b.names[0]
		}
	}
	return nil
}

// Current returns the current name, empty when there is none.
func (b *Book) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Get returns the stored context of a conversation.
func (b *Book) Get(name string) (types.Conversation, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	conv, ok := b.convs[name]
	return conv, ok
}

// Ask sends prompt in the named conversation, or the current one when name
// is empty, creating a conversation if none exists. The reply's context is
// stored back.
func (b *Book) Ask(ctx context.Context, prompt, name string) (*Reply, error) {
	b.mu.Lock()
	if name != "" {
		if _, ok := b.convs[name]; !ok {
			b.mu.Unlock()
			return nil, fmt.Errorf("%w: %s", ErrConversationNotFound, name)
		}
		b.current = name
	} else if b.current == "" {
		if _, err := b.create(""); err != nil {
			b.mu.Unlock()
			return nil, err
		}
	}
	name = b.current
	conv := b.convs[name]
	b.mu.Unlock()

	reply := b.asker.Ask(ctx, conv, prompt, "")

	b.mu.Lock()
	// 对话期间可能已被删除
	if _, ok := b.convs[name]; ok {
		b.convs[name] = reply.Conversation
	}
	b.mu.Unlock()
	return reply, nil
}
