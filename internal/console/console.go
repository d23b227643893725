// Package console is the interactive prompt in front of a conversation book.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/zatxm/gemini-web/internal/gemini"
)

const prompt = ">>> "

// Book is the part of gemini.Book the prompt drives.
type Book interface {
	Ask(ctx context.Context, prompt, name string) (*gemini.Reply, error)
	Create(name string) (string, error)
	Switch(name string) error
	List() []string
	Delete(name string) error
	Current() string
}

type Console struct {
	book    Book
	scanner *bufio.Scanner
	out     io.Writer
}

func New(book Book, in io.Reader, out io.Writer) *Console {
	return &Console{
		book:    book,
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Once reads a single line, asks it and prints the content.
func (c *Console) Once(ctx context.Context) error {
	fmt.Fprint(c.out, prompt)
	line, ok := c.readLine()
	if !ok {
		return c.scanner.Err()
	}
	reply, err := c.book.Ask(ctx, line, "")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, reply.Content)
	return nil
}

// Run loops until /quit or end of input.
func (c *Console) Run(ctx context.Context) error {
	fmt.Fprintln(c.out, "Available conversations:", c.book.List())
	fmt.Fprintf(c.out, "\nCurrent conversation: %s\n", c.book.Current())
	fmt.Fprintln(c.out, "\nCommands:")
	fmt.Fprintln(c.out, "  /switch <name> - Switch to a different conversation")
	fmt.Fprintln(c.out, "  /new <name> - Create a new conversation")
	fmt.Fprintln(c.out, "  /list - List all conversations")
	fmt.Fprintln(c.out, "  /delete <name> - Delete a conversation")
	fmt.Fprintln(c.out, "  /quit - Exit the program")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.out, "\n"+prompt)
		line, ok := c.readLine()
		if !ok {
			return c.scanner.Err()
		}
		// 只用修剪后的行判断命令和空行,发送原始输入
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "/") {
			if quit := c.command(trimmed); quit {
				return nil
			}
			continue
		}
		if trimmed == "" {
			continue
		}
		reply, err := c.book.Ask(ctx, line, "")
		if err != nil {
			fmt.Fprintln(c.out, "Error:", err)
			continue
		}
		if !reply.HasContent() {
			fmt.Fprintln(c.out, "\nNo response received")
			continue
		}
		fmt.Fprintln(c.out, "\nGemini:", reply.Content)
		if len(reply.Images) > 0 {
			fmt.Fprintln(c.out, "\nImages:", reply.Images)
		}
	}
}

func (c *Console) command(line string) bool {
	parts := strings.Fields(line)
	cmd := strings.ToLower(parts[0])
	var err error
	switch {
	case cmd == "/switch" && len(parts) > 1:
		err = c.book.Switch(parts[1])
	case cmd == "/new" && len(parts) > 1:
		_, err = c.book.Create(parts[1])
	case cmd == "/list":
		fmt.Fprintln(c.out, "Conversations:", c.book.List())
	case cmd == "/delete" && len(parts) > 1:
		err = c.book.Delete(parts[1])
	case cmd == "/quit":
		return true
	default:
		fmt.Fprintln(c.out, "Invalid command")
	}
	if err != nil {
		fmt.Fprintln(c.out, "Error:", err)
	}
	return false
}

func (c *Console) readLine() (string, bool) {
	if !c.scanner.Scan() {
		return "", false
	}
	return c.scanner.Text(), true
}
