package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	http "github.com/bogdanfinn/fhttp"
	"github.com/zatxm/fhblade"
	"github.com/zatxm/gemini-web/internal/config"
	"github.com/zatxm/gemini-web/internal/console"
	"github.com/zatxm/gemini-web/internal/gemini"
	"github.com/zatxm/gemini-web/pkg/support"
)

func main() {
	// parse config
	var configFile, cookieFile string
	var chat, serve bool
	flag.StringVar(&configFile, "c", "", "where is config filepath")
	flag.StringVar(&cookieFile, "cookie", "", "cookie json filepath, overrides config")
	flag.BoolVar(&chat, "chat", false, "multi-turn prompt with conversation commands")
	flag.BoolVar(&serve, "s", false, "serve http instead of the prompt")
	flag.Parse()

	cfg := config.V()
	if configFile != "" {
		if !support.FileExists(configFile) {
			fmt.Println("config file not found:", configFile)
			os.Exit(1)
		}
		var err error
		if cfg, err = config.Parse(configFile); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
	if cookieFile != "" {
		cfg.GeminiWeb.CookiePath = cookieFile
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	g, err := gemini.NewFromConfig(ctx, cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if serve {
		if err := run(cfg, g); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		return
	}

	c := console.New(gemini.NewBook(g), os.Stdin, os.Stdout)
	if chat {
		err = c.Run(ctx)
	} else {
		err = c.Once(ctx)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, g *gemini.Client) error {
	app := fhblade.New()

	// ping
	app.Get("/ping", func(c *fhblade.Context) error {
		return c.JSONAndStatus(http.StatusOK, fhblade.H{"ping": "ok"})
	})

	// gemini web
	app.Post("/gemini/web/ask", gemini.DoAsk(g))
	app.Get("/gemini/web/token", gemini.DoTokenInfo(g))
	app.Post("/gemini/web/token", gemini.DoTokenRefresh(g))

	if cfg.HttpsInfo.Enable {
		return app.RunTLS(cfg.Port, cfg.HttpsInfo.PemFile, cfg.HttpsInfo.KeyFile)
	}
	return app.Run(cfg.Port)
}
