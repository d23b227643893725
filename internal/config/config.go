package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort               = ":8999"
	DefaultCookiePath         = "cookie.json"
	DefaultBuildLabel         = "boq_assistant-bard-web-server_20230713.13_p0"
	DefaultTimeoutSeconds     = 30
	DefaultTokenTimeoutSecond = 10
)

var cfg *Config

type Config struct {
	Port      string    `yaml:"port"`
	HttpsInfo httpsInfo `yaml:"https_info"`
	ProxyUrl  string    `yaml:"proxy_url"`
	GeminiWeb geminiWeb `yaml:"gemini_web"`
}

type httpsInfo struct {
	Enable  bool   `yaml:"enable"`
	PemFile string `yaml:"pem_file"`
	KeyFile string `yaml:"key_file"`
}

type geminiWeb struct {
	CookiePath string `yaml:"cookie_path"`
	// 单位秒
	Timeout      int `yaml:"timeout"`
	TokenTimeout int `yaml:"token_timeout"`
	// token超过该秒数后对话前重新获取,0不处理
	TokenMaxAge int    `yaml:"token_max_age"`
	BuildLabel  string `yaml:"build_label"`
	UserAgent   string `yaml:"user_agent"`
	ProxyUrl    string `yaml:"proxy_url"`
}

func V() *Config {
	if cfg == nil {
		cfg = Default()
	}
	return cfg
}

// Default returns a config with every field set to its default.
func Default() *Config {
	c := &Config{}
	c.fill()
	return c
}

func Parse(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, err
	}
	c.fill()
	cfg = c
	return cfg, nil
}

// GeminiProxyUrl 优先gemini_web下的代理
func GeminiProxyUrl() string {
	c := V()
	if c.GeminiWeb.ProxyUrl != "" {
		return c.GeminiWeb.ProxyUrl
	}
	return c.ProxyUrl
}

func (c *Config) fill() {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	g := &c.GeminiWeb
	if g.CookiePath == "" {
		g.CookiePath = DefaultCookiePath
	}
	if g.Timeout <= 0 {
		g.Timeout = DefaultTimeoutSeconds
	}
	if g.TokenTimeout <= 0 {
		g.TokenTimeout = DefaultTokenTimeoutSecond
	}
	// token请求须先于对话超时,秒级下至少留2秒
	if g.Timeout < 2 {
		g.Timeout = 2
	}
	if g.TokenTimeout >= g.Timeout {
		g.TokenTimeout = g.Timeout / 2
	}
	if g.TokenMaxAge < 0 {
		g.TokenMaxAge = 0
	}
	if g.BuildLabel == "" {
		g.BuildLabel = DefaultBuildLabel
	}
}
