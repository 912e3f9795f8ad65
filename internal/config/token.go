package config

import (
	"github.com/cli/go-gh/pkg/auth"
)

// Token sources reported by ResolveToken
const (
	TokenSourceFlag   = "flag"
	TokenSourceConfig = "config"
	TokenSourceNone   = "none"
)

// TokenLookup finds a token for a GitHub host. auth.TokenForHost checks
// GH_TOKEN, GITHUB_TOKEN and the gh CLI hosts file.
type TokenLookup func(host string) (token string, source string)

// ResolveToken picks the token for the search client: the flag wins over the
// config file, which wins over the environment and gh CLI credentials.
// An empty result is not an error: the API answers 401 and the UI shows it.
func ResolveToken(flagToken string, cfg *Config, lookup TokenLookup) (string, string) {
	if flagToken != "" {
		return flagToken, TokenSourceFlag
	}
	if cfg != nil && cfg.Token != "" {
		return cfg.Token, TokenSourceConfig
	}
	if lookup == nil {
		lookup = auth.TokenForHost
	}
	host := "github.com"
	if cfg != nil {
		host = cfg.Host()
	}
	if token, source := lookup(host); token != "" {
		return token, source
	}
	return "", TokenSourceNone
}

// MaskToken returns a prefix of the token that is safe to log
func MaskToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****"
}
