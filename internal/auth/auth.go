// Package auth owns the OAuth credential lifecycle: loading the client
// secret, caching tokens on disk, refreshing expired tokens and running the
// interactive authorization flow. Consumers receive a ready Credential and
// never touch token state themselves.
package auth

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/slides/v1"
)

var (
	// ErrMissingClientSecret means the OAuth client secret file does not
	// exist. Setup guidance is attached by the CLI, not here.
	ErrMissingClientSecret = errors.New("client secret file not found")
	ErrInvalidClientSecret = errors.New("client secret file is malformed")
	ErrAuthorizationFailed = errors.New("authorization failed")
)

// Credential is an authenticated handle on the Google API. It is created by
// the Provider and passed into probing; probing never mutates it.
type Credential struct {
	client *http.Client
}

func (c *Credential) HTTPClient() *http.Client { return c.client }

// Provider implements the installed-app OAuth flow with a token cache file.
type Provider struct {
	CredentialsFile string
	TokenFile       string
	// Input supplies the authorization code during the interactive
	// exchange. Defaults to stdin.
	Input io.Reader
}

// Scopes returns the read-only scope this tool requests.
func Scopes() []string {
	return []string{slides.PresentationsReadonlyScope}
}

// GetCredential yields a usable credential or a classified failure. An
// expired token with a refresh token is refreshed and re-persisted; without
// one the interactive flow runs.
func (p *Provider) GetCredential(ctx context.Context) (*Credential, error) {
	data, err := os.ReadFile(p.CredentialsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissingClientSecret, p.CredentialsFile)
		}
		return nil, fmt.Errorf("read client secret: %w", err)
	}

	cfg, err := google.ConfigFromJSON(data, Scopes()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidClientSecret, err)
	}

	token, err := LoadToken(p.TokenFile)
	if err != nil {
		token, err = p.exchange(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(p.TokenFile, token); err != nil {
			return nil, fmt.Errorf("save token: %w", err)
		}
	}

	// TokenSource refreshes transparently; persist the refreshed token so
	// the next run skips the round trip.
	source := cfg.TokenSource(ctx, token)
	if !token.Valid() {
		fresh, err := source.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: token refresh: %v", ErrAuthorizationFailed, err)
		}
		if err := SaveToken(p.TokenFile, fresh); err != nil {
			return nil, fmt.Errorf("save refreshed token: %w", err)
		}
		source = cfg.TokenSource(ctx, fresh)
	}

	return &Credential{client: oauth2.NewClient(ctx, source)}, nil
}

// exchange runs the interactive authorization-code flow.
func (p *Provider) exchange(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following URL in your browser, authorize the app, then paste the code here:\n%s\n", authURL)
	fmt.Print("Authorization code: ")

	in := p.Input
	if in == nil {
		in = os.Stdin
	}
	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil, fmt.Errorf("%w: read authorization code: %v", ErrAuthorizationFailed, err)
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, fmt.Errorf("%w: empty authorization code", ErrAuthorizationFailed)
	}

	token, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorizationFailed, err)
	}
	return token, nil
}

func SaveToken(path string, token *oauth2.Token) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}
