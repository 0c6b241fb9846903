// Package googlecheck provides a check approving requests carrying a Google OAuth access token
// whose user may reach the endpoint.
package googlecheck

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/xy-planning-network/checkpoint"
	"github.com/xy-planning-network/checkpoint/http/check"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	goauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Variant is the name the google check registers under.
const Variant = "google"

// A UserFetcher retrieves the Google user an access token belongs to.
type UserFetcher interface {
	FetchUser(ctx context.Context, token *oauth2.Token) (*goauth2.Userinfo, error)
}

// A Fetcher is a UserFetcher calling Google's userinfo API.
type Fetcher struct {
	base *http.Client
	opts []option.ClientOption
}

// A FetcherOpt configures a Fetcher.
type FetcherOpt func(*Fetcher)

// WithBaseClient sets the client requests are sent through before adding the token.
func WithBaseClient(c *http.Client) FetcherOpt {
	return func(f *Fetcher) {
		f.base = c
	}
}

// WithClientOptions appends options used when constructing the oauth2 service.
func WithClientOptions(opts ...option.ClientOption) FetcherOpt {
	return func(f *Fetcher) {
		f.opts = append(f.opts, opts...)
	}
}

// NewFetcher constructs a Fetcher.
func NewFetcher(opts ...FetcherOpt) *Fetcher {
	f := new(Fetcher)
	for _, opt := range opts {
		opt(f)
	}

	return f
}

func (f *Fetcher) FetchUser(ctx context.Context, token *oauth2.Token) (*goauth2.Userinfo, error) {
	ts := oauth2.StaticTokenSource(token)

	var auth option.ClientOption
	if f.base != nil {
		auth = option.WithHTTPClient(oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, f.base), ts))
	} else {
		auth = option.WithTokenSource(ts)
	}

	service, err := goauth2.NewService(ctx, append([]option.ClientOption{auth}, f.opts...)...)
	if err != nil {
		return nil, err
	}

	return service.Userinfo.Get().Context(ctx).Do()
}

// A Check approves requests whose bearer token belongs to a Google user,
// passing on the user's id, email and hosted domain.
//
// Config:
//
//	check:  identifier
//	domain: when set, the hosted domain users must belong to
type Check struct {
	cfg     check.Config
	fetcher UserFetcher
}

// Factory builds google checks fetching users through fetcher.
func Factory(fetcher UserFetcher) check.Factory {
	return func(cfg check.Config) (check.Check, error) {
		if fetcher == nil {
			return nil, fmt.Errorf("%w: google check requires a user fetcher", checkpoint.ErrBadConfig)
		}

		return &Check{cfg: cfg, fetcher: fetcher}, nil
	}
}

func (c *Check) Config() check.Config { return c.cfg }

func (c *Check) Apply(ctx context.Context, cfg check.Config, r *http.Request) (check.Result, error) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return check.Reject(http.StatusUnauthorized, map[string]any{"message": "Missing token"}), nil
	}

	user, err := c.fetcher.FetchUser(ctx, &oauth2.Token{AccessToken: strings.TrimSpace(token), TokenType: "Bearer"})

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && (apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden) {
		return check.Reject(http.StatusUnauthorized, map[string]any{"message": "Invalid token"}), nil
	}

	if err != nil {
		return check.Result{}, fmt.Errorf("fetching google user: %w", err)
	}

	if domain, _ := cfg.String("domain"); domain != "" && !strings.EqualFold(user.Hd, domain) {
		return check.Reject(http.StatusForbidden, map[string]any{"message": "Domain not allowed"}), nil
	}

	return check.Approve(map[string]any{
		"id":    user.Id,
		"email": user.Email,
		"hd":    user.Hd,
	}), nil
}
