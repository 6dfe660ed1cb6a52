package tracker

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/oauth2"
)

// tokenURL is the Yandex OAuth token endpoint.
const tokenURL = "https://oauth.yandex.ru/token"

// TokenResponse is the outcome of an authorization-code exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// ExchangeCode trades an OAuth authorization code for an access token.
// Error handling follows the client taxonomy: a 4xx from the token endpoint
// becomes an HTTP error carrying the provider's error code (for example
// "invalid_grant"), transport failures classify as timeout or network.
func ExchangeCode(ctx context.Context, clientID, clientSecret, code string) (*TokenResponse, error) {
	return exchangeCode(ctx, tokenURL, clientID, clientSecret, code)
}

func exchangeCode(ctx context.Context, endpoint, clientID, clientSecret, code string) (*TokenResponse, error) {
	id := strings.TrimSpace(clientID)
	secret := strings.TrimSpace(clientSecret)
	trimmedCode := strings.TrimSpace(code)
	if id == "" || secret == "" {
		return nil, newError(KindOther, "oauth client credentials are empty")
	}
	if trimmedCode == "" {
		return nil, newError(KindOther, "authorization code is empty")
	}

	conf := &oauth2.Config{
		ClientID:     id,
		ClientSecret: secret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  endpoint,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	token, err := conf.Exchange(ctx, trimmedCode)
	if err != nil {
		var retrieve *oauth2.RetrieveError
		if errors.As(err, &retrieve) && retrieve.Response != nil {
			return nil, httpError(retrieve.Response.StatusCode, strings.TrimSpace(string(retrieve.Body)))
		}
		return nil, classifyTransport(err)
	}
	if token.AccessToken == "" {
		return nil, newError(KindSerialization, "token response missing access_token")
	}

	resp := &TokenResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresIn:   token.ExpiresIn,
	}
	if scope, ok := token.Extra("scope").(string); ok {
		resp.Scope = scope
	}
	return resp, nil
}

// BearerConfig is a convenience for building a client config from an
// exchanged token, carrying the token type through as the auth scheme.
func (t TokenResponse) BearerConfig(orgType OrgType) Config {
	cfg := NewConfig(t.AccessToken, orgType)
	if strings.EqualFold(t.TokenType, "bearer") {
		cfg = cfg.WithAuthScheme(AuthBearer)
	}
	return cfg
}
