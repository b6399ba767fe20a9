package helper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
	"google.golang.org/api/idtoken"
)

type GoogleIdentity struct {
	Email   string
	Subject string
}

// GoogleSignIn runs the OAuth2 code flow and validates the returned ID token.
type GoogleSignIn interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (GoogleIdentity, error)
}

type GoogleOAuth struct {
	cfg      *oauth2.Config
	validate func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

func NewGoogleOAuth(clientID, clientSecret, redirectURL string) *GoogleOAuth {
	return &GoogleOAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		validate: idtoken.Validate,
	}
}

func (g *GoogleOAuth) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code string) (GoogleIdentity, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("google exchange: %w", err)
	}
	raw, ok := tok.Extra("id_token").(string)
	if !ok || raw == "" {
		return GoogleIdentity{}, errors.New("google exchange: no id_token in response")
	}
	payload, err := g.validate(ctx, raw, g.cfg.ClientID)
	if err != nil {
		return GoogleIdentity{}, fmt.Errorf("google id token: %w", err)
	}
	return identityFromPayload(payload)
}

func identityFromPayload(p *idtoken.Payload) (GoogleIdentity, error) {
	email, _ := p.Claims["email"].(string)
	verified, _ := p.Claims["email_verified"].(bool)
	if email == "" || !verified {
		return GoogleIdentity{}, errors.New("google account has no verified email")
	}
	if p.Subject == "" {
		return GoogleIdentity{}, errors.New("google id token has no subject")
	}
	return GoogleIdentity{Email: strings.ToLower(email), Subject: p.Subject}, nil
}
