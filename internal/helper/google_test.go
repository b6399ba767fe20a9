package helper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func TestIdentityFromPayload(t *testing.T) {
	id, err := identityFromPayload(&idtoken.Payload{
		Subject: "1234",
		Claims:  map[string]interface{}{"email": "Jane@Gmail.com", "email_verified": true},
	})
	require.NoError(t, err)
	assert.Equal(t, GoogleIdentity{Email: "jane@gmail.com", Subject: "1234"}, id)

	_, err = identityFromPayload(&idtoken.Payload{
		Subject: "1234",
		Claims:  map[string]interface{}{"email": "jane@gmail.com", "email_verified": false},
	})
	assert.Error(t, err)

	_, err = identityFromPayload(&idtoken.Payload{
		Claims: map[string]interface{}{"email": "jane@gmail.com", "email_verified": true},
	})
	assert.Error(t, err)
}

func TestGoogleOAuth_AuthCodeURL(t *testing.T) {
	g := NewGoogleOAuth("client-id", "secret", "http://localhost:3000/auth/google/callback")

	u := g.AuthCodeURL("state-1")
	assert.True(t, strings.HasPrefix(u, "https://accounts.google.com/"))
	assert.Contains(t, u, "state=state-1")
	assert.Contains(t, u, "client_id=client-id")
	assert.Contains(t, u, "prompt=select_account")
}
