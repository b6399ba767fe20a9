package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/SundayYogurt/herohq/config"
	"github.com/SundayYogurt/herohq/internal/common"
	"github.com/SundayYogurt/herohq/internal/domain"
	"github.com/SundayYogurt/herohq/internal/repository"
	"github.com/SundayYogurt/herohq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func run(t *testing.T, db *gorm.DB, args ...string) (string, error) {
	t.Helper()
	cmd := buildRoot(config.Config{}, func(string) (*gorm.DB, error) { return db, nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPromoteAndDemote(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	u := &domain.User{Email: "oracle@x.com"}
	require.NoError(t, users.CreateUser(context.Background(), u))

	out, err := run(t, db, "promote", "oracle@x.com")
	require.NoError(t, err)
	assert.Contains(t, out, "oracle@x.com is now admin")

	role, err := users.GetRole(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, role)

	_, err = run(t, db, "demote", "oracle@x.com")
	require.NoError(t, err)
	role, err = users.GetRole(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, role)

	out, err = run(t, db, "audit", "--limit", "5")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, domain.AuditRoleChanged))
	assert.Contains(t, out, domain.ActorCLI)
}

func TestPromote_UnknownEmail(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := run(t, db, "promote", "ghost@x.com")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPromote_RequiresEmail(t *testing.T) {
	db := testutil.NewDB(t)

	_, err := run(t, db, "promote")
	assert.Error(t, err)
}
