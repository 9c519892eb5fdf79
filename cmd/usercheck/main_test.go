package main

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopassist/internal/model"
	"shopassist/internal/repository"
	"shopassist/internal/service"
)

func seedUsersFile(t *testing.T, password string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	hash, err := service.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, repository.NewUserStore(path).Create(model.User{
		ID: "1", Name: "Admin", Email: "admin@gmail.com", Password: hash, Role: model.RoleAdmin, CreatedAt: time.Now().UTC(),
	}))
	return path
}

func run(args ...string) (string, error) {
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDiagnose_Match(t *testing.T) {
	path := seedUsersFile(t, "admin123")

	out, err := run("diagnose", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "1 user(s)")
	assert.Contains(t, out, "Role:  admin")
	assert.Contains(t, out, `Password "admin123": matches`)
}

func TestDiagnose_FindsVariation(t *testing.T) {
	path := seedUsersFile(t, "Admin123")

	out, err := run("diagnose", "--file", path)
	require.Error(t, err)
	assert.Contains(t, out, "does not match")
	assert.Regexp(t, `Admin123\s+MATCHES`, out)
	assert.Regexp(t, `ADMIN123\s+no`, out)
}

func TestDiagnose_UnknownUser(t *testing.T) {
	path := seedUsersFile(t, "admin123")

	out, err := run("diagnose", "--file", path, "--email", "ghost@gmail.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	assert.Contains(t, out, "No user found with email ghost@gmail.com")
}

func TestResetPassword(t *testing.T) {
	path := seedUsersFile(t, "forgotten")

	out, err := run("reset-password", "--file", path, "--email", "admin@gmail.com", "--password", "newpass1")
	require.NoError(t, err)
	assert.Contains(t, out, "Password updated for admin@gmail.com")

	_, err = run("diagnose", "--file", path, "--password", "newpass1")
	assert.NoError(t, err)

	_, err = run("reset-password", "--file", path, "--email", "admin@gmail.com", "--password", "123")
	assert.Error(t, err)

	_, err = run("reset-password", "--file", path, "--email", "ghost@gmail.com", "--password", "newpass1")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}
