package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPasswordCommand(t *testing.T) {
	cmd := newHashPasswordCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"s3cret"})

	require.NoError(t, cmd.Execute())
	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestHashPasswordCommandReadsStdin(t *testing.T) {
	cmd := newHashPasswordCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("from-stdin\n"))
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())
	hash := strings.TrimSpace(out.String())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("from-stdin")))
}

func TestHashPasswordCommandRejectsEmpty(t *testing.T) {
	cmd := newHashPasswordCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs([]string{})

	assert.Error(t, cmd.Execute())
}

func TestExportCommandWritesCSV(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("IDEAPORTAL_STORE_BACKEND", "csv")
	t.Setenv("IDEAPORTAL_DATA_DIR", dir)
	t.Setenv("IDEAPORTAL_AUTH_ENABLED", "false")

	cmd := newExportCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"ideas"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "ID,Name,Title,Description,Category,Status,Votes,SubmittedAt\n", out.String())
}
