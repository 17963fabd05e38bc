package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/jornal-escolar/portal-api/pkg/errors"
)

func TestUploadPolicyValidate(t *testing.T) {
	policy := UploadPolicy{MaxBytes: 1024, Extensions: JournalUploadExtensions}

	require.NoError(t, policy.Validate("edicao-12.PDF", 512))

	err := policy.Validate("edicao-12.pdf", 2048)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	err = policy.Validate("malicioso.exe", 10)
	require.Error(t, err)

	err = policy.Validate("", 10)
	require.Error(t, err)

	err = policy.Validate("vazio.pdf", 0)
	require.Error(t, err)
}

func TestStoredFilenameSanitizes(t *testing.T) {
	stored := storedFilename("../../etc/pass wd?.pdf")
	assert.False(t, strings.Contains(stored, "/"))
	assert.False(t, strings.Contains(stored, " "))
	assert.True(t, strings.HasSuffix(stored, "pass_wd_.pdf"))

	stored = storedFilename("...")
	assert.True(t, strings.HasSuffix(stored, "_arquivo"))
}
