package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type secretInput struct {
	Secret string `json:"secret" validate:"required,maxbytes=8"`
}

func TestValidate_MaxBytesCountsEncodedLength(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&secretInput{Secret: "abcdefgh"}))
	assert.NoError(t, v.Validate(&secretInput{Secret: strings.Repeat("é", 4)}))

	err := v.Validate(&secretInput{Secret: strings.Repeat("é", 5)})
	require.Error(t, err)
	assert.Equal(t, map[string]string{"secret": "maxbytes"}, FieldErrors(err))
}

func TestFieldErrors_IgnoresOtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(assert.AnError))
}
