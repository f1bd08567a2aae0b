package code

import (
	"testing"

	"github.com/go-auth-core/internal/pkg/validate"
	"github.com/stretchr/testify/require"
)

func TestNewTwoFACode_AlwaysInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		c, err := NewTwoFACode()
		require.NoError(t, err)
		require.NoError(t, validate.TwoFACode(c), c)
	}
}
