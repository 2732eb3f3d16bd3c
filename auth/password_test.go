package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndComparePassword(t *testing.T) {
	req := require.New(t)

	hash, err := HashPassword("correct horse battery staple")
	req.NoError(err)
	req.NotEqual("correct horse battery staple", hash)

	ok, err := ComparePassword("correct horse battery staple", hash)
	req.NoError(err)
	req.True(ok)

	ok, err = ComparePassword("Tr0ub4dor&3", hash)
	req.NoError(err)
	req.False(ok)

	_, err = ComparePassword("anything", "not-a-bcrypt-hash")
	req.Error(err)
}
