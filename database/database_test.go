package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialector(t *testing.T) {
	req := require.New(t)

	pg, err := Dialector("", "host=localhost user=social dbname=social")
	req.NoError(err)
	req.Equal("postgres", pg.Name())

	my, err := Dialector("mysql", "social:secret@tcp(localhost:3306)/social")
	req.NoError(err)
	req.Equal("mysql", my.Name())

	_, err = Dialector("sqlite", "file::memory:")
	req.Error(err)
}
