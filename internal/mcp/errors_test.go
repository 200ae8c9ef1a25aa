package mcp

import (
	"errors"
	"fmt"
	"testing"

	"github.com/rpggio/ionview/internal/domain/variant"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	require.Nil(t, MapError(nil))
	require.Nil(t, MapError(errors.New("boom")))

	wrapped := fmt.Errorf("sorting: %w", variant.ErrUnknownColumn)
	require.Equal(t, "UNKNOWN_COLUMN", MapError(wrapped).Code)

	direct := &APIError{Code: "UNSCORED_COLUMN", Message: "x"}
	require.Same(t, direct, MapError(fmt.Errorf("wrap: %w", direct)))
	require.Equal(t, "UNSCORED_COLUMN: x", direct.Error())
}
