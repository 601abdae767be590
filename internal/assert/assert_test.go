package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type store struct{}

func TestNotNil(t *testing.T) {
	var typedNil *store
	var iface any = typedNil

	require.PanicsWithValue(t, "expected store to be not nil", func() { NotNil(nil, "store") })
	require.PanicsWithValue(t, "expected store to be not nil", func() { NotNil(iface, "store") })
	require.NotPanics(t, func() { NotNil(&store{}, "store") })
	require.NotPanics(t, func() { NotNil(store{}, "store") })
}

func TestNotEmptyStr(t *testing.T) {
	require.PanicsWithValue(t, "expected username to be non-empty", func() { NotEmptyStr("", "username") })
	require.NotPanics(t, func() { NotEmptyStr("a", "username") })
}
