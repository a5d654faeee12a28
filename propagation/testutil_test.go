package propagation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sa6mwa/hfprop/internal/coeff"
)

const testdataCoeffDir = "../testdata/coeff"

func loadEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(testdataCoeffDir, nil)
	require.NoError(t, err)
	return e
}

func mustTestStore(t *testing.T) *coeff.Store {
	t.Helper()
	s, err := coeff.NewStore(testdataCoeffDir, nil)
	require.NoError(t, err)
	return s
}
