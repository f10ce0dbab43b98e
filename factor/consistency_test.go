package factor_test

import (
	"testing"

	"github.com/katalvlaran/celltrack/factor"
	"github.com/stretchr/testify/require"
)

func TestConsistency_ZeroValueIsConsistent(t *testing.T) {
	var c factor.Consistency
	require.Equal(t, factor.Consistent, c)
}

func TestConsistency_InconsistentDominates(t *testing.T) {
	var c factor.Consistency
	c.MarkUnknown()
	c.MarkInconsistent()
	require.Equal(t, factor.Inconsistent, c)

	// Once inconsistent, marking unknown must not downgrade it.
	c.MarkUnknown()
	require.Equal(t, factor.Inconsistent, c)
}

func TestConsistency_MergePrecedence(t *testing.T) {
	var a factor.Consistency // consistent
	a.Merge(factor.Unknown)
	require.Equal(t, factor.Unknown, a)

	a.Merge(factor.Consistent)
	require.Equal(t, factor.Unknown, a) // consistent never downgrades unknown

	a.Merge(factor.Inconsistent)
	require.Equal(t, factor.Inconsistent, a)
	require.False(t, a.IsNotInconsistent())
}
