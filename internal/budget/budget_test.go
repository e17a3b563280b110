package budget_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ampgo/ampcss/internal/budget"
)

func TestAdmitFitsWithinBudget(t *testing.T) {
	l := budget.NewLedger(100)

	ok, overage := l.Admit(".a{color:red}")
	require.True(t, ok)
	assert.Zero(t, overage)
	assert.False(t, l.Empty())
	assert.Equal(t, ".a{color:red}", l.Concat())
}

func TestAdmitRejectsOverBudget(t *testing.T) {
	l := budget.NewLedger(5)

	ok, overage := l.Admit(".a{color:red}")
	assert.False(t, ok)
	assert.Equal(t, len(".a{color:red}")-5, overage)
	assert.True(t, l.Empty())
}

func TestAdmitDedupesIdenticalContent(t *testing.T) {
	l := budget.NewLedger(20)

	ok1, _ := l.Admit(".a{color:red}")
	require.True(t, ok1)

	ok2, overage := l.Admit(".a{color:red}")
	assert.True(t, ok2)
	assert.Zero(t, overage)

	// Only counted once toward the budget and the concatenated output.
	assert.Equal(t, ".a{color:red}", l.Concat())
}

func TestConcatPreservesInsertionOrder(t *testing.T) {
	l := budget.NewLedger(1000)
	l.Admit(".a{color:red}")
	l.Admit(".b{color:blue}")

	got := l.Concat()
	assert.True(t, strings.HasPrefix(got, ".a{color:red}"))
	assert.True(t, strings.HasSuffix(got, ".b{color:blue}"))
}
