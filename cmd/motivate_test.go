package cmd

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karolswdev/campuscare/internal/resources"
)

func TestMotivateRunE_PrintsAKnownQuote(t *testing.T) {
	var out bytes.Buffer
	quotes := resources.NewQuotes(rand.New(rand.NewPCG(7, 11)))

	require.NoError(t, motivateRunE(quotes, &out))

	assert.Contains(t, resources.DefaultQuotes, strings.TrimSuffix(out.String(), "\n"))
}

func TestMotivateRunE_SeededIsDeterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, motivateRunE(resources.NewQuotes(rand.New(rand.NewPCG(42, 21))), &first))
	require.NoError(t, motivateRunE(resources.NewQuotes(rand.New(rand.NewPCG(42, 21))), &second))

	assert.Equal(t, first.String(), second.String())
}
