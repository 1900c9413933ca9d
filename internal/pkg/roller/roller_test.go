package roller_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokebattle-api/internal/pkg/roller"
)

func TestSeededRollerIsReproducible(t *testing.T) {
	a := roller.NewSeeded(42)
	b := roller.NewSeeded(42)

	for i := 0; i < 100; i++ {
		x, err := a.Roll(1501)
		require.NoError(t, err)
		y, err := b.Roll(1501)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

func TestSeededRollerBounds(t *testing.T) {
	r := roller.NewSeeded(7)

	rolls, err := r.RollN(500, 4)
	require.NoError(t, err)
	require.Len(t, rolls, 500)
	for _, v := range rolls {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 4)
	}
}

func TestSeededRollerRejectsInvalidInput(t *testing.T) {
	r := roller.NewSeeded(0)

	_, err := r.Roll(0)
	assert.Error(t, err)

	_, err = r.RollN(-1, 6)
	assert.Error(t, err)
}
