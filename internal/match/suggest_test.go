package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	names := []string{"description", "display-name", "icon", "res-ref-name"}

	ranked := Rank("res-ref-nmae", names)
	require.Len(t, ranked, 4)

	best := ranked.Best()
	require.NotNil(t, best)
	assert.Equal(t, "res-ref-name", best.Name)
	assert.Equal(t, 3, best.Index)

	for i := 1; i < len(ranked); i++ {
		assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
	}

	assert.Nil(t, Rank("x", nil).Best())
}

func TestSuggest(t *testing.T) {
	names := []string{"name", "tag", "part", "main"}

	assert.Equal(t, []string{"name"}, Suggest("nme", names))
	assert.Equal(t, []string{"name"}, Suggest("Name", names))
	assert.Empty(t, Suggest("completely-unrelated", names))
}

func TestCandidateList_Top(t *testing.T) {
	c := CandidateList{{Name: "a", Score: 0.9}, {Name: "b", Score: 0.8}, {Name: "c", Score: 0.1}}

	assert.Len(t, c.Top(2), 2)
	assert.Len(t, c.Top(10), 3)
	assert.Len(t, c.AboveThreshold(0.5), 2)
}
