package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	for _, category := range AllCategories {
		assert.True(t, category.Valid(), "category %s", category)
	}

	assert.False(t, Category("yield").Valid())
	assert.False(t, Category("DEX").Valid())
	assert.False(t, Category("").Valid())
}

func TestUserProtocolActivityHasCompleted(t *testing.T) {
	activity := UserProtocolActivity{CompletedCriteria: []string{"Provide liquidity"}}

	assert.True(t, activity.HasCompleted("Provide liquidity"))
	assert.False(t, activity.HasCompleted("Bridge assets"))
	assert.False(t, UserProtocolActivity{}.HasCompleted("anything"))
}
