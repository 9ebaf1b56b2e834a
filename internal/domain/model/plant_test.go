package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPlant(t *testing.T) {
	plants := []Plant{{PlantCode: "BkkP", Name: "Bangkok"}, {PlantCode: "HmjP", Name: "Hemaraj"}}

	p, ok := FindPlant(plants, "HmjP")
	require.True(t, ok)
	assert.Equal(t, "Hemaraj", p.Name)

	// returned value is a copy
	p.Name = "changed"
	assert.Equal(t, "Hemaraj", plants[1].Name)

	_, ok = FindPlant(plants, "hmjp")
	assert.False(t, ok)
	_, ok = FindPlant(nil, "HmjP")
	assert.False(t, ok)
}

func TestSamePlantCode(t *testing.T) {
	assert.True(t, SamePlantCode("HmjP", " hmjp "))
	assert.False(t, SamePlantCode("HmjP", "BkkP"))
}
