package processor

import (
	"testing"

	"github.com/phambaophuc/multiscale/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignName(t *testing.T) {
	assert.Equal(t, "iPhoneSE-2x-a.png",
		AssignName(models.NamedProfile("iPhoneSE"), 640, 1136, models.Density2x, "a.png"))
	assert.Equal(t, "iPhone14&15Pro-3x-shot one.jpg",
		AssignName(models.NamedProfile("iPhone14&15Pro"), 1179, 2556, models.Density3x, "shot one.jpg"))
	assert.Equal(t, "750x1800-2x-b.png",
		AssignName(models.CustomProfile("375", "900"), 750, 1800, models.Density2x, "b.png"))
}

func TestNameSet_Suffix(t *testing.T) {
	s := newNameSet(DuplicateSuffix)

	name, prev := s.claim("x-1x-a.png", 0)
	assert.Equal(t, "x-1x-a.png", name)
	assert.Equal(t, -1, prev)

	name, prev = s.claim("x-1x-a.png", 1)
	assert.Equal(t, "x-1x-a-2.png", name)
	assert.Equal(t, -1, prev)

	name, _ = s.claim("x-1x-a.png", 2)
	assert.Equal(t, "x-1x-a-3.png", name)

	// A source literally named a-2.png must not clash with the generated suffix.
	name, _ = s.claim("x-1x-a-2.png", 3)
	assert.Equal(t, "x-1x-a-2-2.png", name)

	name, _ = s.claim("noext", 4)
	assert.Equal(t, "noext", name)
	name, _ = s.claim("noext", 5)
	assert.Equal(t, "noext-2", name)
}

func TestNameSet_Overwrite(t *testing.T) {
	s := newNameSet(DuplicateOverwrite)

	_, prev := s.claim("a.png", 0)
	assert.Equal(t, -1, prev)

	name, prev := s.claim("a.png", 3)
	assert.Equal(t, "a.png", name)
	assert.Equal(t, 0, prev)

	_, prev = s.claim("a.png", 5)
	assert.Equal(t, 3, prev)
}

func TestParseDuplicatePolicy(t *testing.T) {
	p, err := ParseDuplicatePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DuplicateSuffix, p)

	p, err = ParseDuplicatePolicy(" Overwrite ")
	require.NoError(t, err)
	assert.Equal(t, DuplicateOverwrite, p)

	_, err = ParseDuplicatePolicy("rename")
	require.Error(t, err)
}
