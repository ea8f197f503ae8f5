package processor

import (
	"fmt"
	"path"
	"strings"

	"github.com/phambaophuc/multiscale/internal/models"
)

// DuplicatePolicy decides what happens when two entries of one batch end up
// with the same name.
type DuplicatePolicy string

const (
	// DuplicateSuffix keeps both entries and numbers the later ones: a.png, a-2.png, a-3.png.
	DuplicateSuffix DuplicatePolicy = "suffix"
	// DuplicateOverwrite keeps only the last entry with a given name.
	DuplicateOverwrite DuplicatePolicy = "overwrite"
)

func ParseDuplicatePolicy(value string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", DuplicateSuffix:
		return DuplicateSuffix, nil
	case DuplicateOverwrite:
		return DuplicateOverwrite, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", value)
	}
}

// AssignName builds the archive entry name for one output image.
func AssignName(profile models.TargetProfile, width, height int, density models.Density, originalName string) string {
	if profile.IsCustom() {
		return fmt.Sprintf("%dx%d-%s-%s", width, height, density, originalName)
	}
	return fmt.Sprintf("%s-%s-%s", profile.Device, density, originalName)
}

type nameSet struct {
	policy DuplicatePolicy
	owner  map[string]int
}

func newNameSet(policy DuplicatePolicy) *nameSet {
	return &nameSet{policy: policy, owner: make(map[string]int)}
}

// claim reserves name for the entry at index. With the overwrite policy the
// previous owner's index is returned so it can be dropped; otherwise prev is -1.
func (s *nameSet) claim(name string, index int) (final string, prev int) {
	prev, taken := s.owner[name]
	if !taken {
		s.owner[name] = index
		return name, -1
	}

	if s.policy == DuplicateOverwrite {
		s.owner[name] = index
		return name, prev
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, n, ext)
		if _, taken := s.owner[candidate]; !taken {
			s.owner[candidate] = index
			return candidate, -1
		}
	}
}
