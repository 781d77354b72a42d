package job

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	j := Job{ID: "a"}
	j.ApplyDefaults()

	assert.Equal(t, AllSettings, j.Settings)
	assert.Equal(t, DefaultSizes, j.Sizes)

	// the defaults are copied, not shared
	j.Sizes["5x"] = ImageSize{Width: 512, Height: 512}
	assert.NotContains(t, DefaultSizes, "5x")
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	j := Job{
		Settings: EnableOutputOriginal,
		Sizes:    map[string]ImageSize{"small": {Width: 16, Height: 16}},
	}
	j.ApplyDefaults()

	assert.Equal(t, EnableOutputOriginal, j.Settings)
	assert.Equal(t, map[string]ImageSize{"small": {Width: 16, Height: 16}}, j.Sizes)
}

func TestAllSettings(t *testing.T) {
	assert.Equal(t, EnableOutputOriginal|EnableOutputPNG, AllSettings)
}
