package slugs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"demo", "demo"},
		{"  Demo  ", "demo"},
		{"WEB-DEV-COMPETITION", "web-development-competition"},
		{" webdev-competition", "web-development-competition"},
		{"web-development-comp", "web-development-competition"},
		{"web-development-competition", "web-development-competition"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{"Demo", " HACKATHON ", "web-dev-competition", "x", "  "}
	for alias := range aliases {
		inputs = append(inputs, alias)
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), in)
	}
}

func TestAliases_TargetsAreCanonical(t *testing.T) {
	for alias, target := range aliases {
		assert.Equal(t, target, Normalize(alias))
		assert.Equal(t, target, Normalize(target), "alias target %q must not be an alias", target)
	}
}

func TestCanonical(t *testing.T) {
	s, err := Canonical("", "Web Development Competition")
	require.NoError(t, err)
	assert.Equal(t, "web-development-competition", s)

	s, err = Canonical("Web-Dev-Competition", "ignored")
	require.NoError(t, err)
	assert.Equal(t, "web-development-competition", s)

	_, err = Canonical("bad slug!", "")
	assert.Error(t, err)

	_, err = Canonical("", "!!!")
	assert.Error(t, err)
}
