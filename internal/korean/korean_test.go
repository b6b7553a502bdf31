package korean

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrimParticle(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"코트를", "코트"},
		{"지드래곤이", "지드래곤"},
		{"공항에서", "공항"},
		{"바지", "바지"},
		// Compound particles win over their single-syllable prefixes.
		{"학교에서", "학교"},
		// A bare particle stays as-is.
		{"에서", "에서"},
		{"은", "은"},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, TrimParticle(tt.token), tt.token)
	}
}

func TestIsHangul(t *testing.T) {
	require.True(t, IsHangul("코트"))
	require.False(t, IsHangul("coat"))
	require.False(t, IsHangul("코트1"))
	require.False(t, IsHangul(""))
}

func TestRuneLen(t *testing.T) {
	require.Equal(t, 3, RuneLen("원피스"))
	require.Equal(t, 4, RuneLen("coat"))
	require.Equal(t, 0, RuneLen(""))
}
