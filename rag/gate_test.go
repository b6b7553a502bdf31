package rag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yyvop9/modify-final-project/internal/metrics"
)

func TestContainsNameKnownNames(t *testing.T) {
	gate := NewNameEntityGate(DefaultLexicon())

	tests := []struct {
		query string
		want  bool
	}{
		{"지드래곤 공항패션", true},
		{"지드래곤 스타일 보여줘", true},
		{"장원영이 입은 원피스", true},
		{"카리나 사복 코디", true},
		// De-spaced match still fires on spaced input.
		{"지 드래곤 공항패션", true},
		{"겨울 남자 코트 추천", false},
		{"상갓집에 입을만한 격식있는 옷", false},
		{"여름 데이트룩 추천해줘", false},
		{"따뜻한 패딩 보여줘", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			require.Equal(t, tt.want, gate.ContainsName(tt.query))
		})
	}
}

func TestContainsNameUnknownNameNeedsFashionContext(t *testing.T) {
	gate := NewNameEntityGate(DefaultLexicon())

	// A name-shaped token outside the known list fires only alongside a
	// fashion-context keyword.
	require.True(t, gate.ContainsName("한무명 공항패션"))
	require.True(t, gate.ContainsName("한무명이 입은 스타일"))
	require.False(t, gate.ContainsName("한무명 근황"))
}

func TestContainsNameCommonNounVariants(t *testing.T) {
	gate := NewNameEntityGate(DefaultLexicon())

	// Inflected garment and occasion words are name-shaped but must not
	// route externally even in fashion context.
	require.False(t, gate.ContainsName("결혼식 하객 패션 코디"))
	require.False(t, gate.ContainsName("출근룩 스타일 추천"))
	// A fragment of a longer compound noun is not a name either.
	require.False(t, gate.ContainsName("자리 스타일"))
}

func TestDeterminePath(t *testing.T) {
	lexicon := DefaultLexicon()
	m := metrics.New()

	router := NewRouter(NewNameEntityGate(lexicon), true, m)
	require.Equal(t, PathExternal, router.DeterminePath("지드래곤 공항패션"))
	require.Equal(t, PathInternal, router.DeterminePath("겨울 남자 코트 추천"))

	disabled := NewRouter(NewNameEntityGate(lexicon), false, metrics.New())
	require.Equal(t, PathInternal, disabled.DeterminePath("지드래곤 공항패션"))
}

func TestLoadLexiconOverrides(t *testing.T) {
	namesPath := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(namesPath, []byte("# custom names\n홍길동\n"), 0o600))

	lexicon, err := LoadLexicon(namesPath, "")
	require.NoError(t, err)
	require.Contains(t, lexicon.KnownNames, "홍길동")
	require.NotContains(t, lexicon.KnownNames, "지드래곤")
	// Common nouns keep the defaults when no path is given.
	require.Contains(t, lexicon.CommonNouns, "겨울")
}
