package retrieval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yyvop9/modify-final-project/store"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{
			query: "겨울 남자 코트 추천해줘",
			want:  []string{"겨울남자코트", "겨울", "남자", "코트"},
		},
		{
			query: "원피스 보여줘",
			want:  []string{"원피스"},
		},
		{
			query: "편한 바지를 찾아줘",
			want:  []string{"편한바지", "편한", "바지"},
		},
		{
			query: "좀 어때",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractKeywords(tt.query))
		})
	}
}

func TestDetectGender(t *testing.T) {
	male := store.GenderMale
	female := store.GenderFemale

	tests := []struct {
		query string
		want  *string
	}{
		{"겨울 남자 코트", &male},
		{"남성 정장 추천", &male},
		{"여자 원피스", &female},
		{"여성복 세일", &female},
		{"mens jacket", &male},
		{"womens dress", &female},
		{"겨울 코트 추천", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := DetectGender(tt.query)
			if tt.want == nil {
				require.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			require.Equal(t, *tt.want, *got)
		})
	}
}
