// Package rag implements the external augmentation path: query routing,
// external image search, candidate acquisition and re-ranking, and the
// summarization pipeline.
package rag

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/yyvop9/modify-final-project/internal/korean"
)

// Lexicon holds the curated word sets driving name-entity detection. The
// lists are heuristic and language-specific; false positives and negatives
// are an accepted precision/recall trade-off.
type Lexicon struct {
	KnownNames      map[string]struct{}
	CommonNouns     map[string]struct{}
	FashionContext  []string
	QueryStopwords  []string
	AccessoryTerms  []string
	BoilerplateTerm string
}

// DefaultLexicon returns the compiled-in word sets.
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		KnownNames:      toSet(defaultKnownNames),
		CommonNouns:     toSet(defaultCommonNouns),
		FashionContext:  defaultFashionContext,
		QueryStopwords:  defaultQueryStopwords,
		AccessoryTerms:  defaultAccessoryTerms,
		BoilerplateTerm: "독사진 전신 고화질 패션",
	}
}

// OptimizeQuery rewrites a conversational query into a terse search phrase:
// the injected boilerplate and imperative suffixes are removed and trailing
// particles are stripped from each token. When stripping would leave nothing,
// the raw query is kept.
func (l *Lexicon) OptimizeQuery(query string) string {
	q := strings.ReplaceAll(query, l.BoilerplateTerm, "")
	for _, stopword := range l.QueryStopwords {
		q = strings.ReplaceAll(q, stopword, "")
	}

	var tokens []string
	for _, field := range strings.Fields(q) {
		tokens = append(tokens, korean.TrimParticle(field))
	}
	optimized := strings.Join(tokens, " ")
	if optimized == "" {
		return query
	}
	return optimized
}

// LoadLexicon returns the default lexicon with the known-name and common-noun
// sets replaced from files when paths are given. File format: one token per
// line, '#' starts a comment.
func LoadLexicon(knownNamesPath, commonNounsPath string) (*Lexicon, error) {
	lex := DefaultLexicon()
	if knownNamesPath != "" {
		names, err := loadWordFile(knownNamesPath)
		if err != nil {
			return nil, errors.Wrap(err, "load known names")
		}
		lex.KnownNames = toSet(names)
	}
	if commonNounsPath != "" {
		nouns, err := loadWordFile(commonNounsPath)
		if err != nil {
			return nil, errors.Wrap(err, "load common nouns")
		}
		lex.CommonNouns = toSet(nouns)
	}
	return lex, nil
}

func loadWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// defaultKnownNames is the curated public-figure list. A query containing any
// of these is conclusively a named-person lookup.
var defaultKnownNames = []string{
	// Male artists
	"지드래곤", "GD", "권지용", "지디",
	"빅뱅", "태양", "대성", "탑",
	"지코", "박재범", "사이먼도미닉", "그레이", "로꼬",
	// Female idols
	"장원영", "안유진", "이서", "레이",
	"카리나", "윈터", "지젤", "닝닝",
	"제니", "지수", "로제", "리사",
	"민지", "하니", "다니엘", "해린", "혜인",
	"카즈하", "사쿠라", "김채원", "허윤진", "홍은채",
	"태연", "윤아", "서현", "티파니", "제시카",
	"나연", "정연", "모모", "사나", "지효", "미나", "다현", "채영", "쯔위",
	"아이린", "슬기", "웬디", "조이", "예리",
	// Actresses
	"아이유", "수지", "송혜교", "김태리", "한소희", "전지현", "김고은",
	"신세경", "박보영", "설현", "박신혜", "손예진",
	"김유정", "김소현", "이성경", "서예지", "문가영",
	// Male idols
	"뷔", "정국", "지민", "RM", "슈가", "제이홉",
	"민호", "태민", "온유",
	"마크", "재현", "도영", "태용", "쟈니",
	"방찬", "리노", "창빈", "필릭스", "승민", "아이엔",
	"수빈", "연준", "범규", "태현", "휴닝카이",
	// Actors
	"차은우", "공유", "현빈", "이종석", "박서준", "송강", "이도현",
	"박보검", "김수현", "이민호", "남주혁", "서강준",
	"송중기", "이준기", "지창욱", "박형식",
	// International
	"테일러스위프트", "아리아나그란데", "비욘세", "리한나",
	"젠데이아", "티모시샬라메", "톰홀랜드",
}

// defaultCommonNouns are ordinary words that must never be read as a person's
// name, even when they fit the name-shaped pattern.
var defaultCommonNouns = []string{
	// Seasons
	"겨울", "여름", "봄", "가을", "겨울에", "여름에", "봄에", "가을에",
	// Gender words
	"남자", "여자", "남성", "여성", "남자옷", "여자옷", "남성복", "여성복",
	// Garments
	"옷", "코트", "패딩", "자켓", "바지", "치마", "원피스", "셔츠", "니트",
	"가디건", "맨투맨", "후드", "티셔츠", "청바지", "슬랙스", "레깅스",
	"정장", "수트", "블라우스", "스커트", "조끼", "베스트", "점퍼",
	// Occasions
	"상갓집", "장례식", "결혼식", "하객", "식사", "식사자리", "모임", "파티",
	"출근", "퇴근", "데이트", "소개팅", "면접", "회사", "학교",
	"교회", "성당", "명절", "추석", "설날", "크리스마스",
	// Adjectives and verb roots
	"격식", "격식있는", "캐주얼", "편한", "따뜻한", "시원한", "가벼운",
	"무거운", "고급", "저렴한", "예쁜", "멋진", "세련된",
	"입을", "입을만한", "만한", "추천", "추천해줘", "보여줘", "찾아줘",
	"어울리는", "맞는", "좋은", "괜찮은",
	// Other common nouns
	"어른", "어른들", "어른들과", "부모님", "친구", "동료", "선배", "후배",
	"함께", "함께하는", "같이", "혼자",
	"스타일", "패션", "코디", "룩", "착장", "차림",
	"상의", "하의", "아우터", "이너", "신발", "가방", "액세서리",
	// Time
	"오늘", "내일", "주말", "평일", "아침", "저녁", "밤",
	// Particle-carrying forms
	"에서", "에서의", "때", "때의", "위한",
	// Frequently misread nouns
	"자동차", "비행기", "기차", "버스", "지하철", "택시",
	"공항", "터미널", "정류장",
	"사진", "이미지", "영상", "동영상", "뮤비",
	"콘서트", "공연", "무대", "행사", "이벤트",
	"브랜드", "명품", "빈티지", "레트로", "클래식",
	"트렌드", "유행", "인기", "핫한", "요즘",
}

// defaultFashionContext marks queries as fashion lookups; a bare candidate
// name without one of these stays on the internal path.
var defaultFashionContext = []string{
	"패션", "스타일", "코디", "룩", "착용", "의상",
	"공항", "시사회", "무대", "화보", "입은", "착장",
	"사복", "출근룩", "퇴근룩", "데이트룩",
}

// defaultQueryStopwords are imperative suffixes stripped before dispatching a
// query to the external search engine.
var defaultQueryStopwords = []string{
	"추천해줘", "보여줘", "찾아줘", "알려줘", "어때", "좀", "해줘",
}

// defaultAccessoryTerms steer the scoring prompt toward close-up shots.
var defaultAccessoryTerms = []string{
	"가방", "신발", "지갑", "액세서리",
}
