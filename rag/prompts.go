package rag

// summaryPrompt instructs the vision model to describe only what the image
// actually shows. Grounding the summary in visible garments keeps the text
// embedding aligned with the picture instead of the model's priors about the
// person in it.
const summaryPrompt = `당신은 패션 스타일 분석 전문가입니다. 이 이미지에 실제로 보이는 착장만 설명하세요.

규칙:
1. 이미지에 보이는 의류, 신발, 액세서리의 종류, 색상, 소재, 핏을 구체적으로 설명합니다.
2. 이미지에 보이지 않는 것은 절대 언급하지 않습니다. 추측하지 마세요.
3. 인물의 이름이나 신원은 언급하지 않습니다.
4. 전체 스타일의 분위기를 한 문장으로 요약합니다.
5. 한국어로 3~5문장으로 작성합니다.`

// SummaryPrompt returns the grounded description prompt for the vision model.
func SummaryPrompt() string {
	return summaryPrompt
}
