package orchestrator

import "slidegen/internal/domain"

// Human-readable step descriptions, keyed by the locale captured at
// submission. The service originally shipped to a Japanese audience, so both
// texts are first-class rather than an afterthought.
var stepTexts = map[string]map[domain.Status]string{
	"en": {
		domain.StatusPending:               "Waiting to start...",
		domain.StatusAgendaGeneration:      "Generating the agenda...",
		domain.StatusAgendaApproval:        "Waiting for agenda approval...",
		domain.StatusInformationCollection: "Collecting information...",
		domain.StatusSlideCreation:         "Creating slides...",
		domain.StatusReview:                "Running quality review...",
		domain.StatusCompleted:             "Done",
		domain.StatusFailed:                "An error occurred",
		domain.StatusCancelled:             "Cancelled",
	},
	"ja": {
		domain.StatusPending:               "開始待ち...",
		domain.StatusAgendaGeneration:      "アジェンダ生成中...",
		domain.StatusAgendaApproval:        "アジェンダ承認待ち...",
		domain.StatusInformationCollection: "情報収集中...",
		domain.StatusSlideCreation:         "スライド作成中...",
		domain.StatusReview:                "品質チェック中...",
		domain.StatusCompleted:             "完了",
		domain.StatusFailed:                "エラーが発生しました",
		domain.StatusCancelled:             "キャンセルされました",
	},
}

// StepText returns the step description for a status in the given locale,
// falling back to English for unknown locales.
func StepText(locale string, s domain.Status) string {
	texts, ok := stepTexts[locale]
	if !ok {
		texts = stepTexts["en"]
	}
	return texts[s]
}
