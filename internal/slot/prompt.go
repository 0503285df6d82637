package slot

import "task-intake-assistant/internal/model"

// Control tokens offered as chips and recognized verbatim in user text.
const (
	TokenCancel        = "キャンセル"
	TokenDecline       = "登録しない"
	TokenForceRegister = "このまま登録"
	TokenSkip          = "スキップ"
	TokenConfirm       = "登録する"
)

// UniversalOptions are appended to every field question.
var UniversalOptions = []string{TokenSkip, TokenForceRegister}

// FieldPrompt is the question and chips shown for one field.
type FieldPrompt struct {
	Field    model.Field
	Question string
	Options  []string
}

var prompts = map[model.Field]FieldPrompt{
	model.FieldTitle: {
		Field:    model.FieldTitle,
		Question: "どんなタスクですか？",
	},
	model.FieldCategory: {
		Field:    model.FieldCategory,
		Question: "どのカテゴリーですか？",
		Options:  []string{"買い物", "返信", "仕事", "個人", "その他"},
	},
	model.FieldDeadline: {
		Field:    model.FieldDeadline,
		Question: "期限はいつですか？",
		Options:  []string{"今日", "明日", "今週中", "来週", "期限なし"},
	},
	model.FieldScheduledDate: {
		Field:    model.FieldScheduledDate,
		Question: "いつやりますか？",
		Options:  []string{"今日", "明日", "明後日", "来週", "未定"},
	},
	model.FieldScheduledTime: {
		Field:    model.FieldScheduledTime,
		Question: "何時頃やりますか？",
		Options:  []string{"朝", "昼", "午後", "夜", "未定"},
	},
	model.FieldDurationMinutes: {
		Field:    model.FieldDurationMinutes,
		Question: "どのくらい時間がかかりそうですか？",
		Options:  []string{"15分", "30分", "1時間", "2時間", "わからない"},
	},
}

const confirmQuestion = "この内容で登録しますか？"

// Prompt returns the question and canned options for f. The returned
// options are a copy and never include the universal chips.
func Prompt(f model.Field) (FieldPrompt, bool) {
	p, ok := prompts[f]
	if !ok {
		return FieldPrompt{}, false
	}
	p.Options = append([]string(nil), p.Options...)
	return p, true
}

// PromptWithControls returns Prompt(f) with the universal chips appended.
func PromptWithControls(f model.Field) (FieldPrompt, bool) {
	p, ok := Prompt(f)
	if !ok {
		return FieldPrompt{}, false
	}
	p.Options = append(p.Options, UniversalOptions...)
	return p, true
}

// ConfirmPrompt is the final confirmation question.
func ConfirmPrompt() FieldPrompt {
	return FieldPrompt{
		Question: confirmQuestion,
		Options:  []string{TokenConfirm, TokenDecline},
	}
}

// IsCannedOption reports whether option is one of f's canned chips.
func IsCannedOption(f model.Field, option string) bool {
	for _, o := range prompts[f].Options {
		if o == option {
			return true
		}
	}
	return false
}

// IsControlToken reports whether s is one of the control tokens.
func IsControlToken(s string) bool {
	switch s {
	case TokenCancel, TokenDecline, TokenForceRegister, TokenSkip, TokenConfirm:
		return true
	}
	return false
}

var categoryLabels = map[model.Category]string{
	model.CategoryShopping: "買い物",
	model.CategoryReply:    "返信",
	model.CategoryWork:     "仕事",
	model.CategoryPersonal: "個人",
	model.CategoryOther:    "その他",
}

// CategoryLabel returns the chip label of c, or c itself when unknown.
func CategoryLabel(c model.Category) string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}
