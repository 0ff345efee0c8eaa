package handlers

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data prefixes.
const (
	CallbackQuizPrefix  = "quiz_"
	CallbackClearOK     = "clear_confirm"
	CallbackClearCancel = "clear_cancel"
)

// QuizAnswerKeyboard builds the A-D answer row. Callback data carries the
// question's stable id, not its list position.
func QuizAnswerKeyboard(quizID int64) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, label := range []string{"A", "B", "C", "D"} {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d_%s", CallbackQuizPrefix, quizID, label)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(row...))
}

// ClearConfirmKeyboard is the /allclear confirmation step.
func ClearConfirmKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Yes, wipe everything", CallbackClearOK),
			tgbotapi.NewInlineKeyboardButtonData("❌ Cancel", CallbackClearCancel),
		),
	)
}
