package handlers

import (
	"fmt"
	"strings"

	"github.com/pinlon/community_bot/internal/security"
	"github.com/pinlon/community_bot/pkg/logger"
)

// TrackMessage counts one non-command message against the chat's quiz
// trigger. When the counter crosses the threshold the reset is saved and,
// if any questions exist, one question is dispatched into the same chat.
func (h *HandlerManager) TrackMessage(chatID int64, bot BotInterface) {
	if !h.Repo.TrackMessage(chatID) {
		return
	}
	h.persist(chatID, bot)
	if h.Repo.QuizCount() > 0 {
		h.SendQuiz(chatID, bot)
	}
}

// SendQuiz dispatches one random question into the chat with the answer
// keyboard attached.
func (h *HandlerManager) SendQuiz(chatID int64, bot BotInterface) {
	quiz, err := h.Repo.RandomQuiz()
	if err != nil {
		bot.SendMessage(chatID, MsgNoQuizzes, nil)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "❓ <b>Quiz Time!</b>\n\n%s\n\n", quiz.Question)
	for _, label := range []string{"A", "B", "C", "D"} {
		fmt.Fprintf(&sb, "%s) %s\n", label, quiz.Choices[label])
	}

	if msgID := bot.SendMessage(chatID, sb.String(), QuizAnswerKeyboard(quiz.ID)); msgID == 0 {
		logger.Warn("Quiz dispatch failed", "chat_id", chatID, "quiz_id", quiz.ID)
	}
}

// HandleQuizAnswer grades one answer callback. The quiz message is rewritten
// in place with the outcome and the responder's updated total; each user may
// score at most once per dispatched message.
func (h *HandlerManager) HandleQuizAnswer(chatID int64, messageID int, userID int64, username, queryID string, quizID int64, label string, bot BotInterface) {
	quiz, err := h.Repo.QuizByID(quizID)
	if err != nil {
		// Deleted between dispatch and answer.
		bot.AnswerCallbackQuery(queryID, "", false)
		bot.EditMessage(chatID, messageID, MsgQuizGone, nil)
		return
	}

	if !h.markAnswered(chatID, messageID, userID) {
		bot.AnswerCallbackQuery(queryID, MsgAlreadyAnswered, true)
		return
	}
	bot.AnswerCallbackQuery(queryID, "", false)

	name := security.SanitizeHTML(username)
	label = strings.ToUpper(label)

	var sb strings.Builder
	if label == strings.ToUpper(quiz.Answer) {
		total := h.Repo.AddScore(userID, name, 1)
		h.persist(chatID, bot)
		fmt.Fprintf(&sb, "✅ <b>Correct, %s!</b>\n\n", name)
		fmt.Fprintf(&sb, "Answer: %s) %s\n\n", quiz.Answer, quiz.Choices[quiz.Answer])
		fmt.Fprintf(&sb, "🏆 Your score: %d", total)
	} else {
		fmt.Fprintf(&sb, "❌ <b>Wrong, %s.</b>\n\n", name)
		fmt.Fprintf(&sb, "The correct answer: %s) %s\n\n", quiz.Answer, quiz.Choices[quiz.Answer])
		fmt.Fprintf(&sb, "🏆 Your score: %d", h.Repo.Score(userID))
	}
	bot.EditMessage(chatID, messageID, sb.String(), nil)
}

// markAnswered records the user's answer against the dispatched message and
// reports false when they already answered it.
func (h *HandlerManager) markAnswered(chatID int64, messageID int, userID int64) bool {
	key := fmt.Sprintf("%d_%d", chatID, messageID)

	h.answeredMu.Lock()
	defer h.answeredMu.Unlock()

	users, ok := h.answered[key]
	if !ok {
		if len(h.answeredOrder) >= answeredCapacity {
			oldest := h.answeredOrder[0]
			h.answeredOrder = h.answeredOrder[1:]
			delete(h.answered, oldest)
		}
		users = make(map[int64]bool)
		h.answered[key] = users
		h.answeredOrder = append(h.answeredOrder, key)
	}
	if users[userID] {
		return false
	}
	users[userID] = true
	return true
}
