package handlers

import (
	"strings"
	"testing"

	"github.com/pinlon/community_bot/internal/models"
)

func addQuiz(t *testing.T, h *HandlerManager, answer string) int64 {
	t.Helper()
	h.Repo.AppendQuizzes([]models.QuizQuestion{{
		Question: "Capital of France?",
		Choices:  map[string]string{"A": "London", "B": "Paris", "C": "Rome", "D": "Berlin"},
		Answer:   answer,
	}})
	quizzes := h.Repo.Snapshot().Quizzes
	return quizzes[len(quizzes)-1].ID
}

func TestTrackMessage_DispatchesAtThreshold(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	if err := h.Repo.SetThreshold(3); err != nil {
		t.Fatalf("SetThreshold() error = %v", err)
	}
	addQuiz(t, h, "B")

	h.TrackMessage(-100, bot)
	h.TrackMessage(-100, bot)
	if len(bot.messages) != 0 {
		t.Fatalf("dispatched before the threshold: %d messages", len(bot.messages))
	}

	h.TrackMessage(-100, bot)
	if len(bot.messages) != 1 {
		t.Fatalf("messages at the threshold = %d, want exactly one quiz", len(bot.messages))
	}
	if bot.messages[0].keyboard == nil {
		t.Error("dispatched quiz has no answer keyboard")
	}

	// The counter reset is on disk before the next message arrives
	snap, err := h.Store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap == nil {
		t.Fatal("no snapshot saved when the trigger fired")
	}
	if got := snap.MessageCount[-100]; got != 0 {
		t.Errorf("persisted counter = %d, want 0", got)
	}

	// A fresh cycle starts: the next message does not dispatch
	h.TrackMessage(-100, bot)
	if len(bot.messages) != 1 {
		t.Errorf("messages after the fire = %d, want still 1", len(bot.messages))
	}
}

func TestTrackMessage_EmptyCollectionStillResetsAndSaves(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	if err := h.Repo.SetThreshold(2); err != nil {
		t.Fatalf("SetThreshold() error = %v", err)
	}

	h.TrackMessage(-100, bot)
	h.TrackMessage(-100, bot)

	if len(bot.messages) != 0 {
		t.Errorf("messages = %d, want none with an empty quiz collection", len(bot.messages))
	}
	if got := h.Repo.MessageCount(-100); got != 0 {
		t.Errorf("counter = %d, want reset to 0", got)
	}

	snap, err := h.Store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap == nil {
		t.Fatal("no snapshot saved when the trigger fired")
	}
	if got := snap.MessageCount[-100]; got != 0 {
		t.Errorf("persisted counter = %d, want 0", got)
	}
}

func TestMarkAnswered_EvictsOldestDispatch(t *testing.T) {
	h := newTestManager(t)

	for i := 0; i < answeredCapacity+10; i++ {
		if !h.markAnswered(-100, i, 7) {
			t.Fatalf("first answer on dispatch %d deduped", i)
		}
	}
	if len(h.answered) != answeredCapacity {
		t.Errorf("tracked dispatches = %d, want capped at %d", len(h.answered), answeredCapacity)
	}

	// The newest dispatch is still deduped
	if h.markAnswered(-100, answeredCapacity+9, 7) {
		t.Error("repeat answer on the newest dispatch scored again")
	}
}

func TestSendQuiz(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()

	h.SendQuiz(-100, bot)
	if got := bot.lastMessage(t).text; got != MsgNoQuizzes {
		t.Errorf("empty collection reply = %q, want %q", got, MsgNoQuizzes)
	}

	addQuiz(t, h, "B")
	h.SendQuiz(-100, bot)

	msg := bot.lastMessage(t)
	if !strings.Contains(msg.text, "Capital of France?") {
		t.Errorf("quiz message missing question: %q", msg.text)
	}
	if !strings.Contains(msg.text, "B) Paris") {
		t.Errorf("quiz message missing choice: %q", msg.text)
	}
	if msg.keyboard == nil {
		t.Error("quiz message sent without answer keyboard")
	}
}

func TestHandleQuizAnswer_CorrectAndWrong(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	quizID := addQuiz(t, h, "B")

	h.HandleQuizAnswer(-100, 10, 7, "alice", "q1", quizID, "B", bot)
	if got := h.Repo.Score(7); got != 1 {
		t.Errorf("score after correct answer = %d, want 1", got)
	}
	if edit := bot.lastEdit(t); !strings.Contains(edit.text, "Correct") {
		t.Errorf("edit after correct answer = %q", edit.text)
	}

	// A different user answering a different dispatch, wrongly
	h.HandleQuizAnswer(-100, 11, 8, "bob", "q2", quizID, "A", bot)
	if got := h.Repo.Score(8); got != 0 {
		t.Errorf("score after wrong answer = %d, want 0", got)
	}
	edit := bot.lastEdit(t)
	if !strings.Contains(edit.text, "Wrong") {
		t.Errorf("edit after wrong answer = %q", edit.text)
	}
	if !strings.Contains(edit.text, "B) Paris") {
		t.Errorf("edit does not reveal the correct answer: %q", edit.text)
	}
}

func TestHandleQuizAnswer_LowercaseLabel(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	quizID := addQuiz(t, h, "B")

	h.HandleQuizAnswer(-100, 10, 7, "alice", "q1", quizID, "b", bot)
	if got := h.Repo.Score(7); got != 1 {
		t.Errorf("score = %d, want 1 for lowercase label", got)
	}
}

func TestHandleQuizAnswer_RepeatDoesNotScore(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	quizID := addQuiz(t, h, "B")

	h.HandleQuizAnswer(-100, 10, 7, "alice", "q1", quizID, "A", bot)
	h.HandleQuizAnswer(-100, 10, 7, "alice", "q2", quizID, "B", bot)

	if got := h.Repo.Score(7); got != 0 {
		t.Errorf("score after retry = %d, want 0", got)
	}
	last := bot.callbacks[len(bot.callbacks)-1]
	if last.text != MsgAlreadyAnswered || !last.showAlert {
		t.Errorf("retry callback = %+v, want alert %q", last, MsgAlreadyAnswered)
	}
	if len(bot.edits) != 1 {
		t.Errorf("edits after retry = %d, want 1", len(bot.edits))
	}

	// Same user, same question, new dispatch: scores again
	h.HandleQuizAnswer(-100, 20, 7, "alice", "q3", quizID, "B", bot)
	if got := h.Repo.Score(7); got != 1 {
		t.Errorf("score on a new dispatch = %d, want 1", got)
	}
}

func TestHandleQuizAnswer_DeletedQuiz(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	quizID := addQuiz(t, h, "B")

	if _, err := h.Repo.DeleteAt("quiz", 1); err != nil {
		t.Fatalf("DeleteAt() error = %v", err)
	}

	h.HandleQuizAnswer(-100, 10, 7, "alice", "q1", quizID, "B", bot)
	if got := h.Repo.Score(7); got != 0 {
		t.Errorf("score for a deleted quiz = %d, want 0", got)
	}
	if edit := bot.lastEdit(t); edit.text != MsgQuizGone {
		t.Errorf("edit = %q, want %q", edit.text, MsgQuizGone)
	}
}

func TestHandleQuizAnswer_NameIsSanitized(t *testing.T) {
	h := newTestManager(t)
	bot := newFakeBot()
	quizID := addQuiz(t, h, "B")

	h.HandleQuizAnswer(-100, 10, 7, "<b>alice</b>", "q1", quizID, "B", bot)
	if edit := bot.lastEdit(t); strings.Contains(edit.text, "<b>alice") {
		t.Errorf("edit leaks raw HTML from the username: %q", edit.text)
	}
}
