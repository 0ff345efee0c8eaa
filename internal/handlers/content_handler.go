package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/pinlon/community_bot/internal/models"
	"github.com/pinlon/community_bot/internal/security"
)

// ShowAbout handles the /about view.
func (h *HandlerManager) ShowAbout(chatID int64, bot BotInterface) {
	about := h.Repo.About()
	if about == "" {
		bot.SendMessage(chatID, MsgNoAbout, nil)
		return
	}
	bot.SendMessage(chatID, fmt.Sprintf("ℹ️ <b>About</b>\n\n%s", about), nil)
}

// ShowContacts handles the /contact view.
func (h *HandlerManager) ShowContacts(chatID int64, bot BotInterface) {
	contacts := h.Repo.Contacts()
	if len(contacts) == 0 {
		bot.SendMessage(chatID, MsgNoContacts, nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("📞 <b>Contacts</b>\n\n")
	for i, contact := range contacts {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, contact)
	}
	bot.SendMessage(chatID, sb.String(), nil)
}

// ShowVerse handles the /verse view: one random verse with a greeting that
// follows the local time of day.
func (h *HandlerManager) ShowVerse(chatID int64, bot BotInterface) {
	verse, err := h.Repo.RandomVerse()
	if err != nil {
		bot.SendMessage(chatID, MsgNoVerses, nil)
		return
	}

	greeting := "🌅 Good morning"
	if time.Now().Hour() >= 12 {
		greeting = "🌙 Good evening"
	}
	bot.SendMessage(chatID, fmt.Sprintf("%s\n\n📖 <b>Verse of the day</b>\n\n%s", greeting, verse), nil)
}

// ShowEvents handles the /events view.
func (h *HandlerManager) ShowEvents(chatID int64, bot BotInterface) {
	events := h.Repo.Events()
	if len(events) == 0 {
		bot.SendMessage(chatID, MsgNoEvents, nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("📅 <b>Upcoming events</b>\n\n")
	for i, event := range events {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, event)
	}
	bot.SendMessage(chatID, sb.String(), nil)
}

// ShowBirthdays handles the /birthday view: this month's birthdays, by day.
func (h *HandlerManager) ShowBirthdays(chatID int64, bot BotInterface) {
	now := time.Now()
	birthdays := h.Repo.BirthdaysInMonth(int(now.Month()))
	if len(birthdays) == 0 {
		bot.SendMessage(chatID, MsgNoBirthdays, nil)
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🎂 <b>Birthdays in %s</b>\n\n", now.Month().String())
	for _, b := range birthdays {
		fmt.Fprintf(&sb, "• %d/%d - %s\n", b.Month, b.Day, b.Name)
	}
	bot.SendMessage(chatID, sb.String(), nil)
}

// HandlePrayer appends a prayer request submitted via /pray.
func (h *HandlerManager) HandlePrayer(chatID, userID int64, username, text string, bot BotInterface) {
	text = security.SanitizeString(text)
	if text == "" {
		bot.SendMessage(chatID, MsgPrayUsage, nil)
		return
	}

	h.Repo.AddPrayer(models.Prayer{
		UserID:   userID,
		Username: security.SanitizeHTML(username),
		Text:     security.SanitizeHTML(text),
		Date:     time.Now(),
	})
	h.persist(chatID, bot)

	bot.SendMessage(chatID, MsgPrayThanks, nil)
}

// ShowPrayerList handles the admin /praylist view (last 20 records).
func (h *HandlerManager) ShowPrayerList(chatID int64, bot BotInterface) {
	prayers := h.Repo.LastPrayers(20)
	if len(prayers) == 0 {
		bot.SendMessage(chatID, MsgNoPrayers, nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("🙏 <b>Prayer requests</b>\n\n")
	for i, p := range prayers {
		fmt.Fprintf(&sb, "%d. @%s\n   %s\n   📅 %s\n\n", i+1, p.Username, p.Text, p.Date.Format("2006-01-02 15:04:05"))
	}
	bot.SendMessage(chatID, sb.String(), nil)
}

// ShowTopScores handles the /tops view: top ten, descending, ties in ledger
// order.
func (h *HandlerManager) ShowTopScores(chatID int64, bot BotInterface) {
	entries := h.Repo.TopScores(10)
	if len(entries) == 0 {
		bot.SendMessage(chatID, MsgNoScores, nil)
		return
	}

	var sb strings.Builder
	sb.WriteString("🏆 <b>Quiz Top Scores</b>\n\n")
	for i, entry := range entries {
		medal := fmt.Sprintf("%d.", i+1)
		switch i {
		case 0:
			medal = "🥇"
		case 1:
			medal = "🥈"
		case 2:
			medal = "🥉"
		}
		fmt.Fprintf(&sb, "%s %s - <b>%d</b> points\n", medal, security.SanitizeHTML(entry.Name), entry.Score)
	}
	bot.SendMessage(chatID, sb.String(), nil)
}

// HandleAboutSubmission stores the about text verbatim, replacing the old.
func (h *HandlerManager) HandleAboutSubmission(chatID int64, text string, bot BotInterface) {
	h.Repo.SetAbout(strings.TrimSpace(text))
	h.persist(chatID, bot)
	bot.SendMessage(chatID, "✅ About text saved.", nil)
}

// HandleRecordsSubmission appends one record per non-empty line to the
// contact, verse or event collection and reports the appended count.
func (h *HandlerManager) HandleRecordsSubmission(chatID int64, kind, text string, bot BotInterface) {
	records := ParseRecords(text)

	var count int
	var noun string
	switch kind {
	case models.KindContact:
		count = h.Repo.AppendContacts(records)
		noun = "contact(s)"
	case models.KindVerse:
		count = h.Repo.AppendVerses(records)
		noun = "verse(s)"
	case models.KindEvent:
		count = h.Repo.AppendEvents(records)
		noun = "event(s)"
	default:
		return
	}
	h.persist(chatID, bot)

	bot.SendMessage(chatID, fmt.Sprintf("✅ %d %s added.", count, noun), nil)
}

// HandleBirthdaySubmission appends the valid birthday lines and reports only
// the count actually appended.
func (h *HandlerManager) HandleBirthdaySubmission(chatID int64, text string, bot BotInterface) {
	birthdays := ParseBirthdays(text)
	count := h.Repo.AppendBirthdays(birthdays)
	h.persist(chatID, bot)
	bot.SendMessage(chatID, fmt.Sprintf("✅ %d birthday(s) added.", count), nil)
}

// HandleQuizSubmission appends the well-formed quiz blocks and reports only
// the aggregate accepted count.
func (h *HandlerManager) HandleQuizSubmission(chatID int64, text string, bot BotInterface) {
	questions := ParseQuizzes(text)
	count := h.Repo.AppendQuizzes(questions)
	h.persist(chatID, bot)
	bot.SendMessage(chatID, fmt.Sprintf("✅ %d quiz(zes) added.", count), nil)
}
