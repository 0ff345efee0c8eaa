package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pinlon/community_bot/internal/security"
	"github.com/pinlon/community_bot/pkg/errors"
	"github.com/pinlon/community_bot/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ShowStats handles the admin /stats view.
func (h *HandlerManager) ShowStats(chatID int64, bot BotInterface) {
	stats := h.Repo.Stats()

	var sb strings.Builder
	sb.WriteString("📊 <b>Bot Statistics</b>\n\n")
	fmt.Fprintf(&sb, "👥 Users: %d\n", stats.Users)
	fmt.Fprintf(&sb, "👨‍👩‍👧‍👦 Groups: %d\n", stats.Groups)
	fmt.Fprintf(&sb, "📖 Verses: %d\n", stats.Verses)
	fmt.Fprintf(&sb, "❓ Quizzes: %d\n", stats.Quizzes)
	fmt.Fprintf(&sb, "🙏 Prayers: %d\n", stats.Prayers)
	fmt.Fprintf(&sb, "🎂 Birthdays: %d\n", stats.Birthdays)
	fmt.Fprintf(&sb, "📅 Events: %d\n", stats.Events)
	fmt.Fprintf(&sb, "📞 Contacts: %d\n", stats.Contacts)
	fmt.Fprintf(&sb, "🏆 Players on ledger: %d\n", stats.Scores)
	fmt.Fprintf(&sb, "\n⚙️ Quiz threshold: %d messages", h.Repo.Threshold())

	bot.SendMessage(chatID, sb.String(), nil)
}

// SetQuizThreshold handles /set <n>.
func (h *HandlerManager) SetQuizThreshold(chatID int64, args string, bot BotInterface) {
	args = strings.TrimSpace(args)
	n, err := strconv.Atoi(args)
	if args == "" || err != nil {
		bot.SendMessage(chatID, fmt.Sprintf("%s\n\nCurrent: %d messages", MsgSetUsage, h.Repo.Threshold()), nil)
		return
	}

	if err := h.Repo.SetThreshold(n); err != nil {
		bot.SendMessage(chatID, "⚠️ "+errors.UserMessage(err), nil)
		return
	}
	h.persist(chatID, bot)
	bot.SendMessage(chatID, fmt.Sprintf("✅ Quiz threshold set to %d messages.", n), nil)
}

// DeleteRecord handles /delete <kind> <1-based index>.
func (h *HandlerManager) DeleteRecord(chatID int64, args string, bot BotInterface) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		bot.SendMessage(chatID, MsgDeleteUsage, nil)
		return
	}

	kind := strings.ToLower(fields[0])
	index, err := strconv.Atoi(fields[1])
	if err != nil {
		bot.SendMessage(chatID, MsgDeleteUsage, nil)
		return
	}

	deleted, err := h.Repo.DeleteAt(kind, index)
	if err != nil {
		bot.SendMessage(chatID, "❌ "+errors.UserMessage(err), nil)
		return
	}
	h.persist(chatID, bot)

	bot.SendMessage(chatID, fmt.Sprintf("✅ Deleted %s %d: %s", kind, index, deleted), nil)
}

// RequestClearAll sends the /allclear confirmation step.
func (h *HandlerManager) RequestClearAll(chatID int64, bot BotInterface) {
	bot.SendMessage(chatID, MsgClearConfirm, ClearConfirmKeyboard())
}

// HandleClearConfirm finishes the /allclear flow.
func (h *HandlerManager) HandleClearConfirm(chatID int64, messageID int, confirmed bool, bot BotInterface) {
	if !confirmed {
		bot.EditMessage(chatID, messageID, MsgClearAborted, nil)
		return
	}

	h.Repo.Reset()
	h.persist(chatID, bot)
	logger.Warn("All data wiped by operator", "chat_id", chatID)
	bot.EditMessage(chatID, messageID, MsgClearDone, nil)
}

// Backup saves the current snapshot, writes a timestamped copy and sends it
// to the operator as a document.
func (h *HandlerManager) Backup(chatID int64, bot BotInterface) {
	snap := h.Repo.Snapshot()

	if err := h.Store.Save(snap); err != nil {
		logger.Error("Backup save failed", "error", err)
		bot.SendMessage(chatID, "❌ Backup failed: could not save the snapshot.", nil)
		return
	}

	path, err := h.Store.Backup(snap)
	if err != nil {
		logger.Error("Backup copy failed", "error", err)
		bot.SendMessage(chatID, "❌ Backup failed: could not write the backup copy.", nil)
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("Backup read failed", "error", err, "path", path)
		bot.SendMessage(chatID, "❌ Backup failed: could not read the backup copy.", nil)
		return
	}

	bot.SendDocument(chatID, filepath.Base(path), data, "✅ Backup created.")
}

// HandleRestoreUpload replaces the whole store from an uploaded snapshot.
// Validation is syntactic only.
func (h *HandlerManager) HandleRestoreUpload(chatID int64, filename string, data []byte, bot BotInterface) {
	if !security.ValidateFileType(filename, []string{".json"}) {
		bot.SendMessage(chatID, MsgRestoreBadFile, nil)
		return
	}

	snap, err := h.Store.Decode(data)
	if err != nil {
		bot.SendMessage(chatID, "❌ "+errors.UserMessage(err), nil)
		return
	}

	h.Repo.ReplaceAll(snap)
	h.persist(chatID, bot)
	logger.Info("Store restored from upload", "chat_id", chatID, "bytes", len(data))
	bot.SendMessage(chatID, MsgRestoreDone, nil)
}

// ExportScores handles /export: the score ledger and collection counts as an
// xlsx workbook.
func (h *HandlerManager) ExportScores(chatID int64, bot BotInterface) {
	f := excelize.NewFile()
	defer f.Close()

	const scoresSheet = "Scores"
	f.SetSheetName(f.GetSheetName(0), scoresSheet)
	f.SetCellValue(scoresSheet, "A1", "Rank")
	f.SetCellValue(scoresSheet, "B1", "Name")
	f.SetCellValue(scoresSheet, "C1", "Score")
	for i, entry := range h.Repo.TopScores(0) {
		row := i + 2
		f.SetCellValue(scoresSheet, fmt.Sprintf("A%d", row), i+1)
		f.SetCellValue(scoresSheet, fmt.Sprintf("B%d", row), entry.Name)
		f.SetCellValue(scoresSheet, fmt.Sprintf("C%d", row), entry.Score)
	}

	const overviewSheet = "Overview"
	if _, err := f.NewSheet(overviewSheet); err == nil {
		stats := h.Repo.Stats()
		rows := [][2]interface{}{
			{"Users", stats.Users},
			{"Groups", stats.Groups},
			{"Contacts", stats.Contacts},
			{"Verses", stats.Verses},
			{"Events", stats.Events},
			{"Birthdays", stats.Birthdays},
			{"Prayers", stats.Prayers},
			{"Quizzes", stats.Quizzes},
		}
		for i, row := range rows {
			f.SetCellValue(overviewSheet, fmt.Sprintf("A%d", i+1), row[0])
			f.SetCellValue(overviewSheet, fmt.Sprintf("B%d", i+1), row[1])
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Export failed", "error", err)
		bot.SendMessage(chatID, "❌ Export failed.", nil)
		return
	}

	bot.SendDocument(chatID, "scores.xlsx", buf.Bytes(), "📊 Score export")
}

// HandleReport forwards a member's /report text to every operator.
func (h *HandlerManager) HandleReport(chatID, userID int64, username, text string, bot BotInterface) {
	text = security.SanitizeString(text)
	if text == "" {
		bot.SendMessage(chatID, MsgReportUsage, nil)
		return
	}

	report := fmt.Sprintf("📝 <b>New Report</b>\n\nFrom: @%s\nUser ID: %d\n\n%s",
		security.SanitizeHTML(username), userID, security.SanitizeHTML(text))
	for _, adminID := range h.Config.AdminIDs {
		if bot.SendMessage(adminID, report, nil) == 0 {
			logger.Warn("Report delivery to admin failed", "admin_id", adminID)
		}
	}

	bot.SendMessage(chatID, MsgReportSent, nil)
}
