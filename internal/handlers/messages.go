package handlers

// Reply texts used by the handlers. Command help and menus live in the
// telegram package.
const (
	MsgNotAdmin   = "⚠️ This command is for admins only."
	MsgSaveFailed = "⚠️ Warning: data could not be saved to disk. Changes are in memory only."
	MsgCancelled  = "❌ Cancelled."
	MsgNoDialog   = "ℹ️ There is nothing to cancel."

	MsgPromptAbout = "📝 Send the new about text in one message.\n\nUse /cancel to abort."
	MsgPromptContact = "📞 Send contact entries, one per line.\n\n" +
		"Example:\nJohn - 09123456789\nMary - 09987654321\n\nUse /cancel to abort."
	MsgPromptVerse = "📖 Send verses, one per line.\n\n" +
		"Example:\nI am the way, the truth, and the life. - John 14:6\n\nUse /cancel to abort."
	MsgPromptEvents = "📅 Send events, one per line.\n\n" +
		"Example:\n2024-03-15 - Youth conference\n\nUse /cancel to abort."
	MsgPromptBirthday = "🎂 Send birthdays, one per line.\n\n" +
		"Format: month-day-name\nExample:\n3-15 - John\n4-20 - Mary\n\nUse /cancel to abort."
	MsgPromptQuiz = "❓ Send quiz questions, separated by a blank line.\n\n" +
		"Format:\nQuestion?\nA) choice one\nB) choice two\nC) choice three\nD) choice four\nAnswer: A\n\nUse /cancel to abort."
	MsgPromptBroadcast = "📢 Send the broadcast now: a text message or a single photo with an optional caption.\n\nUse /cancel to abort."
	MsgPromptRestore   = "📁 Upload the snapshot file (.json).\n\nUse /cancel to abort."

	MsgNoAbout     = "📝 Nothing here yet."
	MsgNoContacts  = "📞 No contacts yet."
	MsgNoVerses    = "📖 No verses yet."
	MsgNoEvents    = "📅 No events yet."
	MsgNoBirthdays = "🎂 No birthdays this month."
	MsgNoPrayers   = "🙏 No prayer requests yet."
	MsgNoQuizzes   = "❓ No quizzes available yet."
	MsgNoScores    = "🏆 No quiz scores yet."

	MsgPrayUsage   = "🙏 To submit a prayer request:\n\n/pray your request"
	MsgPrayThanks  = "✅ Your prayer request has been received. We will pray for you."
	MsgReportUsage = "📝 To send a report to the admins:\n\n/report your message"
	MsgReportSent  = "✅ Your report has been delivered."

	MsgQuizGone        = "❌ This quiz no longer exists."
	MsgAlreadyAnswered = "You already answered this question."

	MsgClearConfirm = "⚠️ This will wipe ALL data: content, scores and members.\n\nThis cannot be undone. Are you sure?"
	MsgClearDone    = "✅ All data has been wiped."
	MsgClearAborted = "❌ Wipe cancelled."

	MsgDeleteUsage = "🗑️ Delete one record by its number:\n\n" +
		"/delete verse 2\n/delete quiz 1\n/delete event 3\n/delete contact 1\n/delete birthday 4"
	MsgSetUsage = "⚙️ Set how many messages trigger an automatic quiz:\n\n/set <number>"

	MsgRestoreBadFile = "❌ That does not look like a snapshot file (.json expected)."
	MsgRestoreDone    = "✅ Data restored from the uploaded snapshot."
)
