package telegram

// Top-level bot texts. Handler replies live in internal/handlers.
const (
	MsgWelcome = "👋 <b>Welcome!</b>\n\n" +
		"I am the community assistant bot. Here is what you can do:\n\n" +
		"📝 /about - About our community\n" +
		"📞 /contact - Contact list\n" +
		"📖 /verse - A verse for you\n" +
		"📅 /events - Upcoming events\n" +
		"🎂 /birthday - Birthdays this month\n" +
		"🙏 /pray - Send a prayer request\n" +
		"🏆 /tops - Quiz leaderboard\n" +
		"❓ /quiz - Play a quiz\n" +
		"📝 /report - Message the admins\n\n" +
		"Use /help any time to see this list again."

	MsgHelp = "ℹ️ <b>Commands</b>\n\n" +
		"📝 /about - About our community\n" +
		"📞 /contact - Contact list\n" +
		"📖 /verse - A verse for you\n" +
		"📅 /events - Upcoming events\n" +
		"🎂 /birthday - Birthdays this month\n" +
		"🙏 /pray &lt;text&gt; - Send a prayer request\n" +
		"🏆 /tops - Quiz leaderboard\n" +
		"❓ /quiz - Play a quiz\n" +
		"📝 /report &lt;text&gt; - Message the admins\n" +
		"❌ /cancel - Abort the current dialog\n\n" +
		"Add me to your group and I will run a quiz after every few messages!"

	MsgAdminMenu = "🛠 <b>Admin Menu</b>\n\n" +
		"<b>Content</b>\n" +
		"/edabout - Replace the about text\n" +
		"/edcontact - Add contacts\n" +
		"/edverse - Add verses\n" +
		"/edevents - Add events\n" +
		"/edbirthday - Add birthdays\n" +
		"/edquiz - Add quiz questions\n" +
		"/delete &lt;kind&gt; &lt;n&gt; - Delete one record\n\n" +
		"<b>Community</b>\n" +
		"/broadcast - Message every group\n" +
		"/praylist - Recent prayer requests\n" +
		"/stats - Bot statistics\n" +
		"/set &lt;n&gt; - Quiz trigger threshold\n\n" +
		"<b>Data</b>\n" +
		"/backup - Download a snapshot\n" +
		"/restore - Upload a snapshot\n" +
		"/export - Score sheet (xlsx)\n" +
		"/allclear - Wipe everything"
)
