package models

import "time"

// Content collection kinds, as used by the /delete command.
const (
	KindContact  = "contact"
	KindVerse    = "verse"
	KindEvent    = "event"
	KindBirthday = "birthday"
	KindQuiz     = "quiz"
)

// Quiz choice labels in canonical order.
var ChoiceLabels = []string{"A", "B", "C", "D"}

type Birthday struct {
	Month int    `json:"month"`
	Day   int    `json:"day"`
	Name  string `json:"name"`
}

// Valid reports whether the date fields are in range. Day is not checked
// against the actual length of the month.
func (b Birthday) Valid() bool {
	return b.Month >= 1 && b.Month <= 12 && b.Day >= 1 && b.Day <= 31
}

type Prayer struct {
	UserID   int64     `json:"user_id"`
	Username string    `json:"username"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
}

// QuizQuestion is immutable once created. ID is assigned by the store at
// append time and stays stable across edits and deletes of the collection.
type QuizQuestion struct {
	ID       int64             `json:"id"`
	Question string            `json:"question"`
	Choices  map[string]string `json:"choices"`
	Answer   string            `json:"answer"`
}

// ScoreEntry is one row of the score ledger. The ledger keeps insertion
// order so ranking ties resolve deterministically.
type ScoreEntry struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// Snapshot is the full serialized form of the content store. It is what the
// persistence gateway writes to disk and what /backup and /restore exchange.
type Snapshot struct {
	About         string         `json:"about"`
	Contacts      []string       `json:"contacts"`
	Verses        []string       `json:"verses"`
	Events        []string       `json:"events"`
	Birthdays     []Birthday     `json:"birthdays"`
	Prayers       []Prayer       `json:"prayers"`
	Quizzes       []QuizQuestion `json:"quizzes"`
	NextQuizID    int64          `json:"next_quiz_id"`
	Scores        []ScoreEntry   `json:"quiz_scores"`
	MessageCount  map[int64]int  `json:"message_count"`
	QuizThreshold int            `json:"quiz_threshold"`
	Users         []int64        `json:"users"`
	Groups        []int64        `json:"groups"`
}

// Stats holds the collection and membership counts shown by /stats.
type Stats struct {
	Users     int
	Groups    int
	Contacts  int
	Verses    int
	Events    int
	Birthdays int
	Prayers   int
	Quizzes   int
	Scores    int
}
