package repositories

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/pinlon/community_bot/internal/models"
	"github.com/pinlon/community_bot/pkg/errors"
)

const DefaultQuizThreshold = 10

// ContentRepository owns all shared community content: curated collections,
// the score ledger, membership sets and per-chat message counters. Updates
// arrive from concurrent workers, so every operation takes the aggregate-wide
// lock; none of the compound sequences here (counter check-and-reset, score
// read-modify-write) are safe without it.
type ContentRepository struct {
	mu   sync.RWMutex
	data models.Snapshot

	// userID -> position in data.Scores, rebuilt on load
	scoreIdx map[int64]int
	userSet  map[int64]bool
	groupSet map[int64]bool
}

func NewContentRepository() *ContentRepository {
	r := &ContentRepository{}
	r.resetLocked()
	return r
}

// resetLocked reinitializes every field to the empty state. Callers hold mu.
func (r *ContentRepository) resetLocked() {
	r.data = models.Snapshot{
		MessageCount:  make(map[int64]int),
		QuizThreshold: DefaultQuizThreshold,
	}
	r.scoreIdx = make(map[int64]int)
	r.userSet = make(map[int64]bool)
	r.groupSet = make(map[int64]bool)
}

// ReplaceAll swaps the entire in-memory state for the given snapshot, as
// /restore and startup load do. The snapshot is only syntactically validated;
// membership sets are deduplicated and missing fields get zero values.
func (r *ContentRepository) ReplaceAll(snap *models.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetLocked()
	if snap == nil {
		return
	}

	r.data.About = snap.About
	r.data.Contacts = append(r.data.Contacts, snap.Contacts...)
	r.data.Verses = append(r.data.Verses, snap.Verses...)
	r.data.Events = append(r.data.Events, snap.Events...)
	r.data.Birthdays = append(r.data.Birthdays, snap.Birthdays...)
	r.data.Prayers = append(r.data.Prayers, snap.Prayers...)
	r.data.NextQuizID = snap.NextQuizID

	for _, q := range snap.Quizzes {
		if q.ID == 0 || q.ID > r.data.NextQuizID {
			// Snapshots predating stable ids (or with a stale counter)
			// still need unique, monotonic identities.
			r.data.NextQuizID++
			q.ID = r.data.NextQuizID
		}
		if q.Choices == nil {
			q.Choices = make(map[string]string)
		}
		r.data.Quizzes = append(r.data.Quizzes, q)
	}

	for _, entry := range snap.Scores {
		if _, dup := r.scoreIdx[entry.UserID]; dup {
			continue
		}
		r.scoreIdx[entry.UserID] = len(r.data.Scores)
		r.data.Scores = append(r.data.Scores, entry)
	}

	for chatID, count := range snap.MessageCount {
		if count > 0 {
			r.data.MessageCount[chatID] = count
		}
	}
	if snap.QuizThreshold > 0 {
		r.data.QuizThreshold = snap.QuizThreshold
	}

	for _, id := range snap.Users {
		if !r.userSet[id] {
			r.userSet[id] = true
			r.data.Users = append(r.data.Users, id)
		}
	}
	for _, id := range snap.Groups {
		if !r.groupSet[id] {
			r.groupSet[id] = true
			r.data.Groups = append(r.data.Groups, id)
		}
	}
}

// Snapshot returns a deep copy of the current state for persistence. The
// copy is safe to marshal outside the lock.
func (r *ContentRepository) Snapshot() *models.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := models.Snapshot{
		About:         r.data.About,
		Contacts:      append([]string(nil), r.data.Contacts...),
		Verses:        append([]string(nil), r.data.Verses...),
		Events:        append([]string(nil), r.data.Events...),
		Birthdays:     append([]models.Birthday(nil), r.data.Birthdays...),
		Prayers:       append([]models.Prayer(nil), r.data.Prayers...),
		NextQuizID:    r.data.NextQuizID,
		Scores:        append([]models.ScoreEntry(nil), r.data.Scores...),
		MessageCount:  make(map[int64]int, len(r.data.MessageCount)),
		QuizThreshold: r.data.QuizThreshold,
		Users:         append([]int64(nil), r.data.Users...),
		Groups:        append([]int64(nil), r.data.Groups...),
	}
	for _, q := range r.data.Quizzes {
		choices := make(map[string]string, len(q.Choices))
		for label, text := range q.Choices {
			choices[label] = text
		}
		q.Choices = choices
		snap.Quizzes = append(snap.Quizzes, q)
	}
	for chatID, count := range r.data.MessageCount {
		snap.MessageCount[chatID] = count
	}
	return &snap
}

// Reset wipes all collections, the ledger, counters and membership back to
// the initial empty state.
func (r *ContentRepository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resetLocked()
}

func (r *ContentRepository) SetAbout(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.About = text
}

func (r *ContentRepository) About() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.About
}

func (r *ContentRepository) AppendContacts(records []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Contacts = append(r.data.Contacts, records...)
	return len(records)
}

func (r *ContentRepository) Contacts() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.data.Contacts...)
}

func (r *ContentRepository) AppendVerses(records []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Verses = append(r.data.Verses, records...)
	return len(records)
}

// RandomVerse picks one verse uniformly at random.
func (r *ContentRepository) RandomVerse() (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.data.Verses) == 0 {
		return "", errors.New(errors.ErrCodeNotFound, "no verses available")
	}
	return r.data.Verses[rand.Intn(len(r.data.Verses))], nil
}

func (r *ContentRepository) AppendEvents(records []string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Events = append(r.data.Events, records...)
	return len(records)
}

func (r *ContentRepository) Events() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.data.Events...)
}

func (r *ContentRepository) AppendBirthdays(records []models.Birthday) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Birthdays = append(r.data.Birthdays, records...)
	return len(records)
}

// BirthdaysInMonth returns the birthdays of the given month sorted by day.
func (r *ContentRepository) BirthdaysInMonth(month int) []models.Birthday {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Birthday
	for _, b := range r.data.Birthdays {
		if b.Month == month {
			result = append(result, b)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Day < result[j].Day
	})
	return result
}

func (r *ContentRepository) AddPrayer(prayer models.Prayer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.Prayers = append(r.data.Prayers, prayer)
}

// LastPrayers returns up to n most recent prayer records, oldest first.
func (r *ContentRepository) LastPrayers(n int) []models.Prayer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := len(r.data.Prayers) - n
	if n <= 0 || start < 0 {
		start = 0
	}
	return append([]models.Prayer(nil), r.data.Prayers[start:]...)
}

// AppendQuizzes assigns each question a stable id and appends it. Ids are
// never reused, so an answer callback can always tell whether its question
// still exists.
func (r *ContentRepository) AppendQuizzes(questions []models.QuizQuestion) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, q := range questions {
		r.data.NextQuizID++
		q.ID = r.data.NextQuizID
		r.data.Quizzes = append(r.data.Quizzes, q)
	}
	return len(questions)
}

func (r *ContentRepository) QuizCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data.Quizzes)
}

// RandomQuiz picks one question uniformly at random. Repeats across calls
// are allowed.
func (r *ContentRepository) RandomQuiz() (*models.QuizQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.data.Quizzes) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "no quizzes available")
	}
	q := r.data.Quizzes[rand.Intn(len(r.data.Quizzes))]
	return &q, nil
}

// QuizByID resolves a dispatched question by its stable id.
func (r *ContentRepository) QuizByID(id int64) (*models.QuizQuestion, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, q := range r.data.Quizzes {
		if q.ID == id {
			return &q, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, fmt.Sprintf("quiz %d not found", id))
}

// DeleteAt removes the index-th (1-based) record from the named collection
// and returns a short description of what was removed. Out-of-range indexes
// mutate nothing.
func (r *ContentRepository) DeleteAt(kind string, index int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := index - 1
	outOfRange := func(n int) error {
		return errors.New(errors.ErrCodeNotFound, fmt.Sprintf("%s %d not found (have %d)", kind, index, n))
	}

	switch kind {
	case models.KindContact:
		if i < 0 || i >= len(r.data.Contacts) {
			return "", outOfRange(len(r.data.Contacts))
		}
		deleted := r.data.Contacts[i]
		r.data.Contacts = append(r.data.Contacts[:i], r.data.Contacts[i+1:]...)
		return deleted, nil
	case models.KindVerse:
		if i < 0 || i >= len(r.data.Verses) {
			return "", outOfRange(len(r.data.Verses))
		}
		deleted := r.data.Verses[i]
		r.data.Verses = append(r.data.Verses[:i], r.data.Verses[i+1:]...)
		return deleted, nil
	case models.KindEvent:
		if i < 0 || i >= len(r.data.Events) {
			return "", outOfRange(len(r.data.Events))
		}
		deleted := r.data.Events[i]
		r.data.Events = append(r.data.Events[:i], r.data.Events[i+1:]...)
		return deleted, nil
	case models.KindBirthday:
		if i < 0 || i >= len(r.data.Birthdays) {
			return "", outOfRange(len(r.data.Birthdays))
		}
		deleted := r.data.Birthdays[i]
		r.data.Birthdays = append(r.data.Birthdays[:i], r.data.Birthdays[i+1:]...)
		return fmt.Sprintf("%d/%d %s", deleted.Month, deleted.Day, deleted.Name), nil
	case models.KindQuiz:
		if i < 0 || i >= len(r.data.Quizzes) {
			return "", outOfRange(len(r.data.Quizzes))
		}
		deleted := r.data.Quizzes[i]
		r.data.Quizzes = append(r.data.Quizzes[:i], r.data.Quizzes[i+1:]...)
		return deleted.Question, nil
	default:
		return "", errors.New(errors.ErrCodeValidation, fmt.Sprintf("unknown collection %q", kind))
	}
}

// AddScore adds delta to the user's ledger entry, creating it on first
// occurrence, and refreshes the display name. Returns the new total.
func (r *ContentRepository) AddScore(userID int64, name string, delta int) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx, ok := r.scoreIdx[userID]; ok {
		r.data.Scores[idx].Score += delta
		r.data.Scores[idx].Name = name
		return r.data.Scores[idx].Score
	}

	r.scoreIdx[userID] = len(r.data.Scores)
	r.data.Scores = append(r.data.Scores, models.ScoreEntry{UserID: userID, Name: name, Score: delta})
	return delta
}

// Score returns the user's current total, zero if absent.
func (r *ContentRepository) Score(userID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx, ok := r.scoreIdx[userID]; ok {
		return r.data.Scores[idx].Score
	}
	return 0
}

// TopScores returns up to n ledger entries sorted descending by score, ties
// in ledger insertion order. n <= 0 returns the whole ledger.
func (r *ContentRepository) TopScores(n int) []models.ScoreEntry {
	r.mu.RLock()
	entries := append([]models.ScoreEntry(nil), r.data.Scores...)
	r.mu.RUnlock()

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// AddUser records a private-chat member. Returns true when newly added.
func (r *ContentRepository) AddUser(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.userSet[id] {
		return false
	}
	r.userSet[id] = true
	r.data.Users = append(r.data.Users, id)
	return true
}

// AddGroup records a group chat. Returns true when newly added.
func (r *ContentRepository) AddGroup(id int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.groupSet[id] {
		return false
	}
	r.groupSet[id] = true
	r.data.Groups = append(r.data.Groups, id)
	return true
}

func (r *ContentRepository) Groups() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]int64(nil), r.data.Groups...)
}

// TrackMessage increments the chat's message counter. When the counter
// reaches the threshold it resets to zero and TrackMessage reports true;
// the reset happens whether or not a quiz can actually be dispatched.
func (r *ContentRepository) TrackMessage(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.data.MessageCount[chatID]++
	if r.data.MessageCount[chatID] >= r.data.QuizThreshold {
		r.data.MessageCount[chatID] = 0
		return true
	}
	return false
}

func (r *ContentRepository) MessageCount(chatID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.MessageCount[chatID]
}

func (r *ContentRepository) SetThreshold(n int) error {
	if n <= 0 {
		return errors.New(errors.ErrCodeValidation, "threshold must be a positive number")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data.QuizThreshold = n
	return nil
}

func (r *ContentRepository) Threshold() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data.QuizThreshold
}

// Stats returns the collection and membership counts.
func (r *ContentRepository) Stats() models.Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.Stats{
		Users:     len(r.data.Users),
		Groups:    len(r.data.Groups),
		Contacts:  len(r.data.Contacts),
		Verses:    len(r.data.Verses),
		Events:    len(r.data.Events),
		Birthdays: len(r.data.Birthdays),
		Prayers:   len(r.data.Prayers),
		Quizzes:   len(r.data.Quizzes),
		Scores:    len(r.data.Scores),
	}
}
