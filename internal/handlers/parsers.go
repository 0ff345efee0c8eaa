package handlers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pinlon/community_bot/internal/models"
	"github.com/pinlon/community_bot/pkg/utils"
)

var (
	birthdayRe = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})\s*-\s*(.+)$`)
	choiceRe   = regexp.MustCompile(`^([A-Da-d])\)\s*(.+)$`)
	answerRe   = regexp.MustCompile(`\b([A-Da-d])\b`)
)

// ParseRecords splits a submission into one record per non-empty line.
func ParseRecords(text string) []string {
	return utils.SplitNonEmptyLines(text)
}

// ParseBirthdays parses `month-day-name` lines. Lines that fail the pattern
// or whose month/day fall outside [1,12]x[1,31] are skipped without feedback.
func ParseBirthdays(text string) []models.Birthday {
	var birthdays []models.Birthday
	for _, line := range utils.SplitNonEmptyLines(text) {
		m := birthdayRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		b := models.Birthday{Month: month, Day: day, Name: strings.TrimSpace(m[3])}
		if !b.Valid() {
			continue
		}
		birthdays = append(birthdays, b)
	}
	return birthdays
}

// ParseQuizzes parses blank-line-delimited question blocks. A block is
// accepted only when it has at least six non-empty lines, lines 2-5 are the
// four choices labeled A) through D) in order (case-insensitive), and line 6
// names exactly one of A-D as the answer. Anything else is dropped silently;
// the caller reports only the aggregate count.
func ParseQuizzes(text string) []models.QuizQuestion {
	var questions []models.QuizQuestion
	for _, block := range utils.SplitBlocks(text) {
		lines := utils.SplitNonEmptyLines(block)
		if len(lines) < 6 {
			continue
		}

		choices := make(map[string]string, 4)
		ok := true
		for i, want := range models.ChoiceLabels {
			m := choiceRe.FindStringSubmatch(lines[1+i])
			if m == nil || strings.ToUpper(m[1]) != want {
				ok = false
				break
			}
			choices[want] = strings.TrimSpace(m[2])
		}
		if !ok {
			continue
		}

		answer, ok := parseAnswer(lines[5])
		if !ok {
			continue
		}

		questions = append(questions, models.QuizQuestion{
			Question: lines[0],
			Choices:  choices,
			Answer:   answer,
		})
	}
	return questions
}

// parseAnswer extracts the canonical label from an answer line. The line may
// carry a prefix ("Answer: C") but must contain exactly one standalone A-D.
func parseAnswer(line string) (string, bool) {
	matches := answerRe.FindAllStringSubmatch(line, -1)
	if len(matches) != 1 {
		return "", false
	}
	return strings.ToUpper(matches[0][1]), true
}
