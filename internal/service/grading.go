package service

import (
	"math"
	"sort"

	"github.com/lshigami/quizgate/internal/model"
)

type QuestionGrade struct {
	QuestionID uint
	Selected   []int
	Correct    bool
}

type AttemptGrade struct {
	Questions     []QuestionGrade
	CorrectCount  int
	QuestionCount int
	ScorePercent  float64
}

// Grade reports whether selected equals the question's correct set exactly.
// Duplicates in selected are ignored. A question whose stored answer key is
// empty or unreadable can never be answered correctly.
func Grade(q *model.Question, selected []int) bool {
	correct := toSet(q.CorrectAnswerIDs())
	if len(correct) == 0 {
		return false
	}
	return equalSets(correct, toSet(selected))
}

// GradeAttempt grades every question of a test against the responses of one
// attempt. Unanswered questions count as incorrect and responses for
// questions outside the list are ignored.
func GradeAttempt(questions []model.Question, responses []model.Response) AttemptGrade {
	byQuestion := make(map[uint][]int, len(questions))
	for _, r := range responses {
		byQuestion[r.QuestionID] = append(byQuestion[r.QuestionID], r.ChoiceID)
	}

	grade := AttemptGrade{
		Questions:     make([]QuestionGrade, 0, len(questions)),
		QuestionCount: len(questions),
	}
	for i := range questions {
		q := &questions[i]
		selected := sortedUnique(byQuestion[q.ID])
		ok := Grade(q, selected)
		if ok {
			grade.CorrectCount++
		}
		grade.Questions = append(grade.Questions, QuestionGrade{QuestionID: q.ID, Selected: selected, Correct: ok})
	}
	grade.ScorePercent = scorePercent(grade.CorrectCount, grade.QuestionCount)
	return grade
}

func scorePercent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)*10000/float64(total)) / 100
}

func toSet(ids []int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func equalSets(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if _, ok := b[id]; !ok {
			return false
		}
	}
	return true
}

func sortedUnique(ids []int) []int {
	set := toSet(ids)
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
