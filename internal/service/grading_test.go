package service

import (
	"reflect"
	"testing"

	"github.com/lshigami/quizgate/internal/model"
)

func questionWithKey(id uint, correct []int) model.Question {
	q := model.Question{ID: id, Type: model.QuestionTypeMultiChoice}
	q.SetCorrectAnswerIDs(correct)
	return q
}

func TestGradeExactSet(t *testing.T) {
	q := questionWithKey(1, []int{1, 3})
	tests := []struct {
		name     string
		selected []int
		want     bool
	}{
		{"exact", []int{1, 3}, true},
		{"order does not matter", []int{3, 1}, true},
		{"duplicates ignored", []int{1, 3, 3, 1}, true},
		{"subset", []int{1}, false},
		{"superset", []int{1, 2, 3}, false},
		{"disjoint", []int{2}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Grade(&q, tt.selected); got != tt.want {
				t.Fatalf("Grade(%v) = %v, want %v", tt.selected, got, tt.want)
			}
		})
	}
}

func TestGradeEmptyKeyNeverCorrect(t *testing.T) {
	q := model.Question{ID: 1, CorrectAnswerIDsText: "not json"}
	if Grade(&q, nil) {
		t.Fatal("empty selection must not match an unreadable key")
	}
	if Grade(&q, []int{1}) {
		t.Fatal("nothing matches an unreadable key")
	}
}

func TestGradeAttempt(t *testing.T) {
	questions := []model.Question{
		questionWithKey(10, []int{1, 3}),
		questionWithKey(11, []int{2}),
		questionWithKey(12, []int{4}),
	}
	responses := []model.Response{
		{QuestionID: 10, ChoiceID: 3},
		{QuestionID: 10, ChoiceID: 1},
		{QuestionID: 11, ChoiceID: 1},
		{QuestionID: 99, ChoiceID: 1}, // not part of the test
	}
	grade := GradeAttempt(questions, responses)

	if grade.QuestionCount != 3 || grade.CorrectCount != 1 {
		t.Fatalf("counts = %d/%d, want 1/3", grade.CorrectCount, grade.QuestionCount)
	}
	if grade.ScorePercent != 33.33 {
		t.Fatalf("score = %v, want 33.33", grade.ScorePercent)
	}
	if !reflect.DeepEqual(grade.Questions[0].Selected, []int{1, 3}) || !grade.Questions[0].Correct {
		t.Fatalf("question 10 = %+v", grade.Questions[0])
	}
	if grade.Questions[2].Correct || len(grade.Questions[2].Selected) != 0 {
		t.Fatalf("unanswered question should be incorrect with no selection: %+v", grade.Questions[2])
	}
}

func TestGradeAttemptNoQuestions(t *testing.T) {
	grade := GradeAttempt(nil, nil)
	if grade.ScorePercent != 0 || grade.QuestionCount != 0 {
		t.Fatalf("unexpected grade %+v", grade)
	}
}
