package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestQuizPayloadUnmarshalArray(t *testing.T) {
	data := `[
		{"question": "Q1", "options": ["A", "B"], "correct_answer": "B"},
		{"question": "Q2", "options": ["X", "Y"], "answer": "X"}
	]`
	var p QuizPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("unmarshal array payload: %v", err)
	}
	if len(p) != 2 {
		t.Fatalf("len = %d; want 2", len(p))
	}
}

func TestQuizPayloadUnmarshalWrapped(t *testing.T) {
	data := `{"questions": [
		{"question": "Q1", "options": ["A", "B"], "correct_answer": "B"},
		{"question": "Q2", "options": ["X", "Y"], "answer": "X"}
	]}`
	var p QuizPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		t.Fatalf("unmarshal wrapped payload: %v", err)
	}
	if len(p) != 2 {
		t.Fatalf("len = %d; want 2", len(p))
	}
}

func TestQuizPayloadBothShapesNormalizeSame(t *testing.T) {
	array := `[{"question": "Q1", "options": ["A", "B"], "correct_answer": "B"}]`
	wrapped := `{"questions": [{"question": "Q1", "options": ["A", "B"], "correct_answer": "B"}]}`

	var pa, pw QuizPayload
	if err := json.Unmarshal([]byte(array), &pa); err != nil {
		t.Fatalf("array: %v", err)
	}
	if err := json.Unmarshal([]byte(wrapped), &pw); err != nil {
		t.Fatalf("wrapped: %v", err)
	}

	qa, qw := pa.Normalize(), pw.Normalize()
	if len(qa) != 1 || len(qw) != 1 {
		t.Fatalf("normalized lengths = %d, %d; want 1, 1", len(qa), len(qw))
	}
	if !reflect.DeepEqual(qa, qw) {
		t.Errorf("normalized questions differ: %+v vs %+v", qa, qw)
	}
}

func TestQuizPayloadUnparsableReadsEmpty(t *testing.T) {
	var p QuizPayload
	if err := json.Unmarshal([]byte(`"just a string"`), &p); err != nil {
		t.Fatalf("unparsable payload should not error, got %v", err)
	}
	if len(p) != 0 {
		t.Errorf("unparsable payload should normalize empty, got %d questions", len(p))
	}

	var pn QuizPayload
	if err := json.Unmarshal([]byte(`null`), &pn); err != nil {
		t.Fatalf("null payload: %v", err)
	}
	if len(pn) != 0 {
		t.Errorf("null payload should be empty, got %d", len(pn))
	}
}

func TestNormalizeAssignsDisplayIDs(t *testing.T) {
	p := QuizPayload{
		{Question: "Q1", Options: []string{"A", "B"}, CorrectAnswer: "B"},
		{Question: "Q2", Options: []string{"X", "Y"}, Answer: "X"},
		{Question: "Q3", Options: []string{"1", "2"}, CorrectOption: "2"},
	}
	qs := p.Normalize()
	for i, q := range qs {
		if q.ID != i+1 {
			t.Errorf("question %d has display id %d; want %d", i, q.ID, i+1)
		}
	}
}

func TestCorrectAnswerFieldPriority(t *testing.T) {
	// correct_answer wins over answer, answer over correct_option.
	cases := []struct {
		name string
		raw  RawQuestion
		want string
	}{
		{"correct_answer beats answer", RawQuestion{CorrectAnswer: "B", Answer: "A"}, "B"},
		{"answer beats correct_option", RawQuestion{Answer: "A", CorrectOption: "C"}, "A"},
		{"correct_option alone", RawQuestion{CorrectOption: "C"}, "C"},
		{"all three", RawQuestion{CorrectAnswer: "B", Answer: "A", CorrectOption: "C"}, "B"},
		{"none", RawQuestion{}, ""},
	}
	for _, tc := range cases {
		if got := tc.raw.Correct(); got != tc.want {
			t.Errorf("%s: Correct() = %q; want %q", tc.name, got, tc.want)
		}
	}
}

func TestModuleQuizSourcePrefersQuizzes(t *testing.T) {
	m := Module{
		Quizzes: QuizPayload{{Question: "from quizzes"}},
		Quiz:    QuizPayload{{Question: "from quiz"}},
	}
	if got := m.QuizSource()[0].Question; got != "from quizzes" {
		t.Errorf("QuizSource picked %q; want the quizzes field", got)
	}

	m = Module{Quiz: QuizPayload{{Question: "from quiz"}}}
	if got := m.QuizSource()[0].Question; got != "from quiz" {
		t.Errorf("QuizSource picked %q; want the quiz fallback", got)
	}
}

func TestCourseRoundTripKeepsQuizPayload(t *testing.T) {
	course := Course{
		ID:    1,
		Topic: "Python",
		Modules: []Module{{
			ID:   1,
			Name: "Basics",
			Quizzes: QuizPayload{
				{Question: "Q1", Options: []string{"A", "B"}, CorrectAnswer: "B"},
			},
		}},
	}

	data, err := json.Marshal(course)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Course
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	qs := back.Modules[0].QuizSource().Normalize()
	if len(qs) != 1 || qs[0].CorrectAnswer != "B" {
		t.Errorf("round-tripped quiz lost data: %+v", qs)
	}
}
