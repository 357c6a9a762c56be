package models

import (
	"bytes"
	"encoding/json"
)

// QuizPayload is the quiz portion of a generated module. The generation
// service emits it in two shapes: a bare array of questions, or an object
// wrapping the array under a "questions" field. Both unmarshal to the same
// ordered sequence.
type QuizPayload []RawQuestion

// RawQuestion is a question as it arrives on the wire. The correct answer may
// be labelled under any of three field names; Normalize resolves them.
type RawQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Answer        string   `json:"answer"`
	CorrectOption string   `json:"correct_option"`
	Explanation   string   `json:"explanation"`
}

// Correct returns the correct-answer value under the fixed field priority:
// correct_answer, then answer, then correct_option. The first present wins.
func (q RawQuestion) Correct() string {
	for _, v := range []string{q.CorrectAnswer, q.Answer, q.CorrectOption} {
		if v != "" {
			return v
		}
	}
	return ""
}

// UnmarshalJSON accepts either payload shape. Anything unparsable leaves the
// payload empty; a missing or malformed quiz is a normal state, not an error.
func (p *QuizPayload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*p = nil
		return nil
	}

	var raw []RawQuestion
	if err := json.Unmarshal(data, &raw); err == nil {
		*p = raw
		return nil
	}

	var wrapped struct {
		Questions []RawQuestion `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		*p = wrapped.Questions
		return nil
	}

	*p = nil
	return nil
}

// MarshalJSON always emits the bare-array shape.
func (p QuizPayload) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	return json.Marshal([]RawQuestion(p))
}

// Normalize converts the payload into the canonical ordered question
// sequence, assigning 1-based display ids.
func (p QuizPayload) Normalize() []Question {
	questions := make([]Question, 0, len(p))
	for i, raw := range p {
		questions = append(questions, Question{
			ID:            i + 1,
			Question:      raw.Question,
			Options:       raw.Options,
			CorrectAnswer: raw.Correct(),
			Explanation:   raw.Explanation,
		})
	}
	return questions
}
