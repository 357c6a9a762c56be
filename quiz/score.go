package quiz

import (
	"mentai-server/models"
)

// Score computes the submission result for a set of answered questions.
// Comparison is strict string equality against the normalized correct
// answer. An empty question list scores 0%, never NaN.
func Score(moduleName string, questions []models.Question, answers map[int]string) *models.SubmissionResult {
	correct := 0
	results := make([]models.QuestionResult, 0, len(questions))

	for _, q := range questions {
		userAnswer, answered := answers[q.ID]
		// A question with no resolvable correct answer (e.g. zero options)
		// can never be answered correctly.
		isCorrect := answered && q.CorrectAnswer != "" && userAnswer == q.CorrectAnswer
		if isCorrect {
			correct++
		}
		display := userAnswer
		if !answered || userAnswer == "" {
			display = models.NotAnswered
		}
		results = append(results, models.QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Question,
			UserAnswer:    display,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     isCorrect,
			Explanation:   q.Explanation,
		})
	}

	pct := 0.0
	if len(questions) > 0 {
		pct = float64(correct) / float64(len(questions)) * 100
	}

	return &models.SubmissionResult{
		ModuleName:      moduleName,
		TotalQuestions:  len(questions),
		CorrectAnswers:  correct,
		ScorePercentage: pct,
		Results:         results,
	}
}
