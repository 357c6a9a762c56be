package models

import (
	"time"
)

// Course is the generated content root returned by the MentAI generation
// service and persisted wholesale as the course snapshot. It is never
// partially updated; every regeneration replaces it.
type Course struct {
	ID            int             `json:"id"`
	CourseTitle   string          `json:"course_title"`
	CourseContent string          `json:"course_content"`
	Topic         string          `json:"topic"`
	Modules       []Module        `json:"modules"`
	Metadata      *CourseMetadata `json:"metadata,omitempty"`
}

// CourseMetadata carries execution hints derived by the generation backend.
type CourseMetadata struct {
	Language         string `json:"language"`
	ExecutionEnabled bool   `json:"execution_enabled"`
	TopicType        string `json:"topic_type"`
}

// Module is one lesson unit within a course. Its ID is the quiz route key and
// must be resolvable against the persisted snapshot when a quiz is visited.
type Module struct {
	ID               int               `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	Content          string            `json:"content"`
	Difficulty       string            `json:"difficulty"`
	Order            int               `json:"order"`
	Duration         string            `json:"duration"`
	Subsections      []Subsection      `json:"subsections,omitempty"`
	Theory           string            `json:"theory,omitempty"`
	MiniProject      *MiniProject      `json:"mini_project,omitempty"`
	MiniLabs         []MiniLab         `json:"mini_labs,omitempty"`
	PracticeProblems []PracticeProblem `json:"practice_problems,omitempty"`
	Quizzes          QuizPayload       `json:"quizzes,omitempty"`
	Quiz             QuizPayload       `json:"quiz,omitempty"`
	PreloadedCode    string            `json:"preloaded_code,omitempty"`
}

// QuizSource returns the module's quiz payload, preferring the "quizzes"
// field over the legacy "quiz" field.
func (m *Module) QuizSource() QuizPayload {
	if len(m.Quizzes) > 0 {
		return m.Quizzes
	}
	return m.Quiz
}

// Difficulty levels emitted by the generation service. Anything else renders
// as unspecified.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

type Subsection struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type MiniProject struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tasks       []string `json:"tasks"`
}

type MiniLab struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tasks           []string `json:"tasks,omitempty"`
	ExpectedOutcome string   `json:"expected_outcome,omitempty"`
	PreloadedCode   string   `json:"preloaded_code,omitempty"`
}

type PracticeProblem struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Question is a normalized quiz question. ID is the 1-based display id,
// stable only within one quiz-load cycle.
type Question struct {
	ID            int      `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// QuestionResult is the per-question entry of a submission result.
type QuestionResult struct {
	QuestionID    int    `json:"question_id"`
	Question      string `json:"question"`
	UserAnswer    string `json:"user_answer"`
	CorrectAnswer string `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	Explanation   string `json:"explanation,omitempty"`
}

// NotAnswered marks an unanswered question in a submission result.
const NotAnswered = "Not answered"

// SubmissionResult is immutable once computed; a retake discards it and a new
// submission builds a fresh one.
type SubmissionResult struct {
	ModuleName      string           `json:"module_name"`
	TotalQuestions  int              `json:"total_questions"`
	CorrectAnswers  int              `json:"correct_answers"`
	ScorePercentage float64          `json:"score_percentage"`
	Results         []QuestionResult `json:"results"`
}

// ProgressRecord is pushed fire-and-forget to the platform progress store on
// quiz submission. The platform owns this record; we only write it.
type ProgressRecord struct {
	Email       string `json:"email"`
	TopicSlug   string `json:"topic_slug"`
	ModuleID    int    `json:"module_id"`
	IsCompleted bool   `json:"is_completed"`
	QuizScore   int    `json:"quiz_score"`
}

// CourseProgress is one entry of the platform dashboard listing.
type CourseProgress struct {
	TopicSlug       string `json:"topic_slug"`
	DisplayTitle    string `json:"display_title"`
	CurrentModule   int    `json:"current_module"`
	CompletedCount  int    `json:"completed_count"`
	PercentComplete int    `json:"percent_complete"`
	LastVisited     string `json:"last_visited"`
}

// ChatRequest and ChatResponse are the assistant endpoint shapes.
type ChatRequest struct {
	Query string `json:"query" binding:"required"`
}

type ChatResponse struct {
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// ExecuteRequest is the code-execution proxy input.
type ExecuteRequest struct {
	Code     string `json:"code" binding:"required"`
	Language string `json:"language"`
	Stdin    string `json:"stdin,omitempty"`
}

// ExecuteResult is the subset of the Judge0 response the client consumes.
type ExecuteResult struct {
	Stdout        string `json:"stdout,omitempty"`
	Stderr        string `json:"stderr,omitempty"`
	CompileOutput string `json:"compile_output,omitempty"`
	Status        string `json:"status,omitempty"`
}
