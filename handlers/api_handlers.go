package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mentai-server/catalog"
	"mentai-server/clients"
	"mentai-server/course"
	"mentai-server/logger"
	"mentai-server/middleware"
	"mentai-server/models"
	"mentai-server/quiz"
	"mentai-server/snapshot"
)

// owner resolves the snapshot owner for the request: the authenticated email,
// or the shared guest owner.
func owner(c *gin.Context) string {
	if email := c.GetString(middleware.CtxUserEmail); email != "" {
		return email
	}
	return snapshot.GuestOwner
}

// GenerateCourseRequest is the generation trigger body.
type GenerateCourseRequest struct {
	Topic string `json:"topic"`
}

// GenerateCourse requests a new course and replaces the snapshot.
// POST /api/v1/courses
func GenerateCourse(svc *course.Service, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GenerateCourseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		generated, err := svc.Generate(c.Request.Context(), owner(c), req.Topic)
		if err != nil {
			switch {
			case errors.Is(err, course.ErrBlankTopic):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is required"})
			case errors.Is(err, course.ErrSuperseded):
				c.JSON(http.StatusConflict, gin.H{"error": "A newer generation request replaced this one"})
			default:
				log.Error("course generation failed", "topic", req.Topic, "error", err)
				c.JSON(http.StatusBadGateway, gin.H{"error": course.UserMessage(err)})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"course": generated, "active_module": 0})
	}
}

// GetCurrentCourse returns the snapshot and active module. When the request
// carries a course slug and 1-based module number (the quiz-return route),
// the active module is restored first; a mismatched slug leaves it untouched.
// GET /api/v1/courses/current?course=<slug>&module=<n>
func GetCurrentCourse(svc *course.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		slug := c.Query("course")
		moduleParam := c.Query("module")
		if slug != "" && moduleParam != "" {
			if n, err := strconv.Atoi(moduleParam); err == nil {
				svc.RestoreFromRoute(c.Request.Context(), owner(c), slug, n)
			}
		}

		current, active, err := svc.Current(c.Request.Context(), owner(c))
		if err != nil {
			if errors.Is(err, snapshot.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No course found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load course"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"course": current, "active_module": active})
	}
}

// ClearCourse drops the snapshot.
// DELETE /api/v1/courses/current
func ClearCourse(svc *course.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Clear(c.Request.Context(), owner(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear course"})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// quizQuestionView is a question as served to the quiz page: no correct
// answer, that only appears in submission results.
type quizQuestionView struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func quizView(sess *quiz.Session) gin.H {
	questions := make([]quizQuestionView, 0, len(sess.Questions))
	for _, q := range sess.Questions {
		questions = append(questions, quizQuestionView{ID: q.ID, Question: q.Question, Options: q.Options})
	}
	return gin.H{
		"state":              sess.State.String(),
		"module_name":        sess.ModuleName,
		"module_description": sess.ModuleDescription,
		"questions":          questions,
		"answered_count":     len(sess.Answers),
		"total_questions":    len(sess.Questions),
	}
}

// LoadQuiz builds a fresh quiz session for the module from the snapshot.
// GET /api/v1/quiz/:module_id
func LoadQuiz(svc *quiz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		moduleID, err := strconv.Atoi(c.Param("module_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module ID"})
			return
		}

		sess := svc.Load(c.Request.Context(), owner(c), moduleID)
		if sess.State == quiz.StateNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found", "state": sess.State.String()})
			return
		}
		c.JSON(http.StatusOK, quizView(sess))
	}
}

// AnswerRequest selects an option for a question.
type AnswerRequest struct {
	QuestionID int    `json:"question_id" binding:"required"`
	Option     string `json:"option" binding:"required"`
}

// SelectAnswer records an answer on the live session.
// PUT /api/v1/quiz/:module_id/answers
func SelectAnswer(svc *quiz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		moduleID, err := strconv.Atoi(c.Param("module_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module ID"})
			return
		}
		var req AnswerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := svc.SelectAnswer(owner(c), moduleID, req.QuestionID, req.Option); err != nil {
			quizError(c, err)
			return
		}

		sess, _ := svc.Get(owner(c), moduleID)
		c.JSON(http.StatusOK, gin.H{
			"state":           sess.State.String(),
			"answered_count":  len(sess.Answers),
			"total_questions": len(sess.Questions),
		})
	}
}

// SubmitQuiz scores the session. An optional ?topic= query overrides the
// snapshot-derived slug for the progress push.
// POST /api/v1/quiz/:module_id/submit
func SubmitQuiz(svc *quiz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		moduleID, err := strconv.Atoi(c.Param("module_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module ID"})
			return
		}

		email := c.GetString(middleware.CtxUserEmail)
		result, err := svc.Submit(owner(c), moduleID, email, c.Query("topic"))
		if err != nil {
			quizError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// RetakeQuiz clears answers and result for another attempt.
// POST /api/v1/quiz/:module_id/retake
func RetakeQuiz(svc *quiz.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		moduleID, err := strconv.Atoi(c.Param("module_id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid module ID"})
			return
		}

		if err := svc.Retake(owner(c), moduleID); err != nil {
			quizError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"state": quiz.StateReady.String()})
	}
}

func quizError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found"})
	case errors.Is(err, quiz.ErrIncomplete):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Answer every question before submitting"})
	case errors.Is(err, quiz.ErrNotReady), errors.Is(err, quiz.ErrNotSubmitted):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Quiz operation failed"})
	}
}

// ExecuteCode proxies a code run to Judge0.
// POST /api/v1/execute
func ExecuteCode(j0 *clients.Judge0Client, cat *catalog.Catalog, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ExecuteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		lang, ok := cat.Resolve(req.Language)
		if !ok || !lang.ExecutionEnabled {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Code execution is not available for this language"})
			return
		}

		result, err := j0.Execute(c.Request.Context(), lang.Judge0ID, req.Code, req.Stdin)
		if err != nil {
			log.Error("judge0 execution failed", "language", req.Language, "error", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to connect to Judge0"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// Chat forwards a question to the assistant. A transport failure degrades to
// a canned apology so the widget never breaks the page.
// POST /api/v1/chat
func Chat(chat *clients.ChatClient, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		answer, err := chat.Ask(c.Request.Context(), req.Query)
		if err != nil {
			log.Warn("chat request failed", "error", err)
			c.JSON(http.StatusOK, models.ChatResponse{
				Answer:    "I'm sorry, I'm having trouble processing your request right now. Please try again later.",
				Timestamp: time.Now(),
			})
			return
		}
		c.JSON(http.StatusOK, answer)
	}
}

// GetTopics serves the popular-topic suggestions and language table.
// GET /api/v1/topics
func GetTopics(cat *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cat)
	}
}

// GetSession reports the caller's identity, mirroring the session lookup
// shape of the identity provider.
// GET /api/v1/session
func GetSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		status := c.GetString(middleware.CtxAuthStatus)
		if status != middleware.StatusAuthenticated {
			c.JSON(http.StatusOK, gin.H{"user": nil, "status": middleware.StatusUnauthenticated})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"email": c.GetString(middleware.CtxUserEmail),
				"name":  c.GetString(middleware.CtxUserName),
			},
			"status": status,
		})
	}
}
