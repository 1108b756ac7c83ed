package server

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/skillsenselab/classboard/auth/authctx"
	"github.com/skillsenselab/classboard/auth/jwt"
	apperrors "github.com/skillsenselab/classboard/errors"
	"github.com/skillsenselab/classboard/logger"
	"github.com/skillsenselab/classboard/store"
)

// ClassroomHandler serves the protected classroom routes. Every route runs
// behind the auth middleware, so verified claims are always in the context.
type ClassroomHandler struct {
	classrooms store.ClassroomStore
	log        *logger.Logger
}

// NewClassroomHandler creates the classroom route handler.
func NewClassroomHandler(classrooms store.ClassroomStore, log *logger.Logger) *ClassroomHandler {
	return &ClassroomHandler{
		classrooms: classrooms,
		log:        log.WithComponent("classroom_handler"),
	}
}

func claimsFrom(c *gin.Context) (*jwt.Claims, error) {
	claims, err := authctx.GetOrError(c.Request.Context())
	if err != nil {
		return nil, apperrors.NoToken()
	}
	return claims, nil
}

func callerID(c *gin.Context) (uuid.UUID, error) {
	claims, err := claimsFrom(c)
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, apperrors.InvalidToken(err)
	}
	return id, nil
}

func pathID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperrors.Validation("Invalid classroom id")
	}
	return id, nil
}

// List handles GET /api/classrooms.
func (h *ClassroomHandler) List(c *gin.Context) {
	out, err := h.classrooms.ListClassrooms(c.Request.Context())
	if err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondOK(c, out)
}

// Get handles GET /api/classrooms/:id.
func (h *ClassroomHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	classroom, err := h.classrooms.GetClassroom(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(c, apperrors.NotFound("classroom"))
			return
		}
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondOK(c, classroom)
}

// ByTeacher handles GET /api/classrooms/teacher: the caller's own classrooms.
func (h *ClassroomHandler) ByTeacher(c *gin.Context) {
	teacherID, err := callerID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	out, err := h.classrooms.ListClassroomsByTeacher(c.Request.Context(), teacherID)
	if err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondOK(c, out)
}

// Enrolled handles GET /api/classrooms/enrolled: classrooms the caller joined.
func (h *ClassroomHandler) Enrolled(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	out, err := h.classrooms.ListClassroomsByStudent(c.Request.Context(), userID)
	if err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondOK(c, out)
}

// Students handles GET /api/classrooms/:id/students.
func (h *ClassroomHandler) Students(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	out, err := h.classrooms.ListStudents(c.Request.Context(), id)
	if err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondOK(c, out)
}

type createClassroomRequest struct {
	Name    string `json:"name" binding:"required"`
	Subject string `json:"subject"`
}

// Create handles POST /api/classrooms. Only teachers may create classrooms.
func (h *ClassroomHandler) Create(c *gin.Context) {
	claims, err := claimsFrom(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if claims.Role != store.RoleTeacher {
		RespondWithError(c, apperrors.Validation("Only teachers can create classrooms"))
		return
	}
	teacherID, err := uuid.Parse(claims.UserID)
	if err != nil {
		RespondWithError(c, apperrors.InvalidToken(err))
		return
	}

	var req createClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("Classroom name is required").WithCause(err))
		return
	}

	classroom := &store.Classroom{
		Name:      req.Name,
		Subject:   req.Subject,
		JoinCode:  newJoinCode(),
		TeacherID: teacherID,
	}
	if err := h.classrooms.CreateClassroom(c.Request.Context(), classroom); err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	h.log.Info("Classroom created", map[string]interface{}{
		"classroom_id": classroom.ID.String(),
		"teacher_id":   teacherID.String(),
	})
	RespondCreated(c, classroom)
}

type joinClassroomRequest struct {
	JoinCode string `json:"joinCode" binding:"required"`
}

// Join handles POST /api/classrooms/join.
func (h *ClassroomHandler) Join(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	var req joinClassroomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("Join code is required").WithCause(err))
		return
	}
	classroom, err := h.classrooms.JoinClassroom(c.Request.Context(), req.JoinCode, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(c, apperrors.NotFound("classroom"))
			return
		}
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondOK(c, classroom)
}

// Archive handles PATCH /api/classrooms/:id/archive.
func (h *ClassroomHandler) Archive(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if err := h.classrooms.ArchiveClassroom(c.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondWithError(c, apperrors.NotFound("classroom"))
			return
		}
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondNoContent(c)
}

// ListAnnouncements handles GET /api/classrooms/:id/announcements.
func (h *ClassroomHandler) ListAnnouncements(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	out, err := h.classrooms.ListAnnouncements(c.Request.Context(), id)
	if err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondOK(c, out)
}

type createAnnouncementRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body"`
}

// CreateAnnouncement handles POST /api/classrooms/:id/announcements.
func (h *ClassroomHandler) CreateAnnouncement(c *gin.Context) {
	classroomID, err := pathID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	authorID, err := callerID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	var req createAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("Announcement title is required").WithCause(err))
		return
	}
	a := &store.Announcement{
		ClassroomID: classroomID,
		AuthorID:    authorID,
		Title:       req.Title,
		Body:        req.Body,
	}
	if err := h.classrooms.CreateAnnouncement(c.Request.Context(), a); err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondCreated(c, a)
}

// ListAssignments handles GET /api/classrooms/:id/assignments.
func (h *ClassroomHandler) ListAssignments(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	out, err := h.classrooms.ListAssignments(c.Request.Context(), id)
	if err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondOK(c, out)
}

type createAssignmentRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"dueAt"`
}

// CreateAssignment handles POST /api/classrooms/:id/assignments.
func (h *ClassroomHandler) CreateAssignment(c *gin.Context) {
	classroomID, err := pathID(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	var req createAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("Assignment title is required").WithCause(err))
		return
	}
	a := &store.Assignment{
		ClassroomID: classroomID,
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
	}
	if err := h.classrooms.CreateAssignment(c.Request.Context(), a); err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondCreated(c, a)
}

type createGradeRequest struct {
	AssignmentID uuid.UUID `json:"assignmentId" binding:"required"`
	StudentID    uuid.UUID `json:"studentId" binding:"required"`
	Score        float64   `json:"score"`
	Feedback     string    `json:"feedback"`
}

// CreateGrade handles POST /api/classrooms/:id/grades.
func (h *ClassroomHandler) CreateGrade(c *gin.Context) {
	claims, err := claimsFrom(c)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	if claims.Role != store.RoleTeacher {
		RespondWithError(c, apperrors.Validation("Only teachers can record grades"))
		return
	}
	var req createGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, apperrors.Validation("Assignment and student are required").WithCause(err))
		return
	}
	g := &store.Grade{
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
		Score:        req.Score,
		Feedback:     req.Feedback,
	}
	if err := h.classrooms.CreateGrade(c.Request.Context(), g); err != nil {
		RespondWithError(c, apperrors.DatabaseError(err))
		return
	}
	RespondCreated(c, g)
}

// joinCodeAlphabet avoids ambiguous characters (0/O, 1/I).
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newJoinCode generates a 6-character classroom join code.
func newJoinCode() string {
	code := make([]byte, 6)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the process cannot do anything useful.
			panic(fmt.Sprintf("join code generation: %v", err))
		}
		code[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(code)
}
