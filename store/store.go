// Package store provides persistence for users and classrooms.
//
// The auth service depends only on the UserStore contract. Create never
// upserts: inserting an email that already exists fails with
// ErrDuplicateEmail, which is how callers detect find-then-create races.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Sentinel errors shared by all implementations.
var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrDuplicateEmail is returned by Create when the email is already
	// taken. The unique index enforces this at the storage layer, so two
	// racing creates can never both succeed.
	ErrDuplicateEmail = errors.New("store: email already exists")
)

// User roles.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
)

// User is a persistent account. PasswordHash always holds a bcrypt digest,
// never plaintext; for OAuth-created users it is a digest of a random secret.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null" json:"role"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// UserStore is the collaborator contract consumed by the auth service.
type UserStore interface {
	// FindByEmail returns the user with the given email or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)
	// Create inserts a new user. Fails with ErrDuplicateEmail if the email
	// exists by the time of insertion.
	Create(ctx context.Context, user *User) error
}

// Classroom is a teacher-owned class that students join by code.
type Classroom struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Subject   string    `json:"subject"`
	JoinCode  string    `gorm:"uniqueIndex" json:"joinCode"`
	TeacherID uuid.UUID `gorm:"type:uuid;index" json:"teacherId"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Announcement is a message posted to a classroom.
type Announcement struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;index" json:"classroomId"`
	AuthorID    uuid.UUID `gorm:"type:uuid" json:"authorId"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Assignment is graded work attached to a classroom.
type Assignment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;index" json:"classroomId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	DueAt       time.Time `json:"dueAt"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Enrollment links a student to a classroom.
type Enrollment struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClassroomID uuid.UUID `gorm:"type:uuid;index:idx_enroll,unique" json:"classroomId"`
	UserID      uuid.UUID `gorm:"type:uuid;index:idx_enroll,unique" json:"userId"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Grade records a score for a student's assignment.
type Grade struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID `gorm:"type:uuid;index" json:"assignmentId"`
	StudentID    uuid.UUID `gorm:"type:uuid;index" json:"studentId"`
	Score        float64   `json:"score"`
	Feedback     string    `json:"feedback"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// ClassroomStore is the plain CRUD contract behind the classroom routes.
type ClassroomStore interface {
	ListClassrooms(ctx context.Context) ([]Classroom, error)
	GetClassroom(ctx context.Context, id uuid.UUID) (*Classroom, error)
	ListClassroomsByTeacher(ctx context.Context, teacherID uuid.UUID) ([]Classroom, error)
	ListClassroomsByStudent(ctx context.Context, userID uuid.UUID) ([]Classroom, error)
	CreateClassroom(ctx context.Context, c *Classroom) error
	ArchiveClassroom(ctx context.Context, id uuid.UUID) error
	JoinClassroom(ctx context.Context, joinCode string, userID uuid.UUID) (*Classroom, error)
	ListStudents(ctx context.Context, classroomID uuid.UUID) ([]User, error)

	ListAnnouncements(ctx context.Context, classroomID uuid.UUID) ([]Announcement, error)
	CreateAnnouncement(ctx context.Context, a *Announcement) error
	ListAssignments(ctx context.Context, classroomID uuid.UUID) ([]Assignment, error)
	CreateAssignment(ctx context.Context, a *Assignment) error
	CreateGrade(ctx context.Context, g *Grade) error
}
