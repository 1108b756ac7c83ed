package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/skillsenselab/classboard/logger"
)

// GormStore implements UserStore and ClassroomStore over a GORM database.
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
}

// Open connects to the database named by driver/dsn and migrates the schema.
// TranslateError is required so unique-index violations surface as
// gorm.ErrDuplicatedKey across drivers.
func Open(driver, dsn string, log *logger.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{}, &Classroom{}, &Announcement{}, &Assignment{}, &Enrollment{}, &Grade{},
	); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	log.Info("Database ready", map[string]interface{}{"driver": driver})
	return &GormStore{db: db, log: log.WithComponent("store")}, nil
}

// --- UserStore ---

// FindByEmail returns the user with the given email or ErrNotFound.
func (s *GormStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: find user by email: %w", err)
	}
	return &user, nil
}

// Create inserts a new user, relying on the unique email index to reject
// duplicates even under concurrent inserts.
func (s *GormStore) Create(ctx context.Context, user *User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	err := s.db.WithContext(ctx).Create(user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("store: create user: %w", err)
	}
	return nil
}

// --- ClassroomStore ---

func (s *GormStore) ListClassrooms(ctx context.Context) ([]Classroom, error) {
	var out []Classroom
	if err := s.db.WithContext(ctx).Where("archived = ?", false).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: list classrooms: %w", err)
	}
	return out, nil
}

func (s *GormStore) GetClassroom(ctx context.Context, id uuid.UUID) (*Classroom, error) {
	var c Classroom
	err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get classroom: %w", err)
	}
	return &c, nil
}

func (s *GormStore) ListClassroomsByTeacher(ctx context.Context, teacherID uuid.UUID) ([]Classroom, error) {
	var out []Classroom
	if err := s.db.WithContext(ctx).Where("teacher_id = ?", teacherID).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: list classrooms by teacher: %w", err)
	}
	return out, nil
}

func (s *GormStore) ListClassroomsByStudent(ctx context.Context, userID uuid.UUID) ([]Classroom, error) {
	var out []Classroom
	err := s.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.classroom_id = classrooms.id").
		Where("enrollments.user_id = ?", userID).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("store: list enrolled classrooms: %w", err)
	}
	return out, nil
}

func (s *GormStore) CreateClassroom(ctx context.Context, c *Classroom) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("store: create classroom: %w", err)
	}
	return nil
}

func (s *GormStore) ArchiveClassroom(ctx context.Context, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Model(&Classroom{}).Where("id = ?", id).Update("archived", true)
	if res.Error != nil {
		return fmt.Errorf("store: archive classroom: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) JoinClassroom(ctx context.Context, joinCode string, userID uuid.UUID) (*Classroom, error) {
	var c Classroom
	err := s.db.WithContext(ctx).First(&c, "join_code = ?", joinCode).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: find classroom by code: %w", err)
	}

	enrollment := Enrollment{ID: uuid.New(), ClassroomID: c.ID, UserID: userID}
	if err := s.db.WithContext(ctx).Create(&enrollment).Error; err != nil {
		// Joining twice is idempotent.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &c, nil
		}
		return nil, fmt.Errorf("store: enroll: %w", err)
	}
	return &c, nil
}

func (s *GormStore) ListStudents(ctx context.Context, classroomID uuid.UUID) ([]User, error) {
	var out []User
	err := s.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.user_id = users.id").
		Where("enrollments.classroom_id = ?", classroomID).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("store: list students: %w", err)
	}
	return out, nil
}

func (s *GormStore) ListAnnouncements(ctx context.Context, classroomID uuid.UUID) ([]Announcement, error) {
	var out []Announcement
	if err := s.db.WithContext(ctx).Where("classroom_id = ?", classroomID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: list announcements: %w", err)
	}
	return out, nil
}

func (s *GormStore) CreateAnnouncement(ctx context.Context, a *Announcement) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("store: create announcement: %w", err)
	}
	return nil
}

func (s *GormStore) ListAssignments(ctx context.Context, classroomID uuid.UUID) ([]Assignment, error) {
	var out []Assignment
	if err := s.db.WithContext(ctx).Where("classroom_id = ?", classroomID).Order("due_at").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("store: list assignments: %w", err)
	}
	return out, nil
}

func (s *GormStore) CreateAssignment(ctx context.Context, a *Assignment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("store: create assignment: %w", err)
	}
	return nil
}

func (s *GormStore) CreateGrade(ctx context.Context, g *Grade) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("store: create grade: %w", err)
	}
	return nil
}
