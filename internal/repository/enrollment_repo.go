package repository

import (
	"context"
	"time"

	"github.com/vezba/fitness-backend/internal/models"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	FindByUserAndTerm(ctx context.Context, tx *gorm.DB, userID, termID uint) (*models.Enrollment, error)
	FindActiveWithTerm(ctx context.Context, userID, termID uint) (*models.Enrollment, error)
	CreateEnrolled(ctx context.Context, tx *gorm.DB, termID, userID uint) (*models.Enrollment, error)
	Reactivate(ctx context.Context, tx *gorm.DB, id uint) error
	Cancel(ctx context.Context, tx *gorm.DB, id uint) error
	SetRating(ctx context.Context, termID, userID uint, rating int, feedback *string) error
	MarkAttended(ctx context.Context, termID, userID uint) error
	ListEnrolledUserIDs(ctx context.Context, termID uint) ([]uint, error)
	ListEnrolledByTerm(ctx context.Context, termID uint) ([]models.Enrollment, error)
	ListByUser(ctx context.Context, userID uint) ([]models.Enrollment, error)
	HasEnrolled(ctx context.Context, termID uint) (bool, error)
	CountAttendedInRange(ctx context.Context, userID uint, from, to time.Time) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// FindByUserAndTerm returns the single row for the pair regardless of status.
// A canceled row is kept around so a rebooking reactivates it instead of
// inserting a duplicate.
func (r *enrollmentRepository) FindByUserAndTerm(ctx context.Context, tx *gorm.DB, userID, termID uint) (*models.Enrollment, error) {
	var e models.Enrollment
	err := tx.WithContext(ctx).
		Where("user_id = ? AND term_id = ?", userID, termID).
		Order("id DESC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) FindActiveWithTerm(ctx context.Context, userID, termID uint) (*models.Enrollment, error) {
	var e models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Term").
		Where("user_id = ? AND term_id = ? AND status = ?", userID, termID, models.StatusEnrolled).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enrollmentRepository) CreateEnrolled(ctx context.Context, tx *gorm.DB, termID, userID uint) (*models.Enrollment, error) {
	e := &models.Enrollment{
		TermID: termID,
		UserID: userID,
		Status: models.StatusEnrolled,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		return nil, err
	}
	return e, nil
}

// Reactivate flips a previously canceled row back to enrolled and wipes any
// rating left over from the earlier enrollment.
func (r *enrollmentRepository) Reactivate(ctx context.Context, tx *gorm.DB, id uint) error {
	return tx.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            models.StatusEnrolled,
			"rating":            nil,
			"feedback":          nil,
			"session_completed": false,
		}).Error
}

// Cancel flips an enrolled row to canceled_by_user. The status guard makes
// the transition single-shot: a racing second cancel sees zero rows and gets
// ErrRecordNotFound instead of triggering another counter decrement.
func (r *enrollmentRepository) Cancel(ctx context.Context, tx *gorm.DB, id uint) error {
	res := tx.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("id = ? AND status = ?", id, models.StatusEnrolled).
		Update("status", models.StatusCanceledByUser)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enrollmentRepository) SetRating(ctx context.Context, termID, userID uint, rating int, feedback *string) error {
	return r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("term_id = ? AND user_id = ? AND status <> ?", termID, userID, models.StatusCanceledByUser).
		Updates(map[string]any{"rating": rating, "feedback": feedback}).Error
}

func (r *enrollmentRepository) MarkAttended(ctx context.Context, termID, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("term_id = ? AND user_id = ? AND status = ?", termID, userID, models.StatusEnrolled).
		Updates(map[string]any{"status": models.StatusAttended, "session_completed": true}).Error
}

func (r *enrollmentRepository) ListEnrolledUserIDs(ctx context.Context, termID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("term_id = ? AND status = ?", termID, models.StatusEnrolled).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *enrollmentRepository) ListEnrolledByTerm(ctx context.Context, termID uint) ([]models.Enrollment, error) {
	var es []models.Enrollment
	err := r.db.WithContext(ctx).
		Where("term_id = ? AND status IN ?", termID, []models.EnrollmentStatus{models.StatusEnrolled, models.StatusAttended}).
		Order("id ASC").
		Find(&es).Error
	if err != nil {
		return nil, err
	}
	return es, nil
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uint) ([]models.Enrollment, error) {
	var es []models.Enrollment
	err := r.db.WithContext(ctx).
		Preload("Term").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&es).Error
	if err != nil {
		return nil, err
	}
	return es, nil
}

func (r *enrollmentRepository) HasEnrolled(ctx context.Context, termID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("term_id = ? AND status = ?", termID, models.StatusEnrolled).
		Count(&count).Error
	return count > 0, err
}

// CountAttendedInRange counts attended sessions whose term started inside
// [from, to); the billing run uses it to price a client's month.
func (r *enrollmentRepository) CountAttendedInRange(ctx context.Context, userID uint, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Joins("JOIN training_terms ON training_terms.id = enrollments.term_id").
		Where("enrollments.user_id = ? AND enrollments.status = ?", userID, models.StatusAttended).
		Where("training_terms.start_at >= ? AND training_terms.start_at < ?", from, to).
		Count(&count).Error
	return count, err
}
