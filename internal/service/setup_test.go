package service

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/repository"
	"github.com/vezba/fitness-backend/pkg/cache"
	"github.com/vezba/fitness-backend/pkg/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// fakeNotifier records every queued message and can be told to fail, which
// the workflows must tolerate without failing the primary operation.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

type sentMail struct {
	kind string
	to   string
	code string
}

func (f *fakeNotifier) record(kind, to, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, sentMail{kind: kind, to: to, code: code})
	return nil
}

func (f *fakeNotifier) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, m := range f.sent {
		if m.kind == kind {
			n++
		}
	}
	return n
}

func (f *fakeNotifier) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.sent) - 1; i >= 0; i-- {
		if f.sent[i].kind == "otp" {
			return f.sent[i].code
		}
	}
	return ""
}

func (f *fakeNotifier) TrainerBooked(trainerEmail, programTitle string, startAt time.Time, clientName string) error {
	return f.record("trainer_booked", trainerEmail, "")
}
func (f *fakeNotifier) TrainerCanceledByClient(trainerEmail, programTitle string, startAt time.Time, clientName string) error {
	return f.record("trainer_canceled_by_client", trainerEmail, "")
}
func (f *fakeNotifier) ClientTermCanceled(clientEmail, trainerName, programTitle string, startAt time.Time) error {
	return f.record("term_canceled", clientEmail, "")
}
func (f *fakeNotifier) OTPCode(email, code string) error {
	return f.record("otp", email, code)
}
func (f *fakeNotifier) InvoiceIssued(email, number, month string, amount float64) error {
	return f.record("invoice", email, "")
}

type testEnv struct {
	db       *gorm.DB
	notifier *fakeNotifier

	termRepo    repository.TermRepository
	enrollRepo  repository.EnrollmentRepository
	userRepo    repository.UserRepository
	programRepo repository.ProgramRepository
	invoiceRepo repository.InvoiceRepository

	booking  BookingService
	schedule ScheduleService
	auth     AuthService
	programs ProgramService
	billing  BillingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)

	notifier := &fakeNotifier{}
	auditor := NewAuditor(repository.NewAuditRepository(db))

	termRepo := repository.NewTermRepository(db)
	enrollRepo := repository.NewEnrollmentRepository(db)
	userRepo := repository.NewUserRepository(db)
	programRepo := repository.NewProgramRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)

	return &testEnv{
		db:          db,
		notifier:    notifier,
		termRepo:    termRepo,
		enrollRepo:  enrollRepo,
		userRepo:    userRepo,
		programRepo: programRepo,
		invoiceRepo: invoiceRepo,
		booking:     NewBookingService(termRepo, enrollRepo, userRepo, notifier, auditor, cache.Noop{}),
		schedule:    NewScheduleService(termRepo, enrollRepo, userRepo, programRepo, notifier, auditor, cache.Noop{}),
		auth:        NewAuthService(userRepo, challengeRepo, notifier, auditor, []byte("test-secret")),
		programs:    NewProgramService(programRepo, termRepo),
		billing:     NewBillingService(userRepo, enrollRepo, invoiceRepo, notifier, auditor, 20),
	}
}

func (e *testEnv) createTrainer(t *testing.T, email string) *models.User {
	t.Helper()
	trainer := &models.User{
		FirstName:    "Teo",
		LastName:     "Trener",
		Email:        email,
		PasswordHash: "x",
		Role:         models.RoleTrainer,
	}
	require.NoError(t, e.db.Create(trainer).Error)
	return trainer
}

func (e *testEnv) createClient(t *testing.T, email string, trainerID *uint) *models.User {
	t.Helper()
	client := &models.User{
		FirstName:         "Klara",
		LastName:          "Klijent",
		Email:             email,
		PasswordHash:      "x",
		Role:              models.RoleClient,
		AssignedTrainerID: trainerID,
	}
	require.NoError(t, e.db.Create(client).Error)
	return client
}

func (e *testEnv) createTerm(t *testing.T, trainerID uint, capacity int, startAt time.Time) *models.TrainingTerm {
	t.Helper()
	termType := models.TermGroup
	if capacity == 1 {
		termType = models.TermIndividual
	}
	term := &models.TrainingTerm{
		TrainerID:   trainerID,
		Type:        termType,
		StartAt:     startAt,
		DurationMin: 60,
		Capacity:    capacity,
	}
	require.NoError(t, e.db.Create(term).Error)
	return term
}

func (e *testEnv) reloadTerm(t *testing.T, id uint) *models.TrainingTerm {
	t.Helper()
	var term models.TrainingTerm
	require.NoError(t, e.db.First(&term, id).Error)
	return &term
}
