//go:build integration

package integration

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/service"
)

// Test: 15 clients book a 10-seat group term concurrently
// → exactly 10 enrolled, 5 rejected with FULL, counter never overshoots
func TestConcurrentBooking(t *testing.T) {
	cleanTables()
	trainer := createTrainer(t, "trainer@vezba.local")
	term := createGroupTerm(t, trainer.ID, 10, time.Now().Add(2*time.Hour))
	svc := newBookingService()

	totalClients := 15
	clients := make([]*models.User, totalClients)
	for i := 0; i < totalClients; i++ {
		clients[i] = createClient(t, fmt.Sprintf("client-%03d@vezba.local", i), trainer.ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, totalClients)

	wg.Add(totalClients)
	for i := 0; i < totalClients; i++ {
		go func(idx int) {
			defer wg.Done()
			if _, err := svc.BookTerm(t.Context(), clients[idx].ID, term.ID); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	full := 0
	for err := range errs {
		assert.ErrorIs(t, err, service.ErrTermFull)
		full++
	}
	assert.Equal(t, 5, full, "exactly 5 clients should be rejected with FULL")

	var enrolled int64
	testDB.Model(&models.Enrollment{}).
		Where("term_id = ? AND status = ?", term.ID, models.StatusEnrolled).
		Count(&enrolled)
	assert.Equal(t, int64(10), enrolled)

	var reloaded models.TrainingTerm
	require.NoError(t, testDB.First(&reloaded, term.ID).Error)
	assert.Equal(t, 10, reloaded.EnrolledCount, "counter must equal capacity, never overshoot")
}

// Test: same client books twice concurrently → only one enrollment survives
func TestConcurrentDoubleBooking(t *testing.T) {
	cleanTables()
	trainer := createTrainer(t, "trainer@vezba.local")
	client := createClient(t, "client@vezba.local", trainer.ID)
	term := createGroupTerm(t, trainer.ID, 10, time.Now().Add(2*time.Hour))
	svc := newBookingService()

	attempts := 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if _, err := svc.BookTerm(t.Context(), client.ID, term.ID); err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, "only one concurrent booking should succeed for same client")

	var active int64
	testDB.Model(&models.Enrollment{}).
		Where("term_id = ? AND user_id = ? AND status <> ?", term.ID, client.ID, models.StatusCanceledByUser).
		Count(&active)
	assert.Equal(t, int64(1), active, "DB should have exactly 1 active enrollment")
}

// Test: racing cancels of the same enrollment decrement the counter once
func TestConcurrentCancelDecrementsOnce(t *testing.T) {
	cleanTables()
	trainer := createTrainer(t, "trainer@vezba.local")
	canceling := createClient(t, "canceling@vezba.local", trainer.ID)
	staying := createClient(t, "staying@vezba.local", trainer.ID)
	term := createGroupTerm(t, trainer.ID, 2, time.Now().Add(3*time.Hour))
	svc := newBookingService()

	_, err := svc.BookTerm(t.Context(), canceling.ID, term.ID)
	require.NoError(t, err)
	_, err = svc.BookTerm(t.Context(), staying.ID, term.ID)
	require.NoError(t, err)

	attempts := 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()
			if err := svc.CancelBooking(t.Context(), canceling.ID, term.ID); err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successCount, "only one racing cancel should succeed")

	var reloaded models.TrainingTerm
	require.NoError(t, testDB.First(&reloaded, term.ID).Error)
	assert.Equal(t, 1, reloaded.EnrolledCount, "counter must match the one remaining enrollment")

	var enrolled int64
	testDB.Model(&models.Enrollment{}).
		Where("term_id = ? AND status = ?", term.ID, models.StatusEnrolled).
		Count(&enrolled)
	assert.Equal(t, int64(1), enrolled)
}

// Test: cancel frees the seat for the next client
func TestCancelFreesSeat(t *testing.T) {
	cleanTables()
	trainer := createTrainer(t, "trainer@vezba.local")
	first := createClient(t, "first@vezba.local", trainer.ID)
	second := createClient(t, "second@vezba.local", trainer.ID)
	term := createGroupTerm(t, trainer.ID, 2, time.Now().Add(3*time.Hour))
	svc := newBookingService()

	_, err := svc.BookTerm(t.Context(), first.ID, term.ID)
	require.NoError(t, err)

	// Fill the second seat so the term is at capacity.
	filler := createClient(t, "filler@vezba.local", trainer.ID)
	_, err = svc.BookTerm(t.Context(), filler.ID, term.ID)
	require.NoError(t, err)

	_, err = svc.BookTerm(t.Context(), second.ID, term.ID)
	assert.ErrorIs(t, err, service.ErrTermFull)

	require.NoError(t, svc.CancelBooking(t.Context(), first.ID, term.ID))

	_, err = svc.BookTerm(t.Context(), second.ID, term.ID)
	assert.NoError(t, err)

	var reloaded models.TrainingTerm
	require.NoError(t, testDB.First(&reloaded, term.ID).Error)
	assert.Equal(t, 2, reloaded.EnrolledCount)
}

// Test: rebooking after a cancel reuses the original row, racing rebookings
// cannot slip past the partial unique index
func TestRebookAfterCancel(t *testing.T) {
	cleanTables()
	trainer := createTrainer(t, "trainer@vezba.local")
	client := createClient(t, "client@vezba.local", trainer.ID)
	term := createGroupTerm(t, trainer.ID, 5, time.Now().Add(3*time.Hour))
	svc := newBookingService()

	booked, err := svc.BookTerm(t.Context(), client.ID, term.ID)
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(t.Context(), client.ID, term.ID))

	rebooked, err := svc.BookTerm(t.Context(), client.ID, term.ID)
	require.NoError(t, err)
	assert.Equal(t, booked.ID, rebooked.ID, "rebooking should reactivate the canceled row")

	var rows int64
	testDB.Model(&models.Enrollment{}).
		Where("term_id = ? AND user_id = ?", term.ID, client.ID).
		Count(&rows)
	assert.Equal(t, int64(1), rows)
}
