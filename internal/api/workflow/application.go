package workflow

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/albaworks/albawork-be/internal/api/domain"
	"github.com/albaworks/albawork-be/internal/api/model"
	"github.com/google/uuid"
)

// SubmitApplication creates a pending application for the job. The duplicate
// check and the insert run in one transaction; the partial unique index on
// (job_id, user_email) backstops concurrent submissions.
func (w *Workflow) SubmitApplication(ctx context.Context, jobID, userEmail string) (*model.Application, error) {
	user, err := w.store.GetUserByEmail(ctx, userEmail)
	if err != nil {
		return nil, err
	}

	job, err := w.store.GetJobPosting(ctx, jobID)
	if err != nil {
		return nil, err
	}

	tx, err := w.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	exists, err := w.store.HasActiveApplication(ctx, tx, jobID, userEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflict("application for job %s by %s already exists", jobID, userEmail)
	}

	now := w.now()
	startDate := job.StartDate
	if startDate.IsZero() {
		// A posting without dates starts today.
		startDate = domain.DateOnly(now, w.loc)
	}
	endDate := job.EndDate
	if endDate.IsZero() {
		endDate = startDate
	}

	app := &model.Application{
		ApplicationID: uuid.New().String(),
		UserID:        user.UserID,
		UserEmail:     user.Email,
		JobID:         job.JobID,
		JobTitle:      job.Title,
		Wage:          job.Wage,
		StartDate:     startDate,
		EndDate:       endDate,
		Status:        domain.ApplicationStatusPending,
		AppliedAt:     now,
	}

	if err := w.store.InsertApplication(ctx, tx, app); err != nil {
		return nil, err
	}

	// Admin email goes through the outbox so a flaky mail provider cannot
	// fail the application write.
	event, err := w.newOutboxEvent(domain.EventApplicationSubmitted, ApplicationSubmittedPayload{
		ApplicationID: app.ApplicationID,
		JobID:         job.JobID,
		JobTitle:      job.Title,
		UserID:        user.UserID,
		UserEmail:     user.Email,
		UserName:      user.Name,
	})
	if err != nil {
		return nil, err
	}
	if err := w.store.InsertOutboxEvent(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit application: %w", err)
	}

	w.logger.Info("Application submitted",
		slog.String("application_id", app.ApplicationID),
		slog.String("job_id", jobID),
		slog.String("user_email", userEmail),
	)

	return app, nil
}

// ApproveApplication transitions a pending application to approved,
// materializes the schedule, and records the user-facing notification, all
// in one transaction. Chat-room enrollment runs after commit and is
// best-effort.
func (w *Workflow) ApproveApplication(ctx context.Context, applicationID string) (*model.Application, error) {
	tx, err := w.store.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	app, err := w.store.GetApplicationForUpdate(ctx, tx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, domain.Conflict("application %s already %s", applicationID, app.Status)
	}

	job, err := w.store.GetJobPosting(ctx, app.JobID)
	if err != nil {
		return nil, err
	}

	if job.Wage <= 0 {
		return nil, domain.InvalidData("job %s has invalid wage %d", job.JobID, job.Wage)
	}
	dayCount := domain.DayCountInclusive(job.StartDate, job.EndDate, w.loc)
	if dayCount == 0 {
		return nil, domain.InvalidData("job %s has end date before start date", job.JobID)
	}
	totalWage := job.Wage * int64(dayCount)

	now := w.now()

	// Conditional write: only a pending application transitions, so a
	// concurrent approval cannot double-create the schedule.
	if err := w.store.TransitionApplication(ctx, tx, applicationID, domain.ApplicationStatusApproved, now, totalWage); err != nil {
		return nil, err
	}

	sched := &model.Schedule{
		ScheduleID: uuid.New().String(),
		UserID:     app.UserID,
		UserEmail:  app.UserEmail,
		JobID:      job.JobID,
		Title:      job.Title,
		Location:   job.Location,
		TotalWage:  totalWage,
		StartDate:  job.StartDate,
		EndDate:    job.EndDate,
		CreatedAt:  now,
	}
	if err := w.store.InsertSchedule(ctx, tx, sched); err != nil {
		return nil, err
	}

	notification := &model.Notification{
		NotificationID: uuid.New().String(),
		Kind:           domain.NotificationKindPersonal,
		UserID:         sql.NullString{String: app.UserID, Valid: true},
		Title:          "Application approved",
		Message:        fmt.Sprintf("Your application for %q was approved. Total wage: %d", job.Title, totalWage),
		CreatedAt:      now,
	}
	if err := w.store.InsertNotification(ctx, tx, notification); err != nil {
		return nil, err
	}

	event, err := w.newOutboxEvent(domain.EventApplicationApproved, ApplicationApprovedPayload{
		ApplicationID: applicationID,
		JobTitle:      job.Title,
		UserID:        app.UserID,
		UserEmail:     app.UserEmail,
		TotalWage:     totalWage,
	})
	if err != nil {
		return nil, err
	}
	if err := w.store.InsertOutboxEvent(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	w.logger.Info("Application approved",
		slog.String("application_id", applicationID),
		slog.String("job_id", job.JobID),
		slog.Int64("total_wage", totalWage),
	)

	// A missing notice room or a failed enrollment must not undo the
	// approval; log and continue.
	w.enrollInNoticeRoom(ctx, job.JobID, app.UserID, app.UserEmail)

	app.Status = domain.ApplicationStatusApproved
	app.ApprovedAt = sql.NullTime{Time: now, Valid: true}
	app.TotalWage = sql.NullInt64{Int64: totalWage, Valid: true}
	return app, nil
}

// enrollInNoticeRoom adds the user to the job's notice room and posts a
// system join message. Best-effort by design of the approval flow.
func (w *Workflow) enrollInNoticeRoom(ctx context.Context, jobID, userID, userEmail string) {
	room, found, err := w.store.FindNoticeRoomByJob(ctx, jobID)
	if err != nil {
		w.logger.Warn("Failed to look up notice room",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
		return
	}
	if !found {
		w.logger.Warn("No notice room for job, skipping enrollment",
			slog.String("job_id", jobID),
		)
		return
	}

	added, err := w.store.AddParticipant(ctx, room.RoomID, userID)
	if err != nil {
		w.logger.Warn("Failed to enroll user in notice room",
			slog.String("room_id", room.RoomID),
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		return
	}
	if !added {
		// Already a participant; enrollment is idempotent.
		return
	}

	msg := &model.ChatMessage{
		MessageID: uuid.New().String(),
		RoomID:    room.RoomID,
		SenderID:  "system",
		Body:      fmt.Sprintf("%s joined the room", userEmail),
		IsSystem:  true,
		CreatedAt: w.now(),
	}
	if err := w.store.InsertChatMessage(ctx, msg); err != nil {
		w.logger.Warn("Failed to post join message",
			slog.String("room_id", room.RoomID),
			slog.String("error", err.Error()),
		)
	}
}

// RejectApplication transitions a pending application to rejected. The
// record is kept for the audit trail, never deleted.
func (w *Workflow) RejectApplication(ctx context.Context, applicationID string) error {
	if _, err := w.store.GetApplication(ctx, applicationID); err != nil {
		return err
	}

	if err := w.store.TransitionApplication(ctx, w.store.DB(), applicationID, domain.ApplicationStatusRejected, w.now(), 0); err != nil {
		return err
	}

	w.logger.Info("Application rejected",
		slog.String("application_id", applicationID),
	)

	return nil
}
