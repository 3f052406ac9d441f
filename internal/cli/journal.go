package cli

import (
	"context"
	"fmt"

	"github.com/Collaborne/task-scheduler/internal/db"
	"github.com/Collaborne/task-scheduler/internal/events"
)

// journal pairs a publisher with the database it records into. repo is
// nil when the journal is disabled.
type journal struct {
	publisher *events.InMemoryPublisher
	database  *db.DB
	repo      *db.EventRepository
	maxEvents int
}

func (a *app) openDatabase(ctx context.Context) (*db.DB, error) {
	if err := a.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	database, err := db.Open(db.Config{
		Path:           a.cfg.DatabasePath(),
		MaxConnections: a.cfg.Database.MaxConnections,
		BusyTimeoutMs:  a.cfg.Database.BusyTimeoutMs,
	})
	if err != nil {
		return nil, err
	}
	applied, err := database.MigrateUp(ctx)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	if applied > 0 {
		a.logger.Debug().Int("migrations", applied).Str("path", database.Path()).Msg("journal schema updated")
	}
	return database, nil
}

// openJournal returns a publisher that records events when the journal is enabled.
func (a *app) openJournal(ctx context.Context) (*journal, error) {
	j := &journal{maxEvents: a.cfg.Journal.MaxEvents}
	if !a.cfg.Journal.Enabled {
		j.publisher = events.NewInMemoryPublisher()
		return j, nil
	}
	database, err := a.openDatabase(ctx)
	if err != nil {
		return nil, err
	}
	j.database = database
	j.repo = db.NewEventRepository(database)
	j.publisher = events.NewInMemoryPublisher(events.WithRepository(j.repo))
	return j, nil
}

// Close trims the journal to its configured size and closes the database.
func (j *journal) Close(ctx context.Context) error {
	j.publisher.Close()
	if j.database == nil {
		return nil
	}
	defer j.database.Close()
	if j.maxEvents > 0 {
		if _, err := j.repo.DeleteExcess(ctx, j.maxEvents); err != nil {
			return fmt.Errorf("trim journal: %w", err)
		}
	}
	return nil
}
