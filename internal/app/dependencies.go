package app

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/barkeep/barkeep/internal/config"
	"github.com/barkeep/barkeep/internal/event_bus"
	"github.com/barkeep/barkeep/internal/utils"
	"github.com/barkeep/barkeep/pkg/calendar"
	"github.com/barkeep/barkeep/pkg/payroll"
	"github.com/barkeep/barkeep/pkg/purchase"
	"github.com/barkeep/barkeep/pkg/settings"
	"github.com/barkeep/barkeep/pkg/staff"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus

	SettingsRepo    settings.Repository
	SettingsService *settings.Service
	SettingsHandler *settings.Handler

	CalendarResolver   *calendar.Resolver
	CalendarRepository *calendar.RepositoryImpl
	CalendarService    *calendar.Service
	CalendarHandler    *calendar.Handler

	StaffRepo    staff.Repository
	StaffService *staff.Service
	StaffHandler *staff.Handler

	PayrollService *payroll.Service
	PayrollHandler *payroll.Handler

	PurchaseRepo    purchase.Repository
	PurchaseService *purchase.Service
	PurchaseHandler *purchase.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	deps.Clock = &utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.SettingsRepo = settings.NewRepository(db)
	deps.SettingsService = settings.NewService(deps.SettingsRepo)
	deps.SettingsHandler = settings.NewHandler(deps.SettingsService)

	deps.CalendarResolver = calendar.NewResolver(loc)
	deps.CalendarRepository = calendar.NewRepository(db)
	expander := calendar.NewExpander(deps.CalendarResolver)
	aggregator := calendar.NewAggregator(deps.CalendarResolver, expander)
	selector := calendar.NewSelector(
		calendar.DefaultEventCategories(),
		calendar.Limits{Events: cfg.Calendar.MaxEventsPerDay, Announcements: cfg.Calendar.MaxNoticesPerDay},
		calendar.Limits{Events: cfg.Calendar.MaxEventsPerMonthCell, Announcements: cfg.Calendar.MaxNoticesPerMonthCell},
	)
	committer := calendar.NewCommitter(deps.CalendarResolver, deps.CalendarRepository, deps.EventBus)
	deps.CalendarService = calendar.NewService(deps.CalendarRepository, deps.SettingsService,
		deps.CalendarResolver, aggregator, selector, committer)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	deps.StaffRepo = staff.NewRepository(db)
	deps.StaffService = staff.NewService(deps.StaffRepo)
	deps.StaffHandler = staff.NewHandler(deps.StaffService)

	deps.PayrollService = payroll.NewService(deps.StaffService)
	deps.PayrollHandler = payroll.NewHandler(deps.PayrollService)

	deps.PurchaseRepo = purchase.NewRepository(db)
	deps.PurchaseService = purchase.NewService(deps.PurchaseRepo, deps.Clock)
	deps.PurchaseHandler = purchase.NewHandler(deps.PurchaseService)

	return deps, nil
}
