package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/pontaj-api/internal/auth"
	"github.com/pontaj-api/internal/domain"
	"github.com/pontaj-api/internal/dto"
	"github.com/pontaj-api/internal/repository"
	"github.com/pontaj-api/internal/schedule"
	"github.com/pontaj-api/internal/service"
	"github.com/pontaj-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	ownerID = "owner-1"
	bizID   = "biz-1"
)

type fixture struct {
	db        *gorm.DB
	planRepo  repository.PlanRepository
	empRepo   repository.EmployeeRepository
	cellRepo  repository.CellRepository
	bizRepo   repository.BusinessRepository
	employees service.EmployeeService
	plans     service.PlanService
	cells     service.CellService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, ownerID, "owner@example.com")
	testutil.SeedBusiness(t, db, bizID, ownerID)

	f := &fixture{
		db:       db,
		planRepo: repository.NewPlanRepository(db),
		empRepo:  repository.NewEmployeeRepository(db),
		cellRepo: repository.NewCellRepository(db),
		bizRepo:  repository.NewBusinessRepository(db),
	}
	f.employees = service.NewEmployeeService(f.empRepo, f.bizRepo)
	f.plans = service.NewPlanService(f.planRepo, f.empRepo, f.bizRepo, f.cellRepo, testutil.DiscardLogger())
	f.cells = service.NewCellService(f.planRepo, f.empRepo, f.cellRepo)
	return f
}

func strPtr(s string) *string { return &s }

func (f *fixture) hire(t *testing.T, name, start string) *domain.Employee {
	t.Helper()
	req := &dto.CreateEmployeeRequest{FullName: name}
	if start != "" {
		req.StartDate = strPtr(start)
	}
	emp, err := f.employees.Create(context.Background(), ownerID, bizID, req)
	require.NoError(t, err)
	return emp
}

func (f *fixture) fetch(t *testing.T, month, year int) *domain.MonthPlan {
	t.Helper()
	plan, err := f.plans.FetchOrCreate(context.Background(), ownerID, &dto.FetchPlanRequest{
		BusinessID: bizID, Month: month, Year: year,
	})
	require.NoError(t, err)
	return plan
}

func TestAuthService(t *testing.T) {
	db := testutil.NewDB(t)
	svc := service.NewAuthService(repository.NewUserRepository(db), auth.NewTokenIssuer("secret", time.Hour, "pontaj"))
	ctx := context.Background()

	user, err := svc.Register(ctx, &dto.RegisterRequest{Email: " Ana@Example.com ", Password: "parola123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "parola123", user.PasswordHash)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "ana@example.com", Password: "altaparola"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)

	tok, err := svc.Login(ctx, &dto.LoginRequest{Email: "ANA@example.com", Password: "parola123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, tok.UserID)
	assert.NotEmpty(t, tok.Token)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "gresit"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "parola123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestBusinessService(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedUser(t, db, ownerID, "owner@example.com")
	testutil.SeedUser(t, db, "other", "other@example.com")
	svc := service.NewBusinessService(repository.NewBusinessRepository(db))
	ctx := context.Background()

	biz, err := svc.Create(ctx, ownerID, &dto.CreateBusinessRequest{Name: "  Firma  "})
	require.NoError(t, err)
	assert.Equal(t, "Firma", biz.Name)
	assert.Equal(t, domain.DefaultLocationName, biz.LocationName)

	_, err = svc.Create(ctx, ownerID, &dto.CreateBusinessRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	updated, err := svc.Update(ctx, ownerID, biz.ID, &dto.UpdateBusinessRequest{LocationName: strPtr("Petroșani")})
	require.NoError(t, err)
	assert.Equal(t, "Petroșani", updated.LocationName)

	_, err = svc.Update(ctx, "other", biz.ID, &dto.UpdateBusinessRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrBusinessNotFound)

	list, err := svc.List(ctx, ownerID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, svc.Delete(ctx, "other", biz.ID), domain.ErrBusinessNotFound)
	require.NoError(t, svc.Delete(ctx, ownerID, biz.ID))

	list, err = svc.List(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEmployeeService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.hire(t, "Ion", "2025-03-10")

	_, err := f.employees.Update(ctx, ownerID, emp.ID, &dto.UpdateEmployeeRequest{TerminationDate: strPtr("2025-03-01")})
	assert.ErrorIs(t, err, domain.ErrTerminationBeforeStart)

	got, err := f.employees.Update(ctx, ownerID, emp.ID, &dto.UpdateEmployeeRequest{TerminationDate: strPtr("2025-03-10")})
	require.NoError(t, err)
	require.NotNil(t, got.TerminationDate)
	assert.Equal(t, "2025-03-10", *got.TerminationDate)

	got, err = f.employees.Update(ctx, ownerID, emp.ID, &dto.UpdateEmployeeRequest{StartDate: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)

	_, err = f.employees.Update(ctx, "intruder", emp.ID, &dto.UpdateEmployeeRequest{FullName: strPtr("x")})
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestEmployeeService_DeactivateHidesFromList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.hire(t, "A", "2024-01-01")
	f.hire(t, "B", "2024-01-01")

	require.NoError(t, f.employees.Deactivate(ctx, ownerID, a.ID))
	require.NoError(t, f.employees.Deactivate(ctx, ownerID, a.ID))

	list, err := f.employees.List(ctx, ownerID, bizID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].FullName)
}

func TestPlanService_FetchOrCreateGrowsMembership(t *testing.T) {
	f := newFixture(t)
	a := f.hire(t, "A", "2025-01-01")
	b := f.hire(t, "B", "2025-01-01")
	f.hire(t, "D", "2025-04-01")

	plan := f.fetch(t, 3, 2025)
	assert.Equal(t, domain.Membership{a.ID, b.ID}, plan.EmployeeIDs)
	assert.Equal(t, domain.DefaultLocationName, plan.LocationName)

	c := f.hire(t, "C", "2025-02-01")
	again := f.fetch(t, 3, 2025)
	assert.Equal(t, plan.ID, again.ID)
	assert.Equal(t, domain.Membership{a.ID, b.ID, c.ID}, again.EmployeeIDs)
	assert.Greater(t, again.Version, plan.Version)

	// повторный запрос без изменений ничего не меняет
	third := f.fetch(t, 3, 2025)
	assert.Equal(t, again.EmployeeIDs, third.EmployeeIDs)
	assert.Equal(t, again.Version, third.Version)
}

func TestPlanService_FetchOrCreateKeepsDeactivatedMembers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.hire(t, "A", "2024-01-01")
	b := f.hire(t, "B", "2024-01-01")

	f.fetch(t, 5, 2025)
	require.NoError(t, f.employees.Deactivate(ctx, ownerID, a.ID))

	plan := f.fetch(t, 5, 2025)
	assert.Equal(t, domain.Membership{a.ID, b.ID}, plan.EmployeeIDs)

	fresh := f.fetch(t, 6, 2025)
	assert.Equal(t, domain.Membership{b.ID}, fresh.EmployeeIDs)
}

func TestPlanService_FetchOrCreateMalformedStartIsEligible(t *testing.T) {
	f := newFixture(t)
	emp := f.hire(t, "A", "2024-01-01")
	require.NoError(t, f.db.Model(&domain.Employee{}).Where("id = ?", emp.ID).Update("start_date", "bad-date").Error)

	plan := f.fetch(t, 1, 2020)
	assert.Equal(t, domain.Membership{emp.ID}, plan.EmployeeIDs)
}

func TestPlanService_FetchOrCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.plans.FetchOrCreate(ctx, ownerID, &dto.FetchPlanRequest{BusinessID: bizID, Month: 13, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)

	_, err = f.plans.FetchOrCreate(ctx, "intruder", &dto.FetchPlanRequest{BusinessID: bizID, Month: 1, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrBusinessNotFound)
}

// flakyPlanRepo отдаёт конфликт версии на первых вызовах UpdateMembership
type flakyPlanRepo struct {
	repository.PlanRepository
	conflicts int
	calls     int
}

func (r *flakyPlanRepo) UpdateMembership(ctx context.Context, id string, expectedVersion int64, membership domain.Membership) (int64, error) {
	r.calls++
	if r.calls <= r.conflicts {
		return 0, domain.ErrConcurrentUpdate
	}
	return r.PlanRepository.UpdateMembership(ctx, id, expectedVersion, membership)
}

func TestPlanService_FetchOrCreateRetriesOnConflict(t *testing.T) {
	f := newFixture(t)
	a := f.hire(t, "A", "2024-01-01")
	f.fetch(t, 2, 2025)
	b := f.hire(t, "B", "2024-01-01")

	flaky := &flakyPlanRepo{PlanRepository: f.planRepo, conflicts: 2}
	svc := service.NewPlanService(flaky, f.empRepo, f.bizRepo, f.cellRepo, testutil.DiscardLogger())

	plan, err := svc.FetchOrCreate(context.Background(), ownerID, &dto.FetchPlanRequest{BusinessID: bizID, Month: 2, Year: 2025})
	require.NoError(t, err)
	assert.Equal(t, domain.Membership{a.ID, b.ID}, plan.EmployeeIDs)
	assert.Equal(t, 3, flaky.calls)

	f.hire(t, "C", "2024-01-01")
	flaky = &flakyPlanRepo{PlanRepository: f.planRepo, conflicts: 10}
	svc = service.NewPlanService(flaky, f.empRepo, f.bizRepo, f.cellRepo, testutil.DiscardLogger())
	_, err = svc.FetchOrCreate(context.Background(), ownerID, &dto.FetchPlanRequest{BusinessID: bizID, Month: 2, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
}

func TestPlanService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.hire(t, "A", "2024-01-01")
	b := f.hire(t, "B", "2024-01-01")
	plan := f.fetch(t, 4, 2025)

	updated, err := f.plans.Update(ctx, ownerID, plan.ID, &dto.UpdatePlanRequest{
		EmployeeIDs:  []string{b.ID, a.ID},
		LocationName: strPtr("Vulcan"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.Membership{b.ID, a.ID}, updated.EmployeeIDs)
	assert.Equal(t, "Vulcan", updated.LocationName)

	testutil.SeedBusiness(t, f.db, "biz-2", ownerID)
	foreign, err := f.employees.Create(ctx, ownerID, "biz-2", &dto.CreateEmployeeRequest{FullName: "X"})
	require.NoError(t, err)

	_, err = f.plans.Update(ctx, ownerID, plan.ID, &dto.UpdatePlanRequest{EmployeeIDs: []string{a.ID, foreign.ID}})
	assert.ErrorIs(t, err, domain.ErrEmployeeNotInBusiness)

	got, err := f.plans.Get(ctx, ownerID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Membership{b.ID, a.ID}, got.EmployeeIDs)
}

func TestCellService_Upsert(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.hire(t, "A", "2024-01-01")
	plan := f.fetch(t, 2, 2025)

	cells, err := f.cells.Upsert(ctx, ownerID, []dto.CellInput{
		{MonthPlanID: plan.ID, EmployeeID: a.ID, Day: 1, Value: "12"},
		{MonthPlanID: plan.ID, EmployeeID: a.ID, Day: 2, Value: "CO"},
		{MonthPlanID: plan.ID, EmployeeID: a.ID, Day: 1, Value: "8"},
	})
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, "8", cells[0].Code)

	_, err = f.cells.Upsert(ctx, ownerID, []dto.CellInput{{MonthPlanID: plan.ID, EmployeeID: a.ID, Day: 29, Value: "8"}})
	assert.ErrorIs(t, err, domain.ErrInvalidDay)

	_, err = f.cells.Upsert(ctx, ownerID, []dto.CellInput{{MonthPlanID: plan.ID, EmployeeID: a.ID, Day: 3, Value: "D"}})
	assert.ErrorIs(t, err, schedule.ErrDerivedCode)

	_, err = f.cells.Upsert(ctx, ownerID, []dto.CellInput{{MonthPlanID: plan.ID, EmployeeID: a.ID, Day: 3, Value: "abc"}})
	assert.ErrorIs(t, err, schedule.ErrInvalidCode)

	_, err = f.cells.Upsert(ctx, "intruder", []dto.CellInput{{MonthPlanID: plan.ID, EmployeeID: a.ID, Day: 3, Value: "8"}})
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)

	stored, err := f.cellRepo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.Equal(t, "8", stored[0].Code)
	assert.Equal(t, "CO", stored[1].Code)
}

func TestCellService_RejectsForeignEmployee(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.hire(t, "A", "2024-01-01")
	plan := f.fetch(t, 2, 2025)

	testutil.SeedBusiness(t, f.db, "biz-2", ownerID)
	foreign, err := f.employees.Create(ctx, ownerID, "biz-2", &dto.CreateEmployeeRequest{FullName: "X"})
	require.NoError(t, err)

	_, err = f.cells.Upsert(ctx, ownerID, []dto.CellInput{{MonthPlanID: plan.ID, EmployeeID: foreign.ID, Day: 1, Value: "8"}})
	assert.ErrorIs(t, err, domain.ErrEmployeeNotInBusiness)

	_, err = f.cells.Upsert(ctx, ownerID, []dto.CellInput{{MonthPlanID: plan.ID, EmployeeID: "missing", Day: 1, Value: "8"}})
	assert.ErrorIs(t, err, domain.ErrEmployeeNotFound)
}

func TestPlanService_SetResignationAndGrid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.hire(t, "A", "2024-01-01")
	b := f.hire(t, "B", "2024-01-01")
	plan := f.fetch(t, 3, 2025)

	inputs := make([]dto.CellInput, 0, 31)
	for day := 1; day <= 20; day++ {
		inputs = append(inputs, dto.CellInput{MonthPlanID: plan.ID, EmployeeID: a.ID, Day: day, Value: "12"})
	}
	inputs = append(inputs,
		dto.CellInput{MonthPlanID: plan.ID, EmployeeID: b.ID, Day: 7, Value: "CO"},
		dto.CellInput{MonthPlanID: plan.ID, EmployeeID: b.ID, Day: 3, Value: "CO"},
		dto.CellInput{MonthPlanID: plan.ID, EmployeeID: b.ID, Day: 4, Value: "CM"},
	)
	_, err := f.cells.Upsert(ctx, ownerID, inputs)
	require.NoError(t, err)

	emp, err := f.plans.SetResignation(ctx, ownerID, plan.ID, a.ID, &dto.ResignationRequest{TerminationDate: strPtr("2025-03-15")})
	require.NoError(t, err)
	require.NotNil(t, emp.TerminationDate)

	stored, err := f.cellRepo.ListByPlan(ctx, plan.ID)
	require.NoError(t, err)
	for _, c := range stored {
		if c.EmployeeID == a.ID && c.Day >= 15 {
			assert.Empty(t, c.Code, "day %d", c.Day)
		}
	}

	pg, err := f.plans.Grid(ctx, ownerID, plan.ID)
	require.NoError(t, err)
	g := pg.Grid
	assert.Equal(t, 31, g.Days)
	require.Len(t, g.Rows, 2)

	rowA := g.Rows[0]
	assert.Equal(t, a.ID, rowA.EmployeeID)
	assert.Equal(t, schedule.StatusResignedThisMonth, rowA.Status)
	assert.Equal(t, 14*12, rowA.TotalHours)
	assert.Equal(t, "D", rowA.Cells[14].Code)
	assert.Equal(t, schedule.SourceDerived, rowA.Cells[14].Source)

	rowB := g.Rows[1]
	assert.Equal(t, 2, rowB.LeaveDays[schedule.CodeCO])
	assert.Equal(t, 1, rowB.LeaveDays[schedule.CodeCM])

	require.Len(t, g.Footnotes.Leave, 2)
	assert.Equal(t, []int{3, 7}, g.Footnotes.Leave[0].Days)
	require.Len(t, g.Footnotes.Resignations, 1)
	assert.Equal(t, "2025-03-15", g.Footnotes.Resignations[0].TerminationDate)

	_, err = f.plans.SetResignation(ctx, ownerID, plan.ID, b.ID, &dto.ResignationRequest{TerminationDate: strPtr("2023-12-31")})
	assert.ErrorIs(t, err, domain.ErrTerminationBeforeStart)

	emp, err = f.plans.SetResignation(ctx, ownerID, plan.ID, a.ID, &dto.ResignationRequest{})
	require.NoError(t, err)
	assert.Nil(t, emp.TerminationDate)
}

func TestEmployeeService_DeletePermanentlyStripsMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.hire(t, "A", "2024-01-01")
	b := f.hire(t, "B", "2024-01-01")
	plan := f.fetch(t, 1, 2025)

	_, err := f.cells.Upsert(ctx, ownerID, []dto.CellInput{{MonthPlanID: plan.ID, EmployeeID: a.ID, Day: 1, Value: "8"}})
	require.NoError(t, err)

	assert.ErrorIs(t, f.employees.DeletePermanently(ctx, ownerID, "biz-x", a.ID), domain.ErrEmployeeNotFound)
	require.NoError(t, f.employees.DeletePermanently(ctx, ownerID, bizID, a.ID))

	got, err := f.plans.Get(ctx, ownerID, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Membership{b.ID}, got.EmployeeIDs)
	assert.Empty(t, got.Cells)
}

func TestPlanService_FetchOrCreateCorruptMembershipIsNotOverwritten(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.hire(t, "A", "2024-01-01")
	b := f.hire(t, "B", "2024-01-01")
	plan := f.fetch(t, 5, 2025)
	require.NoError(t, f.employees.Deactivate(ctx, ownerID, a.ID))

	corrupt := `["` + a.ID + `","` + b.ID
	require.NoError(t, f.db.Model(&domain.MonthPlan{}).Where("id = ?", plan.ID).Update("employee_ids", corrupt).Error)

	_, err := f.plans.FetchOrCreate(ctx, ownerID, &dto.FetchPlanRequest{BusinessID: bizID, Month: 5, Year: 2025})
	assert.ErrorIs(t, err, domain.ErrCorruptMembership)

	var stored string
	require.NoError(t, f.db.Model(&domain.MonthPlan{}).Select("employee_ids").Where("id = ?", plan.ID).Scan(&stored).Error)
	assert.Equal(t, corrupt, stored)

	_, err = f.plans.Grid(ctx, ownerID, plan.ID)
	assert.ErrorIs(t, err, domain.ErrCorruptMembership)
}

func TestEmployeeService_MalformedStoredStartDoesNotBlockUpdates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.hire(t, "Ion", "2024-01-01")
	plan := f.fetch(t, 3, 2025)
	require.NoError(t, f.db.Model(&domain.Employee{}).Where("id = ?", emp.ID).Update("start_date", "01/02/2024").Error)

	got, err := f.employees.Update(ctx, ownerID, emp.ID, &dto.UpdateEmployeeRequest{FullName: strPtr("Ion Popescu")})
	require.NoError(t, err)
	assert.Equal(t, "Ion Popescu", got.FullName)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "01/02/2024", *got.StartDate)

	resigned, err := f.plans.SetResignation(ctx, ownerID, plan.ID, emp.ID, &dto.ResignationRequest{TerminationDate: strPtr("2025-03-20")})
	require.NoError(t, err)
	require.NotNil(t, resigned.TerminationDate)
	assert.Equal(t, "2025-03-20", *resigned.TerminationDate)

	_, err = f.employees.Update(ctx, ownerID, emp.ID, &dto.UpdateEmployeeRequest{StartDate: strPtr("bad")})
	assert.ErrorIs(t, err, schedule.ErrInvalidDateFormat)

	_, err = f.employees.Update(ctx, ownerID, emp.ID, &dto.UpdateEmployeeRequest{StartDate: strPtr("2025-04-01")})
	assert.ErrorIs(t, err, domain.ErrTerminationBeforeStart)
}
