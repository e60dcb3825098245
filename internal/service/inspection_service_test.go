package service_test

import (
	"context"
	"testing"

	"avyyan/internal/dto"
	"avyyan/internal/model"
	"avyyan/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inspectionFixture struct {
	*allotmentFixture
	svc         service.InspectionService
	inspections *stubInspectionRepo
	allotment   *model.ProductionAllotment
}

// newInspectionFixture allots 50 kg at 20 kg/roll: two whole rolls plus a partial one.
func newInspectionFixture(t *testing.T) *inspectionFixture {
	t.Helper()
	email := "sales1@avyyan.in"
	af := newAllotmentFixture(t, model.OrderConfirmed)
	af.owner.Email = &email

	req := af.request()
	req.ActualQuantity = decimal.NewFromInt(50)
	created, err := af.svc.Create(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	a, err := af.allotments.FindByID(context.Background(), uuid.MustParse(created.ID))
	require.NoError(t, err)

	users := newStubUserRepo(af.owner)
	notifications := service.NewNotificationService(af.notifications, users, af.dispatcher)
	inspections := &stubInspectionRepo{}
	return &inspectionFixture{
		allotmentFixture: af,
		svc:              service.NewInspectionService(inspections, af.allotments, af.orders, notifications),
		inspections:      inspections,
		allotment:        a,
	}
}

func (f *inspectionFixture) record(t *testing.T, roll, defects int) (*dto.InspectionResponse, error) {
	t.Helper()
	return f.svc.Record(context.Background(), uuid.New(), dto.RecordInspectionRequest{
		AllotmentID:  f.allotment.ID.String(),
		RollNumber:   roll,
		WeightKg:     decimal.NewFromInt(20),
		AreaSqm:      decimal.NewFromInt(100),
		DefectPoints: defects,
	})
}

func TestInspection_Grades(t *testing.T) {
	f := newInspectionFixture(t)

	a, err := f.record(t, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "A", a.Grade)
	assert.Equal(t, model.InspectionPassed, a.Status)

	c, err := f.record(t, 3, 41)
	require.NoError(t, err)
	assert.Equal(t, "C", c.Grade)
	assert.Equal(t, model.InspectionRejected, c.Status)
	assert.True(t, c.PointsPer100.Equal(decimal.NewFromInt(41)))

	assert.Equal(t, model.AllotmentRunning, f.allotment.Status)
}

func TestInspection_DuplicateRoll(t *testing.T) {
	f := newInspectionFixture(t)

	_, err := f.record(t, 1, 0)
	require.NoError(t, err)
	_, err = f.record(t, 1, 0)
	assert.ErrorIs(t, err, service.ErrConflict)
}

func TestInspection_RollOutOfRange(t *testing.T) {
	f := newInspectionFixture(t)

	_, err := f.record(t, 4, 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestInspection_CompletionMarksDoneAndNotifies(t *testing.T) {
	f := newInspectionFixture(t)
	before := len(f.notifications.forUser(f.owner.ID))

	_, err := f.record(t, 1, 10)
	require.NoError(t, err)
	assert.NotEqual(t, model.AllotmentDone, f.allotment.Status)

	_, err = f.record(t, 2, 30)
	require.NoError(t, err)
	assert.Equal(t, model.AllotmentDone, f.allotment.Status)

	owned := f.notifications.forUser(f.owner.ID)
	require.Len(t, owned, before+1)
	last := owned[len(owned)-1]
	assert.Equal(t, model.KindInspection, last.Kind)
	assert.Equal(t, model.EmailPending, last.EmailStatus)
	assert.Len(t, f.dispatcher.emails, 1)

	_, err = f.record(t, 3, 0)
	assert.ErrorIs(t, err, service.ErrInvalidState, "done allotments take no more inspections")
}

func TestInspection_Summary(t *testing.T) {
	f := newInspectionFixture(t)
	_, err := f.record(t, 1, 10)
	require.NoError(t, err)
	_, err = f.record(t, 3, 50)
	require.NoError(t, err)

	sum, err := f.svc.Summary(context.Background(), f.allotment.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.ExpectedRolls)
	assert.Equal(t, 2, sum.RollsInspected)
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 1, sum.Rejected)
	assert.True(t, sum.TotalWeightKg.Equal(decimal.NewFromInt(40)))
	assert.False(t, sum.Complete)

	list, err := f.svc.ListByAllotment(context.Background(), f.allotment.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].RollNumber)
}
