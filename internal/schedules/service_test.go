package schedules_test

import (
	"testing"
	"time"

	"hoops_signup/internal/apperr"
	"hoops_signup/internal/models"
	"hoops_signup/internal/schedules"
	"hoops_signup/internal/store"
	"hoops_signup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*schedules.Service, *store.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	st := store.New(db)
	svc := schedules.NewService(st, zap.NewNop()).WithClock(func() time.Time { return testutil.Base })
	return svc, st, testutil.NewFixtures(t, db)
}

func intp(v int) *int       { return &v }
func boolp(v bool) *bool    { return &v }
func strp(v string) *string { return &v }

func TestCreate_WeeklyRecurrences(t *testing.T) {
	svc, st, fx := setup(t)
	ctx := testutil.TestContext(t)

	prev := fx.CreateSchedule(10)
	start := testutil.Base.Add(48 * time.Hour)

	created, err := svc.Create(ctx, schedules.CreateInput{
		Title:       "  Thursday Run ",
		Date:        start,
		Active:      true,
		RepeatWeeks: 3,
	})
	require.NoError(t, err)
	require.Len(t, created, 3)
	for i, s := range created {
		assert.Equal(t, "Thursday Run", s.Title)
		assert.Equal(t, models.DefaultLimit, s.Limit)
		assert.True(t, s.Date.Equal(start.AddDate(0, 0, 7*i)))
		assert.Equal(t, i == 0, s.Active)
	}

	got, err := st.GetSchedule(ctx, prev.ID)
	require.NoError(t, err)
	assert.False(t, got.Active, "previous active schedule is deactivated")

	active, err := st.ActiveSchedule(ctx)
	require.NoError(t, err)
	assert.Equal(t, created[0].ID, active.ID)
}

func TestCreate_ClampsRepeatWeeks(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := testutil.TestContext(t)

	created, err := svc.Create(ctx, schedules.CreateInput{Title: "x", Date: testutil.Base, RepeatWeeks: 0})
	require.NoError(t, err)
	assert.Len(t, created, 1)

	created, err = svc.Create(ctx, schedules.CreateInput{Title: "x", Date: testutil.Base, RepeatWeeks: 400, Limit: intp(8)})
	require.NoError(t, err)
	assert.Len(t, created, 52)
	assert.Equal(t, 8, created[51].Limit)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := testutil.TestContext(t)

	_, err := svc.Create(ctx, schedules.CreateInput{Title: " ", Date: testutil.Base})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Create(ctx, schedules.CreateInput{Title: "x"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = svc.Create(ctx, schedules.CreateInput{Title: "x", Date: testutil.Base, Limit: intp(-1)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreate_EnrollsMembers(t *testing.T) {
	svc, st, fx := setup(t)
	ctx := testutil.TestContext(t)

	player := fx.CreateMember("pat", "player")
	admin := fx.CreateMember("ada", "admin")
	fx.CreateUser("drop-in", "")

	created, err := svc.Create(ctx, schedules.CreateInput{Title: "Run", Date: testutil.Base, Active: true, RepeatWeeks: 2})
	require.NoError(t, err)

	signups, err := st.ListSignUps(ctx, created[0].ID)
	require.NoError(t, err)
	require.Len(t, signups, 2)
	assert.Equal(t, admin.ID, signups[0].UserID)
	assert.Equal(t, 1, signups[0].Position)
	assert.Equal(t, player.ID, signups[1].UserID)
	assert.Equal(t, 2, signups[1].Position)

	later, err := st.ListSignUps(ctx, created[1].ID)
	require.NoError(t, err)
	assert.Empty(t, later, "only the active schedule is auto-enrolled")
}

func TestCreate_InactiveSkipsEnrollment(t *testing.T) {
	svc, st, fx := setup(t)
	ctx := testutil.TestContext(t)

	fx.CreateMember("pat", "")
	prev := fx.CreateSchedule(10)

	created, err := svc.Create(ctx, schedules.CreateInput{Title: "Run", Date: testutil.Base})
	require.NoError(t, err)
	assert.False(t, created[0].Active)

	signups, err := st.ListSignUps(ctx, created[0].ID)
	require.NoError(t, err)
	assert.Empty(t, signups)

	got, err := st.GetSchedule(ctx, prev.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
}

func TestList_ArchivesStale(t *testing.T) {
	svc, _, fx := setup(t)
	ctx := testutil.TestContext(t)

	stale := fx.CreateScheduleWith(models.Schedule{Title: "stale", Date: testutil.Base.AddDate(0, 0, -8), Limit: 5})
	fx.CreateScheduleWith(models.Schedule{Title: "next", Date: testutil.Base.AddDate(0, 0, 2), Limit: 5})
	active := fx.CreateScheduleWith(models.Schedule{Title: "today", Date: testutil.Base, Active: true, Limit: 5})
	fx.CreateScheduleWith(models.Schedule{Title: "today too", Date: testutil.Base, Limit: 5})

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, stale.ID, list[0].ID)
	assert.True(t, list[0].Archived())
	assert.Equal(t, active.ID, list[1].ID, "active first on equal dates")
	assert.Equal(t, "next", list[3].Title)
}

func TestUpdate(t *testing.T) {
	svc, st, fx := setup(t)
	ctx := testutil.TestContext(t)

	a := fx.CreateSchedule(10)
	b := fx.CreateScheduleWith(models.Schedule{Title: "b", Date: testutil.Base, Limit: 10})

	_, err := svc.Update(ctx, schedules.PatchInput{ScheduleID: a.ID})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Update(ctx, schedules.PatchInput{ScheduleID: a.ID, Limit: intp(0)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Update(ctx, schedules.PatchInput{ScheduleID: a.ID, Title: strp("  ")})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	_, err = svc.Update(ctx, schedules.PatchInput{ScheduleID: 9999, Limit: intp(3)})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	got, err := svc.Update(ctx, schedules.PatchInput{ScheduleID: a.ID, Limit: intp(12), Title: strp(" Renamed ")})
	require.NoError(t, err)
	assert.Equal(t, 12, got.Limit)
	assert.Equal(t, "Renamed", got.Title)
	assert.True(t, got.Active)

	got, err = svc.Update(ctx, schedules.PatchInput{ScheduleID: a.ID, Archived: boolp(true), Limit: intp(3)})
	require.NoError(t, err)
	assert.True(t, got.Archived())
	assert.False(t, got.Active)
	assert.Equal(t, 12, got.Limit, "archiving ignores other fields")

	got, err = svc.Update(ctx, schedules.PatchInput{ScheduleID: a.ID, Archived: boolp(false)})
	require.NoError(t, err)
	assert.False(t, got.Archived())

	_, err = svc.Update(ctx, schedules.PatchInput{ScheduleID: a.ID, Archived: boolp(true)})
	require.NoError(t, err)
	got, err = svc.Update(ctx, schedules.PatchInput{ScheduleID: b.ID, Active: boolp(true)})
	require.NoError(t, err)
	assert.True(t, got.Active)

	got, err = svc.Update(ctx, schedules.PatchInput{ScheduleID: a.ID, Active: boolp(true)})
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.False(t, got.Archived(), "activating unarchives")

	other, err := st.GetSchedule(ctx, b.ID)
	require.NoError(t, err)
	assert.False(t, other.Active)

	got, err = svc.Update(ctx, schedules.PatchInput{ScheduleID: a.ID, Active: boolp(false)})
	require.NoError(t, err)
	assert.False(t, got.Active)
}
