package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pedro664/PLANTA-sub001/internal/client/models"
	"github.com/pedro664/PLANTA-sub001/internal/client/syncer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ------------ fakes ------------

type fakeEngine struct {
	queued   []models.SyncAction
	enqErr   error
	syncRes  syncer.Result
	syncErr  error
	cleared  bool
	clearErr error
	status   syncer.EngineStatus
}

func (f *fakeEngine) Enqueue(_ context.Context, kind models.ActionKind, payload any, _ *models.ActionMetadata) (string, error) {
	if f.enqErr != nil {
		return "", f.enqErr
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	id := fmt.Sprintf("a%d", len(f.queued)+1)
	f.queued = append(f.queued, models.SyncAction{ID: id, Kind: kind, Payload: b})
	f.status.Pending = len(f.queued)
	return id, nil
}

func (f *fakeEngine) ForceSyncNow(context.Context) (syncer.Result, error) { return f.syncRes, f.syncErr }
func (f *fakeEngine) Pending() []models.SyncAction                       { return f.queued }

func (f *fakeEngine) PendingByKind(kind models.ActionKind) []models.SyncAction {
	var out []models.SyncAction
	for _, a := range f.queued {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

func (f *fakeEngine) ClearAll(context.Context) (int, error) {
	if f.clearErr != nil {
		return 0, f.clearErr
	}
	n := len(f.queued)
	f.queued = nil
	f.cleared = true
	return n, nil
}

func (f *fakeEngine) Status() syncer.EngineStatus { return f.status }

type fakeNetwork struct {
	online bool
	forced bool
}

func (n *fakeNetwork) IsOnline() bool { return n.online && !n.forced }
func (n *fakeNetwork) ForceOffline(_ context.Context, forced bool) {
	n.forced = forced
}

// ------------ helpers ------------

func newTestApp(eng *fakeEngine, lines ...string) (*App, *bytes.Buffer) {
	var out bytes.Buffer
	in := strings.Join(lines, "\n") + "\n"
	return &App{
		engine:  eng,
		network: &fakeNetwork{online: true},
		reader:  bufio.NewReader(strings.NewReader(in)),
		out:     &out,
	}, &out
}

func decode[T any](t *testing.T, a models.SyncAction) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(a.Payload, &v))
	return v
}

// ------------ tests ------------

func TestAddPlant_QueuesCreate(t *testing.T) {
	eng := &fakeEngine{}
	app, out := newTestApp(eng, "Fern", "Nephrolepis", "porch", "/tmp/fern.jpg")

	require.NoError(t, app.AddPlant(context.Background(), nil))

	require.Len(t, eng.queued, 1)
	assert.Equal(t, models.KindCreatePlant, eng.queued[0].Kind)
	p := decode[models.Plant](t, eng.queued[0])
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Fern", p.Name)
	assert.Equal(t, "porch", p.Location)
	assert.Equal(t, "/tmp/fern.jpg", p.ImagePath)
	assert.Contains(t, out.String(), "queued create_plant a1 (1 pending)")
}

func TestAddPlant_NameRequired(t *testing.T) {
	eng := &fakeEngine{}
	app, _ := newTestApp(eng, "")
	require.Error(t, app.AddPlant(context.Background(), nil))
	assert.Empty(t, eng.queued)
}

func TestCareLog_DefaultsToWater(t *testing.T) {
	orig := now
	now = func() time.Time { return time.Date(2026, 4, 1, 7, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { now = orig })

	eng := &fakeEngine{}
	app, _ := newTestApp(eng, "", "morning", "")

	require.NoError(t, app.CareLog(context.Background(), []string{"p1"}))
	l := decode[models.CareLog](t, eng.queued[0])
	assert.Equal(t, "p1", l.PlantID)
	assert.Equal(t, "water", l.Type)
	assert.Equal(t, "morning", l.Note)
	assert.True(t, now().Equal(l.PerformedAt))
}

func TestCommands_UsageErrors(t *testing.T) {
	app, _ := newTestApp(&fakeEngine{})
	ctx := context.Background()

	assert.ErrorIs(t, app.UpdatePlant(ctx, nil), errUsage)
	assert.ErrorIs(t, app.DeletePlant(ctx, []string{"a", "b"}), errUsage)
	assert.ErrorIs(t, app.CareLog(ctx, nil), errUsage)
	assert.ErrorIs(t, app.Like(ctx, nil), errUsage)
	assert.ErrorIs(t, app.Pending(ctx, []string{"a", "b"}), errUsage)
}

func TestUpdateAndDeletePlant(t *testing.T) {
	eng := &fakeEngine{}
	app, _ := newTestApp(eng, "Big fern", "", "kitchen", "repotted", "")
	ctx := context.Background()

	require.NoError(t, app.UpdatePlant(ctx, []string{"p1"}))
	require.NoError(t, app.DeletePlant(ctx, []string{"p1"}))

	require.Len(t, eng.queued, 2)
	up := decode[models.Plant](t, eng.queued[0])
	assert.Equal(t, models.Plant{ID: "p1", Name: "Big fern", Location: "kitchen", Notes: "repotted"}, up)
	assert.Equal(t, models.KindDeletePlant, eng.queued[1].Kind)
	assert.Equal(t, models.PlantRef{ID: "p1"}, decode[models.PlantRef](t, eng.queued[1]))
}

func TestUserThenPostAndLikeReuseUserID(t *testing.T) {
	eng := &fakeEngine{}
	app, _ := newTestApp(eng,
		"u1", "Ana", "likes ferns", "", // user
		"", "first sprout!", "p1", "", // post: author defaults to u1
	)
	ctx := context.Background()

	require.NoError(t, app.User(ctx, nil))
	require.NoError(t, app.Post(ctx, nil))
	require.NoError(t, app.Like(ctx, []string{"po9"}))

	require.Len(t, eng.queued, 3)
	assert.Equal(t, "Ana", decode[models.UserProfile](t, eng.queued[0]).DisplayName)

	post := decode[models.Post](t, eng.queued[1])
	assert.Equal(t, "u1", post.AuthorID)
	assert.Equal(t, "first sprout!", post.Body)
	assert.Equal(t, "p1", post.PlantID)

	assert.Equal(t, models.Like{PostID: "po9", UserID: "u1"}, decode[models.Like](t, eng.queued[2]))
}

func TestLike_NeedsUser(t *testing.T) {
	app, _ := newTestApp(&fakeEngine{})
	require.Error(t, app.Like(context.Background(), []string{"po1"}))
	require.NoError(t, app.Like(context.Background(), []string{"po1", "u2"}))
}

func TestQueue_PropagatesEnqueueError(t *testing.T) {
	eng := &fakeEngine{enqErr: syncer.ErrPersistence}
	app, _ := newTestApp(eng)
	err := app.DeletePlant(context.Background(), []string{"p1"})
	require.ErrorIs(t, err, syncer.ErrPersistence)
}

func TestPending_ListsAndFilters(t *testing.T) {
	eng := &fakeEngine{}
	app, out := newTestApp(eng)
	ctx := context.Background()

	require.NoError(t, app.Pending(ctx, nil))
	assert.Contains(t, out.String(), "Nothing pending.")

	_, _ = eng.Enqueue(ctx, models.KindCreatePlant, models.Plant{ID: "p1"}, nil)
	_, _ = eng.Enqueue(ctx, models.KindToggleLike, models.Like{PostID: "x"}, nil)
	eng.queued[1].Metadata.RetryCount = 2
	eng.queued[1].Metadata.LastError = strings.Repeat("x", 80)

	out.Reset()
	require.NoError(t, app.Pending(ctx, []string{"toggle_like"}))
	s := out.String()
	assert.Contains(t, s, "toggle_like")
	assert.NotContains(t, s, "create_plant")
	assert.Contains(t, s, "...")

	require.ErrorIs(t, app.Pending(ctx, []string{"water_all"}), syncer.ErrUnknownKind)
}

func TestSync_ReportsOutcome(t *testing.T) {
	tests := []struct {
		res  syncer.Result
		want string
	}{
		{syncer.Result{Skipped: syncer.SkipOffline}, "Offline"},
		{syncer.Result{Skipped: syncer.SkipEmpty}, "Nothing to sync."},
		{syncer.Result{Skipped: syncer.SkipInProgress}, "already running"},
		{syncer.Result{SuccessCount: 2, ErrorCount: 1, FailedActions: []models.SyncAction{{ID: "a3"}}}, "Synced 2, failed 1, discarded 1."},
	}
	for _, tt := range tests {
		eng := &fakeEngine{syncRes: tt.res}
		app, out := newTestApp(eng)
		require.NoError(t, app.Sync(context.Background(), nil))
		assert.Contains(t, out.String(), tt.want)
	}

	eng := &fakeEngine{syncRes: syncer.Result{SuccessCount: 1}, syncErr: syncer.ErrPersistence}
	app, _ := newTestApp(eng)
	require.ErrorIs(t, app.Sync(context.Background(), nil), syncer.ErrPersistence)
}

func TestClear_RequiresConfirmation(t *testing.T) {
	eng := &fakeEngine{}
	_, _ = eng.Enqueue(context.Background(), models.KindCreatePlant, models.Plant{}, nil)

	app, out := newTestApp(eng, "no")
	require.NoError(t, app.Clear(context.Background(), nil))
	assert.False(t, eng.cleared)
	assert.Contains(t, out.String(), "Cancelled.")

	app, out = newTestApp(eng, "yes")
	require.NoError(t, app.Clear(context.Background(), nil))
	assert.True(t, eng.cleared)
	assert.Contains(t, out.String(), "Dropped 1 queued change(s).")

	eng.clearErr = errors.New("locked")
	app, _ = newTestApp(eng, "yes")
	require.Error(t, app.Clear(context.Background(), nil))
}

func TestShowStatusAndOfflineToggle(t *testing.T) {
	eng := &fakeEngine{status: syncer.EngineStatus{
		Pending:     2,
		State:       syncer.StateIdle,
		LastOutcome: syncer.StateError,
		LastSync:    time.Date(2026, 4, 1, 7, 0, 0, 0, time.UTC),
		LastResult:  syncer.Result{SuccessCount: 1, ErrorCount: 1},
	}}
	app, out := newTestApp(eng)
	ctx := context.Background()

	require.NoError(t, app.ShowStatus(ctx, nil))
	s := out.String()
	assert.Contains(t, s, "online:       true")
	assert.Contains(t, s, "pending:      2")
	assert.Contains(t, s, "last pass:    error (1 ok, 1 failed, 0 discarded)")
	assert.Equal(t, "(online, 2 pending)", app.getStatus())

	require.NoError(t, app.SetOffline(ctx, true))
	assert.Contains(t, out.String(), "Now Offline.")
	assert.Equal(t, "(offline, 2 pending)", app.getStatus())
	assert.Empty(t, app.prompt(), "non-interactive apps print no prompt")

	require.NoError(t, app.SetOffline(ctx, false))
	assert.Contains(t, out.String(), "Now Online.")
}

func TestReportEvictions(t *testing.T) {
	app, out := newTestApp(&fakeEngine{})

	app.reportEvictions(syncer.StateSuccess, syncer.Result{SuccessCount: 3})
	assert.Empty(t, out.String())

	app.reportEvictions(syncer.StateError, syncer.Result{FailedActions: []models.SyncAction{{
		ID: "a7", Kind: models.KindAddCareLog, Metadata: models.ActionMetadata{RetryCount: 3, LastError: "rejected by server: plant missing"},
	}}})
	assert.Contains(t, out.String(), "1 offline change(s) could not be synced and were discarded")
	assert.Contains(t, out.String(), "add_care_log a7 (rejected by server: plant missing)")
}

func TestTruncate_CutsOnRunes(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))

	msg := "não foi possível alcançar o serviço de sincronização agora"
	got := truncate(msg, 20)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 20, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	exact := "ção"
	assert.Equal(t, exact, truncate(exact, 3))
}
