package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/goaltree/internal/layout"
	"github.com/alexanderramin/goaltree/internal/navigation"
	"github.com/alexanderramin/goaltree/internal/projection"
	"github.com/alexanderramin/goaltree/internal/repository"
	"github.com/alexanderramin/goaltree/internal/store"
	"github.com/alexanderramin/goaltree/internal/testutil"
	"github.com/stretchr/testify/require"
)

var testCanvas = layout.Canvas{Width: 900, Height: 600, NodeRadius: 60}

type recordingObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingObserver) names() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, len(o.events))
	for i, e := range o.events {
		out[i] = e.Name
	}
	return out
}

type harness struct {
	repo     *repository.SQLiteNodeRepo
	store    *store.Store
	pipeline *projection.Pipeline
	nav      *navigation.State
	observer *recordingObserver
	goals    GoalService
	maps     MapService
	exchange ExchangeService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := repository.NewSQLiteNodeRepo(testutil.NewTestDB(t))
	st := store.New(repo)
	require.NoError(t, st.Start(context.Background()))
	t.Cleanup(st.Close)

	pipeline := projection.NewPipeline(st)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = pipeline.Run(ctx) }()

	nav := navigation.New()
	obs := &recordingObserver{}
	clock := WithClock(testutil.NextTimestamp)
	return &harness{
		repo:     repo,
		store:    st,
		pipeline: pipeline,
		nav:      nav,
		observer: obs,
		goals:    NewGoalService(st, pipeline, nav, obs, clock),
		maps:     NewMapService(st, pipeline, nav, testCanvas, obs, clock),
		exchange: NewExchangeService(st, pipeline, nav, obs, clock),
	}
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
