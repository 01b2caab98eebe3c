package tests

import (
	"context"
	"testing"
	"time"

	"groupcart/device/api"
	"groupcart/device/cart"
	"groupcart/device/internal/mocks"
	"groupcart/device/poller"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// primedStore has menus and meta cached so ticks only read state.
func primedStore(ids ...int) *cart.Store {
	store := cart.NewStore(nil, nil)
	for _, id := range ids {
		store.SetMeta(cart.RestaurantMeta{ID: id, Name: "R", MinOrderPrice: 20000})
		store.SetMenus(id, []cart.MenuInfo{{ID: 1, Name: "A", Price: 7900}})
	}
	return store
}

func TestPoller_ThresholdAndResetTransitions(t *testing.T) {
	ctx := context.Background()
	below := api.State{ID: 1, PendingPrice: 18300, MinOrderPrice: 20000}
	above := api.State{ID: 1, PendingPrice: 26200, MinOrderPrice: 20000}
	zero := api.State{ID: 1, PendingPrice: 0, MinOrderPrice: 20000}

	reader := mocks.NewStateReader(t)
	watcher := mocks.NewWatcher(t)
	store := primedStore(1)

	reader.On("ReadState", mock.Anything, 1).Return(below, nil).Once()
	reader.On("ReadState", mock.Anything, 1).Return(above, nil).Twice()
	reader.On("ReadState", mock.Anything, 1).Return(zero, nil).Twice()
	watcher.On("ObserveThreshold", mock.Anything, 1, above).Once()
	watcher.On("ObserveReset", mock.Anything, 1).Once()

	p := poller.New(reader, store, watcher, time.Second, nil)
	p.Track(1)
	for i := 0; i < 5; i++ {
		p.Tick(ctx)
	}

	st, _ := store.Snapshot(1)
	assert.Equal(t, zero, st)
}

func TestPoller_FirstObservationAboveThresholdFires(t *testing.T) {
	above := api.State{ID: 1, PendingPrice: 20000, MinOrderPrice: 20000}
	reader := mocks.NewStateReader(t)
	watcher := mocks.NewWatcher(t)

	reader.On("ReadState", mock.Anything, 1).Return(above, nil).Once()
	watcher.On("ObserveThreshold", mock.Anything, 1, above).Once()

	p := poller.New(reader, primedStore(1), watcher, time.Second, nil)
	p.Track(1)
	p.Tick(context.Background())
}

func TestPoller_ZeroWithoutPriorTotalIsNotAReset(t *testing.T) {
	reader := mocks.NewStateReader(t)
	watcher := mocks.NewWatcher(t)
	zero := api.State{ID: 1, PendingPrice: 0, MinOrderPrice: 20000}

	reader.On("ReadState", mock.Anything, 1).Return(zero, nil).Twice()

	p := poller.New(reader, primedStore(1), watcher, time.Second, nil)
	p.Track(1)
	p.Tick(context.Background())
	p.Tick(context.Background())
}

func TestPoller_FailedFetchIsSkipped(t *testing.T) {
	reader := mocks.NewStateReader(t)
	watcher := mocks.NewWatcher(t)
	store := primedStore(1, 2)
	store.SetSnapshot(api.State{ID: 1, PendingPrice: 7900, MinOrderPrice: 20000})

	reader.On("ReadState", mock.Anything, 1).Return(api.State{}, api.ErrTransientNetwork).Once()
	reader.On("ReadState", mock.Anything, 2).Return(api.State{ID: 2, PendingPrice: 2500, MinOrderPrice: 20000}, nil).Once()

	p := poller.New(reader, store, watcher, time.Second, nil)
	p.Track(1)
	p.Track(2)
	p.Tick(context.Background())

	st1, _ := store.Snapshot(1)
	st2, _ := store.Snapshot(2)
	assert.Equal(t, int64(7900), st1.PendingPrice)
	assert.Equal(t, int64(2500), st2.PendingPrice)
}

func TestPoller_CancelledTickIsDiscarded(t *testing.T) {
	reader := mocks.NewStateReader(t)
	store := primedStore(1)
	store.SetSnapshot(api.State{ID: 1, PendingPrice: 7900, MinOrderPrice: 20000})

	ctx, cancel := context.WithCancel(context.Background())
	reader.On("ReadState", mock.Anything, 1).
		Run(func(mock.Arguments) { cancel() }).
		Return(api.State{ID: 1, PendingPrice: 0, MinOrderPrice: 20000}, nil).Once()

	p := poller.New(reader, store, mocks.NewWatcher(t), time.Second, nil)
	p.Track(1)
	p.Tick(ctx)

	st, _ := store.Snapshot(1)
	assert.Equal(t, int64(7900), st.PendingPrice)
}

func TestPoller_LoadsMenusAndMetaOnce(t *testing.T) {
	ctx := context.Background()
	reader := mocks.NewStateReader(t)
	store := cart.NewStore(nil, nil)

	reader.On("ReadState", mock.Anything, 1).Return(api.State{ID: 1, MinOrderPrice: 20000}, nil).Twice()
	reader.On("ListMenus", mock.Anything, 1).Return([]api.Menu{
		{ID: 1, RestaurantID: 1, Name: "A", Price: 7900},
		{ID: 2, RestaurantID: 1, Name: "B", Price: 2500},
	}, nil).Once()
	reader.On("GetRestaurant", mock.Anything, 1).Return(api.Restaurant{ID: 1, Name: "Steakhouse", MinOrderPrice: 20000}, nil).Once()

	p := poller.New(reader, store, nil, time.Second, nil)
	p.Track(1)
	p.Tick(ctx)
	p.Tick(ctx)

	menu, ok := store.Menu(1, 2)
	assert.True(t, ok)
	assert.Equal(t, cart.MenuInfo{ID: 2, Name: "B", Price: 2500}, menu)
	meta, _ := store.Meta(1)
	assert.Equal(t, "Steakhouse", meta.Name)
}

func TestPoller_RunStopsOnCancel(t *testing.T) {
	reader := mocks.NewStateReader(t)
	reader.On("ReadState", mock.Anything, 1).Return(api.State{ID: 1, MinOrderPrice: 20000}, nil).Maybe()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	p := poller.New(reader, primedStore(1), nil, 10*time.Millisecond, nil)
	p.Track(1)
	err := p.Run(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	reader.AssertCalled(t, "ReadState", mock.Anything, 1)
}
