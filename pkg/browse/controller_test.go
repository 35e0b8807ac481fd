package browse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/majorfi/gig-gallery/pkg/filters"
	"github.com/majorfi/gig-gallery/pkg/gallery"
	"github.com/majorfi/gig-gallery/pkg/nav"
	"github.com/majorfi/gig-gallery/pkg/prefs"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/************************************************************************************************
** Test helper functions and types
************************************************************************************************/

type memPrefs struct {
	stored prefs.TStoredPreference
}

func (m *memPrefs) Load() prefs.TStoredPreference     { return m.stored }
func (m *memPrefs) Save(pref prefs.TStoredPreference) { m.stored = pref }

// fakeAPI is a minimal Photo Query API. Pages are synthesized deterministically
// from the requested filters; tests can block selected requests and reshape
// responses through the hooks.
type fakeAPI struct {
	mu       sync.Mutex
	requests []url.Values
	pageSize int
	seed     string
	admin    bool
	totalFor func(event string) int
	block    func(q url.Values)
	mutate   func(resp *utils.TPhotoQueryResponse, q url.Values)
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		pageSize: 3,
		totalFor: func(string) int { return 9 },
	}
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/session":
			json.NewEncoder(w).Encode(utils.TSession{IsAdmin: f.admin})
			return
		case "/api/photos":
		default:
			http.NotFound(w, r)
			return
		}

		q := r.URL.Query()
		f.mu.Lock()
		f.requests = append(f.requests, q)
		block := f.block
		f.mu.Unlock()
		if block != nil {
			block(q)
		}

		event := q.Get("event")
		total := f.totalFor(event)
		page, _ := strconv.Atoi(q.Get("page"))
		if page < 1 {
			page = 1
		}
		totalPages := (total + f.pageSize - 1) / f.pageSize

		prefix := event
		if prefix == "" {
			prefix = "all"
		}
		resp := utils.TPhotoQueryResponse{
			Pagination: utils.TPagination{Page: page, Limit: f.pageSize, Total: total, TotalPages: totalPages},
		}
		for i := (page - 1) * f.pageSize; i < page*f.pageSize && i < total; i++ {
			resp.Photos = append(resp.Photos, utils.TPhoto{ID: fmt.Sprintf("%s-%d", prefix, i)})
		}
		if q.Get("skipMeta") != "true" {
			resp.Photographers = []string{"Alex Reyes", "Sam Porter"}
			resp.Companies = []utils.TCompany{{Slug: "amp-audio", Name: "Amp Audio"}}
		}
		if q.Has("shuffle") && f.seed != "" {
			resp.Seed = f.seed
		}
		if f.mutate != nil {
			f.mutate(&resp, q)
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func (f *fakeAPI) photoRequests() []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]url.Values(nil), f.requests...)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

type harness struct {
	api        *fakeAPI
	location   *nav.Location
	store      *filters.Store
	controller *Controller
}

func newHarness(t *testing.T, api *fakeAPI, query url.Values, stored prefs.TStoredPreference) *harness {
	t.Helper()
	server := api.server(t)
	t.Cleanup(server.Close)

	location := nav.NewLocation("/photos", query)
	store := filters.NewStore(location, &memPrefs{stored: stored}, testLogger())
	require.NotNil(t, store)
	store.Init()

	client := gallery.NewClient(server.URL, "", false, testLogger())
	require.NotNil(t, client)

	controller := NewController(client, store, testLogger())
	require.NotNil(t, controller)
	t.Cleanup(controller.Close)

	return &harness{api: api, location: location, store: store, controller: controller}
}

func waitIdleWithPhotos(t *testing.T, c *Controller) {
	t.Helper()
	require.Eventually(t, func() bool {
		return c.State() == utils.StateIdle && len(c.Photos()) > 0
	}, 2*time.Second, 5*time.Millisecond)
}

func TestFirstFetchCarriesStoredFilters(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(t, api, nil, prefs.TStoredPreference{Event: "E1", Shuffle: "S1"})

	// Act
	h.controller.Start()
	waitIdleWithPhotos(t, h.controller)

	// Assert: exactly one fetch, already filtered - never unfiltered-then-refetch
	requests := api.photoRequests()
	require.Len(t, requests, 1)
	assert.Equal(t, "E1", requests[0].Get("event"))
	assert.Equal(t, "S1", requests[0].Get("shuffle"))
	assert.False(t, requests[0].Has("order"))
}

func TestLoadMoreAppendsAndSkipsMeta(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(t, api, nil, prefs.TStoredPreference{})
	h.controller.Start()
	waitIdleWithPhotos(t, h.controller)
	require.Len(t, h.controller.Photos(), 3)

	// Act
	h.controller.LoadMore()
	require.Eventually(t, func() bool {
		return len(h.controller.Photos()) == 6
	}, 2*time.Second, 5*time.Millisecond)

	// Assert
	requests := api.photoRequests()
	require.Len(t, requests, 2)
	assert.False(t, requests[0].Has("skipMeta"), "first request carries meta")
	assert.Equal(t, "true", requests[1].Get("skipMeta"))
	assert.Equal(t, "2", requests[1].Get("page"))
	assert.Equal(t, []string{"Alex Reyes", "Sam Porter"}, h.controller.Photographers())
	assert.Equal(t, 9, h.controller.TotalCount())
}

func TestSeedReconciliationReachesNextPage(t *testing.T) {
	api := newFakeAPI()
	api.seed = "abc123"
	h := newHarness(t, api, url.Values{"shuffle": {"true"}}, prefs.TStoredPreference{})
	h.controller.Start()
	waitIdleWithPhotos(t, h.controller)
	generation := h.store.Generation()

	// Assert: placeholder request got the canonical seed, without a reset
	assert.Equal(t, "abc123", h.store.Snapshot().ShuffleToken)
	assert.Equal(t, generation, h.store.Generation())
	require.Len(t, h.controller.Photos(), 3, "reconciliation must not clear the cache")

	// Act: the next page must already use the canonical seed
	h.controller.LoadMore()
	require.Eventually(t, func() bool {
		return len(h.controller.Photos()) == 6
	}, 2*time.Second, 5*time.Millisecond)

	// Assert
	requests := api.photoRequests()
	require.Len(t, requests, 2)
	assert.Equal(t, "true", requests[0].Get("shuffle"))
	assert.Equal(t, "abc123", requests[1].Get("shuffle"))
}

func TestLoadMoreWhileInFlightIsNoOp(t *testing.T) {
	api := newFakeAPI()
	release := make(chan struct{})
	api.block = func(q url.Values) {
		if q.Get("page") == "2" {
			<-release
		}
	}
	h := newHarness(t, api, nil, prefs.TStoredPreference{})
	h.controller.Start()
	waitIdleWithPhotos(t, h.controller)

	// Act: the second trigger fires while the first fetch is still blocked
	h.controller.LoadMore()
	h.controller.LoadMore()
	h.controller.LoadMore()
	close(release)
	require.Eventually(t, func() bool {
		return h.controller.State() == utils.StateIdle
	}, 2*time.Second, 5*time.Millisecond)

	// Assert
	pageTwo := 0
	for _, q := range api.photoRequests() {
		if q.Get("page") == "2" {
			pageTwo++
		}
	}
	assert.Equal(t, 1, pageTwo, "in-flight guard must absorb rapid re-triggers")
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	api := newFakeAPI()
	api.totalFor = func(event string) int {
		if event == "" {
			return 50
		}
		return 6
	}
	releaseOld := make(chan struct{})
	api.block = func(q url.Values) {
		if q.Get("event") == "" {
			<-releaseOld
		}
	}
	h := newHarness(t, api, nil, prefs.TStoredPreference{})
	h.controller.Start()

	// Act: change filters while the unfiltered fetch hangs, then let it finish
	h.store.SetEvent("E2")
	waitIdleWithPhotos(t, h.controller)
	close(releaseOld)
	time.Sleep(50 * time.Millisecond)

	// Assert: the late unfiltered response must not leak into the new selection
	photos := h.controller.Photos()
	require.NotEmpty(t, photos)
	for _, p := range photos {
		assert.Contains(t, p.ID, "E2-")
	}
	assert.Equal(t, 6, h.controller.TotalCount())
}

func TestFetchFailureClearsLoading(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	location := nav.NewLocation("/photos", nil)
	store := filters.NewStore(location, &memPrefs{}, testLogger())
	store.Init()
	controller := NewController(gallery.NewClient(server.URL, "", false, testLogger()), store, testLogger())
	t.Cleanup(controller.Close)

	// Act
	controller.Start()

	// Assert: no stuck spinner, no partial state
	require.Eventually(t, func() bool {
		return controller.State() == utils.StateIdle
	}, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, controller.Photos())
}

func TestFilterChangeResetsAndRefetches(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(t, api, nil, prefs.TStoredPreference{})
	h.controller.Start()
	waitIdleWithPhotos(t, h.controller)

	// Act
	h.store.SetEvent("E7")
	require.Eventually(t, func() bool {
		photos := h.controller.Photos()
		return len(photos) > 0 && photos[0].ID == "E7-0"
	}, 2*time.Second, 5*time.Millisecond)

	// Assert: fresh meta was requested for the new snapshot
	requests := api.photoRequests()
	last := requests[len(requests)-1]
	assert.Equal(t, "E7", last.Get("event"))
	assert.False(t, last.Has("skipMeta"))
	assert.Equal(t, "1", last.Get("page"))
}

func TestGroupTypesFollowToggles(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(t, api, url.Values{"groupScenes": {"false"}}, prefs.TStoredPreference{})
	h.controller.Start()
	waitIdleWithPhotos(t, h.controller)

	// Act
	h.store.SetGroupDuplicates(false)
	require.Eventually(t, func() bool {
		return len(api.photoRequests()) == 2 && h.controller.State() == utils.StateIdle
	}, 2*time.Second, 5*time.Millisecond)

	// Assert
	requests := api.photoRequests()
	assert.Equal(t, "near_duplicate", requests[0].Get("groupTypes"))
	assert.False(t, requests[1].Has("groupTypes"), "both toggles off sends no group types")
}

func TestClusterOffsetSurvivesLoadMore(t *testing.T) {
	api := newFakeAPI()
	api.mutate = func(resp *utils.TPhotoQueryResponse, q url.Values) {
		if q.Get("page") != "1" || len(resp.Photos) == 0 {
			return
		}
		headID := resp.Photos[0].ID
		resp.Photos[0].ClusterMembers = []utils.TPhoto{
			{ID: headID},
			{ID: "m1"},
			{ID: "m2"},
		}
	}
	h := newHarness(t, api, nil, prefs.TStoredPreference{})
	h.controller.Start()
	waitIdleWithPhotos(t, h.controller)
	headID := h.controller.Photos()[0].ID

	// Act
	h.controller.CycleCluster(headID)
	current, count, ok := h.controller.ClusterBadge(headID)
	require.True(t, ok)
	require.Equal(t, "m1", current.ID)
	assert.Equal(t, 3, count, "unclassified members are all compatible")

	h.controller.LoadMore()
	require.Eventually(t, func() bool {
		return len(h.controller.Photos()) == 6
	}, 2*time.Second, 5*time.Millisecond)

	// Assert
	current, _, ok = h.controller.ClusterBadge(headID)
	require.True(t, ok)
	assert.Equal(t, "m1", current.ID, "display offset must survive the rebuild")
}

func TestSessionGateExposesAdmin(t *testing.T) {
	api := newFakeAPI()
	api.admin = true
	h := newHarness(t, api, nil, prefs.TStoredPreference{})

	// Act
	h.controller.Start()

	// Assert
	require.Eventually(t, func() bool {
		return h.controller.IsAdmin()
	}, 2*time.Second, 5*time.Millisecond)
}

func TestApplyDeletionAndUpdate(t *testing.T) {
	api := newFakeAPI()
	h := newHarness(t, api, nil, prefs.TStoredPreference{})
	h.controller.Start()
	waitIdleWithPhotos(t, h.controller)
	require.Equal(t, 9, h.controller.TotalCount())

	// Act
	h.controller.ApplyDeletion("all-1")
	h.controller.ApplyUpdate(&utils.TPhoto{ID: "all-2", Photographer: "Jordan Lee"})

	// Assert
	photos := h.controller.Photos()
	require.Len(t, photos, 2)
	assert.Equal(t, 8, h.controller.TotalCount())
	assert.Equal(t, "Jordan Lee", photos[1].Photographer)
}
