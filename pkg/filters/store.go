package filters

import (
	"net/url"
	"sync"

	"github.com/majorfi/gig-gallery/pkg/nav"
	"github.com/majorfi/gig-gallery/pkg/prefs"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/unicode/norm"
)

/**************************************************************************************************
** PreferenceStore is the durable home of the viewer's last filter selection. Implementations
** swallow their own failures: loading can only yield an empty preference, saving is best effort.
**************************************************************************************************/
type PreferenceStore interface {
	Load() prefs.TStoredPreference
	Save(prefs.TStoredPreference)
}

/**************************************************************************************************
** Store produces the one authoritative filter snapshot and keeps it synchronized with the
** Location and, when the Location carries no filter keys, with the stored preference.
**
** Every change to the reset-relevant fields bumps a generation counter. Controllers tag each
** fetch with the generation it was issued under and drop responses whose generation has been
** superseded, which is what keeps a slow response for the previous filter selection from
** polluting the cache of the next one.
**************************************************************************************************/
type Store struct {
	mu             sync.Mutex
	logger         *logrus.Logger
	location       *nav.Location
	prefStore      PreferenceStore
	snapshot       TFilterSnapshot
	generation     uint64
	initialized    bool
	subscribers    map[int]func(TFilterSnapshot, uint64)
	nextSubID      int
	unsubscribeNav func()
}

/**************************************************************************************************
** NewStore creates a filter store bound to a Location and a preference store. The store is
** inert until Init runs.
**
** @param location - Location to read deep links from and write filter state to
** @param prefStore - Durable preference storage
** @param logger - Logger instance for output
** @return *Store - Configured store, nil on invalid input
**************************************************************************************************/
func NewStore(location *nav.Location, prefStore PreferenceStore, logger *logrus.Logger) *Store {
	if location == nil || prefStore == nil || logger == nil {
		return nil
	}

	return &Store{
		logger:      logger,
		location:    location,
		prefStore:   prefStore,
		snapshot:    DefaultSnapshot(),
		subscribers: map[int]func(TFilterSnapshot, uint64){},
	}
}

/**************************************************************************************************
** Init runs the initialization protocol exactly once, before any fetch may be issued. When the
** Location carries any recognized filter key the snapshot is seeded from it and storage is not
** read at all; otherwise the stored preference applies. Malformed or absent storage means an
** empty preference, never an error. Only after Init returns may fetch triggers run, so stored
** filters always reach the very first request.
**
** @return TFilterSnapshot - The initial snapshot
**************************************************************************************************/
func (s *Store) Init() TFilterSnapshot {
	s.mu.Lock()
	if s.initialized {
		snapshot := s.snapshot
		s.mu.Unlock()
		return snapshot
	}

	query := s.location.Query()
	stored := prefs.TStoredPreference{}
	fromURL := HasFilterParams(query)
	if !fromURL {
		stored = s.prefStore.Load()
	}

	s.snapshot = Reconcile(query, stored, DefaultSnapshot())
	s.generation = 1
	s.initialized = true
	snapshot := s.snapshot
	s.mu.Unlock()

	s.unsubscribeNav = s.location.Subscribe(s.onLocationChange)

	switch {
	case fromURL:
		s.logger.Debugf("🎛️  Filters seeded from link: %+v", snapshot)
	case !stored.IsZero():
		s.logger.Debugf("🎛️  Filters restored from preference: %+v", snapshot)
	default:
		s.logger.Debugf("🎛️  Filters at defaults")
	}
	return snapshot
}

/**************************************************************************************************
** Snapshot returns the current filter snapshot.
**
** @return TFilterSnapshot - Current snapshot
**************************************************************************************************/
func (s *Store) Snapshot() TFilterSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

/**************************************************************************************************
** Generation returns the current snapshot generation. Responses fetched under an older
** generation must be discarded.
**
** @return uint64 - Current generation
**************************************************************************************************/
func (s *Store) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

/**************************************************************************************************
** Subscribe registers a callback fired after every filter change, with the new snapshot and its
** generation. Callbacks run outside the store's lock. Returns an unsubscribe function.
**
** @param fn - Callback receiving snapshot and generation
** @return func() - Unsubscribe function
**************************************************************************************************/
func (s *Store) Subscribe(fn func(TFilterSnapshot, uint64)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}

/**************************************************************************************************
** SetEvent selects an event facet. Event and company are mutually exclusive, and the legacy
** band facet only makes sense inside its event context, so both are cleared.
**
** @param id - Event id, empty to clear
**************************************************************************************************/
func (s *Store) SetEvent(id string) {
	s.apply(func(next *TFilterSnapshot) {
		next.EventID = id
		next.BandID = ""
		if id != "" {
			next.Company = ""
		}
	})
}

/**************************************************************************************************
** SetPhotographer selects a photographer facet. Names are normalized so that visually identical
** names from different sources compare equal.
**
** @param name - Photographer name, empty to clear
**************************************************************************************************/
func (s *Store) SetPhotographer(name string) {
	s.apply(func(next *TFilterSnapshot) {
		next.Photographer = norm.NFC.String(name)
	})
}

/**************************************************************************************************
** SetCompany selects a company facet. Setting a company always clears the event selection:
** company and event are mutually exclusive facets in this domain.
**
** @param slug - Company slug, empty to clear
**************************************************************************************************/
func (s *Store) SetCompany(slug string) {
	s.apply(func(next *TFilterSnapshot) {
		next.Company = slug
		if slug != "" {
			next.EventID = ""
			next.BandID = ""
		}
	})
}

/**************************************************************************************************
** SetShuffle turns shuffled ordering on or off. Turning it on mints a fresh client-side token,
** giving the viewer a new deterministic order; turning it off reverts to chronological order.
**
** @param on - Whether shuffle should be active
**************************************************************************************************/
func (s *Store) SetShuffle(on bool) {
	s.apply(func(next *TFilterSnapshot) {
		if on {
			next.ShuffleToken = NewShuffleToken()
		} else {
			next.ShuffleToken = ""
		}
	})
}

/**************************************************************************************************
** ToggleShuffle flips between shuffled and chronological ordering.
**************************************************************************************************/
func (s *Store) ToggleShuffle() {
	s.apply(func(next *TFilterSnapshot) {
		if next.Shuffled() {
			next.ShuffleToken = ""
		} else {
			next.ShuffleToken = NewShuffleToken()
		}
	})
}

/**************************************************************************************************
** ResetFacets clears every facet selection (event, band, photographer, company) in one change,
** so the "everything" menu action costs a single reset instead of one per facet.
**************************************************************************************************/
func (s *Store) ResetFacets() {
	s.apply(func(next *TFilterSnapshot) {
		next.EventID = ""
		next.BandID = ""
		next.Photographer = ""
		next.Company = ""
	})
}

/**************************************************************************************************
** SetGroupDuplicates toggles near-duplicate collapsing.
**
** @param on - Whether near-duplicate clusters collapse into one slot
**************************************************************************************************/
func (s *Store) SetGroupDuplicates(on bool) {
	s.apply(func(next *TFilterSnapshot) {
		next.GroupDuplicates = on
	})
}

/**************************************************************************************************
** SetGroupScenes toggles same-scene collapsing.
**
** @param on - Whether same-scene clusters collapse into one slot
**************************************************************************************************/
func (s *Store) SetGroupScenes(on bool) {
	s.apply(func(next *TFilterSnapshot) {
		next.GroupScenes = on
	})
}

/**************************************************************************************************
** ResolveShuffleSeed replaces the current shuffle token with the server's canonical seed. This
** is a metadata correction, not a filter change: no cache reset, no new generation, no
** subscriber notification. It must run before any subsequent page request so that later pages
** are ordered under the canonical seed. The corrected token still reaches the Location and the
** stored preference, so shared links and the next session reproduce the same order.
**
** @param seed - Server-resolved seed, empty to ignore
**************************************************************************************************/
func (s *Store) ResolveShuffleSeed(seed string) {
	s.mu.Lock()
	if seed == "" || s.snapshot.ShuffleToken == "" || s.snapshot.ShuffleToken == seed {
		s.mu.Unlock()
		return
	}

	s.logger.Debugf("🎲 Shuffle seed resolved: %s -> %s", s.snapshot.ShuffleToken, seed)
	s.snapshot.ShuffleToken = seed
	s.syncLocationLocked()
	persist := s.initialized
	snapshot := s.snapshot
	s.mu.Unlock()

	if persist {
		s.prefStore.Save(toStored(snapshot))
	}
}

/**************************************************************************************************
** Close detaches the store from Location notifications.
**************************************************************************************************/
func (s *Store) Close() {
	if s.unsubscribeNav != nil {
		s.unsubscribeNav()
		s.unsubscribeNav = nil
	}
}

/**************************************************************************************************
** apply runs one user-driven filter change: mutate the snapshot, bump the generation when the
** change obliges a cache reset, rewrite the Location without a history entry, persist once
** initialization is complete, and notify subscribers outside the lock.
**
** @param mutate - Mutation applied to a copy of the current snapshot
**************************************************************************************************/
func (s *Store) apply(mutate func(*TFilterSnapshot)) {
	s.mu.Lock()
	prev := s.snapshot
	next := prev
	mutate(&next)
	if next == prev {
		s.mu.Unlock()
		return
	}

	if !next.ResetEqual(prev) {
		s.generation++
		next.InitialPage = 1
	}
	s.snapshot = next
	s.syncLocationLocked()
	persist := s.initialized
	generation := s.generation
	subscribers := s.collectSubscribersLocked()
	s.mu.Unlock()

	if persist {
		s.prefStore.Save(toStored(next))
	}
	for _, fn := range subscribers {
		fn(next, generation)
	}
}

/**************************************************************************************************
** onLocationChange re-reconciles the snapshot after history navigation restored an earlier
** entry. A field changes only when its key is explicitly present in the restored query, so a
** back-navigation to a bare gallery link leaves restored-from-storage filters alone. Storage
** never participates here; it only speaks at initialization.
**
** @param values - Restored query parameters
**************************************************************************************************/
func (s *Store) onLocationChange(values url.Values) {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return
	}

	prev := s.snapshot
	next := Reconcile(values, prefs.TStoredPreference{}, prev)
	if !next.ResetEqual(prev) {
		s.generation++
		if !values.Has(utils.ParamPage) {
			next.InitialPage = 1
		}
	}
	if next == prev {
		s.mu.Unlock()
		return
	}

	s.snapshot = next
	generation := s.generation
	subscribers := s.collectSubscribersLocked()
	s.mu.Unlock()

	s.logger.Debugf("🎛️  Filters updated from history navigation: %+v", next)
	s.prefStore.Save(toStored(next))
	for _, fn := range subscribers {
		fn(next, generation)
	}
}

/**************************************************************************************************
** syncLocationLocked rewrites the owned query keys in the current Location entry from the
** snapshot, via replace so filter changes never create back-button stops. Unowned keys (the
** slideshow photo anchor among them) pass through untouched; the page key is dropped because a
** rewritten entry always represents a fresh view of its filter selection.
**************************************************************************************************/
func (s *Store) syncLocationLocked() {
	values := s.location.Query()
	for _, key := range filterParamKeys {
		values.Del(key)
	}
	values.Del(utils.ParamPage)

	if s.snapshot.EventID != "" {
		values.Set(utils.ParamEvent, s.snapshot.EventID)
	}
	if s.snapshot.BandID != "" {
		values.Set(utils.ParamBand, s.snapshot.BandID)
	}
	if s.snapshot.Photographer != "" {
		values.Set(utils.ParamPhotographer, s.snapshot.Photographer)
	}
	if s.snapshot.Company != "" {
		values.Set(utils.ParamCompany, s.snapshot.Company)
	}
	if s.snapshot.ShuffleToken != "" {
		values.Set(utils.ParamShuffle, s.snapshot.ShuffleToken)
	}
	if !s.snapshot.GroupDuplicates {
		values.Set(utils.ParamGroupDuplicates, "false")
	}
	if !s.snapshot.GroupScenes {
		values.Set(utils.ParamGroupScenes, "false")
	}

	s.location.Replace(values)
}

func (s *Store) collectSubscribersLocked() []func(TFilterSnapshot, uint64) {
	subscribers := make([]func(TFilterSnapshot, uint64), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	return subscribers
}

func toStored(snapshot TFilterSnapshot) prefs.TStoredPreference {
	groupDuplicates := snapshot.GroupDuplicates
	groupScenes := snapshot.GroupScenes
	return prefs.TStoredPreference{
		Event:           snapshot.EventID,
		Photographer:    snapshot.Photographer,
		Company:         snapshot.Company,
		Shuffle:         snapshot.ShuffleToken,
		GroupDuplicates: &groupDuplicates,
		GroupScenes:     &groupScenes,
	}
}
