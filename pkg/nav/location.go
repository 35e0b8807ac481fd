package nav

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

/**************************************************************************************************
** Location models the shareable address of the gallery: a path plus query parameters, with a
** history stack behind it. It is the single source of truth for deep links. Controllers write
** filter and photo state into it and read it back on startup, so any state reachable through
** the UI is also reachable by pasting the rendered link.
**
** Replace swaps the current entry without growing history, Push adds a new entry, and Back pops
** one. Subscribers are notified on Back only, mirroring how history navigation behaves: the
** application already knows about its own writes and must not react to them a second time.
**************************************************************************************************/
type Location struct {
	mu          sync.Mutex
	path        string
	history     []url.Values
	subscribers map[int]func(url.Values)
	nextSubID   int
}

/**************************************************************************************************
** NewLocation creates a Location rooted at the given path with an initial set of query
** parameters, typically decoded from a pasted link or left empty for a fresh visit.
**
** @param path - Site path the links render under, e.g. /photos
** @param initial - Starting query parameters, may be nil
** @return *Location - Ready to use location
**************************************************************************************************/
func NewLocation(path string, initial url.Values) *Location {
	if path == "" {
		path = "/"
	}

	return &Location{
		path:        path,
		history:     []url.Values{cloneValues(initial)},
		subscribers: map[int]func(url.Values){},
	}
}

/**************************************************************************************************
** ParseLocation builds a Location from a full pasted link, keeping its path and query. Scheme
** and host are discarded; only the part the gallery controls matters.
**
** @param rawURL - Full or partial URL string
** @return *Location - Location seeded from the link
** @return error - Any parse error
**************************************************************************************************/
func ParseLocation(rawURL string) (*Location, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing link: %w", err)
	}

	return NewLocation(parsed.Path, parsed.Query()), nil
}

/**************************************************************************************************
** Query returns a copy of the current query parameters. Mutating the returned values never
** affects the location itself.
**
** @return url.Values - Copy of the current parameters
**************************************************************************************************/
func (l *Location) Query() url.Values {
	l.mu.Lock()
	defer l.mu.Unlock()
	return cloneValues(l.current())
}

/**************************************************************************************************
** Param returns a single current query parameter, empty when absent.
**
** @param key - Parameter name
** @return string - First value for the key
**************************************************************************************************/
func (l *Location) Param(key string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current().Get(key)
}

/**************************************************************************************************
** Replace swaps the current history entry for the given parameters without creating a new one.
** This is how controllers keep the address in sync while browsing: refreshing state shouldn't
** bury the page the viewer came from under dozens of intermediate entries.
**
** @param values - Parameters to store
**************************************************************************************************/
func (l *Location) Replace(values url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history[len(l.history)-1] = cloneValues(values)
}

/**************************************************************************************************
** SetParam replaces a single parameter in the current entry, removing it when the value is
** empty. Convenience wrapper over Replace for one-key writes such as the slideshow photo sync.
**
** @param key - Parameter name
** @param value - New value, empty to delete
**************************************************************************************************/
func (l *Location) SetParam(key, value string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	values := cloneValues(l.current())
	if value == "" {
		values.Del(key)
	} else {
		values.Set(key, value)
	}
	l.history[len(l.history)-1] = values
}

/**************************************************************************************************
** Push adds a new history entry with the given parameters, for deliberate navigation steps the
** viewer should be able to back out of.
**
** @param values - Parameters for the new entry
**************************************************************************************************/
func (l *Location) Push(values url.Values) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history, cloneValues(values))
}

/**************************************************************************************************
** Back pops the current history entry and notifies subscribers with the restored parameters.
** Popping the last remaining entry is a no-op; there is nowhere earlier to go.
**
** @return bool - Whether a pop actually happened
**************************************************************************************************/
func (l *Location) Back() bool {
	l.mu.Lock()
	if len(l.history) < 2 {
		l.mu.Unlock()
		return false
	}
	l.history = l.history[:len(l.history)-1]
	restored := cloneValues(l.current())
	subscribers := make([]func(url.Values), 0, len(l.subscribers))
	for _, fn := range l.subscribers {
		subscribers = append(subscribers, fn)
	}
	l.mu.Unlock()

	for _, fn := range subscribers {
		fn(cloneValues(restored))
	}
	return true
}

/**************************************************************************************************
** Subscribe registers a callback fired whenever history navigation restores an earlier entry.
** The callback receives a copy of the restored parameters. Returns an unsubscribe function.
**
** @param fn - Callback receiving restored parameters
** @return func() - Unsubscribe function
**************************************************************************************************/
func (l *Location) Subscribe(fn func(url.Values)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.nextSubID
	l.nextSubID++
	l.subscribers[id] = fn

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.subscribers, id)
	}
}

/**************************************************************************************************
** String renders the current entry as a shareable relative link: the path, plus the encoded
** query when any parameters are set.
**
** @return string - Shareable link
**************************************************************************************************/
func (l *Location) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	encoded := l.current().Encode()
	if encoded == "" {
		return l.path
	}

	var sb strings.Builder
	sb.WriteString(l.path)
	sb.WriteString("?")
	sb.WriteString(encoded)
	return sb.String()
}

/**************************************************************************************************
** Depth reports how many history entries exist. Mostly useful in tests and status displays.
**
** @return int - Number of entries
**************************************************************************************************/
func (l *Location) Depth() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.history)
}

func (l *Location) current() url.Values {
	return l.history[len(l.history)-1]
}

func cloneValues(values url.Values) url.Values {
	clone := url.Values{}
	for key, list := range values {
		clone[key] = append([]string(nil), list...)
	}
	return clone
}
