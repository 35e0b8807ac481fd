package nav

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name      string
		rawURL    string
		wantLink  string
		wantEvent string
	}{
		{
			name:      "full link keeps path and query",
			rawURL:    "https://gig.example/photos?event=E1",
			wantLink:  "/photos?event=E1",
			wantEvent: "E1",
		},
		{
			name:      "relative link",
			rawURL:    "/photos?event=E2",
			wantLink:  "/photos?event=E2",
			wantEvent: "E2",
		},
		{
			name:     "bare path",
			rawURL:   "/photos",
			wantLink: "/photos",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			loc, err := ParseLocation(tt.rawURL)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantEvent, loc.Param("event"))
			assert.Equal(t, tt.wantLink, loc.String())
		})
	}
}

func TestReplaceDoesNotGrowHistory(t *testing.T) {
	loc := NewLocation("/photos", nil)

	// Act
	loc.Replace(url.Values{"event": {"E1"}})
	loc.Replace(url.Values{"event": {"E2"}})

	// Assert
	assert.Equal(t, 1, loc.Depth())
	assert.Equal(t, "E2", loc.Param("event"))
	assert.False(t, loc.Back(), "sole entry must not pop")
}

func TestPushAndBack(t *testing.T) {
	loc := NewLocation("/photos", url.Values{"event": {"E1"}})
	var restored url.Values
	loc.Subscribe(func(values url.Values) {
		restored = values
	})

	loc.Push(url.Values{"event": {"E1"}, "photo": {"p5"}})
	require.Equal(t, 2, loc.Depth())

	// Act
	popped := loc.Back()

	// Assert
	assert.True(t, popped)
	assert.Equal(t, 1, loc.Depth())
	require.NotNil(t, restored)
	assert.Equal(t, "E1", restored.Get("event"))
	assert.Empty(t, restored.Get("photo"))
}

func TestSetParamDeletesOnEmpty(t *testing.T) {
	loc := NewLocation("/photos", url.Values{"event": {"E1"}, "photo": {"p5"}})

	// Act
	loc.SetParam("photo", "")
	loc.SetParam("shuffle", "ab12cd34")

	// Assert
	query := loc.Query()
	assert.False(t, query.Has("photo"))
	assert.Equal(t, "ab12cd34", query.Get("shuffle"))
	assert.Equal(t, "E1", query.Get("event"))
}

func TestQueryReturnsCopy(t *testing.T) {
	loc := NewLocation("/photos", url.Values{"event": {"E1"}})

	// Act
	query := loc.Query()
	query.Set("event", "E99")

	// Assert
	assert.Equal(t, "E1", loc.Param("event"), "mutating the copy must not leak back")
}

func TestStringRendersShareableLink(t *testing.T) {
	loc := NewLocation("/photos", nil)
	loc.Replace(url.Values{"event": {"E1"}, "shuffle": {"ab12cd34"}})

	// Act
	link := loc.String()

	// Assert
	assert.Equal(t, "/photos?event=E1&shuffle=ab12cd34", link)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	loc := NewLocation("/photos", nil)
	calls := 0
	unsubscribe := loc.Subscribe(func(url.Values) { calls++ })

	loc.Push(url.Values{"photo": {"p1"}})
	loc.Back()
	require.Equal(t, 1, calls)

	// Act
	unsubscribe()
	loc.Push(url.Values{"photo": {"p2"}})
	loc.Back()

	// Assert
	assert.Equal(t, 1, calls)
}
