package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/sirupsen/logrus"
)

/**************************************************************************************************
** TStoredPreference is the subset of the filter selection saved between sessions. Grouping
** toggles are pointers so "never saved" stays distinguishable from "saved as false"; absence
** means the default (enabled) applies.
**************************************************************************************************/
type TStoredPreference struct {
	Event           string `json:"event,omitempty"`           // Selected event id
	Photographer    string `json:"photographer,omitempty"`    // Selected photographer name
	Company         string `json:"company,omitempty"`         // Selected company slug
	Shuffle         string `json:"shuffle,omitempty"`         // Shuffle token, empty = chronological
	GroupDuplicates *bool  `json:"groupDuplicates,omitempty"` // nil = default (enabled)
	GroupScenes     *bool  `json:"groupScenes,omitempty"`     // nil = default (enabled)
}

/**************************************************************************************************
** IsZero reports whether the preference carries nothing worth applying.
**
** @return bool - True when every field is unset
**************************************************************************************************/
func (p TStoredPreference) IsZero() bool {
	return p.Event == "" && p.Photographer == "" && p.Company == "" &&
		p.Shuffle == "" && p.GroupDuplicates == nil && p.GroupScenes == nil
}

/**************************************************************************************************
** FileStore persists the preference as one JSON file under the user config directory. Every
** failure mode is swallowed: a missing, unreadable or corrupt file is the same as no preference,
** and a failed write only logs. Preferences are a convenience, never an error source.
**************************************************************************************************/
type FileStore struct {
	path   string
	logger *logrus.Logger
}

/**************************************************************************************************
** NewFileStore creates a store rooted at the standard user config location. When the config
** directory cannot be resolved the store still works, it just never persists anything.
**
** @param logger - Logger instance for output
** @return *FileStore - Ready to use store
**************************************************************************************************/
func NewFileStore(logger *logrus.Logger) *FileStore {
	configDir, err := os.UserConfigDir()
	if err != nil {
		logger.Debugf("No user config dir, preferences disabled: %v", err)
		return &FileStore{logger: logger}
	}

	return &FileStore{
		path:   filepath.Join(configDir, utils.PreferenceDirName, utils.PreferenceFileName),
		logger: logger,
	}
}

/**************************************************************************************************
** NewFileStoreAt creates a store backed by an explicit file path.
**
** @param path - Preference file path
** @param logger - Logger instance for output
** @return *FileStore - Ready to use store
**************************************************************************************************/
func NewFileStoreAt(path string, logger *logrus.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

/**************************************************************************************************
** Load reads the stored preference. Absent or malformed content yields the zero preference.
**
** @return TStoredPreference - Stored preference, zero value when unavailable
**************************************************************************************************/
func (s *FileStore) Load() TStoredPreference {
	var pref TStoredPreference
	if s.path == "" {
		return pref
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Debugf("Could not read preference file: %v", err)
		}
		return TStoredPreference{}
	}

	if err := json.Unmarshal(data, &pref); err != nil {
		s.logger.Debugf("Ignoring corrupt preference file: %v", err)
		return TStoredPreference{}
	}

	return pref
}

/**************************************************************************************************
** Save overwrites the stored preference. Failures only log.
**
** @param pref - Preference to persist
**************************************************************************************************/
func (s *FileStore) Save(pref TStoredPreference) {
	if s.path == "" {
		return
	}

	data, err := json.MarshalIndent(pref, "", "  ")
	if err != nil {
		s.logger.Debugf("Could not encode preference: %v", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.logger.Debugf("Could not create preference dir: %v", err)
		return
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.logger.Debugf("Could not write preference file: %v", err)
	}
}
