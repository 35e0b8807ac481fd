package gallery

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/majorfi/gig-gallery/pkg/utils"
	"github.com/sirupsen/logrus"
)

// HTTP client configuration constants
const (
	defaultHTTPTimeout  = 30 * time.Second
	maxIdleConns        = 100
	maxIdleConnsPerHost = 100
	idleConnTimeout     = 90 * time.Second
	retryBaseDelay      = 500 * time.Millisecond
	maxRetries          = 3
)

/**************************************************************************************************
** ErrNotFound is returned when the server reports that a photo id does not exist. Callers use
** it to distinguish a dead deep link from a transport failure.
**************************************************************************************************/
var ErrNotFound = errors.New("photo not found")

/**************************************************************************************************
** Client talks to the site's Photo Query API and its admin side-channel endpoints. Responses
** are validated against the expected schema before they are handed to any cache, so a
** misbehaving server can never silently corrupt browsing state.
**************************************************************************************************/
type Client struct {
	client     *http.Client
	apiURL     string
	adminToken string
	dryRun     bool
	logger     *logrus.Logger
	validate   *validator.Validate
}

/**************************************************************************************************
** NewClient creates a new Photo Query API client with standard http package implementation.
** It configures the client with retry logic and proper headers.
**
** @param apiURL - Base URL of the gallery site
** @param adminToken - Bearer token for admin endpoints, empty for public browsing
** @param dryRun - Whether admin mutations only log instead of applying
** @param logger - Logger instance for output
** @return *Client - Configured client instance, nil on invalid input
**************************************************************************************************/
func NewClient(apiURL, adminToken string, dryRun bool, logger *logrus.Logger) *Client {
	if apiURL == "" {
		return nil
	}

	if logger == nil {
		return nil
	}

	parsedURL, err := url.Parse(apiURL)
	if err != nil || parsedURL.Host == "" {
		return nil
	}

	baseURL := fmt.Sprintf("%s://%s/api", parsedURL.Scheme, parsedURL.Host)

	client := &http.Client{
		Timeout: defaultHTTPTimeout,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
		},
	}

	return &Client{
		client:     client,
		apiURL:     baseURL,
		adminToken: adminToken,
		dryRun:     dryRun,
		logger:     logger,
		validate:   validator.New(),
	}
}

/**************************************************************************************************
** IsDryRun reports whether admin mutations only log instead of applying. Callers use it to
** decide whether a successful mutation should also be mirrored into local caches.
**
** @return bool - Whether dry run mode is active
**************************************************************************************************/
func (c *Client) IsDryRun() bool {
	return c.dryRun
}

/**************************************************************************************************
** doRequest handles the HTTP request with retry logic and proper error handling.
** It's a helper function to reduce code duplication across API calls. The request is rebuilt
** on every attempt so a consumed body reader can never poison a retry.
**
** @param method - HTTP method (GET, POST, etc.)
** @param path - API endpoint path including any encoded query string
** @param body - Request body (optional)
** @param result - Pointer to store response data
** @return error - Any error that occurred during the request
**************************************************************************************************/
func (c *Client) doRequest(method, path string, body interface{}, result interface{}) error {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error marshaling request body: %w", err)
		}
	}

	for i := 0; i < maxRetries; i++ {
		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequest(method, c.apiURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("error creating request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if c.adminToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.adminToken)
		}
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if i == maxRetries-1 {
				return fmt.Errorf("error making request after %d retries: %w", maxRetries, err)
			}
			time.Sleep(retryBaseDelay * time.Duration(i+1))
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if result != nil {
				if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
					resp.Body.Close()
					return fmt.Errorf("error decoding response: %w", err)
				}
			}
			resp.Body.Close()
			return nil
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", resp.Status, ErrNotFound)
		}
		return fmt.Errorf("error response: %s - %s", resp.Status, string(respBody))
	}

	return fmt.Errorf("failed after %d retries", maxRetries)
}

/**************************************************************************************************
** FetchPhotos retrieves one page of photos for the given query. The decoded response is
** validated against the expected schema; a shape mismatch is rejected here rather than being
** allowed to corrupt the page cache.
**
** @param q - Page request (filters, page, sort mode, grouping)
** @return *utils.TPhotoQueryResponse - Validated page response
** @return error - Any error that occurred during the fetch
**************************************************************************************************/
func (c *Client) FetchPhotos(q Query) (*utils.TPhotoQueryResponse, error) {
	c.logger.Debugf("📸 Fetching photos page %d (shuffle=%q groupTypes=%v skipMeta=%v)", q.Page, q.ShuffleToken, q.GroupTypes, q.SkipMeta)

	var response utils.TPhotoQueryResponse
	if err := c.doRequest(http.MethodGet, "/photos?"+q.Values().Encode(), nil, &response); err != nil {
		c.logger.Errorf("Error fetching photos: %v", err)
		return nil, fmt.Errorf("error fetching photos: %w", err)
	}

	if err := c.validate.Struct(&response); err != nil {
		c.logger.Errorf("Rejected malformed photo response: %v", err)
		return nil, fmt.Errorf("malformed photo response: %w", err)
	}

	c.logger.Debugf("📸 Page %d: %d photos of %d total", response.Pagination.Page, len(response.Photos), response.Pagination.Total)
	return &response, nil
}

/**************************************************************************************************
** FetchPhoto retrieves a single photo by id. Used when a deep-linked photo is not present in
** the currently loaded page window. Returns ErrNotFound (wrapped) for a dead link.
**
** @param id - Photo identifier
** @return *utils.TPhoto - Validated photo record
** @return error - Any error that occurred during the fetch
**************************************************************************************************/
func (c *Client) FetchPhoto(id string) (*utils.TPhoto, error) {
	if id == "" {
		return nil, fmt.Errorf("empty photo id")
	}

	var photo utils.TPhoto
	if err := c.doRequest(http.MethodGet, "/photos/"+url.PathEscape(id), nil, &photo); err != nil {
		return nil, fmt.Errorf("error fetching photo %s: %w", id, err)
	}

	if err := c.validate.Struct(&photo); err != nil {
		c.logger.Errorf("Rejected malformed photo record: %v", err)
		return nil, fmt.Errorf("malformed photo record: %w", err)
	}

	return &photo, nil
}

/**************************************************************************************************
** GetSession fetches the viewer's session, whose IsAdmin flag gates every admin control.
** A missing or anonymous session is not an error; the server answers with isAdmin=false.
**
** @return utils.TSession - Session info for the current token
** @return error - Any error that occurred during the fetch
**************************************************************************************************/
func (c *Client) GetSession() (utils.TSession, error) {
	var session utils.TSession
	if err := c.doRequest(http.MethodGet, "/session", nil, &session); err != nil {
		c.logger.Errorf("Error fetching session: %v", err)
		return session, fmt.Errorf("error fetching session: %w", err)
	}
	return session, nil
}

/**************************************************************************************************
** DeletePhoto removes a photo via the admin side-channel. In dry run mode, it only logs the
** action without making changes.
**
** @param id - Photo identifier
** @return error - Any error that occurred during deletion
**************************************************************************************************/
func (c *Client) DeletePhoto(id string) error {
	if c.dryRun {
		c.logger.Warnf("🗑️  Would delete photo %s (dry run)", id)
		return nil
	}

	if err := c.doRequest(http.MethodDelete, "/photos/"+url.PathEscape(id), nil, nil); err != nil {
		c.logger.Errorf("Error deleting photo: %v", err)
		return fmt.Errorf("error deleting photo: %w", err)
	}

	c.logger.Infof("🗑️  Deleted photo %s", id)
	return nil
}

/**************************************************************************************************
** UpdatePhoto applies an admin metadata edit and returns the updated record so callers can
** merge it back into their caches in place. Dry run returns the input unchanged.
**
** @param id - Photo identifier
** @param update - Partial metadata update
** @return *utils.TPhoto - Updated photo record
** @return error - Any error that occurred during the update
**************************************************************************************************/
func (c *Client) UpdatePhoto(id string, update utils.TPhotoUpdate) (*utils.TPhoto, error) {
	if c.dryRun {
		c.logger.Infof("✏️  Would update photo %s (dry run)", id)
		return nil, nil
	}

	var photo utils.TPhoto
	if err := c.doRequest(http.MethodPatch, "/photos/"+url.PathEscape(id), update, &photo); err != nil {
		c.logger.Errorf("Error updating photo: %v", err)
		return nil, fmt.Errorf("error updating photo %s: %w", id, err)
	}

	c.logger.Infof("✏️  Updated photo %s", id)
	return &photo, nil
}

/**************************************************************************************************
** ToggleLabel flips a hero-placement tag on a photo and returns the updated record.
**
** @param id - Photo identifier
** @param label - Tag to toggle
** @return *utils.TPhoto - Updated photo record
** @return error - Any error that occurred during the update
**************************************************************************************************/
func (c *Client) ToggleLabel(id, label string) (*utils.TPhoto, error) {
	if c.dryRun {
		c.logger.Infof("🏷️  Would toggle label %q on photo %s (dry run)", label, id)
		return nil, nil
	}

	var photo utils.TPhoto
	if err := c.doRequest(http.MethodPost, "/photos/"+url.PathEscape(id)+"/labels", map[string]string{
		"label": label,
	}, &photo); err != nil {
		c.logger.Errorf("Error toggling label: %v", err)
		return nil, fmt.Errorf("error toggling label on photo %s: %w", id, err)
	}

	c.logger.Infof("🏷️  Toggled label %q on photo %s", label, id)
	return &photo, nil
}

/**************************************************************************************************
** CropPhoto stores a hero crop for one of the supported aspect ratios and returns the updated
** record. The aspect must be one of utils.CropAspects; anything else is rejected locally.
**
** @param id - Photo identifier
** @param box - Crop request (aspect plus pixel box)
** @return *utils.TPhoto - Updated photo record
** @return error - Any error that occurred during the update
**************************************************************************************************/
func (c *Client) CropPhoto(id string, box utils.TCropBox) (*utils.TPhoto, error) {
	if !utils.Contains(utils.CropAspects, box.Aspect) {
		return nil, fmt.Errorf("unsupported crop aspect %q", box.Aspect)
	}

	if c.dryRun {
		c.logger.Infof("✂️  Would crop photo %s to %s (dry run)", id, box.Aspect)
		return nil, nil
	}

	var photo utils.TPhoto
	if err := c.doRequest(http.MethodPost, "/photos/"+url.PathEscape(id)+"/crop", box, &photo); err != nil {
		c.logger.Errorf("Error cropping photo: %v", err)
		return nil, fmt.Errorf("error cropping photo %s: %w", id, err)
	}

	c.logger.Infof("✂️  Cropped photo %s to %s", id, box.Aspect)
	return &photo, nil
}

/**************************************************************************************************
** TrackEvent emits an analytics event without waiting for the response. Failures are logged at
** debug level only; analytics must never affect browsing.
**
** @param event - Event to emit
**************************************************************************************************/
func (c *Client) TrackEvent(event utils.TAnalyticsEvent) {
	go func() {
		if err := c.doRequest(http.MethodPost, "/analytics/events", event, nil); err != nil {
			c.logger.Debugf("Analytics event %q dropped: %v", event.Name, err)
		}
	}()
}

/**************************************************************************************************
** DownloadImage fetches raw image bytes from an absolute media URL using the client's pooled
** transport. Used by the terminal preview; media URLs live on the CDN host, not under the API
** base, so this bypasses doRequest.
**
** @param rawURL - Absolute image URL
** @return []byte - Image bytes
** @return error - Any error that occurred during the download
**************************************************************************************************/
func (c *Client) DownloadImage(rawURL string) ([]byte, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("empty image url")
	}

	resp, err := c.client.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("error downloading image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("error response downloading image: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading image body: %w", err)
	}
	return data, nil
}
