// Package calendar implements the Google Calendar adapter. Events of the
// primary calendar become meeting memories.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/google"
	"github.com/heartmarshall/flipflop-backend/internal/adapter/provider/oauth"
	"github.com/heartmarshall/flipflop-backend/internal/domain"
)

var (
	// Made variables for testing purposes
	apiBaseURL = "https://www.googleapis.com/calendar/v3"
)

const (
	maxPageSize    = 250
	lookbackWindow = 30 * 24 * time.Hour
)

var scopes = []string{
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/userinfo.email",
}

// Adapter is the Google Calendar provider adapter.
type Adapter struct {
	*google.OAuth
	app    provider.App
	client *oauth.Client
	log    *slog.Logger
	now    func() time.Time
}

// New creates a Calendar adapter.
func New(client *oauth.Client, logger *slog.Logger, app provider.App) *Adapter {
	return &Adapter{
		OAuth:  google.NewOAuth(client, logger, app.ClientID, app.ClientSecret, app.RedirectURI, scopes...),
		app:    app,
		client: client,
		log:    logger.With("adapter", "calendar"),
		now:    time.Now,
	}
}

func (a *Adapter) Type() domain.IntegrationType { return domain.IntegrationCalendar }

type eventsResponse struct {
	Items         []json.RawMessage `json:"items"`
	NextPageToken string            `json:"nextPageToken"`
}

// Fetch lists events of settings.calendarId (default primary) updated within
// the lookback window.
func (a *Adapter) Fetch(ctx context.Context, creds domain.Credentials, settings map[string]any, cursor string) (provider.Page, error) {
	calendarID := provider.StringSetting(settings, "calendarId")
	if calendarID == "" {
		calendarID = "primary"
	}

	q := url.Values{}
	q.Set("maxResults", strconv.Itoa(a.app.Limit(maxPageSize)))
	q.Set("orderBy", "updated")
	q.Set("updatedMin", a.now().Add(-lookbackWindow).UTC().Format(time.RFC3339))
	q.Set("singleEvents", "true")
	if cursor != "" {
		q.Set("pageToken", cursor)
	}

	var resp eventsResponse
	err := a.client.JSON(ctx, oauth.Request{
		URL:   apiBaseURL + "/calendars/" + url.PathEscape(calendarID) + "/events?" + q.Encode(),
		Token: creds.AccessToken,
	}, &resp)
	if err != nil {
		return provider.Page{}, fmt.Errorf("calendar.Fetch: %w", err)
	}
	return provider.Page{Items: resp.Items, Next: resp.NextPageToken}, nil
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

func (t eventTime) time() time.Time {
	if ts, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
		return ts.UTC()
	}
	if d, err := time.Parse(time.DateOnly, t.Date); err == nil {
		return d.UTC()
	}
	return time.Time{}
}

type event struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	HTMLLink    string    `json:"htmlLink"`
	Location    string    `json:"location"`
	Start       eventTime `json:"start"`
	End         eventTime `json:"end"`
	Updated     time.Time `json:"updated"`
	Organizer   struct {
		Email string `json:"email"`
	} `json:"organizer"`
	Attendees []struct {
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	} `json:"attendees"`
}

// Extract maps an event to a meeting memory of its summary, description
// and attendees. Cancelled and untitled events are skipped.
func (a *Adapter) Extract(raw json.RawMessage, _ map[string]any) (domain.MemoryDraft, error) {
	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return domain.MemoryDraft{}, fmt.Errorf("calendar.Extract: %w", err)
	}
	summary := strings.TrimSpace(ev.Summary)
	if ev.Status == "cancelled" || summary == "" {
		return domain.MemoryDraft{}, provider.ErrSkip
	}

	attendees := make([]string, 0, len(ev.Attendees))
	names := make([]string, 0, len(ev.Attendees))
	for _, at := range ev.Attendees {
		if at.Email == "" {
			continue
		}
		attendees = append(attendees, at.Email)
		if at.DisplayName != "" {
			names = append(names, at.DisplayName)
		} else {
			names = append(names, at.Email)
		}
	}

	parts := []string{summary}
	if d := strings.TrimSpace(ev.Description); d != "" {
		parts = append(parts, d)
	}
	if len(names) > 0 {
		parts = append(parts, "Attendees: "+strings.Join(names, ", "))
	}

	ts := ev.Start.time()
	if ts.IsZero() {
		ts = ev.Updated
	}

	metadata := map[string]any{"status": ev.Status}
	if end := ev.End.time(); !end.IsZero() {
		metadata["end"] = end.Format(time.RFC3339)
	}
	if ev.Location != "" {
		metadata["location"] = ev.Location
	}

	return domain.MemoryDraft{
		Content:      strings.Join(parts, "\n\n"),
		Type:         domain.MemoryTypeMeeting,
		Source:       string(domain.IntegrationCalendar),
		SourceID:     provider.Ptr("gcal-" + ev.ID),
		SourceURL:    provider.Ptr(ev.HTMLLink),
		Author:       provider.Ptr(ev.Organizer.Email),
		Participants: attendees,
		Timestamp:    ts,
		Metadata:     metadata,
	}, nil
}
