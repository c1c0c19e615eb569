package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/classflow/core/event"
	testutil "github.com/trezcool/classflow/tests"
)

func createEvent(t *testing.T, userID, title, classification string, start time.Time, completed bool) event.Event {
	t.Helper()

	now := time.Now().UTC()
	evt, err := evtRepo.CreateEvent(context.Background(), event.Event{
		UserID:         userID,
		Title:          title,
		Classification: classification,
		StartTime:      start.UTC(),
		IsCompleted:    completed,
		Priority:       event.PriorityMedium,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		t.Fatalf("createEvent() failed: %v", err)
	}
	return evt
}

func date(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func Test_eventApi_query(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	maths := createEvent(t, usr.ID, "Maths lecture", event.ClassificationClass, date(2024, time.March, 10, 9, 0), false)
	essay := createEvent(t, usr.ID, "Essay due", event.ClassificationAssignment, date(2024, time.March, 11, 23, 30), true)
	exam := createEvent(t, usr.ID, "Final exam", event.ClassificationExam, date(2024, time.March, 12, 10, 0), false)
	createEvent(t, other.ID, "Secret", event.ClassificationPersonal, date(2024, time.March, 10, 9, 0), false)

	empty := listObj(t, []event.Event{}, 0)

	tests := []httpTest{
		{name: "auth required", path: "/api/events", wantCode: http.StatusUnauthorized, wantData: errObj(t, errMissingToken)},
		{
			// sorted by start time; other users' events are invisible
			name: "get all", path: "/api/events", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{maths, essay, exam}, 3),
		},
		{
			name: "classification=class", path: "/api/events?classification=class", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{maths}, 1),
		},
		{
			name: "combo (empty)", path: "/api/events?classification=class&isCompleted=true", token: token,
			wantCode: http.StatusOK, wantData: empty,
		},
		{
			name: "isCompleted=true", path: "/api/events?isCompleted=true", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{essay}, 1),
		},
		{
			name: "isCompleted=false", path: "/api/events?isCompleted=false", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{maths, exam}, 2),
		},
		{
			// the range covers end date's whole day
			name: "date range", path: "/api/events?startDate=2024-03-10&endDate=2024-03-11", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{maths, essay}, 2),
		},
		{
			// a partial pair does not narrow the listing
			name: "partial range is ignored", path: "/api/events?startDate=2024-03-12", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{maths, essay, exam}, 3),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_queryRange(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	maths := createEvent(t, usr.ID, "Maths lecture", event.ClassificationClass, date(2024, time.March, 10, 9, 0), false)
	createEvent(t, usr.ID, "Final exam", event.ClassificationExam, date(2024, time.March, 12, 10, 0), false)

	rangeRequired := errObj(t, "startDate and endDate are required")

	tests := []httpTest{
		{name: "both bounds required", path: "/api/events/range", token: token, wantCode: http.StatusBadRequest, wantData: rangeRequired},
		{
			name: "startDate alone is not enough", path: "/api/events/range?startDate=2024-03-10", token: token,
			wantCode: http.StatusBadRequest, wantData: rangeRequired,
		},
		{
			name: "bad date", path: "/api/events/range?startDate=lol&endDate=2024-03-11", token: token,
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"startDate": "invalid date, expected YYYY-MM-DD"}),
		},
		{
			name: "range", path: "/api/events/range?startDate=2024-03-10&endDate=2024-03-11", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{maths}, 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_queryDay(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	early := createEvent(t, usr.ID, "Morning class", event.ClassificationClass, date(2024, time.March, 10, 0, 0), false)
	late := createEvent(t, usr.ID, "Midnight oil", event.ClassificationPersonal, date(2024, time.March, 10, 23, 59), false)
	createEvent(t, usr.ID, "Next day", event.ClassificationClass, date(2024, time.March, 11, 0, 0), false)

	tests := []httpTest{
		{
			name: "bad date", path: "/api/events/day/lol", token: token, wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"date": "invalid date, expected YYYY-MM-DD"}),
		},
		{
			// day bounds are inclusive
			name: "day", path: "/api/events/day/2024-03-10", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{early, late}, 2),
		},
		{
			name: "empty day", path: "/api/events/day/2024-03-09", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{}, 0),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_queryUpcoming(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	now := time.Now().UTC()
	soon := createEvent(t, usr.ID, "Essay due", event.ClassificationAssignment, now.Add(24*time.Hour), false)
	later := createEvent(t, usr.ID, "Final exam", event.ClassificationExam, now.Add(48*time.Hour), false)
	createEvent(t, usr.ID, "Past deadline", event.ClassificationDeadline, now.Add(-24*time.Hour), false)
	createEvent(t, usr.ID, "Done already", event.ClassificationDeadline, now.Add(24*time.Hour), true)
	createEvent(t, usr.ID, "Just a class", event.ClassificationClass, now.Add(24*time.Hour), false)

	tests := []httpTest{
		{
			name: "bad limit", path: "/api/events/upcoming?limit=lol", token: token,
			wantCode: http.StatusBadRequest, wantData: errObj(t, map[string]string{"limit": "invalid limit"}),
		},
		{
			// only pending tasks, soonest first
			name: "upcoming", path: "/api/events/upcoming", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{soon, later}, 2),
		},
		{
			name: "limit", path: "/api/events/upcoming?limit=1", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []event.Event{soon}, 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_stats(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	now := time.Now().UTC()
	createEvent(t, usr.ID, "Maths lecture", event.ClassificationClass, now, false)
	createEvent(t, usr.ID, "Essay due", event.ClassificationAssignment, now, false)
	createEvent(t, usr.ID, "Standup", event.ClassificationMeeting, now, false)
	createEvent(t, usr.ID, "Gym", event.ClassificationPersonal, now, false) // counted in total only
	createEvent(t, usr.ID, "Yesterday", event.ClassificationExam, now.Add(-24*time.Hour), false)

	tt := httpTest{
		wantCode: http.StatusOK,
		wantData: dataObj(t, event.TodayStats{Classes: 1, Assignments: 1, Meetings: 1, Total: 4}),
	}
	req, rec := newAuthRequest(http.MethodGet, "/api/events/stats/today", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_eventApi_dayCounts(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	createEvent(t, usr.ID, "Maths lecture", event.ClassificationClass, date(2024, time.March, 10, 9, 0), false)
	createEvent(t, usr.ID, "Essay due", event.ClassificationAssignment, date(2024, time.March, 10, 23, 30), false)

	tests := []httpTest{
		{
			name: "counts", path: "/api/events/counts/2024-03-10", token: token,
			wantCode: http.StatusOK, wantData: dataObj(t, event.DayCounts{Events: 1, Tasks: 1, Total: 2}),
		},
		{
			name: "empty day", path: "/api/events/counts/2024-03-09", token: token,
			wantCode: http.StatusOK, wantData: dataObj(t, event.DayCounts{}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_create(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	token := getToken(t, usr)
	cat := createCategory(t, usr.ID, "School", "#00ff00")

	tests := []httpTest{
		{
			name: "empty payload", token: token, body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{
				"title":          requiredText,
				"classification": requiredText,
				"startTime":      requiredText,
			}),
		},
		{
			name:     "bad classification",
			token:    token,
			body:     []byte(`{"title":"Party","classification":"rave","startTime":"2024-03-10T21:00:00Z"}`),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{
				"classification": "classification must be one of [class exam assignment deadline meeting personal other]",
			}),
		},
		{
			name:  "create",
			token: token,
			body: []byte(`{"title":"Maths lecture","classification":"class","categoryId":"` + cat.ID +
				`","startTime":"2024-03-10T09:00:00Z","location":"Room 4"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/events", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var resp struct {
				Data event.Event `json:"data"`
			}
			decodeBody(t, rec, &resp)
			if resp.Data.ID == "" {
				t.Error("no ID in response")
			}
			if resp.Data.Priority != event.PriorityMedium { // defaulted
				t.Errorf("Priority = %s, want %s", resp.Data.Priority, event.PriorityMedium)
			}
			if resp.Data.Category == nil || resp.Data.Category.Name != cat.Name {
				t.Errorf("category ref was not attached: %+v", resp.Data.Category)
			}
		})
	}
}

func Test_eventApi_retrieve(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "LamePass123", true)

	evt := createEvent(t, usr.ID, "Maths lecture", event.ClassificationClass, date(2024, time.March, 10, 9, 0), false)
	notFound := errObj(t, "event not found")

	tests := []httpTest{
		{name: "retrieve", path: "/api/events/" + evt.ID, token: getToken(t, usr), wantCode: http.StatusOK, wantData: dataObj(t, evt)},
		{name: "unknown id", path: "/api/events/lol", token: getToken(t, usr), wantCode: http.StatusNotFound, wantData: notFound},
		{
			name: "not owner", path: "/api/events/" + evt.ID, token: getToken(t, other),
			wantCode: http.StatusNotFound, wantData: notFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_eventApi_update(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	evt := createEvent(t, usr.ID, "Maths lecture", event.ClassificationClass, date(2024, time.March, 10, 9, 0), false)

	tests := []httpTest{
		{
			name: "not owner", path: "/api/events/" + evt.ID, token: getToken(t, other),
			body: []byte(`{"title":"Hacked"}`), wantCode: http.StatusNotFound, wantData: errObj(t, "event not found"),
		},
		{
			name: "bad priority", path: "/api/events/" + evt.ID, token: token,
			body: []byte(`{"priority":"now"}`), wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"priority": "priority must be one of [low medium high critical]"}),
		},
		{
			// partial update leaves the other fields untouched
			name: "update", path: "/api/events/" + evt.ID, token: token,
			body: []byte(`{"title":"Maths tutorial","priority":"high"}`), wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			refreshed, err := evtRepo.GetEvent(context.Background(), evt.ID, usr.ID)
			if err != nil {
				t.Fatalf("GetEvent() failed: %v", err)
			}
			if refreshed.Title != "Maths tutorial" {
				t.Errorf("Title = %s, want Maths tutorial", refreshed.Title)
			}
			if refreshed.Priority != event.PriorityHigh {
				t.Errorf("Priority = %s, want %s", refreshed.Priority, event.PriorityHigh)
			}
			if !refreshed.StartTime.Equal(evt.StartTime) {
				t.Errorf("StartTime changed: %v", refreshed.StartTime)
			}
		})
	}
}

func Test_eventApi_toggleComplete(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	evt := createEvent(t, usr.ID, "Essay due", event.ClassificationAssignment, date(2024, time.March, 11, 23, 30), false)

	t.Run("not owner", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/api/events/"+evt.ID+"/complete", getToken(t, other))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: errObj(t, "event not found")}, rec)
	})

	for _, want := range []bool{true, false} { // toggles back and forth
		req, rec := newAuthRequest(http.MethodPatch, "/api/events/"+evt.ID+"/complete", token)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Data event.Event `json:"data"`
		}
		decodeBody(t, rec, &resp)
		if resp.Data.IsCompleted != want {
			t.Errorf("IsCompleted = %v, want %v", resp.Data.IsCompleted, want)
		}
	}
}

func Test_eventApi_destroy(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "LamePass123", true)

	evt := createEvent(t, usr.ID, "Maths lecture", event.ClassificationClass, date(2024, time.March, 10, 9, 0), false)
	notFound := errObj(t, "event not found")

	tests := []httpTest{
		{name: "not owner", path: "/api/events/" + evt.ID, token: getToken(t, other), wantCode: http.StatusNotFound, wantData: notFound},
		{name: "delete", path: "/api/events/" + evt.ID, token: getToken(t, usr), wantCode: http.StatusOK, wantData: msgObj(t, "event deleted")},
		{name: "already gone", path: "/api/events/" + evt.ID, token: getToken(t, usr), wantCode: http.StatusNotFound, wantData: notFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
