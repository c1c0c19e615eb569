package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/trezcool/classflow/core/attendance"
	testutil "github.com/trezcool/classflow/tests"
)

func createRecord(t *testing.T, userID, courseName, isoDate, status string) attendance.AttendanceRecord {
	t.Helper()

	date, err := time.Parse("2006-01-02", isoDate)
	if err != nil {
		t.Fatalf("createRecord() failed: %v", err)
	}
	now := time.Now().UTC()
	rec, err := attRepo.CreateRecord(context.Background(), attendance.AttendanceRecord{
		UserID:     userID,
		CourseName: courseName,
		Date:       date,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("createRecord() failed: %v", err)
	}
	return rec
}

func Test_attendanceApi_mark(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{
				"courseName": requiredText,
				"date":       requiredText,
				"status":     requiredText,
			}),
		},
		{
			name:     "bad date",
			body:     []byte(`{"courseName":"CS101","date":"10/01/2024","status":"present"}`),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"date": "date must be in YYYY-MM-DD format"}),
		},
		{
			name:     "bad status",
			body:     []byte(`{"courseName":"CS101","date":"2024-01-10","status":"awol"}`),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"status": "status must be one of [present absent late excused]"}),
		},
		{
			name:     "mark",
			body:     []byte(`{"courseName":"CS101","date":"2024-01-10","status":"present"}`),
			wantCode: http.StatusCreated,
			extra:    attendance.StatusPresent,
		},
		{
			// marking the same (course, date) again corrects the first record
			name:     "re-mark corrects",
			body:     []byte(`{"courseName":"CS101","date":"2024-01-10","status":"absent","notes":"overslept"}`),
			wantCode: http.StatusOK,
			extra:    attendance.StatusAbsent,
		},
		{
			name:     "another date is a new record",
			body:     []byte(`{"courseName":"CS101","date":"2024-01-11","status":"present"}`),
			wantCode: http.StatusCreated,
			extra:    attendance.StatusPresent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/api/attendance", token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			var resp struct {
				Data attendance.AttendanceRecord `json:"data"`
			}
			decodeBody(t, rec, &resp)
			if resp.Data.Status != tt.extra.(string) {
				t.Errorf("Status = %s, want %s", resp.Data.Status, tt.extra)
			}
		})
	}

	// the upsert left exactly one record for the corrected date
	records, err := attRepo.QueryRecords(context.Background(), usr.ID, &attendance.QueryFilter{CourseName: "CS101"})
	if err != nil {
		t.Fatalf("QueryRecords() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}
	// date descending: 2024-01-11 first
	if got := records[1].Status; got != attendance.StatusAbsent {
		t.Errorf("corrected Status = %s, want %s", got, attendance.StatusAbsent)
	}
	if got := records[1].Notes; got != "overslept" {
		t.Errorf("corrected Notes = %s, want overslept", got)
	}
}

func Test_attendanceApi_query(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	cs1 := createRecord(t, usr.ID, "CS101", "2024-01-10", attendance.StatusPresent)
	cs2 := createRecord(t, usr.ID, "CS101", "2024-01-17", attendance.StatusLate)
	mth := createRecord(t, usr.ID, "MTH101", "2024-01-12", attendance.StatusAbsent)
	createRecord(t, other.ID, "CS101", "2024-01-10", attendance.StatusPresent)

	tests := []httpTest{
		{name: "auth required", path: "/api/attendance", wantCode: http.StatusUnauthorized, wantData: errObj(t, errMissingToken)},
		{
			// date descending; other users' records are invisible
			name: "get all", path: "/api/attendance", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []attendance.AttendanceRecord{cs2, mth, cs1}, 3),
		},
		{
			name: "courseName filter", path: "/api/attendance?courseName=CS101", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []attendance.AttendanceRecord{cs2, cs1}, 2),
		},
		{
			name: "date range", path: "/api/attendance?startDate=2024-01-11&endDate=2024-01-12", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []attendance.AttendanceRecord{mth}, 1),
		},
		{
			name: "by course", path: "/api/attendance/course/CS101", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []attendance.AttendanceRecord{cs2, cs1}, 2),
		},
		{
			name: "by course (none)", path: "/api/attendance/course/PHY101", token: token,
			wantCode: http.StatusOK, wantData: listObj(t, []attendance.AttendanceRecord{}, 0),
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

func Test_attendanceApi_stats(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	// CS101: 3 present, 2 late, 1 absent, 1 excused
	createRecord(t, usr.ID, "CS101", "2024-01-08", attendance.StatusPresent)
	createRecord(t, usr.ID, "CS101", "2024-01-09", attendance.StatusPresent)
	createRecord(t, usr.ID, "CS101", "2024-01-10", attendance.StatusPresent)
	createRecord(t, usr.ID, "CS101", "2024-01-11", attendance.StatusLate)
	createRecord(t, usr.ID, "CS101", "2024-01-12", attendance.StatusLate)
	createRecord(t, usr.ID, "CS101", "2024-01-15", attendance.StatusAbsent)
	createRecord(t, usr.ID, "CS101", "2024-01-16", attendance.StatusExcused)
	// MTH101: 1 present
	createRecord(t, usr.ID, "MTH101", "2024-01-12", attendance.StatusPresent)

	csRecords, err := attRepo.QueryRecords(context.Background(), usr.ID, &attendance.QueryFilter{CourseName: "CS101"})
	if err != nil {
		t.Fatalf("QueryRecords() failed: %v", err)
	}
	allRecords, err := attRepo.QueryRecords(context.Background(), usr.ID, nil)
	if err != nil {
		t.Fatalf("QueryRecords() failed: %v", err)
	}

	tests := []httpTest{
		{
			name: "course stats", path: "/api/attendance/stats/CS101", token: token,
			wantCode: http.StatusOK, wantData: dataObj(t, attendance.ComputeCourseStats(csRecords)),
		},
		{
			name: "all stats", path: "/api/attendance/stats", token: token,
			wantCode: http.StatusOK, wantData: dataObj(t, attendance.ComputeAllStats(allRecords)),
		},
		{
			name: "unknown course", path: "/api/attendance/stats/PHY101", token: token,
			wantCode: http.StatusOK, wantData: dataObj(t, attendance.ComputeCourseStats(nil)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	// fixed-point percentages: 3/7 present, (3+2)/7 with late
	req, rec := newAuthRequest(http.MethodGet, "/api/attendance/stats/CS101", token)
	app.ServeHTTP(rec, req)
	body := rec.Body.String()
	if !strings.Contains(body, `"attendancePercentage":"42.86"`) {
		t.Errorf("attendancePercentage not rendered as fixed-point string: %s", body)
	}
	if !strings.Contains(body, `"presentWithLatePercentage":"71.43"`) {
		t.Errorf("presentWithLatePercentage not rendered as fixed-point string: %s", body)
	}

	// empty stats render percentages as bare zeros
	req, rec = newAuthRequest(http.MethodGet, "/api/attendance/stats/PHY101", token)
	app.ServeHTTP(rec, req)
	if body := rec.Body.String(); !strings.Contains(body, `"attendancePercentage":0`) {
		t.Errorf("empty attendancePercentage not rendered as bare zero: %s", body)
	}
}

func Test_attendanceApi_update(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	rec1 := createRecord(t, usr.ID, "CS101", "2024-01-10", attendance.StatusPresent)
	createRecord(t, usr.ID, "CS101", "2024-01-11", attendance.StatusPresent)

	tests := []httpTest{
		{
			name: "not owner", path: "/api/attendance/" + rec1.ID, token: getToken(t, other),
			body: []byte(`{"status":"absent"}`), wantCode: http.StatusNotFound,
			wantData: errObj(t, "attendance record not found"),
		},
		{
			name: "bad status", path: "/api/attendance/" + rec1.ID, token: token,
			body: []byte(`{"status":"awol"}`), wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"status": "status must be one of [present absent late excused]"}),
		},
		{
			// moving onto another record's (course, date) key is a conflict
			name: "key conflict", path: "/api/attendance/" + rec1.ID, token: token,
			body: []byte(`{"date":"2024-01-11"}`), wantCode: http.StatusConflict,
			wantData: errObj(t, "attendance for this course and date already exists"),
		},
		{
			name: "update", path: "/api/attendance/" + rec1.ID, token: token,
			body: []byte(`{"status":"excused","notes":"doctor's note"}`), wantCode: http.StatusOK,
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
			refreshed, err := attRepo.GetRecord(context.Background(), rec1.ID, usr.ID)
			if err != nil {
				t.Fatalf("GetRecord() failed: %v", err)
			}
			if refreshed.Status != attendance.StatusExcused {
				t.Errorf("Status = %s, want %s", refreshed.Status, attendance.StatusExcused)
			}
			if refreshed.Notes != "doctor's note" {
				t.Errorf("Notes = %s, want doctor's note", refreshed.Notes)
			}
		})
	}
}

func Test_attendanceApi_destroy(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "LamePass123", true)

	rec1 := createRecord(t, usr.ID, "CS101", "2024-01-10", attendance.StatusPresent)
	notFound := errObj(t, "attendance record not found")

	tests := []httpTest{
		{name: "not owner", path: "/api/attendance/" + rec1.ID, token: getToken(t, other), wantCode: http.StatusNotFound, wantData: notFound},
		{
			name: "delete", path: "/api/attendance/" + rec1.ID, token: getToken(t, usr),
			wantCode: http.StatusOK, wantData: msgObj(t, "attendance record deleted"),
		},
		{name: "already gone", path: "/api/attendance/" + rec1.ID, token: getToken(t, usr), wantCode: http.StatusNotFound, wantData: notFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
