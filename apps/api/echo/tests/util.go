package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/trezcool/classflow/apps/api/echo"
	"github.com/trezcool/classflow/core"
	"github.com/trezcool/classflow/core/attendance"
	"github.com/trezcool/classflow/core/category"
	"github.com/trezcool/classflow/core/event"
	"github.com/trezcool/classflow/core/timetable"
	"github.com/trezcool/classflow/core/user"
	emailsvc "github.com/trezcool/classflow/services/email"
	logsvc "github.com/trezcool/classflow/services/logger"
	dummydb "github.com/trezcool/classflow/storage/database/dummy"
	testutil "github.com/trezcool/classflow/tests"
)

var (
	app  Server
	conf *core.Config

	usrRepo user.Repository
	catRepo category.Repository
	evtRepo event.Repository
	ttRepo  timetable.Repository
	attRepo attendance.Repository

	errMissingToken = "missing or malformed jwt"
)

// setup rebuilds the whole app on a fresh in-memory store.
func setup(t *testing.T) {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	usrRepo = dummydb.NewUserRepository(db)
	catRepo = dummydb.NewCategoryRepository(db)
	evtRepo = dummydb.NewEventRepository(db)
	ttRepo = dummydb.NewTimetableRepository(db)
	attRepo = dummydb.NewAttendanceRepository(db)

	conf = testutil.NewConfig()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)

	usrSvc := user.NewServiceMock(usrRepo, mailSvc, conf)
	catSvc := category.NewService(catRepo)
	evtSvc := event.NewService(evtRepo, catRepo)
	ttSvc := timetable.NewService(ttRepo, catRepo)
	attSvc := attendance.NewService(attRepo)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	app = NewServer(&Options{
		DisableReqLogs: true,
		Conf:           conf,
		Logger:         logger,
		Validate:       validate,
		Translator:     translator,
		SignalShutdown: func() {},
		UserSvc:        usrSvc,
		CategorySvc:    catSvc,
		EventSvc:       evtSvc,
		TimetableSvc:   ttSvc,
		AttendanceSvc:  attSvc,
	})
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

// response mirrors the API envelope for both success and error payloads.
type response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message interface{} `json:"message,omitempty"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func dataObj(t *testing.T, data interface{}) []byte {
	return marchallObj(t, response{Success: true, Data: data})
}

func listObj(t *testing.T, data interface{}, count int) []byte {
	return marchallObj(t, response{Success: true, Count: &count, Data: data})
}

func msgObj(t *testing.T, msg string) []byte {
	return marchallObj(t, response{Success: true, Message: msg})
}

func errObj(t *testing.T, message interface{}) []byte {
	return marchallObj(t, response{Success: false, Message: message})
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decodeBody() failed: %v; body %s", err, rec.Body.String())
	}
}
