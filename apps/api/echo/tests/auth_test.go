package tests

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/trezcool/classflow/core/user"
	emailsvc "github.com/trezcool/classflow/services/email"
	testutil "github.com/trezcool/classflow/tests"
)

const (
	passwordResetMessage = "If the email address supplied is associated with an active account on this system, " +
		"an email will arrive in your inbox shortly with instructions to reset your password."
	requiredText = "this field is required"
)

type authData struct {
	User  user.User `json:"user"`
	Token string    `json:"token"`
}

type authResponse struct {
	Success bool     `json:"success"`
	Data    authData `json:"data"`
}

func Test_authApi_register(t *testing.T) {
	setup(t)

	existing := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)

	tests := []httpTest{
		{
			name: "empty payload", body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{
				"name":            requiredText,
				"email":           requiredText,
				"password":        requiredText,
				"passwordConfirm": requiredText,
			}),
		},
		{
			name:     "invalid email",
			body:     []byte(`{"name":"Hero","email":"lol","password":"LamePass123","passwordConfirm":"LamePass123"}`),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{
			name:     "email taken",
			body:     []byte(`{"name":"Hero","email":"` + existing.Email + `","password":"LamePass123","passwordConfirm":"LamePass123"}`),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
		{
			name:     "register",
			body:     []byte(`{"name":"Hero","email":"Hero@Test.CD","password":"LamePass123","passwordConfirm":"LamePass123"}`),
			wantCode: http.StatusCreated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/register", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			var resp authResponse
			decodeBody(t, rec, &resp)
			if resp.Data.Token == "" {
				t.Error("no token in response")
			}
			if resp.Data.User.ID == "" {
				t.Error("no user ID in response")
			}
			if resp.Data.User.Email != "hero@test.cd" { // cleaned & lowered
				t.Errorf("Email = %s, want hero@test.cd", resp.Data.User.Email)
			}
			usr, err := usrRepo.GetUserByEmail(context.Background(), "hero@test.cd")
			if err != nil {
				t.Fatalf("GetUserByEmail() failed: %v", err)
			}
			if err := usr.CheckPassword("LamePass123"); err != nil {
				t.Error("password was not set")
			}
		})
	}
}

func Test_authApi_login(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	testutil.CreateUser(t, usrRepo, "N Dog", "ndog@test.cd", "LamePass123", false)

	tests := []httpTest{
		{
			name: "missing password", body: []byte(`{"email":"awe@test.cd"}`),
			wantCode: http.StatusBadRequest, wantData: errObj(t, map[string]string{"password": requiredText}),
		},
		{
			name: "unknown email", body: []byte(`{"email":"lol@test.cd","password":"LamePass123"}`),
			wantCode: http.StatusBadRequest, wantData: errObj(t, "authentication failed"),
		},
		{
			name: "wrong password", body: []byte(`{"email":"awe@test.cd","password":"lol"}`),
			wantCode: http.StatusBadRequest, wantData: errObj(t, "authentication failed"),
		},
		{
			name: "deactivated account", body: []byte(`{"email":"ndog@test.cd","password":"LamePass123"}`),
			wantCode: http.StatusForbidden, wantData: errObj(t, "account deactivated"),
		},
		{
			name: "login", body: []byte(`{"email":"Awe@Test.CD","password":"LamePass123"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/api/auth/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			var resp authResponse
			decodeBody(t, rec, &resp)
			if resp.Data.Token == "" {
				t.Error("no token in response")
			}
			if resp.Data.User.ID != usr.ID {
				t.Errorf("User.ID = %s, want %s", resp.Data.User.ID, usr.ID)
			}
			if resp.Data.User.LastLogin.IsZero() {
				t.Error("lastLogin was not set")
			}
		})
	}
}

func Test_authApi_me(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)

	tests := []httpTest{
		{name: "auth required", wantCode: http.StatusUnauthorized, wantData: errObj(t, errMissingToken)},
		{name: "me", token: getToken(t, usr), wantCode: http.StatusOK, wantData: dataObj(t, usr)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/api/auth/me", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_authApi_updateProfile(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	other := testutil.CreateUser(t, usrRepo, "King", "king@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	tests := []httpTest{
		{
			name: "email taken", token: token,
			body:     []byte(`{"email":"` + other.Email + `"}`),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
		{
			name: "own email is not a conflict", token: token,
			body: []byte(`{"email":"` + usr.Email + `"}`), wantCode: http.StatusOK,
		},
		{
			name: "update name", token: token,
			body: []byte(`{"name":"Awe Prime"}`), wantCode: http.StatusOK,
			extra: "Awe Prime",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/api/auth/profile", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if wantName, ok := tt.extra.(string); ok {
				refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
				if err != nil {
					t.Fatalf("GetUserByID() failed: %v", err)
				}
				if refreshed.Name != wantName {
					t.Errorf("Name = %s, want %s", refreshed.Name, wantName)
				}
			}
		})
	}
}

func Test_authApi_updatePassword(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	token := getToken(t, usr)

	tests := []httpTest{
		{
			name: "wrong current password", token: token,
			body:     []byte(`{"currentPassword":"lol","password":"NewPass123","passwordConfirm":"NewPass123"}`),
			wantCode: http.StatusBadRequest,
			wantData: errObj(t, map[string]string{"currentPassword": "wrong password"}),
		},
		{
			name: "update", token: token,
			body:     []byte(`{"currentPassword":"LamePass123","password":"NewPass123","passwordConfirm":"NewPass123"}`),
			wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPut, "/api/auth/password", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
				return
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			var resp authResponse
			decodeBody(t, rec, &resp)
			if resp.Data.Token == "" {
				t.Error("no fresh token in response")
			}
			refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
			if err != nil {
				t.Fatalf("GetUserByID() failed: %v", err)
			}
			if err := refreshed.CheckPassword("NewPass123"); err != nil {
				t.Error("password was not updated")
			}
		})
	}
}

func Test_authApi_refreshToken(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)

	req, rec := newAuthRequest(http.MethodPost, "/api/auth/token-refresh", getToken(t, usr))
	app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("failed! code = %v; wantCode %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	decodeBody(t, rec, &resp)
	if resp.Data.Token == "" {
		t.Error("no token in response")
	}
}

func Test_authApi_passwordReset(t *testing.T) {
	setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe", "awe@test.cd", "LamePass123", true)
	sentBefore := len(emailsvc.SentMessages)

	// an unknown email gets the same answer as a known one
	tt := httpTest{wantCode: http.StatusOK, wantData: msgObj(t, passwordResetMessage)}
	req, rec := newRequest(http.MethodPost, "/api/auth/password-reset", []byte(`{"email":"lol@test.cd"}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
	if len(emailsvc.SentMessages) != sentBefore {
		t.Error("no email should be sent for an unknown address")
	}

	req, rec = newRequest(http.MethodPost, "/api/auth/password-reset", []byte(`{"email":"`+usr.Email+`"}`))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
	if len(emailsvc.SentMessages) != sentBefore+1 {
		t.Fatal("reset email was not sent")
	}

	// pull uid & token out of the mail and confirm the reset
	mail := emailsvc.SentMessages[len(emailsvc.SentMessages)-1]
	match := regexp.MustCompile(`password-reset\?uid=(\S+)&token=(\S+)`).FindStringSubmatch(mail.Body)
	if match == nil {
		t.Fatalf("no reset link in email body: %s", mail.Body)
	}
	uid, resetToken := match[1], match[2]

	body := []byte(`{"uid":"` + uid + `","token":"` + resetToken + `","password":"NewPass123","passwordConfirm":"NewPass123"}`)
	req, rec = newRequest(http.MethodPost, "/api/auth/password-reset-confirm", body)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusOK,
		wantData: msgObj(t, "Password has been reset with the new password."),
	}, rec)

	refreshed, err := usrRepo.GetUserByID(context.Background(), usr.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if err := refreshed.CheckPassword("NewPass123"); err != nil {
		t.Error("password was not reset")
	}
}
