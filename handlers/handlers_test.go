package handlers

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func request(t *testing.T, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := handler(e.NewContext(req, rec)); err != nil {
		e.HTTPErrorHandler(err, e.NewContext(req, rec))
	}
	return rec
}

func TestGradesByCalendarRejectsMissingCalendarID(t *testing.T) {
	h := New(nil, []byte("key"), "")

	rec := request(t, h.GradesByCalendar, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "calendarId") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCourseDetailRejectsMissingCodes(t *testing.T) {
	h := New(nil, []byte("key"), "")

	rec := request(t, h.CourseDetail, `{"calendarId": 119}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "courseCode") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCoursesByTimeRejectsBadSlot(t *testing.T) {
	h := New(nil, []byte("key"), "")

	for _, body := range []string{
		`{}`,
		`{"calendarId": 119, "day": 8, "section": 1}`,
		`{"calendarId": 119, "day": 1, "section": 9}`,
	} {
		rec := request(t, h.CoursesByTime, body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestSignin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	h := New(nil, []byte("key"), string(hash))

	rec := request(t, h.Signin, `{"username": "admin", "password": "wrong"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", rec.Code)
	}

	rec = request(t, h.Signin, `{"username": "someone", "password": "right-password"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("non-admin username: status = %d, want 401", rec.Code)
	}

	rec = request(t, h.Signin, `{"username": "admin", "password": "right-password"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid credentials: status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "token") {
		t.Errorf("body = %s, want a token", rec.Body.String())
	}
}

func TestSplitConcat(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b , c", []string{"a", "b", "c"}},
		{"", []string{}},
		{" , ,", []string{}},
		{"四平路校区", []string{"四平路校区"}},
	}
	for _, tt := range tests {
		if got := splitConcat(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitConcat(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
