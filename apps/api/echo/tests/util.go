package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/edutrack/apps/api/echo"
	testutil "github.com/trezcool/edutrack/tests"
)

var (
	errMissingToken = echoapi.ErrorResponse{Detail: "Not authenticated"}
	errBadToken     = echoapi.ErrorResponse{Detail: "Invalid token"}
)

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	form     map[string]string
	file     *formFile
	token    string
	wantCode int
	wantData []byte
}

type formFile struct {
	name    string
	content string
}

func setup(t *testing.T) *testutil.Env {
	return testutil.NewEnv(t)
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

func newFormRequest(t *testing.T, method, path, token string, fields map[string]string, file *formFile) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		fw, err := mw.CreateFormFile("file", file.name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(file.content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func (tt httpTest) request(t *testing.T) (*http.Request, *httptest.ResponseRecorder) {
	if tt.form != nil || tt.file != nil {
		return newFormRequest(t, tt.method, tt.path, tt.token, tt.form, tt.file)
	}
	return newAuthRequest(tt.method, tt.path, tt.token, tt.body)
}

// runHTTPTests runs each test against env's server. method is the default method (GET).
func runHTTPTests(t *testing.T, env *testutil.Env, tests []httpTest, method ...string) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
			if len(method) > 0 {
				tt.method = method[0]
			}
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := tt.request(t)
			env.Server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	require.NoError(t, err, "marchallObj()")
	return data
}

func errData(t *testing.T, detail string) []byte {
	return marchallObj(t, echoapi.ErrorResponse{Detail: detail})
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
	assert.Equal(t, tt.wantCode, rec.Code, "code; body %s", rec.Body.String())
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if assert.NoError(t, err, "jsonBytesEqual()") {
		assert.True(t, ok, "data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
