package gdrive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResponse : In-memory Response for exercising detection logic without
// a network.
type fakeResponse struct {
	header http.Header
	body   string
}

func (f *fakeResponse) Header(name string) string { return f.header.Get(name) }
func (f *fakeResponse) Body() io.ReadCloser       { return io.NopCloser(strings.NewReader(f.body)) }
func (f *fakeResponse) Text() (string, error)     { return f.body, nil }

func newFakeResponse(contentType, body string) *fakeResponse {
	h := http.Header{}
	h.Set("Content-Type", contentType)
	return &fakeResponse{header: h, body: body}
}

const (
	testFileID = "1a2b3c4d5e"
	testToken  = "0e1f2a3b-4c5d-4e6f-8a9b-0c1d2e3f4a5b"
)

func testClient(exportURL, confirmURL string) *Client {
	return &Client{
		hc:         &http.Client{},
		log:        zerolog.Nop(),
		exportURL:  exportURL,
		confirmURL: confirmURL,
	}
}

func TestIsScanWarning(t *testing.T) {
	tests := []struct {
		name string
		res  Response
		want bool
	}{
		{
			name: "html page echoing the file id",
			res:  newFakeResponse("text/html; charset=utf-8", "<html>virus scan for "+testFileID+"</html>"),
			want: true,
		},
		{
			name: "html page without the file id",
			res:  newFakeResponse("text/html", "<html>not found</html>"),
			want: false,
		},
		{
			name: "binary content",
			res:  newFakeResponse("application/octet-stream", testFileID),
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IsScanWarning(tt.res, testFileID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirmToken(t *testing.T) {
	res := newFakeResponse("text/html", `<form action="x"><input value="`+testToken+`"></form>`)
	token, err := ConfirmToken(res)
	require.NoError(t, err)
	assert.Equal(t, testToken, token)
}

func TestConfirmTokenMissing(t *testing.T) {
	res := newFakeResponse("text/html", "<html>unrecognized page format</html>")
	_, err := ConfirmToken(res)
	assert.ErrorIs(t, err, ErrNoConfirmToken)
}

func TestFetchDirectContent(t *testing.T) {
	confirmCalls := 0
	confirm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		confirmCalls++
	}))
	defer confirm.Close()
	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testFileID, r.URL.Query().Get("id"))
		assert.Equal(t, "download", r.URL.Query().Get("export"))
		w.Header().Set("Content-Type", "application/octet-stream")
		fmt.Fprint(w, "FILE CONTENT")
	}))
	defer export.Close()

	res, err := testClient(export.URL, confirm.URL).Fetch(context.Background(), testFileID)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body())
	require.NoError(t, err)
	assert.Equal(t, "FILE CONTENT", string(body))
	assert.Zero(t, confirmCalls, "no confirmed request expected for direct content")
}

func TestFetchStreamsHTMLContent(t *testing.T) {
	// An HTML document that never mentions the file id is real content,
	// not a scan warning, and must still be streamable after the probe
	// read the body.
	const document = "<html><body>an actual shared html document</body></html>"
	confirmCalls := 0
	confirm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		confirmCalls++
	}))
	defer confirm.Close()
	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, document)
	}))
	defer export.Close()

	res, err := testClient(export.URL, confirm.URL).Fetch(context.Background(), testFileID)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body())
	require.NoError(t, err)
	assert.Equal(t, document, string(body))
	assert.Zero(t, confirmCalls, "no confirmed request expected for plain html content")
}

func TestFetchConfirmsScanWarning(t *testing.T) {
	confirm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, testFileID, q.Get("id"))
		assert.Equal(t, "download", q.Get("export"))
		assert.Equal(t, "t", q.Get("confirm"))
		assert.Equal(t, testToken, q.Get("uuid"))
		w.Header().Set("Content-Type", "application/octet-stream")
		fmt.Fprint(w, "REAL FILE CONTENT")
	}))
	defer confirm.Close()
	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html>Google Drive cannot scan %s for viruses. <input value="%s"></html>`, testFileID, testToken)
	}))
	defer export.Close()

	res, err := testClient(export.URL, confirm.URL).Fetch(context.Background(), testFileID)
	require.NoError(t, err)
	body, err := io.ReadAll(res.Body())
	require.NoError(t, err)
	assert.Equal(t, "REAL FILE CONTENT", string(body))
}

func TestFetchFailsWithoutToken(t *testing.T) {
	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, "<html>scan warning for %s with no token</html>", testFileID)
	}))
	defer export.Close()

	_, err := testClient(export.URL, export.URL).Fetch(context.Background(), testFileID)
	assert.ErrorIs(t, err, ErrNoConfirmToken)
}

func TestFetchRejectsErrorStatus(t *testing.T) {
	export := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer export.Close()

	_, err := testClient(export.URL, export.URL).Fetch(context.Background(), testFileID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestContentLength(t *testing.T) {
	res := newFakeResponse("application/octet-stream", "")
	res.header.Set("Content-Length", "1234")
	assert.Equal(t, int64(1234), ContentLength(res))

	assert.Zero(t, ContentLength(newFakeResponse("application/octet-stream", "")))

	res.header.Set("Content-Length", "garbage")
	assert.Zero(t, ContentLength(res))
}
