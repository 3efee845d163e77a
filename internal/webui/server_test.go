package webui_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"csv2opal/internal/webui"
)

func postForm(t *testing.T, ts *httptest.Server, path string, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.PostForm(ts.URL+path, form)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestAPIConvert(t *testing.T) {
	srv := webui.NewServer(webui.Config{Addr: ":0"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postForm(t, ts, "/api/convert", url.Values{
		"csv":   {"host,bytes\nweb-1,512\n"},
		"casts": {"2:int64"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	script := string(body)
	if !strings.HasPrefix(script, "filter false | statsby count(), group_by()\n") {
		t.Fatalf("unexpected script start:\n%s", script)
	}
	if !strings.Contains(script, `, '{"host":"web-1","bytes":512}'`) {
		t.Fatalf("missing row fragment:\n%s", script)
	}
	if !strings.Contains(script, "pick_col host:string(_c_foo_value.host),bytes:int64(_c_foo_value.bytes)") {
		t.Fatalf("missing projection:\n%s", script)
	}
}

func TestAPIConvertBadOptions(t *testing.T) {
	srv := webui.NewServer(webui.Config{Addr: ":0"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp := postForm(t, ts, "/api/convert", url.Values{
		"csv":  {"a,b\n1,2\n"},
		"drop": {"x"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d want=400", resp.StatusCode)
	}
}

func TestAPIConvertRequiresPost(t *testing.T) {
	srv := webui.NewServer(webui.Config{Addr: ":0"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/convert")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status=%d want=405", resp.StatusCode)
	}
}

func TestIndexRenders(t *testing.T) {
	srv := webui.NewServer(webui.Config{Addr: ":0"})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}
