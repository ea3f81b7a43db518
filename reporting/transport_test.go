package reporting

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTransport(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Report-To", `{"group":"nel","max-age":3600,"endpoints":[{"url":"https://collector.example.net/upload"}]}`)
		w.Header().Set("NEL", `{"report-to":"nel","max-age":3600}`)
		io.WriteString(w, "OK\n")
	}))
	defer server.Close()

	agent, _ := newTestAgent()
	transport := NewTransport(agent, server.Client().Transport, false)
	transport.Now = func() time.Time { return i1300 }
	client := &http.Client{Transport: transport}

	resp, err := client.Get(server.URL + "/page")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "OK\n" {
		t.Errorf("body = %q, want %q", body, "OK\n")
	}

	origin, err := ParseOrigin(server.URL)
	if err != nil {
		t.Fatalf("ParseOrigin(%q) returned error: %v", server.URL, err)
	}
	if _, ok := agent.ChoosePolicy(i1301, origin); !ok {
		t.Errorf("NEL policy from response wasn't installed for %v", origin)
	}
	if agent.ChooseEndpoint(i1301, origin, "nel") == nil {
		t.Errorf("Report-To endpoint from response wasn't installed for %v", origin)
	}
}

func TestTransport_IgnoresInsecureResponses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("NEL", `{"report-to":"nel","max-age":3600}`)
	}))
	defer server.Close()

	agent, _ := newTestAgent()
	client := &http.Client{Transport: NewTransport(agent, nil, false)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	resp.Body.Close()

	if agent.NEL.PolicyCount() != 0 {
		t.Errorf("policy from an insecure response was installed")
	}
}

func TestTransport_BadHeaderDoesNotFailRequest(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("NEL", `[not json`)
	}))
	defer server.Close()

	agent, logs := newTestAgent()
	client := &http.Client{Transport: NewTransport(agent, server.Client().Transport, true)}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(logs.String(), "Unable to parse header") {
		t.Errorf("bad header wasn't logged: %s", logs.String())
	}
}
