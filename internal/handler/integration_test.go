package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"

	"github.com/edamiani/mynotes/internal/handler"
)

// newTestApp spins up the full middleware chain and routes against a fresh
// database, plus a client that keeps cookies and does not follow redirects.
func newTestApp(t *testing.T) (testServices, *httptest.Server, *http.Client) {
	t.Helper()
	svc := newTestServices(t)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, svc.auth, svc.notes, svc.sessions, false)
	chain := handler.SecurityHeaders(handler.MethodOverride(handler.WithSession(svc.sessions, svc.auth, mux)))

	srv := httptest.NewServer(chain)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return svc, srv, client
}

func get(t *testing.T, client *http.Client, rawURL string) (*http.Response, string) {
	t.Helper()
	resp, err := client.Get(rawURL)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func postForm(t *testing.T, client *http.Client, rawURL string, form url.Values) (*http.Response, string) {
	t.Helper()
	resp, err := client.PostForm(rawURL, form)
	if err != nil {
		t.Fatalf("POST %s: %v", rawURL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func register(t *testing.T, client *http.Client, base, name, surname, email, password string) (*http.Response, string) {
	t.Helper()
	return postForm(t, client, base+"/signin", url.Values{
		"name":       {name},
		"surname":    {surname},
		"email":      {email},
		"password":   {password},
		"confirmPwd": {password},
	})
}

func login(t *testing.T, client *http.Client, base, email, password string) (*http.Response, string) {
	t.Helper()
	return postForm(t, client, base+"/login", url.Values{
		"email":    {email},
		"password": {password},
	})
}

func TestRegistrationFlow(t *testing.T) {
	_, srv, client := newTestApp(t)

	resp, _ := register(t, client, srv.URL, "Jo", "Doe", "jo@x.com", "secret")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 after register, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}

	// The success flash shows once on the login page and is then gone.
	_, body := get(t, client, srv.URL+"/login")
	if !strings.Contains(body, "Registration completed successfully.") {
		t.Fatal("expected registration flash on login page")
	}
	_, body = get(t, client, srv.URL+"/login")
	if strings.Contains(body, "Registration completed successfully.") {
		t.Fatal("expected registration flash to be consumed")
	}
}

func TestRegistrationValidation(t *testing.T) {
	_, srv, client := newTestApp(t)

	resp, body := register(t, client, srv.URL, "Jo", "Doe", "short@x.com", "five5")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for short password, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "at least 6") {
		t.Fatal("expected password length error in page")
	}
	// The form keeps what the user typed.
	if !strings.Contains(body, `value="short@x.com"`) {
		t.Fatal("expected submitted email to be re-rendered")
	}
}

func TestRegistrationDuplicateEmail(t *testing.T) {
	_, srv, client := newTestApp(t)

	if resp, _ := register(t, client, srv.URL, "Jo", "Doe", "dup@x.com", "secret"); resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("first register: got %d", resp.StatusCode)
	}

	resp, body := register(t, client, srv.URL, "Flo", "Roe", "dup@x.com", "secret")
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for duplicate email, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Email is already registered") {
		t.Fatal("expected duplicate email error in page")
	}
}

func TestLoginFlow(t *testing.T) {
	_, srv, client := newTestApp(t)
	register(t, client, srv.URL, "Jo", "Doe", "jo@x.com", "secret")

	// Wrong password flashes and bounces back to the login form.
	resp, _ := login(t, client, srv.URL, "jo@x.com", "wrong")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 on bad login, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
	_, body := get(t, client, srv.URL+"/login")
	if !strings.Contains(body, "Invalid email or password.") {
		t.Fatal("expected invalid credentials flash")
	}

	// A good login lands on the note listing.
	resp, _ = login(t, client, srv.URL, "jo@x.com", "secret")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 on login, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/note/all" {
		t.Fatalf("expected redirect to /note/all, got %q", loc)
	}

	resp, body = get(t, client, srv.URL+"/note/all")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on note listing, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "You have no notes yet.") {
		t.Fatal("expected empty listing message")
	}
	if !strings.Contains(body, "Jo Doe") {
		t.Fatal("expected user name in layout")
	}
}

func TestNoteLifecycle(t *testing.T) {
	svc, srv, client := newTestApp(t)
	register(t, client, srv.URL, "Jo", "Doe", "jo@x.com", "secret")
	login(t, client, srv.URL, "jo@x.com", "secret")

	// Create.
	resp, _ := postForm(t, client, srv.URL+"/note/add", url.Values{
		"title": {"Groceries"},
		"text":  {"milk"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 after add, got %d", resp.StatusCode)
	}
	_, body := get(t, client, srv.URL+"/note/all")
	if !strings.Contains(body, "Note added.") || !strings.Contains(body, "Groceries") {
		t.Fatal("expected new note and flash in listing")
	}

	// Look up the note ID to drive the edit and delete routes.
	ctx := context.Background()
	user, err := svc.db.Users().GetByEmail(ctx, "jo@x.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	notes, err := svc.notes.ListForUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d", len(notes))
	}
	noteID := notes[0].ID
	editURL := srv.URL + "/note/edit/" + strconv.FormatInt(noteID, 10)

	// Edit form shows the current values.
	resp, body = get(t, client, editURL)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 on edit form, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `value="Groceries"`) || !strings.Contains(body, "milk") {
		t.Fatal("expected existing note values in edit form")
	}

	// Update.
	resp, _ = postForm(t, client, editURL, url.Values{
		"title": {"Groceries"},
		"text":  {"milk, eggs"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 after update, got %d", resp.StatusCode)
	}
	_, body = get(t, client, srv.URL+"/note/all")
	if !strings.Contains(body, "Note updated.") || !strings.Contains(body, "milk, eggs") {
		t.Fatal("expected updated note and flash in listing")
	}

	// Delete through the hidden _method field, as the listing form does.
	resp, _ = postForm(t, client, srv.URL+"/note/delete/"+strconv.FormatInt(noteID, 10), url.Values{
		"_method": {"DELETE"},
	})
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 after delete, got %d", resp.StatusCode)
	}
	_, body = get(t, client, srv.URL+"/note/all")
	if !strings.Contains(body, "Note deleted.") || !strings.Contains(body, "You have no notes yet.") {
		t.Fatal("expected empty listing after delete")
	}
}

func TestNoteOwnership(t *testing.T) {
	svc, srv, client := newTestApp(t)
	register(t, client, srv.URL, "Jo", "Doe", "owner@x.com", "secret")
	login(t, client, srv.URL, "owner@x.com", "secret")
	postForm(t, client, srv.URL+"/note/add", url.Values{"title": {"private"}, "text": {""}})

	ctx := context.Background()
	owner, err := svc.db.Users().GetByEmail(ctx, "owner@x.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	notes, err := svc.notes.ListForUser(ctx, owner.ID)
	if err != nil || len(notes) != 1 {
		t.Fatalf("expected 1 note, got %d (%v)", len(notes), err)
	}

	// A second user must be denied without learning whether the note exists.
	jar, _ := cookiejar.New(nil)
	intruder := &http.Client{Jar: jar, CheckRedirect: client.CheckRedirect}
	register(t, intruder, srv.URL, "Flo", "Roe", "intruder@x.com", "secret")
	login(t, intruder, srv.URL, "intruder@x.com", "secret")

	resp, _ := get(t, intruder, srv.URL+"/note/edit/"+strconv.FormatInt(notes[0].ID, 10))
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 for foreign note, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
	_, body := get(t, intruder, srv.URL+"/")
	if !strings.Contains(body, "You cannot access this page.") {
		t.Fatal("expected access denied flash")
	}
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	_, srv, client := newTestApp(t)

	for _, path := range []string{"/note/add", "/note/all", "/note/edit/1"} {
		resp, _ := get(t, client, srv.URL+path)
		if resp.StatusCode != http.StatusSeeOther {
			t.Fatalf("%s: expected 303, got %d", path, resp.StatusCode)
		}
		if loc := resp.Header.Get("Location"); loc != "/" {
			t.Fatalf("%s: expected redirect to /, got %q", path, loc)
		}
	}

	_, body := get(t, client, srv.URL+"/")
	if !strings.Contains(body, "Please log in to access this page.") {
		t.Fatal("expected auth flash on welcome page")
	}
}

func TestLogout(t *testing.T) {
	_, srv, client := newTestApp(t)
	register(t, client, srv.URL, "Jo", "Doe", "jo@x.com", "secret")
	login(t, client, srv.URL, "jo@x.com", "secret")

	resp, _ := get(t, client, srv.URL+"/logout")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 on logout, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}

	// The old session no longer opens protected routes.
	resp, _ = get(t, client, srv.URL+"/note/all")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303 after logout, got %d", resp.StatusCode)
	}
}

func TestBlankTitleRejected(t *testing.T) {
	_, srv, client := newTestApp(t)
	register(t, client, srv.URL, "Jo", "Doe", "jo@x.com", "secret")
	login(t, client, srv.URL, "jo@x.com", "secret")

	resp, body := postForm(t, client, srv.URL+"/note/add", url.Values{
		"title": {"   "},
		"text":  {"kept text"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank title, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Give your note a title") {
		t.Fatal("expected title error in page")
	}
	if !strings.Contains(body, "kept text") {
		t.Fatal("expected submitted text to be re-rendered")
	}
}
