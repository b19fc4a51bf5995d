package journal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseText(t *testing.T) {
	input := `# my dream journal
I was swimming in calm water

A dog chased me
  i was swimming in calm water
# another comment
The house had many doors
`
	got, err := ParseText(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseText failed: %v", err)
	}

	want := []string{
		"I was swimming in calm water",
		"A dog chased me",
		"The house had many doors",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseText mismatch (-want +got):\n%s", diff)
	}
}

func TestParseHTML(t *testing.T) {
	input := `<html><head><style>p { color: red }</style></head>
<body>
<h1>Journal</h1>
<p>I saw a   <b>bird</b> flying
over the sea</p>
<script>var dream = "not a dream";</script>
<ul>
  <li>Fire in the kitchen</li>
  <li>   </li>
  <li>Fire in the kitchen</li>
</ul>
<p><noscript>hidden</noscript>Running late</p>
</body></html>`

	got, err := ParseHTML(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseHTML failed: %v", err)
	}

	want := []string{
		"I saw a bird flying over the sea",
		"Fire in the kitchen",
		"Running late",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseHTML mismatch (-want +got):\n%s", diff)
	}
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "dreams.txt")
	if err := os.WriteFile(txt, []byte("water\nfire\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	htm := filepath.Join(dir, "dreams.HTM")
	if err := os.WriteFile(htm, []byte("<p>bird</p><li>dog</li>"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadFile(txt)
	if err != nil {
		t.Fatalf("ReadFile(txt) failed: %v", err)
	}
	if diff := cmp.Diff([]string{"water", "fire"}, got); diff != "" {
		t.Errorf("txt mismatch (-want +got):\n%s", diff)
	}

	got, err = ReadFile(htm)
	if err != nil {
		t.Fatalf("ReadFile(htm) failed: %v", err)
	}
	if diff := cmp.Diff([]string{"bird", "dog"}, got); diff != "" {
		t.Errorf("html mismatch (-want +got):\n%s", diff)
	}

	if _, err := ReadFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_EmptyJournal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("# only comments\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(context.Background(), path, nil)
	if !errors.Is(err, ErrNoDreams) {
		t.Errorf("expected ErrNoDreams, got %v", err)
	}
}

func TestLoad_Remote(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/journal.txt":
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = fmt.Fprint(w, "water\n# skip\ncar\n")
		default:
			w.Header().Set("Content-Type", "text/html")
			_, _ = fmt.Fprint(w, "<p>A door opened</p>")
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(testHTTPConfig())

	got, err := Load(context.Background(), server.URL+"/journal.html", fetcher)
	if err != nil {
		t.Fatalf("Load(html) failed: %v", err)
	}
	if diff := cmp.Diff([]string{"A door opened"}, got); diff != "" {
		t.Errorf("html mismatch (-want +got):\n%s", diff)
	}

	got, err = Load(context.Background(), server.URL+"/journal.txt", fetcher)
	if err != nil {
		t.Fatalf("Load(txt) failed: %v", err)
	}
	if diff := cmp.Diff([]string{"water", "car"}, got); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}

	if _, err := Load(context.Background(), server.URL, nil); err == nil {
		t.Error("expected error for remote journal without fetcher")
	}
}
