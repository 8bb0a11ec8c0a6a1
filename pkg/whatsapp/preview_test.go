package whatsapp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLinkPreviewPopulatesOpenGraphMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head>
<title>Fallback title</title>
<meta property="og:title" content="Release notes"/>
<meta property="og:description" content="Everything that changed"/>
</head><body>ok</body></html>`))
	}))
	defer srv.Close()

	session := newBareSession(newTestManager(t), "preview")
	text := "changelog: " + srv.URL

	extended := session.linkPreview(context.Background(), text)
	if extended == nil {
		t.Fatal("got nil preview for a reachable page")
	}
	if got := extended.GetTitle(); got != "Release notes" {
		t.Errorf("title = %q, want %q", got, "Release notes")
	}
	if got := extended.GetDescription(); got != "Everything that changed" {
		t.Errorf("description = %q, want %q", got, "Everything that changed")
	}
	if got := extended.GetMatchedText(); got != srv.URL {
		t.Errorf("matched text = %q, want %q", got, srv.URL)
	}
	if got := extended.GetText(); got != text {
		t.Errorf("text = %q, want %q", got, text)
	}
}

func TestLinkPreviewSkipsTextWithoutURL(t *testing.T) {
	session := newBareSession(newTestManager(t), "preview")
	if got := session.linkPreview(context.Background(), "no links in here"); got != nil {
		t.Fatalf("got %+v, want nil", got)
	}
}

func TestLinkPreviewHungFetchSendsPlain(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	session := newBareSession(newTestManager(t), "preview")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	extended := session.linkPreview(ctx, "see "+srv.URL)
	elapsed := time.Since(start)

	if extended != nil {
		t.Fatalf("got %+v, want nil for a hung fetch", extended)
	}
	if elapsed > 2*time.Second {
		t.Errorf("preview fetch blocked the send for %s", elapsed)
	}
}

func TestLinkPreviewServerErrorSendsPlain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	session := newBareSession(newTestManager(t), "preview")
	if got := session.linkPreview(context.Background(), "see "+srv.URL); got != nil {
		t.Fatalf("got %+v, want nil for a failing page", got)
	}
}
