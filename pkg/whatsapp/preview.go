package whatsapp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/sunshineplan/imgconv"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"google.golang.org/protobuf/proto"

	"github.com/kadigal/go-whatsapp-session-gateway/pkg/log"
)

var firstURLPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

const (
	previewFetchTimeout    = 5 * time.Second
	previewBodyLimit       = 1024 * 1024
	previewThumbnailLimit  = 500 * 1024
	previewThumbnailWidth  = 192
	previewThumbnailWindow = 5 * time.Second
)

// linkPreview builds an extended text message carrying Open Graph metadata
// for the first URL in the body. Preview fetching never fails a send: any
// error just returns nil and the text goes out plain.
func (s *Session) linkPreview(ctx context.Context, text string) *waE2E.ExtendedTextMessage {
	matched := firstURLPattern.FindString(text)
	if matched == "" {
		return nil
	}

	title, description, imageURL, err := fetchPageMeta(ctx, matched)
	if err != nil {
		log.Session(s.ID).Debug("Link preview fetch failed for " + matched + ": " + err.Error())
		return nil
	}

	extended := &waE2E.ExtendedTextMessage{
		Text:        proto.String(text),
		MatchedText: proto.String(matched),
	}
	if title != "" {
		extended.Title = proto.String(title)
	}
	if description != "" {
		extended.Description = proto.String(description)
	}
	if imageURL != "" {
		if thumb := fetchPreviewThumbnail(ctx, imageURL); len(thumb) > 0 {
			extended.JPEGThumbnail = thumb
		}
	}
	return extended
}

func fetchPageMeta(ctx context.Context, pageURL string) (title, description, imageURL string, err error) {
	reqCtx, cancel := context.WithTimeout(ctx, previewFetchTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", "", "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; WhatsApp/2.23; +http://www.whatsapp.com)")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", "", "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", "", "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, previewBodyLimit))
	if err != nil {
		return "", "", "", err
	}
	html := string(body)

	title = extractMetaContent(html, "og:title")
	if title == "" {
		title = extractHTMLTitle(html)
	}
	description = extractMetaContent(html, "og:description")
	if description == "" {
		description = extractMetaContent(html, "description")
	}
	imageURL = extractMetaContent(html, "og:image")
	if imageURL != "" && !strings.HasPrefix(imageURL, "http") {
		base, baseErr := url.Parse(pageURL)
		img, imgErr := url.Parse(imageURL)
		if baseErr == nil && imgErr == nil {
			imageURL = base.ResolveReference(img).String()
		} else {
			imageURL = ""
		}
	}
	return title, description, imageURL, nil
}

// extractMetaContent pulls the content attribute of a named meta tag,
// tolerating either attribute order.
func extractMetaContent(html, name string) string {
	pattern := regexp.MustCompile(`<meta[^>]+(?:property|name)=["']` + regexp.QuoteMeta(name) + `["'][^>]+content=["']([^"']*)["']`)
	if match := pattern.FindStringSubmatch(html); len(match) > 1 {
		return match[1]
	}
	reversed := regexp.MustCompile(`<meta[^>]+content=["']([^"']*)["'][^>]+(?:property|name)=["']` + regexp.QuoteMeta(name) + `["']`)
	if match := reversed.FindStringSubmatch(html); len(match) > 1 {
		return match[1]
	}
	return ""
}

func extractHTMLTitle(html string) string {
	pattern := regexp.MustCompile(`<title[^>]*>([^<]*)</title>`)
	if match := pattern.FindStringSubmatch(html); len(match) > 1 {
		return strings.TrimSpace(match[1])
	}
	return ""
}

// fetchPreviewThumbnail downloads the preview image and re-encodes it as a
// small JPEG, the only thumbnail format clients render.
func fetchPreviewThumbnail(ctx context.Context, imageURL string) []byte {
	reqCtx, cancel := context.WithTimeout(ctx, previewThumbnailWindow)
	defer cancel()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, previewThumbnailLimit))
	if err != nil {
		return nil
	}

	decoded, err := imgconv.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	encoded := new(bytes.Buffer)
	err = imgconv.Write(encoded,
		imgconv.Resize(decoded, &imgconv.ResizeOption{Width: previewThumbnailWidth}),
		&imgconv.FormatOption{Format: imgconv.JPEG})
	if err != nil {
		return nil
	}
	return encoded.Bytes()
}
