package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/chittyos/intake/internal/domain/intake"
	"github.com/chittyos/intake/internal/ports"
)

const maxFetchBytes = 64 << 20

// fetchURL performs the shared HTTP GET. Every failure mode collapses into
// ports.ErrSourceUnavailable so callers see one definite outcome.
func fetchURL(ctx context.Context, client *http.Client, target string, decorate func(*http.Request)) (ports.FetchResult, error) {
	if ctx == nil {
		return ports.FetchResult{}, errors.New("context is required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return ports.FetchResult{}, fmt.Errorf("%w: %s", ports.ErrSourceUnavailable, err)
	}
	if decorate != nil {
		decorate(req)
	}

	resp, err := client.Do(req)
	if err != nil {
		return ports.FetchResult{}, fmt.Errorf("%w: %s", ports.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ports.FetchResult{}, fmt.Errorf("%w: status %d from %s", ports.ErrSourceUnavailable, resp.StatusCode, target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return ports.FetchResult{}, fmt.Errorf("%w: %s", ports.ErrSourceUnavailable, err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return ports.FetchResult{Bytes: body, ContentType: contentType}, nil
}

// refID strips the expected scheme prefix and rejects empty or traversing
// references.
func refID(sourceRef, scheme string) (string, error) {
	id := strings.TrimPrefix(strings.TrimSpace(sourceRef), scheme)
	if id == "" || id == sourceRef || strings.Contains(id, "..") {
		return "", fmt.Errorf("%w: malformed source ref %q", ports.ErrSourceUnavailable, sourceRef)
	}
	return id, nil
}

type CloudDriveFetcher struct {
	baseURL string
	client  *http.Client
}

func NewCloudDriveFetcher(baseURL string, timeout time.Duration) *CloudDriveFetcher {
	return &CloudDriveFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *CloudDriveFetcher) CanHandle(source intake.Source) bool {
	return source == intake.SourceCloudDrive
}

func (f *CloudDriveFetcher) Fetch(ctx context.Context, sourceRef string) (ports.FetchResult, error) {
	fileID, err := refID(sourceRef, "drive://")
	if err != nil {
		return ports.FetchResult{}, err
	}
	target := f.baseURL + "/files/" + url.PathEscape(fileID) + "/content"
	return fetchURL(ctx, f.client, target, nil)
}

type EmailFetcher struct {
	baseURL string
	client  *http.Client
}

func NewEmailFetcher(baseURL string, timeout time.Duration) *EmailFetcher {
	return &EmailFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *EmailFetcher) CanHandle(source intake.Source) bool {
	return source == intake.SourceEmail
}

// Fetch resolves email://<message_id>/<attachment_id> against the mail store.
func (f *EmailFetcher) Fetch(ctx context.Context, sourceRef string) (ports.FetchResult, error) {
	ref, err := refID(sourceRef, "email://")
	if err != nil {
		return ports.FetchResult{}, err
	}
	messageID, attachmentID, ok := strings.Cut(ref, "/")
	if !ok || messageID == "" || attachmentID == "" {
		return ports.FetchResult{}, fmt.Errorf("%w: malformed source ref %q", ports.ErrSourceUnavailable, sourceRef)
	}
	target := f.baseURL + "/messages/" + url.PathEscape(messageID) + "/attachments/" + url.PathEscape(attachmentID)
	return fetchURL(ctx, f.client, target, nil)
}

type CourtGatewayFetcher struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewCourtGatewayFetcher(baseURL, apiKey string, timeout time.Duration) *CourtGatewayFetcher {
	return &CourtGatewayFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *CourtGatewayFetcher) CanHandle(source intake.Source) bool {
	return source == intake.SourceCourtGateway
}

func (f *CourtGatewayFetcher) Fetch(ctx context.Context, sourceRef string) (ports.FetchResult, error) {
	filingID, err := refID(sourceRef, "filing://")
	if err != nil {
		return ports.FetchResult{}, err
	}
	target := f.baseURL + "/filings/" + url.PathEscape(filingID) + "/document"
	return fetchURL(ctx, f.client, target, func(req *http.Request) {
		req.Header.Set("X-Gateway-Key", f.apiKey)
	})
}

type ClientPortalFetcher struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClientPortalFetcher(baseURL, token string, timeout time.Duration) *ClientPortalFetcher {
	return &ClientPortalFetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

func (f *ClientPortalFetcher) CanHandle(source intake.Source) bool {
	return source == intake.SourceClientPortal
}

func (f *ClientPortalFetcher) Fetch(ctx context.Context, sourceRef string) (ports.FetchResult, error) {
	uploadID, err := refID(sourceRef, "portal://")
	if err != nil {
		return ports.FetchResult{}, err
	}
	target := f.baseURL + "/uploads/" + url.PathEscape(uploadID) + "/download"
	return fetchURL(ctx, f.client, target, func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+f.token)
	})
}

type DirectURLFetcher struct {
	client *http.Client
}

func NewDirectURLFetcher(timeout time.Duration) *DirectURLFetcher {
	return &DirectURLFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *DirectURLFetcher) CanHandle(source intake.Source) bool {
	return source == intake.SourceDirectURL
}

func (f *DirectURLFetcher) Fetch(ctx context.Context, sourceRef string) (ports.FetchResult, error) {
	ref := strings.TrimSpace(sourceRef)
	if !strings.HasPrefix(ref, "https://") && !strings.HasPrefix(ref, "http://") {
		return ports.FetchResult{}, fmt.Errorf("%w: direct url must be http(s): %q", ports.ErrSourceUnavailable, sourceRef)
	}
	return fetchURL(ctx, f.client, ref, nil)
}
