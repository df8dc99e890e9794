package collector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ipwatch/internal/domain"
	"ipwatch/internal/platform/logging"
	"ipwatch/internal/ports"
)

type fakeSession struct {
	mu          sync.Mutex
	navErrs     []error // consumed per call; nil entry means success
	navCalls    int
	navTimeouts []time.Duration
	results     map[string]string // expr -> JSON
	evalErrs    map[string]error
	shot        []byte
	shotErr     error
	html        string
	closed      int
}

func (s *fakeSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.navCalls++
	s.navTimeouts = append(s.navTimeouts, timeout)
	if len(s.navErrs) == 0 {
		return nil
	}
	err := s.navErrs[0]
	if len(s.navErrs) > 1 {
		s.navErrs = s.navErrs[1:]
	}
	return err
}

func (s *fakeSession) Screenshot(ctx context.Context) ([]byte, error) { return s.shot, s.shotErr }

func (s *fakeSession) Evaluate(ctx context.Context, expr string, out any) error {
	if err := s.evalErrs[expr]; err != nil {
		return err
	}
	raw, ok := s.results[expr]
	if !ok {
		return fmt.Errorf("no result for expression")
	}
	return json.Unmarshal([]byte(raw), out)
}

func (s *fakeSession) HTML(ctx context.Context) (string, error) { return s.html, nil }

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed++
	return nil
}

type fakeBrowser struct {
	sess    *fakeSession
	openErr error
}

func (b *fakeBrowser) Open(ctx context.Context) (ports.Session, error) {
	if b.openErr != nil {
		return nil, b.openErr
	}
	return b.sess, nil
}

func fastOptions() Options {
	return Options{Attempts: 3, Backoff: time.Millisecond, NavigationTimeout: 30 * time.Second, FieldTimeout: time.Second}
}

func pageResults() map[string]string {
	images := make([]string, 0, 20)
	images = append(images, `{"src":"data:image/png;base64,AAAA","alt":"inline"}`)
	for i := 0; i < 20; i++ {
		images = append(images, fmt.Sprintf(`{"src":"http://piracy.example/img%d.jpg","alt":"poster","width":300,"height":450}`, i))
	}
	links := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		links = append(links, fmt.Sprintf(`{"href":"http://piracy.example/ep%d","text":"Episode %d"}`, i, i))
	}
	return map[string]string{
		exprTitle:           `"Wednesday : 123Movies"`,
		exprURL:             `"http://piracy.example/wednesday"`,
		exprMetaDescription: `"Watch Wednesday online free"`,
		exprMetaKeywords:    `"wednesday, stream"`,
		exprHeadings:        `[{"level":"h1","text":"Wednesday"}]`,
		exprImages:          "[" + strings.Join(images, ",") + "]",
		exprLinks:           "[" + strings.Join(links, ",") + "]",
		exprText:            `"Wednesday season 1 episode 1 watch now"`,
		exprStructuredData:  `["{\"@type\":\"Movie\",\"name\":\"Wednesday\"}", "{not json"]`,
		exprPageStats:       `{"loadTime":1234.5,"imageCount":21,"linkCount":30,"scriptCount":12,"wordCount":7}`,
	}
}

func TestCollect_Success(t *testing.T) {
	sess := &fakeSession{results: pageResults(), shot: []byte{0x89, 'P', 'N', 'G'}, html: strings.Repeat("x", 12000)}
	c := New(&fakeBrowser{sess: sess}, fastOptions(), logging.Discard(), nil)

	out, err := c.Collect(context.Background(), "http://piracy.example/wednesday")
	require.NoError(t, err)

	s := out.Snapshot
	assert.Equal(t, "Wednesday : 123Movies", s.PageTitle)
	assert.Equal(t, "Watch Wednesday online free", s.MetaDescription)
	assert.Len(t, s.Images, domain.MaxImages)
	for _, img := range s.Images {
		assert.NotContains(t, img.Src, "data:")
	}
	assert.Len(t, s.Links, domain.MaxLinks)
	require.Len(t, s.StructuredData, 1)
	assert.JSONEq(t, `{"@type":"Movie","name":"Wednesday"}`, string(s.StructuredData[0]))
	assert.Equal(t, 7, s.PageStats.WordCount)
	assert.Len(t, out.HTML, domain.MaxHTMLExcerpt)
	assert.Equal(t, out.HTML, s.HTMLExcerpt)
	assert.Len(t, out.RawHTML, 12000)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, out.Screenshot)
	assert.Equal(t, 1, sess.navCalls)
	assert.Equal(t, 1, sess.closed)
}

func TestCollect_RetriesThenNavigationError(t *testing.T) {
	timeout := context.DeadlineExceeded
	sess := &fakeSession{navErrs: []error{timeout}}
	c := New(&fakeBrowser{sess: sess}, fastOptions(), logging.Discard(), nil)

	_, err := c.Collect(context.Background(), "http://slow.example")
	var navErr *domain.NavigationError
	require.ErrorAs(t, err, &navErr)
	assert.Equal(t, 3, navErr.Attempts)
	assert.Equal(t, "http://slow.example", navErr.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 3, sess.navCalls)
	for _, d := range sess.navTimeouts {
		assert.Equal(t, 30*time.Second, d)
	}
	assert.Equal(t, 1, sess.closed)
}

func TestCollect_RecoversOnSecondAttempt(t *testing.T) {
	sess := &fakeSession{navErrs: []error{errors.New("net::ERR_CONNECTION_RESET"), nil}, results: pageResults()}
	c := New(&fakeBrowser{sess: sess}, fastOptions(), logging.Discard(), nil)

	_, err := c.Collect(context.Background(), "http://flaky.example")
	require.NoError(t, err)
	assert.Equal(t, 2, sess.navCalls)
}

func TestCollect_FieldFailuresDegrade(t *testing.T) {
	res := pageResults()
	sess := &fakeSession{
		results:  res,
		evalErrs: map[string]error{exprHeadings: errors.New("boom"), exprTitle: errors.New("boom")},
		shotErr:  errors.New("capture failed"),
	}
	c := New(&fakeBrowser{sess: sess}, fastOptions(), logging.Discard(), nil)

	out, err := c.Collect(context.Background(), "http://piracy.example/wednesday")
	require.NoError(t, err)
	assert.Empty(t, out.Snapshot.PageTitle)
	assert.NotNil(t, out.Snapshot.Headings)
	assert.Empty(t, out.Snapshot.Headings)
	assert.Empty(t, out.Screenshot)
	assert.Equal(t, "Watch Wednesday online free", out.Snapshot.MetaDescription)
	assert.Equal(t, 1, sess.closed)
}

func TestCollect_OpenFailure(t *testing.T) {
	c := New(&fakeBrowser{openErr: errors.New("no chrome")}, fastOptions(), logging.Discard(), nil)
	_, err := c.Collect(context.Background(), "http://x.example")
	require.Error(t, err)
	var navErr *domain.NavigationError
	assert.False(t, errors.As(err, &navErr))
}

func TestCollect_SettleHonoursCancel(t *testing.T) {
	sess := &fakeSession{results: pageResults()}
	opts := fastOptions()
	opts.SettleDelay = time.Hour
	c := New(&fakeBrowser{sess: sess}, opts, logging.Discard(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Collect(ctx, "http://x.example")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, sess.closed)
}

func TestTruncate_Runes(t *testing.T) {
	assert.Equal(t, "héll", truncate("héllo", 4))
	assert.Equal(t, "abc", truncate("abc", 10))
}
