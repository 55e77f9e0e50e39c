package scraper

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxPageChars bounds extracted page text so a single read_page call
// cannot blow the agent's context window.
const maxPageChars = 8000

// Scraper fetches a web page and extracts its readable text. Used by
// the research agent to open URLs cited in search evidence.
type Scraper struct {
	client   *http.Client
	jinaBase string
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithJinaBase overrides the Jina Reader base URL (tests).
func WithJinaBase(u string) Option {
	return func(s *Scraper) { s.jinaBase = u }
}

func NewScraper(opts ...Option) *Scraper {
	s := &Scraper{
		client:   &http.Client{Timeout: 60 * time.Second},
		jinaBase: "https://r.jina.ai/",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape fetches the URL and extracts text content.
func (s *Scraper) Scrape(url string) (string, error) {
	log.Printf("[Scraper] Fetching URL: %s", url)

	content, err := s.directScrape(url)
	if err == nil && len(content) > 100 {
		return clip(content), nil
	}
	log.Printf("[Scraper] Direct scrape failed or insufficient content, trying Jina Reader...")

	// Fallback: Jina Reader handles JS-rendered sites
	content, err = s.jinaReaderScrape(url)
	if err == nil && len(content) > 100 {
		return clip(content), nil
	}

	return "", fmt.Errorf("all scraping methods failed")
}

// directScrape uses goquery to extract content from static HTML
func (s *Scraper) directScrape(url string) (string, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	// Browser-like headers to avoid 403 blocks
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("status code error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	doc.Find("script, style, nav, footer, header, aside, .sidebar, .advertisement, .ads").Remove()

	var sb strings.Builder

	selectors := []string{"article", "[role='main']", "main", ".post-content", ".article-content", ".entry-content", ".content"}
	for _, selector := range selectors {
		selection := doc.Find(selector)
		if selection.Length() > 0 {
			selection.Find("p, h1, h2, h3, li").Each(func(i int, el *goquery.Selection) {
				text := strings.TrimSpace(el.Text())
				if len(text) > 20 {
					sb.WriteString(text)
					sb.WriteString("\n\n")
				}
			})
			break
		}
	}

	// Fallback: all paragraphs
	if sb.Len() == 0 {
		doc.Find("body p").Each(func(i int, el *goquery.Selection) {
			text := strings.TrimSpace(el.Text())
			if len(text) > 30 {
				sb.WriteString(text)
				sb.WriteString("\n\n")
			}
		})
	}

	return strings.TrimSpace(sb.String()), nil
}

// jinaReaderScrape uses Jina AI Reader to render JS and extract content
func (s *Scraper) jinaReaderScrape(url string) (string, error) {
	jinaURL := s.jinaBase + url
	log.Printf("[Scraper.Jina] Fetching via Jina Reader: %s", jinaURL)

	req, err := http.NewRequest("GET", jinaURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create jina request: %w", err)
	}
	req.Header.Set("Accept", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("jina request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return "", fmt.Errorf("jina status code error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read jina response: %w", err)
	}
	return string(body), nil
}

func clip(content string) string {
	if len(content) <= maxPageChars {
		return content
	}
	cut := maxPageChars
	// Back off to a rune boundary so the cap never splits a
	// multi-byte character.
	for cut > 0 && !utf8.RuneStart(content[cut]) {
		cut--
	}
	return content[:cut]
}
