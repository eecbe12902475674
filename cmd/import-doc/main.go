package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	pdf "github.com/dslipak/pdf"
	"github.com/medassist/medichat/internal/config"
	"github.com/medassist/medichat/internal/db"
	"github.com/medassist/medichat/internal/kb"
	"github.com/medassist/medichat/internal/llm"
	"golang.org/x/net/html"
)

// maxChunkLen is the maximum size of one knowledge-base chunk in bytes.
const maxChunkLen = 2000

func main() {
	fromFiles := flag.Bool("from-files", false, "import from local files (.md/.txt/.html/.pdf)")
	pathFlag := flag.String("path", "", "base directory for local files")
	fromURL := flag.Bool("from-url", false, "import by crawling a website")
	baseURLFlag := flag.String("base-url", "", "base URL to crawl (e.g. https://www.who.int/health-topics)")
	maxPagesFlag := flag.Int("max-pages", 50, "page limit for the crawl")
	sourceFlag := flag.String("source", "", "label stored with every chunk (e.g. who, cdc)")
	flag.Parse()

	if !*fromFiles && !*fromURL {
		log.Fatal("use at least one mode: --from-files or --from-url")
	}

	ctx := context.Background()
	cfg := config.Load()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required for import")
	}
	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to knowledge base", "error", err)
	}
	defer pool.Close()

	repo := kb.NewPgRepository(pool)

	geminiClient, err := llm.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatal("failed to init gemini embeddings", "error", err)
	}

	if *fromFiles {
		if *pathFlag == "" {
			log.Fatal("--path is required with --from-files")
		}
		if err := importFromFiles(ctx, repo, geminiClient, *pathFlag, *sourceFlag); err != nil {
			log.Fatal("file import failed", "error", err)
		}
	}

	if *fromURL {
		if *baseURLFlag == "" {
			log.Fatal("--base-url is required with --from-url")
		}
		if err := importFromHTTP(ctx, repo, geminiClient, *baseURLFlag, *sourceFlag, *maxPagesFlag); err != nil {
			log.Fatal("crawl import failed", "error", err)
		}
	}

	log.Info("import finished")
}

func importFromFiles(
	ctx context.Context,
	repo *kb.PgRepository,
	gemini *llm.GeminiClient,
	rootPath, source string,
) error {
	log.Info("importing local medical documents", "path", rootPath, "source", source)

	return filepath.WalkDir(rootPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !isTextFile(path) {
			return nil
		}

		lpath := strings.ToLower(path)
		var content string

		switch {
		case strings.HasSuffix(lpath, ".pdf"):
			text, err := extractTextFromPDF(path)
			if err != nil {
				return fmt.Errorf("read pdf %s: %w", path, err)
			}
			content = text

		case strings.HasSuffix(lpath, ".html") || strings.HasSuffix(lpath, ".htm"):
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			content = extractMainText(string(data))

		default:
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			content = string(data)
		}

		content = strings.TrimSpace(content)
		content = kb.SanitizeUTF8(content)
		if content == "" {
			return nil
		}

		title := filenameToTitle(path)
		return chunkAndStore(ctx, repo, gemini, title, source, content)
	})
}

func importFromHTTP(
	ctx context.Context,
	repo *kb.PgRepository,
	gemini *llm.GeminiClient,
	baseURL, source string,
	maxPages int,
) error {
	log.Info("crawling medical site", "base", baseURL, "maxPages", maxPages)

	base, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base-url: %w", err)
	}

	visited := make(map[string]bool)
	queue := []string{base.String()}
	pages := 0

	for len(queue) > 0 && pages < maxPages {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true
		pages++

		log.Info("fetching page", "url", current)
		resp, err := http.Get(current)
		if err != nil {
			log.Warn("GET failed", "url", current, "error", err)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			log.Warn("unexpected status", "url", current, "status", resp.StatusCode)
			resp.Body.Close()
			continue
		}

		bodyBytes, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			log.Warn("read body failed", "url", current, "error", err)
			continue
		}

		htmlStr := string(bodyBytes)
		text := extractMainText(htmlStr)
		text = strings.TrimSpace(text)
		text = kb.SanitizeUTF8(text)
		if text != "" {
			title := urlToTitle(current, base)
			if err := chunkAndStore(ctx, repo, gemini, title, current, text); err != nil {
				log.Warn("failed to store chunks", "url", current, "error", err)
			}
		}

		for _, link := range extractLinks(htmlStr, base) {
			if !visited[link] {
				queue = append(queue, link)
			}
		}
	}

	return nil
}

func chunkAndStore(
	ctx context.Context,
	repo *kb.PgRepository,
	gemini *llm.GeminiClient,
	title, sourceURL, content string,
) error {
	chunks := kb.SplitContent(content, maxChunkLen)
	if len(chunks) == 0 {
		return nil
	}

	for i, c := range chunks {
		c = strings.TrimSpace(c)
		c = kb.SanitizeUTF8(c)
		if c == "" {
			continue
		}

		chunkTitle := title
		if len(chunks) > 1 {
			chunkTitle = fmt.Sprintf("%s (part %d)", title, i+1)
		}

		doc := &kb.DocChunk{
			Category:  kb.DetectCategory(c),
			Title:     chunkTitle,
			Content:   c,
			SourceURL: sourceURL,
			Tags:      kb.DetectTags(c),
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		vec, err := gemini.Embed(ctx, c)
		if err != nil {
			return fmt.Errorf("embedding error: %w", err)
		}

		id, err := repo.InsertChunk(ctx, doc, vec)
		if err != nil {
			return fmt.Errorf("insert chunk error: %w", err)
		}

		log.Info("chunk imported", "id", id, "category", doc.Category, "len", len(c), "title", chunkTitle)
	}

	return nil
}

func isTextFile(path string) bool {
	l := strings.ToLower(path)
	return strings.HasSuffix(l, ".md") ||
		strings.HasSuffix(l, ".txt") ||
		strings.HasSuffix(l, ".html") ||
		strings.HasSuffix(l, ".htm") ||
		strings.HasSuffix(l, ".pdf")
}

func filenameToTitle(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "-", " ")
	return strings.TrimSpace(base)
}

func urlToTitle(raw string, base *url.URL) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Path == base.Path || u.Path == base.Path+"/" {
		return "Overview"
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	last := parts[len(parts)-1]
	last = strings.SplitN(last, ".", 2)[0]
	last = strings.ReplaceAll(last, "-", " ")
	return strings.TrimSpace(last)
}

func extractMainText(htmlStr string) string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node, bool)

	walk = func(n *html.Node, skip bool) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript":
				skip = true
			}
		}

		if n.Type == html.TextNode && !skip {
			t := strings.TrimSpace(n.Data)
			if t != "" {
				b.WriteString(t)
				b.WriteString("\n")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, skip)
		}
	}
	walk(doc, false)

	lines := strings.Split(b.String(), "\n")
	var filtered []string
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l != "" && len(l) > 1 {
			filtered = append(filtered, l)
		}
	}
	return strings.Join(filtered, "\n")
}

func extractLinks(htmlStr string, base *url.URL) []string {
	doc, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}
	var links []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key == "href" {
					h := strings.TrimSpace(a.Val)
					if h == "" || strings.HasPrefix(h, "#") {
						continue
					}
					u, err := url.Parse(h)
					if err != nil {
						continue
					}
					u = base.ResolveReference(u)

					if u.Host != base.Host {
						continue
					}

					if strings.HasSuffix(u.Path, ".css") ||
						strings.HasSuffix(u.Path, ".js") ||
						strings.HasSuffix(u.Path, ".png") ||
						strings.HasSuffix(u.Path, ".jpg") ||
						strings.HasSuffix(u.Path, ".svg") {
						continue
					}

					link := u.Scheme + "://" + u.Host + u.Path
					links = append(links, link)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	seen := make(map[string]bool)
	var out []string
	for _, l := range links {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

func extractTextFromPDF(path string) (string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	buf := bytes.NewBuffer(nil)
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}

	text := strings.TrimSpace(buf.String())
	return kb.SanitizeUTF8(text), nil
}
