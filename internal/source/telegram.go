package source

import (
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/kvadra-invest/catalog-cli/internal/model"
)

// minBodyRunes is the threshold below which a message without photos is
// considered service noise (joins, pins, stickers) rather than a listing.
const minBodyRunes = 20

// telegramDateLayout matches the export's localized date marker,
// e.g. "01.07.2024 12:30:15".
const telegramDateLayout = "02.01.2006 15:04:05"

// TelegramReader parses a Telegram channel HTML export. Message units
// are keyed by the `div.message` boundary marker and its numeric id;
// entity-escaped text is decoded and markup stripped by the HTML parser.
type TelegramReader struct{}

// Read produces one RawRecord per message that carries a non-trivial
// text body or at least one attached image reference.
func (t *TelegramReader) Read(path string) (Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, eris.Wrapf(err, "telegram: open %s", path)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return Batch{}, eris.Wrapf(err, "telegram: parse %s", path)
	}

	var batch Batch
	doc.Find("div.message").Each(func(_ int, sel *goquery.Selection) {
		id, ok := sel.Attr("id")
		if !ok || !strings.HasPrefix(id, "message") {
			batch.Skips = append(batch.Skips, model.SkipEntry{
				Identifier: "telegram:?",
				Reason:     model.SkipMalformed,
				Detail:     "message unit without id marker",
			})
			return
		}
		sourceID := "telegram:" + strings.TrimPrefix(id, "message")

		body := normalizeMessageText(sel.Find("div.text"))
		photos := collectPhotos(sel)

		if utf8.RuneCountInString(body) < minBodyRunes && len(photos) == 0 {
			return // service message, not a listing
		}

		rec := model.RawRecord{
			SourceID: sourceID,
			Source:   model.SourceTelegram,
			Body:     body,
			Photos:   photos,
		}
		if ts := parseMessageDate(sel); ts != nil {
			rec.SourceDate = ts
		}
		batch.Records = append(batch.Records, rec)
	})

	zap.L().Info("telegram: export read",
		zap.String("path", path),
		zap.Int("records", len(batch.Records)),
		zap.Int("skipped", len(batch.Skips)),
	)
	return batch, nil
}

// normalizeMessageText extracts visible text, keeping <br> boundaries as
// newlines so the extractor's first-line title rule still sees lines.
func normalizeMessageText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	html, err := sel.Html()
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	html = strings.ReplaceAll(html, "<br/>", "\n")
	html = strings.ReplaceAll(html, "<br>", "\n")
	frag, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(sel.Text())
	}
	lines := strings.Split(frag.Text(), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func collectPhotos(sel *goquery.Selection) []string {
	var photos []string
	sel.Find("a.photo_wrap").Each(func(_ int, a *goquery.Selection) {
		if href, ok := a.Attr("href"); ok && href != "" {
			photos = append(photos, href)
		}
	})
	sel.Find("img.photo").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && src != "" {
			photos = append(photos, src)
		}
	})
	return dedupe(photos)
}

func parseMessageDate(sel *goquery.Selection) *time.Time {
	title, ok := sel.Find("div.date").First().Attr("title")
	if !ok {
		return nil
	}
	if len(title) > len(telegramDateLayout) {
		title = title[:len(telegramDateLayout)]
	}
	ts, err := time.Parse(telegramDateLayout, title)
	if err != nil {
		return nil
	}
	return &ts
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, it := range items {
		if !seen[it] {
			out = append(out, it)
			seen[it] = true
		}
	}
	return out
}
