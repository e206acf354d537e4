// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package viewer

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
)

// findMatches returns the rune offsets, in text, of every non-overlapping,
// case-insensitive occurrence of query. Folding can change length ("ß" folds
// to "ss"), so each folded byte remembers the source rune it came from.
func findMatches(folder cases.Caser, text, query string) []int {
	foldedQuery, _ := foldRunes(folder, query)
	if foldedQuery == "" {
		return nil
	}
	foldedText, owner := foldRunes(folder, text)

	var (
		offsets   []int
		byteStart int
	)
	for {
		index := strings.Index(foldedText[byteStart:], foldedQuery)
		if index < 0 {
			return offsets
		}

		offsets = append(offsets, owner[byteStart+index])
		byteStart += index + len(foldedQuery)
	}
}

// foldRunes case-folds s one rune at a time. owner[i] is the rune index in s
// that produced byte i of the folded string.
func foldRunes(folder cases.Caser, s string) (string, []int) {
	var (
		builder strings.Builder
		owner   = make([]int, 0, len(s))
		index   int
	)
	for _, r := range s {
		folded := folder.String(string(r))
		builder.WriteString(folded)
		for range len(folded) {
			owner = append(owner, index)
		}
		index++
	}
	return builder.String(), owner
}

// searchDocument scans pages in order. Pages whose text cannot be extracted
// are skipped. It returns ok=false when ctx is cancelled before the scan ends.
func searchDocument(ctx context.Context, document Document, query string, logger *slog.Logger) (results []Match, ok bool) {
	folder := cases.Fold()

	for page := 1; page <= document.PageCount(); page++ {
		if ctx.Err() != nil {
			return nil, false
		}

		text, err := document.PageText(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, false
			}
			logger.Warn("viewer_search_page_skipped",
				slog.Int("page", page),
				slog.String("error", err.Error()),
			)
			continue
		}

		for _, offset := range findMatches(folder, text, query) {
			results = append(results, Match{Page: page, Offset: offset})
		}
	}

	return results, true
}
