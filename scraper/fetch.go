package scraper

import (
	"context"
	"errors"

	"github.com/poiesic/saarthi/core"
)

// FetchChapter fetches verses 1, 2, ... of a chapter until the API reports
// a missing verse. Any other failure aborts the chapter.
func (c *Client) FetchChapter(ctx context.Context, chapter int) ([]core.VerseRecord, error) {
	var records []core.VerseRecord
	for verse := 1; ; verse++ {
		record, err := c.FetchVerse(ctx, chapter, verse)
		if errors.Is(err, ErrVerseNotFound) {
			break
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
	c.logger.Info("fetched chapter", "chapter", chapter, "verses", len(records))
	return records, nil
}

// FetchAll fetches the given chapters in order. When chapters is empty all
// 18 chapters are fetched. Records fetched before a failure are returned
// alongside the error.
func (c *Client) FetchAll(ctx context.Context, chapters []int) ([]core.VerseRecord, error) {
	if len(chapters) == 0 {
		chapters = make([]int, GitaChapters)
		for i := range chapters {
			chapters[i] = i + 1
		}
	}

	var all []core.VerseRecord
	for _, chapter := range chapters {
		records, err := c.FetchChapter(ctx, chapter)
		all = append(all, records...)
		if err != nil {
			return all, err
		}
	}
	c.logger.Info("fetch complete", "chapters", len(chapters), "verses", len(all))
	return all, nil
}
