package models

import (
	"encoding/base64"
	"sort"
)

type PageInfo struct {
	StartCursor string `json:"startCursor"`
	EndCursor   string `json:"endCursor"`
	HasNextPage *bool  `json:"hasNextPage,omitempty"`
}

func DecodeCursor(cursor *string) (string, error) {
	decodedCursor := ""
	if cursor != nil {
		b, err := base64.StdEncoding.DecodeString(*cursor)
		if err != nil {
			return decodedCursor, err
		}
		decodedCursor = string(b)
	}
	return decodedCursor, nil
}

func EncodeCursor(cursor string) string {
	return base64.StdEncoding.EncodeToString([]byte(cursor))
}

// PaginateAssets pages a raw asset listing by id cursor. The listing is the
// one place untagged assets stay visible, so no tag filter happens here.
func PaginateAssets(assets []Asset, after *string, limit int) ([]Asset, PageInfo, error) {
	if limit <= 0 {
		limit = 20
	}

	sorted := make([]Asset, len(assets))
	copy(sorted, assets)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Id < sorted[j].Id })

	afterId, err := DecodeCursor(after)
	if err != nil {
		return nil, PageInfo{}, err
	}

	start := 0
	if afterId != "" {
		start = sort.Search(len(sorted), func(i int) bool { return sorted[i].Id > afterId })
	}

	end := start + limit
	hasNext := end < len(sorted)
	if end > len(sorted) {
		end = len(sorted)
	}
	page := sorted[start:end]

	info := PageInfo{HasNextPage: &hasNext}
	if len(page) > 0 {
		info.StartCursor = EncodeCursor(page[0].Id)
		info.EndCursor = EncodeCursor(page[len(page)-1].Id)
	}
	return page, info, nil
}
