package book

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// CursorData is the skip/limit window encoded in a page cursor.
type CursorData struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// EncodeCursor encodes cursor data to a base64 string.
func EncodeCursor(data CursorData) string {
	if data.Limit <= 0 {
		return ""
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes a base64 cursor string to CursorData.
func DecodeCursor(cursor string) (CursorData, error) {
	if cursor == "" {
		return CursorData{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return CursorData{}, err
	}

	var data CursorData
	if err := json.Unmarshal(decoded, &data); err != nil {
		return CursorData{}, err
	}
	if data.Offset < 0 || data.Limit <= 0 {
		return CursorData{}, errors.New("cursor window out of range")
	}
	return data, nil
}

// NextCursor returns the cursor of the page after (offset, limit), or ""
// once total is exhausted.
func NextCursor(offset, limit, total int) string {
	if limit <= 0 || offset+limit >= total {
		return ""
	}
	return EncodeCursor(CursorData{Offset: offset + limit, Limit: limit})
}
