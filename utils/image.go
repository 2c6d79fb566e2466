package utils

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeBase64Image accepts a raw base64 payload or a data URI like
// "data:image/png;base64,...." and returns the bytes plus a file extension
// guessed from the mime type ("" when unknown).
func DecodeBase64Image(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", fmt.Errorf("empty base64 string")
	}

	ext := ""
	if strings.HasPrefix(s, "data:") {
		parts := strings.SplitN(s, ";base64,", 2)
		if len(parts) == 2 {
			s = parts[1]
			switch strings.TrimPrefix(parts[0], "data:") {
			case "image/png":
				ext = ".png"
			case "image/jpeg", "image/jpg":
				ext = ".jpg"
			case "image/gif":
				ext = ".gif"
			case "image/webp":
				ext = ".webp"
			}
		} else if idx := strings.Index(s, ","); idx != -1 {
			s = s[idx+1:]
		}
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		data, err = base64.URLEncoding.DecodeString(s)
		if err != nil {
			return nil, "", fmt.Errorf("base64 decode failed: %w", err)
		}
	}
	return data, ext, nil
}
