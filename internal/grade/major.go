package grade

import "strings"

// MajorKeywords mark a course as a major course when found anywhere in its classification text.
var MajorKeywords = []string{"전선", "전필", "전공선택", "전공필수", "학필"}

func IsMajor(classification string) bool {
	if classification == "" {
		return false
	}
	for _, kw := range MajorKeywords {
		if strings.Contains(classification, kw) {
			return true
		}
	}
	return false
}
