package struc

import (
	"strconv"
)

// parseTagValues splits a struct tag into key:"value" pairs in declaration order;
// parsing stops at the first malformed pair as reflect.StructTag.Lookup does.
func parseTagValues(tags string) (map[TagName]TagValue, []TagName) {
	tagNames := make([]TagName, 0)
	tagValues := make(map[TagName]TagValue)
	for tags != "" {
		pos := 0
		for pos < len(tags) && tags[pos] == ' ' {
			pos++
		}
		tags = tags[pos:]
		if tags == "" {
			break
		}

		pos = 0
		for pos < len(tags) && tags[pos] > ' ' && tags[pos] != ':' && tags[pos] != '"' && tags[pos] != 0x7f {
			pos++
		}
		if pos == 0 || pos+1 >= len(tags) || tags[pos] != ':' || tags[pos+1] != '"' {
			break
		}
		tagName := TagName(tags[:pos])
		tags = tags[pos+1:]

		pos = 1
		for pos < len(tags) && tags[pos] != '"' {
			if tags[pos] == '\\' {
				pos++
			}
			pos++
		}
		if pos >= len(tags) {
			break
		}
		quoted := tags[:pos+1]
		tags = tags[pos+1:]

		tagValue, err := strconv.Unquote(quoted)
		if err != nil {
			break
		}
		if _, ok := tagValues[tagName]; !ok {
			tagNames = append(tagNames, tagName)
			tagValues[tagName] = tagValue
		}
	}
	return tagValues, tagNames
}
