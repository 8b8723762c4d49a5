package generator

import (
	"fmt"
	"unicode"
)

// Generated entities carry deterministic, template-derived attributes: the
// name "dataset.7", the description "Dataset number 7.", and the grouping
// pattern "dataset.7.*". The id in the template is the entity's own
// allocated id, so names are unique within a kind by construction.

func entityName(kind string, id int64) string {
	return fmt.Sprintf("%s.%d", kind, id)
}

func entityDescription(kind string, id int64) string {
	return fmt.Sprintf("%s number %d.", capitalize(kind), id)
}

func entityRegex(kind string, id int64) string {
	return fmt.Sprintf("%s.%d.*", kind, id)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
