package main

import "regexp"

// The target page is not guaranteed to be well-formed HTML, so token recovery
// is a best-effort lexical scan over the raw markup rather than a DOM parse.
// Absence of a field is a normal outcome, never an error.

var (
	inputTagRe  = regexp.MustCompile(`(?is)<(?:input|button|select|textarea)\b[^>]*>`)
	nameAttrRe  = regexp.MustCompile(`(?is)\bname\s*=\s*["']([^"']*)["']`)
	valueAttrRe = regexp.MustCompile(`(?is)\bvalue\s*=\s*["']([^"']*)["']`)
)

// ExtractFormFieldNames returns the name attribute of every input-like
// element in document order. Used for diagnostic visibility only.
func ExtractFormFieldNames(html string) []string {
	var names []string
	for _, tag := range inputTagRe.FindAllString(html, -1) {
		if m := nameAttrRe.FindStringSubmatch(tag); m != nil {
			names = append(names, m[1])
		}
	}
	return names
}

// ExtractToken returns the value attribute of the first input-like element
// whose name attribute equals fieldName. Attribute order within the tag does
// not matter. The second return is false when no such element exists.
func ExtractToken(html, fieldName string) (string, bool) {
	for _, tag := range inputTagRe.FindAllString(html, -1) {
		m := nameAttrRe.FindStringSubmatch(tag)
		if m == nil || m[1] != fieldName {
			continue
		}
		if v := valueAttrRe.FindStringSubmatch(tag); v != nil {
			return v[1], true
		}
		// Matching element without a quoted value counts as a miss.
		return "", false
	}
	return "", false
}
