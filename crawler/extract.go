package crawler

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/lukemcguire/docgrab/result"
)

// ParseError reports HTML that could not be tokenized to the end.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse html: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Category implements result.Categorizer.
func (e *ParseError) Category() result.ErrorCategory {
	return result.CategoryParse
}

// ExtractLinks parses HTML from the given reader and returns the raw href
// values of all anchor tags, in document order, without duplicates.
// Empty hrefs are skipped. Values are not resolved or normalized.
//
// On a tokenizer error the links found so far are returned together with a
// *ParseError.
func ExtractLinks(body io.Reader) ([]string, error) {
	tokenizer := html.NewTokenizer(body)
	seen := make(map[string]bool)
	var links []string

	for {
		tokenType := tokenizer.Next()
		switch tokenType {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return links, &ParseError{Err: err}
			}
			return links, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := tokenizer.TagName()
			if string(name) != "a" || !hasAttr {
				continue
			}
			for {
				key, val, more := tokenizer.TagAttr()
				if string(key) == "href" {
					href := string(val)
					if href != "" && !seen[href] {
						seen[href] = true
						links = append(links, href)
					}
				}
				if !more {
					break
				}
			}
		}
	}
}
