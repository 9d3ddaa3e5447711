package iliad

import (
	"bytes"
	"fmt"
	"strings"

	"iliad-account/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	// RenewClass marks the element holding the renewal date of the offer.
	RenewClass = "end_offerta"
	// UsageBlockClass marks the container of a single usage category.
	UsageBlockClass = "conso__text"
	// HighlightClass marks the consumed amount inside a usage block.
	HighlightClass = "red"
)

// Extract parses the account page and updates `record` in place.
//
// Only the fields found on the page are written: a missing renewal marker or
// maximum leaves the previous value in place. If a number cannot be parsed a
// *ParseError is returned and `record` is left untouched.
func Extract(body []byte, record *CreditRecord) error {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	return ExtractDocument(doc, record)
}

// ExtractDocument is Extract for an already parsed document.
func ExtractDocument(doc *goquery.Document, record *CreditRecord) error {
	updated := record.Clone()

	renew := doc.Find("." + RenewClass)
	if renew.Length() == 1 {
		text := htmlutil.TrimmedText(renew)
		updated.Renew = &text
	}

	var extractErr error
	doc.Find("." + UsageBlockClass).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		extractErr = extractUsageBlock(block, &updated)
		return extractErr == nil
	})
	if extractErr != nil {
		return extractErr
	}

	*record = updated
	return nil
}

func extractUsageBlock(block *goquery.Selection, record *CreditRecord) error {
	var blockErr error
	block.Find("." + HighlightClass).EachWithBreak(func(_ int, value *goquery.Selection) bool {
		amount, ok, err := ParseAmount(htmlutil.TrimmedText(value))
		if err != nil {
			blockErr = err
			return false
		}
		if !ok {
			return true
		}
		amount.applyTo(record)

		maxText, found := htmlutil.FirstDirectTextWithPrefix(block, "/")
		if !found {
			return true
		}
		maxText = strings.TrimSpace(strings.TrimPrefix(maxText, "/"))
		if Classify(maxText) != amount.Category {
			return true
		}
		limit, _, err := ParseAmount(maxText)
		if err != nil {
			blockErr = err
			return false
		}
		limit.applyMaxTo(record)
		return true
	})
	return blockErr
}
