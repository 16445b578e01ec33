// Package qr parses the payload of Russian fiscal receipt QR codes. Image
// decoding is not handled here: the chat transport receives the payload
// string from whatever decoded the photo.
package qr

import (
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Receipt is the structured content of a fiscal receipt QR payload, e.g.
// "t=20200727T1747&s=4720.00&fn=9282000100043165&i=17179&fp=4178047752&n=1".
type Receipt struct {
	Timestamp     time.Time
	Sum           decimal.Decimal
	FiscalNumber  string // fn: fiscal storage number
	DocumentID    string // i: fiscal document number
	FiscalSign    string // fp
	OperationType string // n: 1 is a sale, 2 a refund
}

// Receipt timestamps appear both with and without seconds.
var timeLayouts = []string{"20060102T150405", "20060102T1504"}

// LooksLikePayload reports whether a text message is a pasted receipt QR
// payload rather than a transaction phrase.
func LooksLikePayload(text string) bool {
	values, err := url.ParseQuery(text)
	if err != nil {
		return false
	}
	return values.Get("s") != "" && values.Get("fn") != ""
}

// ParsePayload decodes a receipt QR payload string.
func ParsePayload(payload string) (Receipt, error) {
	values, err := url.ParseQuery(payload)
	if err != nil {
		return Receipt{}, fmt.Errorf("parse receipt payload: %w", err)
	}

	sumStr := values.Get("s")
	if sumStr == "" {
		return Receipt{}, fmt.Errorf("receipt payload has no sum field")
	}
	sum, err := decimal.NewFromString(sumStr)
	if err != nil {
		return Receipt{}, fmt.Errorf("parse receipt sum %q: %w", sumStr, err)
	}

	receipt := Receipt{
		Sum:           sum,
		FiscalNumber:  values.Get("fn"),
		DocumentID:    values.Get("i"),
		FiscalSign:    values.Get("fp"),
		OperationType: values.Get("n"),
	}

	if ts := values.Get("t"); ts != "" {
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, ts); err == nil {
				receipt.Timestamp = parsed
				break
			}
		}
		if receipt.Timestamp.IsZero() {
			return Receipt{}, fmt.Errorf("parse receipt timestamp %q", ts)
		}
	}

	return receipt, nil
}
