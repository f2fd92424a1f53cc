// Package numbering assigns display reference numbers. Numbers are assigned
// once at creation and never change; uniqueness is enforced by the database.
package numbering

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func suffix() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

func LeadRef(now time.Time) string {
	return fmt.Sprintf("LD-%s-%s", now.Format("20060102"), suffix())
}

func QuotationNumber(now time.Time) string {
	return fmt.Sprintf("SQ-%s-%s", now.Format("20060102"), suffix())
}

func OrderNumber(now time.Time) string {
	return fmt.Sprintf("SO-%s-%s", now.Format("20060102"), suffix())
}
