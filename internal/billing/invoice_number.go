package billing

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewInvoiceNumber returns "<prefix>-yyyyMMdd-XXXXXXXX" where the suffix is
// the first eight characters of a random UUID, uppercased.
func NewInvoiceNumber(prefix string, issuedAt time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return fmt.Sprintf("%s-%s-%s", prefix, issuedAt.Format("20060102"), suffix)
}
