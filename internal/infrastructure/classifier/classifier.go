// Package classifier decides whether an account string is an email address
// or a mobile number. Classification is pure and stateless.
package classifier

import (
	"regexp"

	"github.com/litblc/account-service/internal/domain"
)

var (
	emailPattern  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	mobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

// Classify maps an account string to exactly one of email, mobile or
// unknown. The two patterns are disjoint (an email always contains '@',
// a mobile number never does), so no input matches both.
func Classify(account string) domain.AccountKind {
	if emailPattern.MatchString(account) {
		return domain.KindEmail
	}
	if mobilePattern.MatchString(account) {
		return domain.KindMobile
	}
	return domain.KindUnknown
}
