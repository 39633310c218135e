package domain

import "time"

// Purpose is the reason a verification code was issued. It scopes code
// storage so the register and password-reset flows never collide.
type Purpose string

const (
	PurposeRegister      Purpose = "register"
	PurposePasswordReset Purpose = "password"
)

// CodeTTL is how long an issued verification code stays valid.
const CodeTTL = 600 * time.Second

// CodeLength is the number of digits in a verification code.
const CodeLength = 6
