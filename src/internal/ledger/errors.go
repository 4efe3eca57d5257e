package ledger

// Code names a rejection reason. Codes are stable and safe to expose to
// clients; messages are for display.
type Code string

const (
	CodeMissingSelection  Code = "MISSING_SELECTION"
	CodeInvalidAmount     Code = "INVALID_AMOUNT"
	CodeInsufficientFunds Code = "INSUFFICIENT_FUNDS"
	CodeLimitExceeded     Code = "LIMIT_EXCEEDED"
	CodeSameAccount       Code = "SAME_ACCOUNT"
)

// RejectionError is an expected, user facing refusal of a monetary operation.
// Two rejections are equal under errors.Is when their codes match.
type RejectionError struct {
	Code    Code
	Message string
}

func (e *RejectionError) Error() string {
	return e.Message
}

func (e *RejectionError) Is(target error) bool {
	t, ok := target.(*RejectionError)
	return ok && t.Code == e.Code
}

var (
	ErrMissingSelection  = &RejectionError{Code: CodeMissingSelection, Message: "Please fill in all required fields"}
	ErrInvalidAmount     = &RejectionError{Code: CodeInvalidAmount, Message: "Please enter a valid amount greater than 0"}
	ErrInsufficientFunds = &RejectionError{Code: CodeInsufficientFunds, Message: "Insufficient funds in the selected account"}
	ErrLimitExceeded     = &RejectionError{Code: CodeLimitExceeded, Message: "Amount exceeds the daily limit"}
	ErrSameAccount       = &RejectionError{Code: CodeSameAccount, Message: "Please select different accounts for transfer"}
)

func reject(base *RejectionError, message string) *RejectionError {
	return &RejectionError{Code: base.Code, Message: message}
}
