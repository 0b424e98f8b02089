package sales

import "fmt"

// ValidateLines rejects empty line sets and non-positive quantities before
// any transaction is opened.
func ValidateLines(lines []LineRequest) error {
	if len(lines) == 0 {
		return ErrEmptyLines
	}
	for i, line := range lines {
		if line.ProductID <= 0 {
			return fmt.Errorf("line %d: %w", i+1, ErrInvalidQuantity)
		}
		if line.Qty <= 0 {
			return fmt.Errorf("line %d: %w", i+1, ErrInvalidQuantity)
		}
	}
	return nil
}
