package graph

import (
	"errors"
	"regexp"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

const constraintViolationCode = "Neo.ClientError.Schema.ConstraintValidationFailed"

// DuplicateError reports a uniqueness constraint violation on register.
// Field names the offending property so the form layer can attach the
// message to the right input.
type DuplicateError struct {
	Field   string
	Message string
}

func (e *DuplicateError) Error() string {
	return e.Message
}

// Constraint violation messages look like:
//
//	Node(42) already exists with label `Genre` and property `name_en` = 'fiction'
var regViolatedProperty = regexp.MustCompile("property `([^`]+)`")

// TranslateConstraintError converts a driver-level constraint violation
// into a DuplicateError. Every other error (connection failures
// included) passes through unchanged.
func TranslateConstraintError(err error) error {
	if err == nil {
		return nil
	}

	var neoErr *neo4j.Neo4jError
	if !errors.As(err, &neoErr) || neoErr.Code != constraintViolationCode {
		return err
	}

	field := ""
	if m := regViolatedProperty.FindStringSubmatch(neoErr.Msg); m != nil {
		field = m[1]
	}

	return &DuplicateError{Field: field, Message: neoErr.Msg}
}

func IsDuplicate(err error) bool {
	var de *DuplicateError
	return errors.As(err, &de)
}
